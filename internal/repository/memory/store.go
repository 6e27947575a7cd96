// Package memory is an in-memory implementation of the repository
// interfaces. It mirrors the constraints of the SQL schema (unique carts and
// cart lines, cascading product deletes) and is safe for concurrent use.
package memory

import (
	"context"
	"sort"
	"sync"

	"storefront/internal/domain"
	"storefront/internal/repository"

	"github.com/google/uuid"
)

// Store holds every table in memory
type Store struct {
	mu   sync.Mutex
	txMu sync.Mutex

	users     map[uuid.UUID]domain.User
	sessions  map[uuid.UUID]domain.Session
	products  map[uuid.UUID]domain.Product
	carts     map[uuid.UUID]domain.Cart
	cartItems map[uuid.UUID]domain.CartItem
	orders    map[uuid.UUID]domain.Order
	ratings   map[uuid.UUID]domain.Rating
	addresses map[uuid.UUID]domain.Address

	// insertion order, shared by every table
	seq  map[uuid.UUID]int64
	next int64

	failures map[string]error
}

// NewStore creates an empty store
func NewStore() *Store {
	return &Store{
		users:     map[uuid.UUID]domain.User{},
		sessions:  map[uuid.UUID]domain.Session{},
		products:  map[uuid.UUID]domain.Product{},
		carts:     map[uuid.UUID]domain.Cart{},
		cartItems: map[uuid.UUID]domain.CartItem{},
		orders:    map[uuid.UUID]domain.Order{},
		ratings:   map[uuid.UUID]domain.Rating{},
		addresses: map[uuid.UUID]domain.Address{},
		seq:       map[uuid.UUID]int64{},
		failures:  map[string]error{},
	}
}

// Repositories returns every repository backed by s
func (s *Store) Repositories() repository.Repositories {
	return repository.Repositories{
		Users:     &userRepository{s},
		Sessions:  &sessionRepository{s},
		Products:  &productRepository{s},
		Carts:     &cartRepository{s},
		Orders:    &orderRepository{s},
		Ratings:   &ratingRepository{s},
		Addresses: &addressRepository{s},
	}
}

// Transactor returns a Transactor whose rollback restores the state s had
// when the transaction began
func (s *Store) Transactor() repository.Transactor {
	return &transactor{s}
}

// FailOn makes the named operation (for example "orders.Create") return err
// until cleared with a nil err
func (s *Store) FailOn(op string, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err == nil {
		delete(s.failures, op)
		return
	}
	s.failures[op] = err
}

// Count returns the number of rows in the named table
func (s *Store) Count(table string) int {
	s.mu.Lock()
	defer s.mu.Unlock()

	switch table {
	case "users":
		return len(s.users)
	case "sessions":
		return len(s.sessions)
	case "products":
		return len(s.products)
	case "carts":
		return len(s.carts)
	case "cart_items":
		return len(s.cartItems)
	case "orders":
		return len(s.orders)
	case "ratings":
		return len(s.ratings)
	case "addresses":
		return len(s.addresses)
	}
	return 0
}

// Addresses returns every stored address
func (s *Store) Addresses() []domain.Address {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]domain.Address, 0, len(s.addresses))
	for _, a := range s.addresses {
		out = append(out, a)
	}
	sortBySeq(s, out, func(a domain.Address) uuid.UUID { return a.ID }, false)
	return out
}

// lock must be paired with s.mu.Unlock; it returns the injected failure for op
func (s *Store) lock(op string) error {
	s.mu.Lock()
	return s.failures[op]
}

func (s *Store) track(id uuid.UUID) {
	s.next++
	s.seq[id] = s.next
}

// sortBySeq orders items by insertion, newest first when desc is set
func sortBySeq[T any](s *Store, items []T, id func(T) uuid.UUID, desc bool) {
	sort.SliceStable(items, func(i, j int) bool {
		a, b := s.seq[id(items[i])], s.seq[id(items[j])]
		if desc {
			return a > b
		}
		return a < b
	})
}

type snapshot struct {
	users     map[uuid.UUID]domain.User
	sessions  map[uuid.UUID]domain.Session
	products  map[uuid.UUID]domain.Product
	carts     map[uuid.UUID]domain.Cart
	cartItems map[uuid.UUID]domain.CartItem
	orders    map[uuid.UUID]domain.Order
	ratings   map[uuid.UUID]domain.Rating
	addresses map[uuid.UUID]domain.Address
	seq       map[uuid.UUID]int64
	next      int64
}

func clone[K comparable, V any](m map[K]V) map[K]V {
	out := make(map[K]V, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}

func (s *Store) save() snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()

	return snapshot{
		users:     clone(s.users),
		sessions:  clone(s.sessions),
		products:  clone(s.products),
		carts:     clone(s.carts),
		cartItems: clone(s.cartItems),
		orders:    clone(s.orders),
		ratings:   clone(s.ratings),
		addresses: clone(s.addresses),
		seq:       clone(s.seq),
		next:      s.next,
	}
}

func (s *Store) restore(snap snapshot) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.users = snap.users
	s.sessions = snap.sessions
	s.products = snap.products
	s.carts = snap.carts
	s.cartItems = snap.cartItems
	s.orders = snap.orders
	s.ratings = snap.ratings
	s.addresses = snap.addresses
	s.seq = snap.seq
	s.next = snap.next
}

type transactor struct {
	s *Store
}

// WithinTx serializes transactions against each other. Writes made outside a
// transaction while one is running are lost on rollback.
func (t *transactor) WithinTx(ctx context.Context, fn func(repos repository.Repositories) error) error {
	t.s.txMu.Lock()
	defer t.s.txMu.Unlock()

	snap := t.s.save()
	if err := fn(t.s.Repositories()); err != nil {
		t.s.restore(snap)
		return err
	}
	return nil
}
