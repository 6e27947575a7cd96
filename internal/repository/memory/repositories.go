package memory

import (
	"context"
	"time"

	"storefront/internal/domain"
	"storefront/internal/repository"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type userRepository struct{ s *Store }

func (r *userRepository) Create(ctx context.Context, user *domain.User) error {
	if err := r.s.lock("users.Create"); err != nil {
		r.s.mu.Unlock()
		return err
	}
	defer r.s.mu.Unlock()

	for _, existing := range r.s.users {
		if existing.Username == user.Username {
			return repository.ErrUserAlreadyExists
		}
	}
	r.s.users[user.ID] = *user
	r.s.track(user.ID)
	return nil
}

func (r *userRepository) FindByUsername(ctx context.Context, username string) (*domain.User, error) {
	if err := r.s.lock("users.FindByUsername"); err != nil {
		r.s.mu.Unlock()
		return nil, err
	}
	defer r.s.mu.Unlock()

	for _, user := range r.s.users {
		if user.Username == username {
			return &user, nil
		}
	}
	return nil, repository.ErrUserNotFound
}

func (r *userRepository) FindByID(ctx context.Context, id uuid.UUID) (*domain.User, error) {
	if err := r.s.lock("users.FindByID"); err != nil {
		r.s.mu.Unlock()
		return nil, err
	}
	defer r.s.mu.Unlock()

	user, ok := r.s.users[id]
	if !ok {
		return nil, repository.ErrUserNotFound
	}
	return &user, nil
}

type sessionRepository struct{ s *Store }

func (r *sessionRepository) Create(ctx context.Context, session *domain.Session) error {
	if err := r.s.lock("sessions.Create"); err != nil {
		r.s.mu.Unlock()
		return err
	}
	defer r.s.mu.Unlock()

	r.s.sessions[session.ID] = *session
	r.s.track(session.ID)
	return nil
}

func (r *sessionRepository) FindByID(ctx context.Context, id uuid.UUID) (*domain.Session, error) {
	if err := r.s.lock("sessions.FindByID"); err != nil {
		r.s.mu.Unlock()
		return nil, err
	}
	defer r.s.mu.Unlock()

	session, ok := r.s.sessions[id]
	if !ok {
		return nil, repository.ErrSessionNotFound
	}
	if session.Revoked {
		return nil, repository.ErrSessionRevoked
	}
	return &session, nil
}

func (r *sessionRepository) Revoke(ctx context.Context, id uuid.UUID) error {
	if err := r.s.lock("sessions.Revoke"); err != nil {
		r.s.mu.Unlock()
		return err
	}
	defer r.s.mu.Unlock()

	session, ok := r.s.sessions[id]
	if !ok {
		return repository.ErrSessionNotFound
	}
	session.Revoked = true
	r.s.sessions[id] = session
	return nil
}

type productRepository struct{ s *Store }

func (r *productRepository) Create(ctx context.Context, product *domain.Product) error {
	if err := r.s.lock("products.Create"); err != nil {
		r.s.mu.Unlock()
		return err
	}
	defer r.s.mu.Unlock()

	stored := *product
	stored.AverageRating, stored.RatingCount = nil, 0
	r.s.products[product.ID] = stored
	r.s.track(product.ID)
	return nil
}

func (r *productRepository) Update(ctx context.Context, product *domain.Product) error {
	if err := r.s.lock("products.Update"); err != nil {
		r.s.mu.Unlock()
		return err
	}
	defer r.s.mu.Unlock()

	existing, ok := r.s.products[product.ID]
	if !ok {
		return repository.ErrProductNotFound
	}
	existing.Name = product.Name
	existing.Description = product.Description
	existing.Price = product.Price
	existing.UpdatedAt = product.UpdatedAt
	r.s.products[product.ID] = existing
	return nil
}

// Delete cascades like the ON DELETE CASCADE foreign keys
func (r *productRepository) Delete(ctx context.Context, id uuid.UUID) error {
	if err := r.s.lock("products.Delete"); err != nil {
		r.s.mu.Unlock()
		return err
	}
	defer r.s.mu.Unlock()

	if _, ok := r.s.products[id]; !ok {
		return repository.ErrProductNotFound
	}
	delete(r.s.products, id)

	for itemID, item := range r.s.cartItems {
		if item.ProductID == id {
			delete(r.s.cartItems, itemID)
		}
	}
	for orderID, order := range r.s.orders {
		if order.ProductID == id {
			delete(r.s.orders, orderID)
		}
	}
	for ratingID, rating := range r.s.ratings {
		if rating.ProductID == id {
			delete(r.s.ratings, ratingID)
		}
	}
	return nil
}

func (r *productRepository) FindByID(ctx context.Context, id uuid.UUID) (*domain.Product, error) {
	if err := r.s.lock("products.FindByID"); err != nil {
		r.s.mu.Unlock()
		return nil, err
	}
	defer r.s.mu.Unlock()

	product, ok := r.s.products[id]
	if !ok {
		return nil, repository.ErrProductNotFound
	}
	r.aggregate(&product)
	return &product, nil
}

func (r *productRepository) List(ctx context.Context) ([]*domain.Product, error) {
	if err := r.s.lock("products.List"); err != nil {
		r.s.mu.Unlock()
		return nil, err
	}
	defer r.s.mu.Unlock()

	products := make([]*domain.Product, 0, len(r.s.products))
	for _, product := range r.s.products {
		p := product
		r.aggregate(&p)
		products = append(products, &p)
	}
	sortBySeq(r.s, products, func(p *domain.Product) uuid.UUID { return p.ID }, false)
	return products, nil
}

// aggregate mirrors ROUND(AVG(rating), 2) over the product's ratings
func (r *productRepository) aggregate(product *domain.Product) {
	sum, count := 0, 0
	for _, rating := range r.s.ratings {
		if rating.ProductID == product.ID {
			sum += rating.Rating
			count++
		}
	}

	product.RatingCount = count
	product.AverageRating = nil
	if count > 0 {
		avg := decimal.NewFromInt(int64(sum)).DivRound(decimal.NewFromInt(int64(count)), 2)
		product.AverageRating = &avg
	}
}

type cartRepository struct{ s *Store }

func (r *cartRepository) GetOrCreate(ctx context.Context, customerID uuid.UUID) (*domain.Cart, error) {
	if err := r.s.lock("carts.GetOrCreate"); err != nil {
		r.s.mu.Unlock()
		return nil, err
	}
	defer r.s.mu.Unlock()

	if cart, ok := r.findByCustomer(customerID); ok {
		return &cart, nil
	}

	cart := domain.Cart{ID: uuid.New(), CustomerID: customerID, CreatedAt: time.Now()}
	r.s.carts[cart.ID] = cart
	r.s.track(cart.ID)
	return &cart, nil
}

func (r *cartRepository) FindByCustomer(ctx context.Context, customerID uuid.UUID) (*domain.Cart, error) {
	if err := r.s.lock("carts.FindByCustomer"); err != nil {
		r.s.mu.Unlock()
		return nil, err
	}
	defer r.s.mu.Unlock()

	cart, ok := r.findByCustomer(customerID)
	if !ok {
		return nil, repository.ErrCartNotFound
	}
	return &cart, nil
}

func (r *cartRepository) findByCustomer(customerID uuid.UUID) (domain.Cart, bool) {
	for _, cart := range r.s.carts {
		if cart.CustomerID == customerID {
			return cart, true
		}
	}
	return domain.Cart{}, false
}

func (r *cartRepository) IncrementItem(ctx context.Context, cartID, productID uuid.UUID, delta int) (*domain.CartItem, error) {
	if err := r.s.lock("carts.IncrementItem"); err != nil {
		r.s.mu.Unlock()
		return nil, err
	}
	defer r.s.mu.Unlock()

	if _, ok := r.s.carts[cartID]; !ok {
		return nil, repository.ErrCartNotFound
	}
	if _, ok := r.s.products[productID]; !ok {
		return nil, repository.ErrProductNotFound
	}

	for id, item := range r.s.cartItems {
		if item.CartID == cartID && item.ProductID == productID {
			item.Quantity += delta
			r.s.cartItems[id] = item
			return &item, nil
		}
	}

	item := domain.CartItem{ID: uuid.New(), CartID: cartID, ProductID: productID, Quantity: delta}
	r.s.cartItems[item.ID] = item
	r.s.track(item.ID)
	return &item, nil
}

func (r *cartRepository) ListItems(ctx context.Context, cartID uuid.UUID) ([]domain.CartItem, error) {
	if err := r.s.lock("carts.ListItems"); err != nil {
		r.s.mu.Unlock()
		return nil, err
	}
	defer r.s.mu.Unlock()

	items := []domain.CartItem{}
	for _, item := range r.s.cartItems {
		if item.CartID == cartID {
			item.Product = r.s.products[item.ProductID]
			items = append(items, item)
		}
	}
	sortBySeq(r.s, items, func(i domain.CartItem) uuid.UUID { return i.ID }, false)
	return items, nil
}

func (r *cartRepository) TakeItems(ctx context.Context, cartID uuid.UUID) ([]domain.CartItem, error) {
	if err := r.s.lock("carts.TakeItems"); err != nil {
		r.s.mu.Unlock()
		return nil, err
	}
	defer r.s.mu.Unlock()

	items := []domain.CartItem{}
	for _, item := range r.s.cartItems {
		if item.CartID == cartID {
			item.Product = r.s.products[item.ProductID]
			items = append(items, item)
		}
	}
	sortBySeq(r.s, items, func(i domain.CartItem) uuid.UUID { return i.ID }, false)

	for _, item := range items {
		delete(r.s.cartItems, item.ID)
	}
	return items, nil
}

type orderRepository struct{ s *Store }

func (r *orderRepository) Create(ctx context.Context, order *domain.Order) error {
	if err := r.s.lock("orders.Create"); err != nil {
		r.s.mu.Unlock()
		return err
	}
	defer r.s.mu.Unlock()

	stored := *order
	stored.ProductName, stored.CustomerUsername = "", ""
	r.s.orders[order.ID] = stored
	r.s.track(order.ID)
	return nil
}

func (r *orderRepository) FindByID(ctx context.Context, id uuid.UUID) (*domain.Order, error) {
	if err := r.s.lock("orders.FindByID"); err != nil {
		r.s.mu.Unlock()
		return nil, err
	}
	defer r.s.mu.Unlock()

	order, ok := r.s.orders[id]
	if !ok {
		return nil, repository.ErrOrderNotFound
	}
	r.join(&order)
	return &order, nil
}

func (r *orderRepository) FindForCustomer(ctx context.Context, id, customerID uuid.UUID) (*domain.Order, error) {
	if err := r.s.lock("orders.FindForCustomer"); err != nil {
		r.s.mu.Unlock()
		return nil, err
	}
	defer r.s.mu.Unlock()

	order, ok := r.s.orders[id]
	if !ok || order.CustomerID != customerID {
		return nil, repository.ErrOrderNotFound
	}
	r.join(&order)
	return &order, nil
}

func (r *orderRepository) ListAll(ctx context.Context, status *domain.OrderStatus) ([]*domain.Order, error) {
	if err := r.s.lock("orders.ListAll"); err != nil {
		r.s.mu.Unlock()
		return nil, err
	}
	defer r.s.mu.Unlock()

	return r.list(func(o domain.Order) bool { return status == nil || o.Status == *status }), nil
}

func (r *orderRepository) ListByCustomer(ctx context.Context, customerID uuid.UUID) ([]*domain.Order, error) {
	if err := r.s.lock("orders.ListByCustomer"); err != nil {
		r.s.mu.Unlock()
		return nil, err
	}
	defer r.s.mu.Unlock()

	return r.list(func(o domain.Order) bool { return o.CustomerID == customerID }), nil
}

// list returns matching orders newest first, like the SQL ORDER BY created_at DESC
func (r *orderRepository) list(match func(domain.Order) bool) []*domain.Order {
	orders := []*domain.Order{}
	for _, order := range r.s.orders {
		if match(order) {
			o := order
			r.join(&o)
			orders = append(orders, &o)
		}
	}
	sortBySeq(r.s, orders, func(o *domain.Order) uuid.UUID { return o.ID }, true)
	return orders
}

func (r *orderRepository) join(order *domain.Order) {
	order.ProductName = r.s.products[order.ProductID].Name
	order.CustomerUsername = r.s.users[order.CustomerID].Username
}

func (r *orderRepository) UpdateStatus(ctx context.Context, id uuid.UUID, status domain.OrderStatus) error {
	if err := r.s.lock("orders.UpdateStatus"); err != nil {
		r.s.mu.Unlock()
		return err
	}
	defer r.s.mu.Unlock()

	order, ok := r.s.orders[id]
	if !ok {
		return repository.ErrOrderNotFound
	}
	order.Status = status
	order.UpdatedAt = time.Now()
	r.s.orders[id] = order
	return nil
}

func (r *orderRepository) BulkUpdateStatus(ctx context.Context, ids []uuid.UUID, status domain.OrderStatus) (int64, error) {
	if err := r.s.lock("orders.BulkUpdateStatus"); err != nil {
		r.s.mu.Unlock()
		return 0, err
	}
	defer r.s.mu.Unlock()

	var updated int64
	seen := map[uuid.UUID]bool{}
	for _, id := range ids {
		order, ok := r.s.orders[id]
		if !ok || seen[id] {
			continue
		}
		seen[id] = true
		order.Status = status
		order.UpdatedAt = time.Now()
		r.s.orders[id] = order
		updated++
	}
	return updated, nil
}

type ratingRepository struct{ s *Store }

func (r *ratingRepository) Create(ctx context.Context, rating *domain.Rating) error {
	if err := r.s.lock("ratings.Create"); err != nil {
		r.s.mu.Unlock()
		return err
	}
	defer r.s.mu.Unlock()

	if _, ok := r.s.products[rating.ProductID]; !ok {
		return repository.ErrProductNotFound
	}
	r.s.ratings[rating.ID] = *rating
	r.s.track(rating.ID)
	return nil
}

func (r *ratingRepository) ListByProduct(ctx context.Context, productID uuid.UUID) ([]*domain.Rating, error) {
	if err := r.s.lock("ratings.ListByProduct"); err != nil {
		r.s.mu.Unlock()
		return nil, err
	}
	defer r.s.mu.Unlock()

	ratings := []*domain.Rating{}
	for _, rating := range r.s.ratings {
		if rating.ProductID == productID {
			rt := rating
			ratings = append(ratings, &rt)
		}
	}
	sortBySeq(r.s, ratings, func(rt *domain.Rating) uuid.UUID { return rt.ID }, true)
	return ratings, nil
}

type addressRepository struct{ s *Store }

func (r *addressRepository) Create(ctx context.Context, address *domain.Address) error {
	if err := r.s.lock("addresses.Create"); err != nil {
		r.s.mu.Unlock()
		return err
	}
	defer r.s.mu.Unlock()

	r.s.addresses[address.ID] = *address
	r.s.track(address.ID)
	return nil
}

func (r *addressRepository) ListByCustomer(ctx context.Context, customerID uuid.UUID) ([]*domain.Address, error) {
	if err := r.s.lock("addresses.ListByCustomer"); err != nil {
		r.s.mu.Unlock()
		return nil, err
	}
	defer r.s.mu.Unlock()

	addresses := []*domain.Address{}
	for _, address := range r.s.addresses {
		if address.CustomerID == customerID {
			a := address
			addresses = append(addresses, &a)
		}
	}
	sortBySeq(r.s, addresses, func(a *domain.Address) uuid.UUID { return a.ID }, false)
	return addresses, nil
}
