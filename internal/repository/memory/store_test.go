package memory

import (
	"context"
	"errors"
	"testing"
	"time"

	"storefront/internal/domain"
	"storefront/internal/repository"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
	"golang.org/x/sync/errgroup"
)

type StoreTestSuite struct {
	suite.Suite
	store    *Store
	repos    repository.Repositories
	customer uuid.UUID
	product  *domain.Product
}

func (s *StoreTestSuite) SetupTest() {
	ctx := context.Background()
	s.store = NewStore()
	s.repos = s.store.Repositories()

	user := &domain.User{ID: uuid.New(), Username: "ada", Email: "ada@example.com", PasswordHash: "x", Role: domain.RoleCustomer}
	s.Require().NoError(s.repos.Users.Create(ctx, user))
	s.customer = user.ID

	s.product = &domain.Product{ID: uuid.New(), Name: "Globe", Price: decimal.RequireFromString("12.40")}
	s.Require().NoError(s.repos.Products.Create(ctx, s.product))
}

func TestStoreTestSuite(t *testing.T) {
	suite.Run(t, new(StoreTestSuite))
}

func (s *StoreTestSuite) TestUniqueUsername() {
	err := s.repos.Users.Create(context.Background(), &domain.User{ID: uuid.New(), Username: "ada"})
	assert.ErrorIs(s.T(), err, repository.ErrUserAlreadyExists)
	assert.Equal(s.T(), 1, s.store.Count("users"))
}

func (s *StoreTestSuite) TestConcurrentIncrements() {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	const workers = 50
	g, ctx := errgroup.WithContext(ctx)
	for i := 0; i < workers; i++ {
		g.Go(func() error {
			cart, err := s.repos.Carts.GetOrCreate(ctx, s.customer)
			if err != nil {
				return err
			}
			_, err = s.repos.Carts.IncrementItem(ctx, cart.ID, s.product.ID, 1)
			return err
		})
	}
	require.NoError(s.T(), g.Wait())

	assert.Equal(s.T(), 1, s.store.Count("carts"))
	assert.Equal(s.T(), 1, s.store.Count("cart_items"))

	cart, err := s.repos.Carts.FindByCustomer(context.Background(), s.customer)
	require.NoError(s.T(), err)
	items, err := s.repos.Carts.ListItems(context.Background(), cart.ID)
	require.NoError(s.T(), err)
	require.Len(s.T(), items, 1)
	assert.Equal(s.T(), workers, items[0].Quantity)
	assert.Equal(s.T(), "Globe", items[0].Product.Name)
}

func (s *StoreTestSuite) TestTransactorRollback() {
	ctx := context.Background()
	boom := errors.New("boom")

	err := s.store.Transactor().WithinTx(ctx, func(repos repository.Repositories) error {
		if err := repos.Addresses.Create(ctx, &domain.Address{ID: uuid.New(), CustomerID: s.customer, City: "Oslo"}); err != nil {
			return err
		}
		return boom
	})
	assert.ErrorIs(s.T(), err, boom)
	assert.Empty(s.T(), s.store.Addresses())

	err = s.store.Transactor().WithinTx(ctx, func(repos repository.Repositories) error {
		return repos.Addresses.Create(ctx, &domain.Address{ID: uuid.New(), CustomerID: s.customer, City: "Oslo"})
	})
	require.NoError(s.T(), err)
	assert.Len(s.T(), s.store.Addresses(), 1)
}

func (s *StoreTestSuite) TestFailOn() {
	ctx := context.Background()
	injected := errors.New("connection reset")

	s.store.FailOn("products.List", injected)
	_, err := s.repos.Products.List(ctx)
	assert.ErrorIs(s.T(), err, injected)

	s.store.FailOn("products.List", nil)
	products, err := s.repos.Products.List(ctx)
	require.NoError(s.T(), err)
	assert.Len(s.T(), products, 1)
}

func (s *StoreTestSuite) TestOrdersNewestFirst() {
	ctx := context.Background()
	var ids []uuid.UUID
	for i := 0; i < 3; i++ {
		order := &domain.Order{ID: uuid.New(), CustomerID: s.customer, ProductID: s.product.ID, Quantity: i + 1, Status: domain.OrderStatusPending}
		require.NoError(s.T(), s.repos.Orders.Create(ctx, order))
		ids = append(ids, order.ID)
	}

	orders, err := s.repos.Orders.ListByCustomer(ctx, s.customer)
	require.NoError(s.T(), err)
	require.Len(s.T(), orders, 3)
	assert.Equal(s.T(), ids[2], orders[0].ID)
	assert.Equal(s.T(), ids[0], orders[2].ID)
	assert.Equal(s.T(), "Globe", orders[0].ProductName)
	assert.Equal(s.T(), "ada", orders[0].CustomerUsername)
}
