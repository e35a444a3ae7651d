package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/suite"
	"github.com/wparames/honeymart/internal/lock"
	"github.com/wparames/honeymart/internal/models"
	"github.com/wparames/honeymart/internal/testutil"
)

type CheckoutServiceTestSuite struct {
	suite.Suite
	testDB   *testutil.TestDatabase
	redis    *testutil.TestRedis
	cart     *CartService
	checkout *CheckoutService
	user     *models.User
	product  *models.Product
}

func (s *CheckoutServiceTestSuite) SetupTest() {
	s.testDB = testutil.SetupTestDatabase(s.T())
	s.redis = testutil.SetupTestRedis(s.T())

	s.cart = NewCartService(s.redis.Client)
	s.checkout = NewCheckoutService(s.testDB.DB, s.cart, lock.Noop{})

	user, err := testutil.DefaultTestUser()
	s.Require().NoError(err)
	s.Require().NoError(s.testDB.DB.Create(user).Error)
	s.user = user

	product := testutil.CreateTestProduct("Organic Honey", 499, 10)
	s.Require().NoError(s.testDB.DB.Create(product).Error)
	s.product = product
}

func (s *CheckoutServiceTestSuite) TearDownTest() {
	s.redis.Teardown(s.T())
	s.testDB.Teardown(s.T())
}

func (s *CheckoutServiceTestSuite) TestCartAddAndGet() {
	ctx := context.Background()

	items, err := s.cart.Add(ctx, s.user.ID, s.product)
	s.NoError(err)
	s.Len(items, 1)
	s.Equal(1, items[0].Quantity)

	// Adding the same product again increments the quantity
	items, err = s.cart.Add(ctx, s.user.ID, s.product)
	s.NoError(err)
	s.Len(items, 1)
	s.Equal(2, items[0].Quantity)
	s.Equal(998.0, Total(items))

	fetched, err := s.cart.Get(ctx, s.user.ID)
	s.NoError(err)
	s.Equal(items, fetched)
}

func (s *CheckoutServiceTestSuite) TestCartAddOutOfStock() {
	soldOut := testutil.CreateTestProduct("Sold Out", 100, 0)
	s.Require().NoError(s.testDB.DB.Create(soldOut).Error)

	_, err := s.cart.Add(context.Background(), s.user.ID, soldOut)
	s.ErrorIs(err, ErrOutOfStock)
}

func (s *CheckoutServiceTestSuite) TestCartClear() {
	ctx := context.Background()

	_, err := s.cart.Add(ctx, s.user.ID, s.product)
	s.Require().NoError(err)

	s.NoError(s.cart.Clear(ctx, s.user.ID))

	items, err := s.cart.Get(ctx, s.user.ID)
	s.NoError(err)
	s.Empty(items)
}

func (s *CheckoutServiceTestSuite) TestCheckoutSuccess() {
	ctx := context.Background()

	_, err := s.cart.Add(ctx, s.user.ID, s.product)
	s.Require().NoError(err)
	_, err = s.cart.Add(ctx, s.user.ID, s.product)
	s.Require().NoError(err)

	order, err := s.checkout.Checkout(ctx, s.user.ID)
	s.NoError(err)
	s.Equal(models.OrderPending, order.Status)
	s.Equal(998.0, order.TotalAmount)

	// Stock decremented
	var product models.Product
	s.Require().NoError(s.testDB.DB.First(&product, s.product.ID).Error)
	s.Equal(8, product.Stock)

	// Item line total persisted
	var item models.OrderItem
	s.Require().NoError(s.testDB.DB.Where("order_id = ?", order.ID).First(&item).Error)
	s.Equal(2, item.Quantity)
	s.Equal(998.0, item.LineTotal)

	// Cart cleared
	items, err := s.cart.Get(ctx, s.user.ID)
	s.NoError(err)
	s.Empty(items)
}

func (s *CheckoutServiceTestSuite) TestCheckoutEmptyCart() {
	_, err := s.checkout.Checkout(context.Background(), s.user.ID)
	s.ErrorIs(err, ErrEmptyCart)
}

func (s *CheckoutServiceTestSuite) TestCheckoutInsufficientStock() {
	ctx := context.Background()

	scarce := testutil.CreateTestProduct("Scarce Item", 250, 1)
	s.Require().NoError(s.testDB.DB.Create(scarce).Error)

	_, err := s.cart.Add(ctx, s.user.ID, scarce)
	s.Require().NoError(err)
	_, err = s.cart.Add(ctx, s.user.ID, scarce)
	s.Require().NoError(err)

	_, err = s.checkout.Checkout(ctx, s.user.ID)
	s.ErrorIs(err, ErrInsufficientStock)

	// Nothing was persisted and stock is untouched
	var orderCount int64
	s.Require().NoError(s.testDB.DB.Model(&models.Order{}).Count(&orderCount).Error)
	s.Zero(orderCount)

	var product models.Product
	s.Require().NoError(s.testDB.DB.First(&product, scarce.ID).Error)
	s.Equal(1, product.Stock)
}

func (s *CheckoutServiceTestSuite) TestOrdersForUser() {
	ctx := context.Background()

	_, err := s.cart.Add(ctx, s.user.ID, s.product)
	s.Require().NoError(err)
	_, err = s.checkout.Checkout(ctx, s.user.ID)
	s.Require().NoError(err)

	orders, err := s.checkout.OrdersForUser(s.user.ID)
	s.NoError(err)
	s.Require().Len(orders, 1)
	s.Len(orders[0].Items, 1)
}

func TestCheckoutServiceTestSuite(t *testing.T) {
	suite.Run(t, new(CheckoutServiceTestSuite))
}
