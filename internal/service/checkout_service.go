package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/wparames/honeymart/internal/lock"
	"github.com/wparames/honeymart/internal/models"
	"github.com/wparames/honeymart/internal/repository"
	"github.com/wparames/honeymart/pkg/logger"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

var (
	ErrEmptyCart         = errors.New("cart is empty")
	ErrInsufficientStock = errors.New("insufficient stock")
)

// CheckoutService turns a cart into a persisted order. The whole write runs
// under the shared write lock, the same one the refresh cycle holds, so an
// order can never be created against a half-wiped dataset.
type CheckoutService struct {
	db        *gorm.DB
	cart      *CartService
	locker    lock.Locker
	orderRepo *repository.OrderRepository
}

func NewCheckoutService(db *gorm.DB, cart *CartService, locker lock.Locker) *CheckoutService {
	return &CheckoutService{
		db:        db,
		cart:      cart,
		locker:    locker,
		orderRepo: repository.NewOrderRepository(db),
	}
}

// Checkout creates an order with one item per cart line, decrements stock,
// and clears the cart. Order items store line totals (unit price x quantity);
// the order total is the sum of those line totals.
func (s *CheckoutService) Checkout(ctx context.Context, userID uint) (*models.Order, error) {
	items, err := s.cart.Get(ctx, userID)
	if err != nil {
		return nil, err
	}
	if len(items) == 0 {
		return nil, ErrEmptyCart
	}

	release, err := s.locker.Acquire(ctx)
	if err != nil {
		return nil, err
	}
	defer release()

	var order models.Order
	err = s.db.Transaction(func(tx *gorm.DB) error {
		order = models.Order{
			UserID:      userID,
			TotalAmount: 0,
			Status:      models.OrderPending,
		}
		if err := tx.Create(&order).Error; err != nil {
			return err
		}

		total := 0.0
		for _, item := range items {
			var product models.Product
			if err := tx.First(&product, item.ProductID).Error; err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					return fmt.Errorf("product %d no longer exists", item.ProductID)
				}
				return err
			}
			if product.Stock < item.Quantity {
				return fmt.Errorf("%w: %s", ErrInsufficientStock, product.Name)
			}

			lineTotal := product.Price * float64(item.Quantity)
			orderItem := models.OrderItem{
				OrderID:   order.ID,
				ProductID: product.ID,
				Quantity:  item.Quantity,
				LineTotal: lineTotal,
			}
			if err := tx.Create(&orderItem).Error; err != nil {
				return err
			}

			if err := tx.Model(&product).Update("stock", product.Stock-item.Quantity).Error; err != nil {
				return err
			}
			total += lineTotal
		}

		order.TotalAmount = total
		return tx.Model(&order).Update("total_amount", total).Error
	})
	if err != nil {
		logger.Log.Error("Checkout failed",
			zap.Uint("user_id", userID),
			zap.Error(err),
		)
		return nil, err
	}

	if err := s.cart.Clear(ctx, userID); err != nil {
		logger.Log.Warn("Failed to clear cart after checkout",
			zap.Uint("user_id", userID),
			zap.Error(err),
		)
	}

	logger.Log.Info("Order placed",
		zap.Uint("order_id", order.ID),
		zap.Uint("user_id", userID),
		zap.Float64("total_amount", order.TotalAmount),
	)
	return &order, nil
}

// OrdersForUser returns the caller's order history with items.
func (s *CheckoutService) OrdersForUser(userID uint) ([]models.Order, error) {
	return s.orderRepo.GetOrdersByUser(userID)
}
