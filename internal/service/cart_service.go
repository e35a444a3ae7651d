package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/wparames/honeymart/internal/models"
)

var ErrOutOfStock = errors.New("product is out of stock")

const cartTTL = 24 * time.Hour

// CartItem is one line of a user's cart. Price is the unit price snapshot
// taken when the item was added.
type CartItem struct {
	ProductID uint    `json:"product_id"`
	Name      string  `json:"name"`
	Price     float64 `json:"price"`
	Quantity  int     `json:"quantity"`
}

// CartService keeps per-user carts in Redis so they survive server restarts
// and are shared across instances.
type CartService struct {
	redis *redis.Client
}

func NewCartService(redisClient *redis.Client) *CartService {
	return &CartService{redis: redisClient}
}

func cartKey(userID uint) string {
	return fmt.Sprintf("honeymart:cart:%d", userID)
}

// Get returns the user's cart, empty when none exists.
func (s *CartService) Get(ctx context.Context, userID uint) ([]CartItem, error) {
	data, err := s.redis.Get(ctx, cartKey(userID)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	var items []CartItem
	if err := json.Unmarshal(data, &items); err != nil {
		return nil, err
	}
	return items, nil
}

// Add puts one unit of product into the cart, incrementing the quantity when
// the product is already present.
func (s *CartService) Add(ctx context.Context, userID uint, product *models.Product) ([]CartItem, error) {
	if product.Stock <= 0 {
		return nil, ErrOutOfStock
	}

	items, err := s.Get(ctx, userID)
	if err != nil {
		return nil, err
	}

	found := false
	for i := range items {
		if items[i].ProductID == product.ID {
			items[i].Quantity++
			found = true
			break
		}
	}
	if !found {
		items = append(items, CartItem{
			ProductID: product.ID,
			Name:      product.Name,
			Price:     product.Price,
			Quantity:  1,
		})
	}

	if err := s.save(ctx, userID, items); err != nil {
		return nil, err
	}
	return items, nil
}

// Clear removes the user's cart.
func (s *CartService) Clear(ctx context.Context, userID uint) error {
	return s.redis.Del(ctx, cartKey(userID)).Err()
}

// Total sums price x quantity over the cart lines.
func Total(items []CartItem) float64 {
	total := 0.0
	for _, item := range items {
		total += item.Price * float64(item.Quantity)
	}
	return total
}

func (s *CartService) save(ctx context.Context, userID uint, items []CartItem) error {
	data, err := json.Marshal(items)
	if err != nil {
		return err
	}
	return s.redis.Set(ctx, cartKey(userID), data, cartTTL).Err()
}
