package repository

import (
	"github.com/wparames/honeymart/internal/models"
	"gorm.io/gorm"
)

type OrderRepository struct {
	db *gorm.DB
}

func NewOrderRepository(db *gorm.DB) *OrderRepository {
	return &OrderRepository{db: db}
}

// GetOrdersByUser returns a user's orders with their items, newest first.
func (r *OrderRepository) GetOrdersByUser(userID uint) ([]models.Order, error) {
	var orders []models.Order
	err := r.db.
		Preload("Items").
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&orders).Error

	return orders, err
}
