package models

import "time"

type OrderStatus string

const (
	OrderPending    OrderStatus = "pending"
	OrderCompleted  OrderStatus = "completed"
	OrderCancelled  OrderStatus = "cancelled"
	OrderProcessing OrderStatus = "processing"
)

// OrderStatuses lists every status an order can carry.
var OrderStatuses = []OrderStatus{OrderPending, OrderCompleted, OrderCancelled, OrderProcessing}

type Order struct {
	ID     uint `gorm:"primaryKey" json:"id"`
	UserID uint `gorm:"not null;index" json:"user_id"`

	// TotalAmount is derived: always the sum of the items' line totals.
	TotalAmount float64     `gorm:"not null" json:"total_amount"`
	Status      OrderStatus `gorm:"type:varchar(20);not null;default:'pending'" json:"status"`
	CreatedAt   time.Time   `json:"created_at"`

	User  User        `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"-"`
	Items []OrderItem `gorm:"foreignKey:OrderID" json:"items,omitempty"`
}

func (Order) TableName() string {
	return "orders"
}

type OrderItem struct {
	ID        uint `gorm:"primaryKey" json:"id"`
	OrderID   uint `gorm:"not null;index" json:"order_id"`
	ProductID uint `gorm:"not null;index" json:"product_id"`
	Quantity  int  `gorm:"not null" json:"quantity"`

	// LineTotal stores unit price x quantity, not the unit price.
	// The column keeps the historical name "price".
	LineTotal float64   `gorm:"column:price;not null" json:"price"`
	CreatedAt time.Time `json:"created_at"`

	Product Product `gorm:"foreignKey:ProductID" json:"-"`
}

func (OrderItem) TableName() string {
	return "order_items"
}
