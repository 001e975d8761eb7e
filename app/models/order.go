package models

import "gorm.io/gorm"

// Order is one placed order. OrderNumber is the human-facing reference
// ("ORD-" plus 8 uppercase hex chars); lines carry the items.
type Order struct {
	gorm.Model
	OrderNumber string      `gorm:"uniqueIndex;size:32;not null" json:"order_number"`
	UserID      uint        `gorm:"not null;index" json:"user_id"`
	Lines       []OrderLine `gorm:"foreignKey:OrderID" json:"lines,omitempty"`
}

// OrderLine is one menu item within an order.
type OrderLine struct {
	gorm.Model
	OrderID  uint `gorm:"not null;index" json:"order_id"`
	MenuID   uint `gorm:"not null;index" json:"menu_id"`
	Quantity int  `gorm:"not null" json:"quantity"`
}

func (OrderLine) TableName() string { return "order_detail" }
