package models

import "time"

// Order is a confirmed offer. Confirming it received the ordered stock.
type Order struct {
	ID        uint        `gorm:"primaryKey" json:"id"`
	CreatedAt time.Time   `json:"created_at"`
	Items     []OrderItem `gorm:"foreignKey:OrderID" json:"items,omitempty"`
}

// TableName keeps the historical table name.
func (Order) TableName() string { return "order" }

// TotalQuantity sums all line quantities.
func (o *Order) TotalQuantity() int {
	total := 0
	for _, it := range o.Items {
		total += it.Quantity
	}
	return total
}

// OrderItem is one line of an order.
type OrderItem struct {
	ID       uint   `gorm:"primaryKey" json:"id"`
	OrderID  uint   `gorm:"index;not null" json:"order_id"`
	Order    *Order `gorm:"foreignKey:OrderID" json:"-"`
	SheetID  uint   `gorm:"column:sheet_id;index;not null" json:"sheet_id"`
	Sheet    *Sheet `gorm:"foreignKey:SheetID" json:"sheet,omitempty"`
	Quantity int    `gorm:"not null" json:"quantity"`
}

// TableName keeps the historical table name.
func (OrderItem) TableName() string { return "order_item" }
