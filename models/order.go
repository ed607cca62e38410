package models

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"time"
)

// OrderStatus represents all possible states of a check.
type OrderStatus string

const (
	OrderOpen        OrderStatus = "open"
	OrderInProgress  OrderStatus = "in_progress"
	OrderReady       OrderStatus = "ready"
	OrderPaid        OrderStatus = "paid"
	OrderVoid        OrderStatus = "void"
	OrderVoidPending OrderStatus = "void_pending"
)

// Terminal reports whether the status ends the order's lifecycle.
// void_pending is a frozen state, not a terminal one: the order may
// still return to its prior status on rejection.
func (s OrderStatus) Terminal() bool {
	return s == OrderPaid || s == OrderVoid
}

// OrderItemStatus tracks per-line kitchen progress.
type OrderItemStatus string

const (
	ItemPending   OrderItemStatus = "pending"
	ItemPreparing OrderItemStatus = "preparing"
	ItemReady     OrderItemStatus = "ready"
	ItemServed    OrderItemStatus = "served"
	ItemVoid      OrderItemStatus = "void"
)

type Order struct {
	ID            uint                 `json:"id" gorm:"primaryKey"`
	TableID       *uint                `json:"table_id" gorm:"index"`
	Table         *Table               `json:"table,omitempty" gorm:"foreignKey:TableID"`
	OrderNumber   string               `json:"order_number" gorm:"index"` // display only, not guaranteed unique
	Status        OrderStatus          `json:"status" gorm:"not null;default:'open'"`
	Subtotal      float64              `json:"subtotal"`
	Discount      float64              `json:"discount"`
	Tip           float64              `json:"tip"`
	Tax           float64              `json:"tax"`
	Total         float64              `json:"total"`
	PaymentMethod string               `json:"payment_method"`
	Guests        int                  `json:"guests" gorm:"default:1"`
	OpenedByID    uint                 `json:"opened_by_id"`
	OpenedBy      *Employee            `json:"opened_by,omitempty" gorm:"foreignKey:OpenedByID"`
	Items         []OrderItem          `json:"items,omitempty" gorm:"foreignKey:OrderID"`
	StatusHistory []OrderStatusHistory `json:"status_history,omitempty" gorm:"foreignKey:OrderID"`
	CreatedAt     time.Time            `json:"created_at"`
	UpdatedAt     time.Time            `json:"updated_at"`
}

// Property is one selected add-on on an order line, priced at selection time.
type Property struct {
	ID    uint    `json:"id"`
	Name  string  `json:"name"`
	Price float64 `json:"price"`
}

// PropertyList is stored as a JSON array on the order item row.
type PropertyList []Property

func (p PropertyList) Value() (driver.Value, error) {
	b, err := json.Marshal(p)
	return string(b), err
}

func (p *PropertyList) Scan(src any) error {
	switch v := src.(type) {
	case string:
		return json.Unmarshal([]byte(v), p)
	case []byte:
		return json.Unmarshal(v, p)
	case nil:
		*p = nil
		return nil
	}
	return errors.New("property list: unsupported column type")
}

type OrderItem struct {
	ID         uint            `json:"id" gorm:"primaryKey"`
	OrderID    uint            `json:"order_id" gorm:"index;not null"`
	MenuItemID uint            `json:"menu_item_id" gorm:"not null"`
	MenuItem   *MenuItem       `json:"menu_item,omitempty" gorm:"foreignKey:MenuItemID"`
	VariantID  *uint           `json:"variant_id"`
	Properties PropertyList    `json:"properties" gorm:"type:text"`
	Quantity   int             `json:"quantity" gorm:"not null"`
	UnitPrice  float64         `json:"unit_price" gorm:"not null"` // base + variant adjustment + properties
	Name       string          `json:"name"`                       // snapshot name at order time
	Notes      string          `json:"notes"`
	Status     OrderItemStatus `json:"status" gorm:"not null;default:'pending'"`
	CreatedAt  time.Time       `json:"created_at"`
	UpdatedAt  time.Time       `json:"updated_at"`
}

// LineTotal is the item's contribution to the order subtotal.
func (i *OrderItem) LineTotal() float64 {
	if i.Status == ItemVoid {
		return 0
	}
	return i.UnitPrice * float64(i.Quantity)
}

// OrderStatusHistory tracks every order status change for the audit trail.
type OrderStatusHistory struct {
	ID         uint        `json:"id" gorm:"primaryKey"`
	OrderID    uint        `json:"order_id" gorm:"index;not null"`
	FromStatus OrderStatus `json:"from_status"`
	ToStatus   OrderStatus `json:"to_status" gorm:"not null"`
	ChangedBy  uint        `json:"changed_by"`
	Note       string      `json:"note"`
	CreatedAt  time.Time   `json:"created_at"`
}
