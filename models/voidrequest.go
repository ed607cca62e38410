package models

import "time"

// VoidRequestStatus bridges an order's void_pending state to void or back.
type VoidRequestStatus string

const (
	VoidRequestPending  VoidRequestStatus = "pending"
	VoidRequestApproved VoidRequestStatus = "approved"
	VoidRequestRejected VoidRequestStatus = "rejected"
)

type VoidRequest struct {
	ID            uint              `json:"id" gorm:"primaryKey"`
	OrderID       uint              `json:"order_id" gorm:"index;not null"`
	Order         *Order            `json:"order,omitempty" gorm:"foreignKey:OrderID"`
	RequestedByID uint              `json:"requested_by_id" gorm:"not null"`
	RequestedBy   *Employee         `json:"requested_by,omitempty" gorm:"foreignKey:RequestedByID"`
	Reason        string            `json:"reason"`
	Status        VoidRequestStatus `json:"status" gorm:"not null;default:'pending'"`
	// PriorStatus is the order status to restore if the request is rejected.
	PriorStatus  OrderStatus `json:"prior_status" gorm:"not null"`
	ReviewedByID *uint       `json:"reviewed_by_id"`
	ReviewedBy   *Employee   `json:"reviewed_by,omitempty" gorm:"foreignKey:ReviewedByID"`
	CreatedAt    time.Time   `json:"created_at"`
	UpdatedAt    time.Time   `json:"updated_at"`
}
