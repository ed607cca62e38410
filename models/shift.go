package models

import "time"

// ShiftStatus bounds when payment-settling operations are permitted.
type ShiftStatus string

const (
	ShiftOpen   ShiftStatus = "open"
	ShiftClosed ShiftStatus = "closed"
)

type Shift struct {
	ID          uint        `json:"id" gorm:"primaryKey"`
	EmployeeID  uint        `json:"employee_id" gorm:"index;not null"`
	Employee    *Employee   `json:"employee,omitempty" gorm:"foreignKey:EmployeeID"`
	OpeningCash float64     `json:"opening_cash"`
	ClosingCash float64     `json:"closing_cash"`
	Notes       string      `json:"notes"`
	Status      ShiftStatus `json:"status" gorm:"not null;default:'open'"`
	OpenedAt    time.Time   `json:"opened_at"`
	ClosedAt    *time.Time  `json:"closed_at"`
}
