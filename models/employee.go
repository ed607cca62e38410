package models

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"time"
)

// Permission names gate every mutating operation in the engine.
type Permission string

const (
	PermAll         Permission = "*" // wildcard, grants everything
	PermOrders      Permission = "orders"
	PermTables      Permission = "tables"
	PermKitchen     Permission = "kitchen"
	PermServe       Permission = "serve"
	PermPayments    Permission = "payments"
	PermShifts      Permission = "shifts"
	PermVoidRequest Permission = "void_request"
	PermVoidApprove Permission = "void_approve"
)

// PermissionList is stored as a JSON array on the role row.
type PermissionList []Permission

func (p PermissionList) Value() (driver.Value, error) {
	b, err := json.Marshal(p)
	return string(b), err
}

func (p *PermissionList) Scan(src any) error {
	switch v := src.(type) {
	case string:
		return json.Unmarshal([]byte(v), p)
	case []byte:
		return json.Unmarshal(v, p)
	case nil:
		*p = nil
		return nil
	}
	return errors.New("permission list: unsupported column type")
}

type Role struct {
	ID          uint           `json:"id" gorm:"primaryKey"`
	Name        string         `json:"name" gorm:"uniqueIndex;not null"`
	Permissions PermissionList `json:"permissions" gorm:"type:text"`
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
}

type Employee struct {
	ID           uint      `json:"id" gorm:"primaryKey"`
	Name         string    `json:"name" gorm:"not null"`
	Email        string    `json:"email" gorm:"uniqueIndex;not null"`
	PasswordHash string    `json:"-" gorm:"not null"`
	Roles        []Role    `json:"roles,omitempty" gorm:"many2many:employee_roles"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// HasPermission reports whether any assigned role carries the wildcard
// or the named permission.
func (e *Employee) HasPermission(perm Permission) bool {
	for _, role := range e.Roles {
		for _, p := range role.Permissions {
			if p == PermAll || p == perm {
				return true
			}
		}
	}
	return false
}
