package models

import "time"

// TableStatus represents the physical state of a table, independent of
// any specific order.
type TableStatus string

const (
	TableFree     TableStatus = "free"
	TableOccupied TableStatus = "occupied"
	TableReserved TableStatus = "reserved"
	TableDirty    TableStatus = "dirty"
)

type Floor struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	Name      string    `json:"name" gorm:"not null"`
	Tables    []Table   `json:"tables,omitempty" gorm:"foreignKey:FloorID"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type Table struct {
	ID        uint        `json:"id" gorm:"primaryKey"`
	FloorID   uint        `json:"floor_id" gorm:"index;not null"`
	Number    int         `json:"number" gorm:"not null"`
	Seats     int         `json:"seats" gorm:"default:4"`
	Shape     string      `json:"shape" gorm:"default:'square'"`
	Status    TableStatus `json:"status" gorm:"not null;default:'free'"`
	CreatedAt time.Time   `json:"created_at"`
	UpdatedAt time.Time   `json:"updated_at"`
}
