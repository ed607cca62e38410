package models

import "time"

// Catalog read models. Menu CRUD lives in the back-office module and is
// out of scope here; the engine only reads these rows to price cart lines.

type MenuItem struct {
	ID          uint           `json:"id" gorm:"primaryKey"`
	Name        string         `json:"name" gorm:"not null"`
	Description string         `json:"description"`
	Price       float64        `json:"price" gorm:"not null"`
	Category    string         `json:"category"`
	IsAvailable bool           `json:"is_available" gorm:"default:true"`
	Variants    []Variant      `json:"variants,omitempty" gorm:"foreignKey:MenuItemID"`
	Properties  []MenuProperty `json:"properties,omitempty" gorm:"foreignKey:MenuItemID"`
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
}

// Variant is a size/preparation option that adjusts the base price.
type Variant struct {
	ID              uint    `json:"id" gorm:"primaryKey"`
	MenuItemID      uint    `json:"menu_item_id" gorm:"index;not null"`
	Name            string  `json:"name" gorm:"not null"`
	PriceAdjustment float64 `json:"price_adjustment"`
}

// MenuProperty is a selectable add-on with its own price.
type MenuProperty struct {
	ID         uint    `json:"id" gorm:"primaryKey"`
	MenuItemID uint    `json:"menu_item_id" gorm:"index;not null"`
	Name       string  `json:"name" gorm:"not null"`
	Price      float64 `json:"price"`
}
