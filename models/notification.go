package models

import "time"

// Notification is a message pushed to staff through the realtime layer.
// A nil RecipientID means broadcast to everyone.
type Notification struct {
	ID          uint      `json:"id" gorm:"primaryKey"`
	RecipientID *uint     `json:"recipient_id" gorm:"index"`
	Kind        string    `json:"kind" gorm:"not null"` // e.g. "order_ready", "void_requested"
	Message     string    `json:"message" gorm:"not null"`
	Read        bool      `json:"read" gorm:"default:false"`
	CreatedAt   time.Time `json:"created_at"`
}
