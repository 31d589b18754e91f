package models

import "time"

// Notification is a persisted admin-broadcast history entry. Stored in
// Postgres; created on send, toggled by the admin console, deleted explicitly.
type Notification struct {
	ID          int64     `json:"id" gorm:"primaryKey;autoIncrement"`
	Title       string    `json:"title" gorm:"not null"`
	Description string    `json:"description" gorm:"not null"`
	Image       string    `json:"image,omitempty"`
	Zone        string    `json:"zone" gorm:"default:'All'"`
	Target      string    `json:"target" gorm:"not null"`
	Status      bool      `json:"status" gorm:"default:true"`
	CreatedAt   time.Time `json:"created_at" gorm:"autoCreateTime"`
}
