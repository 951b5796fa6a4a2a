package models

import "time"

// LoginEntry records a single successful authentication event.
type LoginEntry struct {
	DateTime  time.Time `json:"dateTime"`
	UserAgent string    `json:"userAgent"`
}

// User represents a registered account.
//
// LoginHistory is kept in insertion order (oldest first) and is persisted as
// a single JSON document column, so a history update is one store-level call.
type User struct {
	ID           uint         `json:"id" gorm:"primaryKey;autoIncrement"`
	UserName     string       `json:"userName" gorm:"uniqueIndex;type:varchar(100)" validate:"required,min=3,max=100"`
	Password     string       `json:"-" gorm:"type:varchar(255)"` // bcrypt hash, never the plaintext
	Email        string       `json:"email" validate:"required,email"`
	LoginHistory []LoginEntry `json:"loginHistory" gorm:"serializer:json"`
}
