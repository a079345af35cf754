package model

import (
	"time"

	"github.com/google/uuid"
)

// User is an account holder.
type User struct {
	ID           uuid.UUID `json:"id"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	CreatedAt    time.Time `json:"createdAt"`
}

// LinkedItem is a stored link to an aggregation provider item.
type LinkedItem struct {
	ID           uuid.UUID  `json:"id"`
	UserID       uuid.UUID  `json:"userId"`
	ItemID       string     `json:"itemId"`
	AccessToken  string     `json:"-"`
	Institution  string     `json:"institution"`
	CreatedAt    time.Time  `json:"createdAt"`
	LastSyncedAt *time.Time `json:"lastSyncedAt,omitempty"`
}
