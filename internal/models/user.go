package models

import "time"

// User represents a registered user
type User struct {
	ID                string    `json:"id"`
	Email             string    `json:"email"`
	FullName          string    `json:"full_name,omitempty"`
	PasswordHash      string    `json:"-"` // Not serialized
	PreferredCurrency string    `json:"preferred_currency"`
	PreferredLanguage string    `json:"preferred_language"`
	CreatedAt         time.Time `json:"created_at"`
	UpdatedAt         time.Time `json:"updated_at"`
}
