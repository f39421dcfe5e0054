package models

import (
	"time"

	"github.com/google/uuid"
)

// UserDB represents a user record in the database
type UserDB struct {
	UserID    uuid.UUID `json:"id" db:"id"`                 // Primary key, assigned by the store
	Name      string    `json:"name" db:"name"`             // Display name
	Age       int       `json:"age" db:"age"`               // Non-negative age in years
	Email     string    `json:"email" db:"email"`           // Unique, lowercased email
	Address   *string   `json:"address" db:"address"`       // Optional postal address
	CreatedAt time.Time `json:"created_at" db:"created_at"` // Creation timestamp
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"` // Last update timestamp
}

// UserCandidate is an unvalidated user payload as received from a client.
// Every field is optional until it passes validation.
// swagger:model UserCandidate
type UserCandidate struct {
	// User name
	// required: true
	// example: John Doe
	Name *string `json:"name"`

	// Age in whole years
	// required: true
	// example: 30
	Age *float64 `json:"age"`

	// Email address
	// required: true
	// example: john@example.com
	Email *string `json:"email"`

	// Postal address
	// example: 12 Baker Street
	Address *string `json:"address"`
}

// ValidatedUser is a user payload that passed validation and is ready to be persisted.
type ValidatedUser struct {
	Name    string
	Age     int
	Email   string
	Address *string
}
