package models

// UserResponse represents a successful create or update response
// swagger:model UserResponse
type UserResponse struct {
	// Success message
	// example: User created successfully
	Message string `json:"message"`

	// Stored user
	Data *UserDB `json:"data"`
}

// MessageResponse represents a successful response without data
// swagger:model MessageResponse
type MessageResponse struct {
	// Success message
	// example: User deleted successfully
	Message string `json:"message"`
}

// ErrorResponse represents an error response
// swagger:model ErrorResponse
type ErrorResponse struct {
	// Error message
	// example: User not found
	Error string `json:"error"`
}
