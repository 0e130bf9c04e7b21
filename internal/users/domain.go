package users

import "time"

// User is a staff account managed by administrators.
type User struct {
	ID        int64     `json:"id"`
	Email     string    `json:"email"`
	Name      string    `json:"name"`
	Role      string    `json:"role"`
	IsActive  bool      `json:"is_active"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Payload updates a user's role or active flag.
type Payload struct {
	Name     string `json:"name" validate:"required"`
	Role     string `json:"role" validate:"required,oneof=ADMIN OPERATIONS FINANCE VIEWER"`
	IsActive bool   `json:"is_active"`
}
