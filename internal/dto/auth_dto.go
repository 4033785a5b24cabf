package dto

import "time"

// RegisterDTO is shared by student and teacher registration; the route
// decides the role.
type RegisterDTO struct {
	Username  string  `json:"username" binding:"required,min=3,max=150"`
	Email     string  `json:"email" binding:"required,email"`
	Password  string  `json:"password" binding:"required,min=8"`
	FirstName string  `json:"first_name" binding:"required"`
	LastName  string  `json:"last_name" binding:"required"`
	Phone     *string `json:"phone"`
	Degree    string  `json:"degree" binding:"required,oneof='Software Engineering' 'Health Engineering' 'Computer Engineering'"`
	Group     string  `json:"group" binding:"omitempty,oneof='Group 1' 'Group 2' 'Group 3' 'Group 4'"`
}

type LoginDTO struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type TokenResponseDTO struct {
	Token string          `json:"token"`
	User  UserResponseDTO `json:"user"`
}

type UserResponseDTO struct {
	ID                 uint      `json:"id"`
	Username           string    `json:"username"`
	Email              string    `json:"email"`
	FirstName          string    `json:"first_name"`
	LastName           string    `json:"last_name"`
	Phone              *string   `json:"phone,omitempty"`
	Degree             string    `json:"degree"`
	Group              string    `json:"group,omitempty"`
	Role               string    `json:"role"`
	VerificationStatus string    `json:"verification_status,omitempty"`
	IsActive           bool      `json:"is_active"`
	CreatedAt          time.Time `json:"created_at"`
}

type ProfileUpdateDTO struct {
	Email  string  `json:"email" binding:"omitempty,email"`
	Phone  *string `json:"phone"`
	Degree string  `json:"degree" binding:"omitempty,oneof='Software Engineering' 'Health Engineering' 'Computer Engineering'"`
	Group  string  `json:"group" binding:"omitempty,oneof='Group 1' 'Group 2' 'Group 3' 'Group 4'"`
}
