package model

import (
	"time"

	"gorm.io/gorm"
)

type UserRole string

const (
	RoleStudent UserRole = "student"
	RoleTeacher UserRole = "teacher"
)

type VerificationStatus string

const (
	VerificationPending  VerificationStatus = "pending"
	VerificationApproved VerificationStatus = "approved"
	VerificationRejected VerificationStatus = "rejected"
)

// Degree choices offered at registration.
const (
	DegreeSoftwareEngineering = "Software Engineering"
	DegreeHealthEngineering   = "Health Engineering"
	DegreeComputerEngineering = "Computer Engineering"
)

type User struct {
	ID           uint    `gorm:"primarykey" json:"id"`
	Username     string  `json:"username" gorm:"not null;uniqueIndex"`
	Email        string  `json:"email" gorm:"not null;uniqueIndex"`
	PasswordHash string  `json:"-" gorm:"not null"`
	FirstName    string  `json:"first_name"`
	LastName     string  `json:"last_name"`
	Phone        *string `json:"phone,omitempty"`
	Degree       string  `json:"degree" gorm:"not null"`
	Group        string  `json:"group"` // "Group 1".."Group 4"

	Role UserRole `json:"role" gorm:"not null;index"`
	// VerificationStatus is only meaningful for teachers; students are
	// created approved so role checks stay uniform.
	VerificationStatus VerificationStatus `json:"verification_status" gorm:"default:'pending'"`

	IsActive        bool    `json:"is_active" gorm:"default:false"`
	ActivationToken *string `json:"-" gorm:"index"`

	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

func (u *User) IsApprovedTeacher() bool {
	return u.Role == RoleTeacher && u.VerificationStatus == VerificationApproved
}
