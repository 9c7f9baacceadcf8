// Package domain contains core concepts of the homestay platform.
// This file defines User accounts and their invariants.
// No storage, network, or UI logic should be added here.
package domain

import (
	"time"

	"github.com/google/uuid"
)

type Role string

const (
	RoleGuest Role = "guest"
	RoleHost  Role = "host"
	RoleAdmin Role = "admin"
)

// User is created once at registration. The identifier is immutable and the
// email doubles as the login name (unique across the platform).
type User struct {
	ID           uuid.UUID `json:"user_id"`
	Email        string    `json:"email" validate:"required,email"`
	FirstName    string    `json:"first_name" validate:"required"`
	LastName     string    `json:"last_name" validate:"required"`
	Phone        string    `json:"phone_number,omitempty"`
	Role         Role      `json:"role" validate:"required,oneof=guest host admin"`
	PasswordHash string    `json:"-"`
	CreatedAt    time.Time `json:"created_at"`
}

func (u User) FullName() string {
	return u.FirstName + " " + u.LastName
}

// PublicUser is the display shape embedded in API payloads (e.g. the sender
// of a message). It never carries credentials.
type PublicUser struct {
	ID       uuid.UUID `json:"user_id"`
	Email    string    `json:"email"`
	FullName string    `json:"fullname"`
	Role     Role      `json:"role"`
}

func (u User) Public() PublicUser {
	return PublicUser{
		ID:       u.ID,
		Email:    u.Email,
		FullName: u.FullName(),
		Role:     u.Role,
	}
}
