// Package models contains the domain structures of the finance tracker and
// the request DTOs used to receive and validate JSON payloads before they are
// converted into domain values. All monetary amounts are integer centavos.
package models

import "time"

// User is the root of tenancy: every financial record is owned by exactly
// one user and ownership never changes after creation.
type User struct {
	UID          string    // Unique user identifier (uuid)
	Email        string    // E-mail, unique, matched case-insensitively
	Username     string    // Display/login name, unique
	Name         string    // Full name
	PasswordHash string    // bcrypt hash of the password
	Role         string    // "user" or "admin"
	PackageKey   string    // Key of the package the user is currently on
	CreatedAt    time.Time // Registration instant
}

// DummyRegister receives registration payloads.
type DummyRegister struct {
	Email    string `json:"email" validate:"required,email"`
	Username string `json:"username" validate:"required,alphanum,min=3,max=32"`
	Name     string `json:"name" validate:"required,max=128"`
	Password string `json:"password" validate:"required,min=8,max=72"`
}

// DummyLogin receives login payloads.
type DummyLogin struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}
