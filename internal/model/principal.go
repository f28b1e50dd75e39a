package model

import (
	"strings"
	"time"
)

// Role separates the two kinds of principal. Each role has its own table and
// its own token signing secret.
type Role string

const (
	RoleStudent Role = "student"
	RoleAdmin   Role = "admin"
)

// Valid reports whether r is a known role.
func (r Role) Valid() bool {
	return r == RoleStudent || r == RoleAdmin
}

// Principal is an authenticated account: a student or an admin.
type Principal struct {
	ID           int       `json:"id"`
	Role         Role      `json:"role"`
	Name         string    `json:"name"`
	Mobile       string    `json:"mobile"`
	Email        string    `json:"email"`
	Profile      string    `json:"profile"`
	PasswordHash string    `json:"-"`
	CreatedAt    time.Time `json:"created_at"`
}

// RegisterPrincipalRequest is the payload for creating a student or an admin.
type RegisterPrincipalRequest struct {
	Name     string `json:"name" binding:"required,min=1,max=100"`
	Mobile   string `json:"mobile" binding:"required,mobile"`
	Email    string `json:"email" binding:"required,email,max=255"`
	Profile  string `json:"profile" binding:"max=2048"`
	Password string `json:"password" binding:"required,min=6,max=72"`
}

// Normalize trims every field and lowercases the email so that uniqueness
// checks compare canonical values.
func (r *RegisterPrincipalRequest) Normalize() {
	r.Name = strings.TrimSpace(r.Name)
	r.Mobile = strings.TrimSpace(r.Mobile)
	r.Email = strings.ToLower(strings.TrimSpace(r.Email))
	r.Profile = strings.TrimSpace(r.Profile)
}

// LoginRequest is the payload for student and admin authentication.
// Username is matched against both the email and the mobile number.
type LoginRequest struct {
	Username string `json:"username" binding:"required,max=255"`
	Password string `json:"password" binding:"required,max=72"`
}

// LoginResponse is returned after a successful login.
type LoginResponse struct {
	JWTToken string `json:"jwtToken"`
}

// NormalizeIdentifier canonicalises a login username. Emails are compared
// case-insensitively, mobile numbers verbatim.
func NormalizeIdentifier(identifier string) string {
	identifier = strings.TrimSpace(identifier)
	if strings.Contains(identifier, "@") {
		return strings.ToLower(identifier)
	}
	return identifier
}
