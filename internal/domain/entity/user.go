package entity

import (
	"strings"
	"time"
)

// User is the aggregate root for the account domain.
// Password holds a bcrypt hash, never plaintext; it is excluded from JSON
// so it cannot leak through a response or a log of the serialized entity.
type User struct {
	ID         string    `json:"id"`
	Email      string    `json:"email"`
	Password   string    `json:"-"`
	FullName   string    `json:"fullName"`
	AvatarURL  string    `json:"avatarUrl,omitempty"`
	Role       Role      `json:"role"`
	IsActive   bool      `json:"isActive"`
	IsVerified bool      `json:"isVerified"`
	CreatedAt  time.Time `json:"createdAt"`
	UpdatedAt  time.Time `json:"updatedAt"`
}

// NormalizeEmail lowers and trims an email address. Uniqueness and all
// lookups are defined over this form.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
