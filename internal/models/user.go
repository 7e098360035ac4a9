package models

import (
	"time"

	"github.com/google/uuid"
)

// Provider represents the OAuth provider type
type Provider string

const (
	ProviderGitHub Provider = "GITHUB"
	ProviderGoogle Provider = "GOOGLE"
)

// User represents a user in the system
type User struct {
	ID          uuid.UUID `db:"id" json:"id"`
	ProviderID  string    `db:"provider_id" json:"providerId"`
	Provider    Provider  `db:"provider" json:"provider"`
	Email       string    `db:"email" json:"email"`
	DisplayName string    `db:"display_name" json:"displayName"`
	AvatarURL   *string   `db:"avatar_url" json:"avatarUrl"`
	CreatedAt   time.Time `db:"created_at" json:"createdAt"`
	UpdatedAt   time.Time `db:"updated_at" json:"updatedAt"`
}

// String returns the string representation of Provider
func (p Provider) String() string {
	return string(p)
}

// IsValid checks if the provider is valid
func (p Provider) IsValid() bool {
	return p == ProviderGitHub || p == ProviderGoogle
}
