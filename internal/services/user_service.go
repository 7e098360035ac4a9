package services

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/lucasremigio/flickshub/internal/models"
)

// UserService handles user-related business logic
type UserService struct {
	db *pgxpool.Pool
}

// NewUserService creates a new UserService
func NewUserService(db *pgxpool.Pool) *UserService {
	return &UserService{db: db}
}

const userColumns = `id, provider_id, provider, email, display_name, avatar_url, created_at, updated_at`

func scanUser(row pgx.Row) (*models.User, error) {
	var user models.User
	err := row.Scan(
		&user.ID,
		&user.ProviderID,
		&user.Provider,
		&user.Email,
		&user.DisplayName,
		&user.AvatarURL,
		&user.CreatedAt,
		&user.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// FindOrCreate finds a user by provider ID or creates a new one
func (s *UserService) FindOrCreate(ctx context.Context, providerID string, provider models.Provider, email, displayName string) (*models.User, error) {
	user, err := s.FindByProviderID(ctx, provider, providerID)
	if err == nil {
		return user, nil
	}

	if err == pgx.ErrNoRows {
		return s.Create(ctx, providerID, provider, email, displayName)
	}

	return nil, fmt.Errorf("failed to find user: %w", err)
}

// FindByProviderID finds a user by their provider ID
func (s *UserService) FindByProviderID(ctx context.Context, provider models.Provider, providerID string) (*models.User, error) {
	query := `
		SELECT ` + userColumns + `
		FROM users
		WHERE provider = $1 AND provider_id = $2
	`
	return scanUser(s.db.QueryRow(ctx, query, provider, providerID))
}

// Create creates a new user
func (s *UserService) Create(ctx context.Context, providerID string, provider models.Provider, email, displayName string) (*models.User, error) {
	if !provider.IsValid() {
		return nil, fmt.Errorf("invalid provider: %s", provider)
	}

	query := `
		INSERT INTO users (provider_id, provider, email, display_name)
		VALUES ($1, $2, $3, $4)
		RETURNING ` + userColumns + `
	`

	user, err := scanUser(s.db.QueryRow(ctx, query, providerID, provider, email, displayName))
	if err != nil {
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	return user, nil
}

// Get retrieves a user by ID
func (s *UserService) Get(ctx context.Context, id uuid.UUID) (*models.User, error) {
	query := `
		SELECT ` + userColumns + `
		FROM users
		WHERE id = $1
	`
	return scanUser(s.db.QueryRow(ctx, query, id))
}

// UpdateProfile updates a user's display name
func (s *UserService) UpdateProfile(ctx context.Context, id uuid.UUID, displayName string) (*models.User, error) {
	query := `
		UPDATE users
		SET display_name = $2, updated_at = NOW()
		WHERE id = $1
		RETURNING ` + userColumns + `
	`

	user, err := scanUser(s.db.QueryRow(ctx, query, id, displayName))
	if err != nil {
		return nil, fmt.Errorf("failed to update user: %w", err)
	}

	return user, nil
}

// UpdateAvatar sets a user's avatar URL
func (s *UserService) UpdateAvatar(ctx context.Context, id uuid.UUID, avatarURL string) (*models.User, error) {
	query := `
		UPDATE users
		SET avatar_url = $2, updated_at = NOW()
		WHERE id = $1
		RETURNING ` + userColumns + `
	`

	user, err := scanUser(s.db.QueryRow(ctx, query, id, avatarURL))
	if err != nil {
		return nil, fmt.Errorf("failed to update avatar: %w", err)
	}

	return user, nil
}

// Delete deletes a user by ID
func (s *UserService) Delete(ctx context.Context, id uuid.UUID) error {
	query := `DELETE FROM users WHERE id = $1`

	result, err := s.db.Exec(ctx, query, id)
	if err != nil {
		return fmt.Errorf("failed to delete user: %w", err)
	}

	if result.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}

	return nil
}
