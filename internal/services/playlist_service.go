package services

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/lucasremigio/flickshub/internal/models"
)

// PlaylistService handles playlist business logic. Member lists have set
// semantics enforced in SQL, so every mutation is a single atomic statement.
type PlaylistService struct {
	db *pgxpool.Pool
}

// NewPlaylistService creates a new PlaylistService
func NewPlaylistService(db *pgxpool.Pool) *PlaylistService {
	return &PlaylistService{db: db}
}

const playlistColumns = `id, user_id, name, movies, created_at, updated_at`

func scanPlaylist(row pgx.Row) (*models.Playlist, error) {
	var p models.Playlist
	err := row.Scan(
		&p.ID,
		&p.UserID,
		&p.Name,
		&p.Movies,
		&p.CreatedAt,
		&p.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	if p.Movies == nil {
		p.Movies = []int{}
	}
	return &p, nil
}

// ListByUser retrieves all playlists owned by a user
func (s *PlaylistService) ListByUser(ctx context.Context, userID uuid.UUID) ([]models.Playlist, error) {
	query := `
		SELECT ` + playlistColumns + `
		FROM playlists
		WHERE user_id = $1
		ORDER BY created_at ASC
	`

	rows, err := s.db.Query(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to query playlists: %w", err)
	}
	defer rows.Close()

	playlists := []models.Playlist{}
	for rows.Next() {
		p, err := scanPlaylist(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan playlist: %w", err)
		}
		playlists = append(playlists, *p)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating playlists: %w", err)
	}

	return playlists, nil
}

// Get retrieves a playlist by ID, scoped to its owner
func (s *PlaylistService) Get(ctx context.Context, id, userID uuid.UUID) (*models.Playlist, error) {
	query := `
		SELECT ` + playlistColumns + `
		FROM playlists
		WHERE id = $1 AND user_id = $2
	`
	return scanPlaylist(s.db.QueryRow(ctx, query, id, userID))
}

// Create validates the proposed name against the owner's current playlists
// and creates a new empty playlist.
func (s *PlaylistService) Create(ctx context.Context, userID uuid.UUID, name string) (*models.Playlist, error) {
	existing, err := s.ListByUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	trimmed, err := ValidatePlaylistName(name, playlistNames(existing, uuid.Nil))
	if err != nil {
		return nil, err
	}

	query := `
		INSERT INTO playlists (user_id, name)
		VALUES ($1, $2)
		RETURNING ` + playlistColumns + `
	`

	playlist, err := scanPlaylist(s.db.QueryRow(ctx, query, userID, trimmed))
	if err != nil {
		return nil, fmt.Errorf("failed to create playlist: %w", err)
	}

	return playlist, nil
}

// Rename validates the new name against the owner's other playlists and
// updates the record.
func (s *PlaylistService) Rename(ctx context.Context, id, userID uuid.UUID, name string) (*models.Playlist, error) {
	existing, err := s.ListByUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	trimmed, err := ValidatePlaylistName(name, playlistNames(existing, id))
	if err != nil {
		return nil, err
	}

	query := `
		UPDATE playlists
		SET name = $3, updated_at = NOW()
		WHERE id = $1 AND user_id = $2
		RETURNING ` + playlistColumns + `
	`

	playlist, err := scanPlaylist(s.db.QueryRow(ctx, query, id, userID, trimmed))
	if err != nil {
		return nil, err
	}

	return playlist, nil
}

// AddMovie appends a movie ID to the member list unless it is already there
func (s *PlaylistService) AddMovie(ctx context.Context, id, userID uuid.UUID, movieID int) (*models.Playlist, error) {
	query := `
		UPDATE playlists
		SET movies = CASE
				WHEN $3 = ANY(movies) THEN movies
				ELSE array_append(movies, $3)
			END,
			updated_at = NOW()
		WHERE id = $1 AND user_id = $2
		RETURNING ` + playlistColumns + `
	`
	return scanPlaylist(s.db.QueryRow(ctx, query, id, userID, movieID))
}

// RemoveMovie removes every occurrence of a movie ID from the member list
func (s *PlaylistService) RemoveMovie(ctx context.Context, id, userID uuid.UUID, movieID int) (*models.Playlist, error) {
	query := `
		UPDATE playlists
		SET movies = array_remove(movies, $3), updated_at = NOW()
		WHERE id = $1 AND user_id = $2
		RETURNING ` + playlistColumns + `
	`
	return scanPlaylist(s.db.QueryRow(ctx, query, id, userID, movieID))
}

// Delete deletes a playlist
func (s *PlaylistService) Delete(ctx context.Context, id, userID uuid.UUID) error {
	query := `DELETE FROM playlists WHERE id = $1 AND user_id = $2`

	result, err := s.db.Exec(ctx, query, id, userID)
	if err != nil {
		return fmt.Errorf("failed to delete playlist: %w", err)
	}

	if result.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}

	return nil
}

// playlistNames collects the names in a snapshot, skipping the playlist
// being renamed so it does not collide with itself.
func playlistNames(playlists []models.Playlist, skip uuid.UUID) []string {
	names := make([]string, 0, len(playlists))
	for _, p := range playlists {
		if skip != uuid.Nil && p.ID == skip {
			continue
		}
		names = append(names, p.Name)
	}
	return names
}
