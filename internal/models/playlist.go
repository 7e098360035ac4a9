package models

import (
	"time"

	"github.com/google/uuid"
)

// Playlist is a user-owned, named list of catalog movie identifiers. The
// member list has set semantics: adds that already exist are no-ops and
// removals drop every occurrence.
type Playlist struct {
	ID        uuid.UUID `db:"id" json:"id"`
	UserID    uuid.UUID `db:"user_id" json:"userId"`
	Name      string    `db:"name" json:"name"`
	Movies    []int     `db:"movies" json:"movies"`
	CreatedAt time.Time `db:"created_at" json:"createdAt"`
	UpdatedAt time.Time `db:"updated_at" json:"updatedAt"`
}

// CreatePlaylistInput represents the input for creating a playlist
type CreatePlaylistInput struct {
	Name string `json:"name"`
}

// RenamePlaylistInput represents the input for renaming a playlist
type RenamePlaylistInput struct {
	Name string `json:"name"`
}

// PlaylistMovieInput represents the input for adding or removing a member
type PlaylistMovieInput struct {
	MovieID int `json:"movieId"`
}
