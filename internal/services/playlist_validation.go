package services

import (
	"strings"
	"unicode/utf8"
)

const (
	// MinPlaylistNameLength and MaxPlaylistNameLength bound the raw name.
	MinPlaylistNameLength = 3
	MaxPlaylistNameLength = 25

	// MaxPlaylistsPerUser caps how many playlists one account can hold.
	MaxPlaylistsPerUser = 100
)

// ValidationError is a local, synchronous rejection with a user-displayable
// reason. It never touches the network.
type ValidationError struct {
	Reason string
}

func (e *ValidationError) Error() string {
	return e.Reason
}

// ValidatePlaylistName checks a proposed playlist name against the naming
// rules, given a snapshot of the owner's existing playlist names. It returns
// the trimmed name to store. The rules run in a fixed order and the first
// failing rule wins, so the caller always gets the same reason for the same
// input.
//
// The caller is responsible for the snapshot being current; this function
// never fetches anything.
func ValidatePlaylistName(name string, existing []string) (string, error) {
	if name == "" {
		return "", &ValidationError{Reason: "playlist name cannot be empty"}
	}
	if utf8.RuneCountInString(name) > MaxPlaylistNameLength {
		return "", &ValidationError{Reason: "playlist name cannot be longer than 25 characters"}
	}
	if utf8.RuneCountInString(name) < MinPlaylistNameLength {
		return "", &ValidationError{Reason: "playlist name must be at least 3 characters"}
	}

	trimmed := strings.TrimSpace(name)
	if trimmed == "" {
		return "", &ValidationError{Reason: "playlist name cannot be just spaces"}
	}

	for _, other := range existing {
		if strings.EqualFold(strings.TrimSpace(other), trimmed) {
			return "", &ValidationError{Reason: "a playlist with this name already exists"}
		}
	}

	if len(existing) >= MaxPlaylistsPerUser {
		return "", &ValidationError{Reason: "you have reached the maximum number of playlists"}
	}

	if strings.Contains(trimmed, "  ") {
		return "", &ValidationError{Reason: "playlist name cannot contain consecutive spaces"}
	}

	return trimmed, nil
}
