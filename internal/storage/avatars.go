package storage

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

// AvatarStore saves profile images on the local file system under a key
// derived from the user ID and hands back the URL they are served from.
type AvatarStore struct {
	dir     string
	baseURL string
}

// NewAvatarStore creates the store, ensuring the directory exists.
func NewAvatarStore(dir, baseURL string) (*AvatarStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create avatar directory: %w", err)
	}
	return &AvatarStore{
		dir:     dir,
		baseURL: strings.TrimSuffix(baseURL, "/"),
	}, nil
}

var extensions = map[string]string{
	"image/jpeg": ".jpg",
	"image/png":  ".png",
	"image/webp": ".webp",
}

// Save writes the image blob for a user, replacing any previous avatar, and
// returns the URL it can be retrieved from.
func (s *AvatarStore) Save(userID uuid.UUID, contentType string, r io.Reader) (string, error) {
	ext, ok := extensions[contentType]
	if !ok {
		return "", fmt.Errorf("unsupported avatar content type %q", contentType)
	}

	// Drop any previous avatar with a different extension so a user has at
	// most one file.
	for _, old := range extensions {
		if old == ext {
			continue
		}
		os.Remove(filepath.Join(s.dir, userID.String()+old))
	}

	name := userID.String() + ext
	path := filepath.Join(s.dir, name)

	f, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("failed to create avatar file: %w", err)
	}
	defer f.Close()

	if _, err := io.Copy(f, r); err != nil {
		os.Remove(path)
		return "", fmt.Errorf("failed to write avatar file: %w", err)
	}

	return s.baseURL + "/" + name, nil
}

// Dir returns the directory avatars are stored in, for serving.
func (s *AvatarStore) Dir() string {
	return s.dir
}
