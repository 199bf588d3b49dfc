package profile

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strings"
)

var (
	// ErrInvalidIdentifier means the profile identifier is malformed.
	ErrInvalidIdentifier = errors.New("invalid profile identifier")
	// ErrNotFound means the source returned no usable profile.
	ErrNotFound = errors.New("profile not found")
)

// Source supplies a Profile for an identifier such as a URL or a file path.
type Source interface {
	Fetch(ctx context.Context, id string) (*Profile, error)
}

// IsURL reports whether id is an http or https address.
func IsURL(id string) bool {
	id = strings.ToLower(strings.TrimSpace(id))
	return strings.HasPrefix(id, "http://") || strings.HasPrefix(id, "https://")
}

// FileSource reads profiles previously saved as JSON.
type FileSource struct{}

func (FileSource) Fetch(_ context.Context, path string) (*Profile, error) {
	path = strings.TrimSpace(path)
	if path == "" {
		return nil, fmt.Errorf("%w: empty path", ErrInvalidIdentifier)
	}
	if IsURL(path) {
		return nil, fmt.Errorf("%w: %q is a URL, not a profile file", ErrInvalidIdentifier, path)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrNotFound, path)
		}
		return nil, fmt.Errorf("read profile %q: %w", path, err)
	}

	var p Profile
	if err := json.Unmarshal(data, &p); err != nil {
		return nil, fmt.Errorf("decode profile %q: %w", path, err)
	}

	if p.FullName == "" && p.Headline == "" && len(p.Experience) == 0 {
		return nil, fmt.Errorf("%w: %s is empty", ErrNotFound, path)
	}

	return &p, nil
}
