package storage

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/harshhujare/urban-frontend/domain"
)

// The fixed storage key the cached profile lives under, carried over from
// the web client's localStorage record.
const recordName = "urbanstay_user.json"

// ProfileCacheImpl implements domain.ProfileCache as a single JSON file.
// It is a best-effort denormalized copy: the file disappearing or rotting
// is never fatal, it just means "ask the backend".
type ProfileCacheImpl struct {
	path string
}

// NewProfileCache creates a file-backed profile cache under dir.
func NewProfileCache(dir string) domain.ProfileCache {
	return &ProfileCacheImpl{path: filepath.Join(dir, recordName)}
}

// Read implements domain.ProfileCache. A missing record returns
// ErrCacheMiss; an unparsable record is deleted and also reported as a miss.
func (c *ProfileCacheImpl) Read() (*domain.User, error) {
	data, err := os.ReadFile(c.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, domain.ErrCacheMiss
		}
		return nil, err
	}

	var user domain.User
	if err := json.Unmarshal(data, &user); err != nil {
		os.Remove(c.path)
		return nil, domain.ErrCacheMiss
	}
	return &user, nil
}

// Write implements domain.ProfileCache with a synchronous overwrite.
func (c *ProfileCacheImpl) Write(user *domain.User) error {
	data, err := json.Marshal(user)
	if err != nil {
		return fmt.Errorf("failed to marshal profile: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(c.path), 0o700); err != nil {
		return err
	}
	return os.WriteFile(c.path, data, 0o600)
}

// Clear implements domain.ProfileCache. Clearing an absent record is fine.
func (c *ProfileCacheImpl) Clear() error {
	if err := os.Remove(c.path); err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}
