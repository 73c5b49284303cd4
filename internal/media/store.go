package media

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/kechcole/Blog-App/internal/common/constants"
)

// Store writes avatar files under a media root and hands back the relative
// path that gets persisted on the profile row.
type Store struct {
	root string
}

func NewStore(root string) (*Store, error) {
	if root == "" {
		root = constants.DefaultMediaDir
	}
	if err := os.MkdirAll(filepath.Join(root, constants.ProfileImageDir), 0o755); err != nil {
		return nil, fmt.Errorf("failed to create media directory: %w", err)
	}
	return &Store{root: root}, nil
}

// PlaceholderPath is the default avatar every fresh profile points at.
func (s *Store) PlaceholderPath() string {
	return constants.DefaultProfileImage
}

// SaveProfileImage stores data as the avatar for userID, overwriting any
// previous upload at the same path. The extension follows the decoded format.
func (s *Store) SaveProfileImage(userID, format string, data []byte) (string, error) {
	relPath := filepath.Join(constants.ProfileImageDir, userID+"."+extensionFor(format))
	absPath := filepath.Join(s.root, relPath)

	if err := os.WriteFile(absPath, data, 0o644); err != nil {
		return "", fmt.Errorf("failed to write profile image: %w", err)
	}

	return filepath.ToSlash(relPath), nil
}

// Remove deletes a stored avatar. The placeholder is shared and never removed.
func (s *Store) Remove(relPath string) error {
	if relPath == "" || relPath == s.PlaceholderPath() {
		return nil
	}
	if err := os.Remove(filepath.Join(s.root, filepath.FromSlash(relPath))); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to remove media file: %w", err)
	}
	return nil
}

func extensionFor(format string) string {
	switch strings.ToLower(format) {
	case "jpeg":
		return "jpg"
	case "":
		return "bin"
	default:
		return strings.ToLower(format)
	}
}
