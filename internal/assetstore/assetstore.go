// Package assetstore locates the per-user local asset directory that
// the image resolution service reads from and that the editor's "save
// image" flow writes into (<user documents>/<app>_Assets/images/).
package assetstore

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// Sentinel errors for asset store operations.
var (
	ErrInvalidAssetName = errors.New("invalid asset name")
	ErrAssetNotFound    = errors.New("asset not found")
)

// Directory layout constants.
const (
	dirSuffix = "_Assets"
	imagesDir = "images"
)

// DefaultRoot returns the asset store root for the given application
// name, under the user's documents directory.
func DefaultRoot(appName string) (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("resolving user home: %w", err)
	}
	return filepath.Join(home, "Documents", appName+dirSuffix), nil
}

// ImagesDir returns the image directory under an asset root.
func ImagesDir(root string) string {
	return filepath.Join(root, imagesDir)
}

// ValidateName checks that an asset name is safe for use as a filename.
// Separators, traversal sequences, and NUL bytes are rejected; dots are
// allowed because image names carry extensions.
func ValidateName(name string) error {
	if name == "" {
		return fmt.Errorf("%w: empty name", ErrInvalidAssetName)
	}
	if strings.ContainsAny(name, "/\\\x00") || strings.Contains(name, "..") {
		return fmt.Errorf("%w: %q", ErrInvalidAssetName, name)
	}
	return nil
}

// Lookup resolves an image name inside the asset root to its path.
// Returns ErrAssetNotFound if no regular file exists there.
func Lookup(root, name string) (string, error) {
	if err := ValidateName(name); err != nil {
		return "", err
	}
	path := filepath.Join(ImagesDir(root), name)
	info, err := os.Stat(path)
	if err != nil || info.IsDir() {
		return "", fmt.Errorf("%w: %q", ErrAssetNotFound, name)
	}
	return path, nil
}
