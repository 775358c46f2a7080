// Package security confines every file a tool reads or writes to the
// configured workspace directory.
package security

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// ErrOutsideWorkspace is returned for paths that resolve outside the
// workspace, including through symlinks.
var ErrOutsideWorkspace = errors.New("path is outside configured directory")

// PathValidator provides security validation for file paths
type PathValidator struct {
	configuredDirectory string
}

// NewPathValidator creates a new path validator for the given directory.
// The directory need not exist yet; paths are rejected until it does.
func NewPathValidator(configuredDirectory string) (*PathValidator, error) {
	if configuredDirectory == "" {
		return nil, fmt.Errorf("configured directory cannot be empty")
	}

	abs, err := filepath.Abs(configuredDirectory)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve configured directory: %w", err)
	}
	return &PathValidator{configuredDirectory: abs}, nil
}

// GetConfiguredDirectory returns the absolute workspace path
func (v *PathValidator) GetConfiguredDirectory() string {
	return v.configuredDirectory
}

// Resolve turns a tool-supplied path into an absolute path inside the
// workspace. Relative paths are taken relative to the workspace. The target
// need not exist, which lets callers resolve output files.
func (v *PathValidator) Resolve(path string) (string, error) {
	if strings.TrimSpace(path) == "" {
		return "", fmt.Errorf("path cannot be empty")
	}
	if strings.ContainsRune(path, 0) {
		return "", fmt.Errorf("path contains a NUL byte")
	}

	if !filepath.IsAbs(path) {
		path = filepath.Join(v.configuredDirectory, path)
	}
	absPath, err := filepath.Abs(path)
	if err != nil {
		return "", fmt.Errorf("failed to resolve path: %w", err)
	}

	within, err := v.IsPathWithinDirectory(absPath)
	if err != nil {
		return "", fmt.Errorf("path validation failed: %w", err)
	}
	if !within {
		return "", fmt.Errorf("%w: %s", ErrOutsideWorkspace, path)
	}
	return absPath, nil
}

// ValidatePath checks if a path is within the configured directory
func (v *PathValidator) ValidatePath(path string) error {
	_, err := v.Resolve(path)
	return err
}

// IsPathWithinDirectory reports whether path, with every symlink along it
// resolved, lies inside the workspace.
func (v *PathValidator) IsPathWithinDirectory(path string) (bool, error) {
	realDir, err := filepath.EvalSymlinks(v.configuredDirectory)
	if err != nil {
		return false, fmt.Errorf("configured directory is not accessible: %w", err)
	}

	absPath, err := filepath.Abs(path)
	if err != nil {
		return false, fmt.Errorf("failed to resolve path: %w", err)
	}
	realPath, err := realPath(filepath.Clean(absPath))
	if err != nil {
		return false, err
	}

	rel, err := filepath.Rel(realDir, realPath)
	if err != nil {
		return false, nil //nolint:nilerr // different volume means outside
	}
	return rel == "." || (rel != ".." && !strings.HasPrefix(rel, ".."+string(filepath.Separator))), nil
}

// realPath resolves symlinks in the longest existing prefix of path and
// appends the part that does not exist yet.
func realPath(path string) (string, error) {
	var missing []string
	cur := path
	for {
		resolved, err := filepath.EvalSymlinks(cur)
		if err == nil {
			parts := append([]string{resolved}, missing...)
			return filepath.Join(parts...), nil
		}
		if !os.IsNotExist(err) {
			return "", fmt.Errorf("failed to evaluate symlinks: %w", err)
		}
		parent := filepath.Dir(cur)
		if parent == cur {
			return path, nil
		}
		missing = append([]string{filepath.Base(cur)}, missing...)
		cur = parent
	}
}

// ValidateDirectory checks that dirPath is an existing directory inside the
// workspace.
func (v *PathValidator) ValidateDirectory(dirPath string) error {
	abs, err := v.Resolve(dirPath)
	if err != nil {
		return err
	}

	info, err := os.Stat(abs)
	if err != nil {
		return fmt.Errorf("cannot access directory: %w", err)
	}
	if !info.IsDir() {
		return fmt.Errorf("path is not a directory: %s", dirPath)
	}
	return nil
}
