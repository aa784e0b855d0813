package speech

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// Dir stores synthesized audio artifacts in a flat directory. Names are
// validated so a crafted filename cannot escape the directory.
type Dir struct {
	root string
}

// NewDir creates the artifact directory if needed.
func NewDir(root string) (*Dir, error) {
	if err := os.MkdirAll(root, 0o755); err != nil {
		return nil, fmt.Errorf("creating audio directory: %w", err)
	}
	return &Dir{root: root}, nil
}

// Write stores data under name and returns the artifact name.
func (d *Dir) Write(name string, data []byte) (string, error) {
	path, err := d.Path(name)
	if err != nil {
		return "", err
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", fmt.Errorf("writing audio artifact: %w", err)
	}
	return name, nil
}

// Path resolves an artifact name to its on-disk path, rejecting anything
// that is not a plain filename.
func (d *Dir) Path(name string) (string, error) {
	if name == "" || name != filepath.Base(name) || strings.HasPrefix(name, ".") {
		return "", fmt.Errorf("invalid audio artifact name %q", name)
	}
	return filepath.Join(d.root, name), nil
}

// Exists reports whether an artifact with this name is stored.
func (d *Dir) Exists(name string) bool {
	path, err := d.Path(name)
	if err != nil {
		return false
	}
	_, err = os.Stat(path)
	return err == nil
}
