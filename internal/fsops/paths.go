package fsops

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/idelchi/fex/internal/explorer"
)

// Resolve joins name with cwd unless name is absolute.
func Resolve(cwd, name string) string {
	if filepath.IsAbs(name) {
		return filepath.Clean(name)
	}

	return filepath.Join(cwd, name)
}

// Required rejects empty user input before any filesystem access.
func Required(what, value string) error {
	if strings.TrimSpace(value) == "" {
		return fmt.Errorf("%w: no %s provided", explorer.ErrInvalidInput, what)
	}

	return nil
}

// ChangeDir resolves target against cwd and returns the new directory.
// ".." moves to the parent; the root is its own parent.
func ChangeDir(cwd, target string) (string, error) {
	if err := Required("directory", target); err != nil {
		return "", err
	}

	var next string
	if target == ".." {
		next = filepath.Dir(cwd)
	} else {
		next = Resolve(cwd, target)
	}

	info, err := os.Stat(next)
	if err != nil {
		return "", fmt.Errorf("invalid directory %q: %w", next, err)
	}

	if !info.IsDir() {
		return "", fmt.Errorf("invalid directory %q: not a directory", next)
	}

	return next, nil
}
