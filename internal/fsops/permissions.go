package fsops

import (
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"

	"github.com/idelchi/fex/internal/explorer"
)

// Permissions describes the permission bits of a path.
type Permissions struct {
	// Path is the inspected path.
	Path string `json:"path" yaml:"path"`
	// Mode holds the permission bits.
	Mode fs.FileMode `json:"mode" yaml:"mode"`
}

// triplet renders three permission bits starting at shift as "rwx".
func (p Permissions) triplet(shift uint) string {
	bits := uint32(p.Mode.Perm()) >> shift

	var b strings.Builder
	for i, c := range "rwx" {
		if bits&(4>>i) != 0 {
			b.WriteRune(c)
		} else {
			b.WriteByte('-')
		}
	}

	return b.String()
}

// Owner returns the owner bits as "rwx".
func (p Permissions) Owner() string { return p.triplet(6) }

// Group returns the group bits as "rwx".
func (p Permissions) Group() string { return p.triplet(3) }

// Others returns the bits for everyone else as "rwx".
func (p Permissions) Others() string { return p.triplet(0) }

// Octal returns the permission bits in octal, e.g. "755".
func (p Permissions) Octal() string {
	return strconv.FormatUint(uint64(p.Mode.Perm()), 8)
}

// ReadPermissions stats path and returns its permission bits.
func ReadPermissions(path string) (Permissions, error) {
	info, err := os.Stat(path)
	if err != nil {
		return Permissions{}, fmt.Errorf("reading permissions: %w", err)
	}

	return Permissions{Path: path, Mode: info.Mode().Perm()}, nil
}

// ParseMode parses an octal permission string such as "755".
func ParseMode(octal string) (fs.FileMode, error) {
	octal = strings.TrimSpace(octal)

	mode, err := strconv.ParseUint(octal, 8, 32)
	if err != nil || mode > 0o777 {
		return 0, fmt.Errorf("%w: %q is not an octal permission between 0 and 777", explorer.ErrInvalidInput, octal)
	}

	return fs.FileMode(mode), nil
}

// Chmod sets the permission bits of path from an octal string.
func Chmod(path, octal string) error {
	mode, err := ParseMode(octal)
	if err != nil {
		return err
	}

	if err := os.Chmod(path, mode); err != nil {
		return fmt.Errorf("changing permissions: %w", err)
	}

	return nil
}
