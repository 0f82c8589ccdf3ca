package fsops

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"sort"

	"github.com/idelchi/fex/internal/explorer"
)

// List returns the entries of dir sorted by name. Entries are classified with
// stat, so links report their target; broken links fall back to lstat.
func List(dir string) ([]explorer.Entry, error) {
	dirEntries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("opening directory %q: %w", dir, err)
	}

	entries := make([]explorer.Entry, 0, len(dirEntries))

	for _, d := range dirEntries {
		path := Resolve(dir, d.Name())

		info, err := os.Stat(path)
		if err != nil {
			if info, err = os.Lstat(path); err != nil {
				continue
			}
		}

		entry := explorer.Entry{
			Path:      path,
			Name:      d.Name(),
			IsDir:     info.IsDir(),
			IsRegular: info.Mode().IsRegular(),
			ModTime:   info.ModTime(),
			Mode:      info.Mode(),
		}
		if entry.IsRegular {
			entry.Size = info.Size()
		}

		entries = append(entries, entry)
	}

	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].Name < entries[j].Name
	})

	return entries, nil
}

// CreateDir creates a single directory with mode 0755.
func CreateDir(path string) error {
	if err := Required("name", path); err != nil {
		return err
	}

	if err := os.Mkdir(path, 0o755); err != nil {
		return fmt.Errorf("creating directory: %w", err)
	}

	return nil
}

// CreateFile writes lines to path, each terminated by a newline, replacing
// any existing content.
func CreateFile(path string, lines []string) (err error) {
	if err := Required("filename", path); err != nil {
		return err
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating file: %w", err)
	}

	defer func() {
		if cerr := f.Close(); err == nil && cerr != nil {
			err = fmt.Errorf("closing file: %w", cerr)
		}
	}()

	w := bufio.NewWriter(f)
	for _, line := range lines {
		if _, err := w.WriteString(line + "\n"); err != nil {
			return fmt.Errorf("writing file: %w", err)
		}
	}

	if err := w.Flush(); err != nil {
		return fmt.Errorf("writing file: %w", err)
	}

	return nil
}

// DeleteFile removes a non-directory entry.
func DeleteFile(path string) error {
	if err := Required("filename", path); err != nil {
		return err
	}

	info, err := os.Lstat(path)
	if err != nil {
		return fmt.Errorf("deleting file: %w", err)
	}

	if info.IsDir() {
		return fmt.Errorf("deleting file: %q is a directory", path)
	}

	if err := os.Remove(path); err != nil {
		return fmt.Errorf("deleting file: %w", err)
	}

	return nil
}

// DeleteDir removes an empty directory.
func DeleteDir(path string) error {
	if err := Required("name", path); err != nil {
		return err
	}

	info, err := os.Lstat(path)
	if err != nil {
		return fmt.Errorf("deleting directory: %w", err)
	}

	if !info.IsDir() {
		return fmt.Errorf("deleting directory: %q is not a directory", path)
	}

	if err := os.Remove(path); err != nil {
		return fmt.Errorf("deleting directory (it may not be empty): %w", err)
	}

	return nil
}

// CopyFile copies src to dst byte for byte, mirroring the bytes written into
// progress when it is non-nil. dst is created or truncated.
func CopyFile(src, dst string, progress io.Writer) (err error) {
	if src == "" || dst == "" {
		return fmt.Errorf("%w: source or destination missing", explorer.ErrInvalidInput)
	}

	in, err := os.Open(src)
	if err != nil {
		return fmt.Errorf("copying file: %w", err)
	}
	defer in.Close()

	info, err := in.Stat()
	if err != nil {
		return fmt.Errorf("copying file: %w", err)
	}

	if info.IsDir() {
		return fmt.Errorf("copying file: %q is a directory", src)
	}

	if dstInfo, statErr := os.Stat(dst); statErr == nil && os.SameFile(info, dstInfo) {
		return fmt.Errorf("%w: %q and %q are the same file", explorer.ErrInvalidInput, src, dst)
	}

	out, err := os.OpenFile(dst, os.O_CREATE|os.O_TRUNC|os.O_WRONLY, info.Mode().Perm())
	if err != nil {
		return fmt.Errorf("copying file: %w", err)
	}

	defer func() {
		if cerr := out.Close(); err == nil && cerr != nil {
			err = fmt.Errorf("copying file: %w", cerr)
		}
	}()

	var w io.Writer = out
	if progress != nil {
		w = io.MultiWriter(out, progress)
	}

	if _, err := io.Copy(w, in); err != nil {
		return fmt.Errorf("copying file: %w", err)
	}

	return nil
}

// MoveFile renames src to dst.
func MoveFile(src, dst string) error {
	if src == "" || dst == "" {
		return fmt.Errorf("%w: source or destination missing", explorer.ErrInvalidInput)
	}

	if err := os.Rename(src, dst); err != nil {
		return fmt.Errorf("moving file: %w", err)
	}

	return nil
}
