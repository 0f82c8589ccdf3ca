package fsops

import (
	"bufio"
	"fmt"
	"io"
	"os"

	"github.com/gabriel-vasile/mimetype"
)

// maxLineSize bounds a single line when viewing content.
const maxLineSize = 1 << 20

// Content is the text of a file split into lines.
type Content struct {
	// Path is the viewed file.
	Path string `json:"path" yaml:"path"`
	// MIME is the detected media type.
	MIME string `json:"mime" yaml:"mime"`
	// Binary is set for files that are not text; Lines is then empty.
	Binary bool `json:"binary" yaml:"binary"`
	// Lines holds the file content without line terminators.
	Lines []string `json:"lines" yaml:"lines"`
}

// isText reports whether mime is text/plain or one of its descendants.
func isText(mime *mimetype.MIME) bool {
	for m := mime; m != nil; m = m.Parent() {
		if m.Is("text/plain") {
			return true
		}
	}

	return false
}

// ReadContent reads path as text. Binary files are detected by content and
// returned without lines.
func ReadContent(path string) (*Content, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening file: %w", err)
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return nil, fmt.Errorf("opening file: %w", err)
	}

	if info.IsDir() {
		return nil, fmt.Errorf("opening file: %q is a directory", path)
	}

	content := &Content{Path: path, MIME: "text/plain", Lines: []string{}}

	if info.Size() > 0 {
		mime, err := mimetype.DetectReader(f)
		if err != nil {
			return nil, fmt.Errorf("detecting file type: %w", err)
		}

		content.MIME = mime.String()

		if !isText(mime) {
			content.Binary = true

			return content, nil
		}

		if _, err := f.Seek(0, io.SeekStart); err != nil {
			return nil, fmt.Errorf("reading file: %w", err)
		}
	}

	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 0, 64*1024), maxLineSize)

	for scanner.Scan() {
		content.Lines = append(content.Lines, scanner.Text())
	}

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("reading file: %w", err)
	}

	return content, nil
}
