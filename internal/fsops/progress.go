package fsops

import (
	"fmt"
	"io"

	"github.com/k0kubun/go-ansi"
	"github.com/schollz/progressbar/v3"
)

// CopyProgress renders byte progress for a copy.
type CopyProgress struct {
	bar  *progressbar.ProgressBar
	show bool
	out  io.Writer
}

// NewCopyProgress creates a progress bar for totalBytes. When show is false
// the bar writes to io.Discard (typically show is stderr-is-a-TTY).
func NewCopyProgress(totalBytes int64, description string, show bool) *CopyProgress {
	var writer io.Writer = ansi.NewAnsiStderr()
	if !show {
		writer = io.Discard
	}

	bar := progressbar.NewOptions64(totalBytes,
		progressbar.OptionSetWriter(writer),
		progressbar.OptionEnableColorCodes(true),
		progressbar.OptionShowBytes(true),
		progressbar.OptionSetDescription(fmt.Sprintf("[cyan]%s[reset]", description)),
		progressbar.OptionSetTheme(progressbar.Theme{
			Saucer:        "[green]=[reset]",
			SaucerHead:    "[green]>[reset]",
			SaucerPadding: " ",
			BarStart:      "[",
			BarEnd:        "]",
		}),
	)

	return &CopyProgress{bar: bar, show: show, out: writer}
}

// Write implements io.Writer.
func (p *CopyProgress) Write(b []byte) (int, error) {
	return p.bar.Write(b)
}

// Finish completes the bar and ends its line when shown.
func (p *CopyProgress) Finish() error {
	err := p.bar.Finish()
	if p.show {
		fmt.Fprintln(p.out)
	}

	return err
}
