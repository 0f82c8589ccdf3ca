// Package integration provides the embedded shell integration snippet.
package integration

import (
	"bytes"
	_ "embed"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"text/template"
)

// Script contains the POSIX shell function wrapping the explorer.
//
//go:embed fex.sh
var Script string

// Binary is the executable name looked up when the running binary cannot be resolved.
const Binary = "fex"

// Render renders the integration script with the path of the explorer binary.
func Render() (string, error) {
	bin, err := executable()
	if err != nil {
		return "", err
	}

	return render(filepath.ToSlash(bin))
}

// executable prefers the running binary, then falls back to a PATH lookup.
func executable() (string, error) {
	if self, err := os.Executable(); err == nil {
		if resolved, err := filepath.EvalSymlinks(self); err == nil {
			return resolved, nil
		}

		return self, nil
	}

	bin, err := exec.LookPath(Binary)
	if err != nil {
		return "", fmt.Errorf("locating %s binary: %w", Binary, err)
	}

	return bin, nil
}

func render(bin string) (string, error) {
	tmpl, err := template.New("fex").Option("missingkey=error").Parse(Script)
	if err != nil {
		return "", err
	}

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, map[string]any{
		"FEX": bin,
	}); err != nil {
		return "", err
	}

	return buf.String(), nil
}
