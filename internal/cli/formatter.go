package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/dustin/go-humanize"
	"gopkg.in/yaml.v3"

	"github.com/idelchi/fex/internal/explorer"
	"github.com/idelchi/fex/internal/fsops"
)

const (
	// TabSpacing is the number of spaces between tabwriter columns.
	TabSpacing = 2
	// RuleWidth is the width of the horizontal rules around sections.
	RuleWidth = 70
	// TimeLayout formats modification times in listings.
	TimeLayout = "2006-01-02 15:04"
)

func rule(c string) string {
	return strings.Repeat(c, RuleWidth)
}

// PrintJSON outputs v in JSON format.
func PrintJSON(v any, writer io.Writer) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding JSON output: %w", err)
	}

	if _, err := fmt.Fprintln(writer, string(data)); err != nil {
		return err
	}

	return nil
}

// PrintYAML outputs v in YAML format.
func PrintYAML(v any, writer io.Writer) error {
	enc := yaml.NewEncoder(writer)
	enc.SetIndent(2)

	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("encoding YAML output: %w", err)
	}

	return enc.Close()
}

// render writes v as JSON or YAML, or calls table for the table format.
func render(writer io.Writer, format string, v any, table func(io.Writer) error) error {
	switch strings.ToLower(format) {
	case "json":
		return PrintJSON(v, writer)
	case "yaml":
		return PrintYAML(v, writer)
	case "table", "":
		return table(writer)
	default:
		return fmt.Errorf("unknown output format: %s", format)
	}
}

// PrintListing outputs the entries of dir as a table.
//
//nolint:forbidigo // This function prints output to the console.
func PrintListing(dir string, entries []explorer.Entry, now time.Time, writer io.Writer) error {
	fmt.Fprintf(writer, "\nCurrent Directory: %s\n%s\n", dir, rule("-"))

	w := tabwriter.NewWriter(writer, 0, 4, TabSpacing, ' ', 0)
	fmt.Fprintln(w, "Name\tType\tSize\tModified\t")

	for _, e := range entries {
		kind, size := "FILE", explorer.FormatSize(e.Size)
		if e.IsDir {
			kind, size = "DIR", "-"
		}

		fmt.Fprintf(w, "%s\t%s\t%s\t%s (%s)\t\n",
			e.Name, kind, size, e.ModTime.Format(TimeLayout), humanize.RelTime(e.ModTime, now, "ago", "from now"))
	}

	if err := w.Flush(); err != nil {
		return err
	}

	_, err := fmt.Fprintln(writer, rule("-"))

	return err
}

// PrintStatistics outputs the statistics dashboard.
//
//nolint:forbidigo // This function prints output to the console.
func PrintStatistics(stats *explorer.Statistics, writer io.Writer) error {
	fmt.Fprintf(writer, "\nDIRECTORY STATISTICS DASHBOARD\n%s\n", rule("="))

	w := tabwriter.NewWriter(writer, 0, 4, TabSpacing, ' ', 0)
	fmt.Fprintf(w, "Directory:\t%s\n", stats.Root)
	fmt.Fprintf(w, "Total Directories:\t%s\n", humanize.Comma(stats.DirCount))
	fmt.Fprintf(w, "Total Files:\t%s\n", humanize.Comma(stats.FileCount))
	fmt.Fprintf(w, "Total Size:\t%s (%d bytes)\n", explorer.FormatSize(stats.TotalBytes), stats.TotalBytes)

	if stats.Errors > 0 {
		fmt.Fprintf(w, "Skipped (unreadable):\t%s\n", humanize.Comma(stats.Errors))
	}

	if exts := stats.SortedExtensions(); len(exts) > 0 {
		fmt.Fprintf(w, "\nFile Types Breakdown:\t\n%s\t\n", strings.Repeat("-", 40))

		for _, ext := range exts {
			fmt.Fprintf(w, "%s:\t%d files\n", ext.Extension, ext.Count)
		}
	}

	fmt.Fprintf(w, "\nElapsed:\t%v\n", stats.Elapsed.Round(time.Millisecond))

	if err := w.Flush(); err != nil {
		return err
	}

	_, err := fmt.Fprintln(writer, rule("="))

	return err
}

// PrintMatches outputs simple search hits, one path per line.
func PrintMatches(root string, matches []explorer.Match, writer io.Writer) error {
	fmt.Fprintf(writer, "\nSearching in: %s\n%s\n", root, rule("-"))

	for _, m := range matches {
		fmt.Fprintf(writer, "Found: %s\n", m.Path)
	}

	if len(matches) == 0 {
		fmt.Fprintln(writer, "No matches found.")
	}

	_, err := fmt.Fprintln(writer, rule("-"))

	return err
}

// PrintFilteredMatches outputs filtered search hits with their sizes.
func PrintFilteredMatches(matches []explorer.Match, writer io.Writer) error {
	fmt.Fprintf(writer, "\nSearching with filters...\n%s\n", rule("-"))

	for _, m := range matches {
		fmt.Fprintf(writer, "%s (%s)\n", m.Path, explorer.FormatSize(m.Size))
	}

	if len(matches) == 0 {
		fmt.Fprintln(writer, "No files found matching criteria.")
	}

	_, err := fmt.Fprintln(writer, rule("-"))

	return err
}

// PrintComparison outputs the comparison report.
func PrintComparison(c *explorer.Comparison, writer io.Writer) error {
	fmt.Fprintf(writer, "\nCOMPARISON RESULTS\n%s\n", rule("="))
	fmt.Fprintf(writer, "File 1 size: %s\n", explorer.FormatSize(c.LeftSize))
	fmt.Fprintf(writer, "File 2 size: %s\n", explorer.FormatSize(c.RightSize))

	for _, d := range c.Differences {
		fmt.Fprintf(writer, "\nDifference at line %d:\n  File 1: %s\n  File 2: %s\n", d.Line, d.Left, d.Right)
	}

	if c.LengthMismatch {
		fmt.Fprintln(writer, "\nFiles have different number of lines.")
	}

	fmt.Fprintf(writer, "\n%s\n", rule("-"))

	if c.Identical {
		fmt.Fprintln(writer, "Files are IDENTICAL.")
	} else {
		fmt.Fprintf(writer, "Files are DIFFERENT (%d differences, showing up to the first %d).\n",
			c.TotalDifferences, explorer.MaxRecordedDifferences)
	}

	_, err := fmt.Fprintln(writer, rule("="))

	return err
}

// PrintPermissions outputs permission bits per class and in octal.
func PrintPermissions(name string, p fsops.Permissions, writer io.Writer) error {
	_, err := fmt.Fprintf(writer, "\nPermissions for: %s\n%s\nOwner:  %s\nGroup:  %s\nOthers: %s\nOctal:  %s\n",
		name, strings.Repeat("-", 40), p.Owner(), p.Group(), p.Others(), p.Octal())

	return err
}

// PrintContent outputs file lines prefixed with line numbers.
func PrintContent(name string, c *fsops.Content, writer io.Writer) error {
	fmt.Fprintf(writer, "\n%s\nContent of: %s (%s)\n%s\n", rule("="), name, c.MIME, rule("="))

	if c.Binary {
		fmt.Fprintln(writer, "Binary file, content not shown.")
	}

	for i, line := range c.Lines {
		fmt.Fprintf(writer, "%4d | %s\n", i+1, line)
	}

	_, err := fmt.Fprintln(writer, rule("="))

	return err
}

// PrintHistory outputs the most recent activity lines.
func PrintHistory(lines []string, writer io.Writer) error {
	fmt.Fprintf(writer, "\nACTIVITY HISTORY\n%s\n", rule("="))

	for _, line := range lines {
		fmt.Fprintln(writer, line)
	}

	if len(lines) == 0 {
		fmt.Fprintln(writer, "No history found.")
	}

	_, err := fmt.Fprintln(writer, rule("="))

	return err
}
