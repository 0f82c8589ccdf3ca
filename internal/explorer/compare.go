package explorer

import (
	"bufio"
	"errors"
	"io"
	"os"
	"strings"
)

// MaxRecordedDifferences is the number of differing lines kept in a Comparison.
const MaxRecordedDifferences = 10

// LineDiff is a pair of differing lines at the same position.
type LineDiff struct {
	// Line is the 1-based line number.
	Line int `json:"line" yaml:"line"`
	// Left is the line from the first file.
	Left string `json:"left" yaml:"left"`
	// Right is the line from the second file.
	Right string `json:"right" yaml:"right"`
}

// Comparison is the outcome of a positional line comparison.
type Comparison struct {
	// LeftPath and RightPath are the compared files.
	LeftPath  string `json:"left_path"  yaml:"left_path"`
	RightPath string `json:"right_path" yaml:"right_path"`
	// LeftSize and RightSize are the file sizes in bytes.
	LeftSize  int64 `json:"left_size"  yaml:"left_size"`
	RightSize int64 `json:"right_size" yaml:"right_size"`
	// Differences holds the first MaxRecordedDifferences differing lines.
	Differences []LineDiff `json:"differences" yaml:"differences"`
	// TotalDifferences counts every differing line pair.
	TotalDifferences int `json:"total_differences" yaml:"total_differences"`
	// LengthMismatch is set when one file has lines past the end of the other.
	LengthMismatch bool `json:"length_mismatch" yaml:"length_mismatch"`
	// Identical is set when no lines differ and the line counts agree.
	Identical bool `json:"identical" yaml:"identical"`
}

// lineReader yields logical lines with the trailing newline removed.
type lineReader struct {
	r *bufio.Reader
}

// next returns the next line, or ok == false once the input is exhausted.
func (l lineReader) next() (string, bool, error) {
	line, err := l.r.ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return "", false, err
	}

	if line == "" && err != nil {
		return "", false, nil
	}

	return strings.TrimSuffix(line, "\n"), true, nil
}

// comparedFile is an open file with its size.
type comparedFile struct {
	file *os.File
	size int64
}

func openCompared(path string) (*comparedFile, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, &FileAccessError{Path: path, Err: err}
	}

	size, err := file.Seek(0, io.SeekEnd)
	if err == nil {
		_, err = file.Seek(0, io.SeekStart)
	}

	if err != nil {
		file.Close()

		return nil, &FileAccessError{Path: path, Err: err}
	}

	return &comparedFile{file: file, size: size}, nil
}

// Compare reads both files in lockstep and records the lines that differ by
// position. There is no realignment: an inserted line shows up as a
// difference on every following line.
func Compare(leftPath, rightPath string) (*Comparison, error) {
	if leftPath == "" || rightPath == "" {
		return nil, invalidf("two file names are required")
	}

	left, err := openCompared(leftPath)
	if err != nil {
		return nil, err
	}
	defer left.file.Close()

	right, err := openCompared(rightPath)
	if err != nil {
		return nil, err
	}
	defer right.file.Close()

	result := &Comparison{
		LeftPath:    leftPath,
		RightPath:   rightPath,
		LeftSize:    left.size,
		RightSize:   right.size,
		Differences: []LineDiff{},
	}

	leftLines := lineReader{r: bufio.NewReader(left.file)}
	rightLines := lineReader{r: bufio.NewReader(right.file)}

	for lineNum := 1; ; lineNum++ {
		leftLine, leftOK, err := leftLines.next()
		if err != nil {
			return nil, &FileAccessError{Path: leftPath, Err: err}
		}

		rightLine, rightOK, err := rightLines.next()
		if err != nil {
			return nil, &FileAccessError{Path: rightPath, Err: err}
		}

		if !leftOK || !rightOK {
			result.LengthMismatch = leftOK != rightOK

			break
		}

		if leftLine != rightLine {
			if result.TotalDifferences < MaxRecordedDifferences {
				result.Differences = append(result.Differences, LineDiff{
					Line:  lineNum,
					Left:  leftLine,
					Right: rightLine,
				})
			}

			result.TotalDifferences++
		}
	}

	result.Identical = result.TotalDifferences == 0 && !result.LengthMismatch

	return result, nil
}
