package explorer

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()

	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	return path
}

func numberedLines(n int, format string) string {
	var b strings.Builder
	for i := 1; i <= n; i++ {
		fmt.Fprintf(&b, format+"\n", i)
	}

	return b.String()
}

func TestCompareFileWithItself(t *testing.T) {
	path := writeFile(t, t.TempDir(), "a.txt", "one\ntwo\nthree\n")

	result, err := Compare(path, path)
	require.NoError(t, err)

	assert.True(t, result.Identical)
	assert.False(t, result.LengthMismatch)
	assert.Zero(t, result.TotalDifferences)
	assert.Empty(t, result.Differences)
	assert.EqualValues(t, 14, result.LeftSize)
	assert.Equal(t, result.LeftSize, result.RightSize)
}

func TestCompareLengthMismatch(t *testing.T) {
	dir := t.TempDir()
	short := writeFile(t, dir, "short.txt", "a\nb\nc\n")
	long := writeFile(t, dir, "long.txt", "a\nb\nc\nd\ne\n")

	for _, pair := range [][2]string{{short, long}, {long, short}} {
		result, err := Compare(pair[0], pair[1])
		require.NoError(t, err)

		assert.True(t, result.LengthMismatch)
		assert.False(t, result.Identical)
		assert.Zero(t, result.TotalDifferences)
	}
}

func TestCompareCapsRecordedDifferences(t *testing.T) {
	dir := t.TempDir()
	left := writeFile(t, dir, "left.txt", numberedLines(15, "left %d"))
	right := writeFile(t, dir, "right.txt", numberedLines(15, "right %d"))

	result, err := Compare(left, right)
	require.NoError(t, err)

	assert.Equal(t, 15, result.TotalDifferences)
	require.Len(t, result.Differences, MaxRecordedDifferences)
	assert.Equal(t, LineDiff{Line: 1, Left: "left 1", Right: "right 1"}, result.Differences[0])
	assert.Equal(t, 10, result.Differences[9].Line)
	assert.False(t, result.LengthMismatch)
	assert.False(t, result.Identical)
}

func TestCompareIsPositional(t *testing.T) {
	dir := t.TempDir()
	left := writeFile(t, dir, "left.txt", "a\nb\nc\n")
	right := writeFile(t, dir, "right.txt", "x\na\nb\nc\n")

	result, err := Compare(left, right)
	require.NoError(t, err)

	assert.Equal(t, 3, result.TotalDifferences)
	assert.True(t, result.LengthMismatch)
	assert.Equal(t, []LineDiff{
		{Line: 1, Left: "a", Right: "x"},
		{Line: 2, Left: "b", Right: "a"},
		{Line: 3, Left: "c", Right: "b"},
	}, result.Differences)
}

func TestCompareMissingTrailingNewline(t *testing.T) {
	dir := t.TempDir()
	left := writeFile(t, dir, "left.txt", "a\nb\n")
	right := writeFile(t, dir, "right.txt", "a\nb")

	result, err := Compare(left, right)
	require.NoError(t, err)

	assert.True(t, result.Identical)
	assert.EqualValues(t, 4, result.LeftSize)
	assert.EqualValues(t, 3, result.RightSize)
}

func TestCompareEmptyFiles(t *testing.T) {
	dir := t.TempDir()
	left := writeFile(t, dir, "left.txt", "")
	right := writeFile(t, dir, "right.txt", "")

	result, err := Compare(left, right)
	require.NoError(t, err)
	assert.True(t, result.Identical)

	nonEmpty := writeFile(t, dir, "blank.txt", "\n")

	result, err = Compare(left, nonEmpty)
	require.NoError(t, err)
	assert.True(t, result.LengthMismatch)
}

func TestCompareAccessErrors(t *testing.T) {
	dir := t.TempDir()
	existing := writeFile(t, dir, "a.txt", "a\n")
	missing := filepath.Join(dir, "missing.txt")

	result, err := Compare(existing, missing)
	assert.Nil(t, result)

	var accessErr *FileAccessError
	require.ErrorAs(t, err, &accessErr)
	assert.Equal(t, missing, accessErr.Path)
	assert.ErrorIs(t, err, os.ErrNotExist)

	_, err = Compare(missing, existing)
	require.ErrorAs(t, err, &accessErr)
	assert.Equal(t, missing, accessErr.Path)

	_, err = Compare("", existing)
	assert.ErrorIs(t, err, ErrInvalidInput)
}
