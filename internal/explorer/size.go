package explorer

import "fmt"

// sizeUnits is the unit ladder used by FormatSize.
//
//nolint:gochecknoglobals // Constant table
var sizeUnits = []string{"B", "KB", "MB", "GB", "TB"}

// FormatSize renders a byte count with two fractional digits, dividing by 1024
// until the value drops below 1024 or the ladder ends at TB.
func FormatSize(bytes int64) string {
	size := float64(bytes)
	unit := 0

	for size >= 1024 && unit < len(sizeUnits)-1 {
		size /= 1024
		unit++
	}

	return fmt.Sprintf("%.2f %s", size, sizeUnits[unit])
}
