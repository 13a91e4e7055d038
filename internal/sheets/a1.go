package sheets

import (
	"strconv"
	"strings"
)

// columnName converts a 1-based column index to its A1 letters.
func columnName(col int) string {
	var b []byte
	for col > 0 {
		col--
		b = append([]byte{byte('A' + col%26)}, b...)
		col /= 26
	}
	return string(b)
}

// quoteTitle quotes a worksheet title for use in a range.
func quoteTitle(title string) string {
	return "'" + strings.ReplaceAll(title, "'", "''") + "'"
}

// cellRange is the A1 range of a single cell.
func cellRange(worksheet string, row, col int) string {
	return quoteTitle(worksheet) + "!" + columnName(col) + strconv.Itoa(row)
}
