package export

import "strings"

// CSVDelimiter is a semicolon: the nl-NL convention, since the comma is
// the decimal separator there.
const CSVDelimiter = ";"

// CSV renders rows with the semicolon delimiter, quoting cells that
// contain the delimiter, quotes or newlines.
func CSV(rows [][]string) string {
	lines := make([]string, 0, len(rows))
	for _, row := range rows {
		cells := make([]string, 0, len(row))
		for _, cell := range row {
			cells = append(cells, escapeCSVCell(cell))
		}
		lines = append(lines, strings.Join(cells, CSVDelimiter))
	}
	return strings.Join(lines, "\n")
}

func escapeCSVCell(value string) string {
	if strings.Contains(value, CSVDelimiter) || strings.Contains(value, `"`) || strings.Contains(value, "\n") {
		return `"` + strings.ReplaceAll(value, `"`, `""`) + `"`
	}
	return value
}
