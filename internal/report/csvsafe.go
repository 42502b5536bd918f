package report

import (
	"strings"

	"github.com/guarzo/psalistings/internal/model"
)

// formulaPrefixes are leading characters spreadsheets may evaluate as a formula.
const formulaPrefixes = "=+-@|%\t\r\n"

// CSVHeader is the header row written by SaveCSV.
var CSVHeader = []string{"title", "price", "currency", "condition", "item_url", "image_url", "seller"}

// EscapeCSVCell protects against CSV formula injection by prefixing cells
// that start with a formula character with a single quote.
func EscapeCSVCell(value string) string {
	if value == "" {
		return value
	}
	if strings.ContainsRune(formulaPrefixes, rune(value[0])) {
		return "'" + value
	}
	return value
}

// EscapeCSVRow escapes all cells in a row
func EscapeCSVRow(row []string) []string {
	escaped := make([]string, len(row))
	for i, cell := range row {
		escaped[i] = EscapeCSVCell(cell)
	}
	return escaped
}

// CSVRow returns a record's cells in CSVHeader order, escaped.
func CSVRow(r model.CardRecord) []string {
	return EscapeCSVRow([]string{r.Title, r.Price, r.Currency, r.Condition, r.ItemURL, r.ImageURL, r.Seller})
}
