package report

import (
	"fmt"
	"io"
	"strings"

	"github.com/guarzo/psalistings/internal/model"
)

// Rule is the 80 column separator used around headings.
var Rule = strings.Repeat("=", 80)

// Display prints records as a numbered list, or a notice when there are none.
func Display(w io.Writer, records []model.CardRecord) {
	if len(records) == 0 {
		fmt.Fprintln(w, "\nNo results found.")
		return
	}

	fmt.Fprintf(w, "\n%s\n", Rule)
	fmt.Fprintf(w, "Found %d PSA Graded Pokemon Cards\n", len(records))
	fmt.Fprintf(w, "%s\n\n", Rule)

	for i, card := range records {
		fmt.Fprintf(w, "%d. %s\n", i+1, card.Title)
		fmt.Fprintf(w, "   Price: %s $%s\n", card.Currency, card.Price)
		fmt.Fprintf(w, "   Condition: %s\n", card.Condition)
		fmt.Fprintf(w, "   Seller: %s\n", card.Seller)
		fmt.Fprintf(w, "   URL: %s\n", card.ItemURL)
		fmt.Fprintln(w)
	}
}

// Banner prints a titled section heading.
func Banner(w io.Writer, title string) {
	fmt.Fprintf(w, "\n%s\n%s\n%s\n", Rule, title, Rule)
}
