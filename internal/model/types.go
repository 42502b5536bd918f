package model

// DefaultLimit is the page size used when a search does not set one.
const DefaultLimit = 50

// NotAvailable is substituted for any listing field the provider left out.
const NotAvailable = "N/A"

// DefaultCurrency is used when a listing has no price currency.
const DefaultCurrency = "USD"

// SearchFilters narrows a graded card search. Zero values mean "not set".
type SearchFilters struct {
	Name    string
	SetName string
	Grade   *int // nil when no grade filter was given
	Limit   int
}

// EffectiveLimit returns Limit, or DefaultLimit when Limit was left at zero.
func (f SearchFilters) EffectiveLimit() int {
	if f.Limit == 0 {
		return DefaultLimit
	}
	return f.Limit
}

// Grade returns a pointer suitable for SearchFilters.Grade.
func Grade(g int) *int {
	return &g
}

// CardRecord is the flattened form of a single marketplace listing.
type CardRecord struct {
	Title     string `json:"title"`
	Price     string `json:"price"`
	Currency  string `json:"currency"`
	Condition string `json:"condition"`
	ItemURL   string `json:"item_url"`
	ImageURL  string `json:"image_url"`
	Seller    string `json:"seller"`
}
