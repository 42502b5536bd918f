package ebay

const (
	SandboxBaseURL    = "https://api.sandbox.ebay.com"
	ProductionBaseURL = "https://api.ebay.com"

	tokenPath  = "/identity/v1/oauth2/token"
	searchPath = "/buy/browse/v1/item_summary/search"

	// DefaultScope is the public application scope; it is the same URL for sandbox and production.
	DefaultScope = "https://api.ebay.com/oauth/api_scope"

	// Sports Mem, Cards & Fan Shop > Sports Trading Cards
	CategoryID = "183454"

	// Only Buy It Now listings
	FixedPriceFilter = "buyingOptions:{FIXED_PRICE}"
)

// BaseURL returns the API host for the sandbox or production environment.
func BaseURL(sandbox bool) string {
	if sandbox {
		return SandboxBaseURL
	}
	return ProductionBaseURL
}
