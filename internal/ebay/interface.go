package ebay

import (
	"context"

	"github.com/guarzo/psalistings/internal/model"
)

// Searcher defines the interface for graded listing search providers
type Searcher interface {
	Search(ctx context.Context, filters model.SearchFilters) (RawResponse, error)
}

// Ensure Client implements Searcher
var _ Searcher = (*Client)(nil)
