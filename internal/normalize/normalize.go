// Package normalize flattens Browse API search results into card records.
package normalize

import (
	"github.com/guarzo/psalistings/internal/model"
)

// ListingsKey is the envelope key holding the listing array.
const ListingsKey = "itemSummaries"

// Records converts a raw search envelope into card records, one per listing,
// in provider order. A response without listings yields an empty slice.
func Records(raw map[string]any) []model.CardRecord {
	items, ok := raw[ListingsKey].([]any)
	if !ok {
		return []model.CardRecord{}
	}

	records := make([]model.CardRecord, 0, len(items))
	for _, item := range items {
		records = append(records, Record(item))
	}
	return records
}

// Record flattens a single listing. Missing fields become model.NotAvailable,
// except currency which defaults to model.DefaultCurrency.
func Record(item any) model.CardRecord {
	return model.CardRecord{
		Title:     StringOr(item, "title", model.NotAvailable),
		Price:     StringOr(item, "price.value", model.NotAvailable),
		Currency:  StringOr(item, "price.currency", model.DefaultCurrency),
		Condition: StringOr(item, "condition", model.NotAvailable),
		ItemURL:   StringOr(item, "itemWebUrl", model.NotAvailable),
		ImageURL:  StringOr(item, "image.imageUrl", model.NotAvailable),
		Seller:    StringOr(item, "seller.username", model.NotAvailable),
	}
}
