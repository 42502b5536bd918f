package testutil

import (
	"fmt"
	"math/rand"
	"time"
)

// TestDataFactory generates Browse API shaped listing data for tests
type TestDataFactory struct {
	rand *rand.Rand
}

// NewTestDataFactory creates a new test data factory with a seeded random generator
func NewTestDataFactory(seed int64) *TestDataFactory {
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	return &TestDataFactory{
		rand: rand.New(rand.NewSource(seed)),
	}
}

// GenerateCardName returns a random Pokemon card name
func (f *TestDataFactory) GenerateCardName() string {
	names := []string{"Charizard", "Pikachu", "Blastoise", "Venusaur", "Mewtwo", "Lugia"}
	return names[f.rand.Intn(len(names))]
}

// GenerateSetName returns a random set name
func (f *TestDataFactory) GenerateSetName() string {
	sets := []string{"Base Set", "Jungle", "Fossil", "Team Rocket", "Gym Heroes"}
	return sets[f.rand.Intn(len(sets))]
}

// GenerateGrade returns a PSA grade between 1 and 10
func (f *TestDataFactory) GenerateGrade() int {
	return f.rand.Intn(10) + 1
}

// GenerateItem returns one fully populated itemSummaries entry
func (f *TestDataFactory) GenerateItem() map[string]any {
	id := f.rand.Int63n(1_000_000_000)
	return map[string]any{
		"itemId": fmt.Sprintf("v1|%d|0", id),
		"title":  fmt.Sprintf("%s %s PSA %d", f.GenerateCardName(), f.GenerateSetName(), f.GenerateGrade()),
		"price": map[string]any{
			"value":    fmt.Sprintf("%.2f", 10+f.rand.Float64()*990),
			"currency": "USD",
		},
		"condition":  "Graded",
		"itemWebUrl": fmt.Sprintf("https://www.ebay.com/itm/%d", id),
		"image": map[string]any{
			"imageUrl": fmt.Sprintf("https://i.ebayimg.com/images/g/%d/s-l225.jpg", id),
		},
		"seller": map[string]any{
			"username":           fmt.Sprintf("seller_%d", f.rand.Intn(1000)),
			"feedbackPercentage": "99.8",
		},
	}
}

// GenerateSearchResponse returns a search envelope with count items
func (f *TestDataFactory) GenerateSearchResponse(count int) map[string]any {
	items := make([]any, 0, count)
	for i := 0; i < count; i++ {
		items = append(items, f.GenerateItem())
	}
	return map[string]any{
		"href":          "https://api.sandbox.ebay.com/buy/browse/v1/item_summary/search?q=Pokemon+PSA",
		"total":         count,
		"limit":         count,
		"offset":        0,
		"itemSummaries": items,
	}
}
