// Package query builds the free-text search string sent to the Browse API.
// A grade that was given is always emitted, so grade 0 yields "PSA 0"; only
// a nil grade is left out.
package query

import (
	"strconv"
	"strings"

	"github.com/guarzo/psalistings/internal/model"
)

// Builder assembles free-text search queries for graded Pokemon listings.
// Every query starts with the "Pokemon PSA" prefix; filters are appended in
// the order name, set, grade regardless of the order the With* calls are made.
type Builder struct {
	name    string
	setName string
	grade   *int
}

// New creates an empty query builder
func New() *Builder {
	return &Builder{}
}

// WithName adds the card name filter (e.g. "Charizard")
func (b *Builder) WithName(name string) *Builder {
	b.name = name
	return b
}

// WithSet adds the set name filter (e.g. "Base Set")
func (b *Builder) WithSet(setName string) *Builder {
	b.setName = setName
	return b
}

// WithGrade adds a "PSA <grade>" token. A nil grade clears the filter.
func (b *Builder) WithGrade(grade *int) *Builder {
	b.grade = grade
	return b
}

// Build creates the final query string
func (b *Builder) Build() string {
	parts := []string{"Pokemon", "PSA"}
	if b.name != "" {
		parts = append(parts, b.name)
	}
	if b.setName != "" {
		parts = append(parts, b.setName)
	}
	if b.grade != nil {
		parts = append(parts, "PSA "+strconv.Itoa(*b.grade))
	}
	return strings.Join(parts, " ")
}

// Build is shorthand for New().WithName(name).WithSet(setName).WithGrade(grade).Build().
func Build(name, setName string, grade *int) string {
	return New().WithName(name).WithSet(setName).WithGrade(grade).Build()
}

// FromFilters builds the query for a set of search filters.
func FromFilters(f model.SearchFilters) string {
	return Build(f.Name, f.SetName, f.Grade)
}
