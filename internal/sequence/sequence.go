// Package sequence produces human-readable document numbers per type and year.
package sequence

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Document number prefixes.
const (
	PrefixReceipt    = "RCP"
	PrefixDelivery   = "DEL"
	PrefixAdjustment = "ADJ"
)

// Repository abstracts atomic counter storage keyed by (prefix, year).
type Repository interface {
	// NextCounter increments and returns the counter for (prefix, year),
	// seeding from pre-existing document numbers when the counter is new.
	NextCounter(ctx context.Context, prefix string, year int) (int, error)
	// NextSKUCounter increments and returns the product SKU counter for prefix.
	NextSKUCounter(ctx context.Context, prefix string) (int, error)
}

// Generator derives the next document number per type/year.
type Generator struct {
	repo Repository
}

// NewGenerator builds a Generator.
func NewGenerator(repo Repository) *Generator {
	return &Generator{repo: repo}
}

// Next returns the next number formatted as PREFIX-YYYY-NNN.
func (g *Generator) Next(ctx context.Context, prefix string, year int) (string, error) {
	if prefix == "" || year <= 0 {
		return "", fmt.Errorf("sequence: prefix and year required")
	}
	n, err := g.repo.NextCounter(ctx, prefix, year)
	if err != nil {
		return "", fmt.Errorf("sequence: next counter: %w", err)
	}
	return fmt.Sprintf("%s-%d-%03d", prefix, year, n), nil
}

// ProductSKU returns the next SKU formatted as ABC-NNNNN, where ABC is derived
// from the category name, falling back to PRD.
func (g *Generator) ProductSKU(ctx context.Context, categoryName string) (string, error) {
	prefix := SKUPrefix(categoryName)
	n, err := g.repo.NextSKUCounter(ctx, prefix)
	if err != nil {
		return "", fmt.Errorf("sequence: next sku counter: %w", err)
	}
	return fmt.Sprintf("%s-%05d", prefix, n), nil
}

var upper = cases.Upper(language.Und)

// SKUPrefix derives a three-letter prefix from a category name, or PRD when
// the name has fewer than three letters.
func SKUPrefix(categoryName string) string {
	letters := make([]rune, 0, 3)
	for _, r := range categoryName {
		if unicode.IsLetter(r) {
			letters = append(letters, r)
			if len(letters) == 3 {
				break
			}
		}
	}
	if len(letters) < 3 {
		return "PRD"
	}
	return upper.String(string(letters))
}

// TrailingInt parses the numeric tail of an existing document number.
// Corrupt values yield 0 so the sequence restarts at 1 instead of failing.
func TrailingInt(number string) int {
	idx := strings.LastIndex(number, "-")
	if idx < 0 || idx == len(number)-1 {
		return 0
	}
	n, err := strconv.Atoi(number[idx+1:])
	if err != nil || n < 0 {
		return 0
	}
	return n
}
