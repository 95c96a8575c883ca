package sequence

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"
)

type memoryCounters struct {
	counters map[string]int
	skus     map[string]int
	legacy   map[string]string
}

func newMemoryCounters() *memoryCounters {
	return &memoryCounters{counters: map[string]int{}, skus: map[string]int{}, legacy: map[string]string{}}
}

func (m *memoryCounters) NextCounter(ctx context.Context, prefix string, year int) (int, error) {
	key := fmt.Sprintf("%s-%d", prefix, year)
	if _, ok := m.counters[key]; !ok {
		if number, seeded := m.legacy[key]; seeded {
			m.counters[key] = TrailingInt(number)
		}
	}
	m.counters[key]++
	return m.counters[key], nil
}

func (m *memoryCounters) NextSKUCounter(ctx context.Context, prefix string) (int, error) {
	m.skus[prefix]++
	return m.skus[prefix], nil
}

func TestNextStartsAtOne(t *testing.T) {
	g := NewGenerator(newMemoryCounters())

	number, err := g.Next(context.Background(), PrefixReceipt, 2024)
	require.NoError(t, err)
	require.Equal(t, "RCP-2024-001", number)
}

func TestNextContinuesFromExisting(t *testing.T) {
	repo := newMemoryCounters()
	repo.legacy["RCP-2024"] = "RCP-2024-007"
	g := NewGenerator(repo)

	number, err := g.Next(context.Background(), PrefixReceipt, 2024)
	require.NoError(t, err)
	require.Equal(t, "RCP-2024-008", number)

	number, err = g.Next(context.Background(), PrefixReceipt, 2024)
	require.NoError(t, err)
	require.Equal(t, "RCP-2024-009", number)
}

func TestNextIsolatedPerYearAndPrefix(t *testing.T) {
	repo := newMemoryCounters()
	repo.legacy["RCP-2024"] = "RCP-2024-042"
	g := NewGenerator(repo)

	number, err := g.Next(context.Background(), PrefixReceipt, 2025)
	require.NoError(t, err)
	require.Equal(t, "RCP-2025-001", number)

	number, err = g.Next(context.Background(), PrefixDelivery, 2024)
	require.NoError(t, err)
	require.Equal(t, "DEL-2024-001", number)
}

func TestCorruptLegacyNumberRestartsAtOne(t *testing.T) {
	repo := newMemoryCounters()
	repo.legacy["ADJ-2024"] = "ADJ-2024-garbage"
	g := NewGenerator(repo)

	number, err := g.Next(context.Background(), PrefixAdjustment, 2024)
	require.NoError(t, err)
	require.Equal(t, "ADJ-2024-001", number)
}

func TestTrailingInt(t *testing.T) {
	require.Equal(t, 7, TrailingInt("RCP-2024-007"))
	require.Equal(t, 123, TrailingInt("DEL-2024-123"))
	require.Equal(t, 0, TrailingInt("RCP-2024-xyz"))
	require.Equal(t, 0, TrailingInt("nodash"))
	require.Equal(t, 0, TrailingInt("RCP-2024-"))
}

func TestProductSKU(t *testing.T) {
	g := NewGenerator(newMemoryCounters())

	sku, err := g.ProductSKU(context.Background(), "Electronics")
	require.NoError(t, err)
	require.Equal(t, "ELE-00001", sku)

	sku, err = g.ProductSKU(context.Background(), "Electronics")
	require.NoError(t, err)
	require.Equal(t, "ELE-00002", sku)

	sku, err = g.ProductSKU(context.Background(), "")
	require.NoError(t, err)
	require.Equal(t, "PRD-00001", sku)
}

func TestSKUPrefix(t *testing.T) {
	require.Equal(t, "ELE", SKUPrefix("electronics"))
	require.Equal(t, "OFF", SKUPrefix("Office Supplies"))
	require.Equal(t, "PRD", SKUPrefix("AB"))
	require.Equal(t, "PRD", SKUPrefix("12 34"))
}
