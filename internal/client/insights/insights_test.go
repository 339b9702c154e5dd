package insights

import (
	"fmt"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"

	"github.com/atinyakov/HumiTrack/internal/models"
)

func ptr[T any](v T) *T { return &v }

func collection() []models.Cigar {
	return []models.Cigar{
		{ID: "1", Brand: "Padron", Country: "Nicaragua", Strength: models.Full, Price: 12.5, Quantity: 2, Tags: []string{"Favorite"}},
		{ID: "2", Brand: "Oliva", Country: "Nicaragua", Strength: models.Medium, Price: 8, Quantity: 5, LowStockAlert: ptr(5)},
		{ID: "3", Brand: "Padron", Country: "Nicaragua", Strength: models.Full, Price: 15, Quantity: 1, Tags: []string{"Aging", "Favorite"}},
		{ID: "4", Brand: "Davidoff", Country: "Dominican Republic", Strength: models.Mild, Price: 20, Quantity: 0, LowStockAlert: ptr(0)},
	}
}

func TestGroupBy(t *testing.T) {
	want := []Count{{"Nicaragua", 3}, {"Dominican Republic", 1}}
	if diff := cmp.Diff(want, ByCountry(collection())); diff != "" {
		t.Errorf("ByCountry mismatch (-want +got):\n%s", diff)
	}

	want = []Count{{"Full", 2}, {"Medium", 1}, {"Mild", 1}}
	if diff := cmp.Diff(want, ByStrength(collection())); diff != "" {
		t.Errorf("ByStrength mismatch (-want +got):\n%s", diff)
	}

	assert.Empty(t, GroupBy([]string{"", ""}, func(s string) string { return s }))
}

func TestByBrand_TopTen(t *testing.T) {
	var cigars []models.Cigar
	for i := range 12 {
		cigars = append(cigars, models.Cigar{Brand: fmt.Sprintf("brand-%02d", i)})
	}
	cigars = append(cigars, models.Cigar{Brand: "brand-11"})

	got := ByBrand(cigars)
	assert.Len(t, got, TopN)
	assert.Equal(t, Count{"brand-11", 2}, got[0])
	assert.Equal(t, "brand-00", got[1].Name)
}

func TestTotals(t *testing.T) {
	c := collection()
	assert.InDelta(t, 12.5*2+8*5+15, TotalValue(c), 1e-9)
	assert.Equal(t, 8, TotalCigars(c))
	assert.Equal(t, 3, UniqueBrands(c))
	assert.Equal(t, []string{"Favorite", "Aging"}, UniqueTags(c))

	low := LowStock(c)
	if assert.Len(t, low, 1) {
		assert.Equal(t, "2", low[0].ID)
	}
}

func TestNotesStats(t *testing.T) {
	notes := []models.TastingNote{
		{Rating: 5, TastingNotes: []string{"Cocoa", "Earth"}},
		{Rating: 4, TastingNotes: []string{"Earth"}},
		{Rating: 4},
		{Rating: 1, TastingNotes: []string{"Pepper"}},
	}

	assert.Equal(t, [5]int{1, 0, 0, 2, 1}, RatingDistribution(notes))
	assert.InDelta(t, 3.5, AverageRating(notes), 1e-9)
	assert.Equal(t, []Count{{"Earth", 2}, {"Cocoa", 1}, {"Pepper", 1}}, TopFlavors(notes))
	assert.Zero(t, AverageRating(nil))
}

func TestPreferredStrength(t *testing.T) {
	assert.Equal(t, models.Full, PreferredStrength(collection()))
	assert.Equal(t, models.Medium, PreferredStrength(nil))
}

func TestSummarize(t *testing.T) {
	s := Summarize(collection(), []models.TastingNote{{Rating: 3}})
	assert.Equal(t, 8, s.TotalCigars)
	assert.Equal(t, 3, s.UniqueBrands)
	assert.Equal(t, models.Full, s.PreferredStrength)
	assert.Equal(t, [5]int{0, 0, 1, 0, 0}, s.RatingDistribution)
	assert.InDelta(t, 3.0, s.AverageRating, 1e-9)
}
