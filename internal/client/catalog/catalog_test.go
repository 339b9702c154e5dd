package catalog

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/atinyakov/HumiTrack/internal/models"
)

func loadCatalog(t *testing.T) *Catalog {
	t.Helper()
	c, err := Load()
	require.NoError(t, err)
	t.Cleanup(func() { c.Close() })
	return c
}

func entryIDs(entries []Entry) []string {
	out := make([]string, 0, len(entries))
	for _, e := range entries {
		out = append(out, e.ID)
	}
	return out
}

func TestLoad(t *testing.T) {
	c := loadCatalog(t)
	entries := c.Entries()
	require.NotEmpty(t, entries)
	for _, e := range entries {
		assert.NotEmpty(t, e.ID)
		assert.True(t, e.Strength.Valid(), "entry %s has strength %q", e.ID, e.Strength)
	}

	e, ok := c.Get("padron-1964-exclusivo")
	require.True(t, ok)
	assert.Equal(t, "Padron", e.Brand)
	assert.Contains(t, c.Countries(), "Nicaragua")
}

func TestDiscover_NoCriteriaReturnsAll(t *testing.T) {
	c := loadCatalog(t)
	got, err := c.Discover(DiscoverQuery{})
	require.NoError(t, err)
	assert.Equal(t, entryIDs(c.Entries()), entryIDs(got))
}

func TestDiscover(t *testing.T) {
	entries := []Entry{
		{ID: "p", Brand: "Padron", Name: "1964 Anniversary", Country: "Nicaragua", Strength: models.Full},
		{ID: "o", Brand: "Oliva", Name: "Serie V", Country: "Nicaragua", Strength: models.Full},
		{ID: "d", Brand: "Davidoff", Name: "Signature", Country: "Dominican Republic", Strength: models.Mild},
		{ID: "r", Brand: "Romeo y Julieta", Name: "Churchill", Country: "Cuba", Strength: models.Medium},
	}
	c, err := New(entries)
	require.NoError(t, err)
	defer c.Close()

	tests := []struct {
		name string
		q    DiscoverQuery
		want []string
	}{
		{"brand word", DiscoverQuery{Text: "Padron"}, []string{"p"}},
		{"brand prefix", DiscoverQuery{Text: "davi"}, []string{"d"}},
		{"name number", DiscoverQuery{Text: "1964"}, []string{"p"}},
		{"multi word brand", DiscoverQuery{Text: "romeo julieta"}, []string{"r"}},
		{"country", DiscoverQuery{Country: "Nicaragua"}, []string{"p", "o"}},
		{"strength", DiscoverQuery{Strength: models.Mild}, []string{"d"}},
		{"country and strength", DiscoverQuery{Country: "Nicaragua", Strength: models.Mild}, nil},
		{"text and country", DiscoverQuery{Text: "serie", Country: "Nicaragua"}, []string{"o"}},
		{"inside a word", DiscoverQuery{Text: "dron"}, []string{"p"}},
		{"unfinished last word", DiscoverQuery{Text: "1964 anniversary ann"}, nil},
		{"substring across words", DiscoverQuery{Text: "1964 anniv"}, []string{"p"}},
		{"substring with country", DiscoverQuery{Text: "liv", Country: "Cuba"}, nil},
		{"no match", DiscoverQuery{Text: "zzzz"}, nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := c.Discover(tt.q)
			require.NoError(t, err)
			assert.ElementsMatch(t, tt.want, entryIDs(got))
		})
	}
}

func TestDiscover_PartialTermsInCatalog(t *testing.T) {
	c := loadCatalog(t)
	for _, text := range []string{"dron", "1964 anniversary exc", "PADRON"} {
		got, err := c.Discover(DiscoverQuery{Text: text})
		require.NoError(t, err)
		assert.Contains(t, entryIDs(got), "padron-1964-exclusivo", "text %q", text)
	}
}

func TestDiscover_IndexHitsFirst(t *testing.T) {
	entries := []Entry{
		{ID: "sub", Brand: "Caldron", Name: "Reserva", Country: "Honduras", Strength: models.Medium},
		{ID: "word", Brand: "Padron", Name: "Dron", Country: "Nicaragua", Strength: models.Full},
	}
	c, err := New(entries)
	require.NoError(t, err)
	defer c.Close()

	got, err := c.Discover(DiscoverQuery{Text: "dron"})
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "word", got[0].ID)
}

func TestRecommend_NoLikedCigars(t *testing.T) {
	c := loadCatalog(t)
	cigars := []models.Cigar{{ID: "1", Brand: "Padron"}}
	notes := []models.TastingNote{{CigarID: "1", Rating: 3}}

	got := c.Recommend(cigars, notes)
	assert.Equal(t, entryIDs(c.Entries()[:RecommendationLimit]), entryIDs(got))
}

func TestRecommend_ByTaste(t *testing.T) {
	entries := []Entry{
		{ID: "own-brand", Brand: "Padron", Country: "Nicaragua", Strength: models.Full},
		{ID: "same-strength", Brand: "Camacho", Country: "Honduras", Strength: models.Full},
		{ID: "same-country", Brand: "Perdomo", Country: "Nicaragua", Strength: models.Medium},
		{ID: "unrelated", Brand: "Davidoff", Country: "Dominican Republic", Strength: models.Mild},
	}
	c, err := New(entries)
	require.NoError(t, err)
	defer c.Close()

	cigars := []models.Cigar{
		{ID: "1", Brand: "Padron", Country: "Nicaragua", Strength: models.Full},
		{ID: "2", Brand: "Ashton", Country: "Dominican Republic", Strength: models.Mild},
	}
	notes := []models.TastingNote{{CigarID: "1", Rating: 4}, {CigarID: "2", Rating: 2}}

	got := c.Recommend(cigars, notes)
	assert.Equal(t, []string{"same-strength", "same-country"}, entryIDs(got))
}

func TestRecommend_Limit(t *testing.T) {
	var entries []Entry
	for _, id := range []string{"a", "b", "c", "d", "e", "f", "g", "h"} {
		entries = append(entries, Entry{ID: id, Brand: "brand-" + id, Country: "Cuba", Strength: models.Medium})
	}
	c, err := New(entries)
	require.NoError(t, err)
	defer c.Close()

	got := c.Recommend(
		[]models.Cigar{{ID: "1", Brand: "mine", Country: "Cuba", Strength: models.Medium}},
		[]models.TastingNote{{CigarID: "1", Rating: 5}},
	)
	assert.Len(t, got, RecommendationLimit)
}

func TestEntry_Cigar(t *testing.T) {
	e := Entry{Brand: "Padron", Name: "1964", Strength: models.Full}
	c := e.Cigar(true)
	assert.True(t, c.InWishlist)
	assert.Equal(t, 1, c.Quantity)
	assert.Zero(t, c.Price)
	assert.Equal(t, "Padron", c.Brand)
}
