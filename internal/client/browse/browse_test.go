package browse

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/atinyakov/HumiTrack/internal/models"
)

func ptr[T any](v T) *T { return &v }

func ids[T any](items []T, id func(T) string) []string {
	out := make([]string, 0, len(items))
	for _, it := range items {
		out = append(out, id(it))
	}
	return out
}

func cigarID(c models.Cigar) string      { return c.ID }
func noteID(n models.TastingNote) string { return n.ID }

func day(d int) time.Time { return time.Date(2024, 1, d, 0, 0, 0, 0, time.UTC) }

func sampleCigars() []models.Cigar {
	return []models.Cigar{
		{ID: "a", Brand: "Padron", Name: "1964", Country: "Nicaragua", Strength: models.Full, Price: 12.5, Quantity: 3,
			AddedDate: day(2), Tags: []string{"Favorite"}, LowStockAlert: ptr(3)},
		{ID: "b", Brand: "arturo Fuente", Name: "Hemingway", Country: "Dominican Republic", Strength: models.Medium, Price: 9, Quantity: 10,
			AddedDate: day(5), AgingStartDate: ptr(day(1)), HumidorID: ptr("h1")},
		{ID: "c", Brand: "Davidoff", Name: "Signature", Country: "Dominican Republic", Strength: models.Mild, Price: 20, Quantity: 1,
			AddedDate: day(1), Factory: ptr("Occidental Kelner"), AgingStartDate: ptr(day(3))},
	}
}

func TestCigars_Filters(t *testing.T) {
	now := day(10)
	tests := []struct {
		name   string
		filter CigarFilter
		want   []string
	}{
		{"all by brand", CigarFilter{}, []string{"b", "c", "a"}},
		{"search country", CigarFilter{Search: "dominican"}, []string{"b", "c"}},
		{"search factory", CigarFilter{Search: "kelner"}, []string{"c"}},
		{"strength", CigarFilter{Strength: models.Full}, []string{"a"}},
		{"tag", CigarFilter{Tag: "Favorite"}, []string{"a"}},
		{"low stock", CigarFilter{LowStockOnly: true}, []string{"a"}},
		{"named humidor", CigarFilter{Humidor: "h1"}, []string{"b"}},
		{"default humidor", CigarFilter{Humidor: models.DefaultHumidorID}, []string{"c", "a"}},
		{"all humidors", CigarFilter{Humidor: AllHumidors}, []string{"b", "c", "a"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Cigars(sampleCigars(), tt.filter, now)
			assert.Equal(t, tt.want, ids(got, cigarID))
		})
	}
}

func TestCigars_Sorts(t *testing.T) {
	now := day(10)
	tests := []struct {
		sort CigarSort
		want []string
	}{
		{SortAddedDate, []string{"b", "a", "c"}},
		{SortQuantity, []string{"b", "a", "c"}},
		{SortPrice, []string{"c", "a", "b"}},
		{SortAging, []string{"b", "c", "a"}},
	}
	for _, tt := range tests {
		t.Run(string(tt.sort), func(t *testing.T) {
			got := Cigars(sampleCigars(), CigarFilter{Sort: tt.sort}, now)
			assert.Equal(t, tt.want, ids(got, cigarID))
		})
	}
}

func TestCigars_DoesNotModifyInput(t *testing.T) {
	in := sampleCigars()
	_ = Cigars(in, CigarFilter{Sort: SortPrice}, day(10))
	assert.Equal(t, []string{"a", "b", "c"}, ids(in, cigarID))
}

func TestParseSorts(t *testing.T) {
	s, err := ParseCigarSort("")
	require.NoError(t, err)
	assert.Equal(t, SortBrand, s)
	_, err = ParseCigarSort("size")
	assert.Error(t, err)

	n, err := ParseNoteSort("rating")
	require.NoError(t, err)
	assert.Equal(t, SortRating, n)
	_, err = ParseNoteSort("brand")
	assert.Error(t, err)
}

func TestNotes(t *testing.T) {
	cigars := sampleCigars()
	notes := []models.TastingNote{
		{ID: "n1", CigarID: "a", Rating: 5, SmokedDate: day(3), AgingTime: 1, TastingNotes: []string{"Cocoa", "Earth"}},
		{ID: "n2", CigarID: "b", Rating: 3, SmokedDate: day(8), AgingTime: 3, Comment: ptr("A bit of pepper")},
		{ID: "n3", CigarID: "gone", Rating: 4, SmokedDate: day(9)},
		{ID: "n4", CigarID: "c", Rating: 4, SmokedDate: day(6), AgingTime: 5, TastingNotes: []string{"Cream"}},
	}

	tests := []struct {
		name   string
		filter NoteFilter
		want   []string
	}{
		{"default sort drops unknown cigars", NoteFilter{}, []string{"n2", "n4", "n1"}},
		{"by rating", NoteFilter{Sort: SortRating}, []string{"n1", "n4", "n2"}},
		{"by aging", NoteFilter{Sort: SortAgingTime}, []string{"n4", "n2", "n1"}},
		{"search comment", NoteFilter{Search: "pepper"}, []string{"n2"}},
		{"search flavor", NoteFilter{Search: "coc"}, []string{"n1"}},
		{"search brand", NoteFilter{Search: "davidoff"}, []string{"n4"}},
		{"rating filter", NoteFilter{Rating: 4}, []string{"n4"}},
		{"flavor filter", NoteFilter{Flavor: "Earth"}, []string{"n1"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ids(Notes(notes, cigars, tt.filter), noteID))
		})
	}
}

func TestFlavors(t *testing.T) {
	notes := []models.TastingNote{
		{TastingNotes: []string{"Cocoa", "Earth"}},
		{TastingNotes: []string{"Earth", "Cream"}},
		{},
	}
	assert.Equal(t, []string{"Cocoa", "Earth", "Cream"}, Flavors(notes))
	assert.Equal(t, []string{}, Flavors(nil))
}
