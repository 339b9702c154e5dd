// Package browse filters and sorts cigars and tasting notes for display.
package browse

import (
	"cmp"
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/atinyakov/HumiTrack/internal/models"
)

// AllHumidors disables the humidor filter.
const AllHumidors = "all"

// CigarSort names a cigar ordering.
type CigarSort string

// Cigar orderings. Everything except brand is descending.
const (
	SortBrand     CigarSort = "brand"
	SortAddedDate CigarSort = "addedDate"
	SortQuantity  CigarSort = "quantity"
	SortPrice     CigarSort = "price"
	SortAging     CigarSort = "aging"
)

// ParseCigarSort validates s, defaulting to brand for an empty string.
func ParseCigarSort(s string) (CigarSort, error) {
	switch CigarSort(s) {
	case "":
		return SortBrand, nil
	case SortBrand, SortAddedDate, SortQuantity, SortPrice, SortAging:
		return CigarSort(s), nil
	}
	return "", fmt.Errorf("unknown sort %q", s)
}

// CigarFilter selects cigars. Zero fields match everything except Humidor,
// where both "" and AllHumidors match every cigar.
type CigarFilter struct {
	Search       string
	Strength     models.Strength
	Tag          string
	LowStockOnly bool
	Humidor      string
	Sort         CigarSort
}

func contains(s, sub string) bool {
	return strings.Contains(strings.ToLower(s), sub)
}

func (f CigarFilter) match(c models.Cigar, search string) bool {
	if search != "" && !contains(c.Brand, search) && !contains(c.Name, search) &&
		!contains(c.Country, search) && (c.Factory == nil || !contains(*c.Factory, search)) {
		return false
	}
	if f.Strength != "" && c.Strength != f.Strength {
		return false
	}
	if f.Tag != "" && !slices.Contains(c.Tags, f.Tag) {
		return false
	}
	if f.LowStockOnly && !c.LowStock() {
		return false
	}
	return InHumidor(c, f.Humidor)
}

// InHumidor reports whether c belongs to humidorID. Cigars without a humidor
// belong to the default humidor.
func InHumidor(c models.Cigar, humidorID string) bool {
	switch {
	case humidorID == "" || humidorID == AllHumidors:
		return true
	case c.HumidorID == nil:
		return humidorID == models.DefaultHumidorID
	default:
		return *c.HumidorID == humidorID
	}
}

// Cigars returns the cigars matching f in f.Sort order. The input is not modified.
func Cigars(cigars []models.Cigar, f CigarFilter, now time.Time) []models.Cigar {
	search := strings.ToLower(strings.TrimSpace(f.Search))
	out := make([]models.Cigar, 0, len(cigars))
	for _, c := range cigars {
		if f.match(c, search) {
			out = append(out, c)
		}
	}

	aging := func(c models.Cigar) time.Duration {
		if c.AgingStartDate == nil {
			return 0
		}
		return now.Sub(*c.AgingStartDate)
	}

	slices.SortStableFunc(out, func(a, b models.Cigar) int {
		switch f.Sort {
		case SortAddedDate:
			return b.AddedDate.Compare(a.AddedDate)
		case SortQuantity:
			return cmp.Compare(b.Quantity, a.Quantity)
		case SortPrice:
			return cmp.Compare(b.Price, a.Price)
		case SortAging:
			return cmp.Compare(aging(b), aging(a))
		case SortBrand, "":
			return strings.Compare(strings.ToLower(a.Brand), strings.ToLower(b.Brand))
		}
		return 0
	})
	return out
}

// NoteSort names a tasting note ordering. All are descending.
type NoteSort string

// Tasting note orderings.
const (
	SortSmokedDate NoteSort = "smokedDate"
	SortRating     NoteSort = "rating"
	SortAgingTime  NoteSort = "agingTime"
)

// ParseNoteSort validates s, defaulting to smoked date for an empty string.
func ParseNoteSort(s string) (NoteSort, error) {
	switch NoteSort(s) {
	case "":
		return SortSmokedDate, nil
	case SortSmokedDate, SortRating, SortAgingTime:
		return NoteSort(s), nil
	}
	return "", fmt.Errorf("unknown sort %q", s)
}

// NoteFilter selects tasting notes. Zero fields match everything.
type NoteFilter struct {
	Search string
	Rating int
	Flavor string
	Sort   NoteSort
}

// Notes returns the notes matching f in f.Sort order. Notes whose cigar is not
// in cigars are dropped.
func Notes(notes []models.TastingNote, cigars []models.Cigar, f NoteFilter) []models.TastingNote {
	byID := CigarIndex(cigars)
	search := strings.ToLower(strings.TrimSpace(f.Search))

	out := make([]models.TastingNote, 0, len(notes))
	for _, n := range notes {
		c, ok := byID[n.CigarID]
		if !ok {
			continue
		}
		if search != "" && !contains(c.Brand, search) && !contains(c.Name, search) &&
			(n.Comment == nil || !contains(*n.Comment, search)) &&
			!slices.ContainsFunc(n.TastingNotes, func(fl string) bool { return contains(fl, search) }) {
			continue
		}
		if f.Rating != 0 && n.Rating != f.Rating {
			continue
		}
		if f.Flavor != "" && !slices.Contains(n.TastingNotes, f.Flavor) {
			continue
		}
		out = append(out, n)
	}

	slices.SortStableFunc(out, func(a, b models.TastingNote) int {
		switch f.Sort {
		case SortRating:
			return cmp.Compare(b.Rating, a.Rating)
		case SortAgingTime:
			return cmp.Compare(b.AgingTime, a.AgingTime)
		default:
			return b.SmokedDate.Compare(a.SmokedDate)
		}
	})
	return out
}

// CigarIndex maps cigar ids to cigars.
func CigarIndex(cigars []models.Cigar) map[string]models.Cigar {
	m := make(map[string]models.Cigar, len(cigars))
	for _, c := range cigars {
		m[c.ID] = c
	}
	return m
}

// Flavors returns the distinct flavors across notes in first-seen order.
func Flavors(notes []models.TastingNote) []string {
	seen := map[string]bool{}
	out := []string{}
	for _, n := range notes {
		for _, fl := range n.TastingNotes {
			if !seen[fl] {
				seen[fl] = true
				out = append(out, fl)
			}
		}
	}
	return out
}
