// Package insights computes collection statistics.
package insights

import (
	"cmp"
	"slices"

	"github.com/atinyakov/HumiTrack/internal/models"
)

// TopN bounds the brand and flavor rankings.
const TopN = 10

// Count is one bar of a chart.
type Count struct {
	Name  string `json:"name"`
	Value int    `json:"value"`
}

// GroupBy counts items by key, skipping empty keys, most frequent first.
// Ties keep first-seen order.
func GroupBy[T any](items []T, key func(T) string) []Count {
	index := map[string]int{}
	out := []Count{}
	for _, it := range items {
		k := key(it)
		if k == "" {
			continue
		}
		if i, ok := index[k]; ok {
			out[i].Value++
			continue
		}
		index[k] = len(out)
		out = append(out, Count{Name: k, Value: 1})
	}
	slices.SortStableFunc(out, func(a, b Count) int { return cmp.Compare(b.Value, a.Value) })
	return out
}

func top(counts []Count, n int) []Count {
	if len(counts) > n {
		return counts[:n]
	}
	return counts
}

// ByCountry counts cigars per country.
func ByCountry(cigars []models.Cigar) []Count {
	return GroupBy(cigars, func(c models.Cigar) string { return c.Country })
}

// ByStrength counts cigars per strength.
func ByStrength(cigars []models.Cigar) []Count {
	return GroupBy(cigars, func(c models.Cigar) string { return string(c.Strength) })
}

// ByBrand counts cigars per brand, top ten.
func ByBrand(cigars []models.Cigar) []Count {
	return top(GroupBy(cigars, func(c models.Cigar) string { return c.Brand }), TopN)
}

// RatingDistribution counts notes per rating; index 0 holds rating 1.
func RatingDistribution(notes []models.TastingNote) [5]int {
	var dist [5]int
	for _, n := range notes {
		if n.Rating >= 1 && n.Rating <= 5 {
			dist[n.Rating-1]++
		}
	}
	return dist
}

// TopFlavors ranks flavors by how many notes mention them, top ten.
func TopFlavors(notes []models.TastingNote) []Count {
	var flavors []string
	for _, n := range notes {
		flavors = append(flavors, n.TastingNotes...)
	}
	return top(GroupBy(flavors, func(s string) string { return s }), TopN)
}

// AverageRating is the mean note rating, zero without notes.
func AverageRating(notes []models.TastingNote) float64 {
	if len(notes) == 0 {
		return 0
	}
	sum := 0
	for _, n := range notes {
		sum += n.Rating
	}
	return float64(sum) / float64(len(notes))
}

// TotalValue is the sum of price times quantity.
func TotalValue(cigars []models.Cigar) float64 {
	var total float64
	for _, c := range cigars {
		total += c.Price * float64(c.Quantity)
	}
	return total
}

// TotalCigars is the sum of quantities.
func TotalCigars(cigars []models.Cigar) int {
	total := 0
	for _, c := range cigars {
		total += c.Quantity
	}
	return total
}

// UniqueBrands counts distinct brands.
func UniqueBrands(cigars []models.Cigar) int {
	seen := map[string]struct{}{}
	for _, c := range cigars {
		seen[c.Brand] = struct{}{}
	}
	return len(seen)
}

// LowStock returns the cigars at or below their low stock threshold.
func LowStock(cigars []models.Cigar) []models.Cigar {
	out := []models.Cigar{}
	for _, c := range cigars {
		if c.LowStock() {
			out = append(out, c)
		}
	}
	return out
}

// UniqueTags returns the distinct cigar tags in first-seen order.
func UniqueTags(cigars []models.Cigar) []string {
	seen := map[string]bool{}
	out := []string{}
	for _, c := range cigars {
		for _, t := range c.Tags {
			if !seen[t] {
				seen[t] = true
				out = append(out, t)
			}
		}
	}
	return out
}

// PreferredStrength is the most common strength, Medium for an empty collection.
func PreferredStrength(cigars []models.Cigar) models.Strength {
	counts := ByStrength(cigars)
	if len(counts) == 0 {
		return models.Medium
	}
	return models.Strength(counts[0].Name)
}

// Summary gathers every statistic shown on the insights screen.
type Summary struct {
	TotalCigars        int             `json:"totalCigars"`
	TotalValue         float64         `json:"totalValue"`
	UniqueBrands       int             `json:"uniqueBrands"`
	LowStock           []models.Cigar  `json:"lowStock"`
	ByCountry          []Count         `json:"byCountry"`
	ByStrength         []Count         `json:"byStrength"`
	ByBrand            []Count         `json:"byBrand"`
	RatingDistribution [5]int          `json:"ratingDistribution"`
	TopFlavors         []Count         `json:"topFlavors"`
	AverageRating      float64         `json:"averageRating"`
	PreferredStrength  models.Strength `json:"preferredStrength"`
	Tags               []string        `json:"tags"`
}

// Summarize computes the Summary of a collection and its tasting notes.
func Summarize(cigars []models.Cigar, notes []models.TastingNote) Summary {
	return Summary{
		TotalCigars:        TotalCigars(cigars),
		TotalValue:         TotalValue(cigars),
		UniqueBrands:       UniqueBrands(cigars),
		LowStock:           LowStock(cigars),
		ByCountry:          ByCountry(cigars),
		ByStrength:         ByStrength(cigars),
		ByBrand:            ByBrand(cigars),
		RatingDistribution: RatingDistribution(notes),
		TopFlavors:         TopFlavors(notes),
		AverageRating:      AverageRating(notes),
		PreferredStrength:  PreferredStrength(cigars),
		Tags:               UniqueTags(cigars),
	}
}
