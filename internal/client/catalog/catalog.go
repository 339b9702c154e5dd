// Package catalog is the built-in reference list of cigars with full-text discovery
// and taste-based recommendations.
package catalog

import (
	_ "embed"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/blevesearch/bleve/v2"
	"github.com/blevesearch/bleve/v2/analysis/analyzer/keyword"
	"github.com/blevesearch/bleve/v2/analysis/analyzer/standard"
	"github.com/blevesearch/bleve/v2/mapping"
	"github.com/blevesearch/bleve/v2/search/query"

	"github.com/atinyakov/HumiTrack/internal/models"
)

//go:embed catalog.json
var builtin []byte

// RecommendationLimit caps Recommend results.
const RecommendationLimit = 6

// Entry is one reference cigar.
type Entry struct {
	ID            string          `json:"id"`
	Brand         string          `json:"brand"`
	Name          string          `json:"name"`
	Size          string          `json:"size"`
	Format        string          `json:"format"`
	Country       string          `json:"country"`
	Strength      models.Strength `json:"strength"`
	Wrapper       string          `json:"wrapper"`
	FlavorProfile []string        `json:"flavorProfile"`
	Description   string          `json:"description"`
}

// Cigar returns the entry as a new cigar with no price and a quantity of one.
func (e Entry) Cigar(inWishlist bool) models.Cigar {
	return models.Cigar{
		Brand:      e.Brand,
		Name:       e.Name,
		Size:       e.Size,
		Format:     e.Format,
		Country:    e.Country,
		Strength:   e.Strength,
		Wrapper:    e.Wrapper,
		Quantity:   1,
		InWishlist: inWishlist,
		Tags:       []string{},
	}
}

func (e Entry) document() map[string]any {
	return map[string]any{
		"brand":    e.Brand,
		"name":     e.Name,
		"country":  e.Country,
		"strength": string(e.Strength),
		"wrapper":  e.Wrapper,
		"flavors":  strings.Join(e.FlavorProfile, " "),
	}
}

// Catalog holds the entries and their search index.
type Catalog struct {
	entries []Entry
	byID    map[string]Entry
	index   bleve.Index
}

// Load builds the catalog from the embedded reference list.
func Load() (*Catalog, error) {
	var entries []Entry
	if err := json.Unmarshal(builtin, &entries); err != nil {
		return nil, fmt.Errorf("decode catalog: %w", err)
	}
	return New(entries)
}

// New indexes entries in memory.
func New(entries []Entry) (*Catalog, error) {
	index, err := bleve.NewMemOnly(buildIndexMapping())
	if err != nil {
		return nil, fmt.Errorf("create index: %w", err)
	}

	batch := index.NewBatch()
	byID := make(map[string]Entry, len(entries))
	for _, e := range entries {
		byID[e.ID] = e
		if err := batch.Index(e.ID, e.document()); err != nil {
			index.Close()
			return nil, fmt.Errorf("index %s: %w", e.ID, err)
		}
	}
	if err := index.Batch(batch); err != nil {
		index.Close()
		return nil, fmt.Errorf("index catalog: %w", err)
	}

	return &Catalog{entries: entries, byID: byID, index: index}, nil
}

// buildIndexMapping analyzes text with the standard analyzer and keeps
// country and strength as exact keywords for filtering.
func buildIndexMapping() mapping.IndexMapping {
	indexMapping := bleve.NewIndexMapping()
	docMapping := bleve.NewDocumentMapping()

	for _, field := range []string{"brand", "name", "wrapper", "flavors"} {
		fm := bleve.NewTextFieldMapping()
		fm.Analyzer = standard.Name
		docMapping.AddFieldMappingsAt(field, fm)
	}
	for _, field := range []string{"country", "strength"} {
		fm := bleve.NewTextFieldMapping()
		fm.Analyzer = keyword.Name
		docMapping.AddFieldMappingsAt(field, fm)
	}

	indexMapping.DefaultMapping = docMapping
	return indexMapping
}

// Close releases the search index.
func (c *Catalog) Close() error {
	return c.index.Close()
}

// Entries returns every entry in catalog order.
func (c *Catalog) Entries() []Entry {
	return append([]Entry(nil), c.entries...)
}

// Get returns the entry with id.
func (c *Catalog) Get(id string) (Entry, bool) {
	e, ok := c.byID[id]
	return e, ok
}

// Countries returns the distinct countries in catalog order.
func (c *Catalog) Countries() []string {
	seen := map[string]bool{}
	out := []string{}
	for _, e := range c.entries {
		if !seen[e.Country] {
			seen[e.Country] = true
			out = append(out, e.Country)
		}
	}
	return out
}

// DiscoverQuery narrows Discover. Zero fields match everything.
type DiscoverQuery struct {
	Text     string
	Country  string
	Strength models.Strength
}

// Discover searches brand and name for q.Text and filters by country and strength.
// Without any criteria it returns the whole catalog in order. Otherwise index hits
// come first by score, followed by the remaining entries whose brand or name
// contains the text.
func (c *Catalog) Discover(q DiscoverQuery) ([]Entry, error) {
	text := strings.ToLower(strings.TrimSpace(q.Text))
	if text == "" && q.Country == "" && q.Strength == "" {
		return c.Entries(), nil
	}

	var queries []query.Query
	if text != "" {
		queries = append(queries, textQuery(text))
	}
	if q.Country != "" {
		tq := bleve.NewTermQuery(q.Country)
		tq.SetField("country")
		queries = append(queries, tq)
	}
	if q.Strength != "" {
		tq := bleve.NewTermQuery(string(q.Strength))
		tq.SetField("strength")
		queries = append(queries, tq)
	}

	req := bleve.NewSearchRequestOptions(bleve.NewConjunctionQuery(queries...), len(c.entries), 0, false)
	res, err := c.index.Search(req)
	if err != nil {
		return nil, fmt.Errorf("search catalog: %w", err)
	}

	seen := make(map[string]bool, len(res.Hits))
	out := make([]Entry, 0, len(res.Hits))
	for _, hit := range res.Hits {
		if e, ok := c.byID[hit.ID]; ok {
			seen[e.ID] = true
			out = append(out, e)
		}
	}
	if text == "" {
		return out, nil
	}
	for _, e := range c.entries {
		if seen[e.ID] || !e.contains(text) {
			continue
		}
		if (q.Country != "" && e.Country != q.Country) || (q.Strength != "" && e.Strength != q.Strength) {
			continue
		}
		out = append(out, e)
	}
	return out, nil
}

// textQuery matches whole words, a prefix of the text and, for a single word,
// any word containing it.
func textQuery(text string) query.Query {
	var qs []query.Query
	for _, field := range []string{"brand", "name"} {
		match := bleve.NewMatchQuery(text)
		match.SetField(field)
		match.SetOperator(query.MatchQueryOperatorAnd)
		qs = append(qs, match)

		prefix := bleve.NewPrefixQuery(text)
		prefix.SetField(field)
		prefix.SetBoost(0.5)
		qs = append(qs, prefix)

		if !strings.ContainsAny(text, " \t") {
			wildcard := bleve.NewWildcardQuery("*" + text + "*")
			wildcard.SetField(field)
			wildcard.SetBoost(0.25)
			qs = append(qs, wildcard)
		}
	}
	return bleve.NewDisjunctionQuery(qs...)
}

// contains reports whether the lowercased brand or name holds text.
func (e Entry) contains(text string) bool {
	return strings.Contains(strings.ToLower(e.Brand), text) || strings.Contains(strings.ToLower(e.Name), text)
}

// Recommend suggests catalog entries from the user's taste. Cigars rated four or
// more in some tasting note are liked; without any, the first entries are returned.
// Otherwise entries sharing a strength or country with a liked cigar are returned,
// skipping brands the user already owns.
func (c *Catalog) Recommend(cigars []models.Cigar, notes []models.TastingNote) []Entry {
	liked := map[string]bool{}
	for _, n := range notes {
		if n.Rating >= 4 {
			liked[n.CigarID] = true
		}
	}

	strengths := map[models.Strength]bool{}
	countries := map[string]bool{}
	owned := map[string]bool{}
	for _, cg := range cigars {
		owned[cg.Brand] = true
		if liked[cg.ID] {
			strengths[cg.Strength] = true
			countries[cg.Country] = true
		}
	}

	if len(strengths) == 0 {
		return c.Entries()[:min(RecommendationLimit, len(c.entries))]
	}

	out := []Entry{}
	for _, e := range c.entries {
		if len(out) == RecommendationLimit {
			break
		}
		if (strengths[e.Strength] || countries[e.Country]) && !owned[e.Brand] {
			out = append(out, e)
		}
	}
	return out
}
