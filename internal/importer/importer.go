// Package importer loads pre-processed cigar records into the shared catalog rows of the cigars table.
package importer

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"go.uber.org/zap"

	"github.com/atinyakov/HumiTrack/internal/models"
)

// limiterKey is the single key every insert waits on.
const limiterKey = "import"

// Record is one entry of the import file.
type Record struct {
	Brand      string `json:"brand"`
	Name       string `json:"name"`
	Origin     string `json:"origin"`
	Strength   string `json:"strength"`
	Wrapper    string `json:"wrapper"`
	PriceRange string `json:"price_range"`
	ImageURL   string `json:"image_url"`
}

// Decode reads a JSON array of records.
func Decode(r io.Reader) ([]Record, error) {
	var records []Record
	if err := json.NewDecoder(r).Decode(&records); err != nil {
		return nil, fmt.Errorf("decode import file: %w", err)
	}
	return records, nil
}

// PriceFromRange converts a "$" to "$$$$" range into a price. Anything else is priced as "$$".
func PriceFromRange(priceRange string) float64 {
	switch priceRange {
	case "$":
		return 5
	case "$$":
		return 15
	case "$$$":
		return 25
	case "$$$$":
		return 50
	default:
		return 15
	}
}

// NormalizeStrength folds Medium-Full into Full and keeps everything else as is.
func NormalizeStrength(s string) models.Strength {
	if s == "Medium-Full" {
		return models.Full
	}
	return models.Strength(s)
}

// ToRecord builds the cigars row for r with the import defaults and no owner.
func ToRecord(r Record, now time.Time) models.CigarRecord {
	var photo *string
	if r.ImageURL != "" {
		photo = &r.ImageURL
	}
	ringGauge, lowStock := 50, 5
	factory, purchaseLocation := "", ""
	return models.CigarRecord{
		ID:               uuid.NewString(),
		Brand:            r.Brand,
		Name:             r.Name,
		Size:             "5 x 50",
		Format:           "Robusto",
		Country:          r.Origin,
		Strength:         NormalizeStrength(r.Strength),
		Wrapper:          r.Wrapper,
		Price:            PriceFromRange(r.PriceRange),
		Quantity:         0,
		RingGauge:        &ringGauge,
		Factory:          &factory,
		PurchaseLocation: &purchaseLocation,
		LowStockAlert:    &lowStock,
		AddedDate:        now,
		AgingStartDate:   &now,
		Tags:             pq.StringArray{},
		Photo:            photo,
	}
}

// Inserter stores one cigar row.
type Inserter interface {
	Create(ctx context.Context, c models.CigarRecord) (models.CigarRecord, error)
}

// Waiter paces inserts.
type Waiter interface {
	Wait(ctx context.Context, key string) error
}

// Summary counts the outcome of a run.
type Summary struct {
	Succeeded int
	Failed    int
	Total     int
}

// Importer inserts records one at a time.
type Importer struct {
	repo    Inserter
	limiter Waiter
	log     *zap.Logger
	now     func() time.Time
}

// New returns an Importer writing through repo at the pace of limiter.
func New(repo Inserter, limiter Waiter, log *zap.Logger) *Importer {
	return &Importer{repo: repo, limiter: limiter, log: log, now: time.Now}
}

// Run inserts every record. A failed insert is logged and counted; only a
// cancelled context stops the run early.
func (im *Importer) Run(ctx context.Context, records []Record) (Summary, error) {
	s := Summary{Total: len(records)}
	for _, r := range records {
		if err := im.limiter.Wait(ctx, limiterKey); err != nil {
			return s, fmt.Errorf("import interrupted: %w", err)
		}
		if _, err := im.repo.Create(ctx, ToRecord(r, im.now())); err != nil {
			im.log.Error("import failed",
				zap.String("brand", r.Brand),
				zap.String("name", r.Name),
				zap.Error(err),
			)
			s.Failed++
			continue
		}
		im.log.Info("imported", zap.String("brand", r.Brand), zap.String("name", r.Name))
		s.Succeeded++
	}
	return s, nil
}
