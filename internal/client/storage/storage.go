// Package storage keeps community reviews on the local machine in an embedded badger store.
package storage

import (
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/dgraph-io/badger/v4"
	gonanoid "github.com/matoous/go-nanoid/v2"

	"github.com/atinyakov/HumiTrack/internal/models"
	"github.com/atinyakov/HumiTrack/internal/validation"
)

// reviewsKey holds the whole review list as one JSON value.
const reviewsKey = "humitrack_reviews"

// ErrReviewNotFound is returned by Like for an unknown review id.
var ErrReviewNotFound = errors.New("review not found")

// LocalStorage is the review store. Reviews are kept newest first.
type LocalStorage struct {
	db        *badger.DB
	validator *validation.Validator
	now       func() time.Time
	mu        sync.Mutex
}

// Open opens or creates the review store in dir.
func Open(dir string) (*LocalStorage, error) {
	return open(badger.DefaultOptions(dir).WithSyncWrites(true))
}

// OpenInMemory opens a review store that lives only as long as the process.
func OpenInMemory() (*LocalStorage, error) {
	return open(badger.DefaultOptions("").WithInMemory(true))
}

func open(opts badger.Options) (*LocalStorage, error) {
	opts.Logger = nil
	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("failed to open badger db: %w", err)
	}
	return &LocalStorage{db: db, validator: validation.New(), now: time.Now}, nil
}

// Close releases the underlying database.
func (ls *LocalStorage) Close() error {
	return ls.db.Close()
}

func (ls *LocalStorage) load() ([]models.Review, error) {
	var reviews []models.Review
	err := ls.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get([]byte(reviewsKey))
		if err != nil {
			return err
		}
		return item.Value(func(val []byte) error {
			return json.Unmarshal(val, &reviews)
		})
	})
	if errors.Is(err, badger.ErrKeyNotFound) {
		return []models.Review{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read reviews: %w", err)
	}
	return reviews, nil
}

func (ls *LocalStorage) save(reviews []models.Review) error {
	data, err := json.Marshal(reviews)
	if err != nil {
		return fmt.Errorf("failed to marshal reviews: %w", err)
	}
	return ls.db.Update(func(txn *badger.Txn) error {
		return txn.Set([]byte(reviewsKey), data)
	})
}

// List returns every review, or only those of cigarID when it is not empty.
func (ls *LocalStorage) List(cigarID string) ([]models.Review, error) {
	ls.mu.Lock()
	defer ls.mu.Unlock()

	reviews, err := ls.load()
	if err != nil {
		return nil, err
	}
	if cigarID == "" {
		return reviews, nil
	}
	out := make([]models.Review, 0, len(reviews))
	for _, r := range reviews {
		if r.CigarID == cigarID {
			out = append(out, r)
		}
	}
	return out, nil
}

// Add validates r, assigns an id and date and stores it ahead of the existing reviews.
func (ls *LocalStorage) Add(r models.Review) (models.Review, error) {
	if err := ls.validator.Validate(r); err != nil {
		return models.Review{}, err
	}

	id, err := gonanoid.New()
	if err != nil {
		return models.Review{}, fmt.Errorf("generate review id: %w", err)
	}
	r.ID = id
	r.Likes = 0
	if r.Date.IsZero() {
		r.Date = ls.now()
	}

	ls.mu.Lock()
	defer ls.mu.Unlock()

	reviews, err := ls.load()
	if err != nil {
		return models.Review{}, err
	}
	if err := ls.save(append([]models.Review{r}, reviews...)); err != nil {
		return models.Review{}, err
	}
	return r, nil
}

// Like increments the like counter of review id.
func (ls *LocalStorage) Like(id string) (models.Review, error) {
	ls.mu.Lock()
	defer ls.mu.Unlock()

	reviews, err := ls.load()
	if err != nil {
		return models.Review{}, err
	}
	for i := range reviews {
		if reviews[i].ID == id {
			reviews[i].Likes++
			if err := ls.save(reviews); err != nil {
				return models.Review{}, err
			}
			return reviews[i], nil
		}
	}
	return models.Review{}, ErrReviewNotFound
}
