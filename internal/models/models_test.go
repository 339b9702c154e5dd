package models

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func ptr[T any](v T) *T { return &v }

func TestCigarRecordRoundTrip(t *testing.T) {
	owner := "user-1"
	aging := time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC)
	rec := CigarRecord{
		ID:               "c1",
		UserID:           &owner,
		Brand:            "Padron",
		Name:             "1964",
		Size:             "5x50",
		Format:           "Robusto",
		Country:          "Nicaragua",
		Strength:         Full,
		Wrapper:          "Maduro",
		Price:            12.5,
		Quantity:         3,
		RingGauge:        ptr(50),
		Factory:          ptr("Tabacalera Padron"),
		ReleaseYear:      ptr(1994),
		PurchaseLocation: ptr("Local shop"),
		LowStockAlert:    ptr(2),
		AddedDate:        time.Date(2024, 1, 10, 0, 0, 0, 0, time.UTC),
		AgingStartDate:   &aging,
		Tags:             []string{"Favorite"},
		Photo:            ptr("https://example.com/p.jpg"),
		HumidorID:        ptr("h1"),
		InWishlist:       true,
	}

	got := CigarToRecord(CigarFromRecord(rec), owner)
	if diff := cmp.Diff(rec, got); diff != "" {
		t.Errorf("round trip mismatch (-want +got):\n%s", diff)
	}
}

func TestCigarRecordRoundTrip_NilOptionals(t *testing.T) {
	owner := "user-1"
	rec := CigarRecord{ID: "c2", UserID: &owner, Brand: "Arturo Fuente", Name: "Hemingway", Strength: Medium}

	c := CigarFromRecord(rec)
	assert.Nil(t, c.RingGauge)
	assert.Nil(t, c.AgingStartDate)
	assert.Nil(t, c.HumidorID)

	if diff := cmp.Diff(rec, CigarToRecord(c, owner)); diff != "" {
		t.Errorf("round trip mismatch (-want +got):\n%s", diff)
	}
}

func TestCigarToRecord_EmptyOwner(t *testing.T) {
	rec := CigarToRecord(Cigar{Brand: "Cohiba"}, "")
	assert.Nil(t, rec.UserID)
}

func TestTastingNoteRecordRoundTrip(t *testing.T) {
	rec := TastingNoteRecord{
		ID:             "n1",
		UserID:         "user-1",
		CigarID:        "c1",
		Rating:         4,
		StrengthRating: ptr(3),
		AromaRating:    ptr(5),
		BurnRating:     ptr(4),
		DrawRating:     ptr(2),
		Comment:        ptr("cedar and leather"),
		TastingNotes:   []string{"Cedar", "Leather"},
		SmokedDate:     time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC),
		AgingTime:      51,
		Photos:         []string{"data:image/png;base64,AAAA"},
	}

	got := TastingNoteToRecord(TastingNoteFromRecord(rec), "user-1")
	if diff := cmp.Diff(rec, got); diff != "" {
		t.Errorf("round trip mismatch (-want +got):\n%s", diff)
	}
}

func TestUserTagAndHumidorRoundTrip(t *testing.T) {
	tag := UserTagRecord{ID: "t1", UserID: "u", Name: "Aged", Color: "bg-blue-100 text-blue-800"}
	assert.Equal(t, tag, UserTagToRecord(UserTagFromRecord(tag), "u"))

	h := HumidorRecord{
		ID:          "h1",
		UserID:      "u",
		Name:        "Cabinet",
		Location:    ptr("Cellar"),
		Capacity:    ptr(200),
		Temperature: ptr(18.5),
		Humidity:    ptr(65.0),
		CreatedDate: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
		IsDefault:   true,
	}
	assert.Equal(t, h, HumidorToRecord(HumidorFromRecord(h), "u"))
}

func TestCigarRecordJSONKeys(t *testing.T) {
	b, err := json.Marshal(CigarRecord{RingGauge: ptr(52), InWishlist: true})
	require.NoError(t, err)

	var raw map[string]any
	require.NoError(t, json.Unmarshal(b, &raw))
	assert.Contains(t, raw, "ring_gauge")
	assert.Contains(t, raw, "in_wishlist")
	assert.Contains(t, raw, "low_stock_alert")
	assert.NotContains(t, raw, "ringGauge")
}

func TestAgingDays(t *testing.T) {
	tests := []struct {
		name   string
		added  time.Time
		smoked time.Time
		want   int
	}{
		{
			name:   "smoked before added floors at zero",
			added:  time.Date(2024, 1, 10, 0, 0, 0, 0, time.UTC),
			smoked: time.Date(2024, 1, 5, 0, 0, 0, 0, time.UTC),
			want:   0,
		},
		{
			name:   "same day",
			added:  time.Date(2024, 1, 10, 9, 0, 0, 0, time.UTC),
			smoked: time.Date(2024, 1, 10, 21, 0, 0, 0, time.UTC),
			want:   0,
		},
		{
			name:   "partial days are floored",
			added:  time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
			smoked: time.Date(2024, 1, 31, 23, 0, 0, 0, time.UTC),
			want:   30,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, AgingDays(tt.added, tt.smoked))
		})
	}
}

func TestCigarLowStock(t *testing.T) {
	assert.False(t, Cigar{Quantity: 1}.LowStock())
	assert.False(t, Cigar{Quantity: 1, LowStockAlert: ptr(0)}.LowStock())
	assert.True(t, Cigar{Quantity: 2, LowStockAlert: ptr(2)}.LowStock())
	assert.False(t, Cigar{Quantity: 3, LowStockAlert: ptr(2)}.LowStock())
}

func TestStrengthValid(t *testing.T) {
	assert.True(t, Full.Valid())
	assert.False(t, Strength("Medium-Full").Valid())
}
