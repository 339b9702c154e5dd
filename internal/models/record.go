package models

import (
	"time"

	"github.com/lib/pq"
)

// CigarRecord is the persisted shape of a row in the cigars table.
type CigarRecord struct {
	ID               string         `json:"id"`
	UserID           *string        `json:"user_id"`
	Brand            string         `json:"brand"`
	Name             string         `json:"name"`
	Size             string         `json:"size"`
	Format           string         `json:"format"`
	Country          string         `json:"country"`
	Strength         Strength       `json:"strength"`
	Wrapper          string         `json:"wrapper"`
	Price            float64        `json:"price"`
	Quantity         int            `json:"quantity"`
	RingGauge        *int           `json:"ring_gauge"`
	Factory          *string        `json:"factory"`
	ReleaseYear      *int           `json:"release_year"`
	PurchaseLocation *string        `json:"purchase_location"`
	LowStockAlert    *int           `json:"low_stock_alert"`
	AddedDate        time.Time      `json:"added_date"`
	AgingStartDate   *time.Time     `json:"aging_start_date"`
	Tags             pq.StringArray `json:"tags"`
	Photo            *string        `json:"photo"`
	HumidorID        *string        `json:"humidor_id"`
	InWishlist       bool           `json:"in_wishlist"`
}

// TastingNoteRecord is the persisted shape of a row in the tasting_notes table.
type TastingNoteRecord struct {
	ID             string         `json:"id"`
	UserID         string         `json:"user_id"`
	CigarID        string         `json:"cigar_id"`
	Rating         int            `json:"rating"`
	StrengthRating *int           `json:"strength_rating"`
	AromaRating    *int           `json:"aroma_rating"`
	BurnRating     *int           `json:"burn_rating"`
	DrawRating     *int           `json:"draw_rating"`
	Comment        *string        `json:"comment"`
	TastingNotes   pq.StringArray `json:"tasting_notes"`
	SmokedDate     time.Time      `json:"smoked_date"`
	AgingTime      int            `json:"aging_time"`
	Photos         pq.StringArray `json:"photos"`
}

// UserTagRecord is the persisted shape of a row in the user_tags table.
type UserTagRecord struct {
	ID     string `json:"id"`
	UserID string `json:"user_id"`
	Name   string `json:"name"`
	Color  string `json:"color"`
}

// HumidorRecord is the persisted shape of a row in the humidors table.
type HumidorRecord struct {
	ID          string    `json:"id"`
	UserID      string    `json:"user_id"`
	Name        string    `json:"name"`
	Description *string   `json:"description"`
	Location    *string   `json:"location"`
	Capacity    *int      `json:"capacity"`
	Temperature *float64  `json:"temperature"`
	Humidity    *float64  `json:"humidity"`
	CreatedDate time.Time `json:"created_date"`
	IsDefault   bool      `json:"is_default"`
}

// CigarFromRecord maps a persisted cigar row to its in-memory shape.
func CigarFromRecord(r CigarRecord) Cigar {
	return Cigar{
		ID:               r.ID,
		Brand:            r.Brand,
		Name:             r.Name,
		Size:             r.Size,
		Format:           r.Format,
		Country:          r.Country,
		Strength:         r.Strength,
		Wrapper:          r.Wrapper,
		Price:            r.Price,
		Quantity:         r.Quantity,
		RingGauge:        r.RingGauge,
		Factory:          r.Factory,
		ReleaseYear:      r.ReleaseYear,
		PurchaseLocation: r.PurchaseLocation,
		LowStockAlert:    r.LowStockAlert,
		AddedDate:        r.AddedDate,
		AgingStartDate:   r.AgingStartDate,
		Tags:             []string(r.Tags),
		Photo:            r.Photo,
		HumidorID:        r.HumidorID,
		InWishlist:       r.InWishlist,
	}
}

// CigarToRecord maps an in-memory cigar to the persisted shape owned by userID.
// An empty userID leaves the owner column NULL.
func CigarToRecord(c Cigar, userID string) CigarRecord {
	var owner *string
	if userID != "" {
		owner = &userID
	}
	return CigarRecord{
		ID:               c.ID,
		UserID:           owner,
		Brand:            c.Brand,
		Name:             c.Name,
		Size:             c.Size,
		Format:           c.Format,
		Country:          c.Country,
		Strength:         c.Strength,
		Wrapper:          c.Wrapper,
		Price:            c.Price,
		Quantity:         c.Quantity,
		RingGauge:        c.RingGauge,
		Factory:          c.Factory,
		ReleaseYear:      c.ReleaseYear,
		PurchaseLocation: c.PurchaseLocation,
		LowStockAlert:    c.LowStockAlert,
		AddedDate:        c.AddedDate,
		AgingStartDate:   c.AgingStartDate,
		Tags:             pq.StringArray(c.Tags),
		Photo:            c.Photo,
		HumidorID:        c.HumidorID,
		InWishlist:       c.InWishlist,
	}
}

// TastingNoteFromRecord maps a persisted tasting note row to its in-memory shape.
func TastingNoteFromRecord(r TastingNoteRecord) TastingNote {
	return TastingNote{
		ID:             r.ID,
		CigarID:        r.CigarID,
		Rating:         r.Rating,
		StrengthRating: r.StrengthRating,
		AromaRating:    r.AromaRating,
		BurnRating:     r.BurnRating,
		DrawRating:     r.DrawRating,
		Comment:        r.Comment,
		TastingNotes:   []string(r.TastingNotes),
		SmokedDate:     r.SmokedDate,
		AgingTime:      r.AgingTime,
		Photos:         []string(r.Photos),
	}
}

// TastingNoteToRecord maps an in-memory tasting note to the persisted shape owned by userID.
func TastingNoteToRecord(n TastingNote, userID string) TastingNoteRecord {
	return TastingNoteRecord{
		ID:             n.ID,
		UserID:         userID,
		CigarID:        n.CigarID,
		Rating:         n.Rating,
		StrengthRating: n.StrengthRating,
		AromaRating:    n.AromaRating,
		BurnRating:     n.BurnRating,
		DrawRating:     n.DrawRating,
		Comment:        n.Comment,
		TastingNotes:   pq.StringArray(n.TastingNotes),
		SmokedDate:     n.SmokedDate,
		AgingTime:      n.AgingTime,
		Photos:         pq.StringArray(n.Photos),
	}
}

// UserTagFromRecord maps a persisted tag row to its in-memory shape.
func UserTagFromRecord(r UserTagRecord) UserTag {
	return UserTag{ID: r.ID, Name: r.Name, Color: r.Color}
}

// UserTagToRecord maps an in-memory tag to the persisted shape owned by userID.
func UserTagToRecord(t UserTag, userID string) UserTagRecord {
	return UserTagRecord{ID: t.ID, UserID: userID, Name: t.Name, Color: t.Color}
}

// HumidorFromRecord maps a persisted humidor row to its in-memory shape.
func HumidorFromRecord(r HumidorRecord) Humidor {
	return Humidor{
		ID:          r.ID,
		Name:        r.Name,
		Description: r.Description,
		Location:    r.Location,
		Capacity:    r.Capacity,
		Temperature: r.Temperature,
		Humidity:    r.Humidity,
		CreatedDate: r.CreatedDate,
		IsDefault:   r.IsDefault,
	}
}

// HumidorToRecord maps an in-memory humidor to the persisted shape owned by userID.
func HumidorToRecord(h Humidor, userID string) HumidorRecord {
	return HumidorRecord{
		ID:          h.ID,
		UserID:      userID,
		Name:        h.Name,
		Description: h.Description,
		Location:    h.Location,
		Capacity:    h.Capacity,
		Temperature: h.Temperature,
		Humidity:    h.Humidity,
		CreatedDate: h.CreatedDate,
		IsDefault:   h.IsDefault,
	}
}
