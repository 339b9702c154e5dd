// Package models defines the core data structures for users, cigars,
// tasting notes, tags, humidors and local reviews.
package models

import "time"

// User represents an application user with credentials.
type User struct {
	// ID is the unique identifier for the user.
	ID string `json:"id"`
	// Email is the login name chosen by the user.
	Email string `json:"email"`
	// PasswordHash is the argon2id encoded password hash. Never serialized.
	PasswordHash string `json:"-"`
	// CreatedAt is the registration time.
	CreatedAt time.Time `json:"created_at"`
}

// Strength is the body classification of a cigar.
type Strength string

const (
	// Mild is a light-bodied cigar.
	Mild Strength = "Mild"
	// Medium is a medium-bodied cigar.
	Medium Strength = "Medium"
	// Full is a full-bodied cigar.
	Full Strength = "Full"
)

// Valid reports whether s is one of the known strengths.
func (s Strength) Valid() bool {
	switch s {
	case Mild, Medium, Full:
		return true
	}
	return false
}

// Cigar is the in-memory shape of a cigar, either in the humidor or in the wishlist.
type Cigar struct {
	ID               string     `json:"id"`
	Brand            string     `json:"brand" validate:"required"`
	Name             string     `json:"name" validate:"required"`
	Size             string     `json:"size"`
	Format           string     `json:"format"`
	Country          string     `json:"country"`
	Strength         Strength   `json:"strength" validate:"required,oneof=Mild Medium Full"`
	Wrapper          string     `json:"wrapper"`
	Price            float64    `json:"price" validate:"gte=0"`
	Quantity         int        `json:"quantity" validate:"gte=0"`
	Photo            *string    `json:"photo,omitempty"`
	AddedDate        time.Time  `json:"addedDate"`
	InWishlist       bool       `json:"inWishlist"`
	Tags             []string   `json:"tags"`
	RingGauge        *int       `json:"ringGauge,omitempty" validate:"omitempty,gt=0"`
	Factory          *string    `json:"factory,omitempty"`
	ReleaseYear      *int       `json:"releaseYear,omitempty"`
	PurchaseLocation *string    `json:"purchaseLocation,omitempty"`
	AgingStartDate   *time.Time `json:"agingStartDate,omitempty"`
	LowStockAlert    *int       `json:"lowStockAlert,omitempty" validate:"omitempty,gte=0"`
	HumidorID        *string    `json:"humidorId,omitempty"`
}

// LowStock reports whether the cigar has a threshold and its quantity is at or below it.
func (c Cigar) LowStock() bool {
	return c.LowStockAlert != nil && *c.LowStockAlert > 0 && c.Quantity <= *c.LowStockAlert
}

// TastingNote is the in-memory shape of one smoking session.
type TastingNote struct {
	ID             string    `json:"id"`
	CigarID        string    `json:"cigarId" validate:"required"`
	SmokedDate     time.Time `json:"smokedDate"`
	Rating         int       `json:"rating" validate:"min=1,max=5"`
	StrengthRating *int      `json:"strengthRating,omitempty" validate:"omitempty,min=1,max=5"`
	AromaRating    *int      `json:"aromaRating,omitempty" validate:"omitempty,min=1,max=5"`
	BurnRating     *int      `json:"burnRating,omitempty" validate:"omitempty,min=1,max=5"`
	DrawRating     *int      `json:"drawRating,omitempty" validate:"omitempty,min=1,max=5"`
	Comment        *string   `json:"comment,omitempty"`
	TastingNotes   []string  `json:"tastingNotes,omitempty"`
	Photos         []string  `json:"photos,omitempty"`
	AgingTime      int       `json:"agingTime"`
}

// UserTag is a user-defined label with a display color.
type UserTag struct {
	ID    string `json:"id"`
	Name  string `json:"name" validate:"required"`
	Color string `json:"color"`
}

// DefaultTags are the built-in tags shown alongside the user's own tags.
var DefaultTags = []UserTag{
	{ID: "default-favorite", Name: "Favorite", Color: "bg-red-100 text-red-800"},
	{ID: "default-special-occasion", Name: "Special Occasion", Color: "bg-purple-100 text-purple-800"},
	{ID: "default-daily-smoke", Name: "Daily Smoke", Color: "bg-green-100 text-green-800"},
	{ID: "default-aging", Name: "Aging", Color: "bg-yellow-100 text-yellow-800"},
	{ID: "default-gift", Name: "Gift", Color: "bg-blue-100 text-blue-800"},
	{ID: "default-limited-edition", Name: "Limited Edition", Color: "bg-indigo-100 text-indigo-800"},
}

// DefaultHumidorID identifies the virtual humidor that holds cigars without a humidor reference.
const DefaultHumidorID = "default"

// Humidor groups cigars of a user.
type Humidor struct {
	ID          string    `json:"id"`
	Name        string    `json:"name" validate:"required"`
	Description *string   `json:"description,omitempty"`
	Location    *string   `json:"location,omitempty"`
	Capacity    *int      `json:"capacity,omitempty" validate:"omitempty,gt=0"`
	Temperature *float64  `json:"temperature,omitempty"`
	Humidity    *float64  `json:"humidity,omitempty" validate:"omitempty,gte=0,lte=100"`
	CreatedDate time.Time `json:"createdDate"`
	IsDefault   bool      `json:"isDefault"`
}

// Review is a free-text community review kept in local storage only.
type Review struct {
	ID      string    `json:"id"`
	CigarID string    `json:"cigarId,omitempty"`
	Author  string    `json:"author" validate:"required"`
	Comment string    `json:"comment" validate:"required"`
	Rating  *int      `json:"rating,omitempty" validate:"omitempty,min=1,max=5"`
	Likes   int       `json:"likes"`
	Photo   string    `json:"photo,omitempty"`
	Date    time.Time `json:"date"`
}
