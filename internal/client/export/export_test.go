package export

import (
	"bytes"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/atinyakov/HumiTrack/internal/models"
)

func TestCollection(t *testing.T) {
	cigars := []models.Cigar{
		{ID: "1", Brand: "Padron", Name: "1964", Size: "5x50", Format: "Robusto", Country: "Nicaragua",
			Strength: models.Full, Wrapper: "Maduro", Price: 12.5, Quantity: 3,
			Tags: []string{"Favorite", "Aging"}, AddedDate: time.Date(2024, 3, 7, 0, 0, 0, 0, time.UTC)},
		{ID: "2", Brand: "Arturo Fuente", Name: "Hemingway, Short Story", Strength: models.Medium, Price: 9, Quantity: 1,
			AddedDate: time.Date(2024, 12, 25, 0, 0, 0, 0, time.UTC)},
	}

	var buf bytes.Buffer
	require.NoError(t, Collection(&buf, cigars))

	want := "Brand,Name,Size,Format,Country,Strength,Wrapper,Price,Quantity,Tags,Date Added\n" +
		"Padron,1964,5x50,Robusto,Nicaragua,Full,Maduro,12.5,3,Favorite;Aging,3/7/2024\n" +
		"Arturo Fuente,\"Hemingway, Short Story\",,,,Medium,,9,1,,12/25/2024\n"
	assert.Equal(t, want, buf.String())
}

func TestTastingNotes(t *testing.T) {
	cigars := []models.Cigar{{ID: "c1", Brand: "Padron", Name: "1964"}}
	comment := `Said "wow"`
	notes := []models.TastingNote{
		{ID: "n1", CigarID: "c1", Rating: 5, SmokedDate: time.Date(2024, 1, 5, 0, 0, 0, 0, time.UTC),
			TastingNotes: []string{"Cocoa", "Earth"}, Comment: &comment},
		{ID: "n2", CigarID: "gone", Rating: 2, SmokedDate: time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC)},
	}

	var buf bytes.Buffer
	require.NoError(t, TastingNotes(&buf, notes, cigars))

	want := "Date,Brand,Name,Rating,Flavors,Comment\n" +
		"1/5/2024,Padron,1964,5,\"Cocoa, Earth\",\"Said \"\"wow\"\"\"\n" +
		"2/1/2024,,,2,,\n"
	assert.Equal(t, want, buf.String())
}

type failingWriter struct{}

func (failingWriter) Write([]byte) (int, error) { return 0, errors.New("disk full") }

func TestCollection_WriteError(t *testing.T) {
	err := Collection(failingWriter{}, []models.Cigar{{Brand: "x"}})
	assert.Error(t, err)
}
