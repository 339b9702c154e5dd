// Package export writes the collection and tasting notes as CSV.
package export

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/atinyakov/HumiTrack/internal/models"
)

// dateLayout renders dates as month/day/year.
const dateLayout = "1/2/2006"

// Default file names offered by the client.
const (
	CollectionFile   = "my-collection.csv"
	TastingNotesFile = "tasting-notes.csv"
)

var (
	collectionHeader = []string{"Brand", "Name", "Size", "Format", "Country", "Strength", "Wrapper", "Price", "Quantity", "Tags", "Date Added"}
	notesHeader      = []string{"Date", "Brand", "Name", "Rating", "Flavors", "Comment"}
)

// Collection writes one row per cigar.
func Collection(w io.Writer, cigars []models.Cigar) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(collectionHeader); err != nil {
		return fmt.Errorf("write header: %w", err)
	}
	for _, c := range cigars {
		row := []string{
			c.Brand,
			c.Name,
			c.Size,
			c.Format,
			c.Country,
			string(c.Strength),
			c.Wrapper,
			strconv.FormatFloat(c.Price, 'f', -1, 64),
			strconv.Itoa(c.Quantity),
			strings.Join(c.Tags, ";"),
			c.AddedDate.Format(dateLayout),
		}
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("write cigar %s: %w", c.ID, err)
		}
	}
	cw.Flush()
	return cw.Error()
}

// TastingNotes writes one row per note. Notes of unknown cigars keep an empty brand and name.
func TastingNotes(w io.Writer, notes []models.TastingNote, cigars []models.Cigar) error {
	byID := make(map[string]models.Cigar, len(cigars))
	for _, c := range cigars {
		byID[c.ID] = c
	}

	cw := csv.NewWriter(w)
	if err := cw.Write(notesHeader); err != nil {
		return fmt.Errorf("write header: %w", err)
	}
	for _, n := range notes {
		c := byID[n.CigarID]
		comment := ""
		if n.Comment != nil {
			comment = *n.Comment
		}
		row := []string{
			n.SmokedDate.Format(dateLayout),
			c.Brand,
			c.Name,
			strconv.Itoa(n.Rating),
			strings.Join(n.TastingNotes, ", "),
			comment,
		}
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("write note %s: %w", n.ID, err)
		}
	}
	cw.Flush()
	return cw.Error()
}
