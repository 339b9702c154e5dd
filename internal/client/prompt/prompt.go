// Package prompt reads entity forms line by line from an interactive terminal.
package prompt

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/olebedev/when"
	"github.com/olebedev/when/rules/common"
	"github.com/olebedev/when/rules/en"

	"github.com/atinyakov/HumiTrack/internal/models"
)

const dateLayout = "2006-01-02"

// Prompter asks questions on out and reads the answers from in.
type Prompter struct {
	scanner *bufio.Scanner
	out     io.Writer
	dates   *when.Parser
	now     func() time.Time
}

// New returns a Prompter over in and out.
func New(in io.Reader, out io.Writer) *Prompter {
	w := when.New(nil)
	w.Add(en.All...)
	w.Add(common.All...)
	return &Prompter{
		scanner: bufio.NewScanner(in),
		out:     out,
		dates:   w,
		now:     time.Now,
	}
}

// Next prints ps and reads one raw line. ok is false at end of input.
func (p *Prompter) Next(ps string) (line string, ok bool) {
	fmt.Fprint(p.out, ps)
	if !p.scanner.Scan() {
		return "", false
	}
	return p.scanner.Text(), true
}

// Line prints label and returns the trimmed answer. It returns "" at end of input.
func (p *Prompter) Line(label string) string {
	fmt.Fprintf(p.out, "%s: ", label)
	if !p.scanner.Scan() {
		return ""
	}
	return strings.TrimSpace(p.scanner.Text())
}

// Optional returns nil for an empty answer.
func (p *Prompter) Optional(label string) *string {
	if v := p.Line(label); v != "" {
		return &v
	}
	return nil
}

// Int reads an integer, returning def for an empty answer.
func (p *Prompter) Int(label string, def int) (int, error) {
	v := p.Line(label)
	if v == "" {
		return def, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("%s: %q is not a whole number", label, v)
	}
	return n, nil
}

// OptionalInt reads an integer, returning nil for an empty answer.
func (p *Prompter) OptionalInt(label string) (*int, error) {
	v := p.Line(label)
	if v == "" {
		return nil, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return nil, fmt.Errorf("%s: %q is not a whole number", label, v)
	}
	return &n, nil
}

// Float reads a number, returning def for an empty answer.
func (p *Prompter) Float(label string, def float64) (float64, error) {
	v := p.Line(label)
	if v == "" {
		return def, nil
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return 0, fmt.Errorf("%s: %q is not a number", label, v)
	}
	return f, nil
}

// List reads a comma separated list.
func (p *Prompter) List(label string) []string {
	return SplitList(p.Line(label))
}

// SplitList splits s on commas and drops empty items.
func SplitList(s string) []string {
	out := []string{}
	for _, item := range strings.Split(s, ",") {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	return out
}

// Date reads a date as YYYY-MM-DD or in words ("yesterday", "last friday").
// An empty answer returns the zero time.
func (p *Prompter) Date(label string) (time.Time, error) {
	return p.ParseDate(p.Line(label))
}

// ParseDate parses s as YYYY-MM-DD or a natural language date relative to now.
func (p *Prompter) ParseDate(s string) (time.Time, error) {
	if s == "" {
		return time.Time{}, nil
	}
	if t, err := time.Parse(dateLayout, s); err == nil {
		return t, nil
	}
	r, err := p.dates.Parse(s, p.now())
	if err != nil {
		return time.Time{}, fmt.Errorf("parse date %q: %w", s, err)
	}
	if r == nil {
		return time.Time{}, fmt.Errorf("unrecognized date %q", s)
	}
	return r.Time, nil
}

// ParseStrength accepts mild, medium or full in any case.
func ParseStrength(s string) (models.Strength, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "mild":
		return models.Mild, nil
	case "medium":
		return models.Medium, nil
	case "full":
		return models.Full, nil
	}
	return "", fmt.Errorf("strength must be mild, medium or full, got %q", s)
}

// Cigar reads a cigar form.
func (p *Prompter) Cigar() (models.Cigar, error) {
	var (
		c   models.Cigar
		err error
	)
	c.Brand = p.Line("Brand")
	c.Name = p.Line("Name")
	c.Size = p.Line("Size (e.g. 5 x 50)")
	c.Format = p.Line("Format (e.g. Robusto)")
	c.Country = p.Line("Country")
	if c.Strength, err = ParseStrength(p.Line("Strength (mild/medium/full)")); err != nil {
		return models.Cigar{}, err
	}
	c.Wrapper = p.Line("Wrapper")
	if c.Price, err = p.Float("Price", 0); err != nil {
		return models.Cigar{}, err
	}
	if c.Quantity, err = p.Int("Quantity", 1); err != nil {
		return models.Cigar{}, err
	}
	if c.RingGauge, err = p.OptionalInt("Ring gauge"); err != nil {
		return models.Cigar{}, err
	}
	c.Factory = p.Optional("Factory")
	if c.ReleaseYear, err = p.OptionalInt("Release year"); err != nil {
		return models.Cigar{}, err
	}
	c.PurchaseLocation = p.Optional("Purchase location")
	if c.LowStockAlert, err = p.OptionalInt("Low stock alert"); err != nil {
		return models.Cigar{}, err
	}
	c.Tags = p.List("Tags (comma separated)")
	c.Photo = p.Optional("Photo URL")
	return c, nil
}

// TastingNote reads a tasting note form for cigarID.
func (p *Prompter) TastingNote(cigarID string) (models.TastingNote, error) {
	var (
		n   models.TastingNote
		err error
	)
	n.CigarID = cigarID
	if n.SmokedDate, err = p.Date("Smoked (YYYY-MM-DD or e.g. yesterday, empty for now)"); err != nil {
		return models.TastingNote{}, err
	}
	if n.Rating, err = p.Int("Rating (1-5)", 0); err != nil {
		return models.TastingNote{}, err
	}
	for _, sub := range []struct {
		label string
		dst   **int
	}{
		{"Strength rating (1-5)", &n.StrengthRating},
		{"Aroma rating (1-5)", &n.AromaRating},
		{"Burn rating (1-5)", &n.BurnRating},
		{"Draw rating (1-5)", &n.DrawRating},
	} {
		if *sub.dst, err = p.OptionalInt(sub.label); err != nil {
			return models.TastingNote{}, err
		}
	}
	n.TastingNotes = p.List("Flavors (comma separated)")
	n.Comment = p.Optional("Comment")
	return n, nil
}

// Humidor reads a humidor form.
func (p *Prompter) Humidor() (models.Humidor, error) {
	var (
		h   models.Humidor
		err error
	)
	h.Name = p.Line("Name")
	h.Description = p.Optional("Description")
	h.Location = p.Optional("Location")
	if h.Capacity, err = p.OptionalInt("Capacity"); err != nil {
		return models.Humidor{}, err
	}
	return h, nil
}

// Review reads a review form for cigarID, which may be empty.
func (p *Prompter) Review(cigarID string) (models.Review, error) {
	r := models.Review{CigarID: cigarID}
	r.Author = p.Line("Your name")
	rating, err := p.OptionalInt("Rating (1-5, optional)")
	if err != nil {
		return models.Review{}, err
	}
	r.Rating = rating
	r.Comment = p.Line("Review")
	return r, nil
}
