package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/atinyakov/HumiTrack/internal/client/authform"
	"github.com/atinyakov/HumiTrack/internal/client/browse"
	"github.com/atinyakov/HumiTrack/internal/client/catalog"
	"github.com/atinyakov/HumiTrack/internal/client/export"
	"github.com/atinyakov/HumiTrack/internal/client/insights"
	"github.com/atinyakov/HumiTrack/internal/client/prompt"
	"github.com/atinyakov/HumiTrack/internal/client/remote"
	"github.com/atinyakov/HumiTrack/internal/client/session"
	"github.com/atinyakov/HumiTrack/internal/client/storage"
	"github.com/atinyakov/HumiTrack/internal/models"
)

const helpText = `Account:    signup | signin | signout | whoami
Humidor:    cigars [sort] [search...] | add | edit <id> | delete <id> | lowstock
            humidors | humidor-add | humidor-edit <id> | humidor-delete <id> | in <humidor id>
Wishlist:   wishlist | wish | unwish <id> | move <id>
Tasting:    notes [sort] [search...] | taste <cigar id> | unnote <id>
Tags:       tags | tag
Discover:   discover [text] | recommend | catalog-add <entry id> | catalog-wish <entry id>
Community:  reviews [cigar id] | review [cigar id] | like <review id>
Other:      insights | export collection|notes [file] | reload | help | exit`

// shell is the interactive command loop.
type shell struct {
	remote  *remote.Client
	session *session.Session
	reviews *storage.LocalStorage
	catalog *catalog.Catalog
	prompt  *prompt.Prompter
	out     io.Writer
}

// run reads commands until exit, end of input or ctx is cancelled.
func (s *shell) run(ctx context.Context) {
	fmt.Fprintln(s.out, "HumiTrack. Type 'help' for a list of commands.")
	for ctx.Err() == nil {
		line, ok := s.prompt.Next("humitrack> ")
		if !ok {
			return
		}
		args := strings.Fields(line)
		if len(args) == 0 {
			continue
		}
		if args[0] == "exit" || args[0] == "quit" {
			fmt.Fprintln(s.out, "Bye")
			return
		}
		if err := s.dispatch(ctx, args[0], args[1:]); err != nil {
			fmt.Fprintf(s.out, "Error: %v\n", err)
		}
	}
}

func (s *shell) dispatch(ctx context.Context, cmd string, args []string) error {
	switch cmd {
	case "help":
		fmt.Fprintln(s.out, helpText)
		return nil
	case "signup":
		return s.authenticate(ctx, true)
	case "signin":
		return s.authenticate(ctx, false)
	case "discover":
		return s.discover(strings.Join(args, " "))
	case "reviews":
		return s.listReviews(optional(args))
	case "review":
		return s.addReview(optional(args))
	case "like":
		return s.like(args)
	}

	if s.session.State() == session.Unauthenticated {
		return errors.New("sign in first (signin or signup)")
	}

	switch cmd {
	case "signout":
		return s.signOut(ctx)
	case "whoami":
		return s.whoami(ctx)
	case "reload":
		s.session.Reload(ctx)
		fmt.Fprintln(s.out, "Collections reloaded")
		return nil
	case "cigars":
		return s.listCigars(args, "")
	case "in":
		if len(args) < 1 {
			return fmt.Errorf("usage: in <humidor id>")
		}
		return s.listCigars(args[1:], args[0])
	case "lowstock":
		s.printCigars(insights.LowStock(s.session.Cigars()))
		return nil
	case "add":
		return s.addCigar(ctx, false)
	case "wish":
		return s.addCigar(ctx, true)
	case "edit":
		return s.editCigar(ctx, args)
	case "delete":
		return withID(args, "delete", func(id string) error {
			if err := s.session.DeleteCigar(ctx, id); err != nil {
				return err
			}
			fmt.Fprintln(s.out, "Cigar and its tasting notes deleted")
			return nil
		})
	case "wishlist":
		s.printCigars(s.session.Wishlist())
		return nil
	case "unwish":
		return withID(args, "unwish", func(id string) error {
			if err := s.session.RemoveFromWishlist(ctx, id); err != nil {
				return err
			}
			fmt.Fprintln(s.out, "Removed from wishlist")
			return nil
		})
	case "move":
		return withID(args, "move", func(id string) error {
			c, err := s.session.MoveToHumidor(ctx, id)
			if err != nil {
				return err
			}
			fmt.Fprintf(s.out, "%s %s moved to the humidor\n", c.Brand, c.Name)
			return nil
		})
	case "notes":
		return s.listNotes(args)
	case "taste":
		return withID(args, "taste", func(id string) error { return s.addNote(ctx, id) })
	case "unnote":
		return withID(args, "unnote", func(id string) error {
			if err := s.session.DeleteTastingNote(ctx, id); err != nil {
				return err
			}
			fmt.Fprintln(s.out, "Tasting note deleted")
			return nil
		})
	case "tags":
		for _, t := range s.session.AllTags() {
			fmt.Fprintf(s.out, "%s\t%s\n", t.Name, t.Color)
		}
		return nil
	case "tag":
		return s.addTag(ctx)
	case "humidors":
		return s.listHumidors()
	case "humidor-add":
		return s.addHumidor(ctx)
	case "humidor-edit":
		return withID(args, "humidor-edit", func(id string) error { return s.editHumidor(ctx, id) })
	case "humidor-delete":
		return withID(args, "humidor-delete", func(id string) error {
			if err := s.session.DeleteHumidor(ctx, id); err != nil {
				return err
			}
			fmt.Fprintln(s.out, "Humidor deleted; its cigars moved to the main humidor")
			return nil
		})
	case "insights":
		return s.insights()
	case "export":
		return s.export(args)
	case "recommend":
		s.printEntries(s.catalog.Recommend(s.session.Cigars(), s.session.TastingNotes()))
		return nil
	case "catalog-add":
		return withID(args, "catalog-add", func(id string) error { return s.addFromCatalog(ctx, id, false) })
	case "catalog-wish":
		return withID(args, "catalog-wish", func(id string) error { return s.addFromCatalog(ctx, id, true) })
	}
	return fmt.Errorf("unknown command %q, type 'help' for a list of commands", cmd)
}

func optional(args []string) string {
	if len(args) > 0 {
		return args[0]
	}
	return ""
}

func withID(args []string, cmd string, fn func(id string) error) error {
	if len(args) < 1 {
		return fmt.Errorf("usage: %s <id>", cmd)
	}
	return fn(args[0])
}

func (s *shell) authenticate(ctx context.Context, signUp bool) error {
	form := authform.Form{SignUp: signUp}
	form.Email = s.prompt.Line("Email")
	form.Password = s.prompt.Line("Password")
	if signUp {
		form.ConfirmPassword = s.prompt.Line("Confirm password")
	}
	if err := form.Validate(); err != nil {
		return err
	}

	var (
		res *remote.AuthSession
		err error
	)
	if signUp {
		res, err = s.remote.SignUp(ctx, form.Email, form.Password)
	} else {
		res, err = s.remote.SignIn(ctx, form.Email, form.Password)
	}
	if err != nil {
		return errors.New(authform.Message(err, signUp))
	}

	if signUp {
		fmt.Fprintln(s.out, authform.SignUpSuccess)
	}
	fmt.Fprintf(s.out, "Signed in as %s, loading your collection...\n", res.User.Email)
	s.session.SetUser(ctx, res.User.ID)
	fmt.Fprintf(s.out, "%d cigars, %d on the wishlist, %d tasting notes\n",
		len(s.session.Cigars()), len(s.session.Wishlist()), len(s.session.TastingNotes()))
	return nil
}

func (s *shell) signOut(ctx context.Context) error {
	err := s.remote.SignOut(ctx)
	s.session.SetUser(ctx, "")
	if err != nil {
		return fmt.Errorf("signed out locally, server sign-out failed: %w", err)
	}
	fmt.Fprintln(s.out, "Signed out")
	return nil
}

func (s *shell) whoami(ctx context.Context) error {
	u, err := s.remote.CurrentUser(ctx)
	if err != nil {
		return err
	}
	fmt.Fprintf(s.out, "%s (%s)\n", u.Email, u.ID)
	return nil
}

// listCigars takes an optional sort followed by search words.
func (s *shell) listCigars(args []string, humidorID string) error {
	f := browse.CigarFilter{Humidor: humidorID}
	if len(args) > 0 {
		if sort, err := browse.ParseCigarSort(args[0]); err == nil {
			f.Sort = sort
			args = args[1:]
		}
	}
	f.Search = strings.Join(args, " ")
	s.printCigars(browse.Cigars(s.session.Cigars(), f, time.Now()))
	return nil
}

func (s *shell) printCigars(cigars []models.Cigar) {
	if len(cigars) == 0 {
		fmt.Fprintln(s.out, "No cigars")
		return
	}
	tw := tabwriter.NewWriter(s.out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tBRAND\tNAME\tSTRENGTH\tQTY\tPRICE\tTAGS")
	for _, c := range cigars {
		qty := strconv.Itoa(c.Quantity)
		if c.LowStock() {
			qty += " (low)"
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%.2f\t%s\n",
			c.ID, c.Brand, c.Name, c.Strength, qty, c.Price, strings.Join(c.Tags, ", "))
	}
	tw.Flush()
}

func (s *shell) addCigar(ctx context.Context, wishlist bool) error {
	c, err := s.prompt.Cigar()
	if err != nil {
		return err
	}
	if !wishlist {
		if h := s.prompt.Line("Humidor id (empty for main)"); h != "" {
			c.HumidorID = &h
		}
	}

	if wishlist {
		c, err = s.session.AddToWishlist(ctx, c)
	} else {
		c, err = s.session.AddCigar(ctx, c)
	}
	if err != nil {
		return err
	}
	fmt.Fprintf(s.out, "Added %s %s (%s)\n", c.Brand, c.Name, c.ID)
	return nil
}

func (s *shell) editCigar(ctx context.Context, args []string) error {
	if len(args) < 1 {
		return fmt.Errorf("usage: edit <id>")
	}
	old, ok := s.session.FindCigar(args[0])
	if !ok {
		return fmt.Errorf("cigar %s not found", args[0])
	}
	fmt.Fprintf(s.out, "Editing %s %s, enter every field again\n", old.Brand, old.Name)
	c, err := s.prompt.Cigar()
	if err != nil {
		return err
	}
	c.ID = old.ID
	c.AddedDate = old.AddedDate
	c.AgingStartDate = old.AgingStartDate
	c.HumidorID = old.HumidorID
	c.InWishlist = old.InWishlist

	if _, err := s.session.UpdateCigar(ctx, c); err != nil {
		return err
	}
	fmt.Fprintln(s.out, "Cigar updated")
	return nil
}

func (s *shell) listNotes(args []string) error {
	var f browse.NoteFilter
	if len(args) > 0 {
		if sort, err := browse.ParseNoteSort(args[0]); err == nil {
			f.Sort = sort
			args = args[1:]
		}
	}
	f.Search = strings.Join(args, " ")

	cigars := append(s.session.Cigars(), s.session.Wishlist()...)
	notes := browse.Notes(s.session.TastingNotes(), cigars, f)
	if len(notes) == 0 {
		fmt.Fprintln(s.out, "No tasting notes")
		return nil
	}
	byID := browse.CigarIndex(cigars)
	tw := tabwriter.NewWriter(s.out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tDATE\tCIGAR\tRATING\tAGED\tFLAVORS")
	for _, n := range notes {
		c := byID[n.CigarID]
		fmt.Fprintf(tw, "%s\t%s\t%s %s\t%d/5\t%dd\t%s\n",
			n.ID, n.SmokedDate.Format("2006-01-02"), c.Brand, c.Name, n.Rating, n.AgingTime,
			strings.Join(n.TastingNotes, ", "))
	}
	tw.Flush()
	return nil
}

func (s *shell) addNote(ctx context.Context, cigarID string) error {
	if _, ok := s.session.FindCigar(cigarID); !ok {
		return fmt.Errorf("cigar %s not found", cigarID)
	}
	n, err := s.prompt.TastingNote(cigarID)
	if err != nil {
		return err
	}
	n, err = s.session.AddTastingNote(ctx, n)
	if err != nil {
		return err
	}
	fmt.Fprintf(s.out, "Tasting note saved, aged %d days\n", n.AgingTime)
	return nil
}

func (s *shell) addTag(ctx context.Context) error {
	t := models.UserTag{
		Name:  s.prompt.Line("Tag name"),
		Color: s.prompt.Line("Color classes (e.g. bg-gray-100 text-gray-800)"),
	}
	t, err := s.session.CreateTag(ctx, t)
	if err != nil {
		return err
	}
	fmt.Fprintf(s.out, "Tag %s created\n", t.Name)
	return nil
}

func (s *shell) listHumidors() error {
	cigars := s.session.Cigars()
	tw := tabwriter.NewWriter(s.out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tNAME\tCIGARS\tCAPACITY")
	for _, h := range s.session.Humidors() {
		in := browse.Cigars(cigars, browse.CigarFilter{Humidor: h.ID}, time.Now())
		capacity := "-"
		if h.Capacity != nil {
			capacity = strconv.Itoa(*h.Capacity)
		}
		fmt.Fprintf(tw, "%s\t%s\t%d\t%s\n", h.ID, h.Name, insights.TotalCigars(in), capacity)
	}
	tw.Flush()
	return nil
}

func (s *shell) addHumidor(ctx context.Context) error {
	h, err := s.prompt.Humidor()
	if err != nil {
		return err
	}
	h, err = s.session.AddHumidor(ctx, h)
	if err != nil {
		return err
	}
	fmt.Fprintf(s.out, "Humidor %s created (%s)\n", h.Name, h.ID)
	return nil
}

func (s *shell) editHumidor(ctx context.Context, id string) error {
	var old *models.Humidor
	for _, h := range s.session.Humidors() {
		if h.ID == id {
			old = &h
			break
		}
	}
	if old == nil || old.ID == models.DefaultHumidorID {
		return fmt.Errorf("humidor %s not found", id)
	}
	h, err := s.prompt.Humidor()
	if err != nil {
		return err
	}
	h.ID = old.ID
	h.CreatedDate = old.CreatedDate
	h.IsDefault = old.IsDefault
	h.Temperature = old.Temperature
	h.Humidity = old.Humidity
	if _, err := s.session.UpdateHumidor(ctx, h); err != nil {
		return err
	}
	fmt.Fprintln(s.out, "Humidor updated")
	return nil
}

func (s *shell) insights() error {
	sum := insights.Summarize(s.session.Cigars(), s.session.TastingNotes())
	fmt.Fprintf(s.out, "Total cigars: %d\nCollection value: $%.2f\nBrands: %d\nLow stock: %d\n",
		sum.TotalCigars, sum.TotalValue, sum.UniqueBrands, len(sum.LowStock))
	fmt.Fprintf(s.out, "Average rating: %.1f\nPreferred strength: %s\n", sum.AverageRating, sum.PreferredStrength)
	printCounts(s.out, "By country", sum.ByCountry)
	printCounts(s.out, "By strength", sum.ByStrength)
	printCounts(s.out, "Top brands", sum.ByBrand)
	printCounts(s.out, "Top flavors", sum.TopFlavors)
	fmt.Fprintln(s.out, "Ratings:")
	for i, n := range sum.RatingDistribution {
		fmt.Fprintf(s.out, "  %d: %s %d\n", i+1, strings.Repeat("#", n), n)
	}
	return nil
}

func printCounts(w io.Writer, title string, counts []insights.Count) {
	if len(counts) == 0 {
		return
	}
	fmt.Fprintf(w, "%s:\n", title)
	for _, c := range counts {
		fmt.Fprintf(w, "  %-24s %d\n", c.Name, c.Value)
	}
}

func (s *shell) export(args []string) error {
	if len(args) < 1 {
		return fmt.Errorf("usage: export collection|notes [file]")
	}

	var (
		file  string
		write func(io.Writer) error
	)
	switch args[0] {
	case "collection":
		file = export.CollectionFile
		write = func(w io.Writer) error { return export.Collection(w, s.session.Cigars()) }
	case "notes":
		file = export.TastingNotesFile
		cigars := append(s.session.Cigars(), s.session.Wishlist()...)
		write = func(w io.Writer) error { return export.TastingNotes(w, s.session.TastingNotes(), cigars) }
	default:
		return fmt.Errorf("usage: export collection|notes [file]")
	}
	if len(args) > 1 {
		file = args[1]
	}

	f, err := os.Create(file)
	if err != nil {
		return err
	}
	if err := write(f); err != nil {
		f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return err
	}
	fmt.Fprintf(s.out, "Exported to %s\n", file)
	return nil
}

func (s *shell) discover(text string) error {
	entries, err := s.catalog.Discover(catalog.DiscoverQuery{Text: text})
	if err != nil {
		return err
	}
	s.printEntries(entries)
	return nil
}

func (s *shell) printEntries(entries []catalog.Entry) {
	if len(entries) == 0 {
		fmt.Fprintln(s.out, "No cigars match your search criteria")
		return
	}
	tw := tabwriter.NewWriter(s.out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tBRAND\tNAME\tCOUNTRY\tSTRENGTH\tFLAVORS")
	for _, e := range entries {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%s\n",
			e.ID, e.Brand, e.Name, e.Country, e.Strength, strings.Join(e.FlavorProfile, ", "))
	}
	tw.Flush()
}

func (s *shell) addFromCatalog(ctx context.Context, id string, wishlist bool) error {
	e, ok := s.catalog.Get(id)
	if !ok {
		return fmt.Errorf("catalog entry %s not found", id)
	}
	var err error
	if wishlist {
		_, err = s.session.AddToWishlist(ctx, e.Cigar(true))
	} else {
		_, err = s.session.AddCigar(ctx, e.Cigar(false))
	}
	if err != nil {
		return err
	}
	fmt.Fprintf(s.out, "Added %s %s\n", e.Brand, e.Name)
	return nil
}

func (s *shell) listReviews(cigarID string) error {
	reviews, err := s.reviews.List(cigarID)
	if err != nil {
		return err
	}
	if len(reviews) == 0 {
		fmt.Fprintln(s.out, "No reviews yet")
		return nil
	}
	for _, r := range reviews {
		rating := ""
		if r.Rating != nil {
			rating = fmt.Sprintf(" %d/5", *r.Rating)
		}
		fmt.Fprintf(s.out, "[%s] %s%s on %s (%d likes)\n  %s\n",
			r.ID, r.Author, rating, r.Date.Format("2006-01-02"), r.Likes, r.Comment)
	}
	return nil
}

func (s *shell) addReview(cigarID string) error {
	r, err := s.prompt.Review(cigarID)
	if err != nil {
		return err
	}
	if _, err := s.reviews.Add(r); err != nil {
		return err
	}
	fmt.Fprintln(s.out, "Review posted")
	return nil
}

func (s *shell) like(args []string) error {
	return withID(args, "like", func(id string) error {
		r, err := s.reviews.Like(id)
		if err != nil {
			return err
		}
		fmt.Fprintf(s.out, "%d likes\n", r.Likes)
		return nil
	})
}
