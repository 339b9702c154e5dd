package models

import "slices"

func clonePtr[T any](p *T) *T {
	if p == nil {
		return nil
	}
	v := *p
	return &v
}

// Clone returns a copy of c that shares no slices or pointers with it.
func (c Cigar) Clone() Cigar {
	c.Photo = clonePtr(c.Photo)
	c.Tags = slices.Clone(c.Tags)
	c.RingGauge = clonePtr(c.RingGauge)
	c.Factory = clonePtr(c.Factory)
	c.ReleaseYear = clonePtr(c.ReleaseYear)
	c.PurchaseLocation = clonePtr(c.PurchaseLocation)
	c.AgingStartDate = clonePtr(c.AgingStartDate)
	c.LowStockAlert = clonePtr(c.LowStockAlert)
	c.HumidorID = clonePtr(c.HumidorID)
	return c
}

// Clone returns a copy of n that shares no slices or pointers with it.
func (n TastingNote) Clone() TastingNote {
	n.StrengthRating = clonePtr(n.StrengthRating)
	n.AromaRating = clonePtr(n.AromaRating)
	n.BurnRating = clonePtr(n.BurnRating)
	n.DrawRating = clonePtr(n.DrawRating)
	n.Comment = clonePtr(n.Comment)
	n.TastingNotes = slices.Clone(n.TastingNotes)
	n.Photos = slices.Clone(n.Photos)
	return n
}

// Clone returns a copy of h that shares no pointers with it.
func (h Humidor) Clone() Humidor {
	h.Description = clonePtr(h.Description)
	h.Location = clonePtr(h.Location)
	h.Capacity = clonePtr(h.Capacity)
	h.Temperature = clonePtr(h.Temperature)
	h.Humidity = clonePtr(h.Humidity)
	return h
}
