package models

import "time"

// AgingDays returns the whole days elapsed between added and smoked,
// floored at zero when the cigar was smoked before it was added.
func AgingDays(added, smoked time.Time) int {
	days := int(smoked.Sub(added).Hours() / 24)
	if days < 0 {
		return 0
	}
	return days
}
