package booking

import (
	"strings"
	"time"

	"travelagency/internal/domain"
)

// Filter narrows a booking list for display and export. Zero values (and the
// literal "all") leave a criterion unset; a booking passes only when every
// supplied criterion matches.
type Filter struct {
	Query   string // case-insensitive substring over tour, customer, email, id
	Status  string // approved | pending | refunded, per StatusLabel
	Payment string // exact match
	From    string // inclusive calendar date bounds
	To      string
}

func (f Filter) Matches(b domain.Booking) bool {
	if f.Query != "" {
		hay := strings.ToLower(strings.Join([]string{
			b.Tour(), b.CustomerName(), b.Email(), b.ID(),
		}, " "))
		if !strings.Contains(hay, strings.ToLower(f.Query)) {
			return false
		}
	}

	if f.Status != "" && f.Status != "all" && b.StatusLabel() != f.Status {
		return false
	}

	if f.Payment != "" && f.Payment != "all" && b.Payment() != f.Payment {
		return false
	}

	if f.From != "" {
		if b.Date() == "" {
			return false
		}
		if d, ok := parseDate(b.Date()); ok {
			if from, ok := parseDate(f.From); ok && d.Before(from) {
				return false
			}
		}
	}
	if f.To != "" {
		if b.Date() == "" {
			return false
		}
		if d, ok := parseDate(b.Date()); ok {
			if to, ok := parseDate(f.To); ok && d.After(to) {
				return false
			}
		}
	}
	return true
}

var dateLayouts = []string{"2006-01-02", time.RFC3339}

// parseDate accepts the calendar-date and timestamp forms seen in stored
// records. Unparseable dates pass range checks, matching the lenient
// comparisons the stored data grew up with.
func parseDate(s string) (time.Time, bool) {
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}
