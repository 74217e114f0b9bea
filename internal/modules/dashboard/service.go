package dashboard

import (
	"context"
	"fmt"
	"log"
	"time"

	"travelagency/internal/domain"
	"travelagency/internal/ledger"
	"travelagency/internal/pkg/metrics"
)

type Ledger interface {
	List(ctx context.Context, collection string, out any) error
}

// KPIs are recomputed from the full booking collection on demand, never
// maintained incrementally.
type KPIs struct {
	Total    int     `json:"total"`
	Approved int     `json:"approved"`
	Pending  int     `json:"pending"`
	Refunded int     `json:"refunded"`
	Revenue  float64 `json:"revenue"`
	AvgOrder float64 `json:"avgOrder"`
}

// Notifications is the quick pending/refunded summary.
type Notifications struct {
	Pending  int `json:"pending"`
	Refunded int `json:"refunded"`
}

const (
	departureWindow = 3 * 24 * time.Hour
	expiryWindow    = 30 * 24 * time.Hour
)

type Service struct {
	ledger Ledger
	now    func() time.Time
}

func NewService(l Ledger) *Service {
	return &Service{ledger: l, now: time.Now}
}

// ComputeKPIs categorizes bookings: refunded wins over approved; pending is
// every unapproved booking regardless of refund status, so a refunded but
// never approved booking counts in both pending and refunded. That quirk is
// load-bearing for existing dashboards and is kept as-is.
func ComputeKPIs(list []domain.Booking) KPIs {
	k := KPIs{Total: len(list)}
	for _, b := range list {
		if b.Refunded() {
			k.Refunded++
		}
		if !b.Approved() {
			k.Pending++
			continue
		}
		if !b.Refunded() {
			k.Approved++
			k.Revenue += b.Amount()
		}
	}
	if k.Approved > 0 {
		k.AvgOrder = k.Revenue / float64(k.Approved)
	}
	return k
}

func (s *Service) KPIs(ctx context.Context) (KPIs, error) {
	var list []domain.Booking
	if err := s.ledger.List(ctx, ledger.Bookings, &list); err != nil {
		return KPIs{}, err
	}
	return ComputeKPIs(list), nil
}

// Alerts returns one human-readable line per non-zero category. An empty
// slice means the "no alerts" state.
func (s *Service) Alerts(ctx context.Context) ([]string, error) {
	var bookings []domain.Booking
	if err := s.ledger.List(ctx, ledger.Bookings, &bookings); err != nil {
		return nil, err
	}
	var docs []domain.Document
	if err := s.ledger.List(ctx, ledger.Documents, &docs); err != nil {
		return nil, err
	}

	now := s.now()
	var pending, disputes, upcoming int
	for _, b := range bookings {
		if !b.Approved() {
			pending++
		}
		if b.Disputed() {
			disputes++
		}
		if within(b.Date(), now, departureWindow, false) {
			upcoming++
		}
	}

	expiring := 0
	for _, d := range docs {
		if within(d.ExpiryDate, now, expiryWindow, true) {
			expiring++
		}
	}

	var items []string
	if pending > 0 {
		items = append(items, fmt.Sprintf("Pending approvals: %d", pending))
	}
	if disputes > 0 {
		items = append(items, fmt.Sprintf("Payment disputes: %d", disputes))
	}
	if upcoming > 0 {
		items = append(items, fmt.Sprintf("Departures in 3 days: %d", upcoming))
	}
	if expiring > 0 {
		items = append(items, fmt.Sprintf("Docs expiring < 30 days: %d", expiring))
	}
	return items, nil
}

func (s *Service) Notifications(ctx context.Context) (Notifications, error) {
	var list []domain.Booking
	if err := s.ledger.List(ctx, ledger.Bookings, &list); err != nil {
		return Notifications{}, err
	}

	var n Notifications
	for _, b := range list {
		if !b.Approved() {
			n.Pending++
		}
		if b.Refunded() {
			n.Refunded++
		}
	}
	return n, nil
}

// OnCollectionChanged re-derives the exported gauges whenever the booking
// collection is written. It subscribes to the change bus in main.
func (s *Service) OnCollectionChanged(collection string) {
	if collection != ledger.Bookings {
		return
	}
	k, err := s.KPIs(context.Background())
	if err != nil {
		log.Printf("kpi refresh failed: %v", err)
		return
	}
	metrics.BookingsTotal.Set(float64(k.Total))
	metrics.Revenue.Set(k.Revenue)
}

// within reports whether the date falls between now and now+window. The
// departure check excludes the window boundary; the document-expiry check
// includes it. Dates in the past never alert; unparseable dates are ignored.
func within(date string, now time.Time, window time.Duration, inclusive bool) bool {
	if date == "" {
		return false
	}
	t, ok := parseDate(date)
	if !ok || t.Before(now) {
		return false
	}
	if inclusive {
		return t.Sub(now) <= window
	}
	return t.Sub(now) < window
}

var dateLayouts = []string{"2006-01-02", time.RFC3339}

func parseDate(s string) (time.Time, bool) {
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}
