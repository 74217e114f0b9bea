package dashboard

import (
	"context"
	"testing"
	"time"

	"travelagency/internal/domain"
	"travelagency/internal/ledger"

	"github.com/stretchr/testify/assert"
)

func TestComputeKPIs(t *testing.T) {
	list := []domain.Booking{
		{"approved": true, "amount": 100.0},
		{"approved": false, "amount": 50.0},
		{"approved": true, "status": "refunded", "amount": 70.0},
	}

	k := ComputeKPIs(list)
	assert.Equal(t, 3, k.Total)
	assert.Equal(t, 1, k.Approved)
	assert.Equal(t, 1, k.Pending)
	assert.Equal(t, 1, k.Refunded)
	assert.Equal(t, 100.0, k.Revenue)
	assert.Equal(t, 100.0, k.AvgOrder)
}

func TestComputeKPIs_RefundedButNeverApprovedCountsAsPendingToo(t *testing.T) {
	list := []domain.Booking{
		{"approved": false, "status": "refunded", "amount": 80.0},
	}

	k := ComputeKPIs(list)
	assert.Equal(t, 1, k.Pending)
	assert.Equal(t, 1, k.Refunded)
	assert.Equal(t, 0, k.Approved)
	assert.Equal(t, 0.0, k.Revenue)
}

func TestComputeKPIs_Empty(t *testing.T) {
	k := ComputeKPIs(nil)
	assert.Equal(t, KPIs{}, k)
}

func newTestService(t *testing.T, bookings []domain.Booking, docs []domain.Document) *Service {
	t.Helper()
	l := ledger.New(ledger.NewMemStore(), nil)
	ctx := context.Background()
	if bookings != nil {
		assert.NoError(t, l.Replace(ctx, ledger.Bookings, bookings))
	}
	if docs != nil {
		assert.NoError(t, l.Replace(ctx, ledger.Documents, docs))
	}

	svc := NewService(l)
	svc.now = func() time.Time {
		return time.Date(2026, 8, 30, 9, 0, 0, 0, time.UTC)
	}
	return svc
}

func TestAlerts_BuildsOneLinePerCategory(t *testing.T) {
	svc := newTestService(t,
		[]domain.Booking{
			{"approved": false},
			{"approved": false},
			{"approved": true, "dispute": true},
			{"approved": true, "date": "2026-09-01"},
		},
		[]domain.Document{
			{CustomerEmail: "dana@example.com", Type: "passport", ExpiryDate: "2026-09-20"},
			{CustomerEmail: "ravi@example.com", Type: "visa", ExpiryDate: "2027-03-01"},
		},
	)

	items, err := svc.Alerts(context.Background())
	assert.NoError(t, err)
	assert.Equal(t, []string{
		"Pending approvals: 2",
		"Payment disputes: 1",
		"Departures in 3 days: 1",
		"Docs expiring < 30 days: 1",
	}, items)
}

func TestAlerts_EmptyWhenNothingTriggers(t *testing.T) {
	svc := newTestService(t,
		[]domain.Booking{{"approved": true, "date": "2027-01-01"}},
		nil,
	)

	items, err := svc.Alerts(context.Background())
	assert.NoError(t, err)
	assert.Empty(t, items)
}

func TestAlerts_PastDeparturesDoNotAlert(t *testing.T) {
	svc := newTestService(t,
		[]domain.Booking{{"approved": true, "date": "2026-08-29"}},
		nil,
	)

	items, err := svc.Alerts(context.Background())
	assert.NoError(t, err)
	assert.Empty(t, items)
}

func TestAlerts_WindowBoundaries(t *testing.T) {
	// Exactly 3 days out is past the departure window, but exactly 30 days
	// out is still inside the expiry window.
	svc := newTestService(t,
		[]domain.Booking{{"approved": true, "date": "2026-09-02"}},
		[]domain.Document{{CustomerEmail: "dana@example.com", Type: "passport", ExpiryDate: "2026-09-29"}},
	)
	svc.now = func() time.Time {
		return time.Date(2026, 8, 30, 0, 0, 0, 0, time.UTC)
	}

	items, err := svc.Alerts(context.Background())
	assert.NoError(t, err)
	assert.Equal(t, []string{"Docs expiring < 30 days: 1"}, items)
}

func TestNotifications(t *testing.T) {
	svc := newTestService(t,
		[]domain.Booking{
			{"approved": false},
			{"approved": true, "status": "refunded"},
			{"approved": false, "status": "refunded"},
		},
		nil,
	)

	n, err := svc.Notifications(context.Background())
	assert.NoError(t, err)
	assert.Equal(t, 2, n.Pending)
	assert.Equal(t, 2, n.Refunded)
}
