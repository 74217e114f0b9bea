package booking

import (
	"context"
	"testing"
	"time"

	"travelagency/internal/domain"
	"travelagency/internal/ledger"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

type MockAudit struct {
	mock.Mock
}

func (m *MockAudit) Record(ctx context.Context, action string, details any) error {
	args := m.Called(ctx, action, details)
	return args.Error(0)
}

func newTestService() (*Service, *ledger.MemStore, *MockAudit) {
	audit := new(MockAudit)
	audit.On("Record", mock.Anything, mock.Anything, mock.Anything).Return(nil).Maybe()

	store := ledger.NewMemStore()
	svc := NewService(ledger.New(store, nil), audit)

	ids := []string{"BK-00001-AAAAA", "BK-00002-BBBBB", "BK-00003-CCCCC"}
	n := 0
	svc.newID = func() string {
		id := ids[n%len(ids)]
		n++
		return id
	}
	svc.now = func() time.Time {
		return time.Date(2026, 8, 30, 12, 0, 0, 0, time.UTC)
	}
	return svc, store, audit
}

func stored(t *testing.T, svc *Service) []domain.Booking {
	t.Helper()
	list, err := svc.List(context.Background(), Filter{})
	assert.NoError(t, err)
	return list
}

func TestSave_AppendsNewRecord(t *testing.T) {
	svc, _, audit := newTestService()
	ctx := context.Background()

	id, err := svc.Save(ctx, domain.Booking{"tour": "Bali Escape"}, SaveOptions{})
	assert.NoError(t, err)
	assert.Equal(t, "BK-00001-AAAAA", id)

	list := stored(t, svc)
	assert.Len(t, list, 1)
	assert.Equal(t, "Bali Escape", list[0].Tour())

	audit.AssertCalled(t, "Record", mock.Anything, "create_booking",
		map[string]any{"bookingId": "BK-00001-AAAAA", "source": "api"})
}

func TestSave_OverwriteMergesFieldWise(t *testing.T) {
	svc, _, _ := newTestService()
	ctx := context.Background()

	id, err := svc.Save(ctx, domain.Booking{
		"bookingId": "BK-77777-XXXXX",
		"tour":      "Bali Escape",
		"notes":     "window seat",
	}, SaveOptions{})
	assert.NoError(t, err)

	same, err := svc.Save(ctx, domain.Booking{
		"bookingId": id,
		"tour":      "Bali Escape Deluxe",
	}, SaveOptions{OverwriteIfSameID: true})
	assert.NoError(t, err)
	assert.Equal(t, id, same)

	list := stored(t, svc)
	assert.Len(t, list, 1)
	assert.Equal(t, "Bali Escape Deluxe", list[0].Tour())
	// Fields absent from the update survive the merge.
	assert.Equal(t, "window seat", list[0]["notes"])
}

func TestSave_DuplicateIDGetsFreshIdentifier(t *testing.T) {
	svc, _, _ := newTestService()
	ctx := context.Background()

	id, err := svc.Save(ctx, domain.Booking{"bookingId": "BK-77777-XXXXX", "tour": "Bali Escape"}, SaveOptions{})
	assert.NoError(t, err)
	assert.Equal(t, "BK-77777-XXXXX", id)

	newID, err := svc.Save(ctx, domain.Booking{"bookingId": "BK-77777-XXXXX", "tour": "Second Try"}, SaveOptions{})
	assert.NoError(t, err)
	assert.NotEqual(t, id, newID)

	list := stored(t, svc)
	assert.Len(t, list, 2)
	assert.Equal(t, "Bali Escape", list[0].Tour())
	assert.Equal(t, "Second Try", list[1].Tour())
	assert.Equal(t, newID, list[1].ID())
}

func TestCreate_ValidatesRequiredFields(t *testing.T) {
	svc, _, _ := newTestService()
	ctx := context.Background()

	_, err := svc.Create(ctx, domain.Booking{"tour": "Bali Escape"}, SaveOptions{Source: "form"})
	assert.ErrorIs(t, err, ErrValidation)

	_, err = svc.Create(ctx, domain.Booking{
		"tour": "Bali Escape", "customerName": "Dana", "email": "dana@example.com",
		"date": "2026-09-15", "people": 0,
	}, SaveOptions{Source: "form"})
	assert.ErrorIs(t, err, ErrValidation)

	id, err := svc.Create(ctx, domain.Booking{
		"tour": "Bali Escape", "customerName": "Dana", "email": "dana@example.com",
		"date": "2026-09-15", "people": 2,
	}, SaveOptions{Source: "form"})
	assert.NoError(t, err)
	assert.NotEmpty(t, id)
}

func TestApprove_StampsTimestamp(t *testing.T) {
	svc, _, audit := newTestService()
	ctx := context.Background()

	id, err := svc.Save(ctx, domain.Booking{"tour": "Bali Escape"}, SaveOptions{})
	assert.NoError(t, err)

	updated, err := svc.Approve(ctx, id)
	assert.NoError(t, err)
	assert.True(t, updated)

	list := stored(t, svc)
	assert.Equal(t, true, list[0]["approved"])
	assert.Equal(t, "2026-08-30T12:00:00Z", list[0]["approvedAt"])

	audit.AssertCalled(t, "Record", mock.Anything, "approve_booking", map[string]any{"bookingId": id})
}

func TestRefund_SetsStatusAndTimestamp(t *testing.T) {
	svc, _, _ := newTestService()
	ctx := context.Background()

	id, err := svc.Save(ctx, domain.Booking{"tour": "Bali Escape"}, SaveOptions{})
	assert.NoError(t, err)

	updated, err := svc.Refund(ctx, id)
	assert.NoError(t, err)
	assert.True(t, updated)

	list := stored(t, svc)
	assert.Equal(t, domain.StatusRefunded, list[0]["status"])
	assert.Equal(t, "2026-08-30T12:00:00Z", list[0]["refundedAt"])
	assert.Equal(t, domain.StatusLabelRefunded, list[0].StatusLabel())
}

func TestDelete_RemovesRecord(t *testing.T) {
	svc, _, audit := newTestService()
	ctx := context.Background()

	id, err := svc.Save(ctx, domain.Booking{"tour": "Bali Escape"}, SaveOptions{})
	assert.NoError(t, err)

	deleted, err := svc.Delete(ctx, id)
	assert.NoError(t, err)
	assert.True(t, deleted)
	assert.Empty(t, stored(t, svc))

	audit.AssertCalled(t, "Record", mock.Anything, "delete_booking", map[string]any{"bookingId": id})
}

func TestDelete_MissingIDLeavesStoredBytesUntouched(t *testing.T) {
	svc, store, audit := newTestService()
	ctx := context.Background()

	_, err := svc.Save(ctx, domain.Booking{"tour": "Bali Escape"}, SaveOptions{})
	assert.NoError(t, err)

	before, err := store.Get(ctx, ledger.Bookings)
	assert.NoError(t, err)

	deleted, err := svc.Delete(ctx, "BK-99999-ZZZZZ")
	assert.NoError(t, err)
	assert.False(t, deleted)

	after, err := store.Get(ctx, ledger.Bookings)
	assert.NoError(t, err)
	assert.Equal(t, before, after, "a no-op delete must not rewrite the collection")

	audit.AssertNotCalled(t, "Record", mock.Anything, "delete_booking", mock.Anything)
}

func TestApprove_MissingIDIsSilentNoOp(t *testing.T) {
	svc, store, audit := newTestService()
	ctx := context.Background()

	_, err := svc.Save(ctx, domain.Booking{"tour": "Bali Escape"}, SaveOptions{})
	assert.NoError(t, err)

	before, _ := store.Get(ctx, ledger.Bookings)

	updated, err := svc.Approve(ctx, "BK-99999-ZZZZZ")
	assert.NoError(t, err)
	assert.False(t, updated)

	after, _ := store.Get(ctx, ledger.Bookings)
	assert.Equal(t, before, after)

	audit.AssertNotCalled(t, "Record", mock.Anything, "approve_booking", mock.Anything)
}

func TestExportCSV_QuotesEveryDataField(t *testing.T) {
	svc, _, _ := newTestService()
	ctx := context.Background()

	_, err := svc.Save(ctx, domain.Booking{
		"bookingId": "BK-00009-EEEEE",
		"tour":      `Tour "Deluxe"`,
		"customerName": "Dana", "email": "dana@example.com",
		"date": "2026-09-15", "people": 2, "amount": 2400,
		"payment": domain.PaymentPaid, "approved": true,
	}, SaveOptions{})
	assert.NoError(t, err)

	data, err := svc.ExportCSV(ctx, Filter{})
	assert.NoError(t, err)

	out := string(data)
	assert.Contains(t, out, "Tour,Customer,Email,Date,People,Amount,Payment,BookingID,Status\n")
	assert.Contains(t, out, `"Tour ""Deluxe""","Dana","dana@example.com","2026-09-15","2","2400","Paid","BK-00009-EEEEE","approved"`)
}
