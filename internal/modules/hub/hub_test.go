package hub

import (
	"context"
	"encoding/json"
	"testing"

	"travelagency/internal/domain"
	"travelagency/internal/modules/booking"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

type MockSaver struct {
	mock.Mock
}

func (m *MockSaver) Save(ctx context.Context, in domain.Booking, opts booking.SaveOptions) (string, error) {
	args := m.Called(ctx, in, opts)
	return args.String(0), args.Error(1)
}

func newTestClient(origin string) *client {
	return &client{
		id:     "test-client",
		origin: origin,
		send:   make(chan []byte, 4),
	}
}

func TestHandleMessage_SaveFromTrustedOrigin(t *testing.T) {
	saver := new(MockSaver)
	saver.On("Save", mock.Anything, mock.Anything, booking.SaveOptions{Source: "hub"}).
		Return("BK-12345-ABCDE", nil)

	h := New("https://agency.example", saver)
	c := newTestClient("https://agency.example")

	msg, _ := json.Marshal(envelope{
		Type:    msgSaveBooking,
		Payload: domain.Booking{"tour": "Bali Escape", "customerName": "Dana"},
	})
	h.handleMessage(context.Background(), c, msg)

	saver.AssertExpectations(t)

	select {
	case raw := <-c.send:
		var ack saveAck
		assert.NoError(t, json.Unmarshal(raw, &ack))
		assert.Equal(t, msgSaveBookingOK, ack.Type)
		assert.Equal(t, "BK-12345-ABCDE", ack.BookingID)
	default:
		t.Fatal("expected an acknowledgement for the sender")
	}
}

func TestHandleMessage_MismatchedOriginIsDropped(t *testing.T) {
	saver := new(MockSaver)

	h := New("https://agency.example", saver)
	c := newTestClient("https://evil.example")

	msg, _ := json.Marshal(envelope{
		Type:    msgSaveBooking,
		Payload: domain.Booking{"tour": "Bali Escape"},
	})
	h.handleMessage(context.Background(), c, msg)

	saver.AssertNotCalled(t, "Save", mock.Anything, mock.Anything, mock.Anything)
	assert.Empty(t, c.send, "a dropped request must not produce a reply")
}

func TestHandleMessage_MalformedAndUnknownFramesIgnored(t *testing.T) {
	saver := new(MockSaver)

	h := New("https://agency.example", saver)
	c := newTestClient("https://agency.example")

	h.handleMessage(context.Background(), c, []byte("not json at all"))
	h.handleMessage(context.Background(), c, []byte(`{"type":"ping"}`))
	h.handleMessage(context.Background(), c, []byte(`{"type":"save-booking"}`))

	saver.AssertNotCalled(t, "Save", mock.Anything, mock.Anything, mock.Anything)
	assert.Empty(t, c.send)
}

func TestOnCollectionChanged_BroadcastsToAllClients(t *testing.T) {
	h := New("https://agency.example", new(MockSaver))

	a := newTestClient("https://agency.example")
	a.id = "a"
	b := newTestClient("https://other.example")
	b.id = "b"
	h.register(a)
	h.register(b)

	h.OnCollectionChanged("bookings")

	for _, c := range []*client{a, b} {
		select {
		case raw := <-c.send:
			var ev changeEvent
			assert.NoError(t, json.Unmarshal(raw, &ev))
			assert.Equal(t, msgCollectionChanged, ev.Type)
			assert.Equal(t, "bookings", ev.Collection)
		default:
			t.Fatalf("client %s did not receive the change event", c.id)
		}
	}
}
