package hub

import "travelagency/internal/domain"

// Wire message types exchanged with connected contexts.
const (
	msgSaveBooking       = "save-booking"
	msgSaveBookingOK     = "save-booking:ok"
	msgCollectionChanged = "collection-changed"
)

type envelope struct {
	Type    string         `json:"type"`
	Payload domain.Booking `json:"payload"`
}

type saveAck struct {
	Type      string `json:"type"`
	BookingID string `json:"bookingId"`
}

type changeEvent struct {
	Type       string `json:"type"`
	Collection string `json:"collection"`
}
