package domain

import (
	"strconv"
)

// Payment states carried on a booking record.
const (
	PaymentPaid    = "Paid"
	PaymentUnpaid  = "Unpaid"
	PaymentDeposit = "Deposit"
)

// StatusRefunded is the only value ever written to a booking's "status" key.
const StatusRefunded = "refunded"

// Computed status labels used by filters and exports.
const (
	StatusLabelApproved = "approved"
	StatusLabelPending  = "pending"
	StatusLabelRefunded = "refunded"
)

// Booking is an open record: callers send partially specified payloads with
// legacy key names (bookingID, tourName, name, guests, price) and arbitrary
// extra keys that must survive storage round-trips untouched. A closed struct
// cannot express that, so bookings stay map-shaped with typed accessors.
type Booking map[string]any

func (b Booking) Clone() Booking {
	out := make(Booking, len(b))
	for k, v := range b {
		out[k] = v
	}
	return out
}

// ID returns the booking identifier, falling back to the legacy key.
func (b Booking) ID() string {
	if s := b.str("bookingId"); s != "" {
		return s
	}
	return b.str("bookingID")
}

func (b Booking) Tour() string {
	if s := b.str("tour"); s != "" {
		return s
	}
	return b.str("tourName")
}

func (b Booking) CustomerName() string { return b.str("customerName") }
func (b Booking) Email() string        { return b.str("email") }
func (b Booking) Date() string         { return b.str("date") }
func (b Booking) Payment() string      { return b.str("payment") }

func (b Booking) Approved() bool {
	v, _ := b["approved"].(bool)
	return v
}

func (b Booking) Refunded() bool { return b.str("status") == StatusRefunded }

func (b Booking) Disputed() bool {
	v, _ := b["dispute"].(bool)
	return v
}

// AgentCode and AgentName are the two keys a booking may carry to reference a
// selling agent; stats are always derived from them, never stored.
func (b Booking) AgentCode() string { return b.str("agentCode") }
func (b Booking) AgentName() string { return b.str("agent") }

// StatusLabel categorizes a booking the way every derived view does:
// refunded wins over approved, everything else is pending.
func (b Booking) StatusLabel() string {
	if b.Refunded() {
		return StatusLabelRefunded
	}
	if b.Approved() {
		return StatusLabelApproved
	}
	return StatusLabelPending
}

// Amount returns the booking amount as a float, treating anything
// non-numeric as 0.
func (b Booking) Amount() float64 {
	return numeric(b["amount"])
}

// People returns the head count, 0 when absent or malformed.
func (b Booking) People() int {
	return int(numeric(b["people"]))
}

// Text renders any field as display text: strings as-is, numbers in decimal
// form, everything else empty. Exports rely on this.
func (b Booking) Text(key string) string { return b.str(key) }

func (b Booking) str(key string) string {
	switch v := b[key].(type) {
	case string:
		return v
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	default:
		return ""
	}
}

func numeric(v any) float64 {
	switch n := v.(type) {
	case float64:
		return n
	case int:
		return float64(n)
	case int64:
		return float64(n)
	case string:
		f, err := strconv.ParseFloat(n, 64)
		if err != nil {
			return 0
		}
		return f
	default:
		return 0
	}
}
