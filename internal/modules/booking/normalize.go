package booking

import (
	"encoding/json"

	"travelagency/internal/domain"
)

// fieldAlias declares how one canonical key is resolved: the canonical value
// wins when present, then the legacy key, then the default. The table is the
// whole aliasing policy; there are no ad hoc conditionals elsewhere.
type fieldAlias struct {
	canonical string
	legacy    string
	def       any
	numeric   bool // nil-check resolution instead of emptiness (0 is kept)
}

var aliases = []fieldAlias{
	{canonical: "tour", legacy: "tourName", def: ""},
	{canonical: "customerName", legacy: "name", def: ""},
	{canonical: "email", def: ""},
	{canonical: "date", def: ""},
	{canonical: "people", legacy: "guests", numeric: true},
	{canonical: "amount", legacy: "price", numeric: true},
	{canonical: "payment", def: domain.PaymentUnpaid},
}

// Normalize produces a fully populated canonical record from a partially
// specified booking-like input. Legacy keys and unrecognized extras pass
// through untouched. newID supplies the identifier when the input carries
// neither bookingId nor bookingID; injecting it keeps the function pure.
func Normalize(in domain.Booking, newID func() string) domain.Booking {
	out := in.Clone()

	if empty(out["bookingId"]) {
		if legacy, _ := out["bookingID"].(string); legacy != "" {
			out["bookingId"] = legacy
		} else {
			out["bookingId"] = newID()
		}
	}

	for _, a := range aliases {
		if a.numeric {
			if out[a.canonical] == nil && a.legacy != "" && out[a.legacy] != nil {
				out[a.canonical] = out[a.legacy]
			}
			continue
		}
		if empty(out[a.canonical]) {
			if a.legacy != "" && !empty(out[a.legacy]) {
				out[a.canonical] = out[a.legacy]
			} else {
				out[a.canonical] = a.def
			}
		}
	}

	out["approved"] = truthy(out["approved"])
	return out
}

// empty mirrors JS falsiness for the first-non-empty resolution rule.
func empty(v any) bool {
	switch t := v.(type) {
	case nil:
		return true
	case string:
		return t == ""
	case bool:
		return !t
	case float64:
		return t == 0
	case int:
		return t == 0
	default:
		return false
	}
}

func truthy(v any) bool { return !empty(v) }

func decodeBookings(raw []byte) ([]domain.Booking, error) {
	if len(raw) == 0 {
		return nil, nil
	}
	var list []domain.Booking
	if err := json.Unmarshal(raw, &list); err != nil {
		return nil, err
	}
	return list, nil
}

func indexByID(list []domain.Booking, id string) int {
	for i, b := range list {
		if b.ID() == id {
			return i
		}
	}
	return -1
}
