package booking

import (
	"context"
	"log"
	"time"

	"travelagency/internal/domain"
	"travelagency/internal/ledger"
	"travelagency/internal/pkg/bookingid"
)

type Service struct {
	ledger Ledger
	audit  AuditRecorder
	newID  func() string
	now    func() time.Time
}

func NewService(l Ledger, audit AuditRecorder) *Service {
	return &Service{
		ledger: l,
		audit:  audit,
		newID:  bookingid.Next,
		now:    time.Now,
	}
}

// SaveOptions control the duplicate-id policy and the audit source tag.
type SaveOptions struct {
	OverwriteIfSameID bool
	Source            string
}

// Save normalizes and upserts a raw booking record, returning the identifier
// the record was stored under. When the identifier already exists and
// OverwriteIfSameID is false, the requested identifier is discarded and a
// fresh one assigned; callers must use the returned id, not the one they sent.
func (s *Service) Save(ctx context.Context, in domain.Booking, opts SaveOptions) (string, error) {
	if len(in) == 0 {
		return "", ErrValidation
	}

	rec := Normalize(in, s.newID)
	id := rec.ID()

	err := s.ledger.Update(ctx, ledger.Bookings, func(raw []byte) (any, error) {
		list, err := decodeBookings(raw)
		if err != nil {
			return nil, err
		}

		idx := indexByID(list, id)
		switch {
		case idx < 0:
			list = append(list, rec)
		case opts.OverwriteIfSameID:
			merged := list[idx].Clone()
			for k, v := range rec {
				merged[k] = v
			}
			list[idx] = merged
		default:
			rec = rec.Clone()
			id = s.newID()
			rec["bookingId"] = id
			list = append(list, rec)
		}
		return list, nil
	})
	if err != nil {
		return "", err
	}

	s.recordAudit(ctx, "create_booking", map[string]any{"bookingId": id, "source": source(opts)})
	return id, nil
}

// Create is the validated entry point used by the public booking form. The
// hub and programmatic callers go through Save directly, which accepts any
// booking-like payload.
func (s *Service) Create(ctx context.Context, in domain.Booking, opts SaveOptions) (string, error) {
	rec := Normalize(in, s.newID)
	if rec.Tour() == "" || rec.CustomerName() == "" || rec.Email() == "" || rec.Date() == "" || rec.People() <= 0 {
		return "", ErrValidation
	}
	return s.Save(ctx, rec, opts)
}

// Approve marks a booking approved. A missing identifier is a silent no-op:
// the stored collection is left untouched and nothing is logged.
func (s *Service) Approve(ctx context.Context, id string) (bool, error) {
	stamp := s.now().UTC().Format(time.RFC3339)
	return s.mutate(ctx, id, "approve_booking", func(b domain.Booking) {
		b["approved"] = true
		b["approvedAt"] = stamp
	})
}

// Refund marks a booking refunded, same no-op rule as Approve.
func (s *Service) Refund(ctx context.Context, id string) (bool, error) {
	stamp := s.now().UTC().Format(time.RFC3339)
	return s.mutate(ctx, id, "refund_booking", func(b domain.Booking) {
		b["status"] = domain.StatusRefunded
		b["refundedAt"] = stamp
	})
}

// Delete removes a booking outright. Deletion is destructive; there is no
// archive.
func (s *Service) Delete(ctx context.Context, id string) (bool, error) {
	if id == "" {
		return false, nil
	}

	found := false
	err := s.ledger.Update(ctx, ledger.Bookings, func(raw []byte) (any, error) {
		list, err := decodeBookings(raw)
		if err != nil {
			return nil, err
		}

		kept := list[:0]
		for _, b := range list {
			if b.ID() == id {
				found = true
				continue
			}
			kept = append(kept, b)
		}
		if !found {
			return nil, nil
		}
		return kept, nil
	})
	if err != nil || !found {
		return found, err
	}

	s.recordAudit(ctx, "delete_booking", map[string]any{"bookingId": id})
	return true, nil
}

// List returns the bookings passing the filter, in stored order.
func (s *Service) List(ctx context.Context, f Filter) ([]domain.Booking, error) {
	var list []domain.Booking
	if err := s.ledger.List(ctx, ledger.Bookings, &list); err != nil {
		return nil, err
	}

	out := make([]domain.Booking, 0, len(list))
	for _, b := range list {
		if f.Matches(b) {
			out = append(out, b)
		}
	}
	return out, nil
}

func (s *Service) mutate(ctx context.Context, id, action string, apply func(domain.Booking)) (bool, error) {
	if id == "" {
		return false, nil
	}

	found := false
	err := s.ledger.Update(ctx, ledger.Bookings, func(raw []byte) (any, error) {
		list, err := decodeBookings(raw)
		if err != nil {
			return nil, err
		}

		for i := range list {
			if list[i].ID() == id {
				apply(list[i])
				found = true
			}
		}
		if !found {
			return nil, nil
		}
		return list, nil
	})
	if err != nil || !found {
		return found, err
	}

	s.recordAudit(ctx, action, map[string]any{"bookingId": id})
	return true, nil
}

func (s *Service) recordAudit(ctx context.Context, action string, details any) {
	if s.audit == nil {
		return
	}
	// The collection write already succeeded; a failed audit append must not
	// unwind it.
	if err := s.audit.Record(ctx, action, details); err != nil {
		log.Printf("audit append failed action=%s err=%v", action, err)
	}
}

func source(opts SaveOptions) string {
	if opts.Source == "" {
		return "api"
	}
	return opts.Source
}
