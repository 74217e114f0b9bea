package promotion

import (
	"context"
	"encoding/json"
	"errors"
	"log"

	"travelagency/internal/domain"
	"travelagency/internal/ledger"
)

var ErrCodeRequired = errors.New("promotion code is required")

// Ledger is the slice of the collection ledger this module needs.
type Ledger interface {
	List(ctx context.Context, collection string, out any) error
	Update(ctx context.Context, collection string, apply func(raw []byte) (any, error)) error
}

type AuditRecorder interface {
	Record(ctx context.Context, action string, details any) error
}

type Service struct {
	ledger Ledger
	audit  AuditRecorder
}

func NewService(l Ledger, audit AuditRecorder) *Service {
	return &Service{ledger: l, audit: audit}
}

// Upsert stores the promotion keyed by its code. Codes are matched
// case-sensitively. The redemption counter belongs to the ledger: an
// incoming Used value is discarded and the stored count carried over.
func (s *Service) Upsert(ctx context.Context, p domain.Promotion) error {
	if p.Code == "" {
		return ErrCodeRequired
	}

	err := s.ledger.Update(ctx, ledger.Promotions, func(raw []byte) (any, error) {
		list, err := decodePromotions(raw)
		if err != nil {
			return nil, err
		}

		p.Used = 0
		for i := range list {
			if list[i].Code == p.Code {
				p.Used = list[i].Used
				list[i] = p
				return list, nil
			}
		}
		return append(list, p), nil
	})
	if err != nil {
		return err
	}

	s.recordAudit(ctx, "upsert_promotion", map[string]any{"code": p.Code})
	return nil
}

// Delete removes the promotion with the given code. An unknown code is a
// silent no-op.
func (s *Service) Delete(ctx context.Context, code string) (bool, error) {
	if code == "" {
		return false, nil
	}

	found := false
	err := s.ledger.Update(ctx, ledger.Promotions, func(raw []byte) (any, error) {
		list, err := decodePromotions(raw)
		if err != nil {
			return nil, err
		}

		kept := list[:0]
		for _, p := range list {
			if p.Code == code {
				found = true
				continue
			}
			kept = append(kept, p)
		}
		if !found {
			return nil, nil
		}
		return kept, nil
	})
	if err != nil || !found {
		return found, err
	}

	s.recordAudit(ctx, "delete_promotion", map[string]any{"code": code})
	return true, nil
}

func (s *Service) List(ctx context.Context) ([]domain.Promotion, error) {
	var list []domain.Promotion
	if err := s.ledger.List(ctx, ledger.Promotions, &list); err != nil {
		return nil, err
	}
	return list, nil
}

func (s *Service) recordAudit(ctx context.Context, action string, details any) {
	if s.audit == nil {
		return
	}
	if err := s.audit.Record(ctx, action, details); err != nil {
		log.Printf("audit append failed action=%s err=%v", action, err)
	}
}

func decodePromotions(raw []byte) ([]domain.Promotion, error) {
	if len(raw) == 0 {
		return nil, nil
	}
	var list []domain.Promotion
	if err := json.Unmarshal(raw, &list); err != nil {
		return nil, err
	}
	return list, nil
}
