package document

import (
	"context"
	"encoding/json"
	"errors"
	"log"

	"travelagency/internal/domain"
	"travelagency/internal/ledger"
)

var ErrValidation = errors.New("customer email and document type are required")

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

// Add appends a document to the vault. Duplicates are allowed; a customer can
// hold several documents of the same type.
func (s *Service) Add(ctx context.Context, d domain.Document) error {
	if d.CustomerEmail == "" || d.Type == "" {
		return ErrValidation
	}

	err := s.ledger.Update(ctx, ledger.Documents, func(raw []byte) (any, error) {
		list, err := decodeDocuments(raw)
		if err != nil {
			return nil, err
		}
		return append(list, d), nil
	})
	if err != nil {
		return err
	}

	s.recordAudit(ctx, "add_document", map[string]any{
		"customerEmail": d.CustomerEmail,
		"type":          d.Type,
	})
	return nil
}

// Delete removes the document at the given position in stored order. An
// out-of-range index is a silent no-op.
func (s *Service) Delete(ctx context.Context, index int) (bool, error) {
	if index < 0 {
		return false, nil
	}

	var removed domain.Document
	found := false
	err := s.ledger.Update(ctx, ledger.Documents, func(raw []byte) (any, error) {
		list, err := decodeDocuments(raw)
		if err != nil {
			return nil, err
		}
		if index >= len(list) {
			return nil, nil
		}

		removed = list[index]
		found = true
		return append(list[:index], list[index+1:]...), nil
	})
	if err != nil || !found {
		return found, err
	}

	s.recordAudit(ctx, "delete_document", map[string]any{
		"customerEmail": removed.CustomerEmail,
		"type":          removed.Type,
	})
	return true, nil
}

func (s *Service) List(ctx context.Context) ([]domain.Document, error) {
	var list []domain.Document
	if err := s.ledger.List(ctx, ledger.Documents, &list); err != nil {
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

func decodeDocuments(raw []byte) ([]domain.Document, error) {
	if len(raw) == 0 {
		return nil, nil
	}
	var list []domain.Document
	if err := json.Unmarshal(raw, &list); err != nil {
		return nil, err
	}
	return list, nil
}
