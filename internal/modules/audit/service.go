package audit

import (
	"context"
	"encoding/json"
	"time"

	"travelagency/internal/domain"
	"travelagency/internal/ledger"
	"travelagency/internal/pkg/csvutil"
)

type Ledger interface {
	List(ctx context.Context, collection string, out any) error
	Update(ctx context.Context, collection string, apply func(raw []byte) (any, error)) error
}

type actorKey struct{}

// WithActor tags a context with the acting identity for audit entries.
func WithActor(ctx context.Context, actor string) context.Context {
	return context.WithValue(ctx, actorKey{}, actor)
}

// ActorFrom returns the tagged actor, defaulting to "admin" as the log
// always has.
func ActorFrom(ctx context.Context) string {
	if actor, ok := ctx.Value(actorKey{}).(string); ok && actor != "" {
		return actor
	}
	return "admin"
}

// Service appends to and reads the append-only audit log. Entries are never
// mutated or pruned.
type Service struct {
	ledger Ledger
	now    func() time.Time
}

func NewService(l Ledger) *Service {
	return &Service{ledger: l, now: time.Now}
}

func (s *Service) Record(ctx context.Context, action string, details any) error {
	entry := domain.AuditEntry{
		Time:    s.now().UTC().Format(time.RFC3339),
		Actor:   ActorFrom(ctx),
		Type:    action,
		Details: details,
	}

	return s.ledger.Update(ctx, ledger.AuditLog, func(raw []byte) (any, error) {
		var list []domain.AuditEntry
		if len(raw) > 0 {
			if err := json.Unmarshal(raw, &list); err != nil {
				return nil, err
			}
		}
		return append(list, entry), nil
	})
}

func (s *Service) List(ctx context.Context) ([]domain.AuditEntry, error) {
	var list []domain.AuditEntry
	if err := s.ledger.List(ctx, ledger.AuditLog, &list); err != nil {
		return nil, err
	}
	return list, nil
}

var exportHeader = []string{"time", "actor", "type", "details"}

// ExportCSV renders the full log as audit_log.csv. Non-string details are
// embedded as JSON.
func (s *Service) ExportCSV(ctx context.Context) ([]byte, error) {
	list, err := s.List(ctx)
	if err != nil {
		return nil, err
	}

	rows := make([][]string, 0, len(list))
	for _, e := range list {
		details, ok := e.Details.(string)
		if !ok && e.Details != nil {
			raw, err := json.Marshal(e.Details)
			if err != nil {
				return nil, err
			}
			details = string(raw)
		}
		rows = append(rows, []string{e.Time, e.Actor, e.Type, details})
	}
	return csvutil.Encode(exportHeader, rows), nil
}
