package agent

import (
	"context"
	"encoding/json"
	"errors"
	"log"

	"travelagency/internal/domain"
	"travelagency/internal/ledger"
)

var ErrNameRequired = errors.New("agent name is required")

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

// Add registers an agent. The code is optional; bookings without a code are
// attributed by exact name match instead.
func (s *Service) Add(ctx context.Context, a domain.Agent) error {
	if a.Name == "" {
		return ErrNameRequired
	}

	err := s.ledger.Update(ctx, ledger.Agents, func(raw []byte) (any, error) {
		list, err := decodeAgents(raw)
		if err != nil {
			return nil, err
		}
		return append(list, a), nil
	})
	if err != nil {
		return err
	}

	s.recordAudit(ctx, "add_agent", map[string]any{"name": a.Name, "code": a.Code})
	return nil
}

// Delete removes the agent with the given code. Bookings keep their agent
// fields; only the roster entry goes away. An unknown code is a silent no-op.
func (s *Service) Delete(ctx context.Context, code string) (bool, error) {
	if code == "" {
		return false, nil
	}

	found := false
	err := s.ledger.Update(ctx, ledger.Agents, func(raw []byte) (any, error) {
		list, err := decodeAgents(raw)
		if err != nil {
			return nil, err
		}

		kept := list[:0]
		for _, a := range list {
			if a.Code == code {
				found = true
				continue
			}
			kept = append(kept, a)
		}
		if !found {
			return nil, nil
		}
		return kept, nil
	})
	if err != nil || !found {
		return found, err
	}

	s.recordAudit(ctx, "delete_agent", map[string]any{"code": code})
	return true, nil
}

// List returns the roster with derived performance figures. A booking is
// attributed to an agent when its agent code matches, or failing that when
// its agent name matches exactly. Revenue counts approved, non-refunded
// bookings only, mirroring dashboard revenue.
func (s *Service) List(ctx context.Context) ([]domain.AgentStats, error) {
	var agents []domain.Agent
	if err := s.ledger.List(ctx, ledger.Agents, &agents); err != nil {
		return nil, err
	}
	var bookings []domain.Booking
	if err := s.ledger.List(ctx, ledger.Bookings, &bookings); err != nil {
		return nil, err
	}

	stats := make([]domain.AgentStats, len(agents))
	for i, a := range agents {
		stats[i] = domain.AgentStats{Agent: a}
		for _, b := range bookings {
			if !attributed(b, a) {
				continue
			}
			stats[i].Bookings++
			if b.Approved() && !b.Refunded() {
				stats[i].Revenue += b.Amount()
			}
		}
	}
	return stats, nil
}

func attributed(b domain.Booking, a domain.Agent) bool {
	if a.Code != "" && b.AgentCode() == a.Code {
		return true
	}
	return b.AgentName() != "" && b.AgentName() == a.Name
}

func (s *Service) recordAudit(ctx context.Context, action string, details any) {
	if s.audit == nil {
		return
	}
	if err := s.audit.Record(ctx, action, details); err != nil {
		log.Printf("audit append failed action=%s err=%v", action, err)
	}
}

func decodeAgents(raw []byte) ([]domain.Agent, error) {
	if len(raw) == 0 {
		return nil, nil
	}
	var list []domain.Agent
	if err := json.Unmarshal(raw, &list); err != nil {
		return nil, err
	}
	return list, nil
}
