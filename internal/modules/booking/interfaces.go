package booking

import "context"

// Ledger is the slice of the collection ledger this module needs.
type Ledger interface {
	List(ctx context.Context, collection string, out any) error
	Update(ctx context.Context, collection string, apply func(raw []byte) (any, error)) error
}

// AuditRecorder appends one entry to the audit log.
type AuditRecorder interface {
	Record(ctx context.Context, action string, details any) error
}
