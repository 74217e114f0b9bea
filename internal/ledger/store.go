package ledger

import "context"

// Collection keys. These names are a de facto schema contract shared with any
// other reader of the same database; do not rename.
const (
	Bookings        = "bookings"
	UserLogins      = "userLogins"
	Users           = "users"
	Documents       = "documents"
	Promotions      = "promotions"
	Agents          = "agents"
	AuditLog        = "auditLog"
	CurrentUser     = "currentUser"
	CustomerProfile = "customerProfile"
)

// Store persists one JSON blob per collection key. Get returns (nil, nil)
// for a key that has never been written.
type Store interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, data []byte) error
}

// Publisher receives the name of a collection after every successful write.
type Publisher interface {
	Publish(collection string)
}
