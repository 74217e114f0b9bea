package domain

// Typed records for the collections whose shape never varied in practice.
// JSON tags are the storage contract and must stay stable.

// Document is a compliance artifact attached to a customer by email. There is
// no uniqueness constraint; expiry within 30 days drives an alert.
type Document struct {
	CustomerEmail string `json:"customerEmail"`
	Type          string `json:"type"`
	Number        string `json:"number"`
	ExpiryDate    string `json:"expiryDate"`
	Notes         string `json:"notes"`
}

// Promotion types.
const (
	PromoPercent = "percent"
	PromoAmount  = "amount"
)

// Promotion is keyed by its case-sensitive code. The Used counter survives
// edits: an upsert for an existing code carries the stored counter forward.
type Promotion struct {
	Code        string  `json:"code"`
	Description string  `json:"description"`
	Type        string  `json:"type"`
	Value       float64 `json:"value"`
	StartDate   string  `json:"startDate"`
	EndDate     string  `json:"endDate"`
	UsageLimit  int     `json:"usageLimit"`
	Used        int     `json:"used"`
}

// Agent carries no stored aggregates; booking count and revenue are always
// recomputed by joining against the booking collection.
type Agent struct {
	Name          string  `json:"name"`
	Code          string  `json:"code"`
	CommissionPct float64 `json:"commissionPct"`
}

// AgentStats is an Agent with its derived performance figures.
type AgentStats struct {
	Agent
	Bookings int     `json:"bookings"`
	Revenue  float64 `json:"revenue"`
}

// AuditEntry is one line of the append-only audit log. Time is kept as the
// RFC 3339 string it is stored as.
type AuditEntry struct {
	Time    string `json:"time"`
	Actor   string `json:"actor"`
	Type    string `json:"type"`
	Details any    `json:"details"`
}

// User is a registered customer account in the userLogins collection.
// Password holds a bcrypt hash; the key name predates hashing and is kept for
// storage compatibility.
type User struct {
	Name          string `json:"name"`
	Email         string `json:"email"`
	ContactNumber string `json:"contactNumber"`
	Password      string `json:"password"`
}

// CurrentUser is the single-object record written on login.
type CurrentUser struct {
	Name          string `json:"name"`
	Email         string `json:"email"`
	ContactNumber string `json:"contactNumber"`
}

// CustomerProfile is the single-object profile record the portal edits.
type CustomerProfile struct {
	Name          string `json:"name"`
	Email         string `json:"email"`
	ContactNumber string `json:"contactNumber"`
	Address       string `json:"address"`
}
