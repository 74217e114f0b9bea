package bookingid

import (
	"fmt"
	"math/rand"
	"strings"
	"sync"
	"time"
)

const (
	prefix   = "BK"
	alphabet = "0123456789ABCDEFGHIJKLMNOPQRSTUVWXYZ"
	suffix   = 5
)

// Generator produces booking identifiers of the form BK-<5 digits>-<5 chars>:
// the last five digits of the epoch-millisecond timestamp plus five random
// upper-cased base-36 characters. Tokens are only locally unique; duplicate
// handling is the ledger's job.
type Generator struct {
	mu  sync.Mutex
	now func() time.Time
	rnd *rand.Rand
}

func New() *Generator {
	return NewWithSource(time.Now, rand.NewSource(time.Now().UnixNano()))
}

// NewWithSource fixes the clock and randomness, for deterministic tests.
func NewWithSource(now func() time.Time, src rand.Source) *Generator {
	return &Generator{now: now, rnd: rand.New(src)}
}

func (g *Generator) Next() string {
	g.mu.Lock()
	defer g.mu.Unlock()

	ms := fmt.Sprintf("%d", g.now().UnixMilli())
	ts := ms[len(ms)-5:]

	var b strings.Builder
	for i := 0; i < suffix; i++ {
		b.WriteByte(alphabet[g.rnd.Intn(len(alphabet))])
	}
	return fmt.Sprintf("%s-%s-%s", prefix, ts, b.String())
}

var defaultGen = New()

// Next produces a token from the package-level generator.
func Next() string { return defaultGen.Next() }
