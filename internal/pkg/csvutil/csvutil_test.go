package csvutil

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestEncode_QuotesEveryField(t *testing.T) {
	out := Encode(
		[]string{"Tour", "Customer"},
		[][]string{
			{"Safari", "Jo"},
			{"", "Lee, Ann"},
		},
	)

	assert.Equal(t, "Tour,Customer\n\"Safari\",\"Jo\"\n\"\",\"Lee, Ann\"\n", string(out))
}

func TestEncode_DoublesEmbeddedQuotes(t *testing.T) {
	out := Encode([]string{"Notes"}, [][]string{{`said "no"`}})

	assert.Equal(t, "Notes\n\"said \"\"no\"\"\"\n", string(out))
}

func TestEncode_NoRows(t *testing.T) {
	out := Encode([]string{"time", "actor"}, nil)

	assert.Equal(t, "time,actor\n", string(out))
}
