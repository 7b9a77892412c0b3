package membership

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

type countingLookup struct {
	calls  int
	status string
	err    error
}

func (c *countingLookup) lookup(userID int64) (string, error) {
	c.calls++
	return c.status, c.err
}

func TestIsMemberCachesWithinTTL(t *testing.T) {
	lookup := &countingLookup{status: "member"}
	g := NewGate(lookup.lookup, time.Hour)

	assert.True(t, g.IsMember(1, false))
	assert.True(t, g.IsMember(1, false))
	assert.Equal(t, 1, lookup.calls)
}

func TestIsMemberExpiresAfterTTL(t *testing.T) {
	lookup := &countingLookup{status: "member"}
	g := NewGate(lookup.lookup, time.Hour)

	current := time.Now()
	g.now = func() time.Time { return current }

	assert.True(t, g.IsMember(1, false))
	assert.Equal(t, 1, lookup.calls)

	current = current.Add(59 * time.Minute)
	assert.True(t, g.IsMember(1, false))
	assert.Equal(t, 1, lookup.calls)

	current = current.Add(2 * time.Minute)
	assert.True(t, g.IsMember(1, false))
	assert.Equal(t, 2, lookup.calls)
}

func TestIsMemberForceRecheck(t *testing.T) {
	lookup := &countingLookup{status: "member"}
	g := NewGate(lookup.lookup, time.Hour)

	assert.True(t, g.IsMember(1, false))
	assert.True(t, g.IsMember(1, true))
	assert.True(t, g.IsMember(1, true))
	assert.Equal(t, 3, lookup.calls)
}

func TestIsMemberStatusClassification(t *testing.T) {
	tests := []struct {
		status string
		want   bool
	}{
		{"member", true},
		{"administrator", true},
		{"creator", true},
		{"left", false},
		{"kicked", false},
		{"restricted", false},
		{"", false},
	}

	for _, tt := range tests {
		t.Run(tt.status, func(t *testing.T) {
			lookup := &countingLookup{status: tt.status}
			g := NewGate(lookup.lookup, time.Hour)
			assert.Equal(t, tt.want, g.IsMember(1, false))
		})
	}
}

func TestLookupFailureIsFailClosedAndCached(t *testing.T) {
	lookup := &countingLookup{err: errors.New("bot was kicked from the channel")}
	g := NewGate(lookup.lookup, time.Hour)

	assert.False(t, g.IsMember(1, false))
	assert.Equal(t, 1, lookup.calls)

	// The failed verdict is served from cache: the failing dependency
	// is not hit again until the TTL elapses.
	assert.False(t, g.IsMember(1, false))
	assert.Equal(t, 1, lookup.calls)
}

func TestForcedRecheckRecoversFromCachedFailure(t *testing.T) {
	lookup := &countingLookup{err: errors.New("network down")}
	g := NewGate(lookup.lookup, time.Hour)

	assert.False(t, g.IsMember(1, false))

	lookup.err = nil
	lookup.status = "member"

	assert.False(t, g.IsMember(1, false))
	assert.True(t, g.IsMember(1, true))
	assert.True(t, g.IsMember(1, false))
	assert.Equal(t, 2, lookup.calls)
}

func TestApplyUpdateOverridesCache(t *testing.T) {
	lookup := &countingLookup{status: "member"}
	g := NewGate(lookup.lookup, time.Hour)

	assert.True(t, g.IsMember(1, false))

	g.ApplyUpdate(1, "left")
	assert.False(t, g.IsMember(1, false))

	g.ApplyUpdate(1, "member")
	assert.True(t, g.IsMember(1, false))

	// Push updates are authoritative, no lookups happen for them.
	assert.Equal(t, 1, lookup.calls)
}

func TestApplyUpdateRefreshesCheckedAt(t *testing.T) {
	lookup := &countingLookup{status: "member"}
	g := NewGate(lookup.lookup, time.Hour)

	current := time.Now()
	g.now = func() time.Time { return current }

	assert.True(t, g.IsMember(1, false))
	assert.Equal(t, 1, lookup.calls)

	current = current.Add(59 * time.Minute)
	g.ApplyUpdate(1, "administrator")

	current = current.Add(30 * time.Minute)
	assert.True(t, g.IsMember(1, false))
	assert.Equal(t, 1, lookup.calls)
}

func TestIsMemberPerUserCaching(t *testing.T) {
	lookup := &countingLookup{status: "member"}
	g := NewGate(lookup.lookup, time.Hour)

	assert.True(t, g.IsMember(1, false))
	assert.True(t, g.IsMember(2, false))
	assert.Equal(t, 2, lookup.calls)
}
