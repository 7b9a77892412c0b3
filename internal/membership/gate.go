package membership

import (
	"log"
	"sync"
	"time"
)

// LookupFunc asks the platform for a user's current status in the
// required channel. It may block on the network; the gate never holds
// its lock across the call.
type LookupFunc func(userID int64) (string, error)

type record struct {
	checkedAt time.Time
	isMember  bool
}

// Gate caches channel-membership verdicts so routine traffic does not
// hit the platform on every message. Lookup failures are cached as
// non-member for the full TTL: a failing dependency is not retried on
// every inbound message, even though a legitimate member may be locked
// out until the TTL elapses or a forced recheck succeeds.
type Gate struct {
	lookup LookupFunc
	ttl    time.Duration

	mu    sync.Mutex
	cache map[int64]record

	now func() time.Time
}

func NewGate(lookup LookupFunc, ttl time.Duration) *Gate {
	return &Gate{
		lookup: lookup,
		ttl:    ttl,
		cache:  make(map[int64]record),
		now:    time.Now,
	}
}

// IsMemberStatus reports whether a platform chat-member status counts
// as belonging to the channel.
func IsMemberStatus(status string) bool {
	switch status {
	case "member", "administrator", "creator":
		return true
	}
	return false
}

func (g *Gate) IsMember(userID int64, forceRecheck bool) bool {
	if !forceRecheck {
		g.mu.Lock()
		rec, exists := g.cache[userID]
		g.mu.Unlock()

		if exists && g.now().Sub(rec.checkedAt) < g.ttl {
			return rec.isMember
		}
	}

	status, err := g.lookup(userID)
	isMember := false
	if err != nil {
		log.Printf("Gate.IsMember: membership lookup failed for user %d: %v", userID, err)
	} else {
		isMember = IsMemberStatus(status)
	}

	g.mu.Lock()
	g.cache[userID] = record{checkedAt: g.now(), isMember: isMember}
	g.mu.Unlock()

	return isMember
}

// ApplyUpdate records a membership change pushed by the platform. The
// push is authoritative and fresher than any poll, so it overwrites
// the cached record regardless of its age.
func (g *Gate) ApplyUpdate(userID int64, newStatus string) {
	g.mu.Lock()
	g.cache[userID] = record{checkedAt: g.now(), isMember: IsMemberStatus(newStatus)}
	g.mu.Unlock()
}
