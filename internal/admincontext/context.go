package admincontext

import "sync"

// Kind names the artifact an admin still owes for a request.
type Kind string

const (
	AwaitingFile        Kind = "awaiting_file"
	AwaitingChannelPost Kind = "awaiting_channel_post"
	AwaitingReason      Kind = "awaiting_reason"
)

type Expectation struct {
	Kind      Kind
	RequestID string
}

// Store holds at most one outstanding expectation per admin. The next
// inbound message from that admin is matched against it; a new Expect
// simply overwrites whatever was pending before.
type Store struct {
	mu           sync.Mutex
	expectations map[int64]Expectation
}

func NewStore() *Store {
	return &Store{
		expectations: make(map[int64]Expectation),
	}
}

func (s *Store) Expect(adminID int64, kind Kind, requestID string) {
	s.mu.Lock()
	s.expectations[adminID] = Expectation{Kind: kind, RequestID: requestID}
	s.mu.Unlock()
}

// Resolve returns and clears the admin's expectation in one step, so
// two near-simultaneous messages from the same admin cannot both
// consume it.
func (s *Store) Resolve(adminID int64) (Expectation, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	exp, exists := s.expectations[adminID]
	if exists {
		delete(s.expectations, adminID)
	}

	return exp, exists
}
