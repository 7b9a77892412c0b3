package ledger

import (
	"errors"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
)

var (
	ErrNotFound          = errors.New("request not found")
	ErrInvalidTransition = errors.New("invalid transition")
)

// Ledger is the authoritative in-memory store for all requests.
// Requests are kept for the lifetime of the process and never evicted,
// so resolved requests stay available for status queries.
type Ledger struct {
	mu       sync.Mutex
	requests map[string]*Request
}

func New() *Ledger {
	return &Ledger{
		requests: make(map[string]*Request),
	}
}

func (l *Ledger) Create(requesterID int64, sourceMessageRef string) (*Request, error) {
	id := uuid.New().String()

	req := &Request{
		ID:               id,
		RequesterID:      requesterID,
		SourceMessageRef: sourceMessageRef,
		Status:           StatusPending,
		CreatedAt:        time.Now(),
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	if _, exists := l.requests[id]; exists {
		return nil, fmt.Errorf("Ledger.Create: duplicate request id %s", id)
	}

	l.requests[id] = req

	return copyRequest(req), nil
}

// Transition applies action to the request and returns the updated
// record. Two racing transitions on the same request serialize: one
// wins, the other gets ErrInvalidTransition. The reason is recorded
// only on the sendreason edge.
func (l *Ledger) Transition(requestID string, action Action, reason *string) (*Request, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	req, exists := l.requests[requestID]
	if !exists {
		return nil, fmt.Errorf("Ledger.Transition: request %s: %w", requestID, ErrNotFound)
	}

	next, ok := transitions[req.Status][action]
	if !ok {
		return nil, fmt.Errorf("Ledger.Transition: %s from status %s: %w", action, req.Status, ErrInvalidTransition)
	}

	req.Status = next
	if action == ActionSendReason {
		req.RejectionReason = reason
	}

	return copyRequest(req), nil
}

func (l *Ledger) Get(requestID string) (*Request, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	req, exists := l.requests[requestID]
	if !exists {
		return nil, fmt.Errorf("Ledger.Get: request %s: %w", requestID, ErrNotFound)
	}

	return copyRequest(req), nil
}

func (l *Ledger) ListByRequester(requesterID int64) []*Request {
	l.mu.Lock()

	var result []*Request
	for _, req := range l.requests {
		if req.RequesterID == requesterID {
			result = append(result, copyRequest(req))
		}
	}

	l.mu.Unlock()

	sort.Slice(result, func(i, j int) bool {
		return result[i].CreatedAt.Before(result[j].CreatedAt)
	})

	return result
}

// copyRequest keeps callers from mutating the stored record outside
// the ledger's lock.
func copyRequest(req *Request) *Request {
	c := *req
	return &c
}
