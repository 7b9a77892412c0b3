package ledger

import (
	"errors"
	"sync"
	"testing"

	"github.com/AlekSi/pointer"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreate(t *testing.T) {
	l := New()

	req, err := l.Create(100, "photo-file-id")
	require.NoError(t, err)

	assert.NotEmpty(t, req.ID)
	assert.Equal(t, int64(100), req.RequesterID)
	assert.Equal(t, "photo-file-id", req.SourceMessageRef)
	assert.Equal(t, StatusPending, req.Status)
	assert.False(t, req.CreatedAt.IsZero())

	other, err := l.Create(100, "photo-file-id-2")
	require.NoError(t, err)
	assert.NotEqual(t, req.ID, other.ID)
}

func TestTransitionPaths(t *testing.T) {
	tests := []struct {
		name    string
		actions []Action
		want    Status
	}{
		{"approve then send file", []Action{ActionApprove, ActionSendFile}, StatusCompleted},
		{"approve then post to channel", []Action{ActionApprove, ActionPostChannel}, StatusPostedToChannel},
		{"reject then send reason", []Action{ActionReject, ActionSendReason}, StatusRejectedWithReason},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			l := New()
			req, err := l.Create(1, "ref")
			require.NoError(t, err)

			var updated *Request
			for _, action := range tt.actions {
				updated, err = l.Transition(req.ID, action, nil)
				require.NoError(t, err)
			}

			assert.Equal(t, tt.want, updated.Status)
		})
	}
}

func TestTransitionIllegalEdges(t *testing.T) {
	tests := []struct {
		name  string
		setup []Action
		then  Action
	}{
		{"send file while pending", nil, ActionSendFile},
		{"post to channel while pending", nil, ActionPostChannel},
		{"send reason while pending", nil, ActionSendReason},
		{"approve twice", []Action{ActionApprove}, ActionApprove},
		{"reject after approve", []Action{ActionApprove}, ActionReject},
		{"send reason after approve", []Action{ActionApprove}, ActionSendReason},
		{"send file after reject", []Action{ActionReject}, ActionSendFile},
		{"approve after completion", []Action{ActionApprove, ActionSendFile}, ActionApprove},
		{"send file twice", []Action{ActionApprove, ActionSendFile}, ActionSendFile},
		{"send reason twice", []Action{ActionReject, ActionSendReason}, ActionSendReason},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			l := New()
			req, err := l.Create(1, "ref")
			require.NoError(t, err)

			for _, action := range tt.setup {
				_, err = l.Transition(req.ID, action, nil)
				require.NoError(t, err)
			}

			before, err := l.Get(req.ID)
			require.NoError(t, err)

			_, err = l.Transition(req.ID, tt.then, nil)
			assert.True(t, errors.Is(err, ErrInvalidTransition))

			after, err := l.Get(req.ID)
			require.NoError(t, err)
			assert.Equal(t, before.Status, after.Status)
		})
	}
}

func TestTransitionRecordsReason(t *testing.T) {
	l := New()
	req, err := l.Create(1, "ref")
	require.NoError(t, err)

	_, err = l.Transition(req.ID, ActionReject, nil)
	require.NoError(t, err)

	updated, err := l.Transition(req.ID, ActionSendReason, pointer.ToString("blurry image"))
	require.NoError(t, err)

	require.NotNil(t, updated.RejectionReason)
	assert.Equal(t, "blurry image", *updated.RejectionReason)
}

func TestTransitionUnknownRequest(t *testing.T) {
	l := New()

	_, err := l.Transition("no-such-id", ActionApprove, nil)
	assert.True(t, errors.Is(err, ErrNotFound))

	_, err = l.Get("no-such-id")
	assert.True(t, errors.Is(err, ErrNotFound))
}

func TestConcurrentApprove(t *testing.T) {
	l := New()
	req, err := l.Create(1, "ref")
	require.NoError(t, err)

	const attempts = 16

	var wg sync.WaitGroup
	results := make(chan error, attempts)

	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := l.Transition(req.ID, ActionApprove, nil)
			results <- err
		}()
	}

	wg.Wait()
	close(results)

	var succeeded, invalid int
	for err := range results {
		switch {
		case err == nil:
			succeeded++
		case errors.Is(err, ErrInvalidTransition):
			invalid++
		default:
			t.Fatalf("unexpected error: %v", err)
		}
	}

	assert.Equal(t, 1, succeeded)
	assert.Equal(t, attempts-1, invalid)

	final, err := l.Get(req.ID)
	require.NoError(t, err)
	assert.Equal(t, StatusApproved, final.Status)
}

func TestListByRequester(t *testing.T) {
	l := New()

	assert.Empty(t, l.ListByRequester(42))

	first, err := l.Create(42, "ref-1")
	require.NoError(t, err)
	second, err := l.Create(42, "ref-2")
	require.NoError(t, err)
	_, err = l.Create(99, "ref-3")
	require.NoError(t, err)

	requests := l.ListByRequester(42)
	require.Len(t, requests, 2)
	assert.Equal(t, first.ID, requests[0].ID)
	assert.Equal(t, second.ID, requests[1].ID)
}

func TestReturnedRequestIsACopy(t *testing.T) {
	l := New()
	req, err := l.Create(1, "ref")
	require.NoError(t, err)

	req.Status = StatusCompleted

	stored, err := l.Get(req.ID)
	require.NoError(t, err)
	assert.Equal(t, StatusPending, stored.Status)
}
