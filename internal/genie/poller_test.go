// ABOUTME: Tests for the completion poller
// ABOUTME: Covers terminal-status returns, timeout behavior, and error passthrough

package genie

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// sequenceFetcher returns a scripted series of statuses, then keeps
// returning the final one.
type sequenceFetcher struct {
	statuses []MessageStatus
	calls    int
	err      error
}

func (f *sequenceFetcher) GetMessage(_ context.Context, conversationID, messageID string) (*Message, error) {
	if f.err != nil {
		return nil, f.err
	}
	idx := f.calls
	if idx >= len(f.statuses) {
		idx = len(f.statuses) - 1
	}
	f.calls++
	return &Message{
		MessageID:      messageID,
		ConversationID: conversationID,
		Status:         f.statuses[idx],
	}, nil
}

func TestPoller_ReturnsOnTerminalAfterNonTerminalPolls(t *testing.T) {
	f := &sequenceFetcher{statuses: []MessageStatus{
		"SUBMITTED", "EXECUTING_QUERY", "EXECUTING_QUERY", StatusCompleted,
	}}
	p := NewPoller(f, time.Millisecond, time.Second)

	msg, err := p.Wait(context.Background(), "c1", "m1")
	require.NoError(t, err)
	assert.Equal(t, StatusCompleted, msg.Status)
	assert.Equal(t, 4, f.calls)
}

func TestPoller_ErrorStatusReturnedAsData(t *testing.T) {
	for _, status := range []MessageStatus{StatusError, StatusFailed} {
		f := &sequenceFetcher{statuses: []MessageStatus{status}}
		p := NewPoller(f, time.Millisecond, time.Second)

		msg, err := p.Wait(context.Background(), "c1", "m1")
		require.NoError(t, err)
		assert.Equal(t, status, msg.Status)
		assert.Equal(t, 1, f.calls)
	}
}

func TestPoller_Timeout(t *testing.T) {
	f := &sequenceFetcher{statuses: []MessageStatus{"EXECUTING_QUERY"}}
	p := NewPoller(f, time.Millisecond, 15*time.Millisecond)

	_, err := p.Wait(context.Background(), "c1", "m1")
	assert.ErrorIs(t, err, ErrPollTimeout)

	// No further polls after giving up.
	polls := f.calls
	time.Sleep(5 * time.Millisecond)
	assert.Equal(t, polls, f.calls)
}

func TestPoller_FetchErrorPropagates(t *testing.T) {
	boom := errors.New("boom")
	p := NewPoller(&sequenceFetcher{err: boom}, time.Millisecond, time.Second)

	_, err := p.Wait(context.Background(), "c1", "m1")
	assert.ErrorIs(t, err, boom)
}

func TestPoller_ContextCancel(t *testing.T) {
	f := &sequenceFetcher{statuses: []MessageStatus{"SUBMITTED"}}
	p := NewPoller(f, time.Hour, time.Hour)

	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		time.Sleep(5 * time.Millisecond)
		cancel()
	}()

	_, err := p.Wait(ctx, "c1", "m1")
	assert.ErrorIs(t, err, context.Canceled)
}

func TestPoller_DefaultsApplied(t *testing.T) {
	p := NewPoller(&sequenceFetcher{}, 0, 0)

	assert.Equal(t, DefaultPollInterval, p.interval)
	assert.Equal(t, DefaultPollTimeout, p.timeout)
}
