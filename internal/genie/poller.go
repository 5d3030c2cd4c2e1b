// ABOUTME: Completion poller for asynchronously processed messages
// ABOUTME: Re-fetches message status until a terminal state or the timeout

package genie

import (
	"context"
	"errors"
	"log/slog"
	"time"
)

// ErrPollTimeout means the client gave up waiting. It is distinct from a
// service-reported ERROR/FAILED status, which the poller returns as data
// so the failure reason can still flow through normalization.
var ErrPollTimeout = errors.New("message processing timed out")

// Poll defaults matching the upstream client.
const (
	DefaultPollInterval = 2 * time.Second
	DefaultPollTimeout  = 300 * time.Second
)

// MessageFetcher re-fetches a message's current state. Satisfied by Client.
type MessageFetcher interface {
	GetMessage(ctx context.Context, conversationID, messageID string) (*Message, error)
}

// Poller waits for a submitted message to reach a terminal status.
type Poller struct {
	fetcher  MessageFetcher
	interval time.Duration
	timeout  time.Duration
	logger   *slog.Logger
}

// NewPoller creates a poller over the given fetcher. Non-positive interval
// or timeout values fall back to the defaults.
func NewPoller(fetcher MessageFetcher, interval, timeout time.Duration) *Poller {
	if interval <= 0 {
		interval = DefaultPollInterval
	}
	if timeout <= 0 {
		timeout = DefaultPollTimeout
	}
	return &Poller{
		fetcher:  fetcher,
		interval: interval,
		timeout:  timeout,
		logger:   slog.Default().With("component", "poller"),
	}
}

// Wait polls the message until its status is terminal. A terminal ERROR or
// FAILED status is returned as the message, not as an error. Exceeding the
// timeout returns ErrPollTimeout without a further poll; context
// cancellation aborts the wait between polls.
func (p *Poller) Wait(ctx context.Context, conversationID, messageID string) (*Message, error) {
	deadline := time.Now().Add(p.timeout)

	for attempt := 1; ; attempt++ {
		if time.Now().After(deadline) {
			p.logger.Warn("gave up waiting for message",
				"conversation_id", conversationID,
				"message_id", messageID,
				"timeout", p.timeout,
			)
			return nil, ErrPollTimeout
		}

		msg, err := p.fetcher.GetMessage(ctx, conversationID, messageID)
		if err != nil {
			return nil, err
		}
		if msg.Status.IsTerminal() {
			p.logger.Debug("message reached terminal status",
				"message_id", messageID,
				"status", msg.Status,
				"polls", attempt,
			)
			return msg, nil
		}

		select {
		case <-time.After(p.interval):
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
}
