// ABOUTME: Caller-facing orchestration: submit, poll, resolve, normalize
// ABOUTME: Top-level failures degrade into user-facing text results, never faults

package genie

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"
)

// spaceCacheTTL bounds how long space metadata is reused between
// SampleQuestions and SpaceInfo calls.
const spaceCacheTTL = 5 * time.Minute

// Session orchestrates question flows against one Genie space. Multiple
// sessions are independent; the credential supplier behind the executor is
// the only shared resource. Safe for concurrent use.
type Session struct {
	client     *Client
	poller     *Poller
	normalizer *Normalizer
	logger     *slog.Logger

	mu          sync.Mutex
	cachedSpace *SpaceDetails
	cachedAt    time.Time
}

// NewSession creates a Session over the given client with the supplied
// poll interval and timeout (zero values select the defaults).
func NewSession(client *Client, pollInterval, pollTimeout time.Duration) *Session {
	return &Session{
		client:     client,
		poller:     NewPoller(client, pollInterval, pollTimeout),
		normalizer: NewNormalizer(client),
		logger:     slog.Default().With("component", "session"),
	}
}

// AskNew starts a fresh conversation with the question and returns the
// normalized answer. Failures never escape as errors: they are converted
// into a text result describing the problem, with empty identifiers.
func (s *Session) AskNew(ctx context.Context, question string) *Result {
	conversationID, messageID, err := s.client.StartConversation(ctx, question)
	if err != nil {
		s.logger.Error("starting conversation failed", "error", err)
		return &Result{Text: fmt.Sprintf("Sorry, an error occurred: %v. Please try again.", err)}
	}

	return s.completeAsk(ctx, conversationID, messageID)
}

// AskFollowUp submits a follow-up question to an existing conversation.
// An expired conversation and service throttling each get distinct
// user-facing phrasing so the caller can react appropriately.
func (s *Session) AskFollowUp(ctx context.Context, conversationID, question string) *Result {
	messageID, err := s.client.SendMessage(ctx, conversationID, question)
	if err != nil {
		s.logger.Error("follow-up submission failed",
			"conversation_id", conversationID,
			"error", err,
		)
		switch {
		case errors.Is(err, ErrRateLimited):
			return &Result{Text: "Sorry, the system is currently experiencing high demand. Please try again in a few moments."}
		case errors.Is(err, ErrConversationNotFound):
			return &Result{Text: "Sorry, the previous conversation has expired. Please try your query again to start a new conversation."}
		default:
			return &Result{Text: fmt.Sprintf("Sorry, an error occurred: %v", err)}
		}
	}

	return s.completeAsk(ctx, conversationID, messageID)
}

// completeAsk waits for processing, resolves the answering message, and
// normalizes it. The message list is fetched after the poll completes, so
// within one conversation the answer to question N is always resolved
// against post-submission state.
func (s *Session) completeAsk(ctx context.Context, conversationID, submittedID string) *Result {
	polled, err := s.poller.Wait(ctx, conversationID, submittedID)
	if err != nil {
		s.logger.Error("waiting for answer failed",
			"conversation_id", conversationID,
			"message_id", submittedID,
			"error", err,
		)
		return &Result{
			Text:           fmt.Sprintf("Sorry, an error occurred: %v. Please try again.", err),
			ConversationID: conversationID,
		}
	}

	messages, err := s.client.ListMessages(ctx, conversationID)
	if err != nil {
		// The polled message is still usable; it just may lack the
		// suggested follow-ups the list endpoint carries.
		s.logger.Warn("listing messages failed, using polled message",
			"conversation_id", conversationID,
			"error", err,
		)
		messages = nil
	}

	answer := ResolveAnswer(messages, submittedID, polled)
	result := s.normalizer.Normalize(ctx, conversationID, answer)
	if result.MessageID == "" {
		// Some responses omit the answering message's id; recover it from
		// the conversation tail so feedback still has a target.
		result.MessageID = LastAnswerID(messages)
	}
	return result
}

// SendFeedback posts a rating for a message. The sentiment "positive"
// maps to POSITIVE; anything else maps to NEGATIVE. Feedback is
// best-effort: failures are logged and reported as false, never
// propagated.
func (s *Session) SendFeedback(ctx context.Context, conversationID, messageID, sentiment string) bool {
	rating := "NEGATIVE"
	if sentiment == "positive" {
		rating = "POSITIVE"
	}

	if err := s.client.SendFeedback(ctx, conversationID, messageID, rating); err != nil {
		s.logger.Error("sending feedback failed",
			"conversation_id", conversationID,
			"message_id", messageID,
			"rating", rating,
			"error", err,
		)
		return false
	}

	s.logger.Info("feedback sent", "message_id", messageID, "rating", rating)
	return true
}

// SampleQuestions returns the space's configured sample questions.
// Failures degrade to an empty list.
func (s *Session) SampleQuestions(ctx context.Context) []string {
	details := s.spaceDetails(ctx)
	if details == nil {
		return nil
	}
	return details.SampleQuestions()
}

// SpaceInfo returns the space title and description, each possibly empty.
func (s *Session) SpaceInfo(ctx context.Context) (title, description string) {
	details := s.spaceDetails(ctx)
	if details == nil {
		return "", ""
	}
	return details.BestTitle(), details.BestDescription()
}

// spaceDetails fetches space metadata, reusing a recent fetch so
// SampleQuestions and SpaceInfo share one call.
func (s *Session) spaceDetails(ctx context.Context) *SpaceDetails {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.cachedSpace != nil && time.Since(s.cachedAt) < spaceCacheTTL {
		return s.cachedSpace
	}

	details, err := s.client.SpaceDetails(ctx)
	if err != nil {
		s.logger.Error("fetching space details failed", "error", err)
		return s.cachedSpace // possibly stale, possibly nil
	}

	s.cachedSpace = details
	s.cachedAt = time.Now()
	return details
}
