// ABOUTME: Normalizes an answer message's attachments into one typed result
// ABOUTME: Two-pass scan: collect suggestions, then first text or first query wins

package genie

import (
	"context"
	"log/slog"

	"github.com/PortoLucas1/dbx-apps-genie-api/internal/table"
)

// PlaceholderText is returned when nothing in the answer yields content.
const PlaceholderText = "No response available"

// Result is the normalized outcome of one ask: exactly one of Text or
// Table, the generating query when tabular, suggested follow-ups, and the
// identifiers needed to submit feedback later.
type Result struct {
	Text           string
	Table          *table.Table
	QueryText      string
	Suggestions    []string
	ConversationID string
	MessageID      string
}

// IsTable reports whether the result is tabular.
func (r *Result) IsTable() bool {
	return r.Table != nil
}

// QueryResultFetcher retrieves and triggers execution of query attachment
// results. Satisfied by Client.
type QueryResultFetcher interface {
	QueryResult(ctx context.Context, conversationID, messageID, attachmentID string) (*QueryPayload, error)
	ExecuteQuery(ctx context.Context, conversationID, messageID, attachmentID string) error
}

// Normalizer converts resolved answer messages into Results. It never
// fails: malformed payloads degrade to the placeholder, not an error.
type Normalizer struct {
	results QueryResultFetcher
	logger  *slog.Logger
}

// NewNormalizer creates a Normalizer fetching query results through the
// given fetcher.
func NewNormalizer(results QueryResultFetcher) *Normalizer {
	return &Normalizer{
		results: results,
		logger:  slog.Default().With("component", "normalizer"),
	}
}

// Normalize inspects the answer's attachments and produces a Result.
//
// Pass one collects suggested follow-up questions from every attachment
// carrying them. Pass two scans in order: the first inline-text attachment
// wins outright; otherwise the first query attachment is fetched (with one
// execute-and-refetch attempt if the result is not yet available) and
// built into a table. With no attachment content, the message's own
// top-level content is used, and finally the fixed placeholder.
func (n *Normalizer) Normalize(ctx context.Context, conversationID string, answer *Message) *Result {
	result := &Result{ConversationID: conversationID}
	if answer == nil {
		result.Text = PlaceholderText
		return result
	}
	result.MessageID = answer.MessageID

	for _, att := range answer.Attachments {
		switch att.Kind {
		case KindSuggestedQuestions:
			result.Suggestions = append(result.Suggestions, att.Questions...)
		case KindUnknown:
			n.logger.Debug("skipping unrecognized attachment payload",
				"message_id", answer.MessageID,
				"attachment_id", att.ID,
			)
		}
	}

	for _, att := range answer.Attachments {
		switch att.Kind {
		case KindText:
			result.Text = att.Text
			return result
		case KindQuery:
			tbl := n.fetchTable(ctx, conversationID, answer.MessageID, att.ID)
			if tbl == nil {
				continue
			}
			result.Table = tbl
			result.QueryText = att.Query.Query
			return result
		}
	}

	if answer.Content != "" {
		result.Text = answer.Content
		return result
	}

	result.Text = PlaceholderText
	return result
}

// fetchTable retrieves a query attachment's executed result. A failed
// fetch triggers one execute-query attempt followed by a refetch; rows
// are required for a tabular result, so an empty row set falls through to
// the next candidate. Failures are logged, never propagated.
func (n *Normalizer) fetchTable(ctx context.Context, conversationID, messageID, attachmentID string) *table.Table {
	payload, err := n.results.QueryResult(ctx, conversationID, messageID, attachmentID)
	if err != nil {
		n.logger.Warn("query result fetch failed, triggering execution",
			"attachment_id", attachmentID,
			"error", err,
		)
		if execErr := n.results.ExecuteQuery(ctx, conversationID, messageID, attachmentID); execErr != nil {
			n.logger.Warn("execute-query failed", "attachment_id", attachmentID, "error", execErr)
			return nil
		}
		payload, err = n.results.QueryResult(ctx, conversationID, messageID, attachmentID)
		if err != nil {
			n.logger.Warn("query result refetch failed", "attachment_id", attachmentID, "error", err)
			return nil
		}
	}

	if len(payload.DataArray) == 0 {
		return nil
	}

	columns := make([]table.Column, len(payload.Schema.Columns))
	for i, col := range payload.Schema.Columns {
		columns[i] = table.Column{Name: col.Name, TypeName: col.TypeText}
	}
	return table.New(columns, payload.DataArray)
}
