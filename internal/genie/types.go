// ABOUTME: Wire types for Genie conversations, messages, and attachments
// ABOUTME: Attachment is a tagged union decoded defensively from variably-shaped JSON

package genie

import (
	"encoding/json"
)

// MessageStatus is the processing state of a message. The service may add
// intermediate states at any time; only the terminal set is load-bearing.
type MessageStatus string

// Terminal statuses. Everything else is treated as in-progress.
const (
	StatusCompleted MessageStatus = "COMPLETED"
	StatusError     MessageStatus = "ERROR"
	StatusFailed    MessageStatus = "FAILED"
)

// RoleUser marks the message carrying the submitted question; the answer
// arrives as a separate message with a service-authored role.
const RoleUser = "USER"

// IsTerminal reports whether the status ends the poll loop.
func (s MessageStatus) IsTerminal() bool {
	switch s {
	case StatusCompleted, StatusError, StatusFailed:
		return true
	}
	return false
}

// Message is one entry in a conversation's ordered message list.
type Message struct {
	MessageID      string        `json:"message_id"`
	ConversationID string        `json:"conversation_id"`
	Role           string        `json:"role"`
	Status         MessageStatus `json:"status"`
	Content        string        `json:"content"`
	Attachments    []Attachment  `json:"attachments"`
}

// AttachmentKind tags which payload an attachment carries.
type AttachmentKind int

const (
	// KindUnknown marks attachments whose payload matched no known shape.
	// They are skipped during normalization, never treated as an error.
	KindUnknown AttachmentKind = iota
	KindText
	KindQuery
	KindSuggestedQuestions
)

// QuerySpec describes a generated query attached to an answer. The
// attachment id is required to fetch or execute the query's result.
type QuerySpec struct {
	Query       string `json:"query"`
	Description string `json:"description"`
}

// Attachment belongs to exactly one message and carries at most one of
// inline text, a query specification, or suggested follow-up questions.
type Attachment struct {
	ID        string
	Kind      AttachmentKind
	Text      string
	Query     *QuerySpec
	Questions []string
}

// UnmarshalJSON decodes an attachment into its tagged form. Payloads are
// inspected in priority order: inline text, query spec, suggested
// questions. Anything malformed or unrecognized becomes KindUnknown
// rather than a decode error.
func (a *Attachment) UnmarshalJSON(data []byte) error {
	var raw struct {
		AttachmentID string `json:"attachment_id"`
		Text         *struct {
			Content *string `json:"content"`
		} `json:"text"`
		Query              *QuerySpec      `json:"query"`
		SuggestedQuestions json.RawMessage `json:"suggested_questions"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	a.ID = raw.AttachmentID
	a.Kind = KindUnknown

	switch {
	case raw.Text != nil && raw.Text.Content != nil:
		a.Kind = KindText
		a.Text = *raw.Text.Content
	case raw.Query != nil:
		a.Kind = KindQuery
		a.Query = raw.Query
	case len(raw.SuggestedQuestions) > 0:
		var sq struct {
			Questions []string `json:"questions"`
		}
		if err := json.Unmarshal(raw.SuggestedQuestions, &sq); err == nil && sq.Questions != nil {
			a.Kind = KindSuggestedQuestions
			a.Questions = sq.Questions
		}
	}
	return nil
}

// QueryPayload is the flattened result of an executed query attachment.
type QueryPayload struct {
	DataArray [][]string
	Schema    QuerySchema
}

// QuerySchema holds the ordered column descriptors of a query result.
type QuerySchema struct {
	Columns []SchemaColumn `json:"columns"`
}

// SchemaColumn is a single column descriptor.
type SchemaColumn struct {
	Name     string `json:"name"`
	TypeText string `json:"type_text"`
}
