// ABOUTME: Raw API client for a single Genie space
// ABOUTME: Maps endpoint payloads to wire types and detects expired/throttled conversations

package genie

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	"github.com/PortoLucas1/dbx-apps-genie-api/internal/transport"
)

// Sentinel errors for conditions the caller needs to phrase differently.
var (
	// ErrConversationNotFound means the service no longer knows the
	// conversation; the caller should start a fresh one.
	ErrConversationNotFound = errors.New("conversation not found")

	// ErrRateLimited means the service is throttling requests; the caller
	// should try again later rather than report a generic failure.
	ErrRateLimited = errors.New("rate limited")
)

// Doer executes an authenticated JSON request. Satisfied by
// transport.Executor.
type Doer interface {
	Do(ctx context.Context, method, path string, body, out any) error
}

// Client issues space-scoped Genie API calls.
type Client struct {
	exec    Doer
	spaceID string
	base    string
	logger  *slog.Logger
}

// NewClient creates a client for the given space. The executor's base URL
// must point at the workspace root.
func NewClient(exec Doer, spaceID string) *Client {
	return &Client{
		exec:    exec,
		spaceID: spaceID,
		base:    fmt.Sprintf("/api/2.0/genie/spaces/%s", spaceID),
		logger:  slog.Default().With("component", "genie", "space_id", spaceID),
	}
}

// SpaceID returns the space this client is bound to.
func (c *Client) SpaceID() string {
	return c.spaceID
}

// startResponse is the asynchronous handle returned by a submission: the
// conversation and the id of the just-submitted USER message.
type startResponse struct {
	ConversationID string `json:"conversation_id"`
	MessageID      string `json:"message_id"`
}

// StartConversation opens a new conversation with the given question and
// returns the conversation id plus the submitted message id.
func (c *Client) StartConversation(ctx context.Context, question string) (conversationID, messageID string, err error) {
	var resp startResponse
	err = c.exec.Do(ctx, http.MethodPost, c.base+"/start-conversation", map[string]string{"content": question}, &resp)
	if err != nil {
		return "", "", c.classify(err)
	}
	return resp.ConversationID, resp.MessageID, nil
}

// SendMessage submits a follow-up question to an existing conversation and
// returns the submitted message id.
func (c *Client) SendMessage(ctx context.Context, conversationID, question string) (messageID string, err error) {
	var resp startResponse
	path := fmt.Sprintf("%s/conversations/%s/messages", c.base, conversationID)
	err = c.exec.Do(ctx, http.MethodPost, path, map[string]string{"content": question}, &resp)
	if err != nil {
		return "", c.classify(err)
	}
	return resp.MessageID, nil
}

// GetMessage fetches a single message, primarily for status polling.
func (c *Client) GetMessage(ctx context.Context, conversationID, messageID string) (*Message, error) {
	var msg Message
	path := fmt.Sprintf("%s/conversations/%s/messages/%s", c.base, conversationID, messageID)
	if err := c.exec.Do(ctx, http.MethodGet, path, nil, &msg); err != nil {
		return nil, c.classify(err)
	}
	return &msg, nil
}

// ListMessages fetches the conversation's full ordered message list. The
// list endpoint exposes suggested follow-ups that the single-message
// endpoint may omit.
func (c *Client) ListMessages(ctx context.Context, conversationID string) ([]Message, error) {
	var resp struct {
		Messages []Message `json:"messages"`
	}
	path := fmt.Sprintf("%s/conversations/%s/messages", c.base, conversationID)
	if err := c.exec.Do(ctx, http.MethodGet, path, nil, &resp); err != nil {
		return nil, c.classify(err)
	}
	return resp.Messages, nil
}

// QueryResult fetches the executed result of a query attachment. The
// payload nests under statement_response; it is flattened here exactly as
// consumers expect: row data plus the manifest schema.
func (c *Client) QueryResult(ctx context.Context, conversationID, messageID, attachmentID string) (*QueryPayload, error) {
	var resp struct {
		StatementResponse struct {
			Result struct {
				DataArray [][]string `json:"data_array"`
			} `json:"result"`
			Manifest struct {
				Schema QuerySchema `json:"schema"`
			} `json:"manifest"`
		} `json:"statement_response"`
	}
	path := fmt.Sprintf("%s/conversations/%s/messages/%s/attachments/%s/query-result", c.base, conversationID, messageID, attachmentID)
	if err := c.exec.Do(ctx, http.MethodGet, path, nil, &resp); err != nil {
		return nil, c.classify(err)
	}
	return &QueryPayload{
		DataArray: resp.StatementResponse.Result.DataArray,
		Schema:    resp.StatementResponse.Manifest.Schema,
	}, nil
}

// ExecuteQuery triggers execution of a query attachment whose result is
// not yet fetchable.
func (c *Client) ExecuteQuery(ctx context.Context, conversationID, messageID, attachmentID string) error {
	path := fmt.Sprintf("%s/conversations/%s/messages/%s/attachments/%s/execute-query", c.base, conversationID, messageID, attachmentID)
	if err := c.exec.Do(ctx, http.MethodPost, path, nil, nil); err != nil {
		return c.classify(err)
	}
	return nil
}

// SendFeedback posts a rating ("POSITIVE" or "NEGATIVE") for a message.
func (c *Client) SendFeedback(ctx context.Context, conversationID, messageID, rating string) error {
	path := fmt.Sprintf("%s/conversations/%s/messages/%s/feedback", c.base, conversationID, messageID)
	if err := c.exec.Do(ctx, http.MethodPost, path, map[string]string{"rating": rating}, nil); err != nil {
		return c.classify(err)
	}
	return nil
}

// SpaceDetails fetches space metadata including the serialized space
// configuration (a JSON string parsed separately; see space.go).
func (c *Client) SpaceDetails(ctx context.Context) (*SpaceDetails, error) {
	var details SpaceDetails
	if err := c.exec.Do(ctx, http.MethodGet, c.base+"?include_serialized_space=true", nil, &details); err != nil {
		return nil, c.classify(err)
	}
	return &details, nil
}

// classify maps executor errors onto the sentinel conditions callers
// distinguish: throttling by status code, expired conversations by the
// service's error text (no structured code is provided upstream).
func (c *Client) classify(err error) error {
	if err == nil {
		return nil
	}
	switch {
	case transport.StatusOf(err) == http.StatusTooManyRequests:
		c.logger.Warn("request throttled by service")
		return fmt.Errorf("%w: %v", ErrRateLimited, err)
	case strings.Contains(err.Error(), "Conversation not found"):
		c.logger.Info("conversation expired on service side")
		return fmt.Errorf("%w: %v", ErrConversationNotFound, err)
	}
	return err
}
