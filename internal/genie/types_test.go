// ABOUTME: Tests for attachment tagged-union decoding
// ABOUTME: Covers text, query, suggested-questions, and malformed payloads

package genie

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func decodeAttachment(t *testing.T, raw string) Attachment {
	t.Helper()
	var a Attachment
	require.NoError(t, json.Unmarshal([]byte(raw), &a))
	return a
}

func TestAttachment_Text(t *testing.T) {
	a := decodeAttachment(t, `{"attachment_id":"a1","text":{"content":"hello"}}`)

	assert.Equal(t, KindText, a.Kind)
	assert.Equal(t, "a1", a.ID)
	assert.Equal(t, "hello", a.Text)
}

func TestAttachment_TextWithoutContentIsUnknown(t *testing.T) {
	a := decodeAttachment(t, `{"attachment_id":"a1","text":{}}`)

	assert.Equal(t, KindUnknown, a.Kind)
}

func TestAttachment_Query(t *testing.T) {
	a := decodeAttachment(t, `{"attachment_id":"a2","query":{"query":"SELECT 1","description":"one"}}`)

	require.Equal(t, KindQuery, a.Kind)
	assert.Equal(t, "SELECT 1", a.Query.Query)
	assert.Equal(t, "one", a.Query.Description)
}

func TestAttachment_SuggestedQuestions(t *testing.T) {
	a := decodeAttachment(t, `{"attachment_id":"a3","suggested_questions":{"questions":["A","B"]}}`)

	require.Equal(t, KindSuggestedQuestions, a.Kind)
	assert.Equal(t, []string{"A", "B"}, a.Questions)
}

func TestAttachment_MalformedSuggestedQuestionsIsUnknown(t *testing.T) {
	for _, raw := range []string{
		`{"attachment_id":"a4","suggested_questions":"not an object"}`,
		`{"attachment_id":"a4","suggested_questions":{"items":["A"]}}`,
		`{"attachment_id":"a4","suggested_questions":{"questions":"A"}}`,
	} {
		a := decodeAttachment(t, raw)
		assert.Equal(t, KindUnknown, a.Kind, "payload: %s", raw)
		assert.Empty(t, a.Questions)
	}
}

func TestAttachment_EmptyIsUnknown(t *testing.T) {
	a := decodeAttachment(t, `{"attachment_id":"a5"}`)

	assert.Equal(t, KindUnknown, a.Kind)
}

func TestMessageStatus_IsTerminal(t *testing.T) {
	assert.True(t, StatusCompleted.IsTerminal())
	assert.True(t, StatusError.IsTerminal())
	assert.True(t, StatusFailed.IsTerminal())
	assert.False(t, MessageStatus("EXECUTING_QUERY").IsTerminal())
	assert.False(t, MessageStatus("SUBMITTED").IsTerminal())
	assert.False(t, MessageStatus("").IsTerminal())
}

func TestMessage_DecodesAttachmentList(t *testing.T) {
	raw := `{
		"message_id": "m2",
		"role": "ASSISTANT",
		"status": "COMPLETED",
		"attachments": [
			{"attachment_id":"a1","suggested_questions":{"questions":["Q1"]}},
			{"attachment_id":"a2","text":{"content":"answer"}}
		]
	}`
	var msg Message
	require.NoError(t, json.Unmarshal([]byte(raw), &msg))

	assert.Equal(t, StatusCompleted, msg.Status)
	require.Len(t, msg.Attachments, 2)
	assert.Equal(t, KindSuggestedQuestions, msg.Attachments[0].Kind)
	assert.Equal(t, KindText, msg.Attachments[1].Kind)
}
