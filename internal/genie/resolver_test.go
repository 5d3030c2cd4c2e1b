// ABOUTME: Tests for answer resolution
// ABOUTME: Covers successor selection and the polled-message/last-entry fallbacks

package genie

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func msgList(ids ...string) []Message {
	msgs := make([]Message, len(ids))
	for i, id := range ids {
		role := "ASSISTANT"
		if i%2 == 0 {
			role = RoleUser
		}
		msgs[i] = Message{MessageID: id, Role: role}
	}
	return msgs
}

func TestResolveAnswer_SelectsSuccessor(t *testing.T) {
	msgs := msgList("u1", "b1", "u2", "b2", "u3", "b3")

	answer := ResolveAnswer(msgs, "u2", &Message{MessageID: "polled"})
	require.NotNil(t, answer)
	assert.Equal(t, "b2", answer.MessageID)
}

func TestResolveAnswer_SuccessorAtAnyIndex(t *testing.T) {
	msgs := msgList("u1", "b1", "u2", "b2")

	for submitted, want := range map[string]string{"u1": "b1", "b1": "u2", "u2": "b2"} {
		answer := ResolveAnswer(msgs, submitted, nil)
		require.NotNil(t, answer)
		assert.Equal(t, want, answer.MessageID)
	}
}

func TestResolveAnswer_FallsBackToPolled(t *testing.T) {
	msgs := msgList("u1", "b1")
	polled := &Message{MessageID: "polled"}

	// Submitted id absent from the list.
	answer := ResolveAnswer(msgs, "missing", polled)
	assert.Equal(t, "polled", answer.MessageID)

	// Submitted id is the last entry, so it has no successor.
	answer = ResolveAnswer(msgs, "b1", polled)
	assert.Equal(t, "polled", answer.MessageID)
}

func TestResolveAnswer_FallsBackToLastEntry(t *testing.T) {
	msgs := msgList("u1", "b1", "u2")

	answer := ResolveAnswer(msgs, "missing", nil)
	require.NotNil(t, answer)
	assert.Equal(t, "u2", answer.MessageID)
}

func TestResolveAnswer_NothingAvailable(t *testing.T) {
	assert.Nil(t, ResolveAnswer(nil, "m1", nil))
}

func TestLastAnswerID(t *testing.T) {
	msgs := []Message{
		{MessageID: "u1", Role: RoleUser},
		{MessageID: "b1", Role: "ASSISTANT"},
		{MessageID: "u2", Role: RoleUser},
	}

	assert.Equal(t, "b1", LastAnswerID(msgs))
	assert.Equal(t, "", LastAnswerID([]Message{{MessageID: "u1", Role: RoleUser}}))
	assert.Equal(t, "", LastAnswerID(nil))
}
