// ABOUTME: Tests for the SQLite exchange ledger
// ABOUTME: Covers record/list round-trips, feedback updates, and not-found paths

package history

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := NewStore(filepath.Join(t.TempDir(), "genie.db"))
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func TestRecordAndGet(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	e := &Exchange{
		ID:              uuid.New().String(),
		ConversationID:  "c1",
		Question:        "how many users?",
		AnswerMessageID: "m2",
		Kind:            KindText,
	}
	require.NoError(t, s.Record(ctx, e))

	got, err := s.Get(ctx, e.ID)
	require.NoError(t, err)
	assert.Equal(t, "c1", got.ConversationID)
	assert.Equal(t, "how many users?", got.Question)
	assert.Equal(t, KindText, got.Kind)
	assert.Empty(t, got.Feedback)
	assert.False(t, got.CreatedAt.IsZero())
}

func TestRecord_AssignsIDsWhenAbsent(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	first := &Exchange{ConversationID: "c1", Question: "one", Kind: KindText}
	second := &Exchange{ConversationID: "c1", Question: "two", Kind: KindTable}
	require.NoError(t, s.Record(ctx, first))
	require.NoError(t, s.Record(ctx, second))

	assert.NotEmpty(t, first.ID)
	assert.NotEmpty(t, second.ID)
	assert.NotEqual(t, first.ID, second.ID)

	all, err := s.List(ctx, 0)
	require.NoError(t, err)
	assert.Len(t, all, 2)
}

func TestGet_NotFound(t *testing.T) {
	s := newTestStore(t)

	_, err := s.Get(context.Background(), "missing")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestList_NewestFirst(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	base := time.Now().UTC().Add(-time.Hour)
	for i, q := range []string{"first", "second", "third"} {
		require.NoError(t, s.Record(ctx, &Exchange{
			ID:             uuid.New().String(),
			ConversationID: "c1",
			Question:       q,
			Kind:           KindText,
			CreatedAt:      base.Add(time.Duration(i) * time.Minute),
		}))
	}

	all, err := s.List(ctx, 0)
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, "third", all[0].Question)
	assert.Equal(t, "first", all[2].Question)

	limited, err := s.List(ctx, 2)
	require.NoError(t, err)
	require.Len(t, limited, 2)
	assert.Equal(t, "third", limited[0].Question)
}

func TestLatest(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	_, err := s.Latest(ctx)
	assert.ErrorIs(t, err, ErrNotFound)

	require.NoError(t, s.Record(ctx, &Exchange{
		ID: "e1", ConversationID: "c1", Question: "old", Kind: KindText,
		CreatedAt: time.Now().UTC().Add(-time.Minute),
	}))
	require.NoError(t, s.Record(ctx, &Exchange{
		ID: "e2", ConversationID: "c1", Question: "new", Kind: KindTable,
		CreatedAt: time.Now().UTC(),
	}))

	latest, err := s.Latest(ctx)
	require.NoError(t, err)
	assert.Equal(t, "e2", latest.ID)
}

func TestSetFeedback(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, s.Record(ctx, &Exchange{
		ID: "e1", ConversationID: "c1", Question: "q", Kind: KindText,
	}))

	require.NoError(t, s.SetFeedback(ctx, "e1", "positive"))

	got, err := s.Get(ctx, "e1")
	require.NoError(t, err)
	assert.Equal(t, "positive", got.Feedback)

	assert.ErrorIs(t, s.SetFeedback(ctx, "missing", "negative"), ErrNotFound)
}
