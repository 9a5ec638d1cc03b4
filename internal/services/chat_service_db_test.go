package services

import (
	"context"
	"testing"
	"time"

	"ame_support_backend/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetOrCreateSessionIsIdempotent(t *testing.T) {
	store := NewChatServiceDB(newTestDB(t))
	ctx := context.Background()

	first, created, err := store.GetOrCreateSession(ctx, "s1", SessionOptions{ContextRetention: true, Language: "hi"})
	require.NoError(t, err)
	assert.True(t, created)
	assert.Equal(t, "hi", first.Language)

	second, created, err := store.GetOrCreateSession(ctx, "s1", SessionOptions{ContextRetention: false, Language: "ta"})
	require.NoError(t, err)
	assert.False(t, created)
	assert.Equal(t, first.ID, second.ID)
	assert.Equal(t, "hi", second.Language)
	assert.True(t, second.ContextRetention)
}

func TestGetOrCreateSessionGeneratesIDAndDefaultsLanguage(t *testing.T) {
	store := NewChatServiceDB(newTestDB(t))

	session, created, err := store.GetOrCreateSession(context.Background(), "", SessionOptions{})
	require.NoError(t, err)
	assert.True(t, created)
	assert.NotEmpty(t, session.SessionID)
	assert.Equal(t, "en", session.Language)
	assert.Empty(t, session.Turns)
}

func TestAppendTurnsKeepsInsertionOrder(t *testing.T) {
	store := NewChatServiceDB(newTestDB(t))
	ctx := context.Background()

	session, _, err := store.GetOrCreateSession(ctx, "s1", SessionOptions{ContextRetention: true})
	require.NoError(t, err)

	require.NoError(t, store.AppendTurns(ctx, session,
		models.Turn{Role: models.RoleUser, Content: "first", Severity: models.SeverityLow},
		models.Turn{Role: models.RoleAssistant, Content: "second", Resources: []string{"legal"}},
	))
	require.NoError(t, store.AppendTurns(ctx, session,
		models.Turn{Role: models.RoleUser, Content: "third"},
	))
	assert.Len(t, session.Turns, 3)

	stored, err := store.GetSession(ctx, "s1")
	require.NoError(t, err)
	require.Len(t, stored.Turns, 3)
	for i, want := range []string{"first", "second", "third"} {
		assert.Equal(t, want, stored.Turns[i].Content)
		assert.Equal(t, i, stored.Turns[i].Position)
		assert.False(t, stored.Turns[i].Timestamp.IsZero())
	}
	assert.Equal(t, []string{"legal"}, []string(stored.Turns[1].Resources))
	assert.Equal(t, int64(2), stored.Version)
}

func TestAppendTurnsRejectsStaleSession(t *testing.T) {
	store := NewChatServiceDB(newTestDB(t))
	ctx := context.Background()

	_, _, err := store.GetOrCreateSession(ctx, "s1", SessionOptions{})
	require.NoError(t, err)

	a, err := store.GetSession(ctx, "s1")
	require.NoError(t, err)
	b, err := store.GetSession(ctx, "s1")
	require.NoError(t, err)

	require.NoError(t, store.AppendTurns(ctx, a, models.Turn{Role: models.RoleUser, Content: "from a"}))
	err = store.AppendTurns(ctx, b, models.Turn{Role: models.RoleUser, Content: "from b"})
	assert.ErrorIs(t, err, ErrVersionConflict)

	stored, err := store.GetSession(ctx, "s1")
	require.NoError(t, err)
	require.Len(t, stored.Turns, 1)
	assert.Equal(t, "from a", stored.Turns[0].Content)
}

func TestGetSessionNotFound(t *testing.T) {
	store := NewChatServiceDB(newTestDB(t))
	_, err := store.GetSession(context.Background(), "missing")
	assert.ErrorIs(t, err, ErrSessionNotFound)
}

func TestListSessionsFiltersAndPaginates(t *testing.T) {
	db := newTestDB(t)
	store := NewChatServiceDB(db)
	ctx := context.Background()

	base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	for i, level := range []models.Severity{models.SeverityLow, models.SeverityEmergency, models.SeverityHigh} {
		session, _, err := store.GetOrCreateSession(ctx, "s"+string(rune('a'+i)), SessionOptions{})
		require.NoError(t, err)
		require.NoError(t, db.Model(session).Update("created_at", base.AddDate(0, 0, i)).Error)
		require.NoError(t, store.AppendTurns(ctx, session,
			models.Turn{Role: models.RoleUser, Content: "hello", Severity: level},
			models.Turn{Role: models.RoleAssistant, Content: "hi"},
		))
	}

	all, total, err := store.ListSessions(ctx, SessionFilter{Limit: 2})
	require.NoError(t, err)
	assert.Equal(t, int64(3), total)
	require.Len(t, all, 2)
	assert.Equal(t, "sc", all[0].SessionID)
	assert.Equal(t, "sb", all[1].SessionID)
	assert.Len(t, all[0].Turns, 2)

	emergencies, total, err := store.ListSessions(ctx, SessionFilter{Severity: models.SeverityEmergency})
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	require.Len(t, emergencies, 1)
	assert.Equal(t, "sb", emergencies[0].SessionID)

	ranged, total, err := store.ListSessions(ctx, SessionFilter{From: base.AddDate(0, 0, 1), Skip: 1})
	require.NoError(t, err)
	assert.Equal(t, int64(2), total)
	require.Len(t, ranged, 1)
	assert.Equal(t, "sb", ranged[0].SessionID)
}

func TestDeleteSessionRemovesTurns(t *testing.T) {
	db := newTestDB(t)
	store := NewChatServiceDB(db)
	ctx := context.Background()

	session, _, err := store.GetOrCreateSession(ctx, "s1", SessionOptions{})
	require.NoError(t, err)
	require.NoError(t, store.AppendTurns(ctx, session, models.Turn{Role: models.RoleUser, Content: "x"}))

	require.NoError(t, store.DeleteSession(ctx, "s1"))

	_, err = store.GetSession(ctx, "s1")
	assert.ErrorIs(t, err, ErrSessionNotFound)
	var turns int64
	require.NoError(t, db.Model(&models.Turn{}).Count(&turns).Error)
	assert.Zero(t, turns)

	assert.ErrorIs(t, store.DeleteSession(ctx, "s1"), ErrSessionNotFound)
}
