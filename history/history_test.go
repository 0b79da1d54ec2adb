// Copyright (c) Microsoft. All rights reserved.

package history

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/jochenvw/agent-service-go/agents"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	db, err := gorm.Open(sqlite.Open("file::memory:?cache=shared"), &gorm.Config{})
	require.NoError(t, err)
	t.Cleanup(func() {
		db.Exec("DELETE FROM chat_messages")
	})

	store, err := New(db)
	require.NoError(t, err)
	return store
}

func TestAppendAndHistory(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, store.Append(ctx, "alice", "th_1", agents.RoleUser, "hello"))
	require.NoError(t, store.Append(ctx, "alice", "th_1", agents.RoleAssistant, "hi there"))
	require.NoError(t, store.Append(ctx, "bob", "th_2", agents.RoleUser, "unrelated"))

	msgs, err := store.History(ctx, "alice")
	require.NoError(t, err)
	require.Len(t, msgs, 2)

	assert.Equal(t, "hello", msgs[0].Message)
	assert.Equal(t, string(agents.RoleUser), msgs[0].Role)
	assert.Equal(t, "hi there", msgs[1].Message)
	assert.Equal(t, "th_1", msgs[1].ThreadID)
}

func TestHistoryEmpty(t *testing.T) {
	store := newTestStore(t)

	msgs, err := store.History(context.Background(), "nobody")
	require.NoError(t, err)
	assert.Empty(t, msgs)
}

func TestThreadForExisting(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, store.Append(ctx, "alice", "th_existing", agents.RoleUser, "hello"))

	threadID, err := store.ThreadFor(ctx, "alice", func(context.Context) (string, error) {
		t.Fatal("creator must not be called when a thread exists")
		return "", nil
	})
	require.NoError(t, err)
	assert.Equal(t, "th_existing", threadID)
}

func TestThreadForCreatesNew(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	created := 0
	threadID, err := store.ThreadFor(ctx, "fresh-user", func(context.Context) (string, error) {
		created++
		return "th_new", nil
	})
	require.NoError(t, err)
	assert.Equal(t, "th_new", threadID)
	assert.Equal(t, 1, created)
}

func TestThreadForCreatorError(t *testing.T) {
	store := newTestStore(t)

	wantErr := errors.New("service unavailable")
	_, err := store.ThreadFor(context.Background(), "fresh-user", func(context.Context) (string, error) {
		return "", wantErr
	})
	assert.ErrorIs(t, err, wantErr)
}

func TestThreadForNoCreator(t *testing.T) {
	store := newTestStore(t)

	_, err := store.ThreadFor(context.Background(), "fresh-user", nil)
	assert.Error(t, err)
}
