package store

import (
	"context"
	"fmt"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/dkeye/projectchat/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// setupTestDB creates a throwaway sqlite database for testing.
func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := Open(filepath.Join(t.TempDir(), "chat.db"), logger.Silent)
	require.NoError(t, err)
	t.Cleanup(func() { _ = Close(db) })
	return db
}

func TestMessageStore_AppendAssignsIdentityAndOrder(t *testing.T) {
	ctx := context.Background()
	s := NewMessageStore(setupTestDB(t))

	first, err := s.Append(ctx, "p1", "u1", "hello", "")
	require.NoError(t, err)
	second, err := s.Append(ctx, "p1", "u2", "world", "files/a.png")
	require.NoError(t, err)
	other, err := s.Append(ctx, "p2", "u1", "elsewhere", "")
	require.NoError(t, err)

	assert.NotEmpty(t, first.ID)
	assert.NotEqual(t, first.ID, second.ID)
	assert.Equal(t, uint64(1), first.Seq)
	assert.Equal(t, uint64(2), second.Seq)
	assert.Equal(t, uint64(1), other.Seq, "sequences are per project")
	assert.False(t, second.CreatedAt.Before(first.CreatedAt))

	msgs, err := s.List(ctx, "p1", 0)
	require.NoError(t, err)
	require.Len(t, msgs, 2)
	assert.Equal(t, first.ID, msgs[0].ID)
	assert.Equal(t, second.ID, msgs[1].ID)
	assert.Equal(t, "files/a.png", msgs[1].Attachment)
	assert.True(t, msgs[1].CreatedAt.Equal(second.CreatedAt))
}

func TestMessageStore_TimestampNeverGoesBackwards(t *testing.T) {
	ctx := context.Background()
	s := NewMessageStore(setupTestDB(t))
	base := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)

	s.now = func() time.Time { return base }
	first, err := s.Append(ctx, "p1", "u1", "one", "")
	require.NoError(t, err)

	// wall clock stepped back
	s.now = func() time.Time { return base.Add(-time.Hour) }
	second, err := s.Append(ctx, "p1", "u1", "two", "")
	require.NoError(t, err)

	assert.True(t, second.CreatedAt.Equal(first.CreatedAt))
	assert.Greater(t, second.Seq, first.Seq)
}

func TestMessageStore_ListAfter(t *testing.T) {
	ctx := context.Background()
	s := NewMessageStore(setupTestDB(t))
	for i := 0; i < 5; i++ {
		_, err := s.Append(ctx, "p1", "u1", fmt.Sprintf("m%d", i), "")
		require.NoError(t, err)
	}

	msgs, err := s.List(ctx, "p1", 3)
	require.NoError(t, err)
	require.Len(t, msgs, 2)
	assert.Equal(t, uint64(4), msgs[0].Seq)
	assert.Equal(t, "m4", msgs[1].Text)
}

func TestMessageStore_ListEmptyProject(t *testing.T) {
	s := NewMessageStore(setupTestDB(t))
	msgs, err := s.List(context.Background(), "nothing-yet", 0)
	require.NoError(t, err)
	assert.NotNil(t, msgs)
	assert.Empty(t, msgs)
}

func TestMessageStore_ConcurrentAppendsLoseNothing(t *testing.T) {
	ctx := context.Background()
	s := NewMessageStore(setupTestDB(t))

	const writers, perWriter = 8, 10
	var wg sync.WaitGroup
	errs := make(chan error, writers*perWriter)
	for w := 0; w < writers; w++ {
		wg.Add(1)
		go func(w int) {
			defer wg.Done()
			for i := 0; i < perWriter; i++ {
				if _, err := s.Append(ctx, "p1", domain.UserID(fmt.Sprintf("u%d", w)), fmt.Sprintf("%d-%d", w, i), ""); err != nil {
					errs <- err
				}
			}
		}(w)
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		t.Errorf("append: %v", err)
	}

	msgs, err := s.List(ctx, "p1", 0)
	require.NoError(t, err)
	require.Len(t, msgs, writers*perWriter)
	for i, m := range msgs {
		assert.Equal(t, uint64(i+1), m.Seq)
		if i > 0 {
			assert.False(t, m.CreatedAt.Before(msgs[i-1].CreatedAt))
		}
	}
}

func TestMessageStore_StorageErrorIsTagged(t *testing.T) {
	db := setupTestDB(t)
	s := NewMessageStore(db)
	require.NoError(t, Close(db))

	_, err := s.Append(context.Background(), "p1", "u1", "hello", "")
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrStorage)
}
