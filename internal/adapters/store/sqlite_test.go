package store

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/JosiahBull/tom-bot/internal/core/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestStore(t *testing.T) *SQLite {
	t.Helper()

	s, err := NewSQLite(filepath.Join(t.TempDir(), "data", "tombot.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })

	return s
}

func TestInsertAndGet(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	guild := uint64(55)
	storeName := "Harvest Market"
	fields := domain.NewShoppingListItem{
		Item:     "milk 2L",
		Personal: true,
		Quantity: 2,
		Store:    &storeName,
	}

	require.NoError(t, s.Insert(ctx, fields, 1, 10, 7, &guild))

	item, err := s.GetByMessageID(ctx, 10)
	require.NoError(t, err)
	require.NotNil(t, item)

	assert.Equal(t, uint64(10), item.MessageID)
	assert.Equal(t, uint64(1), item.UserID)
	assert.Equal(t, uint64(7), item.ChannelID)
	require.NotNil(t, item.GuildID)
	assert.Equal(t, uint64(55), *item.GuildID)
	assert.Equal(t, "milk 2L", item.Item)
	assert.True(t, item.Personal)
	assert.Equal(t, int64(2), item.Quantity)
	require.NotNil(t, item.Store)
	assert.Equal(t, "Harvest Market", *item.Store)
	assert.Nil(t, item.Notes)
	assert.Equal(t, domain.StatusActive, item.Status)
	assert.False(t, item.CreatedAt.IsZero())
}

func TestGetMissingReturnsNil(t *testing.T) {
	s := newTestStore(t)

	item, err := s.GetByMessageID(context.Background(), 999)
	require.NoError(t, err)
	assert.Nil(t, item)
}

func TestInsertDuplicateMessageID(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	fields := domain.NewShoppingListItem{Item: "milk 2L", Quantity: 1}

	require.NoError(t, s.Insert(ctx, fields, 1, 10, 7, nil))

	err := s.Insert(ctx, fields, 1, 10, 7, nil)
	require.ErrorIs(t, err, domain.ErrConflict)
}

func TestSetStatusClosesActiveItem(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, s.Insert(ctx, domain.NewShoppingListItem{Item: "milk 2L", Quantity: 1}, 1, 10, 7, nil))
	require.NoError(t, s.SetStatus(ctx, 1, 10, domain.StatusBought))

	item, err := s.GetByMessageID(ctx, 10)
	require.NoError(t, err)
	require.NotNil(t, item)
	assert.Equal(t, domain.StatusBought, item.Status)
}

func TestSetStatusNeverRevertsClosedItem(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, s.Insert(ctx, domain.NewShoppingListItem{Item: "milk 2L", Quantity: 1}, 1, 10, 7, nil))
	require.NoError(t, s.SetStatus(ctx, 1, 10, domain.StatusBought))

	// Idempotent: a second close, even with the other terminal status, is a
	// successful no-op.
	require.NoError(t, s.SetStatus(ctx, 2, 10, domain.StatusRemoved))

	item, err := s.GetByMessageID(ctx, 10)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusBought, item.Status)
}

func TestSetStatusRejectsReopening(t *testing.T) {
	s := newTestStore(t)

	err := s.SetStatus(context.Background(), 1, 10, domain.StatusActive)
	require.Error(t, err)
}

func TestSetStatusMissingItemIsNoOp(t *testing.T) {
	s := newTestStore(t)

	require.NoError(t, s.SetStatus(context.Background(), 1, 999, domain.StatusBought))
}

func TestRecentItemsOrdering(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	for i, name := range []string{"milk 2L", "bread", "eggs dozen"} {
		fields := domain.NewShoppingListItem{Item: name, Quantity: 1}
		require.NoError(t, s.Insert(ctx, fields, 1, uint64(10+i), 7, nil))
	}
	require.NoError(t, s.Insert(ctx, domain.NewShoppingListItem{Item: "coffee", Quantity: 1}, 2, 20, 7, nil))

	items, err := s.RecentItems(ctx, 10)
	require.NoError(t, err)
	require.Len(t, items, 4)
	assert.Equal(t, "coffee", items[0].Item, "newest first")

	userItems, err := s.RecentItemsForUser(ctx, 1, 10)
	require.NoError(t, err)
	require.Len(t, userItems, 3)
	assert.Equal(t, "eggs dozen", userItems[0].Item)
	assert.Equal(t, "milk 2L", userItems[2].Item)

	limited, err := s.RecentItemsForUser(ctx, 1, 2)
	require.NoError(t, err)
	assert.Len(t, limited, 2)
}

func TestOrphanLedger(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, s.RecordOrphan(ctx, 10, 7, "milk 2L"))
	require.NoError(t, s.RecordOrphan(ctx, 11, 7, "bread"))

	// Recording the same message twice keeps the first entry.
	require.NoError(t, s.RecordOrphan(ctx, 10, 7, "milk 2L"))

	orphans, err := s.Orphans(ctx)
	require.NoError(t, err)
	require.Len(t, orphans, 2)
	assert.Equal(t, uint64(10), orphans[0].MessageID)
	assert.Equal(t, "milk 2L", orphans[0].Item)
	assert.Equal(t, uint64(11), orphans[1].MessageID)
}
