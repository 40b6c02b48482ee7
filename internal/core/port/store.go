package port

import (
	"context"

	"github.com/JosiahBull/tom-bot/internal/core/domain"
)

type ItemStore interface {
	// Insert persists a new active item keyed by the ID of its rendered
	// message. Returns domain.ErrConflict when the message ID already
	// exists, or a wrapped domain.ErrStoreUnavailable on backend failure.
	Insert(ctx context.Context, item domain.NewShoppingListItem, userID, messageID, channelID uint64, guildID *uint64) error
	// GetByMessageID fetches the item rendered by the given message, or
	// (nil, nil) when no such record exists.
	GetByMessageID(ctx context.Context, messageID uint64) (*domain.ShoppingListItem, error)
	// SetStatus closes an active item. Closing an already closed item is a
	// no-op, and a closed item never transitions back to active. The acting
	// user is recorded for logs only; ownership is deliberately not checked.
	SetStatus(ctx context.Context, userID, messageID uint64, status domain.ItemStatus) error
	// RecentItemsForUser returns up to limit of the user's most recent
	// items, newest first.
	RecentItemsForUser(ctx context.Context, userID uint64, limit int) ([]domain.ShoppingListItem, error)
	// RecentItems returns up to limit of the most recent items across all
	// users, newest first.
	RecentItems(ctx context.Context, limit int) ([]domain.ShoppingListItem, error)
	// RecordOrphan notes a rendered message whose backing insert failed so
	// the reconciler can surface the divergence.
	RecordOrphan(ctx context.Context, messageID, channelID uint64, item string) error
	// Orphans lists every recorded render/store divergence, oldest first.
	Orphans(ctx context.Context) ([]domain.OrphanedRender, error)
}
