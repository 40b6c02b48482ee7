package domain

import "time"

// ItemStatus is the lifecycle state of a shopping list item. An item is
// created active and is closed exactly once; closed items never reopen.
type ItemStatus string

const (
	StatusActive  ItemStatus = "active"
	StatusBought  ItemStatus = "bought"
	StatusRemoved ItemStatus = "removed"
)

// Closed reports whether the status is terminal.
func (s ItemStatus) Closed() bool {
	return s == StatusBought || s == StatusRemoved
}

// NewShoppingListItem carries the user-supplied fields of an item before it
// has been rendered and persisted.
type NewShoppingListItem struct {
	Item     string
	Personal bool
	Quantity int64
	Store    *string
	Notes    *string
}

// ShoppingListItem is one requested purchase, keyed by the ID of the message
// that renders it. The record is immutable once closed; a re-add creates a
// new record under a new message ID.
type ShoppingListItem struct {
	MessageID uint64
	UserID    uint64
	ChannelID uint64
	GuildID   *uint64
	Item      string
	Personal  bool
	Quantity  int64
	Store     *string
	Notes     *string
	Status    ItemStatus
	CreatedAt time.Time
}

// Fields returns the user-supplied fields of the item, for spawning a fresh
// record from a closed one.
func (i *ShoppingListItem) Fields() NewShoppingListItem {
	return NewShoppingListItem{
		Item:     i.Item,
		Personal: i.Personal,
		Quantity: i.Quantity,
		Store:    i.Store,
		Notes:    i.Notes,
	}
}

// OrphanedRender records a message that was rendered to the channel but whose
// backing insert failed. Orphans are swept and logged, never retried.
type OrphanedRender struct {
	MessageID  uint64
	ChannelID  uint64
	Item       string
	RecordedAt time.Time
}

// Field selects which item attribute an autocomplete request targets.
type Field string

const (
	FieldItem  Field = "item"
	FieldStore Field = "store"
)

// Action is the button identifier carried by a component interaction.
type Action string

const (
	ActionBought Action = "bought"
	ActionRemove Action = "remove"
	ActionReadd  Action = "readd"
)

// Suggestion is one autocomplete choice shown to the user.
type Suggestion struct {
	Name  string
	Value string
}
