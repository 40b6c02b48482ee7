package commands

import (
	"context"
	"fmt"

	"github.com/JosiahBull/tom-bot/internal/core/domain"
	"github.com/JosiahBull/tom-bot/internal/core/port"
	"github.com/JosiahBull/tom-bot/internal/core/service"
	"github.com/rs/zerolog/log"
)

const (
	maxItemLength  = 200
	maxStoreLength = 100
	maxNotesLength = 100
	maxQuantity    = 25
)

// ShopHandler owns the shopping list command: creating items, answering
// autocomplete for the item and store options, and applying button-click
// lifecycle transitions against the store. It keeps no item state between
// calls; every transition decision starts from a fresh read.
type ShopHandler struct {
	store     port.ItemStore
	suggester *service.Suggester
	command   string
}

func NewShopHandler(store port.ItemStore, suggester *service.Suggester, command string) *ShopHandler {
	return &ShopHandler{store: store, suggester: suggester, command: command}
}

func (h *ShopHandler) GetCommand() string {
	return h.command
}

// parseNewItem extracts and validates the slash command options. Anything
// malformed is rejected here, before any store access.
func parseNewItem(opts domain.Options) (*domain.NewShoppingListItem, string) {
	item, hasItem := opts.String("item")
	personal, hasPersonal := opts.Bool("personal")
	if !hasItem || item == "" || !hasPersonal {
		return nil, "item and personal are required"
	}

	if len(item) > maxItemLength {
		return nil, fmt.Sprintf("item must be at most %d characters", maxItemLength)
	}

	quantity := int64(1)
	if q, ok := opts.Int("quantity"); ok {
		quantity = q
	}
	if quantity < 1 || quantity > maxQuantity {
		return nil, fmt.Sprintf("quantity must be between 1 and %d", maxQuantity)
	}

	store := opts.OptionalString("store")
	if store != nil && len(*store) > maxStoreLength {
		return nil, fmt.Sprintf("store must be at most %d characters", maxStoreLength)
	}

	notes := opts.OptionalString("notes")
	if notes != nil && len(*notes) > maxNotesLength {
		return nil, fmt.Sprintf("notes must be at most %d characters", maxNotesLength)
	}

	return &domain.NewShoppingListItem{
		Item:     item,
		Personal: personal,
		Quantity: quantity,
		Store:    store,
		Notes:    notes,
	}, ""
}

// Respond handles the new-item creation path: validate, acknowledge
// provisionally, render the item message, then insert the record keyed by
// the rendered message's ID.
func (h *ShopHandler) Respond(ctx context.Context, in port.Interactor, opts domain.Options) domain.CommandResponse {
	fields, invalid := parseNewItem(opts)
	if invalid != "" {
		return domain.BasicFailure(invalid)
	}

	l := log.With().
		Uint64("userId", in.UserID()).
		Uint64("channelId", in.ChannelID()).
		Str("command", h.command).
		Logger()
	l.Info().Str("item", fields.Item).Msg("handling new item request")

	if resp := createLoadingMessage(ctx, in); resp.Kind != domain.ResponseNone {
		return resp
	}

	rendered, err := in.Followup(ctx, domain.NewItemRender(*fields))
	if err != nil {
		return domain.InternalFailure(fmt.Sprintf("error creating followup: %v", err))
	}

	return h.pushItem(ctx, in, *fields, rendered)
}

// createLoadingMessage emits the provisional acknowledgement required by the
// platform's short response window, before any store access happens.
func createLoadingMessage(ctx context.Context, in port.Interactor) domain.CommandResponse {
	if err := in.Defer(ctx); err != nil {
		return domain.InternalFailure(fmt.Sprintf("error creating interaction response: %v", err))
	}

	loading, err := in.Response(ctx)
	if err != nil {
		return domain.InternalFailure(fmt.Sprintf("error fetching loading message: %v", err))
	}

	log.Debug().Uint64("messageId", loading.ID).Msg("created loading message")
	return domain.NoResponse()
}

// pushItem inserts the record backing an already rendered message. If the
// insert fails the message is left in place without a record: the failure is
// logged, noted in the orphan ledger, and reported to the acting user as an
// ephemeral notice. It is never retried, because a retry risks a duplicate
// visible message.
func (h *ShopHandler) pushItem(ctx context.Context, in port.Interactor, fields domain.NewShoppingListItem, rendered *domain.RenderedMessage) domain.CommandResponse {
	err := h.store.Insert(ctx, fields, in.UserID(), rendered.ID, in.ChannelID(), in.GuildID())
	if err == nil {
		return domain.NoResponse()
	}

	log.Error().Err(err).
		Uint64("messageId", rendered.ID).
		Uint64("channelId", in.ChannelID()).
		Msg("error adding shopping list item")

	if oErr := h.store.RecordOrphan(ctx, rendered.ID, in.ChannelID(), fields.Item); oErr != nil {
		log.Warn().Err(oErr).Uint64("messageId", rendered.ID).Msg("failed to record orphaned render")
	}

	if fErr := in.FollowupText(ctx, "error communicating with database", true); fErr != nil {
		log.Error().Err(fErr).Msg("error sending failure notice")
	}

	return domain.NoResponse()
}

// Autocomplete ranks candidates for the item and store options.
func (h *ShopHandler) Autocomplete(ctx context.Context, ev *domain.AutocompleteEvent) ([]domain.Suggestion, error) {
	return h.suggester.Suggest(ctx, ev.Field, ev.UserID, ev.Prefix)
}

// Answerable reports whether the clicked message backs a shopping list item.
func (h *ShopHandler) Answerable(ctx context.Context, messageID uint64) bool {
	item, err := h.store.GetByMessageID(ctx, messageID)
	if err != nil {
		log.Error().Err(err).Uint64("messageId", messageID).Msg("error communicating with database")
		return false
	}
	return item != nil
}

// Interact applies one button click. Transitions: active items close on
// bought/remove (idempotent at the store, so a concurrent double click is
// harmless); closed items spawn a brand-new record on readd. Unknown
// actions mutate nothing.
func (h *ShopHandler) Interact(ctx context.Context, in port.Interactor, ev *domain.ButtonClickEvent) domain.CommandResponse {
	item, err := h.store.GetByMessageID(ctx, ev.MessageID)
	if err != nil {
		return domain.InternalFailure(fmt.Sprintf("error communicating with database: %v", err))
	}
	if item == nil {
		return domain.InternalFailure(fmt.Sprintf("message %d: %v", ev.MessageID, domain.ErrNotFound))
	}

	switch ev.Action {
	case domain.ActionBought:
		return h.closeItem(ctx, in, ev, domain.StatusBought)
	case domain.ActionRemove:
		return h.closeItem(ctx, in, ev, domain.StatusRemoved)
	case domain.ActionReadd:
		return h.readdItem(ctx, in, item)
	default:
		return domain.InternalFailure(fmt.Sprintf("%v: %q", domain.ErrUnknownAction, ev.Action))
	}
}

// closeItem marks the item terminal in the store, then rewrites the message
// to its closed rendering. The store mutation is committed first; an edit
// failure afterwards leaves visible and stored state diverged, which is
// accepted over attempting a compensating transaction.
func (h *ShopHandler) closeItem(ctx context.Context, in port.Interactor, ev *domain.ButtonClickEvent, status domain.ItemStatus) domain.CommandResponse {
	if err := h.store.SetStatus(ctx, ev.UserID, ev.MessageID, status); err != nil {
		return domain.InternalFailure(fmt.Sprintf("error communicating with database: %v", err))
	}

	msg := in.Message()
	if msg == nil {
		return domain.InternalFailure("component interaction without a source message")
	}

	render := domain.ClosedItemRender(msg.Description, status)
	if err := in.EditMessage(ctx, in.ChannelID(), ev.MessageID, render); err != nil {
		// Already closed in the store; only the rendering is stale.
		return domain.InternalFailure(fmt.Sprintf("error editing message after close: %v", err))
	}

	if err := in.Acknowledge(ctx); err != nil {
		log.Warn().Err(err).Uint64("messageId", ev.MessageID).Msg("failed to acknowledge interaction")
	}

	log.Info().
		Uint64("messageId", ev.MessageID).
		Uint64("userId", ev.UserID).
		Str("status", string(status)).
		Msg("closed shopping list item")

	return domain.NoResponse()
}

// readdItem spawns a new active record copying the closed item's fields
// under a freshly rendered message. The closed record is never mutated.
// Concurrent readd clicks may create duplicate items; that race is accepted
// rather than masked.
func (h *ShopHandler) readdItem(ctx context.Context, in port.Interactor, item *domain.ShoppingListItem) domain.CommandResponse {
	if resp := createLoadingMessage(ctx, in); resp.Kind != domain.ResponseNone {
		return resp
	}

	fields := item.Fields()
	rendered, err := in.Followup(ctx, domain.NewItemRender(fields))
	if err != nil {
		return domain.InternalFailure(fmt.Sprintf("error creating followup: %v", err))
	}

	log.Info().
		Uint64("closedMessageId", item.MessageID).
		Uint64("messageId", rendered.ID).
		Str("item", fields.Item).
		Msg("re-adding shopping list item")

	return h.pushItem(ctx, in, fields, rendered)
}
