package port

import (
	"context"

	"github.com/JosiahBull/tom-bot/internal/core/domain"
)

// Interactor is the capability set shared by every interaction origin.
// Slash commands and button clicks are distinct platform shapes but expose
// the same surface, so the command layer handles both through this one
// interface.
type Interactor interface {
	// Defer emits the provisional acknowledgement within the platform's
	// synchronous response window. Must be called at most once per event.
	Defer(ctx context.Context) error
	// Acknowledge silently completes the interaction with no visible reply.
	Acknowledge(ctx context.Context) error
	// Response fetches the message currently rendering this interaction's
	// reply, typically the placeholder created by Defer.
	Response(ctx context.Context) (*domain.RenderedMessage, error)
	// Followup renders a new message in the deferred phase and returns its
	// platform-assigned identity.
	Followup(ctx context.Context, render *domain.Render) (*domain.RenderedMessage, error)
	// FollowupText sends a plain-text followup, optionally visible only to
	// the acting user.
	FollowupText(ctx context.Context, text string, ephemeral bool) error
	// EditMessage rewrites a previously rendered message in place.
	EditMessage(ctx context.Context, channelID, messageID uint64, render *domain.Render) error
	// Suggest answers an autocomplete interaction with ranked choices.
	// Like Defer, it consumes the synchronous response window.
	Suggest(ctx context.Context, suggestions []domain.Suggestion) error

	// Message is the rendered message a component interaction originated
	// from; nil for slash commands.
	Message() *domain.RenderedMessage
	UserID() uint64
	ChannelID() uint64
	GuildID() *uint64
}
