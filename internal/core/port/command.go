package port

import (
	"context"

	"github.com/JosiahBull/tom-bot/internal/core/domain"
)

type SlashCommand interface {
	// Respond processes a parsed slash command and drives all rendering
	// through the interactor.
	Respond(ctx context.Context, in Interactor, opts domain.Options) domain.CommandResponse
	// GetCommand retrieves the command identifier associated with this
	// handler.
	GetCommand() string
}

type AutocompleteCommand interface {
	// Autocomplete builds the ranked suggestion list for a partially typed
	// option value. The result never exceeds the platform's choice ceiling.
	Autocomplete(ctx context.Context, ev *domain.AutocompleteEvent) ([]domain.Suggestion, error)
	GetCommand() string
}

type InteractionCommand interface {
	// Answerable reports whether this handler owns the message a component
	// interaction originated from.
	Answerable(ctx context.Context, messageID uint64) bool
	// Interact applies a button click against the stored item state.
	Interact(ctx context.Context, in Interactor, ev *domain.ButtonClickEvent) domain.CommandResponse
	GetCommand() string
}

type CommandRegistry interface {
	// Register adds a handler to the registry, indexing every capability it
	// implements.
	Register(handler SlashCommand)
	// Get retrieves a slash handler by command name.
	Get(command string) (SlashCommand, error)
	// GetAutocomplete retrieves the autocomplete capability of a command,
	// if it has one.
	GetAutocomplete(command string) (AutocompleteCommand, error)
	// InteractionCommands lists every handler that can answer component
	// interactions.
	InteractionCommands() []InteractionCommand
}
