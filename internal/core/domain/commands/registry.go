package commands

import (
	"errors"

	"github.com/JosiahBull/tom-bot/internal/core/port"
	"github.com/rs/zerolog/log"
)

type Registry struct {
	commands      map[string]port.SlashCommand
	autocompletes map[string]port.AutocompleteCommand
	interactions  []port.InteractionCommand
}

func (r *Registry) Register(handler port.SlashCommand) {
	if r.commands == nil {
		r.commands = make(map[string]port.SlashCommand)
		r.autocompletes = make(map[string]port.AutocompleteCommand)
	}

	log.Info().Str("handler", handler.GetCommand()).Msg("adding command handler to registry")
	r.commands[handler.GetCommand()] = handler

	if ac, ok := handler.(port.AutocompleteCommand); ok {
		r.autocompletes[handler.GetCommand()] = ac
	}
	if ic, ok := handler.(port.InteractionCommand); ok {
		r.interactions = append(r.interactions, ic)
	}
}

func (r *Registry) Get(command string) (port.SlashCommand, error) {
	log.Debug().Str("command", command).Msg("fetching command handler from registry")

	if r.commands == nil {
		return nil, errors.New("can't fetch command, registry not initialized")
	}

	handler, ok := r.commands[command]
	if !ok {
		return nil, errors.New("command not found")
	}

	return handler, nil
}

func (r *Registry) GetAutocomplete(command string) (port.AutocompleteCommand, error) {
	handler, ok := r.autocompletes[command]
	if !ok {
		return nil, errors.New("command has no autocomplete")
	}

	return handler, nil
}

func (r *Registry) InteractionCommands() []port.InteractionCommand {
	return r.interactions
}
