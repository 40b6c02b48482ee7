package commands

import (
	"context"
	"fmt"
	"strings"

	"github.com/JosiahBull/tom-bot/internal/core/domain"
	"github.com/JosiahBull/tom-bot/internal/core/port"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// DistanceHandler answers the distance command: travel minutes from a
// queried address to the configured destinations, via the maps provider.
type DistanceHandler struct {
	provider port.DistanceProvider
	command  string
}

func NewDistanceHandler(provider port.DistanceProvider, command string) *DistanceHandler {
	return &DistanceHandler{provider: provider, command: command}
}

func (h *DistanceHandler) GetCommand() string {
	return h.command
}

func (h *DistanceHandler) Respond(ctx context.Context, in port.Interactor, opts domain.Options) domain.CommandResponse {
	address, ok := opts.String("address")
	if !ok || address == "" {
		return domain.BasicFailure("address is required")
	}
	if len(address) > maxItemLength {
		return domain.BasicFailure(fmt.Sprintf("address must be at most %d characters", maxItemLength))
	}

	log.Info().Str("command", h.command).Str("address", address).Msg("handling distance request")

	if resp := createLoadingMessage(ctx, in); resp.Kind != domain.ResponseNone {
		return resp
	}

	times, err := h.provider.TravelTimes(ctx, address)
	if err != nil {
		return domain.ComplexFailure(
			"Google API returned error, it has been logged.",
			zerolog.ErrorLevel,
			fmt.Sprintf("failed to calculate distances for %q: %v", address, err),
		)
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Travel times from %s:\n", address)
	for _, t := range times {
		fmt.Fprintf(&b, "**%s**: %d min\n", t.Destination, t.Minutes)
	}

	if _, err := in.Followup(ctx, &domain.Render{Description: b.String(), Color: domain.ColorBlue}); err != nil {
		return domain.InternalFailure(fmt.Sprintf("error returning distance embed: %v", err))
	}

	return domain.NoResponse()
}
