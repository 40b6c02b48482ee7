package handler

import (
	"context"
	"time"

	"github.com/JosiahBull/tom-bot/internal/core/domain"
	"github.com/JosiahBull/tom-bot/internal/core/port"
	"github.com/gofrs/uuid/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

var interactionsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
	Name: "tombot_interactions_total",
	Help: "Inbound interactions by kind and outcome.",
}, []string{"kind", "outcome"})

// Interaction dispatches classified inbound events to the command registry
// and translates handler outcomes into the platform's response vocabulary:
// user text is sanitized, log entries are written exactly once, internal
// detail never reaches the user.
type Interaction struct {
	registry port.CommandRegistry
	timeout  time.Duration
}

func NewInteraction(registry port.CommandRegistry, timeout time.Duration) *Interaction {
	return &Interaction{registry: registry, timeout: timeout}
}

func (h *Interaction) logger(kind string, in port.Interactor) zerolog.Logger {
	correlationID, _ := uuid.NewV4()
	return log.With().
		Str("interactionId", correlationID.String()).
		Str("kind", kind).
		Uint64("userId", in.UserID()).
		Uint64("channelId", in.ChannelID()).
		Logger()
}

// HandleSlash runs a slash command in its own goroutine. The interactor's
// synchronous window stays open until the handler defers or replies.
func (h *Interaction) HandleSlash(in port.Interactor, command string, opts domain.Options) {
	l := h.logger("slash", in).With().Str("command", command).Logger()

	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), h.timeout)
		defer cancel()

		cmd, err := h.registry.Get(command)
		if err != nil {
			l.Warn().Err(err).Msg("no handler for command")
			interactionsTotal.WithLabelValues("slash", "unrouted").Inc()
			return
		}

		resp := cmd.Respond(ctx, in, opts)
		h.finish(ctx, in, l, "slash", resp)
	}()
}

// HandleAutocomplete answers a suggestion request. A failed ranking is
// logged and degrades to an empty choice list; the user only ever sees
// fewer suggestions.
func (h *Interaction) HandleAutocomplete(in port.Interactor, command string, ev *domain.AutocompleteEvent) {
	l := h.logger("autocomplete", in).With().Str("command", command).Logger()

	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), h.timeout)
		defer cancel()

		ac, err := h.registry.GetAutocomplete(command)
		if err != nil {
			l.Warn().Err(err).Msg("no autocomplete for command")
			h.suggest(ctx, in, l, nil, "unrouted")
			return
		}

		suggestions, err := ac.Autocomplete(ctx, ev)
		if err != nil {
			resp := domain.InternalFailure(err.Error())
			resp.WriteToLog(l)
			h.suggest(ctx, in, l, nil, "internal_failure")
			return
		}

		h.suggest(ctx, in, l, suggestions, "ok")
	}()
}

// HandleComponent routes a button click to the first registered handler
// that claims the clicked message.
func (h *Interaction) HandleComponent(in port.Interactor, ev *domain.ButtonClickEvent) {
	l := h.logger("component", in).With().
		Str("action", string(ev.Action)).
		Uint64("messageId", ev.MessageID).
		Logger()

	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), h.timeout)
		defer cancel()

		for _, ic := range h.registry.InteractionCommands() {
			if !ic.Answerable(ctx, ev.MessageID) {
				continue
			}

			resp := ic.Interact(ctx, in, ev)
			h.finish(ctx, in, l, "component", resp)
			return
		}

		l.Debug().Msg("no handler claimed component interaction")
		if err := in.Acknowledge(ctx); err != nil {
			l.Warn().Err(err).Msg("failed to acknowledge unrouted interaction")
		}
		interactionsTotal.WithLabelValues("component", "unrouted").Inc()
	}()
}

func (h *Interaction) suggest(ctx context.Context, in port.Interactor, l zerolog.Logger, suggestions []domain.Suggestion, outcome string) {
	if err := in.Suggest(ctx, suggestions); err != nil {
		l.Error().Err(err).Msg("failed to deliver suggestions")
	}
	interactionsTotal.WithLabelValues("autocomplete", outcome).Inc()
}

// finish applies the outcome mapping: log once at the recorded severity,
// send only the sanitized user text, count the interaction.
func (h *Interaction) finish(ctx context.Context, in port.Interactor, l zerolog.Logger, kind string, resp domain.CommandResponse) {
	resp.WriteToLog(l)

	if text := resp.UserText(); text != "" {
		if err := in.FollowupText(ctx, text, true); err != nil {
			l.Error().Err(err).Msg("failed to deliver response to user")
		}
	}

	interactionsTotal.WithLabelValues(kind, outcomeLabel(resp.Kind)).Inc()
}

func outcomeLabel(kind domain.ResponseKind) string {
	switch kind {
	case domain.ResponseNone, domain.ResponseSuccess:
		return "ok"
	case domain.ResponseInternalFailure:
		return "internal_failure"
	default:
		return "failure"
	}
}
