package discord

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/JosiahBull/tom-bot/internal/core/domain"
)

// Interaction response callback types.
const (
	responsePong                   = 1
	responseMessage                = 4
	responseDeferred               = 5
	responseDeferredUpdate         = 6
	responseAutocompleteSuggestion = 8
)

var errWindowClosed = errors.New("synchronous response window already answered")

type callbackPayload struct {
	Type int           `json:"type"`
	Data *callbackData `json:"data,omitempty"`
}

type callbackData struct {
	Content string       `json:"content,omitempty"`
	Flags   int          `json:"flags,omitempty"`
	Choices []choiceItem `json:"choices,omitempty"`
}

type choiceItem struct {
	Name  string `json:"name"`
	Value string `json:"value"`
}

// syncResponder funnels the single synchronous interaction response through
// a once-guarded channel: whoever answers first (the command handler
// deferring, an autocomplete reply, or the webhook's own timeout fallback)
// wins; every later attempt fails with errWindowClosed.
type syncResponder struct {
	once sync.Once
	ch   chan []byte
}

func newSyncResponder() *syncResponder {
	return &syncResponder{ch: make(chan []byte, 1)}
}

func (s *syncResponder) respond(payload callbackPayload) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("encoding interaction response: %w", err)
	}

	delivered := false
	s.once.Do(func() {
		s.ch <- body
		delivered = true
	})
	if !delivered {
		return errWindowClosed
	}

	return nil
}

// wait blocks until a response arrives or the window elapses, in which case
// fallback is submitted (racing a late handler response; either way exactly
// one body comes back).
func (s *syncResponder) wait(window time.Duration, fallback callbackPayload) ([]byte, bool) {
	timer := time.NewTimer(window)
	defer timer.Stop()

	select {
	case body := <-s.ch:
		return body, false
	case <-timer.C:
	}

	//nolint:errcheck // a losing race here still leaves a body in the channel
	s.respond(fallback)
	return <-s.ch, true
}

// webhookInteractor implements port.Interactor for one inbound interaction.
// The provisional acknowledgement travels back as the HTTP response to the
// webhook request; everything afterwards goes through the REST client.
type webhookInteractor struct {
	client    *Client
	sync      *syncResponder
	token     string
	userID    uint64
	channelID uint64
	guildID   *uint64
	msg       *domain.RenderedMessage
}

func (i *webhookInteractor) Defer(ctx context.Context) error {
	return i.sync.respond(callbackPayload{Type: responseDeferred})
}

func (i *webhookInteractor) Acknowledge(ctx context.Context) error {
	err := i.sync.respond(callbackPayload{Type: responseDeferredUpdate})
	if errors.Is(err, errWindowClosed) {
		// Nothing left to do; the window response already acknowledged.
		return nil
	}
	return err
}

func (i *webhookInteractor) Suggest(ctx context.Context, suggestions []domain.Suggestion) error {
	choices := make([]choiceItem, len(suggestions))
	for n, s := range suggestions {
		choices[n] = choiceItem{Name: s.Name, Value: s.Value}
	}

	return i.sync.respond(callbackPayload{
		Type: responseAutocompleteSuggestion,
		Data: &callbackData{Choices: choices},
	})
}

func (i *webhookInteractor) Response(ctx context.Context) (*domain.RenderedMessage, error) {
	return i.client.OriginalResponse(ctx, i.token)
}

func (i *webhookInteractor) Followup(ctx context.Context, render *domain.Render) (*domain.RenderedMessage, error) {
	return i.client.CreateFollowup(ctx, i.token, renderPayload(render))
}

// FollowupText delivers plain text to the user. If the synchronous window is
// still open the text rides the interaction response itself; otherwise it is
// posted as a followup.
func (i *webhookInteractor) FollowupText(ctx context.Context, text string, ephemeral bool) error {
	flags := 0
	if ephemeral {
		flags = ephemeralFlag
	}

	err := i.sync.respond(callbackPayload{
		Type: responseMessage,
		Data: &callbackData{Content: text, Flags: flags},
	})
	if err == nil {
		return nil
	}
	if !errors.Is(err, errWindowClosed) {
		return err
	}

	_, err = i.client.CreateFollowup(ctx, i.token, messagePayload{Content: text, Flags: flags})
	return err
}

func (i *webhookInteractor) EditMessage(ctx context.Context, channelID, messageID uint64, render *domain.Render) error {
	return i.client.EditMessage(ctx, channelID, messageID, renderPayload(render))
}

func (i *webhookInteractor) Message() *domain.RenderedMessage {
	return i.msg
}

func (i *webhookInteractor) UserID() uint64 {
	return i.userID
}

func (i *webhookInteractor) ChannelID() uint64 {
	return i.channelID
}

func (i *webhookInteractor) GuildID() *uint64 {
	return i.guildID
}
