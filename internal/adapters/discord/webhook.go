package discord

import (
	"crypto/ed25519"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/JosiahBull/tom-bot/internal/adapters/handler"
	"github.com/JosiahBull/tom-bot/internal/core/domain"
	"github.com/rs/zerolog/log"
)

// Inbound interaction types.
const (
	interactionPing         = 1
	interactionCommand      = 2
	interactionComponent    = 3
	interactionAutocomplete = 4
)

const maxBodySize = 1 << 20

// Webhook receives interaction events over Discord's outgoing webhook
// transport. The HTTP response to each request carries the one synchronous
// interaction response; command handlers run concurrently and use the REST
// client for everything after the provisional acknowledgement.
type Webhook struct {
	publicKey  ed25519.PublicKey
	client     *Client
	dispatcher *handler.Interaction
	window     time.Duration
}

func NewWebhook(publicKeyHex string, client *Client, dispatcher *handler.Interaction, window time.Duration) (*Webhook, error) {
	key, err := hex.DecodeString(publicKeyHex)
	if err != nil {
		return nil, fmt.Errorf("decoding public key: %w", err)
	}
	if len(key) != ed25519.PublicKeySize {
		return nil, fmt.Errorf("public key must be %d bytes, got %d", ed25519.PublicKeySize, len(key))
	}

	return &Webhook{
		publicKey:  ed25519.PublicKey(key),
		client:     client,
		dispatcher: dispatcher,
		window:     window,
	}, nil
}

type interactionUser struct {
	ID string `json:"id"`
}

type interactionOption struct {
	Name    string          `json:"name"`
	Value   json.RawMessage `json:"value"`
	Focused bool            `json:"focused"`
}

type interactionRequest struct {
	Type      int    `json:"type"`
	Token     string `json:"token"`
	GuildID   string `json:"guild_id"`
	ChannelID string `json:"channel_id"`
	Member    *struct {
		User interactionUser `json:"user"`
	} `json:"member"`
	User *interactionUser `json:"user"`
	Data struct {
		Name     string              `json:"name"`
		CustomID string              `json:"custom_id"`
		Options  []interactionOption `json:"options"`
	} `json:"data"`
	Message *message `json:"message"`
}

func (w *Webhook) ServeHTTP(rw http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(io.LimitReader(r.Body, maxBodySize))
	if err != nil {
		http.Error(rw, "failed to read body", http.StatusBadRequest)
		return
	}

	if !w.verify(r.Header, body) {
		log.Warn().Str("remote", r.RemoteAddr).Msg("rejected interaction with invalid signature")
		http.Error(rw, "invalid request signature", http.StatusUnauthorized)
		return
	}

	var req interactionRequest
	if err := json.Unmarshal(body, &req); err != nil {
		log.Warn().Err(err).Msg("malformed interaction payload")
		http.Error(rw, "malformed payload", http.StatusBadRequest)
		return
	}

	if req.Type == interactionPing {
		writeJSON(rw, callbackPayload{Type: responsePong})
		return
	}

	in, err := w.interactorFor(&req)
	if err != nil {
		log.Warn().Err(err).Msg("unroutable interaction")
		http.Error(rw, "malformed payload", http.StatusBadRequest)
		return
	}

	fallback, err := w.dispatch(&req, in)
	if err != nil {
		log.Warn().Err(err).Int("type", req.Type).Msg("failed to dispatch interaction")
		http.Error(rw, "malformed payload", http.StatusBadRequest)
		return
	}

	response, timedOut := in.sync.wait(w.window, fallback)
	if timedOut {
		log.Warn().
			Int("type", req.Type).
			Uint64("userId", in.userID).
			Msg("handler missed the synchronous response window")
	}

	rw.Header().Set("Content-Type", "application/json")
	if _, err := rw.Write(response); err != nil {
		log.Error().Err(err).Msg("failed to write interaction response")
	}
}

func (w *Webhook) verify(header http.Header, body []byte) bool {
	sig, err := hex.DecodeString(header.Get("X-Signature-Ed25519"))
	if err != nil || len(sig) != ed25519.SignatureSize {
		return false
	}

	timestamp := header.Get("X-Signature-Timestamp")
	if timestamp == "" {
		return false
	}

	signed := make([]byte, 0, len(timestamp)+len(body))
	signed = append(signed, timestamp...)
	signed = append(signed, body...)

	return ed25519.Verify(w.publicKey, signed, sig)
}

// dispatch classifies the interaction and hands it to the dispatcher,
// returning the fallback payload to use if no handler answers the
// synchronous window in time.
func (w *Webhook) dispatch(req *interactionRequest, in *webhookInteractor) (callbackPayload, error) {
	switch req.Type {
	case interactionCommand:
		opts, err := decodeOptions(req.Data.Options)
		if err != nil {
			return callbackPayload{}, err
		}
		w.dispatcher.HandleSlash(in, req.Data.Name, opts)
		return callbackPayload{Type: responseDeferred}, nil

	case interactionAutocomplete:
		ev, err := autocompleteEvent(req, in.userID)
		if err != nil {
			return callbackPayload{}, err
		}
		w.dispatcher.HandleAutocomplete(in, req.Data.Name, ev)
		return callbackPayload{
			Type: responseAutocompleteSuggestion,
			Data: &callbackData{Choices: []choiceItem{}},
		}, nil

	case interactionComponent:
		if in.msg == nil {
			return callbackPayload{}, fmt.Errorf("component interaction without message")
		}
		w.dispatcher.HandleComponent(in, &domain.ButtonClickEvent{
			Action:    domain.Action(req.Data.CustomID),
			MessageID: in.msg.ID,
			UserID:    in.userID,
		})
		return callbackPayload{Type: responseDeferredUpdate}, nil

	default:
		return callbackPayload{}, fmt.Errorf("unsupported interaction type %d", req.Type)
	}
}

func (w *Webhook) interactorFor(req *interactionRequest) (*webhookInteractor, error) {
	user := req.User
	if req.Member != nil {
		user = &req.Member.User
	}
	if user == nil {
		return nil, fmt.Errorf("interaction without a user")
	}

	userID, err := strconv.ParseUint(user.ID, 10, 64)
	if err != nil {
		return nil, fmt.Errorf("parsing user id %q: %w", user.ID, err)
	}

	channelID, err := strconv.ParseUint(req.ChannelID, 10, 64)
	if err != nil {
		return nil, fmt.Errorf("parsing channel id %q: %w", req.ChannelID, err)
	}

	var guildID *uint64
	if req.GuildID != "" {
		id, err := strconv.ParseUint(req.GuildID, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("parsing guild id %q: %w", req.GuildID, err)
		}
		guildID = &id
	}

	in := &webhookInteractor{
		client:    w.client,
		sync:      newSyncResponder(),
		token:     req.Token,
		userID:    userID,
		channelID: channelID,
		guildID:   guildID,
	}

	if req.Message != nil {
		rendered, err := req.Message.toRendered()
		if err != nil {
			return nil, err
		}
		in.msg = rendered
	}

	return in, nil
}

func decodeOptions(options []interactionOption) (domain.Options, error) {
	opts := make(domain.Options, len(options))
	for _, o := range options {
		var value any
		if err := json.Unmarshal(o.Value, &value); err != nil {
			return nil, fmt.Errorf("decoding option %q: %w", o.Name, err)
		}
		opts[o.Name] = value
	}

	return opts, nil
}

func autocompleteEvent(req *interactionRequest, userID uint64) (*domain.AutocompleteEvent, error) {
	for _, o := range req.Data.Options {
		if !o.Focused {
			continue
		}

		var prefix string
		if err := json.Unmarshal(o.Value, &prefix); err != nil {
			return nil, fmt.Errorf("decoding focused option %q: %w", o.Name, err)
		}

		field := domain.Field(o.Name)
		if field != domain.FieldItem && field != domain.FieldStore {
			return nil, fmt.Errorf("invalid autocomplete option %q", o.Name)
		}

		return &domain.AutocompleteEvent{Field: field, Prefix: prefix, UserID: userID}, nil
	}

	return nil, fmt.Errorf("autocomplete interaction without a focused option")
}

func writeJSON(rw http.ResponseWriter, payload callbackPayload) {
	rw.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(rw).Encode(payload); err != nil {
		log.Error().Err(err).Msg("failed to write interaction response")
	}
}
