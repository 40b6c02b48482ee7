package discord

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"

	"github.com/JosiahBull/tom-bot/internal/core/domain"
)

const defaultBaseURL = "https://discord.com/api/v10"

const ephemeralFlag = 1 << 6

// Client is a minimal Discord REST client covering the three calls the
// deferred phase needs: create a followup, fetch the original response, and
// edit a channel message.
type Client struct {
	appID      string
	botToken   string
	baseURL    string
	httpClient *http.Client
}

func NewClient(appID, botToken string) *Client {
	return &Client{
		appID:      appID,
		botToken:   botToken,
		baseURL:    defaultBaseURL,
		httpClient: http.DefaultClient,
	}
}

type embed struct {
	Description string `json:"description,omitempty"`
	Color       uint32 `json:"color,omitempty"`
}

type button struct {
	Type     int    `json:"type"`
	Style    int    `json:"style"`
	Label    string `json:"label"`
	CustomID string `json:"custom_id"`
	Disabled bool   `json:"disabled,omitempty"`
}

type actionRow struct {
	Type       int      `json:"type"`
	Components []button `json:"components"`
}

type messagePayload struct {
	Content    string      `json:"content,omitempty"`
	Embeds     []embed     `json:"embeds,omitempty"`
	Components []actionRow `json:"components"`
	Flags      int         `json:"flags,omitempty"`
}

type message struct {
	ID        string  `json:"id"`
	ChannelID string  `json:"channel_id"`
	Embeds    []embed `json:"embeds"`
}

func renderPayload(render *domain.Render) messagePayload {
	payload := messagePayload{
		Embeds:     []embed{{Description: render.Description, Color: uint32(render.Color)}},
		Components: []actionRow{},
	}

	if len(render.Buttons) > 0 {
		row := actionRow{Type: 1}
		for _, b := range render.Buttons {
			row.Components = append(row.Components, button{
				Type:     2,
				Style:    int(b.Style),
				Label:    b.Label,
				CustomID: b.ID,
				Disabled: b.Disabled,
			})
		}
		payload.Components = append(payload.Components, row)
	}

	return payload
}

func (m *message) toRendered() (*domain.RenderedMessage, error) {
	id, err := strconv.ParseUint(m.ID, 10, 64)
	if err != nil {
		return nil, fmt.Errorf("parsing message id %q: %w", m.ID, err)
	}

	channelID, err := strconv.ParseUint(m.ChannelID, 10, 64)
	if err != nil {
		return nil, fmt.Errorf("parsing channel id %q: %w", m.ChannelID, err)
	}

	rendered := &domain.RenderedMessage{ID: id, ChannelID: channelID}
	if len(m.Embeds) > 0 {
		rendered.Description = m.Embeds[0].Description
	}

	return rendered, nil
}

// CreateFollowup posts a followup message for the interaction identified by
// token and returns its platform-assigned identity.
func (c *Client) CreateFollowup(ctx context.Context, token string, payload messagePayload) (*domain.RenderedMessage, error) {
	url := fmt.Sprintf("%s/webhooks/%s/%s?wait=true", c.baseURL, c.appID, token)

	var msg message
	if err := c.do(ctx, http.MethodPost, url, &payload, &msg); err != nil {
		return nil, err
	}

	return msg.toRendered()
}

// OriginalResponse fetches the message currently rendering the interaction's
// reply, typically the deferred placeholder.
func (c *Client) OriginalResponse(ctx context.Context, token string) (*domain.RenderedMessage, error) {
	url := fmt.Sprintf("%s/webhooks/%s/%s/messages/@original", c.baseURL, c.appID, token)

	var msg message
	if err := c.do(ctx, http.MethodGet, url, nil, &msg); err != nil {
		return nil, err
	}

	return msg.toRendered()
}

// EditMessage rewrites a channel message in place. Unlike the webhook
// endpoints this is authenticated with the bot token, since the edit can
// outlive the interaction token.
func (c *Client) EditMessage(ctx context.Context, channelID, messageID uint64, payload messagePayload) error {
	url := fmt.Sprintf("%s/channels/%d/messages/%d", c.baseURL, channelID, messageID)
	return c.do(ctx, http.MethodPatch, url, &payload, nil)
}

func (c *Client) do(ctx context.Context, method, url string, payload, result any) error {
	var body io.Reader
	if payload != nil {
		buf := new(bytes.Buffer)
		if err := json.NewEncoder(buf).Encode(payload); err != nil {
			return fmt.Errorf("encoding request: %w", err)
		}
		body = buf
	}

	req, err := http.NewRequestWithContext(ctx, method, url, body)
	if err != nil {
		return fmt.Errorf("creating request: %w", err)
	}
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.botToken != "" {
		req.Header.Set("Authorization", "Bot "+c.botToken)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", domain.ErrRenderFailure, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		detail, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("%w: %s %s returned %d: %s", domain.ErrRenderFailure, method, url, resp.StatusCode, detail)
	}

	if result != nil {
		if err := json.NewDecoder(resp.Body).Decode(result); err != nil {
			return fmt.Errorf("decoding response: %w", err)
		}
	}

	return nil
}
