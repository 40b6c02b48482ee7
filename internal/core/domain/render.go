package domain

import (
	"fmt"
	"strings"
)

// EmbedColor is the accent colour of a rendered embed.
type EmbedColor uint32

const (
	ColorRed    EmbedColor = 0xED4245
	ColorGreen  EmbedColor = 0x57F287
	ColorOrange EmbedColor = 0xE67E22
	ColorBlue   EmbedColor = 0x3498DB
)

// ButtonStyle maps to the platform's component styles.
type ButtonStyle int

const (
	StylePrimary   ButtonStyle = 1
	StyleSecondary ButtonStyle = 2
	StyleSuccess   ButtonStyle = 3
	StyleDanger    ButtonStyle = 4
)

// Button is one action button attached to a rendered message. ID is the
// custom identifier echoed back in a ButtonClickEvent.
type Button struct {
	ID       string
	Label    string
	Style    ButtonStyle
	Disabled bool
}

// Render is the outbound final-message payload: an embed description with a
// colour and a row of action buttons.
type Render struct {
	Description string
	Color       EmbedColor
	Buttons     []Button
}

// RenderedMessage identifies a message the platform has accepted, together
// with the embed description it currently shows.
type RenderedMessage struct {
	ID          uint64
	ChannelID   uint64
	Description string
}

// NewItemRender builds the initial embed and button row for an active item.
func NewItemRender(item NewShoppingListItem) *Render {
	var b strings.Builder
	fmt.Fprintf(&b, "Added x%d %s", item.Quantity, item.Item)
	if item.Personal {
		b.WriteString(" (personal)")
	}
	b.WriteString(" to the shopping list")
	if item.Store != nil {
		fmt.Fprintf(&b, " from %s", *item.Store)
	}
	if item.Notes != nil {
		fmt.Fprintf(&b, "\n**note:** %s", *item.Notes)
	}

	return &Render{
		Description: b.String(),
		Color:       ColorRed,
		Buttons: []Button{
			{ID: string(ActionBought), Label: "Bought", Style: StyleSuccess},
			{ID: string(ActionRemove), Label: "Remove", Style: StyleDanger},
			{ID: string(ActionReadd), Label: "Re-add", Style: StyleSecondary, Disabled: true},
		},
	}
}

// ClosedItemRender rewrites an item's current description for its terminal
// state, leaving only an enabled Re-add button. The bought/removed
// distinction is carried both in the stored status and in the rendered tag.
func ClosedItemRender(description string, status ItemStatus) *Render {
	r := &Render{
		Buttons: []Button{
			{ID: string(ActionReadd), Label: "Re-add", Style: StyleSecondary},
		},
	}

	if status == StatusRemoved {
		r.Description = fmt.Sprintf("(REMOVED) %s", description)
		r.Color = ColorOrange
	} else {
		r.Description = fmt.Sprintf("(BOUGHT) ~~%s~~", description)
		r.Color = ColorGreen
	}

	return r
}
