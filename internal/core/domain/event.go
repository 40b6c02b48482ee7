package domain

// AutocompleteEvent is an inbound request for ranked suggestions while the
// user is still typing an option value.
type AutocompleteEvent struct {
	Field  Field
	Prefix string
	UserID uint64
}

// ButtonClickEvent is an inbound component interaction against a previously
// rendered item message.
type ButtonClickEvent struct {
	Action    Action
	MessageID uint64
	UserID    uint64
}
