package domain

import (
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// ResponseKind discriminates the outcomes a command handler can produce.
type ResponseKind int

const (
	// ResponseNone means the handler already rendered everything itself.
	ResponseNone ResponseKind = iota
	// ResponseSuccess sends the contained text to the user.
	ResponseSuccess
	// ResponseFailure sends the contained text to the user and logs it.
	ResponseFailure
	// ResponseComplexFailure sends sanitized text to the user and logs a
	// separate message at the given severity.
	ResponseComplexFailure
	// ResponseInternalFailure logs the contained text and tells the user
	// only that an internal error occurred.
	ResponseInternalFailure
)

const internalErrorText = "An internal error occurred."

// CommandResponse is the single mapping point between a handler outcome and
// the pair (user-visible text, log entry). Internal detail never reaches the
// user-visible side.
type CommandResponse struct {
	Kind       ResponseKind
	userText   string
	logText    string
	logLevel   zerolog.Level
	loggedOnce bool
}

func NoResponse() CommandResponse {
	return CommandResponse{Kind: ResponseNone}
}

func BasicSuccess(text string) CommandResponse {
	return CommandResponse{Kind: ResponseSuccess, userText: text}
}

func BasicFailure(text string) CommandResponse {
	return CommandResponse{
		Kind:     ResponseFailure,
		userText: text,
		logText:  text,
		logLevel: zerolog.ErrorLevel,
	}
}

func ComplexFailure(userText string, level zerolog.Level, logText string) CommandResponse {
	return CommandResponse{
		Kind:     ResponseComplexFailure,
		userText: userText,
		logText:  logText,
		logLevel: level,
	}
}

func InternalFailure(logText string) CommandResponse {
	return CommandResponse{
		Kind:     ResponseInternalFailure,
		logText:  logText,
		logLevel: zerolog.ErrorLevel,
	}
}

// UserText is the sanitized message to show the user, empty when nothing
// should be sent.
func (r *CommandResponse) UserText() string {
	if r.Kind == ResponseInternalFailure {
		return internalErrorText
	}
	return r.userText
}

// LogText is the message destined for the log, empty when there is none.
func (r *CommandResponse) LogText() string {
	return r.logText
}

// WriteToLog emits the log entry at the recorded severity. Repeated calls
// are no-ops so a failure is logged exactly once even when the response
// travels through several layers.
func (r *CommandResponse) WriteToLog(l zerolog.Logger) {
	if r.logText == "" || r.loggedOnce {
		return
	}
	r.loggedOnce = true

	switch r.logLevel {
	case zerolog.DebugLevel:
		l.Debug().Msg(r.logText)
	case zerolog.InfoLevel:
		l.Info().Msg(r.logText)
	case zerolog.WarnLevel:
		l.Warn().Msg(r.logText)
	default:
		l.Error().Msg(r.logText)
	}
}

// Log writes to the global logger.
func (r *CommandResponse) Log() {
	r.WriteToLog(log.Logger)
}
