package logging

import (
	"github.com/rs/zerolog"

	"github.com/handiism/tracktag/internal/pipeline"
)

// EventLogger writes pipeline progress events to a zerolog logger.
type EventLogger struct {
	logger zerolog.Logger
}

// NewEventLogger returns an EventLogger for logger.
func NewEventLogger(logger zerolog.Logger) *EventLogger {
	return &EventLogger{logger: logger}
}

// Handle logs one event. It is safe to pass as a pipeline progress callback.
func (l *EventLogger) Handle(event pipeline.ProgressEvent) {
	e := l.logger.WithLevel(Level(event.Level))
	if event.Track != nil {
		e = e.Str("track", event.Track.ID.String()).Str("state", event.Track.State.String())
	}
	e.Msg(event.Message)
}

// Warn logs a plain warning message.
func (l *EventLogger) Warn(msg string) {
	l.logger.Warn().Msg(msg)
}

// Level maps a progress level to the zerolog level it is logged at.
func Level(level pipeline.ProgressLevel) zerolog.Level {
	switch level {
	case pipeline.LevelVerbose:
		return zerolog.DebugLevel
	case pipeline.LevelWarning:
		return zerolog.WarnLevel
	case pipeline.LevelError:
		return zerolog.ErrorLevel
	default:
		return zerolog.InfoLevel
	}
}
