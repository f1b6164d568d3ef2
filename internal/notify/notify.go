// Package notify is the transient user-notification boundary: the place a
// browser client would pop a toast. Centralised failure handling reports
// through it exactly once per failure, callers never re-report.
package notify

import "github.com/rs/zerolog"

// Notifier surfaces short-lived messages to the user.
type Notifier interface {
	Error(msg string)
	Success(msg string)
}

// Log is a Notifier that writes to the structured log, the natural surface
// for a terminal client.
type Log struct {
	log zerolog.Logger
}

// NewLog returns a log-backed notifier.
func NewLog(log zerolog.Logger) *Log {
	return &Log{log: log}
}

func (l *Log) Error(msg string) {
	l.log.Error().Str("notice", msg).Msg("notification")
}

func (l *Log) Success(msg string) {
	l.log.Info().Str("notice", msg).Msg("notification")
}
