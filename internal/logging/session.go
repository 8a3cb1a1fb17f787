package logging

import (
	"log/slog"
	"strings"
)

// Keys identifying a single CLI invocation.
const (
	FieldSessionID = "session_id"
	FieldCommand   = "command"
)

// Session identifies one CLI invocation. Every record written by the
// invocation's logger carries these values at the top level, even under
// WithGroup, so one run can be grepped out of the shared log file.
type Session struct {
	ID      string
	Command string
}

func (s Session) attrs() []slog.Attr {
	var attrs []slog.Attr
	if id := strings.TrimSpace(s.ID); id != "" {
		attrs = append(attrs, slog.String(FieldSessionID, id))
	}
	if cmd := strings.TrimSpace(s.Command); cmd != "" {
		attrs = append(attrs, slog.String(FieldCommand, cmd))
	}
	return attrs
}

func withSession(base slog.Handler, s Session) slog.Handler {
	if base == nil {
		return NoopHandler{}
	}
	attrs := s.attrs()
	if len(attrs) == 0 {
		return base
	}
	return base.WithAttrs(attrs)
}
