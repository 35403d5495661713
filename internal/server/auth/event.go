package auth

import (
	"log/slog"
	"time"
)

// SecurityEvent is a structured log record for one authentication attempt.
type SecurityEvent struct {
	Outcome   string
	RequestID string
	Subject   string
	Reason    string
	Token     string
	Latency   time.Duration
}

// LogValue implements slog.LogValuer. The token is always redacted.
func (e SecurityEvent) LogValue() slog.Value {
	attrs := []slog.Attr{
		slog.String("outcome", e.Outcome),
		slog.String("request_id", e.RequestID),
		slog.String("token", redactToken(e.Token)),
		slog.Duration("latency", e.Latency),
	}
	if e.Subject != "" {
		attrs = append(attrs, slog.String("sub", e.Subject))
	}
	if e.Reason != "" {
		attrs = append(attrs, slog.String("reason", e.Reason))
	}
	return slog.GroupValue(attrs...)
}

func redactToken(token string) string {
	if len(token) == 0 {
		return ""
	}
	if len(token) <= 8 {
		return "***"
	}
	return token[:8] + "..."
}
