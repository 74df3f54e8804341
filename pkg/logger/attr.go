package logger

import "log/slog"

// Error records err under the key "error". A nil error yields an empty Attr,
// which slog drops.
func Error(err error) slog.Attr {
	if err == nil {
		return slog.Attr{}
	}
	return slog.Any("error", err)
}

// Component records the emitting component under the key "component".
func Component(name string) slog.Attr {
	return slog.String("component", name)
}

// Cookie records a cookie name under the key "cookie". Values are never
// logged: they may carry credentials.
func Cookie(name string) slog.Attr {
	return slog.String("cookie", name)
}

// Host records the request host under the key "host".
func Host(host string) slog.Attr {
	return slog.String("host", host)
}

// Reason records why an operation was refused under the key "reason".
func Reason(reason string) slog.Attr {
	return slog.String("reason", reason)
}

// RequestID records the request correlation id under the key "request_id".
// An empty id yields an empty Attr.
func RequestID(id string) slog.Attr {
	if id == "" {
		return slog.Attr{}
	}
	return slog.String("request_id", id)
}

// Status records an HTTP status code under the key "status".
func Status(code int) slog.Attr {
	return slog.Int("status", code)
}
