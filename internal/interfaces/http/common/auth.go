package common

import "context"

type contextKey string

const sessionContextKey contextKey = "session"

// Session is the per-connection state carried by the signed session
// cookie: the logged-in user plus the last known GPS coordinate. It is
// never persisted server-side.
type Session struct {
	Username  string  `json:"username"`
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

// ContextWithSession stores the decoded session into context.
func ContextWithSession(ctx context.Context, session Session) context.Context {
	return context.WithValue(ctx, sessionContextKey, session)
}

// SessionFromContext extracts the session placed by the auth middleware.
func SessionFromContext(ctx context.Context) (Session, bool) {
	session, ok := ctx.Value(sessionContextKey).(Session)
	return session, ok
}
