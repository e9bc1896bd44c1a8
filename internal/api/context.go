package api

import "context"

type contextKey string

const (
	userIDKey   contextKey = "userID"
	clientIDKey contextKey = "clientID"
)

// UserIDFromContext extracts the user ID from the context.
// Returns empty string if not present.
func UserIDFromContext(ctx context.Context) string {
	return stringFromContext(ctx, userIDKey)
}

// ClientIDFromContext extracts the ID of the tab that sent the request.
// Returns empty string if not present.
func ClientIDFromContext(ctx context.Context) string {
	return stringFromContext(ctx, clientIDKey)
}

func stringFromContext(ctx context.Context, key contextKey) string {
	if v, ok := ctx.Value(key).(string); ok {
		return v
	}

	return ""
}

// withCaller returns a new context carrying the user and tab IDs.
func withCaller(ctx context.Context, userID, clientID string) context.Context {
	ctx = context.WithValue(ctx, userIDKey, userID)

	if clientID != "" {
		ctx = context.WithValue(ctx, clientIDKey, clientID)
	}

	return ctx
}
