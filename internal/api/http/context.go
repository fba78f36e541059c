package http

import (
	"context"
)

type ctxKey int

const userIDKey ctxKey = iota

func withUserID(ctx context.Context, userID int32) context.Context {
	return context.WithValue(ctx, userIDKey, userID)
}

// GetUserIDFromContext returns the user id the auth middleware stored for the
// request.
func GetUserIDFromContext(ctx context.Context) (int32, error) {
	userID, ok := ctx.Value(userIDKey).(int32)
	if !ok || userID == 0 {
		return 0, errUnauthenticated
	}
	return userID, nil
}
