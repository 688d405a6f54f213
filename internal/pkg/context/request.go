// Package context holds values scoped to one HTTP request that are read
// outside the transport layer: the request id and the farmer the bearer
// token resolved to.
package context

import "context"

type (
	requestIDKey struct{}
	farmerIDKey  struct{}
)

func WithRequestID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, requestIDKey{}, id)
}

// GetRequestID returns "" when ctx is nil or carries no id.
func GetRequestID(ctx context.Context) string {
	return stringValue(ctx, requestIDKey{})
}

// WithFarmerID records the user id of the authenticated farmer.
func WithFarmerID(ctx context.Context, userID string) context.Context {
	return context.WithValue(ctx, farmerIDKey{}, userID)
}

func GetFarmerID(ctx context.Context) string {
	return stringValue(ctx, farmerIDKey{})
}

func stringValue(ctx context.Context, key any) string {
	if ctx == nil {
		return ""
	}
	s, _ := ctx.Value(key).(string)
	return s
}
