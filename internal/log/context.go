package log

import "context"

// ContextKey is the type used for request-scoped values carried alongside
// log records, keyed by the field-name constants.
type ContextKey string

// RequestID extracts the request ID stashed by the HTTP layer, or "" when
// the context carries none.
func RequestID(ctx context.Context) string {
	if v, ok := ctx.Value(ContextKey(FieldRequestID)).(string); ok {
		return v
	}
	return ""
}
