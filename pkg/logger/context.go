package logger

import "context"

// contextKeyRegistry maps context keys to log field names for the *FCtx
// variants. The request id key is registered by default.
var contextKeyRegistry = map[any]string{
	RequestIDKey: "request_id",
}

// RegisterContextKey adds a context key whose value will be attached to
// context-aware log calls under logField.
func RegisterContextKey(ctxKey any, logField string) {
	contextKeyRegistry[ctxKey] = logField
}

// UnregisterContextKey removes a registered key.
func UnregisterContextKey(ctxKey any) {
	delete(contextKeyRegistry, ctxKey)
}

func withContext(ctx context.Context) []any {
	fields := make([]any, 0, len(contextKeyRegistry)*2)
	for key, fieldName := range contextKeyRegistry {
		if val := ctx.Value(key); val != nil {
			fields = append(fields, fieldName, val)
		}
	}
	return fields
}
