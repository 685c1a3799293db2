package services

import "context"

// ensureContext guards service entry points against nil contexts.
func ensureContext(ctx context.Context) context.Context {
	if ctx == nil {
		return context.Background()
	}
	return ctx
}
