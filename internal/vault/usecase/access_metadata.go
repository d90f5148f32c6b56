package usecase

import "context"

// accessMetadataKey is a context key type for request metadata destined for
// the access log.
type accessMetadataKey struct{}

// WithAccessMetadata attaches request metadata (remote address, client name
// and the like) to the context. The access log includes it in every entry
// recorded for the request and the entry signature covers it.
func WithAccessMetadata(ctx context.Context, metadata map[string]any) context.Context {
	if len(metadata) == 0 {
		return ctx
	}
	return context.WithValue(ctx, accessMetadataKey{}, metadata)
}

// AccessMetadataFrom extracts request metadata from the context. Returns nil
// when none was attached.
func AccessMetadataFrom(ctx context.Context) map[string]any {
	metadata, _ := ctx.Value(accessMetadataKey{}).(map[string]any)
	return metadata
}
