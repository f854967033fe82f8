package logging

import "context"

type contextKey string

const (
	guidKey contextKey = "guid"
	fileKey contextKey = "file"
)

// WithGUID adds the GUID of the todo item being operated on to the context.
func WithGUID(ctx context.Context, guid string) context.Context {
	return context.WithValue(ctx, guidKey, guid)
}

// WithFile adds the todo file path to the context.
func WithFile(ctx context.Context, path string) context.Context {
	return context.WithValue(ctx, fileKey, path)
}

// GetGUID retrieves the item GUID from the context.
// Returns empty string if not present.
func GetGUID(ctx context.Context) string {
	if guid, ok := ctx.Value(guidKey).(string); ok {
		return guid
	}
	return ""
}

// GetFile retrieves the todo file path from the context.
// Returns empty string if not present.
func GetFile(ctx context.Context) string {
	if path, ok := ctx.Value(fileKey).(string); ok {
		return path
	}
	return ""
}
