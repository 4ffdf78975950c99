package core

import (
	"context"
	"io"
	"os"
)

// Context keys for execution options
type contextKey string

const (
	outputKey         contextKey = "output"
	suppressHeaderKey contextKey = "suppressHeader"
)

// WithOutput directs human-facing summaries and listings to w instead of stdout.
func WithOutput(ctx context.Context, w io.Writer) context.Context {
	return context.WithValue(ctx, outputKey, w)
}

// outputFrom returns the writer for summaries and listings.
func outputFrom(ctx context.Context) io.Writer {
	if w, ok := ctx.Value(outputKey).(io.Writer); ok && w != nil {
		return w
	}
	return os.Stdout
}

// withSuppressHeader marks nested passes so only the outer command prints a header.
func withSuppressHeader(ctx context.Context) context.Context {
	return context.WithValue(ctx, suppressHeaderKey, true)
}

// shouldSuppressHeader returns whether headers should be suppressed from context
func shouldSuppressHeader(ctx context.Context) bool {
	suppress, ok := ctx.Value(suppressHeaderKey).(bool)
	return ok && suppress
}
