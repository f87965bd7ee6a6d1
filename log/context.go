package log

import "context"

// ctxKey is the key type for storing a Logger in context.
type ctxKey struct{}

// WithContext returns a copy of ctx carrying l. Request handlers and
// goroutines typically store a [Logger.Fork] so that each logical call
// stack traces into its own [State].
func WithContext(ctx context.Context, l Logger) context.Context {
	return context.WithValue(ctx, ctxKey{}, l)
}

// FromContext returns the Logger stored in ctx by [WithContext], or the
// default logger if there is none.
func FromContext(ctx context.Context) Logger {
	if ctx != nil {
		if l, ok := ctx.Value(ctxKey{}).(Logger); ok {
			return l
		}
	}

	return Default()
}
