package ports

import "context"

// Logger is the leveled logging contract shared by every component.
// Fields carry structured context; the final variadic map keeps call sites
// terse. Implementations must be safe for use from the streaming loop.
type Logger interface {
	// Debug logs a message at Debug level.
	Debug(ctx context.Context, msg string, fields ...map[string]interface{})
	// Info logs a message at Info level.
	Info(ctx context.Context, msg string, fields ...map[string]interface{})
	// Warn logs a message at Warn level.
	Warn(ctx context.Context, msg string, fields ...map[string]interface{})
	// Error logs a message at Error level together with the causing error.
	Error(ctx context.Context, err error, msg string, fields ...map[string]interface{})
}
