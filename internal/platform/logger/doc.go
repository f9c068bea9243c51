// Package logger sets up JSON slog output and carries request-scoped
// loggers through context.Context.
package logger
