// Package svcctx provides service context for dependency injection via context.
package svcctx

import (
	"context"
	"log/slog"

	"github.com/jackzampolin/pdf2dxf/internal/config"
	"github.com/jackzampolin/pdf2dxf/internal/home"
	"github.com/jackzampolin/pdf2dxf/internal/output"
)

// Services holds the services a command needs, attached to the command
// context by the root command.
type Services struct {
	Config *config.Manager
	Logger *slog.Logger
	Home   *home.Dir
	Output output.Format
}

type servicesKey struct{}

// WithServices returns a new context with services attached.
func WithServices(ctx context.Context, s *Services) context.Context {
	return context.WithValue(ctx, servicesKey{}, s)
}

// ServicesFrom extracts the full Services struct from context.
// Returns nil if not present.
func ServicesFrom(ctx context.Context) *Services {
	s, _ := ctx.Value(servicesKey{}).(*Services)
	return s
}

// ConfigFrom extracts the config manager from context.
func ConfigFrom(ctx context.Context) *config.Manager {
	if s := ServicesFrom(ctx); s != nil {
		return s.Config
	}
	return nil
}

// LoggerFrom extracts the logger from context, falling back to the default
// logger.
func LoggerFrom(ctx context.Context) *slog.Logger {
	if s := ServicesFrom(ctx); s != nil && s.Logger != nil {
		return s.Logger
	}
	return slog.Default()
}

// HomeFrom extracts the home directory from context.
func HomeFrom(ctx context.Context) *home.Dir {
	if s := ServicesFrom(ctx); s != nil {
		return s.Home
	}
	return nil
}

// OutputFrom extracts the output format from context.
func OutputFrom(ctx context.Context) output.Format {
	if s := ServicesFrom(ctx); s != nil && s.Output != "" {
		return s.Output
	}
	return output.Default
}
