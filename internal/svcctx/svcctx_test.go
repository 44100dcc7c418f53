package svcctx

import (
	"context"
	"log/slog"
	"testing"

	"github.com/jackzampolin/pdf2dxf/internal/home"
	"github.com/jackzampolin/pdf2dxf/internal/output"
)

func TestServicesFrom(t *testing.T) {
	t.Run("empty context", func(t *testing.T) {
		ctx := context.Background()
		if ServicesFrom(ctx) != nil {
			t.Error("expected nil services")
		}
		if ConfigFrom(ctx) != nil || HomeFrom(ctx) != nil {
			t.Error("expected nil config and home")
		}
		if LoggerFrom(ctx) != slog.Default() {
			t.Error("expected default logger")
		}
		if OutputFrom(ctx) != output.Default {
			t.Error("expected default output format")
		}
	})

	t.Run("attached services", func(t *testing.T) {
		h, _ := home.New(t.TempDir())
		logger := slog.New(slog.Default().Handler())
		ctx := WithServices(context.Background(), &Services{Home: h, Logger: logger, Output: output.FormatJSON})

		if HomeFrom(ctx) != h {
			t.Error("home not returned")
		}
		if LoggerFrom(ctx) != logger {
			t.Error("logger not returned")
		}
		if OutputFrom(ctx) != output.FormatJSON {
			t.Error("output format not returned")
		}
	})
}
