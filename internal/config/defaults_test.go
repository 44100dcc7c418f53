package config

import (
	"errors"
	"testing"
)

func TestDefaultEntries(t *testing.T) {
	entries := DefaultEntries()

	if len(entries) == 0 {
		t.Fatal("DefaultEntries() returned empty slice")
	}

	// Verify required keys exist
	requiredKeys := []string{
		"scale",
		"log_level",
		"pdf.decrypt",
		"pdf.circle_tolerance",
		"text.blocks",
		"text.line_height_tolerance",
		"text.vertical_gap_threshold",
		"text.horizontal_gap_threshold",
		"dxf.layer",
		"dxf.units",
		"watch.debounce_ms",
		"watch.attempts",
	}

	keys := make(map[string]bool)
	for _, e := range entries {
		if err := ValidateKey(e.Key); err != nil {
			t.Errorf("default key %q is invalid: %v", e.Key, err)
		}
		if e.Description == "" {
			t.Errorf("default key %q has no description", e.Key)
		}
		if keys[e.Key] {
			t.Errorf("duplicate default key %q", e.Key)
		}
		keys[e.Key] = true
	}

	for _, key := range requiredKeys {
		if !keys[key] {
			t.Errorf("DefaultEntries() missing required key: %s", key)
		}
	}
}

func TestGetDefault(t *testing.T) {
	t.Run("existing_key", func(t *testing.T) {
		entry := GetDefault("dxf.layer")
		if entry == nil {
			t.Fatal("GetDefault() returned nil for existing key")
		}
		if entry.Value != "0" {
			t.Errorf("GetDefault() Value = %v, want %q", entry.Value, "0")
		}
	})

	t.Run("non_existent_key", func(t *testing.T) {
		entry := GetDefault("does.not.exist")
		if entry != nil {
			t.Errorf("GetDefault() = %v, want nil for non-existent key", entry)
		}
	})
}

func TestValidateKey(t *testing.T) {
	tests := []struct {
		key     string
		wantErr bool
	}{
		{"scale", false},
		{"text.line_height_tolerance", false},
		{"dxf.layer-name", false},
		{"", true},
		{".scale", true},
		{"scale.", true},
		{"dxf layer", true},
		{"dxf/layer", true},
	}

	for _, tt := range tests {
		t.Run(tt.key, func(t *testing.T) {
			err := ValidateKey(tt.key)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateKey(%q) error = %v, wantErr %v", tt.key, err, tt.wantErr)
			}
			if err != nil && !errors.Is(err, ErrInvalidKey) {
				t.Errorf("ValidateKey(%q) error should wrap ErrInvalidKey, got %v", tt.key, err)
			}
		})
	}
}
