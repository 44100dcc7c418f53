package config

import (
	"errors"
	"fmt"
	"unicode"
)

// ErrNoDefault is returned when no default value exists for a config key.
var ErrNoDefault = errors.New("no default exists")

// ErrInvalidKey is returned when a config key contains invalid characters.
var ErrInvalidKey = errors.New("invalid config key")

// Entry represents a single configuration entry.
type Entry struct {
	Key         string `json:"key" yaml:"key"`
	Value       any    `json:"value" yaml:"value"`
	Description string `json:"description" yaml:"description"`
}

// DefaultEntries returns the default configuration entries.
// These are registered as viper defaults and listed by `config show`.
func DefaultEntries() []Entry {
	d := DefaultConfig()
	return []Entry{
		{
			Key:         "scale",
			Value:       d.Scale,
			Description: "Uniform scale factor applied to every coordinate",
		},
		{
			Key:         "log_level",
			Value:       d.LogLevel,
			Description: "Log level (debug, info, warn, error)",
		},

		// PDF decoding
		{
			Key:         "pdf.decrypt",
			Value:       d.PDF.Decrypt,
			Description: "Decrypt the PDF to a temp file before reading",
		},
		{
			Key:         "pdf.circle_tolerance",
			Value:       d.PDF.CircleTolerance,
			Description: "Relative radius deviation allowed when recognizing circles",
		},

		// Text
		{
			Key:         "text.blocks",
			Value:       d.Text.Blocks,
			Description: "Group text fragments into layout blocks",
		},
		{
			Key:         "text.line_height_tolerance",
			Value:       d.Text.LineHeightTolerance,
			Description: "Same-line tolerance as a fraction of fragment height",
		},
		{
			Key:         "text.vertical_gap_threshold",
			Value:       d.Text.VerticalGapThreshold,
			Description: "Vertical gap that starts a new block, as a fraction of line height",
		},
		{
			Key:         "text.horizontal_gap_threshold",
			Value:       d.Text.HorizontalGapThreshold,
			Description: "Horizontal gap that splits blocks, as a fraction of font size",
		},

		// Output
		{
			Key:         "dxf.layer",
			Value:       d.DXF.Layer,
			Description: "Layer name for every entity",
		},
		{
			Key:         "dxf.units",
			Value:       d.DXF.Units,
			Description: "Drawing units written to $INSUNITS (unitless, in, mm, cm, m)",
		},

		// Watch mode
		{
			Key:         "watch.debounce_ms",
			Value:       d.Watch.DebounceMS,
			Description: "Quiet period in milliseconds before re-running after a change",
		},
		{
			Key:         "watch.attempts",
			Value:       d.Watch.Attempts,
			Description: "Attempts per re-run while the source cannot be opened",
		},
	}
}

// GetDefault returns the default value for a config key.
// Returns nil if no default exists for the key.
func GetDefault(key string) *Entry {
	for _, entry := range DefaultEntries() {
		if entry.Key == key {
			return &entry
		}
	}
	return nil
}

// ValidateKey checks if a config key contains only allowed characters.
// Valid keys contain: letters, digits, dots, underscores, and hyphens.
func ValidateKey(key string) error {
	if key == "" {
		return fmt.Errorf("%w: key cannot be empty", ErrInvalidKey)
	}
	for i, r := range key {
		if !unicode.IsLetter(r) && !unicode.IsDigit(r) && r != '.' && r != '_' && r != '-' {
			return fmt.Errorf("%w: invalid character %q at position %d", ErrInvalidKey, r, i)
		}
	}
	// Don't allow keys starting or ending with dots
	if key[0] == '.' || key[len(key)-1] == '.' {
		return fmt.Errorf("%w: key cannot start or end with a dot", ErrInvalidKey)
	}
	return nil
}
