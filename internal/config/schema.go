package config

import (
	"fmt"

	"github.com/jackzampolin/pdf2dxf/internal/dxf"
	"github.com/jackzampolin/pdf2dxf/internal/source/pdfsource"
)

// Config holds pdf2dxf configuration.
// Stored at: {home}/config.yaml
type Config struct {
	Scale    float64  `mapstructure:"scale" yaml:"scale"`         // Uniform scale applied to every coordinate
	LogLevel string   `mapstructure:"log_level" yaml:"log_level"` // debug, info, warn, error
	PDF      PDFCfg   `mapstructure:"pdf" yaml:"pdf"`
	Text     TextCfg  `mapstructure:"text" yaml:"text"`
	DXF      DXFCfg   `mapstructure:"dxf" yaml:"dxf"`
	Watch    WatchCfg `mapstructure:"watch" yaml:"watch"`
}

// PDFCfg configures PDF decoding.
type PDFCfg struct {
	// Decrypt writes a decrypted copy before reading (removes permission restrictions)
	Decrypt bool `mapstructure:"decrypt" yaml:"decrypt"`
	// CircleTolerance is the relative radius deviation for circle recognition
	CircleTolerance float64 `mapstructure:"circle_tolerance" yaml:"circle_tolerance"`
}

// TextCfg configures text block grouping.
type TextCfg struct {
	Blocks                 bool    `mapstructure:"blocks" yaml:"blocks"` // Group fragments into layout blocks
	LineHeightTolerance    float64 `mapstructure:"line_height_tolerance" yaml:"line_height_tolerance"`
	VerticalGapThreshold   float64 `mapstructure:"vertical_gap_threshold" yaml:"vertical_gap_threshold"`
	HorizontalGapThreshold float64 `mapstructure:"horizontal_gap_threshold" yaml:"horizontal_gap_threshold"`
}

// DXFCfg configures the output drawing.
type DXFCfg struct {
	Layer string `mapstructure:"layer" yaml:"layer"` // Layer for every entity
	Units string `mapstructure:"units" yaml:"units"` // unitless, in, mm, cm, m
}

// WatchCfg configures watch mode.
type WatchCfg struct {
	DebounceMS int  `mapstructure:"debounce_ms" yaml:"debounce_ms"` // Quiet period before re-running
	Attempts   uint `mapstructure:"attempts" yaml:"attempts"`       // Tries per re-run while the source is unreadable
}

// DefaultConfig returns configuration with sensible defaults.
func DefaultConfig() *Config {
	pdfDefaults := pdfsource.DefaultOptions()
	return &Config{
		Scale:    1.0,
		LogLevel: "info",
		PDF: PDFCfg{
			Decrypt:         false,
			CircleTolerance: pdfDefaults.CircleTolerance,
		},
		Text: TextCfg{
			Blocks:                 true,
			LineHeightTolerance:    pdfDefaults.LineHeightTolerance,
			VerticalGapThreshold:   pdfDefaults.VerticalGapThreshold,
			HorizontalGapThreshold: pdfDefaults.HorizontalGapThreshold,
		},
		DXF: DXFCfg{
			Layer: dxf.DefaultLayer,
			Units: "unitless",
		},
		Watch: WatchCfg{
			DebounceMS: 250,
			Attempts:   5,
		},
	}
}

// PDFOptions converts the config into decoder options.
func (c *Config) PDFOptions() pdfsource.Options {
	return pdfsource.Options{
		Decrypt:                c.PDF.Decrypt,
		CircleTolerance:        c.PDF.CircleTolerance,
		TextBlocks:             c.Text.Blocks,
		LineHeightTolerance:    c.Text.LineHeightTolerance,
		VerticalGapThreshold:   c.Text.VerticalGapThreshold,
		HorizontalGapThreshold: c.Text.HorizontalGapThreshold,
	}
}

// DXFOptions converts the config into output options.
func (c *Config) DXFOptions() (dxf.Options, error) {
	units, err := dxf.ParseUnits(c.DXF.Units)
	if err != nil {
		return dxf.Options{}, fmt.Errorf("dxf.units: %w", err)
	}
	return dxf.Options{Layer: c.DXF.Layer, Units: units}, nil
}
