package pipeline

import "github.com/jackzampolin/pdf2dxf/internal/shape"

// Stats counts what a run (or a single page) produced.
type Stats struct {
	Pages      int            `json:"pages" yaml:"pages"`
	Commands   map[string]int `json:"commands" yaml:"commands"` // by shape kind
	Skipped    int            `json:"skipped" yaml:"skipped"`   // unrecognized command kinds
	TextLabels int            `json:"text_labels" yaml:"text_labels"`
	Entities   int            `json:"entities" yaml:"entities"`
}

// NewStats returns Stats with every recognized kind present at zero.
func NewStats() Stats {
	s := Stats{Commands: make(map[string]int, len(shape.Kinds))}
	for _, k := range shape.Kinds {
		s.Commands[k.String()] = 0
	}
	return s
}

// Add merges o into s.
func (s *Stats) Add(o Stats) {
	if s.Commands == nil {
		s.Commands = make(map[string]int)
	}
	s.Pages += o.Pages
	for k, n := range o.Commands {
		s.Commands[k] += n
	}
	s.Skipped += o.Skipped
	s.TextLabels += o.TextLabels
	s.Entities += o.Entities
}

func (s *Stats) count(k shape.Kind) {
	s.Commands[k.String()]++
}
