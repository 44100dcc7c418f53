package dumpsource

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"

	"github.com/jackzampolin/pdf2dxf/internal/geom"
	"github.com/jackzampolin/pdf2dxf/internal/source"
)

const sampleDump = `{
  "pages": [
    {
      "drawings": [
        {"kind": "l", "points": [[1, 2], [3, 4]]},
        {"kind": "re", "rect": [0, 0, 10, 5]},
        {"kind": "qu", "points": [[0, 0], [1, 0], [1, 1], [0, 1]]},
        {"kind": "c", "points": [[0, 0], [3, 4]]}
      ],
      "blocks": [[10, 20, 50, 30, "first", 0, 0]]
    },
    {}
  ]
}`

func TestDecode(t *testing.T) {
	doc, err := Decode(strings.NewReader(sampleDump))
	if err != nil {
		t.Fatalf("Decode failed: %v", err)
	}
	if doc.NumPages() != 2 {
		t.Fatalf("expected 2 pages, got %d", doc.NumPages())
	}

	want := &source.MemoryPage{
		PageNumber: 1,
		Drawings: []source.DrawingCommand{
			{Kind: "l", Points: []geom.Point{{X: 1, Y: 2}, {X: 3, Y: 4}}},
			{Kind: "re", Rect: &geom.Rect{X0: 0, Y0: 0, X1: 10, Y1: 5}},
			{Kind: "qu", Points: []geom.Point{{X: 0, Y: 0}, {X: 1, Y: 0}, {X: 1, Y: 1}, {X: 0, Y: 1}}},
			{Kind: "c", Points: []geom.Point{{X: 0, Y: 0}, {X: 3, Y: 4}}},
		},
		Blocks: []source.TextBlock{{X0: 10, Y0: 20, X1: 50, Y1: 30, Text: "first"}},
	}
	if diff := cmp.Diff(want, doc.Pages[0]); diff != "" {
		t.Errorf("page 1 mismatch (-want +got):\n%s", diff)
	}

	second, err := doc.Page(1)
	if err != nil {
		t.Fatal(err)
	}
	if second.Number() != 2 {
		t.Errorf("expected page number 2, got %d", second.Number())
	}
	cmds, _ := second.DrawingCommands()
	if diff := cmp.Diff([]source.DrawingCommand{}, cmds, cmpopts.EquateEmpty()); diff != "" {
		t.Errorf("expected empty page:\n%s", diff)
	}
}

func TestDecode_MalformedPayloadPassesSchema(t *testing.T) {
	// Payload sizes are checked by the classifier, not the schema.
	doc, err := Decode(strings.NewReader(`{"pages":[{"drawings":[{"kind":"c","points":[[0,0]]}]}]}`))
	if err != nil {
		t.Fatalf("Decode failed: %v", err)
	}
	if n := len(doc.Pages[0].Drawings[0].Points); n != 1 {
		t.Errorf("expected 1 point, got %d", n)
	}
}

func TestDecode_Invalid(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{"not json", `{"pages": [`},
		{"missing pages", `{}`},
		{"empty kind", `{"pages":[{"drawings":[{"kind":""}]}]}`},
		{"three coordinate point", `{"pages":[{"drawings":[{"kind":"l","points":[[0,0,0],[1,1]]}]}]}`},
		{"short rect", `{"pages":[{"drawings":[{"kind":"re","rect":[0,0,1]}]}]}`},
		{"short block", `{"pages":[{"blocks":[[0,0,1,1]]}]}`},
		{"block text not a string", `{"pages":[{"blocks":[[0,0,1,1,2]]}]}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Decode(strings.NewReader(tt.input))
			if !errors.Is(err, ErrInvalidDump) {
				t.Errorf("expected ErrInvalidDump, got %v", err)
			}
		})
	}
}

func TestOpen(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "dump.json")
	if err := os.WriteFile(path, []byte(sampleDump), 0o644); err != nil {
		t.Fatal(err)
	}

	doc, err := Open(path)
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	if doc.NumPages() != 2 {
		t.Errorf("expected 2 pages, got %d", doc.NumPages())
	}

	_, err = Open(filepath.Join(dir, "missing.json"))
	if !errors.Is(err, source.ErrOpen) {
		t.Errorf("expected ErrOpen for missing file, got %v", err)
	}

	bad := filepath.Join(dir, "bad.json")
	if err := os.WriteFile(bad, []byte(`{"pages": 3}`), 0o644); err != nil {
		t.Fatal(err)
	}
	_, err = Open(bad)
	if !errors.Is(err, ErrInvalidDump) {
		t.Errorf("expected ErrInvalidDump, got %v", err)
	}
	// Bad content is not retried as an unreadable source.
	if errors.Is(err, source.ErrOpen) {
		t.Errorf("invalid dump should not wrap ErrOpen: %v", err)
	}
}
