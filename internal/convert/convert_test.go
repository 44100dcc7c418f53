package convert

import (
	"bytes"
	"context"
	"errors"
	"io"
	"log/slog"
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/jackzampolin/pdf2dxf/internal/geom"
	"github.com/jackzampolin/pdf2dxf/internal/shape"
	"github.com/jackzampolin/pdf2dxf/internal/source"
)

const dumpJSON = `{
  "pages": [
    {
      "drawings": [
        {"kind": "l", "points": [[0, 0], [10, 0]]},
        {"kind": "re", "rect": [0, 0, 10, 5]},
        {"kind": "zz", "points": [[1, 1]]},
        {"kind": "c", "points": [[0, 0], [3, 4]]}
      ],
      "blocks": [[1, 1, 9, 4, "Label"]]
    },
    {
      "drawings": [
        {"kind": "p", "points": [[0, 0], [4, 0], [2, 3]]},
        {"kind": "b", "points": [[0, 0], [1, 2], [3, 2], [4, 0]]}
      ]
    }
  ]
}`

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func writeDump(t *testing.T, dir, content string) string {
	t.Helper()
	path := filepath.Join(dir, "drawing.json")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestConvert_FromDump(t *testing.T) {
	dir := t.TempDir()
	src := writeDump(t, dir, dumpJSON)
	out := filepath.Join(dir, "nested", "deeper", "out.dxf")

	result, err := Convert(context.Background(), Request{
		SourcePath: src,
		OutputPath: out,
		FromDump:   true,
		Logger:     quietLogger(),
	})
	if err != nil {
		t.Fatalf("Convert failed: %v", err)
	}

	if result.Scale != 1 {
		t.Errorf("expected default scale 1, got %v", result.Scale)
	}
	if result.Stats.Pages != 2 || result.Stats.Entities != 6 || result.Stats.Skipped != 1 || result.Stats.TextLabels != 1 {
		t.Errorf("unexpected stats: %+v", result.Stats)
	}
	if !filepath.IsAbs(result.OutputPath) || !filepath.IsAbs(result.SourcePath) {
		t.Errorf("paths should be absolute: %q %q", result.SourcePath, result.OutputPath)
	}
	if result.RunID == "" {
		t.Error("expected a run id")
	}

	data, err := os.ReadFile(out)
	if err != nil {
		t.Fatalf("output not written: %v", err)
	}
	for _, entity := range []string{"LINE", "LWPOLYLINE", "CIRCLE", "SPLINE", "TEXT"} {
		if !strings.Contains(string(data), "  0\n"+entity+"\n") {
			t.Errorf("output missing %s entity", entity)
		}
	}
	if !strings.Contains(string(data), " 40\n5\n") {
		t.Error("expected circle radius 5")
	}
}

func TestConvert_Scale(t *testing.T) {
	dir := t.TempDir()
	src := writeDump(t, dir, `{"pages":[{"drawings":[{"kind":"c","points":[[0,0],[3,4]]}]}]}`)

	_, err := Convert(context.Background(), Request{
		SourcePath: src,
		OutputPath: filepath.Join(dir, "out.dxf"),
		Scale:      2,
		FromDump:   true,
		Logger:     quietLogger(),
	})
	if err != nil {
		t.Fatalf("Convert failed: %v", err)
	}

	data, err := os.ReadFile(filepath.Join(dir, "out.dxf"))
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(data), " 40\n10\n") {
		t.Error("expected circle radius 10 at scale 2")
	}
}

func TestConvert_Deterministic(t *testing.T) {
	dir := t.TempDir()
	src := writeDump(t, dir, dumpJSON)
	outA := filepath.Join(dir, "a.dxf")
	outB := filepath.Join(dir, "b.dxf")

	for _, out := range []string{outA, outB} {
		if _, err := Convert(context.Background(), Request{
			SourcePath: src,
			OutputPath: out,
			FromDump:   true,
			Logger:     quietLogger(),
		}); err != nil {
			t.Fatal(err)
		}
	}

	a, _ := os.ReadFile(outA)
	b, _ := os.ReadFile(outB)
	if !bytes.Equal(a, b) {
		t.Error("converting the same source twice should give identical files")
	}
}

func TestConvert_InvalidScale(t *testing.T) {
	for _, s := range []geom.ScaleFactor{-1, geom.ScaleFactor(math.NaN()), geom.ScaleFactor(math.Inf(1))} {
		opened := false
		_, err := Convert(context.Background(), Request{
			SourcePath: "in.pdf",
			OutputPath: filepath.Join(t.TempDir(), "out.dxf"),
			Scale:      s,
			Open: func(string) (source.Document, error) {
				opened = true
				return source.NewMemoryDocument(), nil
			},
			Logger: quietLogger(),
		})
		if !errors.Is(err, ErrInvalidScale) {
			t.Errorf("scale %v: expected ErrInvalidScale, got %v", s, err)
		}
		if opened {
			t.Errorf("scale %v: source should not be opened", s)
		}
	}
}

func TestConvert_MalformedWritesNothing(t *testing.T) {
	dir := t.TempDir()
	out := filepath.Join(dir, "out.dxf")

	_, err := Convert(context.Background(), Request{
		SourcePath: "in.pdf",
		OutputPath: out,
		Open: func(string) (source.Document, error) {
			return source.NewMemoryDocument(&source.MemoryPage{
				Drawings: []source.DrawingCommand{
					{Kind: "l", Points: []geom.Point{{X: 0, Y: 0}, {X: 1, Y: 1}}},
					{Kind: "l", Points: []geom.Point{{X: 0, Y: 0}}},
				},
			}), nil
		},
		Logger: quietLogger(),
	})
	if !errors.Is(err, shape.ErrMalformedPayload) {
		t.Fatalf("expected ErrMalformedPayload, got %v", err)
	}
	if !strings.Contains(err.Error(), "page 1 item 1") {
		t.Errorf("error should locate the record: %v", err)
	}

	entries, _ := os.ReadDir(dir)
	if len(entries) != 0 {
		t.Errorf("expected no files after a failed conversion, found %d", len(entries))
	}
}

func TestConvert_SourceOpenFailure(t *testing.T) {
	dir := t.TempDir()
	_, err := Convert(context.Background(), Request{
		SourcePath: filepath.Join(dir, "missing.json"),
		OutputPath: filepath.Join(dir, "out.dxf"),
		FromDump:   true,
		Logger:     quietLogger(),
	})
	if !errors.Is(err, source.ErrOpen) {
		t.Fatalf("expected ErrOpen, got %v", err)
	}
}

func TestConvert_Cancelled(t *testing.T) {
	dir := t.TempDir()
	src := writeDump(t, dir, dumpJSON)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := Convert(ctx, Request{
		SourcePath: src,
		OutputPath: filepath.Join(dir, "out.dxf"),
		FromDump:   true,
		Logger:     quietLogger(),
	})
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
	if _, err := os.Stat(filepath.Join(dir, "out.dxf")); !os.IsNotExist(err) {
		t.Error("cancelled conversion should not write output")
	}
}

func TestInspect(t *testing.T) {
	dir := t.TempDir()
	src := writeDump(t, dir, dumpJSON)

	summaries, err := Inspect(context.Background(), Request{SourcePath: src, FromDump: true, Logger: quietLogger()})
	if err != nil {
		t.Fatalf("Inspect failed: %v", err)
	}
	if len(summaries) != 2 {
		t.Fatalf("expected 2 pages, got %d", len(summaries))
	}
	if summaries[0].Stats.Commands["circle"] != 1 || summaries[1].Stats.Commands["curve"] != 1 {
		t.Errorf("unexpected summaries: %+v", summaries)
	}
}
