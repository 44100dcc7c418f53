package dxf

import (
	"fmt"
	"io"
	"strconv"
	"strings"
	"unicode"

	"github.com/jackzampolin/pdf2dxf/internal/geom"
)

// groupWriter writes DXF group code/value pairs and keeps the first write
// error, so callers check it once at the end.
type groupWriter struct {
	w   io.Writer
	n   int64
	err error
}

func (g *groupWriter) pair(code int, value string) {
	if g.err != nil {
		return
	}
	n, err := fmt.Fprintf(g.w, "%3d\n%s\n", code, value)
	g.n += int64(n)
	g.err = err
}

func (g *groupWriter) str(code int, v string) { g.pair(code, v) }

func (g *groupWriter) int(code int, v int) { g.pair(code, strconv.Itoa(v)) }

func (g *groupWriter) float(code int, v float64) { g.pair(code, formatFloat(v)) }

func (g *groupWriter) handle(v int) { g.pair(5, hex(v)) }

// owner writes the soft-pointer to the owning object; 0 means none.
func (g *groupWriter) owner(v int) { g.pair(330, hex(v)) }

// tableStart opens a symbol table holding count records.
func (g *groupWriter) tableStart(name string, handle, count int) {
	g.str(0, "TABLE")
	g.str(2, name)
	g.handle(handle)
	g.owner(0)
	g.subclass("AcDbSymbolTable")
	g.int(70, count)
}

// recordStart opens a symbol table record owned by table.
func (g *groupWriter) recordStart(kind string, handle, table int, subclass string) {
	g.str(0, kind)
	g.handle(handle)
	g.owner(table)
	g.subclass("AcDbSymbolTableRecord")
	g.subclass(subclass)
}

func (g *groupWriter) subclass(name string) { g.pair(100, name) }

// point writes x, y, z under code, code+10, code+20.
func (g *groupWriter) point(code int, p geom.Point) {
	g.float(code, p.X)
	g.float(code+10, p.Y)
	g.float(code+20, 0)
}

func hex(v int) string { return fmt.Sprintf("%X", v) }

func formatFloat(v float64) string {
	if v == 0 {
		// collapses -0
		return "0"
	}
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// encodeText makes s safe for a single-line TEXT value: control characters
// become spaces and non-ASCII runes use the \U+XXXX escape.
func encodeText(s string) string {
	var b strings.Builder
	for _, r := range s {
		switch {
		case unicode.IsControl(r):
			b.WriteByte(' ')
		case r < 0x80:
			b.WriteRune(r)
		case r <= 0xFFFF:
			fmt.Fprintf(&b, "\\U+%04X", r)
		default:
			b.WriteByte('?')
		}
	}
	return b.String()
}
