package dxf

import (
	"math"

	"github.com/jackzampolin/pdf2dxf/internal/geom"
)

// blockHandles identifies a block record and its BLOCK/ENDBLK pair.
type blockHandles struct {
	record, begin, end int
}

// layout assigns a handle to every object in the file. Handles are handed
// out in a fixed order, so the same document always renders the same bytes.
type layout struct {
	next int

	rootDict, groupDict int

	vportTable, ltypeTable, layerTable, styleTable int
	viewTable, ucsTable, appidTable, dimstyleTable int
	blockRecordTable                               int
	vport, style, appid, dimstyle                  int
	ltypes                                         [3]int
	layers                                         []layerRecord
	modelSpace, paperSpace                         blockHandles
	entities                                       []int
}

type layerRecord struct {
	name   string
	handle int
}

// linetypes are the records every drawing carries; layers reference the
// last one.
var linetypes = [3]struct{ name, description string }{
	{"ByBlock", ""},
	{"ByLayer", ""},
	{"Continuous", "Solid line"},
}

func (l *layout) alloc() int {
	l.next++
	return l.next
}

func (d *Document) layout() *layout {
	l := &layout{}

	l.rootDict = l.alloc()
	l.groupDict = l.alloc()

	l.vportTable = l.alloc()
	l.ltypeTable = l.alloc()
	l.layerTable = l.alloc()
	l.styleTable = l.alloc()
	l.viewTable = l.alloc()
	l.ucsTable = l.alloc()
	l.appidTable = l.alloc()
	l.dimstyleTable = l.alloc()
	l.blockRecordTable = l.alloc()

	l.vport = l.alloc()
	for i := range l.ltypes {
		l.ltypes[i] = l.alloc()
	}
	// Layer "0" must always exist.
	l.layers = append(l.layers, layerRecord{name: DefaultLayer, handle: l.alloc()})
	if d.opts.Layer != DefaultLayer {
		l.layers = append(l.layers, layerRecord{name: d.opts.Layer, handle: l.alloc()})
	}
	l.style = l.alloc()
	l.appid = l.alloc()
	l.dimstyle = l.alloc()

	l.modelSpace = blockHandles{record: l.alloc(), begin: l.alloc(), end: l.alloc()}
	l.paperSpace = blockHandles{record: l.alloc(), begin: l.alloc(), end: l.alloc()}

	l.entities = make([]int, len(d.entities))
	for i := range d.entities {
		l.entities[i] = l.alloc()
	}
	return l
}

// handseed is the next free handle.
func (l *layout) handseed() int { return l.next + 1 }

func writeClasses(g *groupWriter) {
	g.str(0, "SECTION")
	g.str(2, "CLASSES")
	g.str(0, "ENDSEC")
}

func (d *Document) writeTables(g *groupWriter, l *layout) {
	g.str(0, "SECTION")
	g.str(2, "TABLES")

	g.tableStart("VPORT", l.vportTable, 1)
	d.writeActiveViewport(g, l)
	g.str(0, "ENDTAB")

	g.tableStart("LTYPE", l.ltypeTable, len(linetypes))
	for i, lt := range linetypes {
		g.recordStart("LTYPE", l.ltypes[i], l.ltypeTable, "AcDbLinetypeTableRecord")
		g.str(2, lt.name)
		g.int(70, 0)
		g.str(3, lt.description)
		g.int(72, 65)
		g.int(73, 0)
		g.float(40, 0)
	}
	g.str(0, "ENDTAB")

	g.tableStart("LAYER", l.layerTable, len(l.layers))
	for _, layer := range l.layers {
		g.recordStart("LAYER", layer.handle, l.layerTable, "AcDbLayerTableRecord")
		g.str(2, layer.name)
		g.int(70, 0)
		g.int(62, 7)
		g.str(6, linetypes[2].name)
	}
	g.str(0, "ENDTAB")

	g.tableStart("STYLE", l.styleTable, 1)
	g.recordStart("STYLE", l.style, l.styleTable, "AcDbTextStyleTableRecord")
	g.str(2, "Standard")
	g.int(70, 0)
	g.float(40, 0)
	g.float(41, 1)
	g.float(50, 0)
	g.int(71, 0)
	g.float(42, 2.5)
	g.str(3, "txt")
	g.str(4, "")
	g.str(0, "ENDTAB")

	g.tableStart("VIEW", l.viewTable, 0)
	g.str(0, "ENDTAB")

	g.tableStart("UCS", l.ucsTable, 0)
	g.str(0, "ENDTAB")

	g.tableStart("APPID", l.appidTable, 1)
	g.recordStart("APPID", l.appid, l.appidTable, "AcDbRegAppTableRecord")
	g.str(2, "ACAD")
	g.int(70, 0)
	g.str(0, "ENDTAB")

	// DIMSTYLE records carry their handle under 105 instead of 5.
	g.tableStart("DIMSTYLE", l.dimstyleTable, 1)
	g.subclass("AcDbDimStyleTable")
	g.int(71, 0)
	g.str(0, "DIMSTYLE")
	g.pair(105, hex(l.dimstyle))
	g.owner(l.dimstyleTable)
	g.subclass("AcDbSymbolTableRecord")
	g.subclass("AcDbDimStyleTableRecord")
	g.str(2, "Standard")
	g.int(70, 0)
	g.str(0, "ENDTAB")

	g.tableStart("BLOCK_RECORD", l.blockRecordTable, 2)
	for _, b := range []struct {
		name string
		h    blockHandles
	}{{"*Model_Space", l.modelSpace}, {"*Paper_Space", l.paperSpace}} {
		g.recordStart("BLOCK_RECORD", b.h.record, l.blockRecordTable, "AcDbBlockTableRecord")
		g.str(2, b.name)
	}
	g.str(0, "ENDTAB")

	g.str(0, "ENDSEC")
}

// writeActiveViewport centers the initial view on the drawing extents.
func (d *Document) writeActiveViewport(g *groupWriter, l *layout) {
	lo, hi := d.extents()
	center := geom.Pt((lo.X+hi.X)/2, (lo.Y+hi.Y)/2)
	height := math.Max(hi.Y-lo.Y, hi.X-lo.X) * 1.1
	if height == 0 {
		height = 1
	}

	g.recordStart("VPORT", l.vport, l.vportTable, "AcDbViewportTableRecord")
	g.str(2, "*Active")
	g.int(70, 0)
	g.float(10, 0)
	g.float(20, 0)
	g.float(11, 1)
	g.float(21, 1)
	g.float(12, center.X)
	g.float(22, center.Y)
	g.float(40, height)
	g.float(41, 1)
}

func writeBlocks(g *groupWriter, l *layout) {
	g.str(0, "SECTION")
	g.str(2, "BLOCKS")
	writeBlock(g, "*Model_Space", l.modelSpace, false)
	writeBlock(g, "*Paper_Space", l.paperSpace, true)
	g.str(0, "ENDSEC")
}

func writeBlock(g *groupWriter, name string, h blockHandles, paper bool) {
	g.str(0, "BLOCK")
	g.handle(h.begin)
	g.owner(h.record)
	g.subclass("AcDbEntity")
	if paper {
		g.int(67, 1)
	}
	g.str(8, DefaultLayer)
	g.subclass("AcDbBlockBegin")
	g.str(2, name)
	g.int(70, 0)
	g.point(10, geom.Point{})
	g.str(3, name)
	g.str(1, "")

	g.str(0, "ENDBLK")
	g.handle(h.end)
	g.owner(h.record)
	g.subclass("AcDbEntity")
	if paper {
		g.int(67, 1)
	}
	g.str(8, DefaultLayer)
	g.subclass("AcDbBlockEnd")
}

func writeObjects(g *groupWriter, l *layout) {
	g.str(0, "SECTION")
	g.str(2, "OBJECTS")

	g.str(0, "DICTIONARY")
	g.handle(l.rootDict)
	g.owner(0)
	g.subclass("AcDbDictionary")
	g.int(281, 1)
	g.str(3, "ACAD_GROUP")
	g.pair(350, hex(l.groupDict))

	g.str(0, "DICTIONARY")
	g.handle(l.groupDict)
	g.owner(l.rootDict)
	g.subclass("AcDbDictionary")
	g.int(281, 1)

	g.str(0, "ENDSEC")
}
