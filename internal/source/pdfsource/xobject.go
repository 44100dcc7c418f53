package pdfsource

import (
	"github.com/tsawler/tabula/contentstream"
	"github.com/tsawler/tabula/core"

	"github.com/jackzampolin/pdf2dxf/internal/geom"
)

// maxFormDepth bounds nested form XObjects, which also stops reference
// cycles.
const maxFormDepth = 16

// resolver resolves indirect references. *reader.Reader satisfies it.
type resolver interface {
	Resolve(obj core.Object) (core.Object, error)
}

type directResolver struct{}

func (directResolver) Resolve(obj core.Object) (core.Object, error) { return obj, nil }

// doXObject paints the named form XObject: its content is interpreted under
// the form matrix inside an implicit q/Q, with its own resources when it
// has them. Images and unresolvable names are ignored.
func (in *interpreter) doXObject(op contentstream.Operation) {
	if len(op.Operands) != 1 || in.depth >= maxFormDepth {
		return
	}
	name, ok := op.Operands[0].(core.Name)
	if !ok {
		return
	}

	stream, ok := in.lookupForm(string(name))
	if !ok {
		return
	}
	data, err := stream.Decode()
	if err != nil {
		in.logger.Debug("skipping form xobject", "name", string(name), "error", err)
		return
	}
	ops, err := contentstream.NewParser(data).Parse()
	if err != nil {
		in.logger.Debug("skipping form xobject", "name", string(name), "error", err)
		return
	}

	resources := in.resources
	if r, ok := in.resolveDict(stream.Dict.Get("Resources")); ok {
		resources = r
	}

	saved := *in
	in.ctm = formMatrix(stream.Dict, in.resolve).Mul(in.ctm)
	in.stack = nil
	in.path = nil
	in.resources = resources
	in.depth++

	for _, op := range ops {
		in.apply(op)
	}

	out := in.out
	*in = saved
	in.out = out
}

func (in *interpreter) lookupForm(name string) (*core.Stream, bool) {
	if in.resources == nil {
		return nil, false
	}
	xobjects, ok := in.resolveDict(in.resources.Get("XObject"))
	if !ok {
		return nil, false
	}
	obj := xobjects.Get(name)
	if obj == nil {
		return nil, false
	}
	resolved, err := in.resolve.Resolve(obj)
	if err != nil {
		return nil, false
	}
	stream, ok := resolved.(*core.Stream)
	if !ok {
		return nil, false
	}
	if subtype, _ := stream.Dict.GetName("Subtype"); subtype != "Form" {
		return nil, false
	}
	return stream, true
}

func (in *interpreter) resolveDict(obj core.Object) (core.Dict, bool) {
	if obj == nil {
		return nil, false
	}
	resolved, err := in.resolve.Resolve(obj)
	if err != nil {
		return nil, false
	}
	d, ok := resolved.(core.Dict)
	return d, ok
}

// formMatrix reads /Matrix, defaulting to the identity.
func formMatrix(dict core.Dict, r resolver) geom.Matrix {
	obj := dict.Get("Matrix")
	if obj == nil {
		return geom.Identity
	}
	resolved, err := r.Resolve(obj)
	if err != nil {
		return geom.Identity
	}
	arr, ok := resolved.(core.Array)
	if !ok || len(arr) != 6 {
		return geom.Identity
	}
	var m geom.Matrix
	for i, o := range arr {
		v, ok := number(o)
		if !ok {
			return geom.Identity
		}
		m[i] = v
	}
	return m
}
