package overrides

import (
	"fmt"
	"path"
	"strings"

	"rowmapper/internal/analyze"
	"rowmapper/internal/attr"
)

// Index answers override lookups for analyzed types. It is immutable and
// safe for concurrent use.
type Index struct {
	entries map[string]*entry
}

type entry struct {
	name         string
	container    attr.Container
	hasContainer bool
	fields       map[string]attr.Field
}

// Compile validates f and indexes it by type name.
func Compile(f *File) (*Index, error) {
	if diags := Validate(f); diags.HasErrors() {
		return nil, fmt.Errorf("invalid overrides: %w", diags.Err())
	}

	idx := &Index{entries: make(map[string]*entry, len(f.Types))}

	for i := range f.Types {
		t := &f.Types[i]

		e := &entry{
			name:         strings.TrimSpace(t.Type),
			hasContainer: t.HasContainer(),
			fields:       make(map[string]attr.Field, len(t.Fields)),
		}

		// Validate already rejected bad conventions.
		e.container, _ = t.container()

		for name, fo := range t.Fields {
			e.fields[name] = fo.Attr()
		}

		idx.entries[e.name] = e
	}

	return idx, nil
}

// Load reads, validates and indexes the overrides file at path.
func Load(filePath string) (*Index, error) {
	f, err := LoadFile(filePath)
	if err != nil {
		return nil, err
	}

	return Compile(f)
}

// Len returns the number of indexed types.
func (x *Index) Len() int {
	return len(x.entries)
}

// Container returns the struct-level directives for id, if overridden.
func (x *Index) Container(id analyze.TypeID) (attr.Container, bool) {
	e := x.lookup(id)
	if e == nil || !e.hasContainer {
		return attr.Container{}, false
	}

	return e.container, true
}

// Field returns the directives of field in id, if overridden.
func (x *Index) Field(id analyze.TypeID, field string) (attr.Field, bool) {
	e := x.lookup(id)
	if e == nil {
		return attr.Field{}, false
	}

	f, ok := e.fields[field]

	return f, ok
}

// lookup tries the full identifier, then the short package form, then
// the bare type name.
func (x *Index) lookup(id analyze.TypeID) *entry {
	if x == nil {
		return nil
	}

	keys := []string{id.String()}
	if id.PkgPath != "" {
		keys = append(keys, path.Base(id.PkgPath)+"."+id.Name, id.Name)
	}

	for _, k := range keys {
		if e, ok := x.entries[k]; ok {
			return e
		}
	}

	return nil
}
