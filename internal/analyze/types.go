package analyze

import (
	"errors"
	"fmt"
	"reflect"
)

// ErrNotStruct is returned when a non-struct type is analyzed.
var ErrNotStruct = errors.New("not a struct type")

// TypeID uniquely identifies a named type by its package path and name.
type TypeID struct {
	PkgPath string // e.g., "rowmapper/mapper"
	Name    string // e.g., "User"
}

// IDOf returns the TypeID of t. Unnamed types carry their literal form.
func IDOf(t reflect.Type) TypeID {
	if t.Name() == "" {
		return TypeID{Name: t.String()}
	}

	return TypeID{PkgPath: t.PkgPath(), Name: t.Name()}
}

// String returns a human-readable representation of the TypeID.
func (t TypeID) String() string {
	if t.PkgPath == "" {
		return t.Name
	}

	return t.PkgPath + "." + t.Name
}

// StructInfo describes a struct type prepared for plan building.
type StructInfo struct {
	ID   TypeID
	Type reflect.Type
	// ContainerTag is the tag of the `_` marker field, empty if absent.
	ContainerTag string
	// HasContainerTag is true when a marker field carries the tag key.
	HasContainerTag bool
	// Fields are the exported fields in declaration order.
	Fields []FieldInfo
}

// FieldInfo describes a struct field.
type FieldInfo struct {
	Name     string       // Go field name
	Type     reflect.Type // Field type
	Tag      string       // Raw value of the tag key
	HasTag   bool         // Whether the tag key is present
	Embedded bool         // Whether the field is embedded (anonymous)
	Index    int          // Field index in the struct
}

// Struct analyzes t, which must be a struct type, reading directives from
// the tagKey struct tag.
func Struct(t reflect.Type, tagKey string) (*StructInfo, error) {
	if t == nil || t.Kind() != reflect.Struct {
		return nil, fmt.Errorf("%w: %v", ErrNotStruct, t)
	}

	info := &StructInfo{
		ID:   IDOf(t),
		Type: t,
	}

	for i := range t.NumField() {
		sf := t.Field(i)
		tag, hasTag := sf.Tag.Lookup(tagKey)

		if sf.Name == "_" {
			if !hasTag {
				continue
			}

			if info.HasContainerTag {
				return nil, fmt.Errorf("%s: more than one `_` marker field carries a %q tag", info.ID, tagKey)
			}

			info.ContainerTag = tag
			info.HasContainerTag = true

			continue
		}

		// Unexported fields cannot be set through reflect. Embedded
		// unexported structs still promote exported fields, but they
		// are not flattened implicitly.
		if !sf.IsExported() {
			continue
		}

		info.Fields = append(info.Fields, FieldInfo{
			Name:     sf.Name,
			Type:     sf.Type,
			Tag:      tag,
			HasTag:   hasTag,
			Embedded: sf.Anonymous,
			Index:    i,
		})
	}

	return info, nil
}

// Field returns the field with the given Go name, or nil.
func (s *StructInfo) Field(name string) *FieldInfo {
	for i := range s.Fields {
		if s.Fields[i].Name == name {
			return &s.Fields[i]
		}
	}

	return nil
}
