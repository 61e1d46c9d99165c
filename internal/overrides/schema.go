package overrides

import (
	"fmt"

	"gopkg.in/yaml.v3"

	"rowmapper/internal/attr"
	"rowmapper/internal/naming"
)

// File is the root of an overrides file.
type File struct {
	// Version of the file format.
	Version string `yaml:"version,omitempty"`

	// Types lists per-type overrides.
	Types []TypeOverride `yaml:"types"`
}

// TypeOverride holds the directives of one struct type.
type TypeOverride struct {
	// Type identifier (e.g. "billing.Invoice" or full path).
	Type string `yaml:"type"`

	// RenameAll is a naming convention, e.g. "snake_case".
	RenameAll string `yaml:"rename_all,omitempty"`

	// Positional switches the type to index addressing.
	Positional bool `yaml:"positional,omitempty"`

	// Fields maps Go field names to their directives.
	Fields map[string]FieldOverride `yaml:"fields,omitempty"`
}

// HasContainer reports whether the entry sets struct-level directives.
func (t *TypeOverride) HasContainer() bool {
	return t.RenameAll != "" || t.Positional
}

func (t *TypeOverride) container() (attr.Container, error) {
	c := attr.Container{Positional: t.Positional}

	if t.RenameAll == "" {
		return c, nil
	}

	conv, err := naming.Parse(t.RenameAll)
	if err != nil {
		return c, err
	}

	c.RenameAll = conv

	return c, nil
}

// FieldOverride holds the directives of one field. In YAML it is either a
// tag string in `row` tag syntax or a mapping with one key per directive.
type FieldOverride struct {
	Rename  string `yaml:"rename,omitempty"`
	Flatten bool   `yaml:"flatten,omitempty"`
	TryFrom string `yaml:"try_from,omitempty"`
	Default bool   `yaml:"default,omitempty"`
	Skip    bool   `yaml:"skip,omitempty"`
}

// Attr returns the field directives.
func (f FieldOverride) Attr() attr.Field {
	return attr.Field{
		Rename:  f.Rename,
		Flatten: f.Flatten,
		TryFrom: f.TryFrom,
		Default: f.Default,
		Skip:    f.Skip,
	}
}

// UnmarshalYAML accepts a tag string or a mapping.
func (f *FieldOverride) UnmarshalYAML(node *yaml.Node) error {
	switch node.Kind {
	case yaml.ScalarNode:
		var tag string

		if err := node.Decode(&tag); err != nil {
			return err
		}

		a, err := attr.ParseField(tag)
		if err != nil {
			return fmt.Errorf("line %d: %w", node.Line, err)
		}

		*f = FieldOverride{
			Rename:  a.Rename,
			Flatten: a.Flatten,
			TryFrom: a.TryFrom,
			Default: a.Default,
			Skip:    a.Skip,
		}

		return nil

	case yaml.MappingNode:
		// plain alias to avoid recursing into this method
		type plain FieldOverride

		var p plain

		if err := node.Decode(&p); err != nil {
			return err
		}

		*f = FieldOverride(p)

		return nil

	default:
		return fmt.Errorf("line %d: expected a tag string or a mapping", node.Line)
	}
}
