package mapper

import (
	"fmt"
	"log/slog"
	"reflect"

	"rowmapper/internal/overrides"
)

// Option configures a Mapper.
type Option func(*Mapper) error

// WithLogger sets the logger used to report plan builds and warnings.
func WithLogger(l *slog.Logger) Option {
	return func(m *Mapper) error {
		if l == nil {
			return fmt.Errorf("logger is nil")
		}

		m.logger = l.With("component", "rowmapper")

		return nil
	}
}

// WithTagKey reads directives from a struct tag other than `row`.
func WithTagKey(key string) Option {
	return func(m *Mapper) error {
		if key == "" {
			return fmt.Errorf("tag key is empty")
		}

		m.config.TagKey = key

		return nil
	}
}

// WithoutEmbeddedFlatten stops untagged embedded structs from being
// flattened implicitly.
func WithoutEmbeddedFlatten() Option {
	return func(m *Mapper) error {
		m.config.FlattenEmbedded = false
		return nil
	}
}

// WithConverter registers a conversion function for try_from. fn must have
// one of the shapes func(S) D, func(S) (D, bool), func(S) (D, error) or
// func(S) (D, bool, error). S becomes addressable by its type name.
func WithConverter(fn any) Option {
	return func(m *Mapper) error {
		return m.registry.Register(fn)
	}
}

// WithTypeName makes t addressable by try_from under name.
func WithTypeName(name string, t reflect.Type) Option {
	return func(m *Mapper) error {
		return m.registry.RegisterType(name, t)
	}
}

// WithOverridesFile loads directives from a YAML overrides file.
func WithOverridesFile(path string) Option {
	return func(m *Mapper) error {
		idx, err := overrides.Load(path)
		if err != nil {
			return err
		}

		m.overrides = idx

		return nil
	}
}
