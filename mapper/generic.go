package mapper

import (
	"reflect"

	"rowmapper/row"
)

// FromRow constructs a T from r using m's cached plan for T.
func FromRow[T any](m *Mapper, r row.Row) (T, error) {
	var zero T

	p, err := m.Plan(reflect.TypeFor[T]())
	if err != nil {
		return zero, err
	}

	v, err := p.Execute(r)
	if err != nil {
		return zero, err
	}

	return v.Interface().(T), nil
}

// Register builds and caches the plan of T.
func Register[T any](m *Mapper) error {
	return m.Register(reflect.TypeFor[T]())
}

// MustRegister is like Register but panics on error. It is meant for
// package-level initialization.
func MustRegister[T any](m *Mapper) {
	if err := Register[T](m); err != nil {
		panic(err)
	}
}

// Describe returns a human-readable rendering of T's plan.
func Describe[T any](m *Mapper) (string, error) {
	p, err := m.Plan(reflect.TypeFor[T]())
	if err != nil {
		return "", err
	}

	return p.Describe(), nil
}
