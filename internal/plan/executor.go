package plan

import (
	"errors"
	"fmt"
	"reflect"

	"rowmapper/row"
)

// Execute builds a new value of p.Type from r. Steps run in declaration
// order; the first failing step aborts and no partial value is returned.
func (p *Plan) Execute(r row.Row) (reflect.Value, error) {
	out := reflect.New(p.Type).Elem()

	if err := p.decodeInto(r, out); err != nil {
		return reflect.Value{}, err
	}

	return out, nil
}

// ExecuteInto decodes r into dst, a non-nil pointer to p.Type. dst is
// written only if every step succeeds.
func (p *Plan) ExecuteInto(r row.Row, dst any) error {
	v := reflect.ValueOf(dst)
	if v.Kind() != reflect.Pointer || v.IsNil() || v.Type().Elem() != p.Type {
		return fmt.Errorf("destination must be a non-nil *%s, got %T", p.Type, dst)
	}

	out, err := p.Execute(r)
	if err != nil {
		return err
	}

	v.Elem().Set(out)

	return nil
}

func (p *Plan) decodeInto(r row.Row, out reflect.Value) error {
	for i := range p.Steps {
		s := &p.Steps[i]

		v, err := s.decode(r)
		if err != nil {
			// Only absence is defaulted; malformed data still fails.
			if s.Default && errors.Is(err, row.ErrColumnNotFound) {
				continue
			}

			return fmt.Errorf("%s.%s: %w", p.ID.Name, s.Field, err)
		}

		out.Field(s.FieldIndex).Set(v)
	}

	return nil
}

func (s *Step) decode(r row.Row) (reflect.Value, error) {
	var (
		v   reflect.Value
		err error
	)

	if s.Strategy.IsFlatten() {
		v, err = s.decodeNested(r)
	} else {
		v, err = s.decodeColumn(r)
	}

	if err != nil || s.Converter == nil {
		return v, err
	}

	converted, err := s.Converter.Convert(v)
	if err != nil {
		return reflect.Value{}, row.Conversion(s.Key.String(),
			fmt.Sprintf("%s -> %s via %s", s.Source, s.Target, s.Converter.Name), err)
	}

	return converted, nil
}

func (s *Step) decodeColumn(r row.Row) (reflect.Value, error) {
	ptr := reflect.New(s.Source)

	var err error
	if s.Key.Positional {
		err = r.ScanIndex(s.Key.Index, ptr.Interface())
	} else {
		err = r.ScanName(s.Key.Name, ptr.Interface())
	}

	if err != nil {
		return reflect.Value{}, err
	}

	return ptr.Elem(), nil
}

func (s *Step) decodeNested(r row.Row) (reflect.Value, error) {
	if s.Loader {
		ptr := reflect.New(s.Source)
		if err := ptr.Interface().(row.Loader).LoadRow(r); err != nil {
			return reflect.Value{}, err
		}

		return ptr.Elem(), nil
	}

	v, err := s.Nested.Execute(r)
	if err != nil {
		return reflect.Value{}, err
	}

	if s.Pointer {
		ptr := reflect.New(v.Type())
		ptr.Elem().Set(v)

		return ptr, nil
	}

	return v, nil
}
