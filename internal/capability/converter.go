package capability

import (
	"errors"
	"fmt"
	"math"
	"path"
	"reflect"
	"runtime"
	"strings"

	"rowmapper/internal/scalar"
)

var (
	ErrIsNotAConverter         = errors.New("provided function is not a recognizable converter")
	ErrConverterIsNotAFunction = errors.New("provided converter is not a function")
	ErrDoublePointer           = errors.New("converter function does not support double pointers")
	// ErrRejected is returned when a converter reports false without an error.
	ErrRejected = errors.New("value rejected by converter")
)

// Converter is a fallible conversion from Src to Dst.
type Converter struct {
	Src, Dst reflect.Type
	Name     string
	HasBool  bool
	HasErr   bool

	fn      reflect.Value
	builtin func(reflect.Value) (reflect.Value, error)
}

// ParseConverter inspects fn and returns a Converter if it has one of the
// supported shapes.
func ParseConverter(fn any) (Converter, error) {
	if fn == nil {
		return Converter{}, ErrConverterIsNotAFunction
	}

	fnVal := reflect.ValueOf(fn)
	fnType := fnVal.Type()

	if fnType.Kind() != reflect.Func {
		return Converter{}, ErrConverterIsNotAFunction
	}

	if fnType.NumIn() != 1 || fnType.NumOut() == 0 || fnType.IsVariadic() {
		return Converter{}, ErrIsNotAConverter
	}

	src := fnType.In(0)
	dst := fnType.Out(0)

	if isDoublePointer(src) || isDoublePointer(dst) {
		return Converter{}, ErrDoublePointer
	}

	conv := Converter{
		Src:  src,
		Dst:  dst,
		Name: funcName(fnVal),
		fn:   fnVal,
	}

	switch fnType.NumOut() {
	default:
		return Converter{}, ErrIsNotAConverter

	case 1:
		return conv, nil

	case 2:
		last := fnType.Out(1)

		switch {
		default:
			return Converter{}, ErrIsNotAConverter
		case last.Kind() == reflect.Bool:
			conv.HasBool = true
		case isError(last):
			conv.HasErr = true
		}

		return conv, nil

	case 3:
		tbool, terr := fnType.Out(1), fnType.Out(2)
		if tbool.Kind() != reflect.Bool || !isError(terr) {
			return Converter{}, ErrIsNotAConverter
		}

		conv.HasBool = true
		conv.HasErr = true

		return conv, nil
	}
}

// Convert applies the conversion to v, which must be of type Src.
func (c Converter) Convert(v reflect.Value) (reflect.Value, error) {
	if c.builtin != nil {
		return c.builtin(v)
	}

	out := c.fn.Call([]reflect.Value{v})
	result := out[0]

	if c.HasErr {
		if errVal := out[len(out)-1]; !errVal.IsNil() {
			return reflect.Value{}, errVal.Interface().(error)
		}
	}

	if c.HasBool && !out[1].Bool() {
		return reflect.Value{}, ErrRejected
	}

	return result, nil
}

// String describes the conversion for diagnostics.
func (c Converter) String() string {
	return fmt.Sprintf("%s(%s) -> %s", c.Name, c.Src, c.Dst)
}

// builtinConverter returns an overflow-checked conversion between scalar
// kinds that reflect can convert, or false.
func builtinConverter(src, dst reflect.Type) (Converter, bool) {
	sk, dk := scalar.KindOf(src), scalar.KindOf(dst)
	if src.Kind() == reflect.Pointer || dst.Kind() == reflect.Pointer {
		return Converter{}, false
	}

	numeric := sk.IsNumber() && dk.IsNumber()
	stringish := sk == scalar.KindString && dk == scalar.KindString
	sameKind := sk == dk && sk != 0 && sk != scalar.KindScanner && sk != scalar.KindAny

	if !(numeric || stringish || sameKind) || !src.ConvertibleTo(dst) {
		return Converter{}, false
	}

	return Converter{
		Src:  src,
		Dst:  dst,
		Name: "convert",
		builtin: func(v reflect.Value) (reflect.Value, error) {
			if err := checkRange(v, dst); err != nil {
				return reflect.Value{}, err
			}

			return v.Convert(dst), nil
		},
	}, true
}

// checkRange reports values that would not survive conversion to dst.
func checkRange(v reflect.Value, dst reflect.Type) error {
	target := reflect.New(dst).Elem()

	switch scalar.KindOf(v.Type()) {
	case scalar.KindInt, scalar.KindDuration:
		n := v.Int()

		switch scalar.KindOf(dst) {
		case scalar.KindInt, scalar.KindDuration:
			if target.OverflowInt(n) {
				return fmt.Errorf("%d overflows %s", n, dst)
			}
		case scalar.KindUint:
			if n < 0 || target.OverflowUint(uint64(n)) {
				return fmt.Errorf("%d out of range for %s", n, dst)
			}
		}
	case scalar.KindUint:
		n := v.Uint()

		switch scalar.KindOf(dst) {
		case scalar.KindInt, scalar.KindDuration:
			if n > math.MaxInt64 || target.OverflowInt(int64(n)) {
				return fmt.Errorf("%d overflows %s", n, dst)
			}
		case scalar.KindUint:
			if target.OverflowUint(n) {
				return fmt.Errorf("%d overflows %s", n, dst)
			}
		}
	case scalar.KindFloat:
		f := v.Float()

		switch scalar.KindOf(dst) {
		case scalar.KindInt, scalar.KindUint, scalar.KindDuration:
			if f != math.Trunc(f) {
				return fmt.Errorf("%v is not an integer", f)
			}

			if scalar.KindOf(dst) == scalar.KindUint {
				if f < 0 {
					return fmt.Errorf("%v out of range for %s", f, dst)
				}

				if f >= math.MaxUint64 || target.OverflowUint(uint64(f)) {
					return fmt.Errorf("%v overflows %s", f, dst)
				}
			} else if f >= math.MaxInt64 || f < math.MinInt64 || target.OverflowInt(int64(f)) {
				return fmt.Errorf("%v overflows %s", f, dst)
			}
		case scalar.KindFloat:
			if target.OverflowFloat(f) {
				return fmt.Errorf("%v overflows %s", f, dst)
			}
		}
	}

	return nil
}

func funcName(fnVal reflect.Value) string {
	fn := runtime.FuncForPC(fnVal.Pointer())
	if fn == nil {
		return "func"
	}

	// "rowmapper/mapper_test.parseScore" -> "mapper_test.parseScore"
	return path.Base(strings.TrimSuffix(fn.Name(), "-fm"))
}

func isDoublePointer(t reflect.Type) bool {
	return t.Kind() == reflect.Pointer && t.Elem().Kind() == reflect.Pointer
}

var errorType = reflect.TypeFor[error]()

func isError(t reflect.Type) bool {
	return t != nil && t.Kind() == reflect.Interface && t.Implements(errorType)
}
