package scalar

import (
	"database/sql"
	"errors"
	"fmt"
	"math"
	"reflect"
	"time"
)

var (
	// ErrTypeMismatch is returned when a column value cannot represent the destination type.
	ErrTypeMismatch = errors.New("type mismatch")
	// ErrNull is returned when a NULL column is decoded into a non-nullable type.
	ErrNull = errors.New("unexpected NULL")
)

// Settable reports whether a value of type t can be stored at all.
// Functions, channels, unsafe pointers, double pointers and non-empty
// interfaces cannot receive a column value.
func Settable(t reflect.Type) bool {
	if t == nil {
		return false
	}

	switch t.Kind() {
	case reflect.Func, reflect.Chan, reflect.UnsafePointer, reflect.Invalid:
		return false
	case reflect.Interface:
		return t.NumMethod() == 0
	case reflect.Pointer:
		return t.Elem().Kind() != reflect.Pointer && Settable(t.Elem())
	default:
		return true
	}
}

// Assign decodes src into dst, which must be a pointer.
func Assign(dst any, src any) error {
	v := reflect.ValueOf(dst)
	if v.Kind() != reflect.Pointer || v.IsNil() {
		return fmt.Errorf("destination must be a non-nil pointer, got %T", dst)
	}

	return AssignValue(v.Elem(), src)
}

// AssignValue decodes src into the settable value dst.
func AssignValue(dst reflect.Value, src any) error {
	t := dst.Type()

	if dst.CanAddr() {
		if s, ok := dst.Addr().Interface().(sql.Scanner); ok {
			return s.Scan(src)
		}
	}

	if t.Kind() == reflect.Pointer {
		if src == nil {
			dst.Set(reflect.Zero(t))
			return nil
		}

		elem := reflect.New(t.Elem())
		if err := AssignValue(elem.Elem(), src); err != nil {
			return err
		}

		dst.Set(elem)

		return nil
	}

	if src == nil {
		// NULL reads as a nil slice, as in database/sql
		if t.Kind() == reflect.Interface || KindOf(t) == KindBytes {
			dst.Set(reflect.Zero(t))
			return nil
		}

		return fmt.Errorf("%w into %s", ErrNull, t)
	}

	sv := reflect.ValueOf(src)
	if sv.Type() == t || (t.Kind() == reflect.Interface && sv.Type().AssignableTo(t)) {
		dst.Set(sv)
		return nil
	}

	switch KindOf(t) {
	case KindInt:
		return assignInt(dst, sv)
	case KindUint:
		return assignUint(dst, sv)
	case KindFloat:
		return assignFloat(dst, sv)
	case KindBool:
		return assignBool(dst, sv)
	case KindString:
		return assignString(dst, sv)
	case KindBytes:
		return assignBytes(dst, sv)
	case KindTime:
		return assignTime(dst, sv)
	case KindDuration:
		return assignInt(dst, sv)
	default:
		return mismatch(sv, t)
	}
}

func mismatch(sv reflect.Value, t reflect.Type) error {
	return fmt.Errorf("%w: cannot decode %s into %s", ErrTypeMismatch, sv.Type(), t)
}

func assignInt(dst reflect.Value, sv reflect.Value) error {
	var n int64

	switch KindOf(sv.Type()) {
	case KindInt, KindDuration:
		n = sv.Int()
	case KindUint:
		u := sv.Uint()
		if u > math.MaxInt64 {
			return fmt.Errorf("%w: %d overflows %s", ErrTypeMismatch, u, dst.Type())
		}

		n = int64(u)
	case KindFloat:
		f := sv.Float()
		if f != math.Trunc(f) || f < math.MinInt64 || f >= math.MaxInt64 {
			return fmt.Errorf("%w: %v is not an integer", ErrTypeMismatch, f)
		}

		n = int64(f)
	default:
		return mismatch(sv, dst.Type())
	}

	if dst.OverflowInt(n) {
		return fmt.Errorf("%w: %d overflows %s", ErrTypeMismatch, n, dst.Type())
	}

	dst.SetInt(n)

	return nil
}

func assignUint(dst reflect.Value, sv reflect.Value) error {
	var n uint64

	switch KindOf(sv.Type()) {
	case KindInt, KindDuration:
		i := sv.Int()
		if i < 0 {
			return fmt.Errorf("%w: %d is negative for %s", ErrTypeMismatch, i, dst.Type())
		}

		n = uint64(i)
	case KindUint:
		n = sv.Uint()
	case KindFloat:
		f := sv.Float()
		if f != math.Trunc(f) || f < 0 || f >= math.MaxUint64 {
			return fmt.Errorf("%w: %v is not an unsigned integer", ErrTypeMismatch, f)
		}

		n = uint64(f)
	default:
		return mismatch(sv, dst.Type())
	}

	if dst.OverflowUint(n) {
		return fmt.Errorf("%w: %d overflows %s", ErrTypeMismatch, n, dst.Type())
	}

	dst.SetUint(n)

	return nil
}

func assignFloat(dst reflect.Value, sv reflect.Value) error {
	switch KindOf(sv.Type()) {
	case KindInt:
		dst.SetFloat(float64(sv.Int()))
	case KindUint:
		dst.SetFloat(float64(sv.Uint()))
	case KindFloat:
		f := sv.Float()
		if dst.OverflowFloat(f) {
			return fmt.Errorf("%w: %v overflows %s", ErrTypeMismatch, f, dst.Type())
		}

		dst.SetFloat(f)
	default:
		return mismatch(sv, dst.Type())
	}

	return nil
}

// assignBool accepts booleans and the 0/1 integers SQLite stores them as.
func assignBool(dst reflect.Value, sv reflect.Value) error {
	switch KindOf(sv.Type()) {
	case KindBool:
		dst.SetBool(sv.Bool())
	case KindInt:
		switch sv.Int() {
		case 0:
			dst.SetBool(false)
		case 1:
			dst.SetBool(true)
		default:
			return fmt.Errorf("%w: %d is not a boolean", ErrTypeMismatch, sv.Int())
		}
	default:
		return mismatch(sv, dst.Type())
	}

	return nil
}

func assignString(dst reflect.Value, sv reflect.Value) error {
	switch KindOf(sv.Type()) {
	case KindString:
		dst.SetString(sv.String())
	case KindBytes:
		dst.SetString(string(sv.Bytes()))
	default:
		return mismatch(sv, dst.Type())
	}

	return nil
}

func assignBytes(dst reflect.Value, sv reflect.Value) error {
	var b []byte

	switch KindOf(sv.Type()) {
	case KindBytes:
		b = append([]byte(nil), sv.Bytes()...)
	case KindString:
		b = []byte(sv.String())
	default:
		return mismatch(sv, dst.Type())
	}

	dst.SetBytes(b)

	return nil
}

func assignTime(dst reflect.Value, sv reflect.Value) error {
	var s string

	switch KindOf(sv.Type()) {
	case KindTime:
		dst.Set(sv.Convert(timeType))
		return nil
	case KindString:
		s = sv.String()
	case KindBytes:
		s = string(sv.Bytes())
	default:
		return mismatch(sv, dst.Type())
	}

	for _, layout := range timeLayouts {
		if ts, err := time.Parse(layout, s); err == nil {
			dst.Set(reflect.ValueOf(ts))
			return nil
		}
	}

	return fmt.Errorf("%w: %q is not a timestamp", ErrTypeMismatch, s)
}

var timeLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02 15:04:05.999999999-07:00",
	"2006-01-02 15:04:05.999999999",
	"2006-01-02",
}
