// Package scalar converts raw column values into concrete Go scalar types.
//
// Row sources hand over whatever their driver produced (int64, float64,
// string, []byte, time.Time, bool, nil, ...) and Assign writes it into the
// destination field, widening numbers where no precision is lost and
// rejecting everything else with ErrTypeMismatch.
package scalar

import (
	"database/sql"
	"reflect"
	"time"
)

// Kind classifies a destination type by how a column value decodes into it.
type Kind int

const (
	_ Kind = iota // zero value marks an undecodable type

	KindInt
	KindUint
	KindFloat
	KindBool
	KindString
	KindBytes
	KindTime
	KindDuration
	KindScanner // implements sql.Scanner, accepts any column value
	KindAny     // empty interface, receives the raw value

	// KindTotal is the number of kinds defined.
	KindTotal = int(iota)
)

var kindNames = [...]string{
	"KindInvalid",
	"KindInt",
	"KindUint",
	"KindFloat",
	"KindBool",
	"KindString",
	"KindBytes",
	"KindTime",
	"KindDuration",
	"KindScanner",
	"KindAny",
}

func (k Kind) String() string {
	if int(k) >= 0 && int(k) < len(kindNames) {
		return kindNames[k]
	}

	return "KindInvalid"
}

// IsNumber reports whether k is an integer or floating-point kind.
func (k Kind) IsNumber() bool {
	switch k {
	default:
		return false
	case KindInt, KindUint, KindFloat:
		return true
	}
}

var (
	scannerType  = reflect.TypeFor[sql.Scanner]()
	timeType     = reflect.TypeFor[time.Time]()
	durationType = reflect.TypeFor[time.Duration]()
	bytesType    = reflect.TypeFor[[]byte]()
)

// KindOf returns the decode kind of t. Pointers are classified by their
// element, a nil column decoding to a nil pointer. The zero Kind means
// no column value can be decoded into t.
func KindOf(t reflect.Type) Kind {
	if t == nil {
		return 0
	}

	if reflect.PointerTo(t).Implements(scannerType) {
		return KindScanner
	}

	if t.Kind() == reflect.Pointer {
		if t.Elem().Kind() == reflect.Pointer {
			return 0
		}

		return KindOf(t.Elem())
	}

	switch t {
	case timeType:
		return KindTime
	case durationType:
		return KindDuration
	}

	switch t.Kind() {
	default:
		return 0
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return KindInt
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return KindUint
	case reflect.Float32, reflect.Float64:
		return KindFloat
	case reflect.Bool:
		return KindBool
	case reflect.String:
		return KindString
	case reflect.Slice:
		if t.Elem().Kind() == reflect.Uint8 {
			return KindBytes
		}

		return 0
	case reflect.Interface:
		if t.NumMethod() == 0 {
			return KindAny
		}

		return 0
	}
}

// Decodable reports whether Assign can ever write into a value of type t.
func Decodable(t reflect.Type) bool {
	return KindOf(t) != 0
}
