package capability

import (
	"errors"
	"reflect"
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type celsius float64

func parsePort(s string) (uint16, error) {
	n, err := strconv.ParseUint(s, 10, 16)
	return uint16(n), err
}

func TestParseConverter_Shapes(t *testing.T) {
	tests := []struct {
		name    string
		fn      any
		hasBool bool
		hasErr  bool
	}{
		{"plain", func(s string) int { return len(s) }, false, false},
		{"bool", func(s string) (int, bool) { return len(s), s != "" }, true, false},
		{"error", parsePort, false, true},
		{"bool and error", func(s string) (int, bool, error) { return 0, true, nil }, true, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			conv, err := ParseConverter(tt.fn)
			require.NoError(t, err)
			assert.Equal(t, reflect.TypeFor[string](), conv.Src)
			assert.Equal(t, tt.hasBool, conv.HasBool)
			assert.Equal(t, tt.hasErr, conv.HasErr)
		})
	}
}

func TestParseConverter_Rejects(t *testing.T) {
	_, err := ParseConverter(42)
	assert.ErrorIs(t, err, ErrConverterIsNotAFunction)

	_, err = ParseConverter(nil)
	assert.ErrorIs(t, err, ErrConverterIsNotAFunction)

	_, err = ParseConverter(func(a, b string) int { return 0 })
	assert.ErrorIs(t, err, ErrIsNotAConverter)

	_, err = ParseConverter(func(s string) (int, string) { return 0, "" })
	assert.ErrorIs(t, err, ErrIsNotAConverter)

	_, err = ParseConverter(func(p **int) int { return 0 })
	assert.ErrorIs(t, err, ErrDoublePointer)
}

func TestConverter_Convert(t *testing.T) {
	conv, err := ParseConverter(parsePort)
	require.NoError(t, err)
	assert.Equal(t, "capability.parsePort", conv.Name)

	out, err := conv.Convert(reflect.ValueOf("8080"))
	require.NoError(t, err)
	assert.Equal(t, uint16(8080), out.Interface())

	_, err = conv.Convert(reflect.ValueOf("99999"))
	require.Error(t, err)

	rejecting, err := ParseConverter(func(s string) (int, bool) { return 0, false })
	require.NoError(t, err)

	_, err = rejecting.Convert(reflect.ValueOf("x"))
	assert.ErrorIs(t, err, ErrRejected)

	failing, err := ParseConverter(func(s string) (int, bool, error) { return 0, true, errors.New("boom") })
	require.NoError(t, err)

	_, err = failing.Convert(reflect.ValueOf("x"))
	assert.EqualError(t, err, "boom")
}

func TestBuiltinConverter(t *testing.T) {
	conv, ok := builtinConverter(reflect.TypeFor[int64](), reflect.TypeFor[int8]())
	require.True(t, ok)

	out, err := conv.Convert(reflect.ValueOf(int64(-12)))
	require.NoError(t, err)
	assert.Equal(t, int8(-12), out.Interface())

	_, err = conv.Convert(reflect.ValueOf(int64(1000)))
	assert.Error(t, err)

	toUint, ok := builtinConverter(reflect.TypeFor[int64](), reflect.TypeFor[uint32]())
	require.True(t, ok)

	_, err = toUint.Convert(reflect.ValueOf(int64(-1)))
	assert.Error(t, err)

	toCelsius, ok := builtinConverter(reflect.TypeFor[float64](), reflect.TypeFor[celsius]())
	require.True(t, ok)

	out, err = toCelsius.Convert(reflect.ValueOf(21.5))
	require.NoError(t, err)
	assert.Equal(t, celsius(21.5), out.Interface())

	_, ok = builtinConverter(reflect.TypeFor[string](), reflect.TypeFor[int]())
	assert.False(t, ok)

	_, ok = builtinConverter(reflect.TypeFor[int](), reflect.TypeFor[string]())
	assert.False(t, ok, "int -> string is a rune conversion, not a numeric one")
}

func TestBuiltinConverter_FloatToUnsigned(t *testing.T) {
	conv, ok := builtinConverter(reflect.TypeFor[float64](), reflect.TypeFor[uint64]())
	require.True(t, ok)

	tests := []struct {
		name string
		in   float64
		want uint64
		err  bool
	}{
		{"small", 42, 42, false},
		{"two to the 63", 1 << 63, 1 << 63, false},
		{"above int64", 1.5 * (1 << 63), 3 << 62, false},
		{"two to the 64", 1 << 64, 0, true},
		{"negative", -1, 0, true},
		{"fraction", 2.5, 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, err := conv.Convert(reflect.ValueOf(tt.in))
			if tt.err {
				assert.Error(t, err)
				return
			}

			require.NoError(t, err)
			assert.Equal(t, tt.want, out.Interface())
		})
	}

	toUint8, ok := builtinConverter(reflect.TypeFor[float64](), reflect.TypeFor[uint8]())
	require.True(t, ok)

	_, err := toUint8.Convert(reflect.ValueOf(256.0))
	assert.Error(t, err)

	toInt64, ok := builtinConverter(reflect.TypeFor[float64](), reflect.TypeFor[int64]())
	require.True(t, ok)

	_, err = toInt64.Convert(reflect.ValueOf(float64(1 << 63)))
	assert.Error(t, err)
}
