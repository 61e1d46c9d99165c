// Package jsonrow reads rows from JSON documents.
//
// A JSON object becomes a named row whose columns keep document order; a
// JSON array becomes a positional row. Numbers decode as int64 when they
// are integral and fit, float64 otherwise. Nested objects and arrays are
// kept as raw JSON bytes, so they can fill []byte, string or sql.Scanner
// fields.
package jsonrow

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"strconv"

	j "github.com/goccy/go-json"

	"rowmapper/mapper"
	"rowmapper/row"
)

// ErrNotRow is returned for top-level JSON values that are neither objects
// nor arrays.
var ErrNotRow = errors.New("JSON value is not an object or array")

// Parse reads a single JSON object or array as a row.
func Parse(data []byte) (*row.Values, error) {
	r := NewReader(bytes.NewReader(data))

	v, err := r.Next()
	if errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("parse row: %w", io.ErrUnexpectedEOF)
	}

	if err != nil {
		return nil, err
	}

	if _, err := r.Next(); !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("parse row: trailing data after first value")
	}

	return v, nil
}

// Reader reads a stream of top-level JSON values, such as newline
// delimited JSON, one row per value.
type Reader struct {
	dec *j.Decoder
	n   int
}

// NewReader returns a Reader consuming r.
func NewReader(r io.Reader) *Reader {
	dec := j.NewDecoder(r)
	dec.UseNumber()

	return &Reader{dec: dec}
}

// Next returns the next row, or io.EOF when the stream is exhausted.
func (r *Reader) Next() (*row.Values, error) {
	tok, err := r.dec.Token()
	if errors.Is(err, io.EOF) {
		return nil, io.EOF
	}

	if err != nil {
		return nil, fmt.Errorf("value %d: %w", r.n, err)
	}

	var v *row.Values

	switch tok {
	case j.Delim('{'):
		v, err = r.readObject()
	case j.Delim('['):
		v, err = r.readArray()
	default:
		err = fmt.Errorf("%w: got %v", ErrNotRow, tok)
	}

	if err != nil {
		return nil, fmt.Errorf("value %d: %w", r.n, err)
	}

	r.n++

	return v, nil
}

func (r *Reader) readObject() (*row.Values, error) {
	var (
		columns []string
		values  []any
	)

	for r.dec.More() {
		tok, err := r.dec.Token()
		if err != nil {
			return nil, err
		}

		key, ok := tok.(string)
		if !ok {
			return nil, fmt.Errorf("expected object key, got %v", tok)
		}

		v, err := r.readValue()
		if err != nil {
			return nil, fmt.Errorf("key %q: %w", key, err)
		}

		columns = append(columns, key)
		values = append(values, v)
	}

	if err := r.closing('}'); err != nil {
		return nil, err
	}

	return row.New(columns, values)
}

func (r *Reader) readArray() (*row.Values, error) {
	var values []any

	for r.dec.More() {
		v, err := r.readValue()
		if err != nil {
			return nil, fmt.Errorf("index %d: %w", len(values), err)
		}

		values = append(values, v)
	}

	if err := r.closing(']'); err != nil {
		return nil, err
	}

	return row.Positional(values...), nil
}

func (r *Reader) closing(d j.Delim) error {
	tok, err := r.dec.Token()
	if err != nil {
		return err
	}

	if tok != d {
		return fmt.Errorf("expected %v, got %v", d, tok)
	}

	return nil
}

// readValue reads one column value.
func (r *Reader) readValue() (any, error) {
	var raw j.RawMessage
	if err := r.dec.Decode(&raw); err != nil {
		return nil, err
	}

	return scalar(raw)
}

// scalar converts one raw JSON value to its column form.
func scalar(raw j.RawMessage) (any, error) {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) > 0 && (trimmed[0] == '{' || trimmed[0] == '[') {
		return bytes.Clone(trimmed), nil
	}

	dec := j.NewDecoder(bytes.NewReader(trimmed))
	dec.UseNumber()

	var v any
	if err := dec.Decode(&v); err != nil {
		return nil, err
	}

	if n, ok := v.(j.Number); ok {
		return number(n)
	}

	return v, nil
}

func number(n j.Number) (any, error) {
	if i, err := strconv.ParseInt(string(n), 10, 64); err == nil {
		return i, nil
	}

	f, err := strconv.ParseFloat(string(n), 64)
	if err != nil {
		return nil, fmt.Errorf("invalid number %q: %w", n, err)
	}

	return f, nil
}

// Decode parses data as a single row and decodes it into a T.
func Decode[T any](m *mapper.Mapper, data []byte) (T, error) {
	var zero T

	if err := mapper.Register[T](m); err != nil {
		return zero, err
	}

	r, err := Parse(data)
	if err != nil {
		return zero, err
	}

	return mapper.FromRow[T](m, r)
}

// DecodeAll decodes every top-level value of src into a T.
func DecodeAll[T any](m *mapper.Mapper, src io.Reader) ([]T, error) {
	if err := mapper.Register[T](m); err != nil {
		return nil, err
	}

	var (
		out []T
		rd  = NewReader(src)
	)

	for {
		r, err := rd.Next()
		if errors.Is(err, io.EOF) {
			return out, nil
		}

		if err != nil {
			return nil, err
		}

		v, err := mapper.FromRow[T](m, r)
		if err != nil {
			return nil, fmt.Errorf("value %d: %w", len(out), err)
		}

		out = append(out, v)
	}
}
