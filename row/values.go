package row

import (
	"fmt"
	"slices"
	"sort"

	"rowmapper/internal/scalar"
)

// Values is an immutable in-memory row. Column order is preserved for
// positional access; when a name occurs twice the first column wins.
type Values struct {
	columns []string
	values  []any
	index   map[string]int
}

var _ Row = (*Values)(nil)

// New builds a row from parallel column and value slices.
func New(columns []string, values []any) (*Values, error) {
	if len(columns) != len(values) {
		return nil, fmt.Errorf("row: %d columns but %d values", len(columns), len(values))
	}

	v := &Values{
		columns: slices.Clone(columns),
		values:  slices.Clone(values),
		index:   make(map[string]int, len(columns)),
	}

	for i, name := range v.columns {
		if _, dup := v.index[name]; !dup {
			v.index[name] = i
		}
	}

	return v, nil
}

// FromMap builds a named row. Columns are ordered by name so positional
// access stays deterministic.
func FromMap(m map[string]any) *Values {
	columns := make([]string, 0, len(m))
	for name := range m {
		columns = append(columns, name)
	}

	sort.Strings(columns)

	values := make([]any, len(columns))
	for i, name := range columns {
		values[i] = m[name]
	}

	v, _ := New(columns, values)

	return v
}

// Positional builds a row addressed only by index.
func Positional(values ...any) *Values {
	columns := make([]string, len(values))
	for i := range values {
		columns[i] = IndexColumn(i)
	}

	v, _ := New(columns, values)

	return v
}

// Columns returns the column names in order.
func (v *Values) Columns() []string {
	return slices.Clone(v.columns)
}

// Len returns the number of columns.
func (v *Values) Len() int {
	return len(v.columns)
}

// Raw returns the undecoded value of the named column.
func (v *Values) Raw(name string) (any, bool) {
	i, ok := v.index[name]
	if !ok {
		return nil, false
	}

	return v.values[i], true
}

func (v *Values) ScanName(name string, dst any) error {
	i, ok := v.index[name]
	if !ok {
		return ColumnNotFound(name)
	}

	if err := scalar.Assign(dst, v.values[i]); err != nil {
		return Decode(name, err)
	}

	return nil
}

func (v *Values) ScanIndex(index int, dst any) error {
	if index < 0 || index >= len(v.values) {
		return IndexNotFound(index, len(v.values))
	}

	if err := scalar.Assign(dst, v.values[index]); err != nil {
		return Decode(IndexColumn(index), err)
	}

	return nil
}
