// Package mapper constructs Go structs from rows.
//
// A Mapper derives a decode plan for each struct type the first time the
// type is used, checks every capability the plan needs once, and caches
// the plan. Rows are then decoded by executing the cached plan:
//
//	type User struct {
//		_    struct{} `row:",rename_all=snake_case"`
//		ID   int64
//		Name string `row:"full_name"`
//		Bio  string `row:",default"`
//	}
//
//	m, _ := mapper.New()
//	u, err := mapper.FromRow[User](m, r)
//
// Field directives live in the `row` struct tag: a column name followed by
// options. Supported options are flatten (build the field from the whole
// row), try_from=T (decode as T, then convert with a registered function),
// default (use the zero value when the column is absent) and rename=X.
// A `_ struct{}` marker field carries the struct options rename_all=C and
// positional. The tag "-" skips a field.
//
// Schema problems are reported as row.ErrUnsupportedSchema when a type is
// registered or first used, never while decoding.
package mapper
