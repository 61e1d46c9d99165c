// Package attr parses and validates the decoding directives carried by
// `row` struct tags.
//
// Field tags follow the encoding/json layout: the first element is an
// optional column name, the rest are options.
//
//	Name    string  `row:"full_name"`
//	Score   int32   `row:",default"`
//	Address Address `row:",flatten"`
//	Kind    Kind    `row:"kind,try_from=string"`
//	Cache   []byte  `row:"-"`
//
// Container directives live on a blank marker field:
//
//	_ struct{} `row:",rename_all=snake_case"`
//	_ struct{} `row:",positional"`
package attr
