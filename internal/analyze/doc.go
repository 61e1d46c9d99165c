// Package analyze extracts the field layout of Go struct types via reflect.
//
// It is the schema front end of the plan builder: for a struct type it
// returns the exported fields in declaration order together with their raw
// `row` tags, and the tag of the `_ struct{}` marker field that carries
// container directives.
//
// Key types:
//   - TypeID: package path + type name, used in diagnostics
//   - StructInfo: a struct type with its marker tag and fields
//   - FieldInfo: field name, type, raw tag, index and embedding
package analyze
