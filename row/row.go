package row

// Row is a single record with named and positionally indexed columns.
type Row interface {
	// ScanName decodes the column called name into dst, a non-nil pointer.
	ScanName(name string, dst any) error
	// ScanIndex decodes the column at the zero-based index into dst.
	ScanIndex(index int, dst any) error
}

// Loader is implemented by types that construct themselves from a whole
// row. Such types may be flattened into other structs without a plan of
// their own.
type Loader interface {
	LoadRow(r Row) error
}
