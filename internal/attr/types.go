package attr

import (
	"errors"
	"strings"

	"rowmapper/internal/naming"
)

// DefaultTagKey is the struct tag key holding decoding directives.
const DefaultTagKey = "row"

var (
	// ErrInvalidTag is returned for malformed or unknown tag options.
	ErrInvalidTag = errors.New("invalid row tag")
	// ErrFlattenWithRename is returned when a flattened field also names a column.
	ErrFlattenWithRename = errors.New("flatten cannot be combined with rename")
	// ErrFlattenPositional is returned for flatten in a position-addressed struct.
	ErrFlattenPositional = errors.New("flatten is not supported in positional structs")
	// ErrSkipCombined is returned when "-" is mixed with other options.
	ErrSkipCombined = errors.New("skipped field cannot carry other options")
)

// Field holds the resolved directives of one struct field.
type Field struct {
	// Rename is the explicit column name, empty when absent.
	Rename string
	// Flatten decodes the field as a nested object from the whole row.
	Flatten bool
	// TryFrom names the intermediate type decoded before a fallible conversion.
	TryFrom string
	// Default substitutes the zero value when the column is absent.
	Default bool
	// Skip excludes the field from decoding.
	Skip bool
}

// IsZero reports whether no directive is set.
func (f Field) IsZero() bool {
	return f == Field{}
}

// Container holds struct-wide directives.
type Container struct {
	// RenameAll is applied to every field without an explicit rename.
	RenameAll naming.Convention
	// Positional switches the struct to index addressing.
	Positional bool
}

// Validate checks that the directives of f can be satisfied together
// inside a struct with container directives c.
func (f Field) Validate(c Container) error {
	if f.Skip {
		if f.Rename != "" || f.Flatten || f.TryFrom != "" || f.Default {
			return ErrSkipCombined
		}

		return nil
	}

	if f.Flatten && c.Positional {
		return ErrFlattenPositional
	}

	if f.Flatten && f.Rename != "" {
		return ErrFlattenWithRename
	}

	return nil
}

// ColumnName derives the column a non-flattened field reads in a
// name-addressed struct. An explicit rename wins over the container
// convention; otherwise the identifier, stripped of any raw prefix, is
// converted by rename_all or used as is.
func ColumnName(ident string, f Field, c Container) string {
	if f.Rename != "" {
		return f.Rename
	}

	return naming.Convert(ident, c.RenameAll)
}

// String renders f back into tag syntax.
func (f Field) String() string {
	if f.Skip {
		return "-"
	}

	parts := []string{f.Rename}
	if f.Flatten {
		parts = append(parts, optFlatten)
	}

	if f.TryFrom != "" {
		parts = append(parts, optTryFrom+"="+f.TryFrom)
	}

	if f.Default {
		parts = append(parts, optDefault)
	}

	return strings.Join(parts, ",")
}
