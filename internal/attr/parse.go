package attr

import (
	"fmt"
	"strings"

	"rowmapper/internal/naming"
)

const (
	optRename     = "rename"
	optFlatten    = "flatten"
	optTryFrom    = "try_from"
	optDefault    = "default"
	optRenameAll  = "rename_all"
	optPositional = "positional"
)

// ParseField parses the tag value of a struct field.
func ParseField(tag string) (Field, error) {
	var f Field

	if tag == "-" {
		f.Skip = true
		return f, nil
	}

	name, opts := splitTag(tag)
	f.Rename = name
	seen := make(map[string]bool, len(opts))

	for _, opt := range opts {
		key, value, hasValue := strings.Cut(opt, "=")
		if seen[key] {
			return Field{}, fmt.Errorf("%w: duplicate option %q", ErrInvalidTag, key)
		}

		seen[key] = true

		switch key {
		case optFlatten:
			f.Flatten = true
		case optDefault:
			f.Default = true
		case optRename:
			if f.Rename != "" {
				return Field{}, fmt.Errorf("%w: column name given twice", ErrInvalidTag)
			}

			f.Rename = value
		case optTryFrom:
			f.TryFrom = value
		case optRenameAll, optPositional:
			return Field{}, fmt.Errorf("%w: %q is a struct option, put it on a `_ struct{}` marker field", ErrInvalidTag, key)
		case "":
			return Field{}, fmt.Errorf("%w: empty option", ErrInvalidTag)
		default:
			return Field{}, fmt.Errorf("%w: unknown option %q", ErrInvalidTag, key)
		}

		needsValue := key == optRename || key == optTryFrom
		if needsValue && (!hasValue || value == "") {
			return Field{}, fmt.Errorf("%w: option %q needs a value", ErrInvalidTag, key)
		}

		if !needsValue && hasValue {
			return Field{}, fmt.Errorf("%w: option %q takes no value", ErrInvalidTag, key)
		}
	}

	return f, nil
}

// ParseContainer parses the tag value of a `_ struct{}` marker field.
func ParseContainer(tag string) (Container, error) {
	var c Container

	name, opts := splitTag(tag)
	if name != "" {
		return Container{}, fmt.Errorf("%w: marker field cannot name a column", ErrInvalidTag)
	}

	for _, opt := range opts {
		key, value, hasValue := strings.Cut(opt, "=")

		switch key {
		case optRenameAll:
			if !hasValue {
				return Container{}, fmt.Errorf("%w: option %q needs a value", ErrInvalidTag, key)
			}

			conv, err := naming.Parse(value)
			if err != nil {
				return Container{}, fmt.Errorf("%w: %w", ErrInvalidTag, err)
			}

			c.RenameAll = conv
		case optPositional:
			if hasValue {
				return Container{}, fmt.Errorf("%w: option %q takes no value", ErrInvalidTag, key)
			}

			c.Positional = true
		case optRename, optFlatten, optTryFrom, optDefault:
			return Container{}, fmt.Errorf("%w: %q is a field option", ErrInvalidTag, key)
		default:
			return Container{}, fmt.Errorf("%w: unknown struct option %q", ErrInvalidTag, key)
		}
	}

	return c, nil
}

func splitTag(tag string) (string, []string) {
	parts := strings.Split(tag, ",")
	for i := range parts {
		parts[i] = strings.TrimSpace(parts[i])
	}

	return parts[0], parts[1:]
}
