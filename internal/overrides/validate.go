package overrides

import (
	"fmt"
	"strings"

	"rowmapper/internal/attr"
	"rowmapper/internal/diagnostic"
)

// Validate checks an overrides file for structural problems. It does not
// check that types and fields exist; that happens when plans are built.
func Validate(f *File) *diagnostic.Diagnostics {
	res := &diagnostic.Diagnostics{}
	if f == nil {
		res.AddError("file_is_nil", "overrides file is nil", "", "")
		return res
	}

	if f.Version != "1" {
		res.AddError("unsupported_version", fmt.Sprintf("unsupported version %q", f.Version), "", "")
	}

	seen := map[string]struct{}{}

	for i := range f.Types {
		t := &f.Types[i]

		name := strings.TrimSpace(t.Type)
		if name == "" {
			res.AddError("missing_type", fmt.Sprintf("types[%d] has no type", i), "", "")
			continue
		}

		if _, ok := seen[name]; ok {
			res.AddError("duplicate_type", fmt.Sprintf("duplicate entry for %q", name), name, "")
			continue
		}

		seen[name] = struct{}{}

		container, ok := validateContainer(res, t)
		if !ok {
			continue
		}

		for field, fo := range t.Fields {
			if err := fo.Attr().Validate(container); err != nil {
				res.AddError("invalid_field", err.Error(), name, field)
			}

			if fo.Rename != "" && container.Positional {
				res.AddWarning("ignored_rename", "rename is ignored in a positional type", name, field)
			}
		}
	}

	return res
}

func validateContainer(res *diagnostic.Diagnostics, t *TypeOverride) (attr.Container, bool) {
	c, err := t.container()
	if err != nil {
		res.AddError("invalid_rename_all", err.Error(), t.Type, "")
		return c, false
	}

	return c, true
}
