package plan

import (
	"fmt"
	"reflect"
	"strconv"
	"strings"

	"rowmapper/internal/analyze"
	"rowmapper/internal/capability"
	"rowmapper/internal/diagnostic"
)

// Plan is the immutable decode plan of one struct type.
type Plan struct {
	// ID identifies the struct type in errors and diagnostics.
	ID analyze.TypeID
	// Type is the struct type the plan constructs.
	Type reflect.Type
	// Positional is true when columns are addressed by index.
	Positional bool
	// Steps are the per-field decode steps in declaration order.
	Steps []Step
	// Requirements lists every capability checked while building.
	Requirements []Requirement
	// Warnings are non-fatal diagnostics found while building.
	Warnings []diagnostic.Diagnostic
}

// Step decodes one struct field.
type Step struct {
	// Field is the Go field name.
	Field string
	// FieldIndex is the index of the field in the struct.
	FieldIndex int
	// Ordinal is the position among mappable fields.
	Ordinal int
	// Strategy selects how the value is produced.
	Strategy Strategy
	// Key addresses the column for direct strategies.
	Key Key
	// Target is the declared field type.
	Target reflect.Type
	// Source is the type read from the row; it differs from Target when
	// a try_from conversion follows.
	Source reflect.Type
	// Converter converts Source to Target, nil without try_from.
	Converter *capability.Converter
	// Nested is the plan of Source for flatten strategies, nil when
	// Source decodes itself through row.Loader.
	Nested *Plan
	// Loader is true when Source implements row.Loader.
	Loader bool
	// Pointer is true when a flattened Source is a pointer to a struct.
	Pointer bool
	// Default substitutes the zero value on a missing column.
	Default bool
}

// Key is a resolved column key: a name, or an index for positional plans.
type Key struct {
	Name       string
	Index      int
	Positional bool
}

// String returns the column reference as it appears in errors.
func (k Key) String() string {
	if k.Positional {
		return "#" + strconv.Itoa(k.Index)
	}

	return k.Name
}

// Strategy describes how a field value is produced from a row.
type Strategy int

const (
	// StrategyDirectByName decodes a single column looked up by name.
	StrategyDirectByName Strategy = iota
	// StrategyDirectByIndex decodes a single column looked up by position.
	StrategyDirectByIndex
	// StrategyFlatten builds a nested object from the whole row.
	StrategyFlatten
	// StrategyDirectThenConvert decodes a column as Source, then converts.
	StrategyDirectThenConvert
	// StrategyFlattenThenConvert builds a nested Source, then converts.
	StrategyFlattenThenConvert
)

// String returns a human-readable strategy name.
func (s Strategy) String() string {
	switch s {
	case StrategyDirectByName:
		return "direct_by_name"
	case StrategyDirectByIndex:
		return "direct_by_index"
	case StrategyFlatten:
		return "flatten"
	case StrategyDirectThenConvert:
		return "direct_then_convert"
	case StrategyFlattenThenConvert:
		return "flatten_then_convert"
	default:
		return "unknown"
	}
}

// IsFlatten reports whether the strategy reads the whole row.
func (s Strategy) IsFlatten() bool {
	return s == StrategyFlatten || s == StrategyFlattenThenConvert
}

// Capability is something the execution environment must provide for a type.
type Capability int

const (
	// CapabilityDecode: a column value can be stored into the type.
	CapabilityDecode Capability = iota
	// CapabilityTypeCompat: some column type is compatible with the type.
	CapabilityTypeCompat
	// CapabilityNested: the type can be built from a whole row.
	CapabilityNested
	// CapabilityConvert: a fallible conversion From -> Type exists.
	CapabilityConvert
)

// String returns a human-readable capability name.
func (c Capability) String() string {
	switch c {
	case CapabilityDecode:
		return "decode"
	case CapabilityTypeCompat:
		return "type_compat"
	case CapabilityNested:
		return "nested"
	case CapabilityConvert:
		return "convert"
	default:
		return "unknown"
	}
}

// Requirement is a capability required for a type.
type Requirement struct {
	Capability Capability
	Type       reflect.Type
	// From is the source type of a conversion requirement.
	From reflect.Type
}

// String renders the requirement, e.g. "convert(int64 -> app.Score)".
func (r Requirement) String() string {
	if r.Capability == CapabilityConvert {
		return fmt.Sprintf("%s(%s -> %s)", r.Capability, r.From, r.Type)
	}

	return fmt.Sprintf("%s(%s)", r.Capability, r.Type)
}

// Describe renders the plan one step per line, for debugging and tests.
func (p *Plan) Describe() string {
	var sb strings.Builder

	sb.WriteString(p.ID.String())

	if p.Positional {
		sb.WriteString(" (positional)")
	}

	sb.WriteString("\n")

	for _, s := range p.Steps {
		fmt.Fprintf(&sb, "  %s <- ", s.Field)

		if s.Strategy.IsFlatten() {
			fmt.Fprintf(&sb, "row as %s", s.Source)
		} else {
			fmt.Fprintf(&sb, "%q as %s", s.Key.String(), s.Source)
		}

		if s.Converter != nil {
			fmt.Fprintf(&sb, " then %s", s.Converter.Name)
		}

		fmt.Fprintf(&sb, " [%s", s.Strategy)

		if s.Default {
			sb.WriteString(", default")
		}

		sb.WriteString("]\n")
	}

	return sb.String()
}

// Columns returns the column keys read directly by the plan, including
// those of flattened plans, in execution order.
func (p *Plan) Columns() []string {
	var out []string

	for _, s := range p.Steps {
		switch {
		case s.Nested != nil:
			out = append(out, s.Nested.Columns()...)
		case !s.Strategy.IsFlatten():
			out = append(out, s.Key.String())
		}
	}

	return out
}
