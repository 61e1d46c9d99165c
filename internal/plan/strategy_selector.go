package plan

import (
	"fmt"

	"rowmapper/internal/analyze"
	"rowmapper/internal/attr"
	"rowmapper/internal/diagnostic"
)

// selectStep picks the decode strategy of one field and checks the
// capabilities it needs. It returns false if the field cannot be decoded;
// the reason is recorded in diags.
func (b *Builder) selectStep(
	info *analyze.StructInfo,
	field *analyze.FieldInfo,
	attrs attr.Field,
	container attr.Container,
	ordinal int,
	reqs *requirementSet,
	diags *diagnostic.Diagnostics,
) (Step, bool) {
	typeName := info.ID.String()

	step := Step{
		Field:      field.Name,
		FieldIndex: field.Index,
		Ordinal:    ordinal,
		Target:     field.Type,
		Source:     field.Type,
		Default:    attrs.Default,
	}

	if attrs.TryFrom != "" {
		src, ok := b.registry.ResolveType(attrs.TryFrom)
		if !ok {
			diags.AddError(CodeUnknownTryFrom,
				fmt.Sprintf("try_from type %q is not registered", attrs.TryFrom), typeName, field.Name)

			return Step{}, false
		}

		step.Source = src
	}

	if container.Positional {
		step.Key = Key{Index: ordinal, Positional: true}
	} else {
		step.Key = Key{Name: attr.ColumnName(field.Name, attrs, container)}
	}

	switch {
	case attrs.Flatten && attrs.TryFrom == "":
		step.Strategy = StrategyFlatten
	case !attrs.Flatten && attrs.TryFrom == "":
		if container.Positional {
			step.Strategy = StrategyDirectByIndex
		} else {
			step.Strategy = StrategyDirectByName
		}
	case attrs.Flatten:
		step.Strategy = StrategyFlattenThenConvert
	default:
		step.Strategy = StrategyDirectThenConvert
	}

	ok := true

	if step.Strategy.IsFlatten() {
		step.Key = Key{}
		ok = b.requireNested(&step, typeName, reqs, diags)
	} else {
		ok = requireColumn(step.Source, typeName, field.Name, reqs, diags)
	}

	if attrs.TryFrom != "" {
		ok = b.requireConversion(&step, typeName, reqs, diags) && ok
	}

	return step, ok
}
