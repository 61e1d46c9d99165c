package plan

import (
	"fmt"
	"reflect"

	"rowmapper/internal/diagnostic"
	"rowmapper/internal/scalar"
	"rowmapper/row"
)

var loaderType = reflect.TypeFor[row.Loader]()

// requirementSet accumulates requirements without duplicates, in order.
type requirementSet struct {
	seen  map[Requirement]bool
	items []Requirement
}

func newRequirementSet() *requirementSet {
	return &requirementSet{seen: make(map[Requirement]bool)}
}

func (s *requirementSet) add(r Requirement) {
	if s.seen[r] {
		return
	}

	s.seen[r] = true
	s.items = append(s.items, r)
}

func (s *requirementSet) list() []Requirement {
	return s.items
}

// columnDecodable reports whether t satisfies both column capabilities.
func columnDecodable(t reflect.Type) bool {
	return scalar.Settable(t) && scalar.Decodable(t)
}

// requireColumn checks that t can be read from a single column.
func requireColumn(t reflect.Type, typeName, field string, reqs *requirementSet, diags *diagnostic.Diagnostics) bool {
	reqs.add(Requirement{Capability: CapabilityDecode, Type: t})
	reqs.add(Requirement{Capability: CapabilityTypeCompat, Type: t})

	if !scalar.Settable(t) {
		diags.AddError(CodeNotDecodable,
			fmt.Sprintf("%s cannot hold a column value", t), typeName, field)

		return false
	}

	if !scalar.Decodable(t) {
		diags.AddError(CodeNotTypeCompatible,
			fmt.Sprintf("no column type is compatible with %s (use flatten for nested structs, or implement sql.Scanner)", t),
			typeName, field)

		return false
	}

	return true
}

// requireNested checks that step.Source can be built from a whole row and
// attaches its nested plan.
func (b *Builder) requireNested(step *Step, typeName string, reqs *requirementSet, diags *diagnostic.Diagnostics) bool {
	t := step.Source
	reqs.add(Requirement{Capability: CapabilityNested, Type: t})

	if reflect.PointerTo(t).Implements(loaderType) {
		step.Loader = true
		return true
	}

	structType := t
	if t.Kind() == reflect.Pointer {
		structType = t.Elem()
		step.Pointer = true
	}

	if structType.Kind() != reflect.Struct {
		diags.AddError(CodeNotNested,
			fmt.Sprintf("%s is neither a struct nor a row.Loader", t), typeName, step.Field)

		return false
	}

	nested := b.build(structType, diags)
	if nested == nil {
		diags.AddError(CodeNestedUnsupported,
			fmt.Sprintf("cannot flatten %s", structType), typeName, step.Field)

		return false
	}

	step.Nested = nested

	return true
}

// requireConversion checks that a conversion Source -> Target exists.
func (b *Builder) requireConversion(step *Step, typeName string, reqs *requirementSet, diags *diagnostic.Diagnostics) bool {
	reqs.add(Requirement{Capability: CapabilityConvert, Type: step.Target, From: step.Source})

	conv, ok := b.registry.Lookup(step.Source, step.Target)
	if !ok {
		diags.AddError(CodeMissingConversion,
			fmt.Sprintf("no conversion registered from %s to %s", step.Source, step.Target), typeName, step.Field)

		return false
	}

	step.Converter = &conv

	return true
}
