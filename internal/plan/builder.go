package plan

import (
	"errors"
	"fmt"
	"reflect"

	"rowmapper/internal/analyze"
	"rowmapper/internal/attr"
	"rowmapper/internal/capability"
	"rowmapper/internal/diagnostic"
	"rowmapper/row"
)

// Diagnostic codes reported by the builder.
const (
	CodeInvalidStruct      = "invalid_struct"
	CodeInvalidTag         = "invalid_tag"
	CodeConflictingAttrs   = "conflicting_attributes"
	CodeNoFields           = "no_fields"
	CodeUnknownTryFrom     = "unknown_try_from"
	CodeNotDecodable       = "not_decodable"
	CodeNotTypeCompatible  = "not_type_compatible"
	CodeNotNested          = "not_nested_mappable"
	CodeNestedUnsupported  = "nested_unsupported"
	CodeRecursiveFlatten   = "recursive_flatten"
	CodeMissingConversion  = "missing_conversion"
	CodeDuplicateColumn    = "duplicate_column"
	CodeIgnoredRename      = "ignored_rename"
)

// Overrides supplies attributes for types that cannot be annotated.
// A field override replaces the field's tag attributes entirely.
type Overrides interface {
	Container(id analyze.TypeID) (attr.Container, bool)
	Field(id analyze.TypeID, field string) (attr.Field, bool)
}

// Builder builds decode plans. A Builder memoizes the plans it builds and
// is not safe for concurrent use; independent builders may run in
// parallel.
type Builder struct {
	config    Config
	registry  *capability.Registry
	overrides Overrides
	known     func(reflect.Type) (*Plan, bool)

	plans    map[reflect.Type]*Plan
	building map[reflect.Type]bool
}

// BuilderOption configures a Builder.
type BuilderOption func(*Builder)

// WithOverrides applies attribute overrides on top of struct tags.
func WithOverrides(o Overrides) BuilderOption {
	return func(b *Builder) { b.overrides = o }
}

// WithKnownPlans lets the builder reuse plans built earlier, e.g. by a
// shared cache.
func WithKnownPlans(lookup func(reflect.Type) (*Plan, bool)) BuilderOption {
	return func(b *Builder) { b.known = lookup }
}

// NewBuilder creates a new Builder. A nil registry means only builtin
// conversions are available.
func NewBuilder(config Config, registry *capability.Registry, opts ...BuilderOption) *Builder {
	if registry == nil {
		registry = capability.NewRegistry()
	}

	if config.TagKey == "" {
		config.TagKey = attr.DefaultTagKey
	}

	b := &Builder{
		config:   config,
		registry: registry,
		plans:    make(map[reflect.Type]*Plan),
		building: make(map[reflect.Type]bool),
	}

	for _, opt := range opts {
		opt(b)
	}

	return b
}

// Build returns the decode plan of the struct type t. All problems of t and
// of the structs it flattens are reported together as one
// row.ErrUnsupportedSchema error.
func (b *Builder) Build(t reflect.Type) (*Plan, error) {
	var diags diagnostic.Diagnostics

	p := b.build(t, &diags)
	if diags.HasErrors() || p == nil {
		return nil, row.UnsupportedSchema(fmt.Sprintf("cannot build decode plan for %v", t), diags.Err())
	}

	return p, nil
}

// Built returns every plan built so far, including nested ones.
func (b *Builder) Built() map[reflect.Type]*Plan {
	out := make(map[reflect.Type]*Plan, len(b.plans))
	for t, p := range b.plans {
		out[t] = p
	}

	return out
}

func (b *Builder) build(t reflect.Type, diags *diagnostic.Diagnostics) *Plan {
	if p, ok := b.plans[t]; ok {
		return p
	}

	if b.known != nil {
		if p, ok := b.known(t); ok {
			return p
		}
	}

	info, err := analyze.Struct(t, b.config.TagKey)
	if err != nil {
		diags.AddError(CodeInvalidStruct, err.Error(), fmt.Sprint(t), "")
		return nil
	}

	typeName := info.ID.String()

	if b.building[t] {
		diags.AddError(CodeRecursiveFlatten, "struct flattens itself", typeName, "")
		return nil
	}

	b.building[t] = true
	defer delete(b.building, t)

	var local diagnostic.Diagnostics

	container := b.containerAttrs(info, &local)

	p := &Plan{
		ID:         info.ID,
		Type:       t,
		Positional: container.Positional,
	}

	reqs := newRequirementSet()
	ordinal := 0

	for i := range info.Fields {
		field := &info.Fields[i]

		attrs, ok := b.fieldAttrs(info, field, container, &local)
		if !ok || attrs.Skip {
			continue
		}

		step, ok := b.selectStep(info, field, attrs, container, ordinal, reqs, &local)
		ordinal++

		if ok {
			p.Steps = append(p.Steps, step)
		}
	}

	if ordinal == 0 && !local.HasErrors() {
		local.AddError(CodeNoFields, "struct has no mappable fields", typeName, "")
	}

	if !p.Positional {
		checkDuplicateColumns(p, &local)
	}

	p.Requirements = reqs.list()
	p.Warnings = local.Warnings
	diags.Merge(local)

	if local.HasErrors() {
		return nil
	}

	b.plans[t] = p

	return p
}

func (b *Builder) containerAttrs(info *analyze.StructInfo, diags *diagnostic.Diagnostics) attr.Container {
	if b.overrides != nil {
		if c, ok := b.overrides.Container(info.ID); ok {
			return c
		}
	}

	if !info.HasContainerTag {
		return attr.Container{}
	}

	c, err := attr.ParseContainer(info.ContainerTag)
	if err != nil {
		diags.AddError(CodeInvalidTag, err.Error(), info.ID.String(), "_")
	}

	return c
}

func (b *Builder) fieldAttrs(
	info *analyze.StructInfo,
	field *analyze.FieldInfo,
	container attr.Container,
	diags *diagnostic.Diagnostics,
) (attr.Field, bool) {
	typeName := info.ID.String()

	var (
		attrs attr.Field
		err   error
	)

	overridden := false
	if b.overrides != nil {
		attrs, overridden = b.overrides.Field(info.ID, field.Name)
	}

	if !overridden {
		attrs, err = attr.ParseField(field.Tag)
		if err != nil {
			diags.AddError(CodeInvalidTag, err.Error(), typeName, field.Name)
			return attr.Field{}, false
		}
	}

	if err := attrs.Validate(container); err != nil {
		diags.AddError(CodeConflictingAttrs, err.Error(), typeName, field.Name)
		return attr.Field{}, false
	}

	if container.Positional && attrs.Rename != "" {
		diags.AddWarning(CodeIgnoredRename,
			fmt.Sprintf("rename %q is ignored in a positional struct", attrs.Rename), typeName, field.Name)
	}

	if b.implicitFlatten(field, attrs, container) {
		attrs.Flatten = true
	}

	return attrs, true
}

// implicitFlatten reports whether an embedded struct without directives is
// flattened, the way encoding/json promotes embedded fields.
func (b *Builder) implicitFlatten(field *analyze.FieldInfo, attrs attr.Field, container attr.Container) bool {
	if !b.config.FlattenEmbedded || !field.Embedded || container.Positional || !attrs.IsZero() {
		return false
	}

	t := field.Type
	if t.Kind() == reflect.Pointer {
		t = t.Elem()
	}

	if t.Kind() != reflect.Struct {
		return false
	}

	// time.Time, sql.NullString and friends decode from a single column
	return !columnDecodable(field.Type)
}

func checkDuplicateColumns(p *Plan, diags *diagnostic.Diagnostics) {
	seen := make(map[string]string)

	for _, s := range p.Steps {
		if s.Strategy.IsFlatten() {
			continue
		}

		if prev, ok := seen[s.Key.Name]; ok {
			diags.AddWarning(CodeDuplicateColumn,
				fmt.Sprintf("column %q is also read by field %s", s.Key.Name, prev), p.ID.String(), s.Field)

			continue
		}

		seen[s.Key.Name] = s.Field
	}
}

// IsSchemaError reports whether err is a build-time schema error.
func IsSchemaError(err error) bool {
	return errors.Is(err, row.ErrUnsupportedSchema)
}
