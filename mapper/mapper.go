package mapper

import (
	"fmt"
	"log/slog"
	"reflect"
	"sync"

	"rowmapper/internal/capability"
	"rowmapper/internal/overrides"
	"rowmapper/internal/plan"
	"rowmapper/row"
)

var _ plan.Overrides = (*overrides.Index)(nil)

// Mapper builds and caches decode plans. It is safe for concurrent use.
type Mapper struct {
	config    plan.Config
	registry  *capability.Registry
	overrides plan.Overrides
	logger    *slog.Logger

	// plans maps reflect.Type to *plan.Plan.
	plans sync.Map
	// rejected maps reflect.Type to the schema error its build returned.
	rejected sync.Map
}

// New creates a Mapper.
func New(opts ...Option) (*Mapper, error) {
	m := &Mapper{
		config:   plan.DefaultConfig(),
		registry: capability.NewRegistry(),
		logger:   slog.New(slog.DiscardHandler),
	}

	for _, opt := range opts {
		if err := opt(m); err != nil {
			return nil, fmt.Errorf("mapper: %w", err)
		}
	}

	return m, nil
}

// MustNew is like New but panics on error.
func MustNew(opts ...Option) *Mapper {
	m, err := New(opts...)
	if err != nil {
		panic(err)
	}

	return m
}

// Register builds and caches the plan of t so that schema problems are
// reported before the first row is decoded.
func (m *Mapper) Register(t reflect.Type) error {
	_, err := m.Plan(t)
	return err
}

// Plan returns the cached plan of t, building it on first use. Concurrent
// first uses may build twice; only the first stored plan is kept. A rejected
// type is cached too and is logged once.
func (m *Mapper) Plan(t reflect.Type) (*plan.Plan, error) {
	if p, ok := m.cached(t); ok {
		return p, nil
	}

	if err, ok := m.rejected.Load(t); ok {
		return nil, err.(error)
	}

	b := plan.NewBuilder(m.config, m.registry,
		plan.WithOverrides(m.overrides),
		plan.WithKnownPlans(m.cached))

	if _, err := b.Build(t); err != nil {
		if !plan.IsSchemaError(err) {
			return nil, err
		}

		stored, loaded := m.rejected.LoadOrStore(t, err)
		if !loaded {
			m.logger.Error("decode plan rejected",
				"type", fmt.Sprint(t),
				"code", row.CodeOf(err),
				"error", err)
		}

		return nil, stored.(error)
	}

	for bt, bp := range b.Built() {
		if _, loaded := m.plans.LoadOrStore(bt, bp); !loaded {
			m.logPlan(bp)
		}
	}

	stored, _ := m.plans.Load(t)

	return stored.(*plan.Plan), nil
}

// Decode decodes r into dst, a non-nil pointer to a struct.
func (m *Mapper) Decode(r row.Row, dst any) error {
	t := reflect.TypeOf(dst)
	if t == nil || t.Kind() != reflect.Pointer {
		return fmt.Errorf("mapper: destination must be a pointer to a struct, got %T", dst)
	}

	p, err := m.Plan(t.Elem())
	if err != nil {
		return err
	}

	return p.ExecuteInto(r, dst)
}

func (m *Mapper) cached(t reflect.Type) (*plan.Plan, bool) {
	v, ok := m.plans.Load(t)
	if !ok {
		return nil, false
	}

	return v.(*plan.Plan), true
}

func (m *Mapper) logPlan(p *plan.Plan) {
	m.logger.Debug("decode plan built",
		"type", p.ID.String(),
		"steps", len(p.Steps),
		"positional", p.Positional)

	for _, w := range p.Warnings {
		m.logger.Warn("decode plan warning",
			"type", w.Type,
			"field", w.Field,
			"code", w.Code,
			"message", w.Message)
	}
}
