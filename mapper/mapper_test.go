package mapper

import (
	"bytes"
	"errors"
	"log/slog"
	"os"
	"path/filepath"
	"reflect"
	"strconv"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"rowmapper/row"
)

type Customer struct {
	_    struct{} `row:",rename_all=snake_case"`
	ID   int64
	Name string `row:"full_name"`
	Tier Tier   `row:",try_from=string,default"`
	Home Address `row:",flatten"`
}

type Address struct {
	Street string `row:"street"`
	City   string `row:"city"`
}

type Tier int

func parseTier(s string) (Tier, error) {
	switch s {
	case "gold":
		return 2, nil
	case "silver":
		return 1, nil
	default:
		return 0, errors.New("unknown tier " + strconv.Quote(s))
	}
}

func newMapper(t *testing.T, opts ...Option) *Mapper {
	t.Helper()

	m, err := New(append([]Option{WithConverter(parseTier)}, opts...)...)
	require.NoError(t, err)

	return m
}

func TestFromRow(t *testing.T) {
	m := newMapper(t)

	r := row.FromMap(map[string]any{
		"id": int64(1), "full_name": "Ada", "tier": "gold", "street": "Elm", "city": "Oslo",
	})

	c, err := FromRow[Customer](m, r)
	require.NoError(t, err)
	assert.Equal(t, Customer{ID: 1, Name: "Ada", Tier: 2, Home: Address{Street: "Elm", City: "Oslo"}}, c)

	_, err = FromRow[Customer](m, row.FromMap(map[string]any{
		"id": int64(1), "full_name": "Ada", "tier": "bronze", "street": "Elm", "city": "Oslo",
	}))
	require.Error(t, err)
	assert.ErrorIs(t, err, row.ErrConversion)

	c, err = FromRow[Customer](m, row.FromMap(map[string]any{
		"id": int64(1), "full_name": "Ada", "street": "Elm", "city": "Oslo",
	}))
	require.NoError(t, err)
	assert.Equal(t, Tier(0), c.Tier)
}

func TestRegister_FailsFast(t *testing.T) {
	type broken struct {
		Tier Tier `row:",try_from=string"`
	}

	m, err := New()
	require.NoError(t, err)

	err = Register[broken](m)
	require.Error(t, err)
	assert.ErrorIs(t, err, row.ErrUnsupportedSchema)
	assert.Contains(t, err.Error(), "missing_conversion")

	_, err = FromRow[broken](m, row.FromMap(nil))
	assert.ErrorIs(t, err, row.ErrUnsupportedSchema)

	assert.Panics(t, func() { MustRegister[broken](m) })
	assert.NotPanics(t, func() { MustRegister[Address](m) })
}

func TestPlan_CachesRejection(t *testing.T) {
	type broken struct {
		Tier Tier `row:",try_from=string"`
	}

	var buf bytes.Buffer

	m, err := New(WithLogger(slog.New(slog.NewTextHandler(&buf, nil))))
	require.NoError(t, err)

	var first error

	for range 3 {
		_, err := FromRow[broken](m, row.FromMap(map[string]any{"tier": "gold"}))
		require.ErrorIs(t, err, row.ErrUnsupportedSchema)

		if first == nil {
			first = err
		}

		assert.Same(t, first, err)
	}

	out := buf.String()
	assert.Equal(t, 1, strings.Count(out, "decode plan rejected"), out)
	assert.Contains(t, out, "code=unsupported_schema")
}

func TestPlan_CachesNestedPlans(t *testing.T) {
	m := newMapper(t)

	p, err := m.Plan(reflect.TypeFor[Customer]())
	require.NoError(t, err)

	again, err := m.Plan(reflect.TypeFor[Customer]())
	require.NoError(t, err)
	assert.Same(t, p, again)

	addr, err := m.Plan(reflect.TypeFor[Address]())
	require.NoError(t, err)
	assert.Same(t, addr, p.Steps[3].Nested)
}

func TestPlan_Concurrent(t *testing.T) {
	m := newMapper(t)

	var wg sync.WaitGroup
	plans := make(chan any, 16)

	for range 16 {
		wg.Add(1)

		go func() {
			defer wg.Done()

			p, err := m.Plan(reflect.TypeFor[Customer]())
			if err != nil {
				plans <- err
				return
			}

			plans <- p
		}()
	}

	wg.Wait()
	close(plans)

	var first any
	for p := range plans {
		require.NotNil(t, p)
		_, isErr := p.(error)
		require.False(t, isErr)

		if first == nil {
			first = p
		}

		assert.Same(t, first, p)
	}
}

func TestDecode(t *testing.T) {
	m := newMapper(t)

	var a Address
	require.NoError(t, m.Decode(row.FromMap(map[string]any{"street": "Elm", "city": "Oslo"}), &a))
	assert.Equal(t, Address{Street: "Elm", City: "Oslo"}, a)

	assert.Error(t, m.Decode(row.FromMap(nil), a))
	assert.Error(t, m.Decode(row.FromMap(nil), nil))
}

func TestWithLogger(t *testing.T) {
	var buf bytes.Buffer

	logger := slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))
	m := newMapper(t, WithLogger(logger))

	type dup struct {
		A string `row:"x"`
		B string `row:"x"`
	}

	require.NoError(t, Register[dup](m))

	out := buf.String()
	assert.Contains(t, out, "decode plan built")
	assert.Contains(t, out, "component=rowmapper")
	assert.Contains(t, out, "level=WARN")
	assert.Contains(t, out, "code=duplicate_column")

	buf.Reset()
	require.NoError(t, Register[dup](m))
	assert.Empty(t, buf.String(), "cached plans are not logged again")

	_, err := New(WithLogger(nil))
	assert.Error(t, err)
}

func TestWithTagKey(t *testing.T) {
	type db struct {
		ID int64 `db:"user_id"`
	}

	m, err := New(WithTagKey("db"))
	require.NoError(t, err)

	v, err := FromRow[db](m, row.FromMap(map[string]any{"user_id": int64(5)}))
	require.NoError(t, err)
	assert.Equal(t, int64(5), v.ID)
}

func TestWithTypeName(t *testing.T) {
	type code string

	type item struct {
		Tier Tier `row:",try_from=tier_code"`
	}

	m, err := New(
		WithConverter(func(c code) (Tier, bool) { return Tier(len(c)), c != "" }),
		WithTypeName("tier_code", reflect.TypeFor[code]()),
	)
	require.NoError(t, err)

	v, err := FromRow[item](m, row.FromMap(map[string]any{"Tier": "abc"}))
	require.NoError(t, err)
	assert.Equal(t, Tier(3), v.Tier)

	_, err = FromRow[item](m, row.FromMap(map[string]any{"Tier": ""}))
	assert.ErrorIs(t, err, row.ErrConversion)
}

func TestWithOverridesFile(t *testing.T) {
	type Account struct {
		ID    int64
		Owner string
		Notes string
	}

	p := filepath.Join(t.TempDir(), "overrides.yaml")
	require.NoError(t, os.WriteFile(p, []byte(`
types:
  - type: mapper.Account
    rename_all: SCREAMING_SNAKE_CASE
    fields:
      Owner: owner_name
      Notes: "-"
`), 0o644))

	m, err := New(WithOverridesFile(p))
	require.NoError(t, err)

	a, err := FromRow[Account](m, row.FromMap(map[string]any{"ID": int64(4), "owner_name": "Bo"}))
	require.NoError(t, err)
	assert.Equal(t, Account{ID: 4, Owner: "Bo"}, a)

	_, err = New(WithOverridesFile(filepath.Join(t.TempDir(), "nope.yaml")))
	assert.Error(t, err)
}

func TestWithoutEmbeddedFlatten(t *testing.T) {
	type Base struct{ ID int64 }

	type entity struct {
		Base
		Name string
	}

	m, err := New()
	require.NoError(t, err)

	e, err := FromRow[entity](m, row.FromMap(map[string]any{"ID": int64(1), "Name": "x"}))
	require.NoError(t, err)
	assert.Equal(t, int64(1), e.ID)

	m, err = New(WithoutEmbeddedFlatten())
	require.NoError(t, err)
	assert.Error(t, Register[entity](m))
}

func TestDescribe(t *testing.T) {
	m := newMapper(t)

	s, err := Describe[Customer](m)
	require.NoError(t, err)
	t.Log(s)
	assert.Contains(t, s, `Tier <- "tier" as string then mapper.parseTier [direct_then_convert, default]`)
	assert.Contains(t, s, `Home <- row as mapper.Address [flatten]`)
}
