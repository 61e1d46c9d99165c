package capability

import (
	"reflect"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type rawScore int64

type Score struct{ Value int }

func scoreFromRaw(r rawScore) (Score, error) { return Score{Value: int(r)}, nil }

func TestRegistry_Register(t *testing.T) {
	r := NewRegistry()
	require.NoError(t, r.Register(scoreFromRaw))

	conv, ok := r.Lookup(reflect.TypeFor[rawScore](), reflect.TypeFor[Score]())
	require.True(t, ok)
	assert.Equal(t, "capability.scoreFromRaw", conv.Name)

	short, ok := r.ResolveType("rawScore")
	require.True(t, ok)
	assert.Equal(t, reflect.TypeFor[rawScore](), short)

	qualified, ok := r.ResolveType("capability.rawScore")
	require.True(t, ok)
	assert.Equal(t, short, qualified)

	err := r.Register(func(rawScore) Score { return Score{} })
	require.Error(t, err)
	assert.Contains(t, err.Error(), "already registered")
}

func TestRegistry_Builtins(t *testing.T) {
	r := NewRegistry()

	i64, ok := r.ResolveType("int64")
	require.True(t, ok)
	assert.Equal(t, reflect.TypeFor[int64](), i64)

	_, ok = r.ResolveType("nope")
	assert.False(t, ok)

	_, ok = r.Lookup(reflect.TypeFor[int64](), reflect.TypeFor[int16]())
	assert.True(t, ok)

	_, ok = r.Lookup(reflect.TypeFor[string](), reflect.TypeFor[Score]())
	assert.False(t, ok)
}

func TestRegistry_RegisterType(t *testing.T) {
	r := NewRegistry()
	require.NoError(t, r.RegisterType("score", reflect.TypeFor[Score]()))
	require.NoError(t, r.RegisterType("score", reflect.TypeFor[Score]()))
	require.Error(t, r.RegisterType("score", reflect.TypeFor[rawScore]()))
	require.Error(t, r.RegisterType("", reflect.TypeFor[rawScore]()))
}
