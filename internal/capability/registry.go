package capability

import (
	"fmt"
	"reflect"
	"sync"
	"time"
)

// Pair identifies a conversion by its source and destination types.
type Pair struct{ Src, Dst reflect.Type }

// Registry holds registered conversions and try_from type names.
// It is safe for concurrent use.
type Registry struct {
	mu         sync.RWMutex
	converters map[Pair]Converter
	names      map[string]reflect.Type
}

// NewRegistry creates a registry that knows the builtin type names.
func NewRegistry() *Registry {
	r := &Registry{
		converters: make(map[Pair]Converter),
		names:      make(map[string]reflect.Type, len(builtinNames)),
	}

	for name, t := range builtinNames {
		r.names[name] = t
	}

	return r
}

var builtinNames = map[string]reflect.Type{
	"bool":          reflect.TypeFor[bool](),
	"string":        reflect.TypeFor[string](),
	"int":           reflect.TypeFor[int](),
	"int8":          reflect.TypeFor[int8](),
	"int16":         reflect.TypeFor[int16](),
	"int32":         reflect.TypeFor[int32](),
	"int64":         reflect.TypeFor[int64](),
	"uint":          reflect.TypeFor[uint](),
	"uint8":         reflect.TypeFor[uint8](),
	"uint16":        reflect.TypeFor[uint16](),
	"uint32":        reflect.TypeFor[uint32](),
	"uint64":        reflect.TypeFor[uint64](),
	"float32":       reflect.TypeFor[float32](),
	"float64":       reflect.TypeFor[float64](),
	"byte":          reflect.TypeFor[byte](),
	"rune":          reflect.TypeFor[rune](),
	"[]byte":        reflect.TypeFor[[]byte](),
	"time.Time":     reflect.TypeFor[time.Time](),
	"time.Duration": reflect.TypeFor[time.Duration](),
}

// Register parses fn as a converter and adds it. The converter's source
// type becomes addressable by try_from under its short name (e.g.
// "rawScore") and its qualified name (e.g. "app.rawScore").
func (r *Registry) Register(fn any) error {
	conv, err := ParseConverter(fn)
	if err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	pair := Pair{Src: conv.Src, Dst: conv.Dst}
	if existing, ok := r.converters[pair]; ok {
		return fmt.Errorf("conversion %s -> %s already registered by %s", conv.Src, conv.Dst, existing.Name)
	}

	r.converters[pair] = conv

	for _, name := range typeNames(conv.Src) {
		if _, taken := r.names[name]; !taken {
			r.names[name] = conv.Src
		}
	}

	return nil
}

// RegisterType makes t addressable by try_from under name.
func (r *Registry) RegisterType(name string, t reflect.Type) error {
	if name == "" || t == nil {
		return fmt.Errorf("type name and type are required")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if existing, ok := r.names[name]; ok && existing != t {
		return fmt.Errorf("type name %q already refers to %s", name, existing)
	}

	r.names[name] = t

	return nil
}

// ResolveType returns the type a try_from name refers to.
func (r *Registry) ResolveType(name string) (reflect.Type, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	t, ok := r.names[name]

	return t, ok
}

// Lookup returns the conversion from src to dst: a registered function
// first, then a builtin overflow-checked conversion.
func (r *Registry) Lookup(src, dst reflect.Type) (Converter, bool) {
	r.mu.RLock()
	conv, ok := r.converters[Pair{Src: src, Dst: dst}]
	r.mu.RUnlock()

	if ok {
		return conv, true
	}

	return builtinConverter(src, dst)
}

// typeNames returns the names under which t can be referenced.
func typeNames(t reflect.Type) []string {
	names := []string{t.String()}
	if t.Name() != "" && t.Name() != t.String() {
		names = append(names, t.Name())
	}

	return names
}
