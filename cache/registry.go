package cache

import (
	"errors"
	"fmt"
	"reflect"
	"sync"
	"time"

	keystone_errors "github.com/dev-mohitbeniwal/keystone/errors"
)

// TypeRegistry is the allow-list of concrete types the value codecs may write
// and instantiate. A stored type name that is not registered is rejected, so
// whoever can write to the cache cannot make readers build arbitrary types.
type TypeRegistry struct {
	mu     sync.RWMutex
	byName map[string]reflect.Type
	byType map[reflect.Type]string
	frozen bool
}

// NewTypeRegistry returns a registry that already knows a handful of builtin
// types (string, bool, int, int64, float64, []string, map[string]string,
// time.Time).
func NewTypeRegistry() *TypeRegistry {
	r := &TypeRegistry{
		byName: make(map[string]reflect.Type),
		byType: make(map[reflect.Type]string),
	}
	r.MustRegister("string", "")
	r.MustRegister("bool", false)
	r.MustRegister("int", 0)
	r.MustRegister("int64", int64(0))
	r.MustRegister("float64", float64(0))
	r.MustRegister("[]string", []string(nil))
	r.MustRegister("map[string]string", map[string]string(nil))
	r.MustRegister("time.Time", time.Time{})
	return r
}

// Register adds the dynamic type of prototype under name. Pointer and value
// types are distinct: registering &User{} allows *User, not User.
func (r *TypeRegistry) Register(name string, prototype any) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.frozen {
		return errors.New("type registry frozen")
	}
	if name == "" {
		return errors.New("type name cannot be empty")
	}
	if prototype == nil {
		return errors.New("prototype cannot be nil")
	}

	t := reflect.TypeOf(prototype)
	switch t.Kind() {
	case reflect.Func, reflect.Chan, reflect.UnsafePointer:
		return fmt.Errorf("type %s cannot be cached", t)
	}
	if _, exists := r.byName[name]; exists {
		return fmt.Errorf("type name %q already registered", name)
	}
	if existing, exists := r.byType[t]; exists {
		return fmt.Errorf("type %s already registered as %q", t, existing)
	}

	r.byName[name] = t
	r.byType[t] = name
	return nil
}

func (r *TypeRegistry) MustRegister(name string, prototype any) {
	if err := r.Register(name, prototype); err != nil {
		panic(err)
	}
}

// Freeze prevents further registrations.
func (r *TypeRegistry) Freeze() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.frozen = true
}

// Names returns the registered type names.
func (r *TypeRegistry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	names := make([]string, 0, len(r.byName))
	for name := range r.byName {
		names = append(names, name)
	}
	return names
}

// nameOf returns the discriminator for v's dynamic type.
func (r *TypeRegistry) nameOf(v any) (string, error) {
	if v == nil {
		return "", errors.New("cannot cache a nil value")
	}
	rv := reflect.ValueOf(v)
	if rv.Kind() == reflect.Pointer && rv.IsNil() {
		return "", errors.New("cannot cache a nil pointer")
	}

	r.mu.RLock()
	name, ok := r.byType[rv.Type()]
	r.mu.RUnlock()
	if !ok {
		return "", fmt.Errorf("%w: %s", keystone_errors.ErrUnknownCacheType, rv.Type())
	}
	return name, nil
}

// target is a freshly allocated value for a decoder to fill.
type target struct {
	ptr     reflect.Value
	pointer bool
}

// Dest is what decoders unmarshal into.
func (t target) Dest() any {
	return t.ptr.Interface()
}

// Value returns the decoded value with the registered type.
func (t target) Value() any {
	if t.pointer {
		return t.ptr.Interface()
	}
	return t.ptr.Elem().Interface()
}

func (r *TypeRegistry) newTarget(name string) (target, error) {
	r.mu.RLock()
	t, ok := r.byName[name]
	r.mu.RUnlock()
	if !ok {
		return target{}, fmt.Errorf("%w: %q", keystone_errors.ErrUnknownCacheType, name)
	}
	if t.Kind() == reflect.Pointer {
		return target{ptr: reflect.New(t.Elem()), pointer: true}, nil
	}
	return target{ptr: reflect.New(t)}, nil
}
