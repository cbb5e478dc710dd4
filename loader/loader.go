package loader

import (
	"errors"
	"fmt"
	"reflect"
	"sync"
)

var (
	// ErrNilTarget is returned when Load is called with nil.
	ErrNilTarget = errors.New("loader: cannot load nil")

	// ErrDependencyCycle is returned when constructors depend on each other.
	ErrDependencyCycle = errors.New("loader: dependency cycle detected")
)

// Provider turns registered handler values into ready-to-use instances.
// Values that are already instances pass through; constructor functions are
// invoked with their dependencies resolved.
type Provider interface {
	Load(v any) (any, error)
}

// Instantiator is a Provider backed by an explicit dependency registry.
// Dependencies are concrete instances registered up front; constructor
// factories registered by result type fill in anything not yet built.
type Instantiator struct {
	mu        sync.RWMutex
	deps      []reflect.Value
	factories map[reflect.Type]reflect.Value
}

// NewInstantiator creates an empty Instantiator.
func NewInstantiator() *Instantiator {
	return &Instantiator{
		factories: make(map[reflect.Type]reflect.Value),
	}
}

// AddDependency registers an instance that constructors may take as a
// parameter, matched by concrete type or by any interface it implements.
func (l *Instantiator) AddDependency(dep any) {
	if dep == nil {
		return
	}

	l.mu.Lock()
	defer l.mu.Unlock()
	l.deps = append(l.deps, reflect.ValueOf(dep))
}

// AddFactory registers a constructor function whose result can satisfy
// constructor parameters of that type. The factory's own parameters are
// resolved recursively.
func (l *Instantiator) AddFactory(factory any) error {
	fn := reflect.ValueOf(factory)
	if fn.Kind() != reflect.Func {
		return fmt.Errorf("loader: factory must be a function, got %T", factory)
	}
	if fn.Type().NumOut() == 0 {
		return fmt.Errorf("loader: factory %s returns nothing", fn.Type())
	}

	l.mu.Lock()
	defer l.mu.Unlock()
	l.factories[fn.Type().Out(0)] = fn
	return nil
}

// Load implements Provider. Non-function values are returned unchanged. A
// function is treated as a constructor: each parameter is resolved from the
// registered dependencies and factories, the function is called, and its
// first result is returned. A trailing error result is propagated.
func (l *Instantiator) Load(v any) (any, error) {
	if v == nil {
		return nil, ErrNilTarget
	}

	fn := reflect.ValueOf(v)
	if fn.Kind() != reflect.Func {
		return v, nil
	}

	result, err := l.call(fn, map[reflect.Type]bool{})
	if err != nil {
		return nil, err
	}
	return result.Interface(), nil
}

func (l *Instantiator) call(fn reflect.Value, building map[reflect.Type]bool) (reflect.Value, error) {
	t := fn.Type()
	if t.NumOut() == 0 || t.NumOut() > 2 {
		return reflect.Value{}, fmt.Errorf("loader: constructor %s must return an instance and optionally an error", t)
	}
	if t.IsVariadic() {
		return reflect.Value{}, fmt.Errorf("loader: variadic constructor %s is not supported", t)
	}

	args := make([]reflect.Value, t.NumIn())
	for i := range args {
		arg, err := l.resolve(t.In(i), building)
		if err != nil {
			return reflect.Value{}, fmt.Errorf("loader: constructor %s parameter %d: %w", t, i, err)
		}
		args[i] = arg
	}

	results := fn.Call(args)
	if len(results) == 2 {
		if errVal := results[1].Interface(); errVal != nil {
			err, ok := errVal.(error)
			if !ok {
				return reflect.Value{}, fmt.Errorf("loader: constructor %s second result must be an error", t)
			}
			return reflect.Value{}, err
		}
	}
	return results[0], nil
}

func (l *Instantiator) resolve(target reflect.Type, building map[reflect.Type]bool) (reflect.Value, error) {
	l.mu.RLock()
	deps := append([]reflect.Value(nil), l.deps...)
	factory, hasFactory := l.factories[target]
	l.mu.RUnlock()

	for _, dep := range deps {
		if dep.Type() == target {
			return dep, nil
		}
	}
	if target.Kind() == reflect.Interface {
		for _, dep := range deps {
			if dep.Type().Implements(target) {
				return dep, nil
			}
		}
	}

	if hasFactory {
		if building[target] {
			return reflect.Value{}, ErrDependencyCycle
		}
		building[target] = true
		defer delete(building, target)
		return l.call(factory, building)
	}

	return reflect.Value{}, fmt.Errorf("no dependency registered for %s", target)
}
