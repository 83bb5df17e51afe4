package module

import (
	"github.com/arthur-debert/modreg/pkg/errors"
)

// DefineNamed builds and registers a module with explicit dependencies.
func (l *Loader) DefineNamed(id string, deps []string, factory Factory) (Exports, error) {
	if id == "" {
		return nil, errors.New(errors.ErrInvalidInput, "module id cannot be empty")
	}
	return l.defineWithDeps(id, deps, factory)
}

// DefineAnonymous builds a module with explicit dependencies. The result is
// not registered unless the factory assigns an id to the descriptor.
func (l *Loader) DefineAnonymous(deps []string, factory Factory) (Exports, error) {
	return l.defineWithDeps("", deps, factory)
}

// DefineNamedFactory builds and registers a module that has no dependencies.
func (l *Loader) DefineNamedFactory(id string, factory Factory) (Exports, error) {
	if id == "" {
		return nil, errors.New(errors.ErrInvalidInput, "module id cannot be empty")
	}
	if factory == nil {
		return nil, errors.New(errors.ErrInvalidInput, "factory cannot be nil")
	}
	return l.build(&Descriptor{ID: id, Factory: factory}, nil)
}

// DefineFactory builds an anonymous module that has no dependencies.
func (l *Loader) DefineFactory(factory Factory) (Exports, error) {
	if factory == nil {
		return nil, errors.New(errors.ErrInvalidInput, "factory cannot be nil")
	}
	return l.build(&Descriptor{Factory: factory}, nil)
}

// DefineValue registers value as the exports of module id without running a
// factory or resolving dependencies.
func (l *Loader) DefineValue(id string, value Exports) (Exports, error) {
	if id == "" {
		return nil, errors.New(errors.ErrInvalidInput, "module id cannot be empty")
	}
	if value == nil {
		value = Exports{}
	}
	return l.commit(id, nil, value)
}

func (l *Loader) defineWithDeps(id string, deps []string, factory Factory) (Exports, error) {
	if factory == nil {
		return nil, errors.New(errors.ErrInvalidInput, "factory cannot be nil")
	}

	validated, err := l.validateDeps(deps)
	if err != nil {
		return nil, err
	}

	return l.build(&Descriptor{ID: id, HasDeps: true, Factory: factory}, validated)
}

// Define picks one of the named Define operations from the shape of args:
//
//	(id string, deps []string, factory)  DefineNamed
//	(deps []string, factory)             DefineAnonymous
//	(id string, factory)                 DefineNamedFactory
//	(id string, value Exports)           DefineValue
//	(factory)                            DefineFactory
//	(anything else)                      returned unchanged
//
// A factory may be a Factory or a plain func literal with the same
// signature. In the (id, value) row the value must be Exports or a
// map[string]any, since a module's exports are always a map; any other
// value fails with ErrInvalidInput rather than being registered. Other shapes
// that match none of the rows above fail with ErrInvalidInput too.
func (l *Loader) Define(args ...any) (any, error) {
	switch len(args) {
	case 3:
		id, idOK := args[0].(string)
		deps, depsOK := args[1].([]string)
		factory, factoryOK := asFactory(args[2])
		if !idOK || !depsOK || !factoryOK {
			return nil, errors.New(errors.ErrInvalidInput, "define expects (id, deps, factory)")
		}
		return l.DefineNamed(id, deps, factory)

	case 2:
		if deps, ok := args[0].([]string); ok {
			factory, ok := asFactory(args[1])
			if !ok {
				return nil, errors.New(errors.ErrInvalidInput, "define expects (deps, factory)")
			}
			return l.DefineAnonymous(deps, factory)
		}

		id, ok := args[0].(string)
		if !ok {
			return nil, errors.Newf(errors.ErrInvalidInput, "module id must be a string, got %T", args[0])
		}
		if factory, ok := asFactory(args[1]); ok {
			return l.DefineNamedFactory(id, factory)
		}
		value, ok := asExports(args[1])
		if !ok {
			return nil, errors.Newf(errors.ErrInvalidInput, "module value must be a map, got %T", args[1]).
				WithDetail("id", id)
		}
		return l.DefineValue(id, value)

	case 1:
		if factory, ok := asFactory(args[0]); ok {
			return l.DefineFactory(factory)
		}
		return args[0], nil
	}

	return nil, errors.Newf(errors.ErrInvalidInput, "define takes 1 to 3 arguments, got %d", len(args))
}

func asFactory(v any) (Factory, bool) {
	switch f := v.(type) {
	case Factory:
		return f, f != nil
	case func(Resolver, Exports, *Descriptor, ...Exports) (Exports, error):
		return f, f != nil
	}
	return nil, false
}

func asExports(v any) (Exports, bool) {
	switch m := v.(type) {
	case Exports:
		return m, true
	case map[string]any:
		return m, true
	}
	return nil, false
}
