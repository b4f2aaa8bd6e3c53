// Package expr evaluates host code given as text against a runtime: names,
// literals, calls, attributes, indexing and slicing, the arithmetic and
// comparison operators, and assignment to names, attributes and items.
//
//	v = imath.V3f(1, 2, 3)
//	v.x += 1
//	a = imath.FloatArray(4); a[1:3] = 2.5; a.reduce()
//
// Unbound names resolve to a few builtins and then to installed modules.
package expr

import (
	"context"
	"maps"
	"slices"
	"sync"

	"go.uber.org/zap"

	"github.com/wippyai/imath-bind/host"
)

// Evaluator runs statements against a runtime, keeping variables between
// calls to Eval.
type Evaluator struct {
	rt       *host.Runtime
	logger   *zap.Logger
	builtins map[string]host.Value

	mu   sync.RWMutex
	vars map[string]host.Value
}

// New creates an evaluator with no variables.
func New(rt *host.Runtime) *Evaluator {
	return &Evaluator{
		rt:       rt,
		logger:   rt.Logger().Named("expr"),
		builtins: builtins(),
		vars:     make(map[string]host.Value),
	}
}

// Eval runs src and returns the value of its last statement, or nil when
// that statement is an assignment. Statements are separated by newlines or
// semicolons. A failing statement stops evaluation; earlier assignments
// stay in effect.
func (e *Evaluator) Eval(ctx context.Context, src string) (host.Value, error) {
	stmts, err := parse(src)
	if err != nil {
		return nil, err
	}
	var last host.Value
	for _, s := range stmts {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		last, err = s.eval(ctx, e)
		if err != nil {
			e.logger.Debug("statement failed", zap.Error(err))
			return nil, err
		}
	}
	return last, nil
}

// Check parses src without running it.
func (e *Evaluator) Check(src string) error {
	_, err := parse(src)
	return err
}

// Set binds a variable.
func (e *Evaluator) Set(name string, v host.Value) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.vars[name] = v
}

// Get returns a variable.
func (e *Evaluator) Get(name string) (host.Value, bool) {
	e.mu.RLock()
	defer e.mu.RUnlock()
	v, ok := e.vars[name]
	return v, ok
}

// Names returns the bound variable names, sorted.
func (e *Evaluator) Names() []string {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return slices.Sorted(maps.Keys(e.vars))
}

// Reset drops every variable.
func (e *Evaluator) Reset() {
	e.mu.Lock()
	defer e.mu.Unlock()
	clear(e.vars)
}

func (e *Evaluator) resolve(id string) (host.Value, error) {
	if v, ok := e.Get(id); ok {
		return v, nil
	}
	if v, ok := e.builtins[id]; ok {
		return v, nil
	}
	if m, err := e.rt.Import(id); err == nil {
		return m, nil
	}
	return nil, host.Raise(host.NameError, "name '%s' is not defined", id)
}

func (e *Evaluator) store(ctx context.Context, target node, v host.Value) error {
	switch t := target.(type) {
	case *name:
		e.Set(t.id, v)
		return nil
	case *attr:
		obj, err := t.obj.eval(ctx, e)
		if err != nil {
			return err
		}
		return e.rt.SetAttr(ctx, obj, t.name, v)
	case *index:
		obj, err := t.obj.eval(ctx, e)
		if err != nil {
			return err
		}
		key, err := t.key.eval(ctx, e)
		if err != nil {
			return err
		}
		return e.rt.SetItem(ctx, obj, key, v)
	case *tuple:
		items, err := e.rt.Sequence(ctx, v)
		if err != nil {
			return err
		}
		if len(items) != len(t.items) {
			return host.Raise(host.ValueError, "expected %d values to unpack, got %d", len(t.items), len(items))
		}
		for i, item := range t.items {
			if err := e.store(ctx, item, items[i]); err != nil {
				return err
			}
		}
		return nil
	}
	return host.Raise(host.SyntaxError, "cannot assign to expression")
}
