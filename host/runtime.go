package host

import (
	"context"
	"iter"
	"strings"
	"sync"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/wippyai/imath-bind/errors"
)

// Option configures a Runtime.
type Option func(*Runtime)

// WithLogger sets the runtime logger.
func WithLogger(l *zap.Logger) Option {
	return func(r *Runtime) {
		r.logger = l
	}
}

// WithTranslator sets the exception translator used at the boundary.
func WithTranslator(t Translator) Option {
	return func(r *Runtime) {
		r.translator = t
	}
}

// WithMiddleware appends middleware inside the builtin logging and recovery
// layers.
func WithMiddleware(mws ...Middleware) Option {
	return func(r *Runtime) {
		r.middleware = append(r.middleware, mws...)
	}
}

// Runtime hosts installed modules and runs boundary crossings.
type Runtime struct {
	id         uuid.UUID
	logger     *zap.Logger
	translator Translator
	middleware []Middleware
	wrap       func(Handler) Handler

	mu      sync.RWMutex
	modules map[string]*Module
	order   []string
}

// New creates a runtime.
func New(opts ...Option) *Runtime {
	r := &Runtime{
		id:      uuid.New(),
		modules: make(map[string]*Module),
	}
	for _, opt := range opts {
		opt(r)
	}
	if r.logger == nil {
		r.logger = Logger()
	}
	r.logger = r.logger.With(zap.String("runtime", r.id.String()))

	mws := append([]Middleware{LoggingMiddleware(r.logger), RecoverMiddleware()}, r.middleware...)
	r.wrap = func(h Handler) Handler { return Chain(h, mws...) }
	return r
}

// ID returns the runtime identity used in logs.
func (r *Runtime) ID() uuid.UUID { return r.id }

// Logger returns the runtime logger.
func (r *Runtime) Logger() *zap.Logger { return r.logger }

// Translator returns the configured exception translator, if any.
func (r *Runtime) Translator() Translator { return r.translator }

// Install makes a module importable. Module names are unique per runtime.
func (r *Runtime) Install(m *Module) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.modules[m.Name]; exists {
		return errors.Registration(m.Name, "module already installed")
	}
	r.modules[m.Name] = m
	r.order = append(r.order, m.Name)
	r.logger.Debug("module installed", zap.String("module", m.Name), zap.Int("names", len(m.Names())))
	return nil
}

// Import returns an installed module.
func (r *Runtime) Import(name string) (*Module, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	m, ok := r.modules[name]
	if !ok {
		return nil, Raise(ImportError, "No module named '%s'", name)
	}
	return m, nil
}

// Modules returns the installed modules in installation order.
func (r *Runtime) Modules() []*Module {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]*Module, 0, len(r.order))
	for _, name := range r.order {
		out = append(out, r.modules[name])
	}
	return out
}

// Lookup resolves a dotted "module.name[.attr...]" path.
func (r *Runtime) Lookup(ctx context.Context, path string) (Value, error) {
	modName, rest, _ := strings.Cut(path, ".")
	m, err := r.Import(modName)
	if err != nil {
		return nil, err
	}
	if rest == "" {
		return m, nil
	}
	return r.boundary(ctx, "lookup", m, nil, func(c *Call) (Value, error) {
		var v Value = m
		for _, part := range strings.Split(rest, ".") {
			next, err := c.GetAttr(v, part)
			if err != nil {
				return nil, err
			}
			v = next
		}
		return v, nil
	})
}

func (r *Runtime) boundary(ctx context.Context, op string, subject Value, args []Value, h Handler) (Value, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	c := acquireCall(ctx, r, op, subject, args)
	defer releaseCall(c)

	result, err := r.wrap(h)(c)
	if err != nil {
		return nil, r.ToHost(err)
	}
	return result, nil
}

// Call calls a function, bound method or class.
func (r *Runtime) Call(ctx context.Context, callee Value, args ...Value) (Value, error) {
	return r.boundary(ctx, "call", callee, args, func(c *Call) (Value, error) {
		return c.Call(callee, c.args...)
	})
}

// CallMethod looks up a method on obj and calls it.
func (r *Runtime) CallMethod(ctx context.Context, obj Value, name string, args ...Value) (Value, error) {
	return r.boundary(ctx, "method "+name, obj, args, func(c *Call) (Value, error) {
		return c.CallMethod(obj, name, c.args...)
	})
}

// Binary applies a binary operator, comparisons included.
func (r *Runtime) Binary(ctx context.Context, op Op, a, b Value) (Value, error) {
	return r.boundary(ctx, "binary "+op.String(), a, nil, func(c *Call) (Value, error) {
		return c.Binary(op, a, b)
	})
}

// InPlace applies an augmented assignment operator and returns the value to
// rebind the target to.
func (r *Runtime) InPlace(ctx context.Context, op Op, a, b Value) (Value, error) {
	return r.boundary(ctx, "inplace "+op.String(), a, nil, func(c *Call) (Value, error) {
		return c.InPlace(op, a, b)
	})
}

// Unary applies a unary operator.
func (r *Runtime) Unary(ctx context.Context, op Op, a Value) (Value, error) {
	return r.boundary(ctx, "unary "+op.String(), a, nil, func(c *Call) (Value, error) {
		return c.Unary(op, a)
	})
}

// GetAttr reads an attribute.
func (r *Runtime) GetAttr(ctx context.Context, obj Value, name string) (Value, error) {
	return r.boundary(ctx, "getattr "+name, obj, nil, func(c *Call) (Value, error) {
		return c.GetAttr(obj, name)
	})
}

// SetAttr writes an attribute.
func (r *Runtime) SetAttr(ctx context.Context, obj Value, name string, v Value) error {
	_, err := r.boundary(ctx, "setattr "+name, obj, nil, func(c *Call) (Value, error) {
		return nil, c.SetAttr(obj, name, v)
	})
	return err
}

// GetItem indexes obj with an int or *Slice key.
func (r *Runtime) GetItem(ctx context.Context, obj, key Value) (Value, error) {
	return r.boundary(ctx, "getitem", obj, nil, func(c *Call) (Value, error) {
		return c.GetItem(obj, key)
	})
}

// SetItem assigns through an int or *Slice key.
func (r *Runtime) SetItem(ctx context.Context, obj, key, v Value) error {
	_, err := r.boundary(ctx, "setitem", obj, nil, func(c *Call) (Value, error) {
		return nil, c.SetItem(obj, key, v)
	})
	return err
}

// Len returns the length of a sequence.
func (r *Runtime) Len(ctx context.Context, obj Value) (int, error) {
	v, err := r.boundary(ctx, "len", obj, nil, func(c *Call) (Value, error) {
		n, err := c.Len(obj)
		return int64(n), err
	})
	if err != nil {
		return 0, err
	}
	return int(v.(int64)), nil
}

// Iter returns the elements of a sequence. The returned iterator is finite
// and can be ranged over more than once.
func (r *Runtime) Iter(ctx context.Context, obj Value) (iter.Seq[Value], error) {
	v, err := r.boundary(ctx, "iter", obj, nil, func(c *Call) (Value, error) {
		return c.Iter(obj)
	})
	if err != nil {
		return nil, err
	}
	return v.(iter.Seq[Value]), nil
}

// Sequence collects the elements of any iterable host value.
func (r *Runtime) Sequence(ctx context.Context, obj Value) ([]Value, error) {
	v, err := r.boundary(ctx, "sequence", obj, nil, func(c *Call) (Value, error) {
		return c.Sequence(obj)
	})
	if err != nil {
		return nil, err
	}
	return v.([]Value), nil
}

// Equal compares two values with the host's == operator.
func (r *Runtime) Equal(ctx context.Context, a, b Value) (bool, error) {
	v, err := r.boundary(ctx, "equal", a, nil, func(c *Call) (Value, error) {
		return c.Equal(a, b)
	})
	if err != nil {
		return false, err
	}
	return v.(bool), nil
}

// Truth reports the host truth value of v.
func (r *Runtime) Truth(ctx context.Context, v Value) (bool, error) {
	t, err := r.boundary(ctx, "truth", v, nil, func(c *Call) (Value, error) {
		return c.Truth(v), nil
	})
	if err != nil {
		return false, err
	}
	return t.(bool), nil
}

// Repr renders v the way the host's repr() does.
func (r *Runtime) Repr(ctx context.Context, v Value) (string, error) {
	s, err := r.boundary(ctx, "repr", v, nil, func(c *Call) (Value, error) {
		return c.Repr(v), nil
	})
	if err != nil {
		return "", err
	}
	return s.(string), nil
}

// Str renders v the way the host's str() does.
func (r *Runtime) Str(ctx context.Context, v Value) (string, error) {
	s, err := r.boundary(ctx, "str", v, nil, func(c *Call) (Value, error) {
		return c.Str(v), nil
	})
	if err != nil {
		return "", err
	}
	return s.(string), nil
}
