// Package excreg mirrors the native exception hierarchy into the host.
//
// Every registered native class gets a host exception class of the same name
// whose parent is the host counterpart of the native base, so the two trees
// stay isomorphic and host code can catch by base class. After Seal, native
// to host translation is a single map lookup.
package excreg

import (
	stderrors "errors"
	"sync"
	"sync/atomic"

	"go.uber.org/zap"

	"github.com/wippyai/imath-bind/errors"
	"github.com/wippyai/imath-bind/host"
	"github.com/wippyai/imath-bind/iex"
)

// Entry pairs a native class with its host counterpart.
type Entry struct {
	Native *iex.Class
	Host   *host.Class
}

// Option configures a Registry.
type Option func(*Registry)

// WithLogger sets the registry logger.
func WithLogger(l *zap.Logger) Option {
	return func(r *Registry) {
		r.logger = l
	}
}

// Registry holds the native/host exception class mapping.
type Registry struct {
	logger *zap.Logger

	mu       sync.RWMutex
	toHost   map[*iex.Class]*host.Class
	toNative map[*host.Class]*iex.Class
	order    []Entry

	flat   atomic.Pointer[map[*iex.Class]*host.Class]
	sealed atomic.Bool
}

// New creates an empty registry.
func New(opts ...Option) *Registry {
	r := &Registry{
		toHost:   make(map[*iex.Class]*host.Class),
		toNative: make(map[*host.Class]*iex.Class),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

func (r *Registry) log() *zap.Logger {
	if r.logger != nil {
		return r.logger
	}
	return Logger()
}

// Register creates the host counterpart of native in module. A nil parent
// selects the counterpart of the native base, or the host Exception class
// for the root. A non-nil parent must be exactly that class. Registering a
// class twice returns the existing host class.
func (r *Registry) Register(native *iex.Class, parent *host.Class, module string) (*host.Class, error) {
	if native == nil {
		return nil, errors.InvalidInput(errors.PhaseRegister, "native class is nil")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	expected, err := r.expectedParent(native)
	if err != nil {
		return nil, err
	}
	if parent != nil && parent != expected {
		return nil, errors.Registration(native.Name(),
			"parent %s does not mirror native base (want %s)", parent.QualName(), expected.QualName())
	}

	if existing, ok := r.toHost[native]; ok {
		return existing, nil
	}
	if r.sealed.Load() {
		return nil, errors.Registration(native.Name(), "registry is sealed")
	}

	cls, err := host.NewExceptionClass(native.Name(), module, expected)
	if err != nil {
		return nil, err
	}
	cls.Doc = native.Name() + " mirrors the native exception of the same name"

	r.toHost[native] = cls
	r.toNative[cls] = native
	r.order = append(r.order, Entry{Native: native, Host: cls})

	r.log().Debug("exception registered",
		zap.String("class", native.Name()),
		zap.String("module", module),
		zap.String("base", expected.QualName()),
	)
	return cls, nil
}

func (r *Registry) expectedParent(native *iex.Class) (*host.Class, error) {
	base := native.Base()
	if base == nil {
		return host.ExceptionClass, nil
	}
	parent, ok := r.toHost[base]
	if !ok {
		return nil, errors.Registration(native.Name(), "base %s is not registered", base.Name())
	}
	return parent, nil
}

// RegisterAll registers classes in order; bases must come before their
// subclasses. module picks the host module of each class.
func (r *Registry) RegisterAll(classes []*iex.Class, module func(*iex.Class) string) error {
	for _, c := range classes {
		if _, err := r.Register(c, nil, module(c)); err != nil {
			return err
		}
	}
	return nil
}

// Seal ends registration and precomputes the nearest registered host class
// for every native class known at this point.
func (r *Registry) Seal() {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.sealed.Load() {
		return
	}
	flat := make(map[*iex.Class]*host.Class)
	for _, c := range iex.All() {
		if cls, ok := r.walk(c); ok {
			flat[c] = cls
		}
	}
	r.flat.Store(&flat)
	r.sealed.Store(true)
	r.log().Debug("exception registry sealed", zap.Int("registered", len(r.order)), zap.Int("known", len(flat)))
}

// Sealed reports whether Seal has run.
func (r *Registry) Sealed() bool { return r.sealed.Load() }

func (r *Registry) walk(c *iex.Class) (*host.Class, bool) {
	for k := c; k != nil; k = k.Base() {
		if cls, ok := r.toHost[k]; ok {
			return cls, true
		}
	}
	return nil, false
}

// nearest finds the host class for native, falling back to the nearest
// registered ancestor.
func (r *Registry) nearest(native *iex.Class) (*host.Class, bool) {
	if flat := r.flat.Load(); flat != nil {
		if cls, ok := (*flat)[native]; ok {
			return cls, true
		}
		// Defined after Seal; the mapping is immutable now.
		return r.walk(native)
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.walk(native)
}

// HostClass returns the host class registered for native, without ancestor
// fallback.
func (r *Registry) HostClass(native *iex.Class) (*host.Class, bool) {
	if !r.sealed.Load() {
		r.mu.RLock()
		defer r.mu.RUnlock()
	}
	cls, ok := r.toHost[native]
	return cls, ok
}

// NativeClass returns the native class a host class mirrors.
func (r *Registry) NativeClass(cls *host.Class) (*iex.Class, bool) {
	if !r.sealed.Load() {
		r.mu.RLock()
		defer r.mu.RUnlock()
	}
	native, ok := r.toNative[cls]
	return native, ok
}

// Entries returns all registrations in registration order.
func (r *Registry) Entries() []Entry {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]Entry, len(r.order))
	copy(out, r.order)
	return out
}

// Classes returns the host classes registered into module, in registration
// order.
func (r *Registry) Classes(module string) []*host.Class {
	var out []*host.Class
	for _, e := range r.Entries() {
		if e.Host.Module == module {
			out = append(out, e.Host)
		}
	}
	return out
}

// TranslateNativeToHost converts a thrown native exception into a host
// exception of the matching class, or of the nearest registered ancestor.
// The message is preserved verbatim.
func (r *Registry) TranslateNativeToHost(exc *iex.Exc) (*host.Exception, error) {
	cls, ok := r.nearest(exc.Class())
	if !ok {
		return nil, errors.Unregistered("native", exc.Class().Name())
	}
	out := host.NewException(cls, exc.Error())
	out.Cause = exc
	return out, nil
}

// TranslateHostToNative converts a host exception into a native exception
// of the class mirrored by its class or nearest mirrored ancestor.
func (r *Registry) TranslateHostToNative(exc *host.Exception) (*iex.Exc, error) {
	for k := exc.Class(); k != nil; k = k.Base() {
		if native, ok := r.NativeClass(k); ok {
			return native.New(exc.Message), nil
		}
	}
	return nil, errors.Unregistered("host", exc.Class().QualName())
}

// ToHost implements host.Translator. Native exceptions without a registered
// counterpart become a SystemError.
func (r *Registry) ToHost(err error) (*host.Exception, bool) {
	var native *iex.Exc
	if !stderrors.As(err, &native) {
		return nil, false
	}
	exc, terr := r.TranslateNativeToHost(native)
	if terr != nil {
		r.log().Warn("untranslatable native exception", zap.String("class", native.Class().Name()))
		return host.FromError(terr), true
	}
	return exc, true
}

// ToNative implements host.Translator.
func (r *Registry) ToNative(exc *host.Exception) error {
	native, err := r.TranslateHostToNative(exc)
	if err != nil {
		return err
	}
	return native
}
