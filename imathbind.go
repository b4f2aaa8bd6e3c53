// Package imathbind assembles a ready-to-use host runtime for the imath and
// iex bindings from a config.Config.
//
// # Architecture Overview
//
//	imathbind/           NewRuntime wiring: logger, task pool, registry, modules
//	├── host/            Host object model: classes, modules, operator dispatch
//	├── iex/             Native exception hierarchy, errno family included
//	├── excreg/          Native/host exception registry and translation
//	├── imath/           Native vector, matrix, box, colour and random types
//	├── array/           Fixed-length arrays, masked references, vectorised ops
//	├── strtab/          Interned string arrays
//	├── task/            Bulk work splitting over a bounded worker pool
//	├── bind/            The iex and imath host modules
//	├── wasmhost/        The runtime exposed to wasm guests through wazero
//	├── config/          Defaults, IMATH_* environment and overrides
//	├── errors/          Structured error types
//	└── cmd/imath/       CLI and interactive shell
//
// # Quick Start
//
//	rt, err := imathbind.NewRuntime(config.Default())
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer rt.Close()
//
//	v, err := rt.Eval(ctx, "imath.V3f(1, 2, 3).length()")
package imathbind

import (
	"context"
	"slices"

	"github.com/tetratelabs/wazero"
	"github.com/tetratelabs/wazero/api"
	"go.uber.org/zap"

	"github.com/wippyai/imath-bind/bind"
	"github.com/wippyai/imath-bind/config"
	"github.com/wippyai/imath-bind/errors"
	"github.com/wippyai/imath-bind/excreg"
	"github.com/wippyai/imath-bind/host"
	"github.com/wippyai/imath-bind/internal/expr"
	"github.com/wippyai/imath-bind/task"
	"github.com/wippyai/imath-bind/wasmhost"
)

// Option configures NewRuntime.
type Option func(*options)

type options struct {
	logger     *zap.Logger
	middleware []host.Middleware
}

// WithLogger replaces the logger the configuration would build.
func WithLogger(l *zap.Logger) Option {
	return func(o *options) {
		o.logger = l
	}
}

// WithMiddleware adds host call middleware.
func WithMiddleware(mws ...host.Middleware) Option {
	return func(o *options) {
		o.middleware = append(o.middleware, mws...)
	}
}

// Runtime is a host runtime with the configured modules installed.
type Runtime struct {
	*host.Runtime

	cfg      config.Config
	logger   *zap.Logger
	registry *excreg.Registry
	pool     *task.Pool
	eval     *expr.Evaluator
}

// NewRuntime validates cfg, builds the logger and task pool, and installs
// the modules cfg.Modules names. Arrays created through the runtime do their
// bulk work on its pool; task.Default is left alone. The exception registry
// is process-wide and logs through the logger of the last runtime built.
func NewRuntime(cfg config.Config, opts ...Option) (*Runtime, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	var o options
	for _, opt := range opts {
		opt(&o)
	}
	logger := o.logger
	if logger == nil {
		l, err := config.NewLogger(cfg)
		if err != nil {
			return nil, err
		}
		logger = l
	}

	pool := task.New(cfg.Workers, cfg.Grain)

	excreg.SetLogger(logger.Named("excreg"))
	reg := excreg.Default()
	iexMod, err := bind.NewIexModule(reg)
	if err != nil {
		return nil, err
	}
	imathOpts := []bind.Option{bind.WithReprLimit(cfg.ReprLimit), bind.WithPool(pool)}
	if slices.Contains(cfg.Modules, bind.IexModuleName) {
		imathOpts = append(imathOpts, bind.WithIexModule(iexMod))
	}
	imathMod, err := bind.NewImathModule(reg, imathOpts...)
	if err != nil {
		return nil, err
	}

	rt := host.New(
		host.WithLogger(logger),
		host.WithTranslator(reg),
		host.WithMiddleware(o.middleware...),
	)
	for _, name := range cfg.Modules {
		m := iexMod
		if name == bind.ModuleName {
			m = imathMod
		}
		if err := rt.Install(m); err != nil {
			return nil, err
		}
	}

	logger.Info("runtime ready",
		zap.Strings("modules", cfg.Modules),
		zap.Int("workers", pool.Workers()),
		zap.Int("grain", pool.Grain()))

	return &Runtime{
		Runtime:  rt,
		cfg:      cfg,
		logger:   logger,
		registry: reg,
		pool:     pool,
		eval:     expr.New(rt),
	}, nil
}

// Config returns the configuration the runtime was built from.
func (r *Runtime) Config() config.Config { return r.cfg }

// Registry returns the exception registry.
func (r *Runtime) Registry() *excreg.Registry { return r.registry }

// Pool returns the task pool.
func (r *Runtime) Pool() *task.Pool { return r.pool }

// Eval runs host code in the runtime's evaluator. Variables persist across
// calls.
func (r *Runtime) Eval(ctx context.Context, src string) (host.Value, error) {
	return r.eval.Eval(ctx, src)
}

// Evaluator returns the evaluator Eval uses.
func (r *Runtime) Evaluator() *expr.Evaluator { return r.eval }

// Guest is a core wasm module instantiated against the runtime.
type Guest struct {
	api.Module

	host *wasmhost.Host
	wr   wazero.Runtime
}

// LoadGuest instantiates a core wasm module whose imports come from the
// wasm host module. Close the guest to release its handles and engine.
func (r *Runtime) LoadGuest(ctx context.Context, wasm []byte) (*Guest, error) {
	h := wasmhost.New(r.Runtime, wasmhost.WithLogger(r.logger))
	wr := wazero.NewRuntime(ctx)
	if _, err := h.Instantiate(ctx, wr); err != nil {
		_ = wr.Close(ctx)
		h.Close()
		return nil, err
	}
	mod, err := wr.Instantiate(ctx, wasm)
	if err != nil {
		_ = wr.Close(ctx)
		h.Close()
		return nil, errors.Wrap(errors.PhaseWasm, errors.KindInvalidInput, err, "instantiate guest")
	}
	return &Guest{Module: mod, host: h, wr: wr}, nil
}

// Host returns the wasm host module the guest imports from.
func (g *Guest) Host() *wasmhost.Host { return g.host }

// Close releases the guest, its handles and its engine.
func (g *Guest) Close(ctx context.Context) error {
	g.host.Close()
	return g.wr.Close(ctx)
}

// Close flushes the logger.
func (r *Runtime) Close() error {
	_ = r.logger.Sync()
	return nil
}
