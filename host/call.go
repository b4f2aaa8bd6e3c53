package host

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/wippyai/imath-bind/errors"
)

const (
	// Pool limits to prevent memory bloat
	callArgsMaxCap  = 256
	callArgsInitCap = 8
)

// Call is the context of one boundary crossing. It owns the argument buffer
// for the duration of the call and is returned to a pool afterwards, so it
// must not be retained by native code.
type Call struct {
	ctx     context.Context
	rt      *Runtime
	op      string
	subject Value
	args    []Value
}

var callPool = sync.Pool{
	New: func() any {
		return &Call{args: make([]Value, 0, callArgsInitCap)}
	},
}

func acquireCall(ctx context.Context, rt *Runtime, op string, subject Value, args []Value) *Call {
	c := callPool.Get().(*Call)
	c.ctx = ctx
	c.rt = rt
	c.op = op
	c.subject = subject
	c.args = append(c.args[:0], args...)
	return c
}

func releaseCall(c *Call) {
	clear(c.args)
	c.args = c.args[:0]
	c.ctx = nil
	c.rt = nil
	c.subject = nil
	if cap(c.args) > callArgsMaxCap {
		return // reject oversized
	}
	callPool.Put(c)
}

// Context returns the context of the crossing.
func (c *Call) Context() context.Context { return c.ctx }

// Runtime returns the runtime the call runs in.
func (c *Call) Runtime() *Runtime { return c.rt }

// Op names the boundary operation, e.g. "call" or "binary".
func (c *Call) Op() string { return c.op }

// Args returns the pooled argument buffer of the crossing.
func (c *Call) Args() []Value { return c.args }

// Logger returns the runtime logger.
func (c *Call) Logger() *zap.Logger { return c.rt.logger }

// Handler runs the body of a boundary crossing.
type Handler func(c *Call) (Value, error)

// Middleware wraps a Handler.
type Middleware func(next Handler) Handler

// Chain wraps h so that the first middleware is the outermost.
func Chain(h Handler, mws ...Middleware) Handler {
	for i := len(mws) - 1; i >= 0; i-- {
		h = mws[i](h)
	}
	return h
}

// RecoverMiddleware turns a native panic into an error so it is translated
// like any other failure instead of unwinding through the host.
func RecoverMiddleware() Middleware {
	return func(next Handler) Handler {
		return func(c *Call) (result Value, err error) {
			defer func() {
				if r := recover(); r != nil {
					c.Logger().Warn("native panic at boundary",
						zap.String("op", c.op),
						zap.Any("panic", r),
					)
					result = nil
					err = errors.Panic(errors.PhaseCall, r)
				}
			}()
			return next(c)
		}
	}
}

// LoggingMiddleware logs every crossing at debug level.
func LoggingMiddleware(logger *zap.Logger) Middleware {
	return func(next Handler) Handler {
		return func(c *Call) (Value, error) {
			start := time.Now()
			result, err := next(c)
			if ce := logger.Check(zap.DebugLevel, "boundary call"); ce != nil {
				fields := []zap.Field{
					zap.String("op", c.op),
					zap.String("subject", TypeName(c.subject)),
					zap.Int("args", len(c.args)),
					zap.Duration("elapsed", time.Since(start)),
				}
				if err != nil {
					fields = append(fields, zap.Error(err))
				}
				ce.Write(fields...)
			}
			return result, err
		}
	}
}

// Raise returns a host exception of cls as an error.
func (c *Call) Raise(cls *Class, format string, args ...any) error {
	return Raise(cls, format, args...)
}

// Invoke calls a host callable on behalf of native code. A host exception
// raised by the callee is translated into its native counterpart.
func (c *Call) Invoke(callee Value, args ...Value) (Value, error) {
	result, err := c.Call(callee, args...)
	if err != nil {
		if exc, ok := err.(*Exception); ok {
			return nil, c.rt.ToNative(exc)
		}
		return nil, err
	}
	return result, nil
}
