package wasmhost

import (
	"context"
	"encoding/binary"

	"github.com/tetratelabs/wazero"
	"github.com/tetratelabs/wazero/api"
	"go.bytecodealliance.org/wit"
	"go.uber.org/zap"

	"github.com/wippyai/imath-bind/errors"
	"github.com/wippyai/imath-bind/host"
)

// ModuleName is the import module guests link the bound operations from.
const ModuleName = "imath"

// Option configures a Host.
type Option func(*Host)

// WithLogger sets the logger traps are reported to.
func WithLogger(l *zap.Logger) Option {
	return func(h *Host) {
		h.logger = l
	}
}

// WithModuleName overrides the import module name.
func WithModuleName(name string) Option {
	return func(h *Host) {
		h.name = name
	}
}

// Host exposes a host runtime to wasm guests. Guests hold host values by
// handle and pass strings and handle lists through their own memory. A
// failing operation traps with the text of the translated host exception.
type Host struct {
	rt      *host.Runtime
	handles *Table
	logger  *zap.Logger
	name    string
	exports []export
}

// Signature is the core wasm type of one host function.
type Signature struct {
	Name    string
	Params  []api.ValueType
	Results []api.ValueType
}

type export struct {
	name    string
	params  []wit.Type
	results []wit.Type
	fn      func(ctx context.Context, m api.Module, stack []uint64) error
}

// New creates a host over rt with an empty handle table.
func New(rt *host.Runtime, opts ...Option) *Host {
	h := &Host{
		rt:      rt,
		handles: NewTable(),
		name:    ModuleName,
	}
	for _, opt := range opts {
		opt(h)
	}
	if h.logger == nil {
		h.logger = Logger()
	}
	h.exports = h.define()
	return h
}

// Handles returns the table of values held for guests.
func (h *Host) Handles() *Table { return h.handles }

// Signatures lists the host functions with their flattened core types, in
// export order.
func (h *Host) Signatures() ([]Signature, error) {
	out := make([]Signature, len(h.exports))
	for i, e := range h.exports {
		params, err := FlattenTypes(e.params)
		if err != nil {
			return nil, err
		}
		results, err := FlattenTypes(e.results)
		if err != nil {
			return nil, err
		}
		out[i] = Signature{Name: e.name, Params: params, Results: results}
	}
	return out, nil
}

// Instantiate registers the host module in r. Guests must import it before
// they are instantiated.
func (h *Host) Instantiate(ctx context.Context, r wazero.Runtime) (api.Module, error) {
	sigs, err := h.Signatures()
	if err != nil {
		return nil, err
	}
	b := r.NewHostModuleBuilder(h.name)
	for i, e := range h.exports {
		b = b.NewFunctionBuilder().
			WithGoModuleFunction(h.trapping(e), sigs[i].Params, sigs[i].Results).
			WithName(e.name).
			Export(e.name)
	}
	return b.Instantiate(ctx)
}

// Close releases every handle.
func (h *Host) Close() { h.handles.Close() }

func (h *Host) trapping(e export) api.GoModuleFunc {
	return func(ctx context.Context, m api.Module, stack []uint64) {
		if err := e.fn(ctx, m, stack); err != nil {
			exc := h.rt.ToHost(err)
			h.logger.Debug("guest call trapped", zap.String("func", e.name), zap.String("exception", exc.Error()))
			panic(exc)
		}
	}
}

func (h *Host) hold(stack []uint64, v host.Value) error {
	hd, err := h.handles.Insert(v)
	if err != nil {
		return err
	}
	stack[0] = api.EncodeU32(uint32(hd))
	return nil
}

func (h *Host) value(raw uint64) (host.Value, error) {
	return h.handles.Get(Handle(api.DecodeU32(raw)))
}

func readString(m api.Module, ptr, n uint64) (string, error) {
	b, ok := m.Memory().Read(api.DecodeU32(ptr), api.DecodeU32(n))
	if !ok {
		return "", errors.OutOfBounds(errors.PhaseCall, []string{"memory"}, int(api.DecodeU32(ptr)), int(m.Memory().Size()))
	}
	return string(b), nil
}

func (h *Host) readHandles(m api.Module, ptr, n uint64) ([]host.Value, error) {
	count := api.DecodeU32(n)
	size := uint64(count) * 4
	if size > uint64(m.Memory().Size()) {
		return nil, errors.OutOfBounds(errors.PhaseCall, []string{"memory"}, int(count), int(m.Memory().Size()/4))
	}
	b, ok := m.Memory().Read(api.DecodeU32(ptr), uint32(size))
	if !ok {
		return nil, errors.OutOfBounds(errors.PhaseCall, []string{"memory"}, int(api.DecodeU32(ptr)), int(m.Memory().Size()))
	}
	out := make([]host.Value, count)
	for i := range out {
		v, err := h.handles.Get(Handle(binary.LittleEndian.Uint32(b[i*4:])))
		if err != nil {
			return nil, err
		}
		out[i] = v
	}
	return out, nil
}

var handleList = &wit.TypeDef{Kind: &wit.List{Type: wit.U32{}}}

func (h *Host) define() []export {
	return []export{
		{
			name: "lookup", params: []wit.Type{wit.String{}}, results: []wit.Type{wit.U32{}},
			fn: func(ctx context.Context, m api.Module, stack []uint64) error {
				path, err := readString(m, stack[0], stack[1])
				if err != nil {
					return err
				}
				v, err := h.rt.Lookup(ctx, path)
				if err != nil {
					return err
				}
				return h.hold(stack, v)
			},
		},
		{
			name: "float", params: []wit.Type{wit.F64{}}, results: []wit.Type{wit.U32{}},
			fn: func(_ context.Context, _ api.Module, stack []uint64) error {
				return h.hold(stack, api.DecodeF64(stack[0]))
			},
		},
		{
			name: "int", params: []wit.Type{wit.S64{}}, results: []wit.Type{wit.U32{}},
			fn: func(_ context.Context, _ api.Module, stack []uint64) error {
				return h.hold(stack, int64(stack[0]))
			},
		},
		{
			name: "str", params: []wit.Type{wit.String{}}, results: []wit.Type{wit.U32{}},
			fn: func(_ context.Context, m api.Module, stack []uint64) error {
				s, err := readString(m, stack[0], stack[1])
				if err != nil {
					return err
				}
				return h.hold(stack, s)
			},
		},
		{
			name: "call", params: []wit.Type{wit.U32{}, handleList}, results: []wit.Type{wit.U32{}},
			fn: func(ctx context.Context, m api.Module, stack []uint64) error {
				callee, err := h.value(stack[0])
				if err != nil {
					return err
				}
				args, err := h.readHandles(m, stack[1], stack[2])
				if err != nil {
					return err
				}
				v, err := h.rt.Call(ctx, callee, args...)
				if err != nil {
					return err
				}
				return h.hold(stack, v)
			},
		},
		{
			name: "call_method", params: []wit.Type{wit.U32{}, wit.String{}, handleList}, results: []wit.Type{wit.U32{}},
			fn: func(ctx context.Context, m api.Module, stack []uint64) error {
				obj, err := h.value(stack[0])
				if err != nil {
					return err
				}
				name, err := readString(m, stack[1], stack[2])
				if err != nil {
					return err
				}
				args, err := h.readHandles(m, stack[3], stack[4])
				if err != nil {
					return err
				}
				v, err := h.rt.CallMethod(ctx, obj, name, args...)
				if err != nil {
					return err
				}
				return h.hold(stack, v)
			},
		},
		{
			name: "getattr", params: []wit.Type{wit.U32{}, wit.String{}}, results: []wit.Type{wit.U32{}},
			fn: func(ctx context.Context, m api.Module, stack []uint64) error {
				obj, err := h.value(stack[0])
				if err != nil {
					return err
				}
				name, err := readString(m, stack[1], stack[2])
				if err != nil {
					return err
				}
				v, err := h.rt.GetAttr(ctx, obj, name)
				if err != nil {
					return err
				}
				return h.hold(stack, v)
			},
		},
		{
			name: "getitem", params: []wit.Type{wit.U32{}, wit.U32{}}, results: []wit.Type{wit.U32{}},
			fn: func(ctx context.Context, _ api.Module, stack []uint64) error {
				obj, err := h.value(stack[0])
				if err != nil {
					return err
				}
				key, err := h.value(stack[1])
				if err != nil {
					return err
				}
				v, err := h.rt.GetItem(ctx, obj, key)
				if err != nil {
					return err
				}
				return h.hold(stack, v)
			},
		},
		{
			name: "op", params: []wit.Type{wit.U32{}, wit.U32{}, wit.U32{}}, results: []wit.Type{wit.U32{}},
			fn: func(ctx context.Context, _ api.Module, stack []uint64) error {
				op := host.Op(api.DecodeU32(stack[0]))
				if op.String() == "?" {
					return errors.InvalidValue(errors.PhaseOperator, "unknown operator %d", int(op))
				}
				a, err := h.value(stack[1])
				if err != nil {
					return err
				}
				var v host.Value
				if op.IsUnary() {
					v, err = h.rt.Unary(ctx, op, a)
				} else {
					var b host.Value
					if b, err = h.value(stack[2]); err != nil {
						return err
					}
					v, err = h.rt.Binary(ctx, op, a, b)
				}
				if err != nil {
					return err
				}
				return h.hold(stack, v)
			},
		},
		{
			name: "as_f64", params: []wit.Type{wit.U32{}}, results: []wit.Type{wit.F64{}},
			fn: func(_ context.Context, _ api.Module, stack []uint64) error {
				v, err := h.value(stack[0])
				if err != nil {
					return err
				}
				f, ok := host.AsFloat(v)
				if !ok {
					return errors.ScalarKind(errors.PhaseConvert, []string{"as_f64"}, "float", host.TypeName(v))
				}
				stack[0] = api.EncodeF64(f)
				return nil
			},
		},
		{
			name: "as_s64", params: []wit.Type{wit.U32{}}, results: []wit.Type{wit.S64{}},
			fn: func(_ context.Context, _ api.Module, stack []uint64) error {
				v, err := h.value(stack[0])
				if err != nil {
					return err
				}
				i, ok := host.AsInt(v)
				if !ok {
					return errors.ScalarKind(errors.PhaseConvert, []string{"as_s64"}, "int", host.TypeName(v))
				}
				stack[0] = api.EncodeI64(i)
				return nil
			},
		},
		{
			// repr writes as much of the text as fits and returns its full
			// length, so a guest can retry with a larger buffer.
			name: "repr", params: []wit.Type{wit.U32{}, &wit.TypeDef{Kind: &wit.List{Type: wit.U8{}}}}, results: []wit.Type{wit.U32{}},
			fn: func(ctx context.Context, m api.Module, stack []uint64) error {
				v, err := h.value(stack[0])
				if err != nil {
					return err
				}
				s, err := h.rt.Repr(ctx, v)
				if err != nil {
					return err
				}
				ptr, n := api.DecodeU32(stack[1]), api.DecodeU32(stack[2])
				out := []byte(s)
				if uint32(len(out)) < n {
					n = uint32(len(out))
				}
				if !m.Memory().Write(ptr, out[:n]) {
					return errors.OutOfBounds(errors.PhaseCall, []string{"memory"}, int(ptr), int(m.Memory().Size()))
				}
				stack[0] = api.EncodeU32(uint32(len(out)))
				return nil
			},
		},
		{
			name: "drop", params: []wit.Type{wit.U32{}},
			fn: func(_ context.Context, _ api.Module, stack []uint64) error {
				h.handles.Drop(Handle(api.DecodeU32(stack[0])))
				return nil
			},
		},
	}
}
