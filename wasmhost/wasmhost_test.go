package wasmhost

import (
	"context"
	"encoding/binary"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tetratelabs/wazero"
	"github.com/tetratelabs/wazero/api"
	"go.bytecodealliance.org/wit"

	"github.com/wippyai/imath-bind/bind"
	"github.com/wippyai/imath-bind/excreg"
	"github.com/wippyai/imath-bind/host"
)

// guestModule encodes a module that imports every host function and
// exports a trampoline "t_<name>" for each, plus its memory. Calling a
// trampoline runs the host function with the guest as caller.
func guestModule(sigs []Signature, module string) []byte {
	var types, imports, funcs, exports, code []byte
	types = uleb(types, uint32(len(sigs)))
	imports = uleb(imports, uint32(len(sigs)))
	funcs = uleb(funcs, uint32(len(sigs)))
	exports = uleb(exports, uint32(len(sigs)+1))
	code = uleb(code, uint32(len(sigs)))

	for i, s := range sigs {
		types = append(types, 0x60)
		types = uleb(types, uint32(len(s.Params)))
		types = append(types, s.Params...)
		types = uleb(types, uint32(len(s.Results)))
		types = append(types, s.Results...)

		imports = name(imports, module)
		imports = name(imports, s.Name)
		imports = append(imports, 0x00)
		imports = uleb(imports, uint32(i))

		funcs = uleb(funcs, uint32(i))

		exports = name(exports, "t_"+s.Name)
		exports = append(exports, 0x00)
		exports = uleb(exports, uint32(len(sigs)+i))

		body := []byte{0x00} // no locals
		for p := range s.Params {
			body = append(body, 0x20)
			body = uleb(body, uint32(p))
		}
		body = append(body, 0x10)
		body = uleb(body, uint32(i))
		body = append(body, 0x0b)
		code = uleb(code, uint32(len(body)))
		code = append(code, body...)
	}
	exports = name(exports, "memory")
	exports = append(exports, 0x02, 0x00)

	out := []byte{0x00, 0x61, 0x73, 0x6d, 0x01, 0x00, 0x00, 0x00}
	out = section(out, 1, types)
	out = section(out, 2, imports)
	out = section(out, 3, funcs)
	out = section(out, 5, []byte{0x01, 0x00, 0x01}) // one memory, min 1 page
	out = section(out, 7, exports)
	out = section(out, 10, code)
	return out
}

func uleb(b []byte, v uint32) []byte {
	for {
		c := byte(v & 0x7f)
		v >>= 7
		if v != 0 {
			c |= 0x80
		}
		b = append(b, c)
		if v == 0 {
			return b
		}
	}
}

func name(b []byte, s string) []byte {
	b = uleb(b, uint32(len(s)))
	return append(b, s...)
}

func section(b []byte, id byte, payload []byte) []byte {
	b = append(b, id)
	b = uleb(b, uint32(len(payload)))
	return append(b, payload...)
}

type guest struct {
	t   *testing.T
	ctx context.Context
	mod api.Module
	top uint32
}

func newGuest(t *testing.T) (*guest, *Host) {
	t.Helper()
	ctx := context.Background()

	reg := excreg.Default()
	m, err := bind.NewImathModule(reg)
	require.NoError(t, err)
	rt := host.New(host.WithTranslator(reg))
	require.NoError(t, rt.Install(m))

	h := New(rt)
	t.Cleanup(h.Close)

	r := wazero.NewRuntime(ctx)
	t.Cleanup(func() { _ = r.Close(ctx) })
	_, err = h.Instantiate(ctx, r)
	require.NoError(t, err)

	sigs, err := h.Signatures()
	require.NoError(t, err)
	mod, err := r.Instantiate(ctx, guestModule(sigs, ModuleName))
	require.NoError(t, err)
	return &guest{t: t, ctx: ctx, mod: mod, top: 16}, h
}

// put copies b into guest memory and returns its address.
func (g *guest) put(b []byte) (uint32, uint32) {
	ptr := g.top
	require.True(g.t, g.mod.Memory().Write(ptr, b))
	g.top += uint32(len(b)+7) &^ 7
	return ptr, uint32(len(b))
}

func (g *guest) str(s string) (uint64, uint64) {
	p, n := g.put([]byte(s))
	return uint64(p), uint64(n)
}

func (g *guest) handles(hs ...uint64) (uint64, uint64) {
	b := make([]byte, 4*len(hs))
	for i, h := range hs {
		binary.LittleEndian.PutUint32(b[i*4:], uint32(h))
	}
	p, _ := g.put(b)
	return uint64(p), uint64(len(hs))
}

func (g *guest) call(fn string, args ...uint64) ([]uint64, error) {
	f := g.mod.ExportedFunction("t_" + fn)
	require.NotNil(g.t, f, fn)
	return f.Call(g.ctx, args...)
}

func (g *guest) must(fn string, args ...uint64) uint64 {
	g.t.Helper()
	res, err := g.call(fn, args...)
	require.NoError(g.t, err)
	if len(res) == 0 {
		return 0
	}
	return res[0]
}

func TestFlattenType(t *testing.T) {
	tests := []struct {
		name string
		typ  wit.Type
		want []api.ValueType
	}{
		{"u32", wit.U32{}, []api.ValueType{api.ValueTypeI32}},
		{"s64", wit.S64{}, []api.ValueType{api.ValueTypeI64}},
		{"f64", wit.F64{}, []api.ValueType{api.ValueTypeF64}},
		{"string", wit.String{}, []api.ValueType{api.ValueTypeI32, api.ValueTypeI32}},
		{"list", handleList, []api.ValueType{api.ValueTypeI32, api.ValueTypeI32}},
		{"record", &wit.TypeDef{Kind: &wit.Record{Fields: []wit.Field{
			{Name: "x", Type: wit.F32{}},
			{Name: "n", Type: wit.U64{}},
		}}}, []api.ValueType{api.ValueTypeF32, api.ValueTypeI64}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := FlattenType(tt.typ)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}

	_, err := FlattenType(&wit.TypeDef{Kind: &wit.Option{Type: wit.U32{}}})
	assert.Error(t, err)
}

func TestTableReusesSlots(t *testing.T) {
	tab := NewTable()
	a, err := tab.Insert("a")
	require.NoError(t, err)
	b, err := tab.Insert("b")
	require.NoError(t, err)
	assert.Equal(t, Handle(1), a)
	assert.Equal(t, Handle(2), b)

	none, err := tab.Insert(nil)
	require.NoError(t, err)
	assert.Equal(t, Handle(0), none)

	assert.True(t, tab.Drop(a))
	assert.False(t, tab.Drop(a))
	_, err = tab.Get(a)
	assert.Error(t, err)

	c, err := tab.Insert("c")
	require.NoError(t, err)
	assert.Equal(t, a, c)
	assert.Equal(t, 2, tab.Len())

	tab.Close()
	_, err = tab.Insert("d")
	assert.Error(t, err)
}

func TestGuestBuildsVectors(t *testing.T) {
	g, h := newGuest(t)

	cls := g.must("lookup", g.str0("imath.V3d")...)
	x := g.must("float", api.EncodeF64(3))
	y := g.must("float", api.EncodeF64(4))
	z := g.must("float", api.EncodeF64(0))
	ap, an := g.handles(x, y, z)
	v := g.must("call", cls, ap, an)

	np, nn := g.str("length")
	ep, en := g.handles()
	length := g.must("call_method", v, np, nn, ep, en)
	assert.Equal(t, 5.0, api.DecodeF64(g.must("as_f64", length)))

	sum := g.must("op", uint64(host.OpAdd), v, v)
	bufPtr, _ := g.put(make([]byte, 64))
	n := g.must("repr", sum, uint64(bufPtr), 64)
	text, ok := g.mod.Memory().Read(bufPtr, uint32(n))
	require.True(t, ok)
	assert.Equal(t, "V3d(6, 8, 0)", string(text))

	fp, fn := g.str("y")
	comp := g.must("getattr", v, fp, fn)
	assert.Equal(t, 4.0, api.DecodeF64(g.must("as_f64", comp)))

	before := h.Handles().Len()
	g.must("drop", comp)
	assert.Equal(t, before-1, h.Handles().Len())
}

func TestGuestTrapsWithHostException(t *testing.T) {
	g, _ := newGuest(t)

	_, err := g.call("lookup", g.str0("imath.NoSuchThing")...)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "AttributeError")

	cls := g.must("lookup", g.str0("imath.V3i")...)
	f := g.must("float", api.EncodeF64(1.5))
	ap, an := g.handles(f, f, f)
	_, err = g.call("call", cls, ap, an)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "TypeError")

	_, err = g.call("op", 999, 0, 0)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown operator")
}

func TestGuestTrapsOnOversizedHandleList(t *testing.T) {
	g, h := newGuest(t)

	cls := g.must("lookup", g.str0("imath.V3f")...)
	ap, _ := g.handles(cls)
	np, nn := g.str("length")

	for _, count := range []uint64{0x40000001, 0xffffffff, 1 << 20} {
		_, err := g.call("call", cls, ap, count)
		require.Error(t, err, "call with %#x handles", count)
		assert.Contains(t, err.Error(), "IndexError")

		_, err = g.call("call_method", cls, np, nn, ap, count)
		require.Error(t, err, "call_method with %#x handles", count)
		assert.Contains(t, err.Error(), "IndexError")
	}

	// The host keeps serving after the traps.
	ep, en := g.handles()
	v := g.must("call", cls, ep, en)
	assert.Equal(t, "V3f(0, 0, 0)", hostRepr(t, h, v))
}

func hostRepr(t *testing.T, h *Host, raw uint64) string {
	t.Helper()
	v, err := h.Handles().Get(Handle(raw))
	require.NoError(t, err)
	s, err := h.rt.Repr(context.Background(), v)
	require.NoError(t, err)
	return s
}

func (g *guest) str0(s string) []uint64 {
	p, n := g.str(s)
	return []uint64{p, n}
}
