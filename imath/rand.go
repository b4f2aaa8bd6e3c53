package imath

import "math"

// Random is a source of uniformly distributed draws.
type Random interface {
	NextF() float64
	NextFRange(lo, hi float64) float64
}

// seedMix spreads the bits of a small seed across the state.
func seedMix(seed uint64) uint32 {
	return uint32(seed)*0xa5a573a5 ^ 0x5a5a5a5a
}

// Rand32 is a fast 32-bit linear congruential generator. Its whole state is
// one word, so copies of a value draw independently.
type Rand32 struct {
	state uint32
}

// NewRand32 returns a generator seeded with seed.
func NewRand32(seed uint64) *Rand32 {
	r := &Rand32{}
	r.Init(seed)
	return r
}

// Init reseeds the generator.
func (r *Rand32) Init(seed uint64) { r.state = seedMix(seed) }

func (r *Rand32) next() { r.state = 1664525*r.state + 1013904223 }

// NextI returns a uniformly distributed 32-bit integer.
func (r *Rand32) NextI() uint32 {
	r.next()
	return r.state
}

// NextB returns a uniformly distributed bool.
func (r *Rand32) NextB() bool {
	r.next()
	return r.state&0x80000000 != 0
}

// NextF returns a float in [0, 1).
func (r *Rand32) NextF() float64 {
	r.next()
	return float64(math.Float32frombits(0x3f800000|r.state&0x7fffff) - 1)
}

// NextFRange returns a float in [lo, hi).
func (r *Rand32) NextFRange(lo, hi float64) float64 {
	f := r.NextF()
	return lo*(1-f) + hi*f
}

const (
	rand48A    = 0x5DEECE66D
	rand48C    = 0xB
	rand48Mask = 1<<48 - 1
)

// Rand48 is the 48-bit generator of the drand48 family. Unlike the libc
// functions it keeps its state in the value.
type Rand48 struct {
	state [3]uint16
}

// NewRand48 returns a generator seeded with seed.
func NewRand48(seed uint64) *Rand48 {
	r := &Rand48{}
	r.Init(seed)
	return r
}

// Init reseeds the generator.
func (r *Rand48) Init(seed uint64) {
	s := seedMix(seed)
	r.state = [3]uint16{uint16(s), uint16(s >> 16), uint16(s)}
}

func (r *Rand48) next() uint64 {
	x := uint64(r.state[2])<<32 | uint64(r.state[1])<<16 | uint64(r.state[0])
	x = (rand48A*x + rand48C) & rand48Mask
	r.state = [3]uint16{uint16(x), uint16(x >> 16), uint16(x >> 32)}
	return x
}

// NextI returns a uniformly distributed integer in [0, 2^31).
func (r *Rand48) NextI() uint32 { return uint32(r.next() >> 17) }

// NextB returns a uniformly distributed bool.
func (r *Rand48) NextB() bool { return r.NextI()&1 != 0 }

// NextF returns a float in [0, 1).
func (r *Rand48) NextF() float64 { return float64(r.next()) / (1 << 48) }

// NextFRange returns a float in [lo, hi).
func (r *Rand48) NextFRange(lo, hi float64) float64 {
	f := r.NextF()
	return lo*(1-f) + hi*f
}

// SolidSphereRand returns a point uniformly distributed inside the unit
// sphere (disc, hypersphere) of V.
func SolidSphereRand[V Vector[V, T], T Float](rnd Random) V {
	var v V
	for {
		for i := range v.Dim() {
			v = v.WithComp(i, T(rnd.NextFRange(-1, 1)))
		}
		if v.Length2() <= 1 {
			return v
		}
	}
}

// HollowSphereRand returns a point uniformly distributed on the surface of
// the unit sphere of V.
func HollowSphereRand[V Vector[V, T], T Float](rnd Random) V {
	var v V
	for {
		for i := range v.Dim() {
			v = v.WithComp(i, T(rnd.NextFRange(-1, 1)))
		}
		l := v.Length()
		if l <= 1 && l != 0 {
			return v.DivScalar(l)
		}
	}
}

// GaussRand returns a normally distributed number with mean 0 and standard
// deviation 1.
func GaussRand(rnd Random) float64 {
	for {
		x := rnd.NextFRange(-1, 1)
		y := rnd.NextFRange(-1, 1)
		l2 := x*x + y*y
		if l2 < 1 && l2 > 0 {
			return x * math.Sqrt(-2*math.Log(l2)/l2)
		}
	}
}

// GaussSphereRand returns a point on the unit sphere scaled by a normally
// distributed length.
func GaussSphereRand[V Vector[V, T], T Float](rnd Random) V {
	return HollowSphereRand[V, T](rnd).Scale(T(GaussRand(rnd)))
}
