package bind

import (
	"github.com/wippyai/imath-bind/host"
	"github.com/wippyai/imath-bind/imath"
)

func bindLine[T imath.Float](name string, v3 *vecType[imath.Vec3[T], T]) *Type[imath.Line3[T]] {
	t := newType[imath.Line3[T]](name, name+" is a parametric line", nil)
	point := func(c *host.Call, method string, v host.Value) (imath.Vec3[T], error) {
		return v3.Convert(c, name+"."+method, v)
	}

	t.init(func(c *host.Call, args []host.Value) (imath.Line3[T], error) {
		switch len(args) {
		case 0:
			return imath.Line3[T]{Dir: imath.Vec3[T]{X: 1}}, nil
		case 1:
			if l, ok, err := t.cast(c, args[0]); ok || err != nil {
				return l, err
			}
		case 2:
			p0, err := point(c, "p0", args[0])
			if err != nil {
				return imath.Line3[T]{}, err
			}
			p1, err := point(c, "p1", args[1])
			if err != nil {
				return imath.Line3[T]{}, err
			}
			return imath.LineThrough(p0, p1), nil
		}
		return imath.Line3[T]{}, badInit(name, args)
	})
	t.repr(func(l imath.Line3[T]) string {
		return name + "(" + v3.reprOf(l.Pos) + ", " + v3.reprOf(l.Pos.Add(l.Dir)) + ")"
	})

	t.field("pos", "origin of the line", func(l imath.Line3[T]) host.Value { return v3.Wrap(l.Pos) },
		func(c *host.Call, l *imath.Line3[T], x host.Value) error {
			p, err := point(c, "pos", x)
			l.Pos = p
			return err
		})
	t.field("dir", "unit direction", func(l imath.Line3[T]) host.Value { return v3.Wrap(l.Dir) },
		func(c *host.Call, l *imath.Line3[T], x host.Value) error {
			d, err := point(c, "dir", x)
			if err != nil {
				return err
			}
			l.Dir, _ = d.Normalized()
			return nil
		})

	t.mutator("set", "set(p0, p1) makes the line through two points", 2, 2, func(c *host.Call, l *imath.Line3[T], args []host.Value) error {
		p0, err := point(c, "set", args[0])
		if err != nil {
			return err
		}
		p1, err := point(c, "set", args[1])
		if err != nil {
			return err
		}
		*l = imath.LineThrough(p0, p1)
		return nil
	})
	t.method("pointAt", "pointAt(t) pos + dir*t", 1, 1, func(_ *host.Call, l imath.Line3[T], args []host.Value) (host.Value, error) {
		s, err := toScalar[T](name+".pointAt", args[0])
		if err != nil {
			return nil, err
		}
		return v3.Wrap(l.PointAt(s)), nil
	})
	t.method("closestPointTo", "closestPointTo(p) nearest point on the line", 1, 1, func(c *host.Call, l imath.Line3[T], args []host.Value) (host.Value, error) {
		p, err := point(c, "closestPointTo", args[0])
		if err != nil {
			return nil, err
		}
		return v3.Wrap(l.ClosestPointTo(p)), nil
	})
	t.method("distanceTo", "distanceTo(p) distance from p to the line", 1, 1, func(c *host.Call, l imath.Line3[T], args []host.Value) (host.Value, error) {
		p, err := point(c, "distanceTo", args[0])
		if err != nil {
			return nil, err
		}
		return float64(l.Distance(p)), nil
	})

	equality(t)
	return t
}

func bindPlane[T imath.Float](name string, v3 *vecType[imath.Vec3[T], T], line *Type[imath.Line3[T]]) *Type[imath.Plane3[T]] {
	t := newType[imath.Plane3[T]](name, name+" is an oriented plane", nil)
	vec := func(c *host.Call, method string, v host.Value) (imath.Vec3[T], error) {
		return v3.Convert(c, name+"."+method, v)
	}

	t.init(func(c *host.Call, args []host.Value) (imath.Plane3[T], error) {
		switch len(args) {
		case 0:
			return imath.Plane3[T]{Normal: imath.Vec3[T]{X: 1}}, nil
		case 1:
			if p, ok, err := t.cast(c, args[0]); ok || err != nil {
				return p, err
			}
		case 2:
			n, err := vec(c, "normal", args[0])
			if err != nil {
				return imath.Plane3[T]{}, err
			}
			// (normal, distance) or (point, normal)
			if d, ok, err := scalarOf[T](args[1]); ok || err != nil {
				nn, _ := n.Normalized()
				return imath.Plane3[T]{Normal: nn, Distance: d}, err
			}
			m, err := vec(c, "normal", args[1])
			if err != nil {
				return imath.Plane3[T]{}, err
			}
			return imath.PlaneFromNormal(n, m), nil
		case 3:
			var ps [3]imath.Vec3[T]
			for i := range ps {
				p, err := vec(c, "point", args[i])
				if err != nil {
					return imath.Plane3[T]{}, err
				}
				ps[i] = p
			}
			return imath.PlaneThrough(ps[0], ps[1], ps[2]), nil
		}
		return imath.Plane3[T]{}, badInit(name, args)
	})
	t.repr(func(p imath.Plane3[T]) string {
		return name + "(" + v3.reprOf(p.Normal) + ", " + formatScalar(p.Distance) + ")"
	})

	t.field("normal", "unit normal", func(p imath.Plane3[T]) host.Value { return v3.Wrap(p.Normal) },
		func(c *host.Call, p *imath.Plane3[T], x host.Value) error {
			n, err := vec(c, "normal", x)
			if err != nil {
				return err
			}
			p.Normal, _ = n.Normalized()
			return nil
		})
	t.field("distance", "distance from the origin along the normal", func(p imath.Plane3[T]) host.Value { return float64(p.Distance) },
		func(_ *host.Call, p *imath.Plane3[T], x host.Value) error {
			d, err := toScalar[T](name+".distance", x)
			p.Distance = d
			return err
		})

	t.method("distanceTo", "distanceTo(p) signed distance of p", 1, 1, func(c *host.Call, pl imath.Plane3[T], args []host.Value) (host.Value, error) {
		p, err := vec(c, "distanceTo", args[0])
		if err != nil {
			return nil, err
		}
		return float64(pl.DistanceTo(p)), nil
	})
	t.method("reflectPoint", "reflectPoint(p) p mirrored across the plane", 1, 1, func(c *host.Call, pl imath.Plane3[T], args []host.Value) (host.Value, error) {
		p, err := vec(c, "reflectPoint", args[0])
		if err != nil {
			return nil, err
		}
		return v3.Wrap(pl.ReflectPoint(p)), nil
	})
	t.method("reflectVector", "reflectVector(v) direction mirrored across the plane", 1, 1, func(c *host.Call, pl imath.Plane3[T], args []host.Value) (host.Value, error) {
		v, err := vec(c, "reflectVector", args[0])
		if err != nil {
			return nil, err
		}
		return v3.Wrap(pl.ReflectVector(v)), nil
	})
	// intersect and intersectT return None for a parallel line.
	t.method("intersect", "intersect(line) point where line meets the plane, or None", 1, 1, func(c *host.Call, pl imath.Plane3[T], args []host.Value) (host.Value, error) {
		l, err := line.Convert(c, name+".intersect", args[0])
		if err != nil {
			return nil, err
		}
		p, ok := pl.Intersect(l)
		if !ok {
			return nil, nil
		}
		return v3.Wrap(p), nil
	})
	t.method("intersectT", "intersectT(line) line parameter of the intersection, or None", 1, 1, func(c *host.Call, pl imath.Plane3[T], args []host.Value) (host.Value, error) {
		l, err := line.Convert(c, name+".intersectT", args[0])
		if err != nil {
			return nil, err
		}
		s, ok := pl.IntersectT(l)
		if !ok {
			return nil, nil
		}
		return float64(s), nil
	})
	t.unary(host.OpNeg, func(p imath.Plane3[T]) (host.Value, error) {
		return t.Wrap(imath.Plane3[T]{Normal: p.Normal.Neg(), Distance: -p.Distance}), nil
	})

	equality(t)
	return t
}

func bindFrustum[T imath.Float](name string, m44 *Type[imath.Matrix44[T]]) *Type[imath.Frustum[T]] {
	t := newType[imath.Frustum[T]](name, name+" is a viewing volume", nil)

	t.init(func(c *host.Call, args []host.Value) (imath.Frustum[T], error) {
		switch len(args) {
		case 0:
			return imath.DefaultFrustum[T](), nil
		case 1:
			if f, ok, err := t.cast(c, args[0]); ok || err != nil {
				return f, err
			}
		case 5:
			// near, far, fovx, fovy, aspect
			xs, _, err := scalars[T](host.Tuple(args), 5)
			if err != nil {
				return imath.Frustum[T]{}, err
			}
			if xs != nil {
				return imath.FrustumFromFov(xs[0], xs[1], xs[2], xs[3], xs[4])
			}
		case 6, 7:
			xs, _, err := scalars[T](host.Tuple(args[:6]), 6)
			if err != nil {
				return imath.Frustum[T]{}, err
			}
			if xs == nil {
				break
			}
			f := imath.Frustum[T]{Near: xs[0], Far: xs[1], Left: xs[2], Right: xs[3], Top: xs[4], Bottom: xs[5]}
			if len(args) == 7 {
				f.Ortho = toBool(c, args[6])
			}
			return f, nil
		}
		return imath.Frustum[T]{}, badInit(name, args)
	})
	t.repr(func(f imath.Frustum[T]) string {
		ortho := "False"
		if f.Ortho {
			ortho = "True"
		}
		return name + "(" + formatScalar(f.Near) + ", " + formatScalar(f.Far) + ", " +
			formatScalar(f.Left) + ", " + formatScalar(f.Right) + ", " +
			formatScalar(f.Top) + ", " + formatScalar(f.Bottom) + ", " + ortho + ")"
	})

	plane := func(method string, get func(imath.Frustum[T]) T) {
		t.method(method, method+"() clipping value", 0, 0, func(_ *host.Call, f imath.Frustum[T], _ []host.Value) (host.Value, error) {
			return float64(get(f)), nil
		})
	}
	plane("nearPlane", func(f imath.Frustum[T]) T { return f.Near })
	plane("farPlane", func(f imath.Frustum[T]) T { return f.Far })
	plane("left", func(f imath.Frustum[T]) T { return f.Left })
	plane("right", func(f imath.Frustum[T]) T { return f.Right })
	plane("top", func(f imath.Frustum[T]) T { return f.Top })
	plane("bottom", func(f imath.Frustum[T]) T { return f.Bottom })
	plane("fovx", func(f imath.Frustum[T]) T { return f.FovX() })
	plane("fovy", func(f imath.Frustum[T]) T { return f.FovY() })

	t.method("orthographic", "orthographic() reports a parallel projection", 0, 0, func(_ *host.Call, f imath.Frustum[T], _ []host.Value) (host.Value, error) {
		return f.Ortho, nil
	})
	t.mutator("setOrthographic", "setOrthographic(b) switches the projection kind", 1, 1, func(c *host.Call, f *imath.Frustum[T], args []host.Value) error {
		f.Ortho = toBool(c, args[0])
		return nil
	})
	t.method("aspect", "aspect() width over height", 0, 0, func(_ *host.Call, f imath.Frustum[T], _ []host.Value) (host.Value, error) {
		a, err := f.Aspect()
		if err != nil {
			return nil, err
		}
		return float64(a), nil
	})
	t.method("projectionMatrix", "projectionMatrix() clip space projection", 0, 0, func(_ *host.Call, f imath.Frustum[T], _ []host.Value) (host.Value, error) {
		m, err := f.ProjectionMatrix()
		if err != nil {
			return nil, err
		}
		return m44.Wrap(m), nil
	})

	equality(t)
	return t
}

var shearFields = []string{"xy", "xz", "yz", "yx", "zx", "zy"}

func bindShear[T imath.Float](name string, v3 *vecType[imath.Vec3[T], T], m44 *Type[imath.Matrix44[T]]) *Type[imath.Shear6[T]] {
	t := newType[imath.Shear6[T]](name, name+" holds the six factors of a 3D shear", nil)
	t.from = func(_ *host.Call, v host.Value) (imath.Shear6[T], bool, error) {
		xs, ok, err := scalars[T](v, 6)
		if err != nil || !ok {
			return imath.Shear6[T]{}, false, err
		}
		return imath.ShearFromComps([6]T(xs)), true, nil
	}

	t.init(func(c *host.Call, args []host.Value) (imath.Shear6[T], error) {
		switch len(args) {
		case 0:
			return imath.Shear6[T]{}, nil
		case 1:
			if v, ok, err := v3.Accept(c, args[0]); ok || err != nil {
				return imath.ShearFromVec(v), err
			}
			if s, ok, err := t.cast(c, args[0]); ok || err != nil {
				return s, err
			}
		case 3, 6:
			xs, ok, err := scalars[T](host.Tuple(args), len(args))
			if err != nil {
				return imath.Shear6[T]{}, err
			}
			if ok {
				var cs [6]T
				copy(cs[:], xs)
				return imath.ShearFromComps(cs), nil
			}
		}
		return imath.Shear6[T]{}, badInit(name, args)
	})
	t.repr(func(s imath.Shear6[T]) string {
		cs := s.Comps()
		return formatCall(name, cs[:]...)
	})

	for i, f := range shearFields {
		t.field(f, "shear factor "+f, func(s imath.Shear6[T]) host.Value { return float64(s.Comps()[i]) },
			func(_ *host.Call, s *imath.Shear6[T], x host.Value) error {
				k, err := toScalar[T](name+"."+f, x)
				if err != nil {
					return err
				}
				cs := s.Comps()
				cs[i] = k
				*s = imath.ShearFromComps(cs)
				return nil
			})
	}
	t.Class.Slots.Len = func(*host.Call, host.Value) (int, error) { return 6, nil }
	t.Class.Slots.GetItem = func(c *host.Call, self, key host.Value) (host.Value, error) {
		s, err := t.receiver("__getitem__", self)
		if err != nil {
			return nil, err
		}
		i, err := c.Index(name, key, 6)
		if err != nil {
			return nil, err
		}
		return float64(s.Comps()[i]), nil
	}
	t.Class.Slots.SetItem = func(c *host.Call, self, key, x host.Value) error {
		s, err := t.receiver("__setitem__", self)
		if err != nil {
			return err
		}
		i, err := c.Index(name, key, 6)
		if err != nil {
			return err
		}
		k, err := toScalar[T](name+"["+shearFields[i]+"]", x)
		if err != nil {
			return err
		}
		cs := s.Comps()
		cs[i] = k
		t.store(self, imath.ShearFromComps(cs))
		return nil
	}

	t.method("toMatrix44", "toMatrix44() shear matrix", 0, 0, func(_ *host.Call, s imath.Shear6[T], _ []host.Value) (host.Value, error) {
		return m44.Wrap(s.Matrix()), nil
	})

	same := func(f func(a, b imath.Shear6[T]) imath.Shear6[T]) rule[imath.Shear6[T]] {
		return with(t.Accept, wrapped(t, f))
	}
	scale := with(acceptScalar[T], wrapped(t, func(s imath.Shear6[T], k T) imath.Shear6[T] { return s.Scale(k) }))
	t.arith(host.OpAdd, same(func(a, b imath.Shear6[T]) imath.Shear6[T] { return a.Add(b) }))
	t.arith(host.OpSub, same(func(a, b imath.Shear6[T]) imath.Shear6[T] { return a.Sub(b) }))
	t.arith(host.OpMul, scale)
	t.reflected(host.OpMul, scale)
	t.arith(host.OpDiv, with(acceptScalar[T], wrapped(t, func(s imath.Shear6[T], k T) imath.Shear6[T] { return s.Scale(1 / k) })))
	t.unary(host.OpNeg, func(s imath.Shear6[T]) (host.Value, error) { return t.Wrap(s.Neg()), nil })

	equality(t)
	return t
}
