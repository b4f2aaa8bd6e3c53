package imath

import "math"

// Color3 is an RGB colour. It shares the vector representation, so colours
// take part in every vector operation.
type Color3[T Scalar] = Vec3[T]

// Color4 is an RGBA colour.
type Color4[T Scalar] = Vec4[T]

// colorScale maps a component to the unit range: integer kinds are scaled by
// their maximum value, floating kinds are taken as they are.
func colorScale[T Scalar]() float64 {
	if IsIntegral[T]() {
		return float64(MaxValue[T]())
	}
	return 1
}

// HSVToRGB converts a hue, saturation, value triple to RGB.
func HSVToRGB[T Scalar](hsv Vec3[T]) Vec3[T] {
	s := colorScale[T]()
	r, g, b := hsvToRGB(float64(hsv.X)/s, float64(hsv.Y)/s, float64(hsv.Z)/s)
	return Vec3[T]{T(r * s), T(g * s), T(b * s)}
}

// RGBToHSV converts an RGB colour to hue, saturation, value.
func RGBToHSV[T Scalar](rgb Vec3[T]) Vec3[T] {
	s := colorScale[T]()
	h, sat, v := rgbToHSV(float64(rgb.X)/s, float64(rgb.Y)/s, float64(rgb.Z)/s)
	return Vec3[T]{T(h * s), T(sat * s), T(v * s)}
}

// HSVToRGB4 converts the colour part of c and keeps alpha.
func HSVToRGB4[T Scalar](c Vec4[T]) Vec4[T] {
	rgb := HSVToRGB(Vec3[T]{c.X, c.Y, c.Z})
	return Vec4[T]{rgb.X, rgb.Y, rgb.Z, c.W}
}

// RGBToHSV4 converts the colour part of c and keeps alpha.
func RGBToHSV4[T Scalar](c Vec4[T]) Vec4[T] {
	hsv := RGBToHSV(Vec3[T]{c.X, c.Y, c.Z})
	return Vec4[T]{hsv.X, hsv.Y, hsv.Z, c.W}
}

func hsvToRGB(hue, sat, val float64) (x, y, z float64) {
	if hue == 1 {
		hue = 0
	} else {
		hue *= 6
	}
	i := int(math.Floor(hue))
	f := hue - float64(i)
	p := val * (1 - sat)
	q := val * (1 - sat*f)
	t := val * (1 - sat*(1-f))

	switch i {
	case 0:
		return val, t, p
	case 1:
		return q, val, p
	case 2:
		return p, val, t
	case 3:
		return p, q, val
	case 4:
		return t, p, val
	case 5:
		return val, p, q
	}
	return 0, 0, 0
}

func rgbToHSV(x, y, z float64) (hue, sat, val float64) {
	hi := max(x, y, z)
	lo := min(x, y, z)
	rng := hi - lo
	val = hi
	if hi != 0 {
		sat = rng / hi
	}
	if sat != 0 {
		var h float64
		switch {
		case x == hi:
			h = (y - z) / rng
		case y == hi:
			h = 2 + (z-x)/rng
		default:
			h = 4 + (x-y)/rng
		}
		hue = h / 6
		if hue < 0 {
			hue++
		}
	}
	return hue, sat, val
}
