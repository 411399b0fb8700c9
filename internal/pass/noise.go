package pass

import "math"

// The grain field is evaluated in float64 so that the sine hash, whose
// argument reaches ~1e5, stays stable and identical on every platform.

func fract(x float64) float64 {
	return x - math.Floor(x)
}

// hash3 maps a lattice point and a seed to [0, 1).
func hash3(x, y, z, seed float64) float64 {
	return fract(math.Sin(x*127.1+y*311.7+z*74.7)*43758.5453 + seed)
}

// valueNoise is trilinear value noise over the hash3 lattice with
// Hermite smoothing of the cell coordinates.
func valueNoise(x, y, z, seed float64) float64 {
	ix, iy, iz := math.Floor(x), math.Floor(y), math.Floor(z)
	fx, fy, fz := hermite(x-ix), hermite(y-iy), hermite(z-iz)

	n000 := hash3(ix, iy, iz, seed)
	n100 := hash3(ix+1, iy, iz, seed)
	n010 := hash3(ix, iy+1, iz, seed)
	n110 := hash3(ix+1, iy+1, iz, seed)
	n001 := hash3(ix, iy, iz+1, seed)
	n101 := hash3(ix+1, iy, iz+1, seed)
	n011 := hash3(ix, iy+1, iz+1, seed)
	n111 := hash3(ix+1, iy+1, iz+1, seed)

	return lerp(
		lerp(lerp(n000, n100, fx), lerp(n010, n110, fx), fy),
		lerp(lerp(n001, n101, fx), lerp(n011, n111, fx), fy),
		fz,
	)
}

func hermite(t float64) float64 {
	return t * t * (3 - 2*t)
}

func lerp(a, b, t float64) float64 {
	return a*(1-t) + b*t
}

func smoothstep64(e0, e1, x float64) float64 {
	t := math.Max(0, math.Min(1, (x-e0)/(e1-e0)))
	return t * t * (3 - 2*t)
}
