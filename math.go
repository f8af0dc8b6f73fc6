package gcprop

import "math"

// norm3 returns the Euclidean norm of a 3-vector.
func norm3(v [3]float64) float64 {
	return math.Sqrt(v[0]*v[0] + v[1]*v[1] + v[2]*v[2])
}

// dot3 returns the inner product of two 3-vectors.
func dot3(a, b [3]float64) float64 {
	return a[0]*b[0] + a[1]*b[1] + a[2]*b[2]
}

// cross3 returns the cross product of two 3-vectors.
func cross3(a, b [3]float64) [3]float64 {
	return [3]float64{
		a[1]*b[2] - a[2]*b[1],
		a[2]*b[0] - a[0]*b[2],
		a[0]*b[1] - a[1]*b[0],
	}
}

// wrapTheta wraps an angle into [0, 2π). The raw modulo of a negative angle
// is negative; adding 2π and reducing again also catches the case where the
// addition rounds a tiny negative angle up to exactly 2π.
func wrapTheta(a float64) float64 {
	return math.Mod(math.Mod(a, twoPi)+twoPi, twoPi)
}

// polIncrement returns the four-quadrant angle swept between two consecutive
// positions, measured about the magnetic axis in the poloidal plane. Summing
// these increments keeps a cumulative poloidal angle continuous across the
// 0/2π boundary and across full revolutions, which a naive difference of
// wrapped angles does not.
func polIncrement(r0, z0, r1, z1, axisR, axisZ float64) float64 {
	x0, y0 := r0-axisR, z0-axisZ
	x1, y1 := r1-axisR, z1-axisZ
	return math.Atan2(x0*y1-y0*x1, x0*x1+y0*y1)
}
