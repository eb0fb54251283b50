package octree

import "github.com/go-gl/mathgl/mgl32"

// Octant numbering: bit 0 selects +X(1)/-X(0), bit 1 selects +Z(1)/-Z(0),
// bit 2 selects -Y(1)/+Y(0).
func octantOffset(octant int, offset float32) mgl32.Vec3 {
	x := -offset
	if octant&1 != 0 {
		x = offset
	}
	z := -offset
	if octant&2 != 0 {
		z = offset
	}
	y := offset
	if octant&4 != 0 {
		y = -offset
	}
	return mgl32.Vec3{x, y, z}
}

func minF32(a, b float32) float32 {
	if a < b {
		return a
	}
	return b
}

func maxF32(a, b float32) float32 {
	if a > b {
		return a
	}
	return b
}

func clampF32(v, lo, hi float32) float32 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func minV3(a, b mgl32.Vec3) mgl32.Vec3 {
	return mgl32.Vec3{minF32(a[0], b[0]), minF32(a[1], b[1]), minF32(a[2], b[2])}
}

func maxV3(a, b mgl32.Vec3) mgl32.Vec3 {
	return mgl32.Vec3{maxF32(a[0], b[0]), maxF32(a[1], b[1]), maxF32(a[2], b[2])}
}

// signV3 returns the componentwise sign of v, with zero mapping to +1.
func signV3(v mgl32.Vec3) mgl32.Vec3 {
	return mgl32.Vec3{signF32(v[0]), signF32(v[1]), signF32(v[2])}
}

func signF32(v float32) float32 {
	if v < 0 {
		return -1
	}
	return 1
}

const equalityEpsilonSq = 1e-10

// approxEqualV3 reports whether a and b are equal within the tree's numeric
// tolerance (squared distance below 1e-10).
func approxEqualV3(a, b mgl32.Vec3) bool {
	d := a.Sub(b)
	return d.Dot(d) < equalityEpsilonSq
}
