package octree

import "github.com/go-gl/mathgl/mgl32"

// normalizeDirectionEpsilon is the magnitude below which a direction vector
// is treated as degenerate and collapsed to zero, per the documented fix to
// the reference library's normalization accessor (which returned a copy
// without normalizing it).
const normalizeDirectionEpsilon = 1e-5

// Ray is a 3-D ray with a pre-normalized direction. The direction is
// re-normalized every time it is set; a zero-length direction degenerates
// to the zero vector.
type Ray struct {
	origin    mgl32.Vec3
	direction mgl32.Vec3
}

// NewRay builds a ray, normalizing direction immediately.
func NewRay(origin, direction mgl32.Vec3) Ray {
	return Ray{origin: origin, direction: normalizeOrZero(direction)}
}

func (r Ray) Origin() mgl32.Vec3 { return r.origin }

func (r Ray) Direction() mgl32.Vec3 { return r.direction }

// SetDirection re-normalizes and replaces the ray's direction.
func (r *Ray) SetDirection(direction mgl32.Vec3) {
	r.direction = normalizeOrZero(direction)
}

// SetOrigin replaces the ray's origin.
func (r *Ray) SetOrigin(origin mgl32.Vec3) {
	r.origin = origin
}

// PointAt evaluates the ray at parameter t.
func (r Ray) PointAt(t float32) mgl32.Vec3 {
	return r.origin.Add(r.direction.Mul(t))
}

func normalizeOrZero(v mgl32.Vec3) mgl32.Vec3 {
	if v.Len() < normalizeDirectionEpsilon {
		return mgl32.Vec3{}
	}
	return v.Normalize()
}

// distancePointToRay computes the shortest distance from p to the ray,
// clamped to the ray's forward half-line (t >= 0).
func distancePointToRay(p mgl32.Vec3, ray Ray) float32 {
	v := p.Sub(ray.origin)
	t := v.Dot(ray.direction)
	if t < 0 {
		return v.Len()
	}
	// |direction x v| equals |v - direction*t| for a unit direction, and is
	// exactly zero for points on the ray's line.
	return ray.direction.Cross(v).Len()
}
