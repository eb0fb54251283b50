package octree

import (
	"math"

	"github.com/go-gl/mathgl/mgl32"
)

// AABB is an axis-aligned bounding box described by its center and size.
// All containment and intersection tests are inclusive: a box touching
// another box or a ray tangent to a face counts as a hit.
type AABB struct {
	center mgl32.Vec3
	size   mgl32.Vec3
}

// NewAABB builds an AABB from a center and a (non-negative) size.
func NewAABB(center, size mgl32.Vec3) AABB {
	return AABB{center: center, size: size}
}

func (b AABB) Center() mgl32.Vec3 { return b.center }
func (b AABB) Size() mgl32.Vec3   { return b.size }
func (b AABB) Extents() mgl32.Vec3 {
	return b.size.Mul(0.5)
}

func (b AABB) Min() mgl32.Vec3 {
	return b.center.Sub(b.Extents())
}

func (b AABB) Max() mgl32.Vec3 {
	return b.center.Add(b.Extents())
}

// Contains reports whether p lies within the box, inclusive of its faces.
func (b AABB) Contains(p mgl32.Vec3) bool {
	min, max := b.Min(), b.Max()
	return p[0] >= min[0] && p[0] <= max[0] &&
		p[1] >= min[1] && p[1] <= max[1] &&
		p[2] >= min[2] && p[2] <= max[2]
}

// ContainsAABB reports whether other is fully contained within b, inclusive.
func (b AABB) ContainsAABB(other AABB) bool {
	omin, omax := other.Min(), other.Max()
	return b.Contains(omin) && b.Contains(omax)
}

// Intersects reports whether b and other overlap on every axis. Boxes that
// only touch along a face are considered to intersect.
func (b AABB) Intersects(other AABB) bool {
	amin, amax := b.Min(), b.Max()
	bmin, bmax := other.Min(), other.Max()
	return amin[0] <= bmax[0] && amax[0] >= bmin[0] &&
		amin[1] <= bmax[1] && amax[1] >= bmin[1] &&
		amin[2] <= bmax[2] && amax[2] >= bmin[2]
}

// Encapsulate grows the box's min/max so that it also contains p.
func (b *AABB) Encapsulate(p mgl32.Vec3) {
	b.SetMinMax(minV3(b.Min(), p), maxV3(b.Max(), p))
}

// Expand grows the box's size uniformly by amount on every axis.
func (b *AABB) Expand(amount float32) {
	b.size = b.size.Add(mgl32.Vec3{amount, amount, amount})
}

// SetMinMax rebuilds the box from explicit min/max corners.
func (b *AABB) SetMinMax(min, max mgl32.Vec3) {
	b.size = max.Sub(min)
	b.center = min.Add(b.size.Mul(0.5))
}

// IntersectRay runs the slab test against the box. It returns the entry
// distance along the ray and whether a hit occurred; a ray tangent to a
// face counts as a hit.
func (b AABB) IntersectRay(ray Ray) (float32, bool) {
	min, max := b.Min(), b.Max()
	origin, dir := ray.Origin(), ray.Direction()

	tMin := float32(math.Inf(-1))
	tMax := float32(math.Inf(1))

	for axis := 0; axis < 3; axis++ {
		if dir[axis] == 0 {
			if origin[axis] < min[axis] || origin[axis] > max[axis] {
				return 0, false
			}
			continue
		}
		invD := 1 / dir[axis]
		t1 := (min[axis] - origin[axis]) * invD
		t2 := (max[axis] - origin[axis]) * invD
		if t1 > t2 {
			t1, t2 = t2, t1
		}
		tMin = maxF32(tMin, t1)
		tMax = minF32(tMax, t2)
	}

	if tMin > tMax || tMax < 0 {
		return 0, false
	}
	return tMin, true
}
