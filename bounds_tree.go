package octree

import (
	"fmt"

	"github.com/go-gl/mathgl/mgl32"
)

// maxGrowAttempts bounds the number of times Add will double the root
// before giving up and dropping the item.
const maxGrowAttempts = 20

// BoundsOption configures a BoundsIndex at construction time.
type BoundsOption func(*boundsOptions)

type boundsOptions struct {
	looseness float32
	logger    Logger
}

// WithLooseness sets the tree's looseness factor, clamped to [1, 2].
func WithLooseness(looseness float32) BoundsOption {
	return func(o *boundsOptions) { o.looseness = looseness }
}

// WithBoundsLogger injects a log collaborator for construction warnings and
// add-overflow errors.
func WithBoundsLogger(l Logger) BoundsOption {
	return func(o *boundsOptions) { o.logger = l }
}

// BoundsIndex is a dynamic loose octree indexing payloads by an AABB.
type BoundsIndex struct {
	root        *boundsNode
	initialSize float32
	minNodeSize float32
	looseness   float32
	logger      Logger
	count       int
}

// NewBoundsIndex constructs a BoundsIndex with the given initial root side,
// center, and minimum cell size. minNodeSize greater than initialSize is
// clamped down to initialSize with a logged warning, per the tree's error
// handling policy.
func NewBoundsIndex(initialSize float32, initialCenter mgl32.Vec3, minNodeSize float32, opts ...BoundsOption) (*BoundsIndex, error) {
	if initialSize <= 0 {
		return nil, fmt.Errorf("%w: initial size must be positive, got %f", ErrInvalidConfiguration, initialSize)
	}
	if minNodeSize <= 0 {
		return nil, fmt.Errorf("%w: min node size must be positive, got %f", ErrInvalidConfiguration, minNodeSize)
	}

	o := boundsOptions{looseness: 1.0, logger: nopLogger{}}
	for _, opt := range opts {
		opt(&o)
	}
	if o.logger == nil {
		o.logger = nopLogger{}
	}
	looseness := clampF32(o.looseness, 1.0, 2.0)

	if minNodeSize > initialSize {
		o.logger.Warnf("octree: min node size %f exceeds initial size %f, clamping", minNodeSize, initialSize)
		minNodeSize = initialSize
	}

	idx := &BoundsIndex{
		initialSize: initialSize,
		minNodeSize: minNodeSize,
		looseness:   looseness,
		logger:      o.logger,
	}
	idx.root = newBoundsNode(initialCenter, initialSize, looseness, minNodeSize)
	return idx, nil
}

// Add inserts payload tagged by bounds, growing the root as needed. If the
// item still does not fit after maxGrowAttempts doublings, it is logged and
// silently dropped - Count is not incremented.
func (idx *BoundsIndex) Add(payload interface{}, bounds AABB) {
	item := boundsItem{payload: payload, bounds: bounds}
	for attempt := 0; attempt < maxGrowAttempts; attempt++ {
		if idx.root.add(item) {
			idx.count++
			return
		}
		idx.grow(bounds.Center())
	}
	idx.logger.Errorf("octree: failed to place item after %d grow attempts, dropping", maxGrowAttempts)
}

// grow doubles the root toward the anchor. The former root becomes the new
// root's child in the octant it occupies, on the side away from the anchor.
func (idx *BoundsIndex) grow(anchor mgl32.Vec3) {
	oldRoot := idx.root
	dir := signV3(anchor.Sub(oldRoot.center))

	newBaseSide := oldRoot.baseSide * 2
	newCenter := oldRoot.center.Add(dir.Mul(oldRoot.baseSide / 2))

	// The former root lies at -dir from the new center.
	octantIndex := 0
	if dir[0] < 0 {
		octantIndex |= 1
	}
	if dir[2] < 0 {
		octantIndex |= 2
	}
	if dir[1] > 0 {
		octantIndex |= 4
	}

	newRoot := newBoundsNode(newCenter, newBaseSide, idx.looseness, idx.minNodeSize)

	if subtreeHasItems(oldRoot) {
		childBaseSide := oldRoot.baseSide
		offset := newBaseSide / 4

		var children [8]*boundsNode
		for octant := 0; octant < 8; octant++ {
			if octant == octantIndex {
				children[octant] = oldRoot
				continue
			}
			childCenter := newCenter.Add(octantOffset(octant, offset))
			children[octant] = newBoundsNode(childCenter, childBaseSide, idx.looseness, idx.minNodeSize)
		}
		newRoot.children = &children
	}

	idx.root = newRoot
}

// Remove deletes payload via a full scan of the tree. It returns false if
// payload was not found.
func (idx *BoundsIndex) Remove(payload interface{}) bool {
	if !idx.root.remove(payload) {
		return false
	}
	idx.count--
	idx.shrinkIfPossible()
	return true
}

// RemoveAt deletes payload, descending only into the unique child whose
// effective cell fully contains bounds. It returns false if payload was not
// found.
func (idx *BoundsIndex) RemoveAt(payload interface{}, bounds AABB) bool {
	if !idx.root.removeAt(payload, bounds) {
		return false
	}
	idx.count--
	idx.shrinkIfPossible()
	return true
}

// shrinkIfPossible replaces the root by the unique child containing every
// remaining item, repeating until no further shrink applies.
func (idx *BoundsIndex) shrinkIfPossible() {
	for {
		if idx.root.baseSide/2 < idx.initialSize {
			return
		}
		if idx.root.children == nil {
			return
		}
		if len(idx.root.items) > 0 {
			return
		}

		found := -1
		for i, c := range idx.root.children {
			if subtreeBoundsContained(idx.root, c.bounds) {
				if found != -1 {
					return
				}
				found = i
			}
		}
		if found == -1 {
			return
		}
		// An item on a shared face may sit in a sibling's subtree even
		// though the chosen child's cell contains it.
		for i, c := range idx.root.children {
			if i != found && subtreeHasItems(c) {
				return
			}
		}
		idx.root = idx.root.children[found]
	}
}

// Count returns the number of items currently stored.
func (idx *BoundsIndex) Count() int { return idx.count }

// MaxBounds returns the root's effective cell.
func (idx *BoundsIndex) MaxBounds() AABB { return idx.root.bounds }

// GetChildBounds returns the effective cell of every leaf node, depth-first.
// Internal nodes are not listed.
func (idx *BoundsIndex) GetChildBounds() []AABB {
	var out []AABB
	collectBoundsChildBounds(idx.root, &out)
	return out
}

// IsColliding reports whether any stored item intersects query.
func (idx *BoundsIndex) IsColliding(query AABB) bool {
	return idx.root.isColliding(query)
}

// GetColliding returns the payloads of every stored item intersecting
// query. Order is unspecified.
func (idx *BoundsIndex) GetColliding(query AABB) []interface{} {
	var out []interface{}
	idx.root.collectColliding(query, &out)
	return out
}

// IsCollidingRay reports whether any stored item intersects ray within
// maxDistance.
func (idx *BoundsIndex) IsCollidingRay(ray Ray, maxDistance float32) bool {
	return idx.root.isCollidingRay(ray, maxDistance)
}

// GetCollidingRay returns the payloads of every stored item intersecting
// ray within maxDistance. Order is unspecified.
func (idx *BoundsIndex) GetCollidingRay(ray Ray, maxDistance float32) []interface{} {
	var out []interface{}
	idx.root.collectCollidingRay(ray, maxDistance, &out)
	return out
}

// IterateItems calls fn for every stored payload until it returns true.
// Iteration order is unspecified.
func (idx *BoundsIndex) IterateItems(fn func(payload interface{}) bool) {
	iterateBoundsItems(idx.root, fn)
}

// All returns every stored payload. Order is unspecified.
func (idx *BoundsIndex) All() []interface{} {
	var out []interface{}
	idx.IterateItems(func(p interface{}) bool {
		out = append(out, p)
		return false
	})
	return out
}
