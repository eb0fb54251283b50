package octree

import (
	"fmt"

	"github.com/go-gl/mathgl/mgl32"
)

// PointOption configures a PointIndex at construction time.
type PointOption func(*pointOptions)

type pointOptions struct {
	logger Logger
}

// WithPointLogger injects a log collaborator for construction warnings and
// add-overflow errors.
func WithPointLogger(l Logger) PointOption {
	return func(o *pointOptions) { o.logger = l }
}

// PointIndex is a dynamic octree indexing payloads by a single 3-D point.
type PointIndex struct {
	root        *pointNode
	initialSize float32
	minNodeSize float32
	logger      Logger
	count       int
}

// NewPointIndex constructs a PointIndex with the given initial root side,
// center, and minimum cell size.
func NewPointIndex(initialSize float32, initialCenter mgl32.Vec3, minNodeSize float32, opts ...PointOption) (*PointIndex, error) {
	if initialSize <= 0 {
		return nil, fmt.Errorf("%w: initial size must be positive, got %f", ErrInvalidConfiguration, initialSize)
	}
	if minNodeSize <= 0 {
		return nil, fmt.Errorf("%w: min node size must be positive, got %f", ErrInvalidConfiguration, minNodeSize)
	}

	o := pointOptions{logger: nopLogger{}}
	for _, opt := range opts {
		opt(&o)
	}
	if o.logger == nil {
		o.logger = nopLogger{}
	}

	if minNodeSize > initialSize {
		o.logger.Warnf("octree: min node size %f exceeds initial size %f, clamping", minNodeSize, initialSize)
		minNodeSize = initialSize
	}

	idx := &PointIndex{
		initialSize: initialSize,
		minNodeSize: minNodeSize,
		logger:      o.logger,
	}
	idx.root = newPointNode(initialCenter, initialSize, minNodeSize)
	return idx, nil
}

// Add inserts payload at position, growing the root as needed.
func (idx *PointIndex) Add(payload interface{}, position mgl32.Vec3) {
	item := pointItem{payload: payload, position: position}
	for attempt := 0; attempt < maxGrowAttempts; attempt++ {
		if idx.root.add(item) {
			idx.count++
			return
		}
		idx.grow(position)
	}
	idx.logger.Errorf("octree: failed to place item after %d grow attempts, dropping", maxGrowAttempts)
}

// grow doubles the root. Unlike the bounds tree, the point tree always
// attaches all seven fresh sibling leaves, regardless of whether the old
// root held any items.
func (idx *PointIndex) grow(anchor mgl32.Vec3) {
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

	newRoot := newPointNode(newCenter, newBaseSide, idx.minNodeSize)

	childBaseSide := oldRoot.baseSide
	offset := newBaseSide / 4

	var children [8]*pointNode
	for octant := 0; octant < 8; octant++ {
		if octant == octantIndex {
			children[octant] = oldRoot
			continue
		}
		childCenter := newCenter.Add(octantOffset(octant, offset))
		children[octant] = newPointNode(childCenter, childBaseSide, idx.minNodeSize)
	}
	newRoot.children = &children

	idx.root = newRoot
}

// Remove deletes payload via a full scan of the tree.
func (idx *PointIndex) Remove(payload interface{}) bool {
	if !idx.root.remove(payload) {
		return false
	}
	idx.count--
	idx.shrinkIfPossible()
	return true
}

// RemoveAt deletes payload, descending only into the child whose cell
// contains position.
func (idx *PointIndex) RemoveAt(payload interface{}, position mgl32.Vec3) bool {
	if !idx.root.removeAt(payload, position) {
		return false
	}
	idx.count--
	idx.shrinkIfPossible()
	return true
}

func (idx *PointIndex) shrinkIfPossible() {
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
			if subtreePointsContained(idx.root, c.cell) {
				if found != -1 {
					return
				}
				found = i
			}
		}
		if found == -1 {
			return
		}
		// A point on a shared face may sit in a sibling's subtree even
		// though the chosen child's cell contains it.
		for i, c := range idx.root.children {
			if i != found && iteratePointItems(c, func(interface{}) bool { return true }) {
				return
			}
		}
		idx.root = idx.root.children[found]
	}
}

// Count returns the number of items currently stored.
func (idx *PointIndex) Count() int { return idx.count }

// MaxBounds returns the root's effective cell.
func (idx *PointIndex) MaxBounds() AABB { return idx.root.cell }

// GetChildBounds returns the effective cell of every leaf node, depth-first.
// Internal nodes are not listed.
func (idx *PointIndex) GetChildBounds() []AABB {
	var out []AABB
	collectPointChildBounds(idx.root, &out)
	return out
}

// GetNearby returns the payloads of every item within radius of center.
// Order is unspecified.
func (idx *PointIndex) GetNearby(center mgl32.Vec3, radius float32) []interface{} {
	var out []interface{}
	idx.root.collectNearby(center, radius, &out)
	return out
}

// GetNearbyRay returns the payloads of every item within radius of ray.
// Order is unspecified.
func (idx *PointIndex) GetNearbyRay(ray Ray, radius float32) []interface{} {
	var out []interface{}
	idx.root.collectNearbyRay(ray, radius, &out)
	return out
}

// IterateItems calls fn for every stored payload until it returns true.
// Iteration order is unspecified.
func (idx *PointIndex) IterateItems(fn func(payload interface{}) bool) {
	iteratePointItems(idx.root, fn)
}

// All returns every stored payload. Order is unspecified.
func (idx *PointIndex) All() []interface{} {
	var out []interface{}
	idx.IterateItems(func(p interface{}) bool {
		out = append(out, p)
		return false
	})
	return out
}
