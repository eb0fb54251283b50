package octree

import "github.com/go-gl/mathgl/mgl32"

// numObjectsAllowed is the split trigger: a leaf holding at least this many
// items is split into eight children the next time it would grow further.
const numObjectsAllowed = 8

type boundsItem struct {
	payload interface{}
	bounds  AABB
}

// boundsNode is a node of the BoundsIndex tree. It is either a leaf holding
// items directly, or an internal node with exactly eight children - but an
// internal node may still hold items that straddle more than one child.
type boundsNode struct {
	center    mgl32.Vec3
	baseSide  float32
	looseness float32
	minSide   float32

	bounds AABB // effective cell: baseSide*looseness centered at center

	children *[8]*boundsNode
	items    []boundsItem
}

func newBoundsNode(center mgl32.Vec3, baseSide, looseness, minSide float32) *boundsNode {
	side := baseSide * looseness
	return &boundsNode{
		center:    center,
		baseSide:  baseSide,
		looseness: looseness,
		minSide:   minSide,
		bounds:    NewAABB(center, mgl32.Vec3{side, side, side}),
	}
}

// add inserts item if it fits within this node's effective cell. It
// returns false if the caller must grow the root and retry.
func (n *boundsNode) add(item boundsItem) bool {
	if !n.bounds.ContainsAABB(item.bounds) {
		return false
	}
	n.place(item)
	return true
}

// place inserts item, which is already known to fit within this node's
// effective cell.
func (n *boundsNode) place(item boundsItem) {
	if n.children == nil {
		if len(n.items) < numObjectsAllowed || n.baseSide/2 < n.minSide {
			n.items = append(n.items, item)
			return
		}
		n.split()
	}

	if idx, ok := n.bestFitChild(item.bounds); ok {
		n.children[idx].place(item)
	} else {
		n.items = append(n.items, item)
	}
}

// split subdivides a leaf into eight children and re-homes as many of its
// existing items as possible.
func (n *boundsNode) split() {
	childBaseSide := n.baseSide / 2
	offset := n.baseSide / 4

	var children [8]*boundsNode
	for octant := 0; octant < 8; octant++ {
		childCenter := n.center.Add(octantOffset(octant, offset))
		children[octant] = newBoundsNode(childCenter, childBaseSide, n.looseness, n.minSide)
	}
	n.children = &children

	oldItems := n.items
	n.items = nil
	for _, it := range oldItems {
		if idx, ok := n.bestFitChild(it.bounds); ok {
			n.children[idx].place(it)
		} else {
			n.items = append(n.items, it)
		}
	}
}

// bestFitChild returns the unique child whose effective cell fully
// contains box. If zero or more than one child qualifies, ok is false.
func (n *boundsNode) bestFitChild(box AABB) (idx int, ok bool) {
	if n.children == nil {
		return 0, false
	}
	found := -1
	for i, c := range n.children {
		if c.bounds.ContainsAABB(box) {
			if found != -1 {
				return 0, false
			}
			found = i
		}
	}
	if found == -1 {
		return 0, false
	}
	return found, true
}

// tryMerge collapses this node's children back into itself if the total
// item count across itself and its (leaf-only) children is small enough.
func (n *boundsNode) tryMerge() {
	if n.children == nil {
		return
	}
	total := len(n.items)
	for _, c := range n.children {
		if c.children != nil {
			return
		}
		total += len(c.items)
	}
	if total > numObjectsAllowed {
		return
	}

	merged := make([]boundsItem, 0, total)
	merged = append(merged, n.items...)
	for _, c := range n.children {
		merged = append(merged, c.items...)
	}
	n.items = merged
	n.children = nil
}

// remove performs a full scan, searching every node's items for a matching
// payload.
func (n *boundsNode) remove(payload interface{}) bool {
	for i, it := range n.items {
		if it.payload == payload {
			n.items = append(n.items[:i], n.items[i+1:]...)
			return true
		}
	}
	if n.children == nil {
		return false
	}
	for _, c := range n.children {
		if c.remove(payload) {
			n.tryMerge()
			return true
		}
	}
	return false
}

// removeAt descends only into the unique child containing anchor.
func (n *boundsNode) removeAt(payload interface{}, anchor AABB) bool {
	for i, it := range n.items {
		if it.payload == payload {
			n.items = append(n.items[:i], n.items[i+1:]...)
			return true
		}
	}
	if n.children == nil {
		return false
	}
	idx, ok := n.bestFitChild(anchor)
	if !ok {
		return false
	}
	if n.children[idx].removeAt(payload, anchor) {
		n.tryMerge()
		return true
	}
	return false
}

func (n *boundsNode) isColliding(query AABB) bool {
	if !n.bounds.Intersects(query) {
		return false
	}
	for _, it := range n.items {
		if it.bounds.Intersects(query) {
			return true
		}
	}
	if n.children != nil {
		for _, c := range n.children {
			if c.isColliding(query) {
				return true
			}
		}
	}
	return false
}

func (n *boundsNode) collectColliding(query AABB, out *[]interface{}) {
	if !n.bounds.Intersects(query) {
		return
	}
	for _, it := range n.items {
		if it.bounds.Intersects(query) {
			*out = append(*out, it.payload)
		}
	}
	if n.children != nil {
		for _, c := range n.children {
			c.collectColliding(query, out)
		}
	}
}

func (n *boundsNode) isCollidingRay(ray Ray, maxDistance float32) bool {
	t, hit := n.bounds.IntersectRay(ray)
	if !hit || t > maxDistance {
		return false
	}
	for _, it := range n.items {
		if t2, hit2 := it.bounds.IntersectRay(ray); hit2 && t2 <= maxDistance {
			return true
		}
	}
	if n.children != nil {
		for _, c := range n.children {
			if c.isCollidingRay(ray, maxDistance) {
				return true
			}
		}
	}
	return false
}

func (n *boundsNode) collectCollidingRay(ray Ray, maxDistance float32, out *[]interface{}) {
	t, hit := n.bounds.IntersectRay(ray)
	if !hit || t > maxDistance {
		return
	}
	for _, it := range n.items {
		if t2, hit2 := it.bounds.IntersectRay(ray); hit2 && t2 <= maxDistance {
			*out = append(*out, it.payload)
		}
	}
	if n.children != nil {
		for _, c := range n.children {
			c.collectCollidingRay(ray, maxDistance, out)
		}
	}
}

// subtreeHasItems reports whether n or any of its descendants hold an item.
// Used by the bounds tree's grow policy, which skips attaching fresh
// sibling leaves when the former root was empty.
func subtreeHasItems(n *boundsNode) bool {
	if len(n.items) > 0 {
		return true
	}
	if n.children == nil {
		return false
	}
	for _, c := range n.children {
		if subtreeHasItems(c) {
			return true
		}
	}
	return false
}

// subtreeBoundsContained reports whether every item reachable from n is
// contained in cell.
func subtreeBoundsContained(n *boundsNode, cell AABB) bool {
	for _, it := range n.items {
		if !cell.ContainsAABB(it.bounds) {
			return false
		}
	}
	if n.children != nil {
		for _, c := range n.children {
			if !subtreeBoundsContained(c, cell) {
				return false
			}
		}
	}
	return true
}

func collectBoundsChildBounds(n *boundsNode, out *[]AABB) {
	if n.children != nil {
		for _, c := range n.children {
			collectBoundsChildBounds(c, out)
		}
		return
	}
	*out = append(*out, n.bounds)
}

func iterateBoundsItems(n *boundsNode, fn func(interface{}) bool) bool {
	for _, it := range n.items {
		if fn(it.payload) {
			return true
		}
	}
	if n.children != nil {
		for _, c := range n.children {
			if iterateBoundsItems(c, fn) {
				return true
			}
		}
	}
	return false
}
