package octree

import "github.com/go-gl/mathgl/mgl32"

type pointItem struct {
	payload  interface{}
	position mgl32.Vec3
}

// pointNode is a node of the PointIndex tree. It mirrors boundsNode but
// carries no looseness: its effective cell equals baseSide centered at
// center.
type pointNode struct {
	center   mgl32.Vec3
	baseSide float32
	minSide  float32

	cell AABB // effective cell: baseSide centered at center

	children *[8]*pointNode
	items    []pointItem
}

func newPointNode(center mgl32.Vec3, baseSide, minSide float32) *pointNode {
	return &pointNode{
		center:   center,
		baseSide: baseSide,
		minSide:  minSide,
		cell:     NewAABB(center, mgl32.Vec3{baseSide, baseSide, baseSide}),
	}
}

func (n *pointNode) add(item pointItem) bool {
	if !n.cell.Contains(item.position) {
		return false
	}
	n.place(item)
	return true
}

func (n *pointNode) place(item pointItem) {
	if n.children == nil {
		if len(n.items) < numObjectsAllowed || n.baseSide/2 < n.minSide {
			n.items = append(n.items, item)
			return
		}
		n.split()
	}

	if idx, ok := n.bestFitChild(item.position); ok {
		n.children[idx].place(item)
	} else {
		n.items = append(n.items, item)
	}
}

func (n *pointNode) split() {
	childBaseSide := n.baseSide / 2
	offset := n.baseSide / 4

	var children [8]*pointNode
	for octant := 0; octant < 8; octant++ {
		childCenter := n.center.Add(octantOffset(octant, offset))
		children[octant] = newPointNode(childCenter, childBaseSide, n.minSide)
	}
	n.children = &children

	oldItems := n.items
	n.items = nil
	for _, it := range oldItems {
		if idx, ok := n.bestFitChild(it.position); ok {
			n.children[idx].place(it)
		} else {
			n.items = append(n.items, it)
		}
	}
}

func (n *pointNode) bestFitChild(p mgl32.Vec3) (idx int, ok bool) {
	if n.children == nil {
		return 0, false
	}
	found := -1
	for i, c := range n.children {
		if c.cell.Contains(p) {
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

func (n *pointNode) tryMerge() {
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

	merged := make([]pointItem, 0, total)
	merged = append(merged, n.items...)
	for _, c := range n.children {
		merged = append(merged, c.items...)
	}
	n.items = merged
	n.children = nil
}

func (n *pointNode) remove(payload interface{}) bool {
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

func (n *pointNode) removeAt(payload interface{}, anchor mgl32.Vec3) bool {
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

func (n *pointNode) collectNearby(center mgl32.Vec3, radius float32, out *[]interface{}) {
	side := radius * 2
	queryBox := NewAABB(center, mgl32.Vec3{side, side, side})
	if !n.cell.Intersects(queryBox) {
		return
	}
	for _, it := range n.items {
		if it.position.Sub(center).Len() <= radius {
			*out = append(*out, it.payload)
		}
	}
	if n.children != nil {
		for _, c := range n.children {
			c.collectNearby(center, radius, out)
		}
	}
}

func (n *pointNode) collectNearbyRay(ray Ray, radius float32, out *[]interface{}) {
	expanded := n.cell
	expanded.Expand(radius * 2) // push every face out by radius, not radius/2
	if _, hit := expanded.IntersectRay(ray); !hit {
		return
	}
	for _, it := range n.items {
		if distancePointToRay(it.position, ray) <= radius {
			*out = append(*out, it.payload)
		}
	}
	if n.children != nil {
		for _, c := range n.children {
			c.collectNearbyRay(ray, radius, out)
		}
	}
}

func subtreePointsContained(n *pointNode, cell AABB) bool {
	for _, it := range n.items {
		if !cell.Contains(it.position) {
			return false
		}
	}
	if n.children != nil {
		for _, c := range n.children {
			if !subtreePointsContained(c, cell) {
				return false
			}
		}
	}
	return true
}

func collectPointChildBounds(n *pointNode, out *[]AABB) {
	if n.children != nil {
		for _, c := range n.children {
			collectPointChildBounds(c, out)
		}
		return
	}
	*out = append(*out, n.cell)
}

func iteratePointItems(n *pointNode, fn func(interface{}) bool) bool {
	for _, it := range n.items {
		if fn(it.payload) {
			return true
		}
	}
	if n.children != nil {
		for _, c := range n.children {
			if iteratePointItems(c, fn) {
				return true
			}
		}
	}
	return false
}
