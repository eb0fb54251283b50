package octree

import "errors"

// ErrInvalidConfiguration is returned from NewBoundsIndex/NewPointIndex when
// the constructor parameters cannot describe a usable tree (non-positive
// initial size or minimum node size).
var ErrInvalidConfiguration = errors.New("octree: invalid configuration")
