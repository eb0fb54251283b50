package octree

import (
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func buildPointIndex(t *testing.T) *PointIndex {
	t.Helper()
	idx, err := NewPointIndex(50, mgl32.Vec3{0, 0, 0}, 1)
	require.NoError(t, err)
	for i := 1; i <= 99; i++ {
		idx.Add(i, mgl32.Vec3{float32(i), float32(i), float32(i)})
	}
	return idx
}

func TestPointIndexGetNearbyExactPoint(t *testing.T) {
	idx := buildPointIndex(t)

	for i := 1; i <= 99; i++ {
		got := idx.GetNearby(mgl32.Vec3{float32(i), float32(i), float32(i)}, 0)
		assert.Len(t, got, 1)
	}

	got := idx.GetNearby(mgl32.Vec3{100, 100, 100}, 0)
	assert.Len(t, got, 0)
}

func TestPointIndexGetNearbyMissesBetweenPoints(t *testing.T) {
	idx := buildPointIndex(t)
	got := idx.GetNearby(mgl32.Vec3{0.5, 0.5, 0.5}, 0.2)
	assert.Len(t, got, 0)
}

func TestPointIndexGetNearbyRadius(t *testing.T) {
	idx := buildPointIndex(t)

	got := idx.GetNearby(mgl32.Vec3{50, 50, 50}, 100)
	assert.Len(t, got, 99)

	got = idx.GetNearby(mgl32.Vec3{50, 50, 50}, 10)
	assert.Len(t, got, 11)
}

func TestPointIndexGetNearbyRayOnDiagonal(t *testing.T) {
	idx := buildPointIndex(t)

	ray := NewRay(mgl32.Vec3{0, 0, 0}, mgl32.Vec3{1, 1, 1})
	got := idx.GetNearbyRay(ray, 0)
	assert.Len(t, got, 99)
}

func TestPointIndexGetNearbyRayMisses(t *testing.T) {
	idx := buildPointIndex(t)

	ray := NewRay(mgl32.Vec3{0, 0, 0}, mgl32.Vec3{1, 0, 0})
	got := idx.GetNearbyRay(ray, 0)
	assert.Len(t, got, 0)
}

func TestPointIndexGetNearbyRaySingleHit(t *testing.T) {
	idx := buildPointIndex(t)

	ray := NewRay(mgl32.Vec3{100, 0, 0}, mgl32.Vec3{-1, 1, 1})
	got := idx.GetNearbyRay(ray, 0)
	assert.Len(t, got, 1)
}

func TestPointIndexGetNearbyRayNonZeroRadiusNearBoundary(t *testing.T) {
	idx, err := NewPointIndex(10, mgl32.Vec3{5, 5, 5}, 1)
	require.NoError(t, err)
	idx.Add("item", mgl32.Vec3{0.5, 5, 5})

	// Ray passes outside the root cell's un-inflated face but within
	// radius of the item once every face is pushed out by the full radius.
	ray := NewRay(mgl32.Vec3{-2, 5, 5}, mgl32.Vec3{0, 1, 0})
	got := idx.GetNearbyRay(ray, 3)
	assert.Len(t, got, 1)
	assert.Equal(t, "item", got[0])
}

func TestPointIndexIterateItemsStopsEarly(t *testing.T) {
	idx := buildPointIndex(t)

	visited := 0
	idx.IterateItems(func(payload interface{}) bool {
		visited++
		return true
	})
	assert.Equal(t, 1, visited)
}

func TestPointIndexAllReturnsEveryPayload(t *testing.T) {
	idx := buildPointIndex(t)

	all := idx.All()
	assert.Len(t, all, 99)

	seen := make(map[int]bool, 99)
	for _, p := range all {
		seen[p.(int)] = true
	}
	for i := 1; i <= 99; i++ {
		assert.True(t, seen[i], "missing payload %d", i)
	}
}

func TestPointIndexRoundTripRemoval(t *testing.T) {
	idx := buildPointIndex(t)
	assert.Equal(t, 99, idx.Count())

	for i := 1; i <= 99; i++ {
		assert.True(t, idx.Remove(i))
	}

	assert.Equal(t, 0, idx.Count())
	assert.True(t, approxEqualV3(mgl32.Vec3{0, 0, 0}, idx.MaxBounds().Center()))
}

func TestPointIndexConstructionRejectsNonPositiveSizes(t *testing.T) {
	_, err := NewPointIndex(0, mgl32.Vec3{}, 1)
	assert.ErrorIs(t, err, ErrInvalidConfiguration)

	_, err = NewPointIndex(10, mgl32.Vec3{}, 0)
	assert.ErrorIs(t, err, ErrInvalidConfiguration)
}

func TestPointIndexMinNodeSizeClampedWhenTooLarge(t *testing.T) {
	logger := &recordingLogger{}
	idx, err := NewPointIndex(10, mgl32.Vec3{}, 50, WithPointLogger(logger))
	require.NoError(t, err)
	assert.Equal(t, float32(10), idx.minNodeSize)
	assert.NotEmpty(t, logger.warnings)
}
