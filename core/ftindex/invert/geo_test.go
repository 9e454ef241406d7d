package invert

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGeoIndexAddBucketsByCell(t *testing.T) {
	geo := NewGeoIndex(100)
	geo.Add(1, -122.4194, 37.7749)
	geo.Add(2, -122.42, 37.77)
	geo.Add(3, 139.6917, 35.6895)

	assert.Equal(t, 2, geo.CellCount())
}

func TestGeoForestGetOrCreate(t *testing.T) {
	forest := NewGeoForest()
	a := forest.GetOrCreate("loc", 100)
	b := forest.GetOrCreate("loc", 100)
	assert.Same(t, a, b)
}
