package invert

import (
	"math"
	"strconv"
	"strings"
)

// geoStep is the side length, in degrees, of the grid cell a point is
// bucketed into. A GeoIndex is an InvertedIndex per populated cell; this
// gives cheap point/radius lookups without pulling in a full R-tree, which
// this core has no other use for.
const geoStep = 0.5

// GeoIndex maps a coarse lon/lat grid cell to the InvertedIndex of
// documents whose point falls in it.
type GeoIndex struct {
	cells    map[geoCell]*InvertedIndex
	points   map[uint64]geoPoint
	capacity int
}

type geoCell struct {
	x, y int32
}

type geoPoint struct {
	lon, lat float64
}

func cellFor(lon, lat float64) geoCell {
	return geoCell{
		x: int32(math.Floor(lon / geoStep)),
		y: int32(math.Floor(lat / geoStep)),
	}
}

// NewGeoIndex returns an empty geo index with the given block capacity.
func NewGeoIndex(capacity int) *GeoIndex {
	return &GeoIndex{
		cells:    make(map[geoCell]*InvertedIndex),
		points:   make(map[uint64]geoPoint),
		capacity: capacity,
	}
}

// Add inserts docID at (lon, lat), creating the owning cell's index on
// first use.
func (g *GeoIndex) Add(docID uint64, lon, lat float64) {
	c := cellFor(lon, lat)
	idx, ok := g.cells[c]
	if !ok {
		idx = NewInvertedIndex(g.capacity)
		g.cells[c] = idx
	}
	idx.Add(docID, nil)
	g.points[docID] = geoPoint{lon: lon, lat: lat}
}

// AddStrings parses lon/lat from their string views and adds docID at the
// resulting point. Mirrors the source engine's GeoIndex.addStrings, which
// defers float parsing to commit time rather than to field preprocessing.
func (g *GeoIndex) AddStrings(docID uint64, lon, lat string) error {
	lonF, err := strconv.ParseFloat(strings.TrimSpace(lon), 64)
	if err != nil {
		return err
	}
	latF, err := strconv.ParseFloat(strings.TrimSpace(lat), 64)
	if err != nil {
		return err
	}
	g.Add(docID, lonF, latF)
	return nil
}

// CellCount returns the number of populated grid cells.
func (g *GeoIndex) CellCount() int { return len(g.cells) }

// Cells returns every populated cell's InvertedIndex.
func (g *GeoIndex) Cells() []*InvertedIndex {
	out := make([]*InvertedIndex, 0, len(g.cells))
	for _, idx := range g.cells {
		out = append(out, idx)
	}
	return out
}

// GeoForest is the per-field table of GeoIndexes for a spec's declared
// GEO fields.
type GeoForest struct {
	indexes map[string]*GeoIndex
}

// NewGeoForest returns an empty forest.
func NewGeoForest() *GeoForest {
	return &GeoForest{indexes: make(map[string]*GeoIndex)}
}

// GetOrCreate returns the GeoIndex for field, creating it with the given
// block capacity on first use.
func (f *GeoForest) GetOrCreate(field string, capacity int) *GeoIndex {
	idx, ok := f.indexes[field]
	if !ok {
		idx = NewGeoIndex(capacity)
		f.indexes[field] = idx
	}
	return idx
}

// Get returns the GeoIndex for field without creating it.
func (f *GeoForest) Get(field string) (*GeoIndex, bool) {
	idx, ok := f.indexes[field]
	return idx, ok
}
