package spatial_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jengzang/casemap-backend-go/internal/models"
	"github.com/jengzang/casemap-backend-go/internal/spatial"
)

func TestHaversineDistance(t *testing.T) {
	t.Parallel()

	assert.InDelta(t, 0, spatial.HaversineDistance(10, 20, 10, 20), 1e-9)
	// One degree of latitude is about 111.2 km
	assert.InDelta(t, 111195, spatial.HaversineDistance(0, 0, 1, 0), 50)
}

func TestCentroid(t *testing.T) {
	t.Parallel()

	assert.Equal(t, models.Point{}, spatial.Centroid(nil))

	c := spatial.Centroid([]models.Point{{Lat: 0, Lon: -10}, {Lat: 0, Lon: 10}})
	assert.InDelta(t, 0, c.Lat, 1e-9)
	assert.InDelta(t, 0, c.Lon, 1e-9)

	lat, lon := spatial.Midpoint(0, -10, 0, 10)
	assert.InDelta(t, c.Lat, lat, 1e-9)
	assert.InDelta(t, c.Lon, lon, 1e-9)
}

func TestBounds(t *testing.T) {
	t.Parallel()

	b := spatial.Bounds([]models.Point{{Lat: 1, Lon: 2}, {Lat: -3, Lon: 5}})
	assert.InDeltaSlice(t, []float64{2, -3, 5, 1}, b[:], 1e-9)
}

func TestLevelForZoom(t *testing.T) {
	t.Parallel()

	assert.Equal(t, 0, spatial.LevelForZoom(-4))
	assert.Equal(t, 7, spatial.LevelForZoom(7))
	assert.Equal(t, spatial.MaxClusterLevel, spatial.LevelForZoom(99))
}

func TestClusterRecords(t *testing.T) {
	t.Parallel()

	near1 := models.NewGeoRecord("A", "A", "", models.Point{Lat: 30.0, Lon: 112.0})
	near2 := models.NewGeoRecord("B", "B", "", models.Point{Lat: 30.1, Lon: 112.1})
	far := models.NewGeoRecord("C", "C", "", models.Point{Lat: -33.9, Lon: 151.2})

	cells := spatial.ClusterRecords([]*models.GeoRecord{near1, far, near2}, 0)
	require.Len(t, cells, 2)

	assert.Equal(t, 0, cells[0].Level)
	assert.Equal(t, []*models.GeoRecord{near1, near2}, cells[0].Members)
	assert.Equal(t, []*models.GeoRecord{far}, cells[1].Members)
	assert.Positive(t, cells[0].MaxDistance)
	assert.InDelta(t, 0, cells[1].MaxDistance, 1e-6)
	assert.NotEmpty(t, cells[0].Token())
	assert.True(t, cells[0].ID.Contains(spatial.CellFor(near2.Geometry, 30)))

	// Level 30 is fine enough to separate every distinct point
	assert.Len(t, spatial.ClusterRecords([]*models.GeoRecord{near1, far, near2}, 30), 3)


	spatial.SortBySize(cells)
	assert.Len(t, cells[0].Members, 2)
}
