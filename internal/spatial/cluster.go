package spatial

import (
	"sort"

	"github.com/golang/geo/s2"

	"github.com/jengzang/casemap-backend-go/internal/models"
)

// MaxClusterLevel is the deepest S2 level a zoom value maps to
const MaxClusterLevel = 30

// Cell groups the records that share one S2 cell at a given level
type Cell struct {
	ID          s2.CellID
	Level       int
	Center      models.Point
	Members     []*models.GeoRecord
	MaxDistance float64 // meters from Center to the farthest member
}

// Token returns the compact hex form of the cell id
func (c Cell) Token() string {
	return c.ID.ToToken()
}

// LevelForZoom maps a map zoom to an S2 level, clamped to 0..MaxClusterLevel
func LevelForZoom(zoom int) int {
	if zoom < 0 {
		return 0
	}
	if zoom > MaxClusterLevel {
		return MaxClusterLevel
	}
	return zoom
}

// CellFor returns the S2 cell containing p at level
func CellFor(p models.Point, level int) s2.CellID {
	return s2.CellIDFromLatLng(s2.LatLngFromDegrees(p.Lat, p.Lon)).Parent(level)
}

// ClusterRecords buckets records into S2 cells at the level derived from zoom.
// Cells come back in first-member order; members keep input order.
func ClusterRecords(records []*models.GeoRecord, zoom int) []Cell {
	level := LevelForZoom(zoom)

	order := make([]s2.CellID, 0)
	groups := make(map[s2.CellID][]*models.GeoRecord)
	for _, r := range records {
		id := CellFor(r.Geometry, level)
		if _, ok := groups[id]; !ok {
			order = append(order, id)
		}
		groups[id] = append(groups[id], r)
	}

	cells := make([]Cell, 0, len(order))
	for _, id := range order {
		members := groups[id]
		points := make([]models.Point, len(members))
		for i, m := range members {
			points[i] = m.Geometry
		}

		center := Centroid(points)
		var maxDist float64
		for _, p := range points {
			if d := Distance(center, p); d > maxDist {
				maxDist = d
			}
		}

		cells = append(cells, Cell{
			ID:          id,
			Level:       level,
			Center:      center,
			Members:     members,
			MaxDistance: maxDist,
		})
	}

	return cells
}

// SortBySize orders cells by member count, largest first, keeping ties stable
func SortBySize(cells []Cell) {
	sort.SliceStable(cells, func(i, j int) bool {
		return len(cells[i].Members) > len(cells[j].Members)
	})
}
