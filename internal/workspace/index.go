package workspace

import (
	"github.com/dhconnelly/rtreego"

	"box-motion-planner/internal/geom"
)

// obstacleEntry wraps a static obstacle for R-tree storage.
type obstacleEntry struct {
	rect geom.Rect
	bbox rtreego.Rect
}

// Bounds implements rtreego.Spatial.
func (e *obstacleEntry) Bounds() rtreego.Rect {
	return e.bbox
}

// SpatialIndex answers overlap queries against the static obstacles.
// rtreego treats rectangles that only touch as disjoint, which matches the
// open-interior collision rule used everywhere else.
type SpatialIndex struct {
	tree *rtreego.Rtree
}

// NewSpatialIndex indexes rects. Degenerate rectangles cannot block anything
// and are skipped.
func NewSpatialIndex(rects []geom.Rect) *SpatialIndex {
	tree := rtreego.NewTree(2, 25, 50) // 2D, min 25, max 50 entries per node

	for _, r := range rects {
		if r.Width() <= 0 || r.Height() <= 0 {
			continue
		}
		bbox, err := toRtree(r)
		if err != nil {
			continue
		}
		tree.Insert(&obstacleEntry{rect: r, bbox: bbox})
	}
	return &SpatialIndex{tree: tree}
}

// Len is the number of indexed obstacles.
func (si *SpatialIndex) Len() int {
	return si.tree.Size()
}

// QueryRegion returns the obstacles whose interiors meet region.
func (si *SpatialIndex) QueryRegion(region geom.Rect) []geom.Rect {
	bbox, err := toRtree(region)
	if err != nil {
		return []geom.Rect{}
	}

	results := si.tree.SearchIntersect(bbox)
	rects := make([]geom.Rect, 0, len(results))
	for _, item := range results {
		rects = append(rects, item.(*obstacleEntry).rect)
	}
	return rects
}

// Overlaps reports whether region shares interior with any obstacle.
func (si *SpatialIndex) Overlaps(region geom.Rect) bool {
	bbox, err := toRtree(region)
	if err != nil {
		return false
	}
	return len(si.tree.SearchIntersect(bbox, rtreego.LimitFilter(1))) > 0
}

// CrossedBy reports whether s passes through the interior of any obstacle.
func (si *SpatialIndex) CrossedBy(s geom.Segment) bool {
	for _, r := range si.QueryRegion(s.Bounds()) {
		if r.CrossedBy(s) {
			return true
		}
	}
	return false
}

// toRtree converts r, allowing zero extent so that segment bounds can be
// queried.
func toRtree(r geom.Rect) (rtreego.Rect, error) {
	return rtreego.NewRectFromPoints(
		rtreego.Point{r.Min[0], r.Min[1]},
		rtreego.Point{r.Max[0], r.Max[1]},
	)
}
