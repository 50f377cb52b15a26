package analyzer

import "github.com/zoomreel/zoomreel/internal/jobtype"

const (
	groupGapMs        = 1500
	windowRectTolPx   = 50
	bboxPadPx         = 80
	bboxMinSide       = 200
	bboxAreaCapFrac   = 0.5
	splitGapMs        = 500
	splitDistancePx   = 400
)

// Scene is a maximal time interval of related activity points, with a
// derived bounding box, center, and zoom level (spec §3).
type Scene struct {
	ID         int
	StartT     float64
	EndT       float64
	BBox       jobtype.Rect
	Center     jobtype.Point
	ZoomLevel  float64
	WindowRect *jobtype.Rect
	EventCount int
}

// Split implements spec §4.3 steps 2-4: temporal/window grouping, spatial
// sub-splitting of oversized groups, and per-scene derived fields. Empty
// input yields an empty scene list; every ActivityPoint ends up in exactly
// one Scene and scenes are time-disjoint (spec §8 "Scene coverage").
func Split(points []ActivityPoint, screenW, screenH, maxZoom float64) []Scene {
	if len(points) == 0 {
		return nil
	}

	groups := groupByTimeAndWindow(points)

	var subgroups [][]ActivityPoint
	screenArea := screenW * screenH
	for _, g := range groups {
		subgroups = append(subgroups, spatialSubsplit(g, screenArea)...)
	}

	scenes := make([]Scene, 0, len(subgroups))
	for i, g := range subgroups {
		scenes = append(scenes, deriveScene(i+1, g, screenW, screenH, maxZoom))
	}
	return scenes
}

// groupByTimeAndWindow implements step 2: a new group starts when the time
// gap from the previous point is >= 1500ms, or the active window rectangle
// changes meaningfully (corners disagree by more than 50px).
func groupByTimeAndWindow(points []ActivityPoint) [][]ActivityPoint {
	var groups [][]ActivityPoint
	current := []ActivityPoint{points[0]}

	for i := 1; i < len(points); i++ {
		prev := points[i-1]
		cur := points[i]

		newGroup := false
		if cur.T-prev.T >= groupGapMs {
			newGroup = true
		} else if windowChanged(prev.WindowRect, cur.WindowRect) {
			newGroup = true
		}

		if newGroup {
			groups = append(groups, current)
			current = []ActivityPoint{cur}
		} else {
			current = append(current, cur)
		}
	}
	groups = append(groups, current)
	return groups
}

func windowChanged(a, b *jobtype.Rect) bool {
	if a == nil && b == nil {
		return false
	}
	if a == nil || b == nil {
		return true
	}
	return !jobtype.CornersClose(*a, *b, windowRectTolPx)
}

// spatialSubsplit implements step 3: recursively cut an oversized group at
// the first interior gap with both a >=500ms time gap and a >=400px spatial
// jump, repeating until every piece is under the area cap or no split point
// can be found.
func spatialSubsplit(group []ActivityPoint, screenArea float64) [][]ActivityPoint {
	if len(group) <= 1 {
		return [][]ActivityPoint{group}
	}

	bbox := paddedBBox(group)
	if bbox.Area() <= bboxAreaCapFrac*screenArea {
		return [][]ActivityPoint{group}
	}

	splitAt := -1
	for i := 0; i < len(group)-1; i++ {
		dt := group[i+1].T - group[i].T
		d := jobtype.Distance(jobtype.Point{X: group[i].X, Y: group[i].Y}, jobtype.Point{X: group[i+1].X, Y: group[i+1].Y})
		if dt >= splitGapMs && d >= splitDistancePx {
			splitAt = i
			break
		}
	}

	if splitAt == -1 {
		// No split point: degrade to a single oversized scene.
		return [][]ActivityPoint{group}
	}

	left := group[:splitAt+1]
	right := group[splitAt+1:]
	out := spatialSubsplit(left, screenArea)
	out = append(out, spatialSubsplit(right, screenArea)...)
	return out
}

// paddedBBox computes the minimum bounding box containing every point, pads
// it by bboxPadPx on each side, then grows it (centered) to at least
// bboxMinSide square, per spec §4.3 step 3 / §4.4 step 4.
func paddedBBox(points []ActivityPoint) jobtype.Rect {
	minX, minY := points[0].X, points[0].Y
	maxX, maxY := points[0].X, points[0].Y
	for _, p := range points[1:] {
		if p.X < minX {
			minX = p.X
		}
		if p.X > maxX {
			maxX = p.X
		}
		if p.Y < minY {
			minY = p.Y
		}
		if p.Y > maxY {
			maxY = p.Y
		}
	}

	raw := jobtype.Rect{X: minX, Y: minY, W: maxX - minX, H: maxY - minY}
	padded := raw.Pad(bboxPadPx)

	if padded.W < bboxMinSide {
		grow := (bboxMinSide - padded.W) / 2
		padded.X -= grow
		padded.W = bboxMinSide
	}
	if padded.H < bboxMinSide {
		grow := (bboxMinSide - padded.H) / 2
		padded.Y -= grow
		padded.H = bboxMinSide
	}
	return padded
}

func deriveScene(id int, group []ActivityPoint, screenW, screenH, maxZoom float64) Scene {
	bbox := paddedBBox(group)
	center := bbox.Center()

	zoom := jobtype.Clamp(minf(screenW/bbox.W, screenH/bbox.H), 1.2, maxZoom)

	startT, endT := group[0].T, group[0].T
	for _, p := range group {
		if p.T < startT {
			startT = p.T
		}
		if p.T > endT {
			endT = p.T
		}
	}

	return Scene{
		ID:         id,
		StartT:     startT,
		EndT:       endT,
		BBox:       bbox,
		Center:     center,
		ZoomLevel:  zoom,
		WindowRect: mostCommonWindowRect(group),
		EventCount: len(group),
	}
}

func mostCommonWindowRect(group []ActivityPoint) *jobtype.Rect {
	type count struct {
		rect jobtype.Rect
		n    int
	}
	var counts []count

	for _, p := range group {
		if p.WindowRect == nil {
			continue
		}
		matched := false
		for i := range counts {
			if jobtype.CornersClose(counts[i].rect, *p.WindowRect, windowRectTolPx) {
				counts[i].n++
				matched = true
				break
			}
		}
		if !matched {
			counts = append(counts, count{rect: *p.WindowRect, n: 1})
		}
	}

	if len(counts) == 0 {
		return nil
	}
	best := counts[0]
	for _, c := range counts[1:] {
		if c.n > best.n {
			best = c
		}
	}
	r := best.rect
	return &r
}

func minf(a, b float64) float64 {
	if a < b {
		return a
	}
	return b
}
