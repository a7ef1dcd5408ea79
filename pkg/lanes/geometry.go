package lanes

// Geometry holds the vertical sizing used to place lanes on a canvas.
type Geometry struct {
	LaneHeight  float64 // bar height per lane
	LaneSpacing float64 // gap between consecutive lanes
	Padding     float64 // extra space below the last lane
}

// DefaultGeometry matches the standard timeline rendering: 30px bars with
// 5px gaps and 50px of bottom padding.
var DefaultGeometry = Geometry{LaneHeight: 30, LaneSpacing: 5, Padding: 50}

// LaneY returns the vertical pixel offset of the top edge of a lane.
func (g Geometry) LaneY(lane int) float64 {
	return float64(lane) * (g.LaneHeight + g.LaneSpacing)
}

// SceneHeight returns the canvas height needed to show lanes 0..maxLane
// plus the bottom padding.
func (g Geometry) SceneHeight(maxLane int) float64 {
	return float64(maxLane+1)*(g.LaneHeight+g.LaneSpacing) + g.Padding
}

// LaneY returns the vertical offset of a lane under [DefaultGeometry].
func LaneY(lane int) float64 { return DefaultGeometry.LaneY(lane) }

// SceneHeight returns the canvas height for lanes 0..maxLane under
// [DefaultGeometry].
func SceneHeight(maxLane int) float64 { return DefaultGeometry.SceneHeight(maxLane) }
