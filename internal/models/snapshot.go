package models

// Placeholder messages shown while the window is empty.
const (
	PlaceholderCurrent = "Waiting for data..."
	PlaceholderChart   = "Waiting for data to plot..."
)

// Bounds is the y-axis range the chart should use.
type Bounds struct {
	YMin float64 `json:"y_min"`
	YMax float64 `json:"y_max"`
}

// Snapshot is the read model handed to the presentation layer on every refresh.
// MinValue, MaxValue and DisplayBounds are nil iff Points is empty.
type Snapshot struct {
	Points        []Reading `json:"points"`
	MinValue      *float64  `json:"min_value,omitempty"`
	MaxValue      *float64  `json:"max_value,omitempty"`
	DisplayBounds *Bounds   `json:"display_bounds,omitempty"`
	Current       *Reading  `json:"current,omitempty"`
	Capacity      int       `json:"capacity"`
	Placeholder   string    `json:"placeholder,omitempty"`
}

// Empty reports whether the snapshot carries no points.
func (s Snapshot) Empty() bool {
	return len(s.Points) == 0
}
