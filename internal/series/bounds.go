package series

import "picow_telemetry/internal/models"

const (
	paddingRatio    = 0.2
	fallbackPadding = 1.0 // used when the window is flat
)

// DisplayBounds pads [lo, hi] by a fifth of the range on each side so small
// fluctuations stay visible. A flat window gets a fixed padding of 1.0.
func DisplayBounds(lo, hi float64) models.Bounds {
	padding := fallbackPadding
	if r := hi - lo; r != 0 {
		padding = r * paddingRatio
	}
	return models.Bounds{
		YMin: lo - padding,
		YMax: hi + padding,
	}
}
