package models

import "time"

// Reading is a single timestamped observation. Timestamp is the arrival time
// at the dashboard, not the sensing time on the device.
type Reading struct {
	Timestamp time.Time `json:"timestamp"`
	Value     float64   `json:"value"` // °C in the Pico W deployment
}
