package sensor

import "context"

// ThermalZone reads a Linux thermal zone, which reports millidegrees Celsius.
type ThermalZone struct {
	Path string
}

func NewThermalZone(path string) *ThermalZone { return &ThermalZone{Path: path} }

func (z *ThermalZone) Read(ctx context.Context) (float64, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	milli, err := readInt(z.Path)
	if err != nil {
		return 0, err
	}
	return float64(milli) / 1000, nil
}
