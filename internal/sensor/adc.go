package sensor

import (
	"context"
	"fmt"
)

// RP2040 on-chip temperature sensor characteristics.
const (
	adcVRef        = 3.3
	sensorV27      = 0.706    // volts at 27 °C
	sensorSlope    = 0.001721 // volts per °C
	sensorRefTempC = 27.0
)

// ADCVolts scales a raw reading of an ADC with the given resolution to volts.
func ADCVolts(raw uint32, bits uint) float64 {
	full := float64(uint32(1)<<bits - 1)
	return float64(raw) * adcVRef / full
}

// RP2040Celsius converts the sensor voltage to degrees Celsius.
func RP2040Celsius(volts float64) float64 {
	return sensorRefTempC - (volts-sensorV27)/sensorSlope
}

// ADC reads the temperature channel exposed as an IIO raw value.
type ADC struct {
	Path string
	Bits uint
}

func NewADC(path string, bits uint) *ADC { return &ADC{Path: path, Bits: bits} }

func (a *ADC) Read(ctx context.Context) (float64, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	raw, err := readInt(a.Path)
	if err != nil {
		return 0, err
	}
	if raw < 0 || raw >= int64(1)<<a.Bits {
		return 0, fmt.Errorf("%w: raw %d exceeds %d-bit range", ErrBadSample, raw, a.Bits)
	}
	return RP2040Celsius(ADCVolts(uint32(raw), a.Bits)), nil
}
