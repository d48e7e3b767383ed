// Package sensor produces temperature samples on the device side.
package sensor

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
)

var ErrBadSample = errors.New("unreadable sample")

// Source yields one temperature reading in degrees Celsius per call.
type Source interface {
	Read(ctx context.Context) (float64, error)
}

// readInt reads a single integer from a sysfs-style file.
func readInt(path string) (int64, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return 0, fmt.Errorf("read %s: %w", path, err)
	}
	n, err := strconv.ParseInt(strings.TrimSpace(string(b)), 10, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: %s: %q", ErrBadSample, path, strings.TrimSpace(string(b)))
	}
	return n, nil
}
