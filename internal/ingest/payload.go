package ingest

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
)

var (
	// ErrMalformedPayload marks a message body that is not a finite decimal number.
	ErrMalformedPayload = errors.New("malformed payload")
	// ErrUnknownPolicy is returned by ParsePolicy.
	ErrUnknownPolicy = errors.New("unknown overflow policy")
)

const maxQuotedPayload = 64

// ParsePayload decodes a UTF-8 text payload such as "21.53" into a float64.
// Surrounding whitespace is ignored; NaN and infinities are rejected.
func ParsePayload(payload []byte) (float64, error) {
	s := strings.TrimSpace(string(payload))
	if s == "" {
		return 0, fmt.Errorf("%w: empty body", ErrMalformedPayload)
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: %q is not a number", ErrMalformedPayload, quote(s))
	}
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, fmt.Errorf("%w: %q is not finite", ErrMalformedPayload, quote(s))
	}
	return v, nil
}

func quote(s string) string {
	if len(s) <= maxQuotedPayload {
		return s
	}
	return s[:maxQuotedPayload] + "..."
}
