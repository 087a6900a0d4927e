package midi

import (
	"fmt"

	"github.com/clefworks/midigen/internal/models"
)

// Symbolic note-length tokens understood by the writer, whole note through
// sixty-fourth.
const (
	DurationWhole        = "1"
	DurationHalf         = "2"
	DurationQuarter      = "4"
	DurationEighth       = "8"
	DurationSixteenth    = "16"
	DurationThirtySecond = "32"
	DurationSixtyFourth  = "64"
)

var validDurationTokens = map[string]bool{
	DurationWhole:        true,
	DurationHalf:         true,
	DurationQuarter:      true,
	DurationEighth:       true,
	DurationSixteenth:    true,
	DurationThirtySecond: true,
	DurationSixtyFourth:  true,
}

// Fractions of a whole note map 1:1 onto tokens. Anything else falls back to
// a quarter note; that fallback is part of the contract, not an error.
var fractionTokens = map[float64]string{
	2:      DurationHalf,
	1:      DurationQuarter,
	0.5:    DurationEighth,
	0.25:   DurationSixteenth,
	0.125:  DurationThirtySecond,
	0.0625: DurationSixtyFourth,
}

// NormalizeDuration canonicalizes a duration value into a symbolic token.
// Pure function: token passthrough for valid tokens, fraction lookup for
// numerics, error for anything else.
func NormalizeDuration(d models.Duration) (string, error) {
	if d.Numeric {
		if token, ok := fractionTokens[d.Fraction]; ok {
			return token, nil
		}
		return DurationQuarter, nil
	}
	if validDurationTokens[d.Token] {
		return d.Token, nil
	}
	return "", fmt.Errorf("invalid duration %q: expected one of 1,2,4,8,16,32,64 or a note fraction", d.Token)
}
