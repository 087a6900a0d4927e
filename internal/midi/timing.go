package midi

import (
	"math"

	"github.com/clefworks/midigen/internal/models"
)

// TicksPerQuarter is the fixed tick resolution (PPQ) for all timing math
// and for the serialized file's time division.
const TicksPerQuarter = 128

// startOffsetScale converts raw start offsets into wait ticks.
const startOffsetScale = 0.5

// ResolveWait converts a note's tagged timing input into a wait offset in
// ticks. Beat positions are 1-indexed and tempo-relative: the same beat
// lands on a different tick count at a different bpm, which is how this
// encoding works on purpose. Raw offsets and the legacy alias share one
// rule; the alias is just the field's old name.
//
// The result may be negative for negative inputs; the assembler owns the
// clamping policy.
func ResolveWait(t models.Timing, bpm float64) int {
	switch t.Source {
	case models.TimingBeat:
		return int(math.Round((t.Value - 1) * TicksPerQuarter / bpm))
	case models.TimingStart, models.TimingLegacy:
		return int(math.Round(t.Value * startOffsetScale))
	default:
		return 0
	}
}

// DurationTicks returns the tick length of a symbolic duration token at the
// fixed PPQ. Unknown tokens get a quarter note, matching the duration
// normalizer's fallback.
func DurationTicks(token string) uint32 {
	switch token {
	case DurationWhole:
		return 4 * TicksPerQuarter
	case DurationHalf:
		return 2 * TicksPerQuarter
	case DurationQuarter:
		return TicksPerQuarter
	case DurationEighth:
		return TicksPerQuarter / 2
	case DurationSixteenth:
		return TicksPerQuarter / 4
	case DurationThirtySecond:
		return TicksPerQuarter / 8
	case DurationSixtyFourth:
		return TicksPerQuarter / 16
	default:
		return TicksPerQuarter
	}
}
