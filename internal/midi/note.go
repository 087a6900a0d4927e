package midi

import (
	"github.com/clefworks/midigen/internal/models"
)

// DefaultVelocity is used when a note does not carry one.
const DefaultVelocity = 100

const midiChannels = 16

// NormalizeNote fills per-note defaults and resolves duration and timing
// into a writer-ready event. Pitch is carried through untouched; the writer
// accepts numbers and note names alike. Channels wrap mod 16 rather than
// being rejected, for the track default as well as explicit values.
func NormalizeNote(n models.Note, trackIndex int, bpm float64) (models.ResolvedEvent, error) {
	token, err := NormalizeDuration(n.Duration)
	if err != nil {
		return models.ResolvedEvent{}, err
	}

	velocity := DefaultVelocity
	if n.Velocity != nil {
		velocity = *n.Velocity
	}

	channel := trackIndex % midiChannels
	if n.Channel != nil {
		channel = *n.Channel % midiChannels
	}

	return models.ResolvedEvent{
		TrackIndex:    trackIndex,
		Pitch:         n.Pitch,
		DurationToken: token,
		Velocity:      velocity,
		Channel:       channel,
		WaitTicks:     ResolveWait(n.Timing, bpm),
	}, nil
}
