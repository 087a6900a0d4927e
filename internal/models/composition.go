package models

import (
	"encoding/json"
	"fmt"
)

// TimingSource names which timing field a note arrived with. Tagging the
// source at decode time keeps the resolution precedence in one place instead
// of scattering presence checks through the translation code.
type TimingSource int

const (
	// TimingNone means no timing field was present; the note plays at the
	// start of its track.
	TimingNone TimingSource = iota
	// TimingBeat is a 1-indexed musical beat position (1.0 = start of piece).
	TimingBeat
	// TimingStart is a raw tick-like start offset.
	TimingStart
	// TimingLegacy is the old "time" field; same units as TimingStart.
	TimingLegacy
)

func (s TimingSource) String() string {
	switch s {
	case TimingBeat:
		return "beat"
	case TimingStart:
		return "startTime"
	case TimingLegacy:
		return "time"
	default:
		return "none"
	}
}

// Timing is the tagged timing variant for one note.
type Timing struct {
	Source TimingSource
	Value  float64
}

// Duration is the tagged duration variant: either a symbolic token ("4",
// "8", ...) or a numeric fraction of a whole note (0.25, 0.5, ...).
type Duration struct {
	Numeric  bool
	Token    string
	Fraction float64
}

// Pitch is either a MIDI note number or a symbolic name like "C#4". Both
// forms are carried through to the writer, which accepts either.
type Pitch struct {
	Named  bool
	Name   string
	Number int
}

// TimeSignature is the composition-level meter. Zero value means "use 4/4".
type TimeSignature struct {
	Numerator   uint8 `json:"numerator"`
	Denominator uint8 `json:"denominator"`
}

// Note is one note as declared by the caller, with union fields already
// tagged. Velocity and Channel stay pointers so defaulting can tell "absent"
// from an explicit zero.
type Note struct {
	Pitch    Pitch
	Duration Duration
	Timing   Timing
	Velocity *int
	Channel  *int
}

// Track is an ordered list of notes plus optional metadata. The track's
// position in the composition determines its default MIDI channel.
type Track struct {
	Name       string
	Instrument *int
	Notes      []Note
}

// Composition is the parsed top-level request payload.
type Composition struct {
	BPM           float64
	TimeSignature TimeSignature
	Tracks        []Track
}

// ResolvedEvent is the fully normalized, writer-ready representation of one
// note. WaitTicks is the delay before the note fires, relative to the
// previous event in its track.
type ResolvedEvent struct {
	TrackIndex    int
	Pitch         Pitch
	DurationToken string
	Velocity      int
	Channel       int
	WaitTicks     int
}

type noteJSON struct {
	Pitch     json.RawMessage `json:"pitch"`
	Duration  json.RawMessage `json:"duration"`
	Beat      *float64        `json:"beat"`
	StartTime *float64        `json:"startTime"`
	Time      *float64        `json:"time"`
	Velocity  *int            `json:"velocity"`
	Channel   *int            `json:"channel"`
}

// UnmarshalJSON decodes a note and tags its union fields. Timing precedence:
// beat wins outright; an explicit startTime beats the legacy time alias; the
// alias is a plain field rename, its value is not transformed.
func (n *Note) UnmarshalJSON(data []byte) error {
	var raw noteJSON
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	if len(raw.Pitch) == 0 {
		return fmt.Errorf("note is missing pitch")
	}
	var num int
	if err := json.Unmarshal(raw.Pitch, &num); err == nil {
		n.Pitch = Pitch{Number: num}
	} else {
		var name string
		if err := json.Unmarshal(raw.Pitch, &name); err != nil {
			return fmt.Errorf("pitch must be a MIDI note number or a note name: %s", raw.Pitch)
		}
		n.Pitch = Pitch{Named: true, Name: name}
	}

	if len(raw.Duration) == 0 {
		return fmt.Errorf("note is missing duration")
	}
	var frac float64
	if err := json.Unmarshal(raw.Duration, &frac); err == nil {
		n.Duration = Duration{Numeric: true, Fraction: frac}
	} else {
		var token string
		if err := json.Unmarshal(raw.Duration, &token); err != nil {
			return fmt.Errorf("duration must be a note-length token or a fraction: %s", raw.Duration)
		}
		n.Duration = Duration{Token: token}
	}

	switch {
	case raw.Beat != nil:
		n.Timing = Timing{Source: TimingBeat, Value: *raw.Beat}
	case raw.StartTime != nil:
		n.Timing = Timing{Source: TimingStart, Value: *raw.StartTime}
	case raw.Time != nil:
		n.Timing = Timing{Source: TimingLegacy, Value: *raw.Time}
	default:
		n.Timing = Timing{Source: TimingNone}
	}

	n.Velocity = raw.Velocity
	n.Channel = raw.Channel
	return nil
}

type trackJSON struct {
	Name       string `json:"name"`
	Instrument *int   `json:"instrument"`
	Notes      []Note `json:"notes"`
}

func (t *Track) UnmarshalJSON(data []byte) error {
	var raw trackJSON
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	t.Name = raw.Name
	t.Instrument = raw.Instrument
	t.Notes = raw.Notes
	return nil
}

type compositionJSON struct {
	BPM           *float64         `json:"bpm"`
	Tempo         *float64         `json:"tempo"` // legacy alias for bpm
	TimeSignature *TimeSignature   `json:"timeSignature"`
	Tracks        *json.RawMessage `json:"tracks"`
}

// UnmarshalJSON decodes a composition and validates the required top-level
// fields. The legacy "tempo" alias supplies bpm only when "bpm" is absent.
func (c *Composition) UnmarshalJSON(data []byte) error {
	var raw compositionJSON
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	switch {
	case raw.BPM != nil:
		c.BPM = *raw.BPM
	case raw.Tempo != nil:
		c.BPM = *raw.Tempo
	default:
		return fmt.Errorf("composition is missing bpm")
	}
	if c.BPM <= 0 {
		return fmt.Errorf("bpm must be positive, got %v", c.BPM)
	}

	if raw.TimeSignature != nil {
		c.TimeSignature = *raw.TimeSignature
	}
	if c.TimeSignature.Numerator == 0 || c.TimeSignature.Denominator == 0 {
		c.TimeSignature = TimeSignature{Numerator: 4, Denominator: 4}
	}

	if raw.Tracks == nil {
		return fmt.Errorf("composition is missing tracks")
	}
	if err := json.Unmarshal(*raw.Tracks, &c.Tracks); err != nil {
		return fmt.Errorf("invalid tracks: %w", err)
	}
	return nil
}
