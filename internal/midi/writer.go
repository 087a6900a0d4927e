package midi

import (
	"bytes"
	"fmt"
	"strconv"
	"strings"

	gomidi "gitlab.com/gomidi/midi/v2"
	"gitlab.com/gomidi/midi/v2/smf"

	"github.com/clefworks/midigen/internal/models"
)

// EncodeComposition serializes assembled track event lists into Standard
// MIDI File bytes. Each track carries its own name, tempo, time signature
// and optional program change, followed by the note events in order. The
// whole file is built in memory; nothing touches disk here.
func EncodeComposition(comp models.Composition, tracks []TrackEvents) ([]byte, error) {
	s := smf.New()
	s.TimeFormat = smf.MetricTicks(TicksPerQuarter)

	for i, t := range tracks {
		var track smf.Track

		if t.Name != "" {
			track.Add(0, smf.MetaTrackSequenceName(t.Name))
		}
		track.Add(0, smf.MetaTempo(comp.BPM))
		track.Add(0, smf.MetaTimeSig(comp.TimeSignature.Numerator, comp.TimeSignature.Denominator, 24, 8))

		if t.Instrument != nil {
			program := clamp7bit(*t.Instrument)
			track.Add(0, gomidi.ProgramChange(uint8(i%midiChannels), program))
		}

		for j, note := range t.Notes {
			key, err := pitchKey(note.Pitch)
			if err != nil {
				return nil, fmt.Errorf("track %d, note %d: %w", i, j, err)
			}
			channel := uint8(note.Channel)
			track.Add(uint32(note.WaitTicks), gomidi.NoteOn(channel, key, clamp7bit(note.Velocity)))
			track.Add(DurationTicks(note.DurationToken), gomidi.NoteOff(channel, key))
		}

		track.Close(0)
		if err := s.Add(track); err != nil {
			return nil, fmt.Errorf("adding track %d: %w", i, err)
		}
	}

	var buf bytes.Buffer
	if _, err := s.WriteTo(&buf); err != nil {
		return nil, fmt.Errorf("failed to serialize MIDI file: %w", err)
	}
	return buf.Bytes(), nil
}

var noteSemitones = map[byte]int{
	'C': 0, 'D': 2, 'E': 4, 'F': 5, 'G': 7, 'A': 9, 'B': 11,
}

// pitchKey resolves either pitch representation to a MIDI key. Note names
// follow scientific pitch notation with C4 = 60, e.g. "C4", "F#3", "Bb-1".
func pitchKey(p models.Pitch) (uint8, error) {
	if !p.Named {
		if p.Number < 0 || p.Number > 127 {
			return 0, fmt.Errorf("pitch %d out of MIDI range 0-127", p.Number)
		}
		return uint8(p.Number), nil
	}

	name := strings.TrimSpace(p.Name)
	if name == "" {
		return 0, fmt.Errorf("empty pitch name")
	}

	semitone, ok := noteSemitones[name[0]&^0x20] // uppercase the letter
	if !ok {
		return 0, fmt.Errorf("invalid pitch name %q", p.Name)
	}

	rest := name[1:]
	for len(rest) > 0 {
		if rest[0] == '#' {
			semitone++
		} else if rest[0] == 'b' {
			semitone--
		} else {
			break
		}
		rest = rest[1:]
	}

	octave, err := strconv.Atoi(rest)
	if err != nil {
		return 0, fmt.Errorf("invalid pitch name %q: missing octave", p.Name)
	}

	key := (octave+1)*12 + semitone
	if key < 0 || key > 127 {
		return 0, fmt.Errorf("pitch %q resolves to %d, outside MIDI range 0-127", p.Name, key)
	}
	return uint8(key), nil
}

func clamp7bit(v int) uint8 {
	if v < 0 {
		return 0
	}
	if v > 127 {
		return 127
	}
	return uint8(v)
}
