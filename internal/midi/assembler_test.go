package midi

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/clefworks/midigen/internal/models"
)

func compositionWithNotes(notes ...models.Note) models.Composition {
	return models.Composition{
		BPM:           120,
		TimeSignature: models.TimeSignature{Numerator: 4, Denominator: 4},
		Tracks:        []models.Track{{Name: "test", Notes: notes}},
	}
}

func TestAssemblePreservesOrderAcrossChunks(t *testing.T) {
	// Well past the chunk threshold so at least three chunks run.
	const count = 120
	notes := make([]models.Note, 0, count)
	for i := 0; i < count; i++ {
		notes = append(notes, models.Note{
			Pitch:    models.Pitch{Number: i % 128},
			Duration: models.Duration{Token: "16"},
			Timing:   models.Timing{Source: models.TimingStart, Value: float64(i * 4)},
		})
	}

	tracks, err := AssembleComposition(compositionWithNotes(notes...), nil)
	require.NoError(t, err)
	require.Len(t, tracks, 1)
	require.Len(t, tracks[0].Notes, count)

	for i, event := range tracks[0].Notes {
		assert.Equal(t, i%128, event.Pitch.Number, "note %d out of order", i)
		assert.Equal(t, i*2, event.WaitTicks, "note %d wait", i)
	}
}

func TestAssembleTrackOrderPreserved(t *testing.T) {
	comp := models.Composition{
		BPM:           90,
		TimeSignature: models.TimeSignature{Numerator: 3, Denominator: 4},
	}
	for i := 0; i < 5; i++ {
		comp.Tracks = append(comp.Tracks, models.Track{
			Name: fmt.Sprintf("track-%d", i),
			Notes: []models.Note{{
				Pitch:    models.Pitch{Number: 40 + i},
				Duration: models.Duration{Token: "4"},
			}},
		})
	}

	tracks, err := AssembleComposition(comp, nil)
	require.NoError(t, err)
	require.Len(t, tracks, 5)
	for i, track := range tracks {
		assert.Equal(t, fmt.Sprintf("track-%d", i), track.Name)
		assert.Equal(t, i, track.Notes[0].TrackIndex)
		assert.Equal(t, i, track.Notes[0].Channel)
	}
}

func TestAssembleClampsNegativeWaits(t *testing.T) {
	comp := compositionWithNotes(models.Note{
		Pitch:    models.Pitch{Number: 60},
		Duration: models.Duration{Token: "4"},
		Timing:   models.Timing{Source: models.TimingStart, Value: -40},
	})

	tracks, err := AssembleComposition(comp, nil)
	require.NoError(t, err)
	assert.Equal(t, 0, tracks[0].Notes[0].WaitTicks)
}

func TestAssembleProgressSinkDoesNotAffectOutput(t *testing.T) {
	notes := make([]models.Note, 0, 60)
	for i := 0; i < 60; i++ {
		notes = append(notes, models.Note{
			Pitch:    models.Pitch{Number: 60},
			Duration: models.Duration{Token: "8"},
			Timing:   models.Timing{Source: models.TimingBeat, Value: float64(i + 1)},
		})
	}
	comp := compositionWithNotes(notes...)

	var calls []int
	withSink, err := AssembleComposition(comp, func(percent int, message string) {
		calls = append(calls, percent)
		assert.NotEmpty(t, message)
	})
	require.NoError(t, err)

	silent, err := AssembleComposition(comp, nil)
	require.NoError(t, err)

	assert.Equal(t, silent, withSink)
	require.NotEmpty(t, calls)
	assert.Equal(t, 90, calls[len(calls)-1], "last per-track signal lands at 90")
}

func TestAssembleEmptyTrack(t *testing.T) {
	tracks, err := AssembleComposition(compositionWithNotes(), nil)
	require.NoError(t, err)
	require.Len(t, tracks, 1)
	assert.Empty(t, tracks[0].Notes)
}

func TestAssembleBadNoteReportsPosition(t *testing.T) {
	comp := compositionWithNotes(
		models.Note{Pitch: models.Pitch{Number: 60}, Duration: models.Duration{Token: "4"}},
		models.Note{Pitch: models.Pitch{Number: 62}, Duration: models.Duration{Token: "nope"}},
	)
	_, err := AssembleComposition(comp, nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "track 0, note 1")
}
