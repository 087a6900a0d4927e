package midi

import (
	"fmt"

	"github.com/clefworks/midigen/internal/logger"
	"github.com/clefworks/midigen/internal/models"
)

// ProgressFunc receives coarse build progress. A nil or no-op sink must not
// change the assembled output in any way.
type ProgressFunc func(percent int, message string)

// chunkSize bounds how many notes are processed between progress signals on
// large tracks. Chunking is advisory only: it never reorders events.
const chunkSize = 50

// TrackEvents is one track's writer-ready event list: metadata plus notes
// in their declared order.
type TrackEvents struct {
	Name       string
	Instrument *int
	Notes      []models.ResolvedEvent
}

// AssembleComposition turns a parsed composition into per-track event lists,
// applying the duration, timing and note normalizers to every note. Track
// and note order are preserved exactly as declared; nothing is merged or
// reordered. Negative wait offsets (from negative beat or offset inputs)
// are clamped to zero with a warning.
func AssembleComposition(comp models.Composition, progress ProgressFunc) ([]TrackEvents, error) {
	if progress == nil {
		progress = func(int, string) {}
	}

	tracks := make([]TrackEvents, 0, len(comp.Tracks))
	for i, track := range comp.Tracks {
		assembled := TrackEvents{
			Name:       track.Name,
			Instrument: track.Instrument,
			Notes:      make([]models.ResolvedEvent, 0, len(track.Notes)),
		}

		for start := 0; start < len(track.Notes) || start == 0; start += chunkSize {
			end := start + chunkSize
			if end > len(track.Notes) {
				end = len(track.Notes)
			}
			for j, note := range track.Notes[start:end] {
				event, err := NormalizeNote(note, i, comp.BPM)
				if err != nil {
					return nil, fmt.Errorf("track %d, note %d: %w", i, start+j, err)
				}
				if event.WaitTicks < 0 {
					logger.Warn("negative wait offset clamped to zero", logger.Fields{
						"track":      i,
						"note":       start + j,
						"wait_ticks": event.WaitTicks,
						"source":     note.Timing.Source.String(),
					})
					event.WaitTicks = 0
				}
				assembled.Notes = append(assembled.Notes, event)
			}
			if len(track.Notes) > chunkSize {
				logger.Debug("track chunk assembled", logger.Fields{
					"track": i,
					"from":  start,
					"to":    end,
				})
			}
			if end == len(track.Notes) {
				break
			}
		}

		tracks = append(tracks, assembled)

		name := track.Name
		if name == "" {
			name = fmt.Sprintf("track %d", i+1)
		}
		percent := (i + 1) * 90 / len(comp.Tracks)
		progress(percent, fmt.Sprintf("Assembled %s (%d notes)", name, len(assembled.Notes)))
	}

	return tracks, nil
}
