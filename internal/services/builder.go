package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"sync"
	"time"

	"github.com/clefworks/midigen/internal/logger"
	"github.com/clefworks/midigen/internal/midi"
	"github.com/clefworks/midigen/internal/models"
)

// ErrInvalidParams marks failures attributable to the caller's input:
// missing or conflicting composition sources, malformed JSON, or invalid
// composition fields. Everything else that goes wrong during a build is an
// internal error.
var ErrInvalidParams = errors.New("invalid params")

// BuildRequest carries one create_midi invocation. Exactly one of
// Composition / CompositionFile must be set; Composition may be a
// JSON-encoded string or an already-decoded object.
type BuildRequest struct {
	Title           string
	Composition     any
	CompositionFile string
	OutputPath      string
}

// BuildResult reports a completed build.
type BuildResult struct {
	Title      string
	Path       string
	TrackCount int
	NoteCount  int
	Duration   time.Duration
}

// BuildService converts declarative compositions into MIDI files. One build
// runs at a time, end to end; overlapping invocations queue on the mutex.
type BuildService struct {
	emitter *midi.Emitter
	mu      sync.Mutex
}

func NewBuildService(emitter *midi.Emitter) *BuildService {
	return &BuildService{emitter: emitter}
}

// Build parses, assembles, serializes and persists one composition. The
// progress sink receives 0% before any work, a proportional signal per
// assembled track, and 100% once the file is on disk. A nil sink is fine
// and changes nothing about the output.
func (s *BuildService) Build(ctx context.Context, req BuildRequest, progress midi.ProgressFunc) (*BuildResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if progress == nil {
		progress = func(int, string) {}
	}
	start := time.Now()

	comp, err := s.loadComposition(req)
	if err != nil {
		return nil, err
	}

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	progress(0, fmt.Sprintf("Building %q (%d tracks)", req.Title, len(comp.Tracks)))
	logger.Info("MIDI build started", logger.Fields{
		"title":  req.Title,
		"tracks": len(comp.Tracks),
		"bpm":    comp.BPM,
	})

	tracks, err := midi.AssembleComposition(comp, progress)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidParams, err)
	}

	data, err := midi.EncodeComposition(comp, tracks)
	if err != nil {
		return nil, fmt.Errorf("serializing %q: %w", req.Title, err)
	}

	if req.OutputPath == "" {
		return nil, fmt.Errorf("%w: output_path is required", ErrInvalidParams)
	}
	path := s.emitter.Resolve(req.OutputPath)
	if err := s.emitter.Write(path, data); err != nil {
		return nil, fmt.Errorf("emitting %q: %w", req.Title, err)
	}

	noteCount := 0
	for _, t := range tracks {
		noteCount += len(t.Notes)
	}
	progress(100, fmt.Sprintf("MIDI file complete: %s", path))

	result := &BuildResult{
		Title:      req.Title,
		Path:       path,
		TrackCount: len(tracks),
		NoteCount:  noteCount,
		Duration:   time.Since(start),
	}
	logger.Info("MIDI build completed", logger.Fields{
		"title":       result.Title,
		"path":        result.Path,
		"tracks":      result.TrackCount,
		"notes":       result.NoteCount,
		"duration_ms": result.Duration.Milliseconds(),
	})
	return result, nil
}

// loadComposition enforces the exactly-one-source rule and decodes whichever
// source was given. Supplying both composition and composition_file is
// rejected outright; the schema means them to be exclusive, and silently
// preferring one over the other hides caller mistakes.
func (s *BuildService) loadComposition(req BuildRequest) (models.Composition, error) {
	var comp models.Composition

	hasInline := req.Composition != nil
	hasFile := req.CompositionFile != ""
	switch {
	case hasInline && hasFile:
		return comp, fmt.Errorf("%w: composition and composition_file are mutually exclusive", ErrInvalidParams)
	case !hasInline && !hasFile:
		return comp, fmt.Errorf("%w: one of composition or composition_file is required", ErrInvalidParams)
	}

	var raw []byte
	if hasFile {
		data, err := os.ReadFile(req.CompositionFile)
		if err != nil {
			return comp, fmt.Errorf("%w: reading composition_file: %v", ErrInvalidParams, err)
		}
		raw = data
	} else {
		switch v := req.Composition.(type) {
		case string:
			raw = []byte(v)
		default:
			data, err := json.Marshal(v)
			if err != nil {
				return comp, fmt.Errorf("%w: composition is not valid JSON: %v", ErrInvalidParams, err)
			}
			raw = data
		}
	}

	if err := json.Unmarshal(raw, &comp); err != nil {
		return comp, fmt.Errorf("%w: %v", ErrInvalidParams, err)
	}
	return comp, nil
}
