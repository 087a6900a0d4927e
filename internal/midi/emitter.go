package midi

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/clefworks/midigen/internal/logger"
)

// Emitter persists serialized MIDI bytes under a sandboxed output policy:
// absolute paths are honored verbatim, relative paths are rewritten into the
// configured MIDI directory using only their final path segment. Collapsing
// caller-supplied directory components is deliberate; it keeps a relative
// output_path from escaping the sandbox via "../".
type Emitter struct {
	outputDir string
}

func NewEmitter(outputDir string) *Emitter {
	return &Emitter{outputDir: outputDir}
}

// Resolve maps the requested output path to the path that will actually be
// written, applying the sandbox policy and defaulting the .mid extension.
func (e *Emitter) Resolve(outputPath string) string {
	if outputPath != "" && filepath.Ext(outputPath) == "" {
		outputPath += ".mid"
	}
	if filepath.IsAbs(outputPath) {
		return outputPath
	}
	return filepath.Join(e.outputDir, filepath.Base(outputPath))
}

// Write persists the byte buffer at the resolved path, creating the sandbox
// directory if needed. The buffer is complete before this is called, so a
// failure here never leaves a truncated half-serialized file behind.
func (e *Emitter) Write(resolvedPath string, data []byte) error {
	if err := os.MkdirAll(filepath.Dir(resolvedPath), 0o755); err != nil {
		return fmt.Errorf("creating output directory: %w", err)
	}
	if err := os.WriteFile(resolvedPath, data, 0o644); err != nil {
		return fmt.Errorf("writing MIDI file: %w", err)
	}
	logger.Info("MIDI file written", logger.Fields{
		"path":  resolvedPath,
		"bytes": len(data),
	})
	return nil
}
