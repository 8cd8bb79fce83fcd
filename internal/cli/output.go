package cli

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/alnah/studynotes/internal/pipeline"
)

// readInput reads a transcript from path, or from stdin when path is "-".
func readInput(env *Env, path string) (string, error) {
	if path == "-" {
		data, err := io.ReadAll(env.Stdin)
		if err != nil {
			return "", fmt.Errorf("failed to read stdin: %w", err)
		}
		return string(data), nil
	}

	// #nosec G304 -- path is user-provided
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return "", fmt.Errorf("%s: %w", path, ErrFileNotFound)
		}
		return "", fmt.Errorf("cannot read file: %w", err)
	}
	return string(data), nil
}

// deriveOutputName converts an input path to a default output file name.
// Example: "lecture.txt" + pdf -> "lecture.notes.pdf"
func deriveOutputName(inputPath string, f pipeline.Format) string {
	base := filepath.Base(inputPath)
	base = strings.TrimSuffix(base, filepath.Ext(base))
	base = strings.TrimSuffix(base, ".notes")
	return base + ".notes" + f.Extension()
}

// stdinOutputName names output for transcripts read from stdin.
func stdinOutputName(env *Env, f pipeline.Format) string {
	return "studynotes_" + env.Now().Format("20060102_150405") + f.Extension()
}

// promptPath is where the prompt of a failed run is saved for diagnosis.
func promptPath(output string) string {
	return strings.TrimSuffix(output, filepath.Ext(output)) + ".prompt.txt"
}

// warnExtensionMismatch writes a warning to w if path has an extension that
// does not match the output format.
func warnExtensionMismatch(w io.Writer, path string, f pipeline.Format) {
	ext := strings.ToLower(filepath.Ext(path))
	if ext != "" && ext != f.Extension() {
		_, _ = fmt.Fprintf(w, "Warning: output is %s regardless of %s extension\n", strings.ToUpper(f.String()), ext)
	}
}

// ensureOutputFree fails when a file already exists at any of paths.
// Empty paths are skipped. Commands call it before any model call so that
// an existing output never costs a run.
func ensureOutputFree(paths ...string) error {
	for _, path := range paths {
		if path == "" {
			continue
		}
		if _, err := os.Stat(path); err == nil {
			return fmt.Errorf("output file already exists: %s: %w", path, ErrOutputExists)
		}
	}
	return nil
}

// writeFileAtomic writes content to path atomically.
// It fails if the file already exists (O_EXCL), preventing accidental overwrites.
// On write failure, the partial file is removed.
func writeFileAtomic(path string, content []byte) error {
	// #nosec G302 G304 -- user-specified output file with standard permissions
	f, err := os.OpenFile(path, os.O_CREATE|os.O_EXCL|os.O_WRONLY, 0644)
	if err != nil {
		if errors.Is(err, os.ErrExist) {
			return fmt.Errorf("output file already exists: %s: %w", path, ErrOutputExists)
		}
		return fmt.Errorf("cannot create output file: %w", err)
	}

	writeErr := func() error {
		defer func() { _ = f.Close() }()
		if _, err := f.Write(content); err != nil {
			return fmt.Errorf("failed to write output: %w", err)
		}
		return nil
	}()

	if writeErr != nil {
		_ = os.Remove(path)
		return writeErr
	}

	return nil
}
