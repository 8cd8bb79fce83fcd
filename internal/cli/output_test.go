package cli

import (
	"errors"
	"path/filepath"
	"strings"
	"testing"

	"github.com/alnah/studynotes/internal/pipeline"
)

// Notes:
// - Pure path helpers are table-tested; writeFileAtomic uses real temp files

func TestDeriveOutputName(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		input  string
		format pipeline.Format
		want   string
	}{
		{"text to pdf", "lecture.txt", pipeline.PDFFormat, "lecture.notes.pdf"},
		{"json to docx", "/data/week1.json", pipeline.DOCXFormat, "week1.notes.docx"},
		{"saved notes re-rendered", "week1.notes.json", pipeline.HTMLFormat, "week1.notes.html"},
		{"no extension", "lecture", pipeline.JSONFormat, "lecture.notes.json"},
		{"double extension", "bio.v2.txt", pipeline.PDFFormat, "bio.v2.notes.pdf"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := deriveOutputName(tt.input, tt.format); got != tt.want {
				t.Errorf("deriveOutputName(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestPromptPath(t *testing.T) {
	t.Parallel()

	if got := promptPath("/out/lecture.notes.pdf"); got != "/out/lecture.notes.prompt.txt" {
		t.Errorf("promptPath() = %q", got)
	}
}

func TestWarnExtensionMismatch(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name        string
		path        string
		format      pipeline.Format
		wantWarning bool
	}{
		{"matching", "notes.pdf", pipeline.PDFFormat, false},
		{"matching uppercase", "notes.HTML", pipeline.HTMLFormat, false},
		{"no extension", "notes", pipeline.DOCXFormat, false},
		{"mismatch", "notes.txt", pipeline.JSONFormat, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			var buf syncBuffer
			warnExtensionMismatch(&buf, tt.path, tt.format)
			if got := buf.String() != ""; got != tt.wantWarning {
				t.Errorf("warning = %q, want warning: %v", buf.String(), tt.wantWarning)
			}
		})
	}
}

func TestEnsureOutputFree(t *testing.T) {
	t.Parallel()

	existing := writeTestFile(t, "taken.pdf", "x")
	free := filepath.Join(t.TempDir(), "free.pdf")

	if err := ensureOutputFree(free, ""); err != nil {
		t.Errorf("ensureOutputFree(free) unexpected error: %v", err)
	}
	err := ensureOutputFree(free, existing)
	if !errors.Is(err, ErrOutputExists) {
		t.Fatalf("ensureOutputFree(existing) error = %v, want ErrOutputExists", err)
	}
	if !strings.Contains(err.Error(), existing) {
		t.Errorf("error %q should name %s", err, existing)
	}
}

func TestWriteFileAtomic(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "out.html")
	if err := writeFileAtomic(path, []byte("<p>one</p>")); err != nil {
		t.Fatalf("first write: %v", err)
	}
	err := writeFileAtomic(path, []byte("<p>two</p>"))
	if !errors.Is(err, ErrOutputExists) {
		t.Fatalf("second write error = %v, want ErrOutputExists", err)
	}
	if got := readTestFile(t, path); got != "<p>one</p>" {
		t.Errorf("content = %q, want first write", got)
	}

	err = writeFileAtomic(filepath.Join(t.TempDir(), "missing", "out.html"), nil)
	if err == nil || errors.Is(err, ErrOutputExists) {
		t.Errorf("missing dir error = %v", err)
	}
}

func TestReadInput(t *testing.T) {
	t.Parallel()

	env, _ := testEnv(withStdin("from stdin"))
	if got, err := readInput(env, "-"); err != nil || got != "from stdin" {
		t.Errorf("readInput(-) = %q, %v", got, err)
	}

	_, err := readInput(env, filepath.Join(t.TempDir(), "nope.txt"))
	if !errors.Is(err, ErrFileNotFound) || !strings.Contains(err.Error(), "nope.txt") {
		t.Errorf("error = %v, want ErrFileNotFound naming the file", err)
	}
}
