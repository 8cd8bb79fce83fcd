package cli

import (
	"bytes"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/alnah/studynotes/internal/config"
)

// ---------------------------------------------------------------------------
// syncBuffer - thread-safe bytes.Buffer for concurrent test output
// ---------------------------------------------------------------------------

type syncBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *syncBuffer) Write(p []byte) (n int, err error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *syncBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}

// Compile-time check that syncBuffer implements io.Writer.
var _ io.Writer = (*syncBuffer)(nil)

// ---------------------------------------------------------------------------
// testMocks - convenience struct for grouping all mocks
// ---------------------------------------------------------------------------

type testMocks struct {
	configLoader *mockConfigLoader
	invokers     *mockInvokerFactory
	invoker      *mockInvoker
	emitters     *mockEmitterFactory
	stdout       *syncBuffer
	stderr       *syncBuffer
}

// ---------------------------------------------------------------------------
// testEnv - creates a fully mocked Env for testing
// ---------------------------------------------------------------------------

// testEnvOption configures the mocks before the Env is built.
type testEnvOption func(*testMocks, *Env)

// withStdin feeds s to the command's stdin.
func withStdin(s string) testEnvOption {
	return func(_ *testMocks, e *Env) { e.Stdin = strings.NewReader(s) }
}

// withConfig makes the config loader return cfg.
func withConfig(cfg config.Config) testEnvOption {
	return func(m *testMocks, _ *Env) {
		m.configLoader.LoadFunc = func() (config.Config, error) { return cfg, nil }
	}
}

// withGetenv replaces the environment.
func withGetenv(vars map[string]string) testEnvOption {
	return func(_ *testMocks, e *Env) { e.Getenv = staticEnv(vars) }
}

// testEnv creates a test Env with all dependencies mocked.
// Returns the Env and the mocks for assertions.
func testEnv(opts ...testEnvOption) (*Env, *testMocks) {
	inv := &mockInvoker{}
	m := &testMocks{
		configLoader: &mockConfigLoader{},
		invokers:     &mockInvokerFactory{mockInvoker: inv},
		invoker:      inv,
		emitters:     &mockEmitterFactory{},
		stdout:       &syncBuffer{},
		stderr:       &syncBuffer{},
	}

	env := &Env{
		Stdin:          strings.NewReader(""),
		Stdout:         m.stdout,
		Stderr:         m.stderr,
		Getenv:         defaultTestEnv,
		Now:            fixedTime(time.Date(2026, 1, 26, 14, 30, 52, 0, time.UTC)),
		ConfigLoader:   m.configLoader,
		InvokerFactory: m.invokers,
		EmitterFactory: m.emitters,
	}
	for _, opt := range opts {
		opt(m, env)
	}
	return env, m
}

// ---------------------------------------------------------------------------
// Test helpers
// ---------------------------------------------------------------------------

// fixedTime returns a function that always returns the given time.
func fixedTime(t time.Time) func() time.Time {
	return func() time.Time { return t }
}

// staticEnv returns a getenv function that returns values from the given map.
func staticEnv(env map[string]string) func(string) string {
	return func(key string) string {
		return env[key]
	}
}

// defaultTestEnv returns API keys for every provider.
func defaultTestEnv(key string) string {
	switch key {
	case "GEMINI_API_KEY":
		return "test-gemini-key"
	case "OPENAI_API_KEY":
		return "test-openai-key"
	case "DEEPSEEK_API_KEY":
		return "test-deepseek-key"
	default:
		return ""
	}
}

// writeTestFile creates a file in a fresh temp dir and returns its path.
func writeTestFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("failed to create test file: %v", err)
	}
	return path
}

// readTestFile returns the content of path, failing the test if missing.
func readTestFile(t *testing.T, path string) string {
	t.Helper()
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("failed to read %s: %v", path, err)
	}
	return string(data)
}

const sampleTranscript = "Energy cannot be created or destroyed. It only changes form. Heat flows from hot to cold."
