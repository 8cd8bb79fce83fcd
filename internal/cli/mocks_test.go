package cli

import (
	"context"
	"sync"

	"github.com/alnah/studynotes/internal/config"
	"github.com/alnah/studynotes/internal/llm"
	"github.com/alnah/studynotes/internal/pipeline"
)

// ---------------------------------------------------------------------------
// Mock ConfigLoader
// ---------------------------------------------------------------------------

type mockConfigLoader struct {
	LoadFunc func() (config.Config, error)

	mu        sync.Mutex
	loadCalls int
}

func (m *mockConfigLoader) Load() (config.Config, error) {
	m.mu.Lock()
	m.loadCalls++
	m.mu.Unlock()

	if m.LoadFunc != nil {
		return m.LoadFunc()
	}
	return config.Config{}, nil
}

func (m *mockConfigLoader) LoadCalls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.loadCalls
}

// ---------------------------------------------------------------------------
// Mock InvokerFactory + Invoker
// ---------------------------------------------------------------------------

type mockInvokerFactory struct {
	NewInvokerFunc func(ctx context.Context, s llm.Settings) (llm.Invoker, error)
	mockInvoker    *mockInvoker

	mu    sync.Mutex
	calls []llm.Settings
}

func (m *mockInvokerFactory) NewInvoker(ctx context.Context, s llm.Settings) (llm.Invoker, error) {
	m.mu.Lock()
	m.calls = append(m.calls, s)
	m.mu.Unlock()

	if m.NewInvokerFunc != nil {
		return m.NewInvokerFunc(ctx, s)
	}
	if m.mockInvoker != nil {
		return m.mockInvoker, nil
	}
	return &mockInvoker{}, nil
}

func (m *mockInvokerFactory) Calls() []llm.Settings {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]llm.Settings(nil), m.calls...)
}

// defaultReply is a minimal valid notes reply.
const defaultReply = `{"main_subject": "Thermodynamics", "key_points": ["Energy is conserved"]}`

type mockInvoker struct {
	InvokeFunc func(ctx context.Context, prompt string) (string, error)

	mu      sync.Mutex
	prompts []string
}

func (m *mockInvoker) Invoke(ctx context.Context, prompt string) (string, error) {
	m.mu.Lock()
	m.prompts = append(m.prompts, prompt)
	m.mu.Unlock()

	if m.InvokeFunc != nil {
		return m.InvokeFunc(ctx, prompt)
	}
	return defaultReply, nil
}

func (m *mockInvoker) Prompts() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]string(nil), m.prompts...)
}

// ---------------------------------------------------------------------------
// Mock EmitterFactory + Emitter
// ---------------------------------------------------------------------------

type mockEmitterFactory struct {
	NewEmitterFunc func(ctx context.Context, enginePath string) (pipeline.Emitter, error)

	mu    sync.Mutex
	paths []string
}

func (m *mockEmitterFactory) NewEmitter(ctx context.Context, enginePath string) (pipeline.Emitter, error) {
	m.mu.Lock()
	m.paths = append(m.paths, enginePath)
	m.mu.Unlock()

	if m.NewEmitterFunc != nil {
		return m.NewEmitterFunc(ctx, enginePath)
	}
	return &mockEmitter{}, nil
}

func (m *mockEmitterFactory) Paths() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]string(nil), m.paths...)
}

type mockEmitter struct {
	EmitFunc func(ctx context.Context, html string) ([]byte, error)

	mu    sync.Mutex
	pages []string
}

func (m *mockEmitter) Emit(ctx context.Context, html string) ([]byte, error) {
	m.mu.Lock()
	m.pages = append(m.pages, html)
	m.mu.Unlock()

	if m.EmitFunc != nil {
		return m.EmitFunc(ctx, html)
	}
	return []byte("%PDF-1.7 fake"), nil
}

// Compile-time interface verification.
var (
	_ ConfigLoader     = (*mockConfigLoader)(nil)
	_ InvokerFactory   = (*mockInvokerFactory)(nil)
	_ llm.Invoker      = (*mockInvoker)(nil)
	_ EmitterFactory   = (*mockEmitterFactory)(nil)
	_ pipeline.Emitter = (*mockEmitter)(nil)
)
