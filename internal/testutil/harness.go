package testutil

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/vk/queryfuncs/internal/app"
	"github.com/vk/queryfuncs/internal/functions"
	"github.com/vk/queryfuncs/internal/hcl_adapter"
)

// SafeBuffer is a thread-safe buffer for capturing log output in tests.
type SafeBuffer struct {
	b  bytes.Buffer
	mu sync.Mutex
}

// Write implements the io.Writer interface for SafeBuffer.
func (b *SafeBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.b.Write(p)
}

// String implements the fmt.Stringer interface for SafeBuffer.
func (b *SafeBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.b.String()
}

// HarnessResult holds the outcomes of an integration test run.
type HarnessResult struct {
	Output    string
	LogOutput string
	Err       error
	App       *app.App
}

// RunIntegrationTest writes files into a temporary directory, points the
// app's configuration at it and runs cfg's expressions. With no modules the
// app's built-in modules are used. Startup panics are returned as Err.
func RunIntegrationTest(t *testing.T, files map[string]string, cfg app.Config, modules ...functions.Module) *HarnessResult {
	t.Helper()

	tmpDir := t.TempDir()
	for name, content := range files {
		filePath := filepath.Join(tmpDir, name)
		require.NoError(t, os.MkdirAll(filepath.Dir(filePath), 0755))
		require.NoError(t, os.WriteFile(filePath, []byte(content), 0644))
	}

	cfg.ConfigPaths = append(cfg.ConfigPaths, tmpDir)
	if cfg.LogLevel == "" {
		cfg.LogLevel = "debug"
	}
	if cfg.LogFormat == "" {
		cfg.LogFormat = "text"
	}

	out := &SafeBuffer{}
	logBuffer := &SafeBuffer{}

	var testApp *app.App
	var startErr error
	var panicErr any
	func() {
		defer func() {
			if r := recover(); r != nil {
				if os.Getenv("QF_TEST_LOGS") == "true" {
					t.Logf("--- HARNESS RECOVERED PANIC ---\n%q", fmt.Sprintf("%v", r))
				}
				panicErr = r
			}
		}()
		testApp, startErr = app.NewApp(out, logBuffer, &cfg, hcl_adapter.NewLoader(), modules...)
	}()

	result := &HarnessResult{App: testApp}
	switch {
	case panicErr != nil:
		result.Err = fmt.Errorf("application startup panicked | %v", panicErr)
	case startErr != nil:
		result.Err = startErr
	default:
		result.Err = testApp.Run(context.Background())
	}

	if os.Getenv("QF_TEST_LOGS") == "true" {
		t.Logf("--- Full Log Output for %s ---\n%s", t.Name(), logBuffer.String())
	}

	result.Output = out.String()
	result.LogOutput = logBuffer.String()
	return result
}
