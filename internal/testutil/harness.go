package testutil

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/specialistvlad/flowgrid/internal/app"
	"github.com/specialistvlad/flowgrid/internal/hcl_adapter"
	"github.com/stretchr/testify/require"
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
	// LogOutput holds the debug log and the rendered diagnostics.
	LogOutput string
	Report    string
	Err       error
	Result    *app.Result
}

// Options tweak a harness run. The zero value elaborates the only system
// and renders a text report.
type Options struct {
	System      string
	Format      string
	Strict      bool
	MetricsFile string
}

// RunIntegrationTest provides a standardized harness for running integration tests
// using a default background context.
func RunIntegrationTest(t *testing.T, files map[string]string, opts Options) *HarnessResult {
	t.Helper()
	return RunIntegrationTestWithContext(context.Background(), t, files, opts)
}

// RunIntegrationTestWithContext writes files into a temporary model
// directory and runs the whole application against it with debug logging.
func RunIntegrationTestWithContext(ctx context.Context, t *testing.T, files map[string]string, opts Options) *HarnessResult {
	t.Helper()

	modelDir := t.TempDir()
	for name, content := range files {
		filePath := filepath.Join(modelDir, name)
		require.NoError(t, os.MkdirAll(filepath.Dir(filePath), 0o755))
		require.NoError(t, os.WriteFile(filePath, []byte(content), 0o644))
	}

	cfg, err := app.NewConfig(app.Config{
		ModelPath:   modelDir,
		System:      opts.System,
		Format:      opts.Format,
		LogLevel:    "debug",
		LogFormat:   "text",
		Strict:      opts.Strict,
		MetricsFile: opts.MetricsFile,
	})
	require.NoError(t, err)

	logBuffer := &SafeBuffer{}
	reportBuffer := &SafeBuffer{}
	res, runErr := app.NewApp(reportBuffer, logBuffer, cfg, hcl_adapter.NewLoader()).Run(ctx)

	if os.Getenv("FLOWGRID_TEST_LOGS") == "true" {
		t.Logf("--- Full Log Output for %s ---\n%s", t.Name(), logBuffer.String())
	}

	return &HarnessResult{
		LogOutput: logBuffer.String(),
		Report:    reportBuffer.String(),
		Err:       runErr,
		Result:    res,
	}
}
