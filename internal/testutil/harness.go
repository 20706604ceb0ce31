// Package testutil provides shared helpers for exercising full benchmark
// runs from tests.
package testutil

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/specialistvlad/tunegridgo/internal/app"
	"github.com/specialistvlad/tunegridgo/internal/hcl"
)

// SafeBuffer is a thread-safe buffer for capturing output in tests.
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

// HarnessResult holds the outcomes of an end-to-end benchmark run.
type HarnessResult struct {
	Output string
	Err    error
}

// RunBenchmark writes the given files into a temp dir, runs the application
// against it, and captures output. The literal __DIR__ in file contents is
// replaced with the temp dir so benchmarks can reference their own fixtures.
func RunBenchmark(t *testing.T, files map[string]string) *HarnessResult {
	t.Helper()

	dir := t.TempDir()
	for name, content := range files {
		content = strings.ReplaceAll(content, "__DIR__", dir)
		path := filepath.Join(dir, name)
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			t.Fatalf("failed to create fixture dir: %v", err)
		}
		if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
			t.Fatalf("failed to write fixture %s: %v", name, err)
		}
	}

	var buf SafeBuffer
	result := &HarnessResult{}

	// NewApp panics on fatal startup errors; surface that as an error so
	// tests can assert on it.
	func() {
		defer func() {
			if r := recover(); r != nil {
				result.Err = fmt.Errorf("startup: %v", r)
			}
		}()

		cfg, err := app.NewConfig(app.Config{
			BenchPath: dir,
			LogFormat: "text",
			LogLevel:  "debug",
			Verbose:   true,
		})
		if err != nil {
			result.Err = err
			return
		}

		a := app.NewApp(&buf, cfg, hcl.NewLoader())
		result.Err = a.Run(context.Background(), cfg)
	}()

	result.Output = buf.String()
	return result
}
