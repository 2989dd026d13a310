package tui

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/harrison/ctxgen/internal/consolidator"
	"github.com/harrison/ctxgen/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// headless runs the program without a terminal attached
func headless() []tea.ProgramOption {
	return []tea.ProgramOption{tea.WithInput(nil), tea.WithoutSignalHandler()}
}

func writeProject(t *testing.T, files map[string]string) models.ScanRequest {
	t.Helper()
	root := filepath.Join(t.TempDir(), "project")
	for rel, content := range files {
		path := filepath.Join(root, filepath.FromSlash(rel))
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
		require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	}
	return models.ScanRequest{
		RootDirectory:   root,
		OutputPath:      filepath.Join(t.TempDir(), "context.txt"),
		IncludeSuffixes: []string{".py"},
		SortCandidates:  true,
	}
}

type hookRecorder struct {
	mu       sync.Mutex
	statuses []string
	progress []float64
}

func (h *hookRecorder) hooks() Hooks {
	return Hooks{
		OnStatus: func(s string) {
			h.mu.Lock()
			defer h.mu.Unlock()
			h.statuses = append(h.statuses, s)
		},
		OnProgress: func(f float64) {
			h.mu.Lock()
			defer h.mu.Unlock()
			h.progress = append(h.progress, f)
		},
	}
}

func (h *hookRecorder) processed() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	n := 0
	for _, s := range h.statuses {
		if strings.HasPrefix(s, "Processing: ") {
			n++
		}
	}
	return n
}

func TestRunReturnsSummary(t *testing.T) {
	req := writeProject(t, map[string]string{"a.py": "print(1)\n", "b.py": "x"})
	runner := consolidator.NewRunner(nil)
	rec := &hookRecorder{}
	var out bytes.Buffer

	summary, err := Run(context.Background(), runner, req, &out, rec.hooks(), headless()...)
	require.NoError(t, err)

	require.True(t, summary.Succeeded(), summary.Message)
	assert.Equal(t, 2, summary.FilesProcessed)
	assert.Equal(t, 3, summary.TotalLines)
	assert.False(t, runner.Active())

	// Updates sent before the event loop started are delivered in order
	assert.Equal(t, []string{
		"Starting scan...",
		"Found 2 files to process.",
		"Processing: a.py",
		"Processing: b.py",
	}, rec.statuses)
	assert.Equal(t, []float64{0.5, 1}, rec.progress)
	assert.FileExists(t, req.OutputPath)
}

func TestRunCancelsWhenViewFails(t *testing.T) {
	files := map[string]string{}
	for i := 0; i < 20; i++ {
		files[filepath.Join("pkg", string(rune('a'+i))+".py")] = "x\n"
	}
	req := writeProject(t, files)

	slowRead := func(path string) ([]byte, error) {
		time.Sleep(20 * time.Millisecond)
		return os.ReadFile(path)
	}
	runner := consolidator.NewRunner(consolidator.New(consolidator.WithReadFile(slowRead)))
	rec := &hookRecorder{}

	// A program whose context is already done exits before rendering anything
	viewCtx, stopView := context.WithCancel(context.Background())
	stopView()

	opts := append(headless(), tea.WithContext(viewCtx))
	_, err := Run(context.Background(), runner, req, &bytes.Buffer{}, rec.hooks(), opts...)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "progress view failed")

	assert.False(t, runner.Active(), "the run must have finished before Run returns")
	assert.Less(t, rec.processed(), len(files), "the run is cancelled instead of processing every file")
}

func TestRunRejectsConcurrentRun(t *testing.T) {
	req := writeProject(t, map[string]string{"a.py": "x"})

	release := make(chan struct{})
	blockingRead := func(path string) ([]byte, error) {
		<-release
		return os.ReadFile(path)
	}
	runner := consolidator.NewRunner(consolidator.New(consolidator.WithReadFile(blockingRead)))

	first, err := runner.Start(context.Background(), req, consolidator.Callbacks{})
	require.NoError(t, err)

	_, err = Run(context.Background(), runner, req, &bytes.Buffer{}, Hooks{}, headless()...)
	assert.ErrorIs(t, err, consolidator.ErrRunInProgress)

	close(release)
	first.Wait()
}
