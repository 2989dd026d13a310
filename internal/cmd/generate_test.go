package cmd

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/harrison/ctxgen/internal/config"
	"github.com/harrison/ctxgen/internal/consolidator"
	"github.com/harrison/ctxgen/internal/share"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// writeProject creates files (relative path -> content) below dir/proj
func writeProject(t *testing.T, dir string, files map[string]string) string {
	t.Helper()
	root := filepath.Join(dir, "proj")
	require.NoError(t, os.MkdirAll(root, 0755))
	for rel, content := range files {
		path := filepath.Join(root, filepath.FromSlash(rel))
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
		require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	}
	return root
}

func readFile(t *testing.T, path string) string {
	t.Helper()
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	return string(data)
}

var sampleProject = map[string]string{
	"app.py":          "print(1)\n",
	"README.md":       "# Hi\n",
	"notes.txt":       "not included\n",
	".git/config.yml": "excluded: true\n",
}

func TestGenerateWritesContextFile(t *testing.T) {
	dir := setupWorkspace(t)
	writeProject(t, dir, sampleProject)

	stdout, _, err := execute(t, "generate", "proj", "-o", "out.txt", "--sort", "--no-tui", "--no-history")
	require.NoError(t, err)

	content := readFile(t, filepath.Join(dir, "out.txt"))
	assert.True(t, strings.HasPrefix(content, "--- Project Context for: proj ---\n\n"))
	assert.Contains(t, content, "### FILE: README.md\n")
	assert.Contains(t, content, "### FILE: app.py\n")
	assert.Less(t, strings.Index(content, "README.md"), strings.Index(content, "app.py"), "sorted by relative path")
	assert.NotContains(t, content, "config.yml")
	assert.NotContains(t, content, "notes.txt")

	assert.Contains(t, stdout, "Found 2 files to process.")
	assert.Contains(t, stdout, "✓ Processed 2 files")
	assert.Contains(t, stdout, "--- Generation Complete ---")
	assert.Contains(t, stdout, "Files Processed: 2")
	assert.Contains(t, stdout, "Total Lines of Code: 4")
	assert.Contains(t, stdout, "Logs written to:")

	_, err = os.Lstat(filepath.Join(dir, config.DirName, "logs", "latest.log"))
	assert.NoError(t, err, "run log should be written")
	_, err = os.Stat(filepath.Join(dir, config.DirName, "history.db"))
	assert.True(t, os.IsNotExist(err), "--no-history must not create the database")
}

func TestGenerateIncludeAndExcludeFlags(t *testing.T) {
	dir := setupWorkspace(t)
	writeProject(t, dir, map[string]string{
		"notes.txt":       "a\n",
		"keep/todo.txt":   "b\n",
		"skip/secret.txt": "c\n",
		"app.py":          "print(1)\n",
	})

	_, _, err := execute(t, "generate", "proj", "-o", "out.txt", "--include", ".txt", "--exclude", "skip", "--no-tui", "--no-history")
	require.NoError(t, err)

	content := readFile(t, filepath.Join(dir, "out.txt"))
	assert.Contains(t, content, "### FILE: notes.txt\n")
	assert.Contains(t, content, "### FILE: "+filepath.Join("keep", "todo.txt")+"\n")
	assert.NotContains(t, content, "secret.txt")
	assert.NotContains(t, content, "app.py")
}

func TestGenerateUsesConfigFile(t *testing.T) {
	dir := setupWorkspace(t)
	writeProject(t, dir, map[string]string{"main.go": "package main\n", "app.py": "print(1)\n"})

	cfgPath := config.PathInDir(".")
	require.NoError(t, os.MkdirAll(filepath.Dir(cfgPath), 0755))
	require.NoError(t, os.WriteFile(cfgPath, []byte("output: ctx.md\ninclude: [\".go\"]\nhistory:\n  enabled: false\n"), 0644))

	_, _, err := execute(t, "generate", "proj", "--no-tui")
	require.NoError(t, err)

	content := readFile(t, filepath.Join(dir, "ctx.md"))
	assert.Contains(t, content, "### FILE: main.go\n")
	assert.NotContains(t, content, "app.py")
}

func TestGenerateEnvironmentOverridesConfig(t *testing.T) {
	dir := setupWorkspace(t)
	writeProject(t, dir, sampleProject)
	t.Setenv(config.EnvOutput, "from-env.txt")

	_, _, err := execute(t, "generate", "proj", "--no-tui", "--no-history")
	require.NoError(t, err)
	assert.FileExists(t, filepath.Join(dir, "from-env.txt"))

	// Flags still win over the environment
	_, _, err = execute(t, "generate", "proj", "-o", "from-flag.txt", "--no-tui", "--no-history")
	require.NoError(t, err)
	assert.FileExists(t, filepath.Join(dir, "from-flag.txt"))
}

func TestGenerateInvalidRequests(t *testing.T) {
	dir := setupWorkspace(t)
	writeProject(t, dir, sampleProject)

	_, _, err := execute(t, "generate", "missing", "--no-tui")
	require.Error(t, err)
	assert.True(t, errors.Is(err, consolidator.ErrInvalidRoot))

	_, _, err = execute(t, "generate", "proj", "--log-level", "loud", "--no-tui")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid configuration")

	_, _, err = execute(t, "generate", "proj", "a", "b")
	assert.Error(t, err, "at most one project directory")
}

func TestGenerateRunErrorIsRecorded(t *testing.T) {
	dir := setupWorkspace(t)
	writeProject(t, dir, sampleProject)

	stdout, _, err := execute(t, "generate", "proj", "-o", filepath.Join("no-such-dir", "out.txt"), "--no-tui")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "generation failed")
	assert.Contains(t, stdout, "An error occurred:")

	stdout, _, err = execute(t, "history")
	require.NoError(t, err)
	assert.Contains(t, stdout, "Recent Runs (1 of 1)")
	assert.Contains(t, stdout, "Status: Error")
}

type fakeClipboard struct {
	text string
	err  error
}

func (f *fakeClipboard) WriteAll(text string) error {
	if f.err != nil {
		return f.err
	}
	f.text = text
	return nil
}

type fakeOpener struct {
	opened []string
}

func (f *fakeOpener) Open(path string) error {
	f.opened = append(f.opened, path)
	return nil
}

func TestGenerateCopyAndOpen(t *testing.T) {
	dir := setupWorkspace(t)
	writeProject(t, dir, sampleProject)

	cb := &fakeClipboard{}
	op := &fakeOpener{}
	prevClipboard, prevOpener := newClipboard, newOpener
	newClipboard = func() share.Clipboard { return cb }
	newOpener = func() opener { return op }
	t.Cleanup(func() { newClipboard, newOpener = prevClipboard, prevOpener })

	stdout, _, err := execute(t, "generate", "proj", "-o", "out.txt", "--copy", "--open", "--no-tui", "--no-history")
	require.NoError(t, err)

	content := readFile(t, filepath.Join(dir, "out.txt"))
	assert.Equal(t, content, cb.text)
	assert.Contains(t, stdout, "bytes to the clipboard")
	assert.Equal(t, []string{"out.txt"}, op.opened)
}

func TestGenerateCopyFailure(t *testing.T) {
	dir := setupWorkspace(t)
	writeProject(t, dir, sampleProject)

	prev := newClipboard
	newClipboard = func() share.Clipboard { return &fakeClipboard{err: share.ErrClipboardUnavailable} }
	t.Cleanup(func() { newClipboard = prev })

	_, _, err := execute(t, "generate", "proj", "-o", "out.txt", "--copy", "--no-tui", "--no-history")
	require.Error(t, err)
	assert.True(t, errors.Is(err, share.ErrClipboardUnavailable))
	assert.FileExists(t, filepath.Join(dir, "out.txt"), "the artifact is kept when sharing fails")
}

func TestGenerateSkipsOwnStateDirectory(t *testing.T) {
	dir := setupWorkspace(t)
	writeProject(t, dir, sampleProject)

	_, _, err := execute(t, "init", "proj")
	require.NoError(t, err)
	require.FileExists(t, filepath.Join(dir, "proj", config.DirName, "config.yaml"))

	_, _, err = execute(t, "generate", "proj", "-o", "out.txt", "--no-tui", "--no-history")
	require.NoError(t, err)

	content := readFile(t, filepath.Join(dir, "out.txt"))
	assert.NotContains(t, content, "config.yaml")
	assert.Contains(t, content, "### FILE: app.py\n")
}

func TestGenerateAcceptsUpperCaseLogLevel(t *testing.T) {
	dir := setupWorkspace(t)
	writeProject(t, dir, sampleProject)

	_, stderr, err := execute(t, "generate", "proj", "-o", "out.txt", "--log-level", "DEBUG", "--no-tui", "--no-history")
	require.NoError(t, err)
	assert.Contains(t, stderr, "[DEBUG]")
}
