package services

import (
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReadFileContent(t *testing.T) {
	newTestStore(t)

	path := filepath.Join(t.TempDir(), "notes.txt")
	require.NoError(t, os.WriteFile(path, []byte("hello world"), 0o644))

	content, err := ReadFileContent(path)
	require.NoError(t, err)
	assert.Equal(t, path, content.Path)
	assert.Equal(t, "hello world", content.Content)
	assert.Equal(t, int64(11), content.Size)

	// Reading records the file as recent
	assert.Equal(t, []string{path}, GetStore().RecentFiles())
}

func TestReadFileContentMissing(t *testing.T) {
	newTestStore(t)

	_, err := ReadFileContent(filepath.Join(t.TempDir(), "nope.txt"))
	assert.ErrorIs(t, err, ErrPathNotFound)
}

func TestReadFileContentRejectsDirectory(t *testing.T) {
	newTestStore(t)

	_, err := ReadFileContent(t.TempDir())
	assert.Error(t, err)
	assert.NotErrorIs(t, err, ErrPathNotFound)
}

func TestSaveFileContent(t *testing.T) {
	newTestStore(t)

	path := filepath.Join(t.TempDir(), "out.txt")
	require.NoError(t, SaveFileContent(path, "saved"))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "saved", string(data))
	assert.Equal(t, []string{path}, GetStore().RecentFiles())
}

func TestListDirectory(t *testing.T) {
	newTestStore(t)

	dir := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "zdir"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "afile.txt"), []byte("x"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "bfile.txt"), []byte("y"), 0o644))

	entries, err := ListDirectory(dir)
	require.NoError(t, err)
	require.Len(t, entries, 3)

	// Directories sort first, then names ascending
	assert.Equal(t, "zdir", entries[0].Name)
	assert.True(t, entries[0].IsDir)
	assert.Equal(t, "afile.txt", entries[1].Name)
	assert.Equal(t, "bfile.txt", entries[2].Name)
	assert.Equal(t, filepath.Join(dir, "afile.txt"), entries[1].Path)
}

func TestListDirectoryMissing(t *testing.T) {
	newTestStore(t)

	_, err := ListDirectory(filepath.Join(t.TempDir(), "gone"))
	assert.ErrorIs(t, err, ErrPathNotFound)
}

func TestOpenWithDefaultHandlerMissingPath(t *testing.T) {
	err := OpenWithDefaultHandler(filepath.Join(t.TempDir(), "ghost.pdf"))
	assert.ErrorIs(t, err, ErrPathNotFound)
}

func TestOpenInTerminalEditorMissingPath(t *testing.T) {
	newTestStore(t)

	_, err := OpenInTerminalEditor(filepath.Join(t.TempDir(), "ghost.txt"))
	assert.ErrorIs(t, err, ErrPathNotFound)
}

func TestOpenInTerminalEditorRunsConfiguredEditor(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("stub editor script requires a unix shell")
	}

	newTestStore(t)

	dir := t.TempDir()
	marker := filepath.Join(dir, "marker")
	stub := filepath.Join(dir, "editor")
	script := "#!/bin/sh\necho \"$1\" > " + marker + "\n"
	require.NoError(t, os.WriteFile(stub, []byte(script), 0o755))

	target := filepath.Join(dir, "notes.txt")
	require.NoError(t, os.WriteFile(target, []byte("hi"), 0o644))

	require.NoError(t, GetStore().SetPreferredEditor(stub))

	// Skip the emulator list so the stub editor runs directly
	saved := terminalEmulators
	terminalEmulators = nil
	defer func() { terminalEmulators = saved }()

	editor, err := OpenInTerminalEditor(target)
	require.NoError(t, err)
	assert.Equal(t, stub, editor)
	assert.Equal(t, []string{target}, GetStore().RecentFiles())

	// The editor is started detached; wait for it to touch the marker
	deadline := time.Now().Add(5 * time.Second)
	for {
		if data, err := os.ReadFile(marker); err == nil {
			assert.Equal(t, target, strings.TrimSpace(string(data)))
			break
		}
		if time.Now().After(deadline) {
			t.Fatal("stub editor never ran")
		}
		time.Sleep(20 * time.Millisecond)
	}
}
