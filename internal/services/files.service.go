package services

import (
	"fmt"
	"log"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"sort"

	"opsdeck/internal/models"
)

const maxEditorFileSize = 4 * 1024 * 1024

// ReadFileContent loads a file for the editor view. Missing paths map to
// ErrPathNotFound; directories and oversized files are rejected.
func ReadFileContent(path string) (*models.FileContent, error) {
	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ErrPathNotFound
		}
		return nil, err
	}
	if info.IsDir() {
		return nil, fmt.Errorf("%s is a directory", path)
	}
	if info.Size() > maxEditorFileSize {
		return nil, fmt.Errorf("file too large for editor (%d bytes)", info.Size())
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	if s := GetStore(); s != nil {
		if err := s.TouchRecentFile(path); err != nil {
			log.Printf("[FILES] Could not record recent file: %v", err)
		}
	}

	return &models.FileContent{
		Path:     path,
		Content:  string(data),
		Size:     info.Size(),
		Modified: info.ModTime(),
	}, nil
}

// SaveFileContent writes editor content to disk and records the path as
// recently used.
func SaveFileContent(path, content string) error {
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		return err
	}
	if s := GetStore(); s != nil {
		if err := s.TouchRecentFile(path); err != nil {
			log.Printf("[FILES] Could not record recent file: %v", err)
		}
	}
	return nil
}

// ListDirectory returns the entries of a directory, directories first
func ListDirectory(path string) ([]models.FileEntry, error) {
	if path == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, err
		}
		path = home
	}

	entries, err := os.ReadDir(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ErrPathNotFound
		}
		return nil, err
	}

	out := make([]models.FileEntry, 0, len(entries))
	for _, entry := range entries {
		info, err := entry.Info()
		if err != nil {
			continue
		}
		out = append(out, models.FileEntry{
			Name:     entry.Name(),
			Path:     filepath.Join(path, entry.Name()),
			Size:     info.Size(),
			Mode:     info.Mode().String(),
			IsDir:    entry.IsDir(),
			Modified: info.ModTime(),
		})
	}

	sort.Slice(out, func(i, j int) bool {
		if out[i].IsDir != out[j].IsDir {
			return out[i].IsDir
		}
		return out[i].Name < out[j].Name
	})

	return out, nil
}

// OpenWithDefaultHandler hands a path to the OS default-application
// mechanism (xdg-open and friends). The handler's own failure is
// surfaced as-is; a missing path maps to ErrPathNotFound.
func OpenWithDefaultHandler(path string) error {
	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) {
			return ErrPathNotFound
		}
		return err
	}

	var cmd *exec.Cmd
	switch runtime.GOOS {
	case "darwin":
		cmd = exec.Command("open", path)
	case "windows":
		cmd = exec.Command("cmd", "/c", "start", "", path)
	default:
		cmd = exec.Command("xdg-open", path)
	}

	out, err := cmd.CombinedOutput()
	if err != nil {
		msg := string(out)
		if msg == "" {
			msg = err.Error()
		}
		return fmt.Errorf("no handler opened %s: %s", path, msg)
	}

	log.Printf("[FILES] Opened %s with default handler", path)
	return nil
}

// terminalEmulators are tried in order when launching the editor in a
// new terminal window
var terminalEmulators = [][]string{
	{"gnome-terminal", "--"},
	{"xterm", "-e"},
	{"konsole", "-e"},
	{"lxterminal", "-e"},
	{"xfce4-terminal", "-e"},
}

// OpenInTerminalEditor launches the configured editor on a path, inside
// a terminal emulator when one is available. Returns the editor command
// that was used. A missing path maps to ErrPathNotFound.
func OpenInTerminalEditor(path string) (string, error) {
	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) {
			return "", ErrPathNotFound
		}
		return "", err
	}

	editor := "nano"
	if s := GetStore(); s != nil {
		editor = s.PreferredEditor()
	}

	if runtime.GOOS == "windows" {
		cmd := exec.Command("cmd", "/c", "start", "cmd", "/k", editor, path)
		if err := cmd.Start(); err != nil {
			return "", fmt.Errorf("could not launch %s: %w", editor, err)
		}
		go cmd.Wait()
		touchAfterOpen(editor, path)
		return editor, nil
	}

	for _, term := range terminalEmulators {
		if _, err := exec.LookPath(term[0]); err != nil {
			continue
		}
		args := append(term[1:], editor, path)
		cmd := exec.Command(term[0], args...)
		if err := cmd.Start(); err != nil {
			continue
		}
		go cmd.Wait()
		touchAfterOpen(editor, path)
		return editor, nil
	}

	// No terminal emulator found, run the editor directly
	cmd := exec.Command(editor, path)
	if err := cmd.Start(); err != nil {
		return "", fmt.Errorf("could not launch %s: %w", editor, err)
	}
	go cmd.Wait()
	touchAfterOpen(editor, path)
	return editor, nil
}

func touchAfterOpen(editor, path string) {
	if s := GetStore(); s != nil {
		if err := s.TouchRecentFile(path); err != nil {
			log.Printf("[FILES] Could not record recent file: %v", err)
		}
	}
	log.Printf("[FILES] Opened %s in %s", path, editor)
}
