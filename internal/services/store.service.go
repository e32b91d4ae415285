package services

import (
	"encoding/json"
	"log"
	"os"
	"path/filepath"
	"sync"

	"opsdeck/internal/models"
)

const maxRecentFiles = 10

// State is everything opsdeck persists between runs: saved SSH profiles,
// the editor's recent-file list and the terminal history. Live OS state
// (crontab, process table) is never duplicated here.
type State struct {
	SSHConnections  []models.SSHConnection `json:"ssh_connections"`
	RecentFiles     []string               `json:"recent_files"`
	PreferredEditor string                 `json:"preferred_editor"`
	ShellHistory    []string               `json:"shell_history"`
}

// Store persists State as a single JSON file
type Store struct {
	mu    sync.RWMutex
	path  string
	state State
}

var store *Store

// InitStore loads (or initializes) the state file at path
func InitStore(path string) *Store {
	s := &Store{
		path:  path,
		state: defaultState(),
	}

	data, err := os.ReadFile(path)
	if err == nil {
		if jsonErr := json.Unmarshal(data, &s.state); jsonErr != nil {
			log.Printf("[STORE] Corrupt state file %s, starting fresh: %v", path, jsonErr)
			s.state = defaultState()
		}
	} else if !os.IsNotExist(err) {
		log.Printf("[STORE] Error reading state file %s: %v", path, err)
	}

	store = s
	return s
}

// GetStore returns the initialized store
func GetStore() *Store {
	return store
}

func defaultState() State {
	return State{
		SSHConnections:  []models.SSHConnection{},
		RecentFiles:     []string{},
		PreferredEditor: "nano",
		ShellHistory:    []string{},
	}
}

// save writes the state to disk. Callers must hold s.mu.
func (s *Store) save() error {
	data, err := json.MarshalIndent(s.state, "", "  ")
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(s.path), 0700); err != nil {
		return err
	}
	return os.WriteFile(s.path, data, 0600)
}

// SSHConnections returns a copy of the saved connection profiles
func (s *Store) SSHConnections() []models.SSHConnection {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]models.SSHConnection, len(s.state.SSHConnections))
	copy(out, s.state.SSHConnections)
	return out
}

// FindSSHConnection looks up a saved profile by ID
func (s *Store) FindSSHConnection(id string) (models.SSHConnection, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, c := range s.state.SSHConnections {
		if c.ID == id {
			return c, true
		}
	}
	return models.SSHConnection{}, false
}

// AddSSHConnection appends a profile and persists
func (s *Store) AddSSHConnection(conn models.SSHConnection) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state.SSHConnections = append(s.state.SSHConnections, conn)
	return s.save()
}

// UpdateSSHConnection replaces the profile with the same ID
func (s *Store) UpdateSSHConnection(conn models.SSHConnection) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i, c := range s.state.SSHConnections {
		if c.ID == conn.ID {
			s.state.SSHConnections[i] = conn
			return s.save()
		}
	}
	return ErrConnectionNotFound
}

// DeleteSSHConnection removes the profile with the given ID
func (s *Store) DeleteSSHConnection(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i, c := range s.state.SSHConnections {
		if c.ID == id {
			s.state.SSHConnections = append(s.state.SSHConnections[:i], s.state.SSHConnections[i+1:]...)
			return s.save()
		}
	}
	return ErrConnectionNotFound
}

// RecentFiles returns the recent-file list, most recent first
func (s *Store) RecentFiles() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]string, len(s.state.RecentFiles))
	copy(out, s.state.RecentFiles)
	return out
}

// TouchRecentFile moves (or inserts) a path at the front of the
// recent-file list, keeping at most maxRecentFiles entries.
func (s *Store) TouchRecentFile(path string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	files := []string{path}
	for _, f := range s.state.RecentFiles {
		if f != path {
			files = append(files, f)
		}
	}
	if len(files) > maxRecentFiles {
		files = files[:maxRecentFiles]
	}
	s.state.RecentFiles = files
	return s.save()
}

// PreferredEditor returns the configured terminal editor
func (s *Store) PreferredEditor() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state.PreferredEditor
}

// SetPreferredEditor persists the terminal editor choice
func (s *Store) SetPreferredEditor(editor string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state.PreferredEditor = editor
	return s.save()
}

// ShellHistory returns the persisted terminal history, oldest first
func (s *Store) ShellHistory() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]string, len(s.state.ShellHistory))
	copy(out, s.state.ShellHistory)
	return out
}

// AppendShellHistory records a command, dropping the oldest entries
// beyond max. Consecutive duplicates are collapsed.
func (s *Store) AppendShellHistory(command string, max int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	n := len(s.state.ShellHistory)
	if n > 0 && s.state.ShellHistory[n-1] == command {
		return nil
	}
	s.state.ShellHistory = append(s.state.ShellHistory, command)
	if max > 0 && len(s.state.ShellHistory) > max {
		s.state.ShellHistory = s.state.ShellHistory[len(s.state.ShellHistory)-max:]
	}
	return s.save()
}
