package services

import (
	"bytes"
	"fmt"
	"io"
	"log"
	"net"
	"os"
	"strings"
	"sync"
	"time"

	"opsdeck/internal/models"

	"github.com/google/uuid"
	"golang.org/x/crypto/ssh"
	"golang.org/x/crypto/ssh/knownhosts"
)

// SSHSession is one interactive remote shell. Output is accumulated in a
// bounded buffer and also fanned out to attached listeners (the
// WebSocket stream), so a late attach still sees the scrollback.
type SSHSession struct {
	ID        string
	Target    string
	StartedAt time.Time

	client  *ssh.Client
	session *ssh.Session
	stdin   io.WriteCloser

	mu        sync.Mutex
	buffer    bytes.Buffer
	listeners map[string]chan []byte
	closed    bool
}

const sessionBufferLimit = 256 * 1024

// SSHManager owns the live session registry and dial settings
type SSHManager struct {
	mu          sync.RWMutex
	sessions    map[string]*SSHSession
	dialTimeout time.Duration
	knownHosts  string
}

var sshManager = &SSHManager{
	sessions:    make(map[string]*SSHSession),
	dialTimeout: 10 * time.Second,
}

// InitSSHManager configures dial timeout and optional known_hosts path.
// An empty knownHosts path disables host-key verification.
func InitSSHManager(dialTimeout time.Duration, knownHosts string) *SSHManager {
	if dialTimeout <= 0 {
		dialTimeout = 10 * time.Second
	}
	sshManager = &SSHManager{
		sessions:    make(map[string]*SSHSession),
		dialTimeout: dialTimeout,
		knownHosts:  knownHosts,
	}
	return sshManager
}

// GetSSHManager returns the SSH manager singleton
func GetSSHManager() *SSHManager {
	return sshManager
}

// ResolveDialRequest merges a saved profile (when connection_id is set)
// with the inline fields of the request. Password always comes from the
// request, profiles never hold one.
func (m *SSHManager) ResolveDialRequest(req models.SSHDialRequest) (models.SSHDialRequest, error) {
	if req.ConnectionID != "" {
		conn, found := GetStore().FindSSHConnection(req.ConnectionID)
		if !found {
			return req, ErrConnectionNotFound
		}
		if req.Host == "" {
			req.Host = conn.Host
		}
		if req.User == "" {
			req.User = conn.User
		}
		if req.Port == 0 {
			req.Port = conn.Port
		}
		if req.KeyPath == "" {
			req.KeyPath = conn.KeyPath
		}
	}
	if req.Port == 0 {
		req.Port = 22
	}
	if req.Host == "" || req.User == "" {
		return req, fmt.Errorf("host and user are required")
	}
	return req, nil
}

// clientConfig builds the ssh.ClientConfig for a resolved request
func (m *SSHManager) clientConfig(req models.SSHDialRequest) (*ssh.ClientConfig, error) {
	auth, err := BuildAuthMethods(req.Password, req.KeyPath)
	if err != nil {
		return nil, err
	}

	hostKeyCallback := ssh.InsecureIgnoreHostKey()
	if m.knownHosts != "" {
		cb, khErr := knownhosts.New(m.knownHosts)
		if khErr != nil {
			return nil, fmt.Errorf("known_hosts: %w", khErr)
		}
		hostKeyCallback = cb
	}

	return &ssh.ClientConfig{
		User:            req.User,
		Auth:            auth,
		HostKeyCallback: hostKeyCallback,
		Timeout:         m.dialTimeout,
	}, nil
}

// BuildAuthMethods assembles the auth chain from an optional password
// and an optional private-key path.
func BuildAuthMethods(password, keyPath string) ([]ssh.AuthMethod, error) {
	var methods []ssh.AuthMethod

	if keyPath != "" {
		keyData, err := os.ReadFile(keyPath)
		if err != nil {
			return nil, fmt.Errorf("read key file: %w", err)
		}
		signer, err := ssh.ParsePrivateKey(keyData)
		if err != nil {
			return nil, fmt.Errorf("parse key file: %w", err)
		}
		methods = append(methods, ssh.PublicKeys(signer))
	}

	if password != "" {
		methods = append(methods, ssh.Password(password))
	}

	if len(methods) == 0 {
		return nil, fmt.Errorf("no credentials: provide a password or key_path")
	}
	return methods, nil
}

// dial opens an authenticated client connection
func (m *SSHManager) dial(req models.SSHDialRequest) (*ssh.Client, error) {
	cfg, err := m.clientConfig(req)
	if err != nil {
		return nil, err
	}
	addr := net.JoinHostPort(req.Host, fmt.Sprintf("%d", req.Port))
	client, err := ssh.Dial("tcp", addr, cfg)
	if err != nil {
		return nil, err
	}
	return client, nil
}

// TestConnection dials, runs a probe command and disconnects. Any
// failure is returned with the client's own message; no session remains
// open either way.
func (m *SSHManager) TestConnection(req models.SSHDialRequest) error {
	resolved, err := m.ResolveDialRequest(req)
	if err != nil {
		return err
	}

	client, err := m.dial(resolved)
	if err != nil {
		return err
	}
	defer client.Close()

	session, err := client.NewSession()
	if err != nil {
		return err
	}
	defer session.Close()

	if err := session.Run("echo ok"); err != nil {
		return err
	}
	return nil
}

// Exec runs a single command over a fresh connection and returns its
// combined output and exit code. A nonzero remote exit code is a normal
// result, not an error.
func (m *SSHManager) Exec(req models.SSHExecRequest) (*models.SSHExecResult, error) {
	resolved, err := m.ResolveDialRequest(req.SSHDialRequest)
	if err != nil {
		return nil, err
	}

	client, err := m.dial(resolved)
	if err != nil {
		return nil, err
	}
	defer client.Close()

	session, err := client.NewSession()
	if err != nil {
		return nil, err
	}
	defer session.Close()

	start := time.Now()
	out, err := session.CombinedOutput(req.Command)
	result := &models.SSHExecResult{
		Output:   string(out),
		Duration: time.Since(start),
	}
	if err != nil {
		exitErr, ok := err.(*ssh.ExitError)
		if !ok {
			return nil, err
		}
		result.ExitCode = exitErr.ExitStatus()
	}
	return result, nil
}

// OpenSession dials and starts an interactive shell with a PTY,
// registering it under a fresh ID. On any failure the connection is torn
// down before returning, so a failed open never leaves a session behind.
func (m *SSHManager) OpenSession(req models.SSHDialRequest) (*SSHSession, error) {
	resolved, err := m.ResolveDialRequest(req)
	if err != nil {
		return nil, err
	}

	client, err := m.dial(resolved)
	if err != nil {
		return nil, err
	}

	session, err := client.NewSession()
	if err != nil {
		client.Close()
		return nil, err
	}

	modes := ssh.TerminalModes{
		ssh.ECHO:          1,
		ssh.TTY_OP_ISPEED: 14400,
		ssh.TTY_OP_OSPEED: 14400,
	}
	if err := session.RequestPty("xterm", 40, 120, modes); err != nil {
		session.Close()
		client.Close()
		return nil, err
	}

	stdin, err := session.StdinPipe()
	if err != nil {
		session.Close()
		client.Close()
		return nil, err
	}

	stdout, err := session.StdoutPipe()
	if err != nil {
		session.Close()
		client.Close()
		return nil, err
	}
	stderr, err := session.StderrPipe()
	if err != nil {
		session.Close()
		client.Close()
		return nil, err
	}

	if err := session.Shell(); err != nil {
		session.Close()
		client.Close()
		return nil, err
	}

	s := &SSHSession{
		ID:        uuid.NewString(),
		Target:    fmt.Sprintf("%s@%s:%d", resolved.User, resolved.Host, resolved.Port),
		StartedAt: time.Now(),
		client:    client,
		session:   session,
		stdin:     stdin,
		listeners: make(map[string]chan []byte),
	}

	go s.pump(stdout)
	go s.pump(stderr)
	go func() {
		// Reap the session when the remote shell exits.
		_ = session.Wait()
		m.CloseSession(s.ID)
	}()

	m.mu.Lock()
	m.sessions[s.ID] = s
	m.mu.Unlock()

	log.Printf("[SSH] Session %s opened to %s", s.ID, s.Target)
	return s, nil
}

// pump copies remote output into the scrollback buffer and listeners
func (s *SSHSession) pump(r io.Reader) {
	buf := make([]byte, 4096)
	for {
		n, err := r.Read(buf)
		if n > 0 {
			chunk := make([]byte, n)
			copy(chunk, buf[:n])

			s.mu.Lock()
			s.buffer.Write(chunk)
			if s.buffer.Len() > sessionBufferLimit {
				trimmed := s.buffer.Bytes()[s.buffer.Len()-sessionBufferLimit:]
				var nb bytes.Buffer
				nb.Write(trimmed)
				s.buffer = nb
			}
			for _, ch := range s.listeners {
				select {
				case ch <- chunk:
				default:
					// Listener is slow, drop the chunk for it.
				}
			}
			s.mu.Unlock()
		}
		if err != nil {
			return
		}
	}
}

// Attach registers an output listener and returns the scrollback so far
func (s *SSHSession) Attach(listenerID string) ([]byte, <-chan []byte) {
	ch := make(chan []byte, 64)
	s.mu.Lock()
	defer s.mu.Unlock()
	s.listeners[listenerID] = ch
	scrollback := make([]byte, s.buffer.Len())
	copy(scrollback, s.buffer.Bytes())
	return scrollback, ch
}

// Detach removes an output listener
func (s *SSHSession) Detach(listenerID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if ch, ok := s.listeners[listenerID]; ok {
		delete(s.listeners, listenerID)
		close(ch)
	}
}

// WriteInput sends a line to the remote shell's stdin
func (s *SSHSession) WriteInput(input string) error {
	s.mu.Lock()
	closed := s.closed
	s.mu.Unlock()
	if closed {
		return ErrSessionNotFound
	}
	if !strings.HasSuffix(input, "\n") {
		input += "\n"
	}
	_, err := s.stdin.Write([]byte(input))
	return err
}

// Info returns the session's descriptive record
func (s *SSHSession) Info() models.SSHSessionInfo {
	return models.SSHSessionInfo{
		ID:        s.ID,
		Target:    s.Target,
		StartedAt: s.StartedAt,
	}
}

// GetSession looks up an active session
func (m *SSHManager) GetSession(id string) (*SSHSession, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	s, ok := m.sessions[id]
	if !ok {
		return nil, ErrSessionNotFound
	}
	return s, nil
}

// ListSessions returns the active session records
func (m *SSHManager) ListSessions() []models.SSHSessionInfo {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]models.SSHSessionInfo, 0, len(m.sessions))
	for _, s := range m.sessions {
		out = append(out, s.Info())
	}
	return out
}

// CloseSession tears down a session and removes it from the registry
func (m *SSHManager) CloseSession(id string) error {
	m.mu.Lock()
	s, ok := m.sessions[id]
	if ok {
		delete(m.sessions, id)
	}
	m.mu.Unlock()

	if !ok {
		return ErrSessionNotFound
	}

	s.mu.Lock()
	s.closed = true
	for lid, ch := range s.listeners {
		delete(s.listeners, lid)
		close(ch)
	}
	s.mu.Unlock()

	s.session.Close()
	s.client.Close()
	log.Printf("[SSH] Session %s to %s closed", s.ID, s.Target)
	return nil
}

// CloseAllSessions tears down every active session (shutdown path)
func (m *SSHManager) CloseAllSessions() {
	m.mu.RLock()
	ids := make([]string, 0, len(m.sessions))
	for id := range m.sessions {
		ids = append(ids, id)
	}
	m.mu.RUnlock()

	for _, id := range ids {
		_ = m.CloseSession(id)
	}
}
