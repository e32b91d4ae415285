package services

import (
	"path/filepath"
	"strings"
	"testing"
	"time"

	"opsdeck/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildAuthMethods(t *testing.T) {
	// Password only
	methods, err := BuildAuthMethods("hunter2", "")
	require.NoError(t, err)
	assert.Len(t, methods, 1)

	// Neither credential
	_, err = BuildAuthMethods("", "")
	assert.Error(t, err)

	// Missing key file
	_, err = BuildAuthMethods("", filepath.Join(t.TempDir(), "id_missing"))
	assert.Error(t, err)
}

func TestResolveDialRequestInline(t *testing.T) {
	newTestStore(t)
	m := InitSSHManager(time.Second, "")

	req, err := m.ResolveDialRequest(models.SSHDialRequest{
		Host: "example.com",
		User: "deploy",
	})
	require.NoError(t, err)
	assert.Equal(t, 22, req.Port, "port should default to 22")

	_, err = m.ResolveDialRequest(models.SSHDialRequest{Host: "example.com"})
	assert.Error(t, err, "user is required")

	_, err = m.ResolveDialRequest(models.SSHDialRequest{User: "deploy"})
	assert.Error(t, err, "host is required")
}

func TestResolveDialRequestFromProfile(t *testing.T) {
	s := newTestStore(t)
	m := InitSSHManager(time.Second, "")

	require.NoError(t, s.AddSSHConnection(models.SSHConnection{
		ID:      "prof-1",
		Name:    "staging",
		Host:    "staging.internal",
		User:    "ops",
		Port:    2222,
		KeyPath: "/home/ops/.ssh/id_ed25519",
	}))

	req, err := m.ResolveDialRequest(models.SSHDialRequest{
		ConnectionID: "prof-1",
		Password:     "per-request-secret",
	})
	require.NoError(t, err)
	assert.Equal(t, "staging.internal", req.Host)
	assert.Equal(t, "ops", req.User)
	assert.Equal(t, 2222, req.Port)
	assert.Equal(t, "/home/ops/.ssh/id_ed25519", req.KeyPath)
	assert.Equal(t, "per-request-secret", req.Password)

	// Inline fields win over the profile
	req, err = m.ResolveDialRequest(models.SSHDialRequest{
		ConnectionID: "prof-1",
		User:         "root",
	})
	require.NoError(t, err)
	assert.Equal(t, "root", req.User)

	_, err = m.ResolveDialRequest(models.SSHDialRequest{ConnectionID: "missing"})
	assert.ErrorIs(t, err, ErrConnectionNotFound)
}

func TestSessionRegistry(t *testing.T) {
	m := InitSSHManager(time.Second, "")

	assert.Empty(t, m.ListSessions())

	_, err := m.GetSession("nope")
	assert.ErrorIs(t, err, ErrSessionNotFound)

	assert.ErrorIs(t, m.CloseSession("nope"), ErrSessionNotFound)
}

func TestSessionScrollbackAndFanout(t *testing.T) {
	s := &SSHSession{
		ID:        "test",
		Target:    "ops@example.com:22",
		StartedAt: time.Now(),
		listeners: make(map[string]chan []byte),
	}

	scrollback, ch := s.Attach("viewer")
	assert.Empty(t, scrollback)

	s.pump(strings.NewReader("remote output\n"))

	select {
	case chunk := <-ch:
		assert.Equal(t, "remote output\n", string(chunk))
	case <-time.After(time.Second):
		t.Fatal("listener never received the chunk")
	}

	// A late attach sees prior output as scrollback
	scrollback, _ = s.Attach("late-viewer")
	assert.Equal(t, "remote output\n", string(scrollback))

	s.Detach("viewer")
	_, open := <-ch
	assert.False(t, open, "detach should close the listener channel")
}

func TestClientConfigKnownHostsMissing(t *testing.T) {
	m := InitSSHManager(time.Second, filepath.Join(t.TempDir(), "known_hosts_missing"))

	_, err := m.clientConfig(models.SSHDialRequest{
		Host:     "example.com",
		User:     "deploy",
		Password: "pw",
	})
	assert.Error(t, err, "unreadable known_hosts should fail closed")
}
