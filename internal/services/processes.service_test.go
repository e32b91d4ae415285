package services

import (
	"os"
	"os/exec"
	"runtime"
	"testing"
	"time"

	"opsdeck/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestKillProcessNotFound(t *testing.T) {
	err := KillProcess(2147483646, false)
	assert.ErrorIs(t, err, ErrProcessNotFound)

	err = KillProcess(2147483646, true)
	assert.ErrorIs(t, err, ErrProcessNotFound)
}

func TestKillProcessTerminatesChild(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("sleep binary required")
	}

	cmd := exec.Command("sleep", "60")
	require.NoError(t, cmd.Start())
	pid := int32(cmd.Process.Pid)

	require.NoError(t, KillProcess(pid, false))

	done := make(chan error, 1)
	go func() { done <- cmd.Wait() }()
	select {
	case <-done:
	case <-time.After(5 * time.Second):
		cmd.Process.Kill()
		t.Fatal("process did not exit after SIGTERM")
	}
}

func TestListProcessesIncludesSelf(t *testing.T) {
	processes, err := ListProcesses("")
	require.NoError(t, err)
	require.NotEmpty(t, processes)

	self := int32(os.Getpid())
	found := false
	for _, p := range processes {
		if p.PID == self {
			found = true
			break
		}
	}
	assert.True(t, found, "own PID should appear in the unfiltered table")
}

func TestListProcessesFilterMatchesNothing(t *testing.T) {
	processes, err := ListProcesses("no-process-would-ever-be-named-this")
	require.NoError(t, err)
	assert.Empty(t, processes)
}

func TestMapProcessState(t *testing.T) {
	assert.Equal(t, "running", mapProcessState("R"))
	assert.Equal(t, "sleeping", mapProcessState("S"))
	assert.Equal(t, "zombie", mapProcessState("Z"))
	assert.Equal(t, "stopped", mapProcessState("T"))
	assert.Equal(t, "idle", mapProcessState("I"))
	assert.Equal(t, "unknown", mapProcessState(""))
	assert.Equal(t, "weird", mapProcessState("weird"))
}

func TestEnrichSortLimit(t *testing.T) {
	input := []ProcessWithScore{
		{ProcessStatus: models.ProcessStatus{PID: 1, CPUPercent: 1, MemPercent: 1}},
		{ProcessStatus: models.ProcessStatus{PID: 2, CPUPercent: 50, MemPercent: 10}},
		{ProcessStatus: models.ProcessStatus{PID: 3, CPUPercent: 5, MemPercent: 30}},
	}

	sorted := sortByScore(enrichWithScores(input))
	require.Len(t, sorted, 3)
	assert.Equal(t, int32(2), sorted[0].PID)
	assert.Equal(t, int32(3), sorted[1].PID)
	assert.Equal(t, int32(1), sorted[2].PID)

	limited := limitTo(sorted, 2)
	assert.Len(t, limited, 2)
	assert.Len(t, limitTo(sorted, 10), 3)
}

func TestGetProcessCountSimple(t *testing.T) {
	status, err := GetProcessCountSimple()
	require.NoError(t, err)
	require.NotNil(t, status)

	count, ok := status["total_processes"].(int)
	require.True(t, ok)
	assert.Greater(t, count, 0)
}

func TestGetTopProcessesWithTotals(t *testing.T) {
	processes, totalCPU, totalMem, err := GetTopProcessesWithTotals()
	require.NoError(t, err)
	assert.LessOrEqual(t, len(processes), 20)
	assert.GreaterOrEqual(t, totalCPU, 0.0)
	assert.GreaterOrEqual(t, totalMem, 0.0)
}
