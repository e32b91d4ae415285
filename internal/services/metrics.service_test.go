package services

import (
	"os"
	"path/filepath"
	"runtime"
	"testing"
	"time"

	"opsdeck/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetMemoryUsage(t *testing.T) {
	memory, err := GetMemoryUsage()
	require.NoError(t, err)
	assert.Greater(t, memory.TotalGB, 0.0)
	assert.GreaterOrEqual(t, memory.UsagePercent, 0.0)
	assert.LessOrEqual(t, memory.UsagePercent, 100.0)
}

func TestGetDiskUsage(t *testing.T) {
	disk, err := GetDiskUsage("/")
	require.NoError(t, err)
	assert.Equal(t, "/", disk.Path)
	assert.Greater(t, disk.TotalGB, 0.0)
}

func TestGetDiskUsageDefaultsToRoot(t *testing.T) {
	disk, err := GetDiskUsage("")
	require.NoError(t, err)
	assert.Equal(t, "/", disk.Path)
}

func TestGetHostStatus(t *testing.T) {
	host, err := GetHostStatus()
	require.NoError(t, err)
	assert.NotEmpty(t, host.Hostname)
	assert.NotEmpty(t, host.OS)
}

func TestGetSystemStatus(t *testing.T) {
	system, err := GetSystemStatus()
	require.NoError(t, err)
	require.NotNil(t, system.CPU)
	require.NotNil(t, system.Memory)
	require.NotNil(t, system.Disk)
}

func TestGetSystemLogsFromFile(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("tail binary required")
	}

	logFile := filepath.Join(t.TempDir(), "syslog")
	content := "Aug 29 10:00:01 host kernel: boot\n" +
		"Aug 29 10:00:02 host sshd[12]: session opened\n" +
		"Aug 29 10:00:03 host systemd[1]: started unit\n"
	require.NoError(t, os.WriteFile(logFile, []byte(content), 0o644))

	saved := systemLogSources
	systemLogSources = []string{logFile}
	defer func() { systemLogSources = saved }()

	source, lines, err := GetSystemLogs(2)
	require.NoError(t, err)
	assert.Equal(t, logFile, source)
	require.Len(t, lines, 2)
	assert.Contains(t, lines[0], "session opened")
	assert.Contains(t, lines[1], "started unit")
}

func TestHistoryTrim(t *testing.T) {
	points := make([]models.CPUHistory, 0, 10)
	base := time.Now()
	for i := 0; i < 10; i++ {
		points = append(points, models.CPUHistory{Timestamp: base.Add(time.Duration(i) * time.Second), Usage: float64(i)})
	}

	trimmed := trimCPU(points, 4)
	require.Len(t, trimmed, 4)
	assert.Equal(t, 6.0, trimmed[0].Usage, "oldest points should be dropped first")

	assert.Len(t, trimCPU(points, 20), 10)
}

func TestGetHistoricalDataUnknownMetric(t *testing.T) {
	assert.Nil(t, GetHistoricalData("bogus", time.Minute))
	assert.NotNil(t, GetAllHistoricalData(time.Minute))
}
