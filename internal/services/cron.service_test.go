package services

import (
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateSchedule(t *testing.T) {
	valid := []string{
		"* * * * *",
		"*/5 * * * *",
		"0 9 * * *",
		"30 18 * * 5",
		"0 0 1 1 *",
		"0,15,30,45 * * * *",
		"0 9-17 * * 1-5",
		"59 23 31 12 6",
	}
	for _, schedule := range valid {
		assert.NoError(t, ValidateSchedule(schedule), "schedule %q should be valid", schedule)
	}

	invalid := []string{
		"",
		"* * * *",
		"* * * * * *",
		"60 * * * *",
		"* 24 * * *",
		"* * 0 * *",
		"* * 32 * *",
		"* * * 13 *",
		"* * * * 7",
		"abc * * * *",
		"*/0 * * * *",
		"10-5 * * * *",
		"1,2,99 * * * *",
	}
	for _, schedule := range invalid {
		err := ValidateSchedule(schedule)
		require.Error(t, err, "schedule %q should be rejected", schedule)
		assert.ErrorIs(t, err, ErrInvalidSchedule)
	}
}

func TestDescribeSchedule(t *testing.T) {
	cases := map[string]string{
		"* * * * *":    "Every minute",
		"0 * * * *":    "Every hour",
		"0 0 * * *":    "Daily at midnight (00:00)",
		"0 9 * * *":    "Daily at 9:00 AM",
		"0 0 * * 0":    "Weekly on Sunday at midnight",
		"0 0 1 * *":    "Monthly on the 1st day at midnight",
		"*/15 * * * *": "Every 15 minutes",
		"0 */2 * * *":  "Every 2 hours",
		"30 14 * * *":  "at 14:30",
		"0 8 * * 1":    "at 08:00 on Monday",
		"0 0 15 6 *":   "at 00:00 on day 15 in June",
		"bad":          "Invalid schedule format",
	}
	for schedule, want := range cases {
		assert.Equal(t, want, DescribeSchedule(schedule))
	}
}

func TestPreviewSchedule(t *testing.T) {
	preview := PreviewSchedule("*/10 * * * *")
	assert.True(t, preview.Valid)
	assert.Equal(t, "Every 10 minutes", preview.Description)
	assert.Empty(t, preview.Error)

	preview = PreviewSchedule("99 * * * *")
	assert.False(t, preview.Valid)
	assert.Empty(t, preview.Description)
	assert.NotEmpty(t, preview.Error)
}

func TestSplitCronLine(t *testing.T) {
	schedule, command, ok := SplitCronLine("*/5 * * * * /usr/local/bin/backup.sh --full")
	require.True(t, ok)
	assert.Equal(t, "*/5 * * * *", schedule)
	assert.Equal(t, "/usr/local/bin/backup.sh --full", command)

	// Tab-separated fields
	schedule, command, ok = SplitCronLine("0\t9\t*\t*\t1\techo hello world")
	require.True(t, ok)
	assert.Equal(t, "0 9 * * 1", schedule)
	assert.Equal(t, "echo hello world", command)

	_, _, ok = SplitCronLine("* * * *")
	assert.False(t, ok, "line with fewer than 5 fields plus command should not split")

	_, _, ok = SplitCronLine("* * * * *")
	assert.False(t, ok, "schedule without a command should not split")
}

func TestActiveLines(t *testing.T) {
	content := "# daily backups\n*/5 * * * * /backup.sh\n\n  # another comment\n0 9 * * * echo hi\n"
	lines := activeLines(content)
	require.Len(t, lines, 2)
	assert.Equal(t, "*/5 * * * * /backup.sh", lines[0])
	assert.Equal(t, "0 9 * * * echo hi", lines[1])
}

func TestReplaceActiveLine(t *testing.T) {
	content := "# keep me\n*/5 * * * * first.sh\n0 9 * * * second.sh\n"

	updated, err := replaceActiveLine(content, 1, "0 18 * * * replaced.sh")
	require.NoError(t, err)
	assert.Contains(t, updated, "# keep me")
	assert.Contains(t, updated, "*/5 * * * * first.sh")
	assert.Contains(t, updated, "0 18 * * * replaced.sh")
	assert.NotContains(t, updated, "second.sh")

	// Removal
	updated, err = replaceActiveLine(content, 0, "")
	require.NoError(t, err)
	assert.NotContains(t, updated, "first.sh")
	assert.Contains(t, updated, "second.sh")

	// Out of range
	_, err = replaceActiveLine(content, 5, "x")
	assert.ErrorIs(t, err, ErrCronJobNotFound)
}

func TestReplaceActiveLineSkipsNonJobLines(t *testing.T) {
	content := "MAILTO=admin@example.com\n" +
		"PATH=/usr/local/bin:/usr/bin\n" +
		"*/5 * * * * /backup.sh\n" +
		"@reboot /warmup.sh\n" +
		"0 9 * * * second.sh\n"

	// Index 0 is the first parseable job, not the MAILTO line
	updated, err := replaceActiveLine(content, 0, "")
	require.NoError(t, err)
	assert.Contains(t, updated, "MAILTO=admin@example.com")
	assert.Contains(t, updated, "PATH=/usr/local/bin:/usr/bin")
	assert.Contains(t, updated, "@reboot /warmup.sh")
	assert.NotContains(t, updated, "/backup.sh")
	assert.Contains(t, updated, "second.sh")

	// Index 1 is the last job; env lines and @-directives stay untouched
	updated, err = replaceActiveLine(content, 1, "")
	require.NoError(t, err)
	assert.Contains(t, updated, "/backup.sh")
	assert.NotContains(t, updated, "second.sh")

	// Only two lines are addressable
	_, err = replaceActiveLine(content, 2, "")
	assert.ErrorIs(t, err, ErrCronJobNotFound)
}

func TestDeleteJobPreservesEnvLines(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("stub crontab script requires a unix shell")
	}

	dir := t.TempDir()
	current := filepath.Join(dir, "current")
	written := filepath.Join(dir, "written")
	stub := filepath.Join(dir, "crontab")

	require.NoError(t, os.WriteFile(current,
		[]byte("MAILTO=admin@example.com\n*/5 * * * * /backup.sh\n"), 0o644))
	script := "#!/bin/sh\n" +
		"if [ \"$1\" = \"-l\" ]; then cat " + current + "; fi\n" +
		"if [ \"$1\" = \"-\" ]; then cat > " + written + "; fi\n"
	require.NoError(t, os.WriteFile(stub, []byte(script), 0o755))

	cs := InitCronService(stub)
	defer InitCronService("crontab")

	jobs, err := cs.ListJobs()
	require.NoError(t, err)
	require.Len(t, jobs, 1)
	assert.Equal(t, "/backup.sh", jobs[0].Command)

	// Deleting the job ListJobs reported at index 0 removes that job
	// and keeps the MAILTO line
	require.NoError(t, cs.DeleteJob(0))

	installed, err := os.ReadFile(written)
	require.NoError(t, err)
	assert.Contains(t, string(installed), "MAILTO=admin@example.com")
	assert.NotContains(t, string(installed), "/backup.sh")
}

func TestListJobsWithStubBinary(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("stub crontab script requires a unix shell")
	}

	stub := filepath.Join(t.TempDir(), "crontab")
	script := "#!/bin/sh\nif [ \"$1\" = \"-l\" ]; then\n" +
		"printf '# maintenance\\n*/5 * * * * /usr/local/bin/backup.sh\\n0 9 * * 1 echo hello\\n'\nfi\n"
	require.NoError(t, os.WriteFile(stub, []byte(script), 0o755))

	cs := InitCronService(stub)
	defer InitCronService("crontab")

	jobs, err := cs.ListJobs()
	require.NoError(t, err)
	require.Len(t, jobs, 2)

	assert.Equal(t, 0, jobs[0].Index)
	assert.Equal(t, "*/5 * * * *", jobs[0].Schedule)
	assert.Equal(t, "/usr/local/bin/backup.sh", jobs[0].Command)
	assert.Equal(t, "Every 5 minutes", jobs[0].Description)

	assert.Equal(t, 1, jobs[1].Index)
	assert.Equal(t, "0 9 * * 1", jobs[1].Schedule)
	assert.Equal(t, "echo hello", jobs[1].Command)
}

func TestAddJobInvalidScheduleNeverTouchesCrontab(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("stub crontab script requires a unix shell")
	}

	dir := t.TempDir()
	marker := filepath.Join(dir, "invoked")
	stub := filepath.Join(dir, "crontab")
	script := "#!/bin/sh\ntouch " + marker + "\n"
	require.NoError(t, os.WriteFile(stub, []byte(script), 0o755))

	cs := InitCronService(stub)
	defer InitCronService("crontab")

	err := cs.AddJob("61 * * * *", "echo nope")
	require.ErrorIs(t, err, ErrInvalidSchedule)

	_, statErr := os.Stat(marker)
	assert.True(t, os.IsNotExist(statErr), "crontab binary must not run for an invalid schedule")

	err = cs.AddJob("* * * * *", "   ")
	require.ErrorIs(t, err, ErrInvalidSchedule)
	_, statErr = os.Stat(marker)
	assert.True(t, os.IsNotExist(statErr))
}

func TestListJobsEmptyCrontab(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("stub crontab script requires a unix shell")
	}

	stub := filepath.Join(t.TempDir(), "crontab")
	script := "#!/bin/sh\necho 'no crontab for nobody' >&2\nexit 1\n"
	require.NoError(t, os.WriteFile(stub, []byte(script), 0o755))

	cs := InitCronService(stub)
	defer InitCronService("crontab")

	jobs, err := cs.ListJobs()
	require.NoError(t, err)
	assert.Empty(t, jobs)
}
