package services

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"strings"
	"time"

	"opsdeck/internal/models"
)

// ShellService runs one-shot commands for the integrated terminal. Each
// request is independent; the working directory travels with the request
// so concurrent clients don't fight over a shared chdir.
type ShellService struct {
	timeout     time.Duration
	historySize int
}

var shellService = &ShellService{
	timeout:     30 * time.Second,
	historySize: 100,
}

// InitShellService configures command timeout and history depth
func InitShellService(timeout time.Duration, historySize int) *ShellService {
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	if historySize <= 0 {
		historySize = 100
	}
	shellService = &ShellService{timeout: timeout, historySize: historySize}
	return shellService
}

// GetShellService returns the shell service singleton
func GetShellService() *ShellService {
	return shellService
}

// Run executes a terminal command. cd and pwd are handled in-process,
// everything else goes through the system shell. A nonzero exit code is
// a normal result; only spawn failures are errors.
func (ss *ShellService) Run(ctx context.Context, req models.ShellRequest) (*models.ShellResult, error) {
	workingDir, err := ss.resolveWorkingDir(req.WorkingDir)
	if err != nil {
		return nil, err
	}

	command := strings.TrimSpace(req.Command)
	if command == "" {
		return nil, fmt.Errorf("command is empty")
	}

	if s := GetStore(); s != nil {
		_ = s.AppendShellHistory(command, ss.historySize)
	}

	if result, handled := ss.runBuiltin(command, workingDir); handled {
		return result, nil
	}

	ctx, cancel := context.WithTimeout(ctx, ss.timeout)
	defer cancel()

	var cmd *exec.Cmd
	if runtime.GOOS == "windows" {
		cmd = exec.CommandContext(ctx, "cmd", "/C", command)
	} else {
		cmd = exec.CommandContext(ctx, "sh", "-c", command)
	}
	cmd.Dir = workingDir

	start := time.Now()
	out, runErr := cmd.CombinedOutput()
	result := &models.ShellResult{
		Command:    command,
		Output:     string(out),
		WorkingDir: workingDir,
		Duration:   time.Since(start),
	}

	if ctx.Err() == context.DeadlineExceeded {
		result.TimedOut = true
		result.ExitCode = -1
		return result, nil
	}

	if runErr != nil {
		if exitErr, ok := runErr.(*exec.ExitError); ok {
			result.ExitCode = exitErr.ExitCode()
			return result, nil
		}
		// Spawn failure (shell missing, bad dir): a real error.
		return nil, runErr
	}

	return result, nil
}

// resolveWorkingDir validates the requested directory, defaulting to the
// user's home.
func (ss *ShellService) resolveWorkingDir(dir string) (string, error) {
	if dir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return os.TempDir(), nil
		}
		return home, nil
	}

	info, err := os.Stat(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return "", ErrPathNotFound
		}
		return "", err
	}
	if !info.IsDir() {
		return "", fmt.Errorf("%s is not a directory", dir)
	}
	return dir, nil
}

// runBuiltin handles cd and pwd without spawning a shell. cd answers
// with the resolved directory so the client can carry it into the next
// request.
func (ss *ShellService) runBuiltin(command, workingDir string) (*models.ShellResult, bool) {
	switch {
	case command == "pwd":
		return &models.ShellResult{
			Command:    command,
			Output:     workingDir + "\n",
			WorkingDir: workingDir,
		}, true

	case command == "cd" || strings.HasPrefix(command, "cd "):
		target := strings.TrimSpace(strings.TrimPrefix(command, "cd"))
		resolved, err := resolveCdTarget(target, workingDir)
		if err != nil {
			return &models.ShellResult{
				Command:    command,
				Output:     err.Error() + "\n",
				ExitCode:   1,
				WorkingDir: workingDir,
			}, true
		}
		return &models.ShellResult{
			Command:    command,
			Output:     resolved + "\n",
			WorkingDir: resolved,
		}, true
	}

	return nil, false
}

func resolveCdTarget(target, workingDir string) (string, error) {
	home, _ := os.UserHomeDir()

	switch {
	case target == "" || target == "~":
		target = home
	case strings.HasPrefix(target, "~/"):
		target = filepath.Join(home, target[2:])
	case !filepath.IsAbs(target):
		target = filepath.Join(workingDir, target)
	}

	info, err := os.Stat(target)
	if err != nil {
		return "", fmt.Errorf("directory not found: %s", target)
	}
	if !info.IsDir() {
		return "", fmt.Errorf("not a directory: %s", target)
	}
	return filepath.Clean(target), nil
}

// History returns the persisted terminal history, oldest first
func (ss *ShellService) History() []string {
	if s := GetStore(); s != nil {
		return s.ShellHistory()
	}
	return nil
}
