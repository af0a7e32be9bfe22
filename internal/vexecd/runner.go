/**
 * Copyright (c) 2025 The Vortex Authors
 *
 * This program is free software: you can redistribute it and/or modify
 * it under the terms of the GNU Affero General Public License as
 * published by the Free Software Foundation, either version 3 of the
 * License, or (at your option) any later version.
 *
 * This program is distributed in the hope that it will be useful,
 * but WITHOUT ANY WARRANTY; without even the implied warranty of
 * MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
 * GNU Affero General Public License for more details.
 *
 * You should have received a copy of the GNU Affero General Public License
 * along with this program.  If not, see <https://www.gnu.org/licenses/>.
 */

package vexecd

import (
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"sync/atomic"
	"syscall"
	"time"

	log "github.com/sirupsen/logrus"
	"golang.org/x/sys/unix"
)

// JobResult is what the runner reports back to vortexd when the job
// process is gone.
type JobResult struct {
	JobId     uint32        `json:"job_id"`
	ExitCode  int           `json:"exit_code"`
	TimedOut  bool          `json:"timed_out"`
	Elapsed   time.Duration `json:"elapsed"`
	StartTime time.Time     `json:"start_time"`
	EndTime   time.Time     `json:"end_time"`
}

type Runner struct {
	cfg      *Config
	recorder UsageRecorder
}

func NewRunner(cfg *Config, recorder UsageRecorder) *Runner {
	if recorder == nil {
		recorder = NoopRecorder{}
	}
	return &Runner{cfg: cfg, recorder: recorder}
}

// Run executes one job to completion: activate the requested environment,
// enter the working directory, wire the output streams, start the single
// job process and propagate its exit code. The walltime ceiling kills the
// whole process group.
func (r *Runner) Run(payload *ExecPayload) (*JobResult, error) {
	scriptPath, err := r.writeScript(payload)
	if err != nil {
		return nil, err
	}
	defer os.Remove(scriptPath)

	if _, err := os.Stat(payload.Cwd); err != nil {
		return nil, fmt.Errorf("working directory %s not accessible: %w", payload.Cwd, err)
	}

	env, err := BuildJobEnv(os.Environ(), payload.Env, r.cfg.Execd.EnvRoot, payload.EnvName)
	if err != nil {
		return nil, err
	}
	env = append(env,
		fmt.Sprintf("VORTEX_JOB_ID=%d", payload.JobId),
		fmt.Sprintf("VORTEX_JOB_NAME=%s", payload.Name),
		fmt.Sprintf("VORTEX_SUBMIT_DIR=%s", payload.Cwd),
		// PBS-style scripts resolve their working directory through these.
		fmt.Sprintf("PBS_JOBID=%d", payload.JobId),
		fmt.Sprintf("PBS_O_WORKDIR=%s", payload.Cwd),
	)

	stdout, stderr, closeStreams, err := r.openStreams(payload)
	if err != nil {
		return nil, err
	}
	defer closeStreams()

	interpreter := payload.Interpreter
	if interpreter == "" {
		interpreter = "/bin/sh"
	}
	interpArgs := strings.Fields(interpreter)
	interpArgs = append(interpArgs, scriptPath)

	cmd := exec.Command(interpArgs[0], interpArgs[1:]...)
	cmd.Dir = payload.Cwd
	cmd.Env = env
	cmd.Stdout = stdout
	cmd.Stderr = stderr
	// A process group of its own, so the walltime kill reaches every child.
	cmd.SysProcAttr = &syscall.SysProcAttr{Setpgid: true}

	startTime := time.Now()
	if err := cmd.Start(); err != nil {
		return nil, fmt.Errorf("failed to start job process: %w", err)
	}
	pid := cmd.Process.Pid
	log.Infof("Job #%d started: pid %d, interpreter %s", payload.JobId, pid, interpreter)

	if payload.MemLimitBytes > 0 {
		limit := &unix.Rlimit{Cur: payload.MemLimitBytes, Max: payload.MemLimitBytes}
		if err := unix.Prlimit(pid, unix.RLIMIT_AS, limit, nil); err != nil {
			log.Warnf("Failed to apply memory limit to job #%d: %v", payload.JobId, err)
		}
	}

	stopSampling := r.startSampling(payload, pid)

	var timedOut atomic.Bool
	var walltimeTimer *time.Timer
	if payload.TimeLimitSeconds > 0 {
		walltimeTimer = time.AfterFunc(time.Duration(payload.TimeLimitSeconds)*time.Second, func() {
			timedOut.Store(true)
			log.Warnf("Job #%d exceeded its walltime, killing process group %d", payload.JobId, pid)
			killProcessGroup(pid)
		})
	}

	waitErr := cmd.Wait()
	if walltimeTimer != nil {
		walltimeTimer.Stop()
	}
	stopSampling()
	endTime := time.Now()

	result := &JobResult{
		JobId:     payload.JobId,
		ExitCode:  exitCodeFromWait(waitErr),
		TimedOut:  timedOut.Load(),
		Elapsed:   endTime.Sub(startTime),
		StartTime: startTime,
		EndTime:   endTime,
	}

	if err := r.recorder.RecordCompletion(result); err != nil {
		log.Warnf("Failed to record completion of job #%d: %v", payload.JobId, err)
	}

	log.Infof("Job #%d finished: exit code %d, elapsed %s, timed out: %v",
		payload.JobId, result.ExitCode, result.Elapsed.Round(time.Millisecond), result.TimedOut)
	return result, nil
}

func (r *Runner) writeScript(payload *ExecPayload) (string, error) {
	if err := os.MkdirAll(r.cfg.Execd.SpoolDir, 0o755); err != nil {
		return "", fmt.Errorf("failed to create spool dir: %w", err)
	}
	scriptPath := filepath.Join(r.cfg.Execd.SpoolDir, fmt.Sprintf("job.%d.sh", payload.JobId))
	if err := os.WriteFile(scriptPath, []byte(payload.Script), 0o700); err != nil {
		return "", fmt.Errorf("failed to write job script: %w", err)
	}
	return scriptPath, nil
}

// openStreams opens the stdout and stderr targets of the job. Relative
// paths land in the working directory. Truncate is the default open mode.
func (r *Runner) openStreams(payload *ExecPayload) (stdout, stderr *os.File, closeAll func(), err error) {
	flags := os.O_CREATE | os.O_WRONLY
	if payload.OpenModeAppend {
		flags |= os.O_APPEND
	} else {
		flags |= os.O_TRUNC
	}

	outputPath := payload.OutputPath
	if outputPath == "" {
		outputPath = fmt.Sprintf("%d.out", payload.JobId)
	}
	if !filepath.IsAbs(outputPath) {
		outputPath = filepath.Join(payload.Cwd, outputPath)
	}
	stdout, err = os.OpenFile(outputPath, flags, 0o644)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("failed to open output file: %w", err)
	}

	if payload.MergeStderr {
		return stdout, stdout, func() { stdout.Close() }, nil
	}

	errorPath := payload.ErrorPath
	if errorPath == "" {
		errorPath = fmt.Sprintf("%d.err", payload.JobId)
	}
	if !filepath.IsAbs(errorPath) {
		errorPath = filepath.Join(payload.Cwd, errorPath)
	}
	stderr, err = os.OpenFile(errorPath, flags, 0o644)
	if err != nil {
		stdout.Close()
		return nil, nil, nil, fmt.Errorf("failed to open error file: %w", err)
	}

	return stdout, stderr, func() {
		stdout.Close()
		stderr.Close()
	}, nil
}

func (r *Runner) startSampling(payload *ExecPayload, pid int) (stop func()) {
	if !r.cfg.Monitor.Enabled {
		return func() {}
	}

	reader := NewUsageReader(pid)
	done := make(chan struct{})
	go func() {
		ticker := time.NewTicker(r.cfg.Monitor.SamplePeriodDuration())
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				sample, err := reader.Sample()
				if err != nil {
					continue
				}
				sample.JobId = payload.JobId
				if err := r.recorder.RecordSample(sample); err != nil {
					log.Warnf("Failed to record usage sample of job #%d: %v", payload.JobId, err)
				}
			case <-done:
				return
			}
		}
	}()
	return func() { close(done) }
}

func killProcessGroup(pid int) {
	pgid, err := syscall.Getpgid(pid)
	if err != nil || pgid <= 0 {
		pgid = pid
	}
	if err := syscall.Kill(-pgid, syscall.SIGKILL); err != nil {
		syscall.Kill(-pgid, syscall.SIGTERM)
	}
}

// exitCodeFromWait maps the wait outcome to the code reported upstream:
// the script's own exit code, or 128+signal when a signal took it down.
func exitCodeFromWait(waitErr error) int {
	if waitErr == nil {
		return 0
	}

	var exitErr *exec.ExitError
	if errors.As(waitErr, &exitErr) {
		if ws, ok := exitErr.Sys().(syscall.WaitStatus); ok {
			if ws.Signaled() {
				return 128 + int(ws.Signal())
			}
			return ws.ExitStatus()
		}
		return exitErr.ExitCode()
	}
	return 1
}
