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

package vlog

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"strconv"
	"syscall"

	"github.com/nxadm/tail"

	"VortexFrontEnd/internal/api"
	"VortexFrontEnd/internal/util"
)

const defaultLogPattern = "%d.out"

// ResolveLogPath decides which file holds the requested stream of the job.
// Relative paths are taken relative to the job's working directory. A job
// with merged stderr always reads the output stream.
func ResolveLogPath(job *api.JobInfo, stderr bool) (string, error) {
	if job.Cwd == "" && job.OutputPath == "" {
		return "", fmt.Errorf("job %d has no working directory on record", job.JobId)
	}

	path := job.OutputPath
	if stderr {
		if job.ErrorPath == "" {
			// Merged or defaulted stderr shares the output file.
			path = job.OutputPath
		} else {
			path = job.ErrorPath
		}
	}
	if path == "" {
		path = fmt.Sprintf(defaultLogPattern, job.JobId)
	}

	if !filepath.IsAbs(path) {
		path = filepath.Join(job.Cwd, path)
	}
	return path, nil
}

func ShowLog(jobIdStr string) error {
	jobId, err := strconv.ParseUint(jobIdStr, 10, 32)
	if err != nil {
		return util.WrapVortexErr(util.ErrorCmdArg, "Invalid job id given: %s", jobIdStr)
	}

	config := util.ParseConfig(FlagConfigFilePath)
	client := api.NewClient(config)

	reply, err := client.QueryJobs(context.Background(), &api.QueryJobsRequest{
		JobIds:           []uint32{uint32(jobId)},
		IncludeCompleted: true,
	})
	if err != nil {
		return err
	}
	if !reply.Ok {
		return util.WrapVortexErr(util.ErrorBackend, "Failed to query job %d: %s", jobId, reply.Reason)
	}
	if len(reply.Jobs) == 0 {
		return util.WrapVortexErr(util.ErrorBackend, "Job %d not found", jobId)
	}
	job := reply.Jobs[0]

	if job.State == api.JobStatePending {
		return util.WrapVortexErr(util.ErrorBackend,
			"Job %d is still pending and has produced no output", jobId)
	}

	logPath, err := ResolveLogPath(job, FlagStderr)
	if err != nil {
		return util.WrapVortexErr(util.ErrorBackend, "%s", err)
	}

	finished := job.State != api.JobStateRunning && job.State != api.JobStateCompleting
	if FlagNoFollow || finished {
		return printLogFile(logPath, FlagTailLines)
	}
	return followLogFile(logPath, FlagTailLines)
}

func printLogFile(logPath string, tailLines int) error {
	lines, err := readLogFile(logPath, tailLines)
	if err != nil {
		return util.WrapVortexErr(util.ErrorBackend, "Failed to read log file: %s", err)
	}
	for _, line := range lines {
		fmt.Println(line)
	}
	return nil
}

func readLogFile(logPath string, tailLines int) ([]string, error) {
	file, err := os.Open(logPath)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	var lines []string
	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		lines = append(lines, scanner.Text())
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}

	if tailLines > 0 && len(lines) > tailLines {
		lines = lines[len(lines)-tailLines:]
	}
	return lines, nil
}

func followLogFile(logPath string, tailLines int) error {
	// Show the trailing context first, then follow from the end.
	if tailLines > 0 {
		if lines, err := readLogFile(logPath, tailLines); err == nil {
			for _, line := range lines {
				fmt.Println(line)
			}
		}
	}

	config := tail.Config{
		Follow:    true,
		ReOpen:    true,
		Poll:      true, // shared filesystems do not deliver inotify events reliably
		MustExist: false,
	}
	if tailLines > 0 {
		config.Location = &tail.SeekInfo{Whence: io.SeekEnd}
	} else {
		config.Location = &tail.SeekInfo{Whence: io.SeekStart}
	}

	t, err := tail.TailFile(logPath, config)
	if err != nil {
		return util.WrapVortexErr(util.ErrorBackend, "Failed to tail log file: %s", err)
	}
	defer t.Cleanup()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	for {
		select {
		case line := <-t.Lines:
			if line == nil {
				return nil
			}
			if line.Err != nil {
				return util.WrapVortexErr(util.ErrorBackend, "Tail error: %s", line.Err)
			}
			fmt.Println(line.Text)
		case <-sigChan:
			return nil
		}
	}
}
