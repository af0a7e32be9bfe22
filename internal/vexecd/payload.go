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
	"encoding/json"
	"fmt"
	"os"
)

// ExecPayload is what vortexd hands to the execution agent when a job is
// dispatched to a node. It mirrors the submitted job spec with the
// scheduling-only fields stripped.
type ExecPayload struct {
	JobId uint32 `json:"job_id"`
	Name  string `json:"name"`

	Uid uint32 `json:"uid"`
	Gid uint32 `json:"gid"`

	Cwd         string            `json:"cwd"`
	EnvName     string            `json:"env_name,omitempty"`
	Env         map[string]string `json:"env,omitempty"`
	Interpreter string            `json:"interpreter,omitempty"`
	Script      string            `json:"script"`

	OutputPath     string `json:"output_path,omitempty"`
	ErrorPath      string `json:"error_path,omitempty"`
	OpenModeAppend bool   `json:"open_mode_append,omitempty"`
	MergeStderr    bool   `json:"merge_stderr,omitempty"`

	TimeLimitSeconds int64  `json:"time_limit_seconds,omitempty"`
	MemLimitBytes    uint64 `json:"mem_limit_bytes,omitempty"`
}

func LoadPayload(path string) (*ExecPayload, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read payload: %w", err)
	}

	payload := &ExecPayload{}
	if err := json.Unmarshal(content, payload); err != nil {
		return nil, fmt.Errorf("failed to decode payload: %w", err)
	}
	if payload.Script == "" {
		return nil, fmt.Errorf("payload carries no script")
	}
	if payload.Cwd == "" {
		return nil, fmt.Errorf("payload carries no working directory")
	}
	return payload, nil
}
