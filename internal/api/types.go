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

// Package api holds the REST contract the frontend commands share with the
// vortexd control daemon. The daemon itself (queue admission, scheduling,
// node allocation) is a separate project; this package only consumes it.
package api

import "time"

type JobState string

const (
	JobStatePending    JobState = "Pending"
	JobStateRunning    JobState = "Running"
	JobStateCompleting JobState = "Completing"
	JobStateCompleted  JobState = "Completed"
	JobStateFailed     JobState = "Failed"
	JobStateCancelled  JobState = "Cancelled"
	JobStateTimeout    JobState = "Timeout"
)

// ParseJobState maps user-facing state spellings (including the short forms
// accepted on the command line) to a JobState.
func ParseJobState(s string) (JobState, bool) {
	switch s {
	case "p", "pending":
		return JobStatePending, true
	case "r", "running":
		return JobStateRunning, true
	case "completing":
		return JobStateCompleting, true
	case "completed":
		return JobStateCompleted, true
	case "failed":
		return JobStateFailed, true
	case "cancelled":
		return JobStateCancelled, true
	case "timeout":
		return JobStateTimeout, true
	}
	return "", false
}

// JobSpec is the submission payload built by vbatch. Per-node quantities
// follow PBS chunk semantics: CpusPerNode/GpusPerNode/MemPerNodeBytes are
// requested on each of the NodeNum nodes.
type JobSpec struct {
	Name        string `json:"name"`
	Partition   string `json:"partition"`
	Account     string `json:"account,omitempty"`
	Qos         string `json:"qos,omitempty"`
	Reservation string `json:"reservation,omitempty"`

	Uid uint32 `json:"uid"`
	Gid uint32 `json:"gid"`

	NodeNum         uint32 `json:"node_num"`
	CpusPerNode     uint32 `json:"cpus_per_node"`
	GpusPerNode     uint32 `json:"gpus_per_node"`
	MemPerNodeBytes uint64 `json:"mem_per_node_bytes"`

	// TimeLimitSeconds <= 0 means no walltime ceiling.
	TimeLimitSeconds int64 `json:"time_limit_seconds"`

	Cwd         string            `json:"cwd"`
	EnvName     string            `json:"env_name,omitempty"`
	Env         map[string]string `json:"env,omitempty"`
	Interpreter string            `json:"interpreter,omitempty"`
	Script      string            `json:"script"`

	OutputPath     string `json:"output_path,omitempty"`
	ErrorPath      string `json:"error_path,omitempty"`
	OpenModeAppend bool   `json:"open_mode_append,omitempty"`
	MergeStderr    bool   `json:"merge_stderr,omitempty"`

	ExtraAttr string     `json:"extra_attr,omitempty"`
	Hold      bool       `json:"hold,omitempty"`
	BeginTime *time.Time `json:"begin_time,omitempty"`

	CmdLine     string `json:"cmd_line,omitempty"`
	SubmitToken string `json:"submit_token,omitempty"`
}

type SubmitJobReply struct {
	Ok     bool   `json:"ok"`
	JobId  uint32 `json:"job_id,omitempty"`
	Reason string `json:"reason,omitempty"`
}

type QueryJobsRequest struct {
	JobIds           []uint32
	Names            []string
	Users            []string
	Accounts         []string
	Partitions       []string
	Qos              []string
	States           []JobState
	Nodes            []string
	IncludeCompleted bool
	NumLimit         int32
}

type JobInfo struct {
	JobId     uint32   `json:"job_id"`
	Name      string   `json:"name"`
	State     JobState `json:"state"`
	Partition string   `json:"partition"`
	Username  string   `json:"username"`
	Account   string   `json:"account,omitempty"`
	Qos       string   `json:"qos,omitempty"`

	NodeNum          uint32 `json:"node_num"`
	CpusPerNode      uint32 `json:"cpus_per_node"`
	GpusPerNode      uint32 `json:"gpus_per_node"`
	MemPerNodeBytes  uint64 `json:"mem_per_node_bytes"`
	TimeLimitSeconds int64  `json:"time_limit_seconds"`
	ElapsedSeconds   int64  `json:"elapsed_seconds"`

	NodeList   string `json:"node_list,omitempty"`
	Cwd        string `json:"cwd"`
	OutputPath string `json:"output_path,omitempty"`
	ErrorPath  string `json:"error_path,omitempty"`

	StartTime *time.Time `json:"start_time,omitempty"`
	ExitCode  int32      `json:"exit_code"`
	Held      bool       `json:"held,omitempty"`
	ExtraAttr string     `json:"extra_attr,omitempty"`
}

type QueryJobsReply struct {
	Ok     bool       `json:"ok"`
	Reason string     `json:"reason,omitempty"`
	Jobs   []*JobInfo `json:"jobs"`
}

type CancelJobsRequest struct {
	JobIds     []uint32   `json:"job_ids,omitempty"`
	Names      []string   `json:"names,omitempty"`
	Users      []string   `json:"users,omitempty"`
	Partitions []string   `json:"partitions,omitempty"`
	States     []JobState `json:"states,omitempty"`
}

type CancelFailure struct {
	JobId  uint32 `json:"job_id"`
	Reason string `json:"reason"`
}

type CancelJobsReply struct {
	Ok           bool            `json:"ok"`
	Reason       string          `json:"reason,omitempty"`
	CancelledIds []uint32        `json:"cancelled_ids"`
	Failures     []CancelFailure `json:"failures,omitempty"`
}

// NodeShape describes one homogeneous group of nodes in a partition.
type NodeShape struct {
	Count       uint32 `json:"count"`
	Cpus        uint32 `json:"cpus"`
	Gpus        uint32 `json:"gpus"`
	MemoryBytes uint64 `json:"memory_bytes"`
}

type PartitionInfo struct {
	Name       string      `json:"name"`
	State      string      `json:"state"`
	TotalNodes uint32      `json:"total_nodes"`
	AvailNodes uint32      `json:"avail_nodes"`
	NodeList   string      `json:"node_list,omitempty"`
	Shapes     []NodeShape `json:"shapes,omitempty"`
	IsDefault  bool        `json:"is_default,omitempty"`
}

type ClusterInfoReply struct {
	Ok          bool             `json:"ok"`
	Reason      string           `json:"reason,omitempty"`
	ClusterName string           `json:"cluster_name"`
	Partitions  []*PartitionInfo `json:"partitions"`
}
