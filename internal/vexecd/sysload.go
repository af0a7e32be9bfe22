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
	"os"
	"time"

	"github.com/shirou/gopsutil/v3/load"
	"github.com/shirou/gopsutil/v3/mem"
	"github.com/shirou/gopsutil/v3/process"
)

// UsageSample is one point-in-time reading of the job process tree and the
// node it runs on.
type UsageSample struct {
	JobId    uint32    `json:"job_id"`
	NodeName string    `json:"node_name"`
	Time     time.Time `json:"time"`

	CpuPercent float64 `json:"cpu_percent"`
	RssBytes   uint64  `json:"rss_bytes"`
	NumThreads int32   `json:"num_threads"`

	NodeLoad1      float64 `json:"node_load_1"`
	NodeMemPercent float64 `json:"node_mem_percent"`
}

type UsageReader struct {
	pid      int
	nodeName string
}

func NewUsageReader(pid int) *UsageReader {
	hostname, _ := os.Hostname()
	return &UsageReader{pid: pid, nodeName: hostname}
}

// Sample reads the job process and its children. Children that exit while
// being read are skipped.
func (u *UsageReader) Sample() (*UsageSample, error) {
	proc, err := process.NewProcess(int32(u.pid))
	if err != nil {
		return nil, err
	}

	sample := &UsageSample{
		NodeName: u.nodeName,
		Time:     time.Now(),
	}

	procs := []*process.Process{proc}
	if children, err := proc.Children(); err == nil {
		procs = append(procs, children...)
	}

	for _, p := range procs {
		if cpu, err := p.CPUPercent(); err == nil {
			sample.CpuPercent += cpu
		}
		if memInfo, err := p.MemoryInfo(); err == nil {
			sample.RssBytes += memInfo.RSS
		}
		if threads, err := p.NumThreads(); err == nil {
			sample.NumThreads += threads
		}
	}

	if loadInfo, err := load.Avg(); err == nil {
		sample.NodeLoad1 = loadInfo.Load1
	}
	if memInfo, err := mem.VirtualMemory(); err == nil {
		sample.NodeMemPercent = memInfo.UsedPercent
	}

	return sample, nil
}
