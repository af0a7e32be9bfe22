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

package vinfo

import (
	"context"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/olekukonko/tablewriter"

	"VortexFrontEnd/internal/api"
	"VortexFrontEnd/internal/util"
)

// FilterPartitions keeps the partitions matching the -p, -t, -d and -r filters.
func FilterPartitions(partitions []*api.PartitionInfo) []*api.PartitionInfo {
	wantNames := make(map[string]bool)
	if FlagFilterParts != "" {
		for _, name := range strings.Split(FlagFilterParts, ",") {
			wantNames[name] = true
		}
	}
	wantStates := make(map[string]bool)
	if FlagFilterStates != "" {
		for _, state := range strings.Split(strings.ToLower(FlagFilterStates), ",") {
			wantStates[state] = true
		}
	}
	if FlagFilterDownOnly {
		wantStates["down"] = true
	}
	if FlagFilterRespondingOnly {
		wantStates["up"] = true
	}

	filtered := make([]*api.PartitionInfo, 0, len(partitions))
	for _, p := range partitions {
		if len(wantNames) > 0 && !wantNames[p.Name] {
			continue
		}
		if len(wantStates) > 0 && !wantStates[strings.ToLower(p.State)] {
			continue
		}
		filtered = append(filtered, p)
	}
	return filtered
}

func Query() error {
	config := util.ParseConfig(FlagConfigFilePath)
	client := api.NewClient(config)

	reply, err := client.ClusterInfo(context.Background())
	if err != nil {
		return err
	}
	if !reply.Ok {
		return util.WrapVortexErr(util.ErrorBackend, "Failed to query cluster info: %s", reply.Reason)
	}

	partitions := FilterPartitions(reply.Partitions)

	if FlagJson {
		filtered := *reply
		filtered.Partitions = partitions
		fmt.Println(api.FormatReply(&filtered))
		return nil
	}

	if len(partitions) == 0 {
		fmt.Println("No partition is available.")
		return nil
	}

	if FlagTree {
		fmt.Print(ClusterTree(reply.ClusterName, partitions))
		return nil
	}

	table := tablewriter.NewWriter(os.Stdout)
	util.SetBorderlessTable(table)
	if !FlagNoHeader {
		table.SetHeader([]string{"Partition", "State", "Nodes", "Avail", "Cpus", "Gpus", "Mem", "NodeList"})
	}

	tableData := make([][]string, 0, len(partitions))
	for _, p := range partitions {
		name := p.Name
		if p.IsDefault {
			name += "*"
		}
		tableData = append(tableData, []string{
			name,
			p.State,
			strconv.FormatUint(uint64(p.TotalNodes), 10),
			strconv.FormatUint(uint64(p.AvailNodes), 10),
			shapeSummary(p.Shapes, func(s api.NodeShape) uint64 { return uint64(s.Cpus) }),
			shapeSummary(p.Shapes, func(s api.NodeShape) uint64 { return uint64(s.Gpus) }),
			memSummary(p.Shapes),
			p.NodeList,
		})
	}

	table.AppendBulk(tableData)
	table.Render()
	return nil
}

// shapeSummary renders a per-node quantity across node groups, collapsing to
// a single number when all groups agree.
func shapeSummary(shapes []api.NodeShape, pick func(api.NodeShape) uint64) string {
	if len(shapes) == 0 {
		return "-"
	}
	values := make([]string, len(shapes))
	same := true
	for i, s := range shapes {
		values[i] = strconv.FormatUint(pick(s), 10)
		if values[i] != values[0] {
			same = false
		}
	}
	if same {
		return values[0]
	}
	return strings.Join(values, "/")
}

func memSummary(shapes []api.NodeShape) string {
	if len(shapes) == 0 {
		return "-"
	}
	values := make([]string, len(shapes))
	same := true
	for i, s := range shapes {
		values[i] = util.FormatMemToMB(s.MemoryBytes)
		if values[i] != values[0] {
			same = false
		}
	}
	if same {
		return values[0]
	}
	return strings.Join(values, "/")
}

func loopedQuery(iterate uint64) error {
	interval := time.Duration(iterate) * time.Second
	for {
		if err := Query(); err != nil {
			return err
		}
		time.Sleep(interval)
		fmt.Println()
	}
}
