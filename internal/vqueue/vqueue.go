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

package vqueue

import (
	"context"
	"fmt"
	"os"
	"os/user"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/olekukonko/tablewriter"
	"golang.org/x/term"

	"VortexFrontEnd/internal/api"
	"VortexFrontEnd/internal/util"
)

// BuildQueryRequest translates the filter flags into a daemon query.
func BuildQueryRequest() (*api.QueryJobsRequest, error) {
	req := &api.QueryJobsRequest{IncludeCompleted: FlagIncludeCompleted}

	if FlagFilterStates != "" && strings.ToLower(FlagFilterStates) != "all" {
		for _, s := range strings.Split(strings.ToLower(FlagFilterStates), ",") {
			state, ok := api.ParseJobState(s)
			if !ok {
				return nil, util.WrapVortexErr(util.ErrorCmdArg, "Invalid state given: %s", s)
			}
			req.States = append(req.States, state)
		}
	}
	if FlagFilterJobNames != "" {
		req.Names = strings.Split(FlagFilterJobNames, ",")
	}
	if FlagFilterUsers != "" {
		req.Users = strings.Split(FlagFilterUsers, ",")
	}
	if FlagSelf {
		current, err := user.Current()
		if err != nil {
			return nil, util.WrapVortexErr(util.ErrorGeneric, "Failed to get current user: %s", err)
		}
		req.Users = append(req.Users, current.Username)
	}
	if FlagFilterQos != "" {
		req.Qos = strings.Split(FlagFilterQos, ",")
	}
	if FlagFilterAccounts != "" {
		req.Accounts = strings.Split(FlagFilterAccounts, ",")
	}
	if FlagFilterPartitions != "" {
		req.Partitions = strings.Split(FlagFilterPartitions, ",")
	}
	if FlagFilterNodes != "" {
		nodes, ok := util.ParseHostList(FlagFilterNodes)
		if !ok {
			return nil, util.WrapVortexErr(util.ErrorCmdArg, "Invalid node list given: %s", FlagFilterNodes)
		}
		req.Nodes = nodes
	}
	if FlagFilterJobIDs != "" {
		idList := strings.Split(FlagFilterJobIDs, ",")
		req.NumLimit = int32(len(idList))
		for _, idStr := range idList {
			id, err := strconv.ParseUint(idStr, 10, 32)
			if err != nil {
				return nil, util.WrapVortexErr(util.ErrorCmdArg, "Invalid job id given: %s", idStr)
			}
			req.JobIds = append(req.JobIds, uint32(id))
		}
	}
	if FlagNumLimit != 0 {
		req.NumLimit = int32(FlagNumLimit)
	}

	return req, nil
}

func Query() error {
	config := util.ParseConfig(FlagConfigFilePath)
	client := api.NewClient(config)

	req, err := BuildQueryRequest()
	if err != nil {
		return err
	}

	reply, err := client.QueryJobs(context.Background(), req)
	if err != nil {
		return err
	}
	if !reply.Ok {
		return util.WrapVortexErr(util.ErrorBackend, "Failed to query jobs: %s", reply.Reason)
	}

	if FlagJson {
		fmt.Println(api.FormatReply(reply))
		return nil
	}

	table := tablewriter.NewWriter(os.Stdout)
	util.SetBorderlessTable(table)

	header := []string{"JobId", "Name", "Status", "Partition", "User",
		"Account", "Nodes", "TimeLimit", "NodeList"}
	tableData := make([][]string, len(reply.Jobs))
	for i, job := range reply.Jobs {
		tableData[i] = []string{
			strconv.FormatUint(uint64(job.JobId), 10),
			job.Name,
			string(job.State),
			job.Partition,
			job.Username,
			job.Account,
			strconv.FormatUint(uint64(job.NodeNum), 10),
			util.SecondTimeFormat(job.TimeLimitSeconds),
			job.NodeList,
		}
	}

	if FlagFormat != "" {
		header, tableData, err = FormatData(reply.Jobs, FlagFormat)
		if err != nil {
			return err
		}
	}

	if FlagStartTime {
		header = append(header, "StartTime")
		for i, job := range reply.Jobs {
			start := ""
			if job.StartTime != nil {
				start = job.StartTime.Local().Format("2006-01-02 15:04:05")
			}
			tableData[i] = append(tableData[i], start)
		}
	}
	if FlagFilterQos != "" {
		header = append(header, "QoS")
		for i, job := range reply.Jobs {
			tableData[i] = append(tableData[i], job.Qos)
		}
	}

	if term.IsTerminal(int(os.Stdout.Fd())) {
		header, tableData = fitTableWidth(util.TerminalWidth(), header, tableData)
	}

	if !FlagNoHeader {
		table.SetHeader(header)
	}

	// Newest job first when the id column survives formatting.
	idx := -1
	for i, val := range header {
		if val == "JobId" {
			idx = i
			break
		}
	}
	if idx != -1 {
		sort.Slice(tableData, func(i, j int) bool {
			x, _ := strconv.ParseUint(tableData[i][idx], 10, 32)
			y, _ := strconv.ParseUint(tableData[j][idx], 10, 32)
			return x > y
		})
	}

	table.AppendBulk(tableData)
	table.Render()
	return nil
}

// fitTableWidth shrinks the last column until the widest row fits the given
// terminal width. The other columns keep their natural size, and the last
// column never drops below its header width.
func fitTableWidth(avail int, header []string, rows [][]string) ([]string, [][]string) {
	if len(header) == 0 {
		return header, rows
	}
	widths := make([]int, len(header))
	for i, h := range header {
		widths[i] = len(h)
	}
	for _, row := range rows {
		for i, cell := range row {
			if len(cell) > widths[i] {
				widths[i] = len(cell)
			}
		}
	}
	total := 0
	for _, w := range widths {
		total += w + 1
	}
	last := len(header) - 1
	room := widths[last] - (total - avail)
	if total <= avail || room >= widths[last] {
		return header, rows
	}
	if room < len(header[last]) {
		room = len(header[last])
	}
	spec := make([]int, len(header))
	for i := range spec {
		spec[i] = -1
	}
	spec[last] = room
	return util.FormatTable(spec, header, rows)
}

func loopedQuery(iterate uint64) error {
	interval := time.Duration(iterate) * time.Second
	for {
		fmt.Println(time.Now().Format("2006-01-02 15:04:05"))
		if err := Query(); err != nil {
			return err
		}
		time.Sleep(interval)
		fmt.Println()
	}
}
