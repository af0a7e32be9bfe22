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
	"strconv"
	"strings"

	"VortexFrontEnd/internal/api"
	"VortexFrontEnd/internal/util"
)

type fieldSpec struct {
	header string
	value  func(*api.JobInfo) string
}

// Format identifiers are a single trailing character, optionally preceded
// by ".<width>" for a minimum column width, e.g. "%.5j %.20n %t".
var formatFields = map[byte]fieldSpec{
	'a': {"Account", func(j *api.JobInfo) string { return j.Account }},
	'c': {"Comment", func(j *api.JobInfo) string { return util.ExtraAttrValue(j.ExtraAttr, "comment") }},
	'e': {"ElapsedTime", func(j *api.JobInfo) string { return util.SecondTimeFormat(j.ElapsedSeconds) }},
	'j': {"JobId", func(j *api.JobInfo) string { return strconv.FormatUint(uint64(j.JobId), 10) }},
	'L': {"NodeList", func(j *api.JobInfo) string { return j.NodeList }},
	'l': {"TimeLimit", func(j *api.JobInfo) string { return util.SecondTimeFormat(j.TimeLimitSeconds) }},
	'N': {"Nodes", func(j *api.JobInfo) string { return strconv.FormatUint(uint64(j.NodeNum), 10) }},
	'n': {"Name", func(j *api.JobInfo) string { return j.Name }},
	'P': {"Partition", func(j *api.JobInfo) string { return j.Partition }},
	'q': {"QoS", func(j *api.JobInfo) string { return j.Qos }},
	't': {"Status", func(j *api.JobInfo) string { return string(j.State) }},
	'u': {"User", func(j *api.JobInfo) string { return j.Username }},
}

// FormatData renders jobs according to a "%<field>" format string.
func FormatData(jobs []*api.JobInfo, format string) (header []string, tableData [][]string, err error) {
	specs := strings.Fields(format)
	widths := make([]int, len(specs))
	header = make([]string, len(specs))
	tableData = make([][]string, len(jobs))

	for i, spec := range specs {
		if len(spec) < 2 || spec[0] != '%' {
			return nil, nil, util.WrapVortexErr(util.ErrorCmdArg, "Invalid format specifier: %s", spec)
		}
		widths[i] = -1
		if spec[1] == '.' {
			if len(spec) < 4 {
				return nil, nil, util.WrapVortexErr(util.ErrorCmdArg, "Invalid format specifier: %s", spec)
			}
			width, err := strconv.ParseUint(spec[2:len(spec)-1], 10, 32)
			if err != nil {
				return nil, nil, util.WrapVortexErr(util.ErrorCmdArg, "Invalid format width: %s", spec)
			}
			widths[i] = int(width)
		}

		field, ok := formatFields[spec[len(spec)-1]]
		if !ok {
			return nil, nil, util.WrapVortexErr(util.ErrorCmdArg,
				"Invalid format identifier '%c', supported: a, c, e, j, L, l, N, n, P, q, t, u",
				spec[len(spec)-1])
		}
		header[i] = field.header
		for j, job := range jobs {
			tableData[j] = append(tableData[j], field.value(job))
		}
	}

	header, tableData = util.FormatTable(widths, header, tableData)
	return header, tableData, nil
}
