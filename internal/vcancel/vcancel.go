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

package vcancel

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	log "github.com/sirupsen/logrus"

	"VortexFrontEnd/internal/api"
	"VortexFrontEnd/internal/util"
)

// BuildCancelRequest translates the id argument and the filter flags into a
// cancellation request.
func BuildCancelRequest(args []string) (*api.CancelJobsRequest, error) {
	req := &api.CancelJobsRequest{}

	if len(args) > 0 {
		for _, idStr := range strings.Split(args[0], ",") {
			id, err := strconv.ParseUint(idStr, 10, 32)
			if err != nil {
				return nil, util.WrapVortexErr(util.ErrorCmdArg, "Invalid job id given: %s", idStr)
			}
			req.JobIds = append(req.JobIds, uint32(id))
		}
	}

	if FlagJobName != "" {
		req.Names = []string{FlagJobName}
	}
	if FlagUserName != "" {
		req.Users = []string{FlagUserName}
	}
	if FlagPartition != "" {
		req.Partitions = []string{FlagPartition}
	}
	if FlagState != "" {
		state, ok := api.ParseJobState(strings.ToLower(FlagState))
		if !ok {
			return nil, util.WrapVortexErr(util.ErrorCmdArg, "Invalid state given: %s", FlagState)
		}
		if state != api.JobStatePending && state != api.JobStateRunning {
			return nil, util.WrapVortexErr(util.ErrorCmdArg,
				"Only pending or running jobs can be cancelled by state")
		}
		req.States = []api.JobState{state}
	}

	return req, nil
}

func CancelJobs(args []string) error {
	config := util.ParseConfig(FlagConfigFilePath)
	client := api.NewClient(config)

	req, err := BuildCancelRequest(args)
	if err != nil {
		return err
	}

	reply, err := client.CancelJobs(context.Background(), req)
	if err != nil {
		return err
	}

	if FlagJson {
		fmt.Println(api.FormatReply(reply))
		if !reply.Ok || len(reply.Failures) > 0 {
			return &util.VortexError{Code: util.ErrorBackend}
		}
		return nil
	}

	if !reply.Ok {
		return util.WrapVortexErr(util.ErrorBackend, "Failed to cancel jobs: %s", reply.Reason)
	}

	if len(reply.CancelledIds) > 0 {
		fmt.Printf("Jobs %v cancelled successfully.\n", reply.CancelledIds)
	}
	if len(reply.Failures) > 0 {
		for _, failure := range reply.Failures {
			log.Errorf("Failed to cancel job: %d. Reason: %s.\n", failure.JobId, failure.Reason)
		}
		return &util.VortexError{Code: util.ErrorBackend}
	}
	return nil
}
