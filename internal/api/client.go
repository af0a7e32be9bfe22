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

package api

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	"VortexFrontEnd/internal/util"
)

const apiPrefix = "/api/v1"

type Client struct {
	base string
	hc   *http.Client
}

func NewClient(config *util.Config) *Client {
	return &Client{
		base: config.VortexdAddr(),
		hc:   &http.Client{Timeout: 30 * time.Second},
	}
}

// NewClientForBase is used by tests and by tools that already know the
// daemon URL.
func NewClientForBase(base string) *Client {
	return &Client{
		base: strings.TrimRight(base, "/"),
		hc:   &http.Client{Timeout: 30 * time.Second},
	}
}

// SubmitJob posts the job to vortexd. A submit token is attached so the
// daemon can deduplicate a retried POST.
func (c *Client) SubmitJob(ctx context.Context, job *JobSpec) (*SubmitJobReply, error) {
	if job.SubmitToken == "" {
		job.SubmitToken = uuid.NewString()
	}

	reply := &SubmitJobReply{}
	err := c.doJSON(ctx, http.MethodPost, apiPrefix+"/jobs", job, reply)
	if err != nil {
		return nil, err
	}
	return reply, nil
}

func (c *Client) QueryJobs(ctx context.Context, req *QueryJobsRequest) (*QueryJobsReply, error) {
	params := url.Values{}
	if len(req.JobIds) > 0 {
		params.Set("ids", util.ConvertSliceToString(req.JobIds, ","))
	}
	if len(req.Names) > 0 {
		params.Set("names", strings.Join(req.Names, ","))
	}
	if len(req.Users) > 0 {
		params.Set("users", strings.Join(req.Users, ","))
	}
	if len(req.Accounts) > 0 {
		params.Set("accounts", strings.Join(req.Accounts, ","))
	}
	if len(req.Partitions) > 0 {
		params.Set("partitions", strings.Join(req.Partitions, ","))
	}
	if len(req.Qos) > 0 {
		params.Set("qos", strings.Join(req.Qos, ","))
	}
	if len(req.States) > 0 {
		states := make([]string, len(req.States))
		for i, s := range req.States {
			states[i] = string(s)
		}
		params.Set("states", strings.Join(states, ","))
	}
	if len(req.Nodes) > 0 {
		params.Set("nodes", strings.Join(req.Nodes, ","))
	}
	if req.IncludeCompleted {
		params.Set("include_completed", "true")
	}
	if req.NumLimit > 0 {
		params.Set("limit", strconv.FormatInt(int64(req.NumLimit), 10))
	}

	path := apiPrefix + "/jobs"
	if encoded := params.Encode(); encoded != "" {
		path += "?" + encoded
	}

	reply := &QueryJobsReply{}
	if err := c.doJSON(ctx, http.MethodGet, path, nil, reply); err != nil {
		return nil, err
	}
	return reply, nil
}

func (c *Client) CancelJobs(ctx context.Context, req *CancelJobsRequest) (*CancelJobsReply, error) {
	reply := &CancelJobsReply{}
	if err := c.doJSON(ctx, http.MethodDelete, apiPrefix+"/jobs", req, reply); err != nil {
		return nil, err
	}
	return reply, nil
}

func (c *Client) ClusterInfo(ctx context.Context) (*ClusterInfoReply, error) {
	reply := &ClusterInfoReply{}
	if err := c.doJSON(ctx, http.MethodGet, apiPrefix+"/cluster", nil, reply); err != nil {
		return nil, err
	}
	return reply, nil
}

func (c *Client) Ping(ctx context.Context) error {
	return c.doJSON(ctx, http.MethodGet, apiPrefix+"/ping", nil, nil)
}

// doJSON performs one round trip. Transport failures map to ErrorNetwork,
// non-2xx statuses to ErrorBackend with the daemon's reason when present.
func (c *Client) doJSON(ctx context.Context, method, path string, body, out any) error {
	var reader io.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		if err != nil {
			return util.WrapVortexErr(util.ErrorGeneric, "failed to encode request: %s", err)
		}
		reader = bytes.NewReader(encoded)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.base+path, reader)
	if err != nil {
		return util.WrapVortexErr(util.ErrorGeneric, "failed to build request: %s", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.hc.Do(req)
	if err != nil {
		return util.WrapVortexErr(util.ErrorNetwork, "failed to connect to vortexd at %s: %s", c.base, err)
	}
	defer resp.Body.Close()

	payload, err := io.ReadAll(resp.Body)
	if err != nil {
		return util.WrapVortexErr(util.ErrorNetwork, "failed to read vortexd response: %s", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		reason := backendReason(payload)
		if reason == "" {
			reason = http.StatusText(resp.StatusCode)
		}
		return util.WrapVortexErr(util.ErrorBackend, "vortexd rejected the request: %s", reason)
	}

	if out == nil {
		return nil
	}
	if err := json.Unmarshal(payload, out); err != nil {
		return util.WrapVortexErr(util.ErrorBackend, "failed to decode vortexd response: %s", err)
	}
	return nil
}

func backendReason(payload []byte) string {
	var probe struct {
		Reason string `json:"reason"`
	}
	if err := json.Unmarshal(payload, &probe); err != nil {
		return ""
	}
	return probe.Reason
}

// FormatReply renders any reply as a single-line JSON document for --json
// output.
func FormatReply(reply any) string {
	output, _ := json.Marshal(reply)
	return string(output)
}
