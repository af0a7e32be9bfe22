package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"VortexFrontEnd/internal/util"
)

func TestSubmitJob(t *testing.T) {
	var received JobSpec
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		require.Equal(t, "/api/v1/jobs", r.URL.Path)
		require.Equal(t, "application/json", r.Header.Get("Content-Type"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&received))
		json.NewEncoder(w).Encode(&SubmitJobReply{Ok: true, JobId: 42})
	}))
	defer server.Close()

	client := NewClientForBase(server.URL)
	job := &JobSpec{Name: "vox", Partition: "gpu", NodeNum: 1, CpusPerNode: 8}
	reply, err := client.SubmitJob(context.Background(), job)

	require.NoError(t, err)
	assert.True(t, reply.Ok)
	assert.Equal(t, uint32(42), reply.JobId)
	assert.Equal(t, "vox", received.Name)
	assert.NotEmpty(t, received.SubmitToken, "submit token should be generated")
}

func TestSubmitJobBackendRejection(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnprocessableEntity)
		json.NewEncoder(w).Encode(map[string]any{"ok": false, "reason": "no such partition"})
	}))
	defer server.Close()

	client := NewClientForBase(server.URL)
	_, err := client.SubmitJob(context.Background(), &JobSpec{Name: "vox"})

	require.Error(t, err)
	var vErr *util.VortexError
	require.ErrorAs(t, err, &vErr)
	assert.Equal(t, util.ErrorBackend, vErr.Code)
	assert.Contains(t, vErr.Message, "no such partition")
}

func TestSubmitJobNetworkFailure(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	server.Close() // connection refused from now on

	client := NewClientForBase(server.URL)
	_, err := client.SubmitJob(context.Background(), &JobSpec{Name: "vox"})

	require.Error(t, err)
	var vErr *util.VortexError
	require.ErrorAs(t, err, &vErr)
	assert.Equal(t, util.ErrorNetwork, vErr.Code)
}

func TestQueryJobsFilters(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodGet, r.Method)
		q := r.URL.Query()
		assert.Equal(t, "7,9", q.Get("ids"))
		assert.Equal(t, "gpu", q.Get("partitions"))
		assert.Equal(t, "Running", q.Get("states"))
		assert.Equal(t, "gpu001,gpu002", q.Get("nodes"))
		assert.Equal(t, "5", q.Get("limit"))
		json.NewEncoder(w).Encode(&QueryJobsReply{Ok: true, Jobs: []*JobInfo{
			{JobId: 7, Name: "vox", State: JobStateRunning, Partition: "gpu"},
		}})
	}))
	defer server.Close()

	client := NewClientForBase(server.URL)
	reply, err := client.QueryJobs(context.Background(), &QueryJobsRequest{
		JobIds:     []uint32{7, 9},
		Partitions: []string{"gpu"},
		States:     []JobState{JobStateRunning},
		Nodes:      []string{"gpu001", "gpu002"},
		NumLimit:   5,
	})

	require.NoError(t, err)
	require.Len(t, reply.Jobs, 1)
	assert.Equal(t, uint32(7), reply.Jobs[0].JobId)
}

func TestCancelJobs(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodDelete, r.Method)
		var req CancelJobsRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, []uint32{3}, req.JobIds)
		json.NewEncoder(w).Encode(&CancelJobsReply{
			Ok:           false,
			CancelledIds: nil,
			Failures:     []CancelFailure{{JobId: 3, Reason: "job already completed"}},
		})
	}))
	defer server.Close()

	client := NewClientForBase(server.URL)
	reply, err := client.CancelJobs(context.Background(), &CancelJobsRequest{JobIds: []uint32{3}})

	require.NoError(t, err)
	require.Len(t, reply.Failures, 1)
	assert.Equal(t, "job already completed", reply.Failures[0].Reason)
}

func TestClusterInfo(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/api/v1/cluster", r.URL.Path)
		json.NewEncoder(w).Encode(&ClusterInfoReply{
			Ok:          true,
			ClusterName: "vortex",
			Partitions: []*PartitionInfo{
				{Name: "gpu", State: "up", TotalNodes: 4, Shapes: []NodeShape{
					{Count: 4, Cpus: 32, Gpus: 4, MemoryBytes: 256 << 30},
				}},
			},
		})
	}))
	defer server.Close()

	client := NewClientForBase(server.URL)
	reply, err := client.ClusterInfo(context.Background())

	require.NoError(t, err)
	require.Len(t, reply.Partitions, 1)
	assert.Equal(t, uint32(32), reply.Partitions[0].Shapes[0].Cpus)
}

func TestPing(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/api/v1/ping", r.URL.Path)
	}))
	defer server.Close()

	client := NewClientForBase(server.URL)
	require.NoError(t, client.Ping(context.Background()))

	server.Close()
	err := client.Ping(context.Background())
	var vErr *util.VortexError
	require.ErrorAs(t, err, &vErr)
	assert.Equal(t, util.ErrorNetwork, vErr.Code)
}

func TestParseJobState(t *testing.T) {
	testCases := []struct {
		input string
		want  JobState
		ok    bool
	}{
		{"r", JobStateRunning, true},
		{"running", JobStateRunning, true},
		{"p", JobStatePending, true},
		{"cancelled", JobStateCancelled, true},
		{"bogus", "", false},
	}
	for _, tc := range testCases {
		got, ok := ParseJobState(tc.input)
		assert.Equal(t, tc.ok, ok, tc.input)
		assert.Equal(t, tc.want, got, tc.input)
	}
}
