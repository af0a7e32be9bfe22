package vqueue

import (
	"testing"

	"VortexFrontEnd/internal/api"
)

func sampleJobs() []*api.JobInfo {
	return []*api.JobInfo{
		{
			JobId:            103,
			Name:             "vox_train",
			State:            api.JobStateRunning,
			Partition:        "normal",
			Username:         "alice",
			NodeNum:          1,
			TimeLimitSeconds: 24 * 3600,
			NodeList:         "gpu001",
		},
		{
			JobId:     104,
			Name:      "preprocess",
			State:     api.JobStatePending,
			Partition: "normal",
			Username:  "bob",
			NodeNum:   2,
		},
	}
}

func TestFormatData(t *testing.T) {
	header, rows, err := FormatData(sampleJobs(), "%j %n %t")
	if err != nil {
		t.Fatalf("FormatData failed: %v", err)
	}
	wantHeader := []string{"JobId", "Name", "Status"}
	for i, h := range wantHeader {
		if header[i] != h {
			t.Errorf("header[%d]: got %q, want %q", i, header[i], h)
		}
	}
	if len(rows) != 2 {
		t.Fatalf("expected 2 rows, got %d", len(rows))
	}
	if rows[0][0] != "103" || rows[0][1] != "vox_train" || rows[0][2] != "Running" {
		t.Errorf("unexpected first row: %v", rows[0])
	}
}

func TestFormatDataWidth(t *testing.T) {
	header, rows, err := FormatData(sampleJobs(), "%.8j %.4n")
	if err != nil {
		t.Fatalf("FormatData failed: %v", err)
	}
	if len(header[0]) != 8 {
		t.Errorf("JobId header not padded to 8: %q", header[0])
	}
	// Cells longer than the width are cut to it.
	if rows[0][1] != "vox_" {
		t.Errorf("expected truncated name \"vox_\", got %q", rows[0][1])
	}
}

func TestFormatDataComment(t *testing.T) {
	jobs := []*api.JobInfo{
		{JobId: 105, ExtraAttr: `{"comment":"nightly run"}`},
		{JobId: 106},
	}
	header, rows, err := FormatData(jobs, "%j %c")
	if err != nil {
		t.Fatalf("FormatData failed: %v", err)
	}
	if header[1] != "Comment" {
		t.Errorf("header[1]: got %q, want \"Comment\"", header[1])
	}
	if rows[0][1] != "nightly run" {
		t.Errorf("comment cell: got %q", rows[0][1])
	}
	if rows[1][1] != "" {
		t.Errorf("job without attrs should render empty comment, got %q", rows[1][1])
	}
}

func TestFitTableWidth(t *testing.T) {
	header := []string{"JobId", "NodeList"}
	rows := [][]string{{"103", "gpu[001-100]longlonglong"}}

	gotHeader, gotRows := fitTableWidth(100, header, rows)
	if gotRows[0][1] != "gpu[001-100]longlonglong" {
		t.Errorf("wide terminal should leave rows untouched: %v", gotRows)
	}

	gotHeader, gotRows = fitTableWidth(20, header, rows)
	if len(gotHeader[1]) != 13 {
		t.Errorf("NodeList header width: got %d, want 13 (%q)", len(gotHeader[1]), gotHeader[1])
	}
	if gotRows[0][1] != "gpu[001-100]l" {
		t.Errorf("NodeList cell not truncated to fit: %q", gotRows[0][1])
	}
	if gotRows[0][0] != "103" {
		t.Errorf("other columns must keep their content: %q", gotRows[0][0])
	}
}

func TestFormatDataInvalid(t *testing.T) {
	for _, format := range []string{"%z", "jobid", "%", "%.j", "%.xj"} {
		if _, _, err := FormatData(sampleJobs(), format); err == nil {
			t.Errorf("format %q should be rejected", format)
		}
	}
}

func TestBuildQueryRequestStates(t *testing.T) {
	FlagFilterStates = "r,p"
	FlagFilterJobIDs = "103,104"
	defer func() {
		FlagFilterStates = "all"
		FlagFilterJobIDs = ""
	}()

	req, err := BuildQueryRequest()
	if err != nil {
		t.Fatalf("BuildQueryRequest failed: %v", err)
	}
	if len(req.States) != 2 || req.States[0] != api.JobStateRunning || req.States[1] != api.JobStatePending {
		t.Errorf("unexpected states: %v", req.States)
	}
	if len(req.JobIds) != 2 || req.JobIds[0] != 103 || req.JobIds[1] != 104 {
		t.Errorf("unexpected job ids: %v", req.JobIds)
	}
}

func TestBuildQueryRequestNodeList(t *testing.T) {
	FlagFilterNodes = "gpu[001-003],head"
	defer func() { FlagFilterNodes = "" }()

	req, err := BuildQueryRequest()
	if err != nil {
		t.Fatalf("BuildQueryRequest failed: %v", err)
	}
	want := []string{"gpu001", "gpu002", "gpu003", "head"}
	if len(req.Nodes) != len(want) {
		t.Fatalf("unexpected nodes: %v", req.Nodes)
	}
	for i, n := range want {
		if req.Nodes[i] != n {
			t.Errorf("nodes[%d]: got %q, want %q", i, req.Nodes[i], n)
		}
	}
}

func TestBuildQueryRequestBadNodeList(t *testing.T) {
	FlagFilterNodes = "gpu[001"
	defer func() { FlagFilterNodes = "" }()

	if _, err := BuildQueryRequest(); err == nil {
		t.Error("expected error for unbalanced node range")
	}
}

func TestBuildQueryRequestInvalidState(t *testing.T) {
	FlagFilterStates = "sleeping"
	defer func() { FlagFilterStates = "all" }()

	if _, err := BuildQueryRequest(); err == nil {
		t.Error("expected error for unknown state")
	}
}
