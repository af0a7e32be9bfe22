package vcancel

import (
	"testing"

	"VortexFrontEnd/internal/api"
)

func resetFlags() {
	FlagJobName = ""
	FlagPartition = ""
	FlagState = ""
	FlagUserName = ""
}

func TestBuildCancelRequestIds(t *testing.T) {
	resetFlags()
	req, err := BuildCancelRequest([]string{"101,102,103"})
	if err != nil {
		t.Fatalf("BuildCancelRequest failed: %v", err)
	}
	if len(req.JobIds) != 3 || req.JobIds[0] != 101 || req.JobIds[2] != 103 {
		t.Errorf("unexpected job ids: %v", req.JobIds)
	}
}

func TestBuildCancelRequestFilters(t *testing.T) {
	resetFlags()
	FlagJobName = "vox_train"
	FlagPartition = "normal"
	FlagUserName = "alice"
	FlagState = "R"
	defer resetFlags()

	req, err := BuildCancelRequest(nil)
	if err != nil {
		t.Fatalf("BuildCancelRequest failed: %v", err)
	}
	if len(req.Names) != 1 || req.Names[0] != "vox_train" {
		t.Errorf("unexpected names: %v", req.Names)
	}
	if len(req.Partitions) != 1 || req.Partitions[0] != "normal" {
		t.Errorf("unexpected partitions: %v", req.Partitions)
	}
	if len(req.Users) != 1 || req.Users[0] != "alice" {
		t.Errorf("unexpected users: %v", req.Users)
	}
	if len(req.States) != 1 || req.States[0] != api.JobStateRunning {
		t.Errorf("unexpected states: %v", req.States)
	}
}

func TestBuildCancelRequestBadState(t *testing.T) {
	resetFlags()
	FlagState = "completed"
	defer resetFlags()

	if _, err := BuildCancelRequest(nil); err == nil {
		t.Error("expected rejection of non-cancellable state")
	}

	FlagState = "sleeping"
	if _, err := BuildCancelRequest(nil); err == nil {
		t.Error("expected rejection of unknown state")
	}
}
