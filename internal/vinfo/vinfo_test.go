package vinfo

import (
	"strings"
	"testing"

	"VortexFrontEnd/internal/api"
)

func samplePartitions() []*api.PartitionInfo {
	return []*api.PartitionInfo{
		{
			Name:       "normal",
			State:      "Up",
			TotalNodes: 4,
			AvailNodes: 3,
			IsDefault:  true,
			NodeList:   "gpu[001-004]",
			Shapes: []api.NodeShape{
				{Count: 4, Cpus: 64, Gpus: 4, MemoryBytes: 512 << 30},
			},
		},
		{
			Name:       "largemem",
			State:      "Down",
			TotalNodes: 1,
			AvailNodes: 0,
			NodeList:   "mem001",
			Shapes: []api.NodeShape{
				{Count: 1, Cpus: 128, Gpus: 0, MemoryBytes: 4096 << 30},
			},
		},
	}
}

func resetFlags() {
	FlagFilterParts = ""
	FlagFilterStates = ""
	FlagFilterDownOnly = false
	FlagFilterRespondingOnly = false
}

func TestFilterPartitionsByName(t *testing.T) {
	resetFlags()
	FlagFilterParts = "largemem"
	defer resetFlags()

	filtered := FilterPartitions(samplePartitions())
	if len(filtered) != 1 || filtered[0].Name != "largemem" {
		t.Errorf("unexpected filter result: %v", filtered)
	}
}

func TestFilterPartitionsByState(t *testing.T) {
	resetFlags()
	FlagFilterStates = "up"
	defer resetFlags()

	filtered := FilterPartitions(samplePartitions())
	if len(filtered) != 1 || filtered[0].Name != "normal" {
		t.Errorf("unexpected filter result: %v", filtered)
	}
}

func TestFilterPartitionsDeadOnly(t *testing.T) {
	resetFlags()
	FlagFilterDownOnly = true
	defer resetFlags()

	filtered := FilterPartitions(samplePartitions())
	if len(filtered) != 1 || filtered[0].Name != "largemem" {
		t.Errorf("unexpected filter result: %v", filtered)
	}
}

func TestFilterPartitionsRespondingOnly(t *testing.T) {
	resetFlags()
	FlagFilterRespondingOnly = true
	defer resetFlags()

	filtered := FilterPartitions(samplePartitions())
	if len(filtered) != 1 || filtered[0].Name != "normal" {
		t.Errorf("unexpected filter result: %v", filtered)
	}
}

func TestFilterPartitionsNoFilter(t *testing.T) {
	resetFlags()
	filtered := FilterPartitions(samplePartitions())
	if len(filtered) != 2 {
		t.Errorf("expected all partitions, got %d", len(filtered))
	}
}

func TestClusterTree(t *testing.T) {
	out := ClusterTree("vortex", samplePartitions())
	for _, want := range []string{
		"vortex",
		"normal (default) [Up, 3/4 nodes]",
		"largemem [Down, 0/1 nodes]",
		"4 x (64 cpus, 4 gpus, 512G)",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("tree output missing %q:\n%s", want, out)
		}
	}
}

func TestShapeSummary(t *testing.T) {
	uniform := []api.NodeShape{{Cpus: 64}, {Cpus: 64}}
	if got := shapeSummary(uniform, func(s api.NodeShape) uint64 { return uint64(s.Cpus) }); got != "64" {
		t.Errorf("uniform shapes: got %q, want \"64\"", got)
	}

	mixed := []api.NodeShape{{Cpus: 64}, {Cpus: 128}}
	if got := shapeSummary(mixed, func(s api.NodeShape) uint64 { return uint64(s.Cpus) }); got != "64/128" {
		t.Errorf("mixed shapes: got %q, want \"64/128\"", got)
	}

	if got := shapeSummary(nil, func(s api.NodeShape) uint64 { return 0 }); got != "-" {
		t.Errorf("empty shapes: got %q, want \"-\"", got)
	}
}
