package vbatch

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"VortexFrontEnd/internal/api"
	"VortexFrontEnd/internal/util"
)

func writeScript(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "job.sh")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestParseBatchScript(t *testing.T) {
	script := `#!/bin/bash
#PBS -N vox_train
#PBS -P personal-ab123
#PBS -q normal
#PBS -l select=1:ncpus=8:ngpus=1:mem=100GB
#PBS -l walltime=24:00:00
#PBS -o output_vox.log
#PBS -e error_vox.log
source activate vox
cd ${PBS_O_WORKDIR}/image_diffusion_todo
python train.py --use_cfg
`
	path := writeScript(t, script)

	args := make([]BatchArg, 0)
	sh := make([]string, 0)
	if err := ParseBatchScript(path, &args, &sh); err != nil {
		t.Fatalf("ParseBatchScript failed: %v", err)
	}

	want := map[string]string{
		"--interpreter": "/bin/bash",
		"--job-name":    "vox_train",
		"--account":     "personal-ab123",
		"--partition":   "normal",
		"--select":      "1:ncpus=8:ngpus=1:mem=100GB",
		"--time":        "24:00:00",
		"--output":      "output_vox.log",
		"--error":       "error_vox.log",
	}
	got := make(map[string]string)
	for _, a := range args {
		got[a.name] = a.val
	}
	for name, val := range want {
		if got[name] != val {
			t.Errorf("arg %s: got %q, want %q", name, got[name], val)
		}
	}

	payload := strings.Join(sh, "\n")
	if !strings.Contains(payload, "python train.py --use_cfg") {
		t.Errorf("shell payload lost the command: %q", payload)
	}
	if strings.Contains(payload, "#PBS") {
		t.Errorf("directives leaked into the shell payload: %q", payload)
	}
}

func TestParseBatchScriptBadDirective(t *testing.T) {
	path := writeScript(t, "#!/bin/sh\n#PBS -l select=\necho hi\n")
	args := make([]BatchArg, 0)
	sh := make([]string, 0)
	err := ParseBatchScript(path, &args, &sh)
	if err == nil {
		t.Fatal("expected parsing error")
	}
	var vErr *util.VortexError
	if !errors.As(err, &vErr) || vErr.Code != util.ErrorScriptParsing {
		t.Errorf("expected ErrorScriptParsing, got %v", err)
	}
	if !strings.Contains(err.Error(), "line 2") {
		t.Errorf("error should name the failing line: %v", err)
	}
}

func TestCheckJobSpec(t *testing.T) {
	valid := func() *api.JobSpec {
		return &api.JobSpec{Name: "vox_train", NodeNum: 1, CpusPerNode: 8}
	}

	if err := CheckJobSpec(valid()); err != nil {
		t.Errorf("valid job rejected: %v", err)
	}

	job := valid()
	job.Name = strings.Repeat("x", 65)
	if err := CheckJobSpec(job); err == nil {
		t.Error("expected rejection of overlong job name")
	}

	job = valid()
	job.Name = "bad name with spaces"
	if err := CheckJobSpec(job); err == nil {
		t.Error("expected rejection of job name with spaces")
	}

	job = valid()
	job.MergeStderr = true
	job.ErrorPath = "error_vox.log"
	if err := CheckJobSpec(job); err == nil {
		t.Error("expected rejection of --error with merged stderr")
	}
}

func TestCheckResourcesAgainstCluster(t *testing.T) {
	cluster := &api.ClusterInfoReply{
		Ok: true,
		Partitions: []*api.PartitionInfo{
			{
				Name:       "normal",
				TotalNodes: 4,
				IsDefault:  true,
				Shapes: []api.NodeShape{
					{Count: 4, Cpus: 64, Gpus: 4, MemoryBytes: 512 << 30},
				},
			},
			{
				Name:       "largemem",
				TotalNodes: 1,
				Shapes: []api.NodeShape{
					{Count: 1, Cpus: 128, Gpus: 0, MemoryBytes: 4096 << 30},
				},
			},
		},
	}

	tests := []struct {
		name    string
		job     api.JobSpec
		wantErr bool
	}{
		{"fits default partition", api.JobSpec{NodeNum: 1, CpusPerNode: 8, GpusPerNode: 1, MemPerNodeBytes: 100 << 30}, false},
		{"too many nodes", api.JobSpec{Partition: "normal", NodeNum: 8, CpusPerNode: 1}, true},
		{"too many gpus", api.JobSpec{Partition: "normal", NodeNum: 1, CpusPerNode: 1, GpusPerNode: 8}, true},
		{"largemem takes big memory", api.JobSpec{Partition: "largemem", NodeNum: 1, CpusPerNode: 16, MemPerNodeBytes: 2048 << 30}, false},
		{"unknown partition", api.JobSpec{Partition: "debug", NodeNum: 1, CpusPerNode: 1}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := CheckResourcesAgainstCluster(&tt.job, cluster)
			if (err != nil) != tt.wantErr {
				t.Errorf("got err=%v, wantErr=%v", err, tt.wantErr)
			}
		})
	}
}

func TestParseOpenMode(t *testing.T) {
	appendMode, err := parseOpenMode(util.OpenModeAppend)
	if err != nil || !appendMode {
		t.Errorf("append: got (%v, %v)", appendMode, err)
	}
	appendMode, err = parseOpenMode(util.OpenModeTruncate)
	if err != nil || appendMode {
		t.Errorf("truncate: got (%v, %v)", appendMode, err)
	}
	if _, err = parseOpenMode("rewind"); err == nil {
		t.Error("expected error for unknown open mode")
	}
}
