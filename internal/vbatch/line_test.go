package vbatch

import (
	"testing"
)

func collectArgs(t *testing.T, p LineProcessor, line string) []BatchArg {
	t.Helper()
	sh := make([]string, 0)
	args := make([]BatchArg, 0)
	if err := p.Process(line, &sh, &args); err != nil {
		t.Fatalf("Process(%q) failed: %v", line, err)
	}
	return args
}

func TestVortexLine(t *testing.T) {
	tests := []struct {
		line string
		name string
		val  string
	}{
		{"#VBATCH --job-name train", "--job-name", "train"},
		{"#VBATCH --time 24:00:00", "--time", "24:00:00"},
		{"#VBATCH --partition=gpu", "--partition", "gpu"},
		{"#VBATCH --hold", "--hold", ""},
	}
	for _, tt := range tests {
		args := collectArgs(t, &vLineProcessor{}, tt.line)
		if len(args) != 1 {
			t.Fatalf("line %q: expected 1 arg, got %d", tt.line, len(args))
		}
		if args[0].name != tt.name || args[0].val != tt.val {
			t.Errorf("line %q: got (%s, %s), want (%s, %s)",
				tt.line, args[0].name, args[0].val, tt.name, tt.val)
		}
	}
}

func TestVortexLinemalformed(t *testing.T) {
	sh := make([]string, 0)
	args := make([]BatchArg, 0)
	p := &vLineProcessor{}
	if err := p.Process("#VBATCH", &sh, &args); err == nil {
		t.Error("expected error for directive without arguments")
	}
	if err := p.Process("#VBATCH --time 1:0:0 trailing", &sh, &args); err == nil {
		t.Error("expected error for trailing fields")
	}
}

func TestPbsLineMapping(t *testing.T) {
	tests := []struct {
		line string
		name string
		val  string
	}{
		{"#PBS -N vox_job", "--job-name", "vox_job"},
		{"#PBS -P personal-ab123", "--account", "personal-ab123"},
		{"#PBS -q normal", "--partition", "normal"},
		{"#PBS -o output_vox.log", "--output", "output_vox.log"},
		{"#PBS -e error_vox.log", "--error", "error_vox.log"},
		{"#PBS -M user@example.com", "--mail-user", "user@example.com"},
	}
	for _, tt := range tests {
		args := collectArgs(t, &pbsLineProcessor{}, tt.line)
		if len(args) != 1 {
			t.Fatalf("line %q: expected 1 arg, got %d", tt.line, len(args))
		}
		if args[0].name != tt.name || args[0].val != tt.val {
			t.Errorf("line %q: got (%s, %s), want (%s, %s)",
				tt.line, args[0].name, args[0].val, tt.name, tt.val)
		}
	}
}

func TestPbsResourceList(t *testing.T) {
	args := collectArgs(t, &pbsLineProcessor{},
		"#PBS -l select=1:ncpus=8:ngpus=1:mem=100GB,walltime=24:00:00")
	if len(args) != 2 {
		t.Fatalf("expected 2 args, got %d: %v", len(args), args)
	}
	if args[0].name != "--select" || args[0].val != "1:ncpus=8:ngpus=1:mem=100GB" {
		t.Errorf("unexpected select arg: %+v", args[0])
	}
	if args[1].name != "--time" || args[1].val != "24:00:00" {
		t.Errorf("unexpected walltime arg: %+v", args[1])
	}
}

func TestPbsMergeStderr(t *testing.T) {
	args := collectArgs(t, &pbsLineProcessor{}, "#PBS -j oe")
	if len(args) != 1 || args[0].name != "--merge-stderr" {
		t.Errorf("expected --merge-stderr, got %v", args)
	}

	// "-j n" keeps the streams separate and produces no arg
	args = collectArgs(t, &pbsLineProcessor{}, "#PBS -j n")
	if len(args) != 0 {
		t.Errorf("expected no arg for -j n, got %v", args)
	}
}

func TestPbsUnsupportedOptionIsIgnored(t *testing.T) {
	args := collectArgs(t, &pbsLineProcessor{}, "#PBS -W depend=afterok:123")
	if len(args) != 0 {
		t.Errorf("expected unsupported option to be skipped, got %v", args)
	}
}

func TestDefaultProcessorKeepsShellLines(t *testing.T) {
	sh := make([]string, 0)
	args := make([]BatchArg, 0)
	p := &defaultProcessor{}
	lines := []string{
		"cd ${PBS_O_WORKDIR}/image_diffusion_todo",
		"python train.py --use_cfg",
	}
	for _, l := range lines {
		if err := p.Process(l, &sh, &args); err != nil {
			t.Fatalf("Process(%q) failed: %v", l, err)
		}
	}
	if len(sh) != 2 || len(args) != 0 {
		t.Errorf("expected 2 sh lines and no args, got sh=%v args=%v", sh, args)
	}
}
