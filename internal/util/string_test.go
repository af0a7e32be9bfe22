package util

import (
	"reflect"
	"testing"
)

func TestParseMemStringAsByte(t *testing.T) {
	testCases := []struct {
		input     string
		want      uint64
		expectErr bool
	}{
		{input: "100GB", want: 100 * 1024 * 1024 * 1024},
		{input: "100G", want: 100 * 1024 * 1024 * 1024},
		{input: "512M", want: 512 * 1024 * 1024},
		{input: "512mb", want: 512 * 1024 * 1024},
		{input: "4096K", want: 4096 * 1024},
		{input: "2T", want: 2 * 1024 * 1024 * 1024 * 1024},
		{input: "1024B", want: 1024},
		{input: "128", want: 128 * 1024 * 1024},
		{input: "1.5G", want: uint64(1.5 * 1024 * 1024 * 1024)},
		{input: "", expectErr: true},
		{input: "abc", expectErr: true},
		{input: "100GBX", expectErr: true},
		{input: "-5G", expectErr: true},
	}

	for _, tc := range testCases {
		t.Run(tc.input, func(t *testing.T) {
			got, err := ParseMemStringAsByte(tc.input)
			if tc.expectErr {
				if err == nil {
					t.Fatalf("expected error, got %d", got)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tc.want {
				t.Fatalf("got %d, want %d", got, tc.want)
			}
		})
	}
}

func TestParseDurationStrToSeconds(t *testing.T) {
	testCases := []struct {
		input     string
		want      int64
		expectErr bool
	}{
		{input: "12:00:00", want: 12 * 3600},
		{input: "00:05:30", want: 330},
		{input: "2-01:00:00", want: 2*24*3600 + 3600},
		{input: "0:0:1", want: 1},
		{input: "12:00", expectErr: true},
		{input: "12:61:00", expectErr: true},
		{input: "12:00:61", expectErr: true},
		{input: "walltime", expectErr: true},
		{input: "", expectErr: true},
	}

	for _, tc := range testCases {
		t.Run(tc.input, func(t *testing.T) {
			got, err := ParseDurationStrToSeconds(tc.input)
			if tc.expectErr {
				if err == nil {
					t.Fatalf("expected error, got %d", got)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tc.want {
				t.Fatalf("got %d, want %d", got, tc.want)
			}
		})
	}
}

func TestSecondTimeFormat(t *testing.T) {
	testCases := []struct {
		seconds int64
		want    string
	}{
		{seconds: 0, want: "00:00:00"},
		{seconds: 330, want: "00:05:30"},
		{seconds: 12 * 3600, want: "12:00:00"},
		{seconds: 2*24*3600 + 3661, want: "2-01:01:01"},
	}

	for _, tc := range testCases {
		if got := SecondTimeFormat(tc.seconds); got != tc.want {
			t.Errorf("SecondTimeFormat(%d) = %q, want %q", tc.seconds, got, tc.want)
		}
	}
}

func TestParseHostList(t *testing.T) {
	testCases := []struct {
		name  string
		input string
		want  []string
		ok    bool
	}{
		{
			name:  "plain list",
			input: "gpu01,gpu02",
			want:  []string{"gpu01", "gpu02"},
			ok:    true,
		},
		{
			name:  "range",
			input: "node[01-03]",
			want:  []string{"node01", "node02", "node03"},
			ok:    true,
		},
		{
			name:  "range with suffix",
			input: "node[1-2].cluster",
			want:  []string{"node1.cluster", "node2.cluster"},
			ok:    true,
		},
		{
			name:  "mixed range and singles",
			input: "gpu[1,3-4],head",
			want:  []string{"gpu1", "gpu3", "gpu4", "head"},
			ok:    true,
		},
		{
			name:  "empty",
			input: "",
			want:  nil,
			ok:    true,
		},
		{
			name:  "unbalanced bracket",
			input: "node[01",
			ok:    false,
		},
		{
			name:  "descending range",
			input: "node[05-01]",
			ok:    false,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			got, ok := ParseHostList(tc.input)
			if ok != tc.ok {
				t.Fatalf("ok = %v, want %v", ok, tc.ok)
			}
			if tc.ok && !reflect.DeepEqual(got, tc.want) {
				t.Fatalf("got %v, want %v", got, tc.want)
			}
		})
	}
}
