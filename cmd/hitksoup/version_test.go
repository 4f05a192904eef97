package main

import (
	"bytes"
	"encoding/json"
	"runtime"
	"runtime/debug"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestNewBuildInfo(t *testing.T) {
	t.Parallel()

	vcs := &debug.BuildInfo{
		GoVersion: "go1.25.0",
		Main:      debug.Module{Version: "v1.2.0"},
		Settings: []debug.BuildSetting{
			{Key: "vcs.revision", Value: "0123456789abcdef"},
			{Key: "vcs.time", Value: "2026-01-02T03:04:05Z"},
			{Key: "vcs.modified", Value: "true"},
		},
	}

	tests := []struct {
		name               string
		bi                 *debug.BuildInfo
		ok                 bool
		ldVer, ldCom, ldDa string
		want               buildInfo
	}{
		{
			name: "no build info",
			want: buildInfo{Version: "(devel)", Commit: "unknown", Date: "unknown", GoVersion: runtime.Version()},
		},
		{
			name: "module build settings",
			bi:   vcs,
			ok:   true,
			want: buildInfo{Version: "v1.2.0", Commit: "0123456", Date: "2026-01-02T03:04:05Z", GoVersion: "go1.25.0", Modified: true},
		},
		{
			name:  "ldflags win",
			bi:    vcs,
			ok:    true,
			ldVer: "v9.9.9", ldCom: "fedcba9876", ldDa: "today",
			want: buildInfo{Version: "v9.9.9", Commit: "fedcba9", Date: "today", GoVersion: "go1.25.0", Modified: true},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got := newBuildInfo(tt.bi, tt.ok, tt.ldVer, tt.ldCom, tt.ldDa)
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("newBuildInfo() mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestBuildInfoString(t *testing.T) {
	t.Parallel()

	info := buildInfo{Version: "v1.2.0", Commit: "0123456", Date: "today", GoVersion: "go1.25.0", Modified: true}
	want := "hitksoup v1.2.0 (commit 0123456-dirty, built today, go1.25.0)"
	if got := info.String(); got != want {
		t.Errorf("String() = %q, want %q", got, want)
	}
}

func TestNewVersionCmd(t *testing.T) {
	t.Parallel()

	run := func(t *testing.T, args ...string) string {
		t.Helper()
		cmd := NewVersionCmd()
		var buf bytes.Buffer
		cmd.SetOut(&buf)
		cmd.SetArgs(args)
		if err := cmd.Execute(); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		return buf.String()
	}

	t.Run("text output", func(t *testing.T) {
		t.Parallel()
		out := run(t)
		if !strings.HasPrefix(out, "hitksoup ") || !strings.Contains(out, "commit ") {
			t.Errorf("unexpected output %q", out)
		}
	})

	t.Run("json output", func(t *testing.T) {
		t.Parallel()
		var got buildInfo
		if err := json.Unmarshal([]byte(run(t, "--json")), &got); err != nil {
			t.Fatalf("output is not JSON: %v", err)
		}
		if got.Version == "" || got.GoVersion == "" {
			t.Errorf("incomplete build info %+v", got)
		}
	})
}
