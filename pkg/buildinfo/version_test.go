package buildinfo

import (
	"runtime/debug"
	"strings"
	"testing"
)

func TestResolve(t *testing.T) {
	embedded := &debug.BuildInfo{
		Main: debug.Module{Version: "v0.3.1"},
		Settings: []debug.BuildSetting{
			{Key: "vcs.revision", Value: "abc123"},
			{Key: "vcs.time", Value: "2026-01-02T03:04:05Z"},
		},
	}

	tests := []struct {
		name string
		vars Info
		read func() (*debug.BuildInfo, bool)
		want Info
	}{
		{
			name: "ldflags win",
			vars: Info{"v1.0.0", "deadbeef", "2026-10-01"},
			read: func() (*debug.BuildInfo, bool) { return embedded, true },
			want: Info{"v1.0.0", "deadbeef", "2026-10-01"},
		},
		{
			name: "embedded fallback",
			vars: Info{"dev", "none", "unknown"},
			read: func() (*debug.BuildInfo, bool) { return embedded, true },
			want: Info{"v0.3.1", "abc123", "2026-01-02T03:04:05Z"},
		},
		{
			name: "devel module",
			vars: Info{"dev", "none", "unknown"},
			read: func() (*debug.BuildInfo, bool) { return &debug.BuildInfo{Main: debug.Module{Version: "(devel)"}}, true },
			want: Info{"dev", "none", "unknown"},
		},
		{
			name: "no build info",
			vars: Info{"dev", "none", "unknown"},
			read: func() (*debug.BuildInfo, bool) { return nil, false },
			want: Info{"dev", "none", "unknown"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			oldV, oldC, oldD := Version, Commit, Date
			defer func() { Version, Commit, Date = oldV, oldC, oldD }()
			Version, Commit, Date = tt.vars.Version, tt.vars.Commit, tt.vars.Date

			if got := resolve(tt.read); got != tt.want {
				t.Errorf("resolve() = %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestTemplate(t *testing.T) {
	if got := Template(); !strings.HasPrefix(got, "{{.Name}} version ") {
		t.Errorf("Template() = %q", got)
	}
}
