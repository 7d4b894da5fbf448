package version

import (
	"runtime/debug"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestShort(t *testing.T) {
	tests := []struct {
		name string
		info BuildInfo
		want string
	}{
		{"release with commit", BuildInfo{Version: "v1.2.0", GitCommit: "abcdef123456"}, "v1.2.0 (abcdef1)"},
		{"dev with commit", BuildInfo{Version: "dev", GitCommit: "abcdef123456"}, "dev-abcdef1"},
		{"no commit", BuildInfo{Version: "v1.2.0", GitCommit: "unknown"}, "v1.2.0"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.info.Short())
		})
	}
}

func TestApplyBuildSettings(t *testing.T) {
	info := &BuildInfo{Version: "dev", GitCommit: "unknown"}
	applyBuildSettings(info, &debug.BuildInfo{
		Main: debug.Module{Version: "v0.3.0"},
		Settings: []debug.BuildSetting{
			{Key: "vcs.revision", Value: "0123456789"},
			{Key: "vcs.time", Value: "2024-05-01T10:00:00Z"},
			{Key: "vcs.modified", Value: "true"},
		},
	})

	assert.Equal(t, "v0.3.0", info.Version)
	assert.Equal(t, "0123456789", info.GitCommit)
	assert.Equal(t, time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC), info.BuildTime)
	assert.True(t, info.Dirty)
	assert.Contains(t, info.String(), "Commit: 0123456789 (dirty)")
	assert.True(t, info.IsRelease())
}

func TestLinkerValuesWin(t *testing.T) {
	info := &BuildInfo{Version: "v9.9.9", GitCommit: "feedface"}
	applyBuildSettings(info, &debug.BuildInfo{
		Main:     debug.Module{Version: "v0.0.1"},
		Settings: []debug.BuildSetting{{Key: "vcs.revision", Value: "other"}},
	})

	assert.Equal(t, "v9.9.9", info.Version)
	assert.Equal(t, "feedface", info.GitCommit)
}

func TestParseBuildTime(t *testing.T) {
	assert.True(t, parseBuildTime("unknown").IsZero())
	assert.True(t, parseBuildTime("yesterday").IsZero())
	assert.Equal(t, 2024, parseBuildTime("2024-01-02 03:04:05").Year())
}
