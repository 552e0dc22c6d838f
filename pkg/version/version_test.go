package version

import (
	"strings"
	"testing"
	"time"
)

func TestGetBuildInfoDefaults(t *testing.T) {
	info := GetBuildInfo()

	fields := map[string]string{
		"Version":   info.Version,
		"GitCommit": info.GitCommit,
		"BuildDate": info.BuildDate,
		"GoVersion": info.GoVersion,
		"Platform":  info.Platform,
	}
	for name, value := range fields {
		if value == "" {
			t.Errorf("%s should not be empty", name)
		}
	}
	if !strings.Contains(info.Platform, "/") {
		t.Errorf("Platform = %q, want GOOS/GOARCH", info.Platform)
	}
}

func TestGetBuildInfoBuildTime(t *testing.T) {
	originalBuildDate := BuildDate
	defer func() { BuildDate = originalBuildDate }()

	BuildDate = "2026-01-13T20:00:00Z"
	info := GetBuildInfo()
	want, _ := time.Parse(time.RFC3339, BuildDate)
	if !info.BuildTime.Equal(want) {
		t.Errorf("BuildTime = %v, want %v", info.BuildTime, want)
	}

	BuildDate = "yesterday"
	if info = GetBuildInfo(); !info.BuildTime.IsZero() {
		t.Errorf("BuildTime = %v, want zero for a non-RFC3339 date", info.BuildTime)
	}
}

func TestBuildInfoString(t *testing.T) {
	info := BuildInfo{
		Version:   "1.2.3",
		GitCommit: "abc1234",
		BuildDate: "2026-01-13T20:00:00Z",
		GoVersion: "go1.25.0",
		Platform:  "linux/amd64",
	}
	line := info.String()
	for _, want := range []string{"copctl 1.2.3", "abc1234", "linux/amd64"} {
		if !strings.Contains(line, want) {
			t.Errorf("String() = %q, missing %q", line, want)
		}
	}
}
