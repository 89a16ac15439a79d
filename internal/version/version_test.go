package version

import (
	"testing"

	"github.com/fatih/color"
)

func TestCurrent(t *testing.T) {
	origVersion, origCommit, origDate := Version, GitCommit, BuildDate
	defer func() { Version, GitCommit, BuildDate = origVersion, origCommit, origDate }()

	Version = "  1.2.3 "
	GitCommit = "abc123def456"
	BuildDate = "2024-01-15T10:30:00Z"
	info := Current()
	if info.Version != "1.2.3" || info.GitCommit != "abc123def456" || info.BuildDate != "2024-01-15T10:30:00Z" {
		t.Fatalf("Current() = %+v", info)
	}

	Version = ""
	if got := Current().Version; got != "dev" {
		t.Fatalf("empty version = %q, want dev", got)
	}
}

func TestColored(t *testing.T) {
	prev := color.NoColor
	color.NoColor = true
	defer func() { color.NoColor = prev }()

	tests := []string{
		"0.1.0",
		"0.1.0-dev",
		"1.2.3-rc.1+build.123",
		"dev",
		"1.2",
	}
	for _, v := range tests {
		if got := Colored(v); got != v {
			t.Errorf("Colored(%q) without color = %q", v, got)
		}
	}
}
