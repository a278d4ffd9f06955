package version

import (
	"runtime"
	"strings"
	"testing"

	"github.com/fatih/color"
)

func withVersion(t *testing.T, v, commit, date string) {
	t.Helper()
	origVersion, origCommit, origDate := Version, GitCommit, BuildDate
	Version, GitCommit, BuildDate = v, commit, date
	t.Cleanup(func() {
		Version, GitCommit, BuildDate = origVersion, origCommit, origDate
	})
}

func noColor(t *testing.T) {
	t.Helper()
	orig := color.NoColor
	color.NoColor = true
	t.Cleanup(func() { color.NoColor = orig })
}

func TestVersion_DefaultValues(t *testing.T) {
	if Version == "" {
		t.Error("Version should have a default value")
	}
}

func TestColoredKeepsText(t *testing.T) {
	noColor(t)
	for _, v := range []string{"0.1.0", "1.2.3-rc.1+build.123", "2.0.0-alpha", "dev"} {
		withVersion(t, v, "", "")
		if got := Colored(); got != v {
			t.Errorf("Colored() = %q, want %q", got, v)
		}
	}
}

func TestColoredPaintsComponents(t *testing.T) {
	orig := color.NoColor
	color.NoColor = false
	t.Cleanup(func() { color.NoColor = orig })
	withVersion(t, "1.2.3-dev", "", "")

	got := Colored()
	if !strings.Contains(got, "\x1b[") || !strings.HasSuffix(got, "-dev") {
		t.Fatalf("Colored() = %q", got)
	}
}

func TestString(t *testing.T) {
	noColor(t)
	withVersion(t, "1.2.3", "abc123", "2024-01-15T10:30:00Z")
	want := "hereafter 1.2.3 (abc123) built 2024-01-15T10:30:00Z " + runtime.GOOS + "/" + runtime.GOARCH
	if got := String(); got != want {
		t.Fatalf("String() = %q, want %q", got, want)
	}

	withVersion(t, "1.2.3", "", "")
	if got := String(); strings.Contains(got, "(") || strings.Contains(got, "built") {
		t.Fatalf("optional fields leaked: %q", got)
	}
}
