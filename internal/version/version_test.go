package version

import (
	"strings"
	"testing"

	"github.com/Masterminds/semver/v3"
)

func TestVersionIsSemver(t *testing.T) {
	if _, err := semver.NewVersion(Version); err != nil {
		t.Fatalf("Version %q: %v", Version, err)
	}
}

func TestColored(t *testing.T) {
	saved := Version
	t.Cleanup(func() { Version = saved })

	Version = "1.2.3-dev"
	if got := Colored(false); got != "1.2.3-dev" {
		t.Errorf("Colored(false) = %q", got)
	}
	got := Colored(true)
	if !strings.Contains(got, "\x1b[") || !strings.HasSuffix(got, "-dev") {
		t.Errorf("Colored(true) = %q", got)
	}

	Version = "weird"
	if got := Colored(true); got != "weird" {
		t.Errorf("non-semver Version = %q", got)
	}
}
