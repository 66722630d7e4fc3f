package version

import (
	"strings"
	"testing"
)

func TestInfoString(t *testing.T) {
	t.Parallel()

	info := Info{Version: "1.2.3", GitCommit: "abc", BuildTime: "now", GoVersion: "go1.24", Platform: "linux/amd64"}
	want := "codebasetext 1.2.3 (abc, built now, go1.24 linux/amd64)"
	if got := info.String(); got != want {
		t.Errorf("String() = %q, want %q", got, want)
	}
	if got := Get(); !strings.Contains(got.Platform, "/") || got.GoVersion == "" {
		t.Errorf("Get() = %+v", got)
	}
}
