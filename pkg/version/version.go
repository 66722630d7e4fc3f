// Package version reports build metadata for codebasetext.
package version

import (
	"fmt"
	"runtime"
)

// AppName is the binary name reported in version output and log fields.
const AppName = "codebasetext"

// Set with -ldflags "-X codebasetext/pkg/version.Version=..." by release builds.
var (
	Version   = "dev"
	Commit    = "none"
	BuildTime = "unknown"
)

// Info is the metadata printed by `codebasetext version`.
type Info struct {
	Version   string
	GitCommit string
	BuildTime string
	GoVersion string
	Platform  string // GOOS/GOARCH
}

func Get() Info {
	return Info{
		Version:   Version,
		GitCommit: Commit,
		BuildTime: BuildTime,
		GoVersion: runtime.Version(),
		Platform:  runtime.GOOS + "/" + runtime.GOARCH,
	}
}

// String renders i on one line, e.g.
// "codebasetext 1.2.3 (abcdefg, built 2026-01-02T15:04:05Z, go1.24.2 linux/amd64)".
func (i Info) String() string {
	return fmt.Sprintf("%s %s (%s, built %s, %s %s)",
		AppName, i.Version, i.GitCommit, i.BuildTime, i.GoVersion, i.Platform)
}
