package version

import "runtime/debug"

// Build information set by ldflags
var (
	Version = "dev"     // -X github.com/arthur-debert/gantry/internal/version.Version={{.Version}}
	Commit  = "unknown" // -X github.com/arthur-debert/gantry/internal/version.Commit={{.Commit}}
	Date    = "unknown" // -X github.com/arthur-debert/gantry/internal/version.Date={{.Date}}
)

// Info is the build information of the running binary
type Info struct {
	Version string
	Commit  string
	Date    string
}

// Get returns the build information. Binaries installed with `go install`
// carry no ldflags; their module version and VCS revision are used instead.
func Get() Info {
	info := Info{Version: Version, Commit: Commit, Date: Date}
	bi, ok := debug.ReadBuildInfo()
	if !ok {
		return info
	}
	if info.Version == "dev" && bi.Main.Version != "" && bi.Main.Version != "(devel)" {
		info.Version = bi.Main.Version
	}
	for _, s := range bi.Settings {
		switch {
		case s.Key == "vcs.revision" && info.Commit == "unknown":
			info.Commit = s.Value
		case s.Key == "vcs.time" && info.Date == "unknown":
			info.Date = s.Value
		}
	}
	return info
}
