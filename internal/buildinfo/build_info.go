package buildinfo

import (
	"fmt"
	"runtime/debug"
)

// These are set at link time with -ldflags "-X ...".
var (
	version    = "dev"
	commitHash = "unknown"
	buildDate  = "unknown"
)

// BuildInfo holds all sorts of information about the build of an executable artifact.
type BuildInfo struct {
	Version    string `json:"version"`
	CommitHash string `json:"commit"`
	BuildDate  string `json:"date"`
	GoVersion  string `json:"go"`
}

// Get returns the build info of the running binary. Values not set at link time are taken
// from the module build info when available.
func Get() BuildInfo {
	info := BuildInfo{Version: version, CommitHash: commitHash, BuildDate: buildDate}
	bi, ok := debug.ReadBuildInfo()
	if !ok {
		return info
	}
	info.GoVersion = bi.GoVersion
	if info.Version == "dev" && bi.Main.Version != "" && bi.Main.Version != "(devel)" {
		info.Version = bi.Main.Version
	}
	for _, s := range bi.Settings {
		switch {
		case s.Key == "vcs.revision" && info.CommitHash == "unknown":
			info.CommitHash = s.Value
		case s.Key == "vcs.time" && info.BuildDate == "unknown":
			info.BuildDate = s.Value
		}
	}
	return info
}

// String returns the build info as a string.
func (i BuildInfo) String() string {
	return fmt.Sprintf("version %s (%s) built on %s with %s", i.Version, i.CommitHash,
		i.BuildDate, i.GoVersion)
}
