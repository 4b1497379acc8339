package context

import (
	"errors"
	"fmt"
	"runtime/debug"
	"strings"
)

// VersionInfo is the application build information.
type VersionInfo struct {
	Semantic  string
	Commit    string
	Dirty     bool
	GoVersion string
}

// GetVersion returns the version information embedded in the binary by the Go
// toolchain.
func GetVersion() (*VersionInfo, error) {
	bi, ok := debug.ReadBuildInfo()
	if !ok {
		return nil, errors.New("failed reading build information")
	}

	vi := &VersionInfo{Semantic: bi.Main.Version, GoVersion: bi.GoVersion}
	if vi.Semantic == "" || vi.Semantic == "(devel)" {
		vi.Semantic = "v0.0.0-dev"
	}

	for _, s := range bi.Settings {
		switch s.Key {
		case "vcs.revision":
			vi.Commit = s.Value
		case "vcs.modified":
			vi.Dirty = s.Value == "true"
		}
	}

	return vi, nil
}

// String returns the version in a human readable format, e.g.
// 'v1.2.3 (commit/abcdef12-dirty, go1.24.2)'.
func (vi *VersionInfo) String() string {
	var sb strings.Builder
	sb.WriteString(vi.Semantic)

	details := []string{}
	if vi.Commit != "" {
		commit := vi.Commit
		if len(commit) > 8 {
			commit = commit[:8]
		}
		if vi.Dirty {
			commit += "-dirty"
		}
		details = append(details, "commit/"+commit)
	}
	if vi.GoVersion != "" {
		details = append(details, vi.GoVersion)
	}
	if len(details) > 0 {
		fmt.Fprintf(&sb, " (%s)", strings.Join(details, ", "))
	}

	return sb.String()
}
