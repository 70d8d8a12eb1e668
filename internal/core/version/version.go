// Package version reports the build identity of the api binary
package version

// BuildInfo is what /version returns
type BuildInfo struct {
	Service string `json:"service"`
	Version string `json:"version"`
	Commit  string `json:"commit"`
	Date    string `json:"date"`
}

// Set via -ldflags "-X 'leadsdash/internal/core/version.version=v0.1.0'
// -X 'leadsdash/internal/core/version.commit=abcd' -X 'leadsdash/internal/core/version.date=2026-01-01'"
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

// Info returns the build information of the running binary
func Info() BuildInfo {
	return BuildInfo{
		Service: "leadsdash-api",
		Version: version,
		Commit:  commit,
		Date:    date,
	}
}
