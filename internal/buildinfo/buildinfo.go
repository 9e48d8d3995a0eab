// Package buildinfo is stamped at link time:
//
//	go build -ldflags "-X .../internal/buildinfo.Version=v0.3.0 -X .../internal/buildinfo.Commit=$(git rev-parse --short HEAD)"
package buildinfo

import "fmt"

var (
	Version = "dev"
	Commit  = "none"
	Date    = "unknown"
)

func String() string {
	return fmt.Sprintf("studytrack %s (commit=%s, date=%s)", Version, Commit, Date)
}
