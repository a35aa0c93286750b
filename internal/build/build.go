// Package build holds build-time metadata stamped via -ldflags.
package build

const ProjectName = "lucidity"

var (
	Version = "dev"
	Commit  = "none"
	Date    = "unknown"
)
