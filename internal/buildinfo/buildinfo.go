package buildinfo

import "time"

// Set via -ldflags at build time
var (
	Version    string // release tag
	CommitHash string // short git commit hash
	BuildTime  string // when the binary was compiled
)

// StartTime is recorded when the process starts
var StartTime = time.Now().UTC().Format(time.RFC3339)
