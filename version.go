package spire

import (
	_ "embed"
	"strings"
)

//go:embed VERSION
var rawVersion string

// Version is the release of the agent, as recorded in the VERSION file.
var Version = strings.TrimSpace(rawVersion)
