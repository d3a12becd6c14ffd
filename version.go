package wayfarer

import (
	_ "embed"
	"strings"
)

//go:embed VERSION
var rawVersion string

// Version is the released version of the module.
var Version = strings.TrimSpace(rawVersion)
