// Package version holds build metadata, overridable with -ldflags "-X".
package version

import "runtime"

var (
	AppName        = "Anify Manager"
	AppDescription = "Admin bot for the Anify deployment"
	BuildDate      = ""
	GoVersion      = runtime.Version()
)
