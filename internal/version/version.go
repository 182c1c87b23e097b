// Package version carries build identity, stamped via -ldflags at release
// time.
package version

import "runtime"

var (
	AppName   = "templebot"
	Version   = "dev"
	BuildDate = "unknown"
	GoVersion = runtime.Version()
)
