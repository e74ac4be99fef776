// Package version holds the build version, injected at build time via
// -ldflags "-X .../internal/version.Version=v1.2.3".
package version

// Version is the running build's version string.
var Version = "dev"
