// Package version carries the build-time identity of the itask binary.
package version

var (
	// Version is the current semantic version.
	Version = "0.1.0"

	// Date is set during build time (use -ldflags); "development" otherwise.
	Date = "development"
)
