// ABOUTME: Version constants for the player
// ABOUTME: Single place to bump the release version
package version

const (
	// Product is the program name shown in the UI and usage text.
	Product = "afqueue"

	// Version is the release version.
	Version = "0.1.0"
)
