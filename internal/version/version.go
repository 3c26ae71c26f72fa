// Package version provides build and version information.
package version

// Version is the current application version.
const Version = "0.3.0"

// Commit is set at build time with -ldflags "-X .../version.Commit=<sha>".
var Commit = "dev"

// Milestones:
// 0.3.0 - Backup board TUI, watch mode with ranking events, Prometheus endpoint
// 0.2.0 - Night scheduler, observatory registry, koanf configuration
// 0.1.0 - Initial release: backup ranker, CSV catalog, text report
