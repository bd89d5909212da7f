// Package version provides build-time version information for EcoTrace binaries.
// Variables are injected at build time via ldflags, e.g.
//
//	-X github.com/HerbHall/ecotrace/internal/version.Version=0.2.0
package version

import (
	"fmt"
	"runtime"

	"github.com/prometheus/client_golang/prometheus"
)

// Name is the product name used in banners and headers.
const Name = "EcoTrace"

// Build-time variables injected via ldflags.
var (
	Version   = "dev"
	GitCommit = "unknown"
	BuildDate = "unknown"
)

// Info returns a formatted version string suitable for the version subcommand.
func Info() string {
	return fmt.Sprintf("%s %s (commit: %s, built: %s, go: %s)",
		Name, Version, GitCommit, BuildDate, runtime.Version())
}

// Short returns just the version string (e.g., "0.1.0" or "dev").
func Short() string {
	return Version
}

// Map returns version info as a map for JSON serialization.
func Map() map[string]string {
	return map[string]string{
		"version":    Version,
		"git_commit": GitCommit,
		"build_date": BuildDate,
		"go_version": runtime.Version(),
		"os":         runtime.GOOS,
		"arch":       runtime.GOARCH,
	}
}

// Collector returns a constant ecotrace_build_info gauge labelled with the
// build metadata.
func Collector() prometheus.Collector {
	info := prometheus.NewGaugeVec(prometheus.GaugeOpts{
		Namespace: "ecotrace",
		Name:      "build_info",
		Help:      "Build metadata; the value is always 1.",
	}, []string{"version", "git_commit", "go_version"})
	info.WithLabelValues(Version, GitCommit, runtime.Version()).Set(1)
	return info
}
