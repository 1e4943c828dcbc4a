package version

// Build information set by ldflags
var (
	Version = "dev"     // Set by goreleaser: -X github.com/karussell/bach/internal/version.Version={{.Version}}
	Commit  = "unknown" // Set by goreleaser: -X github.com/karussell/bach/internal/version.Commit={{.Commit}}
	Date    = "unknown" // Set by goreleaser: -X github.com/karussell/bach/internal/version.Date={{.Date}}
)
