package lingoseo

// Version information for lingoseo.
// These values can be overridden at build time using ldflags:
//
//	go build -ldflags "-X github.com/ZaguanLabs/lingoseo.GitCommit=$(git rev-parse HEAD)"
const (
	// Name is the application name.
	Name = "lingoseo"

	// Description is a short description of the application.
	Description = "Language resolution, SEO metadata, sitemaps and prerendering for multilingual sites"

	// Version is the semantic version of the application.
	Version = "0.3.0"

	// Repository is the source code repository URL.
	Repository = "https://github.com/ZaguanLabs/lingoseo"

	// License is the software license.
	License = "MIT"
)

// BuildInfo, set via ldflags during release builds.
var (
	GitCommit = "unknown"
	BuildDate = "unknown"
)

// FullVersion returns the version string with the short commit appended
// when known.
func FullVersion() string {
	v := Version
	if GitCommit != "unknown" && GitCommit != "" {
		short := GitCommit
		if len(short) > 7 {
			short = short[:7]
		}
		v += "+" + short
	}
	return v
}

// UserAgent returns the User-Agent sent by the HTTP renderer and the
// readiness probe.
func UserAgent() string {
	return Name + "/" + Version
}
