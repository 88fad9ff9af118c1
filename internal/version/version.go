package version

// Version is stamped at build time:
// go build -ldflags "-X git.home.luguber.info/inful/hrmslite/internal/version.Version=v0.3.0".
var Version = "dev"

// Build metadata, stamped the same way as Version.
var (
	BuildTime = "unknown"
	GitCommit = "unknown"
)

// String renders the version line printed by --version.
func String() string {
	return "hrmslite " + Version + " (commit " + GitCommit + ", built " + BuildTime + ")"
}
