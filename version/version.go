package version

import (
	"fmt"
	"runtime"
	"strings"

	"github.com/Masterminds/semver/v3"
	"github.com/teranos/wd/internal/util"
)

// Build information. These variables are set at build time via ldflags:
//
//	go build -ldflags "-X github.com/teranos/wd/version.Version=1.2.3 -X github.com/teranos/wd/version.CommitHash=$(git rev-parse --short HEAD)"
var (
	// Version is the semantic version (if tagged)
	Version = "0.1.0-dev"

	// CommitHash is the git commit hash when the binary was built
	CommitHash = ""

	// BuildTime is when the binary was built
	BuildTime = ""
)

// Environment overrides for the build metadata, read once at startup.
const (
	EnvVersion = "WD_CLI_VERSION"
	EnvCommit  = "WD_CLI_COMMIT"
	EnvDate    = "WD_CLI_DATE"
)

// Info contains version and build information. It is built once at process
// entry and passed by value to whatever renders it.
type Info struct {
	Version   string `json:"version" yaml:"version"`
	Commit    string `json:"commit" yaml:"commit"`
	Date      string `json:"date" yaml:"date"`
	GoVersion string `json:"go_version" yaml:"go_version"`
	Platform  string `json:"platform" yaml:"platform"`
}

// Load returns the build info, letting non-blank environment values override
// the ldflags defaults. getenv is usually os.Getenv.
func Load(getenv func(string) string) Info {
	if getenv == nil {
		getenv = func(string) string { return "" }
	}
	return Info{
		Version:   util.FirstNonEmpty(getenv(EnvVersion), Version),
		Commit:    util.FirstNonEmpty(getenv(EnvCommit), CommitHash),
		Date:      util.FirstNonEmpty(getenv(EnvDate), BuildTime),
		GoVersion: runtime.Version(),
		Platform:  fmt.Sprintf("%s/%s", runtime.GOOS, runtime.GOARCH),
	}
}

// New builds an Info from explicit values (trimmed), without consulting the
// environment.
func New(ver, commit, date string) Info {
	return Info{
		Version:   strings.TrimSpace(ver),
		Commit:    strings.TrimSpace(commit),
		Date:      strings.TrimSpace(date),
		GoVersion: runtime.Version(),
		Platform:  fmt.Sprintf("%s/%s", runtime.GOOS, runtime.GOARCH),
	}
}

// Semver parses the version, reporting false for non-semver strings like "dev".
func (i Info) Semver() (*semver.Version, bool) {
	v, err := semver.NewVersion(i.Version)
	if err != nil {
		return nil, false
	}
	return v, true
}

// DisplayVersion is the version shown to users: canonical semver when the
// version parses ("v1.2.3" -> "1.2.3"), the raw value otherwise, "dev" when blank.
func (i Info) DisplayVersion() string {
	if v, ok := i.Semver(); ok {
		return v.String()
	}
	if i.Version == "" {
		return "dev"
	}
	return i.Version
}

// String returns "<version>" or "<version> (<commit> <date>)" when any build
// metadata is present.
func (i Info) String() string {
	ver := i.DisplayVersion()
	if i.Commit != "" || i.Date != "" {
		return fmt.Sprintf("%s (%s %s)", ver, i.Commit, i.Date)
	}
	return ver
}
