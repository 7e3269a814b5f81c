package version

import (
	"fmt"
	"runtime"
	"time"
)

// Set at build time with -ldflags "-X github.com/MrSnakeDoc/aquatrack/internal/version.Version=..."
var (
	Version   = "dev"
	Commit    = "none"
	BuildDate = time.Now().Format(time.RFC3339)
	GoVersion = runtime.Version()
)

// String renders the build metadata on one line.
func String() string {
	return fmt.Sprintf("aquatrack %s (commit=%s, built=%s, go=%s)", Version, Commit, BuildDate, GoVersion)
}
