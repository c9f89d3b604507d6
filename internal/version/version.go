package version

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	goversion "github.com/hashicorp/go-version"
	"go.uber.org/zap"
)

// Version is the running release, overridable at build time with
// -ldflags "-X .../internal/version.Version=v1.2.3".
var Version = "1.0.0"

type githubRelease struct {
	TagName string `json:"tag_name"`
}

// CheckForUpdates compares the running version against the latest GitHub
// release. Best effort: network or parse failures are silently ignored so
// startup never depends on GitHub.
func CheckForUpdates(logger *zap.Logger) {
	const repoOwner = "nulzo"
	const repoName = "cache-gateway-api"
	url := fmt.Sprintf("https://api.github.com/repos/%s/%s/releases/latest", repoOwner, repoName)

	client := http.Client{Timeout: 2 * time.Second}

	resp, err := client.Get(url)
	if err != nil {
		return
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	if resp.StatusCode != http.StatusOK {
		return
	}

	var release githubRelease
	if err := json.NewDecoder(resp.Body).Decode(&release); err != nil {
		return
	}

	current, err := goversion.NewVersion(Version)
	if err != nil {
		return
	}

	latest, err := goversion.NewVersion(release.TagName)
	if err != nil {
		return
	}

	if current.LessThan(latest) {
		logger.Warn("running an outdated version",
			zap.String("current", Version),
			zap.String("latest", release.TagName),
		)
	}
}
