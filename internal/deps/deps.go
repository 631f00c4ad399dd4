// Package deps reports the availability of the external binaries vigil
// shells out to during sweeps.
package deps

import (
	"fmt"
	"os/exec"
	"strings"

	"vigil/internal/config"
)

// Requirement defines an external binary vigil relies on.
type Requirement struct {
	Name        string
	Command     string
	Description string
	Optional    bool
}

// Status reports the availability of a requirement.
type Status struct {
	Name        string
	Command     string
	Description string
	Optional    bool
	Available   bool
	Detail      string
}

// Requirements returns the binaries a sweep needs under the given config.
// ffmpeg is optional because yt-dlp only invokes it when a download needs
// separate video and audio streams merged.
func Requirements(cfg *config.Config) []Requirement {
	fetchBinary := "yt-dlp"
	if cfg != nil && strings.TrimSpace(cfg.Fetch.Binary) != "" {
		fetchBinary = cfg.Fetch.Binary
	}
	return []Requirement{
		{
			Name:        "yt-dlp",
			Command:     fetchBinary,
			Description: "Required for downloading queued URLs",
		},
		{
			Name:        "FFmpeg",
			Command:     "ffmpeg",
			Description: "Used by yt-dlp to merge video and audio streams",
			Optional:    true,
		},
	}
}

// CheckBinaries evaluates the provided requirements and reports availability.
func CheckBinaries(requirements []Requirement) []Status {
	results := make([]Status, 0, len(requirements))
	for _, req := range requirements {
		cmd := strings.TrimSpace(req.Command)
		status := Status{
			Name:        req.Name,
			Command:     cmd,
			Description: strings.TrimSpace(req.Description),
			Optional:    req.Optional,
		}
		if cmd == "" {
			status.Detail = "command not configured"
			results = append(results, status)
			continue
		}
		if _, err := exec.LookPath(cmd); err != nil {
			status.Detail = fmt.Sprintf("binary %q not found", cmd)
			results = append(results, status)
			continue
		}
		status.Available = true
		results = append(results, status)
	}
	return results
}
