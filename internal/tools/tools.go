// Package tools inspects the external binaries the renderer shells out to.
// Rendering needs ffmpeg for the filter graphs and ffprobe for media
// inspection; doctor uses this package to report what is installed.
package tools

import (
	"context"
	"fmt"
	"os/exec"
	"runtime"
	"time"
)

// Requirement describes one required binary and the oldest version the
// render filter graphs are known to work with.
type Requirement struct {
	Name          string
	VersionSwitch string
	Minimum       string
}

// Requirements lists the binaries a full render needs. ffprobe ships with
// ffmpeg but some installs split them, so both are checked.
func Requirements() []Requirement {
	return []Requirement{
		{Name: "ffmpeg", VersionSwitch: "-version", Minimum: "4.4"},
		{Name: "ffprobe", VersionSwitch: "-version", Minimum: "4.4"},
	}
}

// Status captures the resolved state of one binary.
type Status struct {
	Tool      string   `json:"tool"`
	Path      string   `json:"path,omitempty"`
	Version   string   `json:"version,omitempty"`
	Minimum   string   `json:"minimum,omitempty"`
	Satisfied bool     `json:"satisfied"`
	Error     string   `json:"error,omitempty"`
	Hints     []string `json:"hints,omitempty"`
}

// Detect resolves every required binary on PATH and reads its version.
func Detect(ctx context.Context) []Status {
	if ctx == nil {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
	}

	reqs := Requirements()
	statuses := make([]Status, 0, len(reqs))
	for _, req := range reqs {
		statuses = append(statuses, detectOne(ctx, req))
	}
	return statuses
}

// Healthy reports whether every status is usable.
func Healthy(statuses []Status) bool {
	for _, s := range statuses {
		if !s.Satisfied {
			return false
		}
	}
	return len(statuses) > 0
}

func detectOne(ctx context.Context, req Requirement) Status {
	status := Status{Tool: req.Name, Minimum: req.Minimum}

	path, err := exec.LookPath(req.Name)
	if err != nil {
		status.Error = fmt.Sprintf("%s not found in PATH", req.Name)
		status.Hints = installHints(req.Name)
		return status
	}
	status.Path = path

	version, err := readVersion(ctx, path, req.VersionSwitch)
	if err != nil {
		status.Error = err.Error()
		return status
	}
	status.Version = version
	status.Satisfied = meetsMinimum(version, req.Minimum)
	if !status.Satisfied {
		status.Error = fmt.Sprintf("version %s below minimum %s", version, req.Minimum)
	}
	return status
}

func installHints(tool string) []string {
	switch runtime.GOOS {
	case "darwin":
		return []string{fmt.Sprintf("Install %s via Homebrew: brew install ffmpeg", tool)}
	case "linux":
		return []string{fmt.Sprintf("Install %s with your distro package manager, e.g. sudo apt install ffmpeg", tool)}
	case "windows":
		return []string{
			"Install ffmpeg via winget: winget install Gyan.FFmpeg",
			"or via Chocolatey: choco install ffmpeg",
		}
	default:
		return []string{"Install ffmpeg using your platform's package manager"}
	}
}
