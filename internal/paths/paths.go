package paths

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/wealthealphaglobal/astrofinance-auto/internal/config"
)

// ProjectPaths captures canonical locations within a video project.
type ProjectPaths struct {
	Root           string
	ConfigFile     string
	SignsFile      string
	AssetsDir      string
	BackgroundsDir string
	MusicDir       string
	OutputDir      string
	ShortsDir      string
	WorkDir        string
	LogsDir        string
	MetadataFile   string
	StateFile      string
}

// Resolve determines the project root using the optional --project flag or
// the current working directory when the flag is empty.
func Resolve(projectFlag string) (ProjectPaths, error) {
	var (
		root string
		err  error
	)

	if projectFlag != "" {
		root, err = filepath.Abs(projectFlag)
	} else {
		root, err = os.Getwd()
	}
	if err != nil {
		return ProjectPaths{}, fmt.Errorf("resolve project root: %w", err)
	}

	return newProjectPaths(root), nil
}

func newProjectPaths(root string) ProjectPaths {
	outputDir := filepath.Join(root, "videos")
	return ProjectPaths{
		Root:           root,
		ConfigFile:     filepath.Join(root, config.DefaultFileName),
		SignsFile:      filepath.Join(root, "signs.csv"),
		AssetsDir:      filepath.Join(root, "assets"),
		BackgroundsDir: filepath.Join(root, "assets", "backgrounds"),
		MusicDir:       filepath.Join(root, "assets", "music"),
		OutputDir:      outputDir,
		ShortsDir:      filepath.Join(outputDir, "youtube_shorts"),
		WorkDir:        filepath.Join(outputDir, "work"),
		LogsDir:        filepath.Join(root, "logs"),
		MetadataFile:   filepath.Join(outputDir, "metadata.json"),
		StateFile:      filepath.Join(outputDir, "work", "state.json"),
	}
}

// ApplyConfig overrides the conventional locations with any the config sets.
func ApplyConfig(pp ProjectPaths, cfg config.Config) ProjectPaths {
	if dir := strings.TrimSpace(cfg.Assets.BackgroundsDir); dir != "" {
		pp.BackgroundsDir = resolveProjectPath(pp.Root, dir)
	}
	if dir := strings.TrimSpace(cfg.Assets.MusicDir); dir != "" {
		pp.MusicDir = resolveProjectPath(pp.Root, dir)
	}
	if dir := strings.TrimSpace(cfg.Assets.OutputDir); dir != "" {
		pp.OutputDir = resolveProjectPath(pp.Root, dir)
		pp.ShortsDir = filepath.Join(pp.OutputDir, "youtube_shorts")
		pp.WorkDir = filepath.Join(pp.OutputDir, "work")
		pp.MetadataFile = filepath.Join(pp.OutputDir, "metadata.json")
		pp.StateFile = filepath.Join(pp.WorkDir, "state.json")
	}
	if file := strings.TrimSpace(cfg.SignsFile); file != "" {
		pp.SignsFile = resolveProjectPath(pp.Root, file)
	}
	return pp
}

// SignWorkDir returns the scratch directory for one sign's render artifacts.
func (p ProjectPaths) SignWorkDir(sign string) string {
	return filepath.Join(p.WorkDir, strings.ToLower(sign))
}

func resolveProjectPath(root, value string) string {
	if filepath.IsAbs(value) {
		return filepath.Clean(value)
	}
	return filepath.Join(root, value)
}

// EnsureRoot makes sure the project root exists on disk.
func (p ProjectPaths) EnsureRoot() error {
	if err := os.MkdirAll(p.Root, 0o755); err != nil {
		return fmt.Errorf("create project root: %w", err)
	}
	return nil
}

// EnsureProjectDirs creates the asset, output, work and log hierarchy.
func (p ProjectPaths) EnsureProjectDirs() error {
	dirs := []string{p.AssetsDir, p.BackgroundsDir, p.MusicDir, p.OutputDir, p.ShortsDir, p.WorkDir, p.LogsDir}
	for _, dir := range dirs {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create directory %s: %w", dir, err)
		}
	}
	return nil
}

// FileExists reports whether a path exists and is a regular file.
func FileExists(path string) (bool, error) {
	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return false, nil
		}
		return false, err
	}
	return info.Mode().IsRegular(), nil
}

// DirExists reports whether a path exists and is a directory.
func DirExists(path string) (bool, error) {
	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return false, nil
		}
		return false, err
	}
	return info.IsDir(), nil
}
