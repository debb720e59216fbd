// Package assets resolves the background video and music files a sign's
// short is built from.
package assets

import (
	"fmt"
	"hash/fnv"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/wealthealphaglobal/astrofinance-auto/internal/config"
	"github.com/wealthealphaglobal/astrofinance-auto/internal/paths"
)

var (
	videoExtensions = []string{".mp4", ".mov"}
	musicExtensions = []string{".mp3", ".m4a", ".wav"}
)

// Background is the pair of source files behind one short. MusicPath is
// empty when no music is available; the render then produces a silent video.
type Background struct {
	VideoPath string
	MusicPath string
}

// Resolve picks the background video and music for a sign. A pinned
// background_video must exist. With no pin, the sign hashes onto one of the
// files in the backgrounds directory so each sign keeps a stable look across
// runs. Music resolves the same way but is optional, and a pinned music file
// that went missing downgrades to silence instead of failing the render.
func Resolve(pp paths.ProjectPaths, cfg config.AssetSettings, sign string) (Background, error) {
	var bg Background

	if cfg.BackgroundVideo != "" {
		path := resolvePath(pp.Root, cfg.BackgroundVideo)
		exists, err := paths.FileExists(path)
		if err != nil {
			return bg, err
		}
		if !exists {
			return bg, fmt.Errorf("background video %s not found", path)
		}
		bg.VideoPath = path
	} else {
		files, err := listMedia(pp.BackgroundsDir, videoExtensions)
		if err != nil {
			return bg, err
		}
		if len(files) == 0 {
			return bg, fmt.Errorf("no background videos in %s", pp.BackgroundsDir)
		}
		bg.VideoPath = pickFor(sign, files)
	}

	if cfg.BackgroundMusic != "" {
		path := resolvePath(pp.Root, cfg.BackgroundMusic)
		if exists, err := paths.FileExists(path); err == nil && exists {
			bg.MusicPath = path
		}
	} else if files, err := listMedia(pp.MusicDir, musicExtensions); err == nil && len(files) > 0 {
		bg.MusicPath = pickFor(sign, files)
	}

	return bg, nil
}

// Inventory counts the usable background videos and music tracks. Missing
// directories count as zero so the check works before init has run.
func Inventory(pp paths.ProjectPaths) (videos, tracks int) {
	if files, err := listMedia(pp.BackgroundsDir, videoExtensions); err == nil {
		videos = len(files)
	}
	if files, err := listMedia(pp.MusicDir, musicExtensions); err == nil {
		tracks = len(files)
	}
	return videos, tracks
}

func listMedia(dir string, exts []string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("read assets dir: %w", err)
	}

	var files []string
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		ext := strings.ToLower(filepath.Ext(e.Name()))
		for _, want := range exts {
			if ext == want {
				files = append(files, filepath.Join(dir, e.Name()))
				break
			}
		}
	}

	sort.Strings(files)
	return files, nil
}

// pickFor hashes the sign name so the same sign gets the same file on every
// run while different signs spread across the pool.
func pickFor(sign string, files []string) string {
	h := fnv.New32a()
	_, _ = h.Write([]byte(strings.ToLower(sign)))
	return files[int(h.Sum32()%uint32(len(files)))]
}

func resolvePath(root, p string) string {
	if filepath.IsAbs(p) {
		return p
	}
	return filepath.Join(root, p)
}
