// Package render turns a composed timeline into an encoded short. It writes
// loop lists and chunk text files into the sign's work directory, assembles
// the ffmpeg invocation and executes it through a media.Runner.
package render

import (
	"context"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/pkg/errors"

	"github.com/wealthealphaglobal/astrofinance-auto/internal/assets"
	"github.com/wealthealphaglobal/astrofinance-auto/internal/config"
	"github.com/wealthealphaglobal/astrofinance-auto/internal/media"
	"github.com/wealthealphaglobal/astrofinance-auto/internal/paths"
	"github.com/wealthealphaglobal/astrofinance-auto/internal/timeline"
)

// Service renders one short per sign from a composed timeline.
type Service struct {
	Paths  paths.ProjectPaths
	Config config.Config
	Runner media.Runner
	Prober media.Prober
	Logger *log.Logger

	// FFmpegPath overrides the binary looked up on PATH. Empty means
	// plain "ffmpeg".
	FFmpegPath string
}

// Job carries everything the renderer needs for one sign.
type Job struct {
	Sign       string
	Timeline   timeline.Timeline
	Background assets.Background
	// Stamp names the output file. Zero means now.
	Stamp time.Time
}

// Result reports where a render landed and how its media was looped.
type Result struct {
	Sign       string
	OutputPath string
	LogPath    string
	VideoPlan  timeline.MediaPlan
	MusicPlan  *timeline.MediaPlan
}

// NewService prepares a renderer bound to a project.
func NewService(pp paths.ProjectPaths, cfg config.Config, runner media.Runner, logger *log.Logger) *Service {
	if runner == nil {
		runner = media.CmdRunner{}
	}
	return &Service{
		Paths:  pp,
		Config: cfg,
		Runner: runner,
		Prober: media.FFProber{},
		Logger: logger,
	}
}

// Render probes the background, plans the loops, writes the work files and
// runs ffmpeg. The output lands in the shorts directory; intermediate files
// stay in the sign's work directory for inspection.
func (s *Service) Render(ctx context.Context, job Job) (Result, error) {
	result := Result{Sign: job.Sign}

	if strings.TrimSpace(job.Sign) == "" {
		return result, errors.New("render: sign is empty")
	}
	if len(job.Timeline.Elements) == 0 {
		return result, errors.Errorf("render %s: timeline has no elements", job.Sign)
	}

	info, err := s.prober().Probe(job.Background.VideoPath)
	if err != nil {
		return result, errors.Wrapf(err, "render %s: background video", job.Sign)
	}
	videoPlan, err := timeline.PlanLoop(info.DurationSec, job.Timeline.Target)
	if err != nil {
		return result, errors.Wrapf(err, "render %s", job.Sign)
	}
	result.VideoPlan = videoPlan

	workDir := s.Paths.SignWorkDir(job.Sign)
	if err := os.MkdirAll(workDir, 0o755); err != nil {
		return result, errors.Wrap(err, "create work dir")
	}
	if err := os.MkdirAll(s.Paths.ShortsDir, 0o755); err != nil {
		return result, errors.Wrap(err, "create shorts dir")
	}

	videoList := filepath.Join(workDir, "background.txt")
	if err := WriteLoopList(videoList, job.Background.VideoPath, videoPlan); err != nil {
		return result, errors.Wrapf(err, "render %s", job.Sign)
	}

	musicList := ""
	if job.Background.MusicPath != "" {
		musicInfo, err := s.prober().Probe(job.Background.MusicPath)
		if err != nil {
			s.logf("%s: music probe failed, rendering silent: %v", job.Sign, err)
		} else {
			musicPlan, err := timeline.PlanLoop(musicInfo.DurationSec, job.Timeline.Target)
			if err != nil {
				return result, errors.Wrapf(err, "render %s: music", job.Sign)
			}
			musicList = filepath.Join(workDir, "music.txt")
			if err := WriteLoopList(musicList, job.Background.MusicPath, musicPlan); err != nil {
				return result, errors.Wrapf(err, "render %s", job.Sign)
			}
			result.MusicPlan = &musicPlan
		}
	}

	textFiles, err := WriteTextFiles(workDir, job.Timeline)
	if err != nil {
		return result, errors.Wrapf(err, "render %s", job.Sign)
	}

	graph, err := BuildFilterGraph(job.Timeline, s.Config, textFiles)
	if err != nil {
		return result, errors.Wrapf(err, "render %s: build filter graph", job.Sign)
	}
	audioFilters := BuildAudioFilters(s.Config.Audio)

	stamp := job.Stamp
	if stamp.IsZero() {
		stamp = time.Now()
	}
	outputPath := filepath.Join(s.Paths.ShortsDir, OutputName(job.Sign, stamp))
	result.OutputPath = outputPath

	args, err := BuildRenderArgs(Inputs{VideoList: videoList, MusicList: musicList}, graph, audioFilters, job.Timeline.Target, outputPath, s.Config)
	if err != nil {
		return result, errors.Wrapf(err, "render %s", job.Sign)
	}

	logPath := filepath.Join(workDir, "ffmpeg.log")
	result.LogPath = logPath
	logFile, err := os.Create(logPath)
	if err != nil {
		return result, errors.Wrap(err, "open render log")
	}
	defer logFile.Close()

	s.logf("%s: rendering %s (%d video loops)", job.Sign, filepath.Base(outputPath), videoPlan.LoopCount)

	runOpts := media.RunOptions{
		Dir:    s.Paths.Root,
		Stderr: logFile,
	}
	if _, err := s.Runner.Run(ctx, s.ffmpeg(), args, runOpts); err != nil {
		_ = os.Remove(outputPath)
		return result, errors.Wrapf(err, "render %s: ffmpeg failed (see %s)", job.Sign, logPath)
	}

	return result, nil
}

// WriteTextFiles writes every multi-line element's text to its own file
// under dir and returns the element index to file mapping consumed by
// BuildFilterGraph. Drawtext reads multi-line text more reliably from a
// file than from an inline escaped value.
func WriteTextFiles(dir string, tl timeline.Timeline) (map[int]string, error) {
	files := make(map[int]string)
	for i, el := range tl.Elements {
		if !strings.Contains(el.Text, "\n") {
			continue
		}
		path := filepath.Join(dir, fmt.Sprintf("text_%02d_%s.txt", i, el.Layer))
		if err := os.WriteFile(path, []byte(el.Text), 0o644); err != nil {
			return nil, errors.Wrapf(err, "write text for element %d", i)
		}
		files[i] = path
	}
	return files, nil
}

func (s *Service) ffmpeg() string {
	if strings.TrimSpace(s.FFmpegPath) != "" {
		return s.FFmpegPath
	}
	return "ffmpeg"
}

func (s *Service) prober() media.Prober {
	if s.Prober != nil {
		return s.Prober
	}
	return media.FFProber{}
}

func (s *Service) logf(format string, args ...any) {
	if s == nil || s.Logger == nil {
		return
	}
	s.Logger.Printf(format, args...)
}
