// Package pipeline drives a full generation run: one market snapshot, then
// per sign a content fetch, timeline synthesis and ffmpeg render, fanned out
// over a bounded worker pool. Failures are per sign; one broken render never
// aborts the batch.
package pipeline

import (
	"context"
	"log"
	"path/filepath"
	"runtime"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/shirou/gopsutil/v3/cpu"

	"github.com/wealthealphaglobal/astrofinance-auto/internal/assets"
	"github.com/wealthealphaglobal/astrofinance-auto/internal/config"
	"github.com/wealthealphaglobal/astrofinance-auto/internal/content"
	"github.com/wealthealphaglobal/astrofinance-auto/internal/market"
	"github.com/wealthealphaglobal/astrofinance-auto/internal/paths"
	"github.com/wealthealphaglobal/astrofinance-auto/internal/render"
	"github.com/wealthealphaglobal/astrofinance-auto/internal/render/state"
	"github.com/wealthealphaglobal/astrofinance-auto/internal/timeline"
	"github.com/wealthealphaglobal/astrofinance-auto/pkg/zodiac"
)

// Pipeline wires the collaborators of one generation run. Content and Market
// may be nil; the run then uses the catalog fallback texts.
type Pipeline struct {
	Paths    paths.ProjectPaths
	Config   config.Config
	Content  *content.Service
	Market   *market.Client
	Renderer *render.Service
	Logger   *log.Logger
}

// Options controls batch execution behaviour.
type Options struct {
	// Date is the video date. Zero means today.
	Date        time.Time
	Concurrency int
	// Force re-renders every sign regardless of the stored render state.
	Force bool
	// SkipFetch uses the catalog fallback texts without touching any
	// provider or market endpoint.
	SkipFetch bool
	Reporter  ProgressReporter
}

// Job is one sign's unit of work, prepared before the pool starts.
type Job struct {
	Sign       zodiac.Sign
	Date       time.Time
	Background assets.Background
	Decision   state.Decision
	Inputs     state.Inputs
	// PriorOutput is the last rendered file, reported when the decision
	// is to skip.
	PriorOutput string
	// Err carries an asset resolution failure discovered while planning.
	Err error
}

// Result captures the outcome for one sign.
type Result struct {
	Sign        string
	OutputPath  string
	LogPath     string
	Skipped     bool
	Reason      string // from the state.Reason* constants
	Texts       content.Texts
	Truncations []timeline.Truncation
	Elapsed     time.Duration
	Err         error
}

// ProgressReporter receives notifications as signs move through the run.
type ProgressReporter interface {
	Start(job Job)
	Complete(result Result)
}

// Summary aggregates one batch run.
type Summary struct {
	RunID    string
	Date     time.Time
	Results  []Result
	Rendered int
	Skipped  int
	Failed   int
	Elapsed  time.Duration
}

// DefaultConcurrency is the pool size when no flag is given: physical cores,
// falling back to logical cores when detection fails.
func DefaultConcurrency() int {
	if n, err := cpu.Counts(false); err == nil && n > 0 {
		return n
	}
	return runtime.NumCPU()
}

// NewRunID returns the short id stamped on logs and metadata for one run.
func NewRunID() string {
	return uuid.NewString()[:8]
}

// Run generates the given signs. Per-sign failures land in the results; the
// returned error covers only run-level problems.
func (p *Pipeline) Run(ctx context.Context, signs []zodiac.Sign, opts Options) (Summary, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	if len(signs) == 0 {
		return Summary{}, errors.New("no signs to generate")
	}

	date := opts.Date
	if date.IsZero() {
		date = time.Now()
	}
	runID := NewRunID()
	started := time.Now()
	summary := Summary{RunID: runID, Date: date}

	rs, err := state.Load(p.Paths.StateFile)
	if err != nil {
		return summary, errors.Wrap(err, "load render state")
	}
	jobs := p.planJobs(rs, signs, date, opts)

	snapshot := market.Data{Trend: market.TrendNeutral}
	if !opts.SkipFetch && p.Market != nil && countRenders(jobs) > 0 {
		snapshot = p.Market.Snapshot(ctx)
		p.logf("run %s: market btc=%s trend=%s", runID, snapshot.PromptPrice(), snapshot.Trend)
	}

	concurrency := opts.Concurrency
	if concurrency <= 0 {
		concurrency = DefaultConcurrency()
	}
	p.logf("run %s: %s, %d signs, concurrency %d", runID, date.Format("2006-01-02"), len(jobs), concurrency)

	results := make([]Result, len(jobs))
	var (
		wg  sync.WaitGroup
		sem = make(chan struct{}, concurrency)
	)
	for i, job := range jobs {
		i, job := i, job
		if opts.Reporter != nil {
			opts.Reporter.Start(job)
		}
		sem <- struct{}{}
		wg.Add(1)
		go func() {
			defer wg.Done()
			defer func() { <-sem }()
			res := p.runOne(ctx, job, snapshot, opts.SkipFetch)
			results[i] = res
			if opts.Reporter != nil {
				opts.Reporter.Complete(res)
			}
		}()
	}
	wg.Wait()

	summary.Results = results
	for _, res := range results {
		switch {
		case res.Err != nil:
			summary.Failed++
		case res.Skipped:
			summary.Skipped++
		default:
			summary.Rendered++
		}
	}
	summary.Elapsed = time.Since(started)

	if err := p.saveState(rs, jobs, results); err != nil {
		p.logf("run %s: save render state: %v", runID, err)
	}
	if err := p.writeMetadata(runID, date, snapshot, results); err != nil {
		p.logf("run %s: write metadata: %v", runID, err)
	}

	p.logf("run %s: done in %s (%d rendered, %d skipped, %d failed)",
		runID, summary.Elapsed.Round(time.Millisecond), summary.Rendered, summary.Skipped, summary.Failed)

	return summary, nil
}

// planJobs resolves each sign's background, hashes the render inputs and
// decides which signs actually need work.
func (p *Pipeline) planJobs(rs *state.RunState, signs []zodiac.Sign, date time.Time, opts Options) []Job {
	dateStr := date.Format("2006-01-02")

	jobs := make([]Job, len(signs))
	inputs := make([]state.Inputs, len(signs))
	for i, sign := range signs {
		jobs[i] = Job{Sign: sign, Date: date}
		inputs[i] = state.Inputs{Sign: sign.Name, Date: dateStr}

		bg, err := assets.Resolve(p.Paths, p.Config.Assets, sign.Name)
		if err != nil {
			jobs[i].Err = err
			continue
		}
		jobs[i].Background = bg
		inputs[i].BackgroundVideo = bg.VideoPath
		inputs[i].BackgroundMusic = bg.MusicPath
		if opts.SkipFetch {
			// Fallback texts are known up front, so they join the hash.
			// Fetched texts vary per provider call and stay out of it.
			inputs[i].Forecast = sign.Forecast
			inputs[i].Finance = sign.Finance
			inputs[i].Wellness = sign.Wellness
		}
	}

	decisions := state.DetectChanges(rs, p.Config, inputs, opts.Force)
	for i := range jobs {
		jobs[i].Decision = decisions[i]
		jobs[i].Inputs = inputs[i]
		if prior, ok := rs.Signs[jobs[i].Sign.Name]; ok {
			jobs[i].PriorOutput = prior.OutputPath
		}
	}
	return jobs
}

func (p *Pipeline) runOne(ctx context.Context, job Job, snap market.Data, skipFetch bool) (res Result) {
	started := time.Now()
	defer func() { res.Elapsed = time.Since(started) }()

	res.Sign = job.Sign.Name
	if job.Err != nil {
		res.Err = job.Err
		return res
	}

	if job.Decision.Action == state.ActionSkip {
		res.Skipped = true
		res.Reason = job.Decision.Reason
		res.OutputPath = job.PriorOutput
		p.logf("%s: skipped (%s)", job.Sign.Name, job.Decision.Reason)
		return res
	}
	res.Reason = job.Decision.Reason

	texts := p.fetchTexts(ctx, job.Sign, job.Date, snap, skipFetch)
	res.Texts = texts

	tl, err := BuildTimeline(p.Config, job.Sign.Name, job.Date, texts)
	if err != nil {
		res.Err = errors.Wrapf(err, "compose %s", job.Sign.Name)
		return res
	}
	res.Truncations = tl.Truncations
	for _, tr := range tl.Truncations {
		p.logf("%s: section %q trimmed %.1fs (allotted %.1fs, text wanted %.1fs, %d chunks dropped)",
			job.Sign.Name, tr.Section, tr.TrimmedSec, tr.Allotted, tr.Realized, tr.DroppedChunks)
	}

	rendered, err := p.Renderer.Render(ctx, render.Job{
		Sign:       job.Sign.Name,
		Timeline:   tl,
		Background: job.Background,
	})
	res.LogPath = rendered.LogPath
	if err != nil {
		res.Err = err
		return res
	}
	res.OutputPath = rendered.OutputPath
	return res
}

// fetchTexts resolves the three section texts. With SkipFetch or no content
// service the curated catalog texts are used as-is.
func (p *Pipeline) fetchTexts(ctx context.Context, sign zodiac.Sign, date time.Time, snap market.Data, skipFetch bool) content.Texts {
	fallback := content.Texts{Forecast: sign.Forecast, Finance: sign.Finance, Wellness: sign.Wellness}
	if skipFetch || p.Content == nil {
		p.logf("%s: using catalog texts", sign.Name)
		return fallback
	}

	vars := map[string]string{
		"sign":         sign.Name,
		"date":         date.Format("January 2, 2006"),
		"btc_price":    snap.PromptPrice(),
		"market_trend": snap.Trend,
	}

	return content.Texts{
		Forecast: p.fetchSection(ctx, sign.Name, p.Config.Sections.Forecast, vars, fallback.Forecast),
		Finance:  p.fetchSection(ctx, sign.Name, p.Config.Sections.Finance, vars, fallback.Finance),
		Wellness: p.fetchSection(ctx, sign.Name, p.Config.Sections.Wellness, vars, fallback.Wellness),
	}
}

func (p *Pipeline) fetchSection(ctx context.Context, sign string, sec config.SectionConfig, vars map[string]string, fallback string) string {
	res := p.Content.Fetch(ctx, content.Request{
		Prompt:   content.ExpandPrompt(sec.Prompt, vars),
		Fallback: fallback,
	})
	if res.Source == content.SourceFallback && res.Kind != "" {
		p.logf("%s: %s from %s (%s)", sign, sec.Heading, res.Source, res.Kind)
	} else {
		p.logf("%s: %s from %s", sign, sec.Heading, res.Source)
	}
	return res.Text
}

// saveState records this run's renders. When the config changed, entries
// rendered under the old config are dropped so the next run redoes them.
func (p *Pipeline) saveState(rs *state.RunState, jobs []Job, results []Result) error {
	now := time.Now()
	updated := make(map[string]bool, len(results))
	for i, res := range results {
		if res.Err != nil {
			continue
		}
		updated[res.Sign] = true
		if res.Skipped {
			continue
		}
		rs.Signs[res.Sign] = state.SignState{
			InputsHash: state.InputsHash(jobs[i].Inputs),
			RenderedAt: now,
			OutputPath: res.OutputPath,
		}
	}

	if hash := state.ConfigHash(p.Config); rs.ConfigHash != hash {
		state.Prune(rs, updated)
		rs.ConfigHash = hash
	}

	return rs.Save(p.Paths.StateFile)
}

// writeMetadata merges this run into the day's manifest.
func (p *Pipeline) writeMetadata(runID string, date time.Time, snap market.Data, results []Result) error {
	meta, err := LoadMetadata(p.Paths.MetadataFile)
	if err != nil {
		p.logf("run %s: %v, starting a fresh manifest", runID, err)
		meta = Metadata{}
	}

	dateStr := date.Format("2006-01-02")
	if meta.Date != dateStr {
		meta = Metadata{}
	}
	meta.RunID = runID
	meta.Date = dateStr
	meta.GeneratedAt = time.Now().Format(time.RFC3339)
	meta.Market = snap
	meta.ensureMaps()

	for _, res := range results {
		switch {
		case res.Err != nil:
			meta.Failed = appendUnique(meta.Failed, res.Sign)
		case res.Skipped:
			if res.OutputPath != "" {
				meta.Shorts[res.Sign] = p.relToRoot(res.OutputPath)
			}
			meta.Failed = removeString(meta.Failed, res.Sign)
		default:
			meta.Shorts[res.Sign] = p.relToRoot(res.OutputPath)
			meta.Content[res.Sign] = res.Texts
			meta.Failed = removeString(meta.Failed, res.Sign)
		}
	}

	return WriteMetadata(p.Paths.MetadataFile, meta)
}

// relToRoot stores project-relative paths in the manifest so it survives the
// project directory moving.
func (p *Pipeline) relToRoot(path string) string {
	rel, err := filepath.Rel(p.Paths.Root, path)
	if err != nil || strings.HasPrefix(rel, "..") {
		return path
	}
	return rel
}

func countRenders(jobs []Job) int {
	n := 0
	for _, job := range jobs {
		if job.Err == nil && job.Decision.Action == state.ActionRender {
			n++
		}
	}
	return n
}

func (p *Pipeline) logf(format string, args ...any) {
	if p.Logger != nil {
		p.Logger.Printf(format, args...)
	}
}
