package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"sync"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/wealthealphaglobal/astrofinance-auto/internal/config"
	"github.com/wealthealphaglobal/astrofinance-auto/internal/content"
	"github.com/wealthealphaglobal/astrofinance-auto/internal/logx"
	"github.com/wealthealphaglobal/astrofinance-auto/internal/market"
	"github.com/wealthealphaglobal/astrofinance-auto/internal/media"
	"github.com/wealthealphaglobal/astrofinance-auto/internal/paths"
	"github.com/wealthealphaglobal/astrofinance-auto/internal/pipeline"
	"github.com/wealthealphaglobal/astrofinance-auto/internal/render"
	"github.com/wealthealphaglobal/astrofinance-auto/internal/tui"
	"github.com/wealthealphaglobal/astrofinance-auto/pkg/zodiac"
)

var (
	generateSigns       []string
	generateAll         bool
	generateDate        string
	generateConcurrency int
	generateForce       bool
	generateSkipFetch   bool
	generateNoProgress  bool
)

func newGenerateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Render the daily shorts",
		RunE:  runGenerate,
	}

	cmd.Flags().StringSliceVar(&generateSigns, "sign", nil, "Limit the run to specific signs (repeat flag or comma separate)")
	cmd.Flags().BoolVar(&generateAll, "all", false, "Run the full catalog, overriding any signs list in the config")
	cmd.Flags().StringVar(&generateDate, "date", "", "Video date as YYYY-MM-DD (default today)")
	cmd.Flags().IntVar(&generateConcurrency, "concurrency", pipeline.DefaultConcurrency(), "Concurrent ffmpeg renders")
	cmd.Flags().BoolVar(&generateForce, "force", false, "Re-render even when inputs are unchanged")
	cmd.Flags().BoolVar(&generateSkipFetch, "skip-fetch", false, "Use the catalog texts without calling any provider")
	cmd.Flags().BoolVar(&generateNoProgress, "no-progress", false, "Disable interactive progress output")
	return cmd
}

func runGenerate(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()

	pp, err := paths.Resolve(projectDir)
	if err != nil {
		return err
	}

	cfg, err := config.Load(pp.ConfigFile)
	if err != nil {
		return err
	}
	pp = paths.ApplyConfig(pp, cfg)

	if err := pp.EnsureProjectDirs(); err != nil {
		return err
	}

	logger, closer, err := logx.New(pp, "generate")
	if err != nil {
		return err
	}
	defer closer.Close()

	catalog, err := loadCatalog(pp, logger)
	if err != nil {
		return err
	}
	signs, err := selectSigns(catalog, generateSigns, cfg, generateAll)
	if err != nil {
		return err
	}

	date, err := parseRunDate(generateDate)
	if err != nil {
		return err
	}

	p := &pipeline.Pipeline{
		Paths:    pp,
		Config:   cfg,
		Renderer: render.NewService(pp, cfg, media.CmdRunner{}, logger),
		Logger:   logger,
	}
	if !generateSkipFetch {
		p.Content = content.New(cfg.Content, logger)
		p.Market = market.New(cfg.Market, logger)
	}

	opts := pipeline.Options{
		Date:        date,
		Concurrency: generateConcurrency,
		Force:       generateForce,
		SkipFetch:   generateSkipFetch,
	}

	var summary pipeline.Summary
	mode := tui.DetectMode(cmd.OutOrStdout(), generateNoProgress, outputJSON)
	switch mode {
	case tui.ModeTUI:
		fmt.Fprintf(cmd.OutOrStdout(), "Project: %s\n", pp.Root)

		model := buildGenerateModel(signs)
		var runErr error
		err := tui.RunWithWork(cmd.OutOrStdout(), model, func(send func(tea.Msg)) {
			opts.Reporter = tui.NewPipelineReporter(send)
			summary, runErr = p.Run(ctx, signs, opts)
		})
		if err != nil {
			return err
		}
		if runErr != nil {
			return runErr
		}
		writeGenerateSummary(cmd.OutOrStdout(), summary)

	case tui.ModeJSON:
		summary, err = p.Run(ctx, signs, opts)
		if err != nil {
			return err
		}
		if err := writeGenerateJSON(cmd, pp.Root, summary); err != nil {
			return err
		}

	default:
		fmt.Fprintf(cmd.OutOrStdout(), "Project: %s\n", pp.Root)
		opts.Reporter = &plainReporter{out: cmd.OutOrStdout()}
		summary, err = p.Run(ctx, signs, opts)
		if err != nil {
			return err
		}
		writeGenerateSummary(cmd.OutOrStdout(), summary)
	}

	if summary.Failed > 0 {
		return fmt.Errorf("%d sign(s) failed; see logs in %s", summary.Failed, pp.LogsDir)
	}
	return nil
}

var generateColumns = []tui.Column{
	{Header: "SIGN", Width: 12},
	{Header: "STATUS", Width: 10},
	{Header: "TIME", Width: 8},
	{Header: "DETAIL", Width: 46},
}

func buildGenerateModel(signs []zodiac.Sign) tui.ProgressModel {
	model := tui.NewProgressModel("Generating shorts", generateColumns)
	for _, s := range signs {
		model.AddRow(s.Name, []string{s.Name, "pending", "", ""})
	}
	return model
}

// plainReporter prints one line per finished sign. Completions arrive from
// worker goroutines, so writes are serialized.
type plainReporter struct {
	mu  sync.Mutex
	out io.Writer
}

func (r *plainReporter) Start(pipeline.Job) {}

func (r *plainReporter) Complete(res pipeline.Result) {
	r.mu.Lock()
	defer r.mu.Unlock()

	switch {
	case res.Err != nil:
		fmt.Fprintf(r.out, "failed   %s: %v\n", res.Sign, res.Err)
	case res.Skipped:
		fmt.Fprintf(r.out, "skipped  %s (%s)\n", res.Sign, res.Reason)
	default:
		fmt.Fprintf(r.out, "rendered %s -> %s (%.1fs)\n", res.Sign, res.OutputPath, res.Elapsed.Seconds())
	}
}

func writeGenerateSummary(out io.Writer, summary pipeline.Summary) {
	fmt.Fprintf(out, "Run %s: %d rendered, %d skipped, %d failed (%.1fs)\n",
		summary.RunID, summary.Rendered, summary.Skipped, summary.Failed, summary.Elapsed.Seconds())
}

type generateJSONResult struct {
	Sign       string  `json:"sign"`
	OutputPath string  `json:"output_path,omitempty"`
	LogPath    string  `json:"log_path,omitempty"`
	Skipped    bool    `json:"skipped,omitempty"`
	Reason     string  `json:"reason,omitempty"`
	ElapsedSec float64 `json:"elapsed_seconds"`
	Error      string  `json:"error,omitempty"`
}

type generateJSONSummary struct {
	Rendered   int     `json:"rendered"`
	Skipped    int     `json:"skipped"`
	Failed     int     `json:"failed"`
	ElapsedSec float64 `json:"elapsed_seconds"`
}

func writeGenerateJSON(cmd *cobra.Command, project string, summary pipeline.Summary) error {
	results := make([]generateJSONResult, 0, len(summary.Results))
	for _, res := range summary.Results {
		results = append(results, generateJSONResult{
			Sign:       res.Sign,
			OutputPath: res.OutputPath,
			LogPath:    res.LogPath,
			Skipped:    res.Skipped,
			Reason:     res.Reason,
			ElapsedSec: res.Elapsed.Seconds(),
			Error:      errorString(res.Err),
		})
	}

	payload := struct {
		Project string               `json:"project"`
		RunID   string               `json:"run_id"`
		Date    string               `json:"date"`
		Results []generateJSONResult `json:"results"`
		Summary generateJSONSummary  `json:"summary"`
	}{
		Project: project,
		RunID:   summary.RunID,
		Date:    summary.Date.Format(runDateLayout),
		Results: results,
		Summary: generateJSONSummary{
			Rendered:   summary.Rendered,
			Skipped:    summary.Skipped,
			Failed:     summary.Failed,
			ElapsedSec: summary.Elapsed.Seconds(),
		},
	}

	data, err := json.MarshalIndent(payload, "", "  ")
	if err != nil {
		return fmt.Errorf("encode generate json: %w", err)
	}

	fmt.Fprintln(cmd.OutOrStdout(), string(data))
	return nil
}
