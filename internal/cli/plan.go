package cli

import (
	"encoding/json"
	"fmt"
	"log"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/wealthealphaglobal/astrofinance-auto/internal/config"
	"github.com/wealthealphaglobal/astrofinance-auto/internal/content"
	"github.com/wealthealphaglobal/astrofinance-auto/internal/paths"
	"github.com/wealthealphaglobal/astrofinance-auto/internal/pipeline"
	"github.com/wealthealphaglobal/astrofinance-auto/internal/timeline"
	"github.com/wealthealphaglobal/astrofinance-auto/internal/tui"
	"github.com/wealthealphaglobal/astrofinance-auto/pkg/zodiac"
)

var (
	planDate          string
	planBackgroundSec float64
)

func newPlanCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "plan <sign>",
		Short: "Show the timed layout a sign's short would render with",
		Long: "Plan composes the timeline for one sign from the catalog texts without\n" +
			"touching ffmpeg or any provider, so timing changes can be inspected dry.",
		Args: cobra.ExactArgs(1),
		RunE: runPlan,
	}

	cmd.Flags().StringVar(&planDate, "date", "", "Video date as YYYY-MM-DD (default today)")
	cmd.Flags().Float64Var(&planBackgroundSec, "background-seconds", 0, "Also plan the loop for a background of this length")
	return cmd
}

func runPlan(cmd *cobra.Command, args []string) error {
	pp, err := paths.Resolve(projectDir)
	if err != nil {
		return err
	}

	cfg, err := config.Load(pp.ConfigFile)
	if err != nil {
		return err
	}
	pp = paths.ApplyConfig(pp, cfg)

	logger := log.New(cmd.ErrOrStderr(), "", 0)
	catalog, err := loadCatalog(pp, logger)
	if err != nil {
		return err
	}

	signs, err := zodiac.Subset(catalog, []string{args[0]})
	if err != nil {
		return err
	}
	sign := signs[0]

	date, err := parseRunDate(planDate)
	if err != nil {
		return err
	}
	if date.IsZero() {
		date = time.Now()
	}

	texts := content.Texts{
		Forecast: sign.Forecast,
		Finance:  sign.Finance,
		Wellness: sign.Wellness,
	}

	t, err := pipeline.BuildTimeline(cfg, sign.Name, date, texts)
	if err != nil {
		return err
	}

	var loop *timeline.MediaPlan
	if planBackgroundSec > 0 {
		mp, err := timeline.PlanLoop(planBackgroundSec, t.Target)
		if err != nil {
			return err
		}
		loop = &mp
	}

	if outputJSON {
		return writePlanJSON(cmd, pp.Root, sign.Name, date, t, loop)
	}
	writePlanOutput(cmd, pp.Root, sign.Name, date, t, loop)
	return nil
}

func writePlanJSON(cmd *cobra.Command, project, sign string, date time.Time, t timeline.Timeline, loop *timeline.MediaPlan) error {
	payload := struct {
		Project    string              `json:"project"`
		Sign       string              `json:"sign"`
		Date       string              `json:"date"`
		Timeline   timeline.Timeline   `json:"timeline"`
		Background *timeline.MediaPlan `json:"background,omitempty"`
	}{
		Project:    project,
		Sign:       sign,
		Date:       date.Format(runDateLayout),
		Timeline:   t,
		Background: loop,
	}

	data, err := json.MarshalIndent(payload, "", "  ")
	if err != nil {
		return fmt.Errorf("encode plan json: %w", err)
	}

	fmt.Fprintln(cmd.OutOrStdout(), string(data))
	return nil
}

func writePlanOutput(cmd *cobra.Command, project, sign string, date time.Time, t timeline.Timeline, loop *timeline.MediaPlan) {
	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Project: %s\n", project)
	fmt.Fprintf(out, "Sign: %s  Date: %s  Target: %.1fs  Content ends: %.1fs\n",
		sign, date.Format(runDateLayout), t.Target, t.ContentEnd)

	fmt.Fprintln(out)
	w := tabwriter.NewWriter(out, 0, 2, 2, ' ', 0)
	fmt.Fprintln(w, "SECTION\tSTART\tEND\tDURATION")
	for _, s := range t.Sections {
		fmt.Fprintf(w, "%s\t%.2f\t%.2f\t%.2f\n", s.Label, s.Start, s.Start+s.Duration, s.Duration)
	}
	w.Flush()

	fmt.Fprintln(out)
	w = tabwriter.NewWriter(out, 0, 2, 2, ' ', 0)
	fmt.Fprintln(w, "LAYER\tSTART\tDURATION\tTEXT")
	for _, e := range t.Elements {
		fmt.Fprintf(w, "%s\t%.2f\t%.2f\t%s\n", e.Layer, e.Start, e.Duration, tui.TruncateWithEllipsis(e.Text, 48))
	}
	w.Flush()

	if len(t.Truncations) > 0 {
		fmt.Fprintln(out)
		w = tabwriter.NewWriter(out, 0, 2, 2, ' ', 0)
		fmt.Fprintln(w, "TRUNCATED\tALLOTTED\tREALIZED\tTRIMMED\tDROPPED")
		for _, tr := range t.Truncations {
			fmt.Fprintf(w, "%s\t%.2f\t%.2f\t%.2f\t%d\n", tr.Section, tr.Allotted, tr.Realized, tr.TrimmedSec, tr.DroppedChunks)
		}
		w.Flush()
	}

	if loop != nil {
		fmt.Fprintf(out, "\nBackground loop: %d x %.1fs, trimmed at %.1fs\n", loop.LoopCount, loop.SourceSec, loop.TrimEnd)
	}
}
