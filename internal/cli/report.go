package cli

import (
	"encoding/json"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/wealthealphaglobal/astrofinance-auto/internal/config"
	"github.com/wealthealphaglobal/astrofinance-auto/internal/logx"
	"github.com/wealthealphaglobal/astrofinance-auto/internal/paths"
	"github.com/wealthealphaglobal/astrofinance-auto/internal/pipeline"
	"github.com/wealthealphaglobal/astrofinance-auto/internal/report"
)

var (
	reportStatus    string
	reportGenerated []string
	reportUploaded  []string
	reportFailed    []string
	reportDate      string
)

func newReportCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "report",
		Short: "Email the daily run report",
		RunE:  runReport,
	}

	cmd.Flags().StringVar(&reportStatus, "status", "", "Run outcome, success or failure (required)")
	cmd.Flags().StringSliceVar(&reportGenerated, "generated", nil, "Signs that rendered (default: read metadata.json)")
	cmd.Flags().StringSliceVar(&reportUploaded, "uploaded", nil, "sign:url pairs for published shorts (default: read metadata.json)")
	cmd.Flags().StringSliceVar(&reportFailed, "failed", nil, "Signs that failed (default: read metadata.json)")
	cmd.Flags().StringVar(&reportDate, "date", "", "Report date as YYYY-MM-DD (default today)")
	return cmd
}

func runReport(cmd *cobra.Command, _ []string) error {
	status := strings.ToLower(strings.TrimSpace(reportStatus))
	if status != report.StatusSuccess && status != report.StatusFailure {
		return fmt.Errorf("--status must be %q or %q", report.StatusSuccess, report.StatusFailure)
	}

	pp, err := paths.Resolve(projectDir)
	if err != nil {
		return err
	}

	cfg, err := config.Load(pp.ConfigFile)
	if err != nil {
		return err
	}
	pp = paths.ApplyConfig(pp, cfg)

	logger, closer, err := logx.New(pp, "report")
	if err != nil {
		return err
	}
	defer closer.Close()

	date, err := parseRunDate(reportDate)
	if err != nil {
		return err
	}

	r := report.Report{
		Status:  status,
		Date:    date,
		RunLink: report.RunLinkFromEnv(),
	}
	if len(cfg.Signs) > 0 {
		r.Total = len(cfg.Signs)
	}

	if len(reportGenerated) == 0 && len(reportUploaded) == 0 && len(reportFailed) == 0 {
		if err := fillReportFromMetadata(&r, pp, logger); err != nil {
			return err
		}
	} else {
		r.Generated = reportGenerated
		r.Failed = reportFailed
		r.Uploaded, err = parseUploadedPairs(reportUploaded)
		if err != nil {
			return err
		}
	}

	sender := report.NewSender(report.ConfigFromEnv(), logger)
	if err := sender.Send(r); err != nil {
		return err
	}

	if outputJSON {
		return writeReportJSON(cmd, pp.Root, r, sender.Config.To)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Report %q sent to %d recipient(s)\n", r.Subject(), len(sender.Config.To))
	return nil
}

// fillReportFromMetadata pulls the run outcome out of the day's manifest. A
// manifest from another date contributes nothing; the report then shows an
// empty run, which is accurate for a day whose generation never finished.
func fillReportFromMetadata(r *report.Report, pp paths.ProjectPaths, logger Logger) error {
	meta, err := pipeline.LoadMetadata(pp.MetadataFile)
	if err != nil {
		return err
	}

	want := r.Date
	if want.IsZero() {
		want = time.Now()
	}
	if meta.Date != want.Format(runDateLayout) {
		logger.Printf("report: metadata is for %s, not %s; reporting an empty run", meta.Date, want.Format(runDateLayout))
		return nil
	}

	for sign := range meta.Shorts {
		r.Generated = append(r.Generated, sign)
	}
	sort.Strings(r.Generated)
	r.Uploaded = meta.Uploads
	r.Failed = meta.Failed
	return nil
}

func parseUploadedPairs(pairs []string) (map[string]string, error) {
	if len(pairs) == 0 {
		return nil, nil
	}

	uploaded := make(map[string]string, len(pairs))
	for _, pair := range pairs {
		pair = strings.TrimSpace(pair)
		if pair == "" {
			continue
		}
		parts := strings.SplitN(pair, ":", 2)
		if len(parts) != 2 || strings.TrimSpace(parts[0]) == "" {
			return nil, fmt.Errorf("invalid --uploaded entry %q (want sign:url)", pair)
		}
		uploaded[strings.TrimSpace(parts[0])] = strings.TrimSpace(parts[1])
	}
	return uploaded, nil
}

func writeReportJSON(cmd *cobra.Command, project string, r report.Report, recipients []string) error {
	payload := struct {
		Project    string   `json:"project"`
		Status     string   `json:"status"`
		Subject    string   `json:"subject"`
		Generated  []string `json:"generated"`
		Uploaded   int      `json:"uploaded"`
		Failed     []string `json:"failed"`
		Recipients int      `json:"recipients"`
	}{
		Project:    project,
		Status:     r.Status,
		Subject:    r.Subject(),
		Generated:  r.Generated,
		Uploaded:   len(r.Uploaded),
		Failed:     r.Failed,
		Recipients: len(recipients),
	}

	data, err := json.MarshalIndent(payload, "", "  ")
	if err != nil {
		return fmt.Errorf("encode report json: %w", err)
	}

	fmt.Fprintln(cmd.OutOrStdout(), string(data))
	return nil
}
