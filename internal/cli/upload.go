package cli

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/wealthealphaglobal/astrofinance-auto/internal/config"
	"github.com/wealthealphaglobal/astrofinance-auto/internal/logx"
	"github.com/wealthealphaglobal/astrofinance-auto/internal/paths"
	"github.com/wealthealphaglobal/astrofinance-auto/internal/pipeline"
	"github.com/wealthealphaglobal/astrofinance-auto/internal/render"
	"github.com/wealthealphaglobal/astrofinance-auto/internal/tui"
	"github.com/wealthealphaglobal/astrofinance-auto/internal/upload"
)

var (
	uploadSigns []string
	uploadAll   bool
	uploadDate  string
)

func newUploadCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "upload",
		Short: "Publish rendered shorts to YouTube",
		RunE:  runUpload,
	}

	cmd.Flags().StringSliceVar(&uploadSigns, "sign", nil, "Limit the upload to specific signs (repeat flag or comma separate)")
	cmd.Flags().BoolVar(&uploadAll, "all", false, "Upload the full catalog, overriding any signs list in the config")
	cmd.Flags().StringVar(&uploadDate, "date", "", "Video date as YYYY-MM-DD (default today)")
	return cmd
}

type uploadResult struct {
	Sign  string `json:"sign"`
	Path  string `json:"path,omitempty"`
	URL   string `json:"url,omitempty"`
	Error string `json:"error,omitempty"`
}

func runUpload(cmd *cobra.Command, _ []string) error {
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

	logger, closer, err := logx.New(pp, "upload")
	if err != nil {
		return err
	}
	defer closer.Close()

	catalog, err := loadCatalog(pp, logger)
	if err != nil {
		return err
	}
	signs, err := selectSigns(catalog, uploadSigns, cfg, uploadAll)
	if err != nil {
		return err
	}

	date, err := parseRunDate(uploadDate)
	if err != nil {
		return err
	}
	if date.IsZero() {
		date = time.Now()
	}

	svc, err := upload.NewService(ctx, upload.CredentialsFromEnv(), logger)
	if err != nil {
		return err
	}

	status := tui.NewStatusWriter(cmd.ErrOrStderr())
	defer status.Stop()

	results := make([]uploadResult, 0, len(signs))
	var failed int
	for _, sign := range signs {
		status.Update(fmt.Sprintf("Uploading %s", sign.Name))

		res := uploadResult{Sign: sign.Name}
		path, err := render.FindNewestShort(pp.ShortsDir, sign.Name)
		if err != nil {
			res.Error = err.Error()
			failed++
			results = append(results, res)
			continue
		}
		res.Path = path

		url, err := svc.Upload(ctx, path, upload.BuildVideo(cfg.Upload, sign.Name, date))
		if err != nil {
			res.Error = err.Error()
			failed++
			results = append(results, res)
			continue
		}
		res.URL = url
		results = append(results, res)
	}
	status.Stop()

	if err := recordUploads(pp, date, results, logger); err != nil {
		logger.Printf("upload: record metadata: %v", err)
	}

	if outputJSON {
		if err := writeUploadJSON(cmd, pp.Root, results, failed); err != nil {
			return err
		}
	} else {
		writeUploadOutput(cmd, pp.Root, results, failed)
	}

	if failed > 0 {
		return fmt.Errorf("%d upload(s) failed", failed)
	}
	return nil
}

// recordUploads stores watch URLs in the day's metadata so the report can
// pick them up. A manifest from another date is left alone.
func recordUploads(pp paths.ProjectPaths, date time.Time, results []uploadResult, logger Logger) error {
	meta, err := pipeline.LoadMetadata(pp.MetadataFile)
	if err != nil {
		return err
	}
	if meta.Date != date.Format(runDateLayout) {
		logger.Printf("upload: metadata is for %s, not %s; urls not recorded", meta.Date, date.Format(runDateLayout))
		return nil
	}

	changed := false
	for _, res := range results {
		if res.URL != "" {
			meta.RecordUpload(res.Sign, res.URL)
			changed = true
		}
	}
	if !changed {
		return nil
	}
	return pipeline.WriteMetadata(pp.MetadataFile, meta)
}

func writeUploadOutput(cmd *cobra.Command, project string, results []uploadResult, failed int) {
	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Project: %s\n", project)

	for _, res := range results {
		if res.Error != "" {
			fmt.Fprintf(out, "failed   %s: %s\n", res.Sign, res.Error)
			continue
		}
		fmt.Fprintf(out, "uploaded %s -> %s\n", res.Sign, res.URL)
	}

	fmt.Fprintf(out, "Uploaded: %d, Failed: %d\n", len(results)-failed, failed)
}

func writeUploadJSON(cmd *cobra.Command, project string, results []uploadResult, failed int) error {
	payload := struct {
		Project string         `json:"project"`
		Results []uploadResult `json:"results"`
		Summary struct {
			Uploaded int `json:"uploaded"`
			Failed   int `json:"failed"`
		} `json:"summary"`
	}{
		Project: project,
		Results: results,
	}
	payload.Summary.Uploaded = len(results) - failed
	payload.Summary.Failed = failed

	data, err := json.MarshalIndent(payload, "", "  ")
	if err != nil {
		return fmt.Errorf("encode upload json: %w", err)
	}

	fmt.Fprintln(cmd.OutOrStdout(), string(data))
	return nil
}
