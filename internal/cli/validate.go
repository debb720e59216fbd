package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/wealthealphaglobal/astrofinance-auto/internal/config"
	"github.com/wealthealphaglobal/astrofinance-auto/internal/paths"
	"github.com/wealthealphaglobal/astrofinance-auto/pkg/zodiac"
)

func newValidateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "validate",
		Short: "Validate project configuration and signs file",
		RunE:  runValidate,
	}
}

type validationFinding struct {
	Area    string `json:"area"`  // "config" or "signs"
	Level   string `json:"level"` // "error" or "warning"
	Message string `json:"message"`
}

type validationSummary struct {
	Total    int `json:"total"`
	Errors   int `json:"errors"`
	Warnings int `json:"warnings"`
}

func runValidate(cmd *cobra.Command, _ []string) error {
	pp, err := paths.Resolve(projectDir)
	if err != nil {
		return err
	}

	cfg, err := config.Load(pp.ConfigFile)
	if err != nil {
		return err
	}
	pp = paths.ApplyConfig(pp, cfg)

	findings := collectFindings(pp, cfg)
	summary := summarizeFindings(findings)

	if outputJSON {
		if err := writeValidationJSON(cmd, pp.Root, findings, summary); err != nil {
			return err
		}
	} else {
		writeValidationTable(cmd, pp.Root, findings, summary)
	}

	if summary.Errors > 0 {
		return fmt.Errorf("validation failed with %d error(s)", summary.Errors)
	}
	return nil
}

func collectFindings(pp paths.ProjectPaths, cfg config.Config) []validationFinding {
	var findings []validationFinding

	for _, v := range cfg.ValidateStrict(pp.Root) {
		findings = append(findings, validationFinding{Area: "config", Level: v.Level, Message: v.Message})
	}

	findings = append(findings, signsFindings(pp)...)
	return findings
}

// signsFindings checks the optional overrides file. A missing file is fine;
// a present but broken one is not, since the run would silently fall back.
func signsFindings(pp paths.ProjectPaths) []validationFinding {
	exists, err := paths.FileExists(pp.SignsFile)
	if err != nil {
		return []validationFinding{{Area: "signs", Level: "error", Message: err.Error()}}
	}
	if !exists {
		return nil
	}

	_, err = zodiac.LoadOverrides(pp.SignsFile)
	if err == nil {
		return nil
	}

	var verrs zodiac.ValidationErrors
	if errors.As(err, &verrs) {
		findings := make([]validationFinding, 0, len(verrs))
		for _, v := range verrs {
			findings = append(findings, validationFinding{Area: "signs", Level: "error", Message: v.Error()})
		}
		return findings
	}
	return []validationFinding{{Area: "signs", Level: "error", Message: err.Error()}}
}

func summarizeFindings(findings []validationFinding) validationSummary {
	summary := validationSummary{Total: len(findings)}
	for _, f := range findings {
		switch f.Level {
		case "error":
			summary.Errors++
		case "warning":
			summary.Warnings++
		}
	}
	return summary
}

func writeValidationJSON(cmd *cobra.Command, project string, findings []validationFinding, summary validationSummary) error {
	payload := struct {
		Project  string              `json:"project"`
		Findings []validationFinding `json:"findings"`
		Summary  validationSummary   `json:"summary"`
	}{
		Project:  project,
		Findings: findings,
		Summary:  summary,
	}

	data, err := json.MarshalIndent(payload, "", "  ")
	if err != nil {
		return fmt.Errorf("encode validation json: %w", err)
	}

	fmt.Fprintln(cmd.OutOrStdout(), string(data))
	return nil
}

func writeValidationTable(cmd *cobra.Command, project string, findings []validationFinding, summary validationSummary) {
	fmt.Fprintf(cmd.OutOrStdout(), "Project: %s\n", project)

	if len(findings) == 0 {
		fmt.Fprintln(cmd.OutOrStdout(), "No problems found.")
		return
	}

	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 2, 2, ' ', 0)
	fmt.Fprintln(w, "AREA\tLEVEL\tMESSAGE")
	for _, f := range findings {
		fmt.Fprintf(w, "%s\t%s\t%s\n", f.Area, f.Level, f.Message)
	}
	w.Flush()

	fmt.Fprintf(cmd.OutOrStdout(), "Errors: %d, Warnings: %d\n", summary.Errors, summary.Warnings)
}
