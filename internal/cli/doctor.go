package cli

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/wealthealphaglobal/astrofinance-auto/internal/assets"
	"github.com/wealthealphaglobal/astrofinance-auto/internal/config"
	"github.com/wealthealphaglobal/astrofinance-auto/internal/paths"
	"github.com/wealthealphaglobal/astrofinance-auto/internal/report"
	"github.com/wealthealphaglobal/astrofinance-auto/internal/tools"
	"github.com/wealthealphaglobal/astrofinance-auto/internal/upload"
	"github.com/wealthealphaglobal/astrofinance-auto/pkg/zodiac"
)

func newDoctorCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "doctor",
		Short: "Check project health",
		RunE:  runDoctor,
	}
}

type healthCheck struct {
	Name    string `json:"name"`
	Status  string `json:"status"` // "ok", "warning", "error"
	Summary string `json:"summary"`
}

func runDoctor(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	pp, err := paths.Resolve(projectDir)
	if err != nil {
		return err
	}
	exists, err := paths.DirExists(pp.Root)
	if err != nil {
		return fmt.Errorf("stat project dir: %w", err)
	}
	if !exists {
		return fmt.Errorf("project directory does not exist: %s", pp.Root)
	}

	var checks []healthCheck

	statuses := tools.Detect(ctx)
	checks = append(checks, checkTools(statuses))

	cfg, cfgErr := config.Load(pp.ConfigFile)
	checks = append(checks, checkConfig(pp, cfg, cfgErr))

	if cfgErr != nil {
		// Can't proceed with further checks without config
		return writeDoctorResult(cmd, pp.Root, checks)
	}

	pp = paths.ApplyConfig(pp, cfg)

	checks = append(checks, checkEncoder(ctx, statuses, cfg))
	checks = append(checks, checkSigns(pp))
	checks = append(checks, checkAssets(pp))
	checks = append(checks, checkCredentials())

	return writeDoctorResult(cmd, pp.Root, checks)
}

func checkTools(statuses []tools.Status) healthCheck {
	var satisfied int
	var toolInfo []string
	for _, st := range statuses {
		if st.Satisfied {
			satisfied++
			label := st.Tool
			if st.Version != "" {
				label += " " + st.Version
			}
			toolInfo = append(toolInfo, label)
		}
	}

	if satisfied == len(statuses) && satisfied > 0 {
		return healthCheck{Name: "Tools", Status: "ok", Summary: joinComma(toolInfo)}
	}
	return healthCheck{
		Name:    "Tools",
		Status:  "error",
		Summary: fmt.Sprintf("%d of %d tools available", satisfied, len(statuses)),
	}
}

func checkEncoder(ctx context.Context, statuses []tools.Status, cfg config.Config) healthCheck {
	var ffmpegPath string
	for _, st := range statuses {
		if st.Tool == "ffmpeg" && st.Satisfied {
			ffmpegPath = st.Path
		}
	}
	if ffmpegPath == "" {
		return healthCheck{Name: "Encoder", Status: "warning", Summary: "ffmpeg unavailable, encoder unchecked"}
	}

	if err := tools.CheckEncoder(ctx, ffmpegPath, cfg.Video.Codec); err != nil {
		return healthCheck{Name: "Encoder", Status: "error", Summary: err.Error()}
	}
	return healthCheck{Name: "Encoder", Status: "ok", Summary: cfg.Video.Codec}
}

func checkConfig(pp paths.ProjectPaths, cfg config.Config, cfgErr error) healthCheck {
	if cfgErr != nil {
		return healthCheck{Name: "Config", Status: "error", Summary: cfgErr.Error()}
	}

	validations := cfg.ValidateStrict(pp.Root)
	var warnings, errors int
	for _, v := range validations {
		switch v.Level {
		case "warning":
			warnings++
		case "error":
			errors++
		}
	}

	runSize := len(cfg.Signs)
	if runSize == 0 {
		runSize = len(zodiac.Names())
	}
	summary := fmt.Sprintf("%d signs in run, target %.0fs", runSize, cfg.Timeline.TargetSec)

	if errors > 0 {
		return healthCheck{Name: "Config", Status: "error", Summary: fmt.Sprintf("%s; %d errors", summary, errors)}
	}
	if warnings > 0 {
		return healthCheck{Name: "Config", Status: "warning", Summary: fmt.Sprintf("%s; %d warnings", summary, warnings)}
	}
	return healthCheck{Name: "Config", Status: "ok", Summary: summary}
}

func checkSigns(pp paths.ProjectPaths) healthCheck {
	exists, err := paths.FileExists(pp.SignsFile)
	if err != nil {
		return healthCheck{Name: "Signs", Status: "error", Summary: err.Error()}
	}
	if !exists {
		return healthCheck{Name: "Signs", Status: "ok", Summary: fmt.Sprintf("%d built-in signs", len(zodiac.Names()))}
	}

	signs, err := zodiac.LoadOverrides(pp.SignsFile)
	if err != nil {
		var verrs zodiac.ValidationErrors
		if errors.As(err, &verrs) {
			return healthCheck{
				Name:    "Signs",
				Status:  "warning",
				Summary: fmt.Sprintf("%s: %d row issue(s)", filepath.Base(pp.SignsFile), len(verrs)),
			}
		}
		return healthCheck{Name: "Signs", Status: "error", Summary: err.Error()}
	}
	return healthCheck{
		Name:    "Signs",
		Status:  "ok",
		Summary: fmt.Sprintf("%d signs, overrides from %s", len(signs), filepath.Base(pp.SignsFile)),
	}
}

func checkAssets(pp paths.ProjectPaths) healthCheck {
	videos, tracks := assets.Inventory(pp)

	if videos == 0 {
		return healthCheck{
			Name:    "Assets",
			Status:  "error",
			Summary: fmt.Sprintf("no background videos in %s", pp.BackgroundsDir),
		}
	}
	if tracks == 0 {
		return healthCheck{
			Name:    "Assets",
			Status:  "warning",
			Summary: fmt.Sprintf("%d backgrounds, no music (shorts render silent)", videos),
		}
	}
	return healthCheck{
		Name:    "Assets",
		Status:  "ok",
		Summary: fmt.Sprintf("%d backgrounds, %d music tracks", videos, tracks),
	}
}

// checkCredentials only inspects presence; generation itself runs without
// any of these, so missing groups warn instead of erroring.
func checkCredentials() healthCheck {
	var have, missing []string

	if os.Getenv("GROQ_API_KEY") != "" || os.Getenv("HUGGINGFACE_API_KEY") != "" {
		have = append(have, "content")
	} else {
		missing = append(missing, "content")
	}
	if upload.CredentialsFromEnv().Complete() {
		have = append(have, "youtube")
	} else {
		missing = append(missing, "youtube")
	}
	if report.ConfigFromEnv().Complete() {
		have = append(have, "email")
	} else {
		missing = append(missing, "email")
	}

	if len(missing) == 0 {
		return healthCheck{Name: "Credentials", Status: "ok", Summary: joinComma(have)}
	}
	return healthCheck{
		Name:    "Credentials",
		Status:  "warning",
		Summary: fmt.Sprintf("missing %s", joinComma(missing)),
	}
}

func writeDoctorResult(cmd *cobra.Command, projectRoot string, checks []healthCheck) error {
	if outputJSON {
		data, err := json.MarshalIndent(checks, "", "  ")
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), string(data))
		return nil
	}

	bold := lipgloss.NewStyle().Bold(true).Inline(true)
	green := lipgloss.NewStyle().Foreground(lipgloss.Color("2")).Inline(true)
	yellow := lipgloss.NewStyle().Foreground(lipgloss.Color("3")).Inline(true)
	red := lipgloss.NewStyle().Foreground(lipgloss.Color("1")).Inline(true)

	out := cmd.OutOrStdout()
	fmt.Fprintln(out, bold.Render("PROJECT HEALTH:")+" "+projectRoot)

	for _, c := range checks {
		var statusStr string
		switch c.Status {
		case "ok":
			statusStr = green.Render("OK")
		case "warning":
			statusStr = yellow.Render("WARN")
		case "error":
			statusStr = red.Render("ERROR")
		}
		fmt.Fprintf(out, "  %-12s %s    %s\n", c.Name+":", statusStr, c.Summary)
	}

	return nil
}

func joinComma(items []string) string {
	if len(items) == 0 {
		return ""
	}
	result := items[0]
	for _, item := range items[1:] {
		result += ", " + item
	}
	return result
}
