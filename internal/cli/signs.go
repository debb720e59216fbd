package cli

import (
	"errors"
	"fmt"
	"time"

	"github.com/wealthealphaglobal/astrofinance-auto/internal/config"
	"github.com/wealthealphaglobal/astrofinance-auto/internal/paths"
	"github.com/wealthealphaglobal/astrofinance-auto/pkg/zodiac"
)

const runDateLayout = "2006-01-02"

// loadCatalog returns the twelve signs, with texts from the project's signs
// file merged in when one exists. Row-level issues in the file are logged and
// the clean rows still apply.
func loadCatalog(pp paths.ProjectPaths, logger Logger) ([]zodiac.Sign, error) {
	exists, err := paths.FileExists(pp.SignsFile)
	if err != nil {
		return nil, fmt.Errorf("check signs file: %w", err)
	}
	if !exists {
		return zodiac.All(), nil
	}

	signs, err := zodiac.LoadOverrides(pp.SignsFile)
	if err != nil {
		var verrs zodiac.ValidationErrors
		if errors.As(err, &verrs) {
			logger.Printf("signs file %s: %v", pp.SignsFile, err)
			return signs, nil
		}
		return nil, fmt.Errorf("load signs file: %w", err)
	}
	return signs, nil
}

// selectSigns narrows the catalog for one run. The --sign flag wins, then the
// config's signs list; --all overrides both and runs the full catalog.
func selectSigns(catalog []zodiac.Sign, flagSigns []string, cfg config.Config, all bool) ([]zodiac.Sign, error) {
	if all {
		return catalog, nil
	}
	if len(flagSigns) > 0 {
		return zodiac.Subset(catalog, flagSigns)
	}
	if len(cfg.Signs) > 0 {
		return zodiac.Subset(catalog, cfg.Signs)
	}
	return catalog, nil
}

// parseRunDate turns a --date value into the video date. Empty means today.
func parseRunDate(value string) (time.Time, error) {
	if value == "" {
		return time.Time{}, nil
	}
	t, err := time.Parse(runDateLayout, value)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid --date %q (want YYYY-MM-DD)", value)
	}
	return t, nil
}
