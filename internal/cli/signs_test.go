package cli

import (
	"fmt"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/wealthealphaglobal/astrofinance-auto/internal/config"
	"github.com/wealthealphaglobal/astrofinance-auto/internal/paths"
	"github.com/wealthealphaglobal/astrofinance-auto/pkg/zodiac"
)

type captureLogger struct {
	lines []string
}

func (l *captureLogger) Printf(format string, v ...any) {
	l.lines = append(l.lines, fmt.Sprintf(format, v...))
}

func TestSelectSigns(t *testing.T) {
	catalog := zodiac.All()

	t.Run("defaults to full catalog", func(t *testing.T) {
		signs, err := selectSigns(catalog, nil, config.Config{}, false)
		if err != nil {
			t.Fatal(err)
		}
		if len(signs) != 12 {
			t.Fatalf("got %d signs, want 12", len(signs))
		}
	})

	t.Run("flag narrows the run", func(t *testing.T) {
		signs, err := selectSigns(catalog, []string{"aries", "LEO"}, config.Config{}, false)
		if err != nil {
			t.Fatal(err)
		}
		if len(signs) != 2 || signs[0].Name != "Aries" || signs[1].Name != "Leo" {
			t.Fatalf("unexpected selection: %+v", signs)
		}
	})

	t.Run("config list applies without flags", func(t *testing.T) {
		cfg := config.Config{Signs: []string{"Taurus"}}
		signs, err := selectSigns(catalog, nil, cfg, false)
		if err != nil {
			t.Fatal(err)
		}
		if len(signs) != 1 || signs[0].Name != "Taurus" {
			t.Fatalf("unexpected selection: %+v", signs)
		}
	})

	t.Run("all overrides config list", func(t *testing.T) {
		cfg := config.Config{Signs: []string{"Taurus"}}
		signs, err := selectSigns(catalog, nil, cfg, true)
		if err != nil {
			t.Fatal(err)
		}
		if len(signs) != 12 {
			t.Fatalf("got %d signs, want 12", len(signs))
		}
	})

	t.Run("unknown sign fails", func(t *testing.T) {
		_, err := selectSigns(catalog, []string{"Ophiuchus"}, config.Config{}, false)
		if err == nil {
			t.Fatal("expected error for unknown sign")
		}
	})
}

func TestParseRunDate(t *testing.T) {
	t.Run("empty means today", func(t *testing.T) {
		date, err := parseRunDate("")
		if err != nil {
			t.Fatal(err)
		}
		if !date.IsZero() {
			t.Fatalf("expected zero time, got %v", date)
		}
	})

	t.Run("parses ISO date", func(t *testing.T) {
		date, err := parseRunDate("2026-08-25")
		if err != nil {
			t.Fatal(err)
		}
		want := time.Date(2026, time.August, 25, 0, 0, 0, 0, time.UTC)
		if !date.Equal(want) {
			t.Fatalf("got %v, want %v", date, want)
		}
	})

	t.Run("rejects other layouts", func(t *testing.T) {
		_, err := parseRunDate("08/25/2026")
		if err == nil || !strings.Contains(err.Error(), "invalid --date") {
			t.Fatalf("unexpected error: %v", err)
		}
	})
}

func TestLoadCatalog(t *testing.T) {
	t.Run("no signs file keeps built-ins", func(t *testing.T) {
		pp, err := paths.Resolve(t.TempDir())
		if err != nil {
			t.Fatal(err)
		}

		signs, err := loadCatalog(pp, &captureLogger{})
		if err != nil {
			t.Fatal(err)
		}
		if len(signs) != 12 {
			t.Fatalf("got %d signs, want 12", len(signs))
		}
	})

	t.Run("overrides merge over built-ins", func(t *testing.T) {
		pp, err := paths.Resolve(t.TempDir())
		if err != nil {
			t.Fatal(err)
		}
		csv := "name,forecast\nAries,Fire finds a way today.\n"
		if err := os.WriteFile(pp.SignsFile, []byte(csv), 0o644); err != nil {
			t.Fatal(err)
		}

		signs, err := loadCatalog(pp, &captureLogger{})
		if err != nil {
			t.Fatal(err)
		}
		if signs[0].Forecast != "Fire finds a way today." {
			t.Errorf("override not applied: %q", signs[0].Forecast)
		}
		if signs[0].Finance == "" {
			t.Errorf("untouched sections should keep built-ins")
		}
	})

	t.Run("row issues log and keep clean rows", func(t *testing.T) {
		pp, err := paths.Resolve(t.TempDir())
		if err != nil {
			t.Fatal(err)
		}
		csv := "name,forecast\nNotASign,whatever\nLeo,Roar.\n"
		if err := os.WriteFile(pp.SignsFile, []byte(csv), 0o644); err != nil {
			t.Fatal(err)
		}

		logger := &captureLogger{}
		signs, err := loadCatalog(pp, logger)
		if err != nil {
			t.Fatal(err)
		}
		if len(signs) != 12 {
			t.Fatalf("got %d signs, want 12", len(signs))
		}
		if len(logger.lines) == 0 {
			t.Errorf("row issue should be logged")
		}
		for _, s := range signs {
			if s.Name == "Leo" && s.Forecast != "Roar." {
				t.Errorf("clean row should still apply, got %q", s.Forecast)
			}
		}
	})

	t.Run("unreadable file fails", func(t *testing.T) {
		pp, err := paths.Resolve(t.TempDir())
		if err != nil {
			t.Fatal(err)
		}
		if err := os.WriteFile(pp.SignsFile, []byte(""), 0o644); err != nil {
			t.Fatal(err)
		}

		_, err = loadCatalog(pp, &captureLogger{})
		if err == nil {
			t.Fatal("expected error for empty signs file")
		}
	})
}
