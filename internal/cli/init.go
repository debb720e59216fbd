package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/wealthealphaglobal/astrofinance-auto/internal/config"
	"github.com/wealthealphaglobal/astrofinance-auto/internal/logx"
	"github.com/wealthealphaglobal/astrofinance-auto/internal/paths"
	"github.com/wealthealphaglobal/astrofinance-auto/pkg/zodiac"
)

func newInitCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "init [directory]",
		Short: "Initialize an astrofinance project",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runInit,
	}

	return cmd
}

func resolveInitDir(projectFlag string, args []string) (string, error) {
	if projectFlag != "" {
		return projectFlag, nil
	}

	cwd, err := os.Getwd()
	if err != nil {
		return "", fmt.Errorf("get working directory: %w", err)
	}

	if len(args) > 0 {
		if args[0] == "." {
			return cwd, nil
		}
		return filepath.Join(cwd, args[0]), nil
	}

	return nextAvailableDir(cwd)
}

func nextAvailableDir(base string) (string, error) {
	for i := 1; ; i++ {
		candidate := filepath.Join(base, fmt.Sprintf("astrofinance-%d", i))
		exists, err := paths.DirExists(candidate)
		if err != nil {
			return "", err
		}
		if !exists {
			return candidate, nil
		}
	}
}

func runInit(cmd *cobra.Command, args []string) error {
	dir, err := resolveInitDir(projectDir, args)
	if err != nil {
		return err
	}

	pp, err := paths.Resolve(dir)
	if err != nil {
		return err
	}

	if err := pp.EnsureRoot(); err != nil {
		return err
	}
	if err := pp.EnsureProjectDirs(); err != nil {
		return err
	}

	logger, closer, err := logx.New(pp, "init")
	if err != nil {
		return err
	}
	defer closer.Close()
	logger.Printf("init: project=%s", pp.Root)

	created := make([]string, 0, 2)

	if err := ensureConfig(pp, &created, logger); err != nil {
		return err
	}

	if err := ensureSignsFile(pp, &created, logger); err != nil {
		return err
	}

	if len(created) == 0 {
		cmd.Printf("Project already initialized at %s\n", pp.Root)
		return nil
	}

	cmd.Printf("Initialized project at %s\n", pp.Root)
	for _, entry := range created {
		cmd.Printf("  created %s\n", entry)
	}
	cmd.Printf("Drop background videos into %s to start rendering.\n",
		filepath.Join("assets", "backgrounds"))

	return nil
}

func ensureConfig(pp paths.ProjectPaths, created *[]string, logger Logger) error {
	exists, err := paths.FileExists(pp.ConfigFile)
	if err != nil {
		return fmt.Errorf("check config: %w", err)
	}
	if exists {
		logger.Printf("config exists: %s", pp.ConfigFile)
		return nil
	}

	cfg := config.Default()
	cfg.ApplyDefaults()
	data, err := cfg.Marshal()
	if err != nil {
		return err
	}

	if err := os.WriteFile(pp.ConfigFile, data, 0o644); err != nil {
		return fmt.Errorf("write config: %w", err)
	}
	logger.Printf("created config: %s", pp.ConfigFile)
	*created = append(*created, config.DefaultFileName)
	return nil
}

func ensureSignsFile(pp paths.ProjectPaths, created *[]string, logger Logger) error {
	exists, err := paths.FileExists(pp.SignsFile)
	if err != nil {
		return fmt.Errorf("check signs file: %w", err)
	}
	if exists {
		logger.Printf("signs file exists: %s", pp.SignsFile)
		return nil
	}

	if err := os.WriteFile(pp.SignsFile, []byte(signsSampleCSV()), 0o644); err != nil {
		return fmt.Errorf("write signs file: %w", err)
	}
	logger.Printf("created signs file: %s", pp.SignsFile)
	*created = append(*created, filepath.Base(pp.SignsFile))
	return nil
}

// signsSampleCSV lists every sign with empty override cells, so the file
// parses as-is and filling a cell replaces that sign's built-in text.
func signsSampleCSV() string {
	var b strings.Builder
	b.WriteString("name,forecast,finance,wellness\n")
	for _, name := range zodiac.Names() {
		b.WriteString(name)
		b.WriteString(",,,\n")
	}
	return b.String()
}

// Logger keeps the subset of log.Logger used locally, enabling easy testing.
type Logger interface {
	Printf(format string, v ...any)
}
