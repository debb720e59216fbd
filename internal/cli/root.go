// Package cli implements the astrofinance command tree.
package cli

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

var (
	projectDir string
	outputJSON bool
)

// Execute runs the root cobra command.
func Execute() {
	// API keys and channel credentials may live in a local .env during
	// development; in CI they arrive as real environment variables.
	_ = godotenv.Load()

	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "astrofinance",
		Short: "Daily zodiac finance shorts generator",
	}

	cmd.PersistentFlags().StringVar(&projectDir, "project", "", "Path to project directory")
	cmd.PersistentFlags().BoolVar(&outputJSON, "json", false, "Output machine-readable JSON")

	cmd.AddCommand(newInitCmd())
	cmd.AddCommand(newConfigCmd())
	cmd.AddCommand(newValidateCmd())
	cmd.AddCommand(newPlanCmd())
	cmd.AddCommand(newGenerateCmd())
	cmd.AddCommand(newUploadCmd())
	cmd.AddCommand(newReportCmd())
	cmd.AddCommand(newDoctorCmd())
	cmd.AddCommand(newVersionCmd())

	return cmd
}

func errorString(err error) string {
	if err == nil {
		return ""
	}
	return err.Error()
}
