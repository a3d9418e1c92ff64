package cmd

import (
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/ziadkadry99/codelocate/internal/logging"
)

var (
	cfgFile   string
	rootDir   string
	verbose   bool
	quiet     bool
	logFormat string
)

var rootCmd = &cobra.Command{
	Use:   "codelocate",
	Short: "Locate the code behind an issue report",
	Long: `codelocate reads an issue or bug report and ranks the files, symbols
and API endpoints of a workspace most likely involved. It runs on keyword
heuristics alone or asks an LLM to judge the best candidates, and it can
serve results to AI agents over MCP or to other tools over HTTP.`,
	SilenceUsage: true,
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file path (default <root>/.codelocate.yml)")
	rootCmd.PersistentFlags().StringVarP(&rootDir, "root", "r", ".", "workspace root")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "debug logging")
	rootCmd.PersistentFlags().BoolVarP(&quiet, "quiet", "q", false, "no logging")
	rootCmd.PersistentFlags().StringVar(&logFormat, "log-format", "text", "log format: text or json")
}

// newLogger builds the stderr logger. The verbosity flags override the
// configured level.
func newLogger(configured string) *slog.Logger {
	level := logging.LevelFromString(configured)
	if verbose || quiet {
		level = logging.LevelFromVerbosity(verbose, quiet)
	}
	if logFormat == "json" {
		return logging.NewJSONLogger(os.Stderr, level)
	}
	return logging.NewLogger(os.Stderr, level)
}
