package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"text/tabwriter"
	"unicode/utf8"

	"github.com/spf13/cobra"

	"github.com/ziadkadry99/codelocate/internal/locator"
	"github.com/ziadkadry99/codelocate/internal/model"
	"github.com/ziadkadry99/codelocate/internal/strategy"
)

var locateCmd = &cobra.Command{
	Use:   "locate [issue title]",
	Short: "Rank the files, symbols and APIs involved in an issue",
	Long: `Analyzes the workspace against an issue title and optional body and prints
the most relevant files, symbols and API endpoints with a confidence score.`,
	Example: `  codelocate locate "NullPointerException in UserService.getUser"
  codelocate locate "Login fails" --body-file issue.md --strategy model --json`,
	Args: cobra.MinimumNArgs(1),
	RunE: runLocate,
}

func init() {
	locateCmd.Flags().StringP("body", "b", "", "issue body")
	locateCmd.Flags().String("body-file", "", "read the issue body from a file (- for stdin)")
	locateCmd.Flags().StringP("strategy", "s", "", "analysis strategy: rule or model (default from config)")
	locateCmd.Flags().Bool("json", false, "output the result as JSON")
	locateCmd.Flags().Bool("content", false, "print file snippets")
	locateCmd.Flags().Bool("no-symbols", false, "skip symbol analysis")
	rootCmd.AddCommand(locateCmd)
}

func runLocate(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	body, _ := cmd.Flags().GetString("body")
	bodyFile, _ := cmd.Flags().GetString("body-file")
	strategyName, _ := cmd.Flags().GetString("strategy")
	jsonOutput, _ := cmd.Flags().GetBool("json")
	withContent, _ := cmd.Flags().GetBool("content")
	noSymbols, _ := cmd.Flags().GetBool("no-symbols")

	if bodyFile != "" {
		text, err := readBody(bodyFile, cmd.InOrStdin())
		if err != nil {
			return err
		}
		body = text
	}

	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	logger := newLogger(cfg.LogLevel)

	req := locator.Request{
		Root:  rootDir,
		Issue: model.Issue{Title: strings.Join(args, " "), Body: body},
	}
	if strategyName != "" {
		kind, err := strategy.ParseKind(strategyName)
		if err != nil {
			return err
		}
		req.Strategy = kind
	}

	engine, usage := newEngine(cfg, logger, engineOptions{
		symbols:  !noSymbols,
		progress: !jsonOutput && !quiet,
	})
	res, err := engine.Locate(ctx, req)
	if err != nil {
		return fmt.Errorf("locate: %w", err)
	}
	logUsage(logger, usage)

	out := cmd.OutOrStdout()
	if jsonOutput {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(res)
	}
	printResult(out, res, withContent)
	return nil
}

func readBody(path string, stdin io.Reader) (string, error) {
	var data []byte
	var err error
	if path == "-" {
		data, err = io.ReadAll(stdin)
	} else {
		data, err = os.ReadFile(path)
	}
	if err != nil {
		return "", fmt.Errorf("reading issue body: %w", err)
	}
	return string(data), nil
}

func printResult(w io.Writer, res model.AnalysisResult, withContent bool) {
	fmt.Fprintf(w, "Confidence: %.0f%%\n\n", res.Confidence*100)

	if len(res.Files) == 0 {
		fmt.Fprintln(w, "No relevant files found.")
		return
	}

	fmt.Fprintf(w, "Files (%d):\n", len(res.Files))
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	for i, f := range res.Files {
		fmt.Fprintf(tw, "  %d.\t%.2f\t%s\t%s\n", i+1, f.Score, f.Path, truncate(f.Reason, 80))
	}
	tw.Flush()

	if withContent {
		for _, f := range res.Files {
			fmt.Fprintf(w, "\n--- %s ---\n%s\n", f.Path, strings.TrimRight(f.Content, "\n"))
		}
	}

	if len(res.Symbols) > 0 {
		fmt.Fprintf(w, "\nSymbols (%d):\n", len(res.Symbols))
		tw = tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
		for _, s := range res.Symbols {
			fmt.Fprintf(tw, "  %s\t%s\t%s\n", s.Kind, s.Name, s.Location)
		}
		tw.Flush()
	}

	if len(res.APIs) > 0 {
		fmt.Fprintf(w, "\nAPIs (%d):\n", len(res.APIs))
		tw = tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
		for _, a := range res.APIs {
			fmt.Fprintf(tw, "  %s\t%s\t%s\n", a.Method, a.Path, truncate(a.Description, 80))
		}
		tw.Flush()
	}
}

// truncate cuts s to at most max bytes on a rune boundary, marking the cut.
func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	cut := max
	for cut > 0 && !utf8.RuneStart(s[cut]) {
		cut--
	}
	return s[:cut] + "..."
}
