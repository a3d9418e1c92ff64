package cmd

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/ziadkadry99/codelocate/internal/config"
	"github.com/ziadkadry99/codelocate/internal/projectctx"
)

var initContext bool

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Initialize codelocate configuration with an interactive wizard",
	Long: `Runs an interactive wizard for the workspace and writes a .codelocate.yml file
to its root. With --context it also asks for project context used in model prompts.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.RunWizard(rootDir)
		if err != nil {
			return err
		}
		if !initContext {
			return nil
		}

		pc, err := projectctx.CollectInteractive()
		if err != nil {
			return err
		}
		if pc.IsEmpty() {
			fmt.Println("No project context given; skipping.")
			return nil
		}
		path := cfg.ContextFile
		if !filepath.IsAbs(path) {
			path = filepath.Join(rootDir, path)
		}
		if err := pc.Save(path); err != nil {
			return err
		}
		fmt.Printf("Project context saved to %s\n", path)
		return nil
	},
}

func init() {
	initCmd.Flags().BoolVar(&initContext, "context", false, "also collect project context for model prompts")
	rootCmd.AddCommand(initCmd)
}
