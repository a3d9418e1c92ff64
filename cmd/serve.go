package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	mcpserver "github.com/ziadkadry99/codelocate/internal/mcp"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the MCP server for AI agent integration",
	Long:  `Starts a Model Context Protocol (MCP) server on stdio exposing the locate_code and extract_keywords tools for AI agents.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		// Stdout carries the protocol; logs go to stderr.
		logger := newLogger(cfg.LogLevel)

		engine, _ := newEngine(cfg, logger, engineOptions{symbols: true})

		mcpserver.Version = Version
		logger.Info("codelocate MCP server started on stdio", "root", rootDir, "strategy", cfg.Strategy)

		if err := mcpserver.NewServer(engine, rootDir, logger).Serve(); err != nil {
			return fmt.Errorf("mcp server: %w", err)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
}
