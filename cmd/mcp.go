package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/ziadkadry99/lucky-universe/internal/fortune"
	mcpserver "github.com/ziadkadry99/lucky-universe/internal/mcp"
	"github.com/ziadkadry99/lucky-universe/internal/slot"
)

var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Start the MCP server for AI agent integration",
	Long:  `Starts a Model Context Protocol (MCP) server on stdio, exposing generate_fortune and lucky_numbers tools for AI agents.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}

		provider, status := buildProvider(cfg, logger)
		if status.Warning != "" {
			// Tools still register; calls report the missing key.
			logger.Warn(status.Warning)
		}

		// Set version from the cmd package variable.
		mcpserver.Version = Version

		fmt.Fprintf(os.Stderr, "lucky MCP server started on stdio (provider=%s, model=%s)\n", status.Provider, status.Model)

		gen := fortune.NewGenerator(provider, cfg.Model, logger)
		srv := mcpserver.NewServer(gen, slot.NewMachine(nil))
		return srv.Serve()
	},
}

func init() {
	rootCmd.AddCommand(mcpCmd)
}
