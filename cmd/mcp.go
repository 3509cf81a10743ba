package cmd

import (
	"github.com/huangsam/repotraffic/internal/mcp"
	"github.com/spf13/cobra"
)

// mcpCmd represents the mcp command.
var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Start the RepoTraffic MCP server",
	Long:  `Launch an MCP server that allows AI agents to reconcile traffic fragments and query the ledger via standard tools.`,
	PreRunE: func(cmd *cobra.Command, args []string) error {
		// Keep stdout clean for the protocol; setup logs go to stderr.
		return sharedSetup(rootCtx, cmd, args)
	},
	RunE: func(_ *cobra.Command, _ []string) error {
		defer closeJournal(nil, nil)
		return mcp.StartMCPServer(rootCtx, cfg, fold)
	},
}

func init() {
	rootCmd.AddCommand(mcpCmd)
}
