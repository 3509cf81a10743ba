package mcp_test

import (
	"context"
	"testing"

	"github.com/huangsam/repotraffic/internal/contract"
	"github.com/huangsam/repotraffic/internal/journal"
	mcp_internal "github.com/huangsam/repotraffic/internal/mcp"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMCPServerHandlers_ValidationErrors(t *testing.T) {
	baseCfg := &contract.Config{
		LedgerDir: t.TempDir(),
	}

	jnl := &journal.MockJournal{}
	s := mcp_internal.NewMCPServer(baseCfg, jnl)

	ctx := context.Background()

	t.Run("get_top_referrers missing fragments_dir", func(t *testing.T) {
		tool := s.GetTool("get_top_referrers")
		require.NotNil(t, tool, "Tool get_top_referrers should exist")

		req := mcp.CallToolRequest{
			Params: mcp.CallToolParams{
				Name: "get_top_referrers",
				Arguments: map[string]any{
					"fragments_dir": "", // Missing required
				},
			},
		}

		res, err := tool.Handler(ctx, req)
		require.NoError(t, err, "The MCP handler should not return a raw error for tool logic failures")
		assert.True(t, res.IsError, "The response should indicate an error state")
		assert.Contains(t, res.Content[0].(mcp.TextContent).Text, "fragments_dir is required")
	})

	t.Run("get_top_paths missing fragments_dir", func(t *testing.T) {
		tool := s.GetTool("get_top_paths")
		require.NotNil(t, tool)

		req := mcp.CallToolRequest{
			Params: mcp.CallToolParams{
				Name:      "get_top_paths",
				Arguments: map[string]any{},
			},
		}

		res, err := tool.Handler(ctx, req)
		require.NoError(t, err)
		assert.True(t, res.IsError)
		assert.Contains(t, res.Content[0].(mcp.TextContent).Text, "fragments_dir is required")
	})

	t.Run("get_traffic_report without any traffic data", func(t *testing.T) {
		tool := s.GetTool("get_traffic_report")
		require.NotNil(t, tool)

		req := mcp.CallToolRequest{
			Params: mcp.CallToolParams{
				Name: "get_traffic_report",
				Arguments: map[string]any{
					"fragments_dir": t.TempDir(), // Empty directory
				},
			},
		}

		res, err := tool.Handler(ctx, req)
		require.NoError(t, err)
		assert.True(t, res.IsError)
		assert.Contains(t, res.Content[0].(mcp.TextContent).Text, "reconciliation failed")
	})
}

func TestMCPServerToolsRegistered(t *testing.T) {
	s := mcp_internal.NewMCPServer(&contract.Config{}, &journal.MockJournal{})

	for _, name := range []string{"get_traffic_report", "get_top_referrers", "get_top_paths", "get_ledger_status"} {
		assert.NotNil(t, s.GetTool(name), "Tool %s should exist", name)
	}
}
