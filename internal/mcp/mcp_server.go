// Package mcp provides the Model Context Protocol (MCP) server implementation.
package mcp

import (
	"context"

	"github.com/huangsam/repotraffic/internal/contract"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

// NewMCPServer initializes and configures the RepoTraffic MCP server without starting it.
// This is exposed for unit testing.
func NewMCPServer(baseCfg *contract.Config, jnl contract.Journal) *server.MCPServer {
	s := server.NewMCPServer(
		"RepoTraffic Reconciliation Server",
		"1.0.0",
		server.WithLogging(),
	)

	h := &toolHandler{
		baseCfg: baseCfg,
		jnl:     jnl,
	}

	// --- 1. Tool: get_traffic_report ---
	s.AddTool(mcp.NewTool("get_traffic_report",
		mcp.WithDescription("Reconcile traffic fragments into the ledger and return the full report: views/clones series, stargazer and fork counts, top referrers and paths."),
		mcp.WithString("fragments_dir", mcp.Description("Directory containing fragment CSV files (omit to report from the ledger alone).")),
		mcp.WithString("ledger_dir", mcp.Description("Directory holding the persisted aggregates. Defaults to the configured ledger directory.")),
	), h.handleGetTrafficReport)

	// --- 2. Tool: get_top_referrers ---
	s.AddTool(mcp.NewTool("get_top_referrers",
		mcp.WithDescription("Aggregate referrer snapshots across all fragment windows and return the ranked referrer list."),
		mcp.WithString("fragments_dir", mcp.Description("Directory containing fragment CSV files."), mcp.Required()),
		mcp.WithNumber("limit", mcp.Description("Limit the number of referrers returned.")),
	), h.handleGetTopReferrers)

	// --- 3. Tool: get_top_paths ---
	s.AddTool(mcp.NewTool("get_top_paths",
		mcp.WithDescription("Aggregate popular-path snapshots across all fragment windows and return the ranked path list."),
		mcp.WithString("fragments_dir", mcp.Description("Directory containing fragment CSV files."), mcp.Required()),
		mcp.WithNumber("limit", mcp.Description("Limit the number of paths returned.")),
	), h.handleGetTopPaths)

	// --- 4. Tool: get_ledger_status ---
	s.AddTool(mcp.NewTool("get_ledger_status",
		mcp.WithDescription("Return ledger and fold journal status: version, per-metric day counts, covered date range, and journaled fragments."),
		mcp.WithString("ledger_dir", mcp.Description("Directory holding the persisted aggregates.")),
	), h.handleGetLedgerStatus)

	return s
}

// StartMCPServer starts the RepoTraffic MCP server.
func StartMCPServer(_ context.Context, baseCfg *contract.Config, jnl contract.Journal) error {
	s := NewMCPServer(baseCfg, jnl)
	return server.ServeStdio(s)
}
