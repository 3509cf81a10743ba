package mcp

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/huangsam/repotraffic/core"
	"github.com/huangsam/repotraffic/internal/contract"
	"github.com/huangsam/repotraffic/internal/fragstore"
	"github.com/huangsam/repotraffic/internal/ledger"
	"github.com/huangsam/repotraffic/schema"
	"github.com/mark3labs/mcp-go/mcp"
)

// toolHandler holds common dependencies for MCP tool handlers.
type toolHandler struct {
	baseCfg *contract.Config
	jnl     contract.Journal
}

func (h *toolHandler) handleGetTrafficReport(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	cfg := h.baseCfg.Clone()
	if d := request.GetString("fragments_dir", ""); d != "" {
		cfg.FragmentsDir = d
	}
	if d := request.GetString("ledger_dir", ""); d != "" {
		cfg.LedgerDir = d
	}

	result, err := core.ExecuteReport(cfg, h.jnl)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("reconciliation failed: %v", err)), nil
	}

	jsonData, _ := json.MarshalIndent(result.Report, "", "  ")
	return mcp.NewToolResultText(string(jsonData)), nil
}

func (h *toolHandler) handleGetTopReferrers(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return h.handleTopList(request, schema.ReferrerKind)
}

func (h *toolHandler) handleGetTopPaths(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return h.handleTopList(request, schema.PathKind)
}

// handleTopList aggregates one top-N kind directly from fragments, without
// touching the ledger. Snapshots are per-run ephemeral.
func (h *toolHandler) handleTopList(request mcp.CallToolRequest, kind schema.MetricKind) (*mcp.CallToolResult, error) {
	dir := request.GetString("fragments_dir", "")
	if dir == "" {
		return mcp.NewToolResultError("fragments_dir is required"), nil
	}

	fragments, err := fragstore.Scan(dir)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("fragment scan failed: %v", err)), nil
	}

	entries := core.AggregateTopList(fragstore.ByKind(fragments, kind))
	if limit := request.GetInt("limit", 0); limit > 0 && limit < len(entries) {
		entries = entries[:limit]
	}

	jsonData, _ := json.MarshalIndent(entries, "", "  ")
	return mcp.NewToolResultText(string(jsonData)), nil
}

func (h *toolHandler) handleGetLedgerStatus(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	cfg := h.baseCfg.Clone()
	if d := request.GetString("ledger_dir", ""); d != "" {
		cfg.LedgerDir = d
	}

	led, _, err := ledger.Load(cfg.LedgerDir)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to load ledger: %v", err)), nil
	}

	journalStatus, err := h.jnl.GetStatus()
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to get journal status: %v", err)), nil
	}

	combined := struct {
		Ledger  schema.LedgerStatus  `json:"ledger"`
		Journal schema.JournalStatus `json:"journal"`
	}{
		Ledger:  ledger.Status(led),
		Journal: journalStatus,
	}

	jsonData, _ := json.MarshalIndent(combined, "", "  ")
	return mcp.NewToolResultText(string(jsonData)), nil
}
