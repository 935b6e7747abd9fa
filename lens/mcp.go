package lens

import (
	"context"
	"encoding/json"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/infrajoy/agelens/kit"
	"github.com/infrajoy/agelens/remedy"
)

// RegisterMCP registers the agelens tools on an MCP server.
func (l *Lens) RegisterMCP(srv *mcp.Server) {
	l.registerAuditTool(srv)
	l.registerCloneTool(srv)
	l.registerCrawlAuditTool(srv)
}

func inputSchema(properties map[string]any, required []string) map[string]any {
	s := map[string]any{
		"type":       "object",
		"properties": properties,
	}
	if len(required) > 0 {
		s["required"] = required
	}
	return s
}

// --- audit ---

type auditReq struct {
	URL string `json:"url"`
}

func (l *Lens) registerAuditTool(srv *mcp.Server) {
	tool := &mcp.Tool{
		Name:        "agelens_audit",
		Description: "Audit a web page for age-inclusive accessibility: score, breakdown, checks, recommendations.",
		InputSchema: inputSchema(map[string]any{
			"url": map[string]any{"type": "string", "description": "Page URL to audit"},
		}, []string{"url"}),
	}

	endpoint := func(ctx context.Context, req any) (any, error) {
		r := req.(*auditReq)
		return l.AuditURL(ctx, r.URL)
	}

	decode := func(req *mcp.CallToolRequest) (*kit.MCPDecodeResult, error) {
		var r auditReq
		if err := json.Unmarshal(req.Params.Arguments, &r); err != nil {
			return nil, err
		}
		return &kit.MCPDecodeResult{Request: &r}, nil
	}

	kit.RegisterMCPTool(srv, tool, endpoint, decode)
}

// --- clone ---

type cloneReq struct {
	URL       string  `json:"url"`
	TextScale float64 `json:"text_scale"`
}

func (l *Lens) registerCloneTool(srv *mcp.Server) {
	tool := &mcp.Tool{
		Name:        "agelens_clone",
		Description: "Produce an age-friendly rewrite of a page with a change log.",
		InputSchema: inputSchema(map[string]any{
			"url":        map[string]any{"type": "string", "description": "Page URL to clone"},
			"text_scale": map[string]any{"type": "number", "description": "Root font scale 1.0-1.6 (default 1.25)"},
		}, []string{"url"}),
	}

	endpoint := func(ctx context.Context, req any) (any, error) {
		r := req.(*cloneReq)
		cfg := remedy.DefaultConfig()
		if r.TextScale != 0 {
			cfg.TextScale = r.TextScale
		}
		return l.CloneURL(ctx, r.URL, cfg)
	}

	decode := func(req *mcp.CallToolRequest) (*kit.MCPDecodeResult, error) {
		var r cloneReq
		if err := json.Unmarshal(req.Params.Arguments, &r); err != nil {
			return nil, err
		}
		return &kit.MCPDecodeResult{Request: &r}, nil
	}

	kit.RegisterMCPTool(srv, tool, endpoint, decode)
}

// --- crawl audit ---

type crawlAuditReq struct {
	URL      string `json:"url"`
	MaxPages int    `json:"max_pages"`
}

func (l *Lens) registerCrawlAuditTool(srv *mcp.Server) {
	tool := &mcp.Tool{
		Name:        "agelens_crawl_audit",
		Description: "Crawl same-domain pages from a start URL and audit each one.",
		InputSchema: inputSchema(map[string]any{
			"url":       map[string]any{"type": "string", "description": "Start URL"},
			"max_pages": map[string]any{"type": "integer", "description": "Page limit for the crawl"},
		}, []string{"url"}),
	}

	endpoint := func(ctx context.Context, req any) (any, error) {
		r := req.(*crawlAuditReq)
		return l.CrawlAudit(ctx, r.URL, r.MaxPages), nil
	}

	decode := func(req *mcp.CallToolRequest) (*kit.MCPDecodeResult, error) {
		var r crawlAuditReq
		if err := json.Unmarshal(req.Params.Arguments, &r); err != nil {
			return nil, err
		}
		return &kit.MCPDecodeResult{Request: &r}, nil
	}

	kit.RegisterMCPTool(srv, tool, endpoint, decode)
}
