package lens

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/infrajoy/agelens/audit"
	"github.com/infrajoy/agelens/crawl"
)

var testMCPImpl = &mcp.Implementation{Name: "agelens-test", Version: "0.1.0"}

func testSite(t *testing.T) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("/", func(w http.ResponseWriter, _ *http.Request) {
		fmt.Fprint(w, `<html><head><title>Home</title></head><body>
			<h1>Welcome</h1><p>We keep words short.</p>
			<a href="/next">Next page of the guide</a>
		</body></html>`)
	})
	mux.HandleFunc("/next", func(w http.ResponseWriter, _ *http.Request) {
		fmt.Fprint(w, `<html><head><title>Next</title></head><body><h1>Next</h1></body></html>`)
	})
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

func testLens() *Lens {
	return New(Config{
		Fetch:    crawl.FetchConfig{Timeout: 5 * time.Second},
		MaxPages: 5,
	})
}

func mcpSession(t *testing.T) *mcp.ClientSession {
	t.Helper()
	srv := mcp.NewServer(testMCPImpl, nil)
	testLens().RegisterMCP(srv)

	serverT, clientT := mcp.NewInMemoryTransports()
	ctx := context.Background()
	go func() { _ = srv.Run(ctx, serverT) }()

	client := mcp.NewClient(testMCPImpl, nil)
	session, err := client.Connect(ctx, clientT, nil)
	if err != nil {
		t.Fatalf("client connect: %v", err)
	}
	t.Cleanup(func() { session.Close() })
	return session
}

func mcpCallTool(t *testing.T, session *mcp.ClientSession, name string, args any) string {
	t.Helper()
	result, err := session.CallTool(context.Background(), &mcp.CallToolParams{
		Name:      name,
		Arguments: args,
	})
	if err != nil {
		t.Fatalf("CallTool(%s): %v", name, err)
	}
	if err := result.GetError(); err != nil {
		t.Fatalf("CallTool(%s) tool error: %v", name, err)
	}
	tc, ok := result.Content[0].(*mcp.TextContent)
	if !ok {
		t.Fatalf("CallTool(%s): expected TextContent", name)
	}
	return tc.Text
}

// --- agelens_audit ---

func TestMCP_Audit(t *testing.T) {
	site := testSite(t)
	session := mcpSession(t)

	text := mcpCallTool(t, session, "agelens_audit", map[string]any{"url": site.URL + "/"})

	var res audit.Result
	if err := json.Unmarshal([]byte(text), &res); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if res.URL != site.URL+"/" {
		t.Errorf("url = %q", res.URL)
	}
	if !res.Checks.HasH1 {
		t.Error("h1 not detected through MCP")
	}
	if res.Score < 0 || res.Score > 100 {
		t.Errorf("score = %d", res.Score)
	}
}

func TestMCP_Audit_FetchFailureIsToolError(t *testing.T) {
	// WHAT: An unreachable URL surfaces as a tool error, not a protocol error.
	session := mcpSession(t)

	result, err := session.CallTool(context.Background(), &mcp.CallToolParams{
		Name:      "agelens_audit",
		Arguments: map[string]any{"url": "http://127.0.0.1:1/nope"},
	})
	if err != nil {
		t.Fatalf("CallTool: %v", err)
	}
	if !result.IsError {
		t.Error("expected tool error for unreachable URL")
	}
}

// --- agelens_clone ---

func TestMCP_Clone(t *testing.T) {
	site := testSite(t)
	session := mcpSession(t)

	text := mcpCallTool(t, session, "agelens_clone", map[string]any{
		"url":        site.URL + "/",
		"text_scale": 1.5,
	})

	var clone Clone
	if err := json.Unmarshal([]byte(text), &clone); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if clone.Title != "Home" {
		t.Errorf("title = %q", clone.Title)
	}
	if !strings.Contains(clone.HTML, "calc(16px * 1.5)") {
		t.Error("requested text scale not applied")
	}
	if len(clone.Changes) == 0 {
		t.Error("no changes reported")
	}
}

// --- agelens_crawl_audit ---

func TestMCP_CrawlAudit(t *testing.T) {
	site := testSite(t)
	session := mcpSession(t)

	text := mcpCallTool(t, session, "agelens_crawl_audit", map[string]any{
		"url":       site.URL + "/",
		"max_pages": 5,
	})

	var results []audit.Result
	if err := json.Unmarshal([]byte(text), &results); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if len(results) != 2 {
		t.Errorf("got %d results, want 2", len(results))
	}
}

func TestMCP_ToolsListed(t *testing.T) {
	// WHAT: All three tools are registered and discoverable.
	session := mcpSession(t)
	list, err := session.ListTools(context.Background(), &mcp.ListToolsParams{})
	if err != nil {
		t.Fatalf("ListTools: %v", err)
	}
	want := map[string]bool{"agelens_audit": true, "agelens_clone": true, "agelens_crawl_audit": true}
	for _, tool := range list.Tools {
		delete(want, tool.Name)
	}
	for name := range want {
		t.Errorf("tool %q not registered", name)
	}
}
