package mcpserver

import (
	"context"
	"encoding/json"
	"log/slog"
	"os"
	"strings"
	"testing"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/starford/kitscan/internal/catalog"
	"github.com/starford/kitscan/internal/models"
	"github.com/starford/kitscan/internal/scanner"
	"github.com/starford/kitscan/internal/scanservice"
	"github.com/starford/kitscan/internal/testutil"
)

func testServer(t *testing.T, withCatalog bool) (*Server, *scanservice.Service) {
	t.Helper()

	_, store := testutil.TestTree(t, testutil.SampleTree)
	logger := slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError}))
	sc := scanner.New(store, scanner.WithLogger(logger))

	var db *catalog.DB
	if withCatalog {
		dbFile, err := os.CreateTemp("", "kitscan-mcp-test-*.db")
		if err != nil {
			t.Fatal(err)
		}
		dbFile.Close()
		t.Cleanup(func() { os.Remove(dbFile.Name()) })

		db, err = catalog.Open(dbFile.Name())
		if err != nil {
			t.Fatal(err)
		}
		t.Cleanup(func() { db.Close() })
	}

	svc := scanservice.NewService(sc, db)
	return New(store, svc, "test"), svc
}

func callTool(t *testing.T, srv *Server, name string, args map[string]any) *mcp.CallToolResult {
	t.Helper()
	ctx := context.Background()
	req := mcp.CallToolRequest{}
	req.Method = "tools/call"
	req.Params.Name = name
	req.Params.Arguments = args

	var result *mcp.CallToolResult
	var err error

	switch name {
	case "scan_components":
		result, err = srv.scanComponents(ctx, req)
	case "generate_scenarios":
		result, err = srv.generateScenarios(ctx, req)
	case "read_component":
		result, err = srv.readComponent(ctx, req)
	case "scan_history":
		result, err = srv.scanHistory(ctx, req)
	case "get_component_format":
		result, err = srv.getComponentFormat(ctx, req)
	default:
		t.Fatalf("unknown tool: %s", name)
	}

	if err != nil {
		t.Fatalf("tool %s error: %v", name, err)
	}
	return result
}

func resultText(r *mcp.CallToolResult) string {
	if len(r.Content) > 0 {
		if tc, ok := r.Content[0].(mcp.TextContent); ok {
			return tc.Text
		}
	}
	return ""
}

func TestScanComponents_Default(t *testing.T) {
	srv, _ := testServer(t, false)

	r := callTool(t, srv, "scan_components", map[string]any{})
	if r.IsError {
		t.Fatalf("unexpected error: %s", resultText(r))
	}
	var body map[string]json.RawMessage
	if err := json.Unmarshal([]byte(resultText(r)), &body); err != nil {
		t.Fatal(err)
	}
	if len(body) != 4 {
		t.Errorf("keys = %d, want 4 categories", len(body))
	}
}

func TestScanComponents_TypeAndScenarios(t *testing.T) {
	srv, _ := testServer(t, false)

	r := callTool(t, srv, "scan_components", map[string]any{"type": "agents", "scenarios": true})
	if r.IsError {
		t.Fatalf("unexpected error: %s", resultText(r))
	}
	var body struct {
		Agents    []models.Agent    `json:"agents"`
		Commands  []models.Command  `json:"commands"`
		Scenarios []models.Scenario `json:"scenarios"`
	}
	if err := json.Unmarshal([]byte(resultText(r)), &body); err != nil {
		t.Fatal(err)
	}
	if len(body.Agents) != 2 || body.Agents[0].Model != "opus" || body.Agents[1].Model != "sonnet" {
		t.Errorf("agents = %+v", body.Agents)
	}
	if body.Commands != nil {
		t.Errorf("commands should be omitted, got %+v", body.Commands)
	}
	// Scenarios derive from scanned commands only.
	if body.Scenarios == nil || len(body.Scenarios) != 0 {
		t.Errorf("scenarios = %+v, want empty list", body.Scenarios)
	}
}

func TestScanComponents_UnknownType(t *testing.T) {
	srv, _ := testServer(t, false)
	r := callTool(t, srv, "scan_components", map[string]any{"type": "plugins"})
	if !r.IsError {
		t.Error("expected error for unknown type")
	}
}

func TestGenerateScenarios(t *testing.T) {
	srv, _ := testServer(t, false)
	r := callTool(t, srv, "generate_scenarios", nil)
	text := resultText(r)
	if !strings.Contains(text, "Test /social") || !strings.Contains(text, "Test /youtube:social") {
		t.Errorf("result = %s", text)
	}
	if strings.Contains(text, "Test /plan") {
		t.Error("/plan should not produce a scenario")
	}
}

func TestReadComponent(t *testing.T) {
	srv, _ := testServer(t, false)

	r := callTool(t, srv, "read_component", map[string]any{"path": ".claude/workflows/launch.md"})
	if r.IsError || !strings.Contains(resultText(r), "Launch checklist") {
		t.Errorf("read result = %q", resultText(r))
	}

	r = callTool(t, srv, "read_component", map[string]any{"path": ".claude/skills/seo/scripts/audit.py"})
	if !r.IsError {
		t.Error("expected error for non-Markdown file")
	}

	r = callTool(t, srv, "read_component", map[string]any{"path": "../outside.md"})
	if !r.IsError {
		t.Error("expected error for traversal")
	}
}

func TestScanHistory(t *testing.T) {
	srv, _ := testServer(t, false)
	if r := callTool(t, srv, "scan_history", nil); !r.IsError {
		t.Error("expected error without catalog")
	}

	srv, svc := testServer(t, true)
	ctx := context.Background()
	res, err := svc.Scan(ctx, "all", false)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := svc.Record(ctx, res); err != nil {
		t.Fatal(err)
	}

	r := callTool(t, srv, "scan_history", map[string]any{"limit": 5})
	if r.IsError {
		t.Fatalf("unexpected error: %s", resultText(r))
	}
	var body struct {
		Scans []catalog.ScanRecord `json:"scans"`
	}
	if err := json.Unmarshal([]byte(resultText(r)), &body); err != nil {
		t.Fatal(err)
	}
	if len(body.Scans) != 1 || body.Scans[0].Total != 8 || body.Scans[0].Added != 8 {
		t.Errorf("scans = %+v", body.Scans)
	}
}

func TestComponentFormat(t *testing.T) {
	srv, _ := testServer(t, false)
	text := resultText(callTool(t, srv, "get_component_format", nil))
	if !strings.Contains(text, "argument-hint") {
		t.Errorf("format text missing argument-hint")
	}
	if !strings.Contains(text, "`name` (skills only") {
		t.Errorf("format text should limit name to skills:\n%s", text)
	}

	contents, err := srv.readFormatResource(context.Background(), mcp.ReadResourceRequest{})
	if err != nil {
		t.Fatal(err)
	}
	if tc, ok := contents[0].(mcp.TextResourceContents); !ok || tc.URI != FormatURI {
		t.Errorf("resource = %+v", contents)
	}
}
