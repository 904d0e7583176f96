package mcpserver

import (
	"context"
	"os"
	"strings"
	"testing"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/roseblade/memorylane/internal/index"
	"github.com/roseblade/memorylane/internal/mind"
	"github.com/roseblade/memorylane/internal/storage"
	"github.com/roseblade/memorylane/internal/vaultservice"
)

func testServer(t *testing.T) (*Server, *vaultservice.Service) {
	t.Helper()

	vaultDir := t.TempDir()
	store, err := storage.NewFS(vaultDir)
	if err != nil {
		t.Fatal(err)
	}

	dbFile, err := os.CreateTemp("", "memorylane-mcp-test-*.db")
	if err != nil {
		t.Fatal(err)
	}
	dbFile.Close()
	t.Cleanup(func() { os.Remove(dbFile.Name()) })

	db, err := index.Open(dbFile.Name())
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { db.Close() })

	svc := vaultservice.NewService(store, db, mind.New(mind.DefaultConfig()), "tester")
	srv := New(svc, store)
	return srv, svc
}

func callTool(t *testing.T, srv *Server, name string, args map[string]interface{}) *mcp.CallToolResult {
	t.Helper()
	ctx := context.Background()
	req := mcp.CallToolRequest{}
	req.Method = "tools/call"
	req.Params.Name = name
	req.Params.Arguments = args

	// mcp-go doesn't expose a direct "call tool" test helper, so the tool
	// handler functions are tested directly.
	var result *mcp.CallToolResult
	var err error

	switch name {
	case "search_entries":
		result, err = srv.searchEntries(ctx, req)
	case "read_note":
		result, err = srv.readNote(ctx, req)
	case "create_note":
		result, err = srv.createNote(ctx, req)
	case "write_entry":
		result, err = srv.writeEntry(ctx, req)
	case "list_notes":
		result, err = srv.listNotes(ctx, req)
	case "get_insight":
		result, err = srv.getInsight(ctx, req)
	case "vault_summary":
		result, err = srv.vaultSummary(ctx, req)
	case "get_entry_contract":
		result, err = srv.getEntryContract(ctx, req)
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

// createdID extracts the note id from a create_note result.
func createdID(t *testing.T, r *mcp.CallToolResult) string {
	t.Helper()
	text := resultText(r)
	if !strings.HasPrefix(text, "created: ") {
		t.Fatalf("create result = %q", text)
	}
	return strings.TrimPrefix(text, "created: ")
}

func TestCreateAndReadNote(t *testing.T) {
	srv, _ := testServer(t)

	r := callTool(t, srv, "create_note", map[string]interface{}{
		"title":   "Trip",
		"content": "We finally made it home. #travel",
		"tags":    "travel, family",
	})
	id := createdID(t, r)

	r = callTool(t, srv, "read_note", map[string]interface{}{"id": id})
	text := resultText(r)
	if !strings.Contains(text, `"title": "Trip"`) {
		t.Errorf("read result = %q", text)
	}
	if !strings.Contains(text, `"activeBranch": "main"`) {
		t.Errorf("read result missing branch data: %q", text)
	}
}

func TestWriteEntry(t *testing.T) {
	srv, svc := testServer(t)

	r := callTool(t, srv, "create_note", map[string]interface{}{"title": "Diary"})
	id := createdID(t, r)

	r = callTool(t, srv, "write_entry", map[string]interface{}{
		"id":      id,
		"content": "A quiet evening at home.",
		"message": "evening",
	})
	if r.IsError {
		t.Fatalf("write_entry failed: %q", resultText(r))
	}

	n, err := svc.GetNote(context.Background(), id)
	if err != nil {
		t.Fatal(err)
	}
	commits := n.Branches["main"].Commits
	if commits[len(commits)-1].Content != "A quiet evening at home." {
		t.Errorf("head content = %q", commits[len(commits)-1].Content)
	}
}

func TestListNotes(t *testing.T) {
	srv, _ := testServer(t)
	callTool(t, srv, "create_note", map[string]interface{}{"title": "a", "content": "x"})
	callTool(t, srv, "create_note", map[string]interface{}{"title": "b", "content": "y"})

	r := callTool(t, srv, "list_notes", map[string]interface{}{})
	text := resultText(r)
	if !strings.Contains(text, "a") || !strings.Contains(text, "b") {
		t.Errorf("list = %q", text)
	}
}

func TestReadNoteMissing(t *testing.T) {
	srv, _ := testServer(t)
	r := callTool(t, srv, "read_note", map[string]interface{}{"id": "nope"})
	if !r.IsError {
		t.Error("expected error for missing note")
	}
}

func TestGetInsight(t *testing.T) {
	srv, _ := testServer(t)
	r := callTool(t, srv, "create_note", map[string]interface{}{
		"title":   "Feelings",
		"content": "i love my beloved partner, cherish every moment",
	})
	id := createdID(t, r)

	r = callTool(t, srv, "get_insight", map[string]interface{}{"id": id})
	text := resultText(r)
	if !strings.Contains(text, "love") {
		t.Errorf("insight = %q", text)
	}
}

func TestVaultSummary(t *testing.T) {
	srv, _ := testServer(t)
	callTool(t, srv, "create_note", map[string]interface{}{"title": "a", "content": "happy day"})

	r := callTool(t, srv, "vault_summary", map[string]interface{}{})
	text := resultText(r)
	if !strings.Contains(text, "totalInferences") {
		t.Errorf("summary = %q", text)
	}
}

func TestGetEntryContract(t *testing.T) {
	srv, _ := testServer(t)
	r := callTool(t, srv, "get_entry_contract", map[string]interface{}{})
	if !strings.Contains(resultText(r), "Entry Format Contract") {
		t.Error("contract text missing")
	}
}
