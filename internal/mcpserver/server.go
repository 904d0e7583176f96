// Package mcpserver provides an MCP (Model Context Protocol) server
// that exposes MemoryLane tools for LLM integration via stdio transport.
package mcpserver

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/roseblade/memorylane/internal/storage"
	"github.com/roseblade/memorylane/internal/vaultservice"
)

// Server wraps the MCP server with MemoryLane tools.
type Server struct {
	mcp   *server.MCPServer
	svc   *vaultservice.Service
	store storage.Provider
}

// New creates a new MCP server with all MemoryLane tools registered.
func New(svc *vaultservice.Service, store storage.Provider) *Server {
	s := &Server{svc: svc, store: store}

	s.mcp = server.NewMCPServer(
		"MemoryLane",
		"1.0.0",
		server.WithToolCapabilities(false),
		server.WithResourceCapabilities(false, false),
	)

	s.mcp.AddTool(mcp.NewTool("search_entries",
		mcp.WithDescription("Full-text search through journal entry text and note titles."),
		mcp.WithString("query", mcp.Required(), mcp.Description("Search query string")),
	), s.searchEntries)

	s.mcp.AddTool(mcp.NewTool("read_note",
		mcp.WithDescription("Read a note document with its full branch and commit history as JSON."),
		mcp.WithString("id", mcp.Required(), mcp.Description("Note id")),
	), s.readNote)

	s.mcp.AddTool(mcp.NewTool("create_note",
		mcp.WithDescription("Create a new journal note. When content is given the first entry "+
			"is committed and analyzed immediately. Entry text SHOULD follow the canonical "+
			"entry format. Read the contract first via the get_entry_contract tool or the "+
			"memorylane://entry-format resource."),
		mcp.WithString("title", mcp.Required(), mcp.Description("Human-readable note title")),
		mcp.WithString("content", mcp.Description("Optional first entry text")),
		mcp.WithString("tags", mcp.Description("Optional comma-separated tags")),
	), s.createNote)

	s.mcp.AddTool(mcp.NewTool("write_entry",
		mcp.WithDescription("Commit a new entry snapshot to a note branch. The text is "+
			"classified and the hierarchical map is rebuilt as part of the save."),
		mcp.WithString("id", mcp.Required(), mcp.Description("Note id")),
		mcp.WithString("content", mcp.Required(), mcp.Description("Entry text to commit")),
		mcp.WithString("branch", mcp.Description("Branch name (active branch when empty)")),
		mcp.WithString("message", mcp.Description("Commit message")),
	), s.writeEntry)

	s.mcp.AddTool(mcp.NewTool("get_entry_contract",
		mcp.WithDescription("Returns the canonical MemoryLane entry format contract. "+
			"Call this before creating notes or committing entries."),
	), s.getEntryContract)

	s.mcp.AddTool(mcp.NewTool("list_notes",
		mcp.WithDescription("List notes in the vault, optionally filtered by tag."),
		mcp.WithString("tag", mcp.Description("Optional tag to filter by (empty for all)")),
	), s.listNotes)

	s.mcp.AddTool(mcp.NewTool("get_insight",
		mcp.WithDescription("Get the synthesized emotional report for a single note."),
		mcp.WithString("id", mcp.Required(), mcp.Description("Note id")),
	), s.getInsight)

	s.mcp.AddTool(mcp.NewTool("vault_summary",
		mcp.WithDescription("Get the vault-wide intelligence snapshot: density, entropy, "+
			"dominant themes, health score, and model usage."),
	), s.vaultSummary)

	s.mcp.AddTool(mcp.NewTool("upload_asset",
		mcp.WithDescription("Download an image or document from a URL (or decode a data URI) "+
			"and store it in the vault's attachments directory for use in entries."),
		mcp.WithString("url", mcp.Required(), mcp.Description("HTTP(S) URL or base64 data URI")),
		mcp.WithString("filename", mcp.Description("Optional filename override")),
	), s.uploadAsset)

	// Resource: entry format contract.
	s.mcp.AddResource(
		mcp.NewResource("memorylane://entry-format", "Entry Format Contract",
			mcp.WithResourceDescription("Canonical journal entry format that committed entries should follow."),
			mcp.WithMIMEType("text/markdown"),
		),
		s.readEntryFormatResource,
	)

	return s
}

// ServeStdio starts the MCP server on stdin/stdout.
func (s *Server) ServeStdio() error {
	return server.ServeStdio(s.mcp)
}

// MCPServer returns the underlying server for testing.
func (s *Server) MCPServer() *server.MCPServer {
	return s.mcp
}

func (s *Server) searchEntries(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	query, err := req.RequireString("query")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	results, err := s.svc.Search(ctx, query, 20)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	out, _ := json.MarshalIndent(results, "", "  ")
	return mcp.NewToolResultText(string(out)), nil
}

func (s *Server) readNote(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id, err := req.RequireString("id")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	n, err := s.svc.GetNote(ctx, id)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("not found: %s", id)), nil
	}
	out, _ := json.MarshalIndent(n, "", "  ")
	return mcp.NewToolResultText(string(out)), nil
}

func (s *Server) createNote(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	title, err := req.RequireString("title")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	content := ""
	if v, cErr := req.RequireString("content"); cErr == nil {
		content = v
	}
	var tags []string
	if v, tErr := req.RequireString("tags"); tErr == nil && v != "" {
		for _, t := range strings.Split(v, ",") {
			if t = strings.TrimSpace(t); t != "" {
				tags = append(tags, t)
			}
		}
	}

	n, err := s.svc.CreateNote(ctx, title, "journal", tags, content, "initial entry", "")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return mcp.NewToolResultText(fmt.Sprintf("created: %s", n.ID)), nil
}

func (s *Server) writeEntry(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id, err := req.RequireString("id")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	content, err := req.RequireString("content")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	branch := ""
	if v, bErr := req.RequireString("branch"); bErr == nil {
		branch = v
	}
	message := ""
	if v, mErr := req.RequireString("message"); mErr == nil {
		message = v
	}

	n, err := s.svc.SaveEntry(ctx, id, vaultservice.SaveRequest{
		Branch:  branch,
		Content: content,
		Message: message,
	})
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return mcp.NewToolResultText(fmt.Sprintf("committed to %s@%s", n.ID, n.ActiveBranch)), nil
}

func (s *Server) listNotes(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	tag := ""
	if v, err := req.RequireString("tag"); err == nil {
		tag = v
	}

	items, _, err := s.svc.ListNotes(ctx, 0, 0, tag, "")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	var lines []string
	for _, it := range items {
		lines = append(lines, fmt.Sprintf("%s\t%s", it.ID, it.Title))
	}
	if len(lines) == 0 {
		return mcp.NewToolResultText("no notes found"), nil
	}
	return mcp.NewToolResultText(strings.Join(lines, "\n")), nil
}

func (s *Server) getInsight(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id, err := req.RequireString("id")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	report, err := s.svc.Insight(ctx, id)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return mcp.NewToolResultText(report), nil
}

func (s *Server) vaultSummary(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	gi, err := s.svc.Intelligence(ctx)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	out, _ := json.MarshalIndent(gi, "", "  ")
	return mcp.NewToolResultText(string(out)), nil
}

func (s *Server) getEntryContract(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return mcp.NewToolResultText(EntryFormatContract), nil
}

func (s *Server) readEntryFormatResource(ctx context.Context, req mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
	return []mcp.ResourceContents{
		mcp.TextResourceContents{
			URI:      "memorylane://entry-format",
			MIMEType: "text/markdown",
			Text:     EntryFormatContract,
		},
	}, nil
}
