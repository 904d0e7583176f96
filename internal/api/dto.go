package api

import (
	"github.com/roseblade/memorylane/internal/models"
	"github.com/roseblade/memorylane/internal/vaultservice"
)

// CreateNoteRequest is the request body for creating a note. Content is
// optional; when present the first entry is committed immediately.
type CreateNoteRequest struct {
	Title   string   `json:"title" example:"First day back" validate:"required"`
	Type    string   `json:"type" example:"journal"`
	Tags    []string `json:"tags" example:"travel,family"`
	Content string   `json:"content" example:"We finally made it home."`
	Message string   `json:"message" example:"initial entry"`
	Model   string   `json:"model" example:"mood-core"`
}

// SaveEntryRequest is the request body for committing a new entry snapshot.
type SaveEntryRequest struct {
	Branch  string         `json:"branch" example:"main"`
	Content string         `json:"content" example:"Today was quieter."`
	Message string         `json:"message" example:"evening update"`
	Model   string         `json:"model" example:"mood-mini"`
	Assets  []models.Asset `json:"assets,omitempty"`
}

// ForkBranchRequest is the request body for forking the active branch.
type ForkBranchRequest struct {
	Name string `json:"name" example:"what-if" validate:"required"`
}

// SwitchBranchRequest is the request body for switching the active branch.
type SwitchBranchRequest struct {
	Branch string `json:"branch" example:"main" validate:"required"`
}

// ClassifyRequest is the request body for a dry-run analysis.
type ClassifyRequest struct {
	Content string `json:"content" example:"I love this" validate:"required"`
	Model   string `json:"model" example:"mood-deep"`
}

// NoteListItem is a lightweight item in a list response (aliased from the domain layer).
type NoteListItem = vaultservice.NoteListItem

// NoteListResponse wraps paginated note listings.
type NoteListResponse struct {
	Notes []NoteListItem `json:"notes" validate:"required"`
	Total int            `json:"total" example:"42" validate:"required"`
}

// SearchResult is a single search hit in the API response.
type SearchResult struct {
	ID      string `json:"id" example:"9f0b...e2" validate:"required"`
	Title   string `json:"title" example:"First day back" validate:"required"`
	Snippet string `json:"snippet" example:"...matched text..." validate:"required"`
}

// SearchResponse wraps search results.
type SearchResponse struct {
	Results []SearchResult `json:"results" validate:"required"`
}

// MapResponse wraps the hierarchical map of a branch head.
type MapResponse struct {
	Nodes []models.MapNode `json:"nodes" validate:"required"`
}

// InsightResponse wraps the synthesized report of a note.
type InsightResponse struct {
	Report string `json:"report" validate:"required"`
}

// AttachmentUploadResponse is returned after a successful attachment upload.
type AttachmentUploadResponse struct {
	Asset models.Asset `json:"asset" validate:"required"`
	Size  int64        `json:"size" example:"12345" validate:"required"`
	URL   string       `json:"url" example:"/attachments/image.png" validate:"required"`
}
