package api

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/roseblade/memorylane/internal/apperr"
	"github.com/roseblade/memorylane/internal/vaultservice"
)

// Handler holds API route handlers.
type Handler struct {
	svc    *vaultservice.Service
	events Events
}

// NewHandler creates a new Handler. events may be nil.
func NewHandler(svc *vaultservice.Service, events Events) *Handler {
	return &Handler{svc: svc, events: events}
}

// ListNotes handles GET /api/notes.
//
//	@Summary		List notes with optional pagination and filtering
//	@Tags			notes
//	@Produce		json
//	@Param			limit	query		int		false	"Page size"
//	@Param			offset	query		int		false	"Page offset"
//	@Param			tag		query		string	false	"Filter by tag"
//	@Param			sort	query		string	false	"Sort field"	Enums(updated_at, title, mood)
//	@Success		200		{object}	NoteListResponse
//	@Security		BearerAuth
//	@Router			/notes [get]
func (h *Handler) ListNotes(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	limit, _ := strconv.Atoi(q.Get("limit"))
	offset, _ := strconv.Atoi(q.Get("offset"))
	tag := q.Get("tag")
	sort := q.Get("sort")

	items, total, err := h.svc.ListNotes(r.Context(), limit, offset, tag, sort)
	if err != nil {
		slog.Error("list notes failed", slog.String("error", err.Error()))
		writeJSON(w, http.StatusInternalServerError, errorBody("internal error"))
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"notes": items,
		"total": total,
	})
}

// GetNote handles GET /api/notes/{id}.
//
//	@Summary		Get a single note with its full branch history
//	@Tags			notes
//	@Produce		json
//	@Param			id	path		string	true	"Note id"
//	@Success		200	{object}	models.Note
//	@Failure		404	{object}	errResponse
//	@Security		BearerAuth
//	@Router			/notes/{id} [get]
func (h *Handler) GetNote(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	note, err := h.svc.GetNote(r.Context(), id)
	if err != nil {
		h.writeNoteError(w, "get note", id, err)
		return
	}
	writeJSON(w, http.StatusOK, note)
}

// CreateNote handles POST /api/notes.
//
//	@Summary		Create a new note, optionally committing its first entry
//	@Tags			notes
//	@Accept			json
//	@Produce		json
//	@Param			body	body		CreateNoteRequest	true	"Note to create"
//	@Success		201		{object}	models.Note
//	@Failure		400		{object}	errResponse
//	@Security		BearerAuth
//	@Router			/notes [post]
func (h *Handler) CreateNote(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, 10<<20)
	var req CreateNoteRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody("invalid JSON body"))
		return
	}
	if strings.TrimSpace(req.Title) == "" {
		writeJSON(w, http.StatusBadRequest, errorBody("title is required"))
		return
	}
	note, err := h.svc.CreateNote(r.Context(), req.Title, req.Type, req.Tags, req.Content, req.Message, req.Model)
	if err != nil {
		slog.Error("create note failed", slog.String("title", req.Title), slog.String("error", err.Error()))
		writeJSON(w, http.StatusInternalServerError, errorBody("internal error"))
		return
	}
	if h.events != nil {
		h.events.PublishNoteEvent("created", note.ID)
	}
	writeJSON(w, http.StatusCreated, note)
}

// SaveEntry handles POST /api/notes/{id}/commits.
//
//	@Summary		Commit a new entry snapshot with optimistic concurrency
//	@Tags			history
//	@Accept			json
//	@Produce		json
//	@Param			id			path	string				true	"Note id"
//	@Param			If-Match	header	string				false	"Document checksum for optimistic concurrency"
//	@Param			body		body	SaveEntryRequest	true	"Entry to commit"
//	@Success		200		{object}	models.Note
//	@Failure		404		{object}	errResponse
//	@Failure		409		{object}	errResponse
//	@Security		BearerAuth
//	@Router			/notes/{id}/commits [post]
func (h *Handler) SaveEntry(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, 10<<20)
	id := chi.URLParam(r, "id")

	var req SaveEntryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody("invalid JSON body"))
		return
	}

	ifMatch := strings.Trim(r.Header.Get("If-Match"), `"`)

	note, err := h.svc.SaveEntry(r.Context(), id, vaultservice.SaveRequest{
		Branch:  req.Branch,
		Content: req.Content,
		Message: req.Message,
		Model:   req.Model,
		Assets:  req.Assets,
		IfMatch: ifMatch,
	})
	if err != nil {
		switch {
		case errors.Is(err, apperr.ErrConflict):
			writeJSON(w, http.StatusConflict, errorBody("checksum mismatch"))
		default:
			h.writeNoteError(w, "save entry", id, err)
		}
		return
	}
	if h.events != nil {
		h.events.PublishCommitEvent(note.ID, note.ActiveBranch)
	}
	writeJSON(w, http.StatusOK, note)
}

// Head handles GET /api/notes/{id}/head.
//
//	@Summary		Get the head commit of a branch
//	@Tags			history
//	@Produce		json
//	@Param			id		path	string	true	"Note id"
//	@Param			branch	query	string	false	"Branch name (active branch when empty)"
//	@Success		200	{object}	models.Commit
//	@Failure		404	{object}	errResponse
//	@Security		BearerAuth
//	@Router			/notes/{id}/head [get]
func (h *Handler) Head(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	head, err := h.svc.Head(r.Context(), id, r.URL.Query().Get("branch"))
	if err != nil {
		h.writeNoteError(w, "head", id, err)
		return
	}
	writeJSON(w, http.StatusOK, head)
}

// ForkBranch handles POST /api/notes/{id}/branches.
//
//	@Summary		Fork the active branch under a new name
//	@Tags			history
//	@Accept			json
//	@Produce		json
//	@Param			id		path	string				true	"Note id"
//	@Param			body	body	ForkBranchRequest	true	"New branch name"
//	@Success		201	{object}	models.Note
//	@Failure		404	{object}	errResponse
//	@Failure		409	{object}	errResponse
//	@Security		BearerAuth
//	@Router			/notes/{id}/branches [post]
func (h *Handler) ForkBranch(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	var req ForkBranchRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody("invalid JSON body"))
		return
	}
	if req.Name == "" {
		writeJSON(w, http.StatusBadRequest, errorBody("name is required"))
		return
	}
	note, err := h.svc.ForkBranch(r.Context(), id, req.Name)
	if err != nil {
		if errors.Is(err, apperr.ErrBranchExists) {
			writeJSON(w, http.StatusConflict, errorBody("branch already exists"))
			return
		}
		h.writeNoteError(w, "fork branch", id, err)
		return
	}
	if h.events != nil {
		h.events.PublishNoteEvent("updated", note.ID)
	}
	writeJSON(w, http.StatusCreated, note)
}

// SwitchBranch handles PUT /api/notes/{id}/branch.
//
//	@Summary		Switch the active branch
//	@Tags			history
//	@Accept			json
//	@Produce		json
//	@Param			id		path	string				true	"Note id"
//	@Param			body	body	SwitchBranchRequest	true	"Branch to activate"
//	@Success		200	{object}	models.Note
//	@Failure		404	{object}	errResponse
//	@Security		BearerAuth
//	@Router			/notes/{id}/branch [put]
func (h *Handler) SwitchBranch(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	var req SwitchBranchRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody("invalid JSON body"))
		return
	}
	if req.Branch == "" {
		writeJSON(w, http.StatusBadRequest, errorBody("branch is required"))
		return
	}
	note, err := h.svc.SwitchBranch(r.Context(), id, req.Branch)
	if err != nil {
		h.writeNoteError(w, "switch branch", id, err)
		return
	}
	writeJSON(w, http.StatusOK, note)
}

// HierarchyMap handles GET /api/notes/{id}/map.
//
//	@Summary		Get the hierarchical map of a branch head
//	@Tags			views
//	@Produce		json
//	@Param			id		path	string	true	"Note id"
//	@Param			branch	query	string	false	"Branch name (active branch when empty)"
//	@Success		200	{object}	MapResponse
//	@Failure		404	{object}	errResponse
//	@Security		BearerAuth
//	@Router			/notes/{id}/map [get]
func (h *Handler) HierarchyMap(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	nodes, err := h.svc.HierarchyMap(r.Context(), id, r.URL.Query().Get("branch"))
	if err != nil {
		h.writeNoteError(w, "map", id, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"nodes": nodes})
}

// Insight handles GET /api/notes/{id}/insight.
//
//	@Summary		Get the synthesized report for a note
//	@Tags			views
//	@Produce		json
//	@Param			id	path	string	true	"Note id"
//	@Success		200	{object}	InsightResponse
//	@Failure		404	{object}	errResponse
//	@Security		BearerAuth
//	@Router			/notes/{id}/insight [get]
func (h *Handler) Insight(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	report, err := h.svc.Insight(r.Context(), id)
	if err != nil {
		h.writeNoteError(w, "insight", id, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"report": report})
}

// Classify handles POST /api/classify.
//
//	@Summary		Dry-run analysis of unsaved text
//	@Tags			views
//	@Accept			json
//	@Produce		json
//	@Param			body	body		ClassifyRequest	true	"Text to analyze"
//	@Success		200		{object}	vaultservice.Preview
//	@Failure		400		{object}	errResponse
//	@Security		BearerAuth
//	@Router			/classify [post]
func (h *Handler) Classify(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, 10<<20)
	var req ClassifyRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody("invalid JSON body"))
		return
	}
	writeJSON(w, http.StatusOK, h.svc.Classify(r.Context(), req.Content, req.Model))
}

// Intelligence handles GET /api/vault/intelligence.
//
//	@Summary		Get the vault-wide intelligence snapshot
//	@Tags			views
//	@Produce		json
//	@Success		200	{object}	models.GlobalIntelligence
//	@Security		BearerAuth
//	@Router			/vault/intelligence [get]
func (h *Handler) Intelligence(w http.ResponseWriter, r *http.Request) {
	gi, err := h.svc.Intelligence(r.Context())
	if err != nil {
		slog.Error("intelligence failed", slog.String("error", err.Error()))
		writeJSON(w, http.StatusInternalServerError, errorBody("internal error"))
		return
	}
	writeJSON(w, http.StatusOK, gi)
}

// DeleteNote handles DELETE /api/notes/{id}.
//
//	@Summary		Delete a note
//	@Tags			notes
//	@Param			id	path	string	true	"Note id"
//	@Success		204	"Note deleted"
//	@Failure		404	{object}	errResponse
//	@Security		BearerAuth
//	@Router			/notes/{id} [delete]
func (h *Handler) DeleteNote(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if err := h.svc.DeleteNote(r.Context(), id); err != nil {
		slog.Error("delete note failed", slog.String("id", id), slog.String("error", err.Error()))
		writeJSON(w, http.StatusNotFound, errorBody("not found"))
		return
	}
	if h.events != nil {
		h.events.PublishNoteEvent("deleted", id)
	}
	w.WriteHeader(http.StatusNoContent)
}

// Search handles GET /api/search.
//
//	@Summary		Full-text search across entry head text
//	@Tags			search
//	@Produce		json
//	@Param			q		query		string	true	"Search query"
//	@Param			limit	query		int		false	"Max results"
//	@Success		200		{object}	SearchResponse
//	@Failure		400		{object}	errResponse
//	@Security		BearerAuth
//	@Router			/search [get]
func (h *Handler) Search(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query().Get("q")
	if q == "" {
		writeJSON(w, http.StatusBadRequest, errorBody("query parameter 'q' is required"))
		return
	}
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	results, err := h.svc.Search(r.Context(), q, limit)
	if err != nil {
		slog.Error("search failed", slog.String("query", q), slog.String("error", err.Error()))
		writeJSON(w, http.StatusInternalServerError, errorBody("internal error"))
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"results": results,
	})
}

// writeNoteError maps service errors on a single note to status codes.
func (h *Handler) writeNoteError(w http.ResponseWriter, op, id string, err error) {
	switch {
	case errors.Is(err, apperr.ErrNotFound):
		writeJSON(w, http.StatusNotFound, errorBody("not found"))
	case errors.Is(err, apperr.ErrCorruptBranch):
		slog.Error(op+" failed", slog.String("id", id), slog.String("error", err.Error()))
		writeJSON(w, http.StatusInternalServerError, errorBody("corrupt branch"))
	default:
		slog.Error(op+" failed", slog.String("id", id), slog.String("error", err.Error()))
		writeJSON(w, http.StatusInternalServerError, errorBody("internal error"))
	}
}
