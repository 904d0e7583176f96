package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/roseblade/memorylane/internal/vaultservice"
)

// Events receives change notifications from handlers. Satisfied by
// *sse.Broker; nil disables publishing.
type Events interface {
	PublishNoteEvent(kind, noteID string)
	PublishCommitEvent(noteID, branch string)
}

// NewRouter creates a chi router with all API routes mounted.
// authEnabled controls whether Bearer token auth is enforced.
// events, if non-nil, receives note/commit change notifications.
// sseHandler, if non-nil, is mounted at GET /events inside the auth group.
// vaultRoot is used to resolve the attachments directory.
func NewRouter(svc *vaultservice.Service, authEnabled bool, token string, events Events, sseHandler http.Handler, vaultRoot string) chi.Router {
	h := NewHandler(svc, events)
	ah := NewAttachmentHandler(vaultRoot)

	r := chi.NewRouter()
	r.Use(AuthMiddleware(authEnabled, token))

	// Notes.
	r.Get("/notes", h.ListNotes)
	r.Post("/notes", h.CreateNote)
	r.Get("/notes/{id}", h.GetNote)
	r.Delete("/notes/{id}", h.DeleteNote)

	// Version history.
	r.Post("/notes/{id}/commits", h.SaveEntry)
	r.Get("/notes/{id}/head", h.Head)
	r.Post("/notes/{id}/branches", h.ForkBranch)
	r.Put("/notes/{id}/branch", h.SwitchBranch)

	// Derived views.
	r.Get("/notes/{id}/map", h.HierarchyMap)
	r.Get("/notes/{id}/insight", h.Insight)
	r.Post("/classify", h.Classify)
	r.Get("/vault/intelligence", h.Intelligence)

	// Search.
	r.Get("/search", h.Search)

	// Attachments upload (auth-protected).
	r.Post("/attachments", ah.Upload)

	// SSE endpoint (protected by same auth middleware).
	if sseHandler != nil {
		r.Get("/events", sseHandler.ServeHTTP)
	}

	return r
}
