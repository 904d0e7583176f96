// Package vaultservice coordinates storage, index, version store, and
// analysis engine: one save pipeline from raw text to a persisted, indexed,
// analyzed commit.
package vaultservice

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/roseblade/memorylane/internal/apperr"
	"github.com/roseblade/memorylane/internal/checksum"
	"github.com/roseblade/memorylane/internal/index"
	"github.com/roseblade/memorylane/internal/mind"
	"github.com/roseblade/memorylane/internal/models"
	"github.com/roseblade/memorylane/internal/storage"
	"github.com/roseblade/memorylane/internal/vcs"
)

// Max cluster labels kept per note, derived from the head analysis.
const maxClusters = 3

// NoteListItem is a lightweight item in a list response.
type NoteListItem struct {
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	Sentiment string    `json:"sentiment"`
	Mood      float64   `json:"mood"`
	Tags      []string  `json:"tags"`
	Clusters  []string  `json:"clusters"`
	Checksum  string    `json:"checksum"`
	UpdatedAt time.Time `json:"updated_at"`
}

// SaveRequest is the input for committing a new entry snapshot.
type SaveRequest struct {
	Branch  string
	Content string
	Message string
	Model   string
	Assets  []models.Asset
	IfMatch string // optional checksum for optimistic concurrency
}

// Preview is a dry-run classification of text that has not been saved.
type Preview struct {
	Analysis    models.Analysis `json:"analysis"`
	Recommended string          `json:"recommended"`
}

// Service coordinates storage, index, and engine operations.
type Service struct {
	store  storage.Provider
	db     *index.DB
	mind   *mind.Engine
	author string
}

// NewService creates a new vault service. author is the label stamped on
// commits created through this service.
func NewService(store storage.Provider, db *index.DB, engine *mind.Engine, author string) *Service {
	if author == "" {
		author = "you"
	}
	return &Service{store: store, db: db, mind: engine, author: author}
}

// GetNote loads and validates a single note document.
func (s *Service) GetNote(_ context.Context, id string) (*models.Note, error) {
	return s.load(id)
}

// CreateNote creates a note and, when text is provided, runs the full save
// pipeline for its first real commit.
func (s *Service) CreateNote(ctx context.Context, title, noteType string, tags []string, text, message, model string) (*models.Note, error) {
	n := vcs.NewNote(title, noteType, tags)
	if text != "" {
		saved, err := s.commit(n, SaveRequest{Content: text, Message: message, Model: model})
		if err != nil {
			return nil, err
		}
		return saved, nil
	}
	n.Config.RecommendedModel = s.mind.Recommend("")
	if err := s.persist(&n); err != nil {
		return nil, err
	}
	return &n, nil
}

// SaveEntry appends a new commit to a branch of an existing note: classify,
// build the hierarchical map, commit, persist, re-index. With a non-empty
// IfMatch the stored document checksum must still match or the save is
// rejected with a conflict.
func (s *Service) SaveEntry(_ context.Context, id string, req SaveRequest) (*models.Note, error) {
	data, err := s.read(id)
	if err != nil {
		return nil, err
	}
	if req.IfMatch != "" && req.IfMatch != checksum.Sum(data) {
		return nil, apperr.ErrConflict
	}
	n, err := decode(id, data)
	if err != nil {
		return nil, err
	}
	return s.commit(*n, req)
}

// commit runs the derived-data pipeline and appends the commit.
func (s *Service) commit(n models.Note, req SaveRequest) (*models.Note, error) {
	model := req.Model
	if model == "" {
		model = s.mind.Recommend(req.Content)
	}
	analysis := s.mind.Classify(req.Content, model)
	autoMap, err := json.Marshal(s.mind.BuildHierarchy(n.Title, req.Content, req.Assets))
	if err != nil {
		return nil, fmt.Errorf("vaultservice: encode map: %w", err)
	}

	updated, err := vcs.Commit(n, req.Branch, req.Content, req.Message,
		vcs.WithAuthor(s.author),
		vcs.WithAssets(req.Assets),
		vcs.WithAnalysis(&analysis),
		vcs.WithAutoMap(autoMap),
	)
	if err != nil {
		return nil, err
	}

	updated.Clusters = clusterLabels(analysis)
	updated.Config.PreferredModel = model
	updated.Config.RecommendedModel = s.mind.Recommend(req.Content)

	if err := s.persist(&updated); err != nil {
		return nil, err
	}
	return &updated, nil
}

// ForkBranch snapshots the active branch under a new name. A duplicate name
// leaves the note unchanged and returns a branch-exists error.
func (s *Service) ForkBranch(_ context.Context, id, name string) (*models.Note, error) {
	n, err := s.load(id)
	if err != nil {
		return nil, err
	}
	forked, err := vcs.ForkBranch(*n, name)
	if err != nil {
		return nil, err
	}
	if err := s.persist(&forked); err != nil {
		return nil, err
	}
	return &forked, nil
}

// SwitchBranch changes the note's active branch.
func (s *Service) SwitchBranch(_ context.Context, id, name string) (*models.Note, error) {
	n, err := s.load(id)
	if err != nil {
		return nil, err
	}
	switched, err := vcs.SwitchBranch(*n, name)
	if err != nil {
		return nil, err
	}
	if err := s.persist(&switched); err != nil {
		return nil, err
	}
	return &switched, nil
}

// Head returns the head commit of the named branch (active branch when
// branch is empty).
func (s *Service) Head(_ context.Context, id, branch string) (*models.Commit, error) {
	n, err := s.load(id)
	if err != nil {
		return nil, err
	}
	head, err := vcs.HeadCommit(*n, branch)
	if err != nil {
		return nil, err
	}
	return &head, nil
}

// HierarchyMap returns the stored hierarchical map of the branch head,
// failing closed to a default tree when the stored payload is malformed.
// A head without a stored map gets one built on the fly.
func (s *Service) HierarchyMap(ctx context.Context, id, branch string) ([]models.MapNode, error) {
	n, err := s.load(id)
	if err != nil {
		return nil, err
	}
	head, err := vcs.HeadCommit(*n, branch)
	if err != nil {
		return nil, err
	}
	if len(head.AutoMap) == 0 && head.Content != "" {
		return s.mind.BuildHierarchy(n.Title, head.Content, head.Assets), nil
	}
	return mind.DecodeMap(head.AutoMap), nil
}

// Insight returns the synthesized natural-language report for a note.
func (s *Service) Insight(_ context.Context, id string) (string, error) {
	n, err := s.load(id)
	if err != nil {
		return "", err
	}
	return s.mind.Synthesize(*n), nil
}

// Classify runs a dry-run analysis for text that has not been saved yet.
func (s *Service) Classify(_ context.Context, text, model string) Preview {
	return Preview{
		Analysis:    s.mind.Classify(text, model),
		Recommended: s.mind.Recommend(text),
	}
}

// Intelligence recomputes the vault-wide aggregate from every readable note.
// Unreadable or corrupt documents are skipped, never fatal.
func (s *Service) Intelligence(_ context.Context) (models.GlobalIntelligence, error) {
	metas, err := s.store.List("")
	if err != nil {
		return models.GlobalIntelligence{}, err
	}
	notes := make([]models.Note, 0, len(metas))
	for _, m := range metas {
		data, err := s.store.Read(storage.DocPath(m.ID))
		if err != nil {
			continue
		}
		n, err := decode(m.ID, data)
		if err != nil {
			continue
		}
		notes = append(notes, *n)
	}
	return s.mind.AggregateVault(notes), nil
}

// DeleteNote removes a note document and its index entry.
func (s *Service) DeleteNote(_ context.Context, id string) error {
	if err := s.store.Delete(storage.DocPath(id)); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return apperr.ErrNotFound
		}
		return err
	}
	return s.db.DeleteNote(id)
}

// ListNotes returns paginated notes with optional tag filter.
func (s *Service) ListNotes(_ context.Context, limit, offset int, tag, sort string) ([]NoteListItem, int, error) {
	rows, total, err := s.db.ListNotes(limit, offset, tag, sort)
	if err != nil {
		return nil, 0, err
	}
	items := make([]NoteListItem, len(rows))
	for i, r := range rows {
		items[i] = NoteListItem{
			ID:        r.ID,
			Title:     r.Title,
			Sentiment: r.Sentiment,
			Mood:      r.Mood,
			Tags:      nonNilSlice(r.Tags),
			Clusters:  nonNilSlice(r.Clusters),
			Checksum:  r.Checksum,
			UpdatedAt: r.UpdatedAt,
		}
	}
	return items, total, nil
}

// Search delegates full-text search to the index.
func (s *Service) Search(_ context.Context, query string, limit int) ([]index.SearchResult, error) {
	return s.db.Search(query, limit)
}

// Checksum returns the current checksum of a stored note document, used as
// the ETag for optimistic concurrency.
func (s *Service) Checksum(_ context.Context, id string) (string, error) {
	data, err := s.read(id)
	if err != nil {
		return "", err
	}
	return checksum.Sum(data), nil
}

func (s *Service) read(id string) ([]byte, error) {
	data, err := s.store.Read(storage.DocPath(id))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, apperr.ErrNotFound
		}
		return nil, err
	}
	return data, nil
}

func (s *Service) load(id string) (*models.Note, error) {
	data, err := s.read(id)
	if err != nil {
		return nil, err
	}
	return decode(id, data)
}

// persist writes the note document and re-indexes it. A storage failure is
// returned to the caller so in-memory and persisted state never diverge
// silently.
func (s *Service) persist(n *models.Note) error {
	data, err := json.Marshal(n)
	if err != nil {
		return fmt.Errorf("vaultservice: encode note %s: %w", n.ID, err)
	}
	if err := s.store.Write(storage.DocPath(n.ID), data); err != nil {
		return err
	}
	return index.IndexDocument(s.db, n.ID, data)
}

func decode(id string, data []byte) (*models.Note, error) {
	var n models.Note
	if err := json.Unmarshal(data, &n); err != nil {
		return nil, fmt.Errorf("vaultservice: decode note %s: %w", id, err)
	}
	if err := vcs.Validate(n); err != nil {
		return nil, err
	}
	return &n, nil
}

// clusterLabels derives the note's cluster-label list from its most recent
// analysis: the strongest non-neutral categories, at most maxClusters.
func clusterLabels(a models.Analysis) []string {
	out := []string{}
	for _, e := range a.Emotions {
		if e.Label == mind.NeutralLabel {
			continue
		}
		out = append(out, e.Label)
		if len(out) == maxClusters {
			break
		}
	}
	return out
}

func nonNilSlice[T any](s []T) []T {
	if s == nil {
		return []T{}
	}
	return s
}
