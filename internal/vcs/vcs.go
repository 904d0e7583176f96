// Package vcs maintains the append-only commit history and branch pointers
// for a note. All operations are pure transformations: the input Note value
// and everything reachable from it are left untouched, and an updated copy
// is returned. The caller is responsible for serializing concurrent edits
// to the same note.
package vcs

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/roseblade/memorylane/internal/apperr"
	"github.com/roseblade/memorylane/internal/models"
)

// DefaultBranch is the branch every new note starts with.
const DefaultBranch = "main"

// CommitOption attaches optional data to a new commit.
type CommitOption func(*models.Commit)

// WithAuthor sets the commit author label.
func WithAuthor(author string) CommitOption {
	return func(c *models.Commit) { c.Author = author }
}

// WithAssets attaches media assets to the commit.
func WithAssets(assets []models.Asset) CommitOption {
	return func(c *models.Commit) { c.Assets = assets }
}

// WithAnalysis attaches a derived analysis to the commit.
func WithAnalysis(a *models.Analysis) CommitOption {
	return func(c *models.Commit) { c.Analysis = a }
}

// WithAutoMap attaches a serialized hierarchical map to the commit.
func WithAutoMap(raw json.RawMessage) CommitOption {
	return func(c *models.Commit) { c.AutoMap = raw }
}

// NewNote creates a note with a main branch holding a single genesis commit.
func NewNote(title, noteType string, tags []string) models.Note {
	now := time.Now().UTC()
	genesis := models.Commit{
		ID:        uuid.New().String(),
		Timestamp: now,
		Message:   "genesis",
	}
	if noteType == "" {
		noteType = "journal"
	}
	if tags == nil {
		tags = []string{}
	}
	return models.Note{
		ID:    uuid.New().String(),
		Title: title,
		Branches: map[string]models.Branch{
			DefaultBranch: {
				Name:    DefaultBranch,
				Commits: []models.Commit{genesis},
				Head:    genesis.ID,
			},
		},
		ActiveBranch: DefaultBranch,
		Tags:         tags,
		Clusters:     []string{},
		CreatedAt:    now,
		UpdatedAt:    now,
		Type:         noteType,
	}
}

// Commit appends a new snapshot to the named branch (the active branch when
// branch is empty). The new commit's parent is the branch's current head, and
// the head pointer advances to the new commit. Empty text is permitted and
// produces an empty-content commit.
func Commit(n models.Note, branch, text, message string, opts ...CommitOption) (models.Note, error) {
	if branch == "" {
		branch = n.ActiveBranch
	}
	b, ok := n.Branches[branch]
	if !ok {
		return n, fmt.Errorf("vcs: commit to %q: %w", branch, apperr.ErrNotFound)
	}

	c := models.Commit{
		ID:        uuid.New().String(),
		Timestamp: time.Now().UTC(),
		Content:   text,
		Message:   message,
		ParentID:  b.Head,
	}
	for _, opt := range opts {
		opt(&c)
	}

	// Copy-on-write: the old commit list must stay intact.
	commits := make([]models.Commit, len(b.Commits), len(b.Commits)+1)
	copy(commits, b.Commits)
	b.Commits = append(commits, c)
	b.Head = c.ID

	branches := cloneBranches(n.Branches)
	branches[branch] = b
	n.Branches = branches
	n.UpdatedAt = c.Timestamp
	return n, nil
}

// ForkBranch snapshots the active branch's commit list and head into a new
// branch and switches the note to it. The copy is independent: later commits
// to either branch never affect the other. A duplicate name is rejected with
// no mutation.
func ForkBranch(n models.Note, newName string) (models.Note, error) {
	if newName == "" {
		return n, fmt.Errorf("vcs: fork: branch name is required")
	}
	if _, exists := n.Branches[newName]; exists {
		return n, fmt.Errorf("vcs: fork %q: %w", newName, apperr.ErrBranchExists)
	}
	src, ok := n.Branches[n.ActiveBranch]
	if !ok {
		return n, fmt.Errorf("vcs: fork: active branch %q: %w", n.ActiveBranch, apperr.ErrCorruptBranch)
	}

	commits := make([]models.Commit, len(src.Commits))
	copy(commits, src.Commits)

	branches := cloneBranches(n.Branches)
	branches[newName] = models.Branch{
		Name:    newName,
		Commits: commits,
		Head:    src.Head,
	}
	n.Branches = branches
	n.ActiveBranch = newName
	n.UpdatedAt = time.Now().UTC()
	return n, nil
}

// SwitchBranch changes the active branch to an existing one.
func SwitchBranch(n models.Note, name string) (models.Note, error) {
	if _, ok := n.Branches[name]; !ok {
		return n, fmt.Errorf("vcs: switch to %q: %w", name, apperr.ErrNotFound)
	}
	n.ActiveBranch = name
	n.UpdatedAt = time.Now().UTC()
	return n, nil
}

// HeadCommit returns the commit the named branch's head points to.
// An empty branch or a dangling head pointer is reported as a corrupt branch
// rather than left as undefined behavior.
func HeadCommit(n models.Note, branch string) (models.Commit, error) {
	if branch == "" {
		branch = n.ActiveBranch
	}
	b, ok := n.Branches[branch]
	if !ok {
		return models.Commit{}, fmt.Errorf("vcs: head of %q: %w", branch, apperr.ErrNotFound)
	}
	if len(b.Commits) == 0 {
		return models.Commit{}, fmt.Errorf("vcs: head of %q: empty branch: %w", branch, apperr.ErrCorruptBranch)
	}
	for i := len(b.Commits) - 1; i >= 0; i-- {
		if b.Commits[i].ID == b.Head {
			return b.Commits[i], nil
		}
	}
	return models.Commit{}, fmt.Errorf("vcs: head of %q: dangling head %s: %w", branch, b.Head, apperr.ErrCorruptBranch)
}

// Validate checks the structural invariants of a note, typically after
// loading it from storage: the active branch exists, every head resolves,
// and every parent chain terminates without cycles.
func Validate(n models.Note) error {
	if len(n.Branches) == 0 {
		return fmt.Errorf("vcs: note %s has no branches: %w", n.ID, apperr.ErrCorruptBranch)
	}
	if _, ok := n.Branches[n.ActiveBranch]; !ok {
		return fmt.Errorf("vcs: note %s: active branch %q missing: %w", n.ID, n.ActiveBranch, apperr.ErrCorruptBranch)
	}
	for name, b := range n.Branches {
		byID := make(map[string]models.Commit, len(b.Commits))
		for _, c := range b.Commits {
			byID[c.ID] = c
		}
		if _, ok := byID[b.Head]; !ok {
			return fmt.Errorf("vcs: branch %q: head %s not in commit list: %w", name, b.Head, apperr.ErrCorruptBranch)
		}
		for _, c := range b.Commits {
			seen := map[string]struct{}{c.ID: {}}
			cur := c
			for cur.ParentID != "" {
				next, ok := byID[cur.ParentID]
				if !ok {
					// Parent lives on the branch this one was forked from.
					break
				}
				if _, cycle := seen[next.ID]; cycle {
					return fmt.Errorf("vcs: branch %q: parent cycle at %s: %w", name, next.ID, apperr.ErrCorruptBranch)
				}
				seen[next.ID] = struct{}{}
				cur = next
			}
		}
	}
	return nil
}

func cloneBranches(src map[string]models.Branch) map[string]models.Branch {
	dst := make(map[string]models.Branch, len(src)+1)
	for k, v := range src {
		dst[k] = v
	}
	return dst
}
