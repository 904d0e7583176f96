// Package models defines the domain types for MemoryLane.
package models

import (
	"encoding/json"
	"time"
)

// Note is a versioned journal document. Branches maps branch name to its
// line of commits; ActiveBranch must always be a key of Branches, and
// Branches is never empty.
type Note struct {
	ID           string            `json:"id"`
	Title        string            `json:"title"`
	Branches     map[string]Branch `json:"branches"`
	ActiveBranch string            `json:"activeBranch"`
	Tags         []string          `json:"tags"`
	Clusters     []string          `json:"clusters"`
	CreatedAt    time.Time         `json:"createdAt"`
	UpdatedAt    time.Time         `json:"updatedAt"`
	Type         string            `json:"type"`
	Config       NoteConfig        `json:"config"`
}

// NoteConfig carries per-note analysis preferences.
type NoteConfig struct {
	PreferredModel   string `json:"preferredModel"`
	RecommendedModel string `json:"recommendedModel"`
	Is3D             bool   `json:"is3D"`
}

// Branch is a named, append-only line of commits. Head is the id of a commit
// in Commits, usually the most recently appended one, though a fork may
// inherit an ancestor's head.
type Branch struct {
	Name    string   `json:"name"`
	Commits []Commit `json:"commits"`
	Head    string   `json:"head"`
}

// Commit is an immutable full-text snapshot of a note at save time.
// ParentID is the branch head at creation time, empty for a genesis commit.
// AutoMap holds the serialized hierarchical map; it is kept raw so a
// corrupted payload never poisons the whole document on load.
type Commit struct {
	ID        string          `json:"id"`
	Timestamp time.Time       `json:"timestamp"`
	Content   string          `json:"content"`
	Author    string          `json:"author"`
	Message   string          `json:"message"`
	ParentID  string          `json:"parentId"`
	Assets    []Asset         `json:"assets,omitempty"`
	Analysis  *Analysis       `json:"analysis,omitempty"`
	AutoMap   json.RawMessage `json:"autoMap,omitempty"`
}

// Asset is a media attachment owned by the commit that references it.
type Asset struct {
	ID   string `json:"id"`
	Kind string `json:"kind"` // image, video, audio, file
	Ref  string `json:"ref"`  // URL path to the stored bytes
	Name string `json:"name"`
}

// NoteMetadata is a lightweight representation returned by storage listings.
type NoteMetadata struct {
	ID        string    `json:"id"`
	Checksum  string    `json:"checksum"`
	UpdatedAt time.Time `json:"updated_at"`
}
