// Package storage defines the vault file-system abstraction. Note documents
// are JSON files named <id>.json at the vault root; binary attachments live
// under attachments/.
package storage

import "github.com/roseblade/memorylane/internal/models"

// Provider is the interface for vault file operations.
type Provider interface {
	// List returns metadata for every note document under dir (relative to
	// the vault root).
	List(dir string) ([]models.NoteMetadata, error)
	// Read returns the raw bytes of the file at path (relative to vault root).
	Read(path string) ([]byte, error)
	// Write atomically writes content to path (relative to vault root) and
	// reports any failure to the caller.
	Write(path string, content []byte) error
	// Delete removes the file at path (relative to vault root).
	Delete(path string) error
}

// DocPath maps a note id to its document path within the vault.
func DocPath(id string) string {
	return id + docExt
}
