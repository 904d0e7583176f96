package index

import (
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/roseblade/memorylane/internal/checksum"
	"github.com/roseblade/memorylane/internal/models"
	"github.com/roseblade/memorylane/internal/storage"
	"github.com/roseblade/memorylane/internal/vcs"
)

// Sync walks the vault and brings the index up to date:
//   - new/changed documents are decoded and upserted
//   - documents removed from disk are deleted from the index
//
// A document that fails to decode is skipped with a warning; a corrupt file
// must never take the index down.
func Sync(db *DB, store storage.Provider, logger *slog.Logger) error {
	metas, err := store.List("")
	if err != nil {
		return err
	}

	checksums, err := db.AllChecksums()
	if err != nil {
		return err
	}

	disk := make(map[string]struct{}, len(metas))
	for _, m := range metas {
		disk[m.ID] = struct{}{}

		if checksums[m.ID] == m.Checksum {
			continue
		}

		data, err := store.Read(storage.DocPath(m.ID))
		if err != nil {
			logger.Warn("sync: read failed", slog.String("id", m.ID), slog.String("error", err.Error()))
			continue
		}
		if err := IndexDocument(db, m.ID, data); err != nil {
			logger.Warn("sync: index failed", slog.String("id", m.ID), slog.String("error", err.Error()))
		} else {
			logger.Debug("sync: indexed", slog.String("id", m.ID))
		}
	}

	// Remove stale entries.
	for id := range checksums {
		if _, ok := disk[id]; !ok {
			if err := db.DeleteNote(id); err != nil {
				logger.Warn("sync: delete failed", slog.String("id", id), slog.String("error", err.Error()))
			} else {
				logger.Debug("sync: removed stale", slog.String("id", id))
			}
		}
	}

	return nil
}

// IndexDocument decodes a raw note document and upserts its head state.
// Exported so that the save pipeline and watcher share one code path.
func IndexDocument(db *DB, id string, data []byte) error {
	var n models.Note
	if err := json.Unmarshal(data, &n); err != nil {
		return fmt.Errorf("index: decode note %s: %w", id, err)
	}

	row := NoteRow{
		ID:        id,
		Title:     n.Title,
		Tags:      n.Tags,
		Clusters:  n.Clusters,
		Checksum:  checksum.Sum(data),
		UpdatedAt: n.UpdatedAt,
	}
	body := ""
	if head, err := vcs.HeadCommit(n, n.ActiveBranch); err == nil {
		body = head.Content
		if head.Analysis != nil {
			row.Sentiment = head.Analysis.Sentiment
			row.Model = head.Analysis.Model
			if len(head.Analysis.Emotions) > 0 {
				row.Mood = head.Analysis.Emotions[0].Impact
				if row.Sentiment == "negative" {
					row.Mood = -row.Mood
				}
			}
		}
	}
	return db.UpsertNote(row, body)
}
