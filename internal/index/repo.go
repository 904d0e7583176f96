package index

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"
)

// NoteRow represents a row in the notes table: the head-commit state of one
// note as seen by list and aggregate queries.
type NoteRow struct {
	ID        string
	Title     string
	Sentiment string
	Mood      float64
	Model     string
	Tags      []string
	Clusters  []string
	Checksum  string
	UpdatedAt time.Time
}

// SearchResult represents one search hit.
type SearchResult struct {
	ID      string
	Title   string
	Snippet string
}

// UpsertNote inserts or replaces a note row, its FTS entry, and its cluster
// labels within a transaction.
func (db *DB) UpsertNote(n NoteRow, body string) error {
	tx, err := db.conn.Begin()
	if err != nil {
		return fmt.Errorf("index: begin tx: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck // best-effort on failure path

	tagsJSON, _ := json.Marshal(n.Tags)

	// Upsert notes table (includes body for fallback search).
	_, err = tx.Exec(`
		INSERT INTO notes (id, title, sentiment, mood, model, tags, checksum, body, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			title      = excluded.title,
			sentiment  = excluded.sentiment,
			mood       = excluded.mood,
			model      = excluded.model,
			tags       = excluded.tags,
			checksum   = excluded.checksum,
			body       = excluded.body,
			updated_at = excluded.updated_at
	`, n.ID, n.Title, n.Sentiment, n.Mood, n.Model, string(tagsJSON), n.Checksum, body, n.UpdatedAt)
	if err != nil {
		return fmt.Errorf("index: upsert note: %w", err)
	}

	// FTS upsert (no-op when the FTS5 tag is absent).
	if err := ftsUpsert(tx, n.ID, n.Title, body, n.Tags); err != nil {
		return err
	}

	// Replace cluster labels: delete old then bulk insert.
	_, _ = tx.Exec(`DELETE FROM clusters WHERE note_id = ?`, n.ID)
	if len(n.Clusters) > 0 {
		stmt, err := tx.Prepare(`INSERT OR IGNORE INTO clusters (note_id, label) VALUES (?, ?)`)
		if err != nil {
			return fmt.Errorf("index: prepare cluster insert: %w", err)
		}
		defer stmt.Close()
		for _, label := range n.Clusters {
			if _, err := stmt.Exec(n.ID, label); err != nil {
				return fmt.Errorf("index: insert cluster: %w", err)
			}
		}
	}

	return tx.Commit()
}

// DeleteNote removes a note row, its FTS entry, and its cluster labels.
func (db *DB) DeleteNote(id string) error {
	tx, err := db.conn.Begin()
	if err != nil {
		return fmt.Errorf("index: begin tx: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck

	ftsDelete(tx, id)
	_, _ = tx.Exec(`DELETE FROM clusters WHERE note_id = ?`, id)
	_, _ = tx.Exec(`DELETE FROM notes WHERE id = ?`, id)

	return tx.Commit()
}

// GetChecksum returns the stored checksum for a note, or empty string if not found.
func (db *DB) GetChecksum(id string) (string, error) {
	var cs string
	err := db.conn.QueryRow(`SELECT checksum FROM notes WHERE id = ?`, id).Scan(&cs)
	if err != nil {
		return "", nil // not found is fine
	}
	return cs, nil
}

// AllChecksums returns every indexed note id mapped to its checksum.
func (db *DB) AllChecksums() (map[string]string, error) {
	rows, err := db.conn.Query(`SELECT id, checksum FROM notes`)
	if err != nil {
		return nil, fmt.Errorf("index: all checksums: %w", err)
	}
	defer rows.Close()
	out := make(map[string]string)
	for rows.Next() {
		var id, cs string
		if err := rows.Scan(&id, &cs); err != nil {
			return nil, err
		}
		out[id] = cs
	}
	return out, rows.Err()
}

// ListNotes returns paginated note rows with an optional tag filter.
// sort accepts "updated_at" (default, newest first), "title", and "mood".
func (db *DB) ListNotes(limit, offset int, tag, sort string) ([]NoteRow, int, error) {
	if limit <= 0 {
		limit = 50
	}
	if offset < 0 {
		offset = 0
	}

	where := ""
	args := []any{}
	if tag != "" {
		where = `WHERE n.tags LIKE ?`
		args = append(args, `%"`+tag+`"%`)
	}

	var total int
	countQuery := `SELECT count(*) FROM notes n ` + where
	if err := db.conn.QueryRow(countQuery, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("index: count notes: %w", err)
	}

	order := `n.updated_at DESC`
	switch sort {
	case "title":
		order = `n.title ASC`
	case "mood":
		order = `n.mood DESC`
	}

	query := `
		SELECT n.id, n.title, n.sentiment, n.mood, n.model, n.tags, n.checksum, n.updated_at,
		       COALESCE(group_concat(c.label, ','), '')
		FROM notes n
		LEFT JOIN clusters c ON c.note_id = n.id
		` + where + `
		GROUP BY n.id
		ORDER BY ` + order + `
		LIMIT ? OFFSET ?`
	args = append(args, limit, offset)

	rows, err := db.conn.Query(query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("index: list notes: %w", err)
	}
	defer rows.Close()

	var out []NoteRow
	for rows.Next() {
		var r NoteRow
		var tagsJSON, clusterCSV string
		if err := rows.Scan(&r.ID, &r.Title, &r.Sentiment, &r.Mood, &r.Model, &tagsJSON, &r.Checksum, &r.UpdatedAt, &clusterCSV); err != nil {
			return nil, 0, err
		}
		_ = json.Unmarshal([]byte(tagsJSON), &r.Tags)
		if clusterCSV != "" {
			r.Clusters = strings.Split(clusterCSV, ",")
		}
		out = append(out, r)
	}
	return out, total, rows.Err()
}

// ClusterCounts returns the vault-wide label histogram.
func (db *DB) ClusterCounts() (map[string]int, error) {
	rows, err := db.conn.Query(`SELECT label, count(*) FROM clusters GROUP BY label`)
	if err != nil {
		return nil, fmt.Errorf("index: cluster counts: %w", err)
	}
	defer rows.Close()

	out := make(map[string]int)
	for rows.Next() {
		var label string
		var count int
		if err := rows.Scan(&label, &count); err != nil {
			return nil, err
		}
		out[label] = count
	}
	return out, rows.Err()
}
