package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"
)

// Upsert inserts or replaces an image record and its tag assignments as
// one transaction.
func (s *Store) Upsert(ctx context.Context, rec Record) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	_, err = tx.ExecContext(ctx,
		`INSERT INTO images (path, rel_path, title, description, width, height, taken, mod_time)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		 ON CONFLICT(path) DO UPDATE SET
		   rel_path = excluded.rel_path,
		   title = excluded.title,
		   description = excluded.description,
		   width = excluded.width,
		   height = excluded.height,
		   taken = excluded.taken,
		   mod_time = excluded.mod_time`,
		rec.Path, rec.RelPath, rec.Title, rec.Description,
		rec.Width, rec.Height,
		formatTime(rec.Taken), formatTime(rec.ModTime),
	)
	if err != nil {
		return fmt.Errorf("upsert image: %w", err)
	}

	if _, err := tx.ExecContext(ctx, "DELETE FROM image_tags WHERE image_path = ?", rec.Path); err != nil {
		return fmt.Errorf("clear tags: %w", err)
	}
	for _, tp := range rec.TagPaths {
		if _, err := tx.ExecContext(ctx,
			"INSERT OR IGNORE INTO image_tags (image_path, tag_path) VALUES (?, ?)",
			rec.Path, tp,
		); err != nil {
			return fmt.Errorf("insert tag %q: %w", tp, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit: %w", err)
	}
	return nil
}

// Get returns the record for one image path, or sql.ErrNoRows.
func (s *Store) Get(ctx context.Context, path string) (*Record, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT path, rel_path, title, description, width, height, taken, mod_time
		 FROM images WHERE path = ?`, path)
	rec, err := scanRecord(row)
	if err != nil {
		return nil, err
	}
	rec.TagPaths, err = s.tagsFor(ctx, rec.Path)
	if err != nil {
		return nil, err
	}
	return rec, nil
}

// List returns all image records ordered by path.
func (s *Store) List(ctx context.Context) ([]*Record, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT path, rel_path, title, description, width, height, taken, mod_time
		 FROM images ORDER BY path`)
	if err != nil {
		return nil, fmt.Errorf("list images: %w", err)
	}
	defer rows.Close()
	return s.collect(ctx, rows)
}

// ListByTag returns all images carrying an exact tag path, ordered by path.
func (s *Store) ListByTag(ctx context.Context, tagPath string) ([]*Record, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT i.path, i.rel_path, i.title, i.description, i.width, i.height, i.taken, i.mod_time
		 FROM images i JOIN image_tags t ON t.image_path = i.path
		 WHERE t.tag_path = ? ORDER BY i.path`, tagPath)
	if err != nil {
		return nil, fmt.Errorf("list by tag: %w", err)
	}
	defer rows.Close()
	return s.collect(ctx, rows)
}

// TagCount is one distinct tag path and how many images carry it.
type TagCount struct {
	TagPath string
	Count   int
}

// TagCounts returns every distinct tag path with its image count, ordered
// by tag path. This is the data behind the tag tree.
func (s *Store) TagCounts(ctx context.Context) ([]TagCount, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT tag_path, COUNT(*) FROM image_tags GROUP BY tag_path ORDER BY tag_path`)
	if err != nil {
		return nil, fmt.Errorf("tag counts: %w", err)
	}
	defer rows.Close()

	var out []TagCount
	for rows.Next() {
		var tc TagCount
		if err := rows.Scan(&tc.TagPath, &tc.Count); err != nil {
			return nil, fmt.Errorf("scan tag count: %w", err)
		}
		out = append(out, tc)
	}
	return out, rows.Err()
}

// Delete removes an image and, via cascade, its tag assignments.
func (s *Store) Delete(ctx context.Context, path string) error {
	if _, err := s.db.ExecContext(ctx, "DELETE FROM images WHERE path = ?", path); err != nil {
		return fmt.Errorf("delete image: %w", err)
	}
	return nil
}

// Prune removes every image whose path is not in keep. Used after a rescan
// to drop files that disappeared from disk.
func (s *Store) Prune(ctx context.Context, keep []string) (int, error) {
	existing, err := s.List(ctx)
	if err != nil {
		return 0, err
	}
	keepSet := make(map[string]bool, len(keep))
	for _, p := range keep {
		keepSet[p] = true
	}

	pruned := 0
	for _, rec := range existing {
		if keepSet[rec.Path] {
			continue
		}
		if err := s.Delete(ctx, rec.Path); err != nil {
			return pruned, err
		}
		pruned++
	}
	return pruned, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanRecord(row rowScanner) (*Record, error) {
	var rec Record
	var taken, modTime string
	if err := row.Scan(&rec.Path, &rec.RelPath, &rec.Title, &rec.Description,
		&rec.Width, &rec.Height, &taken, &modTime); err != nil {
		return nil, err
	}
	rec.Taken = parseTime(taken)
	rec.ModTime = parseTime(modTime)
	return &rec, nil
}

func (s *Store) collect(ctx context.Context, rows *sql.Rows) ([]*Record, error) {
	var out []*Record
	for rows.Next() {
		rec, err := scanRecord(rows)
		if err != nil {
			return nil, fmt.Errorf("scan image: %w", err)
		}
		out = append(out, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	for _, rec := range out {
		tags, err := s.tagsFor(ctx, rec.Path)
		if err != nil {
			return nil, err
		}
		rec.TagPaths = tags
	}
	return out, nil
}

func (s *Store) tagsFor(ctx context.Context, path string) ([]string, error) {
	rows, err := s.db.QueryContext(ctx,
		"SELECT tag_path FROM image_tags WHERE image_path = ? ORDER BY tag_path", path)
	if err != nil {
		return nil, fmt.Errorf("tags for %s: %w", path, err)
	}
	defer rows.Close()

	var out []string
	for rows.Next() {
		var tp string
		if err := rows.Scan(&tp); err != nil {
			return nil, fmt.Errorf("scan tag: %w", err)
		}
		out = append(out, tp)
	}
	return out, rows.Err()
}

func formatTime(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.UTC().Format(time.RFC3339Nano)
}

func parseTime(s string) time.Time {
	if s == "" {
		return time.Time{}
	}
	t, err := time.Parse(time.RFC3339Nano, s)
	if err != nil {
		return time.Time{}
	}
	return t
}
