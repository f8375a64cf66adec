package catalog

import (
	"database/sql"
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/starford/kitscan/internal/checksum"
	"github.com/starford/kitscan/internal/models"
)

// Row is one recorded component.
type Row struct {
	Category  models.Category `json:"category"`
	Path      string          `json:"path"`
	Name      string          `json:"name"`
	Testable  bool            `json:"testable"`
	Checksum  string          `json:"checksum"`
	UpdatedAt time.Time       `json:"updated_at"`
}

// ScanRecord summarizes one Record call.
type ScanRecord struct {
	ID         int64             `json:"id"`
	Categories []models.Category `json:"categories"`
	Total      int               `json:"total"`
	Added      int               `json:"added"`
	Updated    int               `json:"updated"`
	Removed    int               `json:"removed"`
	RecordedAt time.Time         `json:"recorded_at"`
}

// key identifies a component across scans.
func key(c models.Category, name string) string {
	return string(c) + ":" + name
}

// Record stores res and returns how it differs from the previous record.
// Only categories selected in res are compared; rows of other categories are
// left untouched. Change entries are "<category>:<name>" and sorted.
func (db *DB) Record(res models.Result) (models.Changes, error) {
	changes := models.Changes{Added: []string{}, Updated: []string{}, Removed: []string{}}

	tx, err := db.conn.Begin()
	if err != nil {
		return changes, fmt.Errorf("catalog: begin tx: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck // best-effort on failure path

	now := time.Now().UTC()
	total := 0
	for _, c := range res.Selected {
		stored, err := loadStored(tx, c)
		if err != nil {
			return changes, err
		}

		seen := make(map[string]struct{})
		for _, it := range res.Items(c) {
			total++
			seen[it.Path] = struct{}{}
			cs, err := checksum.Of(it.Descriptor)
			if err != nil {
				return changes, err
			}
			prev, ok := stored[it.Path]
			switch {
			case !ok:
				changes.Added = append(changes.Added, key(c, it.Name))
			case prev.checksum != cs:
				changes.Updated = append(changes.Updated, key(c, it.Name))
			default:
				continue
			}
			_, err = tx.Exec(`
				INSERT INTO components (category, path, name, testable, checksum, updated_at)
				VALUES (?, ?, ?, ?, ?, ?)
				ON CONFLICT(category, path) DO UPDATE SET
					name       = excluded.name,
					testable   = excluded.testable,
					checksum   = excluded.checksum,
					updated_at = excluded.updated_at
			`, string(c), it.Path, it.Name, it.Testable, cs, now)
			if err != nil {
				return changes, fmt.Errorf("catalog: upsert component: %w", err)
			}
		}

		for p, prev := range stored {
			if _, ok := seen[p]; ok {
				continue
			}
			if _, err := tx.Exec(`DELETE FROM components WHERE category = ? AND path = ?`, string(c), p); err != nil {
				return changes, fmt.Errorf("catalog: delete component: %w", err)
			}
			changes.Removed = append(changes.Removed, key(c, prev.name))
		}
	}

	cats := make([]string, len(res.Selected))
	for i, c := range res.Selected {
		cats[i] = string(c)
	}
	_, err = tx.Exec(`
		INSERT INTO scans (categories, total, added, updated, removed, recorded_at)
		VALUES (?, ?, ?, ?, ?, ?)
	`, strings.Join(cats, ","), total, len(changes.Added), len(changes.Updated), len(changes.Removed), now)
	if err != nil {
		return changes, fmt.Errorf("catalog: insert scan: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return changes, fmt.Errorf("catalog: commit: %w", err)
	}

	slices.Sort(changes.Added)
	slices.Sort(changes.Updated)
	slices.Sort(changes.Removed)
	return changes, nil
}

type storedRow struct {
	name     string
	checksum string
}

func loadStored(tx *sql.Tx, c models.Category) (map[string]storedRow, error) {
	rows, err := tx.Query(`SELECT path, name, checksum FROM components WHERE category = ?`, string(c))
	if err != nil {
		return nil, fmt.Errorf("catalog: load %s: %w", c, err)
	}
	defer rows.Close()

	out := make(map[string]storedRow)
	for rows.Next() {
		var p string
		var r storedRow
		if err := rows.Scan(&p, &r.name, &r.checksum); err != nil {
			return nil, err
		}
		out[p] = r
	}
	return out, rows.Err()
}

// Components returns the recorded rows of category c ordered by name, then path.
func (db *DB) Components(c models.Category) ([]Row, error) {
	rows, err := db.conn.Query(`
		SELECT category, path, name, testable, checksum, updated_at
		FROM components
		WHERE category = ?
		ORDER BY name, path
	`, string(c))
	if err != nil {
		return nil, fmt.Errorf("catalog: components: %w", err)
	}
	defer rows.Close()

	var out []Row
	for rows.Next() {
		var r Row
		var cat string
		if err := rows.Scan(&cat, &r.Path, &r.Name, &r.Testable, &r.Checksum, &r.UpdatedAt); err != nil {
			return nil, err
		}
		r.Category = models.Category(cat)
		out = append(out, r)
	}
	return out, rows.Err()
}

// History returns the most recent scan records, newest first.
func (db *DB) History(limit int) ([]ScanRecord, error) {
	if limit <= 0 {
		limit = 20
	}
	rows, err := db.conn.Query(`
		SELECT id, categories, total, added, updated, removed, recorded_at
		FROM scans
		ORDER BY id DESC
		LIMIT ?
	`, limit)
	if err != nil {
		return nil, fmt.Errorf("catalog: history: %w", err)
	}
	defer rows.Close()

	var out []ScanRecord
	for rows.Next() {
		var r ScanRecord
		var cats string
		if err := rows.Scan(&r.ID, &cats, &r.Total, &r.Added, &r.Updated, &r.Removed, &r.RecordedAt); err != nil {
			return nil, err
		}
		for _, c := range strings.Split(cats, ",") {
			if c != "" {
				r.Categories = append(r.Categories, models.Category(c))
			}
		}
		out = append(out, r)
	}
	return out, rows.Err()
}
