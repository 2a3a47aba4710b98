package store

import (
	"context"
	"database/sql"
	"log"
	"time"
)

// HistoryRepo keeps a log of completed generations. Writes are best effort:
// a down database must never fail a generation that already produced media.
type HistoryRepo struct{ DB *sql.DB }

func NewHistoryRepo(db *sql.DB) *HistoryRepo { return &HistoryRepo{DB: db} }

type HistoryEntry struct {
	Feature   string    `json:"feature"`
	Provider  string    `json:"provider"`
	Model     string    `json:"model"`
	Prompt    string    `json:"prompt"`
	Style     string    `json:"style,omitempty"`
	Shape     string    `json:"shape,omitempty"`
	MediaURL  string    `json:"media_url"`
	CreatedAt time.Time `json:"created_at"`
}

// Record inserts one entry. Errors are logged, not returned.
func (r *HistoryRepo) Record(ctx context.Context, e HistoryEntry) {
	if r == nil || r.DB == nil {
		return
	}
	const q = `
insert into generation_history(feature, provider, model, prompt, style, shape, media_url)
values ($1,$2,$3,$4,$5,$6,$7)`
	if _, err := r.DB.ExecContext(ctx, q, e.Feature, e.Provider, e.Model, e.Prompt, e.Style, e.Shape, e.MediaURL); err != nil {
		log.Printf("history insert failed: %v", err)
	}
}

// Recent returns the latest entries for a feature, newest first.
func (r *HistoryRepo) Recent(ctx context.Context, feature string, limit int) ([]HistoryEntry, error) {
	const q = `
select feature, provider, model, prompt, style, shape, media_url, created_at
from generation_history
where feature = $1
order by created_at desc
limit $2`
	rows, err := r.DB.QueryContext(ctx, q, feature, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []HistoryEntry
	for rows.Next() {
		var e HistoryEntry
		if err := rows.Scan(&e.Feature, &e.Provider, &e.Model, &e.Prompt, &e.Style, &e.Shape, &e.MediaURL, &e.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	return out, rows.Err()
}
