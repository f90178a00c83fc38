package mysql

import (
	"context"
	"database/sql"

	"gmaps_reviews/internal/domain"
)

type Repo struct{ db *sql.DB }

func New(db *sql.DB) *Repo { return &Repo{db: db} }

// ---- options (flat key/value settings store) ----

func (r *Repo) GetOption(ctx context.Context, name string) (string, bool, error) {
	var v string
	err := r.db.QueryRowContext(ctx, getOptionSQL, name).Scan(&v)
	if err == sql.ErrNoRows {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	return v, true, nil
}

func (r *Repo) SetOption(ctx context.Context, name, value string) error {
	_, err := r.db.ExecContext(ctx, upsertOptionSQL, name, value)
	return err
}

func (r *Repo) DeleteOption(ctx context.Context, name string) error {
	_, err := r.db.ExecContext(ctx, deleteOptionSQL, name)
	return err
}

func (r *Repo) AllOptions(ctx context.Context) (map[string]string, error) {
	rows, err := r.db.QueryContext(ctx, allOptionsSQL)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := map[string]string{}
	for rows.Next() {
		var k, v string
		if err := rows.Scan(&k, &v); err != nil {
			return nil, err
		}
		out[k] = v
	}
	return out, rows.Err()
}

// ---- scrape audit log ----

func (r *Repo) LogScrape(ctx context.Context, businessURL, status string, reviewCount int, detail string) error {
	_, err := r.db.ExecContext(ctx, insertScrapeSQL, businessURL, status, reviewCount, nullable(detail))
	return err
}

func (r *Repo) RecentScrapes(ctx context.Context, limit int) ([]domain.ScrapeLogEntry, error) {
	if limit <= 0 || limit > 500 {
		limit = 50
	}
	rows, err := r.db.QueryContext(ctx, recentScrapesSQL, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []domain.ScrapeLogEntry
	for rows.Next() {
		var e domain.ScrapeLogEntry
		if err := rows.Scan(&e.ID, &e.BusinessURL, &e.Status, &e.ReviewCount, &e.Detail, &e.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	return out, rows.Err()
}

func nullable(s string) any {
	if s == "" {
		return nil
	}
	return s
}
