package store

import (
	"context"
	"database/sql"

	"github.com/rotisserie/eris"
)

// OverviewRow is one row of the read-only `overview` command's tabular
// listing.
type OverviewRow struct {
	Slug        string
	Name        string
	Status      string
	BatchSeason string
	BatchYear   int
	Location    string
	IsHiring    bool
}

// Overview lists companies, optionally filtered by status and/or batch
// season, ordered by slug, capped at n rows (0 means unlimited).
func (s *Store) Overview(ctx context.Context, status, batch string, n int) ([]OverviewRow, error) {
	query := `
		SELECT c.slug, c.name, COALESCE(c.status, ''), COALESCE(c.batch_season, ''),
			COALESCE(c.batch_year, 0), COALESCE(c.location, ''), c.is_hiring
		FROM companies c
		WHERE (? = '' OR c.status = ?)
		  AND (? = '' OR c.batch_season = ?)
		ORDER BY c.slug
	`
	args := []any{status, status, batch, batch}
	if n > 0 {
		query += ` LIMIT ?`
		args = append(args, n)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, eris.Wrap(err, "query overview")
	}
	defer rows.Close()

	var out []OverviewRow
	for rows.Next() {
		var r OverviewRow
		if err := rows.Scan(&r.Slug, &r.Name, &r.Status, &r.BatchSeason, &r.BatchYear, &r.Location, &r.IsHiring); err != nil {
			return nil, eris.Wrap(err, "scan overview row")
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

// QueueStats is the queue counters printed by the `stats` command.
type QueueStats struct {
	Pending  int
	Fetched  int
	Parsed   int
	Failed   int
	Total    int
	Companies int
}

// Stats returns the current queue counters.
func (s *Store) Stats(ctx context.Context) (QueueStats, error) {
	var st QueueStats
	err := s.db.QueryRowContext(ctx, `
		SELECT
			COALESCE(SUM(CASE WHEN state = 'pending' THEN 1 ELSE 0 END), 0),
			COALESCE(SUM(CASE WHEN state = 'fetched' THEN 1 ELSE 0 END), 0),
			COALESCE(SUM(CASE WHEN state = 'parsed' THEN 1 ELSE 0 END), 0),
			COALESCE(SUM(CASE WHEN state = 'failed' THEN 1 ELSE 0 END), 0),
			COUNT(*)
		FROM pages
	`).Scan(&st.Pending, &st.Fetched, &st.Parsed, &st.Failed, &st.Total)
	if err != nil {
		return st, eris.Wrap(err, "query queue stats")
	}

	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM companies`).Scan(&st.Companies); err != nil && err != sql.ErrNoRows {
		return st, eris.Wrap(err, "query company count")
	}
	return st, nil
}
