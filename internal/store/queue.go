package store

import (
	"context"
	"database/sql"
	"time"

	"github.com/rotisserie/eris"

	"github.com/directorycat/catalog-pipeline/internal/model"
)

// Enqueue inserts urls with state='pending'. Existing rows are left
// untouched — re-enqueuing a URL already in the queue is a no-op for it.
func (s *Store) Enqueue(ctx context.Context, urls []string) (inserted int, err error) {
	if len(urls) == 0 {
		return 0, nil
	}
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, eris.Wrap(err, "begin enqueue transaction")
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx, `INSERT OR IGNORE INTO pages(url, state, first_seen) VALUES (?, 'pending', ?)`)
	if err != nil {
		return 0, eris.Wrap(err, "prepare enqueue statement")
	}
	defer stmt.Close()

	now := time.Now().UTC()
	for _, u := range urls {
		res, err := stmt.ExecContext(ctx, u, now)
		if err != nil {
			return inserted, eris.Wrapf(err, "enqueue %q", u)
		}
		n, _ := res.RowsAffected()
		inserted += int(n)
	}
	if err := tx.Commit(); err != nil {
		return inserted, eris.Wrap(err, "commit enqueue transaction")
	}
	return inserted, nil
}

// NextToFetch claims up to n URLs in state 'pending'; n <= 0 means all of
// them. Claims are advisory: the real commit point is MarkFetched, so
// selecting the same row twice is harmless (it just re-fetches and
// re-writes idempotently).
func (s *Store) NextToFetch(ctx context.Context, n int) ([]string, error) {
	return s.selectURLs(ctx, `SELECT url FROM pages WHERE state = 'pending' ORDER BY first_seen LIMIT ?`, n)
}

// NextToParse claims up to n URLs that are fetched but not yet parsed; n <= 0
// means all of them.
func (s *Store) NextToParse(ctx context.Context, n int) ([]string, error) {
	return s.selectURLs(ctx, `SELECT url FROM pages WHERE state = 'fetched' ORDER BY last_attempt LIMIT ?`, n)
}

// selectURLs runs query with a LIMIT placeholder; n <= 0 is passed through
// as SQLite's "no limit" sentinel (LIMIT -1).
func (s *Store) selectURLs(ctx context.Context, query string, n int) ([]string, error) {
	if n <= 0 {
		n = -1
	}
	rows, err := s.db.QueryContext(ctx, query, n)
	if err != nil {
		return nil, eris.Wrap(err, "query queue")
	}
	defer rows.Close()

	var urls []string
	for rows.Next() {
		var u string
		if err := rows.Scan(&u); err != nil {
			return nil, eris.Wrap(err, "scan queue row")
		}
		urls = append(urls, u)
	}
	return urls, rows.Err()
}

// MarkFetched records a successful fetch: it writes the page_data row and
// advances pages.state to 'fetched' in a single transaction, per C6's
// contract.
func (s *Store) MarkFetched(ctx context.Context, url string, status int, latencyMS int64, markdown string) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return eris.Wrap(err, "begin mark-fetched transaction")
	}
	defer tx.Rollback()

	now := time.Now().UTC()
	if _, err := tx.ExecContext(ctx, `
		INSERT INTO page_data(url, markdown, http_status, latency_ms, fetched_at)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(url) DO UPDATE SET
			markdown = excluded.markdown,
			http_status = excluded.http_status,
			latency_ms = excluded.latency_ms,
			fetched_at = excluded.fetched_at
	`, url, markdown, status, latencyMS, now); err != nil {
		return eris.Wrapf(err, "write page_data for %q", url)
	}

	if _, err := tx.ExecContext(ctx, `
		UPDATE pages SET state = 'fetched', last_attempt = ?, attempts = attempts + 1
		WHERE url = ?
	`, now, url); err != nil {
		return eris.Wrapf(err, "update pages state for %q", url)
	}

	return eris.Wrap(tx.Commit(), "commit mark-fetched transaction")
}

// MarkFailed records a permanent failure for url.
func (s *Store) MarkFailed(ctx context.Context, url string, cause error) error {
	now := time.Now().UTC()
	msg := ""
	if cause != nil {
		msg = cause.Error()
	}
	_, err := s.db.ExecContext(ctx, `
		UPDATE pages SET state = 'failed', last_attempt = ?, attempts = attempts + 1, last_error = ?
		WHERE url = ?
	`, now, msg, url)
	return eris.Wrapf(err, "mark failed for %q", url)
}

// MarkParsed advances pages.state to 'parsed'. Used by WriteParsed once the
// page's structured rows are committed.
func (s *Store) MarkParsed(ctx context.Context, url string) error {
	_, err := s.db.ExecContext(ctx, `UPDATE pages SET state = 'parsed' WHERE url = ?`, url)
	return eris.Wrapf(err, "mark parsed for %q", url)
}

// PageData fetches the raw markdown envelope for a single URL, used by the
// parse loop and by re-parse (reading page_data alone).
func (s *Store) PageData(ctx context.Context, url string) (model.PageData, error) {
	var pd model.PageData
	pd.URL = url
	err := s.db.QueryRowContext(ctx, `
		SELECT markdown, http_status, latency_ms, fetched_at FROM page_data WHERE url = ?
	`, url).Scan(&pd.Markdown, &pd.HTTPStatus, &pd.LatencyMS, &pd.FetchedAt)
	if err == sql.ErrNoRows {
		return model.PageData{}, eris.Wrapf(err, "no page_data for %q", url)
	}
	return pd, eris.Wrapf(err, "read page_data for %q", url)
}
