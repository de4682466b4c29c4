package store

import (
	"context"
	"database/sql"
	"encoding/json"

	"github.com/rotisserie/eris"

	"github.com/directorycat/catalog-pipeline/internal/model"
	"github.com/directorycat/catalog-pipeline/internal/resilience"
)

// WriteParsed persists one page's clustered sections and extracted records
// as a single logical transaction: upsert companies by slug, delete-then-
// insert every slug-scoped child table (including company_sections), then
// advance pages.state to 'parsed'. A page with no derivable slug is a
// SchemaViolation — the transaction is not attempted and the page must be
// marked failed by the caller, never silently skipped.
func (s *Store) WriteParsed(ctx context.Context, url string, sections []model.Section, rec model.PageRecords) error {
	if rec.Company.Slug == "" {
		return resilience.NewSchemaViolationError(eris.Errorf("no slug derivable for %q", url))
	}

	tx, err := s.db.BeginTx(ctx, &sql.TxOptions{})
	if err != nil {
		return eris.Wrap(err, "begin write-parsed transaction")
	}
	defer tx.Rollback()

	if err := upsertCompany(ctx, tx, rec.Company); err != nil {
		return err
	}
	// company_links.founder_id references founders(id), so the old links
	// must be gone before the old founders can be deleted.
	if _, err := tx.ExecContext(ctx, `DELETE FROM company_links WHERE slug = ?`, rec.Company.Slug); err != nil {
		return eris.Wrapf(err, "delete links for %q", rec.Company.Slug)
	}
	if err := rewriteFounders(ctx, tx, rec.Company.Slug, rec.Founders); err != nil {
		return err
	}
	if err := rewriteNews(ctx, tx, rec.Company.Slug, rec.News); err != nil {
		return err
	}
	if err := rewriteJobs(ctx, tx, rec.Company.Slug, rec.Jobs); err != nil {
		return err
	}
	if err := rewriteLinks(ctx, tx, rec.Company.Slug, rec.Links); err != nil {
		return err
	}
	if err := rewriteMeetings(ctx, tx, rec.Company.Slug, rec.Meetings); err != nil {
		return err
	}
	if err := rewriteSections(ctx, tx, url, sections); err != nil {
		return err
	}
	if _, err := tx.ExecContext(ctx, `UPDATE pages SET state = 'parsed' WHERE url = ?`, url); err != nil {
		return eris.Wrapf(err, "mark parsed for %q", url)
	}

	return eris.Wrap(tx.Commit(), "commit write-parsed transaction")
}

func upsertCompany(ctx context.Context, tx *sql.Tx, c model.Company) error {
	_, err := tx.ExecContext(ctx, `
		INSERT INTO companies(slug, name, tagline, batch_season, batch_year, status, location,
			founded_year, team_size, partner, homepage, is_hiring, source_url)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(slug) DO UPDATE SET
			name = excluded.name,
			tagline = excluded.tagline,
			batch_season = excluded.batch_season,
			batch_year = excluded.batch_year,
			status = excluded.status,
			location = excluded.location,
			founded_year = excluded.founded_year,
			team_size = excluded.team_size,
			partner = excluded.partner,
			homepage = excluded.homepage,
			is_hiring = excluded.is_hiring,
			source_url = excluded.source_url
	`, c.Slug, c.Name, nullIfEmpty(c.Tagline), nullIfEmpty(c.BatchSeason), nullIfZero(c.BatchYear),
		nullIfEmpty(c.Status.String()), nullIfEmpty(c.Location), nullIfZero(c.FoundedYear),
		nullIfZero(c.TeamSize), nullIfEmpty(c.Partner), nullIfEmpty(c.Homepage), c.IsHiring, c.SourceURL)
	return eris.Wrapf(err, "upsert company %q", c.Slug)
}

func rewriteFounders(ctx context.Context, tx *sql.Tx, slug string, founders []model.Founder) error {
	if _, err := tx.ExecContext(ctx, `DELETE FROM founders WHERE slug = ?`, slug); err != nil {
		return eris.Wrapf(err, "delete founders for %q", slug)
	}
	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO founders(id, slug, name, title, bio, linkedin, twitter, github, email)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return eris.Wrap(err, "prepare founder insert")
	}
	defer stmt.Close()
	for _, f := range founders {
		if _, err := stmt.ExecContext(ctx, f.ID, slug, f.Name, nullIfEmpty(f.Title), nullIfEmpty(f.Bio),
			nullIfEmpty(f.LinkedIn), nullIfEmpty(f.Twitter), nullIfEmpty(f.GitHub), nullIfEmpty(f.Email)); err != nil {
			return eris.Wrapf(err, "insert founder %q for %q", f.Name, slug)
		}
	}
	return nil
}

func rewriteNews(ctx context.Context, tx *sql.Tx, slug string, items []model.NewsItem) error {
	if _, err := tx.ExecContext(ctx, `DELETE FROM news WHERE slug = ?`, slug); err != nil {
		return eris.Wrapf(err, "delete news for %q", slug)
	}
	stmt, err := tx.PrepareContext(ctx, `INSERT INTO news(slug, url, title, published_date) VALUES (?, ?, ?, ?)`)
	if err != nil {
		return eris.Wrap(err, "prepare news insert")
	}
	defer stmt.Close()
	for _, n := range items {
		var published any
		if n.PublishedDate != nil {
			published = *n.PublishedDate
		}
		if _, err := stmt.ExecContext(ctx, slug, n.URL, nullIfEmpty(n.Title), published); err != nil {
			return eris.Wrapf(err, "insert news %q for %q", n.URL, slug)
		}
	}
	return nil
}

func rewriteJobs(ctx context.Context, tx *sql.Tx, slug string, jobs []model.Job) error {
	if _, err := tx.ExecContext(ctx, `DELETE FROM company_jobs WHERE slug = ?`, slug); err != nil {
		return eris.Wrapf(err, "delete jobs for %q", slug)
	}
	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO company_jobs(slug, url, title, location, experience) VALUES (?, ?, ?, ?, ?)
	`)
	if err != nil {
		return eris.Wrap(err, "prepare job insert")
	}
	defer stmt.Close()
	for _, j := range jobs {
		if _, err := stmt.ExecContext(ctx, slug, j.URL, nullIfEmpty(j.Title), nullIfEmpty(j.Location), nullIfEmpty(j.Experience)); err != nil {
			return eris.Wrapf(err, "insert job %q for %q", j.URL, slug)
		}
	}
	return nil
}

func rewriteLinks(ctx context.Context, tx *sql.Tx, slug string, links []model.CompanyLink) error {
	if _, err := tx.ExecContext(ctx, `DELETE FROM company_links WHERE slug = ?`, slug); err != nil {
		return eris.Wrapf(err, "delete links for %q", slug)
	}
	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO company_links(slug, url, anchor_text, domain, classification, founder_id)
		VALUES (?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return eris.Wrap(err, "prepare link insert")
	}
	defer stmt.Close()
	for _, l := range links {
		if _, err := stmt.ExecContext(ctx, slug, l.URL, nullIfEmpty(l.AnchorText), nullIfEmpty(l.Domain),
			string(l.Classification), nullIfEmpty(l.FounderID)); err != nil {
			return eris.Wrapf(err, "insert link %q for %q", l.URL, slug)
		}
	}
	return nil
}

func rewriteMeetings(ctx context.Context, tx *sql.Tx, slug string, meetings []model.MeetingLink) error {
	if _, err := tx.ExecContext(ctx, `DELETE FROM meeting_links WHERE slug = ?`, slug); err != nil {
		return eris.Wrapf(err, "delete meeting links for %q", slug)
	}
	stmt, err := tx.PrepareContext(ctx, `INSERT INTO meeting_links(slug, url, platform) VALUES (?, ?, ?)`)
	if err != nil {
		return eris.Wrap(err, "prepare meeting link insert")
	}
	defer stmt.Close()
	for _, m := range meetings {
		if _, err := stmt.ExecContext(ctx, slug, m.URL, m.Platform); err != nil {
			return eris.Wrapf(err, "insert meeting link %q for %q", m.URL, slug)
		}
	}
	return nil
}

func rewriteSections(ctx context.Context, tx *sql.Tx, url string, sections []model.Section) error {
	if _, err := tx.ExecContext(ctx, `DELETE FROM company_sections WHERE url = ?`, url); err != nil {
		return eris.Wrapf(err, "delete sections for %q", url)
	}
	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO company_sections(url, section_kind, ord, json_blob) VALUES (?, ?, ?, ?)
	`)
	if err != nil {
		return eris.Wrap(err, "prepare section insert")
	}
	defer stmt.Close()
	for ord, sec := range sections {
		blob, err := json.Marshal(sec.Blocks)
		if err != nil {
			return eris.Wrapf(err, "marshal section %s for %q", sec.Kind, url)
		}
		if _, err := stmt.ExecContext(ctx, url, sec.Kind.String(), ord, string(blob)); err != nil {
			return eris.Wrapf(err, "insert section %s for %q", sec.Kind, url)
		}
	}
	return nil
}

func nullIfEmpty(s string) any {
	if s == "" {
		return nil
	}
	return s
}

func nullIfZero(n int) any {
	if n == 0 {
		return nil
	}
	return n
}
