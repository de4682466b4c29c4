package store

// schemaVersion is bumped whenever schema.go adds a column or table.
// Migrations are additive only: ALTER TABLE ... ADD COLUMN, never DROP.
const schemaVersion = 1

const schemaDDL = `
CREATE TABLE IF NOT EXISTS schema_version (
	version INTEGER NOT NULL
);

CREATE TABLE IF NOT EXISTS pages (
	url          TEXT PRIMARY KEY,
	state        TEXT NOT NULL DEFAULT 'pending',
	first_seen   DATETIME NOT NULL,
	last_attempt DATETIME,
	attempts     INTEGER NOT NULL DEFAULT 0,
	last_error   TEXT
);

CREATE INDEX IF NOT EXISTS idx_pages_state ON pages(state);

CREATE TABLE IF NOT EXISTS page_data (
	url         TEXT PRIMARY KEY REFERENCES pages(url),
	markdown    TEXT NOT NULL,
	http_status INTEGER NOT NULL,
	latency_ms  INTEGER NOT NULL,
	fetched_at  DATETIME NOT NULL
);

CREATE TABLE IF NOT EXISTS company_sections (
	url          TEXT NOT NULL REFERENCES pages(url),
	section_kind TEXT NOT NULL,
	ord          INTEGER NOT NULL,
	json_blob    TEXT NOT NULL,
	PRIMARY KEY (url, section_kind, ord)
);

CREATE TABLE IF NOT EXISTS companies (
	slug         TEXT PRIMARY KEY,
	name         TEXT NOT NULL,
	tagline      TEXT,
	batch_season TEXT,
	batch_year   INTEGER,
	status       TEXT,
	location     TEXT,
	founded_year INTEGER,
	team_size    INTEGER,
	partner      TEXT,
	homepage     TEXT,
	is_hiring    INTEGER NOT NULL DEFAULT 0,
	source_url   TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS founders (
	id        TEXT PRIMARY KEY,
	slug      TEXT NOT NULL REFERENCES companies(slug),
	name      TEXT NOT NULL,
	title     TEXT,
	bio       TEXT,
	linkedin  TEXT,
	twitter   TEXT,
	github    TEXT,
	email     TEXT,
	UNIQUE (slug, name)
);

CREATE TABLE IF NOT EXISTS news (
	slug           TEXT NOT NULL REFERENCES companies(slug),
	url            TEXT NOT NULL,
	title          TEXT,
	published_date DATETIME,
	PRIMARY KEY (slug, url)
);

CREATE TABLE IF NOT EXISTS company_jobs (
	slug       TEXT NOT NULL REFERENCES companies(slug),
	url        TEXT NOT NULL,
	title      TEXT,
	location   TEXT,
	experience TEXT,
	PRIMARY KEY (slug, url)
);

CREATE TABLE IF NOT EXISTS company_links (
	slug           TEXT NOT NULL REFERENCES companies(slug),
	url            TEXT NOT NULL,
	anchor_text    TEXT,
	domain         TEXT,
	classification TEXT,
	founder_id     TEXT REFERENCES founders(id),
	PRIMARY KEY (slug, url)
);

CREATE TABLE IF NOT EXISTS meeting_links (
	slug     TEXT NOT NULL REFERENCES companies(slug),
	url      TEXT NOT NULL,
	platform TEXT NOT NULL,
	PRIMARY KEY (slug, url)
);
`
