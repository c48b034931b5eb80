package catalog

// schemaDDL creates the catalog tables if they do not already exist. The
// gateway treats the catalog as read-only during a session, but owns
// schema creation so a fresh database path works without an external
// migration step.
const schemaDDL = `
PRAGMA journal_mode=WAL;

CREATE TABLE IF NOT EXISTS subjects (
	subject_id INTEGER PRIMARY KEY AUTOINCREMENT,
	code       TEXT NOT NULL UNIQUE,
	long_name  TEXT NOT NULL DEFAULT ''
);

CREATE TABLE IF NOT EXISTS courses (
	course_id      INTEGER PRIMARY KEY AUTOINCREMENT,
	subject_code   TEXT NOT NULL,
	catalog_number TEXT NOT NULL,
	title          TEXT NOT NULL DEFAULT '',
	UNIQUE(subject_code, catalog_number)
);

CREATE TABLE IF NOT EXISTS requisite_nodes (
	id               INTEGER PRIMARY KEY AUTOINCREMENT,
	course_id        INTEGER NOT NULL REFERENCES courses(course_id),
	parent_id        INTEGER REFERENCES requisite_nodes(id),
	kind             TEXT NOT NULL, -- AND, OR, LEAF
	leaf_course_name TEXT NOT NULL DEFAULT '',
	leaf_subject     TEXT,
	leaf_number      TEXT,
	relation         TEXT NOT NULL DEFAULT 'PREREQ', -- PREREQ, COREQ, ANTIREQ
	min_grade        TEXT NOT NULL DEFAULT 'D-',
	severity         TEXT NOT NULL DEFAULT 'R', -- R, W
	display_order    INTEGER NOT NULL DEFAULT 0
);

CREATE TABLE IF NOT EXISTS sections (
	section_id       INTEGER PRIMARY KEY AUTOINCREMENT,
	course_id        INTEGER NOT NULL REFERENCES courses(course_id),
	season           TEXT NOT NULL,
	year             INTEGER NOT NULL,
	code             TEXT NOT NULL,
	is_primary       INTEGER NOT NULL,
	activity         TEXT NOT NULL DEFAULT '',
	enrollment_cap   INTEGER NOT NULL DEFAULT 0,
	enrollment_total INTEGER NOT NULL DEFAULT 0,
	waitlist_cap     INTEGER NOT NULL DEFAULT 0,
	waitlist_total   INTEGER NOT NULL DEFAULT 0
);

CREATE TABLE IF NOT EXISTS meetings (
	meeting_id INTEGER PRIMARY KEY AUTOINCREMENT,
	section_id INTEGER NOT NULL REFERENCES sections(section_id),
	days       TEXT NOT NULL DEFAULT '',
	start_min  INTEGER NOT NULL DEFAULT 0,
	end_min    INTEGER NOT NULL DEFAULT 0,
	building   TEXT NOT NULL DEFAULT '',
	room       TEXT NOT NULL DEFAULT ''
);

CREATE TABLE IF NOT EXISTS instructors (
	instructor_id INTEGER PRIMARY KEY AUTOINCREMENT,
	name          TEXT NOT NULL UNIQUE
);

CREATE TABLE IF NOT EXISTS section_instructors (
	section_id    INTEGER NOT NULL REFERENCES sections(section_id),
	instructor_id INTEGER NOT NULL REFERENCES instructors(instructor_id),
	PRIMARY KEY (section_id, instructor_id)
);

CREATE TABLE IF NOT EXISTS terms (
	term_id INTEGER PRIMARY KEY AUTOINCREMENT,
	season  TEXT NOT NULL,
	year    INTEGER NOT NULL,
	UNIQUE(season, year)
);
`
