package catalog

import (
	"database/sql"
	"fmt"

	"bruinplan/internal/domain"
)

// SeedData is the JSON fixture shape cmd/seedcatalog loads: the scraper
// and CSV-ingestion pipelines that would normally populate these rows
// live outside this repo, so a fixture file stands in for them.
type SeedData struct {
	Subjects   []SeedSubject   `json:"subjects"`
	Courses    []SeedCourse    `json:"courses"`
	Requisites []SeedRequisite `json:"requisites"`
	Sections   []SeedSection   `json:"sections"`
	Terms      []SeedTerm      `json:"terms"`
}

type SeedSubject struct {
	Code     string `json:"code"`
	LongName string `json:"long_name"`
}

type SeedCourse struct {
	Subject string `json:"subject"`
	Number  string `json:"number"`
	Title   string `json:"title"`
}

// SeedRequisite pairs a course with the root of its requisite tree, in
// the same And/Or/Leaf shape internal/domain uses.
type SeedRequisite struct {
	Subject string       `json:"subject"`
	Number  string       `json:"number"`
	Tree    SeedReqNode  `json:"tree"`
}

type SeedReqNode struct {
	Kind            string        `json:"kind"` // "AND", "OR", "LEAF"
	Children        []SeedReqNode `json:"children,omitempty"`
	LeafCourseName  string        `json:"leaf_course_name,omitempty"`
	LeafSubject     string        `json:"leaf_subject,omitempty"`
	LeafNumber      string        `json:"leaf_number,omitempty"`
	Relation        string        `json:"relation,omitempty"` // "PREREQ", "COREQ", "ANTIREQ"
	MinGrade        string        `json:"min_grade,omitempty"`
	Severity        string        `json:"severity,omitempty"` // "R", "W"
}

type SeedSection struct {
	Subject         string           `json:"subject"`
	Number          string           `json:"number"`
	Season          string           `json:"season"`
	Year            int              `json:"year"`
	Code            string           `json:"code"`
	Primary         bool             `json:"primary"`
	Activity        string           `json:"activity"`
	EnrollmentCap   int              `json:"enrollment_cap"`
	EnrollmentTotal int              `json:"enrollment_total"`
	WaitlistCap     int              `json:"waitlist_cap"`
	WaitlistTotal   int              `json:"waitlist_total"`
	Meetings        []SeedMeeting    `json:"meetings"`
	Instructors     []string         `json:"instructors"`
}

type SeedMeeting struct {
	Days     string `json:"days"`
	Start    string `json:"start"`
	End      string `json:"end"`
	Building string `json:"building"`
	Room     string `json:"room"`
}

type SeedTerm struct {
	Season string `json:"season"`
	Year   int    `json:"year"`
}

// Seed loads data into db, row by row, recording (not failing on)
// individual insert errors in the returned report's Errors — a single
// malformed fixture row shouldn't abort the whole load.
// Seed returns counts of rows successfully inserted per table so the
// caller can report a summary.
func Seed(db *sql.DB, data SeedData) (SeedReport, error) {
	var report SeedReport

	for _, s := range data.Subjects {
		if _, err := db.Exec(`INSERT OR IGNORE INTO subjects (code, long_name) VALUES (?, ?)`, s.Code, s.LongName); err != nil {
			report.Errors = append(report.Errors, fmt.Sprintf("subject %s: %v", s.Code, err))
			continue
		}
		report.Subjects++
	}

	for _, t := range data.Terms {
		if _, err := db.Exec(`INSERT OR IGNORE INTO terms (season, year) VALUES (?, ?)`, t.Season, t.Year); err != nil {
			report.Errors = append(report.Errors, fmt.Sprintf("term %s %d: %v", t.Season, t.Year, err))
			continue
		}
		report.Terms++
	}

	courseIDs := map[string]int64{}
	for _, c := range data.Courses {
		res, err := db.Exec(`
			INSERT OR IGNORE INTO courses (subject_code, catalog_number, title)
			VALUES (?, ?, ?)`, c.Subject, c.Number, c.Title)
		if err != nil {
			report.Errors = append(report.Errors, fmt.Sprintf("course %s %s: %v", c.Subject, c.Number, err))
			continue
		}
		id, err := res.LastInsertId()
		if n, raErr := res.RowsAffected(); err != nil || raErr != nil || n == 0 {
			// Already existed (INSERT OR IGNORE no-op); resolve its id.
			err = db.QueryRow(`SELECT course_id FROM courses WHERE subject_code = ? AND catalog_number = ?`, c.Subject, c.Number).Scan(&id)
			if err != nil {
				report.Errors = append(report.Errors, fmt.Sprintf("course %s %s: resolving id: %v", c.Subject, c.Number, err))
				continue
			}
		}
		courseIDs[courseKeyString(c.Subject, c.Number)] = id
		report.Courses++
	}

	for _, r := range data.Requisites {
		courseID, ok := courseIDs[courseKeyString(r.Subject, r.Number)]
		if !ok {
			report.Errors = append(report.Errors, fmt.Sprintf("requisite for unknown course %s %s", r.Subject, r.Number))
			continue
		}
		if err := insertReqTree(db, courseID, nil, r.Tree, 0); err != nil {
			report.Errors = append(report.Errors, fmt.Sprintf("requisite tree for %s %s: %v", r.Subject, r.Number, err))
			continue
		}
		report.Requisites++
	}

	instructorIDs := map[string]int64{}
	for _, s := range data.Sections {
		courseID, ok := courseIDs[courseKeyString(s.Subject, s.Number)]
		if !ok {
			report.Errors = append(report.Errors, fmt.Sprintf("section for unknown course %s %s", s.Subject, s.Number))
			continue
		}
		isPrimary := 0
		if s.Primary {
			isPrimary = 1
		}
		res, err := db.Exec(`
			INSERT INTO sections (
				course_id, season, year, code, is_primary, activity,
				enrollment_cap, enrollment_total, waitlist_cap, waitlist_total
			) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			courseID, s.Season, s.Year, s.Code, isPrimary, s.Activity,
			s.EnrollmentCap, s.EnrollmentTotal, s.WaitlistCap, s.WaitlistTotal)
		if err != nil {
			report.Errors = append(report.Errors, fmt.Sprintf("section %s %s %s %d %s: %v", s.Subject, s.Number, s.Season, s.Year, s.Code, err))
			continue
		}
		sectionID, err := res.LastInsertId()
		if err != nil {
			report.Errors = append(report.Errors, fmt.Sprintf("section %s %s: resolving id: %v", s.Subject, s.Number, err))
			continue
		}

		for _, m := range s.Meetings {
			startMin, endMin := parseClockOrZero(m.Start), parseClockOrZero(m.End)
			if _, err := db.Exec(`
				INSERT INTO meetings (section_id, days, start_min, end_min, building, room)
				VALUES (?, ?, ?, ?, ?, ?)`, sectionID, m.Days, startMin, endMin, m.Building, m.Room); err != nil {
				report.Errors = append(report.Errors, fmt.Sprintf("meeting for section %d: %v", sectionID, err))
			}
		}

		for _, name := range s.Instructors {
			instructorID, ok := instructorIDs[name]
			if !ok {
				if _, err := db.Exec(`INSERT OR IGNORE INTO instructors (name) VALUES (?)`, name); err != nil {
					report.Errors = append(report.Errors, fmt.Sprintf("instructor %s: %v", name, err))
					continue
				}
				if err := db.QueryRow(`SELECT instructor_id FROM instructors WHERE name = ?`, name).Scan(&instructorID); err != nil {
					report.Errors = append(report.Errors, fmt.Sprintf("instructor %s: resolving id: %v", name, err))
					continue
				}
				instructorIDs[name] = instructorID
			}
			if _, err := db.Exec(`
				INSERT OR IGNORE INTO section_instructors (section_id, instructor_id)
				VALUES (?, ?)`, sectionID, instructorID); err != nil {
				report.Errors = append(report.Errors, fmt.Sprintf("section_instructors %d/%d: %v", sectionID, instructorID, err))
			}
		}

		report.Sections++
	}

	return report, nil
}

// SeedReport summarizes a Seed call: counts of rows inserted per table
// and any per-row errors encountered along the way.
type SeedReport struct {
	Subjects   int
	Courses    int
	Requisites int
	Sections   int
	Terms      int
	Errors     []string
}

func courseKeyString(subject, number string) string {
	return subject + "|" + number
}

// insertReqTree recursively flattens a SeedReqNode into requisite_nodes
// rows, the inverse of assembleRequisiteTrees.
func insertReqTree(db *sql.DB, courseID int64, parentID *int64, node SeedReqNode, order int) error {
	relation := node.Relation
	if relation == "" {
		relation = "PREREQ"
	}
	minGrade := node.MinGrade
	if minGrade == "" {
		minGrade = "D-"
	}
	severity := node.Severity
	if severity == "" {
		severity = "R"
	}

	res, err := db.Exec(`
		INSERT INTO requisite_nodes (
			course_id, parent_id, kind, leaf_course_name, leaf_subject,
			leaf_number, relation, min_grade, severity, display_order
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		courseID, parentID, node.Kind, node.LeafCourseName,
		nullableString(node.LeafSubject), nullableString(node.LeafNumber),
		relation, minGrade, severity, order)
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	for i, child := range node.Children {
		if err := insertReqTree(db, courseID, &id, child, i); err != nil {
			return err
		}
	}
	return nil
}

func nullableString(s string) any {
	if s == "" {
		return nil
	}
	return s
}

func parseClockOrZero(s string) int {
	m, ok := domain.ParseClock(s)
	if !ok {
		return 0
	}
	return int(m)
}
