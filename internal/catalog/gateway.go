// Package catalog is the read-only query surface over the catalog store:
// subjects, courses with requisite trees, sections, meeting slots,
// instructors, and term identifiers.
package catalog

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"sort"
	"strings"

	"github.com/google/uuid"
	_ "github.com/mattn/go-sqlite3"
	"golang.org/x/sync/errgroup"

	"bruinplan/internal/domain"
)

// Gateway is the contract the planner, editor, and tech-breadth optimizer
// depend on. It is read-only: nothing in this package ever mutates a row
// that wasn't inserted by this same process during catalog seeding.
type Gateway interface {
	// LookupCourses returns rows for every resolvable key; unresolved keys
	// are silently omitted.
	LookupCourses(ctx context.Context, keys []domain.CourseKey) ([]domain.Course, error)
	// SectionsFor returns all section rows in all terms for the given
	// courses.
	SectionsFor(ctx context.Context, keys []domain.CourseKey) ([]domain.Section, error)
	// Subjects returns every subject row in the catalog.
	Subjects(ctx context.Context) ([]domain.Subject, error)
	// OfferingTerms returns the set of term identifiers that contain at
	// least one usable section of key (derived, not stored).
	OfferingTerms(ctx context.Context, key domain.CourseKey) (map[domain.Term]bool, error)
	Close() error
}

// SQLiteGateway is the production Gateway backed by a SQLite database
// opened via github.com/mattn/go-sqlite3.
type SQLiteGateway struct {
	db *sql.DB
}

// Open opens (and, if necessary, initializes the schema of) the SQLite
// catalog database at path.
func Open(path string) (*SQLiteGateway, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, err
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("cannot connect to catalog db: %w", err)
	}
	if _, err := db.Exec(schemaDDL); err != nil {
		db.Close()
		return nil, fmt.Errorf("init catalog schema: %w", err)
	}
	return &SQLiteGateway{db: db}, nil
}

// DB exposes the underlying connection for the seed-loading command, the
// one caller outside this package permitted to write to the catalog.
func (g *SQLiteGateway) DB() *sql.DB {
	return g.db
}

func (g *SQLiteGateway) Close() error {
	if g.db != nil {
		return g.db.Close()
	}
	return nil
}

func placeholders(n int) string {
	s := ""
	for i := 0; i < n; i++ {
		if i > 0 {
			s += ","
		}
		s += "?"
	}
	return s
}

// LookupCourses fetches course rows and their requisite trees in batched
// queries (one for course metadata, one for requisite_nodes), each
// wrapped in withRetry for bounded exponential backoff on transient
// faults.
func (g *SQLiteGateway) LookupCourses(ctx context.Context, keys []domain.CourseKey) ([]domain.Course, error) {
	if len(keys) == 0 {
		return []domain.Course{}, nil
	}
	reqID := uuid.NewString()
	log.Printf("catalog[%s]: lookup_courses batch of %d key(s)", reqID, len(keys))

	type courseRow struct {
		id      int
		subject string
		number  string
		title   string
	}
	rowByKey := map[domain.CourseKey]courseRow{}
	var idOrder []int

	args := make([]any, 0, len(keys)*2)
	conds := ""
	for i, k := range keys {
		if i > 0 {
			conds += " OR "
		}
		conds += "(subject_code = ? AND catalog_number = ?)"
		args = append(args, k.Subject, k.Number)
	}

	err := withRetry(ctx, func() error {
		rows, err := g.db.QueryContext(ctx, fmt.Sprintf(
			`SELECT course_id, subject_code, catalog_number, title FROM courses WHERE %s`, conds), args...)
		if err != nil {
			return err
		}
		defer rows.Close()
		rowByKey = map[domain.CourseKey]courseRow{}
		idOrder = nil
		for rows.Next() {
			var r courseRow
			if err := rows.Scan(&r.id, &r.subject, &r.number, &r.title); err != nil {
				return err
			}
			rowByKey[domain.CourseKey{Subject: r.subject, Number: r.number}] = r
			idOrder = append(idOrder, r.id)
		}
		return rows.Err()
	})
	if err != nil {
		log.Printf("catalog[%s]: lookup_courses failed: %v", reqID, err)
		return nil, fmt.Errorf("lookup courses: %w", err)
	}
	if len(idOrder) == 0 {
		return []domain.Course{}, nil
	}

	var nodeRows []requisiteNodeRow
	var g2 errgroup.Group
	g2.Go(func() error {
		return withRetry(ctx, func() error {
			q := fmt.Sprintf(`
				SELECT id, course_id, parent_id, kind, leaf_course_name, leaf_subject,
				       leaf_number, relation, min_grade, severity, display_order
				FROM requisite_nodes
				WHERE course_id IN (%s)
				ORDER BY course_id, parent_id, display_order`, placeholders(len(idOrder)))
			idArgs := make([]any, len(idOrder))
			for i, id := range idOrder {
				idArgs[i] = id
			}
			rows, err := g.db.QueryContext(ctx, q, idArgs...)
			if err != nil {
				return err
			}
			defer rows.Close()
			nodeRows = nil
			for rows.Next() {
				var r requisiteNodeRow
				var parentID sql.NullInt64
				var leafSubject, leafNumber sql.NullString
				if err := rows.Scan(&r.id, &r.courseID, &parentID, &r.kind, &r.leafCourseName,
					&leafSubject, &leafNumber, &r.relation, &r.minGrade, &r.severity, &r.displayOrder); err != nil {
					return err
				}
				if parentID.Valid {
					v := int(parentID.Int64)
					r.parentID = &v
				}
				if leafSubject.Valid {
					r.leafSubject = &leafSubject.String
				}
				if leafNumber.Valid {
					r.leafNumber = &leafNumber.String
				}
				nodeRows = append(nodeRows, r)
			}
			return rows.Err()
		})
	})
	if err := g2.Wait(); err != nil {
		log.Printf("catalog[%s]: lookup requisite nodes failed: %v", reqID, err)
		return nil, fmt.Errorf("lookup requisite nodes: %w", err)
	}

	treesByCourse := assembleRequisiteTrees(nodeRows)

	if hasUnresolvedLeaf(treesByCourse) {
		subjects, err := g.Subjects(ctx)
		if err != nil {
			// Leave the leaves unresolved; the requisite engine treats
			// them as absent and surfaces a warning.
			log.Printf("catalog[%s]: subjects unavailable for leaf resolution: %v", reqID, err)
		} else {
			codes := subjectCodeIndex(subjects)
			for _, tree := range treesByCourse {
				resolveLeaves(tree, codes)
			}
		}
	}

	out := make([]domain.Course, 0, len(keys))
	for _, k := range keys {
		row, ok := rowByKey[k]
		if !ok {
			continue // unresolved keys silently omitted
		}
		c := domain.Course{Key: k, ID: row.id, Title: row.title}
		if tree, ok := treesByCourse[row.id]; ok {
			c.Requisite = &tree
		}
		out = append(out, c)
	}
	return out, nil
}

// assembleRequisiteTrees rebuilds the tagged-variant tree per course from
// its flat requisite_nodes rows.
func assembleRequisiteTrees(rows []requisiteNodeRow) map[int]domain.ReqNode {
	byID := map[int]*requisiteNodeRow{}
	childrenOf := map[int][]int{}
	rootsByCourse := map[int][]int{}
	for i := range rows {
		r := &rows[i]
		byID[r.id] = r
		if r.parentID != nil {
			childrenOf[*r.parentID] = append(childrenOf[*r.parentID], r.id)
		} else {
			rootsByCourse[r.courseID] = append(rootsByCourse[r.courseID], r.id)
		}
	}

	var build func(id int) domain.ReqNode
	build = func(id int) domain.ReqNode {
		r := byID[id]
		switch r.kind {
		case "LEAF":
			leaf := domain.ReqLeaf{
				CourseName: r.leafCourseName,
				MinGrade:   domain.Grade(r.minGrade),
			}
			if r.leafSubject != nil && r.leafNumber != nil {
				leaf.Course = domain.CourseKey{Subject: *r.leafSubject, Number: *r.leafNumber}
				leaf.Resolved = true
			}
			switch r.relation {
			case "COREQ":
				leaf.Relation = domain.Corequisite
			case "ANTIREQ":
				leaf.Relation = domain.Antirequisite
			default:
				leaf.Relation = domain.Prerequisite
			}
			if r.severity == "W" {
				leaf.Severity = domain.Warning
			} else {
				leaf.Severity = domain.Required
			}
			return domain.Leaf(leaf)
		case "OR":
			var children []domain.ReqNode
			for _, cid := range childrenOf[id] {
				children = append(children, build(cid))
			}
			return domain.Or(children...)
		default: // "AND"
			var children []domain.ReqNode
			for _, cid := range childrenOf[id] {
				children = append(children, build(cid))
			}
			return domain.And(children...)
		}
	}

	out := map[int]domain.ReqNode{}
	for courseID, rootIDs := range rootsByCourse {
		if len(rootIDs) == 1 {
			out[courseID] = build(rootIDs[0])
			continue
		}
		// Multiple top-level rows with no parent implicitly AND together.
		var children []domain.ReqNode
		for _, id := range rootIDs {
			children = append(children, build(id))
		}
		out[courseID] = domain.And(children...)
	}
	return out
}

// Subjects returns every subject row in the catalog, ordered by code.
func (g *SQLiteGateway) Subjects(ctx context.Context) ([]domain.Subject, error) {
	var subjects []domain.Subject
	err := withRetry(ctx, func() error {
		rows, err := g.db.QueryContext(ctx, `SELECT subject_id, code, long_name FROM subjects ORDER BY code`)
		if err != nil {
			return err
		}
		defer rows.Close()
		subjects = []domain.Subject{}
		for rows.Next() {
			var s domain.Subject
			if err := rows.Scan(&s.ID, &s.Code, &s.LongName); err != nil {
				return err
			}
			subjects = append(subjects, s)
		}
		return rows.Err()
	})
	if err != nil {
		return nil, fmt.Errorf("list subjects: %w", err)
	}
	return subjects, nil
}

// hasUnresolvedLeaf reports whether any tree carries a leaf whose course
// key was not stored alongside it, so a subject lookup is worth doing.
func hasUnresolvedLeaf(trees map[int]domain.ReqNode) bool {
	for _, tree := range trees {
		if treeHasUnresolved(tree) {
			return true
		}
	}
	return false
}

func treeHasUnresolved(n domain.ReqNode) bool {
	if n.Kind == domain.ReqKindLeaf {
		return n.Leaf != nil && !n.Leaf.Resolved
	}
	for _, c := range n.Children {
		if treeHasUnresolved(c) {
			return true
		}
	}
	return false
}

// subjectCodeIndex maps upper-cased subject codes and long names to the
// canonical subject code, so a leaf's "<Department> <number>" form can be
// resolved whichever way its department was written.
func subjectCodeIndex(subjects []domain.Subject) map[string]string {
	codes := map[string]string{}
	for _, s := range subjects {
		codes[strings.ToUpper(s.Code)] = s.Code
		if s.LongName != "" {
			codes[strings.ToUpper(s.LongName)] = s.Code
		}
	}
	return codes
}

// resolveLeaves fills in the course key of any leaf stored without one by
// splitting its human-readable name into a department and a number and
// matching the department against the subject table. A department that
// matches nothing stays unresolved.
func resolveLeaves(n domain.ReqNode, codes map[string]string) {
	if n.Kind == domain.ReqKindLeaf {
		leaf := n.Leaf
		if leaf == nil || leaf.Resolved {
			return
		}
		i := strings.LastIndex(leaf.CourseName, " ")
		if i <= 0 {
			return
		}
		dept := strings.ToUpper(strings.TrimSpace(leaf.CourseName[:i]))
		number := strings.TrimSpace(leaf.CourseName[i+1:])
		code, ok := codes[dept]
		if !ok || number == "" {
			return
		}
		leaf.Course = domain.CourseKey{Subject: code, Number: number}
		leaf.Resolved = true
		return
	}
	for _, c := range n.Children {
		resolveLeaves(c, codes)
	}
}

// SectionsFor fetches all sections (with meetings and instructors) for the
// given courses, across every term.
func (g *SQLiteGateway) SectionsFor(ctx context.Context, keys []domain.CourseKey) ([]domain.Section, error) {
	if len(keys) == 0 {
		return []domain.Section{}, nil
	}
	reqID := uuid.NewString()
	log.Printf("catalog[%s]: sections_for batch of %d key(s)", reqID, len(keys))
	courses, err := g.LookupCourses(ctx, keys)
	if err != nil {
		return nil, err
	}
	if len(courses) == 0 {
		return []domain.Section{}, nil
	}
	idToKey := map[int]domain.CourseKey{}
	ids := make([]any, 0, len(courses))
	for _, c := range courses {
		idToKey[c.ID] = c.Key
		ids = append(ids, c.ID)
	}

	type sectionRow struct {
		id            int
		courseID      int
		season        string
		year          int
		code          string
		isPrimary     int
		activity      string
		enrollCap     int
		enrollTotal   int
		waitlistCap   int
		waitlistTotal int
	}
	var secRows []sectionRow

	err = withRetry(ctx, func() error {
		q := fmt.Sprintf(`
			SELECT section_id, course_id, season, year, code, is_primary, activity,
			       enrollment_cap, enrollment_total, waitlist_cap, waitlist_total
			FROM sections WHERE course_id IN (%s)
			ORDER BY course_id, season, year, code`, placeholders(len(ids)))
		rows, err := g.db.QueryContext(ctx, q, ids...)
		if err != nil {
			return err
		}
		defer rows.Close()
		secRows = nil
		for rows.Next() {
			var r sectionRow
			if err := rows.Scan(&r.id, &r.courseID, &r.season, &r.year, &r.code, &r.isPrimary,
				&r.activity, &r.enrollCap, &r.enrollTotal, &r.waitlistCap, &r.waitlistTotal); err != nil {
				return err
			}
			secRows = append(secRows, r)
		}
		return rows.Err()
	})
	if err != nil {
		log.Printf("catalog[%s]: sections_for failed: %v", reqID, err)
		return nil, fmt.Errorf("sections for courses: %w", err)
	}
	if len(secRows) == 0 {
		return []domain.Section{}, nil
	}

	sectionIDs := make([]any, len(secRows))
	idIndex := map[int]int{}
	for i, r := range secRows {
		sectionIDs[i] = r.id
		idIndex[r.id] = i
	}

	meetingsBySection := map[int][]domain.MeetingSlot{}
	instructorsBySection := map[int][]domain.Instructor{}
	var eg errgroup.Group
	eg.Go(func() error {
		return withRetry(ctx, func() error {
			q := fmt.Sprintf(`
				SELECT section_id, days, start_min, end_min, building, room
				FROM meetings WHERE section_id IN (%s)
				ORDER BY section_id, meeting_id`, placeholders(len(sectionIDs)))
			rows, err := g.db.QueryContext(ctx, q, sectionIDs...)
			if err != nil {
				return err
			}
			defer rows.Close()
			meetingsBySection = map[int][]domain.MeetingSlot{}
			for rows.Next() {
				var sectionID, start, end int
				var days, building, room string
				if err := rows.Scan(&sectionID, &days, &start, &end, &building, &room); err != nil {
					return err
				}
				meetingsBySection[sectionID] = append(meetingsBySection[sectionID], domain.MeetingSlot{
					Days: domain.ParseDaySet(days), Start: domain.ClockMinutes(start),
					End: domain.ClockMinutes(end), Building: building, Room: room,
				})
			}
			return rows.Err()
		})
	})
	eg.Go(func() error {
		return withRetry(ctx, func() error {
			q := fmt.Sprintf(`
				SELECT si.section_id, i.instructor_id, i.name
				FROM section_instructors si
				JOIN instructors i ON i.instructor_id = si.instructor_id
				WHERE si.section_id IN (%s)
				ORDER BY si.section_id, i.name`, placeholders(len(sectionIDs)))
			rows, err := g.db.QueryContext(ctx, q, sectionIDs...)
			if err != nil {
				return err
			}
			defer rows.Close()
			instructorsBySection = map[int][]domain.Instructor{}
			for rows.Next() {
				var sectionID, instructorID int
				var name string
				if err := rows.Scan(&sectionID, &instructorID, &name); err != nil {
					return err
				}
				instructorsBySection[sectionID] = append(instructorsBySection[sectionID], domain.Instructor{ID: instructorID, Name: name})
			}
			return rows.Err()
		})
	})
	if err := eg.Wait(); err != nil {
		log.Printf("catalog[%s]: section meetings/instructors failed: %v", reqID, err)
		return nil, fmt.Errorf("section meetings/instructors: %w", err)
	}

	out := make([]domain.Section, 0, len(secRows))
	for _, r := range secRows {
		season, ok := domain.ParseSeason(r.season)
		if !ok {
			continue
		}
		out = append(out, domain.Section{
			ID:              r.id,
			CourseKey:       idToKey[r.courseID],
			Term:            domain.Term{Season: season, Year: r.year},
			Code:            r.code,
			Primary:         r.isPrimary != 0,
			Activity:        r.activity,
			EnrollmentCap:   r.enrollCap,
			EnrollmentTotal: r.enrollTotal,
			WaitlistCap:     r.waitlistCap,
			WaitlistTotal:   r.waitlistTotal,
			Meetings:        meetingsBySection[r.id],
			Instructors:     instructorsBySection[r.id],
		})
	}
	return out, nil
}

// OfferingTerms returns the set of terms key has at least one usable
// section in.
func (g *SQLiteGateway) OfferingTerms(ctx context.Context, key domain.CourseKey) (map[domain.Term]bool, error) {
	sections, err := g.SectionsFor(ctx, []domain.CourseKey{key})
	if err != nil {
		return nil, err
	}
	out := map[domain.Term]bool{}
	for _, s := range sections {
		if s.Usable() {
			out[s.Term] = true
		}
	}
	return out, nil
}

// AllTerms returns every term identifier in the canonical term table,
// ascending.
func (g *SQLiteGateway) AllTerms(ctx context.Context) ([]domain.Term, error) {
	var terms []domain.Term
	err := withRetry(ctx, func() error {
		rows, err := g.db.QueryContext(ctx, `SELECT season, year FROM terms`)
		if err != nil {
			return err
		}
		defer rows.Close()
		terms = nil
		for rows.Next() {
			var season string
			var year int
			if err := rows.Scan(&season, &year); err != nil {
				return err
			}
			s, ok := domain.ParseSeason(season)
			if !ok {
				continue
			}
			terms = append(terms, domain.Term{Season: s, Year: year})
		}
		return rows.Err()
	})
	if err != nil {
		return nil, fmt.Errorf("list terms: %w", err)
	}
	sort.Slice(terms, func(i, j int) bool { return terms[i].Before(terms[j]) })
	return terms, nil
}
