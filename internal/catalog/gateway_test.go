package catalog

import (
	"context"
	"testing"

	"bruinplan/internal/domain"
)

// newTestGateway opens an in-memory SQLite database; Open applies
// schemaDDL itself, so no external schema fixture is needed.
func newTestGateway(t *testing.T) *SQLiteGateway {
	t.Helper()
	gw, err := Open(":memory:")
	if err != nil {
		t.Fatalf("open test gateway: %v", err)
	}
	t.Cleanup(func() { gw.Close() })
	return gw
}

func insertCourse(t *testing.T, gw *SQLiteGateway, subject, number, title string) int64 {
	t.Helper()
	res, err := gw.db.Exec(`INSERT INTO courses(subject_code, catalog_number, title) VALUES (?, ?, ?)`,
		subject, number, title)
	if err != nil {
		t.Fatalf("insert course: %v", err)
	}
	id, _ := res.LastInsertId()
	return id
}

func TestLookupCourses_ResolvesKeysAndOmitsMissing(t *testing.T) {
	gw := newTestGateway(t)
	insertCourse(t, gw, "COM SCI", "31", "Intro to Computer Science I")
	insertCourse(t, gw, "COM SCI", "32", "Intro to Computer Science II")

	out, err := gw.LookupCourses(context.Background(), []domain.CourseKey{
		{Subject: "COM SCI", Number: "31"},
		{Subject: "COM SCI", Number: "999"}, // does not exist
	})
	if err != nil {
		t.Fatalf("LookupCourses: %v", err)
	}
	if len(out) != 1 {
		t.Fatalf("expected 1 resolved course, got %d", len(out))
	}
	if out[0].Title != "Intro to Computer Science I" {
		t.Fatalf("unexpected title %q", out[0].Title)
	}
}

func TestLookupCourses_AssemblesAndOrRequisiteTree(t *testing.T) {
	gw := newTestGateway(t)
	csID := insertCourse(t, gw, "COM SCI", "32", "Intro to Computer Science II")
	insertCourse(t, gw, "COM SCI", "31", "Intro to Computer Science I")
	insertCourse(t, gw, "MATH", "31A", "Differential and Integral Calculus")

	// ROOT (AND)
	//   OR
	//     LEAF COM SCI 31
	//     LEAF MATH 31A
	res, err := gw.db.Exec(`INSERT INTO requisite_nodes(course_id, parent_id, kind, leaf_course_name, display_order)
		VALUES (?, NULL, 'AND', '', 0)`, csID)
	if err != nil {
		t.Fatalf("insert root node: %v", err)
	}
	rootID, _ := res.LastInsertId()

	res, err = gw.db.Exec(`INSERT INTO requisite_nodes(course_id, parent_id, kind, leaf_course_name, display_order)
		VALUES (?, ?, 'OR', '', 0)`, csID, rootID)
	if err != nil {
		t.Fatalf("insert or node: %v", err)
	}
	orID, _ := res.LastInsertId()

	_, err = gw.db.Exec(`INSERT INTO requisite_nodes(course_id, parent_id, kind, leaf_course_name, leaf_subject, leaf_number, display_order)
		VALUES (?, ?, 'LEAF', 'COM SCI 31', 'COM SCI', '31', 0)`, csID, orID)
	if err != nil {
		t.Fatalf("insert leaf 1: %v", err)
	}
	_, err = gw.db.Exec(`INSERT INTO requisite_nodes(course_id, parent_id, kind, leaf_course_name, leaf_subject, leaf_number, display_order)
		VALUES (?, ?, 'LEAF', 'MATH 31A', 'MATH', '31A', 1)`, csID, orID)
	if err != nil {
		t.Fatalf("insert leaf 2: %v", err)
	}

	out, err := gw.LookupCourses(context.Background(), []domain.CourseKey{{Subject: "COM SCI", Number: "32"}})
	if err != nil {
		t.Fatalf("LookupCourses: %v", err)
	}
	if len(out) != 1 {
		t.Fatalf("expected 1 course, got %d", len(out))
	}
	tree := out[0].Requisite
	if tree == nil {
		t.Fatalf("expected a requisite tree")
	}
	if tree.Kind != domain.ReqKindAnd || len(tree.Children) != 1 {
		t.Fatalf("expected single-child AND root, got %+v", tree)
	}
	or := tree.Children[0]
	if or.Kind != domain.ReqKindOr || len(or.Children) != 2 {
		t.Fatalf("expected 2-child OR, got %+v", or)
	}
	if !or.Children[0].Leaf.Resolved || or.Children[0].Leaf.Course.Number != "31" {
		t.Fatalf("unexpected first leaf %+v", or.Children[0].Leaf)
	}
}

func TestSubjects_ReturnsRowsOrderedByCode(t *testing.T) {
	gw := newTestGateway(t)
	if _, err := gw.db.Exec(`INSERT INTO subjects(code, long_name) VALUES ('MATH', 'Mathematics'), ('COM SCI', 'Computer Science')`); err != nil {
		t.Fatalf("insert subjects: %v", err)
	}

	subjects, err := gw.Subjects(context.Background())
	if err != nil {
		t.Fatalf("Subjects: %v", err)
	}
	if len(subjects) != 2 {
		t.Fatalf("expected 2 subjects, got %d", len(subjects))
	}
	if subjects[0].Code != "COM SCI" || subjects[0].LongName != "Computer Science" {
		t.Fatalf("unexpected first subject %+v", subjects[0])
	}
}

func TestLookupCourses_ResolvesLeafDepartmentViaSubjects(t *testing.T) {
	gw := newTestGateway(t)
	csID := insertCourse(t, gw, "COM SCI", "32", "Intro to Computer Science II")
	insertCourse(t, gw, "COM SCI", "31", "Intro to Computer Science I")
	if _, err := gw.db.Exec(`INSERT INTO subjects(code, long_name) VALUES ('COM SCI', 'Computer Science')`); err != nil {
		t.Fatalf("insert subject: %v", err)
	}

	// A leaf stored by human-readable department name only, no resolved
	// subject/number columns.
	if _, err := gw.db.Exec(`INSERT INTO requisite_nodes(course_id, parent_id, kind, leaf_course_name, display_order)
		VALUES (?, NULL, 'LEAF', 'Computer Science 31', 0)`, csID); err != nil {
		t.Fatalf("insert leaf: %v", err)
	}

	out, err := gw.LookupCourses(context.Background(), []domain.CourseKey{{Subject: "COM SCI", Number: "32"}})
	if err != nil {
		t.Fatalf("LookupCourses: %v", err)
	}
	if len(out) != 1 || out[0].Requisite == nil {
		t.Fatalf("expected a course with a requisite tree, got %+v", out)
	}
	leaf := out[0].Requisite.Leaf
	if leaf == nil || !leaf.Resolved {
		t.Fatalf("expected the leaf resolved via the subject table, got %+v", leaf)
	}
	if leaf.Course != (domain.CourseKey{Subject: "COM SCI", Number: "31"}) {
		t.Fatalf("unexpected resolved key %+v", leaf.Course)
	}
}

func TestLookupCourses_UnknownLeafDepartmentStaysUnresolved(t *testing.T) {
	gw := newTestGateway(t)
	csID := insertCourse(t, gw, "COM SCI", "32", "Intro to Computer Science II")
	if _, err := gw.db.Exec(`INSERT INTO requisite_nodes(course_id, parent_id, kind, leaf_course_name, display_order)
		VALUES (?, NULL, 'LEAF', 'Underwater Basket Weaving 31', 0)`, csID); err != nil {
		t.Fatalf("insert leaf: %v", err)
	}

	out, err := gw.LookupCourses(context.Background(), []domain.CourseKey{{Subject: "COM SCI", Number: "32"}})
	if err != nil {
		t.Fatalf("LookupCourses: %v", err)
	}
	leaf := out[0].Requisite.Leaf
	if leaf == nil || leaf.Resolved {
		t.Fatalf("expected the unknown department to stay unresolved, got %+v", leaf)
	}
}

func TestSectionsFor_LoadsMeetingsAndInstructors(t *testing.T) {
	gw := newTestGateway(t)
	csID := insertCourse(t, gw, "COM SCI", "35L", "Software Construction Lab")

	res, err := gw.db.Exec(`INSERT INTO sections(course_id, season, year, code, is_primary, activity,
		enrollment_cap, enrollment_total, waitlist_cap, waitlist_total)
		VALUES (?, 'Fall', 2025, '1A-LEC', 1, 'LEC', 200, 150, 20, 0)`, csID)
	if err != nil {
		t.Fatalf("insert section: %v", err)
	}
	sectionID, _ := res.LastInsertId()

	if _, err := gw.db.Exec(`INSERT INTO meetings(section_id, days, start_min, end_min, building, room)
		VALUES (?, 'MWF', 600, 650, 'Boelter', '3400')`, sectionID); err != nil {
		t.Fatalf("insert meeting: %v", err)
	}
	res, err = gw.db.Exec(`INSERT INTO instructors(name) VALUES ('Paul Eggert')`)
	if err != nil {
		t.Fatalf("insert instructor: %v", err)
	}
	instructorID, _ := res.LastInsertId()
	if _, err := gw.db.Exec(`INSERT INTO section_instructors(section_id, instructor_id) VALUES (?, ?)`,
		sectionID, instructorID); err != nil {
		t.Fatalf("insert section_instructor: %v", err)
	}

	out, err := gw.SectionsFor(context.Background(), []domain.CourseKey{{Subject: "COM SCI", Number: "35L"}})
	if err != nil {
		t.Fatalf("SectionsFor: %v", err)
	}
	if len(out) != 1 {
		t.Fatalf("expected 1 section, got %d", len(out))
	}
	s := out[0]
	if len(s.Meetings) != 1 || s.Meetings[0].Building != "Boelter" {
		t.Fatalf("unexpected meetings %+v", s.Meetings)
	}
	if len(s.Instructors) != 1 || s.Instructors[0].Name != "Paul Eggert" {
		t.Fatalf("unexpected instructors %+v", s.Instructors)
	}
	if !s.Usable() {
		t.Fatalf("expected section with enrollment room to be usable")
	}
}

func TestOfferingTerms_OnlyUsableSections(t *testing.T) {
	gw := newTestGateway(t)
	csID := insertCourse(t, gw, "COM SCI", "31", "Intro to Computer Science I")

	if _, err := gw.db.Exec(`INSERT INTO sections(course_id, season, year, code, is_primary, activity,
		enrollment_cap, enrollment_total, waitlist_cap, waitlist_total)
		VALUES (?, 'Fall', 2025, '1A-LEC', 1, 'LEC', 100, 100, 10, 10)`, csID); err != nil {
		t.Fatalf("insert full section: %v", err)
	}
	if _, err := gw.db.Exec(`INSERT INTO sections(course_id, season, year, code, is_primary, activity,
		enrollment_cap, enrollment_total, waitlist_cap, waitlist_total)
		VALUES (?, 'Winter', 2026, '1A-LEC', 1, 'LEC', 100, 80, 10, 0)`, csID); err != nil {
		t.Fatalf("insert open section: %v", err)
	}

	terms, err := gw.OfferingTerms(context.Background(), domain.CourseKey{Subject: "COM SCI", Number: "31"})
	if err != nil {
		t.Fatalf("OfferingTerms: %v", err)
	}
	if terms[domain.Term{Season: domain.Fall, Year: 2025}] {
		t.Fatalf("full section should not count as offered")
	}
	if !terms[domain.Term{Season: domain.Winter, Year: 2026}] {
		t.Fatalf("open section should count as offered")
	}
}
