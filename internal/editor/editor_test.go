package editor

import (
	"context"
	"reflect"
	"testing"

	"bruinplan/internal/domain"
	"bruinplan/internal/planner"
	"bruinplan/internal/sectionselect"
)

func keyOf(num string) domain.CourseKey {
	return domain.CourseKey{Subject: "COM SCI", Number: num}
}

type stubSource struct {
	sections map[domain.CourseKey][]domain.Section
}

func (s stubSource) SectionsFor(ctx context.Context, keys []domain.CourseKey) ([]domain.Section, error) {
	var out []domain.Section
	for _, k := range keys {
		out = append(out, s.sections[k]...)
	}
	return out, nil
}

func lectureAndDiscussion(key domain.CourseKey, term domain.Term) []domain.Section {
	return []domain.Section{
		{ID: 1, CourseKey: key, Term: term, Code: "1A-LEC", Primary: true, EnrollmentCap: 200},
		{ID: 2, CourseKey: key, Term: term, Code: "1A-DIS1", Primary: false, EnrollmentCap: 30},
	}
}

func cs32RequiresCs31Lookup() func(domain.CourseKey) (domain.Course, bool) {
	cs31, cs32 := keyOf("31"), keyOf("32")
	courses := map[domain.CourseKey]domain.Course{
		cs31: {Key: cs31, Title: "Intro to Computer Science I"},
		cs32: {
			Key: cs32, Title: "Intro to Computer Science II",
			Requisite: reqPtr(domain.Leaf(domain.ReqLeaf{
				CourseName: "COM SCI 31", Course: cs31, Resolved: true,
				Relation: domain.Prerequisite, MinGrade: "D-", Severity: domain.Required,
			})),
		},
	}
	return func(k domain.CourseKey) (domain.Course, bool) {
		c, ok := courses[k]
		return c, ok
	}
}

func reqPtr(n domain.ReqNode) *domain.ReqNode { return &n }

func TestSwap_RejectsPrerequisiteViolation(t *testing.T) {
	fall := domain.Term{Season: domain.Fall, Year: 2024}
	winter := domain.Term{Season: domain.Winter, Year: 2025}
	cs31, cs32 := keyOf("31"), keyOf("32")

	sched := planner.Schedule{Entries: []planner.TermEntry{
		{
			Term: fall, Detailed: true, Courses: []domain.CourseKey{cs31},
			Picks: map[domain.CourseKey]sectionselect.Pick{
				cs31: sectionselect.PickOne(domain.Preferences{}, fall, lectureAndDiscussion(cs31, fall)),
			},
		},
		{Term: winter, Courses: []domain.CourseKey{cs32}},
	}}

	cfg := Config{EarliestTerm: fall}
	src := stubSource{sections: map[domain.CourseKey][]domain.Section{
		cs31: lectureAndDiscussion(cs31, winter),
		cs32: lectureAndDiscussion(cs32, fall),
	}}

	result := Swap(context.Background(), cfg, sched, domain.Transcript{}, cs32RequiresCs31Lookup(), src, cs31, fall, cs32, winter)

	if result.Success {
		t.Fatalf("expected swap to fail: placing COM SCI 32 before its prerequisite must be rejected")
	}
	if result.Reason != ReasonRequisiteUnmet {
		t.Fatalf("expected requisite-unmet, got %v: %s", result.Reason, result.Message)
	}
	if !reflect.DeepEqual(result.Schedule, sched) {
		t.Fatalf("schedule must be byte-identical to the pre-operation schedule on failure")
	}
}

func TestMove_SucceedsWhenOrderingPreserved(t *testing.T) {
	fall := domain.Term{Season: domain.Fall, Year: 2024}
	winter := domain.Term{Season: domain.Winter, Year: 2025}
	spring := domain.Term{Season: domain.Spring, Year: 2025}
	cs31, cs32 := keyOf("31"), keyOf("32")

	sched := planner.Schedule{Entries: []planner.TermEntry{
		{
			Term: fall, Detailed: true, Courses: []domain.CourseKey{cs31},
			Picks: map[domain.CourseKey]sectionselect.Pick{
				cs31: sectionselect.PickOne(domain.Preferences{}, fall, lectureAndDiscussion(cs31, fall)),
			},
		},
		{Term: winter, Courses: []domain.CourseKey{cs32}},
		{Term: spring, Courses: nil},
	}}

	cfg := Config{EarliestTerm: fall}
	src := stubSource{sections: map[domain.CourseKey][]domain.Section{
		cs32: lectureAndDiscussion(cs32, winter),
	}}

	// Moving COM SCI 32 from Winter to Spring keeps it after its already
	// passed/placed prerequisite, so it should succeed.
	result := Move(context.Background(), cfg, sched, domain.Transcript{}, cs32RequiresCs31Lookup(), src, cs32, winter, spring)
	if !result.Success {
		t.Fatalf("expected move to succeed, got failure: %s", result.Message)
	}
	springTerm, ok := result.Schedule.Contains(cs32)
	if !ok || !springTerm.Equal(spring) {
		t.Fatalf("expected COM SCI 32 moved to Spring 2025, got %v", springTerm)
	}
}

func TestChangeSection_RejectedOutsideEarliestTerm(t *testing.T) {
	fall := domain.Term{Season: domain.Fall, Year: 2024}
	winter := domain.Term{Season: domain.Winter, Year: 2025}
	cs32 := keyOf("32")

	sched := planner.Schedule{Entries: []planner.TermEntry{
		{Term: fall, Detailed: true, Courses: nil},
		{Term: winter, Courses: []domain.CourseKey{cs32}},
	}}
	cfg := Config{EarliestTerm: fall}
	newID := 1
	result := ChangeSection(context.Background(), cfg, sched, stubSource{}, cs32, winter, &newID, nil)
	if result.Success {
		t.Fatalf("expected change_section outside the earliest term to be rejected")
	}
	if result.Reason != ReasonOperationInvalid {
		t.Fatalf("expected operation-invalid reason, got %v", result.Reason)
	}
}
