// Package editor implements the schedule editor: move, swap, and
// change_section mutations, each applied to a temporary copy of the
// schedule and committed only if its re-checks pass. Move and swap
// re-check requisite ordering across the whole schedule and time conflicts
// in any touched detailed term; change_section re-checks time conflicts.
// Load bounds and offering terms are not re-checked.
package editor

import (
	"context"

	"bruinplan/internal/domain"
	"bruinplan/internal/planner"
	"bruinplan/internal/requisite"
	"bruinplan/internal/sectionselect"
)

// Reason names the failure class of a rejected operation.
type Reason string

const (
	ReasonNone                  Reason = ""
	ReasonInvalidTerm           Reason = "invalid-term"
	ReasonCourseMissingInTerm   Reason = "course-missing-in-term"
	ReasonRequisiteUnmet        Reason = "requisite-unmet"
	ReasonTimeConflict          Reason = "time-conflict"
	ReasonSectionNotFound       Reason = "section-not-found"
	ReasonOperationInvalid      Reason = "operation-on-non-earliest-term-for-section-change"
)

// Result is the outcome of an editor operation.
type Result struct {
	Success  bool
	Message  string
	Reason   Reason
	Schedule planner.Schedule
}

// SectionSource is the narrow slice of the catalog gateway the editor
// needs to re-fetch sections for a course being moved into, or
// re-pointed within, the detailed term.
type SectionSource interface {
	SectionsFor(ctx context.Context, keys []domain.CourseKey) ([]domain.Section, error)
}

// Config bundles the preference/conflict-policy bundle and the identity
// of the earliest (detailed) term, threaded explicitly rather than held
// as package state.
type Config struct {
	Preferences  domain.Preferences
	EarliestTerm domain.Term
}

func fail(original planner.Schedule, reason Reason, message string) Result {
	return Result{Success: false, Message: message, Reason: reason, Schedule: original}
}

func succeed(updated planner.Schedule, message string) Result {
	return Result{Success: true, Message: message, Schedule: updated}
}

// removeCourse deletes key from entry.Courses (and its Picks entry, if
// any) in place. ok is false if key was not present.
func removeCourse(entries []planner.TermEntry, idx int, key domain.CourseKey) bool {
	e := &entries[idx]
	for i, c := range e.Courses {
		if c == key {
			e.Courses = append(e.Courses[:i], e.Courses[i+1:]...)
			if e.Picks != nil {
				delete(e.Picks, key)
			}
			return true
		}
	}
	return false
}

// addCourse appends key to entry.Courses; if the entry is detailed, it
// also selects a lecture/discussion pairing via src.
func addCourse(ctx context.Context, cfg Config, entries []planner.TermEntry, idx int, key domain.CourseKey, src SectionSource) error {
	e := &entries[idx]
	e.Courses = append(e.Courses, key)
	if !e.Detailed {
		return nil
	}
	sections, err := src.SectionsFor(ctx, []domain.CourseKey{key})
	if err != nil {
		return err
	}
	if e.Picks == nil {
		e.Picks = map[domain.CourseKey]sectionselect.Pick{}
	}
	e.Picks[key] = sectionselect.PickOne(cfg.Preferences, e.Term, sections)
	return nil
}

// Move relocates course from fromTerm to toTerm. It fails if either term
// is absent, the course is not in fromTerm, or validation fails after the
// tentative move; on success it returns the updated schedule, never
// mutating the caller's original.
func Move(ctx context.Context, cfg Config, sched planner.Schedule, transcript domain.Transcript, lookup requisite.CourseLookup, src SectionSource, course domain.CourseKey, fromTerm, toTerm domain.Term) Result {
	clone := sched.Clone()

	fromIdx, ok := clone.IndexOf(fromTerm)
	if !ok {
		return fail(sched, ReasonInvalidTerm, "from_term is not in the schedule")
	}
	toIdx, ok := clone.IndexOf(toTerm)
	if !ok {
		return fail(sched, ReasonInvalidTerm, "to_term is not in the schedule")
	}
	if !removeCourse(clone.Entries, fromIdx, course) {
		return fail(sched, ReasonCourseMissingInTerm, "course is not placed in from_term")
	}
	if err := addCourse(ctx, cfg, clone.Entries, toIdx, course, src); err != nil {
		return fail(sched, ReasonInvalidTerm, "could not fetch sections for the destination term: "+err.Error())
	}

	return validateAndCommit(cfg, sched, clone, transcript, lookup, []int{fromIdx, toIdx}, "moved")
}

// Swap exchanges courseA (in termA) with courseB (in termB).
func Swap(ctx context.Context, cfg Config, sched planner.Schedule, transcript domain.Transcript, lookup requisite.CourseLookup, src SectionSource, courseA domain.CourseKey, termA domain.Term, courseB domain.CourseKey, termB domain.Term) Result {
	clone := sched.Clone()

	idxA, ok := clone.IndexOf(termA)
	if !ok {
		return fail(sched, ReasonInvalidTerm, "term1 is not in the schedule")
	}
	idxB, ok := clone.IndexOf(termB)
	if !ok {
		return fail(sched, ReasonInvalidTerm, "term2 is not in the schedule")
	}
	if !removeCourse(clone.Entries, idxA, courseA) {
		return fail(sched, ReasonCourseMissingInTerm, "course1 is not placed in term1")
	}
	if !removeCourse(clone.Entries, idxB, courseB) {
		return fail(sched, ReasonCourseMissingInTerm, "course2 is not placed in term2")
	}
	if err := addCourse(ctx, cfg, clone.Entries, idxB, courseA, src); err != nil {
		return fail(sched, ReasonInvalidTerm, "could not fetch sections: "+err.Error())
	}
	if err := addCourse(ctx, cfg, clone.Entries, idxA, courseB, src); err != nil {
		return fail(sched, ReasonInvalidTerm, "could not fetch sections: "+err.Error())
	}

	return validateAndCommit(cfg, sched, clone, transcript, lookup, []int{idxA, idxB}, "swapped")
}

// ChangeSection re-points course's lecture and/or discussion section in
// term, which must be the earliest (detailed) term. newPrimaryID and
// newSecondaryID are nil when that half of the pairing is left unchanged.
func ChangeSection(ctx context.Context, cfg Config, sched planner.Schedule, src SectionSource, course domain.CourseKey, term domain.Term, newPrimaryID, newSecondaryID *int) Result {
	if !term.Equal(cfg.EarliestTerm) {
		return fail(sched, ReasonOperationInvalid, "change_section is only legal in the earliest term")
	}

	clone := sched.Clone()
	idx, ok := clone.IndexOf(term)
	if !ok {
		return fail(sched, ReasonInvalidTerm, "term is not in the schedule")
	}
	entry := &clone.Entries[idx]
	found := false
	for _, c := range entry.Courses {
		if c == course {
			found = true
			break
		}
	}
	if !found {
		return fail(sched, ReasonCourseMissingInTerm, "course is not placed in term")
	}

	sections, err := src.SectionsFor(ctx, []domain.CourseKey{course})
	if err != nil {
		return fail(sched, ReasonSectionNotFound, "could not fetch sections: "+err.Error())
	}

	current := entry.Picks[course]
	updated := current
	if newPrimaryID != nil {
		sec, ok := findSection(sections, *newPrimaryID, true)
		if !ok {
			return fail(sched, ReasonSectionNotFound, "no such lecture section")
		}
		updated.Primary = sec
	}
	if newSecondaryID != nil {
		sec, ok := findSection(sections, *newSecondaryID, false)
		if !ok {
			return fail(sched, ReasonSectionNotFound, "no such discussion section")
		}
		updated.Secondary = sec
	}
	if entry.Picks == nil {
		entry.Picks = map[domain.CourseKey]sectionselect.Pick{}
	}
	entry.Picks[course] = updated

	if !sectionselect.ConflictsOK(cfg.Preferences, entry.Picks) {
		return fail(sched, ReasonTimeConflict, "new section choice conflicts with another selected section")
	}
	return succeed(clone, "section changed")
}

func findSection(sections []domain.Section, id int, primary bool) (*domain.Section, bool) {
	for i := range sections {
		if sections[i].ID == id && sections[i].Primary == primary {
			s := sections[i]
			return &s, true
		}
	}
	return nil, false
}

// validateAndCommit re-checks requisite ordering across the entire clone
// and, for any touched entry that is detailed, re-checks time conflicts;
// it returns the clone on success or the untouched original on failure.
func validateAndCommit(cfg Config, original, clone planner.Schedule, transcript domain.Transcript, lookup requisite.CourseLookup, touched []int, successMessage string) Result {
	if bad, reason, ok := validateRequisites(cfg, clone, transcript, lookup); !ok {
		return fail(original, ReasonRequisiteUnmet, "requisite violated for "+bad.String()+": "+reason)
	}
	for _, idx := range touched {
		e := clone.Entries[idx]
		if e.Detailed && !sectionselect.ConflictsOK(cfg.Preferences, e.Picks) {
			return fail(original, ReasonTimeConflict, "mutation introduces a time conflict in the earliest term")
		}
	}
	return succeed(clone, successMessage)
}

// validateRequisites checks requisite ordering over the whole schedule:
// for every placed course, every enforceable prerequisite/corequisite
// leaf of its chosen clause is either already passed, or placed earlier
// (prereq) / no later (coreq). FILLER and elective-placeholder keys are
// transparent.
func validateRequisites(cfg Config, sched planner.Schedule, transcript domain.Transcript, lookup requisite.CourseLookup) (domain.CourseKey, string, bool) {
	positions := map[domain.CourseKey]domain.Term{}
	for _, e := range sched.Entries {
		for _, c := range e.Courses {
			positions[c] = e.Term
		}
	}

	for _, e := range sched.Entries {
		for _, c := range e.Courses {
			if domain.IsPlaceholder(c.String()) {
				continue
			}
			course, ok := lookup(c)
			if !ok {
				continue
			}
			var tree domain.ReqNode
			if course.Requisite != nil {
				tree = *course.Requisite
			}
			clauses := requisite.ToDNF(tree)
			chosen, _ := requisite.ChooseClause(clauses, transcript)
			for _, leaf := range chosen {
				if !leaf.Resolved || !requisite.Enforceable(leaf, cfg.Preferences.AllowWarnings) {
					continue
				}
				if requisite.LeafSatisfied(leaf, transcript) {
					continue
				}
				placedTerm, placed := positions[leaf.Course]
				if !placed {
					return c, leaf.CourseName + " is neither passed nor placed", false
				}
				if leaf.Relation == domain.Corequisite {
					if placedTerm.After(e.Term) {
						return c, leaf.CourseName + " (corequisite) placed after " + c.String(), false
					}
					continue
				}
				if !placedTerm.Before(e.Term) {
					return c, leaf.CourseName + " (prerequisite) not placed strictly before " + c.String(), false
				}
			}
		}
	}
	return domain.CourseKey{}, "", true
}
