// Package planner implements the term-by-term course placement engine:
// given the transitive closure of required courses, the clause chosen for
// each, and the offering index, it assigns each course to a term honoring
// requisite ordering, offering availability, and per-term load bounds,
// delegating to the first-term section selector for the earliest term.
package planner

import (
	"bruinplan/internal/domain"
	"bruinplan/internal/sectionselect"
)

// TermEntry is one term's placement outcome.
type TermEntry struct {
	Term domain.Term
	// Detailed is true only for the earliest term in the window, whose
	// wire representation is a course-key -> {lecture, discussion} map
	// rather than a plain ordered list.
	Detailed bool
	// Courses holds the non-FILLER courses placed this term, in
	// insertion order.
	Courses []domain.CourseKey
	// FillerCount is the number of FILLER padding slots added to reach
	// min-per-term.
	FillerCount int
	// Picks holds the selected lecture/discussion pairing per course;
	// populated only when Detailed.
	Picks map[domain.CourseKey]sectionselect.Pick
}

// Load is the total entry count (non-FILLER + FILLER) this term carries.
func (e TermEntry) Load() int {
	return len(e.Courses) + e.FillerCount
}

// Schedule is the ordered term-by-term outcome of planning.
type Schedule struct {
	Entries []TermEntry
}

// EntryFor returns the TermEntry for t, or ok=false if t is outside the
// plan.
func (s Schedule) EntryFor(t domain.Term) (TermEntry, bool) {
	for _, e := range s.Entries {
		if e.Term.Equal(t) {
			return e, true
		}
	}
	return TermEntry{}, false
}

// Contains reports whether key is placed (non-FILLER) anywhere in the
// schedule, and in which term.
func (s Schedule) Contains(key domain.CourseKey) (domain.Term, bool) {
	for _, e := range s.Entries {
		for _, c := range e.Courses {
			if c == key {
				return e.Term, true
			}
		}
	}
	return domain.Term{}, false
}

// IndexOf returns the slice index of the entry for t, for direct mutation
// via s.Entries[i]. ok is false if t is outside the plan.
func (s Schedule) IndexOf(t domain.Term) (int, bool) {
	for i, e := range s.Entries {
		if e.Term.Equal(t) {
			return i, true
		}
	}
	return -1, false
}

// Clone returns a deep copy of s, safe for speculative mutation before a
// commit decision — the editor validates every operation on a clone and
// only ever returns the original schedule on failure.
func (s Schedule) Clone() Schedule {
	entries := make([]TermEntry, len(s.Entries))
	for i, e := range s.Entries {
		entries[i] = e.clone()
	}
	return Schedule{Entries: entries}
}

func (e TermEntry) clone() TermEntry {
	courses := append([]domain.CourseKey(nil), e.Courses...)
	var picks map[domain.CourseKey]sectionselect.Pick
	if e.Picks != nil {
		picks = make(map[domain.CourseKey]sectionselect.Pick, len(e.Picks))
		for k, v := range e.Picks {
			picks[k] = v
		}
	}
	return TermEntry{Term: e.Term, Detailed: e.Detailed, Courses: courses, FillerCount: e.FillerCount, Picks: picks}
}
