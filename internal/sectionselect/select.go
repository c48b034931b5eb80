// Package sectionselect implements the first-term section selector:
// for a candidate subset of courses, it picks the best lecture/discussion
// pairing per course against the active preference bundle, scores the
// subset, and evaluates it against the conflict policy.
package sectionselect

import (
	"sort"

	"bruinplan/internal/domain"
)

// Pick is the selected primary/secondary pairing for one course in the
// earliest term. Either field is nil if no matching section exists.
type Pick struct {
	Primary   *domain.Section
	Secondary *domain.Section
}

// Prefix is the scored outcome of selecting sections for one candidate
// subset ("prefix") of courses.
type Prefix struct {
	Courses    []domain.CourseKey
	Picks      map[domain.CourseKey]Pick
	Score      int
	ConflictOK bool
}

func withinWindow(t, lo, hi domain.ClockMinutes) bool {
	return t >= lo && t <= hi
}

// scoreSection sums the preference score for a single section: per-meeting
// time/building/day contributions, plus a single instructor bonus.
func scoreSection(pref domain.Preferences, s domain.Section) int {
	score := 0
	wTime := pref.AxisWeight(domain.AxisTime)
	wBuilding := pref.AxisWeight(domain.AxisBuilding)
	wDays := pref.AxisWeight(domain.AxisDays)
	wInstructor := pref.AxisWeight(domain.AxisInstructor)

	for _, m := range s.Meetings {
		if withinWindow(m.Start, pref.Earliest, pref.Latest) {
			score += wTime
		}
		if withinWindow(m.End, pref.Earliest, pref.Latest) {
			score += wTime
		}
		if pref.PreferredBuildings[m.Building] {
			score += wBuilding
		}
		if !m.Days.Intersects(pref.ForbiddenDays) {
			score += wDays
		}
	}
	for _, inst := range s.Instructors {
		if pref.PreferredInstructors[inst.Name] {
			score += wInstructor
			break
		}
	}
	return score
}

// bestSection returns the highest-scoring section among candidates, ties
// broken by section code for determinism. Returns nil if candidates is
// empty.
func bestSection(pref domain.Preferences, candidates []domain.Section) *domain.Section {
	if len(candidates) == 0 {
		return nil
	}
	sorted := append([]domain.Section(nil), candidates...)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].Code < sorted[j].Code })
	best := sorted[0]
	bestScore := scoreSection(pref, best)
	for _, c := range sorted[1:] {
		if s := scoreSection(pref, c); s > bestScore {
			best, bestScore = c, s
		}
	}
	return &best
}

// pickForCourse selects the best primary section in term, then the best
// secondary section constrained to sharing the primary's code prefix. A
// primary that meets on a forbidden day is passed over whenever another
// primary avoids those days. If no primary exists, the course is skipped:
// both fields stay nil.
func pickForCourse(pref domain.Preferences, term domain.Term, sections []domain.Section) Pick {
	var primaries, secondaries []domain.Section
	for _, s := range sections {
		if !s.Term.Equal(term) {
			continue
		}
		if s.Primary {
			primaries = append(primaries, s)
		} else {
			secondaries = append(secondaries, s)
		}
	}
	var allowed []domain.Section
	for _, s := range primaries {
		ok := true
		for _, m := range s.Meetings {
			if m.Days.Intersects(pref.ForbiddenDays) {
				ok = false
				break
			}
		}
		if ok {
			allowed = append(allowed, s)
		}
	}
	if len(allowed) > 0 {
		primaries = allowed
	}
	primary := bestSection(pref, primaries)
	if primary == nil {
		return Pick{}
	}
	prefix := domain.CodePrefix(primary.Code)
	var matching []domain.Section
	for _, s := range secondaries {
		if domain.CodePrefix(s.Code) == prefix {
			matching = append(matching, s)
		}
	}
	return Pick{Primary: primary, Secondary: bestSection(pref, matching)}
}

// PickOne selects the best primary/secondary pairing for a single course
// from its sections, independent of any prefix. Used by the editor when a
// mutation moves a course into the detailed term without re-scoring every
// other course already there.
func PickOne(pref domain.Preferences, term domain.Term, sections []domain.Section) Pick {
	return pickForCourse(pref, term, sections)
}

// ConflictsOK reports whether, under pref's conflict-allowance policy, no
// pair of distinct courses' selected sections in picks conflicts. Course
// order does not affect the result.
func ConflictsOK(pref domain.Preferences, picks map[domain.CourseKey]Pick) bool {
	courses := make([]domain.CourseKey, 0, len(picks))
	for k := range picks {
		courses = append(courses, k)
	}
	return conflictsOK(pref, courses, picks)
}

// Select scores and validates one candidate course subset against the
// earliest term's sections. sectionsByCourse supplies every section (any
// term) for each course; only sections in term are considered.
func Select(pref domain.Preferences, term domain.Term, courses []domain.CourseKey, sectionsByCourse map[domain.CourseKey][]domain.Section) Prefix {
	picks := make(map[domain.CourseKey]Pick, len(courses))
	for _, key := range courses {
		picks[key] = pickForCourse(pref, term, sectionsByCourse[key])
	}

	total := 0
	for _, key := range courses {
		p := picks[key]
		courseScore := 0
		if p.Primary != nil {
			courseScore += scoreSection(pref, *p.Primary)
		}
		if p.Secondary != nil {
			courseScore += scoreSection(pref, *p.Secondary)
		}
		if courseScore < 0 {
			courseScore = 0
		}
		total += courseScore
	}

	return Prefix{Courses: courses, Picks: picks, Score: total, ConflictOK: conflictsOK(pref, courses, picks)}
}

type taggedMeeting struct {
	courseKey domain.CourseKey
	primary   bool
	section   domain.Section
}

// conflictsOK applies the conflict policy: primary-vs-primary overlaps
// across different courses are forbidden unless allow-primary-conflicts;
// any overlap involving a secondary, across different courses, is
// forbidden unless allow-secondary-conflicts. A course's own
// primary/secondary pairing is never checked against itself.
func conflictsOK(pref domain.Preferences, courses []domain.CourseKey, picks map[domain.CourseKey]Pick) bool {
	var tagged []taggedMeeting
	for _, key := range courses {
		p := picks[key]
		if p.Primary != nil {
			tagged = append(tagged, taggedMeeting{key, true, *p.Primary})
		}
		if p.Secondary != nil {
			tagged = append(tagged, taggedMeeting{key, false, *p.Secondary})
		}
	}
	for i := 0; i < len(tagged); i++ {
		for j := i + 1; j < len(tagged); j++ {
			a, b := tagged[i], tagged[j]
			if a.courseKey == b.courseKey {
				continue
			}
			if !sectionsOverlap(a.section, b.section) {
				continue
			}
			if a.primary && b.primary {
				if !pref.AllowPrimaryConflicts {
					return false
				}
				continue
			}
			if !pref.AllowSecondaryConflicts {
				return false
			}
		}
	}
	return true
}

func sectionsOverlap(a, b domain.Section) bool {
	for _, ma := range a.Meetings {
		for _, mb := range b.Meetings {
			if ma.Overlaps(mb) {
				return true
			}
		}
	}
	return false
}
