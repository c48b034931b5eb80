// Package techbreadth implements the tech-breadth optimizer: for a
// declared breadth area it filters candidate courses to upper-division,
// not-yet-completed-or-planned electives, and ranks them by the minimum
// number of still-missing prerequisites across DNF clauses.
package techbreadth

import (
	"fmt"
	"sort"

	"bruinplan/internal/domain"
	"bruinplan/internal/requisite"
)

// topK is both the result size and the minimum pool size: fewer
// qualifying candidates than topK is surfaced as a failure rather than
// returning a short list, and a larger pool is truncated to the topK
// best-ranked.
const topK = 3

// Candidate is one ranked elective, ascending by Missing.
type Candidate struct {
	Course  domain.CourseKey
	Missing int
}

// Rank filters courses (already resolved to the breadth area by the
// caller's catalog query) to upper-division courses absent from both
// completed and planned, computes each one's minimum missing-prerequisite
// count, and returns the top 3 ranked ascending by missing count. It
// fails if fewer than 3 candidates remain after filtering.
func Rank(area string, completed domain.Transcript, planned []domain.CourseKey, courses []domain.Course) ([]Candidate, error) {
	plannedSet := make(map[domain.CourseKey]bool, len(planned))
	for _, k := range planned {
		plannedSet[k] = true
	}

	var candidates []Candidate
	for _, c := range courses {
		if completed.Passed(c.Key) || plannedSet[c.Key] {
			continue
		}
		if !domain.UpperDivision(c.Key.Number) {
			continue
		}
		var tree domain.ReqNode
		if c.Requisite != nil {
			tree = *c.Requisite
		}
		clauses := requisite.ToDNF(tree)
		candidates = append(candidates, Candidate{Course: c.Key, Missing: minMissing(clauses, completed, plannedSet)})
	}

	sort.SliceStable(candidates, func(i, j int) bool { return candidates[i].Missing < candidates[j].Missing })

	if len(candidates) < topK {
		return nil, fmt.Errorf("too few breadth candidates for %q: need at least %d, found %d", area, topK, len(candidates))
	}
	return candidates[:topK], nil
}

// minMissing is the minimum, over every DNF clause, of the count of
// leaves whose course is neither completed nor planned. Antirequisite
// leaves never count (see internal/requisite's same exclusion); an
// unresolved leaf counts as missing since it cannot be verified satisfied.
func minMissing(clauses []requisite.Clause, completed domain.Transcript, planned map[domain.CourseKey]bool) int {
	best := -1
	for _, clause := range clauses {
		count := 0
		for _, leaf := range clause {
			if leaf.Relation == domain.Antirequisite {
				continue
			}
			if leaf.Resolved && (completed.Passed(leaf.Course) || planned[leaf.Course]) {
				continue
			}
			count++
		}
		if best == -1 || count < best {
			best = count
		}
	}
	if best == -1 {
		return 0
	}
	return best
}

// ListElectiveSlots recognizes "...Elective"-suffixed placeholder course
// keys among courses — a thin recognition helper. The planner and editor
// do not call it (the editor checks placeholders via
// domain.IsPlaceholder). It ranks nothing and enforces no invariant of its
// own.
func ListElectiveSlots(courses []domain.CourseKey) []domain.CourseKey {
	var out []domain.CourseKey
	for _, c := range courses {
		if domain.IsElectivePlaceholder(c.String()) {
			out = append(out, c)
		}
	}
	return out
}
