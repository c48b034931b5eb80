package planner

import (
	"math/rand"
	"sort"

	"bruinplan/internal/domain"
	"bruinplan/internal/offering"
	"bruinplan/internal/requisite"
	"bruinplan/internal/sectionselect"
)

// planningRNGSeed fixes the sampler's seed so a bounded search over a
// large available set is reproducible from one run to the next, instead
// of depending on wall-clock entropy.
const planningRNGSeed = 1

// Plan assigns every course in required to a term across terms, honoring
// prerequisite ordering, offering availability, and per-term load bounds.
// It returns the resulting schedule plus the subset of required left
// unplaced (the caller renders these into the output note).
func Plan(
	cfg domain.Preferences,
	terms []domain.Term,
	required []domain.CourseKey,
	chosenClauses map[domain.CourseKey]requisite.Clause,
	idx offering.Index,
	sectionsByCourse map[domain.CourseKey][]domain.Section,
) (Schedule, []domain.CourseKey) {
	if len(terms) == 0 {
		return Schedule{}, append([]domain.CourseKey(nil), required...)
	}

	indegree, dependents := buildDAG(required, chosenClauses, cfg.AllowWarnings)
	remaining := map[domain.CourseKey]bool{}
	for _, k := range required {
		remaining[k] = true
	}

	rng := rand.New(rand.NewSource(planningRNGSeed))
	entries := make([]TermEntry, 0, len(terms))

	tRemaining := len(terms)
	for i, term := range terms {
		r := len(remaining)
		target := targetLoad(r, tRemaining, cfg.MinPerTerm, cfg.MaxPerTerm)
		available := availableCourses(remaining, indegree, idx, term)

		var entry TermEntry
		if i == 0 {
			entry = planEarliestTerm(cfg, term, available, target, sectionsByCourse, rng)
		} else {
			entry = planLaterTerm(term, available, target)
		}

		if cfg.MaxPerTerm > 0 && len(entry.Courses) > cfg.MaxPerTerm {
			entry.Courses = entry.Courses[:cfg.MaxPerTerm]
		}

		for _, c := range entry.Courses {
			delete(remaining, c)
			for _, dep := range dependents[c] {
				indegree[dep]--
			}
		}
		if len(entry.Courses) < cfg.MinPerTerm {
			entry.FillerCount = cfg.MinPerTerm - len(entry.Courses)
		}

		entries = append(entries, entry)
		tRemaining--
	}

	var unplaceable []domain.CourseKey
	for _, k := range required {
		if remaining[k] {
			unplaceable = append(unplaceable, k)
		}
	}

	return Schedule{Entries: entries}, unplaceable
}

// targetLoad computes the per-term target: with R remaining courses and T
// remaining terms (inclusive of the current one), base = R/T, extra =
// R mod T, target = clamp(base + (1 if extra>0), [min, max]).
func targetLoad(r, t, minPerTerm, maxPerTerm int) int {
	if t <= 0 {
		return 0
	}
	base := r / t
	extra := r % t
	target := base
	if extra > 0 {
		target++
	}
	if target < minPerTerm {
		target = minPerTerm
	}
	if maxPerTerm > 0 && target > maxPerTerm {
		target = maxPerTerm
	}
	return target
}

// buildDAG restricts the prerequisite graph to strict-ordering edges:
// relation=prerequisite (corequisites may share a term with their
// dependent, so they impose no precedence), resolved, and enforceable
// under the active warnings policy. Edges point requisite -> dependent;
// only edges between two members of required are tracked (an already
// passed or unresolved prerequisite never appears in required).
func buildDAG(required []domain.CourseKey, chosenClauses map[domain.CourseKey]requisite.Clause, allowWarnings bool) (map[domain.CourseKey]int, map[domain.CourseKey][]domain.CourseKey) {
	indegree := map[domain.CourseKey]int{}
	dependents := map[domain.CourseKey][]domain.CourseKey{}
	inRequired := map[domain.CourseKey]bool{}
	for _, k := range required {
		indegree[k] = 0
		inRequired[k] = true
	}
	for _, c := range required {
		for _, leaf := range chosenClauses[c] {
			if leaf.Relation != domain.Prerequisite || !leaf.Resolved {
				continue
			}
			if leaf.Severity == domain.Warning && allowWarnings {
				continue
			}
			if !inRequired[leaf.Course] {
				continue
			}
			indegree[c]++
			dependents[leaf.Course] = append(dependents[leaf.Course], c)
		}
	}
	return indegree, dependents
}

// availableCourses returns the remaining courses with indegree 0 that are
// offered in term, sorted lexicographically by canonical key for
// deterministic later-term placement.
func availableCourses(remaining map[domain.CourseKey]bool, indegree map[domain.CourseKey]int, idx offering.Index, term domain.Term) []domain.CourseKey {
	var out []domain.CourseKey
	for k := range remaining {
		if indegree[k] == 0 && idx.Offered(k, term) {
			out = append(out, k)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].String() < out[j].String() })
	return out
}

// planLaterTerm places the lexicographically first target courses from
// available as a plain ordered list.
func planLaterTerm(term domain.Term, available []domain.CourseKey, target int) TermEntry {
	if target > len(available) {
		target = len(available)
	}
	return TermEntry{Term: term, Courses: append([]domain.CourseKey(nil), available[:target]...)}
}

// planEarliestTerm enumerates candidate course subsets of available (size
// clamped to what's actually available), delegates each to the first-term
// section selector, and picks the best surviving prefix under the active
// conflict policy — falling back to the highest raw score prefix if none
// survive.
func planEarliestTerm(
	cfg domain.Preferences,
	term domain.Term,
	available []domain.CourseKey,
	target int,
	sectionsByCourse map[domain.CourseKey][]domain.Section,
	rng *rand.Rand,
) TermEntry {
	size := target
	if size > len(available) {
		size = len(available)
	}

	combos := candidatePrefixes(available, size, rng)

	var best, bestAny *sectionselect.Prefix
	for i := range combos {
		p := sectionselect.Select(cfg, term, combos[i], sectionsByCourse)
		candidate := p
		if bestAny == nil || betterPrefix(candidate, *bestAny) {
			bestAny = &candidate
		}
		if !candidate.ConflictOK {
			continue
		}
		if best == nil || betterPrefix(candidate, *best) {
			best = &candidate
		}
	}

	chosen := best
	if chosen == nil {
		chosen = bestAny
	}
	if chosen == nil {
		return TermEntry{Term: term, Detailed: true, Picks: map[domain.CourseKey]sectionselect.Pick{}}
	}
	return TermEntry{
		Term:     term,
		Detailed: true,
		Courses:  append([]domain.CourseKey(nil), chosen.Courses...),
		Picks:    chosen.Picks,
	}
}

// betterPrefix orders prefixes by score desc, then course count desc,
// then lexicographic course order.
func betterPrefix(a, b sectionselect.Prefix) bool {
	if a.Score != b.Score {
		return a.Score > b.Score
	}
	if len(a.Courses) != len(b.Courses) {
		return len(a.Courses) > len(b.Courses)
	}
	return comboKey(a.Courses) < comboKey(b.Courses)
}
