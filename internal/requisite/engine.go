package requisite

import "bruinplan/internal/domain"

// CourseLookup resolves a course key to its catalog row (title + requisite
// tree). The requisite engine never talks to the catalog gateway directly
// — the caller (planner, editor, tech-breadth optimizer) supplies this so
// the engine stays a pure function of its inputs.
type CourseLookup func(domain.CourseKey) (domain.Course, bool)

// Enforceable reports whether a leaf governs placement ordering under the
// active warnings policy: relation must be prerequisite or corequisite
// (antirequisite leaves never gate placement), and severity must be
// Required, or Warning when warnings are disallowed.
func Enforceable(leaf domain.ReqLeaf, allowWarnings bool) bool {
	if leaf.Relation == domain.Antirequisite {
		return false
	}
	if !leaf.Resolved {
		return false
	}
	if leaf.Severity == domain.Required {
		return true
	}
	return !allowWarnings
}

// LeafSatisfied reports whether leaf's course is recorded in transcript at
// or above its minimum grade.
func LeafSatisfied(leaf domain.ReqLeaf, transcript domain.Transcript) bool {
	grade, ok := transcript.Grade(leaf.Course)
	if !ok {
		return false
	}
	return grade.Meets(leaf.MinGrade)
}

// missingLeaves returns the leaves in clause (restricted to leaves that
// are resolved and not antirequisites) that are not yet satisfied in
// transcript.
func missingLeaves(clause Clause, transcript domain.Transcript) []domain.ReqLeaf {
	var missing []domain.ReqLeaf
	for _, leaf := range clause {
		if leaf.Relation == domain.Antirequisite || !leaf.Resolved {
			continue
		}
		if !LeafSatisfied(leaf, transcript) {
			missing = append(missing, leaf)
		}
	}
	return missing
}

// ChooseClause picks the clause minimizing the number of missing leaves,
// ties broken by clause order. If any clause has zero missing leaves, that
// clause is chosen immediately.
func ChooseClause(clauses []Clause, transcript domain.Transcript) (Clause, []domain.ReqLeaf) {
	var best Clause
	var bestMissing []domain.ReqLeaf
	bestCount := -1
	for _, c := range clauses {
		missing := missingLeaves(c, transcript)
		if len(missing) == 0 {
			return c, missing
		}
		if bestCount == -1 || len(missing) < bestCount {
			best, bestMissing, bestCount = c, missing, len(missing)
		}
	}
	return best, bestMissing
}

// Result is the output of Expand: the transitive closure of the required
// set plus the clause chosen for each course in it, in discovery order.
type Result struct {
	Required      []domain.CourseKey
	ChosenClause  map[domain.CourseKey]Clause
	MissingLeaves map[domain.CourseKey][]domain.ReqLeaf
	Warnings      []string
}

// Expand performs a breadth-first closure of the required set:
// starting from the user-provided required set minus passed courses,
// every still-missing leaf with an enforceable relation/severity is added
// to the required set; already-passed leaves are not.
func Expand(requested []domain.CourseKey, transcript domain.Transcript, lookup CourseLookup, allowWarnings bool) Result {
	res := Result{
		ChosenClause:  map[domain.CourseKey]Clause{},
		MissingLeaves: map[domain.CourseKey][]domain.ReqLeaf{},
	}
	visited := map[domain.CourseKey]bool{}
	var queue []domain.CourseKey
	for _, k := range requested {
		if transcript.Passed(k) {
			continue
		}
		if visited[k] {
			continue
		}
		visited[k] = true
		queue = append(queue, k)
	}

	for i := 0; i < len(queue); i++ {
		key := queue[i]
		res.Required = append(res.Required, key)

		course, ok := lookup(key)
		if !ok {
			res.Warnings = append(res.Warnings, "unresolvable course in required set: "+key.String())
			res.ChosenClause[key] = Clause{}
			continue
		}

		var tree domain.ReqNode
		if course.Requisite != nil {
			tree = *course.Requisite
		}
		clauses := ToDNF(tree)
		chosen, missing := ChooseClause(clauses, transcript)
		res.ChosenClause[key] = chosen
		res.MissingLeaves[key] = missing

		for _, leaf := range chosen {
			if !leaf.Resolved {
				res.Warnings = append(res.Warnings, "unresolvable requisite leaf "+leaf.CourseName+" for "+key.String())
				continue
			}
			if !Enforceable(leaf, allowWarnings) {
				continue
			}
			if LeafSatisfied(leaf, transcript) {
				continue
			}
			if visited[leaf.Course] {
				continue
			}
			visited[leaf.Course] = true
			queue = append(queue, leaf.Course)
		}
	}

	return res
}
