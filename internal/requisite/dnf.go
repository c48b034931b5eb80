// Package requisite normalizes requisite trees into disjunctive normal
// form, chooses the best-fitting clause per course against a transcript,
// and expands the transitive closure of a required course set.
package requisite

import "bruinplan/internal/domain"

// Clause is one conjunction inside the disjunctive-normal-form requisite
// tree: a flat list of leaves that must all be satisfied together.
type Clause []domain.ReqLeaf

// ToDNF converts a requisite tree into disjunction-of-conjunctions form.
// An empty tree (no requisite) yields a single empty clause — the course
// has nothing to satisfy.
func ToDNF(n domain.ReqNode) []Clause {
	if n.IsEmpty() {
		return []Clause{{}}
	}
	switch n.Kind {
	case domain.ReqKindLeaf:
		return []Clause{{*n.Leaf}}
	case domain.ReqKindOr:
		var out []Clause
		for _, child := range n.Children {
			out = append(out, ToDNF(child)...)
		}
		if len(out) == 0 {
			return []Clause{{}}
		}
		return out
	case domain.ReqKindAnd:
		// Cartesian product of every child's clause set, concatenating
		// leaves clause-by-clause.
		product := []Clause{{}}
		for _, child := range n.Children {
			childClauses := ToDNF(child)
			var next []Clause
			for _, existing := range product {
				for _, cc := range childClauses {
					merged := make(Clause, 0, len(existing)+len(cc))
					merged = append(merged, existing...)
					merged = append(merged, cc...)
					next = append(next, merged)
				}
			}
			product = next
		}
		return product
	default:
		return []Clause{{}}
	}
}
