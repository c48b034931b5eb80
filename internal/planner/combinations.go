package planner

import (
	"math/rand"
	"sort"
	"strings"

	"bruinplan/internal/domain"
)

// combinationCap bounds exact C(n,k) enumeration; above it candidate
// prefixes are sampled instead, so the bounded search cannot hang on a
// large available set.
const combinationCap = 12

// sampleTarget is how many distinct random prefixes to draw when sampling.
const sampleTarget = 200

// candidatePrefixes enumerates every size-k subset of available when
// len(available) <= combinationCap; otherwise it draws up to sampleTarget
// distinct random subsets using rng.
func candidatePrefixes(available []domain.CourseKey, k int, rng *rand.Rand) [][]domain.CourseKey {
	if k <= 0 || len(available) == 0 {
		return [][]domain.CourseKey{{}}
	}
	if k >= len(available) {
		return [][]domain.CourseKey{append([]domain.CourseKey(nil), available...)}
	}
	if len(available) <= combinationCap {
		return allCombinations(available, k)
	}

	seen := map[string]bool{}
	var out [][]domain.CourseKey
	attempts := 0
	for len(out) < sampleTarget && attempts < sampleTarget*10 {
		attempts++
		combo := sampleOne(available, k, rng)
		key := comboKey(combo)
		if seen[key] {
			continue
		}
		seen[key] = true
		out = append(out, combo)
	}
	return out
}

// allCombinations enumerates every size-k subset of items in lexicographic
// index order.
func allCombinations(items []domain.CourseKey, k int) [][]domain.CourseKey {
	n := len(items)
	idxs := make([]int, k)
	for i := range idxs {
		idxs[i] = i
	}
	var out [][]domain.CourseKey
	for {
		combo := make([]domain.CourseKey, k)
		for i, ix := range idxs {
			combo[i] = items[ix]
		}
		out = append(out, combo)

		i := k - 1
		for i >= 0 && idxs[i] == i+n-k {
			i--
		}
		if i < 0 {
			break
		}
		idxs[i]++
		for j := i + 1; j < k; j++ {
			idxs[j] = idxs[j-1] + 1
		}
	}
	return out
}

func sampleOne(items []domain.CourseKey, k int, rng *rand.Rand) []domain.CourseKey {
	perm := rng.Perm(len(items))
	chosen := append([]int(nil), perm[:k]...)
	sort.Ints(chosen)
	out := make([]domain.CourseKey, k)
	for i, ix := range chosen {
		out[i] = items[ix]
	}
	return out
}

func comboKey(combo []domain.CourseKey) string {
	parts := make([]string, len(combo))
	for i, c := range combo {
		parts[i] = c.String()
	}
	return strings.Join(parts, ",")
}
