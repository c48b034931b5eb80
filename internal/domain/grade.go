package domain

import "strings"

// Grade is a letter grade on the total order A+ > A > A- > ... > D- > F.
// Higher rank means a better grade.
type Grade string

// gradeRank assigns each recognized letter grade its position in the total
// order, highest first. Unrecognized strings rank below F (rankUnknown)
// so they never satisfy any minimum-grade check.
var gradeRank = map[Grade]int{
	"A+": 12, "A": 11, "A-": 10,
	"B+": 9, "B": 8, "B-": 7,
	"C+": 6, "C": 5, "C-": 4,
	"D+": 3, "D": 2, "D-": 1,
	"F": 0,
}

const rankUnknown = -1

// NormalizeGrade trims and upper-cases a raw grade string the way the
// transcript boundary receives it.
func NormalizeGrade(s string) Grade {
	return Grade(strings.ToUpper(strings.TrimSpace(s)))
}

func (g Grade) rank() int {
	if r, ok := gradeRank[g]; ok {
		return r
	}
	return rankUnknown
}

// Meets reports whether g satisfies a minimum grade requirement min under
// the total order (g is at least as good as min).
func (g Grade) Meets(min Grade) bool {
	if min == "" {
		min = "D-"
	}
	gr, mr := g.rank(), min.rank()
	if gr == rankUnknown || mr == rankUnknown {
		return false
	}
	return gr >= mr
}

// Transcript maps a course key to a recorded grade. A course is "passed"
// iff its recorded grade meets the minimum threshold D-.
type Transcript map[CourseKey]Grade

// Passed reports whether key was completed at or above the passing
// threshold D-.
func (t Transcript) Passed(key CourseKey) bool {
	g, ok := t[key]
	if !ok {
		return false
	}
	return g.Meets("D-")
}

// Grade returns the recorded grade for key and whether one was recorded.
func (t Transcript) Grade(key CourseKey) (Grade, bool) {
	g, ok := t[key]
	return g, ok
}
