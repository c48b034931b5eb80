// Package domain holds the value types shared by the catalog gateway,
// requisite engine, planner, editor, and tech-breadth optimizer: course
// keys, terms, grades, requisite trees, sections, and preferences.
package domain

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// CourseKey identifies a course by subject code and catalog number, e.g.
// {Subject: "COM SCI", Number: "31"}. Canonical external form is
// "<SUBJ>|<NUM>" (see String).
type CourseKey struct {
	Subject string
	Number  string
}

// FILLER is the sentinel padding token. It is transparent to every
// invariant check in planner and editor.
const FILLER = "FILLER"

// String renders the canonical cross-boundary form "<SUBJ>|<NUM>".
func (k CourseKey) String() string {
	return k.Subject + "|" + k.Number
}

// ParseCourseKey parses the canonical "<SUBJ>|<NUM>" form produced by
// String. It splits at the first "|" and returns ok=false if s contains
// no "|" or either side of it is empty.
func ParseCourseKey(s string) (CourseKey, bool) {
	parts := strings.SplitN(s, "|", 2)
	if len(parts) != 2 || parts[0] == "" || parts[1] == "" {
		return CourseKey{}, false
	}
	return CourseKey{Subject: parts[0], Number: parts[1]}, true
}

// IsFiller reports whether s is the FILLER sentinel.
func IsFiller(s string) bool {
	return s == FILLER
}

// IsElectivePlaceholder reports whether s is a placeholder elective slot
// (any key ending in "Elective"), transparent to requisite validation and
// time-conflict checks per the editor's placeholder rule.
func IsElectivePlaceholder(s string) bool {
	return strings.HasSuffix(s, "Elective")
}

// IsPlaceholder reports whether s is FILLER or an elective placeholder —
// the two course-key forms that invariants must ignore.
func IsPlaceholder(s string) bool {
	return IsFiller(s) || IsElectivePlaceholder(s)
}

var catalogNumberDigits = regexp.MustCompile(`[0-9]+`)

// UpperDivision reports whether a catalog number's numeric portion lies in
// the inclusive range 100-199 (ignoring leading/trailing letter prefixes
// and suffixes, e.g. "M151B" -> 151 -> true, "31" -> false).
func UpperDivision(catalogNumber string) bool {
	m := catalogNumberDigits.FindString(catalogNumber)
	if m == "" {
		return false
	}
	n, err := strconv.Atoi(m)
	if err != nil {
		return false
	}
	return n >= 100 && n <= 199
}

// Subject is a subject/department row.
type Subject struct {
	ID        int
	Code      string
	LongName  string
}

// Course is a catalog course row: key, title, and optional requisite tree.
type Course struct {
	Key       CourseKey
	ID        int
	Title     string
	Requisite *ReqNode // nil if the course carries no requisite tree
}

func (c Course) String() string {
	return fmt.Sprintf("%s (%s)", c.Key, c.Title)
}
