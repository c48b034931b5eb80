package domain

// PreferenceAxis names one of the four soft scoring axes a student can
// rank by priority.
type PreferenceAxis string

const (
	AxisTime       PreferenceAxis = "time"
	AxisDays       PreferenceAxis = "days"
	AxisBuilding   PreferenceAxis = "building"
	AxisInstructor PreferenceAxis = "instructor"
)

// Preferences bundles everything the planner and first-term section
// selector need to rank and filter candidate sections, plus the load
// bounds the planner enforces on every term.
type Preferences struct {
	Earliest            ClockMinutes
	Latest              ClockMinutes
	ForbiddenDays       DaySet
	PreferredBuildings  map[string]bool
	PreferredInstructors map[string]bool
	// PriorityRanking orders the four axes from highest to lowest weight.
	// Axes omitted from the list score zero regardless of match.
	PriorityRanking []PreferenceAxis

	MaxPerTerm int
	MinPerTerm int

	AllowWarnings          bool
	AllowPrimaryConflicts  bool
	AllowSecondaryConflicts bool
}

// AxisWeight returns the scoring weight for axis under this preference
// bundle's priority ranking: inverse rank, first axis -> highest weight.
// An axis absent from the ranking contributes zero.
func (p Preferences) AxisWeight(axis PreferenceAxis) int {
	n := len(p.PriorityRanking)
	for i, a := range p.PriorityRanking {
		if a == axis {
			return n - i
		}
	}
	return 0
}
