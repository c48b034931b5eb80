// Package jsonio implements the stdin/stdout JSON contracts of the
// planner and editor CLIs, plus the analogous shape the tech-breadth CLI
// uses. It only translates between wire JSON and the internal/domain,
// internal/planner, and internal/editor value types — no planning or
// validation logic lives here.
package jsonio

import (
	"encoding/json"
	"fmt"

	"bruinplan/internal/domain"
	"bruinplan/internal/planner"
	"bruinplan/internal/sectionselect"
)

// meetingJSON is one meeting slot on the wire: the day-set as
// concatenated uppercase letters, clock times as "HH:MM".
type meetingJSON struct {
	Days     string `json:"days"`
	Start    string `json:"start"`
	End      string `json:"end"`
	Building string `json:"building"`
	Room     string `json:"room"`
}

// sectionJSON is the wire section object: id, section, activity,
// enrollment counts, waitlist counts, times, instructors.
type sectionJSON struct {
	ID              int           `json:"id"`
	Section         string        `json:"section"`
	Activity        string        `json:"activity"`
	EnrollmentCap   int           `json:"enrollment_cap"`
	EnrollmentTotal int           `json:"enrollment_total"`
	WaitlistCap     int           `json:"waitlist_cap"`
	WaitlistTotal   int           `json:"waitlist_total"`
	Times           []meetingJSON `json:"times"`
	Instructors     []string      `json:"instructors"`
}

func sectionToJSON(s *domain.Section) *sectionJSON {
	if s == nil {
		return nil
	}
	times := make([]meetingJSON, len(s.Meetings))
	for i, m := range s.Meetings {
		times[i] = meetingJSON{
			Days:     m.Days.String(),
			Start:    m.Start.String(),
			End:      m.End.String(),
			Building: m.Building,
			Room:     m.Room,
		}
	}
	instructors := make([]string, len(s.Instructors))
	for i, in := range s.Instructors {
		instructors[i] = in.Name
	}
	return &sectionJSON{
		ID:              s.ID,
		Section:         s.Code,
		Activity:        s.Activity,
		EnrollmentCap:   s.EnrollmentCap,
		EnrollmentTotal: s.EnrollmentTotal,
		WaitlistCap:     s.WaitlistCap,
		WaitlistTotal:   s.WaitlistTotal,
		Times:           times,
		Instructors:     instructors,
	}
}

// pickJSON is the {"lecture": ..., "discussion": ...} pairing for one
// course in the detailed earliest term.
type pickJSON struct {
	Lecture    *sectionJSON `json:"lecture"`
	Discussion *sectionJSON `json:"discussion"`
}

func pickToJSON(p sectionselect.Pick) pickJSON {
	return pickJSON{Lecture: sectionToJSON(p.Primary), Discussion: sectionToJSON(p.Secondary)}
}

// preferencesJSON is the preference bundle on the wire.
type preferencesJSON struct {
	Earliest                string   `json:"earliest,omitempty"`
	Latest                  string   `json:"latest,omitempty"`
	ForbiddenDays           string   `json:"forbidden_days,omitempty"`
	PreferredBuildings      []string `json:"preferred_buildings,omitempty"`
	PreferredInstructors    []string `json:"preferred_instructors,omitempty"`
	PriorityRanking         []string `json:"priority_ranking,omitempty"`
	MaxPerTerm              int      `json:"max_per_term"`
	MinPerTerm              int      `json:"min_per_term"`
	AllowWarnings           bool     `json:"allow_warnings"`
	AllowPrimaryConflicts   bool     `json:"allow_primary_conflicts"`
	AllowSecondaryConflicts bool     `json:"allow_secondary_conflicts"`
}

func (p preferencesJSON) toDomain() (domain.Preferences, error) {
	out := domain.Preferences{
		MaxPerTerm:              p.MaxPerTerm,
		MinPerTerm:              p.MinPerTerm,
		AllowWarnings:           p.AllowWarnings,
		AllowPrimaryConflicts:   p.AllowPrimaryConflicts,
		AllowSecondaryConflicts: p.AllowSecondaryConflicts,
	}
	if p.Earliest != "" {
		m, ok := domain.ParseClock(p.Earliest)
		if !ok {
			return out, fmt.Errorf("preferences.earliest: invalid clock time %q", p.Earliest)
		}
		out.Earliest = m
	}
	if p.Latest != "" {
		m, ok := domain.ParseClock(p.Latest)
		if !ok {
			return out, fmt.Errorf("preferences.latest: invalid clock time %q", p.Latest)
		}
		out.Latest = m
	}
	if p.ForbiddenDays != "" {
		out.ForbiddenDays = domain.ParseDaySet(p.ForbiddenDays)
	}
	if len(p.PreferredBuildings) > 0 {
		out.PreferredBuildings = map[string]bool{}
		for _, b := range p.PreferredBuildings {
			out.PreferredBuildings[b] = true
		}
	}
	if len(p.PreferredInstructors) > 0 {
		out.PreferredInstructors = map[string]bool{}
		for _, in := range p.PreferredInstructors {
			out.PreferredInstructors[in] = true
		}
	}
	for _, a := range p.PriorityRanking {
		axis := domain.PreferenceAxis(a)
		switch axis {
		case domain.AxisTime, domain.AxisDays, domain.AxisBuilding, domain.AxisInstructor:
			out.PriorityRanking = append(out.PriorityRanking, axis)
		default:
			return out, fmt.Errorf("preferences.priority_ranking: unknown axis %q", a)
		}
	}
	return out, nil
}

func transcriptFromJSON(m map[string]*string) (domain.Transcript, error) {
	t := domain.Transcript{}
	for k, v := range m {
		key, ok := domain.ParseCourseKey(k)
		if !ok {
			return nil, fmt.Errorf("transcript: invalid course key %q", k)
		}
		if v == nil {
			continue
		}
		t[key] = domain.NormalizeGrade(*v)
	}
	return t, nil
}

// scheduleToWire encodes a schedule into the wire "schedule" map shape
// both the planner and editor outputs share: the detailed earliest term
// as a course-key -> pick map (with a single FILLER entry carrying null
// section blocks when the term is padded), later terms as plain ordered
// lists with one FILLER token per padding slot.
func scheduleToWire(sched planner.Schedule) (map[string]json.RawMessage, error) {
	out := map[string]json.RawMessage{}
	for _, e := range sched.Entries {
		var raw json.RawMessage
		var err error
		if e.Detailed {
			detailed := map[string]pickJSON{}
			for _, c := range e.Courses {
				detailed[c.String()] = pickToJSON(e.Picks[c])
			}
			if e.FillerCount > 0 {
				detailed[domain.FILLER] = pickJSON{}
			}
			raw, err = json.Marshal(detailed)
		} else {
			list := make([]string, 0, len(e.Courses)+e.FillerCount)
			for _, c := range e.Courses {
				list = append(list, c.String())
			}
			for i := 0; i < e.FillerCount; i++ {
				list = append(list, domain.FILLER)
			}
			raw, err = json.Marshal(list)
		}
		if err != nil {
			return nil, fmt.Errorf("encoding term %s: %w", e.Term, err)
		}
		out[e.Term.String()] = raw
	}
	return out, nil
}

func courseKeysFromJSON(ss []string) ([]domain.CourseKey, error) {
	out := make([]domain.CourseKey, 0, len(ss))
	for _, s := range ss {
		k, ok := domain.ParseCourseKey(s)
		if !ok {
			return nil, fmt.Errorf("invalid course key %q", s)
		}
		out = append(out, k)
	}
	return out, nil
}
