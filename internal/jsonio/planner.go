package jsonio

import (
	"encoding/json"
	"fmt"
	"io"

	"bruinplan/internal/domain"
	"bruinplan/internal/planner"
)

// plannerInputJSON is the planner request document.
type plannerInputJSON struct {
	StartYear          int              `json:"start_year"`
	StartQuarter       string           `json:"start_quarter"`
	EndYear            int              `json:"end_year"`
	EndQuarter         string           `json:"end_quarter"`
	CoursesToSchedule  []string         `json:"courses_to_schedule"`
	Transcript         map[string]*string `json:"transcript"`
	Preferences        preferencesJSON  `json:"preferences"`
}

// PlannerInput is the decoded, domain-typed form of a planner request.
type PlannerInput struct {
	Terms       []domain.Term
	Required    []domain.CourseKey
	Transcript  domain.Transcript
	Preferences domain.Preferences
}

// ReadPlannerInput decodes a planner input document from r.
func ReadPlannerInput(r io.Reader) (PlannerInput, error) {
	var raw plannerInputJSON
	if err := json.NewDecoder(r).Decode(&raw); err != nil {
		return PlannerInput{}, fmt.Errorf("decoding planner input: %w", err)
	}

	startSeason, ok := domain.ParseSeason(raw.StartQuarter)
	if !ok {
		return PlannerInput{}, fmt.Errorf("start_quarter: unrecognized season %q", raw.StartQuarter)
	}
	endSeason, ok := domain.ParseSeason(raw.EndQuarter)
	if !ok {
		return PlannerInput{}, fmt.Errorf("end_quarter: unrecognized season %q", raw.EndQuarter)
	}
	start := domain.Term{Season: startSeason, Year: raw.StartYear}
	end := domain.Term{Season: endSeason, Year: raw.EndYear}
	terms := domain.Sequence(start, end)
	if terms == nil {
		return PlannerInput{}, fmt.Errorf("end term %s is before start term %s", end, start)
	}

	required, err := courseKeysFromJSON(raw.CoursesToSchedule)
	if err != nil {
		return PlannerInput{}, fmt.Errorf("courses_to_schedule: %w", err)
	}

	transcript, err := transcriptFromJSON(raw.Transcript)
	if err != nil {
		return PlannerInput{}, err
	}

	prefs, err := raw.Preferences.toDomain()
	if err != nil {
		return PlannerInput{}, err
	}

	return PlannerInput{Terms: terms, Required: required, Transcript: transcript, Preferences: prefs}, nil
}

// plannerOutputJSON is the planner response: "schedule" maps term display
// strings to either a detailed course-key->pick map (earliest term) or a
// plain ordered list (FILLER included, later terms); "note" is present
// only when unplaceable courses remain.
type plannerOutputJSON struct {
	Schedule map[string]json.RawMessage `json:"schedule"`
	Note     string                     `json:"note,omitempty"`
}

// WritePlannerOutput encodes sched and unplaceable into the planner
// response shape and writes it to w.
func WritePlannerOutput(w io.Writer, sched planner.Schedule, unplaceable []domain.CourseKey) error {
	wire, err := scheduleToWire(sched)
	if err != nil {
		return err
	}
	out := plannerOutputJSON{Schedule: wire}

	if len(unplaceable) > 0 {
		names := make([]string, len(unplaceable))
		for i, k := range unplaceable {
			names[i] = k.String()
		}
		out.Note = "Unable to schedule: " + joinCourses(names)
	}

	return json.NewEncoder(w).Encode(out)
}

func joinCourses(names []string) string {
	out := ""
	for i, n := range names {
		if i > 0 {
			out += ", "
		}
		out += n
	}
	return out
}
