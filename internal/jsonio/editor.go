package jsonio

import (
	"encoding/json"
	"fmt"
	"io"
	"sort"

	"bruinplan/internal/domain"
	"bruinplan/internal/editor"
	"bruinplan/internal/planner"
	"bruinplan/internal/sectionselect"
)

// operationJSON is the "operation" object of the editor request,
// flattened across all four operation types — only the fields relevant
// to Type are populated by the caller.
type operationJSON struct {
	Type string `json:"type"`

	CourseID string `json:"course_id,omitempty"`
	FromTerm string `json:"from_term,omitempty"`
	ToTerm   string `json:"to_term,omitempty"`

	Course1ID string `json:"course1_id,omitempty"`
	Term1     string `json:"term1,omitempty"`
	Course2ID string `json:"course2_id,omitempty"`
	Term2     string `json:"term2,omitempty"`

	Term              string `json:"term,omitempty"`
	NewLectureID      *int   `json:"new_lecture_id,omitempty"`
	NewDiscussionID   *int   `json:"new_discussion_id,omitempty"`

	Question string `json:"question,omitempty"`
}

// editorInputJSON is the editor request document.
type editorInputJSON struct {
	Schedule    map[string]json.RawMessage `json:"schedule"`
	Transcript  map[string]*string         `json:"transcript"`
	Preferences preferencesJSON            `json:"preferences"`
	Operation   operationJSON              `json:"operation"`
}

// EditorInput is the decoded, domain-typed form of an editor request.
type EditorInput struct {
	Schedule    planner.Schedule
	Transcript  domain.Transcript
	Preferences domain.Preferences
	Operation   operationJSON
}

// ParseTermLabel parses a "Fall 2024"-style wire term label, the same
// format operation fields like from_term/to_term/term1/term2/term use.
func ParseTermLabel(s string) (domain.Term, error) {
	var seasonName string
	var year int
	if _, err := fmt.Sscanf(s, "%s %d", &seasonName, &year); err != nil {
		return domain.Term{}, fmt.Errorf("invalid term label %q", s)
	}
	season, ok := domain.ParseSeason(seasonName)
	if !ok {
		return domain.Term{}, fmt.Errorf("invalid term label %q: unrecognized season", s)
	}
	return domain.Term{Season: season, Year: year}, nil
}

// ReadEditorInput decodes an editor input document from r. Every term
// whose value is a JSON object decodes as a detailed entry and every term
// whose value is an array as a plain list; entries come back sorted by
// term. It does not single out an earliest term.
func ReadEditorInput(r io.Reader) (EditorInput, error) {
	var raw editorInputJSON
	if err := json.NewDecoder(r).Decode(&raw); err != nil {
		return EditorInput{}, fmt.Errorf("decoding editor input: %w", err)
	}

	transcript, err := transcriptFromJSON(raw.Transcript)
	if err != nil {
		return EditorInput{}, err
	}
	prefs, err := raw.Preferences.toDomain()
	if err != nil {
		return EditorInput{}, err
	}

	sched, err := scheduleFromJSON(raw.Schedule)
	if err != nil {
		return EditorInput{}, err
	}

	return EditorInput{Schedule: sched, Transcript: transcript, Preferences: prefs, Operation: raw.Operation}, nil
}

// scheduleFromJSON decodes the wire "schedule" map back into a
// planner.Schedule. A term's value is detailed (earliest term) if it
// unmarshals as a JSON object; otherwise it is a plain ordered list.
func scheduleFromJSON(raw map[string]json.RawMessage) (planner.Schedule, error) {
	entries := make([]planner.TermEntry, 0, len(raw))
	for label, msg := range raw {
		term, err := ParseTermLabel(label)
		if err != nil {
			return planner.Schedule{}, err
		}

		var asList []string
		if err := json.Unmarshal(msg, &asList); err == nil {
			entry := planner.TermEntry{Term: term}
			for _, s := range asList {
				if domain.IsFiller(s) {
					entry.FillerCount++
					continue
				}
				key, ok := domain.ParseCourseKey(s)
				if !ok {
					return planner.Schedule{}, fmt.Errorf("schedule[%q]: invalid course key %q", label, s)
				}
				entry.Courses = append(entry.Courses, key)
			}
			entries = append(entries, entry)
			continue
		}

		var asDetailed map[string]json.RawMessage
		if err := json.Unmarshal(msg, &asDetailed); err != nil {
			return planner.Schedule{}, fmt.Errorf("schedule[%q]: neither a list nor a detailed map", label)
		}
		entry := planner.TermEntry{Term: term, Detailed: true, Picks: map[domain.CourseKey]sectionselect.Pick{}}
		for courseStr, pickRaw := range asDetailed {
			if domain.IsFiller(courseStr) {
				entry.FillerCount++
				continue
			}
			key, ok := domain.ParseCourseKey(courseStr)
			if !ok {
				return planner.Schedule{}, fmt.Errorf("schedule[%q]: invalid course key %q", label, courseStr)
			}
			var pick pickJSON
			if err := json.Unmarshal(pickRaw, &pick); err != nil {
				return planner.Schedule{}, fmt.Errorf("schedule[%q][%q]: invalid section pairing: %w", label, courseStr, err)
			}
			entry.Courses = append(entry.Courses, key)
			entry.Picks[key] = sectionselect.Pick{Primary: jsonToSection(pick.Lecture), Secondary: jsonToSection(pick.Discussion)}
		}
		// JSON objects carry no order; sort for a deterministic decode.
		sort.Slice(entry.Courses, func(i, j int) bool { return entry.Courses[i].String() < entry.Courses[j].String() })
		entries = append(entries, entry)
	}

	sortEntriesByTerm(entries)
	return planner.Schedule{Entries: entries}, nil
}

func sortEntriesByTerm(entries []planner.TermEntry) {
	for i := 1; i < len(entries); i++ {
		for j := i; j > 0 && entries[j].Term.Before(entries[j-1].Term); j-- {
			entries[j], entries[j-1] = entries[j-1], entries[j]
		}
	}
}

func jsonToSection(s *sectionJSON) *domain.Section {
	if s == nil {
		return nil
	}
	times := make([]domain.MeetingSlot, len(s.Times))
	for i, m := range s.Times {
		start, _ := domain.ParseClock(m.Start)
		end, _ := domain.ParseClock(m.End)
		times[i] = domain.MeetingSlot{Days: domain.ParseDaySet(m.Days), Start: start, End: end, Building: m.Building, Room: m.Room}
	}
	instructors := make([]domain.Instructor, len(s.Instructors))
	for i, name := range s.Instructors {
		instructors[i] = domain.Instructor{Name: name}
	}
	return &domain.Section{
		ID:              s.ID,
		Code:            s.Section,
		Activity:        s.Activity,
		EnrollmentCap:   s.EnrollmentCap,
		EnrollmentTotal: s.EnrollmentTotal,
		WaitlistCap:     s.WaitlistCap,
		WaitlistTotal:   s.WaitlistTotal,
		Meetings:        times,
		Instructors:     instructors,
	}
}

// editorOutputJSON is the editor response document.
type editorOutputJSON struct {
	Success  bool                       `json:"success"`
	Message  string                     `json:"message"`
	Schedule map[string]json.RawMessage `json:"schedule"`
}

// WriteEditorOutput encodes result into the editor response shape. On
// failure, "schedule" is emitted as JSON null.
func WriteEditorOutput(w io.Writer, result editor.Result) error {
	if !result.Success {
		return json.NewEncoder(w).Encode(editorOutputJSON{Success: false, Message: result.Message})
	}

	sched, err := scheduleToWire(result.Schedule)
	if err != nil {
		return err
	}
	return json.NewEncoder(w).Encode(editorOutputJSON{Success: true, Message: result.Message, Schedule: sched})
}

// RejectInterpret builds the editor.Result the "interpret" operation type
// always gets: accepted at the JSON boundary, rejected as out of scope.
func RejectInterpret(sched planner.Schedule) editor.Result {
	return editor.Result{
		Success:  false,
		Reason:   editor.ReasonOperationInvalid,
		Message:  "interpret is a natural-language editor operation handled by an external LLM layer; this CLI does not implement it",
		Schedule: sched,
	}
}
