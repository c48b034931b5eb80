package jsonio

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"bruinplan/internal/domain"
	"bruinplan/internal/editor"
	"bruinplan/internal/planner"
)

func TestReadEditorInput_RoundTripsDetailedAndListTerms(t *testing.T) {
	body := `{
		"schedule": {
			"Fall 2024": {"COM SCI|31": {"lecture": {"id": 1, "section": "1A-LEC", "activity": "LEC",
				"enrollment_cap": 200, "enrollment_total": 10, "waitlist_cap": 0, "waitlist_total": 0,
				"times": [{"days": "MWF", "start": "09:00", "end": "09:50", "building": "Boelter", "room": "100"}],
				"instructors": ["Eggert"]}, "discussion": null}},
			"Winter 2025": ["COM SCI|32", "FILLER"]
		},
		"transcript": {},
		"preferences": {"max_per_term": 4, "min_per_term": 1},
		"operation": {"type": "move", "course_id": "COM SCI|32", "from_term": "Winter 2025", "to_term": "Fall 2024"}
	}`

	input, err := ReadEditorInput(strings.NewReader(body))
	if err != nil {
		t.Fatalf("ReadEditorInput: %v", err)
	}

	fall := domain.Term{Season: domain.Fall, Year: 2024}
	winter := domain.Term{Season: domain.Winter, Year: 2025}

	fallEntry, ok := input.Schedule.EntryFor(fall)
	if !ok || !fallEntry.Detailed {
		t.Fatalf("expected a detailed Fall 2024 entry, got %+v", fallEntry)
	}
	cs31 := domain.CourseKey{Subject: "COM SCI", Number: "31"}
	pick, ok := fallEntry.Picks[cs31]
	if !ok || pick.Primary == nil || pick.Primary.Code != "1A-LEC" {
		t.Fatalf("expected COM SCI|31's lecture pick to round-trip, got %+v", pick)
	}
	if len(pick.Primary.Meetings) != 1 || pick.Primary.Meetings[0].Building != "Boelter" {
		t.Fatalf("expected meeting slot to round-trip, got %+v", pick.Primary.Meetings)
	}

	winterEntry, ok := input.Schedule.EntryFor(winter)
	if !ok || winterEntry.Detailed {
		t.Fatalf("expected a plain-list Winter 2025 entry, got %+v", winterEntry)
	}
	if winterEntry.FillerCount != 1 {
		t.Fatalf("expected the FILLER token to become FillerCount=1, got %d", winterEntry.FillerCount)
	}

	if input.Operation.Type != "move" || input.Operation.FromTerm != "Winter 2025" {
		t.Fatalf("operation fields not decoded: %+v", input.Operation)
	}
}

func TestReadEditorInput_FillerInDetailedTermBecomesPadding(t *testing.T) {
	body := `{
		"schedule": {
			"Fall 2024": {
				"COM SCI|31": {"lecture": null, "discussion": null},
				"FILLER": {"lecture": null, "discussion": null}
			}
		},
		"transcript": {},
		"preferences": {},
		"operation": {"type": "move"}
	}`
	input, err := ReadEditorInput(strings.NewReader(body))
	if err != nil {
		t.Fatalf("ReadEditorInput: %v", err)
	}
	entry, ok := input.Schedule.EntryFor(domain.Term{Season: domain.Fall, Year: 2024})
	if !ok || !entry.Detailed {
		t.Fatalf("expected a detailed Fall 2024 entry, got %+v", entry)
	}
	if entry.FillerCount != 1 {
		t.Fatalf("expected the FILLER key to become padding, got FillerCount=%d", entry.FillerCount)
	}
	if len(entry.Courses) != 1 {
		t.Fatalf("expected only the real course recorded, got %v", entry.Courses)
	}
}

func TestReadEditorInput_RejectsMalformedTermLabel(t *testing.T) {
	body := `{"schedule": {"not-a-term": []}, "transcript": {}, "preferences": {}, "operation": {"type": "move"}}`
	if _, err := ReadEditorInput(strings.NewReader(body)); err == nil {
		t.Fatalf("expected an error for an unparseable term label")
	}
}

func TestWriteEditorOutput_FailureOmitsSchedule(t *testing.T) {
	result := editor.Result{Success: false, Message: "requisite violated", Reason: editor.ReasonRequisiteUnmet}
	var buf bytes.Buffer
	if err := WriteEditorOutput(&buf, result); err != nil {
		t.Fatalf("WriteEditorOutput: %v", err)
	}
	var out editorOutputJSON
	if err := json.Unmarshal(buf.Bytes(), &out); err != nil {
		t.Fatalf("decoding output: %v", err)
	}
	if out.Success || out.Schedule != nil {
		t.Fatalf("expected success=false and schedule=null, got %+v", out)
	}
}

func TestWriteEditorOutput_SuccessIncludesSchedule(t *testing.T) {
	fall := domain.Term{Season: domain.Fall, Year: 2024}
	result := editor.Result{
		Success: true, Message: "moved",
		Schedule: planner.Schedule{Entries: []planner.TermEntry{
			{Term: fall, Courses: []domain.CourseKey{{Subject: "COM SCI", Number: "32"}}},
		}},
	}
	var buf bytes.Buffer
	if err := WriteEditorOutput(&buf, result); err != nil {
		t.Fatalf("WriteEditorOutput: %v", err)
	}
	var out editorOutputJSON
	if err := json.Unmarshal(buf.Bytes(), &out); err != nil {
		t.Fatalf("decoding output: %v", err)
	}
	if !out.Success || out.Schedule == nil {
		t.Fatalf("expected success=true with a populated schedule, got %+v", out)
	}
}

func TestParseTermLabel_RoundTripsTermString(t *testing.T) {
	fall := domain.Term{Season: domain.Fall, Year: 2024}
	got, err := ParseTermLabel(fall.String())
	if err != nil {
		t.Fatalf("ParseTermLabel: %v", err)
	}
	if !got.Equal(fall) {
		t.Fatalf("expected %v, got %v", fall, got)
	}
}
