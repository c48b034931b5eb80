package sectionselect

import (
	"testing"

	"bruinplan/internal/domain"
)

func mustClock(t *testing.T, s string) domain.ClockMinutes {
	t.Helper()
	c, ok := domain.ParseClock(s)
	if !ok {
		t.Fatalf("bad clock literal %q", s)
	}
	return c
}

func TestSelect_ForbiddenDayRejectsMWFLecture(t *testing.T) {
	key := domain.CourseKey{Subject: "COM SCI", Number: "35L"}
	term := domain.Term{Season: domain.Fall, Year: 2024}

	mwf := domain.Section{
		ID: 1, CourseKey: key, Term: term, Code: "1A-LEC", Primary: true,
		Meetings: []domain.MeetingSlot{{
			Days: domain.ParseDaySet("MWF"), Start: mustClock(t, "09:00"), End: mustClock(t, "09:50"),
		}},
	}
	tr := domain.Section{
		ID: 2, CourseKey: key, Term: term, Code: "2A-LEC", Primary: true,
		Meetings: []domain.MeetingSlot{{
			Days: domain.ParseDaySet("TR"), Start: mustClock(t, "11:00"), End: mustClock(t, "12:15"),
		}},
	}

	pref := domain.Preferences{
		Earliest:      mustClock(t, "09:00"),
		Latest:        mustClock(t, "10:00"),
		ForbiddenDays: domain.ParseDaySet("F"),
		PriorityRanking: []domain.PreferenceAxis{
			domain.AxisTime, domain.AxisDays, domain.AxisBuilding, domain.AxisInstructor,
		},
	}

	result := Select(pref, term, []domain.CourseKey{key}, map[domain.CourseKey][]domain.Section{
		key: {mwf, tr},
	})

	pick := result.Picks[key]
	if pick.Primary == nil {
		t.Fatalf("expected a primary section to be chosen")
	}
	if pick.Primary.Code != "2A-LEC" {
		t.Fatalf("expected the TR lecture to be chosen over the Friday-forbidden MWF lecture, got %s", pick.Primary.Code)
	}
}

func TestSelect_PrimaryConflictDisallowed(t *testing.T) {
	term := domain.Term{Season: domain.Fall, Year: 2024}
	keyA := domain.CourseKey{Subject: "COM SCI", Number: "31"}
	keyB := domain.CourseKey{Subject: "COM SCI", Number: "32"}

	overlap := domain.MeetingSlot{Days: domain.ParseDaySet("MWF"), Start: mustClock(t, "09:00"), End: mustClock(t, "09:50")}
	secA := domain.Section{ID: 1, CourseKey: keyA, Term: term, Code: "1A-LEC", Primary: true, Meetings: []domain.MeetingSlot{overlap}}
	secB := domain.Section{ID: 2, CourseKey: keyB, Term: term, Code: "1A-LEC", Primary: true, Meetings: []domain.MeetingSlot{overlap}}

	pref := domain.Preferences{AllowPrimaryConflicts: false}
	result := Select(pref, term, []domain.CourseKey{keyA, keyB}, map[domain.CourseKey][]domain.Section{
		keyA: {secA}, keyB: {secB},
	})
	if result.ConflictOK {
		t.Fatalf("expected conflicting primaries to fail the filter")
	}

	pref.AllowPrimaryConflicts = true
	result = Select(pref, term, []domain.CourseKey{keyA, keyB}, map[domain.CourseKey][]domain.Section{
		keyA: {secA}, keyB: {secB},
	})
	if !result.ConflictOK {
		t.Fatalf("expected conflicting primaries to pass when allowed")
	}
}

func TestSelect_NoPrimaryOmitsCourseFromSelection(t *testing.T) {
	key := domain.CourseKey{Subject: "COM SCI", Number: "31"}
	term := domain.Term{Season: domain.Fall, Year: 2024}
	result := Select(domain.Preferences{}, term, []domain.CourseKey{key}, map[domain.CourseKey][]domain.Section{})
	pick := result.Picks[key]
	if pick.Primary != nil || pick.Secondary != nil {
		t.Fatalf("expected nil picks when no sections exist, got %+v", pick)
	}
}

func TestSelect_PreferenceMonotonicity(t *testing.T) {
	// P8: raising a preferred building's axis in the priority list cannot
	// decrease the chosen prefix's score.
	// The meeting lies outside the (unset) time window, so only the
	// building and days axes contribute to the score.
	key := domain.CourseKey{Subject: "COM SCI", Number: "31"}
	term := domain.Term{Season: domain.Fall, Year: 2024}
	sec := domain.Section{
		ID: 1, CourseKey: key, Term: term, Code: "1A-LEC", Primary: true,
		Meetings: []domain.MeetingSlot{{
			Days: domain.ParseDaySet("MWF"), Start: mustClock(t, "09:00"), End: mustClock(t, "09:50"), Building: "Boelter",
		}},
	}
	sections := map[domain.CourseKey][]domain.Section{key: {sec}}

	low := domain.Preferences{
		PreferredBuildings: map[string]bool{"Boelter": true},
		PriorityRanking:    []domain.PreferenceAxis{domain.AxisTime, domain.AxisDays, domain.AxisBuilding},
	}
	high := domain.Preferences{
		PreferredBuildings: map[string]bool{"Boelter": true},
		PriorityRanking:    []domain.PreferenceAxis{domain.AxisBuilding, domain.AxisTime, domain.AxisDays},
	}

	lowScore := Select(low, term, []domain.CourseKey{key}, sections).Score
	highScore := Select(high, term, []domain.CourseKey{key}, sections).Score
	if highScore < lowScore {
		t.Fatalf("raising building axis priority decreased score: low=%d high=%d", lowScore, highScore)
	}
}
