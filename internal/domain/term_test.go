package domain

import "testing"

func TestSequence_YearRollsOverAfterFall(t *testing.T) {
	start := Term{Season: Fall, Year: 2024}
	end := Term{Season: Spring, Year: 2025}

	seq := Sequence(start, end)
	want := []Term{
		{Season: Fall, Year: 2024},
		{Season: Winter, Year: 2025},
		{Season: Spring, Year: 2025},
	}
	if len(seq) != len(want) {
		t.Fatalf("expected %d terms, got %d: %v", len(want), len(seq), seq)
	}
	for i := range want {
		if !seq[i].Equal(want[i]) {
			t.Fatalf("term %d: expected %v, got %v", i, want[i], seq[i])
		}
	}
}

func TestSequence_ReversedWindowIsNil(t *testing.T) {
	if seq := Sequence(Term{Season: Spring, Year: 2025}, Term{Season: Fall, Year: 2024}); seq != nil {
		t.Fatalf("expected nil for a reversed window, got %v", seq)
	}
}

func TestTermOrdering_AcademicYear(t *testing.T) {
	fall24 := Term{Season: Fall, Year: 2024}
	winter25 := Term{Season: Winter, Year: 2025}
	spring25 := Term{Season: Spring, Year: 2025}
	fall25 := Term{Season: Fall, Year: 2025}

	if !fall24.Before(winter25) {
		t.Fatalf("Fall 2024 must precede Winter 2025")
	}
	if !winter25.Before(spring25) {
		t.Fatalf("Winter 2025 must precede Spring 2025")
	}
	if !spring25.Before(fall25) {
		t.Fatalf("Spring 2025 must precede Fall 2025")
	}
	// Winter 2024 belongs to the 2023-24 academic year, before Fall 2024.
	if !(Term{Season: Winter, Year: 2024}).Before(fall24) {
		t.Fatalf("Winter 2024 must precede Fall 2024")
	}
}
