package flow

import "testing"

func TestParseAge(t *testing.T) {
	if _, err := ParseAge("abc"); err == nil {
		t.Error("expected error for non-numeric age")
	}
	if _, err := ParseAge("9"); err == nil {
		t.Error("expected error for age below range")
	}
	if _, err := ParseAge("101"); err == nil {
		t.Error("expected error for age above range")
	}
	age, err := ParseAge(" 28 ")
	if err != nil {
		t.Fatalf("ParseAge failed: %v", err)
	}
	if age != 28 {
		t.Errorf("expected 28, got %d", age)
	}
}

func TestParseBodyWeightAcceptsCommaSeparator(t *testing.T) {
	weight, err := ParseBodyWeight("80,5")
	if err != nil {
		t.Fatalf("ParseBodyWeight failed: %v", err)
	}
	if weight != 80.5 {
		t.Errorf("expected 80.5, got %g", weight)
	}
}

func TestParseBodyWeightRange(t *testing.T) {
	if _, err := ParseBodyWeight("19.9"); err == nil {
		t.Error("expected error for weight below range")
	}
	if _, err := ParseBodyWeight("300.1"); err == nil {
		t.Error("expected error for weight above range")
	}
}

func TestParseReps(t *testing.T) {
	if _, err := ParseReps("0"); err == nil {
		t.Error("expected error for zero reps")
	}
	if _, err := ParseReps("101"); err == nil {
		t.Error("expected error for reps above range")
	}
	reps, err := ParseReps("12")
	if err != nil {
		t.Fatalf("ParseReps failed: %v", err)
	}
	if reps != 12 {
		t.Errorf("expected 12, got %d", reps)
	}
}

func TestParseSets(t *testing.T) {
	if _, err := ParseSets("11"); err == nil {
		t.Error("expected error for sets above range")
	}
	sets, err := ParseSets("4")
	if err != nil {
		t.Fatalf("ParseSets failed: %v", err)
	}
	if sets != 4 {
		t.Errorf("expected 4, got %d", sets)
	}
}

func TestParseExerciseWeightZeroMeansBodyweight(t *testing.T) {
	weight, err := ParseExerciseWeight("0")
	if err != nil {
		t.Fatalf("ParseExerciseWeight failed: %v", err)
	}
	if weight != nil {
		t.Errorf("expected nil for zero weight, got %g", *weight)
	}
}

func TestParseExerciseWeight(t *testing.T) {
	if _, err := ParseExerciseWeight("-1"); err == nil {
		t.Error("expected error for negative weight")
	}
	if _, err := ParseExerciseWeight("500.5"); err == nil {
		t.Error("expected error for weight above range")
	}
	weight, err := ParseExerciseWeight("42,5")
	if err != nil {
		t.Fatalf("ParseExerciseWeight failed: %v", err)
	}
	if weight == nil || *weight != 42.5 {
		t.Errorf("expected 42.5, got %v", weight)
	}
}
