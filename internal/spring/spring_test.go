package spring

import (
	"math"
	"testing"
)

func TestUpdateHalfLifeConvergesHalfway(t *testing.T) {
	s := New(0)
	s.Target = 100
	if err := s.Update(0.2, 0.2); err != nil {
		t.Fatalf("Update: %v", err)
	}

	// At t == halfLife and starting at rest, the spring should have closed
	// almost exactly half the remaining distance.
	got := s.Position
	want := 50.0
	if math.Abs(got-want) > 2.0 {
		t.Errorf("Position after one half-life = %.3f, want ~%.1f", got, want)
	}
}

func TestUpdateRejectsNegativeDt(t *testing.T) {
	s := New(0)
	if err := s.Update(0.2, -0.1); err == nil {
		t.Error("expected error for negative dt, got nil")
	}
}

func TestUpdateFiniteForAnyDt(t *testing.T) {
	cases := []struct {
		halfLife, dt float64
	}{
		{0, 1},
		{-5, 1},
		{0.001, 1000},
		{1000, 0.001},
		{0.3, 0},
	}

	for _, c := range cases {
		s := New(0)
		s.Target = 1e6
		if err := s.Update(c.halfLife, c.dt); err != nil {
			t.Fatalf("Update(%v, %v): %v", c.halfLife, c.dt, err)
		}
		if math.IsNaN(s.Position) || math.IsInf(s.Position, 0) {
			t.Errorf("Update(%v, %v) produced non-finite position %v", c.halfLife, c.dt, s.Position)
		}
		if math.IsNaN(s.Velocity) || math.IsInf(s.Velocity, 0) {
			t.Errorf("Update(%v, %v) produced non-finite velocity %v", c.halfLife, c.dt, s.Velocity)
		}
	}
}

func TestUpdateConvergesWithRepeatedSteps(t *testing.T) {
	s := New(0)
	s.Target = 500
	for i := 0; i < 500; i++ {
		if err := s.Update(0.1, 1.0/60); err != nil {
			t.Fatalf("Update: %v", err)
		}
	}
	if !s.IsSettled(0.01) {
		t.Errorf("spring did not settle: position=%.4f velocity=%.4f", s.Position, s.Velocity)
	}
}

func TestPredictDoesNotMutate(t *testing.T) {
	s := New(0)
	s.Target = 10
	before := s
	_ = s.Predict(0.2, 0.5)
	if s != before {
		t.Errorf("Predict mutated the spring: before=%+v after=%+v", before, s)
	}
}

func TestSnap(t *testing.T) {
	s := New(0)
	s.Velocity = 42
	s.Target = 10
	s.Snap(7)
	if s.Position != 7 || s.Velocity != 0 || s.Target != 7 {
		t.Errorf("Snap(7) = %+v, want position=target=7 velocity=0", s)
	}
}

func TestIsSettled(t *testing.T) {
	s := Spring{Position: 10, Velocity: 0, Target: 10}
	if !s.IsSettled(0.001) {
		t.Error("expected settled spring to report settled")
	}
	s.Position = 10.5
	if s.IsSettled(0.001) {
		t.Error("expected unsettled spring to report unsettled")
	}
}
