package stopwatch

import "testing"

func TestState_Display(t *testing.T) {
	tests := []struct {
		elapsed int
		want    string
	}{
		{0, "00:00:00"},
		{9, "00:00:09"},
		{59, "00:00:59"},
		{60, "00:01:00"},
		{125, "00:02:05"},
		{3599, "00:59:59"},
		{3600, "01:00:00"},
		{86399, "23:59:59"},
		{360000, "100:00:00"},
	}

	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			if got := (State{Elapsed: tt.elapsed}).Display(); got != tt.want {
				t.Errorf("Display() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestState_Decompose(t *testing.T) {
	tests := []struct {
		elapsed, h, m, s int
	}{
		{0, 0, 0, 0},
		{125, 0, 2, 5},
		{3661, 1, 1, 1},
		{7199, 1, 59, 59},
		{90061, 25, 1, 1},
	}

	for _, tt := range tests {
		s := State{Elapsed: tt.elapsed}
		if s.Hours() != tt.h || s.Minutes() != tt.m || s.Seconds() != tt.s {
			t.Errorf("State{%d} = %d:%d:%d, want %d:%d:%d",
				tt.elapsed, s.Hours(), s.Minutes(), s.Seconds(), tt.h, tt.m, tt.s)
		}
	}
}

func TestState_Transitions(t *testing.T) {
	var s State
	if s.Running || s.Elapsed != 0 {
		t.Fatalf("zero State = %+v, want paused at 0", s)
	}

	s = s.Tick()
	if s.Elapsed != 0 {
		t.Errorf("Tick while paused advanced to %d", s.Elapsed)
	}

	s = s.Toggle()
	if !s.Running {
		t.Fatal("Toggle from paused did not start")
	}
	s = s.Tick().Tick().Tick()
	if s.Elapsed != 3 {
		t.Errorf("Elapsed = %d, want 3", s.Elapsed)
	}

	s = s.Reset()
	if s.Elapsed != 0 || !s.Running {
		t.Errorf("Reset while running = %+v, want running at 0", s)
	}

	s = s.Toggle().Reset()
	if s.Elapsed != 0 || s.Running {
		t.Errorf("Reset while paused = %+v, want paused at 0", s)
	}
}

func TestState_DoubleToggleIsIdentity(t *testing.T) {
	s := State{Elapsed: 42}
	if got := s.Toggle().Toggle(); got != s {
		t.Errorf("Toggle().Toggle() = %+v, want %+v", got, s)
	}
}
