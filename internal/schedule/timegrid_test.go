package schedule

import (
	"errors"
	"testing"
)

func TestTimeToMinutes(t *testing.T) {
	t.Parallel()

	cases := []struct {
		in      string
		want    int
		wantErr bool
	}{
		{in: "00:00", want: 0},
		{in: "08:00", want: 480},
		{in: "09:15:00", want: 555},
		{in: "23:59", want: 1439},
		{in: "23:59:59", want: 1439},
		{in: "24:00", wantErr: true},
		{in: "12:60", wantErr: true},
		{in: "12:30:60", wantErr: true},
		{in: "-1:30", wantErr: true},
		{in: "12", wantErr: true},
		{in: "12:3x", wantErr: true},
		{in: "", wantErr: true},
	}
	for _, tc := range cases {
		got, err := TimeToMinutes(tc.in)
		if tc.wantErr {
			if err == nil {
				t.Errorf("TimeToMinutes(%q): expected error, got %d", tc.in, got)
				continue
			}
			var fe *FormatError
			if !errors.As(err, &fe) {
				t.Errorf("TimeToMinutes(%q): expected *FormatError, got %T", tc.in, err)
			}
			continue
		}
		if err != nil {
			t.Errorf("TimeToMinutes(%q): unexpected error %v", tc.in, err)
			continue
		}
		if got != tc.want {
			t.Errorf("TimeToMinutes(%q) = %d, want %d", tc.in, got, tc.want)
		}
	}
}

func TestMinutesToTime(t *testing.T) {
	t.Parallel()

	cases := []struct {
		in   int
		want string
	}{
		{in: 0, want: "00:00:00"},
		{in: 480, want: "08:00:00"},
		{in: 1439, want: "23:59:00"},
		{in: 1440, want: "00:00:00"},  // wraps modulo one day
		{in: 1450, want: "00:10:00"},
		{in: -10, want: "23:50:00"},
	}
	for _, tc := range cases {
		if got := MinutesToTime(tc.in); got != tc.want {
			t.Errorf("MinutesToTime(%d) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestTimeRoundTrip(t *testing.T) {
	t.Parallel()

	// Every valid clock minute must survive the round trip unchanged.
	for m := 0; m < MinutesPerDay; m++ {
		s := MinutesToTime(m)
		back, err := TimeToMinutes(s)
		if err != nil {
			t.Fatalf("TimeToMinutes(%q): %v", s, err)
		}
		if back != m {
			t.Fatalf("round trip of %d via %q yielded %d", m, s, back)
		}
	}
}

func TestComputeGridRange(t *testing.T) {
	t.Parallel()

	t.Run("empty set uses default window", func(t *testing.T) {
		g := ComputeGridRange(nil, 15)
		if g.MinStart != DefaultGridStart || g.MaxEnd != DefaultGridEnd {
			t.Fatalf("got window [%d, %d), want [%d, %d)", g.MinStart, g.MaxEnd, DefaultGridStart, DefaultGridEnd)
		}
		if len(g.SlotLabels) != (DefaultGridEnd-DefaultGridStart)/15 {
			t.Fatalf("got %d labels, want %d", len(g.SlotLabels), (DefaultGridEnd-DefaultGridStart)/15)
		}
		if g.SlotLabels[0] != "08:00" {
			t.Fatalf("first label = %q, want 08:00", g.SlotLabels[0])
		}
	})

	t.Run("floors start and ceils end to slot boundaries", func(t *testing.T) {
		boxes := []Box{
			{ID: 1, Day: 1, Start: 9*60 + 10, Duration: 35}, // 09:10–09:45
			{ID: 2, Day: 1, Start: 11 * 60, Duration: 25},   // 11:00–11:25
		}
		g := ComputeGridRange(boxes, 15)
		if g.MinStart != 9*60 {
			t.Fatalf("MinStart = %d, want %d", g.MinStart, 9*60)
		}
		if g.MaxEnd != 11*60+30 {
			t.Fatalf("MaxEnd = %d, want %d", g.MaxEnd, 11*60+30)
		}
		if got := g.SlotLabels[0]; got != "09:00" {
			t.Fatalf("first label = %q, want 09:00", got)
		}
		if got := g.SlotLabels[len(g.SlotLabels)-1]; got != "11:15" {
			t.Fatalf("last label = %q, want 11:15", got)
		}
	})

	t.Run("slot start lookup", func(t *testing.T) {
		g := ComputeGridRange(nil, 15)
		if got := g.SlotStart(0, 15); got != DefaultGridStart {
			t.Fatalf("SlotStart(0) = %d, want %d", got, DefaultGridStart)
		}
		if got := g.SlotStart(10, 15); got != DefaultGridStart+150 {
			t.Fatalf("SlotStart(10) = %d, want %d", got, DefaultGridStart+150)
		}
		if got := g.SlotStart(-1, 15); got >= 0 {
			t.Fatalf("SlotStart(-1) = %d, want negative", got)
		}
		if got := g.SlotStart(10000, 15); got >= 0 {
			t.Fatalf("SlotStart far past end = %d, want negative", got)
		}
	})
}
