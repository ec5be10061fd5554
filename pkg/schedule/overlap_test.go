package schedule

import "testing"

func TestParseWindows(t *testing.T) {
	got, err := ParseWindows("09:00-12:00, 14:30-16:00")
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	want := []Window{{Start: 540, End: 720}, {Start: 870, End: 960}}
	if len(got) != len(want) {
		t.Fatalf("got %d windows, want %d", len(got), len(want))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("window %d = %+v, want %+v", i, got[i], want[i])
		}
	}
}

func TestParseWindowsEmpty(t *testing.T) {
	got, err := ParseWindows("  ")
	if err != nil || len(got) != 0 {
		t.Fatalf("empty input: %v, %v", got, err)
	}
}

func TestParseWindowsInvalid(t *testing.T) {
	for _, in := range []string{
		"09:00",
		"9am-11am",
		"25:00-26:00",
		"09:61-10:00",
		"12:00-09:00",
	} {
		if _, err := ParseWindows(in); err == nil {
			t.Errorf("ParseWindows(%q) accepted", in)
		}
	}
}

func TestOverlapFraction(t *testing.T) {
	cases := []struct {
		name  string
		want  []Window
		offer []Window
		frac  float64
	}{
		{"full cover", []Window{{540, 720}}, []Window{{480, 780}}, 1},
		{"partial cover", []Window{{540, 720}}, []Window{{600, 660}}, 1.0 / 3.0},
		{"no cover", []Window{{540, 720}}, []Window{{780, 840}}, 0},
		{"empty want is flexible", nil, []Window{{540, 720}}, 1},
		{"empty offer", []Window{{540, 720}}, nil, 0},
		{"two want windows half covered", []Window{{540, 600}, {600, 660}}, []Window{{540, 600}}, 0.5},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := OverlapFraction(tc.want, tc.offer); got != tc.frac {
				t.Fatalf("OverlapFraction = %v, want %v", got, tc.frac)
			}
		})
	}
}

func TestSetOverlapFraction(t *testing.T) {
	if got := SetOverlapFraction([]string{"MON", "TUE"}, []string{"MON", "WED"}); got != 0.5 {
		t.Fatalf("got %v, want 0.5", got)
	}
	if got := SetOverlapFraction(nil, []string{"MON"}); got != 1 {
		t.Fatalf("empty want = %v, want 1", got)
	}
	if got := SetOverlapFraction([]string{"MON"}, nil); got != 0 {
		t.Fatalf("empty offer = %v, want 0", got)
	}
}

func TestIntersects(t *testing.T) {
	if !Intersects([]string{"MATH"}, []string{"MATH", "PHYSICS"}) {
		t.Fatal("shared element should intersect")
	}
	if Intersects([]string{"MATH"}, []string{"PHYSICS"}) {
		t.Fatal("disjoint sets should not intersect")
	}
	if !Intersects(nil, []string{"MATH"}) || !Intersects([]string{"MATH"}, nil) {
		t.Fatal("empty side should intersect everything")
	}
}
