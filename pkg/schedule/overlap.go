// Package schedule provides availability-window math for matching:
// parsing "HH:MM-HH:MM" windows and computing overlap fractions.
package schedule

import (
	"fmt"
	"strconv"
	"strings"
)

// Window is a time-of-day interval in minutes since midnight, [Start, End).
type Window struct {
	Start int
	End   int
}

func (w Window) Minutes() int {
	if w.End <= w.Start {
		return 0
	}
	return w.End - w.Start
}

// ParseWindows parses a comma-separated list of "HH:MM-HH:MM" windows.
// Empty input yields an empty slice, not an error.
func ParseWindows(csv string) ([]Window, error) {
	csv = strings.TrimSpace(csv)
	if csv == "" {
		return nil, nil
	}
	parts := strings.Split(csv, ",")
	out := make([]Window, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p == "" {
			continue
		}
		bounds := strings.Split(p, "-")
		if len(bounds) != 2 {
			return nil, fmt.Errorf("invalid window %q", p)
		}
		start, err := parseClock(bounds[0])
		if err != nil {
			return nil, fmt.Errorf("invalid window %q: %w", p, err)
		}
		end, err := parseClock(bounds[1])
		if err != nil {
			return nil, fmt.Errorf("invalid window %q: %w", p, err)
		}
		if end <= start {
			return nil, fmt.Errorf("invalid window %q: end before start", p)
		}
		out = append(out, Window{Start: start, End: end})
	}
	return out, nil
}

func parseClock(s string) (int, error) {
	s = strings.TrimSpace(s)
	hm := strings.Split(s, ":")
	if len(hm) != 2 {
		return 0, fmt.Errorf("bad clock %q", s)
	}
	h, err := strconv.Atoi(hm[0])
	if err != nil || h < 0 || h > 23 {
		return 0, fmt.Errorf("bad hour %q", s)
	}
	m, err := strconv.Atoi(hm[1])
	if err != nil || m < 0 || m > 59 {
		return 0, fmt.Errorf("bad minute %q", s)
	}
	return h*60 + m, nil
}

// OverlapFraction returns the fraction of want's total minutes that offer
// covers. An empty want means fully flexible and scores 1. An empty offer
// against a non-empty want scores 0.
func OverlapFraction(want, offer []Window) float64 {
	total := 0
	for _, w := range want {
		total += w.Minutes()
	}
	if total == 0 {
		return 1
	}
	covered := 0
	for _, w := range want {
		for _, o := range offer {
			covered += intersectMinutes(w, o)
		}
	}
	frac := float64(covered) / float64(total)
	if frac > 1 {
		frac = 1
	}
	return frac
}

func intersectMinutes(a, b Window) int {
	start := a.Start
	if b.Start > start {
		start = b.Start
	}
	end := a.End
	if b.End < end {
		end = b.End
	}
	if end <= start {
		return 0
	}
	return end - start
}

// SetOverlapFraction returns |want ∩ offer| / |want| for string sets.
// An empty want is fully flexible and scores 1.
func SetOverlapFraction(want, offer []string) float64 {
	if len(want) == 0 {
		return 1
	}
	offered := make(map[string]struct{}, len(offer))
	for _, o := range offer {
		offered[o] = struct{}{}
	}
	hit := 0
	for _, w := range want {
		if _, ok := offered[w]; ok {
			hit++
		}
	}
	return float64(hit) / float64(len(want))
}

// Intersects reports whether the two string sets share an element. An empty
// set on either side is treated as "anything" and intersects everything.
func Intersects(a, b []string) bool {
	if len(a) == 0 || len(b) == 0 {
		return true
	}
	set := make(map[string]struct{}, len(a))
	for _, v := range a {
		set[v] = struct{}{}
	}
	for _, v := range b {
		if _, ok := set[v]; ok {
			return true
		}
	}
	return false
}
