package domain

import (
	"fmt"
	"time"
)

// AcademicYearWindow is an institution's recurring year boundary, given as a
// month-day start (e.g. September 1). The window runs from the start date to
// the day before the next start.
type AcademicYearWindow struct {
	StartMonth time.Month
	StartDay   int
}

// YearFor returns the "YYYY-YYYY" label of the academic year containing t.
// A September 1 window labels 2025-10-15 as "2025-2026" and 2026-03-02 as
// "2025-2026".
func (w AcademicYearWindow) YearFor(t time.Time) string {
	start := time.Date(t.Year(), w.StartMonth, w.StartDay, 0, 0, 0, 0, t.Location())
	if t.Before(start) {
		return fmt.Sprintf("%d-%d", t.Year()-1, t.Year())
	}
	return fmt.Sprintf("%d-%d", t.Year(), t.Year()+1)
}

// Contains reports whether t falls in the academic year labelled year.
func (w AcademicYearWindow) Contains(t time.Time, year string) bool {
	return w.YearFor(t) == year
}
