package attendance

import "time"

// Summary is the per-status day count of an employee over a date range.
type Summary struct {
	Present      int
	Absent       int
	Leave        int
	HalfDay      int
	WorkFromHome int
}

// LeaveSpan is an inclusive range of approved leave.
type LeaveSpan struct {
	Start time.Time
	End   time.Time
}

// Aggregate counts records dated within [start, end]. Days covered by an
// approved leave span that have no record are counted as leave, whatever
// the leave type.
func Aggregate(records []Record, approvedLeaves []LeaveSpan, start, end time.Time) Summary {
	start, end = truncateDay(start), truncateDay(end)

	byDay := make(map[time.Time]Status, len(records))
	for _, r := range records {
		day := truncateDay(r.Date)
		if day.Before(start) || day.After(end) {
			continue
		}
		byDay[day] = r.Status
	}

	for _, span := range approvedLeaves {
		from, to := truncateDay(span.Start), truncateDay(span.End)
		if from.Before(start) {
			from = start
		}
		if to.After(end) {
			to = end
		}
		for d := from; !d.After(to); d = d.AddDate(0, 0, 1) {
			if _, ok := byDay[d]; !ok {
				byDay[d] = StatusOnLeave
			}
		}
	}

	var s Summary
	for _, status := range byDay {
		switch {
		case status == StatusPresent:
			s.Present++
		case status == StatusAbsent:
			s.Absent++
		case status.IsLeave():
			s.Leave++
		case status == StatusHalfDay:
			s.HalfDay++
		case status == StatusWorkFromHome:
			s.WorkFromHome++
		}
	}
	return s
}

func truncateDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
