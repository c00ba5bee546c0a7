package main

import "sort"

const (
	minutesPerHour = 60
	minutesPerDay  = 24 * minutesPerHour
	hoursPerDay    = 24
)

// MinuteRange is a half-open [Start, End) span of minutes of the day without power
type MinuteRange struct {
	Start int
	End   int
}

// BlackoutSchedule is a sorted list of merged, non-overlapping outage ranges
type BlackoutSchedule []MinuteRange

// HourCellStatus is the outage state of one hour cell in the schedule table
type HourCellStatus int

const (
	NoOutage HourCellStatus = iota
	FullHour
	FirstHalf
	SecondHalf
)

func (s HourCellStatus) String() string {
	switch s {
	case FullHour:
		return "full-hour"
	case FirstHalf:
		return "first-half"
	case SecondHalf:
		return "second-half"
	default:
		return "no-outage"
	}
}

// Presentation classes the provider puts on hour cells
const (
	classScheduled    = "cell-scheduled"
	classFirstHalf    = "cell-first-half"
	classSecondHalf   = "cell-second-half"
	classNonScheduled = "cell-non-scheduled"
)

// StatusFromClasses maps a cell's class list to a status. The second return value
// is false when none of the known markers is present.
func StatusFromClasses(classes []string) (HourCellStatus, bool) {
	known := false
	status := NoOutage
	for _, c := range classes {
		switch c {
		case classScheduled:
			return FullHour, true
		case classFirstHalf:
			status, known = FirstHalf, true
		case classSecondHalf:
			if status != FirstHalf {
				status = SecondHalf
			}
			known = true
		case classNonScheduled:
			known = true
		}
	}
	return status, known
}

// ClassifyHour turns one hour cell into zero or one minute ranges
func ClassifyHour(hour int, status HourCellStatus) []MinuteRange {
	base := hour * minutesPerHour

	switch status {
	case FullHour:
		return []MinuteRange{{Start: base, End: base + 60}}
	case FirstHalf:
		return []MinuteRange{{Start: base, End: base + 30}}
	case SecondHalf:
		return []MinuteRange{{Start: base + 30, End: base + 60}}
	default:
		return nil
	}
}

// MergeRanges sorts ranges and folds overlapping or touching ones together.
// The input slice is not modified.
func MergeRanges(ranges []MinuteRange) BlackoutSchedule {
	if len(ranges) == 0 {
		return BlackoutSchedule{}
	}

	sorted := make([]MinuteRange, len(ranges))
	copy(sorted, ranges)
	sort.SliceStable(sorted, func(i, j int) bool {
		if sorted[i].Start != sorted[j].Start {
			return sorted[i].Start < sorted[j].Start
		}
		return sorted[i].End < sorted[j].End
	})

	merged := BlackoutSchedule{sorted[0]}
	for _, r := range sorted[1:] {
		last := &merged[len(merged)-1]
		if r.Start <= last.End {
			if r.End > last.End {
				last.End = r.End
			}
			continue
		}
		merged = append(merged, r)
	}

	return merged
}

// TotalMinutes returns how many minutes of the day are covered by the schedule
func (s BlackoutSchedule) TotalMinutes() int {
	total := 0
	for _, r := range s {
		total += r.End - r.Start
	}
	return total
}
