package grid

import (
	"sort"
	"time"
)

// AssignColumns resolves visual overlap between rendered events. Events are
// partitioned into overlap groups (maximal chains of transitively
// overlapping clipped intervals); within each group every event gets a
// column index and the group's total column count, so overlapping lessons
// render side by side instead of stacked.
//
// The assignment is deterministic: identical input always yields identical
// columns. Timing and pixel fields are never altered.
func AssignColumns(events []Rendered) []Rendered {
	if len(events) == 0 {
		return events
	}

	// Sort by clipped start ascending; ties broken by longer duration first
	// so the dominant event of a simultaneous start anchors column 0.
	sort.SliceStable(events, func(i, j int) bool {
		si, sj := events[i].ClippedStart, events[j].ClippedStart
		if !si.Equal(sj) {
			return si.Before(sj)
		}
		return events[i].ClippedEnd.After(events[j].ClippedEnd)
	})

	groupStart := 0
	groupEnd := events[0].ClippedEnd
	for i := 1; i <= len(events); i++ {
		// A new group begins when the next event starts at or after the
		// running max end of the current group: no overlap chain reaches it.
		if i == len(events) || !events[i].ClippedStart.Before(groupEnd) {
			assignGroupColumns(events[groupStart:i])
			if i == len(events) {
				break
			}
			groupStart = i
			groupEnd = events[i].ClippedEnd
			continue
		}
		if events[i].ClippedEnd.After(groupEnd) {
			groupEnd = events[i].ClippedEnd
		}
	}

	return events
}

// assignGroupColumns greedily packs one overlap group. Each open column
// tracks the end time of the last event placed in it; an event takes the
// first column that is free by the time it begins, opening a new column
// only when none qualifies. Column count for the whole group is the number
// of columns opened.
func assignGroupColumns(group []Rendered) {
	var columnEnds []time.Time

	for i := range group {
		placed := false
		for c, end := range columnEnds {
			if !end.After(group[i].ClippedStart) {
				group[i].Column = c
				columnEnds[c] = group[i].ClippedEnd
				placed = true
				break
			}
		}
		if !placed {
			group[i].Column = len(columnEnds)
			columnEnds = append(columnEnds, group[i].ClippedEnd)
		}
	}

	for i := range group {
		group[i].ColumnCount = len(columnEnds)
	}
}
