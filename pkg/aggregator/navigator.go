package aggregator

import (
	"github.com/0xmhha/labseat/pkg/calendar"
)

// Navigator moves a week selection among the weeks that have data. Empty
// weeks are never reachable.
type Navigator struct {
	weeks   []calendar.WeekKey
	current calendar.WeekKey
}

// NewNavigator builds a navigator over totals. current is the week
// containing the present instant.
func NewNavigator(totals Totals, current calendar.WeekKey) Navigator {
	return Navigator{
		weeks:   totals.WeeksWithData(),
		current: current,
	}
}

// Weeks returns the navigable weeks, oldest first.
func (n Navigator) Weeks() []calendar.WeekKey {
	out := make([]calendar.WeekKey, len(n.weeks))
	copy(out, n.weeks)
	return out
}

// Resolve returns selected when it has data, otherwise the latest week
// with data. With no data at all it returns selected, or the current week
// when selected is empty.
func (n Navigator) Resolve(selected calendar.WeekKey) calendar.WeekKey {
	if n.index(selected) >= 0 {
		return selected
	}
	if len(n.weeks) > 0 {
		return n.weeks[len(n.weeks)-1]
	}
	if selected == "" {
		return n.current
	}
	return selected
}

// Prev returns the week before selected, or selected when there is none.
func (n Navigator) Prev(selected calendar.WeekKey) calendar.WeekKey {
	idx := n.index(selected)
	if idx <= 0 {
		return selected
	}
	return n.weeks[idx-1]
}

// Next returns the week after selected, or selected when there is none.
func (n Navigator) Next(selected calendar.WeekKey) calendar.WeekKey {
	idx := n.index(selected)
	if idx < 0 || idx >= len(n.weeks)-1 {
		return selected
	}
	return n.weeks[idx+1]
}

// This jumps to the current week when it has data.
func (n Navigator) This(selected calendar.WeekKey) calendar.WeekKey {
	if n.index(n.current) < 0 {
		return selected
	}
	return n.current
}

// HasPrev reports whether Prev would move.
func (n Navigator) HasPrev(selected calendar.WeekKey) bool {
	return n.index(selected) > 0
}

// HasNext reports whether Next would move.
func (n Navigator) HasNext(selected calendar.WeekKey) bool {
	idx := n.index(selected)
	return idx >= 0 && idx < len(n.weeks)-1
}

// HasThis reports whether This would land on the current week.
func (n Navigator) HasThis() bool {
	return n.index(n.current) >= 0
}

func (n Navigator) index(week calendar.WeekKey) int {
	for i, w := range n.weeks {
		if w == week {
			return i
		}
	}
	return -1
}
