package jpholiday

import "time"

// businessDaySearchLimit bounds NextBusinessDay and PreviousBusinessDay. A
// calendar whose custom holidays cover a whole year has no business day.
const businessDaySearchLimit = 366

// IsNoWorkday reports whether t falls on a Saturday, a Sunday or a holiday,
// judged on the JST calendar day.
func (c *Calendar) IsNoWorkday(t time.Time) bool {
	switch t.In(jstZone).Weekday() {
	case time.Saturday, time.Sunday:
		return true
	}
	return c.IsHoliday(t)
}

// IsBusinessDay is the negation of [Calendar.IsNoWorkday].
func (c *Calendar) IsBusinessDay(t time.Time) bool {
	return !c.IsNoWorkday(t)
}

// NextHoliday returns the first holiday after t's date. It reports false when
// nothing follows up to the end of [MaxYear].
func (c *Calendar) NextHoliday(t time.Time) (Holiday, bool) {
	return c.nearest(dateFromTime(t), 1)
}

// PreviousHoliday returns the last holiday before t's date. It reports false
// when nothing precedes back to [MinYear].
func (c *Calendar) PreviousHoliday(t time.Time) (Holiday, bool) {
	return c.nearest(dateFromTime(t), -1)
}

// nearest finds the closest holiday strictly after (dir > 0) or before
// (dir < 0) d, custom holidays included and suppressed ones skipped.
func (c *Calendar) nearest(d date, dir int) (Holiday, bool) {
	beyond := func(a, b date) bool {
		if dir > 0 {
			return a.after(b)
		}
		return a.before(b)
	}

	c.mu.RLock()
	defer c.mu.RUnlock()

	var best date
	found := false
	for cd := range c.custom {
		if beyond(cd, d) && (!found || beyond(best, cd)) {
			best, found = cd, true
		}
	}

	year, last := max(d.year, MinYear), MaxYear
	if dir < 0 {
		year, last = min(d.year, MaxYear), MinYear
	}
	for ; (year-last)*dir <= 0; year += dir {
		if found && (year-best.year)*dir > 0 {
			break
		}
		if e, ok := c.firstInYear(year, d, dir, beyond); ok {
			if !found || beyond(best, e) {
				best, found = e, true
			}
			break
		}
	}

	if !found {
		return Holiday{}, false
	}
	return c.findLocked(best)
}

// firstInYear walks one resolved year in direction dir and returns the first
// unsuppressed date beyond d.
func (c *Calendar) firstInYear(year int, d date, dir int, beyond func(a, b date) bool) (date, bool) {
	entries := resolvedYear(year).entries
	for i := range entries {
		e := entries[i]
		if dir < 0 {
			e = entries[len(entries)-1-i]
		}
		if beyond(e.date, d) && !c.removed[e.date] {
			return e.date, true
		}
	}
	return date{}, false
}

// NextBusinessDay returns t's date if it is a business day, otherwise the
// next one, as midnight UTC. It gives the zero time if none is found within
// a year.
func (c *Calendar) NextBusinessDay(t time.Time) time.Time {
	return c.walkToBusinessDay(dateFromTime(t), 1)
}

// PreviousBusinessDay returns t's date if it is a business day, otherwise the
// one before, as midnight UTC. It gives the zero time if none is found within
// a year.
func (c *Calendar) PreviousBusinessDay(t time.Time) time.Time {
	return c.walkToBusinessDay(dateFromTime(t), -1)
}

func (c *Calendar) walkToBusinessDay(d date, dir int) time.Time {
	for i := 0; i < businessDaySearchLimit; i++ {
		if day := d.toTime(); c.IsBusinessDay(day) {
			return day
		}
		d = d.addDays(dir)
	}
	return time.Time{}
}

// BusinessDaysBetween counts the business days from from through to, both
// included. It returns 0 when to is before from.
func (c *Calendar) BusinessDaysBetween(from, to time.Time) int {
	start, end := dateFromTime(from), dateFromTime(to)
	n := 0
	for d := start; !end.before(d); d = d.addDays(1) {
		if c.IsBusinessDay(d.toTime()) {
			n++
		}
	}
	return n
}

// IsNoWorkday is [Calendar.IsNoWorkday] on the default calendar.
func IsNoWorkday(t time.Time) bool { return defaultCal.IsNoWorkday(t) }

// IsBusinessDay is [Calendar.IsBusinessDay] on the default calendar.
func IsBusinessDay(t time.Time) bool { return defaultCal.IsBusinessDay(t) }

// NextHoliday is [Calendar.NextHoliday] on the default calendar.
func NextHoliday(t time.Time) (Holiday, bool) { return defaultCal.NextHoliday(t) }

// PreviousHoliday is [Calendar.PreviousHoliday] on the default calendar.
func PreviousHoliday(t time.Time) (Holiday, bool) { return defaultCal.PreviousHoliday(t) }

// NextBusinessDay is [Calendar.NextBusinessDay] on the default calendar.
func NextBusinessDay(t time.Time) time.Time { return defaultCal.NextBusinessDay(t) }

// PreviousBusinessDay is [Calendar.PreviousBusinessDay] on the default calendar.
func PreviousBusinessDay(t time.Time) time.Time { return defaultCal.PreviousBusinessDay(t) }

// BusinessDaysBetween is [Calendar.BusinessDaysBetween] on the default calendar.
func BusinessDaysBetween(from, to time.Time) int { return defaultCal.BusinessDaysBetween(from, to) }
