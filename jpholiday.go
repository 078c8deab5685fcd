// Package jpholiday computes Japanese national holidays and business days.
//
// Holidays are derived from the rules of the Act on National Holidays
// (国民の祝日に関する法律) rather than from a fixed list: fixed dates,
// "Happy Monday" rules, the equinox approximation, one-off days set by
// special acts, 振替休日 (substitute holidays) and 国民の休日 (citizens'
// holidays). Any year from [MinYear] to [MaxYear] can be queried; other
// years have no holidays.
//
// A time.Time argument names the calendar day it falls on in Japan: it is
// converted to JST (UTC+9) before the date is taken, whatever its location.
//
// The package-level functions use a shared default calendar:
//
//	jst := time.FixedZone("Asia/Tokyo", 9*60*60)
//	t := time.Date(2024, 1, 1, 0, 0, 0, 0, jst)
//	jpholiday.IsHoliday(t)    // true
//	jpholiday.HolidayName(t)  // "元日"
//
// A Calendar from [New] keeps its own company holidays and exclusions:
//
//	cal := jpholiday.New()
//	cal.AddCustomHoliday(t, "会社記念日")
package jpholiday

import (
	"sort"
	"sync"
	"time"
)

// Holiday is one day off. Date is midnight UTC of the Japanese calendar day.
type Holiday struct {
	Date   time.Time
	Name   string // e.g. "元日"
	NameEn string // e.g. "New Year's Day"; empty for custom holidays
	Kind   Kind
}

// Calendar overlays custom holidays and suppressed national holidays on the
// computed ones. The zero value is not usable; call [New]. A Calendar is safe
// for concurrent use.
type Calendar struct {
	mu      sync.RWMutex
	custom  map[date]string
	removed map[date]bool
}

// New returns a Calendar with no overrides.
func New() *Calendar {
	return &Calendar{
		custom:  make(map[date]string),
		removed: make(map[date]bool),
	}
}

var defaultCal = New()

func (c *Calendar) find(d date) (Holiday, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.findLocked(d)
}

// findLocked resolves d with the overlay applied: a custom name wins, then a
// suppressed date has nothing, then the computed table is consulted.
func (c *Calendar) findLocked(d date) (Holiday, bool) {
	if name, ok := c.custom[d]; ok {
		return customHoliday(d, name), true
	}
	if c.removed[d] {
		return Holiday{}, false
	}
	e, ok := resolvedYear(d.year).lookup(d)
	if !ok {
		return Holiday{}, false
	}
	return e.holiday(), true
}

func customHoliday(d date, name string) Holiday {
	return Holiday{Date: d.toTime(), Name: name, Kind: Custom}
}

// IsHoliday reports whether t falls on a holiday, computed or custom.
func (c *Calendar) IsHoliday(t time.Time) bool {
	_, ok := c.find(dateFromTime(t))
	return ok
}

// HolidayName returns the name of the holiday t falls on, or "" if none.
func (c *Calendar) HolidayName(t time.Time) string {
	h, _ := c.find(dateFromTime(t))
	return h.Name
}

// Lookup returns the full holiday record for t.
func (c *Calendar) Lookup(t time.Time) (Holiday, bool) {
	return c.find(dateFromTime(t))
}

// HolidaysInYear lists the holidays of year in date order. Years outside
// [MinYear, MaxYear] give an empty list unless custom holidays fall in them.
func (c *Calendar) HolidaysInYear(year int) []Holiday {
	return c.collect(
		date{year: year, month: time.January, day: 1},
		date{year: year, month: time.December, day: 31},
	)
}

// HolidaysInMonth lists the holidays of one month in date order. An invalid
// month gives nil.
func (c *Calendar) HolidaysInMonth(year int, month time.Month) []Holiday {
	if month < time.January || month > time.December {
		return nil
	}
	return c.collect(
		date{year: year, month: month, day: 1},
		date{year: year, month: month, day: daysIn(year, month)},
	)
}

// HolidaysBetween lists the holidays from from through to, both included,
// in date order. It returns nil when to is before from.
func (c *Calendar) HolidaysBetween(from, to time.Time) []Holiday {
	start, end := dateFromTime(from), dateFromTime(to)
	if end.before(start) {
		return nil
	}
	return c.collect(start, end)
}

func (c *Calendar) collect(start, end date) []Holiday {
	c.mu.RLock()
	defer c.mu.RUnlock()

	var out []Holiday
	for year := max(start.year, MinYear); year <= min(end.year, MaxYear); year++ {
		for _, e := range resolvedYear(year).entries {
			if !e.date.inRange(start, end) || c.removed[e.date] {
				continue
			}
			if _, shadowed := c.custom[e.date]; shadowed {
				continue
			}
			out = append(out, e.holiday())
		}
	}

	n := len(out)
	for d, name := range c.custom {
		if d.inRange(start, end) {
			out = append(out, customHoliday(d, name))
		}
	}
	if len(out) > n {
		sort.Slice(out, func(i, j int) bool {
			return out[i].Date.Before(out[j].Date)
		})
	}
	return out
}

func (c *Calendar) update(t time.Time, fn func(d date)) {
	d := dateFromTime(t)
	c.mu.Lock()
	defer c.mu.Unlock()
	fn(d)
}

// AddCustomHoliday marks t's date as a holiday called name. It replaces an
// earlier custom holiday on that date and hides a computed one.
func (c *Calendar) AddCustomHoliday(t time.Time, name string) {
	c.update(t, func(d date) { c.custom[d] = name })
}

// RemoveCustomHoliday deletes the custom holiday on t's date, if any.
func (c *Calendar) RemoveCustomHoliday(t time.Time) {
	c.update(t, func(d date) { delete(c.custom, d) })
}

// RemoveHoliday hides the computed holiday on t's date. Custom holidays are
// unaffected; [Calendar.RestoreHoliday] undoes it.
func (c *Calendar) RemoveHoliday(t time.Time) {
	c.update(t, func(d date) { c.removed[d] = true })
}

// RestoreHoliday undoes [Calendar.RemoveHoliday].
func (c *Calendar) RestoreHoliday(t time.Time) {
	c.update(t, func(d date) { delete(c.removed, d) })
}

// IsHoliday is [Calendar.IsHoliday] on the default calendar.
func IsHoliday(t time.Time) bool { return defaultCal.IsHoliday(t) }

// HolidayName is [Calendar.HolidayName] on the default calendar.
func HolidayName(t time.Time) string { return defaultCal.HolidayName(t) }

// Lookup is [Calendar.Lookup] on the default calendar.
func Lookup(t time.Time) (Holiday, bool) { return defaultCal.Lookup(t) }

// HolidaysInYear is [Calendar.HolidaysInYear] on the default calendar.
func HolidaysInYear(year int) []Holiday { return defaultCal.HolidaysInYear(year) }

// HolidaysInMonth is [Calendar.HolidaysInMonth] on the default calendar.
func HolidaysInMonth(year int, month time.Month) []Holiday {
	return defaultCal.HolidaysInMonth(year, month)
}

// HolidaysBetween is [Calendar.HolidaysBetween] on the default calendar.
func HolidaysBetween(from, to time.Time) []Holiday {
	return defaultCal.HolidaysBetween(from, to)
}

// AddCustomHoliday is [Calendar.AddCustomHoliday] on the default calendar.
func AddCustomHoliday(t time.Time, name string) { defaultCal.AddCustomHoliday(t, name) }

// RemoveCustomHoliday is [Calendar.RemoveCustomHoliday] on the default calendar.
func RemoveCustomHoliday(t time.Time) { defaultCal.RemoveCustomHoliday(t) }

// RemoveHoliday is [Calendar.RemoveHoliday] on the default calendar.
func RemoveHoliday(t time.Time) { defaultCal.RemoveHoliday(t) }

// RestoreHoliday is [Calendar.RestoreHoliday] on the default calendar.
func RestoreHoliday(t time.Time) { defaultCal.RestoreHoliday(t) }
