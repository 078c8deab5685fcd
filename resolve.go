package jpholiday

import (
	"fmt"
	"sort"
	"sync"
	"time"
)

const (
	// MinYear is the first year with holidays: the Act on National Holidays
	// took effect in July 1948.
	MinYear = 1948
	// MaxYear is the last year the calculator resolves. Years after 2150 rely
	// on an extrapolated equinox formula and are estimates.
	MaxYear = 2999
)

var (
	// substituteFrom is when the substitute holiday rule took effect.
	substituteFrom = date{year: 1973, month: time.April, day: 12}
	// substituteChainFrom is when a substitute holiday started to skip over
	// following holidays instead of being dropped.
	substituteChainFrom = date{year: 2007, month: time.January, day: 1}
	// citizensFrom is when the citizens' holiday rule took effect.
	citizensFrom = date{year: 1985, month: time.December, day: 27}
)

// entry is a resolved holiday before conversion to the exported Holiday.
type entry struct {
	date   date
	name   string
	nameEn string
	kind   Kind
}

func (e entry) holiday() Holiday {
	return Holiday{Date: e.date.toTime(), Name: e.name, NameEn: e.nameEn, Kind: e.kind}
}

// primary reports whether the entry counts as 国民の祝日 for the
// substitute and citizens' holiday rules.
func (e entry) primary() bool {
	return e.kind == National || e.kind == Special
}

// yearTable is a resolved year: entries sorted by date plus an index.
type yearTable struct {
	entries []entry
	index   map[date]int
}

func (t *yearTable) lookup(d date) (entry, bool) {
	i, ok := t.index[d]
	if !ok {
		return entry{}, false
	}
	return t.entries[i], true
}

var emptyYear = &yearTable{index: map[date]int{}}

// yearCache memoizes resolved years. Tables are never modified after they
// are stored, so readers share them without copying.
var yearCache = struct {
	mu    sync.RWMutex
	years map[int]*yearTable
}{years: make(map[int]*yearTable)}

// resolvedYear returns the resolved table for year, computing it on first use.
func resolvedYear(year int) *yearTable {
	if year < MinYear || year > MaxYear {
		return emptyYear
	}

	yearCache.mu.RLock()
	t, ok := yearCache.years[year]
	yearCache.mu.RUnlock()
	if ok {
		return t
	}

	t = resolveYear(year)

	yearCache.mu.Lock()
	defer yearCache.mu.Unlock()
	if cached, ok := yearCache.years[year]; ok {
		return cached
	}
	yearCache.years[year] = t
	return t
}

// resolveYear evaluates the rule table for year. The steps must run in this
// order: the substitute and citizens' passes look at the complete set of
// primary holidays, and a citizens' holiday never lands on a substitute day.
func resolveYear(year int) *yearTable {
	entries := evalRules(year)
	entries = applySubstitutes(entries)
	entries = applyCitizens(entries)

	t := &yearTable{entries: entries, index: make(map[date]int, len(entries))}
	for i, e := range entries {
		t.index[e.date] = i
	}
	return t
}

// evalRules runs every rule for year and returns the primary holidays sorted
// by date. Two rules resolving to the same date is a bug in the table.
func evalRules(year int) []entry {
	var entries []entry
	for _, r := range rules {
		d, ok := r.eval(year)
		if !ok || d.before(lawEnacted) {
			continue
		}
		entries = append(entries, entry{date: d, name: r.name, nameEn: r.nameEn, kind: r.holidayKind()})
	}

	sort.Slice(entries, func(i, j int) bool {
		return entries[i].date.before(entries[j].date)
	})
	for i := 1; i < len(entries); i++ {
		if entries[i].date == entries[i-1].date {
			panic(fmt.Sprintf("jpholiday: %s resolves to both %q and %q",
				entries[i].date, entries[i-1].name, entries[i].name))
		}
	}
	return entries
}

// applySubstitutes adds a 振替休日 for every primary holiday on a Sunday.
// Before 2007 the substitute is the following day only, and is skipped when
// that day is already a holiday. From 2007 it is the next day that is not a
// holiday.
func applySubstitutes(entries []entry) []entry {
	taken := make(map[date]bool, len(entries))
	for _, e := range entries {
		taken[e.date] = true
	}

	var subs []entry
	for _, e := range entries {
		if !e.primary() || e.date.weekday() != time.Sunday || e.date.before(substituteFrom) {
			continue
		}
		next := e.date.addDays(1)
		if e.date.before(substituteChainFrom) {
			if taken[next] {
				continue
			}
		} else {
			for taken[next] {
				next = next.addDays(1)
			}
		}
		taken[next] = true
		subs = append(subs, entry{date: next, name: substituteName, nameEn: substituteNameEn, kind: Substitute})
	}
	return merge(entries, subs)
}

// applyCitizens adds a 国民の休日 for every day, other than a Sunday or an
// existing holiday, that lies between two primary holidays.
func applyCitizens(entries []entry) []entry {
	taken := make(map[date]bool, len(entries))
	var prims []date
	for _, e := range entries {
		taken[e.date] = true
		if e.primary() {
			prims = append(prims, e.date)
		}
	}

	var extra []entry
	for i := 1; i < len(prims); i++ {
		mid := prims[i-1].addDays(1)
		if mid.addDays(1) != prims[i] {
			continue
		}
		if taken[mid] || mid.weekday() == time.Sunday || mid.before(citizensFrom) {
			continue
		}
		extra = append(extra, entry{date: mid, name: citizensName, nameEn: citizensNameEn, kind: Citizens})
	}
	return merge(entries, extra)
}

// merge combines two date-sorted slices into one.
func merge(a, b []entry) []entry {
	if len(b) == 0 {
		return a
	}
	out := make([]entry, 0, len(a)+len(b))
	i, j := 0, 0
	for i < len(a) && j < len(b) {
		if b[j].date.before(a[i].date) {
			out = append(out, b[j])
			j++
		} else {
			out = append(out, a[i])
			i++
		}
	}
	out = append(out, a[i:]...)
	return append(out, b[j:]...)
}
