package jpholiday

import (
	"math"
	"time"
)

// Kind classifies how a holiday came to be.
type Kind int

const (
	// National is a holiday named in the Act on National Holidays (国民の祝日).
	National Kind = iota + 1
	// Special is a one-off day declared by a special act and treated as a
	// national holiday, such as an imperial ceremony.
	Special
	// Substitute is a day off replacing a holiday that fell on Sunday (振替休日).
	Substitute
	// Citizens is a weekday sandwiched between two national holidays (国民の休日).
	Citizens
	// Custom is a holiday registered with [Calendar.AddCustomHoliday].
	Custom
)

func (k Kind) String() string {
	switch k {
	case National:
		return "national"
	case Special:
		return "special"
	case Substitute:
		return "substitute"
	case Citizens:
		return "citizens"
	case Custom:
		return "custom"
	}
	return "unknown"
}

const (
	substituteName   = "振替休日"
	substituteNameEn = "Substitute Holiday"
	citizensName     = "国民の休日"
	citizensNameEn   = "Citizens' Holiday"
)

// ruleKind selects which fields of a rule are meaningful.
type ruleKind int

const (
	fixedDate ruleKind = iota
	nthWeekday
	vernalEquinox
	autumnalEquinox
)

// rule is one entry of the holiday table. A rule applies to the years
// from..to inclusive; to == 0 means open-ended.
type rule struct {
	kind    ruleKind
	month   time.Month
	day     int          // fixedDate
	weekday time.Weekday // nthWeekday
	nth     int          // nthWeekday, counted from 1
	from    int
	to      int
	name    string
	nameEn  string
	special bool
}

func (r rule) appliesTo(year int) bool {
	return year >= r.from && (r.to == 0 || year <= r.to)
}

// eval returns the date the rule produces in year, if any.
func (r rule) eval(year int) (date, bool) {
	if !r.appliesTo(year) {
		return date{}, false
	}
	switch r.kind {
	case fixedDate:
		return dayOf(year, r.month, r.day)
	case nthWeekday:
		return nthWeekdayOf(year, r.month, r.weekday, r.nth)
	case vernalEquinox:
		return dayOf(year, time.March, vernalEquinoxDay(year))
	case autumnalEquinox:
		return dayOf(year, time.September, autumnalEquinoxDay(year))
	}
	return date{}, false
}

// dayOf rejects days that do not exist in the month instead of rolling over.
func dayOf(year int, month time.Month, day int) (date, bool) {
	if day < 1 || day > daysIn(year, month) {
		return date{}, false
	}
	return date{year: year, month: month, day: day}, true
}

func (r rule) holidayKind() Kind {
	if r.special {
		return Special
	}
	return National
}

func fixed(month time.Month, day, from, to int, name, nameEn string) rule {
	return rule{kind: fixedDate, month: month, day: day, from: from, to: to, name: name, nameEn: nameEn}
}

func monday(month time.Month, nth, from, to int, name, nameEn string) rule {
	return rule{kind: nthWeekday, month: month, weekday: time.Monday, nth: nth, from: from, to: to, name: name, nameEn: nameEn}
}

func oneOff(year int, month time.Month, day int, name, nameEn string) rule {
	r := fixed(month, day, year, year, name, nameEn)
	r.special = true
	return r
}

// lawEnacted is the day the Act on National Holidays (昭和23年法律第178号)
// came into force. Nothing before it is a holiday.
var lawEnacted = date{year: 1948, month: time.July, day: 20}

// rules is the full holiday table. Entries with the same name and disjoint
// windows describe how a single holiday moved over time.
var rules = []rule{
	fixed(time.January, 1, 1948, 0, "元日", "New Year's Day"),

	fixed(time.January, 15, 1948, 1999, "成人の日", "Coming of Age Day"),
	monday(time.January, 2, 2000, 0, "成人の日", "Coming of Age Day"),

	fixed(time.February, 11, 1967, 0, "建国記念の日", "National Foundation Day"),

	fixed(time.April, 29, 1948, 1988, "天皇誕生日", "The Emperor's Birthday"),
	fixed(time.December, 23, 1989, 2018, "天皇誕生日", "The Emperor's Birthday"),
	fixed(time.February, 23, 2020, 0, "天皇誕生日", "The Emperor's Birthday"),

	{kind: vernalEquinox, from: 1948, name: "春分の日", nameEn: "Vernal Equinox Day"},

	fixed(time.April, 29, 1989, 2006, "みどりの日", "Greenery Day"),
	fixed(time.May, 4, 2007, 0, "みどりの日", "Greenery Day"),

	fixed(time.April, 29, 2007, 0, "昭和の日", "Showa Day"),

	fixed(time.May, 3, 1948, 0, "憲法記念日", "Constitution Memorial Day"),
	fixed(time.May, 5, 1948, 0, "こどもの日", "Children's Day"),

	// 2020 and 2021 moved Marine Day, Sports Day and Mountain Day around the
	// Tokyo Olympics (令和2年・3年の特例).
	fixed(time.July, 20, 1996, 2002, "海の日", "Marine Day"),
	monday(time.July, 3, 2003, 2019, "海の日", "Marine Day"),
	fixed(time.July, 23, 2020, 2020, "海の日", "Marine Day"),
	fixed(time.July, 22, 2021, 2021, "海の日", "Marine Day"),
	monday(time.July, 3, 2022, 0, "海の日", "Marine Day"),

	fixed(time.August, 11, 2016, 2019, "山の日", "Mountain Day"),
	fixed(time.August, 10, 2020, 2020, "山の日", "Mountain Day"),
	fixed(time.August, 8, 2021, 2021, "山の日", "Mountain Day"),
	fixed(time.August, 11, 2022, 0, "山の日", "Mountain Day"),

	fixed(time.September, 15, 1966, 2002, "敬老の日", "Respect for the Aged Day"),
	monday(time.September, 3, 2003, 0, "敬老の日", "Respect for the Aged Day"),

	{kind: autumnalEquinox, from: 1948, name: "秋分の日", nameEn: "Autumnal Equinox Day"},

	fixed(time.October, 10, 1966, 1999, "体育の日", "Health and Sports Day"),
	monday(time.October, 2, 2000, 2019, "体育の日", "Health and Sports Day"),

	fixed(time.July, 24, 2020, 2020, "スポーツの日", "Sports Day"),
	fixed(time.July, 23, 2021, 2021, "スポーツの日", "Sports Day"),
	monday(time.October, 2, 2022, 0, "スポーツの日", "Sports Day"),

	fixed(time.November, 3, 1948, 0, "文化の日", "Culture Day"),
	fixed(time.November, 23, 1948, 0, "勤労感謝の日", "Labor Thanksgiving Day"),

	oneOff(1959, time.April, 10, "皇太子・明仁親王の結婚の儀", "Wedding Ceremony of Crown Prince Akihito"),
	oneOff(1989, time.February, 24, "昭和天皇の大喪の礼", "Funeral Ceremony of Emperor Showa"),
	oneOff(1990, time.November, 12, "即位礼正殿の儀", "Enthronement Ceremony"),
	oneOff(1993, time.June, 9, "皇太子・徳仁親王の結婚の儀", "Wedding Ceremony of Crown Prince Naruhito"),
	oneOff(2019, time.May, 1, "天皇の即位の日", "Emperor's Enthronement Day"),
	oneOff(2019, time.October, 22, "即位礼正殿の儀", "Enthronement Ceremony"),
}

// nthWeekdayOf returns the nth (1-based) occurrence of weekday in the month,
// or false if the month has fewer occurrences.
func nthWeekdayOf(year int, month time.Month, weekday time.Weekday, nth int) (date, bool) {
	if nth < 1 {
		return date{}, false
	}
	first := date{year: year, month: month, day: 1}
	offset := int(weekday - first.weekday())
	if offset < 0 {
		offset += 7
	}
	day := 1 + offset + (nth-1)*7
	if day > daysIn(year, month) {
		return date{}, false
	}
	return date{year: year, month: month, day: day}, true
}

// Equinox days follow the approximation published for civil use:
//
//	day = floor(C + 0.242194*(y-1980) - floor((y-1980)/4))
//
// with C fixed per year bracket. The constants cover 1851-2150. Outside that
// window the nearest bracket is shifted by one day for every skipped
// Gregorian leap year crossed; the result drifts by roughly a day every few
// thousand years, so it is an estimate there.
type equinoxBracket struct {
	from, to int
	vernal   float64
	autumnal float64
}

var equinoxBrackets = []equinoxBracket{
	{1851, 1899, 19.8277, 22.2588},
	{1900, 1979, 20.8357, 23.2588},
	{1980, 2099, 20.8431, 23.2488},
	{2100, 2150, 21.8510, 24.2488},
}

func equinoxConstants(year int) (vernal, autumnal float64) {
	for _, b := range equinoxBrackets {
		if year >= b.from && year <= b.to {
			return b.vernal, b.autumnal
		}
	}
	first, last := equinoxBrackets[0], equinoxBrackets[len(equinoxBrackets)-1]
	if year < first.from {
		shift := -float64(skippedLeapYears(year, first.from-1))
		return first.vernal + shift, first.autumnal + shift
	}
	shift := float64(skippedLeapYears(last.to, year))
	return last.vernal + shift, last.autumnal + shift
}

// skippedLeapYears counts century years in (from, to] that are not leap
// years in the Gregorian calendar.
func skippedLeapYears(from, to int) int {
	n := 0
	for c := (from/100 + 1) * 100; c <= to; c += 100 {
		if c%400 != 0 {
			n++
		}
	}
	return n
}

func equinoxDay(c float64, year int) int {
	dy := float64(year - 1980)
	return int(math.Floor(c + 0.242194*dy - math.Floor(dy/4)))
}

// vernalEquinoxDay returns the March day of the vernal equinox in year.
func vernalEquinoxDay(year int) int {
	v, _ := equinoxConstants(year)
	return equinoxDay(v, year)
}

// autumnalEquinoxDay returns the September day of the autumnal equinox in year.
func autumnalEquinoxDay(year int) int {
	_, a := equinoxConstants(year)
	return equinoxDay(a, year)
}
