package jpholiday

import (
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
)

// names renders a resolved year as "MM-DD name" lines for compact diffs.
func names(yt *yearTable) []string {
	var out []string
	for _, e := range yt.entries {
		out = append(out, e.date.toTime().Format("01-02")+" "+e.name)
	}
	return out
}

func TestResolveYear_OlympicYears(t *testing.T) {
	t.Parallel()

	tests := []struct {
		year int
		want []string
	}{
		{2020, []string{
			"01-01 元日", "01-13 成人の日", "02-11 建国記念の日", "02-23 天皇誕生日", "02-24 振替休日",
			"03-20 春分の日", "04-29 昭和の日", "05-03 憲法記念日", "05-04 みどりの日", "05-05 こどもの日",
			"05-06 振替休日", "07-23 海の日", "07-24 スポーツの日", "08-10 山の日", "09-21 敬老の日",
			"09-22 秋分の日", "11-03 文化の日", "11-23 勤労感謝の日",
		}},
		{2021, []string{
			"01-01 元日", "01-11 成人の日", "02-11 建国記念の日", "02-23 天皇誕生日", "03-20 春分の日",
			"04-29 昭和の日", "05-03 憲法記念日", "05-04 みどりの日", "05-05 こどもの日", "07-22 海の日",
			"07-23 スポーツの日", "08-08 山の日", "08-09 振替休日", "09-20 敬老の日", "09-23 秋分の日",
			"11-03 文化の日", "11-23 勤労感謝の日",
		}},
	}
	for _, tt := range tests {
		if diff := cmp.Diff(tt.want, names(resolveYear(tt.year))); diff != "" {
			t.Errorf("%d mismatch (-want +got):\n%s", tt.year, diff)
		}
	}
}

func TestResolveYear_2019Enthronement(t *testing.T) {
	t.Parallel()

	yt := resolveYear(2019)
	tests := []struct {
		day  date
		name string
		kind Kind
	}{
		{date{2019, time.April, 29}, "昭和の日", National},
		{date{2019, time.April, 30}, "国民の休日", Citizens},
		{date{2019, time.May, 1}, "天皇の即位の日", Special},
		{date{2019, time.May, 2}, "国民の休日", Citizens},
		{date{2019, time.May, 6}, "振替休日", Substitute},
		{date{2019, time.October, 22}, "即位礼正殿の儀", Special},
	}
	for _, tt := range tests {
		e, ok := yt.lookup(tt.day)
		if !ok {
			t.Errorf("%s: not a holiday", tt.day)
			continue
		}
		if e.name != tt.name || e.kind != tt.kind {
			t.Errorf("%s = %q (%v), want %q (%v)", tt.day, e.name, e.kind, tt.name, tt.kind)
		}
	}
}

func TestApplySubstitutes_Rules(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		day  date
		want bool
	}{
		// 1973-02-11 was a Sunday, before the substitute rule took effect.
		{"before 1973-04-12", date{1973, time.February, 12}, false},
		// 1973-04-29 was the first Sunday holiday under the new rule.
		{"first substitute", date{1973, time.April, 30}, true},
		{"Monday after Sunday Coming of Age Day 1989", date{1989, time.January, 16}, true},
		// 2008-05-04 was a Sunday; 05-05 is a holiday so the substitute moves to 05-06.
		{"chained past Children's Day", date{2008, time.May, 6}, true},
		// 2025-05-04 was a Sunday; 05-05 is a holiday so the substitute moves to 05-06.
		{"chained 2025", date{2025, time.May, 6}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e, ok := resolvedYear(tt.day.year).lookup(tt.day)
			if ok != tt.want {
				t.Fatalf("%s holiday = %v, want %v", tt.day, ok, tt.want)
			}
			if ok && e.kind != Substitute {
				t.Errorf("%s kind = %v, want substitute", tt.day, e.kind)
			}
		})
	}
}

func TestApplySubstitutes_BeforeChainRule(t *testing.T) {
	t.Parallel()

	// A Sunday holiday followed by a holiday gets no substitute before 2007.
	in := []entry{
		{date: date{2000, time.April, 30}, name: "A", kind: National}, // Sunday
		{date: date{2000, time.May, 1}, name: "B", kind: National},
	}
	if got := applySubstitutes(in); len(got) != 2 {
		t.Errorf("got %d entries, want 2 (no substitute)", len(got))
	}

	// From 2007 it skips forward to the first free day.
	in = []entry{
		{date: date{2011, time.May, 1}, name: "A", kind: National}, // Sunday
		{date: date{2011, time.May, 2}, name: "B", kind: National},
	}
	got := applySubstitutes(in)
	if len(got) != 3 || got[2].date != (date{2011, time.May, 3}) || got[2].kind != Substitute {
		t.Errorf("got %+v, want a substitute on 2011-05-03", got)
	}
}

func TestApplySubstitutes_IgnoresNonPrimary(t *testing.T) {
	t.Parallel()

	in := []entry{{date: date{2024, time.June, 2}, name: "x", kind: Citizens}} // Sunday
	if got := applySubstitutes(in); len(got) != 1 {
		t.Errorf("non-primary Sunday holiday produced a substitute: %+v", got)
	}
}

func TestApplyCitizens(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		day  date
		want bool
	}{
		{"before 1985-12-27", date{1971, time.May, 4}, false},
		{"first year of the rule", date{1988, time.May, 4}, true},
		{"Silver Week 2009", date{2009, time.September, 22}, true},
		{"Silver Week 2015", date{2015, time.September, 22}, true},
		{"Silver Week 2026", date{2026, time.September, 22}, true},
		// 1992-05-04 was taken by the substitute for Sunday 05-03.
		{"substitute wins", date{1992, time.May, 4}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, ok := resolvedYear(tt.day.year).lookup(tt.day)
			if ok != tt.want {
				t.Errorf("%s holiday = %v, want %v", tt.day, ok, tt.want)
			}
		})
	}

	e, _ := resolvedYear(1992).lookup(date{1992, time.May, 4})
	if e.kind != Substitute {
		t.Errorf("1992-05-04 kind = %v, want substitute", e.kind)
	}
}

func TestApplyCitizens_SkipsSunday(t *testing.T) {
	t.Parallel()

	in := []entry{
		{date: date{2024, time.June, 1}, name: "A", kind: National},
		{date: date{2024, time.June, 3}, name: "B", kind: National}, // 06-02 is a Sunday
	}
	if got := applyCitizens(in); len(got) != 2 {
		t.Errorf("Sunday became a citizens' holiday: %+v", got)
	}
}

func TestApplyCitizens_NeedsPrimaryNeighbours(t *testing.T) {
	t.Parallel()

	in := []entry{
		{date: date{2024, time.June, 3}, name: "A", kind: National},
		{date: date{2024, time.June, 5}, name: substituteName, kind: Substitute},
	}
	if got := applyCitizens(in); len(got) != 2 {
		t.Errorf("substitute counted as a neighbour: %+v", got)
	}
}

func TestMerge(t *testing.T) {
	t.Parallel()

	a := []entry{{date: date{2024, time.January, 1}}, {date: date{2024, time.January, 10}}}
	b := []entry{{date: date{2024, time.January, 5}}, {date: date{2024, time.February, 1}}}
	got := merge(a, b)
	for i := 1; i < len(got); i++ {
		if !got[i-1].date.before(got[i].date) {
			t.Fatalf("merge result not sorted: %+v", got)
		}
	}
	if len(got) != 4 {
		t.Errorf("len = %d, want 4", len(got))
	}
}

func TestResolvedYear_Cached(t *testing.T) {
	t.Parallel()

	first := resolvedYear(2030)
	if second := resolvedYear(2030); first != second {
		t.Error("expected the cached table to be reused")
	}
	if resolvedYear(MinYear-1) != emptyYear || resolvedYear(MaxYear+1) != emptyYear {
		t.Error("out-of-range years should resolve to the empty table")
	}
}
