package main

import (
	"errors"
	"fmt"
	"io"
	"sort"
	"strings"
	"time"

	jpholiday "github.com/rabitt1ove/jp-holiday-rules"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// errMismatch is returned by verify when the calculator disagrees with the
// published list.
var errMismatch = errors.New("holiday calculation disagrees with the Cabinet Office list")

type mismatchKind string

const (
	// missing: published but not calculated.
	missing mismatchKind = "missing"
	// extra: calculated but not published.
	extra mismatchKind = "extra"
	// renamed: both agree on the date but not the name.
	renamed mismatchKind = "renamed"
)

type mismatch struct {
	Date     time.Time
	Kind     mismatchKind
	Official string
	Ours     string
}

func (m mismatch) String() string {
	return fmt.Sprintf("%s %-7s official=%q ours=%q", m.Date.Format(time.DateOnly), m.Kind, m.Official, m.Ours)
}

// namesAgree reports whether a calculated holiday matches a published name.
// The Cabinet Office shortens ceremony names and labels substitute,
// citizens' and special days as 休日.
func namesAgree(h jpholiday.Holiday, official string) bool {
	if h.Name == official || strings.Contains(h.Name, official) {
		return true
	}
	return strings.HasPrefix(official, "休日") && h.Kind != jpholiday.National
}

// yearSpan returns the first and last year present in rows.
func yearSpan(rows []officialHoliday) (from, to int) {
	for i, r := range rows {
		y := r.date.Year()
		if i == 0 || y < from {
			from = y
		}
		if i == 0 || y > to {
			to = y
		}
	}
	return from, to
}

// compare checks the calculator against rows for the years from..to and
// returns the disagreements sorted by date.
func compare(rows []officialHoliday, from, to int) []mismatch {
	published := make(map[string]officialHoliday, len(rows))
	for _, r := range rows {
		if y := r.date.Year(); y >= from && y <= to {
			published[r.date.Format(time.DateOnly)] = r
		}
	}

	start := time.Date(from, time.January, 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(to, time.December, 31, 0, 0, 0, 0, time.UTC)

	var out []mismatch
	seen := make(map[string]bool)
	for _, h := range jpholiday.HolidaysBetween(start, end) {
		key := h.Date.Format(time.DateOnly)
		seen[key] = true
		off, ok := published[key]
		switch {
		case !ok:
			out = append(out, mismatch{Date: h.Date, Kind: extra, Ours: h.Name})
		case !namesAgree(h, off.name):
			out = append(out, mismatch{Date: h.Date, Kind: renamed, Official: off.name, Ours: h.Name})
		}
	}
	for key, off := range published {
		if !seen[key] {
			out = append(out, mismatch{Date: off.date, Kind: missing, Official: off.name})
		}
	}

	sort.Slice(out, func(i, j int) bool {
		return out[i].Date.Before(out[j].Date)
	})
	return out
}

type verifyOptions struct {
	from, to int
}

func newVerifyCmd(a *app) *cobra.Command {
	opts := &verifyOptions{}
	cmd := &cobra.Command{
		Use:   "verify",
		Short: "Compare calculated holidays with the Cabinet Office CSV",
		Long: `Downloads the national holiday CSV published by the Cabinet Office
and compares it with the calculated holidays year by year.

The command exits non-zero when any date is missing, extra or named
differently.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runVerify(cmd, a, opts)
		},
	}
	cmd.Flags().IntVar(&opts.from, "from", 0, "first year to compare (default: first year in the CSV)")
	cmd.Flags().IntVar(&opts.to, "to", 0, "last year to compare (default: last year in the CSV)")
	return cmd
}

func runVerify(cmd *cobra.Command, a *app, opts *verifyOptions) error {
	f := newFetcher(a.cfg, a.log)
	res, err := f.fetchCSV(cmd.Context())
	if err != nil {
		return fmt.Errorf("failed to fetch CSV: %w", err)
	}
	rows, err := parseCSV(res.Reader())
	if err != nil {
		return fmt.Errorf("failed to parse CSV: %w", err)
	}
	if len(rows) == 0 {
		return fmt.Errorf("CSV from %s has no holidays", res.URL)
	}

	csvFrom, csvTo := yearSpan(rows)
	from, to := csvFrom, csvTo
	if opts.from != 0 {
		from = max(opts.from, csvFrom)
	}
	if opts.to != 0 {
		to = min(opts.to, csvTo)
	}
	if (opts.from != 0 && from != opts.from) || (opts.to != 0 && to != opts.to) {
		a.log.Warn("year range clamped to the CSV",
			zap.Int("csv_from", csvFrom), zap.Int("csv_to", csvTo))
	}
	if from > to {
		return fmt.Errorf("no years to compare: %d-%d is outside the CSV range %d-%d", opts.from, opts.to, csvFrom, csvTo)
	}

	a.log.Info("comparing",
		zap.String("source", res.URL),
		zap.Bool("cached", res.NotModified),
		zap.Int("rows", len(rows)),
		zap.Int("from", from),
		zap.Int("to", to))

	mismatches := compare(rows, from, to)
	if err := report(cmd.OutOrStdout(), mismatches, from, to); err != nil {
		return err
	}
	if len(mismatches) > 0 {
		return errMismatch
	}
	return nil
}

func report(w io.Writer, mismatches []mismatch, from, to int) error {
	for _, m := range mismatches {
		if _, err := fmt.Fprintln(w, m); err != nil {
			return err
		}
	}
	var err error
	if len(mismatches) == 0 {
		_, err = fmt.Fprintf(w, "ok: %d-%d match the Cabinet Office list\n", from, to)
	} else {
		_, err = fmt.Fprintf(w, "%d mismatches in %d-%d\n", len(mismatches), from, to)
	}
	return err
}
