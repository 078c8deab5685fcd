package main

import (
	"encoding/csv"
	"fmt"
	"io"
	"strings"
	"time"

	jpholiday "github.com/rabitt1ove/jp-holiday-rules"
)

// Header of the Cabinet Office holiday CSV.
const (
	csvDateHeader = "国民の祝日・休日月日"
	csvNameHeader = "国民の祝日・休日名称"
)

// officialHoliday is one row of the Cabinet Office CSV.
type officialHoliday struct {
	date time.Time
	name string
}

// parseCSV parses the Cabinet Office holiday CSV and validates its format.
func parseCSV(r io.Reader) ([]officialHoliday, error) {
	reader := csv.NewReader(r)
	reader.LazyQuotes = true

	header, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("reading header: %w", err)
	}
	if len(header) < 2 {
		return nil, fmt.Errorf("unexpected header columns: %d (expected 2)", len(header))
	}
	if !strings.Contains(header[0], "国民の祝日") {
		return nil, fmt.Errorf("unexpected header: %q (expected to contain '国民の祝日')", header[0])
	}

	var rows []officialHoliday
	lineNum := 1
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", lineNum+1, err)
		}
		lineNum++

		if len(record) < 2 {
			return nil, fmt.Errorf("line %d: expected 2 columns, got %d", lineNum, len(record))
		}

		dateStr := strings.TrimSpace(record[0])
		name := strings.TrimSpace(record[1])
		if dateStr == "" || name == "" {
			continue
		}

		t, err := jpholiday.ParseDate(dateStr)
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", lineNum, err)
		}
		rows = append(rows, officialHoliday{date: t, name: name})
	}
	return rows, nil
}

// officialName returns the label the Cabinet Office uses for h. Substitute
// and citizens' holidays are listed as plain 休日.
func officialName(h jpholiday.Holiday) string {
	switch h.Kind {
	case jpholiday.Substitute, jpholiday.Citizens:
		return "休日"
	}
	return h.Name
}

// writeCSV writes holidays in the Cabinet Office CSV layout with CRLF line
// endings.
func writeCSV(w io.Writer, holidays []jpholiday.Holiday, useOfficialNames bool) error {
	cw := csv.NewWriter(w)
	cw.UseCRLF = true

	if err := cw.Write([]string{csvDateHeader, csvNameHeader}); err != nil {
		return fmt.Errorf("writing header: %w", err)
	}
	for _, h := range holidays {
		name := h.Name
		if useOfficialNames {
			name = officialName(h)
		}
		if err := cw.Write([]string{h.Date.Format("2006/1/2"), name}); err != nil {
			return fmt.Errorf("writing %s: %w", h.Date.Format(time.DateOnly), err)
		}
	}
	cw.Flush()
	return cw.Error()
}
