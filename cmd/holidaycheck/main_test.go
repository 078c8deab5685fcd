package main

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	jpholiday "github.com/rabitt1ove/jp-holiday-rules"
	"go.uber.org/zap/zaptest"
	"golang.org/x/text/encoding/japanese"
)

func TestMain(m *testing.M) {
	retryBaseDelay = 0 // Eliminate sleep in retry loops for all tests.
	os.Exit(m.Run())
}

type roundTripFunc func(*http.Request) (*http.Response, error)

func (f roundTripFunc) RoundTrip(req *http.Request) (*http.Response, error) {
	return f(req)
}

func newHTTPResponse(status int, body string) *http.Response {
	return &http.Response{
		StatusCode: status,
		Body:       io.NopCloser(strings.NewReader(body)),
		Header:     make(http.Header),
	}
}

// execute runs the root command with args and returns what it printed.
func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	cmd := newRootCmd(&app{log: zaptest.NewLogger(t)})
	cmd.SetOut(&out)
	cmd.SetErr(io.Discard)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

// officialCSV renders the calculated holidays for from..to the way the
// Cabinet Office publishes them: official labels, Shift-JIS encoded.
func officialCSV(t *testing.T, from, to int) []byte {
	t.Helper()
	holidays := jpholiday.HolidaysBetween(
		time.Date(from, time.January, 1, 0, 0, 0, 0, time.UTC),
		time.Date(to, time.December, 31, 0, 0, 0, 0, time.UTC),
	)
	var buf bytes.Buffer
	if err := writeCSV(&buf, holidays, true); err != nil {
		t.Fatalf("writeCSV: %v", err)
	}
	sjis, err := japanese.ShiftJIS.NewEncoder().Bytes(buf.Bytes())
	if err != nil {
		t.Fatalf("encoding Shift-JIS: %v", err)
	}
	return sjis
}

// writeConfig writes a config that downloads only from csvURL.
func writeConfig(t *testing.T, csvURL string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "holidaycheck.yaml")
	body := fmt.Sprintf("ckan_url: \"\"\nfallback_urls:\n  - %s\ntimeout: 5s\nmax_retries: 2\n", csvURL)
	if err := os.WriteFile(path, []byte(body), 0644); err != nil {
		t.Fatal(err)
	}
	return path
}

// --- dump ---

func TestDump_Stdout(t *testing.T) {
	t.Parallel()

	out, err := execute(t, "dump", "--from", "2024", "--to", "2024")
	if err != nil {
		t.Fatalf("dump: %v", err)
	}
	if !strings.HasPrefix(out, "国民の祝日・休日月日,国民の祝日・休日名称\r\n2024/1/1,元日\r\n") {
		t.Errorf("unexpected start of output:\n%s", out)
	}
	if !strings.Contains(out, "2024/5/6,振替休日\r\n") {
		t.Error("missing the 2024-05-06 substitute holiday")
	}
	// header + 21 holidays
	if got := strings.Count(out, "\r\n"); got != 22 {
		t.Errorf("got %d lines, want 22", got)
	}
}

func TestDump_OfficialNames(t *testing.T) {
	t.Parallel()

	out, err := execute(t, "dump", "--from", "2026", "--to", "2026", "--official-names")
	if err != nil {
		t.Fatalf("dump: %v", err)
	}
	for _, want := range []string{"2026/5/6,休日\r\n", "2026/9/22,休日\r\n", "2026/9/23,秋分の日\r\n"} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q", want)
		}
	}
}

func TestDump_ShiftJISFile(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "syukujitsu.csv")
	out, err := execute(t, "dump", "--from", "2025", "--to", "2025", "--sjis", "-o", path)
	if err != nil {
		t.Fatalf("dump: %v", err)
	}
	if out != "" {
		t.Errorf("expected nothing on stdout, got %q", out)
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if bytes.Contains(raw, []byte("元日")) {
		t.Error("output is UTF-8, want Shift-JIS")
	}
	decoded, err := japanese.ShiftJIS.NewDecoder().Bytes(raw)
	if err != nil {
		t.Fatalf("decoding: %v", err)
	}
	if !strings.Contains(string(decoded), "2025/1/1,元日") {
		t.Errorf("decoded output missing 元日:\n%s", decoded)
	}
}

func TestDump_InvalidRange(t *testing.T) {
	t.Parallel()

	tests := [][]string{
		{"dump", "--from", "1900", "--to", "1950"},
		{"dump", "--from", "2025", "--to", "2024"},
		{"dump", "--from", "2024", "--to", "3000"},
	}
	for _, args := range tests {
		if _, err := execute(t, args...); err == nil {
			t.Errorf("%v: expected error", args)
		}
	}
}

// --- verify ---

func TestVerify_Match(t *testing.T) {
	t.Parallel()

	csv := officialCSV(t, 2019, 2026)
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write(csv)
	}))
	defer ts.Close()

	out, err := execute(t, "verify", "--config", writeConfig(t, ts.URL))
	if err != nil {
		t.Fatalf("verify: %v\n%s", err, out)
	}
	if !strings.Contains(out, "ok: 2019-2026") {
		t.Errorf("unexpected report:\n%s", out)
	}
}

func TestVerify_Mismatch(t *testing.T) {
	t.Parallel()

	body := "国民の祝日・休日月日,国民の祝日・休日名称\r\n" +
		"2024/1/1,元日\r\n" +
		"2024/1/2,休日\r\n" + // not a holiday
		"2024/1/8,成人式\r\n" // wrong name
	sjis, err := japanese.ShiftJIS.NewEncoder().String(body)
	if err != nil {
		t.Fatal(err)
	}
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		io.WriteString(w, sjis)
	}))
	defer ts.Close()

	out, err := execute(t, "verify", "--config", writeConfig(t, ts.URL))
	if !errors.Is(err, errMismatch) {
		t.Fatalf("err = %v, want errMismatch", err)
	}
	for _, want := range []string{
		`2024-01-02 missing official="休日"`,
		`2024-01-08 renamed official="成人式" ours="成人の日"`,
		`2024-02-11 extra`,
	} {
		if !strings.Contains(out, want) {
			t.Errorf("report missing %q:\n%s", want, out)
		}
	}
}

func TestVerify_YearFlagsClampToCSV(t *testing.T) {
	t.Parallel()

	csv := officialCSV(t, 2020, 2025)
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write(csv)
	}))
	defer ts.Close()

	out, err := execute(t, "verify", "--config", writeConfig(t, ts.URL), "--from", "2010", "--to", "2022")
	if err != nil {
		t.Fatalf("verify: %v\n%s", err, out)
	}
	if !strings.Contains(out, "ok: 2020-2022") {
		t.Errorf("unexpected report:\n%s", out)
	}
}

func TestVerify_FetchFails(t *testing.T) {
	t.Parallel()

	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer ts.Close()

	_, err := execute(t, "verify", "--config", writeConfig(t, ts.URL))
	if err == nil || errors.Is(err, errMismatch) {
		t.Fatalf("err = %v, want a fetch error", err)
	}
	if !strings.Contains(err.Error(), "failed to fetch CSV") {
		t.Errorf("unexpected error: %v", err)
	}
}

func TestVerify_UsesCache(t *testing.T) {
	t.Parallel()

	csv := officialCSV(t, 2024, 2024)
	requests := 0
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requests++
		if r.Header.Get("If-None-Match") == `"v1"` {
			w.WriteHeader(http.StatusNotModified)
			return
		}
		w.Header().Set("ETag", `"v1"`)
		w.Write(csv)
	}))
	defer ts.Close()

	cfg := writeConfig(t, ts.URL)
	dir := t.TempDir()
	for i := 0; i < 2; i++ {
		out, err := execute(t, "verify", "--config", cfg, "--cache-dir", dir)
		if err != nil {
			t.Fatalf("run %d: %v\n%s", i+1, err, out)
		}
	}
	if requests != 2 {
		t.Errorf("requests = %d, want 2", requests)
	}
	if _, err := os.Stat(filepath.Join(dir, cacheMetaFile)); err != nil {
		t.Errorf("cache metadata not written: %v", err)
	}
}

func TestRoot_InvalidConfig(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "bad.yaml")
	if err := os.WriteFile(path, []byte("max_retries: [1"), 0644); err != nil {
		t.Fatal(err)
	}
	_, err := execute(t, "dump", "--config", path)
	if err == nil || !strings.Contains(err.Error(), "failed to parse config") {
		t.Errorf("err = %v, want a config parse error", err)
	}
}

func TestRoot_RetriesFlagValidated(t *testing.T) {
	t.Parallel()

	_, err := execute(t, "dump", "--retries", "0")
	if err == nil || !strings.Contains(err.Error(), "max_retries") {
		t.Errorf("err = %v, want a max_retries error", err)
	}
}
