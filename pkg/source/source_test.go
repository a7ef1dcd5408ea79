package source

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"timelane/pkg/errors"
	"timelane/pkg/httputil"
)

func TestDetect(t *testing.T) {
	tests := []struct {
		ref  string
		want string
	}{
		{"events.yaml", FormatYAML},
		{"plan.yml", FormatYAML},
		{"testdata/nested/plan.YAML", FormatYAML},
		{"export.json", FormatJSON},
		{"calendar.ics", FormatICS},
		{"calendar.ical", FormatICS},
		{"https://example.com/team.ics", FormatICS},
		{"https://example.com/export.json", FormatJSON},
		{"https://example.com/feed", FormatICS},
		{"https://example.com/cal.ics?token=abc", FormatICS},
		{"webcal://example.com/basic.ics", FormatICS},
		{"events", ""},
		{"notes.txt", ""},
	}

	for _, tt := range tests {
		t.Run(tt.ref, func(t *testing.T) {
			if got := Detect(tt.ref); got != tt.want {
				t.Errorf("Detect(%q) = %q, want %q", tt.ref, got, tt.want)
			}
		})
	}
}

func TestIsRemote(t *testing.T) {
	remote := []string{
		"http://example.com/a.ics",
		"https://example.com/a.ics",
		"webcal://example.com/a.ics",
	}
	local := []string{
		"events.yaml",
		"./events.yaml",
		"/var/data/events.yaml",
		"httpserver-notes.yaml",
	}

	for _, ref := range remote {
		if !IsRemote(ref) {
			t.Errorf("IsRemote(%q) = false, want true", ref)
		}
	}
	for _, ref := range local {
		if IsRemote(ref) {
			t.Errorf("IsRemote(%q) = true, want false", ref)
		}
	}
}

func TestFetchLocalFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "events.yaml")
	content := []byte("title: Plan\nevents: []\n")
	if err := os.WriteFile(path, content, 0o644); err != nil {
		t.Fatal(err)
	}

	got, err := Fetch(context.Background(), nil, path, false)
	if err != nil {
		t.Fatalf("Fetch() error = %v", err)
	}
	if string(got) != string(content) {
		t.Errorf("Fetch() = %q, want %q", got, content)
	}
}

func TestFetchMissingLocalFile(t *testing.T) {
	_, err := Fetch(context.Background(), nil, filepath.Join(t.TempDir(), "nope.yaml"), false)
	if err == nil {
		t.Fatal("Fetch() expected error for missing file")
	}
	if !errors.Is(err, errors.ErrCodeFileNotFound) {
		t.Errorf("Fetch() error code = %v, want %v", errors.GetCode(err), errors.ErrCodeFileNotFound)
	}
}

func TestFetchRemote(t *testing.T) {
	body := "BEGIN:VCALENDAR\r\nVERSION:2.0\r\nEND:VCALENDAR\r\n"
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(body))
	}))
	defer server.Close()

	client := httputil.NewClient(nil, "test", time.Minute, nil)
	got, err := Fetch(context.Background(), client, server.URL+"/team.ics", false)
	if err != nil {
		t.Fatalf("Fetch() error = %v", err)
	}
	if string(got) != body {
		t.Errorf("Fetch() = %q, want %q", got, body)
	}
}

func TestFetchRemoteUnavailable(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.NotFound(w, r)
	}))
	defer server.Close()

	_, err := Fetch(context.Background(), httputil.NewClient(nil, "test", time.Minute, nil),
		server.URL+"/gone.ics", false)
	if err == nil {
		t.Fatal("Fetch() expected error for 404")
	}
	if !errors.Is(err, errors.ErrCodeSourceUnavailable) {
		t.Errorf("Fetch() error code = %v, want %v", errors.GetCode(err), errors.ErrCodeSourceUnavailable)
	}
}

func TestNormalizeURL(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"webcal://example.com/team.ics", "https://example.com/team.ics"},
		{"https://example.com/team.ics", "https://example.com/team.ics"},
		{"http://example.com/team.ics", "http://example.com/team.ics"},
	}
	for _, tt := range tests {
		if got := normalizeURL(tt.in); got != tt.want {
			t.Errorf("normalizeURL(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestParseUnknownFormat(t *testing.T) {
	_, err := Parse([]byte("title: Plan\n"), Options{Format: "toml"})
	if !errors.Is(err, errors.ErrCodeSourceUnsupported) {
		t.Errorf("Parse() error code = %v, want %v", errors.GetCode(err), errors.ErrCodeSourceUnsupported)
	}

	_, err = Parse([]byte("title: Plan\n"), Options{})
	if !errors.Is(err, errors.ErrCodeSourceUnsupported) {
		t.Errorf("Parse() with empty format error code = %v, want %v",
			errors.GetCode(err), errors.ErrCodeSourceUnsupported)
	}
}

func TestParseFillsMissingIDs(t *testing.T) {
	raw := []byte(`
events:
  - title: Kickoff
    start: 2024-01-02
  - title: Review
    start: 2024-01-05
`)
	doc, err := Parse(raw, Options{Format: FormatYAML})
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	if len(doc.Events) != 2 {
		t.Fatalf("Parse() events = %d, want 2", len(doc.Events))
	}
	for _, ev := range doc.Events {
		if ev.ID == "" {
			t.Errorf("event %q: ID not filled", ev.Title)
		}
	}
	if doc.Events[0].ID == doc.Events[1].ID {
		t.Errorf("generated IDs collide: %q", doc.Events[0].ID)
	}
}

func TestParseTitleOverride(t *testing.T) {
	raw := []byte("title: Original\nevents:\n  - id: a\n    title: A\n    start: 2024-01-02\n")

	doc, err := Parse(raw, Options{Format: FormatYAML, Title: "Renamed"})
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	if doc.Title != "Renamed" {
		t.Errorf("Title = %q, want %q", doc.Title, "Renamed")
	}
}

func TestLoadDetectsFormat(t *testing.T) {
	path := filepath.Join(t.TempDir(), "plan.yaml")
	raw := []byte("title: Plan\nevents:\n  - id: a\n    title: A\n    start: 2024-01-02\n")
	if err := os.WriteFile(path, raw, 0o644); err != nil {
		t.Fatal(err)
	}

	doc, err := Load(context.Background(), nil, path, Options{})
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if doc.Title != "Plan" {
		t.Errorf("Title = %q, want %q", doc.Title, "Plan")
	}
	if len(doc.Events) != 1 {
		t.Errorf("events = %d, want 1", len(doc.Events))
	}
}

func TestLoadRemoteICS(t *testing.T) {
	feed := icsFixture(
		"BEGIN:VCALENDAR",
		"VERSION:2.0",
		"PRODID:-//timelane//EN",
		"BEGIN:VEVENT",
		"UID:kickoff",
		"SUMMARY:Kickoff",
		"DTSTART:20240102T100000Z",
		"DTEND:20240102T110000Z",
		"END:VEVENT",
		"END:VCALENDAR",
	)
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write(feed)
	}))
	defer server.Close()

	doc, err := Load(context.Background(), nil, server.URL+"/team.ics", Options{
		Window: window("2024-01-01", "2024-01-31"),
	})
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if len(doc.Events) != 1 {
		t.Fatalf("events = %d, want 1", len(doc.Events))
	}
	if doc.Events[0].Title != "Kickoff" {
		t.Errorf("title = %q, want %q", doc.Events[0].Title, "Kickoff")
	}
}
