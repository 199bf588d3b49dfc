package jobs

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"reflect"
	"strings"
	"testing"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest"
	"go.uber.org/zap/zaptest/observer"

	"github.com/spigell/profile-advisor/internal/filtering"
	"github.com/spigell/profile-advisor/internal/headhunter"
)

type stubSearcher struct {
	jd    *JobDescription
	err   error
	calls int
}

func (s *stubSearcher) Search(context.Context, string, string) (*JobDescription, error) {
	s.calls++
	return s.jd, s.err
}

func TestResolvePriority(t *testing.T) {
	t.Parallel()

	online := func() *JobDescription { return &JobDescription{Description: "Go, Kubernetes and Docker"} }

	tests := []struct {
		name         string
		query        Query
		searcher     *stubSearcher
		wantSource   Source
		wantTitle    string
		wantSearches int
	}{
		{
			name:       "user text wins over everything",
			query:      Query{Title: "Data Scientist", Override: "We need Python and SQL", SearchOnline: true},
			searcher:   &stubSearcher{jd: online()},
			wantSource: SourceUser,
			wantTitle:  "Data Scientist",
		},
		{
			name:         "online search when enabled",
			query:        Query{Title: "Platform Engineer", SearchOnline: true},
			searcher:     &stubSearcher{jd: online()},
			wantSource:   SourceOnline,
			wantTitle:    "Platform Engineer",
			wantSearches: 1,
		},
		{
			name:         "search failure falls back to table",
			query:        Query{Title: "data scientist", SearchOnline: true},
			searcher:     &stubSearcher{err: errors.New("boom")},
			wantSource:   SourceDefault,
			wantTitle:    "Data Scientist",
			wantSearches: 1,
		},
		{
			name:         "empty search result falls back to generic",
			query:        Query{Title: "Astronaut", SearchOnline: true},
			searcher:     &stubSearcher{},
			wantSource:   SourceGeneric,
			wantTitle:    "Astronaut",
			wantSearches: 1,
		},
		{
			name:       "search disabled",
			query:      Query{Title: "Software Engineer"},
			searcher:   &stubSearcher{jd: online()},
			wantSource: SourceDefault,
			wantTitle:  "Software Engineer",
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			jd := NewResolver(tt.searcher, zaptest.NewLogger(t)).Resolve(context.Background(), tt.query)
			if jd == nil {
				t.Fatalf("Resolve returned nil")
			}
			if jd.Source != tt.wantSource {
				t.Fatalf("expected source %s, got %s", tt.wantSource, jd.Source)
			}
			if jd.Title != tt.wantTitle {
				t.Fatalf("expected title %q, got %q", tt.wantTitle, jd.Title)
			}
			if tt.searcher.calls != tt.wantSearches {
				t.Fatalf("expected %d searches, got %d", tt.wantSearches, tt.searcher.calls)
			}
		})
	}
}

func TestResolveWithoutSearcher(t *testing.T) {
	t.Parallel()

	jd := NewResolver(nil, nil).Resolve(context.Background(), Query{Title: "Product Manager", SearchOnline: true, Location: "Berlin"})
	if jd.Source != SourceDefault || jd.Location != "Berlin" {
		t.Fatalf("unexpected job description: %+v", jd)
	}
}

func TestResolveLogsSearchFailure(t *testing.T) {
	t.Parallel()

	core, logs := observer.New(zapcore.WarnLevel)
	NewResolver(&stubSearcher{err: errors.New("timeout")}, zap.New(core)).
		Resolve(context.Background(), Query{Title: "SRE", SearchOnline: true})

	if logs.FilterMessage("online job search failed, using fallback").Len() != 1 {
		t.Fatalf("expected a warning about the failed search, got %v", logs.AllUntimed())
	}
}

func TestLookup(t *testing.T) {
	t.Parallel()

	tests := []struct {
		title string
		want  string
		ok    bool
	}{
		{title: "Data Analyst", want: "Data Analyst", ok: true},
		{title: "senior software engineer", want: "Software Engineer", ok: true},
		{title: "scientist", want: "Data Scientist", ok: true},
		{title: "data", want: "Data Analyst", ok: true},
		{title: "Astronaut", ok: false},
		{title: "  ", ok: false},
	}

	for _, tt := range tests {
		jd, ok := Lookup(tt.title)
		if ok != tt.ok {
			t.Fatalf("Lookup(%q) ok=%v, want %v", tt.title, ok, tt.ok)
		}
		if ok && jd.Title != tt.want {
			t.Fatalf("Lookup(%q) = %q, want %q", tt.title, jd.Title, tt.want)
		}
	}
}

func TestLookupReturnsCopy(t *testing.T) {
	t.Parallel()

	jd, _ := Lookup("data_analyst")
	jd.Skills[0] = "changed"

	again, _ := Lookup("data_analyst")
	if again.Skills[0] != "SQL" {
		t.Fatalf("table entry was mutated: %v", again.Skills)
	}
	if len(Roles()) != 5 {
		t.Fatalf("expected 5 built-in roles, got %v", Roles())
	}
}

func TestGeneric(t *testing.T) {
	t.Parallel()

	jd := Generic("Astronaut")
	if jd.Source != SourceGeneric || !strings.Contains(jd.Description, "qualified Astronaut") || len(jd.Skills) != 0 {
		t.Fatalf("unexpected generic description: %+v", jd)
	}
}

func TestExtractSkills(t *testing.T) {
	t.Parallel()

	got := ExtractSkills("Experience with Docker, machine learning and PostgreSQL on AWS")
	want := []string{"Sql", "Docker", "Aws", "Machine Learning", "Postgresql"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("expected %v, got %v", want, got)
	}

	if got := ExtractSkills("nothing relevant"); len(got) != 0 {
		t.Fatalf("expected no skills, got %v", got)
	}
}

func TestHeadhunterSearcher(t *testing.T) {
	t.Parallel()

	mux := http.NewServeMux()
	mux.HandleFunc("/vacancies", func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("text") != "Go Developer" {
			t.Errorf("unexpected query: %s", r.URL.RawQuery)
		}
		_ = json.NewEncoder(w).Encode(map[string]any{
			"items": []map[string]any{
				{"id": "1", "name": "Old", "archived": true, "snippet": map[string]any{"requirement": "Go"}},
				{"id": "2", "name": "Blocked", "employer": map[string]any{"id": "bad"}, "snippet": map[string]any{"requirement": "Go"}},
				{"id": "3", "name": "Go Developer", "employer": map[string]any{"id": "ok", "name": "Acme"}, "snippet": map[string]any{"requirement": "Go"}},
			},
			"pages": 1,
		})
	})
	mux.HandleFunc("/vacancies/3", func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{"id":"3","name":"Go Developer","alternate_url":"https://hh.ru/vacancy/3",
			"employer":{"id":"ok","name":"Acme"},"area":{"name":"Moscow"},
			"description":"<ul><li>Go and Docker</li><li>Kubernetes</li></ul>",
			"key_skills":[{"name":"Go"},{"name":"docker"}]}`))
	})
	server := httptest.NewServer(mux)
	t.Cleanup(server.Close)

	client := headhunter.New(zaptest.NewLogger(t), "")
	client.APIURL = server.URL
	client.HTTPClient = server.Client()

	searcher := NewHeadhunterSearcher(client, &filtering.Config{Employers: []string{"bad"}}, nil, zaptest.NewLogger(t))
	jd, err := searcher.Search(context.Background(), "Go Developer", "Moscow")
	if err != nil {
		t.Fatalf("Search returned error: %v", err)
	}
	if jd == nil {
		t.Fatalf("expected a job description")
	}

	wantText := "Go Developer at Acme (Moscow)\n\n- Go and Docker\n- Kubernetes"
	if jd.Description != wantText {
		t.Fatalf("unexpected description:\n%q", jd.Description)
	}
	if !reflect.DeepEqual(jd.Skills, []string{"Go", "docker", "Kubernetes"}) {
		t.Fatalf("unexpected skills: %v", jd.Skills)
	}
	if jd.URL != "https://hh.ru/vacancy/3" || jd.Source != SourceOnline {
		t.Fatalf("unexpected metadata: %+v", jd)
	}
}

func TestHeadhunterSearcherNothingLeft(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{"items":[{"id":"1","archived":true}],"pages":1}`))
	}))
	t.Cleanup(server.Close)

	client := headhunter.New(nil, "")
	client.APIURL = server.URL

	jd, err := NewHeadhunterSearcher(client, nil, nil, nil).Search(context.Background(), "SRE", "")
	if err != nil || jd != nil {
		t.Fatalf("expected no result and no error, got %+v, %v", jd, err)
	}
}

func TestHeadhunterSearcherDisableFilter(t *testing.T) {
	t.Parallel()

	searcher := NewHeadhunterSearcher(headhunter.New(nil, ""), nil, nil, nil)
	searcher.Disable("archived", "keep old postings")

	enabled := map[string]bool{}
	for _, status := range searcher.Filters() {
		enabled[status.Name] = status.Enabled
		if status.Name == "archived" && status.Reason != "keep old postings" {
			t.Fatalf("unexpected reason: %q", status.Reason)
		}
	}

	if enabled["archived"] || !enabled["no_description"] || !enabled["employers"] {
		t.Fatalf("unexpected filter states: %v", enabled)
	}
}
