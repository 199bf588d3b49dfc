package session

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"
	"time"

	"go.uber.org/zap/zaptest"

	"github.com/spigell/profile-advisor/internal/ai"
	"github.com/spigell/profile-advisor/internal/profile"
)

func openTest(t *testing.T, dir, id string) *Store {
	t.Helper()

	s, err := Open(dir, id, zaptest.NewLogger(t))
	if err != nil {
		t.Fatalf("Open returned error: %v", err)
	}
	s.now = func() time.Time { return time.Date(2025, time.June, 15, 12, 0, 0, 0, time.UTC) }
	return s
}

func TestContextSummary(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	s := openTest(t, t.TempDir(), "abc")

	if got := s.ContextSummary(); got != "No context available yet." {
		t.Fatalf("unexpected empty summary: %q", got)
	}

	if err := s.SetProfile(ctx, &profile.Profile{FullName: "Jane Doe"}); err != nil {
		t.Fatalf("SetProfile returned error: %v", err)
	}
	if err := s.SetTargetRole(ctx, "  Data Scientist "); err != nil {
		t.Fatalf("SetTargetRole returned error: %v", err)
	}
	for i := 0; i < 5; i++ {
		if err := s.AddAnalysis(ctx, "profile_analysis", map[string]int{"n": i}); err != nil {
			t.Fatalf("AddAnalysis returned error: %v", err)
		}
	}

	want := strings.Join([]string{
		"Profile loaded: Jane Doe",
		"Current headline: Not set",
		"Target role: Data Scientist",
		"Recent analyses: 3",
	}, "\n")
	if got := s.ContextSummary(); got != want {
		t.Fatalf("unexpected summary:\n%s", got)
	}
}

func TestPersistAndReload(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	dir := t.TempDir()

	s := openTest(t, dir, "persist")
	if err := s.SetCareerGoals(ctx, "lead a team"); err != nil {
		t.Fatalf("SetCareerGoals returned error: %v", err)
	}
	if err := s.AddMessage(ctx, ai.RoleUser, "hello"); err != nil {
		t.Fatalf("AddMessage returned error: %v", err)
	}
	if err := s.AddMessage(ctx, ai.RoleAssistant, "hi"); err != nil {
		t.Fatalf("AddMessage returned error: %v", err)
	}
	if err := s.AddAnalysis(ctx, "job_match", map[string]float64{"score": 72.5}); err != nil {
		t.Fatalf("AddAnalysis returned error: %v", err)
	}

	if _, err := os.Stat(filepath.Join(dir, "session_persist.json")); err != nil {
		t.Fatalf("session file missing: %v", err)
	}

	reloaded := openTest(t, dir, "persist")
	if reloaded.CareerGoals() != "lead a team" {
		t.Fatalf("goals not persisted: %q", reloaded.CareerGoals())
	}

	wantHistory := []ai.Message{{Role: ai.RoleUser, Content: "hello"}, {Role: ai.RoleAssistant, Content: "hi"}}
	if got := reloaded.History(0); !reflect.DeepEqual(got, wantHistory) {
		t.Fatalf("unexpected history: %+v", got)
	}
	if got := reloaded.History(1); len(got) != 1 || got[0].Content != "hi" {
		t.Fatalf("unexpected last message: %+v", got)
	}

	analysis, ok := reloaded.LatestAnalysis("job_match")
	if !ok {
		t.Fatalf("expected a job_match analysis")
	}
	var result map[string]float64
	if err := analysis.Decode(&result); err != nil || result["score"] != 72.5 {
		t.Fatalf("unexpected analysis: %v, %v", result, err)
	}
	if _, ok := reloaded.LatestAnalysis("content"); ok {
		t.Fatalf("did not expect a content analysis")
	}
}

func TestLatestAnalysisOrder(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	s := openTest(t, t.TempDir(), "order")
	_ = s.AddAnalysis(ctx, "a", 1)
	_ = s.AddAnalysis(ctx, "b", 2)
	_ = s.AddAnalysis(ctx, "a", 3)

	latest, _ := s.LatestAnalysis("a")
	if string(latest.Result) != "3" {
		t.Fatalf("expected latest a=3, got %s", latest.Result)
	}
	last, _ := s.LatestAnalysis("")
	if last.Type != "a" || string(last.Result) != "3" {
		t.Fatalf("unexpected latest analysis: %+v", last)
	}
}

func TestClear(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	dir := t.TempDir()
	s := openTest(t, dir, "clear")
	_ = s.SetTargetRole(ctx, "SRE")
	_ = s.AddMessage(ctx, ai.RoleUser, "hi")

	if err := s.Clear(ctx); err != nil {
		t.Fatalf("Clear returned error: %v", err)
	}

	raw, err := os.ReadFile(s.Path())
	if err != nil {
		t.Fatalf("read session: %v", err)
	}
	var data Data
	if err := json.Unmarshal(raw, &data); err != nil {
		t.Fatalf("decode session: %v", err)
	}
	if data.ID != "clear" || data.TargetRole != "" || len(data.History) != 0 {
		t.Fatalf("session not cleared: %+v", data)
	}
}

func TestOpenValidation(t *testing.T) {
	t.Parallel()

	for _, id := range []string{"", "  ", "../etc", `a\b`} {
		if _, err := Open(t.TempDir(), id, nil); err == nil {
			t.Fatalf("expected error for id %q", id)
		}
	}

	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, FileName("bad")), []byte("{"), 0o600); err != nil {
		t.Fatalf("write: %v", err)
	}
	if _, err := Open(dir, "bad", nil); err == nil {
		t.Fatalf("expected decode error")
	}
}

func TestUpdateHonoursContext(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	s := openTest(t, t.TempDir(), "ctx")
	if err := s.SetTargetRole(ctx, "SRE"); err == nil {
		t.Fatalf("expected context error")
	}
	if s.TargetRole() != "" {
		t.Fatalf("role should not change on cancelled context")
	}
}

func TestNewID(t *testing.T) {
	t.Parallel()

	a, b := NewID(), NewID()
	if len(a) != 12 || a == b {
		t.Fatalf("unexpected ids %q %q", a, b)
	}
}

func TestFailedSaveKeepsMemory(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	dir := filepath.Join(t.TempDir(), "sessions")
	s := openTest(t, dir, "keep")
	if err := s.SetTargetRole(ctx, "SRE"); err != nil {
		t.Fatalf("SetTargetRole returned error: %v", err)
	}
	if err := s.AddMessage(ctx, ai.RoleUser, "hi"); err != nil {
		t.Fatalf("AddMessage returned error: %v", err)
	}

	if err := os.RemoveAll(dir); err != nil {
		t.Fatalf("remove session dir: %v", err)
	}

	if err := s.SetTargetRole(ctx, "Platform Engineer"); err == nil {
		t.Fatalf("expected save error")
	}
	if err := s.AddMessage(ctx, ai.RoleUser, "lost"); err == nil {
		t.Fatalf("expected save error")
	}
	if err := s.Clear(ctx); err == nil {
		t.Fatalf("expected save error")
	}

	if got := s.TargetRole(); got != "SRE" {
		t.Fatalf("target role changed to %q after failed save", got)
	}
	snap := s.Snapshot()
	if len(snap.History) != 1 || snap.History[0].Content != "hi" {
		t.Fatalf("history changed after failed save: %+v", snap.History)
	}
}
