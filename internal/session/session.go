// Package session persists one advisor conversation as a JSON file.
package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/spigell/profile-advisor/internal/ai"
	"github.com/spigell/profile-advisor/internal/profile"
)

// recentAnalyses bounds the analyses counted by ContextSummary.
const recentAnalyses = 3

type Message struct {
	Role      ai.Role   `json:"role"`
	Content   string    `json:"content"`
	Timestamp time.Time `json:"timestamp"`
}

// Analysis is a stored agent result tagged by type.
type Analysis struct {
	Type      string          `json:"type"`
	Result    json.RawMessage `json:"result"`
	Timestamp time.Time       `json:"timestamp"`
}

// Decode unmarshals the stored result into v.
func (a Analysis) Decode(v interface{}) error {
	return json.Unmarshal(a.Result, v)
}

// Data is the on-disk shape of a session.
type Data struct {
	ID              string           `json:"session_id"`
	StartedAt       time.Time        `json:"started_at"`
	UpdatedAt       time.Time        `json:"updated_at,omitempty"`
	History         []Message        `json:"conversation_history"`
	Profile         *profile.Profile `json:"current_profile"`
	ProfileLoadedAt *time.Time       `json:"profile_loaded_at,omitempty"`
	TargetRole      string           `json:"target_role"`
	CareerGoals     string           `json:"career_goals"`
	JobDescription  string           `json:"job_description,omitempty"`
	Analyses        []Analysis       `json:"analyses"`
}

// Store keeps a session in memory and writes it through to disk on every change.
type Store struct {
	mu     sync.RWMutex
	path   string
	data   Data
	logger *zap.Logger
	now    func() time.Time
}

// NewID returns a short random session id.
func NewID() string {
	return strings.ReplaceAll(uuid.NewString(), "-", "")[:12]
}

// FileName is the file a session id is stored in.
func FileName(id string) string {
	return fmt.Sprintf("session_%s.json", id)
}

// Open loads the session id from dir, starting an empty one when no file exists.
func Open(dir, id string, logger *zap.Logger) (*Store, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return nil, errors.New("session id is empty")
	}
	if strings.ContainsAny(id, `/\`) {
		return nil, fmt.Errorf("session id %q must not contain path separators", id)
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	if err := os.MkdirAll(dir, 0o750); err != nil {
		return nil, fmt.Errorf("create session dir: %w", err)
	}

	s := &Store{
		path:   filepath.Join(dir, FileName(id)),
		logger: logger.With(zap.String("session_id", id)),
		now:    time.Now,
	}
	s.data = s.empty(id)

	raw, err := os.ReadFile(s.path)
	switch {
	case errors.Is(err, os.ErrNotExist):
		s.logger.Debug("starting new session", zap.String("path", s.path))
		return s, nil
	case err != nil:
		return nil, fmt.Errorf("read session %q: %w", s.path, err)
	}

	if err := json.Unmarshal(raw, &s.data); err != nil {
		return nil, fmt.Errorf("decode session %q: %w", s.path, err)
	}
	s.data.ID = id

	s.logger.Debug("session loaded",
		zap.Int("messages", len(s.data.History)),
		zap.Int("analyses", len(s.data.Analyses)),
	)

	return s, nil
}

func (s *Store) empty(id string) Data {
	return Data{
		ID:        id,
		StartedAt: s.now(),
		History:   []Message{},
		Analyses:  []Analysis{},
	}
}

func (s *Store) ID() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.data.ID
}

func (s *Store) Path() string {
	return s.path
}

// Snapshot returns a copy of the session data. Slices are copied, the profile is shared.
func (s *Store) Snapshot() Data {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.data.clone()
}

func (d Data) clone() Data {
	out := d
	out.History = append([]Message(nil), d.History...)
	out.Analyses = append([]Analysis(nil), d.Analyses...)
	return out
}

func (s *Store) Profile() *profile.Profile {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.data.Profile
}

func (s *Store) TargetRole() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.data.TargetRole
}

func (s *Store) CareerGoals() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.data.CareerGoals
}

// JobDescription is the job text pasted by the user, if any.
func (s *Store) JobDescription() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.data.JobDescription
}

// SetProfile replaces the stored profile wholesale.
func (s *Store) SetProfile(ctx context.Context, p *profile.Profile) error {
	return s.update(ctx, func(d *Data) {
		loaded := s.now()
		d.Profile = p
		d.ProfileLoadedAt = &loaded
	})
}

func (s *Store) SetTargetRole(ctx context.Context, role string) error {
	return s.update(ctx, func(d *Data) { d.TargetRole = strings.TrimSpace(role) })
}

func (s *Store) SetCareerGoals(ctx context.Context, goals string) error {
	return s.update(ctx, func(d *Data) { d.CareerGoals = strings.TrimSpace(goals) })
}

func (s *Store) SetJobDescription(ctx context.Context, text string) error {
	return s.update(ctx, func(d *Data) { d.JobDescription = strings.TrimSpace(text) })
}

// AddMessage appends a turn to the conversation history.
func (s *Store) AddMessage(ctx context.Context, role ai.Role, content string) error {
	return s.update(ctx, func(d *Data) {
		d.History = append(d.History, Message{Role: role, Content: content, Timestamp: s.now()})
	})
}

// History returns the last n messages, or all of them when n <= 0.
func (s *Store) History(n int) []ai.Message {
	s.mu.RLock()
	defer s.mu.RUnlock()

	history := s.data.History
	if n > 0 && len(history) > n {
		history = history[len(history)-n:]
	}

	out := make([]ai.Message, 0, len(history))
	for _, m := range history {
		out = append(out, ai.Message{Role: m.Role, Content: m.Content})
	}
	return out
}

// AddAnalysis stores result as JSON under the given type.
func (s *Store) AddAnalysis(ctx context.Context, kind string, result interface{}) error {
	raw, err := json.Marshal(result)
	if err != nil {
		return fmt.Errorf("encode %s analysis: %w", kind, err)
	}

	return s.update(ctx, func(d *Data) {
		d.Analyses = append(d.Analyses, Analysis{Type: kind, Result: raw, Timestamp: s.now()})
	})
}

// LatestAnalysis returns the most recent analysis of kind, or of any kind when kind is empty.
func (s *Store) LatestAnalysis(kind string) (Analysis, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for i := len(s.data.Analyses) - 1; i >= 0; i-- {
		if kind == "" || s.data.Analyses[i].Type == kind {
			return s.data.Analyses[i], true
		}
	}
	return Analysis{}, false
}

// ContextSummary describes what the session knows, one fact per line.
func (s *Store) ContextSummary() string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var parts []string
	if p := s.data.Profile; p != nil {
		parts = append(parts,
			"Profile loaded: "+orDefault(p.FullName, "Unknown"),
			"Current headline: "+orDefault(p.Headline, "Not set"),
		)
	}
	if s.data.TargetRole != "" {
		parts = append(parts, "Target role: "+s.data.TargetRole)
	}
	if s.data.CareerGoals != "" {
		parts = append(parts, "Career goals: "+s.data.CareerGoals)
	}
	if n := len(s.data.Analyses); n > 0 {
		if n > recentAnalyses {
			n = recentAnalyses
		}
		parts = append(parts, fmt.Sprintf("Recent analyses: %d", n))
	}

	if len(parts) == 0 {
		return "No context available yet."
	}
	return strings.Join(parts, "\n")
}

// Clear resets the session to an empty state and persists it.
func (s *Store) Clear(ctx context.Context) error {
	return s.update(ctx, func(d *Data) { *d = s.empty(d.ID) })
}

func (s *Store) update(ctx context.Context, mutate func(*Data)) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	next := s.data.clone()
	mutate(&next)
	next.UpdatedAt = s.now()
	if err := s.save(next); err != nil {
		return err
	}

	s.data = next
	return nil
}

// save writes data atomically through a temp file in the same directory.
func (s *Store) save(data Data) error {
	raw, err := json.MarshalIndent(data, "", "  ")
	if err != nil {
		return fmt.Errorf("encode session: %w", err)
	}

	tmp, err := os.CreateTemp(filepath.Dir(s.path), ".session-*.tmp")
	if err != nil {
		return fmt.Errorf("create temp session file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(raw); err != nil {
		tmp.Close()
		return fmt.Errorf("write session: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close session: %w", err)
	}
	if err := os.Rename(tmp.Name(), s.path); err != nil {
		return fmt.Errorf("save session %q: %w", s.path, err)
	}

	s.logger.Debug("session saved", zap.Int("bytes", len(raw)))
	return nil
}

func orDefault(value, fallback string) string {
	if strings.TrimSpace(value) == "" {
		return fallback
	}
	return value
}
