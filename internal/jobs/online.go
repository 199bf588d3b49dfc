package jobs

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/spigell/profile-advisor/internal/filtering"
	"github.com/spigell/profile-advisor/internal/headhunter"
)

const searchPerPage = "20"

// HeadhunterSearcher finds job descriptions among hh.ru vacancies.
type HeadhunterSearcher struct {
	client  *headhunter.Client
	filters []filtering.Filter
	config  *filtering.Config
	areas   []int
	logger  *zap.Logger
}

var _ Searcher = (*HeadhunterSearcher)(nil)

// NewHeadhunterSearcher creates a searcher over client. Vacancies pass through
// the default screening filters configured by cfg.
func NewHeadhunterSearcher(client *headhunter.Client, cfg *filtering.Config, areas []int, logger *zap.Logger) *HeadhunterSearcher {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &HeadhunterSearcher{
		client:  client,
		filters: filtering.Default(),
		config:  cfg,
		areas:   areas,
		logger:  logger,
	}
}

// Disable turns off a screening filter by name.
func (s *HeadhunterSearcher) Disable(name, reason string) {
	filtering.DisableByName(s.filters, name, reason)
}

// Filters reports the screening pipeline and the state of every step.
func (s *HeadhunterSearcher) Filters() []filtering.Status {
	return filtering.Describe(s.filters)
}

// Search returns the first vacancy for title that survives screening, with
// its full description. Location is kept on the result; hh.ru narrows by the
// configured area IDs instead.
func (s *HeadhunterSearcher) Search(ctx context.Context, title, location string) (*JobDescription, error) {
	if s == nil || s.client == nil {
		return nil, fmt.Errorf("headhunter client is not configured")
	}

	vacancies, err := s.client.Search(ctx, &headhunter.SearchParams{
		Text:        title,
		Areas:       s.areas,
		SearchField: "name",
		OrderBy:     "relevance",
		PerPage:     searchPerPage,
	})
	if err != nil {
		return nil, fmt.Errorf("search vacancies: %w", err)
	}

	found := vacancies.Len()
	vacancies, err = filtering.Run(ctx, s.config, filtering.Deps{Logger: s.logger}, s.filters, vacancies)
	if err != nil {
		return nil, fmt.Errorf("screen vacancies: %w", err)
	}

	s.logger.Debug("vacancies screened", zap.Int("found", found), zap.Int("left", vacancies.Len()))
	if vacancies.Len() == 0 {
		return nil, nil
	}

	vacancy := vacancies.Items[0]
	text := ""
	full, err := s.client.GetVacancy(ctx, vacancy.ID)
	if err != nil {
		s.logger.Warn("vacancy details unavailable, using snippet", zap.String("vacancy_id", vacancy.ID), zap.Error(err))
	} else {
		vacancy = full
		text = full.PlainDescription()
	}
	if text == "" {
		text = vacancy.Snippets()
	}

	return &JobDescription{
		Title:       title,
		Description: describe(vacancy, text),
		Skills:      mergeSkills(vacancy.Skills(), ExtractSkills(text)),
		Source:      SourceOnline,
		Location:    location,
		URL:         vacancy.AlternateURL,
	}, nil
}

func describe(v *headhunter.Vacancy, text string) string {
	header := v.Name
	if v.Employer.Name != "" {
		header = fmt.Sprintf("%s at %s", v.Name, v.Employer.Name)
	}
	if v.Area.Name != "" {
		header = fmt.Sprintf("%s (%s)", header, v.Area.Name)
	}
	return header + "\n\n" + text
}

func mergeSkills(lists ...[]string) []string {
	out := []string{}
	seen := make(map[string]struct{})
	for _, list := range lists {
		for _, skill := range list {
			key := strings.ToLower(skill)
			if _, ok := seen[key]; ok {
				continue
			}
			seen[key] = struct{}{}
			out = append(out, skill)
		}
	}
	return out
}
