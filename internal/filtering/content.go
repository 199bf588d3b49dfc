package filtering

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"github.com/spigell/profile-advisor/internal/headhunter"
)

type archivedFilter struct {
	toggle
}

// NewArchived creates a filter that removes archived vacancies.
func NewArchived() Filter {
	return &archivedFilter{}
}

func (f *archivedFilter) Name() string { return "archived" }

func (f *archivedFilter) Validate(*Config) error { return nil }

func (f *archivedFilter) Apply(_ context.Context, deps Deps, v *headhunter.Vacancies) (*headhunter.Vacancies, Step, error) {
	initial := v.Len()
	excluded := v.ExcludeFunc(func(vacancy *headhunter.Vacancy) bool { return vacancy.Archived })
	if len(excluded) > 0 {
		deps.Logger.Debug("excluding archived vacancies",
			zap.Strings("excluded_vacancies", excluded),
			zap.Int("vacancies_left", v.Len()),
		)
	}

	return v, Step{Initial: initial, Dropped: len(excluded), Left: v.Len()}, nil
}

func (f *archivedFilter) Status() Status { return f.status(f.Name(), nil) }

type noDescriptionFilter struct {
	toggle
}

// NewNoDescription creates a filter that removes vacancies with neither a
// description nor a search snippet, since they carry no job text.
func NewNoDescription() Filter {
	return &noDescriptionFilter{}
}

func (f *noDescriptionFilter) Name() string { return "no_description" }

func (f *noDescriptionFilter) Validate(*Config) error { return nil }

func (f *noDescriptionFilter) Apply(_ context.Context, deps Deps, v *headhunter.Vacancies) (*headhunter.Vacancies, Step, error) {
	initial := v.Len()
	excluded := v.ExcludeFunc(func(vacancy *headhunter.Vacancy) bool {
		return strings.TrimSpace(vacancy.Description) == "" && vacancy.Snippets() == ""
	})
	if len(excluded) > 0 {
		deps.Logger.Debug("excluding vacancies without text",
			zap.Strings("excluded_vacancies", excluded),
			zap.Int("vacancies_left", v.Len()),
		)
	}

	return v, Step{Initial: initial, Dropped: len(excluded), Left: v.Len()}, nil
}

func (f *noDescriptionFilter) Status() Status { return f.status(f.Name(), nil) }
