// Package jobs resolves the job description a profile is matched against.
package jobs

import (
	"context"
	"strings"

	"go.uber.org/zap"
)

// Source records where a job description came from.
type Source string

const (
	SourceUser    Source = "user_provided"
	SourceOnline  Source = "online_search"
	SourceDefault Source = "default_database"
	SourceGeneric Source = "generic"
)

type JobDescription struct {
	Title       string   `json:"title"`
	Description string   `json:"description"`
	Skills      []string `json:"skills"`
	Source      Source   `json:"source"`
	Location    string   `json:"location,omitempty"`
	URL         string   `json:"url,omitempty"`
}

// Query describes the job description a caller wants.
type Query struct {
	Title string
	// Override is job text supplied by the user. It always wins.
	Override     string
	Location     string
	SearchOnline bool
}

// Searcher finds a real job description online. A nil result without error
// means nothing suitable was found.
type Searcher interface {
	Search(ctx context.Context, title, location string) (*JobDescription, error)
}

// Resolver picks a job description: user text, then online search, then the
// built-in table, then a generic template.
type Resolver struct {
	searcher Searcher
	logger   *zap.Logger
}

// NewResolver creates a Resolver. searcher may be nil to disable online search.
func NewResolver(searcher Searcher, logger *zap.Logger) *Resolver {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Resolver{searcher: searcher, logger: logger}
}

// Resolve never fails: search errors are logged and resolution falls through.
func (r *Resolver) Resolve(ctx context.Context, q Query) *JobDescription {
	title := strings.TrimSpace(q.Title)

	if text := strings.TrimSpace(q.Override); text != "" {
		return &JobDescription{
			Title:       title,
			Description: text,
			Skills:      ExtractSkills(text),
			Source:      SourceUser,
			Location:    q.Location,
		}
	}

	if q.SearchOnline && r.searcher != nil && title != "" {
		jd, err := r.searcher.Search(ctx, title, q.Location)
		switch {
		case err != nil:
			r.logger.Warn("online job search failed, using fallback", zap.String("title", title), zap.Error(err))
		case jd != nil && strings.TrimSpace(jd.Description) != "":
			jd.Source = SourceOnline
			if jd.Title == "" {
				jd.Title = title
			}
			return jd
		default:
			r.logger.Info("online job search found nothing", zap.String("title", title))
		}
	}

	if jd, ok := Lookup(title); ok {
		jd.Location = q.Location
		return jd
	}

	jd := Generic(title)
	jd.Location = q.Location
	return jd
}
