// Package apify loads professional profiles through the Apify LinkedIn
// profile actor.
package apify

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/mitchellh/mapstructure"
	"go.uber.org/zap"

	"github.com/spigell/profile-advisor/internal/profile"
	"github.com/spigell/profile-advisor/internal/utils"
)

const (
	apiURL = "https://api.apify.com/v2"
	// ProfileActorID is the LinkedIn profile scraper actor.
	ProfileActorID = "5fajYOBUfeb6fgKlB"
	profileMarker  = "linkedin.com/in/"
	maxErrorBody   = 300
)

type Client struct {
	token      string
	logger     *zap.Logger
	HTTPClient *http.Client
	APIURL     string
	ActorID    string
}

var _ profile.Source = (*Client)(nil)

// New creates a client. Synchronous actor runs can take minutes, hence the long timeout.
func New(logger *zap.Logger, token string) *Client {
	if logger == nil {
		logger = zap.NewNop()
	}

	return &Client{
		token:  token,
		logger: logger,
		HTTPClient: &http.Client{
			Timeout: 5 * time.Minute,
		},
		APIURL:  apiURL,
		ActorID: ProfileActorID,
	}
}

// IsProfileURL reports whether value looks like a LinkedIn profile URL.
func IsProfileURL(value string) bool {
	return strings.Contains(strings.ToLower(value), profileMarker)
}

// Username extracts the public identifier from a profile URL.
func Username(profileURL string) string {
	trimmed := strings.TrimRight(strings.TrimSpace(profileURL), "/")
	idx := strings.LastIndex(trimmed, "/in/")
	if idx < 0 {
		return trimmed
	}
	username := trimmed[idx+len("/in/"):]
	if cut := strings.IndexAny(username, "/?#"); cut >= 0 {
		username = username[:cut]
	}
	return username
}

type runInput struct {
	Usernames    []string `json:"usernames"`
	IncludeEmail bool     `json:"includeEmail"`
}

// Fetch runs the actor for profileURL and returns the normalized profile.
func (c *Client) Fetch(ctx context.Context, profileURL string) (*profile.Profile, error) {
	if !IsProfileURL(profileURL) {
		return nil, fmt.Errorf("%w: expected https://www.linkedin.com/in/<username>, got %q", profile.ErrInvalidIdentifier, profileURL)
	}
	username := Username(profileURL)
	if username == "" {
		return nil, fmt.Errorf("%w: no username in %q", profile.ErrInvalidIdentifier, profileURL)
	}
	if strings.TrimSpace(c.token) == "" {
		return nil, fmt.Errorf("apify token is not configured")
	}

	logger := c.logger.With(zap.String("username", username))
	logger.Info("scraping profile")

	items, err := c.runSync(ctx, runInput{Usernames: []string{username}})
	if err != nil {
		return nil, err
	}
	if len(items) == 0 {
		return nil, fmt.Errorf("%w: actor returned no data for %s (private, restricted or missing profile)", profile.ErrNotFound, username)
	}

	var raw rawItem
	if err := decode(items[0], &raw); err != nil {
		return nil, fmt.Errorf("decode profile: %w", err)
	}

	p := normalize(raw)
	if p.URL == "" {
		p.URL = profileURL
	}

	logger.Info("profile loaded",
		zap.String("full_name", p.FullName),
		zap.Int("skills", len(p.Skills)),
		zap.Int("positions", len(p.Experience)),
	)

	return p, nil
}

func (c *Client) runSync(ctx context.Context, input runInput) ([]map[string]interface{}, error) {
	body, err := json.Marshal(input)
	if err != nil {
		return nil, err
	}

	url := fmt.Sprintf("%s/acts/%s/run-sync-get-dataset-items", c.APIURL, c.ActorID)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.token)

	c.logger.Debug("make request", zap.String("url", url))
	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("run actor: %w", err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read actor response: %w", err)
	}

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		return nil, fmt.Errorf("run actor: bad status: %s: %s", resp.Status, utils.TruncateForLog(string(data), maxErrorBody))
	}

	c.logger.Debug("actor response", zap.Int("response_length", utf8.RuneCount(data)))

	var items []map[string]interface{}
	if err := json.Unmarshal(data, &items); err != nil {
		return nil, fmt.Errorf("parse actor response: %w", err)
	}

	return items, nil
}

func decode(input interface{}, target interface{}) error {
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:           target,
		TagName:          "json",
		WeaklyTypedInput: true,
	})
	if err != nil {
		return err
	}
	return decoder.Decode(input)
}
