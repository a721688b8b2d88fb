package loader

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/igenius/soroban/internal/model"
)

// DefaultTimeout bounds each individual set fetch.
const DefaultTimeout = 15 * time.Second

// Client fetches question sets from the backend API.
type Client struct {
	baseURL string
	http    *http.Client
	log     *slog.Logger
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient substitutes the HTTP client (tests, custom transports).
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		c.http = hc
	}
}

// WithLogger sets the logger. Defaults to slog.Default().
func WithLogger(l *slog.Logger) Option {
	return func(c *Client) {
		c.log = l
	}
}

// New creates a Client for the given API base URL (no trailing slash needed).
func New(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: DefaultTimeout},
		log:     slog.Default(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Result is a normalized session load: the requested sets in request order
// and every question flattened into playback order.
type Result struct {
	Sets      []model.QuestionSet
	Questions []model.Question
}

// envelope mirrors the backend's {"data": {...}} response wrapper.
type envelope struct {
	Data payload `json:"data"`
}

type payload struct {
	QuestionSet struct {
		ID           int64  `json:"id"`
		Name         string `json:"name"`
		QuestionType struct {
			Name string `json:"name"`
		} `json:"question_type"`
	} `json:"question_set"`
	Questions []model.Question `json:"questions"`
}

// LoadSession fetches every requested set for (level, week) and flattens the
// questions in request order. Single-set and multi-set requests share this
// path; multi-set is simply more than one id.
//
// Any fetch failure aborts the whole load: partial results are discarded and
// a single *LoadError surfaces. There are no automatic retries.
func (c *Client) LoadSession(ctx context.Context, level string, week int, setIDs []int64) (*Result, error) {
	if level == "" || week < 1 || len(setIDs) == 0 {
		return nil, newError(ErrCodeInvalidParams, 0,
			fmt.Sprintf("level=%q week=%d sets=%d", level, week, len(setIDs)), nil)
	}

	c.log.Info("loading session",
		"level", level,
		"week", week,
		"sets", len(setIDs),
	)

	sets := make([]model.QuestionSet, 0, len(setIDs))
	bySet := make(map[int64][]model.Question, len(setIDs))

	for _, id := range setIDs {
		p, err := c.fetchSet(ctx, level, week, id)
		if err != nil {
			c.log.Error("set fetch failed, aborting load", "set_id", id, "error", err)
			return nil, err
		}

		sets = append(sets, model.QuestionSet{
			ID:             p.QuestionSet.ID,
			Name:           p.QuestionSet.Name,
			TotalQuestions: len(p.Questions),
			Type:           p.QuestionSet.QuestionType.Name,
		})
		for i := range p.Questions {
			p.Questions[i].SetID = p.QuestionSet.ID
		}
		bySet[p.QuestionSet.ID] = p.Questions
	}

	questions := model.Flatten(sets, bySet)

	c.log.Info("session loaded",
		"sets", len(sets),
		"questions", len(questions),
	)

	return &Result{Sets: sets, Questions: questions}, nil
}

func (c *Client) fetchSet(ctx context.Context, level string, week int, setID int64) (*payload, error) {
	u := fmt.Sprintf("%s/levels/%s/weeks/%d/question-sets/%d/questions",
		c.baseURL, url.PathEscape(level), week, setID)

	c.log.Debug("fetching question set", "url", u)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, newError(ErrCodeHTTP, setID, "build request", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, newError(ErrCodeHTTP, setID, "request failed", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, newError(ErrCodeHTTP, setID,
			fmt.Sprintf("unexpected status %d", resp.StatusCode), nil)
	}

	var env envelope
	if err := json.NewDecoder(resp.Body).Decode(&env); err != nil {
		return nil, newError(ErrCodeDecode, setID, "decode response", err)
	}

	return &env.Data, nil
}
