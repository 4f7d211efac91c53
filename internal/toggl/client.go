// Package toggl is the HTTP client for the Toggl Track reports and v9 APIs.
package toggl

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/JosephStocks/toggl-entry-annotator/internal/entry"
	"github.com/JosephStocks/toggl-entry-annotator/pkg/platform/httputil"
)

const defaultBaseURL = "https://api.track.toggl.com"

// reportPageSize is the page_size sent to the detailed reports API.
const reportPageSize = 100

// Client talks to the Toggl Track API. All requests authenticate with the
// personal API token via basic auth.
type Client struct {
	token       string
	workspaceID string
	baseURL     string
	http        *http.Client
	logger      *slog.Logger
	projects    *projectCache
}

// New creates a Toggl client for one workspace.
func New(token, workspaceID string, logger *slog.Logger) *Client {
	c := &Client{
		token:       token,
		workspaceID: workspaceID,
		baseURL:     defaultBaseURL,
		http:        &http.Client{Timeout: 30 * time.Second},
		logger:      logger,
	}
	c.projects = newProjectCache(c)
	return c
}

// WithBaseURL points the client at a different API host, for tests.
func (c *Client) WithBaseURL(baseURL string) *Client {
	c.baseURL = baseURL
	return c
}

// WithHTTPClient overrides the underlying HTTP client.
func (c *Client) WithHTTPClient(httpClient *http.Client) *Client {
	c.http = httpClient
	return c
}

// reportRow is one grouped row from the detailed reports API: shared entry
// metadata plus the 1-N actual time entries that carry it.
type reportRow struct {
	ProjectID   *int64            `json:"project_id"`
	ProjectName *string           `json:"project_name"`
	Description string            `json:"description"`
	TagIDs      []int64           `json:"tag_ids"`
	TagNames    []string          `json:"tag_names"`
	TimeEntries []reportTimeEntry `json:"time_entries"`
}

type reportTimeEntry struct {
	ID      int64   `json:"id"`
	Start   string  `json:"start"`
	Stop    *string `json:"stop"`
	Seconds int64   `json:"seconds"`
	At      string  `json:"at"`
}

type searchPayload struct {
	StartDate      string `json:"start_date"`
	EndDate        string `json:"end_date"`
	PageSize       int    `json:"page_size"`
	EnrichResponse bool   `json:"enrich_response"`
	Grouped        bool   `json:"grouped"`
	FirstID        *int64 `json:"first_id,omitempty"`
}

// SearchTimeEntries fetches every time entry whose date falls in the
// inclusive [startDate, endDate] span, following X-Next-ID pagination until
// the report is exhausted. Grouped rows are flattened into one record per
// time entry.
func (c *Client) SearchTimeEntries(ctx context.Context, startDate, endDate time.Time) ([]entry.TimeEntry, error) {
	url := fmt.Sprintf("%s/reports/api/v3/workspace/%s/search/time_entries", c.baseURL, c.workspaceID)
	payload := searchPayload{
		StartDate:      startDate.Format("2006-01-02"),
		EndDate:        endDate.Format("2006-01-02"),
		PageSize:       reportPageSize,
		EnrichResponse: true,
		Grouped:        true,
	}

	var out []entry.TimeEntry
	for {
		c.logger.InfoContext(ctx, "requesting toggl report page",
			"start_date", payload.StartDate,
			"end_date", payload.EndDate,
			"first_id", payload.FirstID,
		)

		resp, err := httputil.Do(ctx, c.http, httputil.DefaultRetry, c.logger, func() (*http.Request, error) {
			body, err := json.Marshal(payload)
			if err != nil {
				return nil, err
			}
			req, err := http.NewRequest(http.MethodPost, url, bytes.NewReader(body))
			if err != nil {
				return nil, err
			}
			req.Header.Set("Content-Type", "application/json")
			req.SetBasicAuth(c.token, "api_token")
			return req, nil
		})
		if err != nil {
			return nil, fmt.Errorf("search time entries: %w", err)
		}

		var rows []reportRow
		err = json.NewDecoder(resp.Body).Decode(&rows)
		resp.Body.Close()
		if err != nil {
			return nil, fmt.Errorf("decode report page: %w", err)
		}

		if len(rows) == 0 {
			break
		}

		for _, row := range rows {
			for _, te := range row.TimeEntries {
				flat, err := flatten(row, te)
				if err != nil {
					return nil, fmt.Errorf("entry %d: %w", te.ID, err)
				}
				out = append(out, flat)
			}
		}

		next := resp.Header.Get("X-Next-ID")
		if next == "" {
			break
		}
		firstID, err := strconv.ParseInt(next, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("bad X-Next-ID header %q: %w", next, err)
		}
		payload.FirstID = &firstID
	}
	return out, nil
}

// flatten combines one grouped row's metadata with one of its time entries.
func flatten(row reportRow, te reportTimeEntry) (entry.TimeEntry, error) {
	startISO, startTS, err := NormalizeInstant(te.Start)
	if err != nil {
		return entry.TimeEntry{}, fmt.Errorf("start: %w", err)
	}
	atISO, atTS, err := NormalizeInstant(te.At)
	if err != nil {
		return entry.TimeEntry{}, fmt.Errorf("at: %w", err)
	}

	flat := entry.TimeEntry{
		EntryID:     te.ID,
		Description: row.Description,
		Seconds:     te.Seconds,
		Start:       startISO,
		At:          atISO,
		StartTS:     startTS,
		AtTS:        atTS,
		TagIDs:      row.TagIDs,
		TagNames:    row.TagNames,
	}
	if row.ProjectID != nil {
		flat.ProjectID = *row.ProjectID
	}
	if row.ProjectName != nil {
		flat.ProjectName = *row.ProjectName
	}
	if te.Stop != nil && *te.Stop != "" {
		stopISO, stopTS, err := NormalizeInstant(*te.Stop)
		if err != nil {
			return entry.TimeEntry{}, fmt.Errorf("stop: %w", err)
		}
		flat.Stop = &stopISO
		flat.StopTS = &stopTS
	}
	return flat, nil
}

// RunningEntry is the v9 "current time entry" shape, with the project name
// resolved from the project cache.
type RunningEntry struct {
	ID          int64    `json:"id"`
	WorkspaceID int64    `json:"workspace_id"`
	ProjectID   *int64   `json:"project_id"`
	ProjectName string   `json:"project_name"`
	Description string   `json:"description"`
	Start       string   `json:"start"`
	Duration    int64    `json:"duration"`
	Tags        []string `json:"tags"`
}

// CurrentEntry fetches the running timer, or nil when no timer is running.
func (c *Client) CurrentEntry(ctx context.Context) (*RunningEntry, error) {
	url := c.baseURL + "/api/v9/me/time_entries/current"

	resp, err := httputil.Do(ctx, c.http, httputil.DefaultRetry, c.logger, func() (*http.Request, error) {
		req, err := http.NewRequest(http.MethodGet, url, nil)
		if err != nil {
			return nil, err
		}
		req.SetBasicAuth(c.token, "api_token")
		return req, nil
	})
	if err != nil {
		return nil, fmt.Errorf("current entry: %w", err)
	}
	defer resp.Body.Close()

	// The endpoint returns a JSON null body when no timer is running.
	var running *RunningEntry
	if err := json.NewDecoder(resp.Body).Decode(&running); err != nil {
		return nil, fmt.Errorf("decode current entry: %w", err)
	}
	if running == nil {
		return nil, nil
	}

	// The current endpoint only carries a project_id; the name comes from
	// the cached workspace projects.
	if running.ProjectID != nil {
		running.ProjectName = c.projects.Name(ctx, *running.ProjectID)
	} else {
		running.ProjectName = "No Project"
	}
	return running, nil
}

// NormalizeInstant converts any Toggl ISO instant to an RFC3339 UTC string
// truncated to whole seconds, plus its epoch seconds.
func NormalizeInstant(iso string) (string, int64, error) {
	t, err := time.Parse(time.RFC3339, iso)
	if err != nil {
		return "", 0, fmt.Errorf("parse instant %q: %w", iso, err)
	}
	utc := t.UTC().Truncate(time.Second)
	return utc.Format("2006-01-02T15:04:05Z"), utc.Unix(), nil
}
