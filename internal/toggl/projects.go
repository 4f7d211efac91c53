package toggl

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"sync"

	"github.com/JosephStocks/toggl-entry-annotator/pkg/platform/httputil"
)

// projectCache lazily maps project ids to names. The v9 "me" endpoint with
// related data is one round trip for the whole workspace, so the cache fills
// once and serves every later lookup.
type projectCache struct {
	client *Client

	mu    sync.Mutex
	names map[int64]string
}

func newProjectCache(c *Client) *projectCache {
	return &projectCache{client: c}
}

// Name resolves a project id to its name, filling the cache on first use.
// Unknown ids and fetch failures both degrade to a placeholder so a cache
// miss never blocks the caller's response.
func (p *projectCache) Name(ctx context.Context, projectID int64) string {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.names == nil {
		names, err := p.fetch(ctx)
		if err != nil {
			p.client.logger.WarnContext(ctx, "project cache fill failed", "error", err.Error())
			return "Unknown Project"
		}
		p.names = names
	}

	if name, ok := p.names[projectID]; ok {
		return name
	}
	return "Unknown Project"
}

// Refresh refills the cache, picking up projects created since the last fill.
func (p *projectCache) Refresh(ctx context.Context) error {
	names, err := p.fetch(ctx)
	if err != nil {
		return err
	}
	p.mu.Lock()
	p.names = names
	p.mu.Unlock()
	return nil
}

func (p *projectCache) fetch(ctx context.Context) (map[int64]string, error) {
	url := p.client.baseURL + "/api/v9/me?with_related_data=true"

	resp, err := httputil.Do(ctx, p.client.http, httputil.DefaultRetry, p.client.logger, func() (*http.Request, error) {
		req, err := http.NewRequest(http.MethodGet, url, nil)
		if err != nil {
			return nil, err
		}
		req.SetBasicAuth(p.client.token, "api_token")
		return req, nil
	})
	if err != nil {
		return nil, fmt.Errorf("fetch projects: %w", err)
	}
	defer resp.Body.Close()

	var me struct {
		Projects []struct {
			ID   int64  `json:"id"`
			Name string `json:"name"`
		} `json:"projects"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&me); err != nil {
		return nil, fmt.Errorf("decode projects: %w", err)
	}

	names := make(map[int64]string, len(me.Projects))
	for _, proj := range me.Projects {
		names[proj.ID] = proj.Name
	}
	return names, nil
}

// RefreshProjects refills the workspace project cache.
func (c *Client) RefreshProjects(ctx context.Context) error {
	return c.projects.Refresh(ctx)
}
