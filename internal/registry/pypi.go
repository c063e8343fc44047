// Package registry resolves release-information URLs for packages.
package registry

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// DefaultBaseURL is the public Python package index.
const DefaultBaseURL = "https://pypi.org"

// preferredLabels are tried in order when choosing among project URLs.
var preferredLabels = []string{"changelog", "changes", "release notes", "releases", "source", "homepage"}

// PyPIClient looks up project URLs via the PyPI JSON API.
type PyPIClient struct {
	client  *http.Client
	baseURL string // Base URL for the index (for testing)
}

// pypiProject is the subset of https://pypi.org/pypi/<name>/json we read.
type pypiProject struct {
	Info struct {
		Name        string            `json:"name"`
		Version     string            `json:"version"`
		HomePage    string            `json:"home_page"`
		ProjectURL  string            `json:"project_url"`
		ProjectURLs map[string]string `json:"project_urls"`
	} `json:"info"`
}

// NewPyPIClient creates a client for the index at baseURL.
func NewPyPIClient(baseURL string) *PyPIClient {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	return &PyPIClient{
		client: &http.Client{
			Timeout: 10 * time.Second,
		},
		baseURL: strings.TrimRight(baseURL, "/"),
	}
}

// ProjectURL implements Source.
func (c *PyPIClient) ProjectURL(ctx context.Context, name string) (string, error) {
	project, err := c.getProject(ctx, name)
	if err != nil {
		return "", err
	}
	return pickURL(project), nil
}

func (c *PyPIClient) getProject(ctx context.Context, name string) (*pypiProject, error) {
	u := fmt.Sprintf("%s/pypi/%s/json", c.baseURL, url.PathEscape(name))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("package index returned status %d", resp.StatusCode)
	}

	var project pypiProject
	if err := json.NewDecoder(resp.Body).Decode(&project); err != nil {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}

	return &project, nil
}

// pickURL prefers a changelog-like project URL, then the home page.
func pickURL(p *pypiProject) string {
	byLabel := make(map[string]string, len(p.Info.ProjectURLs))
	for label, u := range p.Info.ProjectURLs {
		byLabel[strings.ToLower(strings.TrimSpace(label))] = u
	}
	for _, label := range preferredLabels {
		if u := byLabel[label]; isHTTP(u) {
			return u
		}
	}
	if isHTTP(p.Info.HomePage) {
		return p.Info.HomePage
	}
	return ""
}

func isHTTP(s string) bool {
	return strings.HasPrefix(s, "http://") || strings.HasPrefix(s, "https://")
}
