package uv

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	logger "github.com/sirupsen/logrus"
)

// DefaultBinary is the uv executable looked up on PATH.
const DefaultBinary = "uv"

// Package is one record of `uv pip list --outdated --format json`.
type Package struct {
	Name           string `json:"name"`
	Version        string `json:"version"`
	LatestVersion  string `json:"latest_version"`
	LatestFiletype string `json:"latest_filetype,omitempty"`
}

// PackageInfo holds the metadata fields of `uv pip show`.
type PackageInfo struct {
	Name        string
	Version     string
	HomePage    string
	ProjectURLs []string // "Label, URL" values in output order
}

// Client runs uv commands for a single project directory.
type Client struct {
	binary  string
	dir     string
	runner  Runner
	timeout time.Duration
}

// NewClient creates a client that runs binary in dir.
func NewClient(binary, dir string) *Client {
	return NewClientWithRunner(binary, dir, &DefaultRunner{})
}

// NewClientWithRunner creates a client with a custom runner (for testing).
func NewClientWithRunner(binary, dir string, runner Runner) *Client {
	if binary == "" {
		binary = DefaultBinary
	}
	return &Client{binary: binary, dir: dir, runner: runner}
}

// WithTimeout bounds every command. Zero means no timeout.
func (c *Client) WithTimeout(d time.Duration) *Client {
	c.timeout = d
	return c
}

// Binary returns the uv executable the client invokes.
func (c *Client) Binary() string {
	return c.binary
}

func (c *Client) run(ctx context.Context, args ...string) ([]byte, string, error) {
	if c.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	command := c.binary + " " + strings.Join(args, " ")
	logger.Debugf("running: %s", command)

	start := time.Now()
	out, err := c.runner.Run(ctx, c.dir, c.binary, args...)
	logger.Debugf("%s finished in %s", command, time.Since(start).Round(time.Millisecond))
	if err != nil {
		return out, command, newCommandError(command, err)
	}
	return out, command, nil
}

// ListOutdated returns every package uv considers outdated, in uv's order.
func (c *Client) ListOutdated(ctx context.Context) ([]Package, error) {
	out, command, err := c.run(ctx, "pip", "list", "--outdated", "--format", "json")
	if err != nil {
		return nil, err
	}

	packages, err := parseOutdated(out)
	if err != nil {
		return nil, &ParseError{Command: command, Err: err}
	}
	return packages, nil
}

// parseOutdated decodes the JSON array printed by uv pip list.
func parseOutdated(output []byte) ([]Package, error) {
	trimmed := bytes.TrimSpace(output)
	if len(trimmed) == 0 {
		return []Package{}, nil
	}

	var packages []Package
	if err := json.Unmarshal(trimmed, &packages); err != nil {
		return nil, err
	}

	for i, p := range packages {
		if p.Name == "" || p.Version == "" || p.LatestVersion == "" {
			return nil, fmt.Errorf("record %d: missing name, version or latest_version", i)
		}
	}

	return packages, nil
}

// Show returns package metadata from `uv pip show`.
func (c *Client) Show(ctx context.Context, name string) (*PackageInfo, error) {
	out, _, err := c.run(ctx, "pip", "show", name)
	if err != nil {
		return nil, err
	}
	return parseShow(out)
}

// parseShow parses the `Key: value` lines of uv pip show output.
// Format:
//
//	Name: requests
//	Version: 2.31.0
//	Home-page: https://requests.readthedocs.io
//	Project-URL: Source, https://github.com/psf/requests
func parseShow(output []byte) (*PackageInfo, error) {
	info := &PackageInfo{}
	scanner := bufio.NewScanner(bytes.NewReader(output))

	for scanner.Scan() {
		key, value, ok := strings.Cut(scanner.Text(), ":")
		if !ok {
			continue
		}
		value = strings.TrimSpace(value)

		switch strings.TrimSpace(key) {
		case "Name":
			info.Name = value
		case "Version":
			info.Version = value
		case "Home-page":
			info.HomePage = value
		case "Project-URL":
			info.ProjectURLs = append(info.ProjectURLs, value)
		}
	}

	return info, scanner.Err()
}

// URL returns the first http(s) URL from Home-page or Project-URL.
func (i *PackageInfo) URL() string {
	if isHTTP(i.HomePage) {
		return i.HomePage
	}
	for _, v := range i.ProjectURLs {
		// Project-URL values are "Label, URL"
		if _, u, ok := strings.Cut(v, ","); ok {
			v = strings.TrimSpace(u)
		}
		if isHTTP(v) {
			return v
		}
	}
	return ""
}

// ProjectURL implements registry.Source using uv pip show.
func (c *Client) ProjectURL(ctx context.Context, name string) (string, error) {
	info, err := c.Show(ctx, name)
	if err != nil {
		return "", err
	}
	return info.URL(), nil
}

// Add pins name to version with `uv add name==version`, updating both
// pyproject.toml and uv.lock.
func (c *Client) Add(ctx context.Context, name, version string) error {
	_, _, err := c.run(ctx, AddArgs(name, version)...)
	return err
}

// AddArgs returns the uv arguments that upgrade name to version.
func AddArgs(name, version string) []string {
	return []string{"add", fmt.Sprintf("%s==%s", name, version)}
}

// AddCommand returns the shell command that upgrades name to version.
func (c *Client) AddCommand(name, version string) string {
	return c.binary + " " + strings.Join(AddArgs(name, version), " ")
}

func isHTTP(s string) bool {
	return strings.HasPrefix(s, "http://") || strings.HasPrefix(s, "https://")
}
