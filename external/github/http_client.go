package github

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/foxseedlab/presencedash/internal/github"
	"github.com/foxseedlab/presencedash/internal/metrics"
	"github.com/sony/gobreaker/v2"
)

const (
	requestTimeout = 15 * time.Second
	reposPerPage   = 100

	acceptJSON   = "application/vnd.github+json"
	acceptTopics = "application/vnd.github.mercy-preview+json"
	userAgent    = "presencedash"
)

type HTTPClient struct {
	baseURL string
	token   string
	client  *http.Client
	breaker *gobreaker.CircuitBreaker[struct{}]
}

func NewHTTPClient(baseURL, token string) github.Client {
	return &HTTPClient{
		baseURL: strings.TrimRight(baseURL, "/"),
		token:   token,
		client:  &http.Client{Timeout: requestTimeout},
		breaker: newBreaker(),
	}
}

func (c *HTTPClient) ListRepositories(ctx context.Context, username string) ([]github.APIRepository, error) {
	path := fmt.Sprintf("/users/%s/repos?per_page=%d", url.PathEscape(username), reposPerPage)
	var repos []github.APIRepository
	if err := c.get(ctx, "repos", path, acceptJSON, &repos); err != nil {
		return nil, err
	}
	return repos, nil
}

func (c *HTTPClient) ListTopics(ctx context.Context, owner, repo string) ([]string, error) {
	path := fmt.Sprintf("/repos/%s/%s/topics", url.PathEscape(owner), url.PathEscape(repo))
	var body struct {
		Names []string `json:"names"`
	}
	if err := c.get(ctx, "topics", path, acceptTopics, &body); err != nil {
		return nil, err
	}
	return body.Names, nil
}

func (c *HTTPClient) ReadmeText(ctx context.Context, owner, repo string) (string, error) {
	path := fmt.Sprintf("/repos/%s/%s/contents/README.md", url.PathEscape(owner), url.PathEscape(repo))
	var body struct {
		Content  string `json:"content"`
		Encoding string `json:"encoding"`
	}
	if err := c.get(ctx, "readme", path, acceptJSON, &body); err != nil {
		return "", err
	}
	if body.Encoding != "" && body.Encoding != "base64" {
		return "", fmt.Errorf("readme has unsupported encoding %q", body.Encoding)
	}
	decoded, err := base64.StdEncoding.DecodeString(strings.ReplaceAll(body.Content, "\n", ""))
	if err != nil {
		return "", fmt.Errorf("decode readme: %w", err)
	}
	return string(decoded), nil
}

func (c *HTTPClient) get(ctx context.Context, endpoint, path, accept string, out any) error {
	// Cancelled callers never reach the breaker.
	if err := ctx.Err(); err != nil {
		metrics.GitHubRequests.WithLabelValues(endpoint, outcome(err)).Inc()
		return fmt.Errorf("github %s: %w", endpoint, err)
	}
	_, err := c.breaker.Execute(func() (struct{}, error) {
		return struct{}{}, c.do(ctx, endpoint, path, accept, out)
	})
	metrics.GitHubRequests.WithLabelValues(endpoint, outcome(err)).Inc()
	if isBreakerRejection(err) {
		return fmt.Errorf("github %s skipped: %w", endpoint, err)
	}
	return err
}

func (c *HTTPClient) do(ctx context.Context, endpoint, path, accept string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", accept)
	req.Header.Set("User-Agent", userAgent)
	if c.token != "" {
		req.Header.Set("Authorization", "token "+c.token)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return err
	}
	defer func() {
		_ = resp.Body.Close()
	}()
	if resp.StatusCode == http.StatusNotFound {
		return fmt.Errorf("%s %s: %w", endpoint, path, github.ErrNotFound)
	}
	if !isHTTPSuccessStatus(resp.StatusCode) {
		return fmt.Errorf("github %s returned status %d", endpoint, resp.StatusCode)
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode %s response: %w", endpoint, err)
	}
	return nil
}

func outcome(err error) string {
	switch {
	case err == nil:
		return "ok"
	case errors.Is(err, github.ErrNotFound):
		return "not_found"
	case isCancellation(err):
		return "cancelled"
	case isBreakerRejection(err):
		return "rejected"
	default:
		return "error"
	}
}

func isHTTPSuccessStatus(statusCode int) bool {
	return statusCode >= 200 && statusCode < 300
}
