package github

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/foxseedlab/presencedash/internal/github"
	"github.com/foxseedlab/presencedash/internal/metrics"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/sony/gobreaker/v2"
)

func TestListRepositories_Success(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/users/carol/repos" {
			t.Fatalf("unexpected path: %s", r.URL.Path)
		}
		if r.URL.Query().Get("per_page") != "100" {
			t.Fatalf("unexpected query: %s", r.URL.RawQuery)
		}
		if r.Header.Get("Authorization") != "token secret" {
			t.Fatalf("unexpected authorization: %s", r.Header.Get("Authorization"))
		}
		_, _ = fmt.Fprint(w, `[{"name":"dash","description":null,"html_url":"https://github.com/carol/dash","stargazers_count":5,"forks_count":1,"language":"Go","default_branch":"trunk","owner":{"login":"carol"}}]`)
	}))
	defer server.Close()

	repos, err := NewHTTPClient(server.URL+"/", "secret").ListRepositories(context.Background(), "carol")
	if err != nil {
		t.Fatalf("expected nil error, got %v", err)
	}
	if len(repos) != 1 {
		t.Fatalf("expected one repository, got %d", len(repos))
	}
	r := repos[0]
	if r.Name != "dash" || r.Description != "" || r.StargazersCount != 5 || r.DefaultBranch != "trunk" || r.Owner.Login != "carol" {
		t.Fatalf("unexpected repository: %+v", r)
	}
}

func TestListRepositories_NoTokenOmitsAuthorization(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if _, ok := r.Header["Authorization"]; ok {
			t.Fatal("expected no authorization header")
		}
		_, _ = fmt.Fprint(w, `[]`)
	}))
	defer server.Close()

	if _, err := NewHTTPClient(server.URL, "").ListRepositories(context.Background(), "carol"); err != nil {
		t.Fatalf("expected nil error, got %v", err)
	}
}

func TestListRepositories_Non2xx(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
	}))
	defer server.Close()

	before := testutil.ToFloat64(metrics.GitHubRequests.WithLabelValues("repos", "error"))
	if _, err := NewHTTPClient(server.URL, "").ListRepositories(context.Background(), "carol"); err == nil {
		t.Fatal("expected error for non-2xx response")
	}
	if got := testutil.ToFloat64(metrics.GitHubRequests.WithLabelValues("repos", "error")) - before; got != 1 {
		t.Fatalf("expected one error sample, got %v", got)
	}
}

func TestListTopics_UsesPreviewAccept(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/repos/carol/dash/topics" {
			t.Fatalf("unexpected path: %s", r.URL.Path)
		}
		if r.Header.Get("Accept") != acceptTopics {
			t.Fatalf("unexpected accept: %s", r.Header.Get("Accept"))
		}
		_, _ = fmt.Fprint(w, `{"names":["go","discord"]}`)
	}))
	defer server.Close()

	topics, err := NewHTTPClient(server.URL, "").ListTopics(context.Background(), "carol", "dash")
	if err != nil {
		t.Fatalf("expected nil error, got %v", err)
	}
	if len(topics) != 2 || topics[0] != "go" || topics[1] != "discord" {
		t.Fatalf("unexpected topics: %v", topics)
	}
}

func TestReadmeText_DecodesBase64(t *testing.T) {
	readme := `# dash` + "\n" + `<img src="./logo.png">`
	encoded := base64.StdEncoding.EncodeToString([]byte(readme))
	wrapped := encoded[:8] + `\n` + encoded[8:]

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/repos/carol/dash/contents/README.md" {
			t.Fatalf("unexpected path: %s", r.URL.Path)
		}
		_, _ = fmt.Fprintf(w, `{"content":"%s","encoding":"base64"}`, wrapped)
	}))
	defer server.Close()

	got, err := NewHTTPClient(server.URL, "").ReadmeText(context.Background(), "carol", "dash")
	if err != nil {
		t.Fatalf("expected nil error, got %v", err)
	}
	if got != readme {
		t.Fatalf("unexpected readme: %q", got)
	}
}

func TestReadmeText_NotFound(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.NotFound(w, r)
	}))
	defer server.Close()

	before := testutil.ToFloat64(metrics.GitHubRequests.WithLabelValues("readme", "not_found"))
	_, err := NewHTTPClient(server.URL, "").ReadmeText(context.Background(), "carol", "dash")
	if !errors.Is(err, github.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	if got := testutil.ToFloat64(metrics.GitHubRequests.WithLabelValues("readme", "not_found")) - before; got != 1 {
		t.Fatalf("expected one not_found sample, got %v", got)
	}
}

func TestReadmeText_InvalidBase64(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = fmt.Fprint(w, `{"content":"!!!","encoding":"base64"}`)
	}))
	defer server.Close()

	if _, err := NewHTTPClient(server.URL, "").ReadmeText(context.Background(), "carol", "dash"); err == nil {
		t.Fatal("expected decode error")
	}
}

func TestBreaker_OpensAfterRepeatedFailures(t *testing.T) {
	var hits atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer server.Close()

	client := NewHTTPClient(server.URL, "")
	for i := 0; i < 10; i++ {
		if _, err := client.ListTopics(context.Background(), "carol", "dash"); err == nil {
			t.Fatalf("call %d: expected error", i)
		}
	}
	_, err := client.ListTopics(context.Background(), "carol", "dash")
	if !errors.Is(err, gobreaker.ErrOpenState) {
		t.Fatalf("expected open breaker, got %v", err)
	}
	if hits.Load() != 10 {
		t.Fatalf("expected rejected call to skip the server, hits=%d", hits.Load())
	}
	if testutil.ToFloat64(metrics.GitHubBreakerState) != float64(gobreaker.StateOpen) {
		t.Fatalf("expected breaker gauge to report open")
	}
}

func TestBreaker_IgnoresNotFound(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.NotFound(w, r)
	}))
	defer server.Close()

	client := NewHTTPClient(server.URL, "")
	for i := 0; i < 15; i++ {
		if _, err := client.ReadmeText(context.Background(), "carol", "dash"); !errors.Is(err, github.ErrNotFound) {
			t.Fatalf("call %d: expected ErrNotFound, got %v", i, err)
		}
	}
}

func TestBreaker_IgnoresCancelledCallers(t *testing.T) {
	var hits atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		_, _ = fmt.Fprint(w, `{"names":["go"]}`)
	}))
	defer server.Close()

	client := NewHTTPClient(server.URL, "")
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	for i := 0; i < 12; i++ {
		if _, err := client.ListTopics(ctx, "carol", "dash"); !errors.Is(err, context.Canceled) {
			t.Fatalf("call %d: expected context.Canceled, got %v", i, err)
		}
	}
	if hits.Load() != 0 {
		t.Fatalf("expected cancelled calls to skip the server, hits=%d", hits.Load())
	}

	topics, err := client.ListTopics(context.Background(), "carol", "dash")
	if err != nil {
		t.Fatalf("expected live call to succeed after cancellations, got %v", err)
	}
	if len(topics) != 1 || topics[0] != "go" {
		t.Fatalf("unexpected topics: %v", topics)
	}
}

func TestBreaker_IgnoresDeadlineDuringRequest(t *testing.T) {
	release := make(chan struct{})
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-release:
		case <-r.Context().Done():
		}
	}))
	defer server.Close()
	defer close(release)

	client := NewHTTPClient(server.URL, "")
	for i := 0; i < 12; i++ {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Millisecond)
		_, err := client.ListTopics(ctx, "carol", "dash")
		cancel()
		if !errors.Is(err, context.DeadlineExceeded) {
			t.Fatalf("call %d: expected context.DeadlineExceeded, got %v", i, err)
		}
	}
	if state := client.(*HTTPClient).breaker.State(); state != gobreaker.StateClosed {
		t.Fatalf("expected breaker to stay closed, got %s", state)
	}
}
