// Package github builds the repository list shown on the page from the
// owner's public hosting account.
package github

import (
	"context"
	"errors"
	"strings"
)

var ErrNotFound = errors.New("github resource not found")

type Owner struct {
	Login string `json:"login"`
}

// APIRepository is the subset of the hosting API repository object we read.
type APIRepository struct {
	Name            string `json:"name"`
	Description     string `json:"description"`
	HTMLURL         string `json:"html_url"`
	StargazersCount int    `json:"stargazers_count"`
	ForksCount      int    `json:"forks_count"`
	Language        string `json:"language"`
	DefaultBranch   string `json:"default_branch"`
	Owner           Owner  `json:"owner"`
}

// Repository is an enriched repository as rendered on the page.
type Repository struct {
	Name            string   `json:"name"`
	Description     string   `json:"description"`
	ForksCount      int      `json:"forks_count"`
	StargazersCount int      `json:"stargazers_count"`
	MainLanguage    string   `json:"main_language"`
	LanguageColor   string   `json:"language_color"`
	Topics          []string `json:"topics"`
	RepoURL         string   `json:"repo_url"`
	Logo            string   `json:"logo,omitempty"`
}

type Client interface {
	ListRepositories(ctx context.Context, username string) ([]APIRepository, error)
	ListTopics(ctx context.Context, owner, repo string) ([]string, error)
	// ReadmeText returns the decoded README.md, or ErrNotFound.
	ReadmeText(ctx context.Context, owner, repo string) (string, error)
}

type ColorLookup interface {
	LanguageColor(language string) string
}

// ParseExcluded splits a comma separated list of repository names. Names are
// trimmed and matched case-insensitively.
func ParseExcluded(csv string) map[string]struct{} {
	excluded := make(map[string]struct{})
	for _, name := range strings.Split(csv, ",") {
		name = strings.TrimSpace(name)
		if name == "" {
			continue
		}
		excluded[strings.ToLower(name)] = struct{}{}
	}
	return excluded
}

// Filter drops excluded repositories and the profile repository named after
// the owner, keeping list order.
func Filter(repos []APIRepository, owner string, excluded map[string]struct{}) []APIRepository {
	kept := make([]APIRepository, 0, len(repos))
	for _, r := range repos {
		name := strings.ToLower(r.Name)
		if name == strings.ToLower(owner) {
			continue
		}
		if _, skip := excluded[name]; skip {
			continue
		}
		kept = append(kept, r)
	}
	return kept
}
