package github

import (
	"context"
	"errors"
	"log/slog"

	"golang.org/x/sync/errgroup"
)

// maxConcurrentEnrichments bounds per-repository API fan-out.
const maxConcurrentEnrichments = 8

type Enricher struct {
	client     Client
	colors     ColorLookup
	owner      string
	excluded   map[string]struct{}
	rawBaseURL string
}

func NewEnricher(client Client, colors ColorLookup, owner string, excluded map[string]struct{}, rawBaseURL string) *Enricher {
	return &Enricher{
		client:     client,
		colors:     colors,
		owner:      owner,
		excluded:   excluded,
		rawBaseURL: rawBaseURL,
	}
}

// Repositories lists, filters and enriches the owner's repositories in list
// order. A failed list call yields nil; a failed per-repository call only
// degrades that repository.
func (e *Enricher) Repositories(ctx context.Context) []Repository {
	listed, err := e.client.ListRepositories(ctx, e.owner)
	if err != nil {
		slog.Error("failed to list repositories", "error", err, "owner", e.owner)
		return nil
	}
	kept := Filter(listed, e.owner, e.excluded)

	out := make([]Repository, len(kept))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(maxConcurrentEnrichments)
	for i, repo := range kept {
		g.Go(func() error {
			out[i] = e.enrich(gctx, repo)
			return nil
		})
	}
	_ = g.Wait()
	return out
}

func (e *Enricher) enrich(ctx context.Context, repo APIRepository) Repository {
	owner := repo.Owner.Login
	if owner == "" {
		owner = e.owner
	}

	out := Repository{
		Name:            repo.Name,
		Description:     repo.Description,
		ForksCount:      repo.ForksCount,
		StargazersCount: repo.StargazersCount,
		MainLanguage:    repo.Language,
		LanguageColor:   e.colors.LanguageColor(repo.Language),
		Topics:          []string{},
		RepoURL:         repo.HTMLURL,
	}

	topics, err := e.client.ListTopics(ctx, owner, repo.Name)
	if err != nil {
		slog.Warn("failed to fetch repository topics", "error", err, "repo", repo.Name)
	} else if topics != nil {
		out.Topics = topics
	}

	readme, err := e.client.ReadmeText(ctx, owner, repo.Name)
	switch {
	case errors.Is(err, ErrNotFound):
		slog.Debug("repository has no readme", "repo", repo.Name)
	case err != nil:
		slog.Warn("failed to fetch repository readme", "error", err, "repo", repo.Name)
	default:
		out.Logo = ExtractFirstImage(readme, e.rawBaseURL, owner, repo.Name, repo.DefaultBranch)
	}
	return out
}
