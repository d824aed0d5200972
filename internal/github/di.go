package github

import (
	"github.com/foxseedlab/presencedash/internal/catalog"
	"github.com/foxseedlab/presencedash/internal/config"
	"github.com/samber/do/v2"
)

func RegisterDI(injector do.Injector) {
	do.Provide(injector, func(i do.Injector) (*Enricher, error) {
		cfg := do.MustInvoke[*config.Config](i)
		client := do.MustInvoke[Client](i)
		colors := do.MustInvoke[*catalog.Catalog](i)
		return NewEnricher(client, colors, cfg.GitHubUsername, ParseExcluded(cfg.IgnoredRepos), cfg.GitHubRawURL), nil
	})
}
