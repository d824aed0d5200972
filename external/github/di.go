package github

import (
	"github.com/foxseedlab/presencedash/internal/config"
	"github.com/foxseedlab/presencedash/internal/github"
	"github.com/samber/do/v2"
)

func RegisterDI(injector do.Injector) {
	do.Provide(injector, func(i do.Injector) (github.Client, error) {
		c := do.MustInvoke[*config.Config](i)
		return NewHTTPClient(c.GitHubAPIURL, c.GitHubToken), nil
	})
}
