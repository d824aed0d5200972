package dashboard

import (
	"github.com/foxseedlab/presencedash/internal/catalog"
	"github.com/foxseedlab/presencedash/internal/config"
	"github.com/foxseedlab/presencedash/internal/discord"
	"github.com/foxseedlab/presencedash/internal/github"
	"github.com/foxseedlab/presencedash/internal/presence"
	"github.com/samber/do/v2"
)

func RegisterDI(injector do.Injector) {
	do.Provide(injector, func(i do.Injector) (*Builder, error) {
		cfg := do.MustInvoke[*config.Config](i)
		store := do.MustInvoke[*presence.Store](i)
		enricher := do.MustInvoke[*github.Enricher](i)
		icons := do.MustInvoke[*catalog.Catalog](i)
		avatars := do.MustInvoke[discord.AvatarResolver](i)
		return NewBuilder(cfg, store, enricher, icons, avatars), nil
	})
}
