package discord

import (
	"github.com/foxseedlab/presencedash/internal/config"
	discordpkg "github.com/foxseedlab/presencedash/internal/discord"
	"github.com/samber/do/v2"
)

func RegisterDI(injector do.Injector) {
	do.Provide(injector, func(i do.Injector) (discordpkg.AvatarResolver, error) {
		c := do.MustInvoke[*config.Config](i)
		return NewAvatarResolver(c.DiscordBotToken)
	})
}
