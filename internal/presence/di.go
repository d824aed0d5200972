package presence

import (
	"github.com/foxseedlab/presencedash/internal/config"
	"github.com/samber/do/v2"
)

func RegisterDI(injector do.Injector) {
	do.Provide(injector, func(i do.Injector) (*Store, error) {
		return NewStore(), nil
	})
	do.Provide(injector, func(i do.Injector) (*Link, error) {
		cfg := do.MustInvoke[*config.Config](i)
		dialer := do.MustInvoke[Dialer](i)
		store := do.MustInvoke[*Store](i)
		pub := do.MustInvoke[Publisher](i)
		return NewLink(dialer, store, pub, cfg.DiscordUserID), nil
	})
}
