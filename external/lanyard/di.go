package lanyard

import (
	"github.com/foxseedlab/presencedash/internal/config"
	"github.com/foxseedlab/presencedash/internal/presence"
	"github.com/samber/do/v2"
)

func RegisterDI(injector do.Injector) {
	do.Provide(injector, func(i do.Injector) (presence.Dialer, error) {
		c := do.MustInvoke[*config.Config](i)
		return NewDialer(c.LanyardSocketURL), nil
	})
}
