package web

import (
	"github.com/foxseedlab/presencedash/internal/config"
	"github.com/foxseedlab/presencedash/internal/dashboard"
	"github.com/foxseedlab/presencedash/internal/fanout"
	"github.com/foxseedlab/presencedash/internal/presence"
	"github.com/samber/do/v2"
)

func RegisterDI(injector do.Injector) {
	do.Provide(injector, func(i do.Injector) (*Server, error) {
		cfg := do.MustInvoke[*config.Config](i)
		pages := do.MustInvoke[*dashboard.Builder](i)
		hub := do.MustInvoke[*fanout.Hub](i)
		link := do.MustInvoke[*presence.Link](i)
		return NewServer(cfg, pages, hub, link)
	})
}
