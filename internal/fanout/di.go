package fanout

import (
	"github.com/foxseedlab/presencedash/internal/presence"
	"github.com/samber/do/v2"
)

func RegisterDI(injector do.Injector) {
	do.Provide(injector, func(i do.Injector) (*Hub, error) {
		store := do.MustInvoke[*presence.Store](i)
		return NewHub(store), nil
	})
	do.Provide(injector, func(i do.Injector) (presence.Publisher, error) {
		return do.MustInvoke[*Hub](i), nil
	})
}
