// Package dashboard assembles the view model for the server-rendered page.
package dashboard

import (
	"context"

	"github.com/foxseedlab/presencedash/internal/catalog"
	"github.com/foxseedlab/presencedash/internal/config"
	"github.com/foxseedlab/presencedash/internal/discord"
	"github.com/foxseedlab/presencedash/internal/github"
	"github.com/foxseedlab/presencedash/internal/presence"
)

type Settings struct {
	Name           string
	Description    string
	Image          string
	GitHubUsername string
	DiscordID      string
}

type Page struct {
	// Repos is nil when the repository list could not be fetched.
	Repos    []github.Repository
	Icons    []catalog.IconCategory
	Status   presence.StatusData
	Settings Settings
}

type SnapshotSource interface {
	Current() presence.Snapshot
}

type RepositorySource interface {
	Repositories(ctx context.Context) []github.Repository
}

type IconSource interface {
	SelectedIcons(selections map[string][]string) []catalog.IconCategory
}

type Builder struct {
	cfg     *config.Config
	store   SnapshotSource
	repos   RepositorySource
	icons   IconSource
	avatars discord.AvatarResolver
}

func NewBuilder(cfg *config.Config, store SnapshotSource, repos RepositorySource, icons IconSource, avatars discord.AvatarResolver) *Builder {
	return &Builder{
		cfg:     cfg,
		store:   store,
		repos:   repos,
		icons:   icons,
		avatars: avatars,
	}
}

func (b *Builder) Build(ctx context.Context) Page {
	snap := b.store.Current()
	status, ok := snap.Status()
	if !ok {
		status = presence.UnknownStatus()
	}

	return Page{
		Repos:  b.repos.Repositories(ctx),
		Icons:  b.icons.SelectedIcons(b.cfg.IconSelections),
		Status: status,
		Settings: Settings{
			Name:           b.cfg.SiteName,
			Description:    b.cfg.SiteDescription,
			Image:          b.avatars.AvatarURL(ctx, b.cfg.DiscordUserID, snap.AvatarHash()),
			GitHubUsername: b.cfg.GitHubUsername,
			DiscordID:      b.cfg.DiscordUserID,
		},
	}
}
