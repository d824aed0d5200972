package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/caarlos0/env/v11"
	"github.com/foxseedlab/presencedash/internal/catalog"
	internalconfig "github.com/foxseedlab/presencedash/internal/config"
)

type envConfig struct {
	Env                    string `env:"ENV" envDefault:"production"`
	DiscordUserID          string `env:"DISCORD_ID,required"`
	DiscordBotToken        string `env:"DISCORD_BOT_TOKEN"`
	LanyardSocketURL       string `env:"LANYARD_SOCKET_URL" envDefault:"wss://api.lanyard.rest/socket"`
	GitHubUsername         string `env:"GH_USERNAME,required"`
	GitHubToken            string `env:"GH_PERSONAL_TOKEN"`
	GitHubAPIURL           string `env:"GITHUB_API_URL" envDefault:"https://api.github.com"`
	GitHubRawURL           string `env:"GITHUB_RAW_URL" envDefault:"https://raw.githubusercontent.com"`
	IgnoredRepos           string `env:"IGNORED_REPOS"`
	SiteName               string `env:"NAME"`
	SiteDescription        string `env:"DESCRIPTION"`
	Port                   int    `env:"PORT" envDefault:"3000"`
	PageRateLimitPerMinute int    `env:"PAGE_RATE_LIMIT_PER_MINUTE" envDefault:"60"`
}

func Load() (*internalconfig.Config, error) {
	icons, err := catalog.NewCatalog()
	if err != nil {
		return nil, err
	}
	return LoadFrom(env.ToMap(os.Environ()), icons.Categories())
}

// LoadFrom reads configuration from environ. Each icon category's selection is
// read from the variable named by catalog.CategoryEnvVar.
func LoadFrom(environ map[string]string, iconCategories []string) (*internalconfig.Config, error) {
	var raw envConfig
	if err := env.ParseWithOptions(&raw, env.Options{Environment: environ}); err != nil {
		return nil, fmt.Errorf("environment variables are invalid or missing: %w", err)
	}

	cfg := &internalconfig.Config{
		Env:                    raw.Env,
		DiscordUserID:          raw.DiscordUserID,
		DiscordBotToken:        raw.DiscordBotToken,
		LanyardSocketURL:       raw.LanyardSocketURL,
		GitHubUsername:         raw.GitHubUsername,
		GitHubToken:            raw.GitHubToken,
		GitHubAPIURL:           raw.GitHubAPIURL,
		GitHubRawURL:           raw.GitHubRawURL,
		IgnoredRepos:           raw.IgnoredRepos,
		SiteName:               raw.SiteName,
		SiteDescription:        raw.SiteDescription,
		Port:                   raw.Port,
		PageRateLimitPerMinute: raw.PageRateLimitPerMinute,
		IconSelections:         iconSelections(environ, iconCategories),
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func iconSelections(environ map[string]string, categories []string) map[string][]string {
	selections := make(map[string][]string, len(categories))
	for _, category := range categories {
		value := environ[catalog.CategoryEnvVar(category)]
		var names []string
		for _, name := range strings.Split(value, ",") {
			if name = strings.TrimSpace(name); name != "" {
				names = append(names, name)
			}
		}
		if len(names) > 0 {
			selections[category] = names
		}
	}
	return selections
}
