package config

import (
	"fmt"
	"net/url"
	"strings"
)

type Config struct {
	Env                    string
	DiscordUserID          string
	DiscordBotToken        string
	LanyardSocketURL       string
	GitHubUsername         string
	GitHubToken            string
	GitHubAPIURL           string
	GitHubRawURL           string
	IgnoredRepos           string
	SiteName               string
	SiteDescription        string
	Port                   int
	PageRateLimitPerMinute int
	// IconSelections maps an icon category name to the icon names chosen for it.
	IconSelections map[string][]string
}

func (c *Config) Validate() error {
	for _, req := range c.requiredFieldChecks() {
		if strings.TrimSpace(req.value) == "" {
			return fmt.Errorf("%s is required", req.name)
		}
	}
	if c.Port <= 0 || c.Port > 65535 {
		return fmt.Errorf("PORT must be between 1 and 65535, got %d", c.Port)
	}
	if c.PageRateLimitPerMinute <= 0 {
		return fmt.Errorf("PAGE_RATE_LIMIT_PER_MINUTE must be positive, got %d", c.PageRateLimitPerMinute)
	}
	for _, u := range c.urlFieldChecks() {
		parsed, err := url.Parse(u.value)
		if err != nil {
			return fmt.Errorf("%s is invalid: %w", u.name, err)
		}
		if !u.allowsScheme(parsed.Scheme) || parsed.Host == "" {
			return fmt.Errorf("%s must be an absolute %s url, got %q", u.name, strings.Join(u.schemes, "/"), u.value)
		}
	}
	return nil
}

type requiredEnvField struct {
	name  string
	value string
}

func (c *Config) requiredFieldChecks() []requiredEnvField {
	return []requiredEnvField{
		{name: "DISCORD_ID", value: c.DiscordUserID},
		{name: "GH_USERNAME", value: c.GitHubUsername},
		{name: "LANYARD_SOCKET_URL", value: c.LanyardSocketURL},
		{name: "GITHUB_API_URL", value: c.GitHubAPIURL},
		{name: "GITHUB_RAW_URL", value: c.GitHubRawURL},
	}
}

type urlEnvField struct {
	name    string
	value   string
	schemes []string
}

func (f urlEnvField) allowsScheme(scheme string) bool {
	for _, s := range f.schemes {
		if s == scheme {
			return true
		}
	}
	return false
}

func (c *Config) urlFieldChecks() []urlEnvField {
	return []urlEnvField{
		{name: "LANYARD_SOCKET_URL", value: c.LanyardSocketURL, schemes: []string{"ws", "wss"}},
		{name: "GITHUB_API_URL", value: c.GitHubAPIURL, schemes: []string{"http", "https"}},
		{name: "GITHUB_RAW_URL", value: c.GitHubRawURL, schemes: []string{"http", "https"}},
	}
}

func (c *Config) IsDevelopment() bool {
	return c.Env == "development"
}

func (c *Config) ListenAddr() string {
	return fmt.Sprintf(":%d", c.Port)
}
