package config

import "testing"

func validConfig() *Config {
	return &Config{
		Env:                    "development",
		DiscordUserID:          "94490510688792576",
		LanyardSocketURL:       "wss://api.lanyard.rest/socket",
		GitHubUsername:         "carol",
		GitHubAPIURL:           "https://api.github.com",
		GitHubRawURL:           "https://raw.githubusercontent.com",
		Port:                   3000,
		PageRateLimitPerMinute: 60,
	}
}

func TestValidate_Valid(t *testing.T) {
	if err := validConfig().Validate(); err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
}

func TestValidate_MissingRequired(t *testing.T) {
	cfg := &Config{}
	if err := cfg.Validate(); err == nil {
		t.Fatal("expected error when required fields are missing")
	}
}

func TestValidate_BlankDiscordID(t *testing.T) {
	cfg := validConfig()
	cfg.DiscordUserID = "   "
	if err := cfg.Validate(); err == nil {
		t.Fatal("expected error for blank DISCORD_ID")
	}
}

func TestValidate_InvalidPort(t *testing.T) {
	for _, port := range []int{0, -1, 70000} {
		cfg := validConfig()
		cfg.Port = port
		if err := cfg.Validate(); err == nil {
			t.Fatalf("expected error for port %d", port)
		}
	}
}

func TestValidate_InvalidRateLimit(t *testing.T) {
	cfg := validConfig()
	cfg.PageRateLimitPerMinute = 0
	if err := cfg.Validate(); err == nil {
		t.Fatal("expected error for non-positive page rate limit")
	}
}

func TestValidate_SocketURLMustBeWebsocket(t *testing.T) {
	cfg := validConfig()
	cfg.LanyardSocketURL = "https://api.lanyard.rest/socket"
	if err := cfg.Validate(); err == nil {
		t.Fatal("expected error for non-websocket lanyard url")
	}
}

func TestValidate_RelativeAPIURL(t *testing.T) {
	cfg := validConfig()
	cfg.GitHubAPIURL = "/api"
	if err := cfg.Validate(); err == nil {
		t.Fatal("expected error for relative github api url")
	}
}

func TestIsDevelopment(t *testing.T) {
	cfg := &Config{Env: "development"}
	if !cfg.IsDevelopment() {
		t.Fatal("expected development mode")
	}
	cfg.Env = "production"
	if cfg.IsDevelopment() {
		t.Fatal("expected non-development mode")
	}
}

func TestListenAddr(t *testing.T) {
	cfg := &Config{Port: 8080}
	if got := cfg.ListenAddr(); got != ":8080" {
		t.Fatalf("unexpected listen addr: %s", got)
	}
}
