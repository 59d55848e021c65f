// /internal/config/config.go
package config

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"
)

type Config struct {
	DiscordToken      string `env:"DISCORD_TOKEN,required,notEmpty"`
	AdminRoleID       string `env:"ADMIN_ROLE_ID,required,notEmpty"`
	GuildID           string `env:"GUILD_ID"`
	LogsChannelID     string `env:"LOGS_CHANNEL_ID"`
	InitSlashCommands bool   `env:"INIT_SLASH_COMMANDS" envDefault:"true"`

	StoragePath string `env:"STORAGE_PATH" envDefault:"data/anify.db"`

	FeedEnabled    bool   `env:"FEED_ENABLED" envDefault:"true"`
	FeedURL        string `env:"FEED_URL" envDefault:"ws://localhost:3061/entry"`
	FeedClientName string `env:"FEED_CLIENT_NAME" envDefault:"anify-backend"`

	LogLevel string `env:"LOG_LEVEL" envDefault:"info"`
	LogFile  string `env:"LOG_FILE"`

	ServicesConfig
}

// ServicesConfig describes the sibling processes. It is all cmd/services needs.
type ServicesConfig struct {
	Services        []string `env:"SERVICES" envSeparator:"," envDefault:"anify-frontend,anify-backend,anify-auth"`
	ServicesDir     string   `env:"SERVICES_DIR" envDefault:".."`
	ServiceStartCmd string   `env:"SERVICE_START_CMD" envDefault:"bun start"`
}

// Load reads .env (if present) into the process environment and parses it.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		log.Debug().Msg("No .env file found, falling back to system environment variables")
	}
	return Parse()
}

// Parse builds a Config from the current environment only.
func Parse() (*Config, error) {
	cfg, err := env.ParseAs[Config]()
	if err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}

	cfg.AdminRoleID = strings.TrimSpace(cfg.AdminRoleID)
	if cfg.AdminRoleID == "" {
		return nil, fmt.Errorf("ADMIN_ROLE_ID is blank")
	}

	cfg.ServicesConfig.normalize()
	return &cfg, nil
}

// LoadServices reads .env (if present) and parses only the service settings.
func LoadServices() (*ServicesConfig, error) {
	if err := godotenv.Load(); err != nil {
		log.Debug().Msg("No .env file found, falling back to system environment variables")
	}
	cfg, err := env.ParseAs[ServicesConfig]()
	if err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}
	cfg.normalize()
	return &cfg, nil
}

func (c *ServicesConfig) normalize() {
	services := c.Services[:0]
	for _, s := range c.Services {
		if s = strings.TrimSpace(s); s != "" {
			services = append(services, s)
		}
	}
	c.Services = services
}

// ServiceDir returns the working directory of a sibling service.
func (c *ServicesConfig) ServiceDir(name string) string {
	return filepath.Join(c.ServicesDir, name)
}
