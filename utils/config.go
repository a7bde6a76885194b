package utils

import (
	"fmt"
	"os"
	"strconv"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Config carries everything main needs to boot the bot. Values come from
// config.yaml when present, with environment variables taking precedence.
type Config struct {
	BotToken            string `yaml:"bot_token"`
	DatabaseURL         string `yaml:"database_url"`
	Port                string `yaml:"port"`
	AnnouncementChannel string `yaml:"announcement_channel"`
	MinBet              int64  `yaml:"min_bet"`
	MaxBet              int64  `yaml:"max_bet"`
}

// LoadConfig reads .env (if present), then the yaml file (if present), then
// applies environment overrides. Only the bot token is mandatory.
func LoadConfig(path string) (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{
		Port:   "8080",
		MinBet: MinBet,
		MaxBet: MaxBet,
	}

	if data, err := os.ReadFile(path); err == nil {
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parsing %s: %w", path, err)
		}
	}

	if v := os.Getenv("BOT_TOKEN"); v != "" {
		cfg.BotToken = v
	}
	if v := os.Getenv("DATABASE_URL"); v != "" {
		cfg.DatabaseURL = v
	}
	if v := os.Getenv("PORT"); v != "" {
		cfg.Port = v
	}
	if v := os.Getenv("ANNOUNCEMENT_CHANNEL"); v != "" {
		cfg.AnnouncementChannel = v
	}
	if v := os.Getenv("MIN_BET"); v != "" {
		if n, err := strconv.ParseInt(v, 10, 64); err == nil {
			cfg.MinBet = n
		}
	}
	if v := os.Getenv("MAX_BET"); v != "" {
		if n, err := strconv.ParseInt(v, 10, 64); err == nil {
			cfg.MaxBet = n
		}
	}

	if cfg.BotToken == "" {
		return nil, fmt.Errorf("BOT_TOKEN is not set")
	}
	return cfg, nil
}
