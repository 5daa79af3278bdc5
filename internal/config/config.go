// Package config loads the documented AW_* environment inputs once at
// process startup; components never read the environment ad-hoc. It
// follows the teacher's viper+godotenv Load() shape: .env pre-load,
// defaults, AutomaticEnv with an AW_ prefix, then a struct Unmarshal,
// with required-field validation deferred to the point of use rather
// than rejected wholesale at startup, since a missing chat webhook URL
// only matters to installs that use chat delivery.
package config

import (
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	awerrors "github.com/posaune0423/aw-analyzer/pkg/errors"
)

// Config is the fully-resolved set of environment inputs.
type Config struct {
	AIAPIKey           string `mapstructure:"ai_api_key"`
	ChatWebhookURL     string `mapstructure:"chat_webhook_url"`
	ChatBotToken       string `mapstructure:"chat_bot_token"`
	ChatChannelID      string `mapstructure:"chat_channel_id"`
	ServerURL          string `mapstructure:"server_url"`
	Hostname           string `mapstructure:"hostname"`
	LogLevel           string `mapstructure:"log_level"`
	StatePath          string `mapstructure:"state_path"`
	TimezoneOffsetMins int    `mapstructure:"timezone_offset_minutes"`
}

// Load reads a .env file if present, then binds the documented AW_*
// environment variables (falling back to defaults for anything unset),
// and unmarshals the result into a Config.
func Load() (*Config, error) {
	_ = godotenv.Load()

	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix("AW")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	for key, env := range envBindings {
		if err := v.BindEnv(key, env); err != nil {
			return nil, awerrors.Config("failed to bind environment variable " + env)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, awerrors.Config("failed to unmarshal configuration: " + err.Error())
	}

	if cfg.Hostname == "" {
		if h, err := os.Hostname(); err == nil {
			cfg.Hostname = h
		}
	}

	return &cfg, nil
}

// envBindings maps each mapstructure key to the documented AW_ variable
// name, so BindEnv calls stay explicit instead of relying solely on
// AutomaticEnv's prefix-plus-uppercase convention.
var envBindings = map[string]string{
	"ai_api_key":              "AW_AI_API_KEY",
	"chat_webhook_url":        "AW_CHAT_WEBHOOK_URL",
	"chat_bot_token":          "AW_CHAT_BOT_TOKEN",
	"chat_channel_id":         "AW_CHAT_CHANNEL_ID",
	"server_url":              "AW_SERVER_URL",
	"hostname":                "AW_HOSTNAME",
	"log_level":               "AW_LOG_LEVEL",
	"state_path":              "AW_STATE_PATH",
	"timezone_offset_minutes": "AW_TIMEZONE_OFFSET_MINUTES",
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server_url", "http://localhost:5600")
	v.SetDefault("log_level", "INFO")
	v.SetDefault("timezone_offset_minutes", 0)
}

// ValidateChatWebhook returns a config_error if chat delivery via
// webhook was requested but no URL is configured. Load does not call
// it, and neither does the CLI wiring: buildDeps leaves the webhook
// unset when the URL is empty, so chat delivery is skipped.
func (c *Config) ValidateChatWebhook() error {
	if strings.TrimSpace(c.ChatWebhookURL) == "" {
		return awerrors.Config("AW_CHAT_WEBHOOK_URL is required for chat delivery")
	}
	return nil
}

// ValidateChatUpload returns a config_error if the chat file-upload
// path was requested but the bot token is missing.
func (c *Config) ValidateChatUpload() error {
	if strings.TrimSpace(c.ChatBotToken) == "" {
		return awerrors.Config("AW_CHAT_BOT_TOKEN is required for chat file upload")
	}
	return nil
}
