package config

import (
	"log"

	"github.com/spf13/viper"
)

type Config struct {
	Port                          string `mapstructure:"PORT"`
	DatabasePath                  string `mapstructure:"DATABASE_PATH"`
	StripeSecretKey               string `mapstructure:"STRIPE_SECRET_KEY"`
	JWTSecret                     string `mapstructure:"JWT_SECRET"`
	SiteDomain                    string `mapstructure:"SITE_DOMAIN"`
	GoogleClientID                string `mapstructure:"GOOGLE_CLIENT_ID"`
	GoogleClientSecret            string `mapstructure:"GOOGLE_CLIENT_SECRET"`
	GoogleRedirectURL             string `mapstructure:"GOOGLE_REDIRECT_URL"`
	DiscordBotToken               string `mapstructure:"DISCORD_BOT_TOKEN"`
	DiscordNotificationsChannelID string `mapstructure:"DISCORD_NOTIFICATIONS_CHANNEL_ID"`
	Currency                      string `mapstructure:"CURRENCY"`
}

func LoadConfig() *Config {
	viper.SetDefault("PORT", "8080")
	viper.SetDefault("DATABASE_PATH", "clubsphere.db")
	viper.SetDefault("SITE_DOMAIN", "http://127.0.0.1:5173")
	viper.SetDefault("GOOGLE_REDIRECT_URL", "http://127.0.0.1:8080/auth/google/callback")
	viper.SetDefault("CURRENCY", "usd")

	viper.BindEnv("STRIPE_SECRET_KEY")
	viper.BindEnv("JWT_SECRET")
	viper.BindEnv("SITE_DOMAIN")
	viper.BindEnv("GOOGLE_CLIENT_ID")
	viper.BindEnv("GOOGLE_CLIENT_SECRET")
	viper.BindEnv("GOOGLE_REDIRECT_URL")
	viper.BindEnv("DISCORD_BOT_TOKEN")
	viper.BindEnv("DISCORD_NOTIFICATIONS_CHANNEL_ID")
	viper.BindEnv("CURRENCY")

	viper.AutomaticEnv()

	var config Config
	if err := viper.Unmarshal(&config); err != nil {
		log.Fatalf("Unable to decode into struct, %v", err)
	}

	// The process is useless without these; refuse to start.
	if config.StripeSecretKey == "" {
		log.Fatal("STRIPE_SECRET_KEY is required")
	}
	if config.JWTSecret == "" {
		log.Fatal("JWT_SECRET is required")
	}

	return &config
}
