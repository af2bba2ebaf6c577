package relay

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

// Config holds the relay credentials and upstream settings. Loaded from
// MOMO_* env vars, optionally overlaid on a momorelay.yaml file.
type Config struct {
	Port              string
	BaseURL           string
	APIUserID         string
	APIKey            string
	SubscriptionKey   string
	TargetEnvironment string
	Currency          string
}

func LoadConfig() (*Config, error) {
	v := viper.New()
	v.SetEnvPrefix("MOMO")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	v.SetDefault("port", "5000")
	v.SetDefault("base_url", "https://sandbox.momodeveloper.mtn.com")
	v.SetDefault("target_environment", "sandbox")
	v.SetDefault("currency", "LRD")

	v.SetConfigName("momorelay")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("read relay config file: %w", err)
		}
	}

	cfg := &Config{
		Port:              v.GetString("port"),
		BaseURL:           v.GetString("base_url"),
		APIUserID:         v.GetString("api_user_id"),
		APIKey:            v.GetString("api_key"),
		SubscriptionKey:   v.GetString("subscription_key"),
		TargetEnvironment: v.GetString("target_environment"),
		Currency:          v.GetString("currency"),
	}

	if cfg.APIUserID == "" || cfg.APIKey == "" || cfg.SubscriptionKey == "" {
		return nil, errors.New("MOMO_API_USER_ID, MOMO_API_KEY and MOMO_SUBSCRIPTION_KEY are required")
	}
	return cfg, nil
}
