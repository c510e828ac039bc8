package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/mitchellh/mapstructure"
	"github.com/sirupsen/logrus"
	"github.com/spf13/viper"
)

type Config struct {
	App         App         `mapstructure:",squash"`
	Server      Server      `mapstructure:",squash"`
	SFMC        SFMC        `mapstructure:",squash"`
	Probe       Probe       `mapstructure:",squash"`
	TokenWarmup TokenWarmup `mapstructure:",squash"`
	Cors        Cors        `mapstructure:",squash"`
	Upload      Upload      `mapstructure:",squash"`
	Debug       Debug       `mapstructure:",squash"`
}

type App struct {
	LogLevel string `mapstructure:"log_level"`
	Env      string `mapstructure:"app_env"`
}

type Server struct {
	Host string `mapstructure:"host"`
	Port string `mapstructure:"port"`
}

// SFMC holds the Marketing Cloud tenant settings. AuthURL and RestURL are
// derived from Subdomain when not set explicitly.
type SFMC struct {
	ClientID          string        `mapstructure:"sfmc_client_id"`
	ClientSecret      string        `mapstructure:"sfmc_client_secret"`
	Subdomain         string        `mapstructure:"sfmc_subdomain"`
	AccountID         string        `mapstructure:"sfmc_account_id"`
	AccessToken       string        `mapstructure:"sfmc_access_token"`
	AuthURL           string        `mapstructure:"sfmc_auth_url"`
	RestURL           string        `mapstructure:"sfmc_rest_url"`
	TokenSafetyMargin time.Duration `mapstructure:"sfmc_token_safety_margin"`
	ManualTokenTTL    time.Duration `mapstructure:"sfmc_manual_token_ttl"`
	RequestTimeout    time.Duration `mapstructure:"sfmc_request_timeout"`
}

type Probe struct {
	Budget                 time.Duration `mapstructure:"sfmc_probe_budget"`
	PageSize               int           `mapstructure:"sfmc_page_size"`
	ExtraSendEndpoints     []string      `mapstructure:"sfmc_extra_send_endpoints"`
	ExtraTrackingEndpoints []string      `mapstructure:"sfmc_extra_tracking_endpoints"`
}

type TokenWarmup struct {
	CronSchedule string `mapstructure:"sfmc_token_warmup_cron"`
	Enabled      bool   `mapstructure:"sfmc_token_warmup_enabled"`
}

type Cors struct {
	AllowedOrigins []string `mapstructure:"cors_allowed_origins"`
}

type Upload struct {
	MaxBytes int64 `mapstructure:"upload_max_bytes"`
}

// Debug protects the /api/debug routes. Empty APIKey leaves them open.
type Debug struct {
	APIKey string `mapstructure:"debug_api_key"`
}

// HasClientCredentials reports whether the OAuth client-credentials flow can run.
func (s SFMC) HasClientCredentials() bool {
	return s.ClientID != "" && s.ClientSecret != "" && s.AuthURL != ""
}

// HasManualToken reports whether a pre-provisioned long-lived token is configured.
func (s SFMC) HasManualToken() bool {
	return s.AccessToken != ""
}

// Configured reports whether there is enough to talk to the REST API at all.
func (s SFMC) Configured() bool {
	return s.RestURL != "" && (s.HasManualToken() || s.HasClientCredentials())
}

// MissingSettings lists the environment variables that would make the
// tenant usable. Empty when Configured is true.
func (s SFMC) MissingSettings() []string {
	if s.Configured() {
		return nil
	}

	missing := make([]string, 0, 3)
	if s.Subdomain == "" && s.RestURL == "" {
		missing = append(missing, "SFMC_SUBDOMAIN")
	}
	if !s.HasManualToken() {
		if s.ClientID == "" {
			missing = append(missing, "SFMC_CLIENT_ID")
		}
		if s.ClientSecret == "" {
			missing = append(missing, "SFMC_CLIENT_SECRET")
		}
	}
	return missing
}

func SetDefaults() {
	viper.SetDefault("HOST", "localhost")
	viper.SetDefault("PORT", 8000)

	viper.SetDefault("LOG_LEVEL", "debug")
	viper.SetDefault("APP_ENV", "development")

	viper.SetDefault("SFMC_CLIENT_ID", "")
	viper.SetDefault("SFMC_CLIENT_SECRET", "")
	viper.SetDefault("SFMC_SUBDOMAIN", "")
	viper.SetDefault("SFMC_ACCOUNT_ID", "")
	viper.SetDefault("SFMC_ACCESS_TOKEN", "") // skips the OAuth flow when set
	viper.SetDefault("SFMC_AUTH_URL", "")
	viper.SetDefault("SFMC_REST_URL", "")
	viper.SetDefault("SFMC_TOKEN_SAFETY_MARGIN", "5m")
	viper.SetDefault("SFMC_MANUAL_TOKEN_TTL", "24h")
	viper.SetDefault("SFMC_REQUEST_TIMEOUT", "15s")

	viper.SetDefault("SFMC_PROBE_BUDGET", "45s")
	viper.SetDefault("SFMC_PAGE_SIZE", 50)
	viper.SetDefault("SFMC_EXTRA_SEND_ENDPOINTS", "")
	viper.SetDefault("SFMC_EXTRA_TRACKING_ENDPOINTS", "")

	viper.SetDefault("SFMC_TOKEN_WARMUP_CRON", "*/10 * * * *")
	viper.SetDefault("SFMC_TOKEN_WARMUP_ENABLED", false)

	viper.SetDefault("CORS_ALLOWED_ORIGINS", "http://localhost:3000,http://localhost:5173")

	viper.SetDefault("UPLOAD_MAX_BYTES", 5<<20)

	viper.SetDefault("DEBUG_API_KEY", "")
}

func NewConfig() (*Config, error) {
	loadEnvFile()

	config := &Config{}

	SetDefaults()

	viper.SetConfigType("env")
	viper.SetConfigFile(".env")
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err != nil {
		logrus.Info("config: using process environment (viper could not read .env): ", err)
	} else {
		logrus.Info("config: .env read by viper")
	}

	err := viper.Unmarshal(&config, viper.DecodeHook(
		mapstructure.ComposeDecodeHookFunc(
			mapstructure.StringToTimeDurationHookFunc(),
			mapstructure.StringToSliceHookFunc(","),
		),
	))
	if err != nil {
		return nil, err
	}

	config.SFMC.Subdomain = strings.TrimSpace(config.SFMC.Subdomain)
	if config.SFMC.AuthURL == "" && config.SFMC.Subdomain != "" {
		config.SFMC.AuthURL = fmt.Sprintf("https://%s.auth.marketingcloudapis.com/v2/token", config.SFMC.Subdomain)
	}
	if config.SFMC.RestURL == "" && config.SFMC.Subdomain != "" {
		config.SFMC.RestURL = fmt.Sprintf("https://%s.rest.marketingcloudapis.com", config.SFMC.Subdomain)
	}
	config.SFMC.RestURL = strings.TrimRight(config.SFMC.RestURL, "/")

	config.Probe.ExtraSendEndpoints = compact(config.Probe.ExtraSendEndpoints)
	config.Probe.ExtraTrackingEndpoints = compact(config.Probe.ExtraTrackingEndpoints)
	config.Cors.AllowedOrigins = compact(config.Cors.AllowedOrigins)

	return config, nil
}

func compact(values []string) []string {
	out := make([]string, 0, len(values))
	for _, v := range values {
		if v = strings.TrimSpace(v); v != "" {
			out = append(out, v)
		}
	}
	return out
}

// loadEnvFile tries the usual locations for a local .env file.
func loadEnvFile() {
	cwd, err := os.Getwd()
	if err != nil {
		logrus.Warn("config: could not resolve working directory: ", err)
		return
	}

	locations := []string{
		filepath.Join(cwd, ".env"),
		filepath.Join(filepath.Dir(cwd), ".env"),
		filepath.Join(cwd, "../../.env"),
	}

	for _, location := range locations {
		logrus.Debug("config: trying .env at ", location)
		if err := godotenv.Load(location); err == nil {
			logrus.Info("config: .env loaded from ", location)
			return
		}
	}

	logrus.Debug("config: no .env file found, relying on the environment")
}
