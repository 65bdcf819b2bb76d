package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"github.com/noah-isme/semak-karangan-api/internal/scoring"
)

// Config holds runtime configuration values for the API service.
type Config struct {
	AppName                string
	AppEnv                 string
	AppPort                string
	DatabaseURL            string
	RedisURL               string
	NATSURL                string
	JWTSecret              string
	CloudinaryCloudName    string
	CloudinaryAPIKey       string
	CloudinaryAPISecret    string
	CloudinaryUploadFolder string
	ResultsCacheTTL        time.Duration
	AIProvider             string
	AIModel                string
	AITimeout              time.Duration
	OpenAIAPIKey           string
	AnthropicAPIKey        string
	GeminiAPIKey           string
	GoogleCredentials      string
	VisionAPIKey           string
	OCRMaxPages            int
	UploadMaxSizeMB        int
	UploadMaxBatchMB       int
	ScoringPolicy          scoring.Policy
	SemakRatePerMinute     int
}

// HTTPAddress returns the address the HTTP server should listen on.
func (c Config) HTTPAddress() string {
	if strings.HasPrefix(c.AppPort, ":") {
		return c.AppPort
	}

	return fmt.Sprintf(":%s", c.AppPort)
}

// BodyLimit is the largest request body the server accepts, in bytes. A bulk
// run carries every pupil's pages in one request, so it gets its own budget.
func (c Config) BodyLimit() int {
	single := c.UploadMaxSizeMB*c.OCRMaxPages + 1
	return max(single, c.UploadMaxBatchMB) << 20
}

// ValidateServer checks the settings only the HTTP server needs.
func (c Config) ValidateServer() error {
	if c.JWTSecret == "" {
		return fmt.Errorf("jwt secret must be provided")
	}
	return nil
}

// CloudinaryEnabled reports whether OCR pages should be archived.
func (c Config) CloudinaryEnabled() bool {
	return c.CloudinaryCloudName != "" && c.CloudinaryAPIKey != "" && c.CloudinaryAPISecret != ""
}

// Load reads configuration values from environment variables and optional .env file.
func Load() (Config, error) {
	_ = godotenv.Load()

	v := viper.New()
	v.SetEnvPrefix("SEMAK")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	v.SetDefault("app.name", "Semak Karangan API")
	v.SetDefault("app.env", "development")
	v.SetDefault("app.port", "8080")
	v.SetDefault("cloudinary.folder", "semak/karangan")
	v.SetDefault("results.cache_ttl", "5m")
	v.SetDefault("ai.provider", "openai")
	v.SetDefault("ai.timeout", "45s")
	v.SetDefault("ocr.max_pages", 5)
	v.SetDefault("upload.max_size_mb", 10)
	v.SetDefault("upload.max_batch_mb", 200)
	v.SetDefault("scoring.policy", scoring.PolicyLibrary.Name)
	v.SetDefault("ratelimit.semak_per_minute", 20)

	return fromViper(v)
}

func fromViper(v *viper.Viper) (Config, error) {
	ttl, err := parseDuration(v.GetString("results.cache_ttl"), 5*time.Minute)
	if err != nil {
		return Config{}, fmt.Errorf("invalid results cache ttl: %w", err)
	}

	aiTimeout, err := parseDuration(v.GetString("ai.timeout"), 45*time.Second)
	if err != nil {
		return Config{}, fmt.Errorf("invalid ai timeout: %w", err)
	}

	policy, err := loadPolicy(v)
	if err != nil {
		return Config{}, err
	}

	cfg := Config{
		AppName:                v.GetString("app.name"),
		AppEnv:                 v.GetString("app.env"),
		AppPort:                v.GetString("app.port"),
		DatabaseURL:            v.GetString("database.url"),
		RedisURL:               v.GetString("redis.url"),
		NATSURL:                v.GetString("nats.url"),
		JWTSecret:              v.GetString("jwt.secret"),
		CloudinaryCloudName:    v.GetString("cloudinary.cloud_name"),
		CloudinaryAPIKey:       v.GetString("cloudinary.api_key"),
		CloudinaryAPISecret:    v.GetString("cloudinary.api_secret"),
		CloudinaryUploadFolder: v.GetString("cloudinary.folder"),
		ResultsCacheTTL:        ttl,
		AIProvider:             strings.ToLower(v.GetString("ai.provider")),
		AIModel:                v.GetString("ai.model"),
		AITimeout:              aiTimeout,
		OpenAIAPIKey:           v.GetString("openai_api_key"),
		AnthropicAPIKey:        v.GetString("anthropic_api_key"),
		GeminiAPIKey:           v.GetString("gemini_api_key"),
		GoogleCredentials:      v.GetString("google.credentials"),
		VisionAPIKey:           v.GetString("google.vision_api_key"),
		OCRMaxPages:            v.GetInt("ocr.max_pages"),
		UploadMaxSizeMB:        v.GetInt("upload.max_size_mb"),
		UploadMaxBatchMB:       v.GetInt("upload.max_batch_mb"),
		ScoringPolicy:          policy,
		SemakRatePerMinute:     v.GetInt("ratelimit.semak_per_minute"),
	}

	switch cfg.AIProvider {
	case "openai", "anthropic", "gemini":
	default:
		return Config{}, fmt.Errorf("unsupported ai provider %q", cfg.AIProvider)
	}

	if cfg.OCRMaxPages <= 0 {
		cfg.OCRMaxPages = 5
	}

	if cfg.UploadMaxSizeMB <= 0 {
		cfg.UploadMaxSizeMB = 10
	}

	if cfg.UploadMaxBatchMB <= 0 {
		cfg.UploadMaxBatchMB = 200
	}

	if cfg.SemakRatePerMinute <= 0 {
		cfg.SemakRatePerMinute = 20
	}

	return cfg, nil
}

// loadPolicy starts from the named preset and applies individual overrides.
func loadPolicy(v *viper.Viper) (scoring.Policy, error) {
	policy, err := scoring.PolicyByName(strings.ToLower(v.GetString("scoring.policy")))
	if err != nil {
		return scoring.Policy{}, err
	}

	if band := v.GetString("scoring.content_band"); band != "" {
		parsed, err := scoring.ParseContentBand(strings.ToLower(band))
		if err != nil {
			return scoring.Policy{}, err
		}
		policy.ContentBand = parsed
	}

	if v.IsSet("scoring.language_bonus") {
		policy.LanguageBonus = v.GetBool("scoring.language_bonus")
	}

	if v.IsSet("scoring.idiom_filter") {
		policy.IdiomFilter = v.GetBool("scoring.idiom_filter")
	}

	return policy, nil
}

func parseDuration(value string, fallback time.Duration) (time.Duration, error) {
	if value == "" {
		return fallback, nil
	}

	return time.ParseDuration(value)
}
