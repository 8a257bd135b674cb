package initializers

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"

	"github.com/joho/godotenv"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/viper"
)

type Config struct {
	Port        string   `mapstructure:"PORT"`
	GinMode     string   `mapstructure:"GIN_MODE"`
	CORSOrigins []string `mapstructure:"CORS_ORIGINS"`

	DBDriver    string `mapstructure:"DB_DRIVER"`
	DatabaseURL string `mapstructure:"DATABASE_URL"`

	SecretKey            string `mapstructure:"SECRET_KEY"`
	Algorithm            string `mapstructure:"ALGORITHM"`
	PasswordSalt         string `mapstructure:"PASSWORD_SALT"`
	LegacyDigestBackfill bool   `mapstructure:"LEGACY_DIGEST_BACKFILL"`

	AdminEmail    string `mapstructure:"ADMIN_EMAIL"`
	AdminPassword string `mapstructure:"ADMIN_PASSWORD"`

	RedisURL string `mapstructure:"REDIS_URL"`
	S3Bucket string `mapstructure:"S3_BUCKET"`

	SMTPHost     string `mapstructure:"SMTP_HOST"`
	SMTPPort     int    `mapstructure:"SMTP_PORT"`
	SMTPUsername string `mapstructure:"SMTP_USERNAME"`
	SMTPPassword string `mapstructure:"SMTP_PASSWORD"`
	FromEmail    string `mapstructure:"FROM_EMAIL"`

	OrderWebhookURL string `mapstructure:"ORDER_WEBHOOK_URL"`
}

var defaults = map[string]any{
	"PORT":                   "8000",
	"GIN_MODE":               "release",
	"CORS_ORIGINS":           []string{"http://localhost:3000", "http://localhost:5173", "http://localhost:8080"},
	"DB_DRIVER":              "postgres",
	"DATABASE_URL":           "",
	"SECRET_KEY":             "",
	"ALGORITHM":              "HS256",
	"PASSWORD_SALT":          "",
	"LEGACY_DIGEST_BACKFILL": false,
	"ADMIN_EMAIL":            "",
	"ADMIN_PASSWORD":         "",
	"REDIS_URL":              "",
	"S3_BUCKET":              "",
	"SMTP_HOST":              "",
	"SMTP_PORT":              587,
	"SMTP_USERNAME":          "",
	"SMTP_PASSWORD":          "",
	"FROM_EMAIL":             "",
	"ORDER_WEBHOOK_URL":      "",
}

// LoadEnv loads a dotenv file into the process environment. A missing file is
// not an error; real deployments set the variables directly.
func LoadEnv(files ...string) {
	if err := godotenv.Load(files...); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			log.Println("No .env file found, using process environment.")
			return
		}
		log.Println("Error loading .env file:", err)
	}
}

// LoadConfig reads the process environment into a Config and fails when the
// store endpoint or any signing secret is absent.
func LoadConfig() (Config, error) {
	v := viper.New()
	v.AutomaticEnv()
	for key, value := range defaults {
		v.SetDefault(key, value)
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return config, fmt.Errorf("unable to decode config: %w", err)
	}
	config.DBDriver = strings.ToLower(strings.TrimSpace(config.DBDriver))

	var missing []string
	if config.DatabaseURL == "" {
		missing = append(missing, "DATABASE_URL")
	}
	if config.SecretKey == "" {
		missing = append(missing, "SECRET_KEY")
	}
	if config.PasswordSalt == "" {
		missing = append(missing, "PASSWORD_SALT")
	}
	if len(missing) > 0 {
		return config, fmt.Errorf("missing required environment variables: %s", strings.Join(missing, ", "))
	}

	return config, nil
}
