package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/hashicorp/go-multierror"
	"github.com/joho/godotenv"
)

const (
	DriverSQLite   = "sqlite3"
	DriverPostgres = "postgres"
	DriverPgx      = "pgx"

	ImageStoreLocal = "local"
	ImageStoreS3    = "s3"
)

type Config struct {
	Port      string
	PublicURL string
	LogLevel  string
	Database  Database
	Auth      Auth
	Orders    Orders
	Images    Images
	Telegram  Telegram
}

type Database struct {
	Driver string
	DSN    string
}

type Auth struct {
	SecretKey         []byte
	AdminUsername     string
	AdminPasswordHash string
	// AdminPassword is only set when no hash was configured; it is hashed at startup.
	AdminPassword string
	TokenTTL      time.Duration
}

// Orders holds the policy switches of order placement.
type Orders struct {
	TrustClientPrices         bool
	AllowNegativeAvailability bool
}

type Images struct {
	Store          string
	Dir            string
	MaxUploadBytes int64
	S3Bucket       string
	S3Region       string
	S3Prefix       string
}

type Telegram struct {
	Token  string
	ChatID int64
}

func (t Telegram) Enabled() bool {
	return t.Token != "" && t.ChatID != 0
}

// Load reads an optional .env file and builds the configuration from the environment.
// All problems found are reported together.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("failed to load .env: %w", err)
	}

	var result *multierror.Error
	cfg := &Config{
		Port:      getEnv("PORT", "8080"),
		PublicURL: strings.TrimRight(os.Getenv("PUBLIC_URL"), "/"),
		LogLevel:  getEnv("LOG_LEVEL", "info"),
		Database: Database{
			Driver: getEnv("DB_DRIVER", DriverSQLite),
			DSN:    getEnv("DB_DSN", "menu.db"),
		},
		Auth: Auth{
			SecretKey:         []byte(os.Getenv("JWT_SECRET_KEY")),
			AdminUsername:     getEnv("ADMIN_USERNAME", "admin"),
			AdminPasswordHash: os.Getenv("ADMIN_PASSWORD_HASH"),
			AdminPassword:     os.Getenv("ADMIN_PASSWORD"),
		},
		Images: Images{
			Store:    getEnv("IMAGE_STORE", ImageStoreLocal),
			Dir:      getEnv("UPLOAD_DIR", "static/images"),
			S3Bucket: os.Getenv("S3_BUCKET"),
			S3Region: os.Getenv("S3_REGION"),
			S3Prefix: getEnv("S3_PREFIX", "images"),
		},
		Telegram: Telegram{
			Token: os.Getenv("TELEGRAM_TOKEN"),
		},
	}

	var err error
	if cfg.Auth.TokenTTL, err = getDuration("TOKEN_TTL", 12*time.Hour); err != nil {
		result = multierror.Append(result, err)
	}
	if cfg.Orders.TrustClientPrices, err = getBool("TRUST_CLIENT_PRICES", true); err != nil {
		result = multierror.Append(result, err)
	}
	if cfg.Orders.AllowNegativeAvailability, err = getBool("ALLOW_NEGATIVE_AVAILABILITY", false); err != nil {
		result = multierror.Append(result, err)
	}
	if cfg.Images.MaxUploadBytes, err = getInt64("MAX_UPLOAD_BYTES", 16<<20); err != nil {
		result = multierror.Append(result, err)
	}
	if cfg.Telegram.ChatID, err = getInt64("TELEGRAM_CHAT_ID", 0); err != nil {
		result = multierror.Append(result, err)
	}

	if len(cfg.Auth.SecretKey) == 0 {
		result = multierror.Append(result, errors.New("JWT_SECRET_KEY is not set"))
	}
	if cfg.Auth.AdminPasswordHash == "" && cfg.Auth.AdminPassword == "" {
		result = multierror.Append(result, errors.New("one of ADMIN_PASSWORD_HASH or ADMIN_PASSWORD must be set"))
	}

	switch cfg.Database.Driver {
	case DriverSQLite, DriverPostgres, DriverPgx:
	default:
		result = multierror.Append(result, fmt.Errorf("unsupported DB_DRIVER %q", cfg.Database.Driver))
	}

	switch cfg.Images.Store {
	case ImageStoreLocal:
	case ImageStoreS3:
		if cfg.Images.S3Bucket == "" {
			result = multierror.Append(result, errors.New("S3_BUCKET is required when IMAGE_STORE=s3"))
		}
	default:
		result = multierror.Append(result, fmt.Errorf("unsupported IMAGE_STORE %q", cfg.Images.Store))
	}

	if err := result.ErrorOrNil(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func getEnv(key, def string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return def
}

func getBool(key string, def bool) (bool, error) {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return def, nil
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return def, fmt.Errorf("%s: invalid boolean %q", key, v)
	}
	return b, nil
}

func getInt64(key string, def int64) (int64, error) {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return def, nil
	}
	n, err := strconv.ParseInt(v, 10, 64)
	if err != nil {
		return def, fmt.Errorf("%s: invalid integer %q", key, v)
	}
	return n, nil
}

func getDuration(key string, def time.Duration) (time.Duration, error) {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return def, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return def, fmt.Errorf("%s: invalid duration %q", key, v)
	}
	return d, nil
}
