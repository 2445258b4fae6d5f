package config

import (
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
)

const (
	StorageDriverPostgres = "postgres"
	StorageDriverMemory   = "memory"
)

type Config struct {
	App struct {
		Env       string `env:"APP_ENV" env-default:"development"`
		Port      int    `env:"APP_PORT" env-default:"8080"`
		SentryUrl string `env:"SENTRY_URL"`
	}
	Postgres struct {
		Port    int    `env:"POSTGRES_PORT" env-default:"5432"`
		Host    string `env:"POSTGRES_HOST" env-default:"localhost"`
		User    string `env:"POSTGRES_USER"`
		Pass    string `env:"POSTGRES_PASS"`
		Name    string `env:"POSTGRES_NAME"`
		SslMode string `env:"POSTGRES_SSL_MODE" env-default:"disable"`
	}
	Storage struct {
		Driver        string `env:"STORAGE_DRIVER" env-default:"postgres" env-description:"postgres or memory"`
		MigrateOnBoot bool   `env:"STORAGE_MIGRATE_ON_BOOT" env-default:"true"`
	}
	HTTP struct {
		ShutdownTimeout time.Duration `env:"HTTP_SHUTDOWN_TIMEOUT" env-default:"10s"`
		MaxUploadBytes  int64         `env:"HTTP_MAX_UPLOAD_BYTES" env-default:"104857600"`
		CORSOrigins     []string      `env:"HTTP_CORS_ORIGINS" env-default:"http://localhost:5173" env-separator:","`
	}
	Auth struct {
		JWTSecret    string        `env:"JWT_SECRET" env-required:"true"`
		TokenTTL     time.Duration `env:"AUTH_TOKEN_TTL" env-default:"1h"`
		CookieName   string        `env:"AUTH_COOKIE_NAME" env-default:"token"`
		SecureCookie bool          `env:"AUTH_SECURE_COOKIE" env-default:"false"`
		BcryptCost   int           `env:"AUTH_BCRYPT_COST" env-default:"10"`
	}
	Cloudinary struct {
		CloudName string `env:"CLOUDINARY_CLOUD_NAME"`
		APIKey    string `env:"CLOUDINARY_API_KEY"`
		APISecret string `env:"CLOUDINARY_API_SECRET"`
	}
	MediaStore struct {
		Folder          string        `env:"MEDIASTORE_FOLDER" env-default:"posts_media"`
		ThumbnailFolder string        `env:"MEDIASTORE_THUMBNAIL_FOLDER" env-default:"posts_media/thumbnails"`
		UploadRetries   uint64        `env:"MEDIASTORE_UPLOAD_RETRIES" env-default:"0"`
		DeleteRetries   uint64        `env:"MEDIASTORE_DELETE_RETRIES" env-default:"2"`
		RetryInterval   time.Duration `env:"MEDIASTORE_RETRY_INTERVAL" env-default:"500ms"`
	}
	Transcoder struct {
		FFmpegPath    string        `env:"TRANSCODER_FFMPEG_PATH" env-default:"ffmpeg"`
		WorkDir       string        `env:"TRANSCODER_WORK_DIR" env-default:"./uploads"`
		Codec         string        `env:"TRANSCODER_CODEC" env-default:"libx264"`
		CRF           int           `env:"TRANSCODER_CRF" env-default:"28"`
		Preset        string        `env:"TRANSCODER_PRESET" env-default:"veryfast"`
		MaxHeight     int           `env:"TRANSCODER_MAX_HEIGHT" env-default:"720"`
		MaxConcurrent int64         `env:"TRANSCODER_MAX_CONCURRENT" env-default:"0" env-description:"0 means number of CPUs"`
		Timeout       time.Duration `env:"TRANSCODER_TIMEOUT" env-default:"0s" env-description:"0 disables the limit"`
	}
	RateLimit struct {
		CreatePostRequests int           `env:"RATELIMIT_CREATE_POST_REQUESTS" env-default:"10"`
		CreatePostPer      time.Duration `env:"RATELIMIT_CREATE_POST_PER" env-default:"1m"`
		CreatePostBurst    int           `env:"RATELIMIT_CREATE_POST_BURST" env-default:"3"`
	}
	Janitor struct {
		Interval   time.Duration `env:"JANITOR_INTERVAL" env-default:"15m"`
		TempMaxAge time.Duration `env:"JANITOR_TEMP_MAX_AGE" env-default:"1h"`
	}
}

// GetDSN returns the libpq key/value connection string used by goose and pgx.
func (c *Config) GetDSN() string {
	return fmt.Sprintf("dbname=%s user=%s password=%s host=%s port=%d sslmode=%s",
		c.Postgres.Name, c.Postgres.User, c.Postgres.Pass, c.Postgres.Host, c.Postgres.Port, c.Postgres.SslMode,
	)
}

func (c *Config) IsProduction() bool {
	return c.App.Env == "production"
}

var (
	once sync.Once
	cfg  *Config
)

func New() (*Config, error) {
	once.Do(func() {
		cfg = &Config{}
		if err := cleanenv.ReadEnv(cfg); err != nil {
			help, _ := cleanenv.GetDescription(cfg, nil)
			log.Fatalf("Failed to read configuration: %v\n%v", err, help)
		}
	})
	return cfg, nil
}
