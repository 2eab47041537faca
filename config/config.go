package config

import (
	"os"

	"github.com/spf13/viper"
)

type Config struct {
	App     AppConfig
	DB      DBConfig
	Redis   RedisConfig
	Storage StorageConfig
	Mail    MailConfig
	Video   VideoConfig
}

type AppConfig struct {
	Port string
	Env  string
	// FrontendBaseURL is used for CORS and for the recording link in emails.
	FrontendBaseURL string
	// BackendBaseURL is used to build servable video URLs when no remote
	// storage is configured.
	BackendBaseURL string
}

type DBConfig struct {
	Host     string
	Port     string
	User     string
	Password string
	Name     string
}

type RedisConfig struct {
	Host     string
	Port     string
	Password string
	DB       int
}

// Enabled reports whether a Redis instance is configured. Without one the
// per-video lock falls back to an in-process keyed mutex.
func (c RedisConfig) Enabled() bool {
	return c.Host != ""
}

// StorageConfig holds the S3-compatible object storage credentials. When
// Endpoint is empty, finalized videos stay on local disk and are served by
// the backend itself.
type StorageConfig struct {
	Endpoint  string
	AccessKey string
	SecretKey string
	Bucket    string
	UseSSL    bool
	// PublicURL overrides the base URL used for playable video links.
	// Defaults to <scheme>://<endpoint>/<bucket>.
	PublicURL string
}

func (c StorageConfig) Enabled() bool {
	return c.Endpoint != ""
}

type MailConfig struct {
	SMTPHost string
	SMTPPort int
	Username string
	Password string
	From     string
}

type VideoConfig struct {
	// Dir is the root directory for chunk and finalized video files.
	Dir string
}

func LoadConfig() (*Config, error) {
	viper.SetConfigFile(".env")
	viper.AutomaticEnv()

	viper.SetDefault("APP_PORT", "8080")
	viper.SetDefault("APP_ENV", "development")
	viper.SetDefault("MAIL_SMTP_PORT", 587)
	viper.SetDefault("VIDEO_DIR", "videos")

	if err := viper.ReadInConfig(); err != nil {
		// Environment-only deployments run without a .env file.
		if !os.IsNotExist(err) {
			return nil, err
		}
	}

	config := &Config{
		App: AppConfig{
			Port:            viper.GetString("APP_PORT"),
			Env:             viper.GetString("APP_ENV"),
			FrontendBaseURL: viper.GetString("FRONTEND_BASE_URL"),
			BackendBaseURL:  viper.GetString("BACKEND_BASE_URL"),
		},
		DB: DBConfig{
			Host:     viper.GetString("DB_HOST"),
			Port:     viper.GetString("DB_PORT"),
			User:     viper.GetString("DB_USER"),
			Password: viper.GetString("DB_PASSWORD"),
			Name:     viper.GetString("DB_NAME"),
		},
		Redis: RedisConfig{
			Host:     viper.GetString("REDIS_HOST"),
			Port:     viper.GetString("REDIS_PORT"),
			Password: viper.GetString("REDIS_PASSWORD"),
			DB:       viper.GetInt("REDIS_DB"),
		},
		Storage: StorageConfig{
			Endpoint:  viper.GetString("MINIO_ENDPOINT"),
			AccessKey: viper.GetString("MINIO_ACCESS_KEY"),
			SecretKey: viper.GetString("MINIO_SECRET_KEY"),
			Bucket:    viper.GetString("MINIO_BUCKET"),
			UseSSL:    viper.GetBool("MINIO_USE_SSL"),
			PublicURL: viper.GetString("MINIO_PUBLIC_URL"),
		},
		Mail: MailConfig{
			SMTPHost: viper.GetString("MAIL_SMTP_HOST"),
			SMTPPort: viper.GetInt("MAIL_SMTP_PORT"),
			Username: viper.GetString("MAIL_SMTP_USER"),
			Password: viper.GetString("MAIL_SMTP_PASSWORD"),
			From:     viper.GetString("MAIL_FROM"),
		},
		Video: VideoConfig{
			Dir: viper.GetString("VIDEO_DIR"),
		},
	}

	return config, nil
}
