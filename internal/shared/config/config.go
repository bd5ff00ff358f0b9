package config

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// EnvPrefix は環境変数のプレフィックス（FLUXDL_SERVER_PORT など）
const EnvPrefix = "FLUXDL"

// Config はアプリケーション全体の設定
type Config struct {
	Env      string         `mapstructure:"env" yaml:"env"`
	Log      LogConfig      `mapstructure:"log" yaml:"log"`
	Server   ServerConfig   `mapstructure:"server" yaml:"server"`
	Download DownloadConfig `mapstructure:"download" yaml:"download"`
	Jobs     JobsConfig     `mapstructure:"jobs" yaml:"jobs"`
	Storage  StorageConfig  `mapstructure:"storage" yaml:"storage"`
	GRPC     GRPCConfig     `mapstructure:"grpc" yaml:"grpc"`
}

type LogConfig struct {
	Level string `mapstructure:"level" yaml:"level"`
}

type ServerConfig struct {
	Port        string   `mapstructure:"port" yaml:"port"`
	APIKey      string   `mapstructure:"api_key" yaml:"api_key"`
	CORSOrigins []string `mapstructure:"cors_origins" yaml:"cors_origins"`
	Swagger     bool     `mapstructure:"swagger" yaml:"swagger"`
}

type DownloadConfig struct {
	Dir              string        `mapstructure:"dir" yaml:"dir"`
	YtdlpPath        string        `mapstructure:"ytdlp_path" yaml:"ytdlp_path"`
	FFmpegLocation   string        `mapstructure:"ffmpeg_location" yaml:"ffmpeg_location"`
	ProgressInterval time.Duration `mapstructure:"progress_interval" yaml:"progress_interval"`
	SocketTimeout    time.Duration `mapstructure:"socket_timeout" yaml:"socket_timeout"`
	Retries          int           `mapstructure:"retries" yaml:"retries"`
}

// JobsConfig はジョブ保持ポリシー（Retention が 0 なら無期限に保持）
type JobsConfig struct {
	Retention       time.Duration `mapstructure:"retention" yaml:"retention"`
	JanitorInterval time.Duration `mapstructure:"janitor_interval" yaml:"janitor_interval"`
}

type StorageConfig struct {
	Type     string   `mapstructure:"type" yaml:"type"` // none, local, s3
	LocalDir string   `mapstructure:"local_dir" yaml:"local_dir"`
	S3       S3Config `mapstructure:"s3" yaml:"s3"`
}

type S3Config struct {
	Bucket string `mapstructure:"bucket" yaml:"bucket"`
	Region string `mapstructure:"region" yaml:"region"`
	Prefix string `mapstructure:"prefix" yaml:"prefix"`
}

type GRPCConfig struct {
	HealthAddr string `mapstructure:"health_addr" yaml:"health_addr"`
}

// IsDevelopment は開発モードかどうかを返す
func (c *Config) IsDevelopment() bool {
	return c.Env == "development"
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("env", "production")
	v.SetDefault("log.level", "info")

	v.SetDefault("server.port", "5000")
	v.SetDefault("server.api_key", "")
	v.SetDefault("server.cors_origins", []string{"*"})
	v.SetDefault("server.swagger", true)

	v.SetDefault("download.dir", "downloads")
	v.SetDefault("download.ytdlp_path", "")
	v.SetDefault("download.ffmpeg_location", "")
	v.SetDefault("download.progress_interval", 500*time.Millisecond)
	v.SetDefault("download.socket_timeout", 30*time.Second)
	v.SetDefault("download.retries", 3)

	v.SetDefault("jobs.retention", time.Duration(0))
	v.SetDefault("jobs.janitor_interval", 10*time.Minute)

	v.SetDefault("storage.type", "none")
	v.SetDefault("storage.local_dir", "")
	v.SetDefault("storage.s3.bucket", "")
	v.SetDefault("storage.s3.region", "us-east-1")
	v.SetDefault("storage.s3.prefix", "")

	v.SetDefault("grpc.health_addr", "")
}

// Load は設定ファイル・環境変数・デフォルト値から設定を読み込む
// path が空の場合は ./config.yaml と /config/config.yaml を探し、無ければデフォルトのみで起動する
func Load(path string) (*Config, error) {
	v := viper.New()
	v.SetConfigType("yaml")
	setDefaults(v)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
		}
	} else {
		v.SetConfigName("config")
		v.AddConfigPath(".")
		v.AddConfigPath("/config")
		if err := v.ReadInConfig(); err != nil {
			var notFound viper.ConfigFileNotFoundError
			if !errors.As(err, &notFound) {
				return nil, fmt.Errorf("failed to read config file: %w", err)
			}
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to decode config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	// ダウンロード先は絶対パスで保持する
	abs, err := filepath.Abs(cfg.Download.Dir)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve download dir: %w", err)
	}
	cfg.Download.Dir = abs

	return &cfg, nil
}

// Validate は設定値を検証する
func (c *Config) Validate() error {
	if strings.TrimSpace(c.Server.Port) == "" {
		return errors.New("server.port is required")
	}
	if strings.TrimSpace(c.Download.Dir) == "" {
		return errors.New("download.dir is required")
	}
	if c.Download.ProgressInterval <= 0 {
		return errors.New("download.progress_interval must be positive")
	}
	if c.Download.Retries < 0 {
		return errors.New("download.retries must not be negative")
	}
	if c.Jobs.Retention < 0 {
		return errors.New("jobs.retention must not be negative")
	}
	if c.Jobs.Retention > 0 && c.Jobs.JanitorInterval <= 0 {
		return errors.New("jobs.janitor_interval must be positive when retention is enabled")
	}

	switch c.Storage.Type {
	case "", "none":
	case "local":
		if c.Storage.LocalDir == "" {
			return errors.New("storage.local_dir is required for local storage")
		}
	case "s3":
		if c.Storage.S3.Bucket == "" {
			return errors.New("storage.s3.bucket is required for s3 storage")
		}
	default:
		return fmt.Errorf("unsupported storage type: %s", c.Storage.Type)
	}

	return nil
}
