package internal

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"

	"github.com/spf13/viper"
)

type Config struct {
	Archive         string   `mapstructure:"archive"`
	Inbox           string   `mapstructure:"inbox"`
	ImageExt        []string `mapstructure:"image_extensions"`
	VideoExt        []string `mapstructure:"video_extensions"`
	Workers         int      `mapstructure:"workers"`
	ThumbnailSize   int      `mapstructure:"thumbnail_size"`
	UseExifTool     bool     `mapstructure:"use_exiftool"`
	FFprobePath     string   `mapstructure:"ffprobe_path"`
	FFmpegPath      string   `mapstructure:"ffmpeg_path"`
	ProbeTimeoutSec int      `mapstructure:"probe_timeout_seconds"`
}

// Classifier builds the extension classifier from the configured
// allow-lists. Empty lists fall back to the built-in ones.
func (c *Config) Classifier() *Classifier {
	if len(c.ImageExt) == 0 && len(c.VideoExt) == 0 {
		return DefaultClassifier()
	}
	return NewClassifier(c.ImageExt, c.VideoExt)
}

func defaultWorkers() int {
	n := runtime.NumCPU()
	if n > 4 {
		n = 4
	}
	return n
}

func LoadConfig() (*Config, error) {
	configDir, err := os.UserConfigDir()
	if err != nil {
		return nil, fmt.Errorf("failed to find user config dir: %w", err)
	}

	viper.SetConfigName("silmaril")
	viper.SetConfigType("toml")
	viper.AddConfigPath(filepath.Join(configDir, "silmaril"))

	// Set defaults:
	viper.SetDefault("archive", filepath.Join(os.Getenv("HOME"), "silmaril/archive"))
	viper.SetDefault("inbox", filepath.Join(os.Getenv("HOME"), "silmaril/inbox"))
	viper.SetDefault("image_extensions", []string{".jpg", ".jpeg", ".png", ".gif", ".heic"})
	viper.SetDefault("video_extensions", []string{".mp4", ".mov", ".avi", ".mkv", ".m4v"})
	viper.SetDefault("workers", defaultWorkers())
	viper.SetDefault("thumbnail_size", 300)
	viper.SetDefault("use_exiftool", false)
	viper.SetDefault("ffprobe_path", "ffprobe")
	viper.SetDefault("ffmpeg_path", "ffmpeg")
	viper.SetDefault("probe_timeout_seconds", 30)

	if err := viper.ReadInConfig(); err != nil {
		// Config file not found; that's OK, just use defaults
	}

	var cfg Config
	if err := viper.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	return &cfg, nil
}
