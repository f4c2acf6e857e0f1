package config

import (
	"strings"
	"time"

	"github.com/spf13/viper"
)

type Service struct {
	URL        string `mapstructure:"url"`
	APIKey     string `mapstructure:"api_key"`
	FeatureSet string `mapstructure:"feature_set"`
}

type Services struct {
	Transcriber Service `mapstructure:"transcriber"`
	Features    Service `mapstructure:"features"`
}

type Audio struct {
	SampleRate int    `mapstructure:"sample_rate"`
	Channels   int    `mapstructure:"channels"`
	Codec      string `mapstructure:"codec"`
	FFmpeg     string `mapstructure:"ffmpeg"`
}

type Pipeline struct {
	Name    string `mapstructure:"name"`
	Version string `mapstructure:"version"`
	LogLvl  string `mapstructure:"log_level"`
}

type Paths struct {
	Outputs string `mapstructure:"outputs"`
}

type Server struct {
	Address      string        `mapstructure:"address"`
	ReadTimeout  time.Duration `mapstructure:"read_timeout"`
	WriteTimeout time.Duration `mapstructure:"write_timeout"`
}

type Root struct {
	Pipeline Pipeline `mapstructure:"pipeline"`
	Audio    Audio    `mapstructure:"audio"`
	Services Services `mapstructure:"services"`
	Paths    Paths    `mapstructure:"paths"`
	Server   Server   `mapstructure:"server"`
}

// Load reads config.yaml when one is present and applies PITCHPAL_*
// environment overrides on top of the built-in defaults. A missing
// file is not an error; the defaults are a working configuration.
func Load() (*Root, error) {
	v := viper.New()

	v.SetDefault("pipeline.name", "pitchpal")
	v.SetDefault("pipeline.version", "0.1.0")
	v.SetDefault("pipeline.log_level", "info")
	v.SetDefault("audio.sample_rate", 16000)
	v.SetDefault("audio.channels", 1)
	v.SetDefault("audio.codec", "pcm_s16le")
	v.SetDefault("audio.ffmpeg", "ffmpeg")
	v.SetDefault("services.transcriber.url", "http://localhost:8002")
	v.SetDefault("services.transcriber.api_key", "")
	v.SetDefault("services.features.url", "http://localhost:8005")
	v.SetDefault("services.features.feature_set", "egemaps-v02")
	v.SetDefault("paths.outputs", "")
	v.SetDefault("server.address", ":8080")
	v.SetDefault("server.read_timeout", 30*time.Second)
	v.SetDefault("server.write_timeout", 30*time.Second)

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("./config")

	v.SetEnvPrefix("PITCHPAL")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, err
		}
	}

	var cfg Root
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}
