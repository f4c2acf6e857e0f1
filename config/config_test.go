package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

// chdirTemp moves the test into an empty directory so a developer's
// local config.yaml cannot leak into the assertions.
func chdirTemp(t *testing.T) {
	t.Helper()
	wd, err := os.Getwd()
	if err != nil {
		t.Fatal(err)
	}
	if err := os.Chdir(t.TempDir()); err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { os.Chdir(wd) })
}

func TestLoadDefaults(t *testing.T) {
	chdirTemp(t)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Pipeline.Name != "pitchpal" || cfg.Pipeline.LogLvl != "info" {
		t.Errorf("pipeline defaults wrong: %+v", cfg.Pipeline)
	}
	if cfg.Audio.SampleRate != 16000 || cfg.Audio.Channels != 1 || cfg.Audio.Codec != "pcm_s16le" {
		t.Errorf("audio defaults wrong: %+v", cfg.Audio)
	}
	if cfg.Services.Features.FeatureSet != "egemaps-v02" {
		t.Errorf("feature set default wrong: %+v", cfg.Services.Features)
	}
	if cfg.Server.ReadTimeout != 30*time.Second {
		t.Errorf("server defaults wrong: %+v", cfg.Server)
	}
}

func TestLoadEnvOverride(t *testing.T) {
	chdirTemp(t)
	t.Setenv("PITCHPAL_PIPELINE_LOG_LEVEL", "debug")
	t.Setenv("PITCHPAL_SERVICES_TRANSCRIBER_URL", "http://asr.internal:9000")
	t.Setenv("PITCHPAL_SERVICES_TRANSCRIBER_API_KEY", "sk-test")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Pipeline.LogLvl != "debug" {
		t.Errorf("LogLvl = %q", cfg.Pipeline.LogLvl)
	}
	if cfg.Services.Transcriber.URL != "http://asr.internal:9000" {
		t.Errorf("Transcriber.URL = %q", cfg.Services.Transcriber.URL)
	}
	if cfg.Services.Transcriber.APIKey != "sk-test" {
		t.Errorf("Transcriber.APIKey = %q", cfg.Services.Transcriber.APIKey)
	}
}

func TestLoadConfigFile(t *testing.T) {
	chdirTemp(t)
	yaml := `
pipeline:
  log_level: warning
services:
  features:
    url: http://features.internal:9005
    feature_set: compare-2016
paths:
  outputs: ./out
`
	if err := os.WriteFile(filepath.Join(".", "config.yaml"), []byte(yaml), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Pipeline.LogLvl != "warning" {
		t.Errorf("LogLvl = %q", cfg.Pipeline.LogLvl)
	}
	if cfg.Services.Features.FeatureSet != "compare-2016" {
		t.Errorf("FeatureSet = %q", cfg.Services.Features.FeatureSet)
	}
	if cfg.Paths.Outputs != "./out" {
		t.Errorf("Outputs = %q", cfg.Paths.Outputs)
	}
	// Defaults not named in the file still apply.
	if cfg.Audio.SampleRate != 16000 {
		t.Errorf("SampleRate = %d", cfg.Audio.SampleRate)
	}
}
