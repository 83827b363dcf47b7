// SPDX-License-Identifier: EPL-2.0

package config

import (
	_ "embed"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/pelletier/go-toml/v2"

	"github.com/ik5/mixdown/audio"
	"github.com/ik5/mixdown/mix"
)

//go:embed defaults.toml
var defaultsTOML []byte

// Profile adjusts the fidelity/cost trade-off of a run without touching
// the loudness targets.
type Profile struct {
	ResampleQuality    string `toml:"resample_quality"`
	TruePeakOversample int    `toml:"truepeak_oversample"`
}

// Config holds the resolved mixdown configuration. The engine consumes
// it only through Options(), treating the values as opaque input.
type Config struct {
	TrackLUFS          float64            `toml:"track_lufs"`
	MixLUFS            float64            `toml:"mix_lufs"`
	TruePeakMargin     float64            `toml:"truepeak_margin"`
	Tracks             []string           `toml:"tracks"`
	QualityProfile     string             `toml:"quality_profile"`
	ResampleQuality    string             `toml:"resample_quality"`
	TruePeakOversample int                `toml:"truepeak_oversample"`
	Profiles           map[string]Profile `toml:"profiles"`
}

// Default returns the embedded repository defaults.
func Default() (Config, error) {
	var cfg Config
	if err := toml.Unmarshal(defaultsTOML, &cfg); err != nil {
		return Config{}, fmt.Errorf("parsing embedded defaults: %w", err)
	}
	return cfg, nil
}

// Load resolves the configuration with priority ENV > profile > file >
// defaults. path may be empty (no config file); profile may be empty,
// in which case MIX_PROFILE and then the file's quality_profile decide.
// An unknown profile name is an error rather than a silent fallback.
func Load(path, profile string) (Config, error) {
	cfg, err := Default()
	if err != nil {
		return Config{}, err
	}

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return Config{}, fmt.Errorf("reading config: %w", err)
		}
		if err := toml.Unmarshal(data, &cfg); err != nil {
			return Config{}, fmt.Errorf("parsing config %s: %w", path, err)
		}
	}

	if profile == "" {
		profile = os.Getenv("MIX_PROFILE")
	}
	if profile == "" {
		profile = cfg.QualityProfile
	}
	if profile != "" {
		p, ok := cfg.Profiles[profile]
		if !ok {
			return Config{}, fmt.Errorf("unknown quality profile %q", profile)
		}
		if p.ResampleQuality != "" {
			cfg.ResampleQuality = p.ResampleQuality
		}
		if p.TruePeakOversample > 0 {
			cfg.TruePeakOversample = p.TruePeakOversample
		}
		cfg.QualityProfile = profile
	}

	if err := applyEnv(&cfg); err != nil {
		return Config{}, err
	}

	return cfg, nil
}

func applyEnv(cfg *Config) error {
	if v := os.Getenv("MIX_TRACKS"); v != "" {
		var tracks []string
		for _, t := range strings.Split(v, ",") {
			if t = strings.TrimSpace(t); t != "" {
				tracks = append(tracks, t)
			}
		}
		cfg.Tracks = tracks
	}

	if v := os.Getenv("MIX_TRACK_LUFS"); v != "" {
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return fmt.Errorf("parsing MIX_TRACK_LUFS: %w", err)
		}
		cfg.TrackLUFS = f
	}

	if v := os.Getenv("MIX_MIX_LUFS"); v != "" {
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return fmt.Errorf("parsing MIX_MIX_LUFS: %w", err)
		}
		cfg.MixLUFS = f
	}

	return nil
}

// Options maps the configuration onto engine options.
func (c Config) Options() mix.Options {
	quality := audio.QualityCubic
	if c.ResampleQuality == "linear" {
		quality = audio.QualityLinear
	}

	return mix.Options{
		TrackLUFS:      c.TrackLUFS,
		MixLUFS:        c.MixLUFS,
		TruePeakMargin: c.TruePeakMargin,
		Tracks:         c.Tracks,
		Profile:        c.QualityProfile,
		Quality:        quality,
		Oversample:     c.TruePeakOversample,
	}
}
