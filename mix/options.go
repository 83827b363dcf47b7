// SPDX-License-Identifier: EPL-2.0

package mix

import (
	"log/slog"

	"github.com/ik5/mixdown/audio"
	"github.com/ik5/mixdown/export"
)

// Default loudness targets and mastering headroom.
const (
	DefaultTrackLUFS      = -23.0
	DefaultMixLUFS        = -14.0
	DefaultTruePeakMargin = 1.0
)

// DefaultTracks is the stem set assumed when neither the caller nor
// discovery yields one.
var DefaultTracks = []string{"vocals", "drums", "bass", "other"}

// Options configures an Engine. The zero value gets the defaults above;
// the engine treats the whole struct as opaque caller input.
type Options struct {
	// TrackLUFS is the per-stem loudness target in dB.
	TrackLUFS float64
	// MixLUFS is the summed-mix loudness target in dB.
	MixLUFS float64
	// TruePeakMargin is the mastering headroom in dB; the limiter
	// ceiling is its negation (margin 1.0 -> ceiling -1 dBFS).
	TruePeakMargin float64
	// Tracks names the stems to mix. Empty means discover from the
	// input directory, falling back to DefaultTracks.
	Tracks []string
	// Profile is echoed into the report's config block.
	Profile string
	// Quality selects the resampling interpolation.
	Quality audio.Quality
	// Oversample is the true-peak interpolation factor (minimum 4).
	Oversample int
	// Determinism pins the export dither sequence.
	Determinism export.DeterminismConfig
	// Registry resolves stem file extensions to decoders. Required for
	// decoding raw stems; cache-only resumes work without it.
	Registry *audio.Registry
	// Logger receives stage transitions and cache activity. Nil keeps
	// the engine silent.
	Logger *slog.Logger
}

func (o Options) withDefaults() Options {
	if o.TrackLUFS == 0 {
		o.TrackLUFS = DefaultTrackLUFS
	}
	if o.MixLUFS == 0 {
		o.MixLUFS = DefaultMixLUFS
	}
	if o.TruePeakMargin == 0 {
		o.TruePeakMargin = DefaultTruePeakMargin
	}
	if o.Oversample < 4 {
		o.Oversample = 4
	}
	return o
}
