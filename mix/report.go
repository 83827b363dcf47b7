// SPDX-License-Identifier: EPL-2.0

package mix

import (
	"encoding/json"
	"math"
)

// DB is a decibel value that survives JSON round-trips even when it is
// -Inf (silence). encoding/json rejects infinities, so DB marshals them
// as null and maps null back to -Inf on read.
type DB float64

func (d DB) MarshalJSON() ([]byte, error) {
	f := float64(d)
	if math.IsInf(f, 0) || math.IsNaN(f) {
		return []byte("null"), nil
	}
	return json.Marshal(f)
}

func (d *DB) UnmarshalJSON(b []byte) error {
	if string(b) == "null" {
		*d = DB(math.Inf(-1))
		return nil
	}

	var f float64
	if err := json.Unmarshal(b, &f); err != nil {
		return err
	}
	*d = DB(f)
	return nil
}

// TrackReport is the per-stem fragment of the pipeline report. It is
// also persisted inside the stem's cache entry, minus the Cached flag,
// which reflects the current run.
type TrackReport struct {
	InputDB DB   `json:"input_db"`
	GainDB  DB   `json:"gain_db"`
	Cached  bool `json:"cached"`
	// Silent flags a stem whose measured loudness was -Inf; it is left
	// unchanged instead of being scaled by an infinite gain.
	Silent bool `json:"silent,omitempty"`
}

// ConfigReport echoes the resolved targets into the report so a reader
// can tell what the artifacts were produced against.
type ConfigReport struct {
	TrackLUFS      float64  `json:"track_lufs"`
	MixLUFS        float64  `json:"mix_lufs"`
	TruePeakMargin float64  `json:"truepeak_margin"`
	Tracks         []string `json:"tracks"`
	QualityProfile string   `json:"quality_profile"`
}

// Conversion records one sample-rate conversion performed during the
// run, since conversion changes fidelity guarantees.
type Conversion struct {
	Stage string `json:"stage"`
	From  int    `json:"from"`
	To    int    `json:"to"`
}

// Report is the full pipeline report, persisted pretty-printed as
// report.json next to the mix.
type Report struct {
	Tracks                map[string]TrackReport `json:"tracks"`
	Config                ConfigReport           `json:"config"`
	SampleRateConversions []Conversion           `json:"sample_rate_conversions,omitempty"`
	MixLUFS               DB                     `json:"mix_lufs"`
	MixGainDB             DB                     `json:"mix_gain_db"`
	MixTruePeakDB         DB                     `json:"mix_true_peak_db"`
	LimiterGainDB         DB                     `json:"limiter_gain_db"`
}
