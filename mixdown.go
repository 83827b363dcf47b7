// SPDX-License-Identifier: EPL-2.0

package mixdown

import (
	"github.com/ik5/mixdown/audio"
	"github.com/ik5/mixdown/formats/aiff"
	"github.com/ik5/mixdown/formats/mp3"
	"github.com/ik5/mixdown/formats/vorbis"
	"github.com/ik5/mixdown/formats/wav"
	"github.com/ik5/mixdown/mix"
)

// DefaultRegistry returns a decoder registry with every built-in stem
// format registered: WAV, AIFF, MP3 and Ogg Vorbis.
func DefaultRegistry() *audio.Registry {
	reg := audio.NewRegistry()
	reg.Register(".wav", wav.Decoder{})
	reg.Register(".aiff", aiff.Decoder{})
	reg.Register(".aif", aiff.Decoder{})
	reg.Register(".mp3", mp3.Decoder{})
	reg.Register(".ogg", vorbis.Decoder{})
	return reg
}

// Process mixes the stems found in inputDir into a loudness-targeted,
// true-peak-safe mixdown under outputDir, and returns the pipeline
// report. It is a thin convenience wrapper around mix.New: options left
// at their zero value get defaults, and a nil Registry gets
// DefaultRegistry.
//
// The call blocks until the output directory holds mix.wav, report.json
// and mix_lufs.txt. Re-invoking it on a complete output directory is a
// no-op read of the persisted report; invoking it after an interrupted
// run resumes from the first incomplete stage.
func Process(inputDir, outputDir string, opts mix.Options) (*mix.Report, error) {
	if opts.Registry == nil {
		opts.Registry = DefaultRegistry()
	}

	return mix.New(opts).Process(inputDir, outputDir)
}
