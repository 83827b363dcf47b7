// SPDX-License-Identifier: EPL-2.0

// Package mixdown mixes independent mono audio stems (vocals, drums,
// bass, ...) into a single loudness-targeted, true-peak-safe mixdown
// file through a multi-stage, resumable pipeline.
//
// # Quick Start
//
// The simplest way to mix a song folder:
//
//	report, err := mixdown.Process("song/stems", "song/out", mix.Options{})
//	if err != nil {
//	    // Handle error
//	}
//	fmt.Printf("mix loudness: %.2f dB\n", report.MixLUFS)
//
// Process decodes every recognized stem file (WAV, AIFF, MP3, Ogg
// Vorbis; 16/24-bit PCM for the lossless formats), resamples each to
// the 48 kHz processing rate, aligns it to the track loudness target,
// sums the stems, aligns the sum to the mix target, limits true peaks,
// and exports a dithered 24-bit/48 kHz mix.wav with a one-second head
// gap, alongside report.json and mix_lufs.txt.
//
// # Resumability
//
// Every normalized stem is cached under <output>/cache/, and the three
// output artifacts together mark completion. The process can be killed
// at any stage and re-run against the same directories without
// corrupting or redoing completed work.
//
// # Pipeline Components
//
// For more control, use the subpackages directly:
//
//   - audio: decoding abstractions, mono downmix, rate conversion
//   - dsp: loudness metering, gain alignment, true-peak limiting
//   - export: dithered quantization and verified WAV export
//   - mix: the orchestrating engine, cache and report types
//   - formats/...: per-container decoders
//
// Custom decoders implement audio.Decoder and register into an
// audio.Registry passed through mix.Options.
package mixdown
