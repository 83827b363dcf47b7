// SPDX-License-Identifier: EPL-2.0

// Package mix orchestrates the stem mixdown pipeline.
//
// An Engine runs, in order: per-stem normalization with durable caching
// (decode, resample to 48 kHz, align to the track loudness target), a
// truncating sample-wise sum, mix loudness alignment, true-peak
// limiting, and dithered 24-bit export, then persists the pipeline
// report.
//
// The pipeline is resumable. Each normalized stem is cached as
// cache/<name>.json under the output directory; the final state is
// marked by the joint presence of mix.wav, report.json and mix_lufs.txt.
// A process killed at any point can be restarted against the same
// directories: completed stems are loaded from cache, a completed output
// directory short-circuits into a pure read of the persisted report, and
// a partial run (mix written, report missing) resumes from the mixdown
// stage without redoing stem DSP.
//
// Stages execute strictly in sequence for one run; concurrency is safe
// only across jobs targeting distinct output directories.
package mix
