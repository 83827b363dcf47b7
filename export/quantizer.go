// SPDX-License-Identifier: EPL-2.0

package export

import (
	"fmt"
	"log/slog"
	"math"
	"math/rand/v2"
	"os"
	"path/filepath"

	"github.com/google/uuid"

	"github.com/ik5/mixdown/dsp"
	"github.com/ik5/mixdown/formats/wav"
	"github.com/ik5/mixdown/internal/logging"
)

const (
	// TargetRate is the fixed export sample rate in Hz.
	TargetRate = 48000
	// TargetBitDepth is the fixed export bit depth.
	TargetBitDepth = 24
	// HeadGapSeconds of silence prefixed to every export so downstream
	// loudness tools that skip an initial analysis window are not
	// biased by content at t=0.
	HeadGapSeconds = 1
	// SafetyCeilingDB is the hard sample-peak ceiling applied as a
	// final safety net, distinct from the mastering limiter.
	SafetyCeilingDB = -1.0
)

// DeterminismConfig pins the pseudo-random dither sequence so repeated
// exports of the same buffer are byte-identical. It is passed explicitly
// instead of living in process-wide state, so concurrent jobs cannot
// interfere with each other.
type DeterminismConfig struct {
	Seed uint64
}

// Quantizer converts float buffers to the fixed 24-bit/48kHz export
// format with triangular-distributed dither and writes them atomically.
type Quantizer struct {
	det DeterminismConfig
	log *slog.Logger
}

// NewQuantizer returns a Quantizer using the given dither seed. logger
// may be nil.
func NewQuantizer(det DeterminismConfig, logger *slog.Logger) *Quantizer {
	return &Quantizer{
		det: det,
		log: logging.NewComponentLogger(logger, "export"),
	}
}

// Export quantizes samples and writes them to path as 24-bit/48kHz mono
// WAV, prefixed with one second of silence.
//
// The buffer must already be at TargetRate; a mismatch fails with
// ErrSampleRateMismatch rather than silently resampling. If the sample
// peak exceeds SafetyCeilingDB, one corrective linear gain is applied to
// the whole buffer first. The file is written to a temporary name in the
// same directory, read back to verify the persisted format, and only
// then renamed into place, so a partial artifact never exists under the
// final name.
func (q *Quantizer) Export(path string, samples []float64, rate int) error {
	if rate != TargetRate {
		return fmt.Errorf("%w: got %d Hz, want %d Hz", ErrSampleRateMismatch, rate, TargetRate)
	}

	data := q.enforceCeiling(samples)
	frames := q.quantize(data)

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("creating export directory: %w", err)
	}

	tmp := filepath.Join(
		filepath.Dir(path),
		fmt.Sprintf(".%s.%s.tmp", filepath.Base(path), uuid.NewString()),
	)

	if err := q.write(tmp, frames); err != nil {
		os.Remove(tmp)
		return err
	}

	if err := Verify(tmp); err != nil {
		os.Remove(tmp)
		return err
	}

	if err := os.Rename(tmp, path); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("committing export: %w", err)
	}

	q.log.Info("export written",
		logging.String("path", path),
		logging.Int("rate", TargetRate),
		logging.Int("bit_depth", TargetBitDepth),
		logging.Int("frames", len(frames)))

	return nil
}

// enforceCeiling scales the whole buffer down once if the sample peak
// exceeds the safety ceiling.
func (q *Quantizer) enforceCeiling(samples []float64) []float64 {
	limit := dsp.DBToLinear(SafetyCeilingDB)

	peak := 0.0
	for _, x := range samples {
		if v := math.Abs(x); v > peak {
			peak = v
		}
	}

	if peak <= limit {
		return samples
	}

	q.log.Info("safety ceiling engaged",
		logging.Float64("peak", peak),
		logging.Float64("limit", limit))

	scale := limit / peak
	out := make([]float64, len(samples))
	for i, x := range samples {
		out[i] = x * scale
	}
	return out
}

// quantize prepends the head gap and converts each float sample to a
// 24-bit integer with triangular-distributed dither: two independent
// uniform draws in [0,1) subtracted and scaled by one LSB step, added
// before clamping and rounding. The clamp range is [-1.0, 1.0-lsb] to
// avoid wraparound at full scale.
func (q *Quantizer) quantize(samples []float64) []int {
	const (
		lsb    = 1.0 / (1 << (TargetBitDepth - 1))
		maxInt = 1<<(TargetBitDepth-1) - 1
	)

	rng := rand.New(rand.NewPCG(q.det.Seed, q.det.Seed^0x9e3779b97f4a7c15))

	headGap := HeadGapSeconds * TargetRate
	frames := make([]int, headGap+len(samples))

	for i, x := range samples {
		y := x + (rng.Float64()-rng.Float64())*lsb
		y = math.Max(-1.0, math.Min(1.0-lsb, y))
		frames[headGap+i] = int(math.Round(y * maxInt))
	}

	return frames
}

func (q *Quantizer) write(path string, frames []int) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating export file: %w", err)
	}

	if err := wav.Encode(f, TargetRate, TargetBitDepth, frames); err != nil {
		f.Close()
		return fmt.Errorf("encoding export: %w", err)
	}

	if err := f.Close(); err != nil {
		return fmt.Errorf("closing export file: %w", err)
	}

	return nil
}

// Verify re-opens a written file and asserts the persisted bit depth and
// sample rate equal the target. Guards against silent library
// misbehavior; the resume path also uses it before trusting a mix file
// left by a previous run.
func Verify(path string) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("reopening export for verification: %w", err)
	}
	defer f.Close()

	format, err := wav.Info(f)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrVerificationFailed, err)
	}

	if format.SampleRate != TargetRate || format.BitDepth != TargetBitDepth {
		return fmt.Errorf("%w: persisted %d Hz/%d-bit, want %d Hz/%d-bit",
			ErrVerificationFailed, format.SampleRate, format.BitDepth, TargetRate, TargetBitDepth)
	}

	return nil
}
