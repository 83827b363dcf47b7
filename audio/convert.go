// SPDX-License-Identifier: EPL-2.0

package audio

import (
	"math"

	"github.com/ik5/mixdown/utils"
)

// Quality selects the interpolation used for sample rate conversion.
type Quality int

const (
	// QualityCubic uses Catmull-Rom cubic interpolation with a simple
	// anti-alias low-pass when downsampling. This is the default.
	QualityCubic Quality = iota
	// QualityLinear uses linear interpolation. Cheaper, but it changes
	// fidelity guarantees; callers should surface its use in reports.
	QualityLinear
)

func (q Quality) String() string {
	switch q {
	case QualityCubic:
		return "cubic"
	case QualityLinear:
		return "linear"
	default:
		return "unknown"
	}
}

// Convert resamples a mono buffer from srcRate to dstRate.
//
// When the rates match, the input slice is returned unchanged. Otherwise
// the output length is round(len(samples) * dstRate / srcRate). Conversion
// is deterministic: identical input always produces identical output.
func Convert(samples []float64, srcRate, dstRate int, quality Quality) ([]float64, error) {
	if srcRate <= 0 || dstRate <= 0 {
		return nil, ErrInvalidRate
	}
	if srcRate == dstRate {
		// Identity: never fails, even when the requested quality is
		// unavailable, because no conversion happens.
		return samples, nil
	}
	if quality != QualityCubic && quality != QualityLinear {
		return nil, ErrConverterUnavailable
	}
	if len(samples) == 0 {
		return []float64{}, nil
	}

	ratio := float64(srcRate) / float64(dstRate)

	src := samples
	if ratio > 1 {
		// Downsampling: one-pole low-pass to tame aliasing. Cutoff sits
		// near the destination Nyquist; a proper FIR would be sharper.
		const alpha = 0.5
		filtered := make([]float64, len(samples))
		state := samples[0]
		for i, x := range samples {
			state = alpha*x + (1-alpha)*state
			filtered[i] = state
		}
		src = filtered
	}

	last := len(src) - 1
	at := func(i int) float64 {
		if i < 0 {
			i = 0
		} else if i > last {
			i = last
		}
		return src[i]
	}

	outLen := int(math.Round(float64(len(samples)) * float64(dstRate) / float64(srcRate)))
	out := make([]float64, outLen)

	for i := range out {
		pos := float64(i) * ratio
		idx := int(pos)
		frac := pos - float64(idx)

		if quality == QualityLinear {
			out[i] = at(idx)*(1-frac) + at(idx+1)*frac
			continue
		}
		out[i] = utils.CubicInterpolate(at(idx-1), at(idx), at(idx+1), at(idx+2), frac)
	}

	return out, nil
}
