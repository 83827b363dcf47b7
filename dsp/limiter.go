// SPDX-License-Identifier: EPL-2.0

package dsp

import "math"

// LimiterTolerance is the numerical slack allowed above the ceiling
// after limiting, in dB.
const LimiterTolerance = 0.1

// Limit enforces a true-peak ceiling on a mono buffer.
//
// Samples whose magnitude exceeds the linear threshold of ceilingDB are
// soft-saturated with tanh(x/threshold)*threshold, which preserves sign
// and compresses overshoot smoothly while leaving samples below the
// threshold untouched. If the re-measured true peak still sits above the
// ceiling, one corrective trim gain is applied to the whole buffer, so
// the post-limit true peak never exceeds ceilingDB by more than
// LimiterTolerance.
//
// trimDB reports the corrective gain (0 when saturation alone held the
// ceiling). loudnessDB and truePeakDB are measured on the returned
// buffer.
func Limit(samples []float64, ceilingDB float64, m Meter) (out []float64, trimDB, loudnessDB, truePeakDB float64) {
	threshold := DBToLinear(ceilingDB)

	out = make([]float64, len(samples))
	for i, x := range samples {
		if math.Abs(x) > threshold {
			out[i] = math.Tanh(x/threshold) * threshold
			continue
		}
		out[i] = x
	}

	truePeakDB = m.TruePeak(out)
	if truePeakDB > ceilingDB+LimiterTolerance {
		trimDB = ceilingDB - truePeakDB
		out = ApplyGain(out, trimDB)
		truePeakDB = m.TruePeak(out)
	}

	loudnessDB = m.Integrated(out)
	return out, trimDB, loudnessDB, truePeakDB
}
