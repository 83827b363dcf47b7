// SPDX-License-Identifier: EPL-2.0

package dsp

import "math"

// ApplyGain returns a copy of samples scaled by the linear factor
// corresponding to gainDB. The input is never modified.
func ApplyGain(samples []float64, gainDB float64) []float64 {
	factor := DBToLinear(gainDB)
	out := make([]float64, len(samples))
	for i, x := range samples {
		out[i] = x * factor
	}
	return out
}

// Align scales samples so their measured loudness lands on targetDB.
//
// The returned gain is targetDB minus the measured loudness. Silence is a
// degenerate case: the measured loudness is -Inf and the implied gain
// +Inf, so the input is returned unchanged with a zero gain and
// silent=true so callers can flag it instead of multiplying by infinity.
func Align(samples []float64, targetDB float64, m Meter) (out []float64, measuredDB, gainDB float64, silent bool) {
	measuredDB = m.Integrated(samples)
	if math.IsInf(measuredDB, -1) {
		return samples, measuredDB, 0, true
	}

	gainDB = targetDB - measuredDB
	return ApplyGain(samples, gainDB), measuredDB, gainDB, false
}
