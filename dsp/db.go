// SPDX-License-Identifier: EPL-2.0

package dsp

import "math"

// DBToLinear converts decibels to a linear amplitude factor.
func DBToLinear(db float64) float64 {
	return math.Pow(10.0, db/20.0)
}

// LinearToDB converts a linear amplitude to decibels. Zero or negative
// amplitudes map to -Inf.
func LinearToDB(amplitude float64) float64 {
	if amplitude <= 0 {
		return math.Inf(-1)
	}
	return 20.0 * math.Log10(amplitude)
}
