// SPDX-License-Identifier: EPL-2.0

package audio

import "github.com/ik5/mixdown/internal/audiotest"

// Thin aliases over the shared mocks so tests read naturally.

func newSilentSource(sampleRate, channels, totalSamples int) Source {
	return audiotest.NewSilentSource(sampleRate, channels, totalSamples)
}

func newSineSource(sampleRate, channels, totalSamples int, frequency float64) Source {
	return audiotest.NewSineSource(sampleRate, channels, totalSamples, frequency)
}

func newConstantSource(sampleRate, channels, totalSamples int, value float64) Source {
	return audiotest.NewConstantSource(sampleRate, channels, totalSamples, value)
}
