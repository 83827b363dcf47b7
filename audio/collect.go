// SPDX-License-Identifier: EPL-2.0

package audio

import (
	"fmt"
	"io"
)

// Collect drains src into a single mono buffer at the source sample rate.
//
// Multi-channel sources are folded to mono through a MonoMixer before
// collection, so the returned buffer always holds one sample per frame.
// bufferSize controls the read chunk (e.g., 4096); larger buffers may be
// more efficient but use more memory.
func Collect(src Source, bufferSize int) ([]float64, int, error) {
	mono := NewMonoMixer(src)
	rate := mono.SampleRate()

	// Pre-allocate roughly two seconds and grow as needed.
	samples := make([]float64, 0, rate*2)
	buf := make([]float64, bufferSize)

	for {
		n, err := mono.ReadSamples(buf)
		if n > 0 {
			samples = append(samples, buf[:n]...)
		}

		if err == io.EOF {
			break
		}

		if err != nil {
			return nil, rate, fmt.Errorf("%w", err)
		}
	}

	return samples, rate, nil
}
