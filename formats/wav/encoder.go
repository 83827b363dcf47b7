// SPDX-License-Identifier: EPL-2.0

package wav

import (
	"fmt"
	"io"

	goaudio "github.com/go-audio/audio"
	gowav "github.com/go-audio/wav"
)

// Encode writes mono PCM samples as a canonical WAV file. Each value in
// samples must already be quantized to the range of bitDepth (16 or 24);
// no scaling or dithering happens here.
func Encode(w io.WriteSeeker, sampleRate, bitDepth int, samples []int) error {
	if bitDepth != 16 && bitDepth != 24 {
		return fmt.Errorf("%w: %d", ErrUnsupportedBitDepth, bitDepth)
	}

	enc := gowav.NewEncoder(w, sampleRate, bitDepth, 1, 1)
	buf := &goaudio.IntBuffer{
		Format: &goaudio.Format{
			NumChannels: 1,
			SampleRate:  sampleRate,
		},
		Data:           samples,
		SourceBitDepth: bitDepth,
	}

	if err := enc.Write(buf); err != nil {
		return fmt.Errorf("writing PCM data: %w", err)
	}

	if err := enc.Close(); err != nil {
		return fmt.Errorf("finalizing WAV headers: %w", err)
	}

	return nil
}
