// SPDX-License-Identifier: EPL-2.0

package wav

import (
	"io"

	gowav "github.com/go-audio/wav"
)

// Format describes the persisted layout of a WAV file.
type Format struct {
	SampleRate int
	BitDepth   int
	Channels   int
}

// Info reads the header of a WAV stream without decoding its samples.
// Exporters use it to verify that written files carry the intended
// sample rate and bit depth.
func Info(r io.ReadSeeker) (Format, error) {
	dec := gowav.NewDecoder(r)
	if !dec.IsValidFile() {
		return Format{}, ErrNotWavFile
	}

	dec.ReadInfo()

	return Format{
		SampleRate: int(dec.SampleRate),
		BitDepth:   int(dec.BitDepth),
		Channels:   int(dec.NumChans),
	}, nil
}
