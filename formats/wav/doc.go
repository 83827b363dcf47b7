// SPDX-License-Identifier: EPL-2.0

// Package wav provides WAV audio file decoding and encoding.
//
// Decoding supports 16-bit and 24-bit little-endian signed PCM in mono or
// stereo at any sample rate; samples are normalized to float64 values in
// [-1.0, 1.0] by dividing by the full-scale magnitude of the source bit
// depth. Other bit depths fail with ErrUnsupportedBitDepth.
//
//	decoder := wav.Decoder{}
//	file, _ := os.Open("vocals.wav")
//	source, err := decoder.Decode(file)
//
// Encoding writes mono PCM from already-quantized integer samples:
//
//	err := wav.Encode(file, 48000, 24, samples)
//
// Info reads only the header, which is how exporters verify that a written
// file actually carries the requested format:
//
//	format, err := wav.Info(file)
//
// The package uses github.com/go-audio/wav for chunk handling, so files
// with non-canonical chunk layouts decode correctly.
package wav
