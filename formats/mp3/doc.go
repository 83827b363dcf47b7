// SPDX-License-Identifier: EPL-2.0

// Package mp3 provides MP3 audio file decoding.
//
// This package uses github.com/hajimehoshi/go-mp3 to decode MP3 files.
//
// # Decoding MP3 Files
//
// Use the Decoder to read MP3 files:
//
//	decoder := mp3.Decoder{}
//	file, _ := os.Open("audio.mp3")
//	source, err := decoder.Decode(file)
//	if err != nil {
//	    // Handle error
//	}
//
//	// Read samples as float64 in range [-1.0, 1.0]
//	buf := make([]float64, 4096)
//	n, err := source.ReadSamples(buf)
//
// The decoder returns an audio.Source with 2 channels (go-mp3 always
// outputs interleaved stereo) at the sample rate of the MP3 file. Use
// audio.NewMonoMixer or audio.Collect to fold the output down to mono.
package mp3
