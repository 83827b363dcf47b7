package vorbis

import (
	"bytes"
	"io"
	"math"
	"testing"
)

// mockOggReader simulates oggvorbis.Reader for testing
type mockOggReader struct {
	sampleRate int
	channels   int
	samples    []float32
	offset     int
}

func (m *mockOggReader) SampleRate() int { return m.sampleRate }
func (m *mockOggReader) Channels() int   { return m.channels }

func (m *mockOggReader) Read(p []float32) (int, error) {
	if m.offset >= len(m.samples) {
		return 0, io.EOF
	}

	n := copy(p, m.samples[m.offset:])
	m.offset += n
	return n / m.channels, nil
}

func TestDecoder_InvalidInput(t *testing.T) {
	t.Parallel()

	decoder := Decoder{}
	_, err := decoder.Decode(bytes.NewReader([]byte("not an ogg stream")))
	if err == nil {
		t.Error("Decode() error = nil, want error for invalid data")
	}
}

func TestSource_Widening(t *testing.T) {
	t.Parallel()

	src := &source{
		dec: &mockOggReader{
			sampleRate: 48000,
			channels:   2,
			samples:    []float32{0.25, -0.25, 0.5, -0.5},
		},
		sampleRate: 48000,
		channels:   2,
		frameBuf:   make([]float32, 16),
	}

	buf := make([]float64, 4)
	n, err := src.ReadSamples(buf)
	if err != nil && err != io.EOF {
		t.Fatalf("ReadSamples() error = %v", err)
	}
	if n != 4 {
		t.Fatalf("ReadSamples() n = %d, want 4", n)
	}

	want := []float64{0.25, -0.25, 0.5, -0.5}
	for i := range want {
		if math.Abs(buf[i]-want[i]) > 1e-7 {
			t.Errorf("buf[%d] = %v, want %v", i, buf[i], want[i])
		}
	}
}

func TestSource_Metadata(t *testing.T) {
	t.Parallel()

	src := &source{
		dec:        &mockOggReader{sampleRate: 44100, channels: 1},
		sampleRate: 44100,
		channels:   1,
		frameBuf:   make([]float32, 4),
	}

	if src.SampleRate() != 44100 {
		t.Errorf("SampleRate() = %d, want 44100", src.SampleRate())
	}
	if src.Channels() != 1 {
		t.Errorf("Channels() = %d, want 1", src.Channels())
	}
}
