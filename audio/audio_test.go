// SPDX-License-Identifier: EPL-2.0

package audio

import (
	"io"
	"sort"
	"testing"
)

type stubDecoder struct{ name string }

func (stubDecoder) Decode(r io.ReadSeeker) (Source, error) { return nil, nil }

func TestRegistry_RegisterAndGet(t *testing.T) {
	t.Parallel()

	reg := NewRegistry()
	reg.Register(".wav", stubDecoder{name: "wav"})
	reg.Register(".mp3", stubDecoder{name: "mp3"})

	dec, ok := reg.Get(".wav")
	if !ok {
		t.Fatal("Get(\".wav\") not found after Register")
	}
	if d, _ := dec.(stubDecoder); d.name != "wav" {
		t.Errorf("Get(\".wav\") returned decoder %q, want %q", d.name, "wav")
	}

	if _, ok := reg.Get(".ogg"); ok {
		t.Error("Get(\".ogg\") = found, want not found")
	}
}

func TestRegistry_Overwrite(t *testing.T) {
	t.Parallel()

	reg := NewRegistry()
	reg.Register(".wav", stubDecoder{name: "first"})
	reg.Register(".wav", stubDecoder{name: "second"})

	dec, _ := reg.Get(".wav")
	if d, _ := dec.(stubDecoder); d.name != "second" {
		t.Errorf("Get(\".wav\") returned decoder %q, want the last registered", d.name)
	}
}

func TestRegistry_Extensions(t *testing.T) {
	t.Parallel()

	reg := NewRegistry()
	reg.Register(".wav", stubDecoder{})
	reg.Register(".ogg", stubDecoder{})

	exts := reg.Extensions()
	sort.Strings(exts)

	want := []string{".ogg", ".wav"}
	if len(exts) != len(want) {
		t.Fatalf("Extensions() = %v, want %v", exts, want)
	}
	for i := range want {
		if exts[i] != want[i] {
			t.Errorf("Extensions()[%d] = %q, want %q", i, exts[i], want[i])
		}
	}
}
