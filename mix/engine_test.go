// SPDX-License-Identifier: EPL-2.0

package mix_test

import (
	"bytes"
	"errors"
	"io"
	"math"
	"os"
	"path/filepath"
	"reflect"
	"testing"
	"time"

	"github.com/ik5/mixdown"
	"github.com/ik5/mixdown/dsp"
	"github.com/ik5/mixdown/export"
	"github.com/ik5/mixdown/formats/wav"
	"github.com/ik5/mixdown/mix"
	"github.com/ik5/mixdown/utils"
)

// writeStem writes a mono 16-bit sine stem at the given rate.
func writeStem(t *testing.T, dir, name string, freq float64, seconds float64, rate int) {
	t.Helper()

	n := int(float64(rate) * seconds)
	samples := make([]int, n)
	for i := range samples {
		v := 0.3 * math.Sin(2*math.Pi*freq*float64(i)/float64(rate))
		samples[i] = int(utils.FloatToInt16(v))
	}

	f, err := os.Create(filepath.Join(dir, name+".wav"))
	if err != nil {
		t.Fatalf("creating stem %s: %v", name, err)
	}
	defer f.Close()

	if err := wav.Encode(f, rate, 16, samples); err != nil {
		t.Fatalf("encoding stem %s: %v", name, err)
	}
}

func writeFourStems(t *testing.T, dir string) {
	t.Helper()
	writeStem(t, dir, "vocals", 440, 5, 44100)
	writeStem(t, dir, "drums", 220, 5, 44100)
	writeStem(t, dir, "bass", 110, 5, 44100)
	writeStem(t, dir, "other", 330, 5, 44100)
}

func defaultOptions() mix.Options {
	return mix.Options{Registry: mixdown.DefaultRegistry()}
}

func decodeMix(t *testing.T, path string) []float64 {
	t.Helper()

	f, err := os.Open(path)
	if err != nil {
		t.Fatalf("opening mix: %v", err)
	}
	defer f.Close()

	src, err := wav.Decoder{}.Decode(f)
	if err != nil {
		t.Fatalf("decoding mix: %v", err)
	}
	defer src.Close()

	var samples []float64
	buf := make([]float64, 8192)
	for {
		n, err := src.ReadSamples(buf)
		if n > 0 {
			samples = append(samples, buf[:n]...)
		}
		if err == io.EOF {
			break
		}
		if err != nil {
			t.Fatalf("reading mix samples: %v", err)
		}
	}

	return samples
}

func TestProcess_FourSineScenario(t *testing.T) {
	t.Parallel()

	inputDir := t.TempDir()
	outputDir := t.TempDir()
	writeFourStems(t, inputDir)

	report, err := mixdown.Process(inputDir, outputDir, defaultOptions())
	if err != nil {
		t.Fatalf("Process() error = %v", err)
	}

	// All four stems reported, none cached on the first run.
	for _, name := range []string{"vocals", "drums", "bass", "other"} {
		tr, ok := report.Tracks[name]
		if !ok {
			t.Fatalf("report missing track %q", name)
		}
		if tr.Cached {
			t.Errorf("track %q reported cached=true on a cold run", name)
		}
	}

	// Every stem was converted from 44.1k to 48k.
	if got := len(report.SampleRateConversions); got != 4 {
		t.Errorf("report lists %d sample rate conversions, want 4", got)
	}

	// Export format.
	mixPath := filepath.Join(outputDir, mix.MixFileName)
	f, err := os.Open(mixPath)
	if err != nil {
		t.Fatalf("opening mix.wav: %v", err)
	}
	format, err := wav.Info(f)
	f.Close()
	if err != nil {
		t.Fatalf("Info() error = %v", err)
	}
	if format.SampleRate != 48000 || format.BitDepth != 24 {
		t.Errorf("mix.wav format = %d Hz/%d-bit, want 48000 Hz/24-bit", format.SampleRate, format.BitDepth)
	}

	// One-second leading silence block, then content at about -14 LUFS.
	samples := decodeMix(t, mixPath)
	headGap := export.HeadGapSeconds * export.TargetRate
	for i := 0; i < headGap; i++ {
		if samples[i] != 0 {
			t.Fatalf("samples[%d] = %v inside head gap, want silence", i, samples[i])
		}
	}

	meter := dsp.NewRMSMeter(4)
	loudness := meter.Integrated(samples[headGap:])
	if math.Abs(loudness-(-14.0)) > 1.0 {
		t.Errorf("mix loudness = %v dB, want -14 (±1)", loudness)
	}
	if math.Abs(float64(report.MixLUFS)-loudness) > 0.1 {
		t.Errorf("report.MixLUFS = %v, measured %v", float64(report.MixLUFS), loudness)
	}

	// Sidecar and report artifacts exist.
	sidecar, err := os.ReadFile(filepath.Join(outputDir, mix.LUFSFileName))
	if err != nil {
		t.Fatalf("reading sidecar: %v", err)
	}
	if len(sidecar) == 0 {
		t.Error("loudness sidecar is empty")
	}
	if _, err := os.Stat(filepath.Join(outputDir, mix.ReportFileName)); err != nil {
		t.Errorf("report.json missing: %v", err)
	}
}

func TestProcess_Idempotent(t *testing.T) {
	t.Parallel()

	inputDir := t.TempDir()
	outputDir := t.TempDir()
	writeFourStems(t, inputDir)

	first, err := mixdown.Process(inputDir, outputDir, defaultOptions())
	if err != nil {
		t.Fatalf("first Process() error = %v", err)
	}

	mixPath := filepath.Join(outputDir, mix.MixFileName)
	firstBytes, err := os.ReadFile(mixPath)
	if err != nil {
		t.Fatal(err)
	}
	firstStat, err := os.Stat(mixPath)
	if err != nil {
		t.Fatal(err)
	}

	cacheStats := snapshotMtimes(t, filepath.Join(outputDir, mix.CacheDirName))

	second, err := mixdown.Process(inputDir, outputDir, defaultOptions())
	if err != nil {
		t.Fatalf("second Process() error = %v", err)
	}

	secondBytes, err := os.ReadFile(mixPath)
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(firstBytes, secondBytes) {
		t.Error("mix.wav changed between runs on a complete output directory")
	}

	secondStat, err := os.Stat(mixPath)
	if err != nil {
		t.Fatal(err)
	}
	if !firstStat.ModTime().Equal(secondStat.ModTime()) {
		t.Error("mix.wav was rewritten; second run must be a pure read")
	}

	for path, mtime := range snapshotMtimes(t, filepath.Join(outputDir, mix.CacheDirName)) {
		if !cacheStats[path].Equal(mtime) {
			t.Errorf("cache entry %s was rewritten on an idempotent run", path)
		}
	}

	if !reflect.DeepEqual(first, second) {
		t.Errorf("reports differ between runs:\nfirst:  %+v\nsecond: %+v", first, second)
	}
}

func snapshotMtimes(t *testing.T, dir string) map[string]time.Time {
	t.Helper()

	out := make(map[string]time.Time)
	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatalf("reading %s: %v", dir, err)
	}
	for _, entry := range entries {
		info, err := entry.Info()
		if err != nil {
			t.Fatal(err)
		}
		out[entry.Name()] = info.ModTime()
	}
	return out
}

func TestProcess_ResumeFromCache(t *testing.T) {
	t.Parallel()

	inputDir := t.TempDir()
	outputDir := t.TempDir()
	writeFourStems(t, inputDir)

	first, err := mixdown.Process(inputDir, outputDir, defaultOptions())
	if err != nil {
		t.Fatalf("first Process() error = %v", err)
	}

	// Delete only the final artifacts; the per-stem cache survives.
	for _, name := range []string{mix.MixFileName, mix.ReportFileName, mix.LUFSFileName} {
		if err := os.Remove(filepath.Join(outputDir, name)); err != nil {
			t.Fatal(err)
		}
	}

	second, err := mixdown.Process(inputDir, outputDir, defaultOptions())
	if err != nil {
		t.Fatalf("resumed Process() error = %v", err)
	}

	for name, tr := range second.Tracks {
		if !tr.Cached {
			t.Errorf("track %q reported cached=false on resume, want true", name)
		}
	}

	if diff := math.Abs(float64(second.MixLUFS) - float64(first.MixLUFS)); diff > 1e-3 {
		t.Errorf("resumed mix loudness differs by %v dB, want <= 1e-3", diff)
	}
}

func TestProcess_PartialResumeKeepsMix(t *testing.T) {
	t.Parallel()

	inputDir := t.TempDir()
	outputDir := t.TempDir()
	writeFourStems(t, inputDir)

	if _, err := mixdown.Process(inputDir, outputDir, defaultOptions()); err != nil {
		t.Fatalf("first Process() error = %v", err)
	}

	// Simulate a crash between the mix write and the report write.
	if err := os.Remove(filepath.Join(outputDir, mix.ReportFileName)); err != nil {
		t.Fatal(err)
	}
	if err := os.Remove(filepath.Join(outputDir, mix.LUFSFileName)); err != nil {
		t.Fatal(err)
	}

	mixPath := filepath.Join(outputDir, mix.MixFileName)
	before, err := os.Stat(mixPath)
	if err != nil {
		t.Fatal(err)
	}

	report, err := mixdown.Process(inputDir, outputDir, defaultOptions())
	if err != nil {
		t.Fatalf("resumed Process() error = %v", err)
	}

	after, err := os.Stat(mixPath)
	if err != nil {
		t.Fatal(err)
	}
	if !before.ModTime().Equal(after.ModTime()) {
		t.Error("existing mix.wav was rewritten; resume must only produce the missing artifacts")
	}

	for name, tr := range report.Tracks {
		if !tr.Cached {
			t.Errorf("track %q reported cached=false on resume, want true", name)
		}
	}

	for _, name := range []string{mix.ReportFileName, mix.LUFSFileName} {
		if _, err := os.Stat(filepath.Join(outputDir, name)); err != nil {
			t.Errorf("missing artifact %s was not regenerated: %v", name, err)
		}
	}
}

func TestProcess_MissingStemTolerated(t *testing.T) {
	t.Parallel()

	inputDir := t.TempDir()
	outputDir := t.TempDir()
	writeStem(t, inputDir, "vocals", 440, 2, 44100)
	writeStem(t, inputDir, "drums", 220, 2, 44100)
	writeStem(t, inputDir, "bass", 110, 2, 44100)
	// "other" is deliberately absent.

	opts := defaultOptions()
	opts.Tracks = []string{"vocals", "drums", "bass", "other"}

	report, err := mixdown.Process(inputDir, outputDir, opts)
	if err != nil {
		t.Fatalf("Process() error = %v", err)
	}

	if len(report.Tracks) != 3 {
		t.Errorf("report has %d tracks, want 3", len(report.Tracks))
	}
	if _, ok := report.Tracks["other"]; ok {
		t.Error("report contains the absent stem \"other\"")
	}
}

func TestProcess_EmptyInput(t *testing.T) {
	t.Parallel()

	inputDir := t.TempDir()
	outputDir := t.TempDir()

	_, err := mixdown.Process(inputDir, outputDir, defaultOptions())
	if !errors.Is(err, mix.ErrNoInput) {
		t.Fatalf("Process() error = %v, want ErrNoInput", err)
	}

	entries, err := os.ReadDir(outputDir)
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 0 {
		names := make([]string, 0, len(entries))
		for _, e := range entries {
			names = append(names, e.Name())
		}
		t.Errorf("output directory holds %v after NoInput failure, want nothing", names)
	}
}

func TestProcess_CorruptCacheRecomputed(t *testing.T) {
	t.Parallel()

	inputDir := t.TempDir()
	outputDir := t.TempDir()
	writeFourStems(t, inputDir)

	if _, err := mixdown.Process(inputDir, outputDir, defaultOptions()); err != nil {
		t.Fatalf("first Process() error = %v", err)
	}

	// Corrupt one cache entry and remove the final artifacts.
	corrupt := filepath.Join(outputDir, mix.CacheDirName, "drums.json")
	if err := os.WriteFile(corrupt, []byte("{not json"), 0o644); err != nil {
		t.Fatal(err)
	}
	for _, name := range []string{mix.MixFileName, mix.ReportFileName, mix.LUFSFileName} {
		if err := os.Remove(filepath.Join(outputDir, name)); err != nil {
			t.Fatal(err)
		}
	}

	report, err := mixdown.Process(inputDir, outputDir, defaultOptions())
	if err != nil {
		t.Fatalf("Process() with corrupt cache error = %v", err)
	}

	if report.Tracks["drums"].Cached {
		t.Error("corrupt cache entry reported cached=true, want recompute")
	}
	for _, name := range []string{"vocals", "bass", "other"} {
		if !report.Tracks[name].Cached {
			t.Errorf("track %q reported cached=false, want cache hit", name)
		}
	}
}

func TestProcess_DiscoversStems(t *testing.T) {
	t.Parallel()

	inputDir := t.TempDir()
	outputDir := t.TempDir()
	writeStem(t, inputDir, "guitar", 440, 2, 48000)
	writeStem(t, inputDir, "synth", 220, 2, 48000)

	// A file with no registered decoder must be ignored by discovery.
	if err := os.WriteFile(filepath.Join(inputDir, "notes.txt"), []byte("hi"), 0o644); err != nil {
		t.Fatal(err)
	}

	report, err := mixdown.Process(inputDir, outputDir, defaultOptions())
	if err != nil {
		t.Fatalf("Process() error = %v", err)
	}

	if len(report.Tracks) != 2 {
		t.Errorf("report has %d tracks, want 2", len(report.Tracks))
	}
	for _, name := range []string{"guitar", "synth"} {
		if _, ok := report.Tracks[name]; !ok {
			t.Errorf("report missing discovered stem %q", name)
		}
	}

	// Stems already at 48k require no conversion.
	if len(report.SampleRateConversions) != 0 {
		t.Errorf("report lists %d conversions for 48k stems, want 0", len(report.SampleRateConversions))
	}
}
