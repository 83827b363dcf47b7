// SPDX-License-Identifier: EPL-2.0

package mix

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/ik5/mixdown/audio"
	"github.com/ik5/mixdown/dsp"
	"github.com/ik5/mixdown/export"
	"github.com/ik5/mixdown/internal/logging"
)

// Output directory layout.
const (
	MixFileName    = "mix.wav"
	ReportFileName = "report.json"
	LUFSFileName   = "mix_lufs.txt"
	CacheDirName   = "cache"
)

// stemExtensions is the probe order when locating a raw stem file.
var stemExtensions = []string{".wav", ".aiff", ".aif", ".mp3", ".ogg"}

// Engine orchestrates the full mixdown pipeline: per-stem
// normalization with caching, truncating summation, mix gain alignment,
// true-peak limiting, and quantized export.
type Engine struct {
	opts  Options
	meter dsp.Meter
	quant *export.Quantizer
	log   *slog.Logger
}

// New builds an Engine. Zero-value Options fields get defaults.
func New(opts Options) *Engine {
	opts = opts.withDefaults()
	return &Engine{
		opts:  opts,
		meter: dsp.NewRMSMeter(opts.Oversample),
		quant: export.NewQuantizer(opts.Determinism, opts.Logger),
		log:   logging.NewComponentLogger(opts.Logger, "engine"),
	}
}

// artifacts holds the three completion markers. Presence of all three is
// the sole authoritative signal that the pipeline is done for an output
// directory.
type artifacts struct {
	mix    string
	report string
	lufs   string
}

func artifactPaths(outputDir string) artifacts {
	return artifacts{
		mix:    filepath.Join(outputDir, MixFileName),
		report: filepath.Join(outputDir, ReportFileName),
		lufs:   filepath.Join(outputDir, LUFSFileName),
	}
}

// Process runs the pipeline for one song. It blocks until the three
// output artifacts exist (or an error occurs) and returns the pipeline
// report. Calling it on an already-complete output directory is a pure
// read of the persisted report; calling it after a partial run resumes
// from the first incomplete stage.
func (e *Engine) Process(inputDir, outputDir string) (*Report, error) {
	paths := artifactPaths(outputDir)

	if rep, ok := loadCompleted(paths); ok {
		e.log.Info("output already complete, returning persisted report",
			logging.String("output", outputDir))
		return rep, nil
	}

	tracks := e.resolveTracks(inputDir)
	cache := newCacheStore(filepath.Join(outputDir, CacheDirName), e.opts.Logger)

	rep := &Report{
		Tracks: make(map[string]TrackReport, len(tracks)),
		Config: ConfigReport{
			TrackLUFS:      e.opts.TrackLUFS,
			MixLUFS:        e.opts.MixLUFS,
			TruePeakMargin: e.opts.TruePeakMargin,
			Tracks:         tracks,
			QualityProfile: e.opts.Profile,
		},
	}

	stems := make(map[string][]float64, len(tracks))
	var names []string

	for _, name := range tracks {
		samples, tr, conv, ok, err := e.normalizeStem(cache, inputDir, name)
		if err != nil {
			return nil, err
		}
		if !ok {
			continue
		}

		stems[name] = samples
		names = append(names, name)
		rep.Tracks[name] = tr
		if conv != nil {
			rep.SampleRateConversions = append(rep.SampleRateConversions, *conv)
		}
	}

	if len(names) == 0 {
		return nil, fmt.Errorf("%w: %s", ErrNoInput, inputDir)
	}

	mixBuf := e.mixdown(stems, names)

	aligned, _, mixGain, _ := dsp.Align(mixBuf, e.opts.MixLUFS, e.meter)

	ceiling := -e.opts.TruePeakMargin
	limited, trimDB, finalLoudness, finalTruePeak := dsp.Limit(aligned, ceiling, e.meter)

	rep.MixGainDB = DB(mixGain)
	rep.LimiterGainDB = DB(trimDB)
	rep.MixLUFS = DB(finalLoudness)
	rep.MixTruePeakDB = DB(finalTruePeak)

	e.log.Info("mixdown staged",
		logging.Int("stems", len(names)),
		logging.Int("frames", len(limited)),
		logging.Float64("mix_gain_db", mixGain),
		logging.Float64("true_peak_db", finalTruePeak))

	if err := e.commit(paths, limited); err != nil {
		return nil, err
	}

	if err := writeSidecar(paths.lufs, finalLoudness); err != nil {
		return nil, err
	}

	if err := writeReport(paths.report, rep); err != nil {
		return nil, err
	}

	e.log.Info("pipeline complete", logging.String("output", outputDir))
	return rep, nil
}

// mixdown sums the stems sample-wise, truncated to the shortest
// contributing stem. Shorter stems are never padded; this policy is
// deliberate, so differing stem lengths silently shorten the mix.
func (e *Engine) mixdown(stems map[string][]float64, names []string) []float64 {
	length := len(stems[names[0]])
	for _, name := range names[1:] {
		if n := len(stems[name]); n < length {
			length = n
		}
	}

	mixBuf := make([]float64, length)
	for _, name := range names {
		data := stems[name]
		for i := range mixBuf {
			mixBuf[i] += data[i]
		}
	}

	return mixBuf
}

// normalizeStem moves one stem from MISSING to NORMALIZED: a cache hit
// is returned as-is with cached=true; otherwise the raw file is decoded,
// resampled to the processing rate, aligned to the track target, and
// persisted. A stem with neither a cache entry nor a raw file is skipped
// (ok=false), as is one whose file fails to decode — per-stem failures
// do not abort the run. Resampling and cache-write failures are fatal.
func (e *Engine) normalizeStem(cache *cacheStore, inputDir, name string) (samples []float64, tr TrackReport, conv *Conversion, ok bool, err error) {
	if entry := cache.load(name); entry != nil {
		tr = entry.Report
		tr.Cached = true
		e.log.Info("stem cache hit", logging.String("stem", name))
		return entry.Data, tr, nil, true, nil
	}

	path, found := e.findStem(inputDir, name)
	if !found {
		e.log.Info("stem absent, skipping", logging.String("stem", name))
		return nil, TrackReport{}, nil, false, nil
	}

	samples, rate, err := e.loadStem(path)
	if err != nil {
		e.log.Warn("stem decode failed, skipping",
			logging.String("stem", name), logging.Error(err))
		return nil, TrackReport{}, nil, false, nil
	}

	if rate != export.TargetRate {
		converted, cerr := audio.Convert(samples, rate, export.TargetRate, e.opts.Quality)
		if cerr != nil {
			return nil, TrackReport{}, nil, false, fmt.Errorf("resampling %s: %w", name, cerr)
		}

		e.log.Info("stem resampled",
			logging.String("stem", name),
			logging.Int("from", rate),
			logging.Int("to", export.TargetRate),
			logging.String("quality", e.opts.Quality.String()))

		conv = &Conversion{Stage: name, From: rate, To: export.TargetRate}
		samples = converted
	}

	aligned, measured, gain, silent := dsp.Align(samples, e.opts.TrackLUFS, e.meter)
	if silent {
		e.log.Warn("stem is silent, loudness alignment skipped",
			logging.String("stem", name))
	}

	tr = TrackReport{InputDB: DB(measured), GainDB: DB(gain), Cached: false, Silent: silent}

	entry := &cacheEntry{SampleRate: export.TargetRate, Data: aligned, Report: tr}
	if err := cache.store(name, entry); err != nil {
		return nil, TrackReport{}, nil, false, err
	}

	e.log.Info("stem normalized",
		logging.String("stem", name),
		logging.Float64("input_db", measured),
		logging.Float64("gain_db", gain))

	return aligned, tr, conv, true, nil
}

// commit makes the mix audio artifact exist at its final path. A mix
// left by an interrupted previous run is kept if its format verifies;
// the buffer recomputed from cached stems is deterministic, so the
// report written next still describes the existing file.
func (e *Engine) commit(paths artifacts, limited []float64) error {
	if _, err := os.Stat(paths.mix); err == nil {
		if verr := export.Verify(paths.mix); verr == nil {
			e.log.Info("mix already present, resuming from mixdown",
				logging.String("path", paths.mix))
			return nil
		}

		e.log.Warn("existing mix failed verification, re-exporting",
			logging.String("path", paths.mix))
	}

	return e.quant.Export(paths.mix, limited, export.TargetRate)
}

// resolveTracks returns the stem names for this run: caller-supplied,
// else discovered from the input directory, else DefaultTracks (which
// lets a cache-only resume proceed with an emptied input directory).
func (e *Engine) resolveTracks(inputDir string) []string {
	if len(e.opts.Tracks) > 0 {
		return e.opts.Tracks
	}

	if discovered := e.discoverStems(inputDir); len(discovered) > 0 {
		return discovered
	}

	return DefaultTracks
}

// discoverStems lists the stem names of decodable files in inputDir,
// sorted and deduplicated.
func (e *Engine) discoverStems(inputDir string) []string {
	if e.opts.Registry == nil {
		return nil
	}

	entries, err := os.ReadDir(inputDir)
	if err != nil {
		return nil
	}

	seen := make(map[string]struct{})
	var names []string
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}

		ext := strings.ToLower(filepath.Ext(entry.Name()))
		if _, ok := e.opts.Registry.Get(ext); !ok {
			continue
		}

		name := strings.TrimSuffix(entry.Name(), filepath.Ext(entry.Name()))
		if _, dup := seen[name]; dup {
			continue
		}
		seen[name] = struct{}{}
		names = append(names, name)
	}

	sort.Strings(names)
	return names
}

// findStem locates the raw input file for a stem name, probing the
// registered extensions in a fixed order.
func (e *Engine) findStem(inputDir, name string) (string, bool) {
	if e.opts.Registry == nil {
		return "", false
	}

	for _, ext := range stemExtensions {
		if _, ok := e.opts.Registry.Get(ext); !ok {
			continue
		}

		path := filepath.Join(inputDir, name+ext)
		if _, err := os.Stat(path); err == nil {
			return path, true
		}
	}

	return "", false
}

// loadStem decodes a stem file into a mono buffer at its native rate.
func (e *Engine) loadStem(path string) ([]float64, int, error) {
	ext := strings.ToLower(filepath.Ext(path))
	dec, ok := e.opts.Registry.Get(ext)
	if !ok {
		return nil, 0, fmt.Errorf("no decoder registered for %q", ext)
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, 0, fmt.Errorf("opening stem: %w", err)
	}
	defer f.Close()

	src, err := dec.Decode(f)
	if err != nil {
		return nil, 0, fmt.Errorf("decoding stem: %w", err)
	}
	defer src.Close()

	samples, rate, err := audio.Collect(src, src.BufSize())
	if err != nil {
		return nil, 0, fmt.Errorf("reading stem samples: %w", err)
	}

	return samples, rate, nil
}

// loadCompleted short-circuits a finished run: when all three artifacts
// exist, the persisted report is returned verbatim and nothing is
// recomputed or rewritten. Partial presence (e.g. mix without report)
// reports incomplete so the caller resumes from the mixdown stage.
func loadCompleted(paths artifacts) (*Report, bool) {
	for _, p := range []string{paths.mix, paths.report, paths.lufs} {
		if _, err := os.Stat(p); err != nil {
			return nil, false
		}
	}

	data, err := os.ReadFile(paths.report)
	if err != nil {
		return nil, false
	}

	var rep Report
	if err := json.Unmarshal(data, &rep); err != nil {
		return nil, false
	}

	return &rep, true
}

// writeSidecar persists the final loudness with two decimal places.
func writeSidecar(path string, loudnessDB float64) error {
	if err := os.WriteFile(path, []byte(fmt.Sprintf("%.2f", loudnessDB)), 0o644); err != nil {
		return fmt.Errorf("writing loudness sidecar: %w", err)
	}
	return nil
}

// writeReport persists the pipeline report pretty-printed.
func writeReport(path string, rep *Report) error {
	data, err := json.MarshalIndent(rep, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding report: %w", err)
	}

	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing report: %w", err)
	}

	return nil
}
