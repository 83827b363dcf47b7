// SPDX-License-Identifier: EPL-2.0

// Package health runs preflight checks before a mixdown job. Each check
// returns a remedial message explaining the problem and a possible fix,
// or an empty string when it passes. The engine never calls these; the
// caller runs them before invoking the pipeline.
package health

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"syscall"

	"github.com/ik5/mixdown/audio"
)

// MinFreeMB is the default free-disk requirement at the output location.
const MinFreeMB = 50

// statfs reports free bytes for the filesystem containing path.
// Injectable so tests can simulate a full disk.
var statfs = realStatfs

func realStatfs(path string) (uint64, error) {
	var stat syscall.Statfs_t
	if err := syscall.Statfs(path, &stat); err != nil {
		return 0, err
	}
	return stat.Bavail * uint64(stat.Bsize), nil
}

// CheckDisk ensures the filesystem containing path has at least
// minFreeMB megabytes free. Falls back to the parent when path does not
// exist yet.
func CheckDisk(path string, minFreeMB uint64) string {
	probe := path
	if _, err := os.Stat(probe); err != nil {
		probe = filepath.Dir(path)
	}

	free, err := statfs(probe)
	if err != nil {
		return fmt.Sprintf("unable to determine free space at %s: %v", probe, err)
	}

	freeMB := free / (1024 * 1024)
	if freeMB < minFreeMB {
		return fmt.Sprintf(
			"insufficient disk space at %s: %dMB available, %dMB required; free up space or choose another location",
			probe, freeMB, minFreeMB)
	}

	return ""
}

// CheckWritable verifies the output directory can be created and written
// by writing and removing a probe file.
func CheckWritable(outputDir string) string {
	if err := os.MkdirAll(outputDir, 0o755); err != nil {
		return fmt.Sprintf("cannot create output directory %s: %v", outputDir, err)
	}

	probe := filepath.Join(outputDir, ".health_probe")
	if err := os.WriteFile(probe, []byte("ok"), 0o644); err != nil {
		return fmt.Sprintf("output directory %s is not writable: %v; fix permissions or choose another location", outputDir, err)
	}
	os.Remove(probe)

	return ""
}

// CheckStems confirms every recognized stem file in inputDir decodes,
// listing the ones that do not. A missing or empty input directory is
// not an error here; the engine reports that as a NoInput failure.
func CheckStems(inputDir string, reg *audio.Registry) string {
	if reg == nil {
		return ""
	}

	entries, err := os.ReadDir(inputDir)
	if err != nil {
		return ""
	}

	var problems []string
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}

		ext := strings.ToLower(filepath.Ext(entry.Name()))
		dec, ok := reg.Get(ext)
		if !ok {
			continue
		}

		path := filepath.Join(inputDir, entry.Name())
		f, err := os.Open(path)
		if err != nil {
			problems = append(problems, fmt.Sprintf("%s is unreadable: %v", entry.Name(), err))
			continue
		}

		src, err := dec.Decode(f)
		if err != nil {
			problems = append(problems, fmt.Sprintf("%s does not decode: %v; re-export it as 16- or 24-bit PCM", entry.Name(), err))
			f.Close()
			continue
		}

		src.Close()
		f.Close()
	}

	sort.Strings(problems)
	return strings.Join(problems, "; ")
}

// Run aggregates the individual checks and returns every failure
// message. An empty slice means the environment looks usable.
func Run(inputDir, outputDir string, reg *audio.Registry) []string {
	var errs []string

	if msg := CheckDisk(outputDir, MinFreeMB); msg != "" {
		errs = append(errs, msg)
	}
	if msg := CheckWritable(outputDir); msg != "" {
		errs = append(errs, msg)
	}
	if msg := CheckStems(inputDir, reg); msg != "" {
		errs = append(errs, msg)
	}

	return errs
}
