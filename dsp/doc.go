// SPDX-License-Identifier: EPL-2.0

// Package dsp holds the measurement and gain-staging primitives of the
// mixdown pipeline: an RMS loudness meter with oversampled true-peak
// detection, loudness alignment, and a soft-saturating true-peak limiter.
//
// Everything operates on mono float64 buffers in [-1, 1] and is pure:
// no I/O, no randomness, no global state. Given identical input the
// functions always produce identical output, which the cache and resume
// machinery in the mix package relies on.
package dsp
