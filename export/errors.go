package export

import "errors"

var (
	// ErrSampleRateMismatch indicates the caller supplied a buffer at a
	// rate other than TargetRate; resampling must happen upstream.
	ErrSampleRateMismatch = errors.New("sample rate does not match export target")

	// ErrVerificationFailed indicates the post-write readback did not
	// match the target format. This points at a broken codec or
	// environment and is never retried.
	ErrVerificationFailed = errors.New("export verification failed")
)
