// SPDX-License-Identifier: EPL-2.0

package audio

import "errors"

var (
	ErrInvalidRate          = errors.New("sample rates must be positive")
	ErrConverterUnavailable = errors.New("requested conversion quality is unavailable")
)
