package mix

import "errors"

// ErrNoInput indicates that no stem could be resolved from either the
// cache or the input directory. Nothing is written when this happens.
var ErrNoInput = errors.New("no stem files found in input directory")
