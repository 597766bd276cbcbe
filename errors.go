package mockupkit

import "errors"

// ErrInvalidDimensions reports a non-positive source width/height or
// target size. No partial result is ever produced alongside it.
var ErrInvalidDimensions = errors.New("image dimensions must be positive")
