package model

import "errors"

// ErrLlamaUnavailable is returned when the binary was built without the
// "llama" tag.
var ErrLlamaUnavailable = errors.New("llama support not built (missing 'llama' build tag)")
