package placement

import (
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// zlog overrides the process-wide logger when set.
var zlog *zerolog.Logger

// SetLogger installs the logger used for placement warnings.
func SetLogger(l zerolog.Logger) { zlog = &l }

func logger() *zerolog.Logger {
	if zlog != nil {
		return zlog
	}
	return &log.Logger
}
