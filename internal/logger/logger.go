package logger

import (
	"strings"

	"github.com/rs/zerolog"
	"github.com/wb-go/wbf/zlog"
)

// Init sets up the shared logger and applies level. Unknown levels keep
// info and are reported once the logger is ready.
func Init(level string) *zlog.Zerolog {
	zlog.Init()

	lvl, err := zerolog.ParseLevel(strings.ToLower(strings.TrimSpace(level)))
	if err != nil || level == "" {
		zerolog.SetGlobalLevel(zerolog.InfoLevel)
		if level != "" {
			zlog.Logger.Warn().Str("level", level).Msg("Unknown log level, using info")
		}
		return &zlog.Logger
	}

	zerolog.SetGlobalLevel(lvl)
	return &zlog.Logger
}
