package logger

import (
	"io"
	"os"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/rs/zerolog/pkgerrors"
)

var (
	// Log is the global logger instance
	Log zerolog.Logger
)

func init() {
	zerolog.ErrorStackMarshaler = pkgerrors.MarshalStack
	zerolog.TimeFieldFormat = time.RFC3339Nano

	Log = build(consoleWriter(os.Stdout), zerolog.InfoLevel)
}

// Setup picks the output format for the server mode and applies the level.
// Debug mode logs to a colored console; anything else logs JSON lines.
func Setup(mode, levelStr string) {
	var out io.Writer = os.Stdout
	if mode == "debug" {
		out = consoleWriter(os.Stdout)
	}
	Log = build(out, zerolog.InfoLevel)
	SetLevel(levelStr)
}

// SetLevel sets the log level
func SetLevel(levelStr string) {
	level, err := zerolog.ParseLevel(levelStr)
	if err != nil || levelStr == "" {
		Log.Warn().Str("level", levelStr).Msg("invalid log level, defaulting to info")
		level = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(level)
	Log = Log.Level(level)
	log.Logger = Log
}

func consoleWriter(out io.Writer) zerolog.ConsoleWriter {
	return zerolog.ConsoleWriter{
		Out:        out,
		TimeFormat: "2006-01-02 15:04:05",
	}
}

func build(out io.Writer, level zerolog.Level) zerolog.Logger {
	l := zerolog.New(out).
		Level(level).
		With().
		Timestamp().
		Caller().
		Logger()
	log.Logger = l
	return l
}
