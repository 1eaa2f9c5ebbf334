package logger

import (
	"io"
	"os"
	"path/filepath"

	"github.com/rs/zerolog"
)

var Log zerolog.Logger = zerolog.Nop()

// LogPath returns the file the logger writes to.
func LogPath() string {
	logPath := filepath.Join(os.TempDir(), "songdash.log")
	configDir, err := os.UserConfigDir()
	if err == nil {
		dir := filepath.Join(configDir, "songdash")
		if err := os.MkdirAll(dir, 0755); err == nil {
			logPath = filepath.Join(dir, "songdash.log")
		}
	}
	return logPath
}

// Init points Log at the songdash log file. The terminal belongs to the UI,
// so nothing is written to stderr. If the file cannot be opened the logger
// stays silent.
func Init(level string) (io.Closer, error) {
	file, err := os.OpenFile(LogPath(), os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0666)
	if err != nil {
		return nil, err
	}
	SetOutput(file, level)
	Log.Info().Str("path", file.Name()).Msg("Logger initialized")
	return file, nil
}

func SetOutput(w io.Writer, level string) {
	lvl, err := zerolog.ParseLevel(level)
	if err != nil || level == "" {
		lvl = zerolog.InfoLevel
	}
	Log = zerolog.New(w).Level(lvl).With().Timestamp().Str("app", "songdash").Logger()
}
