package logging

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/mattn/go-isatty"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"gopkg.in/natefinch/lumberjack.v2"
)

// FileName is the name of the rotating log file inside the log directory.
const FileName = "demandcast.log"

// Options control where and how much the global logger writes.
type Options struct {
	Verbose bool
	// Dir is the log directory. Empty means LOGS_FOLDER, then <exe dir>/logs.
	Dir string
	// Console receives human-readable output. Nil means os.Stderr.
	Console io.Writer
}

// Init installs a console-only global logger so configuration loading can log.
// Setup attaches the rotating file once the log directory is known.
func Init(verbose bool) {
	setLevel(verbose)
	log.Logger = newLogger(consoleWriter(nil))
}

// Setup builds the global logger from opts with dual sinks: the console and a rotating file.
func Setup(opts Options) error {
	setLevel(opts.Verbose)

	logDir := resolveDir(opts.Dir)
	if err := os.MkdirAll(logDir, 0755); err != nil {
		return fmt.Errorf("failed to create log directory %q: %w", logDir, err)
	}
	// MkdirAll succeeds on read-only mounts that already exist.
	testFile := filepath.Join(logDir, ".write-test")
	if err := os.WriteFile(testFile, []byte("test"), 0644); err != nil {
		return fmt.Errorf("log directory %q is not writable: %w", logDir, err)
	}
	_ = os.Remove(testFile)

	fileWriter := &lumberjack.Logger{
		Filename:   filepath.Join(logDir, FileName),
		MaxSize:    16, // megabytes
		MaxBackups: 32,
		MaxAge:     365, // days
		Compress:   true,
	}

	multi := zerolog.MultiLevelWriter(io.Writer(consoleWriter(opts.Console)), fileWriter)
	log.Logger = newLogger(multi)
	return nil
}

func setLevel(verbose bool) {
	level := zerolog.InfoLevel
	if verbose {
		level = zerolog.DebugLevel
	}
	zerolog.SetGlobalLevel(level)
}

func consoleWriter(out io.Writer) zerolog.ConsoleWriter {
	noColor := true
	if out == nil {
		out = os.Stderr
		noColor = !(isatty.IsTerminal(os.Stderr.Fd()) || isatty.IsCygwinTerminal(os.Stderr.Fd()))
	}
	return zerolog.ConsoleWriter{
		Out:        out,
		TimeFormat: time.RFC3339,
		NoColor:    noColor,
	}
}

func newLogger(w io.Writer) zerolog.Logger {
	return zerolog.New(w).
		With().
		Timestamp().
		Str("app", "demandcast").
		Logger()
}

func resolveDir(dir string) string {
	if dir != "" {
		return dir
	}
	if env := os.Getenv("LOGS_FOLDER"); env != "" {
		return env
	}
	if exePath, err := os.Executable(); err == nil {
		return filepath.Join(filepath.Dir(exePath), "logs")
	}
	return "logs"
}
