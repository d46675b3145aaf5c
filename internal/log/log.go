package log

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"sync"
	"syscall"
)

const (
	LevelTrace = slog.Level(-8)
	// LevelNone is above every level a record is logged at.
	LevelNone = slog.Level(16)
)

func ParseLevel(s string) slog.Level {
	switch strings.ToLower(s) {
	case "trace":
		return LevelTrace
	case "debug":
		return slog.LevelDebug
	case "info":
		return slog.LevelInfo
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return LevelNone
	}
}

// FileWriter appends to a log file that can be reopened after rotation.
type FileWriter struct {
	path       string
	fileHandle *os.File
	mu         sync.Mutex
}

func OpenFile(path string) (*FileWriter, error) {
	// Create parent directories if they don't exist
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("failed to create log directory for '%s': %w", path, err)
	}
	w := &FileWriter{path: path}
	if err := w.Reopen(); err != nil {
		return nil, err
	}
	return w, nil
}

func (w *FileWriter) Write(p []byte) (int, error) {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.fileHandle.Write(p)
}

// Reopen closes the current handle and opens the path again.
func (w *FileWriter) Reopen() error {
	w.mu.Lock()
	defer w.mu.Unlock()

	fh, err := os.OpenFile(w.path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("could not open log file '%s': %w", w.path, err)
	}
	if w.fileHandle != nil {
		_ = w.fileHandle.Close()
	}
	w.fileHandle = fh
	return nil
}

func (w *FileWriter) Close() error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.fileHandle == nil {
		return nil
	}
	err := w.fileHandle.Close()
	w.fileHandle = nil
	return err
}

// Configure installs a JSON slog handler as the default logger. With a
// log file the returned closer stops rotation handling and closes it;
// otherwise records go to stderr.
func Configure(level string, logFile string) (io.Closer, error) {
	options := &slog.HandlerOptions{
		AddSource: false,
		Level:     ParseLevel(level),
	}

	if logFile == "" {
		slog.SetDefault(slog.New(slog.NewJSONHandler(os.Stderr, options)))
		return io.NopCloser(nil), nil
	}

	w, err := OpenFile(logFile)
	if err != nil {
		slog.SetDefault(slog.New(slog.NewJSONHandler(os.Stderr, options)))
		return io.NopCloser(nil), err
	}
	slog.SetDefault(slog.New(slog.NewJSONHandler(w, options)))
	return setupLogRotation(w), nil
}

type rotation struct {
	w    *FileWriter
	sigs chan os.Signal
}

func (r *rotation) Close() error {
	signal.Stop(r.sigs)
	close(r.sigs)
	return r.w.Close()
}

// setupLogRotation reopens the log file on SIGHUP:
//
//	mv woojin.log woojin.bak && kill -HUP <pid>
func setupLogRotation(w *FileWriter) io.Closer {
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGHUP)
	go func() {
		for range sigs {
			if err := w.Reopen(); err != nil {
				fmt.Fprintf(os.Stderr, "%v\n", err)
			}
		}
	}()
	return &rotation{w: w, sigs: sigs}
}
