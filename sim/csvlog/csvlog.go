// Package csvlog writes trip and passenger records as CSV rows into size-rotated
// files, one file per destination name.
package csvlog

import (
	"encoding/csv"
	"errors"
	"fmt"
	"path/filepath"
	"sync"

	"github.com/natefinch/lumberjack"
)

// Options controls rotation of every destination file.
type Options struct {
	MaxSizeMB  int  // rotate once a file reaches this size; 0 means lumberjack's default (100)
	MaxBackups int  // rotated files to keep; 0 keeps all
	MaxAgeDays int  // days to keep rotated files; 0 keeps all
	Compress   bool // gzip rotated files
}

// DefaultOptions mirrors the rotation used for application logs.
var DefaultOptions = Options{MaxSizeMB: 10, MaxBackups: 7, MaxAgeDays: 7, Compress: true}

type sink struct {
	rotator *lumberjack.Logger
	csv     *csv.Writer
}

// FileWriter appends CSV rows to <dir>/<dest>. Files are opened lazily on the
// first write to each destination. Safe for concurrent use.
type FileWriter struct {
	dir   string
	opts  Options
	mu    sync.Mutex
	sinks map[string]*sink
}

// New creates a FileWriter rooted at dir. The directory is created on first write.
func New(dir string, opts Options) *FileWriter {
	return &FileWriter{dir: dir, opts: opts, sinks: make(map[string]*sink)}
}

// Dir returns the directory the writer appends to.
func (w *FileWriter) Dir() string { return w.dir }

// Write appends fields as one CSV row to dest and flushes it. dest must be a
// bare file name.
func (w *FileWriter) Write(dest string, fields []string) error {
	if dest == "" || filepath.Base(dest) != dest {
		return fmt.Errorf("csvlog: invalid destination %q", dest)
	}
	w.mu.Lock()
	defer w.mu.Unlock()
	s, ok := w.sinks[dest]
	if !ok {
		rot := &lumberjack.Logger{
			Filename:   filepath.Join(w.dir, dest),
			MaxSize:    w.opts.MaxSizeMB,
			MaxBackups: w.opts.MaxBackups,
			MaxAge:     w.opts.MaxAgeDays,
			Compress:   w.opts.Compress,
		}
		s = &sink{rotator: rot, csv: csv.NewWriter(rot)}
		w.sinks[dest] = s
	}
	if err := s.csv.Write(fields); err != nil {
		return fmt.Errorf("csvlog: writing %s: %w", dest, err)
	}
	s.csv.Flush()
	if err := s.csv.Error(); err != nil {
		return fmt.Errorf("csvlog: flushing %s: %w", dest, err)
	}
	return nil
}

// Close closes every open destination.
func (w *FileWriter) Close() error {
	w.mu.Lock()
	defer w.mu.Unlock()
	var errs []error
	for dest, s := range w.sinks {
		if err := s.rotator.Close(); err != nil {
			errs = append(errs, fmt.Errorf("closing %s: %w", dest, err))
		}
		delete(w.sinks, dest)
	}
	return errors.Join(errs...)
}
