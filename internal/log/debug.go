// Package log provides optional debug logging to a file.
//
// Hooks run inside a host that interprets their stdout, so diagnostics can
// never go there. Messages logged before SetFile is called are buffered and
// flushed once a destination is known; if no destination is ever configured
// they are dropped.
package log

import (
	"log"
	"os"
	"sync"
)

type debugSink struct {
	mu      sync.Mutex
	file    *os.File
	buffer  []byte
	discard bool
}

var (
	sink = &debugSink{}
	// stdLogger wraps the sink to get standard log formatting.
	stdLogger = log.New(sink, "", log.LstdFlags|log.Lmicroseconds)
)

// Write implements io.Writer. It writes to the file if one is set,
// otherwise buffers until SetFile decides the destination.
func (s *debugSink) Write(p []byte) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.discard {
		return len(p), nil
	}

	if s.file != nil {
		n, err := s.file.Write(p)
		// Sync so messages survive the short-lived hook process.
		_ = s.file.Sync()
		return n, err
	}

	s.buffer = append(s.buffer, p...)
	return len(p), nil
}

// SetFile sets the debug log file path, creating the file if needed and
// flushing any buffered messages into it. An empty path discards buffered
// and future messages.
func SetFile(path string) error {
	sink.mu.Lock()
	defer sink.mu.Unlock()

	if sink.file != nil {
		_ = sink.file.Close()
		sink.file = nil
	}

	if path == "" {
		sink.discard = true
		sink.buffer = nil
		return nil
	}

	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o600) //nolint:gosec
	if err != nil {
		sink.discard = true
		sink.buffer = nil
		return err
	}

	sink.file = f
	sink.discard = false

	if len(sink.buffer) > 0 {
		_, _ = f.Write(sink.buffer)
		_ = f.Sync()
		sink.buffer = nil
	}

	return nil
}

// Printf writes a formatted debug message.
func Printf(format string, args ...any) {
	stdLogger.Printf(format, args...)
}

// Close closes the debug log file if open.
func Close() error {
	sink.mu.Lock()
	defer sink.mu.Unlock()

	if sink.file == nil {
		return nil
	}

	err := sink.file.Close()
	sink.file = nil
	return err
}
