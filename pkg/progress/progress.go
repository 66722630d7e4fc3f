// Package progress provides sinks for the advisory (percent, message) updates
// emitted while a snapshot is generated.
package progress

import (
	"fmt"
	"io"
	"os"
	"strings"
	"sync"

	"go.uber.org/zap"
	"golang.org/x/term"
)

// Nop discards every update.
type Nop struct{}

func (Nop) Report(int, string) {}

// Logger forwards updates to a zap logger at debug level.
type Logger struct {
	logger *zap.Logger
}

// NewLogger returns a sink logging through logger.
func NewLogger(logger *zap.Logger) *Logger {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Logger{logger: logger}
}

func (l *Logger) Report(percent int, message string) {
	l.logger.Debug("Progress", zap.Int("percent", percent), zap.String("message", message))
}

// Terminal redraws a single status line on w.
type Terminal struct {
	mu      sync.Mutex
	w       io.Writer
	lastLen int
}

// NewTerminal returns a sink drawing on w.
func NewTerminal(w io.Writer) *Terminal {
	return &Terminal{w: w}
}

func (t *Terminal) Report(percent int, message string) {
	t.mu.Lock()
	defer t.mu.Unlock()

	line := fmt.Sprintf("[%3d%%] %s", clamp(percent), message)
	pad := ""
	if n := t.lastLen - len(line); n > 0 {
		pad = strings.Repeat(" ", n)
	}
	fmt.Fprintf(t.w, "\r%s%s", line, pad)
	t.lastLen = len(line)
}

// Finish clears the status line.
func (t *Terminal) Finish() {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.lastLen == 0 {
		return
	}
	fmt.Fprintf(t.w, "\r%s\r", strings.Repeat(" ", t.lastLen))
	t.lastLen = 0
}

// Sink is a progress sink that may need to clean up after the run.
type Sink interface {
	Report(percent int, message string)
	Finish()
}

type loggerSink struct{ *Logger }

func (loggerSink) Finish() {}

// Auto draws on f when it is a terminal and logs otherwise.
func Auto(f *os.File, logger *zap.Logger) Sink {
	if f != nil && term.IsTerminal(int(f.Fd())) {
		return NewTerminal(f)
	}
	return loggerSink{NewLogger(logger)}
}

func clamp(percent int) int {
	switch {
	case percent < 0:
		return 0
	case percent > 100:
		return 100
	default:
		return percent
	}
}
