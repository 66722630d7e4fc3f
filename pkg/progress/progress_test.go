package progress

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestTerminalRedrawsLine(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	sink := NewTerminal(&buf)
	sink.Report(10, "Finding files...")
	sink.Report(60, "Go")
	sink.Report(150, "Done")
	sink.Finish()

	want := "\r[ 10%] Finding files..." +
		"\r[ 60%] Go" + strings.Repeat(" ", 14) +
		"\r[100%] Done" +
		"\r" + strings.Repeat(" ", 11) + "\r"
	if got := buf.String(); got != want {
		t.Errorf("output = %q, want %q", got, want)
	}
}

func TestLoggerSink(t *testing.T) {
	t.Parallel()

	core, logs := observer.New(zapcore.DebugLevel)
	NewLogger(zap.New(core)).Report(30, "Filtering files...")

	entries := logs.All()
	if len(entries) != 1 {
		t.Fatalf("got %d log entries, want 1", len(entries))
	}
	fields := entries[0].ContextMap()
	if fields["percent"] != int64(30) || fields["message"] != "Filtering files..." {
		t.Errorf("unexpected fields %v", fields)
	}
}

func TestAutoFallsBackToLogger(t *testing.T) {
	t.Parallel()

	f, err := os.Create(filepath.Join(t.TempDir(), "out"))
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	defer f.Close()

	if _, ok := Auto(f, nil).(*Terminal); ok {
		t.Error("a regular file should not get a terminal sink")
	}
	Nop{}.Report(0, "ignored")
}
