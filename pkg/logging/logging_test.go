package logging

import (
	"testing"

	"go.uber.org/zap"
)

func TestSetupLevels(t *testing.T) {
	tests := []struct {
		name    string
		debug   bool
		quiet   bool
		debugOn bool
		infoOn  bool
		errorOn bool
	}{
		{"debug", true, false, true, true, true},
		{"default", false, false, false, true, true},
		{"quiet", false, true, false, false, true},
		{"debug wins over quiet", true, true, true, true, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := Setup(tt.debug, tt.quiet, "codebasetext", "test"); err != nil {
				t.Fatalf("Setup: %v", err)
			}
			core := Logger.Core()
			if got := core.Enabled(zap.DebugLevel); got != tt.debugOn {
				t.Errorf("debug enabled = %v, want %v", got, tt.debugOn)
			}
			if got := core.Enabled(zap.InfoLevel); got != tt.infoOn {
				t.Errorf("info enabled = %v, want %v", got, tt.infoOn)
			}
			if got := core.Enabled(zap.ErrorLevel); got != tt.errorOn {
				t.Errorf("error enabled = %v, want %v", got, tt.errorOn)
			}
		})
	}
}
