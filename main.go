package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"strings"

	"codebasetext/cmd"
	"codebasetext/pkg/combine"
	"codebasetext/pkg/logging"

	"go.uber.org/zap"
	"golang.org/x/term"
)

func main() {
	err := cmd.Execute(context.Background())

	// Check if stderr is a terminal or a regular file before attempting to sync.
	if term.IsTerminal(int(os.Stderr.Fd())) || isRegularFile(os.Stderr) {
		if syncErr := logging.Logger.Sync(); syncErr != nil {
			lowerErr := strings.ToLower(syncErr.Error())
			if !strings.Contains(lowerErr, "invalid argument") {
				log.Printf("Logger sync failed: %v", syncErr)
			}
		}
	}

	if err != nil {
		logging.Logger.Error("codebasetext execution failed", zap.Error(err))
		fmt.Fprintln(os.Stderr, "Error:", err)
		if errors.Is(err, combine.ErrUnresolvableTarget) {
			os.Exit(2)
		}
		os.Exit(1)
	}
}

// isRegularFile checks if the given file is a regular file.
func isRegularFile(f *os.File) bool {
	fileInfo, err := f.Stat()
	if err != nil {
		return false // Assume not a regular file if we can't get the file info
	}
	return fileInfo.Mode().IsRegular()
}
