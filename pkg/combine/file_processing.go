package combine

import (
	"fmt"

	"go.uber.org/zap"
)

// Placeholders emitted instead of file content.
const (
	BinaryPlaceholder    = "[Content omitted - Likely binary file or invalid UTF-8]\n"
	readErrorPlaceholder = "[Error reading file: %v]\n"
)

// FileContent is one serialized block.
type FileContent struct {
	Index int
	Entry FileEntry
	Block string
	Skip  *Skip // Set when the block holds a placeholder.
}

// ProcessSingleFile reads entry and frames its content under headerPath.
// Failures are folded into a placeholder block, never returned.
func ProcessSingleFile(fsys FileSystemProvider, entry FileEntry, headerPath string, mode BinaryMode, logger *zap.Logger) FileContent {
	logger.Debug("Reading file content", zap.String("filePath", entry.AbsPath))

	content := FileContent{Entry: entry}
	data, err := fsys.ReadFile(entry.AbsPath)
	if err != nil {
		logger.Error("Failed to read file", zap.String("filePath", entry.AbsPath), zap.Error(err))
		content.Block = frameBlock(headerPath, fmt.Sprintf(readErrorPlaceholder, err))
		content.Skip = &Skip{Path: headerPath, Reason: ReasonReadError, Detail: err.Error()}
		return content
	}

	text := decodeText(data)
	if isLikelyBinary(mode, data, text) {
		logger.Debug("Omitting likely binary content", zap.String("filePath", entry.AbsPath), zap.Int("sizeBytes", len(data)))
		content.Block = frameBlock(headerPath, BinaryPlaceholder)
		content.Skip = &Skip{Path: headerPath, Reason: ReasonLikelyBinary}
		return content
	}

	content.Block = frameBlock(headerPath, text)
	return content
}

// frameBlock wraps body in the fixed header and footer markers.
func frameBlock(headerPath, body string) string {
	return "\n\n// File: " + headerPath + "\n// ---- START ----\n\n" + body + "\n\n// ---- END ----\n"
}
