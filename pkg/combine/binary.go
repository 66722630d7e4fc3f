// File: pkg/combine/binary.go
package combine

import (
	"bytes"
	"strings"
	"unicode/utf8"
)

// binaryRatioThreshold is the share of non-ASCII code units above which
// content containing a replacement character is treated as binary.
const binaryRatioThreshold = 0.3

// decodeText decodes data as UTF-8. Each maximal subpart of an ill-formed
// sequence becomes a single U+FFFD, so a truncated multi-byte character
// yields one replacement rather than one per byte.
func decodeText(data []byte) string {
	if utf8.Valid(data) {
		return string(data)
	}
	var sb strings.Builder
	sb.Grow(len(data) + 16)
	for len(data) > 0 {
		r, size := utf8.DecodeRune(data)
		if r == utf8.RuneError && size <= 1 {
			sb.WriteRune(utf8.RuneError)
			data = data[invalidSubpartLen(data):]
			continue
		}
		sb.Write(data[:size])
		data = data[size:]
	}
	return sb.String()
}

// invalidSubpartLen returns the length of the ill-formed prefix of data: the
// lead byte plus the continuation bytes that were still acceptable for it.
func invalidSubpartLen(data []byte) int {
	lead := data[0]
	lo, hi := byte(0x80), byte(0xBF)
	var need int
	switch {
	case lead >= 0xC2 && lead <= 0xDF:
		need = 1
	case lead == 0xE0:
		need, lo = 2, 0xA0
	case lead == 0xED:
		need, hi = 2, 0x9F
	case lead >= 0xE1 && lead <= 0xEF:
		need = 2
	case lead == 0xF0:
		need, lo = 3, 0x90
	case lead == 0xF4:
		need, hi = 3, 0x8F
	case lead >= 0xF1 && lead <= 0xF3:
		need = 3
	default:
		return 1
	}
	n := 1
	for n <= need && n < len(data) && data[n] >= lo && data[n] <= hi {
		lo, hi = 0x80, 0xBF
		n++
	}
	return n
}

// nonASCIIRatio returns the share of UTF-16 code units above U+007F in text.
// Runes outside the basic multilingual plane count as two units.
func nonASCIIRatio(text string) float64 {
	var total, nonASCII int
	for _, r := range text {
		units := 1
		if r > 0xFFFF {
			units = 2
		}
		total += units
		if r > 0x7F {
			nonASCII += units
		}
	}
	if total == 0 {
		return 0
	}
	return float64(nonASCII) / float64(total)
}

// isLikelyBinary classifies decoded content according to mode. raw is the
// undecoded file content.
func isLikelyBinary(mode BinaryMode, raw []byte, text string) bool {
	if mode == BinaryStrict {
		return bytes.IndexByte(raw, 0) >= 0 || !utf8.Valid(raw)
	}
	return nonASCIIRatio(text) > binaryRatioThreshold && strings.ContainsRune(text, utf8.RuneError)
}
