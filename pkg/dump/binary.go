package dump

import (
	"bytes"
	"path/filepath"
	"strings"
)

// binarySniffLen caps how much content the heuristics inspect.
const binarySniffLen = 8192

// binaryExtensions lists file extensions treated as binary when strict
// content detection is off.
var binaryExtensions = map[string]bool{
	".7z": true, ".a": true, ".avi": true, ".bin": true, ".bmp": true,
	".bz2": true, ".class": true, ".dll": true, ".dmg": true, ".dylib": true,
	".ear": true, ".exe": true, ".flac": true, ".gif": true, ".gz": true,
	".ico": true, ".iso": true, ".jar": true, ".jpeg": true, ".jpg": true,
	".mov": true, ".mp3": true, ".mp4": true, ".mpeg": true, ".mpg": true,
	".o": true, ".obj": true, ".odt": true, ".ogg": true, ".pdf": true,
	".png": true, ".pyc": true, ".rar": true, ".so": true, ".sqlite": true,
	".swf": true, ".tar": true, ".tgz": true, ".tif": true, ".tiff": true,
	".ttf": true, ".war": true, ".wav": true, ".webm": true, ".webp": true,
	".whl": true, ".woff": true, ".woff2": true, ".xz": true, ".zip": true,
}

// detectBinary reports whether a file should be skipped as binary. Strict
// mode inspects the content: a NUL byte or more than 30% non-text bytes in
// the first 8 KiB marks the file binary. Non-strict mode consults the
// extension list only.
func detectBinary(relPath string, content []byte, strict bool) bool {
	if !strict {
		return hasBinaryExtension(relPath)
	}
	return isBinaryContent(content)
}

// isBinaryContent applies the NUL-byte and non-text-ratio heuristics.
func isBinaryContent(content []byte) bool {
	chunk := content
	if len(chunk) > binarySniffLen {
		chunk = chunk[:binarySniffLen]
	}
	if len(chunk) == 0 {
		return false // Empty files are considered text
	}
	if bytes.IndexByte(chunk, 0) >= 0 {
		return true
	}

	nonText := 0
	for _, b := range chunk {
		if !isTextByte(b) {
			nonText++
		}
	}
	return float64(nonText)/float64(len(chunk)) > 0.3
}

// isTextByte checks if a byte represents printable ASCII or common whitespace.
func isTextByte(b byte) bool {
	return (b >= 32 && b <= 126) || b == '\n' || b == '\r' || b == '\t'
}

// hasBinaryExtension checks if the file has a known binary extension.
func hasBinaryExtension(path string) bool {
	ext := strings.ToLower(filepath.Ext(path))
	return binaryExtensions[ext]
}
