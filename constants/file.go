package constants

import "strings"

const (
	// PDFExt is the only input extension the pipeline picks up.
	PDFExt = "pdf"
	// OCRSuffix is appended to the source base name for text artifacts.
	OCRSuffix = "_ocr.txt"
	// PageSeparator closes every page block in a text artifact.
	PageSeparator = "--------------------------------------------------------------------------------"
)

// NormalizeExt lowercases and trims the dot from a file extension.
func NormalizeExt(ext string) string {
	return strings.ToLower(strings.TrimPrefix(ext, "."))
}

// IsPDFExt checks an extension case-insensitively.
func IsPDFExt(ext string) bool {
	return NormalizeExt(ext) == PDFExt
}
