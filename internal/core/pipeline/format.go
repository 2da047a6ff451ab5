package pipeline

import (
	"path/filepath"
	"strings"
)

// Format is the tagged document variant the classifier produces. Each format
// maps to exactly one extraction strategy.
type Format string

const (
	FormatPDF         Format = "pdf"
	FormatDocx        Format = "docx"
	FormatImage       Format = "image"
	FormatText        Format = "text"
	FormatUnsupported Format = "unsupported"
)

const docxMediaType = "application/vnd.openxmlformats-officedocument.wordprocessingml.document"

// Detect classifies a file by its declared media type, falling back to the
// file name's extension when the media type is absent or unrecognized.
func Detect(mediaType, fileName string) Format {
	mt := strings.ToLower(strings.TrimSpace(mediaType))
	// Strip parameters such as "; charset=utf-8".
	if i := strings.IndexByte(mt, ';'); i >= 0 {
		mt = strings.TrimSpace(mt[:i])
	}
	ext := strings.ToLower(strings.TrimPrefix(filepath.Ext(fileName), "."))

	switch {
	case mt == "application/pdf" || ext == "pdf":
		return FormatPDF
	case mt == docxMediaType || ext == "docx":
		return FormatDocx
	case mt == "image/jpeg" || mt == "image/png" ||
		ext == "jpg" || ext == "jpeg" || ext == "png":
		return FormatImage
	case strings.HasPrefix(mt, "text/"):
		return FormatText
	}

	switch ext {
	case "txt", "md", "csv", "json", "log":
		return FormatText
	}

	return FormatUnsupported
}
