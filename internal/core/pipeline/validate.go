package pipeline

import (
	"strings"
)

// Thresholds are the low-signal heuristics applied after extraction.
// They are heuristics, not guarantees: sparse-but-valid documents may be
// rejected and garbage may pass.
type Thresholds struct {
	PDFMinChars   int
	PDFMinBytes   int
	ImageMinChars int
	ImageMinBytes int
}

func DefaultThresholds() Thresholds {
	return Thresholds{
		PDFMinChars:   100,
		PDFMinBytes:   100 << 10,
		ImageMinChars: 10,
		ImageMinBytes: 10 << 10,
	}
}

// validateContent gates extracted text before the pipeline proceeds.
// A large PDF that yields almost no text is most likely a scanned document;
// a sizeable image that yields almost none carried no readable print.
func validateContent(t Thresholds, format Format, text string, originalSize int) error {
	switch format {
	case FormatPDF:
		if len(text) < t.PDFMinChars && originalSize > t.PDFMinBytes {
			return Errf(KindLowSignal, nil,
				"this PDF appears to be a scanned document with minimal selectable text; upload its pages as images for OCR")
		}
	case FormatImage:
		if len(text) < t.ImageMinChars && originalSize > t.ImageMinBytes {
			return Errf(KindLowSignal, nil,
				"could not extract significant text from the image; ensure the image contains clear text")
		}
	}

	if strings.TrimSpace(text) == "" {
		return Errf(KindEmptyContent, nil,
			"no text content could be extracted from the file")
	}
	return nil
}
