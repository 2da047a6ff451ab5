package pipeline

import (
	"bytes"
	"context"
	"fmt"
	"strings"

	"code.sajari.com/docconv"
	"github.com/ledongthuc/pdf"

	"github.com/studylens/studylens/internal/core"
)

// Extractor converts raw file bytes into plain text, one strategy per format.
type Extractor struct {
	ocrFactory       core.OCREngineFactory
	fallbackMinChars int
}

func NewExtractor(ocrFactory core.OCREngineFactory, fallbackMinChars int) *Extractor {
	if fallbackMinChars <= 0 {
		fallbackMinChars = 50
	}
	return &Extractor{ocrFactory: ocrFactory, fallbackMinChars: fallbackMinChars}
}

// Extract runs the strategy for the given format. Every failure it returns is
// a classified *Error; no raw parser errors escape.
func (e *Extractor) Extract(ctx context.Context, format Format, data []byte) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", Errf(KindInternal, err, "request aborted before extraction")
	}

	switch format {
	case FormatPDF:
		return e.extractPDF(data)
	case FormatDocx:
		return e.extractDocx(data)
	case FormatImage:
		return e.extractImage(data)
	case FormatText:
		return string(data), nil
	default:
		return "", Errf(KindInternal, nil, "no extraction strategy for format %q", format)
	}
}

// extractPDF tries structured extraction first and falls back to a loose
// byte-level decode when the PDF cannot be parsed as text.
func (e *Extractor) extractPDF(data []byte) (string, error) {
	text, err := pdfPlainText(data)
	if err == nil {
		return text, nil
	}

	cleaned := cleanLooseText(data)
	if len(cleaned) < e.fallbackMinChars {
		return "", Errf(KindExtraction, err,
			"failed to parse PDF file; ensure it contains selectable text or upload its pages as images")
	}
	return cleaned, nil
}

// pdfPlainText walks every page and concatenates its plain text.
func pdfPlainText(data []byte) (text string, err error) {
	// ledongthuc/pdf panics on some malformed xref tables; the fallback
	// strategy must still get its turn.
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("pdf reader panic: %v", r)
		}
	}()

	r, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", fmt.Errorf("open pdf: %w", err)
	}

	var b strings.Builder
	for i := 1; i <= r.NumPage(); i++ {
		page := r.Page(i)
		if page.V.IsNull() {
			continue
		}
		pageText, err := page.GetPlainText(nil)
		if err != nil {
			// Skip unreadable pages, keep the rest.
			continue
		}
		b.WriteString(pageText)
		b.WriteString("\n\n")
	}

	out := b.String()
	if strings.TrimSpace(out) == "" {
		return "", fmt.Errorf("no text content found in PDF")
	}
	return out, nil
}

// cleanLooseText treats the bytes as loosely-encoded text: everything outside
// printable ASCII plus newline/tab becomes a space, whitespace runs collapse.
func cleanLooseText(data []byte) string {
	mapped := make([]byte, len(data))
	for i, c := range data {
		if (c >= 0x20 && c <= 0x7e) || c == '\n' || c == '\r' || c == '\t' {
			mapped[i] = c
		} else {
			mapped[i] = ' '
		}
	}
	return strings.Join(strings.Fields(string(mapped)), " ")
}

func (e *Extractor) extractDocx(data []byte) (string, error) {
	text, _, err := docconv.ConvertDocx(bytes.NewReader(data))
	if err != nil {
		return "", Errf(KindExtraction, err, "failed to parse DOCX file")
	}
	return text, nil
}

// extractImage runs a single OCR pass. The engine is acquired for this call
// only and released on every exit path.
func (e *Extractor) extractImage(data []byte) (string, error) {
	engine, err := e.ocrFactory()
	if err != nil {
		return "", Errf(KindExtraction, err, "could not start OCR engine")
	}
	defer engine.Close()

	text, err := engine.Recognize(data)
	if err != nil {
		return "", Errf(KindExtraction, err, "could not read text from image")
	}
	return text, nil
}
