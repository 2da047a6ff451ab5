// Package ocr provides a Tesseract-backed OCR engine with a scoped,
// per-call lifecycle: the factory hands out one engine per extraction call
// and the caller releases it with Close whatever the outcome.
package ocr

import (
	"fmt"

	"github.com/otiai10/gosseract/v2"

	"github.com/studylens/studylens/internal/core"
)

type tesseractEngine struct {
	client *gosseract.Client
}

// NewEngineFactory returns a factory producing single-use engines bound to
// the given language model (e.g. "eng").
func NewEngineFactory(language string) core.OCREngineFactory {
	if language == "" {
		language = "eng"
	}
	return func() (core.OCREngine, error) {
		client := gosseract.NewClient()
		if err := client.SetLanguage(language); err != nil {
			_ = client.Close()
			return nil, fmt.Errorf("set ocr language %q: %w", language, err)
		}
		return &tesseractEngine{client: client}, nil
	}
}

func (e *tesseractEngine) Recognize(image []byte) (string, error) {
	if len(image) == 0 {
		return "", fmt.Errorf("empty image")
	}
	if err := e.client.SetImageFromBytes(image); err != nil {
		return "", fmt.Errorf("load image: %w", err)
	}
	text, err := e.client.Text()
	if err != nil {
		return "", fmt.Errorf("ocr recognize: %w", err)
	}
	return text, nil
}

func (e *tesseractEngine) Close() error {
	return e.client.Close()
}
