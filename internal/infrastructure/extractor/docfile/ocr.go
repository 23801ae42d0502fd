package docfile

import (
	"fmt"

	"github.com/otiai10/gosseract/v2"
)

// ocrText runs Tesseract over the full image and returns its best-effort
// transcription. A fresh client per call keeps the cgo handle lifecycle tied
// to one extraction.
func ocrText(data []byte) (text string, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("ocr engine panic: %v", r)
		}
	}()

	client := gosseract.NewClient()
	defer client.Close()

	if err := client.SetImageFromBytes(data); err != nil {
		return "", fmt.Errorf("load image: %w", err)
	}
	text, err = client.Text()
	if err != nil {
		return "", fmt.Errorf("ocr image: %w", err)
	}
	return text, nil
}
