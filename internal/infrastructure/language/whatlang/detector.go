package whatlang

import (
	"strings"

	"github.com/abadojack/whatlanggo"
)

// Detector wraps whatlanggo behind the LanguageDetector port. Codes are
// ISO 639-3 ("eng", "mal", "hin").
type Detector struct{}

func New() *Detector {
	return &Detector{}
}

func (d *Detector) Detect(text string) (string, bool) {
	text = strings.TrimSpace(text)
	if text == "" {
		return "", false
	}

	info := whatlanggo.Detect(text)
	if !info.IsReliable() {
		return "", false
	}
	return whatlanggo.LangToString(info.Lang), true
}
