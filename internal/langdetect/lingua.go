package langdetect

import (
	"strings"
	"unicode"

	lingua "github.com/pemistahl/lingua-go"
)

const minLetters = 6

// Detector guesses the ISO 639-1 language of a text among a fixed set of candidates.
type Detector struct {
	detector lingua.LanguageDetector
}

// New builds a detector restricted to the given ISO 639-1 codes. Unknown codes are
// ignored; with fewer than two known codes the detector falls back to all languages.
func New(codes ...string) *Detector {
	languages := make([]lingua.Language, 0, len(codes))
	seen := make(map[lingua.Language]struct{}, len(codes))
	for _, code := range codes {
		language, ok := languageForCode(code)
		if !ok {
			continue
		}
		if _, exists := seen[language]; exists {
			continue
		}
		seen[language] = struct{}{}
		languages = append(languages, language)
	}

	builder := lingua.NewLanguageDetectorBuilder()
	var configured lingua.LanguageDetectorBuilder
	if len(languages) >= 2 {
		configured = builder.FromLanguages(languages...)
	} else {
		configured = builder.FromAllLanguages()
	}

	return &Detector{
		detector: configured.WithPreloadedLanguageModels().Build(),
	}
}

// DetectISO6391 returns the lowercase ISO 639-1 code, or "" when the sample is too
// short or no language is reliable.
func (d *Detector) DetectISO6391(text string) string {
	if d == nil || d.detector == nil {
		return ""
	}

	sample := strings.TrimSpace(text)
	if sample == "" {
		return ""
	}

	letterCount := 0
	for _, r := range sample {
		if unicode.IsLetter(r) {
			letterCount++
		}
	}
	if letterCount < minLetters {
		return ""
	}

	language, exists := d.detector.DetectLanguageOf(sample)
	if !exists {
		return ""
	}

	code := strings.ToLower(language.IsoCode639_1().String())
	if len(code) != 2 {
		return ""
	}
	return code
}

func languageForCode(code string) (lingua.Language, bool) {
	normalized := strings.ToLower(strings.TrimSpace(code))
	if len(normalized) != 2 {
		return lingua.Unknown, false
	}
	for _, language := range lingua.AllLanguages() {
		if strings.ToLower(language.IsoCode639_1().String()) == normalized {
			return language, true
		}
	}
	return lingua.Unknown, false
}
