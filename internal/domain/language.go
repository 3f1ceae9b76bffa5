package domain

import "unicode"

// Language is the supported-language tag for prompts and fallback strings.
type Language string

const (
	// LangEnglish is the default language.
	LangEnglish Language = "en"
	// LangArabic is the second supported language.
	LangArabic Language = "ar"
)

// ParseLanguage maps a declared language code onto a supported tag,
// defaulting to English for anything unknown or empty.
func ParseLanguage(code string) Language {
	switch code {
	case string(LangArabic):
		return LangArabic
	case string(LangEnglish):
		return LangEnglish
	default:
		return LangEnglish
	}
}

// DetectLanguage classifies text as Arabic or English by the share of
// Arabic-script letters among all letters. Resolved once per request;
// a declared request language always takes precedence over detection.
func DetectLanguage(text string) Language {
	var arabic, letters int
	for _, r := range text {
		if !unicode.IsLetter(r) {
			continue
		}
		letters++
		if r >= 0x0600 && r <= 0x06FF {
			arabic++
		}
	}
	if letters == 0 {
		return LangEnglish
	}
	if float64(arabic)/float64(letters) > 0.3 {
		return LangArabic
	}
	return LangEnglish
}
