package ai

import "strings"

// Language is the output language requested for AI-written text.
type Language string

const (
	LanguageZH Language = "zh"
	LanguageEN Language = "en"
	LanguageKO Language = "ko"
)

const DefaultLanguage = LanguageEN

// PromptLabel is the human-readable name embedded in prompts.
func (l Language) PromptLabel() string {
	switch l {
	case LanguageZH:
		return "Simplified Chinese"
	case LanguageKO:
		return "Korean"
	default:
		return "English"
	}
}

// FromCode maps a stored language code back to a Language, defaulting to
// English for anything unrecognized.
func FromCode(code string) Language {
	switch Language(strings.ToLower(strings.TrimSpace(code))) {
	case LanguageZH:
		return LanguageZH
	case LanguageKO:
		return LanguageKO
	case LanguageEN:
		return LanguageEN
	default:
		return DefaultLanguage
	}
}

// ResolveAcceptLanguage maps an Accept-Language header to a supported
// language. Only the first listed locale is considered and matching is by
// prefix, so "zh-CN,zh;q=0.9" resolves to zh.
func ResolveAcceptLanguage(header string) Language {
	first := header
	if idx := strings.IndexAny(first, ",;"); idx >= 0 {
		first = first[:idx]
	}
	first = strings.ToLower(strings.TrimSpace(first))
	switch {
	case strings.HasPrefix(first, "zh"):
		return LanguageZH
	case strings.HasPrefix(first, "ko"):
		return LanguageKO
	case strings.HasPrefix(first, "en"):
		return LanguageEN
	default:
		return DefaultLanguage
	}
}
