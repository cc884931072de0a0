package ai

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestResolveAcceptLanguage(t *testing.T) {
	cases := []struct {
		header string
		want   Language
	}{
		{"zh-CN,zh;q=0.9,en;q=0.8", LanguageZH},
		{"zh", LanguageZH},
		{"ko-KR", LanguageKO},
		{"en-US,en;q=0.5", LanguageEN},
		{"EN", LanguageEN},
		{"fr-FR,fr;q=0.9", LanguageEN},
		{"", LanguageEN},
		{"  zh-TW  ", LanguageZH},
	}
	for _, tc := range cases {
		require.Equal(t, tc.want, ResolveAcceptLanguage(tc.header), "header %q", tc.header)
	}
}

func TestFromCode(t *testing.T) {
	require.Equal(t, LanguageZH, FromCode("zh"))
	require.Equal(t, LanguageKO, FromCode(" KO "))
	require.Equal(t, LanguageEN, FromCode("en"))
	require.Equal(t, LanguageEN, FromCode("de"))
	require.Equal(t, LanguageEN, FromCode(""))
}

func TestPromptLabel(t *testing.T) {
	require.Equal(t, "Simplified Chinese", LanguageZH.PromptLabel())
	require.Equal(t, "Korean", LanguageKO.PromptLabel())
	require.Equal(t, "English", LanguageEN.PromptLabel())
}
