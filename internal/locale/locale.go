// Package locale holds the display language and text direction. It only
// affects presentation.
package locale

import (
	"golang.org/x/text/language"
)

type Language string

const (
	English Language = "en"
	Arabic  Language = "ar"
)

type Direction string

const (
	LeftToRight Direction = "ltr"
	RightToLeft Direction = "rtl"
)

type State struct {
	Language  Language  `json:"language"`
	Direction Direction `json:"direction"`
}

func New(lang Language) State {
	if lang == Arabic {
		return State{Language: Arabic, Direction: RightToLeft}
	}
	return State{Language: English, Direction: LeftToRight}
}

func (s State) IsRTL() bool { return s.Direction == RightToLeft }

// Toggle switches between the two supported languages.
func (s State) Toggle() State {
	if s.Language == Arabic {
		return New(English)
	}
	return New(Arabic)
}

func Parse(s string) (Language, bool) {
	switch Language(s) {
	case English, Arabic:
		return Language(s), true
	}
	return "", false
}

var supported = []language.Tag{language.English, language.Arabic}

var matcher = language.NewMatcher(supported)

// Negotiate picks a supported language from an Accept-Language header,
// defaulting to English.
func Negotiate(acceptLanguage string) Language {
	tags, _, err := language.ParseAcceptLanguage(acceptLanguage)
	if err != nil || len(tags) == 0 {
		return English
	}
	_, idx, conf := matcher.Match(tags...)
	if conf == language.No || supported[idx] != language.Arabic {
		return English
	}
	return Arabic
}

// Resolve prefers an explicit choice (the lang cookie) over negotiation.
func Resolve(explicit, acceptLanguage string) State {
	if lang, ok := Parse(explicit); ok {
		return New(lang)
	}
	return New(Negotiate(acceptLanguage))
}
