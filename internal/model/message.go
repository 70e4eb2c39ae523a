package model

// MessageKind separates ordinary transcript lines from citations.
type MessageKind string

const (
	KindText   MessageKind = "text"
	KindSource MessageKind = "source"
)

// Language is the rendering language of a transcript entry. It only affects
// how a front end lays the text out.
type Language string

const (
	LanguageNone    Language = ""
	LanguageEnglish Language = "en"
	LanguageArabic  Language = "ar"
	LanguageFrench  Language = "fr"
)

// RightToLeft reports whether the language is written right to left.
func (l Language) RightToLeft() bool {
	return l == LanguageArabic
}

// Message is one transcript entry. Text is already formatted for display.
type Message struct {
	Text     string      `json:"text"`
	Kind     MessageKind `json:"kind"`
	Language Language    `json:"language,omitempty"`
}

// TextMessage builds a plain entry.
func TextMessage(text string, lang Language) Message {
	return Message{Text: text, Kind: KindText, Language: lang}
}

// SourceMessage builds a citation entry.
func SourceMessage(text string) Message {
	return Message{Text: text, Kind: KindSource}
}
