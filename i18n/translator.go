package i18n

import (
	"sync"

	"golang.org/x/text/language"
)

// Translator retrieves localized messages for Issue codes.
// data provides optional metadata to embed in the message (for example,
// "expected" or "type").
type Translator interface {
	Message(code string, data map[string]string) string
}

// dictTranslator is the built-in dictionary-based Translator.
type dictTranslator struct{ lang string }

func (t dictTranslator) Message(code string, data map[string]string) string {
	var msg string
	switch t.lang {
	case "ja":
		switch code {
		case "invalid_type":
			msg = "型が不正です"
		case "discriminator_missing":
			msg = "判別フィールドがありません"
		case "discriminator_unknown":
			msg = "未知のバリアントです"
		case "parse_error":
			msg = "解析エラー"
		case "unknown_component_type":
			msg = "未登録のコンポーネント型です"
		}
	default: // "en"
		switch code {
		case "invalid_type":
			msg = "invalid type"
		case "discriminator_missing":
			msg = "discriminator missing"
		case "discriminator_unknown":
			msg = "unknown variant"
		case "parse_error":
			msg = "parse error"
		case "unknown_component_type":
			msg = "unknown component type"
		}
	}
	if msg == "" {
		return code
	}
	if exp := data["expected"]; exp != "" {
		msg += " (expected " + exp + ")"
	}
	return msg
}

var (
	mu                           = sync.RWMutex{}
	currentTranslator Translator = dictTranslator{lang: "en"}
)

var (
	supported = []language.Tag{language.English, language.Japanese}
	langCodes = []string{"en", "ja"}
	matcher   = language.NewMatcher(supported)
)

// MatchLanguage returns the built-in dictionary ("en" or "ja") that best
// fits lang, a BCP 47 tag such as "ja-JP". Malformed or unsupported tags
// match "en".
func MatchLanguage(lang string) string {
	tag, err := language.Parse(lang)
	if err != nil {
		return langCodes[0]
	}
	_, idx, conf := matcher.Match(tag)
	if conf == language.No {
		return langCodes[0]
	}
	return langCodes[idx]
}

// SetLanguage switches the built-in Translator to MatchLanguage(lang).
func SetLanguage(lang string) {
	mu.Lock()
	currentTranslator = dictTranslator{lang: MatchLanguage(lang)}
	mu.Unlock()
}

// SetTranslator replaces the Translator implementation (not limited to the
// dictionary version).
func SetTranslator(tr Translator) {
	if tr == nil {
		tr = dictTranslator{lang: "en"}
	}
	mu.Lock()
	currentTranslator = tr
	mu.Unlock()
}

// T fetches a message for the given code using the current Translator.
func T(code string, data map[string]string) string {
	mu.RLock()
	tr := currentTranslator
	mu.RUnlock()
	return tr.Message(code, data)
}
