// Package language detects the buyer's language and translates replies.
package language

import (
	"strings"
	"unicode"

	"github.com/sirupsen/logrus"
	xlang "golang.org/x/text/language"

	"sales-assistant/internal/infra/logger"
)

const (
	English        = "en"
	minDetectChars = 10
)

var stopwords = map[string][]string{
	"en": {"the", "and", "is", "are", "we", "you", "what", "how", "need", "for", "with", "our"},
	"es": {"el", "la", "los", "que", "y", "es", "necesitamos", "para", "con", "nuestro", "cuánto", "precio"},
	"pt": {"o", "os", "que", "e", "é", "precisamos", "para", "com", "nosso", "quanto", "preço", "não"},
	"fr": {"le", "la", "les", "et", "est", "nous", "avons", "pour", "avec", "notre", "combien", "prix"},
	"de": {"der", "die", "das", "und", "ist", "wir", "brauchen", "für", "mit", "unser", "wie", "preis"},
	"it": {"il", "lo", "gli", "che", "e", "è", "abbiamo", "per", "con", "nostro", "quanto", "prezzo"},
}

// detectOrder breaks score ties deterministically.
var detectOrder = []string{"en", "es", "pt", "fr", "de", "it"}

// Detect returns a base language code for text. Short or unrecognised text
// is treated as English.
func Detect(text string) string {
	cleaned := strings.TrimSpace(text)
	if len([]rune(cleaned)) < minDetectChars {
		return English
	}
	words := strings.FieldsFunc(strings.ToLower(cleaned), func(r rune) bool {
		return !unicode.IsLetter(r)
	})
	counts := make(map[string]int, len(words))
	for _, w := range words {
		counts[w]++
	}

	best, bestScore := English, 0
	for _, lang := range detectOrder {
		score := 0
		for _, sw := range stopwords[lang] {
			score += counts[sw]
		}
		if score > bestScore {
			best, bestScore = lang, score
		}
	}
	return best
}

// Normalize maps a BCP 47 tag such as "pt-BR" to its base code. Empty or
// invalid input yields English.
func Normalize(tag string) string {
	if tag == "" {
		return English
	}
	t, err := xlang.Parse(tag)
	if err != nil {
		return English
	}
	base, _ := t.Base()
	return base.String()
}

// Translator converts text between languages.
type Translator interface {
	Translate(text, from, to string) string
}

// DevTranslator tags text with the target language instead of translating.
type DevTranslator struct {
	log *logger.Logger
}

func NewDevTranslator(log *logger.Logger) *DevTranslator {
	return &DevTranslator{log: log}
}

func (t *DevTranslator) Translate(text, from, to string) string {
	if from == to {
		return text
	}
	t.log.Debug("Mock translation", logrus.Fields{"from": from, "to": to})
	return "[" + to + "] " + text
}

// ToEnglish translates text to English unless it already is.
func ToEnglish(t Translator, text, from string) string {
	if from == "" {
		from = Detect(text)
	}
	if from == English {
		return text
	}
	return t.Translate(text, from, English)
}

// ToTarget translates English text into target.
func ToTarget(t Translator, text, target string) string {
	if target == "" || target == English {
		return text
	}
	return t.Translate(text, English, target)
}
