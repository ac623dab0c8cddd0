package language

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"sales-assistant/internal/infra/logger"
)

func TestDetect(t *testing.T) {
	tests := []struct {
		text string
		want string
	}{
		{"Hi", "en"},
		{"   hola    ", "en"},
		{"What is the price for the analytics package?", "en"},
		{"Necesitamos una solución para nuestro equipo, ¿cuánto cuesta?", "es"},
		{"Nous avons besoin de la plateforme pour notre équipe", "fr"},
		{"Wir brauchen die Plattform für unser Team", "de"},
		{"1234567890 !!!", "en"},
	}
	for _, tt := range tests {
		t.Run(tt.text, func(t *testing.T) {
			assert.Equal(t, tt.want, Detect(tt.text))
		})
	}
}

func TestNormalize(t *testing.T) {
	assert.Equal(t, "pt", Normalize("pt-BR"))
	assert.Equal(t, "en", Normalize(""))
	assert.Equal(t, "en", Normalize("!!"))
	assert.Equal(t, "es", Normalize("es"))
}

func TestDevTranslator(t *testing.T) {
	tr := NewDevTranslator(logger.Discard())
	assert.Equal(t, "[es] Hello", tr.Translate("Hello", "en", "es"))
	assert.Equal(t, "Hello", tr.Translate("Hello", "en", "en"))

	assert.Equal(t, "Hello", ToTarget(tr, "Hello", "en"))
	assert.Equal(t, "[fr] Hello", ToTarget(tr, "Hello", "fr"))
	assert.Equal(t, "[en] Hola amigos", ToEnglish(tr, "Hola amigos", "es"))
	assert.Equal(t, "Just checking in", ToEnglish(tr, "Just checking in", ""))
}
