package domain

import (
	"chat-relay/errors"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestNewLanguage(t *testing.T) {
	tests := []struct {
		description string
		key         string
		display     string
		expected    Language
		wantErr     bool
	}{
		{"Should keep the given display name", "fr", "French", Language{Key: "fr", Display: "French"}, false},
		{"Should derive the display name", "es", "", Language{Key: "es", Display: "español"}, false},
		{"Should trim the key", " de ", "Deutsch", Language{Key: "de", Display: "Deutsch"}, false},
		{"Should accept a region subtag", "pt-BR", "Português", Language{Key: "pt-BR", Display: "Português"}, false},
		{"Should fail on an empty key", "  ", "Nothing", Language{}, true},
		{"Should fail on an unparsable key", "not a language", "", Language{}, true},
	}

	for _, tt := range tests {
		t.Run(tt.description, func(t *testing.T) {
			req := require.New(t)

			lang, err := NewLanguage(tt.key, tt.display)

			if tt.wantErr {
				req.ErrorIs(err, errors.ErrMalformedLanguage)
				return
			}
			req.NoError(err)
			req.Equal(tt.expected, lang)
		})
	}
}

func TestLanguage_Base(t *testing.T) {
	req := require.New(t)

	req.Equal("pt", Language{Key: "pt-BR"}.Base())
	req.Equal("", Language{Key: ""}.Base())
	req.False(Language{Key: "!!"}.Valid())
}
