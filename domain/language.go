package domain

import (
	"chat-relay/errors"
	"fmt"
	"strings"

	"golang.org/x/text/language"
	"golang.org/x/text/language/display"
)

// Language is the structured language choice of a participant.
// Key is used for translation requests and per-message cache lookups.
type Language struct {
	Key     string `json:"key"`
	Display string `json:"display"`
}

// NewLanguage validates the key as a BCP 47 tag and fills Display with the
// language's own name when the client did not send one.
// The key is kept verbatim so cache lookups match what clients sent.
func NewLanguage(key, displayName string) (Language, error) {
	lang := Language{Key: strings.TrimSpace(key), Display: strings.TrimSpace(displayName)}
	tag, err := lang.Tag()
	if err != nil {
		return Language{}, err
	}
	if lang.Display == "" {
		lang.Display = display.Self.Name(tag)
	}
	return lang, nil
}

// Tag parses the key. An empty or unparsable key is malformed.
func (l Language) Tag() (language.Tag, error) {
	if l.Key == "" {
		return language.Und, fmt.Errorf("%w: empty key", errors.ErrMalformedLanguage)
	}
	tag, err := language.Parse(l.Key)
	if err != nil {
		return language.Und, fmt.Errorf("%w: %q: %v", errors.ErrMalformedLanguage, l.Key, err)
	}
	return tag, nil
}

// Valid reports whether the key can be used for translation.
func (l Language) Valid() bool {
	_, err := l.Tag()
	return err == nil
}

// Base returns the ISO 639 base code of the key ("pt" for "pt-BR").
func (l Language) Base() string {
	tag, err := l.Tag()
	if err != nil {
		return ""
	}
	base, _ := tag.Base()
	return base.String()
}
