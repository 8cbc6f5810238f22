package internal

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func setRequired(t *testing.T) {
	t.Setenv("NUMBER_OF_WORKERS", "4")
	t.Setenv("BUFFER_SIZE", "100")
	t.Setenv("CONNECTION_BUFFER_SIZE", "16")
	t.Setenv("DELIVERY_TIMEOUT", "500ms")
	t.Setenv("TRANSLATION_TIMEOUT", "3s")
	t.Setenv("RESTART_INTERVAL", "1s")
	t.Setenv("MAX_CONTENT_LENGTH", "500")
	t.Setenv("AWS_REGION", "eu-west-1")
}

func TestLoadConfig_DefaultsAndRequired(t *testing.T) {
	req := require.New(t)
	setRequired(t)

	config, err := LoadConfig(filepath.Join(t.TempDir(), "missing.env"))

	req.NoError(err)
	req.Equal(4, config.NumberOfWorkers)
	req.Equal(3*time.Second, config.TranslationTimeout)
	req.Equal(8, config.MaxConcurrentTranslations)
	req.Equal(32, config.MaxNameLength)
	req.Equal("*", config.CharReplacement)
	req.False(config.ModerationEnabled)
	req.Equal("0.0.0.0:8080", config.Address())
}

func TestLoadConfig_EnvironmentWinsOverFile(t *testing.T) {
	req := require.New(t)
	setRequired(t)
	t.Setenv("PORT", "9090")
	path := filepath.Join(t.TempDir(), ".env")
	req.NoError(os.WriteFile(path, []byte("PORT=7070\nMAX_NAME_LENGTH=12\n"), 0o600))
	t.Cleanup(func() { _ = os.Unsetenv("MAX_NAME_LENGTH") })

	config, err := LoadConfig(path)

	req.NoError(err)
	req.Equal(9090, config.Port)
	req.Equal(12, config.MaxNameLength)
}

func TestLoadConfig_RejectsInvalidValues(t *testing.T) {
	tests := []struct {
		description string
		key         string
		value       string
	}{
		{"Should fail on zero workers", "NUMBER_OF_WORKERS", "0"},
		{"Should fail on an unknown log level", "LOG_LEVEL", "VERBOSE"},
		{"Should fail on a multi character replacement", "CHARACTER_REPLACEMENT", "**"},
		{"Should fail on a malformed duration", "TRANSLATION_TIMEOUT", "soon"},
	}

	for _, tt := range tests {
		t.Run(tt.description, func(t *testing.T) {
			setRequired(t)
			t.Setenv(tt.key, tt.value)

			_, err := LoadConfig(filepath.Join(t.TempDir(), "missing.env"))

			require.Error(t, err)
		})
	}
}

func TestCharacterRune(t *testing.T) {
	req := require.New(t)

	r, err := CharacterRune("€")
	req.NoError(err)
	req.Equal('€', r)

	_, err = CharacterRune("")
	req.Error(err)
}
