package internal

import (
	"fmt"
	"time"

	"github.com/Netflix/go-env"
	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
)

type Config struct {
	Host                      string        `env:"HOST,default=0.0.0.0"`
	Port                      int           `env:"PORT,default=8080" validate:"gt=0,lte=65535"`
	LogLevel                  string        `env:"LOG_LEVEL,default=INFO" validate:"oneof=DEBUG INFO WARN ERROR"`
	StaticDir                 string        `env:"STATIC_DIR"`
	NumberOfWorkers           int           `env:"NUMBER_OF_WORKERS,required=true" validate:"gt=0"`
	BufferSize                int           `env:"BUFFER_SIZE,required=true" validate:"gt=0"`
	ConnectionBufferSize      int           `env:"CONNECTION_BUFFER_SIZE,required=true" validate:"gt=0"`
	DeliveryTimeout           time.Duration `env:"DELIVERY_TIMEOUT,required=true" validate:"gt=0"`
	TranslationTimeout        time.Duration `env:"TRANSLATION_TIMEOUT,required=true" validate:"gt=0"`
	MaxConcurrentTranslations int           `env:"MAX_CONCURRENT_TRANSLATIONS,default=8" validate:"gt=0"`
	RestartInterval           time.Duration `env:"RESTART_INTERVAL,required=true" validate:"gt=0"`
	MetricInterval            time.Duration `env:"METRIC_INTERVAL,default=5s" validate:"gt=0"`
	MaxNameLength             int           `env:"MAX_NAME_LENGTH,default=32" validate:"gt=0"`
	MaxContentLength          int           `env:"MAX_CONTENT_LENGTH,required=true" validate:"gt=0"`
	ModerationEnabled         bool          `env:"MODERATION_ENABLED,default=false"`
	CharReplacement           string        `env:"CHARACTER_REPLACEMENT,default=*"`
	AWSRegion                 string        `env:"AWS_REGION,required=true" validate:"required"`
}

// LoadConfig reads an optional .env file, then the environment.
// Variables already set in the environment win over the file.
func LoadConfig(envFiles ...string) (Config, error) {
	_ = godotenv.Load(envFiles...)

	var config Config
	if _, err := env.UnmarshalFromEnviron(&config); err != nil {
		return Config{}, fmt.Errorf("config error: %w", err)
	}
	if err := validator.New().Struct(config); err != nil {
		return Config{}, fmt.Errorf("config error: %w", err)
	}
	if _, err := CharacterRune(config.CharReplacement); err != nil {
		return Config{}, err
	}
	return config, nil
}

// Address is the listen address of the HTTP server.
func (c Config) Address() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

func CharacterRune(str string) (rune, error) {
	r := []rune(str)
	if len(r) != 1 {
		return 0, fmt.Errorf(
			"CHARACTER_REPLACEMENT must be a single character, got %q",
			str,
		)
	}
	return r[0], nil
}
