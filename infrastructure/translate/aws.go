// Package translate adapts Amazon Translate to contract.Translator.
package translate

import (
	"chat-relay/contract"
	"chat-relay/errors"
	"context"
	"fmt"
	"log/slog"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	awstranslate "github.com/aws/aws-sdk-go-v2/service/translate"
)

var _ contract.Translator = (*AWSTranslator)(nil)

// TranslateAPI is the subset of the Amazon Translate client in use.
type TranslateAPI interface {
	TranslateText(ctx context.Context, params *awstranslate.TranslateTextInput,
		optFns ...func(*awstranslate.Options)) (*awstranslate.TranslateTextOutput, error)
}

type AWSTranslator struct {
	log    *slog.Logger
	client TranslateAPI
}

// NewAWSTranslator loads the default AWS credential chain for region.
func NewAWSTranslator(ctx context.Context, log *slog.Logger, region string) (*AWSTranslator, error) {
	cfg, err := config.LoadDefaultConfig(ctx, config.WithRegion(region))
	if err != nil {
		return nil, fmt.Errorf("unable to load AWS config: %w", err)
	}
	return NewAWSTranslatorWithClient(log, awstranslate.NewFromConfig(cfg)), nil
}

func NewAWSTranslatorWithClient(log *slog.Logger, client TranslateAPI) *AWSTranslator {
	return &AWSTranslator{log: log, client: client}
}

// Translate returns ErrTranslationUnavailable for provider errors and empty results.
func (t *AWSTranslator) Translate(ctx context.Context, text, sourceLang, targetLang string) (string, error) {
	out, err := t.client.TranslateText(ctx, &awstranslate.TranslateTextInput{
		Text:               aws.String(text),
		SourceLanguageCode: aws.String(sourceLang),
		TargetLanguageCode: aws.String(targetLang),
	})
	if err != nil {
		return "", fmt.Errorf("%w: %s->%s: %v", errors.ErrTranslationUnavailable, sourceLang, targetLang, err)
	}
	translated := aws.ToString(out.TranslatedText)
	if translated == "" {
		return "", fmt.Errorf("%w: %s->%s: empty response", errors.ErrTranslationUnavailable, sourceLang, targetLang)
	}
	t.log.Debug("Text translated", "source", sourceLang, "target", targetLang)
	return translated, nil
}
