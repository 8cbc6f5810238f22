package translate

import (
	"chat-relay/errors"
	"context"
	"fmt"
	"log/slog"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	awstranslate "github.com/aws/aws-sdk-go-v2/service/translate"
	"github.com/mama165/sdk-go/logs"
	"github.com/stretchr/testify/require"
)

type fakeClient struct {
	input *awstranslate.TranslateTextInput
	out   *awstranslate.TranslateTextOutput
	err   error
}

func (f *fakeClient) TranslateText(_ context.Context, params *awstranslate.TranslateTextInput,
	_ ...func(*awstranslate.Options)) (*awstranslate.TranslateTextOutput, error) {
	f.input = params
	return f.out, f.err
}

func TestAWSTranslator_Translate(t *testing.T) {
	log := logs.GetLoggerFromLevel(slog.LevelDebug)

	tests := []struct {
		description string
		client      *fakeClient
		expected    string
		wantErr     bool
	}{
		{
			"Should return the translated text",
			&fakeClient{out: &awstranslate.TranslateTextOutput{TranslatedText: aws.String("hola")}},
			"hola",
			false,
		},
		{
			"Should fail on a provider error",
			&fakeClient{err: fmt.Errorf("throttled")},
			"",
			true,
		},
		{
			"Should fail on a missing text",
			&fakeClient{out: &awstranslate.TranslateTextOutput{}},
			"",
			true,
		},
		{
			"Should fail on an empty text",
			&fakeClient{out: &awstranslate.TranslateTextOutput{TranslatedText: aws.String("")}},
			"",
			true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.description, func(t *testing.T) {
			req := require.New(t)
			translator := NewAWSTranslatorWithClient(log, tt.client)

			got, err := translator.Translate(context.Background(), "hello", "en", "es")

			req.Equal("hello", aws.ToString(tt.client.input.Text))
			req.Equal("en", aws.ToString(tt.client.input.SourceLanguageCode))
			req.Equal("es", aws.ToString(tt.client.input.TargetLanguageCode))
			if tt.wantErr {
				req.ErrorIs(err, errors.ErrTranslationUnavailable)
				return
			}
			req.NoError(err)
			req.Equal(tt.expected, got)
		})
	}
}
