package recording

import (
	"context"
	"fmt"
	"os"
	"strings"

	speech "cloud.google.com/go/speech/apiv1"
	"google.golang.org/api/option"
	speechpb "google.golang.org/genproto/googleapis/cloud/speech/v1"
)

// GoogleTranscriber implements Transcriber on Google Cloud Speech-to-Text.
type GoogleTranscriber struct {
	CredentialsFile string
	LanguageCode    string
}

func NewGoogleTranscriber(credentialsFile string) *GoogleTranscriber {
	return &GoogleTranscriber{
		CredentialsFile: credentialsFile,
		LanguageCode:    "en-US",
	}
}

// Transcribe runs a long-running recognition over the audio file. Session
// recordings routinely exceed the synchronous size limit, so this always
// goes through the asynchronous API and waits on the operation.
func (t *GoogleTranscriber) Transcribe(ctx context.Context, audioPath string) (string, error) {
	client, err := speech.NewClient(ctx, option.WithCredentialsFile(t.CredentialsFile))
	if err != nil {
		return "", fmt.Errorf("failed to initialize speech client: %w", err)
	}
	defer client.Close()

	audio, err := os.ReadFile(audioPath)
	if err != nil {
		return "", fmt.Errorf("failed to read audio file: %w", err)
	}

	req := &speechpb.LongRunningRecognizeRequest{
		Config: &speechpb.RecognitionConfig{
			// Provider artifacts carry their own container headers; let
			// the service detect encoding and sample rate.
			Encoding:                   speechpb.RecognitionConfig_ENCODING_UNSPECIFIED,
			LanguageCode:               t.LanguageCode,
			EnableAutomaticPunctuation: true,
		},
		Audio: &speechpb.RecognitionAudio{
			AudioSource: &speechpb.RecognitionAudio_Content{
				Content: audio,
			},
		},
	}

	op, err := client.LongRunningRecognize(ctx, req)
	if err != nil {
		return "", fmt.Errorf("speech recognition request failed: %w", err)
	}
	resp, err := op.Wait(ctx)
	if err != nil {
		return "", fmt.Errorf("speech recognition failed: %w", err)
	}

	var transcript strings.Builder
	for _, result := range resp.Results {
		for _, alt := range result.Alternatives {
			transcript.WriteString(alt.Transcript + " ")
		}
	}
	return strings.TrimSpace(transcript.String()), nil
}
