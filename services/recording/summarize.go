package recording

import (
	"context"
	"fmt"
	"strings"

	genai "github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"
)

const summaryPrompt = `You are summarizing a mentorship session transcript.
Produce concise session notes: the topics covered, the advice given, and
any agreed follow-up actions. Keep it under 300 words.

Transcript:
`

// GeminiSummarizer implements Summarizer on the Gemini API.
type GeminiSummarizer struct {
	model *genai.GenerativeModel
}

func NewGeminiSummarizer(apiKey string) (*GeminiSummarizer, error) {
	ctx := context.Background()
	client, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("failed to create gemini client: %w", err)
	}
	return &GeminiSummarizer{model: client.GenerativeModel("models/gemini-1.5-pro")}, nil
}

func (g *GeminiSummarizer) Summarize(ctx context.Context, transcript string) (string, error) {
	resp, err := g.model.GenerateContent(ctx, genai.Text(summaryPrompt+transcript))
	if err != nil {
		return "", fmt.Errorf("gemini generate error: %w", err)
	}
	if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return "", fmt.Errorf("gemini returned no candidates")
	}

	var sb strings.Builder
	for _, part := range resp.Candidates[0].Content.Parts {
		if text, ok := part.(genai.Text); ok {
			sb.WriteString(string(text))
		}
	}
	return strings.TrimSpace(sb.String()), nil
}
