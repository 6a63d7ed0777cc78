package recording

import (
	"context"
	"io"

	sessionRepo "mentorhub/database/repository/session"
	"mentorhub/services/storage"

	"go.uber.org/zap"
)

// MaxAttempts caps automatic pipeline retries. Past this, the failure is
// surfaced on the session and processing waits for a manual retry.
const MaxAttempts = 5

// Downloader fetches a recording artifact from the meeting provider.
// Satisfied by the provider client.
type Downloader interface {
	DownloadRecording(ctx context.Context, downloadURL, accessToken string, dest io.Writer) error
}

// Transcriber turns a recording audio file into text.
type Transcriber interface {
	Transcribe(ctx context.Context, audioPath string) (string, error)
}

// Summarizer condenses a transcript into session notes.
type Summarizer interface {
	Summarize(ctx context.Context, transcript string) (string, error)
}

// PipelineService runs the post-session recording pipeline:
// download, durable store, transcribe, summarize. Progress persists on
// the session after each stage, so a run resumes at the first incomplete
// stage and a completed stage is never redone.
type PipelineService interface {
	Run(ctx context.Context, sessionID string) error
	// Retry clears stage markers and reruns the whole pipeline from the
	// download stage. Manual escape hatch for a wedged recording.
	Retry(ctx context.Context, sessionID string) error
}

// DefaultPipelineService implements PipelineService.
type DefaultPipelineService struct {
	Sessions    sessionRepo.SessionRepository
	Downloader  Downloader
	Storage     storage.StorageService
	Transcriber Transcriber
	Summarizer  Summarizer
	Logger      *zap.Logger
}
