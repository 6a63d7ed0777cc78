package recording

import (
	"context"
	"fmt"
	"os"
	"time"

	"mentorhub/config"
	"mentorhub/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.uber.org/zap"
)

// Run executes the pipeline for one session, resuming from the first
// incomplete stage. A stage failure is recorded on the session and
// returned; nothing already written is rolled back.
func (s *DefaultPipelineService) Run(ctx context.Context, sessionID string) error {
	sess, err := s.Sessions.GetByID(ctx, sessionID)
	if err != nil {
		return err
	}
	if sess.Recording.IngestedAt == nil {
		return ErrNotIngested
	}
	if sess.Recording.Attempts >= MaxAttempts {
		s.Logger.Warn("recording pipeline attempts exhausted, waiting for manual retry",
			zap.String("session", sessionID),
			zap.Int("attempts", sess.Recording.Attempts),
			zap.String("lastError", sess.Recording.LastError))
		return ErrAttemptsExhausted
	}

	rec := sess.Recording

	if rec.StorageKey == "" {
		key, err := s.downloadAndStore(ctx, sess)
		if err != nil {
			return s.fail(ctx, sessionID, "store", err)
		}
		now := time.Now().UTC()
		if err := s.Sessions.UpdateRecording(ctx, sessionID, bson.M{
			"storage_key":  key,
			"available_at": now,
		}); err != nil {
			return s.fail(ctx, sessionID, "store", err)
		}
		rec.StorageKey = key
		s.Logger.Info("recording stored",
			zap.String("session", sessionID), zap.String("key", key))
	}

	if !rec.TranscriptProcessed {
		transcript, err := s.transcribeStored(ctx, rec.StorageKey)
		if err != nil {
			return s.fail(ctx, sessionID, "transcribe", err)
		}
		if err := s.Sessions.UpdateRecording(ctx, sessionID, bson.M{
			"transcript":           transcript,
			"transcript_processed": true,
		}); err != nil {
			return s.fail(ctx, sessionID, "transcribe", err)
		}
		rec.Transcript = transcript
		s.Logger.Info("recording transcribed",
			zap.String("session", sessionID), zap.Int("chars", len(transcript)))
	}

	if rec.Summary == "" && rec.Transcript != "" {
		summary, err := s.Summarizer.Summarize(ctx, rec.Transcript)
		if err != nil {
			return s.fail(ctx, sessionID, "summarize", err)
		}
		if err := s.Sessions.UpdateRecording(ctx, sessionID, bson.M{
			"summary": summary,
		}); err != nil {
			return s.fail(ctx, sessionID, "summarize", err)
		}
		s.Logger.Info("recording summarized", zap.String("session", sessionID))
	}

	return nil
}

// Retry clears stage markers (keeping the provider download coordinates)
// and reruns everything from the download stage.
func (s *DefaultPipelineService) Retry(ctx context.Context, sessionID string) error {
	sess, err := s.Sessions.GetByID(ctx, sessionID)
	if err != nil {
		return err
	}
	if sess.Recording.IngestedAt == nil {
		return ErrNotIngested
	}
	if err := s.Sessions.ResetRecording(ctx, sessionID); err != nil {
		return fmt.Errorf("failed to reset recording state: %w", err)
	}
	s.Logger.Info("recording pipeline reset for retry", zap.String("session", sessionID))
	return s.Run(ctx, sessionID)
}

// downloadAndStore streams the artifact from the provider into a temp
// file, then uploads it to durable storage.
func (s *DefaultPipelineService) downloadAndStore(ctx context.Context, sess *models.Session) (string, error) {
	if sess.Recording.DownloadURL == "" {
		return "", fmt.Errorf("session %s has no recording download url", sess.ID)
	}

	tmp, err := os.CreateTemp("", "recording-*.mp4")
	if err != nil {
		return "", fmt.Errorf("failed to create temp file: %w", err)
	}
	defer os.Remove(tmp.Name())
	defer tmp.Close()

	if err := s.Downloader.DownloadRecording(ctx, sess.Recording.DownloadURL, sess.Recording.DownloadToken, tmp); err != nil {
		return "", fmt.Errorf("failed to download recording: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		return "", fmt.Errorf("failed to flush recording file: %w", err)
	}

	publicID := fmt.Sprintf("recordings/%s", sess.ID)
	key, err := s.Storage.UploadRecording(ctx, tmp.Name(), publicID)
	if err != nil {
		return "", fmt.Errorf("failed to upload recording: %w", err)
	}
	return key, nil
}

// transcribeStored pulls the stored artifact back through a short-lived
// signed URL so the transcribe stage works even when the download stage
// ran in a different process.
func (s *DefaultPipelineService) transcribeStored(ctx context.Context, storageKey string) (string, error) {
	url, err := s.Storage.SignedDownloadURL(ctx, storageKey, config.Rules().RecordingURLLife)
	if err != nil {
		return "", fmt.Errorf("failed to sign recording url: %w", err)
	}

	tmp, err := os.CreateTemp("", "transcribe-*.mp4")
	if err != nil {
		return "", fmt.Errorf("failed to create temp file: %w", err)
	}
	defer os.Remove(tmp.Name())
	defer tmp.Close()

	// Stored artifacts need no bearer token, only the signed URL.
	if err := s.Downloader.DownloadRecording(ctx, url, "", tmp); err != nil {
		return "", fmt.Errorf("failed to fetch stored recording: %w", err)
	}

	transcript, err := s.Transcriber.Transcribe(ctx, tmp.Name())
	if err != nil {
		return "", fmt.Errorf("transcription failed: %w", err)
	}
	return transcript, nil
}

// fail records the stage failure on the session and returns the error so
// the caller (worker or handler) can surface it.
func (s *DefaultPipelineService) fail(ctx context.Context, sessionID, stage string, cause error) error {
	if rerr := s.Sessions.RecordRecordingFailure(ctx, sessionID, stage, cause); rerr != nil {
		s.Logger.Error("failed to record pipeline failure",
			zap.String("session", sessionID), zap.Error(rerr))
	}
	s.Logger.Error("recording pipeline stage failed",
		zap.String("session", sessionID),
		zap.String("stage", stage),
		zap.Error(cause))
	return fmt.Errorf("recording %s stage: %w", stage, cause)
}
