package meeting

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

// ZoomProvider implements Provider (and the recording downloader) against
// a Zoom-compatible REST API.
type ZoomProvider struct {
	BaseURL string
	Token   string
	client  *http.Client
}

func NewZoomProvider(baseURL, token string) *ZoomProvider {
	return &ZoomProvider{
		BaseURL: baseURL,
		Token:   token,
		client:  &http.Client{Timeout: 15 * time.Second},
	}
}

type createMeetingRequest struct {
	Topic     string `json:"topic"`
	Type      int    `json:"type"`
	StartTime string `json:"start_time"`
	Duration  int    `json:"duration"`
	Timezone  string `json:"timezone"`
}

type createMeetingResponse struct {
	ID       int64  `json:"id"`
	JoinURL  string `json:"join_url"`
	Password string `json:"password"`
}

func (z *ZoomProvider) Create(ctx context.Context, topic string, start time.Time, durationMinutes int) (*MeetingInfo, error) {
	body, err := json.Marshal(createMeetingRequest{
		Topic:     topic,
		Type:      2, // scheduled meeting
		StartTime: start.UTC().Format("2006-01-02T15:04:05Z"),
		Duration:  durationMinutes,
		Timezone:  "UTC",
	})
	if err != nil {
		return nil, fmt.Errorf("zoom: failed to marshal meeting request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, z.BaseURL+"/users/me/meetings", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("zoom: failed to build request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+z.Token)
	req.Header.Set("Content-Type", "application/json")

	resp, err := z.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("zoom: create meeting call failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusCreated && resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("zoom: create meeting returned status %d", resp.StatusCode)
	}

	var out createMeetingResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, fmt.Errorf("zoom: failed to decode meeting response: %w", err)
	}
	return &MeetingInfo{
		ID:       fmt.Sprintf("%d", out.ID),
		JoinURL:  out.JoinURL,
		Passcode: out.Password,
	}, nil
}

func (z *ZoomProvider) End(ctx context.Context, meetingID string) error {
	body := []byte(`{"action":"end"}`)
	req, err := http.NewRequestWithContext(ctx, http.MethodPut, z.BaseURL+"/meetings/"+meetingID+"/status", bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("zoom: failed to build end request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+z.Token)
	req.Header.Set("Content-Type", "application/json")

	resp, err := z.client.Do(req)
	if err != nil {
		return fmt.Errorf("zoom: end meeting call failed: %w", err)
	}
	defer resp.Body.Close()

	// 404 means the meeting is already gone, which is fine for an end.
	if resp.StatusCode >= 300 && resp.StatusCode != http.StatusNotFound {
		return fmt.Errorf("zoom: end meeting returned status %d", resp.StatusCode)
	}
	return nil
}

// DownloadRecording streams a recording artifact to a local file using the
// short-lived access token from the recording webhook.
func (z *ZoomProvider) DownloadRecording(ctx context.Context, downloadURL, accessToken string, dest io.Writer) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, downloadURL, nil)
	if err != nil {
		return fmt.Errorf("zoom: failed to build download request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+accessToken)

	resp, err := z.client.Do(req)
	if err != nil {
		return fmt.Errorf("zoom: recording download failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("zoom: recording download returned status %d", resp.StatusCode)
	}
	if _, err := io.Copy(dest, resp.Body); err != nil {
		return fmt.Errorf("zoom: failed to write recording: %w", err)
	}
	return nil
}
