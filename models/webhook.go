package models

// MeetingEventKind is the closed set of meeting webhook events the system
// acts on. Everything else parses to MeetingEventUnknown, which is logged
// and acknowledged rather than dropped silently.
type MeetingEventKind int

const (
	MeetingEventUnknown MeetingEventKind = iota
	MeetingEventURLValidation
	MeetingEventStarted
	MeetingEventEnded
	MeetingEventRecordingCompleted
	MeetingEventTranscriptCompleted
)

// Wire names used by the video provider.
const (
	EventNameURLValidation       = "endpoint.url_validation"
	EventNameMeetingStarted      = "meeting.started"
	EventNameMeetingEnded        = "meeting.ended"
	EventNameRecordingCompleted  = "recording.completed"
	EventNameTranscriptCompleted = "recording.transcript_completed"
)

// ParseMeetingEvent maps a wire event name onto the closed event set.
func ParseMeetingEvent(name string) MeetingEventKind {
	switch name {
	case EventNameURLValidation:
		return MeetingEventURLValidation
	case EventNameMeetingStarted:
		return MeetingEventStarted
	case EventNameMeetingEnded:
		return MeetingEventEnded
	case EventNameRecordingCompleted:
		return MeetingEventRecordingCompleted
	case EventNameTranscriptCompleted:
		return MeetingEventTranscriptCompleted
	default:
		return MeetingEventUnknown
	}
}

// RecordingFile is one artifact attached to a recording webhook.
type RecordingFile struct {
	ID          string `json:"id"`
	FileType    string `json:"fileType"`
	DownloadURL string `json:"downloadUrl"`
}

// MeetingWebhookObject is the meeting payload of a provider webhook.
type MeetingWebhookObject struct {
	ID                  string          `json:"id"`
	Topic               string          `json:"topic"`
	Duration            int             `json:"duration"`
	RecordingFiles      []RecordingFile `json:"recordingFiles"`
	DownloadAccessToken string          `json:"downloadAccessToken"`
}

// MeetingWebhookPayload is the payload section of the envelope.
type MeetingWebhookPayload struct {
	Object     MeetingWebhookObject `json:"object"`
	PlainToken string               `json:"plainToken,omitempty"`
}

// MeetingWebhookEnvelope is the full inbound webhook body.
type MeetingWebhookEnvelope struct {
	Event   string                `json:"event"`
	EventID string                `json:"eventId"`
	EventTS int64                 `json:"eventTs"`
	Payload MeetingWebhookPayload `json:"payload"`
}
