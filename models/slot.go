package models

import "time"

// Allowed session durations in minutes.
const (
	DurationShort = 30
	DurationLong  = 60
)

// ValidDuration reports whether minutes is a bookable session length.
func ValidDuration(minutes int) bool {
	return minutes == DurationShort || minutes == DurationLong
}

// TimeSlot represents a mentor's pre-defined booking window.
// The Booked flag and SessionID change together, never independently:
// both are set by the same conditional update when a slot is reserved
// and cleared together when it is released.
type TimeSlot struct {
	ID              string    `bson:"id" json:"id"`
	MentorID        string    `bson:"mentor_id" json:"mentorId"`
	StartTime       time.Time `bson:"start_time" json:"startTime"` // UTC
	DurationMinutes int       `bson:"duration_minutes" json:"durationMinutes"`
	Booked          bool      `bson:"booked" json:"booked"`
	SessionID       string    `bson:"session_id,omitempty" json:"sessionId,omitempty"`
	CreatedAt       time.Time `bson:"created_at" json:"createdAt"`
}

// EndTime returns the slot's end timestamp.
func (s TimeSlot) EndTime() time.Time {
	return s.StartTime.Add(time.Duration(s.DurationMinutes) * time.Minute)
}

// CreateTimeSlotsRequest defines the payload for batch slot creation.
type CreateTimeSlotsRequest struct {
	TimeSlots []TimeSlot `json:"timeSlots" binding:"required"`
}
