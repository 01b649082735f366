package events

import (
	"time"

	"github.com/google/uuid"
)

// EventType represents different types of exam form events
type EventType string

const (
	EventSubmissionRecorded   EventType = "submission.recorded"
	EventSubmissionIncomplete EventType = "submission.incomplete"
)

const (
	eventSource  = "exam-form-service"
	eventVersion = "1.0"
)

// Event is the envelope every published event shares
type Event struct {
	ID        string                 `json:"id"`
	Type      EventType              `json:"type"`
	Timestamp time.Time              `json:"timestamp"`
	Source    string                 `json:"source"`
	Version   string                 `json:"version"`
	Data      interface{}            `json:"data"`
	Metadata  map[string]interface{} `json:"metadata,omitempty"`
}

// SubmissionEvent is the payload of submission events
type SubmissionEvent struct {
	SessionID   string    `json:"session_id"`
	Class       string    `json:"class"`
	Nickname    string    `json:"nickname"`
	RollNumber  string    `json:"roll_number"`
	FileName    string    `json:"file_name,omitempty"`
	Total       float64   `json:"total"`
	MaxScore    float64   `json:"max_score"`
	SubmittedAt time.Time `json:"submitted_at"`
	FileWritten bool      `json:"file_written"`
	RowAppended bool      `json:"row_appended"`
}

// NewSubmissionEvent picks the event type from the outcome of both stages.
func NewSubmissionEvent(data SubmissionEvent) *Event {
	eventType := EventSubmissionRecorded
	if !data.FileWritten || !data.RowAppended {
		eventType = EventSubmissionIncomplete
	}
	return &Event{
		ID:        GenerateEventID(),
		Type:      eventType,
		Timestamp: time.Now(),
		Source:    eventSource,
		Version:   eventVersion,
		Data:      data,
	}
}

// PartitionKey groups events by class; other payloads share one key.
func (e *Event) PartitionKey() string {
	if data, ok := e.Data.(SubmissionEvent); ok && data.Class != "" {
		return data.Class
	}
	return string(e.Type)
}

func GenerateEventID() string {
	return uuid.NewString()
}
