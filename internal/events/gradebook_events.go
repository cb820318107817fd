package events

import (
	"time"

	"github.com/google/uuid"
)

// EventType represents the kinds of gradebook events
type EventType string

const (
	// Persistence events
	EventGradebookSaved EventType = "gradebook.saved"
	EventPersistFailed  EventType = "gradebook.persist_failed"

	// Course events
	EventCourseImported EventType = "course.imported"
	EventCourseDeleted  EventType = "course.deleted"
)

const (
	eventSource  = "gradebook"
	eventVersion = "1.0"
)

// Event is the envelope of every published gradebook event
type Event struct {
	ID        string                 `json:"id"`
	Type      EventType              `json:"type"`
	Timestamp time.Time              `json:"timestamp"`
	Source    string                 `json:"source"`
	Version   string                 `json:"version"`
	Data      interface{}            `json:"data"`
	Metadata  map[string]interface{} `json:"metadata,omitempty"`
}

// NewEvent wraps data in an envelope with a fresh ID
func NewEvent(eventType EventType, data interface{}) *Event {
	return &Event{
		ID:        uuid.NewString(),
		Type:      eventType,
		Timestamp: time.Now().UTC(),
		Source:    eventSource,
		Version:   eventVersion,
		Data:      data,
	}
}

type GradebookSavedEvent struct {
	Operation   string `json:"operation"`
	CourseCount int    `json:"course_count"`
	Bytes       int    `json:"bytes"`
}

type PersistFailedEvent struct {
	Operation string `json:"operation"`
	Reason    string `json:"reason"`
}

type CourseImportedEvent struct {
	CourseName      string  `json:"course_name"`
	Credits         float64 `json:"credits"`
	CategoryCount   int     `json:"category_count"`
	AssignmentCount int     `json:"assignment_count"`
}

type CourseDeletedEvent struct {
	CourseName string `json:"course_name"`
	Index      int    `json:"index"`
}
