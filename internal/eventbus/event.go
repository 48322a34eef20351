package eventbus

import "time"

// Hiring decision events published by the HR routes.
const (
	EventApplicationAccepted = "application.accepted"
	EventApplicationRejected = "application.rejected"
)

// Payload keys carried by decision events.
const (
	KeyCandidateEmail = "candidate_email"
	KeyJobTitle       = "job_title"
	KeyHRName         = "hr_name"
	KeyHREmail        = "hr_email"
	KeyApplicationID  = "application_id"
)

// Event represents an application event published to the bus.
type Event struct {
	Type      string            `json:"type"`
	Timestamp time.Time         `json:"timestamp"`
	Payload   map[string]string `json:"payload"`
}

// Listener is a function that handles an event.
type Listener func(Event)
