package service

import (
	"context"
	"log/slog"
	"net/mail"
	"strings"

	"github.com/shaharia-lab/jobportal/internal/eventbus"
)

// Hiring decision outcomes.
const (
	OutcomeAccepted = "accepted"
	OutcomeRejected = "rejected"
)

// Decision is an HR verdict on one application.
type Decision struct {
	ApplicationID  string
	Outcome        string
	CandidateEmail string
	JobTitle       string
	HRName         string
	HREmail        string
}

// DecisionService records hiring decisions. The candidate email is sent
// asynchronously by whoever listens on the event bus.
type DecisionService interface {
	// Record validates d and publishes the matching decision event.
	// Invalid input yields a *ValidationError and publishes nothing.
	Record(ctx context.Context, d Decision) error
}

type decisionServiceImpl struct {
	events EventPublisher
	logger *slog.Logger
}

// NewDecisionService creates a new DecisionService.
func NewDecisionService(events EventPublisher, logger *slog.Logger) DecisionService {
	return &decisionServiceImpl{events: events, logger: logger}
}

func (s *decisionServiceImpl) Record(_ context.Context, d Decision) error {
	d = normalizeDecision(d)
	if err := validateDecision(d); err != nil {
		return err
	}

	eventType := eventbus.EventApplicationRejected
	if d.Outcome == OutcomeAccepted {
		eventType = eventbus.EventApplicationAccepted
	}
	s.events.Publish(eventType, map[string]string{
		eventbus.KeyApplicationID:  d.ApplicationID,
		eventbus.KeyCandidateEmail: d.CandidateEmail,
		eventbus.KeyJobTitle:       d.JobTitle,
		eventbus.KeyHRName:         d.HRName,
		eventbus.KeyHREmail:        d.HREmail,
	})
	s.logger.Info("decision recorded", "application_id", d.ApplicationID, "decision", d.Outcome)
	return nil
}

func normalizeDecision(d Decision) Decision {
	d.ApplicationID = strings.TrimSpace(d.ApplicationID)
	d.Outcome = strings.ToLower(strings.TrimSpace(d.Outcome))
	d.CandidateEmail = strings.TrimSpace(d.CandidateEmail)
	d.JobTitle = strings.TrimSpace(d.JobTitle)
	d.HRName = strings.TrimSpace(d.HRName)
	d.HREmail = strings.TrimSpace(d.HREmail)
	return d
}

func validateDecision(d Decision) error {
	if d.Outcome != OutcomeAccepted && d.Outcome != OutcomeRejected {
		return &ValidationError{Field: "decision", Message: "decision must be accepted or rejected"}
	}
	if d.CandidateEmail == "" {
		return &ValidationError{Field: "candidateEmail", Message: "candidateEmail is required"}
	}
	if !isBareAddress(d.CandidateEmail) {
		return &ValidationError{Field: "candidateEmail", Message: "candidateEmail is not a valid address"}
	}
	if d.JobTitle == "" {
		return &ValidationError{Field: "jobTitle", Message: "jobTitle is required"}
	}
	// hrEmail is optional but becomes the mailto target of the signature.
	if d.HREmail != "" && !isBareAddress(d.HREmail) {
		return &ValidationError{Field: "hrEmail", Message: "hrEmail is not a valid address"}
	}
	return nil
}

// isBareAddress reports whether s is a plain addr-spec with no display name.
func isBareAddress(s string) bool {
	addr, err := mail.ParseAddress(s)
	return err == nil && addr.Address == s
}
