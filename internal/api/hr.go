package api

import (
	"encoding/json"
	"log/slog"
	"mime"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/shaharia-lab/jobportal/internal/service"
)

const maxBodyBytes = 1 << 20

// DecisionRequest is the body of a hiring decision. JSON and form bodies use
// the same field names.
type DecisionRequest struct {
	Decision       string `json:"decision"`
	CandidateEmail string `json:"candidateEmail"`
	JobTitle       string `json:"jobTitle"`
	HRName         string `json:"hrName"`
	HREmail        string `json:"hrEmail"`
}

// HRRoutes serves the hiring decision endpoints under /api/hr.
type HRRoutes struct {
	decisions service.DecisionService
	logger    *slog.Logger
}

// NewHRRoutes creates the HR collaborator.
func NewHRRoutes(decisions service.DecisionService, logger *slog.Logger) *HRRoutes {
	return &HRRoutes{decisions: decisions, logger: logger}
}

// Collaborator returns the routes mounted under /api/hr.
func (h *HRRoutes) Collaborator() Collaborator {
	return Collaborator{Prefix: "/api/hr", Mount: h.Mount}
}

// Mount registers the HR routes on r.
func (h *HRRoutes) Mount(r chi.Router) {
	r.Post("/applications/{id}/decision", Handle(h.logger, h.handleDecision))
}

// handleDecision records an accept or reject decision. The candidate email is
// sent in the background; the response never waits for it.
func (h *HRRoutes) handleDecision(w http.ResponseWriter, r *http.Request) error {
	req, err := decodeDecision(w, r)
	if err != nil {
		return err
	}

	if err := h.decisions.Record(r.Context(), service.Decision{
		ApplicationID:  chi.URLParam(r, "id"),
		Outcome:        req.Decision,
		CandidateEmail: req.CandidateEmail,
		JobTitle:       req.JobTitle,
		HRName:         req.HRName,
		HREmail:        req.HREmail,
	}); err != nil {
		return err
	}

	WriteJSON(w, http.StatusAccepted, map[string]string{"message": "Decision recorded"})
	return nil
}

// decodeDecision accepts application/json and application/x-www-form-urlencoded.
func decodeDecision(w http.ResponseWriter, r *http.Request) (DecisionRequest, error) {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)

	var req DecisionRequest
	mediaType, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
	if mediaType == "application/x-www-form-urlencoded" {
		if err := r.ParseForm(); err != nil {
			return req, BadRequest("invalid form body")
		}
		return DecisionRequest{
			Decision:       r.PostForm.Get("decision"),
			CandidateEmail: r.PostForm.Get("candidateEmail"),
			JobTitle:       r.PostForm.Get("jobTitle"),
			HRName:         r.PostForm.Get("hrName"),
			HREmail:        r.PostForm.Get("hrEmail"),
		}, nil
	}

	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		return req, BadRequest("invalid JSON body")
	}
	return req, nil
}
