package api

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/davidahmann/campusguard/internal/coordinator"
)

// FailureObserver counts rejected requests.
type FailureObserver interface {
	ObserveRequestFailure(reason string)
}

type Handler struct {
	Coordinator   *coordinator.Coordinator
	Metrics       http.Handler
	Failures      FailureObserver
	AllowedOrigin string
	Logger        *slog.Logger
}

func (h *Handler) Root(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{
		"status":  "API running",
		"message": "Campus Safety AI backend is live",
	})
}

func (h *Handler) Health(w http.ResponseWriter, _ *http.Request) {
	if h.Coordinator == nil || h.Coordinator.Store() == nil {
		writeJSON(w, http.StatusServiceUnavailable, map[string]string{"status": "unconfigured"})
		return
	}
	store := h.Coordinator.Store()
	writeJSON(w, http.StatusOK, map[string]string{
		"status":      "ok",
		"campus":      store.CampusName(),
		"config_hash": store.Hash(),
	})
}

func (h *Handler) ReportIncident(w http.ResponseWriter, r *http.Request) {
	if h.Coordinator == nil {
		writeJSON(w, http.StatusNotImplemented, map[string]string{"error": "coordinator not configured"})
		return
	}

	var req ReportRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.fail("invalid_json")
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid json"})
		return
	}
	if err := req.Validate(); err != nil {
		h.fail("invalid_request")
		writeJSON(w, http.StatusUnprocessableEntity, map[string]string{"error": err.Error()})
		return
	}

	result, err := h.Coordinator.Process(req.Report())
	if err != nil {
		h.fail("pipeline")
		h.logger().Error("incident processing failed", "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}

	h.logger().Info("incident reported",
		"incident_id", result.Incident.IncidentID,
		"risk_level", result.Audit.RiskLevel,
		"decision_digest", result.DecisionDigest,
	)

	writeJSON(w, http.StatusOK, ReportResponse{
		Campus:            result.Campus,
		RiskLevel:         result.Audit.RiskLevel,
		Confidence:        result.Audit.ConfidenceLevel,
		Decision:          result.Audit.FinalDecision,
		EscalationChain:   result.Audit.EscalationChain,
		Explanation:       result.Audit.Explanation,
		EmergencyContacts: result.EmergencyContacts,
		IncidentID:        result.Incident.IncidentID,
		DecisionDigest:    result.DecisionDigest,
	})
}

func (h *Handler) fail(reason string) {
	if h.Failures != nil {
		h.Failures.ObserveRequestFailure(reason)
	}
}

func (h *Handler) logger() *slog.Logger {
	if h.Logger != nil {
		return h.Logger
	}
	return slog.Default()
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	_ = enc.Encode(payload)
}
