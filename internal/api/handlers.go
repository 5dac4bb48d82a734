/**
 * @description
 * This file contains the HTTP handlers of the ledger API. Handlers parse the
 * request, call the application service and translate its errors into the
 * status codes and `{"error": ...}` bodies clients expect.
 *
 * @dependencies
 * - github.com/go-chi/chi/v5: URL parameters.
 * - internal/app, internal/domain: service logic and models.
 */

package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/ayush-bhatt-07/klix-marketplace/internal/app"
	"github.com/ayush-bhatt-07/klix-marketplace/internal/domain"
	"github.com/go-chi/chi/v5"
)

const maxBodyBytes = 1 << 20

// Error messages returned to clients.
const (
	msgTaskNotFound      = "Task not found"
	msgAlreadyAccepted   = "Already accepted"
	msgMissingCampaign   = "Missing required fields"
	msgMissingPayout     = "Missing influencerId or amount"
	msgInvalidBody       = "Invalid request body"
	msgInvalidInfluencer = "Invalid influencerId"
	msgInternal          = "Internal error"
)

// Handlers holds the application service that handlers will use.
type Handlers struct {
	service *app.Service
	logger  *slog.Logger
}

// NewHandlers creates a new instance of Handlers.
func NewHandlers(service *app.Service, logger *slog.Logger) *Handlers {
	if logger == nil {
		logger = slog.Default()
	}
	return &Handlers{service: service, logger: logger}
}

func (h *Handlers) health(w http.ResponseWriter, r *http.Request) {
	h.writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (h *Handlers) listTasks(w http.ResponseWriter, r *http.Request) {
	var influencerID *int64
	if raw := strings.TrimSpace(r.URL.Query().Get("influencerId")); raw != "" {
		// A non-numeric id is ignored and the full list is returned.
		if id, err := strconv.ParseInt(raw, 10, 64); err == nil {
			influencerID = &id
		}
	}

	tasks, err := h.service.ListTasks(r.Context(), influencerID)
	if err != nil {
		h.internalError(w, r, "list tasks", err)
		return
	}
	h.writeJSON(w, http.StatusOK, tasks)
}

func (h *Handlers) acceptTask(w http.ResponseWriter, r *http.Request) {
	taskID, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		h.writeError(w, http.StatusNotFound, msgTaskNotFound)
		return
	}

	var req domain.AcceptTaskRequest
	if err := json.NewDecoder(io.LimitReader(r.Body, maxBodyBytes)).Decode(&req); err != nil && !errors.Is(err, io.EOF) {
		h.writeError(w, http.StatusBadRequest, msgInvalidBody)
		return
	}
	influencer := domain.AnonymousInfluencer
	if req.Influencer != nil {
		influencer = *req.Influencer
	}

	res, err := h.service.AcceptTask(r.Context(), taskID, influencer)
	switch {
	case errors.Is(err, app.ErrTaskNotFound):
		h.writeError(w, http.StatusNotFound, msgTaskNotFound)
	case errors.Is(err, app.ErrAlreadyAccepted):
		h.writeError(w, http.StatusBadRequest, msgAlreadyAccepted)
	case err != nil:
		h.internalError(w, r, "accept task", err)
	default:
		h.writeJSON(w, http.StatusOK, res)
	}
}

func (h *Handlers) listCampaigns(w http.ResponseWriter, r *http.Request) {
	campaigns, err := h.service.ListCampaigns(r.Context())
	if err != nil {
		h.internalError(w, r, "list campaigns", err)
		return
	}
	h.writeJSON(w, http.StatusOK, campaigns)
}

func (h *Handlers) createCampaign(w http.ResponseWriter, r *http.Request) {
	var req domain.CreateCampaignRequest
	if err := decodeStrict(r, &req); err != nil {
		if errors.Is(err, io.EOF) {
			h.writeError(w, http.StatusBadRequest, msgMissingCampaign)
			return
		}
		h.logger.Warn("rejected campaign body", "component", "api", "error", err)
		h.writeError(w, http.StatusBadRequest, msgInvalidBody)
		return
	}

	res, err := h.service.CreateCampaign(r.Context(), req)
	switch {
	case errors.Is(err, app.ErrValidation):
		h.writeError(w, http.StatusBadRequest, msgMissingCampaign)
	case err != nil:
		h.internalError(w, r, "create campaign", err)
	default:
		h.writeJSON(w, http.StatusOK, res)
	}
}

func (h *Handlers) getWallet(w http.ResponseWriter, r *http.Request) {
	influencerID, err := strconv.ParseInt(chi.URLParam(r, "influencerId"), 10, 64)
	if err != nil {
		h.writeError(w, http.StatusBadRequest, msgInvalidInfluencer)
		return
	}

	wallet, err := h.service.GetWallet(r.Context(), influencerID)
	if err != nil {
		h.internalError(w, r, "get wallet", err)
		return
	}
	h.writeJSON(w, http.StatusOK, wallet)
}

func (h *Handlers) requestPayout(w http.ResponseWriter, r *http.Request) {
	var req domain.PayoutRequest
	if err := decodeStrict(r, &req); err != nil {
		if errors.Is(err, io.EOF) {
			h.writeError(w, http.StatusBadRequest, msgMissingPayout)
			return
		}
		h.logger.Warn("rejected payout body", "component", "api", "error", err)
		h.writeError(w, http.StatusBadRequest, msgInvalidBody)
		return
	}

	res, err := h.service.RequestPayout(r.Context(), req)
	switch {
	case errors.Is(err, app.ErrValidation):
		h.writeError(w, http.StatusBadRequest, msgMissingPayout)
	case err != nil:
		h.internalError(w, r, "payout", err)
	default:
		h.writeJSON(w, http.StatusOK, res)
	}
}

// decodeStrict rejects unknown fields and trailing data.
func decodeStrict(r *http.Request, dst interface{}) error {
	dec := json.NewDecoder(io.LimitReader(r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		return err
	}
	if dec.More() {
		return fmt.Errorf("unexpected data after JSON body")
	}
	return nil
}

func (h *Handlers) internalError(w http.ResponseWriter, r *http.Request, op string, err error) {
	h.logger.Error("request failed", "component", "api", "operation", op, "path", r.URL.Path, "error", err)
	h.writeError(w, http.StatusInternalServerError, msgInternal)
}

func (h *Handlers) writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if data != nil {
		if err := json.NewEncoder(w).Encode(data); err != nil {
			h.logger.Error("failed to encode response", "component", "api", "error", err)
		}
	}
}

// writeError is a helper for writing JSON error responses.
func (h *Handlers) writeError(w http.ResponseWriter, status int, message string) {
	h.writeJSON(w, status, map[string]string{"error": message})
}
