package api

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"github.com/go-chi/chi/v5"

	"atelier/internal/domain"
	"atelier/internal/services"
	apperrors "atelier/pkg/errors"
)

// InquiryService is the submission workflow and admin surface consumed by the handlers
type InquiryService interface {
	Submit(ctx context.Context, in *services.SubmissionInput) (*services.SubmissionResult, error)
	List(ctx context.Context) ([]domain.Inquiry, error)
	Delete(ctx context.Context, id string) error
}

// AuthService exchanges credentials for a bearer token
type AuthService interface {
	Login(ctx context.Context, username, password string) (string, error)
}

// Handlers holds the HTTP handlers and their collaborators
type Handlers struct {
	inquiries   InquiryService
	auth        AuthService
	serviceName string
}

// NewHandlers creates the HTTP handlers
func NewHandlers(inquiries InquiryService, auth AuthService, serviceName string) *Handlers {
	return &Handlers{
		inquiries:   inquiries,
		auth:        auth,
		serviceName: serviceName,
	}
}

// Health reports service liveness
func (h *Handlers) Health(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, map[string]string{
		"status":  "healthy",
		"service": h.serviceName,
	})
}

// SubmitInquiry handles the public inquiry form submission
func (h *Handlers) SubmitInquiry(w http.ResponseWriter, r *http.Request) {
	var in services.SubmissionInput
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		respondJSON(w, http.StatusBadRequest, map[string]interface{}{
			"error":   "Invalid request body",
			"details": []string{"Request body must be valid JSON."},
		})
		return
	}

	result, err := h.inquiries.Submit(r.Context(), &in)
	if err != nil {
		var appErr *apperrors.AppError
		if errors.As(err, &appErr) && appErr.Code == apperrors.ErrCodeValidation {
			respondJSON(w, http.StatusBadRequest, map[string]interface{}{
				"error":   appErr.Message,
				"details": appErr.Details,
			})
			return
		}
		// Persistence failure: no record exists, the submission was not accepted.
		respondJSON(w, http.StatusInternalServerError, map[string]interface{}{
			"error":   "Failed to save inquiry",
			"details": err.Error(),
		})
		return
	}

	respondJSON(w, http.StatusOK, result)
}

// Authenticate exchanges admin credentials for a bearer token
func (h *Handlers) Authenticate(w http.ResponseWriter, r *http.Request) {
	var creds struct {
		Username string `json:"username"`
		Password string `json:"password"`
	}
	if err := json.NewDecoder(r.Body).Decode(&creds); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	token, err := h.auth.Login(r.Context(), creds.Username, creds.Password)
	if err != nil {
		var appErr *apperrors.AppError
		if errors.As(err, &appErr) && appErr.Code == apperrors.ErrCodeUnauthorized {
			respondError(w, http.StatusUnauthorized, appErr.Message)
			return
		}
		log.Printf("[API] Authenticate failed: %v", err)
		respondError(w, http.StatusInternalServerError, "Authentication failed")
		return
	}

	respondJSON(w, http.StatusOK, map[string]string{"token": token})
}

// ListInquiries returns all inquiries, newest first (admin only)
func (h *Handlers) ListInquiries(w http.ResponseWriter, r *http.Request) {
	inquiries, err := h.inquiries.List(r.Context())
	if err != nil {
		respondError(w, http.StatusInternalServerError, "Failed to fetch inquiries")
		return
	}
	if inquiries == nil {
		inquiries = []domain.Inquiry{}
	}

	respondJSON(w, http.StatusOK, inquiries)
}

// DeleteInquiry removes an inquiry by id (admin only). Deleting an id that
// does not exist reports the same success as deleting an existing one.
func (h *Handlers) DeleteInquiry(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	if principal, ok := PrincipalFromContext(r.Context()); ok {
		log.Printf("[API] DeleteInquiry: id=%s by %s", id, principal.Email)
	}

	if err := h.inquiries.Delete(r.Context(), id); err != nil {
		respondError(w, http.StatusInternalServerError, "Failed to delete inquiry")
		return
	}

	respondJSON(w, http.StatusOK, map[string]string{"message": "Inquiry deleted"})
}

func respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		log.Printf("[API] Failed to encode response: %v", err)
	}
}

func respondError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, map[string]string{"error": message})
}
